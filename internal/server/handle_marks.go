package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/solentmarks/markquiz/internal/catalog"
	"github.com/solentmarks/markquiz/internal/game"
	"github.com/solentmarks/markquiz/internal/markquiz"
)

type MarksResponse struct {
	Marks []markquiz.Mark `json:"marks"`
}

type HintResponse struct {
	MarkID   string `json:"markId"`
	Level    int    `json:"level"`
	MaxLevel int    `json:"maxLevel"`
	Hint     string `json:"hint"`
}

func handleListMarks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		marks, err := chartStore(r).Marks(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if marks == nil {
			marks = []markquiz.Mark{}
		}
		writeJSON(w, http.StatusOK, MarksResponse{Marks: marks})
	}
}

func handleHint() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		level, err := strconv.Atoi(chi.URLParam(r, "level"))
		if err != nil || level < 0 {
			writeError(w, http.StatusBadRequest, "level must be a non-negative integer")
			return
		}
		level = min(level, game.MaxHintLevel)

		id := chi.URLParam(r, "markID")
		m, err := chartStore(r).Mark(r.Context(), id)
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "mark not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, HintResponse{
			MarkID:   m.ID,
			Level:    level,
			MaxLevel: game.MaxHintLevel,
			Hint:     game.Hint(m, level),
		})
	}
}
