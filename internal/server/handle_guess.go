package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/solentmarks/markquiz/internal/catalog"
	"github.com/solentmarks/markquiz/internal/game"
	"github.com/solentmarks/markquiz/internal/markquiz"
)

// GuessRequest carries the whole round: the server keeps no game state.
// A missing selectedId means the player ran out of time.
type GuessRequest struct {
	TargetID         string              `json:"targetId"`
	SelectedID       *string             `json:"selectedId,omitempty"`
	ElapsedSeconds   float64             `json:"elapsedSeconds"`
	Difficulty       markquiz.Difficulty `json:"difficulty"`
	TimeLimitSeconds int                 `json:"timeLimitSeconds,omitempty"`
	Streak           int                 `json:"streak"`
}

type GuessResponse struct {
	IsCorrect   bool           `json:"isCorrect"`
	TimedOut    bool           `json:"timedOut"`
	Points      int            `json:"points"`
	TimeBonus   int            `json:"timeBonus"`
	StreakBonus int            `json:"streakBonus"`
	TotalPoints int            `json:"totalPoints"`
	Streak      int            `json:"streak"`
	Target      markquiz.Mark  `json:"target"`
	Selected    *markquiz.Mark `json:"selected,omitempty"`
}

func handleGuess() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GuessRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.TargetID = strings.TrimSpace(req.TargetID)
		if req.TargetID == "" {
			writeError(w, http.StatusBadRequest, "targetId is required")
			return
		}
		if req.ElapsedSeconds < 0 || req.TimeLimitSeconds < 0 || req.Streak < 0 {
			writeError(w, http.StatusBadRequest, "numeric fields must not be negative")
			return
		}
		if req.Difficulty == "" {
			req.Difficulty = markquiz.Beginner
		}

		store := chartStore(r)

		target, ok := lookupMark(r.Context(), w, store, req.TargetID)
		if !ok {
			return
		}
		var selected *markquiz.Mark
		if req.SelectedID != nil {
			m, ok := lookupMark(r.Context(), w, store, *req.SelectedID)
			if !ok {
				return
			}
			selected = &m
		}

		res := game.Evaluate(target, selected, req.ElapsedSeconds, markquiz.Config{
			Difficulty:       req.Difficulty,
			TimeLimitSeconds: req.TimeLimitSeconds,
		})

		resp := GuessResponse{
			IsCorrect: res.IsCorrect,
			TimedOut:  res.TimedOut,
			Points:    res.Points,
			TimeBonus: res.TimeBonus,
			Target:    res.Target,
			Selected:  res.Selected,
		}
		if res.IsCorrect {
			resp.Streak = req.Streak + 1
			resp.StreakBonus = game.StreakBonus(resp.Streak)
		}
		resp.TotalPoints = resp.Points + resp.StreakBonus

		writeJSON(w, http.StatusOK, resp)
	}
}

// lookupMark writes a 404 or 500 and reports false when id cannot be loaded.
func lookupMark(ctx context.Context, w http.ResponseWriter, store MarkStore, id string) (markquiz.Mark, bool) {
	m, err := store.Mark(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "mark not found: "+id)
		return markquiz.Mark{}, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return markquiz.Mark{}, false
	}
	return m, true
}
