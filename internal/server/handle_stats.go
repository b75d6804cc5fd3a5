package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/solentmarks/markquiz/internal/game"
	"github.com/solentmarks/markquiz/internal/markquiz"
)

type StatsRequest struct {
	TotalQuestions int     `json:"totalQuestions"`
	CorrectAnswers int     `json:"correctAnswers"`
	TotalPoints    int     `json:"totalPoints"`
	ElapsedSeconds float64 `json:"elapsedSeconds"`
}

type TimeLimitResponse struct {
	Difficulty       markquiz.Difficulty `json:"difficulty"`
	TimeLimitSeconds int                 `json:"timeLimitSeconds"`
}

func handleStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StatsRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.TotalQuestions < 0 || req.CorrectAnswers < 0 || req.ElapsedSeconds < 0 {
			writeError(w, http.StatusBadRequest, "counts and elapsed time must not be negative")
			return
		}
		if req.CorrectAnswers > req.TotalQuestions {
			writeError(w, http.StatusBadRequest, "correctAnswers exceeds totalQuestions")
			return
		}

		writeJSON(w, http.StatusOK, game.GenerateStats(req.TotalQuestions, req.CorrectAnswers, req.TotalPoints, req.ElapsedSeconds))
	}
}

func handleTimeLimit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var d markquiz.Difficulty
		if err := d.UnmarshalText([]byte(chi.URLParam(r, "difficulty"))); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, TimeLimitResponse{Difficulty: d, TimeLimitSeconds: game.TimeLimit(d)})
	}
}
