package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/solentmarks/markquiz/internal/game"
	"github.com/solentmarks/markquiz/internal/markquiz"
)

const defaultOptionCount = 5

type QuestionRequest struct {
	Difficulty       markquiz.Difficulty `json:"difficulty"`
	OptionCount      int                 `json:"optionCount"`
	TimeLimitSeconds int                 `json:"timeLimitSeconds,omitempty"`
}

type QuestionResponse struct {
	TargetID         string          `json:"targetId"`
	Options          []markquiz.Mark `json:"options"`
	ContextIDs       []string        `json:"contextIds"`
	TimeLimitSeconds int             `json:"timeLimitSeconds"`
	SponsorHint      string          `json:"sponsorHint,omitempty"`
}

func handleQuestion(logger *slog.Logger) http.HandlerFunc {
	gen := game.NewGenerator(nil)

	return func(w http.ResponseWriter, r *http.Request) {
		var req QuestionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Difficulty == "" {
			req.Difficulty = markquiz.Beginner
		}
		if req.OptionCount == 0 {
			req.OptionCount = defaultOptionCount
		}
		cfg := markquiz.Config{
			Difficulty:       req.Difficulty,
			OptionCount:      req.OptionCount,
			TimeLimitSeconds: req.TimeLimitSeconds,
		}
		if err := cfg.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		marks, err := chartStore(r).Marks(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		q, err := gen.Generate(marks, cfg)
		if errors.Is(err, game.ErrInsufficientMarkers) {
			logger.Warn("cannot build question", "error", err, "marks", len(marks))
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := QuestionResponse{
			TargetID:         q.Target.ID,
			Options:          q.Options,
			ContextIDs:       make([]string, 0, len(q.Context)),
			TimeLimitSeconds: game.EffectiveTimeLimit(cfg),
		}
		for _, m := range q.Context {
			resp.ContextIDs = append(resp.ContextIDs, m.ID)
		}
		if q.Target.HasSponsor() && !q.Target.SponsorHintSuppressed {
			resp.SponsorHint = game.Hint(q.Target, game.MaxHintLevel)
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
