package server

import (
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/solentmarks/markquiz/internal/gpx"
	"github.com/solentmarks/markquiz/internal/markquiz"
)

// AdminMarksRequest is the JSON form of a catalog import. GPX bodies are
// accepted as application/gpx+xml instead.
type AdminMarksRequest struct {
	Marks []markquiz.Mark `json:"marks"`
}

type AdminMarksResponse struct {
	Chart string `json:"chart"`
	Marks int    `json:"marks"`
}

func handleAdminReplaceMarks(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

		var marks []markquiz.Mark
		switch mediaType {
		case "application/gpx+xml", "application/xml", "text/xml":
			defer r.Body.Close()
			parsed, err := gpx.Parse(http.MaxBytesReader(w, r.Body, maxBodyBytes))
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid gpx body")
				return
			}
			marks = parsed
		default:
			var req AdminMarksRequest
			if err := readJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			if err := validateMarks(req.Marks); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			marks = req.Marks
		}

		if len(marks) == 0 {
			writeError(w, http.StatusBadRequest, "no usable marks in body")
			return
		}

		if err := chartStore(r).ReplaceMarks(r.Context(), marks); err != nil {
			logger.Error("replacing marks failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		chart := chi.URLParam(r, "chart")
		logger.Info("chart marks replaced", "chart", chart, "marks", len(marks))
		writeJSON(w, http.StatusOK, AdminMarksResponse{Chart: chart, Marks: len(marks)})
	}
}

// validateMarks checks a JSON import and fills in sponsors the way the GPX
// reader derives them.
func validateMarks(marks []markquiz.Mark) error {
	seen := make(map[string]bool, len(marks))
	for i := range marks {
		m := &marks[i]
		m.ID = strings.TrimSpace(m.ID)
		m.Name = strings.TrimSpace(m.Name)

		switch {
		case m.ID == "":
			return fmt.Errorf("mark %d: id is required", i)
		case seen[m.ID]:
			return fmt.Errorf("mark %d: duplicate id %q", i, m.ID)
		case m.Name == "":
			return fmt.Errorf("mark %q: name is required", m.ID)
		case m.Lat < -90 || m.Lat > 90 || m.Lon < -180 || m.Lon > 180:
			return fmt.Errorf("mark %q: position out of range", m.ID)
		}
		if _, err := markquiz.ParseSymbol(string(m.Symbol)); err != nil {
			return fmt.Errorf("mark %q: %w", m.ID, err)
		}
		if m.Sponsor == "" {
			m.Sponsor = gpx.Sponsor(m.Description)
		}
		seen[m.ID] = true
	}
	return nil
}
