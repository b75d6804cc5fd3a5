package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/solentmarks/markquiz/internal/catalog"
	"github.com/solentmarks/markquiz/internal/markquiz"
)

// MarkStore is the per-chart catalog the handlers read and write.
type MarkStore interface {
	Marks(ctx context.Context) ([]markquiz.Mark, error)
	Mark(ctx context.Context, id string) (markquiz.Mark, error)
	ReplaceMarks(ctx context.Context, marks []markquiz.Mark) error
}

type ctxKey int

const ctxKeyStore ctxKey = iota

// chartOpener is Registry.Get for read routes and Registry.Create for imports.
type chartOpener func(ctx context.Context, chart string) (*catalog.Store, error)

func chartMiddleware(logger *slog.Logger, open chartOpener) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slug := chi.URLParam(r, "chart")
			if slug == "" {
				writeError(w, http.StatusNotFound, "chart not found")
				return
			}

			store, err := open(r.Context(), slug)
			switch {
			case errors.Is(err, catalog.ErrNotFound):
				writeError(w, http.StatusNotFound, "chart not found")
				return
			case err != nil:
				logger.Error("opening chart", "chart", slug, "error", err)
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyStore, MarkStore(store))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// adminAuthMiddleware checks HTTP basic credentials against a bcrypt hash.
func adminAuthMiddleware(user, passwordHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, p, ok := r.BasicAuth()
			userOK := subtle.ConstantTimeCompare([]byte(u), []byte(user)) == 1
			if !ok || !userOK || bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(p)) != nil {
				w.Header().Set("WWW-Authenticate", `Basic realm="markquiz admin"`)
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func chartStore(r *http.Request) MarkStore {
	return r.Context().Value(ctxKeyStore).(MarkStore)
}
