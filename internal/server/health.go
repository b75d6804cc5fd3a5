package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/solentmarks/markquiz/internal/catalog"
)

// Checker verifies that a dependency is usable.
type Checker interface {
	Check(ctx context.Context) error
}

type checkFunc func(ctx context.Context) error

func (f checkFunc) Check(ctx context.Context) error { return f(ctx) }

// HealthResponse maps each check name to its status.
type HealthResponse map[string]HealthResult

type HealthResult struct {
	Status string `json:"status"`
}

// healthChecks is evaluated per request so charts opened after startup are
// included. The default chart must exist and hold at least one mark.
func healthChecks(charts *catalog.Registry, defaultChart string) func() map[string]Checker {
	return func() map[string]Checker {
		checks := make(map[string]Checker)
		for chart, store := range charts.Opened() {
			checks["sqlite:"+chart] = checkFunc(store.Ping)
		}
		if defaultChart != "" {
			checks["marks:"+defaultChart] = checkFunc(func(ctx context.Context) error {
				store, err := charts.Get(ctx, defaultChart)
				if err != nil {
					return err
				}
				n, err := store.Count(ctx)
				if err != nil {
					return err
				}
				if n == 0 {
					return errors.New("default chart has no marks")
				}
				return nil
			})
		}
		return checks
	}
}

func handleHealth(logger *slog.Logger, checks func() map[string]Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		results := make(HealthResponse)
		status := http.StatusOK

		for name, c := range checks() {
			if err := c.Check(ctx); err != nil {
				logger.Error("health check failed", "name", name, "error", err)
				results[name] = HealthResult{Status: "error"}
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = HealthResult{Status: "ok"}
		}

		writeJSON(w, status, results)
	}
}
