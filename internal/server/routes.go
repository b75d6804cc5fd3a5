package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, opts Options) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Markquiz API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, healthChecks(opts.Charts, opts.DefaultChart)))

	r.Get("/api/time-limits/{difficulty}", handleTimeLimit())
	r.Post("/api/stats", handleStats())

	// Chart routes: {chart} resolved by chartMiddleware.
	r.Route("/api/charts/{chart}", func(r chi.Router) {
		r.Use(chartMiddleware(logger, opts.Charts.Get))
		r.Get("/marks", handleListMarks())
		r.Get("/marks/{markID}/hints/{level}", handleHint())
		r.Post("/questions", handleQuestion(logger))
		r.Post("/guesses", handleGuess())
	})

	if opts.AdminPasswordHash != "" {
		r.Route("/api/admin/charts/{chart}", func(r chi.Router) {
			r.Use(adminAuthMiddleware(opts.AdminUser, opts.AdminPasswordHash))
			r.Use(chartMiddleware(logger, opts.Charts.Create))
			r.Put("/marks", handleAdminReplaceMarks(logger))
		})
	} else {
		logger.Info("admin routes disabled", "reason", "ADMIN_PASSWORD_HASH not set")
	}

	if opts.SPADir != "" {
		if info, err := os.Stat(opts.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", opts.SPADir)
			r.NotFound(handleSPA(opts.SPADir))
		}
	}
}
