package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/solentmarks/markquiz/internal/catalog"
	"github.com/solentmarks/markquiz/internal/config"
	"github.com/solentmarks/markquiz/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Chart catalog ---
	charts := catalog.NewRegistry(cfg.DBDir)
	defer charts.Close()

	if cfg.DefaultChart != "" {
		store, err := charts.Create(ctx, cfg.DefaultChart)
		if err != nil {
			return fmt.Errorf("opening default chart: %w", err)
		}
		if err := catalog.Seed(ctx, logger, store, cfg.SeedGPX); err != nil {
			return fmt.Errorf("seeding default chart: %w", err)
		}
		n, err := store.Count(ctx)
		if err != nil {
			return fmt.Errorf("counting marks: %w", err)
		}
		logger.Info("default chart ready", "chart", cfg.DefaultChart, "marks", n, "dir", cfg.DBDir)
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Options{
		Charts:            charts,
		DefaultChart:      cfg.DefaultChart,
		SPADir:            cfg.SPADir,
		CORSOrigins:       cfg.CORSOrigins,
		AdminUser:         cfg.AdminUser,
		AdminPasswordHash: cfg.AdminPasswordHash,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
