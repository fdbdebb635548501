package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kvsankar/sattosat/internal/api"
	"github.com/kvsankar/sattosat/internal/config"
)

func main() {
	bootstrap := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	path := os.Getenv("SATTOSAT_CONFIG")
	if path == "" {
		path = "config.yaml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		bootstrap.Error("invalid configuration", "path", path, "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	pairs, err := api.LoadPairs(cfg.Pairs)
	if err != nil {
		logger.Error("loading satellite pairs", "error", err)
		os.Exit(1)
	}
	for _, name := range pairs.Names() {
		p, _ := pairs.Get(name)
		logger.Info("pair loaded",
			"pair", name,
			"snapshots_a", p.CatA.Len(),
			"snapshots_b", p.CatB.Len(),
			"window_start", p.WindowStart().Format(time.RFC3339),
		)
	}

	srv := api.NewServer(cfg, pairs, logger)
	httpSrv := srv.HTTPServer()

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting server",
			"addr", cfg.HTTPAddr,
			"pairs", len(pairs.Names()),
			"auth_enabled", cfg.Auth.Enabled,
		)
		srv.SetReady()
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server listen error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
