package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/LaborStats/internal/application"
	"github.com/JonMunkholm/LaborStats/internal/config"
	"github.com/JonMunkholm/LaborStats/internal/core"
	"github.com/JonMunkholm/LaborStats/internal/logging"
	"github.com/JonMunkholm/LaborStats/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"profile", cfg.Dataset.Profile,
		"cache_driver", cfg.Cache.Driver,
		"refresh_interval", cfg.Refresh.Interval,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("configuration", "config", cfg.String())

	ctx := context.Background()
	app, err := application.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to set up pipeline", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	// The first build is fatal: there is nothing to serve without it
	result, err := app.Service.Refresh(core.ContextWithTrigger(ctx, core.TriggerStartup))
	if err != nil {
		slog.Error("initial load failed", "error", err, "hint", core.FormatUserError(err))
		app.Close()
		os.Exit(1)
	}
	if result.CacheErr != nil {
		slog.Warn("initial snapshot not cached", "error", result.CacheErr)
	}

	server := web.NewServer(app.Service, cfg)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go app.Service.StartRefreshScheduler(jobCtx, cfg.Refresh.Interval)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop background jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		cancelJobs()
		app.Close()
		os.Exit(1)
	}
	cancelJobs()
	slog.Info("server stopped")
}
