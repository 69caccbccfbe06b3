// Package application wires configuration into a running pipeline: the
// source loader, the cache store and the core service. The HTTP server and
// the CLI both start from here.
package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/LaborStats/internal/cache"
	"github.com/JonMunkholm/LaborStats/internal/config"
	"github.com/JonMunkholm/LaborStats/internal/core"
	_ "github.com/JonMunkholm/LaborStats/internal/core/profiles" // Register dataset profiles
	"github.com/JonMunkholm/LaborStats/internal/source"
)

// App holds the wired components.
type App struct {
	Config  *config.Config
	Service *core.Service
	Cache   cache.Store
}

// New resolves the profile, opens the cache and builds the service. No
// snapshot is built yet; call Service.Refresh.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	profile, err := core.MustGet(cfg.Dataset.Profile)
	if err != nil {
		return nil, err
	}

	format, err := source.ParseFormat(cfg.Source.Format)
	if err != nil {
		return nil, err
	}

	loader := source.NewLoader(source.Options{
		Path:     cfg.Source.Path,
		Sheet:    cfg.Source.Sheet,
		SkipRows: cfg.Source.SkipRows,
		Format:   format,
	})

	store, err := cache.Open(ctx, cache.Config{
		Driver:    cfg.Cache.Driver,
		Path:      cfg.Cache.Path,
		URL:       cfg.Cache.URL,
		Table:     cfg.Cache.Table,
		BatchSize: cfg.Cache.BatchSize,
		MaxConns:  cfg.Cache.MaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	service, err := core.NewService(loader, store, core.ServiceConfig{
		Profile:          profile,
		Pad:              cfg.Dataset.PadContinents,
		RequireSelection: cfg.Dataset.RequireSelection,
		CacheTimeout:     cfg.Cache.Timeout,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	slog.Info("pipeline configured",
		"profile", profile.Key,
		"source", cfg.Source.Path,
		"sheet", cfg.Source.Sheet,
		"cache_driver", cfg.Cache.Driver,
	)

	return &App{Config: cfg, Service: service, Cache: store}, nil
}

// Close releases the cache store.
func (a *App) Close() error {
	return a.Service.Close()
}
