// Package admin provides administrative operations on the cache store.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JonMunkholm/LaborStats/internal/cache"
)

// ResetTimeout is the maximum duration for cache reset operations.
const ResetTimeout = 30 * time.Second

type resetFn func(ctx context.Context) error

// ResetCache drops the cache table and clears the load_runs history.
// This is a destructive operation; the next build recreates the table.
func ResetCache(ctx context.Context, store cache.Store) error {
	ctx, cancel := context.WithTimeout(ctx, ResetTimeout)
	defer cancel()

	if err := runResets(ctx, []resetFn{
		store.DropTable,
		store.ClearRuns,
	}); err != nil {
		return fmt.Errorf("reset cache: %w", err)
	}

	slog.Info("cache reset")
	return nil
}

func runResets(ctx context.Context, resets []resetFn) error {
	for _, reset := range resets {
		if err := reset(ctx); err != nil {
			return err
		}
	}
	return nil
}
