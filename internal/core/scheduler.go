package core

// scheduler.go provides periodic snapshot refreshes.
//
// The scheduler runs until its context is cancelled. Failures are logged and
// the previous snapshot keeps serving.

import (
	"context"
	"log/slog"
	"time"
)

// StartRefreshScheduler rebuilds the snapshot every interval until ctx is
// cancelled. The initial build is the caller's job; the first scheduled
// refresh happens one interval after start. A non-positive interval returns
// immediately.
func (s *Service) StartRefreshScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	slog.Info("refresh scheduler started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("refresh scheduler stopped")
			return
		case <-ticker.C:
			s.runRefreshJob(ctx)
		}
	}
}

// runRefreshJob performs one scheduled refresh.
func (s *Service) runRefreshJob(ctx context.Context) {
	start := time.Now()
	jobCtx := ContextWithTrigger(ctx, TriggerScheduler)

	result, err := s.Refresh(jobCtx)
	if err != nil {
		slog.Error("scheduled refresh failed, keeping previous snapshot", "error", err)
		return
	}

	slog.Info("scheduled refresh complete",
		"snapshot_id", result.Snapshot.Info().ID,
		"rows", result.Snapshot.Len(),
		"cached", result.CacheErr == nil,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
