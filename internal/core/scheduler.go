package core

// scheduler.go runs background maintenance for the run log.
//
// The retention job deletes run log entries older than the configured number
// of days. It runs once on start and then on every tick until the context is
// cancelled. A failed purge is logged and retried on the next tick.

import (
	"context"
	"log/slog"
	"time"
)

// RetentionConfig holds settings for the retention scheduler.
type RetentionConfig struct {
	Days          int           // Days to keep run log entries (default: 30)
	CheckInterval time.Duration // How often to purge (default: 24h)
}

// StartRetentionScheduler purges old run log entries until ctx is done.
// It returns immediately when the run log is disabled.
func (s *Service) StartRetentionScheduler(ctx context.Context, cfg RetentionConfig) {
	if s.recorder == nil {
		return
	}
	if cfg.Days <= 0 {
		cfg.Days = 30
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = 24 * time.Hour
	}

	slog.Info("retention scheduler started",
		"retention_days", cfg.Days,
		"interval", cfg.CheckInterval.String(),
	)

	// Run immediately on startup
	s.runRetentionJob(ctx, cfg.Days)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("retention scheduler stopped")
			return
		case <-ticker.C:
			s.runRetentionJob(ctx, cfg.Days)
		}
	}
}

// runRetentionJob performs one purge.
func (s *Service) runRetentionJob(ctx context.Context, days int) {
	start := time.Now()
	purged, err := s.recorder.Purge(ctx, days)
	if err != nil {
		slog.Error("run log purge failed", "error", err)
		return
	}
	slog.Info("purged old run log entries",
		"entries_purged", purged,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
