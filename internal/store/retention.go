package store

// retention.go runs the import history retention job.
//
// The job deletes reports older than the retention window. It runs once on
// start and then every interval until the context is cancelled. Failures
// are logged and never stop the application.

import (
	"context"
	"log/slog"
	"time"
)

// Pruner deletes records older than a cutoff.
type Pruner interface {
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionConfig holds the retention job settings.
type RetentionConfig struct {
	Retention time.Duration // How long reports are kept (default: 90 days)
	Interval  time.Duration // How often the job runs (default: 24h)
}

func (c RetentionConfig) withDefaults() RetentionConfig {
	if c.Retention <= 0 {
		c.Retention = 90 * 24 * time.Hour
	}
	if c.Interval <= 0 {
		c.Interval = 24 * time.Hour
	}
	return c
}

// RunRetention prunes p until ctx is cancelled.
func RunRetention(ctx context.Context, p Pruner, cfg RetentionConfig) {
	cfg = cfg.withDefaults()
	slog.Info("history retention started",
		"retention", cfg.Retention,
		"interval", cfg.Interval,
	)

	pruneOnce(ctx, p, cfg.Retention, time.Now())

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("history retention stopped")
			return
		case now := <-ticker.C:
			pruneOnce(ctx, p, cfg.Retention, now)
		}
	}
}

// pruneOnce performs one retention pass.
func pruneOnce(ctx context.Context, p Pruner, retention time.Duration, now time.Time) int64 {
	start := time.Now()
	n, err := p.Prune(ctx, now.Add(-retention))
	if err != nil {
		slog.Error("history prune failed", "error", err)
		return 0
	}
	slog.Info("pruned import history",
		"reports_deleted", n,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return n
}
