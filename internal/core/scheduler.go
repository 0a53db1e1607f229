package core

// scheduler.go runs the idle session sweeper.
//
// Sessions hold their records in memory, so a client that goes away without
// deleting its session would otherwise leak it. The sweeper closes sessions
// that have not been used for longer than Config.IdleTimeout.

import (
	"context"
	"log/slog"
	"time"
)

// StartSweeper evicts idle sessions every interval until ctx is cancelled.
// It returns immediately when the idle timeout or interval is not positive.
func (s *Service) StartSweeper(ctx context.Context, interval time.Duration) {
	if s.cfg.IdleTimeout <= 0 || interval <= 0 {
		slog.Info("session sweeper disabled")
		return
	}
	slog.Info("session sweeper started",
		"interval", interval,
		"idle_timeout", s.cfg.IdleTimeout,
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case now := <-ticker.C:
			s.runSweep(now)
		}
	}
}

// runSweep performs one eviction pass.
func (s *Service) runSweep(now time.Time) int {
	start := time.Now()
	evicted := s.sweep(now)
	if evicted == 0 {
		slog.Debug("session sweep completed", "remaining", s.sessions.count())
		return 0
	}
	slog.Info("evicted idle sessions",
		"sessions_evicted", evicted,
		"remaining", s.sessions.count(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return evicted
}
