package core

// scheduler.go provides background maintenance for open sessions.
//
// The janitor closes sessions that have not been used for IdleTTL so that
// abandoned browser tabs do not hold tables in memory forever. It runs until
// its context is cancelled and never fails the application.

import (
	"context"
	"log/slog"
	"time"
)

// StartSessionJanitor periodically closes idle sessions.
// It runs every JanitorInterval and stops when ctx is cancelled.
func (s *Service) StartSessionJanitor(ctx context.Context) {
	slog.Info("session janitor started",
		"idle_ttl", s.cfg.IdleTTL.String(),
		"interval", s.cfg.JanitorInterval.String(),
	)

	ticker := time.NewTicker(s.cfg.JanitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session janitor stopped")
			return
		case <-ticker.C:
			s.runJanitor()
		}
	}
}

// runJanitor performs one sweep.
func (s *Service) runJanitor() {
	start := time.Now()
	evicted := s.EvictIdle(s.now().Add(-s.cfg.IdleTTL))
	if evicted > 0 {
		slog.Info("evicted idle sessions",
			"sessions_evicted", evicted,
			"sessions_open", s.SessionCount(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// EvictIdle closes every session last used before cutoff and returns how
// many were closed.
func (s *Service) EvictIdle(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, open := range s.sessions {
		if open.lastUsed.Before(cutoff) {
			if open.session.HasUnsavedChanges() {
				slog.Warn("evicting session with unsaved changes", "session_id", id)
			}
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}
