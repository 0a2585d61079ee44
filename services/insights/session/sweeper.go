// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package session

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically expires idle sessions.
//
// # Description
//
// Runs a background loop that removes sessions idle for longer than the
// TTL. Expiry cascades through the manager's delete hook, so stored query
// results go with the session.
//
// # Thread Safety
//
// Start may be called once. The loop exits when the context is cancelled.
type Sweeper struct {
	manager  *Manager
	ttl      time.Duration
	interval time.Duration
	log      *slog.Logger
}

// NewSweeper creates a Sweeper. Non-positive ttl or interval disables
// sweeping; Start then returns immediately.
func NewSweeper(manager *Manager, ttl, interval time.Duration, log *slog.Logger) *Sweeper {
	if log == nil {
		log = slog.Default()
	}
	return &Sweeper{manager: manager, ttl: ttl, interval: interval, log: log}
}

// Start runs the sweep loop until ctx is cancelled. Blocks; run it in its
// own goroutine.
func (s *Sweeper) Start(ctx context.Context) {
	if s.ttl <= 0 || s.interval <= 0 {
		s.log.Info("session sweeper disabled")
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("session sweeper started", "ttl", s.ttl, "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("session sweeper stopped")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep expires sessions idle past the TTL.
func (s *Sweeper) sweep() {
	cutoff := s.manager.clock.Now().Add(-s.ttl)
	expired := s.manager.expireBefore(cutoff)
	if len(expired) > 0 {
		s.log.Info("expired idle sessions", "count", len(expired))
	}
}
