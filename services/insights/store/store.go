// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package store keeps each session's active query result in memory and
// serializes mutations against it with optimistic concurrency control.
//
// # Concurrency Model
//
// Reads hand out deep copies, never internal state. Mutations run on a
// copy outside the lock and commit only if the stored result has not
// changed underneath them. A conflicting commit fails with
// StaleResultError and is never partially applied.
package store

import (
	"log/slog"
	"sync"

	"github.com/AleutianAI/AleutianInsights/services/insights/datatypes"
)

// entry pairs a stored result with a generation counter. The generation
// advances whenever a new base result replaces the old one, so a mutation
// prepared against a prior result cannot commit just because the new
// result happens to share its version number.
type entry struct {
	result *datatypes.QueryResult
	gen    uint64
}

// Store holds the active query result per session.
//
// # Thread Safety
//
// All methods are safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	results map[string]entry
	nextGen uint64
	log     *slog.Logger
}

// New creates an empty store. A nil logger falls back to slog.Default.
func New(log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		results: make(map[string]entry),
		log:     log,
	}
}

// Create stores a new base result for the session, replacing any previous
// one. The stored result starts at version 0 regardless of the version on
// the input.
func (s *Store) Create(sessionID string, result *datatypes.QueryResult) *datatypes.QueryResult {
	stored := result.Clone()
	stored.Version = 0
	if stored.TotalRows == 0 {
		stored.TotalRows = len(stored.Rows)
	}

	s.mu.Lock()
	s.nextGen++
	s.results[sessionID] = entry{result: stored, gen: s.nextGen}
	s.mu.Unlock()

	s.log.Info("stored query result",
		"session_id", sessionID,
		"rows", stored.TotalRows,
		"columns", len(stored.Columns))
	return stored.Clone()
}

// Get returns a deep copy of the session's result, or ErrNoResult.
func (s *Store) Get(sessionID string) (*datatypes.QueryResult, error) {
	s.mu.RLock()
	e, ok := s.results[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNoResult
	}
	return e.result.Clone(), nil
}

// Replace applies mutate to a copy of the session's result and commits it
// if the stored result still matches expectedVersion. On success the
// committed result's version is expectedVersion+1 and a copy is returned.
//
// The mutator runs without the store lock held; it must not retain the
// result past its return. An error from the mutator aborts the commit and
// is returned unchanged.
func (s *Store) Replace(sessionID string, expectedVersion int, mutate func(*datatypes.QueryResult) error) (*datatypes.QueryResult, error) {
	s.mu.RLock()
	e, ok := s.results[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNoResult
	}
	if e.result.Version != expectedVersion {
		return nil, &StaleResultError{
			SessionID:       sessionID,
			ExpectedVersion: expectedVersion,
			CurrentVersion:  e.result.Version,
		}
	}

	working := e.result.Clone()
	if err := mutate(working); err != nil {
		return nil, err
	}
	working.Version = expectedVersion + 1

	s.mu.Lock()
	cur, ok := s.results[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNoResult
	}
	if cur.gen != e.gen || cur.result.Version != expectedVersion {
		s.mu.Unlock()
		return nil, &StaleResultError{
			SessionID:       sessionID,
			ExpectedVersion: expectedVersion,
			CurrentVersion:  cur.result.Version,
		}
	}
	s.results[sessionID] = entry{result: working, gen: cur.gen}
	s.mu.Unlock()

	return working.Clone(), nil
}

// Delete removes the session's result. Deleting a session with no result
// is a no-op.
func (s *Store) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.results, sessionID)
	s.mu.Unlock()
}

// Len returns the number of sessions with a stored result.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}
