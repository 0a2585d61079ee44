// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package session manages conversation sessions for the insights service:
// creation, message history, proactive insights, and TTL-based expiry.
package session

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Types
// =============================================================================

// Role identifies who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a session's conversation.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// InsightType classifies a proactive insight.
type InsightType string

const (
	InsightAnomaly    InsightType = "anomaly"
	InsightTrend      InsightType = "trend"
	InsightComparison InsightType = "comparison"
	InsightSuggestion InsightType = "suggestion"
)

// Insight is a proactive observation reported against a session, delivered
// with the next response and then discarded.
type Insight struct {
	Type      InsightType `json:"type"`
	Message   string      `json:"message"`
	Timestamp time.Time   `json:"timestamp"`
}

// Session is one conversation with its history and pending insights.
type Session struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
	Messages     []Message `json:"messages"`
	Insights     []Insight `json:"insights,omitempty"`
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	out := *s
	out.Messages = append([]Message(nil), s.Messages...)
	out.Insights = append([]Insight(nil), s.Insights...)
	return &out
}

// Clock abstracts time for deterministic expiry tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// =============================================================================
// Manager
// =============================================================================

// Manager owns the in-memory session table.
//
// # Thread Safety
//
// All methods are safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	clock    Clock
	log      *slog.Logger

	// onDelete runs after a session is removed, outside the lock. Used to
	// cascade deletes into the result store.
	onDelete func(sessionID string)
}

// NewManager creates a Manager. Nil clock and logger fall back to the
// system clock and slog.Default.
func NewManager(clock Clock, log *slog.Logger, onDelete func(sessionID string)) *Manager {
	if clock == nil {
		clock = SystemClock()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		clock:    clock,
		log:      log,
		onDelete: onDelete,
	}
}

// Create starts a new session with a generated ID.
func (m *Manager) Create() *Session {
	now := m.clock.Now()
	s := &Session{
		ID:           uuid.NewString(),
		CreatedAt:    now,
		LastActiveAt: now,
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.log.Info("created session", "session_id", s.ID)
	return s.Clone()
}

// Get returns a copy of the session, or ErrSessionNotFound.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	var out *Session
	if ok {
		out = s.Clone()
	}
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return out, nil
}

// GetOrCreate returns the session with the given ID, creating it when the
// ID is empty or unknown.
func (m *Manager) GetOrCreate(id string) *Session {
	if id != "" {
		if s, err := m.Get(id); err == nil {
			return s
		}
	}
	return m.Create()
}

// List returns copies of all sessions ordered by last activity, newest
// first.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s.Clone())
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActiveAt.After(out[j].LastActiveAt)
	})
	return out
}

// Delete removes the session and fires the delete hook. Returns
// ErrSessionNotFound when no such session exists.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if m.onDelete != nil {
		m.onDelete(id)
	}
	m.log.Info("deleted session", "session_id", id)
	return nil
}

// AddMessage appends a message to the session's history and refreshes its
// activity stamp.
func (m *Manager) AddMessage(id string, role Role, content string) error {
	now := m.clock.Now()
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		s.Messages = append(s.Messages, Message{Role: role, Content: content, Timestamp: now})
		s.LastActiveAt = now
	}
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

// ConversationContext renders the most recent messages as a compact
// transcript for prompt construction. At most limit messages are included;
// limit <= 0 means all.
func (m *Manager) ConversationContext(id string, limit int) (string, error) {
	s, err := m.Get(id)
	if err != nil {
		return "", err
	}
	msgs := s.Messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	var b strings.Builder
	for _, msg := range msgs {
		b.WriteString(string(msg.Role))
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// ReportInsight queues a proactive insight against the session and
// refreshes its activity stamp. Unknown insight types are recorded as
// suggestions rather than rejected.
func (m *Manager) ReportInsight(id string, typ InsightType, message string) error {
	switch typ {
	case InsightAnomaly, InsightTrend, InsightComparison, InsightSuggestion:
	default:
		typ = InsightSuggestion
	}
	now := m.clock.Now()
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		s.Insights = append(s.Insights, Insight{Type: typ, Message: message, Timestamp: now})
		s.LastActiveAt = now
	}
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

// DrainInsights returns the session's pending insights and clears them.
func (m *Manager) DrainInsights(id string) ([]Insight, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	var out []Insight
	if ok {
		out = s.Insights
		s.Insights = nil
	}
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return out, nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// expireBefore removes sessions whose last activity predates cutoff and
// returns their IDs. Delete hooks fire outside the lock.
func (m *Manager) expireBefore(cutoff time.Time) []string {
	var expired []string
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.LastActiveAt.Before(cutoff) {
			delete(m.sessions, id)
			expired = append(expired, id)
		}
	}
	m.mu.Unlock()

	for _, id := range expired {
		if m.onDelete != nil {
			m.onDelete(id)
		}
	}
	return expired
}
