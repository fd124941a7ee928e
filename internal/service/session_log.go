package service

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"focustimer/internal/model"
)

// DefaultSessionRetention is how many finalized sessions are kept.
const DefaultSessionRetention = 1000

// SessionLog is the append-only history of finalized sessions. It keeps an
// in-memory copy so a failed write is retried with the next append.
type SessionLog struct {
	store     KeyValueStore
	logger    *slog.Logger
	retention int

	mu       sync.RWMutex
	sessions []model.Session
}

func NewSessionLog(store KeyValueStore, logger *slog.Logger, retention int) *SessionLog {
	if retention <= 0 {
		retention = DefaultSessionRetention
	}
	return &SessionLog{store: store, logger: logger, retention: retention}
}

func (l *SessionLog) Load(ctx context.Context) {
	var sessions []model.Session
	if _, err := readJSON(ctx, l.store, KeySessions, &sessions); err != nil {
		l.logger.Warn("load session log, starting empty", "error", err)
		sessions = nil
	}

	l.mu.Lock()
	l.sessions = l.trim(sessions)
	l.mu.Unlock()
}

func (l *SessionLog) Append(ctx context.Context, session model.Session) error {
	l.mu.Lock()
	l.sessions = l.trim(append(l.sessions, session))
	snapshot := append([]model.Session{}, l.sessions...)
	l.mu.Unlock()

	return writeJSON(ctx, l.store, KeySessions, snapshot)
}

// Replace swaps the whole history, e.g. on import.
func (l *SessionLog) Replace(ctx context.Context, sessions []model.Session) error {
	sorted := append([]model.Session{}, sessions...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].StartTime.Before(sorted[j].StartTime) })

	l.mu.Lock()
	l.sessions = l.trim(sorted)
	snapshot := append([]model.Session{}, l.sessions...)
	l.mu.Unlock()

	return writeJSON(ctx, l.store, KeySessions, snapshot)
}

func (l *SessionLog) Clear(ctx context.Context) error {
	l.mu.Lock()
	l.sessions = nil
	l.mu.Unlock()
	return l.store.Remove(ctx, KeySessions)
}

// All returns the history oldest first.
func (l *SessionLog) All() []model.Session {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]model.Session{}, l.sessions...)
}

// Recent returns up to limit sessions, newest first.
func (l *SessionLog) Recent(limit int) []model.Session {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if limit <= 0 || limit > len(l.sessions) {
		limit = len(l.sessions)
	}
	out := make([]model.Session, 0, limit)
	for i := len(l.sessions) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, l.sessions[i])
	}
	return out
}

func (l *SessionLog) trim(sessions []model.Session) []model.Session {
	if len(sessions) <= l.retention {
		return sessions
	}
	return append([]model.Session{}, sessions[len(sessions)-l.retention:]...)
}
