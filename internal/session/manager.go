package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/vaanilabs/dhanvani/internal/observe"
)

// Manager owns all live sessions. Safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	metrics  *observe.Metrics
}

// NewManager creates an empty session manager. metrics may be nil, in which
// case the active-session gauge is not maintained.
func NewManager(metrics *observe.Metrics) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		metrics:  metrics,
	}
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Ensure returns the session with the given id, creating it if absent. An
// empty id creates a fresh session under a new identifier.
func (m *Manager) Ensure(ctx context.Context, id string) *Session {
	if id != "" {
		if s, ok := m.Get(id); ok {
			return s
		}
	} else {
		id = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s
	}
	s := newSession(id)
	m.sessions[id] = s
	if m.metrics != nil {
		m.metrics.ActiveSessions.Add(ctx, 1)
	}
	return s
}

// Delete removes a session entirely. Unlike [Session.Clear] this forgets the
// language and mode selections too.
func (m *Manager) Delete(ctx context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return
	}
	delete(m.sessions, id)
	if m.metrics != nil {
		m.metrics.ActiveSessions.Add(ctx, -1)
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
