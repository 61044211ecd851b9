package session

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/luckydraw/internal/logging"
	"github.com/aretw0/luckydraw/pkg/domain"
	"github.com/google/uuid"
)

// Flow is the part of the engine a session exposes.
type Flow interface {
	Load(ctx context.Context) (domain.OptionList, error)
	Draw(ctx context.Context) (*domain.PickResult, error)
	Commit(ctx context.Context, value string) error
	State() domain.FlowState
	Snapshot() []domain.Entry
	IsComplete() bool
	Reset()
}

// Factory creates the flow of a new session.
type Factory func() (Flow, error)

// Info describes a live session.
type Info struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	LastUsed  time.Time `json:"last_used"`
}

type entry struct {
	flow    Flow
	created time.Time
	used    time.Time
}

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
type Manager struct {
	factory Factory

	mu       sync.Mutex
	sessions map[string]*entry
	locks    map[string]*lockEntry

	maxSessions int
	newID       func() string
	now         func() time.Time
	logger      *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMaxSessions caps the number of live sessions. Zero means unlimited.
func WithMaxSessions(n int) Option {
	return func(m *Manager) {
		m.maxSessions = n
	}
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// WithClock replaces time.Now, for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a new session manager.
func NewManager(factory Factory, opts ...Option) *Manager {
	m := &Manager{
		factory:  factory,
		sessions: make(map[string]*entry),
		locks:    make(map[string]*lockEntry),
		newID:    uuid.NewString,
		now:      time.Now,
		logger:   logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a new session and returns its ID.
func (m *Manager) Create(ctx context.Context) (string, Flow, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	m.mu.Lock()
	full := m.maxSessions > 0 && len(m.sessions) >= m.maxSessions
	m.mu.Unlock()
	if full {
		return "", nil, ErrSessionLimit
	}

	flow, err := m.factory()
	if err != nil {
		return "", nil, fmt.Errorf("failed to create session flow: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		return "", nil, ErrSessionLimit
	}
	id := m.newID()
	if _, exists := m.sessions[id]; exists {
		return "", nil, fmt.Errorf("session id collision: %s", id)
	}
	now := m.now()
	m.sessions[id] = &entry{flow: flow, created: now, used: now}
	m.logger.Debug("session created", "session_id", id)
	return id, flow, nil
}

// Get returns the flow of a session.
func (m *Manager) Get(sessionID string) (Flow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	e.used = m.now()
	return e.flow, nil
}

// Delete removes a session.
func (m *Manager) Delete(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[sessionID]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(m.sessions, sessionID)
	m.logger.Debug("session deleted", "session_id", sessionID)
	return nil
}

// List returns the live sessions ordered by creation time.
func (m *Manager) List() []Info {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Info, 0, len(m.sessions))
	for id, e := range m.sessions {
		out = append(out, Info{ID: id, CreatedAt: e.created, LastUsed: e.used})
	}
	slices.SortFunc(out, func(a, b Info) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Expire removes sessions idle for longer than ttl and returns how many were removed.
func (m *Manager) Expire(ttl time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-ttl)
	removed := 0
	for id, e := range m.sessions {
		if e.used.Before(cutoff) {
			delete(m.sessions, id)
			removed++
			m.logger.Debug("session expired", "session_id", id)
		}
	}
	return removed
}

// RunExpiry calls Expire every interval until ctx is done.
func (m *Manager) RunExpiry(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Expire(ttl); n > 0 {
				m.logger.Info("expired idle sessions", "count", n)
			}
		}
	}
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	le, exists := m.locks[sessionID]
	if !exists {
		le = &lockEntry{}
		m.locks[sessionID] = le
	}
	le.refs++
	return le
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	le, exists := m.locks[sessionID]
	if !exists {
		return
	}
	le.refs--
	if le.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock runs fn with the session's flow while holding the session lock.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context, Flow) error) error {
	le := m.acquire(sessionID)
	le.mu.Lock()
	defer func() {
		le.mu.Unlock()
		m.release(sessionID)
	}()

	flow, err := m.Get(sessionID)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, flow)
}
