package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/MrWong99/voicelift/internal/workout"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("session not found")

const (
	defaultIdleTimeout   = 2 * time.Hour
	defaultSweepInterval = 5 * time.Minute
)

// Session is one workout held by a [Manager]. Utterances against the same
// session are serialised by its mutex.
type Session struct {
	ID      string
	Created time.Time

	mu      sync.Mutex
	tracker *Tracker

	// lastUsed is unix nanoseconds, readable without mu so sweeping never
	// waits behind a journal write.
	lastUsed atomic.Int64
}

// Do runs fn with exclusive access to the session's tracker.
func (s *Session) Do(fn func(t *Tracker) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed.Store(time.Now().UnixNano())
	return fn(s.tracker)
}

// State returns a snapshot of the session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.State()
}

func (s *Session) idleSince() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

// ManagerOption configures a [Manager].
type ManagerOption func(*Manager)

// WithIdleTimeout sets how long an unused session survives. Default: 2h.
func WithIdleTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.idleTimeout = d
		}
	}
}

// WithSweepInterval sets how often idle sessions are collected. Default: 5m.
func WithSweepInterval(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithObserver registers a callback receiving +1/-1 whenever a session is
// created or removed.
func WithObserver(fn func(delta int64)) ManagerOption {
	return func(m *Manager) {
		m.observe = fn
	}
}

// WithTrackerOptions applies opts to every new [Tracker].
func WithTrackerOptions(opts ...TrackerOption) ManagerOption {
	return func(m *Manager) {
		m.trackerOpts = append(m.trackerOpts, opts...)
	}
}

// Manager is a registry of live sessions with idle expiry.
//
// All methods are safe for concurrent use.
type Manager struct {
	idleTimeout time.Duration
	interval    time.Duration
	observe     func(delta int64)
	trackerOpts []TrackerOption

	mu       sync.RWMutex
	sessions map[string]*Session
	done     chan struct{}
	stopOnce sync.Once
}

// NewManager creates an empty [Manager].
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		idleTimeout: defaultIdleTimeout,
		interval:    defaultSweepInterval,
		observe:     func(int64) {},
		sessions:    make(map[string]*Session),
		done:        make(chan struct{}),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Create starts a new session.
func (m *Manager) Create(mode workout.Mode, plan []workout.PlanEntry) *Session {
	now := time.Now()
	s := &Session{
		ID:      uuid.NewString(),
		Created: now,
		tracker: NewTracker(mode, plan, m.trackerOpts...),
	}
	s.lastUsed.Store(now.UnixNano())
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.observe(1)
	slog.Info("session: created", "session_id", s.ID, "mode", mode.String(), "plan_entries", len(plan))
	return s
}

// Get returns the session with id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete removes the session with id.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	m.observe(-1)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Start begins idle collection in a background goroutine. The goroutine runs
// until [Manager.Stop] is called or ctx is cancelled.
func (m *Manager) Start(ctx context.Context) {
	go m.loop(ctx)
}

// Stop halts idle collection. Safe to call multiple times.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.done)
	})
}

// Sweep removes sessions idle for longer than the idle timeout and returns
// how many were removed.
//
// The registry is only read-locked while collecting candidates; the write
// lock is taken for the deletes alone.
func (m *Manager) Sweep(now time.Time) int {
	idle := func(s *Session) bool { return now.Sub(s.idleSince()) > m.idleTimeout }

	m.mu.RLock()
	var candidates []*Session
	for _, s := range m.sessions {
		if idle(s) {
			candidates = append(candidates, s)
		}
	}
	m.mu.RUnlock()
	if len(candidates) == 0 {
		return 0
	}

	var expired []string
	m.mu.Lock()
	for _, s := range candidates {
		// Skip sessions deleted or used since they were collected.
		if m.sessions[s.ID] == s && idle(s) {
			delete(m.sessions, s.ID)
			expired = append(expired, s.ID)
		}
	}
	m.mu.Unlock()

	for _, id := range expired {
		m.observe(-1)
		slog.Info("session: expired", "session_id", id)
	}
	return len(expired)
}

func (m *Manager) loop(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.done:
			return
		case now := <-ticker.C:
			m.Sweep(now)
		}
	}
}
