package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecotrack-campus/ecotrack/internal/domain"
	"github.com/ecotrack-campus/ecotrack/internal/infra/observability"
)

// Config controls session creation.
type Config struct {
	LoginDelay     time.Duration
	IdleTimeout    time.Duration // 0 keeps sessions until End
	MaxSessions    int           // 0 means unlimited; at the cap the least recently used session is evicted
	StartingPoints int
	Peers          []domain.Peer
}

// DefaultConfig returns the campus defaults.
func DefaultConfig() Config {
	return Config{
		LoginDelay:     time.Second,
		IdleTimeout:    30 * time.Minute,
		MaxSessions:    1000,
		StartingPoints: domain.StartingPoints,
		Peers:          domain.SeedPeers(),
	}
}

// Credentials are whatever the login form submitted. They are accepted
// verbatim and never checked.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// Option customizes a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger. Sessions inherit it.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(mt *observability.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

// WithClock replaces time.Now for entry dates and timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDs replaces the uuid generator for session, entry and location ids.
func WithIDs(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// Manager tracks the live sessions of one process.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	lastSeen map[string]time.Time

	cfg     Config
	factory domain.StoreFactory
	metrics *observability.Metrics
	logger  zerolog.Logger
	now     func() time.Time
	newID   func() string
}

// NewManager creates a manager whose sessions are backed by stores from factory.
func NewManager(cfg Config, factory domain.StoreFactory, opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		lastSeen: make(map[string]time.Time),
		cfg:      cfg,
		factory:  factory,
		logger:   zerolog.Nop(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Authenticate simulates the login transition: it waits LoginDelay and
// then opens a session. It fails only when ctx ends first or a session
// store cannot be opened; a full manager makes room instead of refusing.
func (m *Manager) Authenticate(ctx context.Context, creds Credentials) (*Session, error) {
	if m.cfg.LoginDelay > 0 {
		timer := time.NewTimer(m.cfg.LoginDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	s, err := m.Create(ctx)
	if err != nil {
		return nil, err
	}
	m.logger.Info().Str("session", s.ID).Str("email", creds.Email).Msg("login accepted")
	return s, nil
}

// Create opens a new seeded session. Idle sessions are swept before it is
// added; if the manager is still full the least recently used session is
// evicted.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	store, err := m.factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	now := m.now()
	m.sweepLocked(now)
	if m.cfg.MaxSessions > 0 && len(m.sessions) >= m.cfg.MaxSessions {
		m.evictLocked(m.oldestLocked(), "session limit")
	}

	peers := make([]domain.Peer, len(m.cfg.Peers))
	copy(peers, m.cfg.Peers)

	s := &Session{
		ID:        m.newID(),
		CreatedAt: now,
		store:     store,
		points:    m.cfg.StartingPoints,
		form:      Form{Mode: domain.ModeCar},
		peers:     peers,
		now:       m.now,
		newID:     m.newID,
		metrics:   m.metrics,
		logger:    m.logger,
	}
	m.sessions[s.ID] = s
	m.lastSeen[s.ID] = now

	m.setActiveLocked()
	m.logger.Info().Str("session", s.ID).Int("active", len(m.sessions)).Msg("session created")
	return s, nil
}

// Get returns the live session with id and marks it used. A session idle
// past IdleTimeout is ended and reported as not found.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	now := m.now()
	if m.expired(id, now) {
		m.evictLocked(id, "idle")
		return nil, domain.ErrSessionNotFound
	}
	m.lastSeen[id] = now
	return s, nil
}

// Sweep ends every session idle past IdleTimeout and returns how many
// were ended.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweepLocked(m.now())
}

// End discards a session and everything it recorded.
func (m *Manager) End(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
		delete(m.lastSeen, id)
		m.setActiveLocked()
	}
	active := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return domain.ErrSessionNotFound
	}
	m.logger.Info().Str("session", id).Int("active", active).Msg("session ended")
	return s.close()
}

func (m *Manager) expired(id string, now time.Time) bool {
	return m.cfg.IdleTimeout > 0 && now.Sub(m.lastSeen[id]) >= m.cfg.IdleTimeout
}

func (m *Manager) sweepLocked(now time.Time) int {
	if m.cfg.IdleTimeout <= 0 {
		return 0
	}
	n := 0
	for id := range m.sessions {
		if m.expired(id, now) {
			m.evictLocked(id, "idle")
			n++
		}
	}
	return n
}

// oldestLocked returns the least recently used session id.
func (m *Manager) oldestLocked() string {
	var (
		oldest string
		seen   time.Time
	)
	for id, t := range m.lastSeen {
		if oldest == "" || t.Before(seen) || (t.Equal(seen) && id < oldest) {
			oldest, seen = id, t
		}
	}
	return oldest
}

// evictLocked requires m.mu.
func (m *Manager) evictLocked(id, reason string) {
	s, ok := m.sessions[id]
	if !ok {
		return
	}
	delete(m.sessions, id)
	delete(m.lastSeen, id)
	m.setActiveLocked()
	if err := s.close(); err != nil {
		m.logger.Warn().Err(err).Str("session", id).Msg("close evicted session")
	}
	m.logger.Info().Str("session", id).Str("reason", reason).Int("active", len(m.sessions)).Msg("session evicted")
}

func (m *Manager) setActiveLocked() {
	if m.metrics != nil {
		m.metrics.ActiveSessions.Set(float64(len(m.sessions)))
	}
}

// IdleTimeout reports the configured idle limit.
func (m *Manager) IdleTimeout() time.Duration { return m.cfg.IdleTimeout }

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close ends every live session.
func (m *Manager) Close() error {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.lastSeen = make(map[string]time.Time)
	m.mu.Unlock()

	var firstErr error
	for _, s := range sessions {
		if err := s.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if m.metrics != nil {
		m.metrics.ActiveSessions.Set(0)
	}
	return firstErr
}
