package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/prophets-duas-bot/internal/preferences"
)

// Manager creates sessions on first use and keeps them by owner until they
// stay idle for too long.
type Manager struct {
	kv       preferences.KV
	catalogs CatalogProvider
	logger   *zap.Logger
	warn     *WarnOnce
	debounce time.Duration
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*managed
}

type managed struct {
	sess     *Session
	lastUsed time.Time
}

// NewManager creates a Manager storing preferences in kv.
func NewManager(kv preferences.KV, catalogs CatalogProvider, logger *zap.Logger, debounce time.Duration) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		kv:       kv,
		catalogs: catalogs,
		logger:   logger,
		warn:     NewWarnOnce(logger),
		debounce: debounce,
		now:      time.Now,
		sessions: make(map[string]*managed),
	}
}

// Warn returns the warner shared by every session.
func (m *Manager) Warn() *WarnOnce { return m.warn }

// Get returns the session of owner, restoring it from storage on first use.
func (m *Manager) Get(ctx context.Context, owner string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if e, ok := m.sessions[owner]; ok {
		e.lastUsed = now
		return e.sess
	}

	s := m.newSession(ctx, owner)
	m.sessions[owner] = &managed{sess: s, lastUsed: now}
	return s
}

func (m *Manager) newSession(ctx context.Context, owner string) *Session {
	logger := m.logger.With(zap.String("owner", owner))
	return New(ctx, owner,
		preferences.NewStore(m.kv, owner, m.logger),
		m.catalogs,
		WithLogger(logger),
		WithWarnOnce(m.warn),
		WithSearchDebounce(NewDebouncer(m.debounce)),
	)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Drop forgets the session of owner. Stored preferences are kept.
func (m *Manager) Drop(owner string) {
	m.mu.Lock()
	e, ok := m.sessions[owner]
	delete(m.sessions, owner)
	m.mu.Unlock()

	if ok {
		e.sess.Stop()
	}
}

// Evict drops the sessions unused for longer than idle and returns how
// many were dropped. The stored state of a session the user never
// customized is deleted with it; everything else stays in storage.
func (m *Manager) Evict(ctx context.Context, idle time.Duration) int {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	var stale []*Session
	for owner, e := range m.sessions {
		if e.lastUsed.Before(cutoff) {
			stale = append(stale, e.sess)
			delete(m.sessions, owner)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.Stop()
		if !s.Customized(ctx) {
			s.store.Reset(ctx)
		}
	}
	return len(stale)
}

// RunEviction evicts idle sessions on a cron schedule until ctx is done.
func (m *Manager) RunEviction(ctx context.Context, spec string, idle time.Duration) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(spec, func() {
		if n := m.Evict(ctx, idle); n > 0 {
			m.logger.Debug("idle sessions evicted", zap.Int("count", n), zap.Int("live", m.Len()))
		}
	})
	if err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}

	c.Start()
	m.logger.Info("session eviction scheduled", zap.String("spec", spec), zap.Duration("idle", idle))

	<-ctx.Done()

	<-c.Stop().Done()
	return nil
}

// Close stops every pending debounced search.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.sessions {
		e.sess.Stop()
	}
}
