package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/aliskhannn/prophets-duas-bot/internal/catalog"
	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
)

var ErrDatasetUnavailable = errors.New("dataset unavailable")

type DatasetRepository interface {
	Load(ctx context.Context) ([]entities.Dua, error)
	Location() string
}

// LoadState describes the lifecycle of the dataset.
type LoadState int32

const (
	StateLoading LoadState = iota
	StateReady
	StateFailed
)

func (s LoadState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// CatalogService owns the currently loaded catalog. Readers get an immutable
// snapshot; a reload swaps it in one step.
type CatalogService struct {
	repo   DatasetRepository
	logger *zap.Logger

	loadMu  sync.Mutex
	current atomic.Pointer[catalog.Catalog]
	state   atomic.Int32
	lastErr atomic.Pointer[error]

	subMu       sync.RWMutex
	subscribers []func(*catalog.Catalog)
}

// NewCatalogService creates a new catalog service. No dataset is loaded until Load.
func NewCatalogService(repo DatasetRepository, logger *zap.Logger) *CatalogService {
	s := &CatalogService{repo: repo, logger: logger}
	s.state.Store(int32(StateLoading))
	return s
}

// Load reads the dataset and replaces the current catalog. When the read
// fails, the previous catalog (if any) is kept.
func (s *CatalogService) Load(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if s.current.Load() == nil {
		s.state.Store(int32(StateLoading))
	}

	duas, err := s.repo.Load(ctx)
	if err != nil {
		wrapped := fmt.Errorf("%w: %w", ErrDatasetUnavailable, err)
		s.lastErr.Store(&wrapped)
		if s.current.Load() == nil {
			s.state.Store(int32(StateFailed))
		}
		s.logger.Error("failed to load dataset",
			zap.String("location", s.repo.Location()),
			zap.Error(err),
		)
		return wrapped
	}

	catalog.LogFindings(s.logger, catalog.Validate(duas))

	c := catalog.New(duas, s.logger)
	s.current.Store(c)
	s.lastErr.Store(nil)
	s.state.Store(int32(StateReady))

	s.logger.Info("dataset loaded",
		zap.String("location", s.repo.Location()),
		zap.Int("duas", c.Len()),
		zap.Int("prophets", len(c.Prophets())),
		zap.Int("topics", len(c.Topics())),
	)

	s.subMu.RLock()
	subs := slices.Clone(s.subscribers)
	s.subMu.RUnlock()
	for _, fn := range subs {
		fn(c)
	}

	return nil
}

// Catalog returns the current catalog, nil while nothing is loaded.
func (s *CatalogService) Catalog() *catalog.Catalog {
	return s.current.Load()
}

// State returns the load state.
func (s *CatalogService) State() LoadState {
	return LoadState(s.state.Load())
}

// Err returns the error of the last failed load, nil after a successful one.
func (s *CatalogService) Err() error {
	if p := s.lastErr.Load(); p != nil {
		return *p
	}
	return nil
}

// Subscribe registers fn to be called with every newly loaded catalog.
func (s *CatalogService) Subscribe(fn func(*catalog.Catalog)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}
