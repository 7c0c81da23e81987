// Package preferences persists per-owner preferences and the onboarding flag.
package preferences

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
)

// ErrKeyNotFound is returned by KV backends for absent keys.
var ErrKeyNotFound = errors.New("key not found")

const (
	prefsKeyPrefix      = "prophets_duas_v1:"
	onboardingKeyPrefix = "prophets_duas_onboarding_v1:"
	seenMarker          = "1"
)

// KV is a string key-value storage backend.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Store reads and writes preferences of one owner. Every failure is logged
// and swallowed: callers always get usable values.
type Store struct {
	kv     KV
	owner  string
	logger *zap.Logger
}

// NewStore creates a Store for owner (a chat id, a web session id, etc).
func NewStore(kv KV, owner string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		kv:     kv,
		owner:  owner,
		logger: logger.With(zap.String("owner", owner)),
	}
}

// PreferencesKey returns the storage key of owner's preferences.
func PreferencesKey(owner string) string {
	return prefsKeyPrefix + owner
}

// OnboardingKey returns the storage key of owner's onboarding flag.
func OnboardingKey(owner string) string {
	return onboardingKeyPrefix + owner
}

// Load returns the stored preferences merged over the defaults.
func (s *Store) Load(ctx context.Context) entities.Preferences {
	prefs := entities.DefaultPreferences()

	raw, err := s.kv.Get(ctx, PreferencesKey(s.owner))
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Warn("failed to read preferences", zap.Error(err))
		}
		return prefs
	}

	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		s.logger.Warn("stored preferences are corrupted, using defaults", zap.Error(err))
		return entities.DefaultPreferences()
	}

	return sanitize(prefs)
}

// Save writes prefs. A failed write leaves the in-memory value authoritative.
func (s *Store) Save(ctx context.Context, prefs entities.Preferences) {
	data, err := json.Marshal(prefs)
	if err != nil {
		s.logger.Error("failed to encode preferences", zap.Error(err))
		return
	}

	if err := s.kv.Set(ctx, PreferencesKey(s.owner), string(data)); err != nil {
		s.logger.Warn("failed to save preferences", zap.Error(err))
	}
}

// OnboardingSeen reports whether the onboarding flow was completed or dismissed.
func (s *Store) OnboardingSeen(ctx context.Context) bool {
	v, err := s.kv.Get(ctx, OnboardingKey(s.owner))
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Warn("failed to read onboarding flag", zap.Error(err))
		}
		return false
	}
	return v == seenMarker
}

// MarkOnboardingSeen sets the onboarding flag.
func (s *Store) MarkOnboardingSeen(ctx context.Context) {
	if err := s.kv.Set(ctx, OnboardingKey(s.owner), seenMarker); err != nil {
		s.logger.Warn("failed to save onboarding flag", zap.Error(err))
	}
}

// Reset deletes both keys of the owner.
func (s *Store) Reset(ctx context.Context) {
	if err := s.kv.Delete(ctx, PreferencesKey(s.owner), OnboardingKey(s.owner)); err != nil {
		s.logger.Warn("failed to reset preferences", zap.Error(err))
	}
}

func sanitize(p entities.Preferences) entities.Preferences {
	def := entities.DefaultPreferences()

	if !p.SetTheme(p.Theme) {
		p.Theme = def.Theme
	}
	if !p.SetLanguage(p.UILang) {
		p.UILang = def.UILang
	}
	p.FontArabic = entities.ClampFontArabic(p.FontArabic)
	p.FontText = entities.ClampFontText(p.FontText)
	if p.Favorites == nil {
		p.Favorites = []string{}
	}
	if p.Recent == nil {
		p.Recent = []string{}
	}
	if len(p.Recent) > entities.MaxRecent {
		p.Recent = p.Recent[:entities.MaxRecent]
	}
	if p.LastRoute == "" {
		p.LastRoute = def.LastRoute
	}
	return p
}
