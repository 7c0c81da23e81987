package preferences_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
	"github.com/aliskhannn/prophets-duas-bot/internal/preferences"
	"github.com/aliskhannn/prophets-duas-bot/internal/storage"
)

// failingKV fails every operation.
type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, error) { return "", errors.New("quota exceeded") }
func (failingKV) Set(context.Context, string, string) error    { return errors.New("quota exceeded") }
func (failingKV) Delete(context.Context, ...string) error      { return errors.New("quota exceeded") }

func TestStore_LoadDefaults(t *testing.T) {
	t.Parallel()

	s := preferences.NewStore(storage.NewKVStorage(), "42", zap.NewNop())
	assert.Equal(t, entities.DefaultPreferences(), s.Load(context.Background()))
}

func TestStore_LoadMergesOverDefaults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := storage.NewKVStorage()
	require.NoError(t, kv.Set(ctx, preferences.PreferencesKey("42"), `{"uiLang":"tr","showTR":false,"favorites":["e1"],"unknown":1}`))

	got := preferences.NewStore(kv, "42", nil).Load(ctx)

	want := entities.DefaultPreferences()
	want.UILang = entities.LangTR
	want.ShowTR = false
	want.Favorites = []string{"e1"}
	assert.Equal(t, want, got)
}

func TestStore_LoadSanitizes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := storage.NewKVStorage()
	require.NoError(t, kv.Set(ctx, preferences.PreferencesKey("7"),
		`{"theme":"neon","uiLang":"de","fontArabic":99,"fontText":1,"favorites":null,"lastRoute":""}`))

	got := preferences.NewStore(kv, "7", nil).Load(ctx)
	assert.Equal(t, entities.ThemeAuto, got.Theme)
	assert.Equal(t, entities.LangEN, got.UILang)
	assert.Equal(t, entities.FontArabicMax, got.FontArabic)
	assert.Equal(t, entities.FontTextMin, got.FontText)
	assert.NotNil(t, got.Favorites)
	assert.Equal(t, "#home", got.LastRoute)
}

func TestStore_LoadCorrupted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := storage.NewKVStorage()
	require.NoError(t, kv.Set(ctx, preferences.PreferencesKey("1"), `{"uiLang":`))

	assert.Equal(t, entities.DefaultPreferences(), preferences.NewStore(kv, "1", nil).Load(ctx))
}

func TestStore_SaveAndLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := storage.NewKVStorage()
	s := preferences.NewStore(kv, "42", nil)

	p := s.Load(ctx)
	p.ToggleFavorite("e2")
	p.PushRecent("e2")
	p.LastRoute = "#view=topics"
	s.Save(ctx, p)

	assert.Equal(t, p, s.Load(ctx))

	other := preferences.NewStore(kv, "43", nil)
	assert.Empty(t, other.Load(ctx).Favorites, "owners are isolated")
}

func TestStore_FailuresAreSwallowed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := preferences.NewStore(failingKV{}, "42", nil)

	assert.Equal(t, entities.DefaultPreferences(), s.Load(ctx))
	assert.NotPanics(t, func() { s.Save(ctx, entities.DefaultPreferences()) })
	assert.False(t, s.OnboardingSeen(ctx))
	assert.NotPanics(t, func() { s.MarkOnboardingSeen(ctx) })
	assert.NotPanics(t, func() { s.Reset(ctx) })
}

func TestStore_Onboarding(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := storage.NewKVStorage()
	s := preferences.NewStore(kv, "42", nil)

	assert.False(t, s.OnboardingSeen(ctx))
	s.MarkOnboardingSeen(ctx)
	assert.True(t, s.OnboardingSeen(ctx))

	s.Save(ctx, entities.DefaultPreferences())
	assert.Equal(t, 2, kv.Len())

	s.Reset(ctx)
	assert.False(t, s.OnboardingSeen(ctx))
	assert.Equal(t, 0, kv.Len())
}
