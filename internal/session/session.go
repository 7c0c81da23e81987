// Package session holds the application state of one user: preferences,
// navigation and the onboarding tour. Every mutation goes through the
// Session, which persists it and publishes the new routable state to its
// subscribers.
package session

import (
	"context"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/aliskhannn/prophets-duas-bot/internal/catalog"
	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
	"github.com/aliskhannn/prophets-duas-bot/internal/onboarding"
	"github.com/aliskhannn/prophets-duas-bot/internal/preferences"
	"github.com/aliskhannn/prophets-duas-bot/internal/router"
)

// WarnOnce keys. Keys name the kind of problem, never user input, so the
// set of keys stays small.
const (
	warnUnknownFilter = "unknown-filter"
	warnUnknownDua    = "unknown-dua"
)

// Filter names a list filter.
type Filter string

const (
	FilterProphet Filter = "prophet"
	FilterTopic   Filter = "topic"
	FilterSource  Filter = "source"
)

// CatalogProvider returns the currently loaded catalog, nil while loading.
type CatalogProvider interface {
	Catalog() *catalog.Catalog
}

// Snapshot is the published state of a session.
type Snapshot struct {
	Owner string
	Hash  string // routable string without a leading '#'
	State entities.ViewState
	Prefs entities.Preferences
}

// Listener is called after every published change.
type Listener func(Snapshot)

// Session is the state of one owner (a Telegram chat, a web session).
type Session struct {
	owner    string
	store    *preferences.Store
	catalogs CatalogProvider
	warn     *WarnOnce
	logger   *zap.Logger
	tour     *onboarding.Controller
	search   *Debouncer

	mu        sync.Mutex
	prefs     entities.Preferences
	nav       *router.Navigator
	hash      string
	listeners []Listener
}

// New restores the session of owner from store, starting at the last
// published route.
func New(ctx context.Context, owner string, store *preferences.Store, catalogs CatalogProvider, opts ...Option) *Session {
	s := &Session{
		owner:    owner,
		store:    store,
		catalogs: catalogs,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.warn == nil {
		s.warn = NewWarnOnce(s.logger)
	}
	if s.search == nil {
		s.search = NewDebouncer(DefaultSearchDebounce)
	}
	s.tour = onboarding.NewController(store)

	s.prefs = store.Load(ctx)
	s.nav = router.NewNavigator(strings.TrimPrefix(s.prefs.LastRoute, "#"))
	s.hash = router.Serialize(s.nav.Current())
	return s
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWarnOnce shares a dedupe-by-key warner between sessions.
func WithWarnOnce(w *WarnOnce) Option {
	return func(s *Session) { s.warn = w }
}

// WithSearchDebounce sets the search debounce delay.
func WithSearchDebounce(d *Debouncer) Option {
	return func(s *Session) { s.search = d }
}

// Owner returns the owner identifier.
func (s *Session) Owner() string { return s.owner }

// Tour returns the onboarding controller of the session.
func (s *Session) Tour() *onboarding.Controller { return s.tour }

// OnboardingSeen reports whether the owner completed or dismissed the tour.
func (s *Session) OnboardingSeen(ctx context.Context) bool { return s.store.OnboardingSeen(ctx) }

// MarkOnboardingSeen records the tour as seen without opening it.
func (s *Session) MarkOnboardingSeen(ctx context.Context) { s.store.MarkOnboardingSeen(ctx) }

// Catalog returns the current catalog, nil while loading.
func (s *Session) Catalog() *catalog.Catalog { return s.catalogs.Catalog() }

// Subscribe registers fn to be called after every published change.
func (s *Session) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Results returns the entries matching the current view state, in dataset order.
func (s *Session) Results() []entities.Dua {
	snap := s.Snapshot()
	return s.catalogs.Catalog().FilterEntries(catalog.CriteriaFromState(snap.State, snap.Prefs.Favorites))
}

// Navigate publishes a routable string as is, like following a link.
func (s *Session) Navigate(ctx context.Context, hash string) Snapshot {
	return s.mutate(ctx, func() string { return strings.TrimPrefix(hash, "#") })
}

// Go switches to route, keeping the active filters.
func (s *Session) Go(ctx context.Context, route entities.Route) Snapshot {
	return s.mutate(ctx, func() string {
		st := s.listStateLocked()
		st.Route = route
		return router.Serialize(st)
	})
}

// Search sets the query. Searching from a non-list view switches to home.
func (s *Session) Search(ctx context.Context, query string) Snapshot {
	return s.mutate(ctx, func() string {
		st := s.listStateLocked()
		if !st.Route.IsList() {
			st.Route = entities.RouteHome
		}
		st.Query = strings.TrimSpace(query)
		return router.Serialize(st)
	})
}

// SearchDebounced publishes the query after the debounce delay; only the
// last call within the delay takes effect. done receives the published state.
func (s *Session) SearchDebounced(ctx context.Context, query string, done func(Snapshot)) {
	s.search.Trigger(func() {
		if ctx.Err() != nil {
			return
		}
		snap := s.Search(ctx, query)
		if done != nil {
			done(snap)
		}
	})
}

// SetFilter sets one filter; an empty value clears it.
func (s *Session) SetFilter(ctx context.Context, f Filter, value string) Snapshot {
	return s.mutate(ctx, func() string {
		st := s.listStateLocked()
		switch f {
		case FilterProphet:
			st.Prophet = value
		case FilterTopic:
			st.Topic = value
		case FilterSource:
			st.Source = value
		default:
			s.warn.Warn(warnUnknownFilter, "unknown filter", zap.String("filter", string(f)))
		}
		return router.Serialize(st)
	})
}

// ResetFilters clears the query and every filter.
func (s *Session) ResetFilters(ctx context.Context) Snapshot {
	return s.mutate(ctx, func() string {
		return router.Serialize(s.listStateLocked().WithoutFilters())
	})
}

// Open shows the detail view of id and records it as recently viewed.
// It reports false, leaving the state untouched, when id is unknown.
func (s *Session) Open(ctx context.Context, id string) (Snapshot, entities.Dua, bool) {
	d, ok := s.catalogs.Catalog().Get(id)
	if !ok {
		s.warn.Warn(warnUnknownDua, "open of unknown dua", zap.String("id", id))
		return s.Snapshot(), entities.Dua{}, false
	}

	snap := s.mutate(ctx, func() string {
		s.prefs.PushRecent(id)
		return s.nav.Open(id)
	})
	return snap, d, true
}

// Close leaves the detail view, restoring the list state active before it
// was opened.
func (s *Session) Close(ctx context.Context) Snapshot {
	return s.mutate(ctx, func() string {
		return s.nav.Close(s.hash)
	})
}

// ToggleFavorite flips the favorite state of id and reports the new state.
func (s *Session) ToggleFavorite(ctx context.Context, id string) bool {
	var fav bool
	s.update(ctx, func(p *entities.Preferences) bool {
		fav = p.ToggleFavorite(id)
		return true
	})
	return fav
}

// SetTheme sets the theme; unknown themes are ignored.
func (s *Session) SetTheme(ctx context.Context, theme string) bool {
	return s.update(ctx, func(p *entities.Preferences) bool { return p.SetTheme(theme) })
}

// SetLanguage sets the interface language; unknown languages are ignored.
func (s *Session) SetLanguage(ctx context.Context, lang string) bool {
	return s.update(ctx, func(p *entities.Preferences) bool { return p.SetLanguage(lang) })
}

// ToggleVisibility flips the visibility of a text field.
func (s *Session) ToggleVisibility(ctx context.Context, field string) bool {
	return s.update(ctx, func(p *entities.Preferences) bool { return p.ToggleVisibility(field) })
}

// AdjustFontSize changes a font size by delta within its bounds.
func (s *Session) AdjustFontSize(ctx context.Context, font string, delta int) bool {
	return s.update(ctx, func(p *entities.Preferences) bool { return p.AdjustFontSize(font, delta) })
}

// UpdatePreferences replaces the display preferences. Favorites, recent
// and lastRoute are owned by the session and kept.
func (s *Session) UpdatePreferences(ctx context.Context, next entities.Preferences) Snapshot {
	s.update(ctx, func(p *entities.Preferences) bool {
		next.Favorites = p.Favorites
		next.Recent = p.Recent
		next.LastRoute = p.LastRoute
		next.FontArabic = entities.ClampFontArabic(next.FontArabic)
		next.FontText = entities.ClampFontText(next.FontText)
		if !p.SetTheme(next.Theme) {
			next.Theme = p.Theme
		}
		if !p.SetLanguage(next.UILang) {
			next.UILang = p.UILang
		}
		*p = next
		return true
	})
	return s.Snapshot()
}

// Reset forgets everything stored for the owner and returns home.
func (s *Session) Reset(ctx context.Context) Snapshot {
	s.search.Stop()
	s.store.Reset(ctx)

	s.mu.Lock()
	s.prefs = entities.DefaultPreferences()
	s.nav = router.NewNavigator("")
	s.mu.Unlock()

	return s.Navigate(ctx, router.Serialize(entities.ViewState{Route: entities.RouteHome}))
}

// Customized reports whether the user changed anything worth keeping:
// favorites, settings or the seen tour. Navigation history does not count.
func (s *Session) Customized(ctx context.Context) bool {
	if s.store.OnboardingSeen(ctx) {
		return true
	}

	s.mu.Lock()
	p := s.prefs
	s.mu.Unlock()

	d := entities.DefaultPreferences()
	return len(p.Favorites) > 0 ||
		p.Theme != d.Theme ||
		p.UILang != d.UILang ||
		p.ShowArabic != d.ShowArabic ||
		p.ShowTranslit != d.ShowTranslit ||
		p.ShowEN != d.ShowEN ||
		p.ShowTR != d.ShowTR ||
		p.FontArabic != d.FontArabic ||
		p.FontText != d.FontText
}

// Stop drops a pending debounced search.
func (s *Session) Stop() {
	s.search.Stop()
}

// mutate runs fn under the lock, publishes the routable string it returns
// and notifies listeners.
func (s *Session) mutate(ctx context.Context, fn func() string) Snapshot {
	s.mu.Lock()
	hash := fn()
	state := s.nav.Apply(hash)
	s.hash = router.Serialize(state)
	s.prefs.LastRoute = "#" + s.hash
	s.store.Save(ctx, s.prefs)
	snap := s.snapshotLocked()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	s.logger.Debug("state published", zap.String("hash", snap.Hash))
	for _, l := range listeners {
		l(snap)
	}
	return snap
}

// update pairs a preference mutation with its persistence. Nothing is
// written when fn reports no change.
func (s *Session) update(ctx context.Context, fn func(*entities.Preferences) bool) bool {
	s.mu.Lock()
	if !fn(&s.prefs) {
		s.mu.Unlock()
		return false
	}
	s.store.Save(ctx, s.prefs)
	snap := s.snapshotLocked()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
	return true
}

// listStateLocked is the list state underneath the current view.
func (s *Session) listStateLocked() entities.ViewState {
	st := s.nav.Current()
	if st.Route == entities.RouteDetail {
		if last, ok := s.nav.LastList(); ok {
			return last
		}
		st.Route = entities.RouteHome
	}
	st.Selected = ""
	return st
}

func (s *Session) snapshotLocked() Snapshot {
	prefs := s.prefs
	prefs.Favorites = slices.Clone(s.prefs.Favorites)
	prefs.Recent = slices.Clone(s.prefs.Recent)
	return Snapshot{
		Owner: s.owner,
		Hash:  s.hash,
		State: s.nav.Current(),
		Prefs: prefs,
	}
}
