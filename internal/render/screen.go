package render

import (
	"time"

	"github.com/aliskhannn/prophets-duas-bot/internal/catalog"
	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
)

const (
	maxRecentCards   = 8
	maxPopularTopics = 8
)

// Status is the dataset status a screen is drawn for.
type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusFailed
)

// EmptyKind names an empty state.
type EmptyKind string

const (
	EmptyNoResults   EmptyKind = "no-results"
	EmptyNoFavorites EmptyKind = "no-favorites"
)

// EmptyAction is a suggested way out of an empty state. Reset clears every
// filter before going to Route.
type EmptyAction struct {
	Label string
	Route entities.Route
	Reset bool
}

// EmptyState is shown instead of an empty list.
type EmptyState struct {
	Kind    EmptyKind
	Title   string
	Desc    string
	Actions []EmptyAction
}

// AboutView is the about panel.
type AboutView struct {
	Title       string
	Desc        string
	Disclaimers []string
	Count       int
}

// ScreenInput is everything needed to draw one published state.
type ScreenInput struct {
	Catalog *catalog.Catalog
	Status  Status
	State   entities.ViewState
	Prefs   entities.Preferences
	Day     time.Time
}

// Screen is the view-model of a whole view.
type Screen struct {
	Msg    *Messages
	Lang   string
	Status Status
	State  entities.ViewState
	Title  string

	Total int
	Found int

	Daily         *CardView
	Recent        []MiniCardView
	PopularTopics []entities.TopicOption
	Prophets      []entities.ProphetOption
	Topics        []entities.TopicOption
	Sources       []string
	Cards         []CardView
	Empty         *EmptyState

	Detail   *DetailView
	NotFound bool
	About    *AboutView
}

// BuildScreen derives the view-model of in.State. While no catalog is
// loaded the screen only carries the status.
func BuildScreen(in ScreenInput) Screen {
	lang := in.Prefs.Language()
	msg := For(lang)

	s := Screen{
		Msg:    msg,
		Lang:   lang,
		Status: in.Status,
		State:  in.State,
		Title:  msg.Section(in.State.Route),
	}

	cat := in.Catalog
	if cat == nil {
		if s.Status == StatusReady {
			s.Status = StatusLoading
		}
		return s
	}
	s.Status = StatusReady
	s.Total = cat.Len()
	s.Sources = cat.Sources()

	switch in.State.Route {
	case entities.RouteDetail:
		d, ok := cat.Get(in.State.Selected)
		if !ok {
			s.NotFound = true
			return s
		}
		v := Detail(d, in.Prefs)
		s.Detail = &v
		return s

	case entities.RouteAbout:
		s.About = &AboutView{
			Title:       msg.AboutTitle,
			Desc:        msg.AboutDesc,
			Disclaimers: msg.AboutDisclaimers,
			Count:       cat.Len(),
		}
		return s

	case entities.RouteHome:
		s.Title = msg.Featured
		if d, ok := cat.Daily(in.Day); ok {
			v := Card(d, in.Prefs, CardOptions{Featured: true, Highlight: in.State.Query})
			s.Daily = &v
		}
		for _, d := range cat.Lookup(firstN(in.Prefs.Recent, maxRecentCards)) {
			s.Recent = append(s.Recent, MiniCard(d, lang))
		}
		s.PopularTopics = cat.PopularTopics(maxPopularTopics)

	case entities.RouteProphets:
		s.Prophets = cat.Prophets()

	case entities.RouteTopics:
		s.Topics = cat.Topics()
	}

	entries := cat.FilterEntries(catalog.CriteriaFromState(in.State, in.Prefs.Favorites))
	s.Found = len(entries)
	for _, d := range entries {
		s.Cards = append(s.Cards, Card(d, in.Prefs, CardOptions{Highlight: in.State.Query}))
	}

	if s.Found == 0 {
		s.Empty = emptyState(msg, in.State.Route == entities.RouteFavorites)
	}
	return s
}

func emptyState(msg *Messages, favorites bool) *EmptyState {
	if favorites {
		return &EmptyState{
			Kind:  EmptyNoFavorites,
			Title: msg.NoFavTitle,
			Desc:  msg.NoFavDesc,
			Actions: []EmptyAction{
				{Label: msg.BrowseProphets, Route: entities.RouteProphets},
				{Label: msg.BrowseTopics, Route: entities.RouteTopics},
			},
		}
	}
	return &EmptyState{
		Kind:  EmptyNoResults,
		Title: msg.NoResultsTitle,
		Desc:  msg.NoResultsDesc,
		Actions: []EmptyAction{
			{Label: msg.ShowAll, Route: entities.RouteHome, Reset: true},
			{Label: msg.BrowseTopics, Route: entities.RouteTopics},
		},
	}
}
