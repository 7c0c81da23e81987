package entities

// Route names a top-level view.
type Route string

const (
	RouteHome      Route = "home"
	RouteProphets  Route = "prophets"
	RouteTopics    Route = "topics"
	RouteFavorites Route = "favorites"
	RouteAbout     Route = "about"
	RouteDetail    Route = "dua"
)

// Routes lists every known route in navigation order.
var Routes = []Route{RouteHome, RouteProphets, RouteTopics, RouteFavorites, RouteAbout, RouteDetail}

// Valid reports whether r is a known route.
func (r Route) Valid() bool {
	switch r {
	case RouteHome, RouteProphets, RouteTopics, RouteFavorites, RouteAbout, RouteDetail:
		return true
	}
	return false
}

// IsList reports whether r renders a list of cards.
func (r Route) IsList() bool {
	return r != RouteDetail && r != RouteAbout
}

// ViewState is the navigational state of one user.
type ViewState struct {
	Route    Route
	Selected string // dua id shown in the detail view
	Query    string
	Prophet  string // prophet slug
	Topic    string
	Source   string
}

// HasFilters reports whether any filter criterion is set.
func (s ViewState) HasFilters() bool {
	return s.Query != "" || s.Prophet != "" || s.Topic != "" || s.Source != ""
}

// WithoutFilters returns a copy of s with every filter cleared.
func (s ViewState) WithoutFilters() ViewState {
	s.Query, s.Prophet, s.Topic, s.Source = "", "", "", ""
	return s
}
