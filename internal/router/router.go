// Package router maps view state to routable strings and back.
//
// A routable string looks like a URL fragment: either a bare route name
// ("topics") or a query string ("view=topics&q=mercy&prophet=musa").
// A leading "#" is accepted and ignored.
package router

import (
	"net/url"
	"strings"

	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
)

// Recognized query keys.
const (
	KeyView    = "view"
	KeyRoute   = "route"
	KeyDua     = "dua"
	KeyQuery   = "q"
	KeyProphet = "prophet"
	KeyTopic   = "topic"
	KeySource  = "source"
)

// Parse decodes a routable string into a view state. Unknown keys are
// ignored and unknown route names resolve to home.
func Parse(hash string) entities.ViewState {
	hash = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(hash), "#"))
	if hash == "" {
		return entities.ViewState{Route: entities.RouteHome}
	}

	if !strings.Contains(hash, "=") {
		route := routeOrHome(hash)
		if route == entities.RouteDetail {
			route = entities.RouteHome
		}
		return entities.ViewState{Route: route}
	}

	values, err := url.ParseQuery(hash)
	if err != nil && len(values) == 0 {
		return entities.ViewState{Route: entities.RouteHome}
	}

	state := entities.ViewState{
		Selected: strings.TrimSpace(values.Get(KeyDua)),
		Query:    values.Get(KeyQuery),
		Prophet:  values.Get(KeyProphet),
		Topic:    values.Get(KeyTopic),
		Source:   values.Get(KeySource),
	}

	route := values.Get(KeyView)
	if route == "" {
		route = values.Get(KeyRoute)
	}

	switch {
	case route != "":
		state.Route = routeOrHome(route)
	case state.Selected != "":
		state.Route = entities.RouteDetail
	default:
		state.Route = entities.RouteHome
	}

	if state.Route == entities.RouteDetail && state.Selected == "" {
		state.Route = entities.RouteHome
	}

	return state
}

// Serialize encodes a view state into a routable string without a leading "#".
// The detail route carries only the selected id.
func Serialize(s entities.ViewState) string {
	if s.Route == entities.RouteDetail && s.Selected != "" {
		return KeyDua + "=" + url.QueryEscape(s.Selected)
	}

	route := s.Route
	if !route.Valid() || route == entities.RouteDetail {
		route = entities.RouteHome
	}

	var sb strings.Builder
	sb.WriteString(KeyView + "=" + url.QueryEscape(string(route)))
	for _, kv := range [...]struct{ key, value string }{
		{KeyQuery, s.Query},
		{KeyProphet, s.Prophet},
		{KeyTopic, s.Topic},
		{KeySource, s.Source},
	} {
		if kv.value == "" {
			continue
		}
		sb.WriteByte('&')
		sb.WriteString(kv.key)
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(kv.value))
	}

	return sb.String()
}

// ShareLink builds a link that opens the detail view of id.
func ShareLink(base, id string) string {
	if i := strings.IndexByte(base, '#'); i >= 0 {
		base = base[:i]
	}
	return base + "#" + KeyDua + "=" + url.QueryEscape(id)
}

func routeOrHome(name string) entities.Route {
	r := entities.Route(strings.ToLower(strings.TrimSpace(name)))
	if !r.Valid() {
		return entities.RouteHome
	}
	return r
}
