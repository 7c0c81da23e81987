package router

import "github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"

// Navigator tracks the current view state and the list state to return to
// when the detail view closes. It is not safe for concurrent use.
type Navigator struct {
	current  entities.ViewState
	lastList *entities.ViewState
}

// NewNavigator starts at the state encoded in hash.
func NewNavigator(hash string) *Navigator {
	n := &Navigator{}
	n.Apply(hash)
	return n
}

// Current returns the active view state.
func (n *Navigator) Current() entities.ViewState {
	return n.current
}

// LastList returns the remembered list state, if any.
func (n *Navigator) LastList() (entities.ViewState, bool) {
	if n.lastList == nil {
		return entities.ViewState{}, false
	}
	return *n.lastList, true
}

// Apply re-hydrates the navigator from a published routable string.
// A detail hash keeps the active filters underneath the detail view since
// the string itself does not carry them.
func (n *Navigator) Apply(hash string) entities.ViewState {
	next := Parse(hash)

	if next.Route == entities.RouteDetail {
		if n.current.Route != entities.RouteDetail && n.current.Route != "" {
			n.snapshot()
		}
		next.Query = n.current.Query
		next.Prophet = n.current.Prophet
		next.Topic = n.current.Topic
		next.Source = n.current.Source
	} else {
		n.lastList = nil
	}

	n.current = next
	return next
}

// Open enters the detail view of id and returns the routable string to publish.
func (n *Navigator) Open(id string) string {
	if n.current.Route != entities.RouteDetail {
		n.snapshot()
	}
	return Serialize(entities.ViewState{Route: entities.RouteDetail, Selected: id})
}

// Close leaves the detail view and returns the routable string to publish.
// Without a remembered list state it falls back to the route encoded in
// currentHash, or home. Outside the detail view it keeps the current state.
func (n *Navigator) Close(currentHash string) string {
	if n.current.Route != entities.RouteDetail {
		return Serialize(n.current)
	}
	if n.lastList != nil {
		restored := *n.lastList
		n.lastList = nil
		return Serialize(restored)
	}

	fallback := Parse(currentHash)
	if fallback.Route == entities.RouteDetail {
		return Serialize(entities.ViewState{Route: entities.RouteHome})
	}
	return Serialize(entities.ViewState{Route: fallback.Route})
}

func (n *Navigator) snapshot() {
	s := n.current
	s.Selected = ""
	n.lastList = &s
}
