package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
)

func TestNavigator_OpenCloseRestoresFilters(t *testing.T) {
	t.Parallel()

	n := NewNavigator("#view=topics&q=forgive&topic=forgiveness")
	before := n.Current()

	hash := n.Open("e2")
	assert.Equal(t, "dua=e2", hash)

	detail := n.Apply(hash)
	assert.Equal(t, entities.RouteDetail, detail.Route)
	assert.Equal(t, "e2", detail.Selected)
	assert.Equal(t, "forgive", detail.Query, "filters stay underneath the detail view")

	last, ok := n.LastList()
	require.True(t, ok)
	assert.Equal(t, before, last)

	back := n.Close(hash)
	restored := n.Apply(back)
	assert.Equal(t, before, restored)

	_, ok = n.LastList()
	assert.False(t, ok)
}

func TestNavigator_OpenFromDetailKeepsOriginalList(t *testing.T) {
	t.Parallel()

	n := NewNavigator("#view=favorites")
	n.Apply(n.Open("e1"))
	n.Apply(n.Open("e2"))

	assert.Equal(t, "e2", n.Current().Selected)
	assert.Equal(t, "view=favorites", n.Close("dua=e2"))
}

func TestNavigator_DeepLinkClose(t *testing.T) {
	t.Parallel()

	n := NewNavigator("#dua=e7")
	assert.Equal(t, entities.RouteDetail, n.Current().Route)

	_, ok := n.LastList()
	assert.False(t, ok)

	assert.Equal(t, "view=home", n.Close("#dua=e7"))
	assert.Equal(t, "view=about", n.Close("#about"))
}

func TestNavigator_CloseOutsideDetailKeepsState(t *testing.T) {
	t.Parallel()

	n := NewNavigator("#view=topics&q=mercy&topic=patience")
	assert.Equal(t, "view=topics&q=mercy&topic=patience", n.Close("view=topics&q=mercy&topic=patience"))
	assert.Equal(t, entities.ViewState{Route: entities.RouteTopics, Query: "mercy", Topic: "patience"}, n.Current())
}

func TestNavigator_ApplyListClearsSnapshot(t *testing.T) {
	t.Parallel()

	n := NewNavigator("#view=topics&topic=patience")
	n.Apply(n.Open("e1"))

	// Navigating away from the detail by another route forgets the snapshot.
	n.Apply("#view=prophets")
	_, ok := n.LastList()
	assert.False(t, ok)
	assert.Equal(t, entities.ViewState{Route: entities.RouteProphets}, n.Current())
}
