package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hash string
		want entities.ViewState
	}{
		{name: "empty", hash: "", want: entities.ViewState{Route: entities.RouteHome}},
		{name: "hash only", hash: "#", want: entities.ViewState{Route: entities.RouteHome}},
		{name: "bare route", hash: "#topics", want: entities.ViewState{Route: entities.RouteTopics}},
		{name: "bare route without hash", hash: "favorites", want: entities.ViewState{Route: entities.RouteFavorites}},
		{name: "unknown bare route", hash: "#settings", want: entities.ViewState{Route: entities.RouteHome}},
		{name: "bare detail without id", hash: "#dua", want: entities.ViewState{Route: entities.RouteHome}},
		{
			name: "query string",
			hash: "#view=prophets&q=my+lord&prophet=ibrahim&topic=patience&source=Quran",
			want: entities.ViewState{
				Route:   entities.RouteProphets,
				Query:   "my lord",
				Prophet: "ibrahim",
				Topic:   "patience",
				Source:  "Quran",
			},
		},
		{name: "route alias", hash: "route=about", want: entities.ViewState{Route: entities.RouteAbout}},
		{name: "dua implies detail", hash: "#dua=e%2F1", want: entities.ViewState{Route: entities.RouteDetail, Selected: "e/1"}},
		{name: "legacy detail form", hash: "#route=dua&dua=e1", want: entities.ViewState{Route: entities.RouteDetail, Selected: "e1"}},
		{name: "detail without id", hash: "#view=dua", want: entities.ViewState{Route: entities.RouteHome}},
		{name: "unknown keys ignored", hash: "#view=topics&utm=x", want: entities.ViewState{Route: entities.RouteTopics}},
		{name: "filters without view", hash: "#q=mercy", want: entities.ViewState{Route: entities.RouteHome, Query: "mercy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Parse(tt.hash))
		})
	}
}

func TestSerialize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "view=home", Serialize(entities.ViewState{}))
	assert.Equal(t, "view=topics&q=a%26b&topic=patience",
		Serialize(entities.ViewState{Route: entities.RouteTopics, Query: "a&b", Topic: "patience"}))
	assert.Equal(t, "dua=e1", Serialize(entities.ViewState{
		Route:    entities.RouteDetail,
		Selected: "e1",
		Query:    "dropped",
	}))
	assert.Equal(t, "view=home", Serialize(entities.ViewState{Route: entities.RouteDetail}))
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	states := []entities.ViewState{
		{Route: entities.RouteHome},
		{Route: entities.RouteAbout},
		{Route: entities.RouteFavorites, Query: "lord"},
		{Route: entities.RouteProphets, Prophet: "yunus", Source: "Quran"},
		{Route: entities.RouteTopics, Topic: "patience & gratitude", Query: "رب اغفر", Prophet: "ibrahim", Source: "Hadith"},
		{Route: entities.RouteHome, Query: "100% = sure?#"},
	}

	for _, s := range states {
		assert.Equal(t, s, Parse(Serialize(s)), "state %+v", s)
		assert.Equal(t, s, Parse("#"+Serialize(s)), "state %+v with hash", s)
	}

	detail := entities.ViewState{Route: entities.RouteDetail, Selected: "id with spaces/ü", Topic: "x"}
	got := Parse(Serialize(detail))
	assert.Equal(t, entities.RouteDetail, got.Route)
	assert.Equal(t, detail.Selected, got.Selected)
	assert.Empty(t, got.Topic)
}

func TestShareLink(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://duas.example/#dua=e1", ShareLink("https://duas.example/", "e1"))
	assert.Equal(t, "https://duas.example/app#dua=a+b", ShareLink("https://duas.example/app#view=topics", "a b"))

	got := Parse(ShareLink("https://duas.example/", "ibrahim-01")[len("https://duas.example/"):])
	require.Equal(t, entities.RouteDetail, got.Route)
	assert.Equal(t, "ibrahim-01", got.Selected)
}
