package catalog

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
)

func sampleDuas() []entities.Dua {
	return []entities.Dua{
		{
			ID:              "e1",
			Prophet:         entities.ProphetNames{EN: "Ibrahim", TR: "İbrahim", AR: "إبراهيم"},
			Arabic:          "رب اجعلني مقيم الصلاة",
			Transliteration: "Rabbi j'alni muqima s-salati",
			English:         "My Lord, make me an establisher of prayer",
			Turkish:         "Rabbim, beni namazı dosdoğru kılan eyle",
			Topics:          []string{"patience"},
			Source:          entities.Source{Type: "Quran", Reference: "14:40"},
		},
		{
			ID:              "e2",
			Prophet:         entities.ProphetNames{EN: "Musa", TR: "Musa", AR: "موسى"},
			Arabic:          "رب إني ظلمت نفسي فاغفر لي",
			Transliteration: "Rabbi inni zalamtu nafsi faghfir li",
			English:         "My Lord, I have wronged myself, so pardon me",
			Turkish:         "Rabbim, ben kendime zulmettim, beni bağışla",
			Topics:          []string{"forgiveness"},
			Source:          entities.Source{Type: "Quran", Reference: "28:16"},
		},
	}
}

func richDuas() []entities.Dua {
	duas := sampleDuas()
	return append(duas,
		entities.Dua{
			ID:       "e3",
			Prophet:  entities.ProphetNames{EN: "Muhammad", TR: "Muhammed"},
			Arabic:   "اللهم إني أسألك العفو والعافية",
			English:  "O Allah, I ask You for pardon and well-being",
			Turkish:  "Allah'ım, senden af ve afiyet isterim",
			Topics:   []string{"Patience", "health"},
			Source:   entities.Source{Type: "Hadith", Reference: "Abu Dawud 5074", Book: "Sunan Abi Dawud", Grade: "Sahih"},
			Occasion: "morning and evening",
		},
		entities.Dua{
			ID:      "e4",
			Prophet: entities.ProphetNames{EN: "Ibrāhīm"},
			Arabic:  "ربنا تقبل منا",
			English: "Our Lord, accept from us",
			Topics:  []string{"acceptance"},
			Source:  entities.Source{Type: "Other", Reference: "Athar"},
		},
	)
}

func TestCatalog_Filter_Scenarios(t *testing.T) {
	t.Parallel()

	c := New(sampleDuas(), zap.NewNop())

	t.Run("prophet filter", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"e1"}, c.Filter(Criteria{Prophet: "ibrahim"}))
	})

	t.Run("query matches topic field", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"e2"}, c.Filter(Criteria{Query: "forgive"}))
	})

	t.Run("favorites only", func(t *testing.T) {
		t.Parallel()

		p := entities.DefaultPreferences()
		p.Favorites = []string{"e1"}
		assert.Equal(t, []string{"e1"}, c.Filter(Criteria{FavoritesOnly: true, Favorites: p.Favorites}))

		p.ToggleFavorite("e2")
		assert.Equal(t, []string{"e1", "e2"}, c.Filter(Criteria{FavoritesOnly: true, Favorites: p.Favorites}))
	})
}

func TestCatalog_Filter(t *testing.T) {
	t.Parallel()

	c := New(richDuas(), zap.NewNop())

	tests := []struct {
		name string
		cr   Criteria
		want []string
	}{
		{name: "empty criteria keeps dataset order", cr: Criteria{}, want: []string{"e1", "e2", "e3", "e4"}},
		{name: "accent insensitive query", cr: Criteria{Query: "IBRĀHĪM"}, want: []string{"e1", "e4"}},
		{name: "prophet by display name", cr: Criteria{Prophet: "Ibrāhīm"}, want: []string{"e1", "e4"}},
		{name: "topic is case insensitive", cr: Criteria{Topic: "PATIENCE"}, want: []string{"e1", "e3"}},
		{name: "source", cr: Criteria{Source: "hadith"}, want: []string{"e3"}},
		{name: "and of predicates", cr: Criteria{Topic: "patience", Source: "Quran"}, want: []string{"e1"}},
		{name: "query over reference", cr: Criteria{Query: "5074"}, want: []string{"e3"}},
		{name: "query over book", cr: Criteria{Query: "sunan abi"}, want: []string{"e3"}},
		{name: "query over arabic", cr: Criteria{Query: "ظلمت"}, want: []string{"e2"}},
		{name: "whitespace query is no-op", cr: Criteria{Query: "   "}, want: []string{"e1", "e2", "e3", "e4"}},
		{name: "no match", cr: Criteria{Query: "zzzz"}, want: []string{}},
		{name: "favorites only with empty favorites", cr: Criteria{FavoritesOnly: true}, want: []string{}},
		{name: "favorites ignore unknown ids", cr: Criteria{FavoritesOnly: true, Favorites: []string{"gone", "e4"}}, want: []string{"e4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, c.Filter(tt.cr))
		})
	}
}

func TestCatalog_Filter_LengthBound(t *testing.T) {
	t.Parallel()

	c := New(richDuas(), zap.NewNop())
	for _, q := range []string{"", "a", "rabbi", "lord", "الله", "e", "!!", "ibrahim patience"} {
		assert.LessOrEqual(t, len(c.Filter(Criteria{Query: q})), c.Len(), "query %q", q)
	}
}

func TestCatalog_NilIsEmpty(t *testing.T) {
	t.Parallel()

	var c *Catalog
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Filter(Criteria{}))
	assert.Empty(t, c.Prophets())
	_, ok := c.Get("e1")
	assert.False(t, ok)
	_, ok = c.Daily(time.Now())
	assert.False(t, ok)
}

func TestCatalog_Get(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	duas := sampleDuas()
	dup := duas[0]
	dup.English = "replacement"
	duas = append(duas, dup)

	c := New(duas, zap.New(core))

	d, ok := c.Get("e1")
	require.True(t, ok)
	assert.Equal(t, "replacement", d.English, "last duplicate wins")
	assert.Equal(t, 1, logs.FilterMessage("duplicate dua id, last entry wins").Len())

	_, ok = c.Get("missing")
	assert.False(t, ok)

	_, err := c.MustGet("missing")
	assert.ErrorIs(t, err, ErrEntryNotFound)

	assert.Len(t, c.Lookup([]string{"e2", "missing", "e1"}), 2)
}

func TestCatalog_FilterEntries_DuplicateIDs(t *testing.T) {
	t.Parallel()

	duas := sampleDuas()
	dup := duas[1]
	dup.English = "Duplicate entry"
	dup.Transliteration = ""
	dup.Turkish = ""
	dup.Arabic = ""
	duas = append(duas, dup)

	c := New(duas, zap.NewNop())

	found := c.FilterEntries(Criteria{Query: "wronged"})
	require.Len(t, found, 1)
	assert.Equal(t, "e2", found[0].ID)
	assert.Contains(t, found[0].English, "wronged", "the matching record, not the last duplicate")

	assert.Len(t, c.FilterEntries(Criteria{Query: "musa"}), 2)
	assert.Equal(t, c.Filter(Criteria{Query: "musa"}), []string{"e2", "e2"})

	d, ok := c.Get("e2")
	require.True(t, ok)
	assert.Equal(t, "Duplicate entry", d.English, "lookup by id stays last-wins")

	assert.Empty(t, (*Catalog)(nil).FilterEntries(Criteria{}))
}

func TestCatalog_Prophets(t *testing.T) {
	t.Parallel()

	c := New(richDuas(), zap.NewNop())
	prophets := c.Prophets()
	require.Len(t, prophets, 3)

	assert.Equal(t, "ibrahim", prophets[0].Key)
	assert.Equal(t, "Ibrahim", prophets[0].Label, "first label seen wins")
	assert.Equal(t, 2, prophets[0].Count)
	assert.Equal(t, "İbrahim", prophets[0].Names.TR)
	assert.Equal(t, "muhammad", prophets[1].Key)
	assert.Equal(t, "musa", prophets[2].Key)

	p, ok := c.Prophet("Musa")
	require.True(t, ok)
	assert.Equal(t, "موسى", p.Names.AR)
}

func TestCatalog_Topics(t *testing.T) {
	t.Parallel()

	c := New(richDuas(), zap.NewNop())

	var keys []string
	for _, tp := range c.Topics() {
		keys = append(keys, tp.Key)
	}
	assert.Equal(t, []string{"acceptance", "forgiveness", "health", "patience"}, keys)

	popular := c.PopularTopics(2)
	require.Len(t, popular, 2)
	assert.Equal(t, "patience", popular[0].Key)
	assert.Equal(t, 2, popular[0].Count)
	assert.Equal(t, "patience", popular[0].Label, "first label seen wins")
	assert.Equal(t, "acceptance", popular[1].Key)
}

func TestCatalog_Sources(t *testing.T) {
	t.Parallel()

	duas := []entities.Dua{
		{ID: "a", Source: entities.Source{Type: "Athar"}},
		{ID: "b", Source: entities.Source{Type: "hadith"}},
		{ID: "c", Source: entities.Source{}},
		{ID: "d", Source: entities.Source{Type: "Quran"}},
		{ID: "e", Source: entities.Source{Type: "athar"}},
	}

	assert.Equal(t, []string{"Quran", "Hadith", "Athar", "Other"}, New(duas, nil).Sources())
}

func TestCatalog_Daily(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

	// 20240305 * 48271 mod (2^31-1) = 2062186917; 2062186917 mod 4 = 1.
	assert.Equal(t, 1, DailyIndex(day, 4))
	assert.Equal(t, -1, DailyIndex(day, 0))

	c := New(richDuas(), nil)
	d, ok := c.Daily(day)
	require.True(t, ok)
	assert.Equal(t, "e2", d.ID)

	same, _ := c.Daily(day.Add(10 * time.Hour))
	assert.Equal(t, d.ID, same.ID, "stable within a day")
}

func BenchmarkCatalog_Filter(b *testing.B) {
	base := richDuas()
	duas := make([]entities.Dua, 0, 2000)
	for i := range 500 {
		for _, d := range base {
			d.ID = fmt.Sprintf("%s-%d", d.ID, i)
			duas = append(duas, d)
		}
	}
	c := New(duas, nil)

	b.ResetTimer()
	for range b.N {
		c.Filter(Criteria{Query: "lord", Topic: "patience"})
	}
}
