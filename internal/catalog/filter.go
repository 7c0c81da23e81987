package catalog

import (
	"strings"

	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
	"github.com/aliskhannn/prophets-duas-bot/internal/textnorm"
)

// Criteria narrows the dataset. Empty fields impose no constraint.
type Criteria struct {
	Query         string
	Prophet       string // prophet slug or display name
	Topic         string
	Source        string
	FavoritesOnly bool
	Favorites     []string
}

// CriteriaFromState builds the criteria of a view state.
func CriteriaFromState(s entities.ViewState, favorites []string) Criteria {
	return Criteria{
		Query:         s.Query,
		Prophet:       s.Prophet,
		Topic:         s.Topic,
		Source:        s.Source,
		FavoritesOnly: s.Route == entities.RouteFavorites,
		Favorites:     favorites,
	}
}

// Filter returns the ids of the entries matching every active criterion,
// in dataset order. It scans the whole index once.
func (c *Catalog) Filter(cr Criteria) []string {
	if c == nil {
		return []string{}
	}

	matched := c.match(cr)
	out := make([]string, 0, len(matched))
	for _, i := range matched {
		out = append(out, c.index[i].ID)
	}
	return out
}

// FilterEntries is Filter returning the matching duas themselves. With
// duplicate ids every matching record is returned as it is, not the
// last-wins record Get resolves to.
func (c *Catalog) FilterEntries(cr Criteria) []entities.Dua {
	if c == nil {
		return []entities.Dua{}
	}

	matched := c.match(cr)
	out := make([]entities.Dua, 0, len(matched))
	for _, i := range matched {
		out = append(out, c.entries[i])
	}
	return out
}

// match returns the dataset positions of the matching entries.
func (c *Catalog) match(cr Criteria) []int {
	var (
		query   = textnorm.Normalize(cr.Query)
		prophet = textnorm.Slug(cr.Prophet)
		topic   = textnorm.Normalize(cr.Topic)
		source  = textnorm.Normalize(cr.Source)
		favs    map[string]struct{}
	)

	if cr.FavoritesOnly {
		favs = make(map[string]struct{}, len(cr.Favorites))
		for _, id := range cr.Favorites {
			favs[id] = struct{}{}
		}
	}

	out := make([]int, 0, len(c.index))
	for i, e := range c.index {
		if prophet != "" && e.ProphetKey != prophet {
			continue
		}
		if topic != "" && !e.HasTopic(topic) {
			continue
		}
		if source != "" && e.SourceType != source {
			continue
		}
		if favs != nil {
			if _, ok := favs[e.ID]; !ok {
				continue
			}
		}
		if query != "" && !strings.Contains(e.Haystack, query) {
			continue
		}
		out = append(out, i)
	}

	return out
}
