// Package catalog indexes the dua dataset and answers filter queries over it.
package catalog

import (
	"cmp"
	"errors"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
	"github.com/aliskhannn/prophets-duas-bot/internal/textnorm"
)

var ErrEntryNotFound = errors.New("dua not found")

// Catalog is an immutable, indexed view of one loaded dataset.
type Catalog struct {
	entries  []entities.Dua
	index    []entities.IndexEntry
	prophets []entities.ProphetOption
	topics   []entities.TopicOption
	sources  []string

	byIDOnce sync.Once
	byID     map[string]int

	logger *zap.Logger
}

// New builds the index, the distinct prophets, topics and source types of entries.
// The entries slice is retained and must not be modified afterwards.
func New(entries []entities.Dua, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Catalog{
		entries: entries,
		index:   make([]entities.IndexEntry, 0, len(entries)),
		logger:  logger,
	}

	for _, d := range entries {
		c.index = append(c.index, buildIndexEntry(d))
	}

	c.prophets = distinctProphets(entries)
	c.topics = distinctTopics(entries)
	c.sources = distinctSources(entries)

	return c
}

// Len returns the number of entries in the dataset.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns the dataset in its original order.
func (c *Catalog) Entries() []entities.Dua {
	if c == nil {
		return nil
	}
	return c.entries
}

// Index returns the search records in dataset order.
func (c *Catalog) Index() []entities.IndexEntry {
	if c == nil {
		return nil
	}
	return c.index
}

// Prophets returns the distinct prophets sorted by normalized label.
func (c *Catalog) Prophets() []entities.ProphetOption {
	if c == nil {
		return nil
	}
	return c.prophets
}

// Topics returns the distinct topics sorted by normalized label.
func (c *Catalog) Topics() []entities.TopicOption {
	if c == nil {
		return nil
	}
	return c.topics
}

// PopularTopics returns at most n topics ordered by usage count.
func (c *Catalog) PopularTopics(n int) []entities.TopicOption {
	if c == nil || n <= 0 {
		return nil
	}

	topics := slices.Clone(c.topics)
	slices.SortStableFunc(topics, func(a, b entities.TopicOption) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if len(topics) > n {
		topics = topics[:n]
	}
	return topics
}

// Sources returns the distinct source types: Quran, Hadith, then the rest as encountered.
func (c *Catalog) Sources() []string {
	if c == nil {
		return nil
	}
	return c.sources
}

// Prophet returns the prophet option with the given key.
func (c *Catalog) Prophet(key string) (entities.ProphetOption, bool) {
	key = textnorm.Slug(key)
	for _, p := range c.Prophets() {
		if p.Key == key {
			return p, true
		}
	}
	return entities.ProphetOption{}, false
}

// Get returns the dua with the given id. The lookup map is built on first use;
// when ids repeat, the last entry wins.
func (c *Catalog) Get(id string) (entities.Dua, bool) {
	if c == nil || id == "" {
		return entities.Dua{}, false
	}

	c.byIDOnce.Do(c.buildByID)

	i, ok := c.byID[id]
	if !ok {
		return entities.Dua{}, false
	}
	return c.entries[i], true
}

// MustGet is Get returning ErrEntryNotFound for unknown ids.
func (c *Catalog) MustGet(id string) (entities.Dua, error) {
	d, ok := c.Get(id)
	if !ok {
		return entities.Dua{}, ErrEntryNotFound
	}
	return d, nil
}

// Lookup resolves ids to duas, skipping unknown ones.
func (c *Catalog) Lookup(ids []string) []entities.Dua {
	out := make([]entities.Dua, 0, len(ids))
	for _, id := range ids {
		if d, ok := c.Get(id); ok {
			out = append(out, d)
		}
	}
	return out
}

func (c *Catalog) buildByID() {
	c.byID = make(map[string]int, len(c.entries))
	for i, d := range c.entries {
		if d.ID == "" {
			continue
		}
		if _, dup := c.byID[d.ID]; dup {
			c.logger.Warn("duplicate dua id, last entry wins", zap.String("id", d.ID))
		}
		c.byID[d.ID] = i
	}
}

func buildIndexEntry(d entities.Dua) entities.IndexEntry {
	topics := make(map[string]struct{}, len(d.Topics))
	for _, t := range d.Topics {
		if k := textnorm.Normalize(t); k != "" {
			topics[k] = struct{}{}
		}
	}

	return entities.IndexEntry{
		ID:         d.ID,
		ProphetKey: textnorm.Slug(d.Prophet.Display()),
		Topics:     topics,
		SourceType: textnorm.Normalize(d.Source.TypeOrDefault()),
		Haystack: textnorm.Join(
			d.ID,
			d.Prophet.EN, d.Prophet.TR, d.Prophet.AR,
			d.Source.Type, d.Source.Reference, d.Source.Book, d.Source.Grade,
			d.Arabic, d.Transliteration, d.English, d.Turkish,
			strings.Join(d.Topics, " "),
			d.Notes, d.Context, d.Reflection,
		),
	}
}

func distinctProphets(entries []entities.Dua) []entities.ProphetOption {
	var (
		order []string
		seen  = make(map[string]*entities.ProphetOption)
	)

	for _, d := range entries {
		label := d.Prophet.Display()
		key := textnorm.Slug(label)
		if key == "" {
			continue
		}

		p, ok := seen[key]
		if !ok {
			p = &entities.ProphetOption{Key: key, Label: label}
			seen[key] = p
			order = append(order, key)
		}

		p.Count++
		if p.Names.EN == "" {
			p.Names.EN = d.Prophet.EN
		}
		if p.Names.TR == "" {
			p.Names.TR = d.Prophet.TR
		}
		if p.Names.AR == "" {
			p.Names.AR = d.Prophet.AR
		}
	}

	out := make([]entities.ProphetOption, 0, len(order))
	for _, k := range order {
		out = append(out, *seen[k])
	}
	slices.SortStableFunc(out, func(a, b entities.ProphetOption) int {
		return strings.Compare(textnorm.Normalize(a.Label), textnorm.Normalize(b.Label))
	})
	return out
}

func distinctTopics(entries []entities.Dua) []entities.TopicOption {
	var (
		order []string
		seen  = make(map[string]*entities.TopicOption)
	)

	for _, d := range entries {
		for _, t := range d.Topics {
			key := textnorm.Normalize(t)
			if key == "" {
				continue
			}
			opt, ok := seen[key]
			if !ok {
				opt = &entities.TopicOption{Key: key, Label: strings.TrimSpace(t)}
				seen[key] = opt
				order = append(order, key)
			}
			opt.Count++
		}
	}

	out := make([]entities.TopicOption, 0, len(order))
	for _, k := range order {
		out = append(out, *seen[k])
	}
	slices.SortStableFunc(out, func(a, b entities.TopicOption) int {
		return strings.Compare(a.Key, b.Key)
	})
	return out
}

func distinctSources(entries []entities.Dua) []string {
	var (
		rest      []string
		seen      = make(map[string]bool)
		hasQuran  bool
		hasHadith bool
	)

	quranKey := textnorm.Normalize(entities.SourceQuran)
	hadithKey := textnorm.Normalize(entities.SourceHadith)

	for _, d := range entries {
		label := strings.TrimSpace(d.Source.TypeOrDefault())
		key := textnorm.Normalize(label)
		if seen[key] {
			continue
		}
		seen[key] = true

		switch key {
		case quranKey:
			hasQuran = true
		case hadithKey:
			hasHadith = true
		default:
			rest = append(rest, label)
		}
	}

	out := make([]string, 0, len(rest)+2)
	if hasQuran {
		out = append(out, entities.SourceQuran)
	}
	if hasHadith {
		out = append(out, entities.SourceHadith)
	}
	return append(out, rest...)
}
