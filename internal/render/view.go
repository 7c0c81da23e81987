// Package render turns catalog entries into presentation-neutral view-models.
// Presenters (Telegram, HTML, terminal) consume the view-models and never
// look at entries directly.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
	"github.com/aliskhannn/prophets-duas-bot/internal/textnorm"
)

const (
	maxTags    = 8
	maxSources = 3
	unknown    = "Unknown"
)

// Block is one labeled text section of a card.
type Block struct {
	Label string
	Text  []Segment
}

// CardOptions tweaks how a card is built.
type CardOptions struct {
	Featured  bool   // daily dua on the home view
	Highlight string // query typed by the user
}

// CardView is a full card of a list.
type CardView struct {
	ID          string
	Title       []Segment // prophet name
	RefLine     []Segment // type • reference • book • grade
	Attribution string
	SourceType  string
	Featured    bool
	Arabic      string // empty when hidden
	Blocks      []Block
	Tags        []string
	Reflection  []Segment
	Sources     []string
	Favorite    bool
	FontArabic  int
	FontText    int
}

// MiniCardView is a compact card used for recently viewed entries.
type MiniCardView struct {
	ID        string
	Prophet   string
	Reference string
}

// DetailView is the detail panel of a single entry.
type DetailView struct {
	ID          string
	Title       string
	RefLine     string
	Attribution string
	SourceType  string
	Arabic      string // empty when hidden
	Blocks      []Block
	Tags        []string
	Reflection  string
	Sources     []string
	Favorite    bool
	FontArabic  int
	FontText    int
	FullCopy    string
}

// Card builds the card of d under prefs.
func Card(d entities.Dua, prefs entities.Preferences, opts CardOptions) CardView {
	lang := prefs.Language()
	v := CardView{
		ID:          d.ID,
		Title:       Highlight(ProphetName(d, lang), opts.Highlight),
		RefLine:     Highlight(RefLine(d.Source), opts.Highlight),
		Attribution: Attribution(d, lang),
		SourceType:  d.Source.TypeOrDefault(),
		Featured:    opts.Featured,
		Tags:        firstN(d.Topics, maxTags),
		Reflection:  Highlight(reflectionText(d), opts.Highlight),
		Sources:     sourceLinks(d),
		Favorite:    prefs.IsFavorite(d.ID),
		FontArabic:  entities.ClampFontArabic(prefs.FontArabic),
		FontText:    entities.ClampFontText(prefs.FontText),
	}
	if prefs.ShowArabic {
		v.Arabic = d.Arabic
	}
	for _, b := range textBlocks(d, prefs) {
		v.Blocks = append(v.Blocks, Block{Label: b.label, Text: Highlight(b.text, opts.Highlight)})
	}
	return v
}

// MiniCard builds the compact card of d.
func MiniCard(d entities.Dua, lang string) MiniCardView {
	return MiniCardView{
		ID:        d.ID,
		Prophet:   ProphetName(d, lang),
		Reference: d.Source.Reference,
	}
}

// Detail builds the detail panel of d. Detail text is never highlighted.
func Detail(d entities.Dua, prefs entities.Preferences) DetailView {
	lang := prefs.Language()
	v := DetailView{
		ID:          d.ID,
		Title:       ProphetName(d, lang),
		RefLine:     RefLine(d.Source),
		Attribution: Attribution(d, lang),
		SourceType:  d.Source.TypeOrDefault(),
		Tags:        firstN(d.Topics, maxTags),
		Reflection:  reflectionText(d),
		Sources:     sourceLinks(d),
		Favorite:    prefs.IsFavorite(d.ID),
		FontArabic:  entities.ClampFontArabic(prefs.FontArabic),
		FontText:    entities.ClampFontText(prefs.FontText),
		FullCopy:    FullCopy(d),
	}
	if prefs.ShowArabic {
		v.Arabic = d.Arabic
	}
	for _, b := range textBlocks(d, prefs) {
		v.Blocks = append(v.Blocks, Block{Label: b.label, Text: Plain(b.text)})
	}
	return v
}

// ProphetName returns the localized prophet name of d.
func ProphetName(d entities.Dua, lang string) string {
	if name := d.Prophet.Localized(lang); name != "" {
		return name
	}
	return unknown
}

// RefLine joins the non-empty parts of a source with " • ".
func RefLine(s entities.Source) string {
	parts := []string{s.TypeOrDefault()}
	for _, p := range []string{s.Reference, s.Book, s.Grade} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " • ")
}

// FullCopy is the text placed on the clipboard by "Copy Full".
func FullCopy(d entities.Dua) string {
	head := d.Source.TypeOrDefault()
	if d.Source.Reference != "" {
		head += " • " + d.Source.Reference
	}

	parts := []string{ProphetName(d, entities.LangEN), head}
	for _, p := range []string{d.Arabic, d.Transliteration, d.English, d.Turkish} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Normalized source types, so "quran" and "QURAN" attribute like "Quran".
var (
	quranKey  = textnorm.Normalize(entities.SourceQuran)
	hadithKey = textnorm.Normalize(entities.SourceHadith)
)

// companionPattern finds the companion in free-text context such as
// "The Prophet taught it to Abu Bakr when ...".
var companionPattern = regexp.MustCompile(`(?i)\btaught\s+(?:it\s+|this(?:\s+\w+)?\s+)?to\s+(?:his\s+companion\s+|the\s+companion\s+)?([^.,;:()\n]+?)(?:\s+(?:when|after|before|while|who|saying)\b|[.,;:()\n]|$)`)

// Companion returns the companion a Hadith entry was taught to. The
// structured taught_to field wins over the context heuristic.
func Companion(d entities.Dua) string {
	if c := strings.TrimSpace(d.TaughtTo); c != "" {
		return c
	}
	m := companionPattern.FindStringSubmatch(d.Context)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// Attribution is the "<name> — <origin>" line shown under a card title.
// Entries that are neither Qur'anic nor attributed Hadith get the bare name.
func Attribution(d entities.Dua, lang string) string {
	name := ProphetName(d, lang)
	msg := For(lang)

	switch textnorm.Normalize(d.Source.TypeOrDefault()) {
	case quranKey:
		return name + " — " + msg.Quran
	case hadithKey:
		if c := Companion(d); c != "" {
			return name + " — " + fmt.Sprintf(msg.TaughtTo, c)
		}
	}
	return name
}

type textBlock struct {
	label string
	text  string
}

func textBlocks(d entities.Dua, prefs entities.Preferences) []textBlock {
	msg := For(prefs.Language())

	var out []textBlock
	if prefs.ShowTranslit {
		out = append(out, textBlock{label: msg.Translit, text: d.Transliteration})
	}
	if prefs.ShowEN {
		out = append(out, textBlock{label: msg.English, text: d.English})
	}
	if prefs.ShowTR {
		out = append(out, textBlock{label: msg.Turkish, text: d.Turkish})
	}
	return out
}

func reflectionText(d entities.Dua) string {
	switch {
	case d.Reflection != "":
		return d.Reflection
	case d.Context != "":
		return d.Context
	default:
		return d.Notes
	}
}

func sourceLinks(d entities.Dua) []string {
	out := make([]string, 0, maxSources)
	for _, s := range d.Sources {
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == maxSources {
			break
		}
	}
	return out
}

func firstN(ss []string, n int) []string {
	if len(ss) > n {
		return ss[:n]
	}
	return ss
}
