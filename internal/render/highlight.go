package render

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/aliskhannn/prophets-duas-bot/internal/textnorm"
)

const minHighlightRunes = 2

// Segment is a run of text, marked when it matched the query.
type Segment struct {
	Text string
	Mark bool
}

// Plain wraps text into a single unmarked segment.
func Plain(text string) []Segment {
	if text == "" {
		return nil
	}
	return []Segment{{Text: text}}
}

// Highlight splits text around literal case-insensitive occurrences of the
// typed query. Text containing Arabic script is never highlighted, since
// normalized positions don't map back onto it.
func Highlight(text, query string) []Segment {
	plain := Plain(text)
	if text == "" {
		return plain
	}

	q := textnorm.Normalize(query)
	if q == "" || textnorm.HasRTL(text) {
		return plain
	}
	if !strings.Contains(textnorm.Normalize(text), q) {
		return plain
	}

	typed := strings.TrimSpace(query)
	if utf8.RuneCountInString(typed) < minHighlightRunes {
		return plain
	}

	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(typed))
	if err != nil {
		return plain
	}
	locs := re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return plain
	}

	out := make([]Segment, 0, 2*len(locs)+1)
	prev := 0
	for _, loc := range locs {
		if loc[0] > prev {
			out = append(out, Segment{Text: text[prev:loc[0]]})
		}
		out = append(out, Segment{Text: text[loc[0]:loc[1]], Mark: true})
		prev = loc[1]
	}
	if prev < len(text) {
		out = append(out, Segment{Text: text[prev:]})
	}
	return out
}

// Join concatenates the text of segments, dropping marks.
func Join(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Marked reports whether any segment is marked.
func Marked(segs []Segment) bool {
	for _, s := range segs {
		if s.Mark {
			return true
		}
	}
	return false
}
