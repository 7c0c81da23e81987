// Package textnorm folds text into a canonical form used for searching and keys.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// combiningMarks covers the Combining Diacritical Marks block (U+0300..U+036F).
var combiningMarks = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0300, Hi: 0x036f, Stride: 1}},
}

// arabic covers the basic Arabic block (U+0600..U+06FF).
var arabic = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0600, Hi: 0x06ff, Stride: 1}},
}

// Normalize lowercases s, applies compatibility decomposition, strips
// combining diacritics, collapses whitespace and trims the result.
// Normalize is idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(combiningMarks)))
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}

	// Decomposition may surface uppercase letters (e.g. "ℌ" -> "H").
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// Slug turns s into a routable key: normalized text with every run of
// characters other than letters and digits replaced by a single dash.
func Slug(s string) string {
	var sb strings.Builder
	dash := false
	for _, r := range Normalize(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			dash = false
			sb.WriteRune(r)
			continue
		}
		dash = true
	}
	return sb.String()
}

// HasRTL reports whether s contains characters from the Arabic block.
func HasRTL(s string) bool {
	for _, r := range s {
		if unicode.Is(arabic, r) {
			return true
		}
	}
	return false
}

// Join normalizes every non-empty part and joins them with a single space.
func Join(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if n := Normalize(p); n != "" {
			out = append(out, n)
		}
	}
	return strings.Join(out, " ")
}
