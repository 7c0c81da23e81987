// Package entities contains domain entities used across the application.
package entities

// Source type labels recognized by the catalog. Any other value is kept as is.
const (
	SourceQuran  = "Quran"
	SourceHadith = "Hadith"
	SourceOther  = "Other"
)

// Dua represents a single supplication from the dataset.
// It includes the Arabic text, its transliteration, English and Turkish
// translations, and the scholarly reference it was taken from.
type Dua struct {
	ID              string       `json:"id"`              // stable identifier, unique within the dataset
	Prophet         ProphetNames `json:"prophet"`         // localized names of the prophet
	Arabic          string       `json:"arabic"`          // original Arabic text
	Transliteration string       `json:"transliteration"` // Latin transliteration of the Arabic text
	English         string       `json:"english"`         // English translation
	Turkish         string       `json:"turkish"`         // Turkish translation
	Topics          []string     `json:"topics"`          // free-form topic tags
	Source          Source       `json:"source"`          // reference of the supplication
	Occasion        string       `json:"occasion"`        // circumstances, expected for Hadith entries
	Notes           string       `json:"notes"`
	Context         string       `json:"context"`
	Reflection      string       `json:"reflection"`
	TaughtTo        string       `json:"taught_to"` // companion the supplication was taught to, if known
	Sources         []string     `json:"sources"`   // external links
}

// ProphetNames holds the prophet name in every supported language.
type ProphetNames struct {
	EN string `json:"en"`
	TR string `json:"tr"`
	AR string `json:"ar"`
}

// Display returns the first non-empty localized name, preferring English.
func (p ProphetNames) Display() string {
	switch {
	case p.EN != "":
		return p.EN
	case p.TR != "":
		return p.TR
	default:
		return p.AR
	}
}

// Localized returns the name for the given UI language falling back to Display.
func (p ProphetNames) Localized(lang string) string {
	if lang == LangTR && p.TR != "" {
		return p.TR
	}
	return p.Display()
}

// Source is the scholarly reference of a supplication.
type Source struct {
	Type      string `json:"type"`      // Quran, Hadith or Other
	Reference string `json:"reference"` // e.g. "14:40" or "Bukhari 6306"
	Book      string `json:"book"`
	Grade     string `json:"grade"`
}

// TypeOrDefault returns the source type, treating an empty value as Other.
func (s Source) TypeOrDefault() string {
	if s.Type == "" {
		return SourceOther
	}
	return s.Type
}
