package entities

import "slices"

// Supported interface languages.
const (
	LangEN = "en"
	LangTR = "tr"
)

// Supported themes.
const (
	ThemeAuto  = "auto"
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Font size bounds in pixels.
const (
	FontArabicMin     = 16
	FontArabicMax     = 34
	FontArabicDefault = 20
	FontTextMin       = 13
	FontTextMax       = 20
	FontTextDefault   = 15
)

// MaxRecent is the number of recently viewed ids kept.
const MaxRecent = 20

// Visibility flags that can be toggled by the user.
const (
	FieldArabic   = "arabic"
	FieldTranslit = "translit"
	FieldEnglish  = "en"
	FieldTurkish  = "tr"
)

// Font kinds that can be resized.
const (
	FontArabic = "arabic"
	FontText   = "text"
)

// Preferences is the persisted per-user state.
type Preferences struct {
	Theme        string   `json:"theme"`        // auto, light or dark
	UILang       string   `json:"uiLang"`       // en or tr
	ShowArabic   bool     `json:"showArabic"`   // render Arabic text
	ShowTranslit bool     `json:"showTranslit"` // render transliteration
	ShowEN       bool     `json:"showEN"`       // render English translation
	ShowTR       bool     `json:"showTR"`       // render Turkish translation
	FontArabic   int      `json:"fontArabic"`   // Arabic font size in px
	FontText     int      `json:"fontText"`     // body font size in px
	Favorites    []string `json:"favorites"`    // favorite ids, set semantics
	Recent       []string `json:"recent"`       // recently viewed ids, newest first
	LastRoute    string   `json:"lastRoute"`    // last published route, "#"-prefixed
}

// DefaultPreferences returns the preferences of a first-time user.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:        ThemeAuto,
		UILang:       LangEN,
		ShowArabic:   true,
		ShowTranslit: true,
		ShowEN:       true,
		ShowTR:       true,
		FontArabic:   FontArabicDefault,
		FontText:     FontTextDefault,
		Favorites:    []string{},
		Recent:       []string{},
		LastRoute:    "#home",
	}
}

// IsFavorite reports whether id is in the favorites set.
func (p Preferences) IsFavorite(id string) bool {
	return slices.Contains(p.Favorites, id)
}

// ToggleFavorite adds id to favorites if absent, removes it otherwise.
// It returns the new favorite state.
func (p *Preferences) ToggleFavorite(id string) bool {
	if i := slices.Index(p.Favorites, id); i >= 0 {
		p.Favorites = slices.Delete(p.Favorites, i, i+1)
		return false
	}
	p.Favorites = append(p.Favorites, id)
	return true
}

// PushRecent moves id to the front of the recent list, keeping at most MaxRecent ids.
func (p *Preferences) PushRecent(id string) {
	recent := make([]string, 0, len(p.Recent)+1)
	recent = append(recent, id)
	for _, r := range p.Recent {
		if r != id {
			recent = append(recent, r)
		}
	}
	if len(recent) > MaxRecent {
		recent = recent[:MaxRecent]
	}
	p.Recent = recent
}

// SetTheme applies theme if it is supported.
func (p *Preferences) SetTheme(theme string) bool {
	switch theme {
	case ThemeAuto, ThemeLight, ThemeDark:
		p.Theme = theme
		return true
	}
	return false
}

// SetLanguage applies lang if it is supported.
func (p *Preferences) SetLanguage(lang string) bool {
	switch lang {
	case LangEN, LangTR:
		p.UILang = lang
		return true
	}
	return false
}

// ToggleVisibility flips the visibility flag of the named field.
func (p *Preferences) ToggleVisibility(field string) bool {
	switch field {
	case FieldArabic:
		p.ShowArabic = !p.ShowArabic
	case FieldTranslit:
		p.ShowTranslit = !p.ShowTranslit
	case FieldEnglish:
		p.ShowEN = !p.ShowEN
	case FieldTurkish:
		p.ShowTR = !p.ShowTR
	default:
		return false
	}
	return true
}

// AdjustFontSize changes the named font size by delta within its bounds.
func (p *Preferences) AdjustFontSize(font string, delta int) bool {
	switch font {
	case FontArabic:
		p.FontArabic = ClampFontArabic(p.FontArabic + delta)
	case FontText:
		p.FontText = ClampFontText(p.FontText + delta)
	default:
		return false
	}
	return true
}

// Language returns the UI language, falling back to English for unknown values.
func (p Preferences) Language() string {
	if p.UILang == LangTR {
		return LangTR
	}
	return LangEN
}

// ClampFontArabic bounds an Arabic font size to [FontArabicMin, FontArabicMax].
func ClampFontArabic(v int) int {
	return min(max(v, FontArabicMin), FontArabicMax)
}

// ClampFontText bounds a body font size to [FontTextMin, FontTextMax].
func ClampFontText(v int) int {
	return min(max(v, FontTextMin), FontTextMax)
}
