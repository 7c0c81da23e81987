package catalog

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
	"github.com/aliskhannn/prophets-duas-bot/internal/textnorm"
)

// FindingKind classifies a data quality issue.
type FindingKind string

const (
	FindingMissingID         FindingKind = "missing_id"
	FindingDuplicateID       FindingKind = "duplicate_id"
	FindingMissingField      FindingKind = "missing_field"
	FindingMissingReference  FindingKind = "missing_reference"
	FindingMissingOccasion   FindingKind = "missing_occasion"
	FindingUnknownSourceType FindingKind = "unknown_source_type"
	FindingDuplicateText     FindingKind = "duplicate_text"
	FindingInconsistentName  FindingKind = "inconsistent_prophet_name"
)

// Finding is an advisory data quality issue. Findings never block loading.
type Finding struct {
	Kind    FindingKind
	Index   int    // position of the entry in the dataset
	ID      string // dua id, may be empty
	Message string
}

func (f Finding) String() string {
	if f.ID == "" {
		return fmt.Sprintf("[%s] #%d: %s", f.Kind, f.Index, f.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", f.Kind, f.ID, f.Message)
}

// Validate runs one pass over entries and reports data quality issues.
func Validate(entries []entities.Dua) []Finding {
	var (
		findings []Finding
		ids      = make(map[string]int)
		texts    = make(map[string]string)
		names    = make(map[string][]string)
	)

	for i, d := range entries {
		if strings.TrimSpace(d.ID) == "" {
			findings = append(findings, Finding{Kind: FindingMissingID, Index: i, Message: "entry has no id"})
		} else if first, dup := ids[d.ID]; dup {
			findings = append(findings, Finding{
				Kind:    FindingDuplicateID,
				Index:   i,
				ID:      d.ID,
				Message: fmt.Sprintf("id already used by entry #%d", first),
			})
		} else {
			ids[d.ID] = i
		}

		for _, f := range []struct{ name, value string }{
			{"arabic", d.Arabic},
			{"transliteration", d.Transliteration},
			{"english", d.English},
			{"turkish", d.Turkish},
		} {
			if strings.TrimSpace(f.value) == "" {
				findings = append(findings, Finding{
					Kind:    FindingMissingField,
					Index:   i,
					ID:      d.ID,
					Message: f.name + " is empty",
				})
			}
		}

		if strings.TrimSpace(d.Source.Reference) == "" {
			findings = append(findings, Finding{Kind: FindingMissingReference, Index: i, ID: d.ID, Message: "source reference is empty"})
		}

		switch textnorm.Normalize(d.Source.TypeOrDefault()) {
		case "quran", "other":
		case "hadith":
			if strings.TrimSpace(d.Occasion) == "" {
				findings = append(findings, Finding{Kind: FindingMissingOccasion, Index: i, ID: d.ID, Message: "hadith entry has no occasion"})
			}
		default:
			findings = append(findings, Finding{
				Kind:    FindingUnknownSourceType,
				Index:   i,
				ID:      d.ID,
				Message: fmt.Sprintf("source type %q is not Quran, Hadith or Other", d.Source.Type),
			})
		}

		if d.Arabic != "" {
			key := textnorm.Normalize(d.Arabic) + "\x00" + textnorm.Normalize(d.Source.Reference)
			if other, dup := texts[key]; dup {
				findings = append(findings, Finding{
					Kind:    FindingDuplicateText,
					Index:   i,
					ID:      d.ID,
					Message: fmt.Sprintf("same text and reference as %q", other),
				})
			} else {
				texts[key] = d.ID
			}
		}

		if label := d.Prophet.Display(); label != "" {
			slug := textnorm.Slug(label)
			if !slices.Contains(names[slug], label) {
				names[slug] = append(names[slug], label)
			}
		}
	}

	slugs := make([]string, 0, len(names))
	for slug := range names {
		slugs = append(slugs, slug)
	}
	slices.Sort(slugs)

	for _, slug := range slugs {
		if labels := names[slug]; len(labels) > 1 {
			findings = append(findings, Finding{
				Kind:    FindingInconsistentName,
				Index:   -1,
				Message: fmt.Sprintf("prophet %q is spelled %s", slug, strings.Join(quoteAll(labels), ", ")),
			})
		}
	}

	return findings
}

// LogFindings writes every finding to logger once.
func LogFindings(logger *zap.Logger, findings []Finding) {
	for _, f := range findings {
		logger.Warn("dataset validation",
			zap.String("kind", string(f.Kind)),
			zap.Int("index", f.Index),
			zap.String("id", f.ID),
			zap.String("message", f.Message),
		)
	}
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
