package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
)

func kinds(findings []Finding) map[FindingKind]int {
	out := make(map[FindingKind]int)
	for _, f := range findings {
		out[f.Kind]++
	}
	return out
}

func TestValidate_CleanDataset(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Validate(sampleDuas()))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	full := sampleDuas()[0]

	noID := full
	noID.ID = ""
	noID.Source.Reference = "14:41"

	dupID := full
	dupID.Arabic = "ربنا اغفر لي"

	hadith := full
	hadith.ID = "h1"
	hadith.Arabic = "اللهم"
	hadith.Source = entities.Source{Type: "Hadith", Reference: "Muslim 1"}

	missing := entities.Dua{ID: "m1", Prophet: entities.ProphetNames{EN: "Ibrāhīm"}, Source: entities.Source{Type: "Tafsir"}}

	findings := Validate([]entities.Dua{full, noID, dupID, hadith, missing})
	got := kinds(findings)

	assert.Equal(t, 1, got[FindingMissingID])
	assert.Equal(t, 1, got[FindingDuplicateID])
	assert.Equal(t, 1, got[FindingMissingOccasion])
	assert.Equal(t, 4, got[FindingMissingField])
	assert.Equal(t, 1, got[FindingMissingReference])
	assert.Equal(t, 1, got[FindingUnknownSourceType])
	assert.Equal(t, 1, got[FindingInconsistentName])
	assert.Equal(t, 0, got[FindingDuplicateText])

	for _, f := range findings {
		if f.Kind == FindingDuplicateID {
			assert.Equal(t, 2, f.Index)
			assert.Contains(t, f.String(), "entry #0")
		}
	}
}

func TestValidate_DuplicateText(t *testing.T) {
	t.Parallel()

	a := sampleDuas()[0]
	b := a
	b.ID = "copy"
	b.Source.Reference = " 14:40 "

	findings := Validate([]entities.Dua{a, b})
	require.Len(t, findings, 1)
	assert.Equal(t, FindingDuplicateText, findings[0].Kind)
	assert.Equal(t, "copy", findings[0].ID)
}

func TestLogFindings(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	findings := []Finding{
		{Kind: FindingMissingID, Index: 3, Message: "entry has no id"},
		{Kind: FindingDuplicateID, Index: 4, ID: "x", Message: "dup"},
	}

	LogFindings(zap.New(core), findings)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "missing_id", entries[0].ContextMap()["kind"])
	assert.Equal(t, "x", entries[1].ContextMap()["id"])
}
