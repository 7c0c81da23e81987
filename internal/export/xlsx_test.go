package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
)

func TestWriteXLSX(t *testing.T) {
	t.Parallel()

	entries := []entities.Dua{
		{
			ID:      "e1",
			Prophet: entities.ProphetNames{EN: "Ibrahim", TR: "İbrahim"},
			Arabic:  "رَبِّ اجْعَلْنِي",
			English: "My Lord, make me an establisher of prayer",
			Topics:  []string{"patience", "prayer"},
			Source:  entities.Source{Type: "Quran", Reference: "14:40"},
		},
		{
			ID:       "e2",
			Prophet:  entities.ProphetNames{EN: "Muhammad"},
			English:  "O Allah, help me remember You",
			Source:   entities.Source{Type: "Hadith", Reference: "Abu Dawud 1522"},
			TaughtTo: "Muadh ibn Jabal",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, entries))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(Sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "id", rows[0][0])
	assert.Equal(t, "taught_to", rows[0][10])

	assert.Equal(t, []string{"e1", "Ibrahim", "İbrahim", "Quran", "14:40"}, rows[1][:5])
	assert.Equal(t, "patience, prayer", rows[1][9])
	assert.Equal(t, "Muadh ibn Jabal", rows[2][10])
}

func TestWriteXLSX_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(Sheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
