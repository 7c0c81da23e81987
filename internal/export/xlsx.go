// Package export writes catalog entries as spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
	"github.com/aliskhannn/prophets-duas-bot/internal/render"
)

// Sheet is the name of the worksheet holding the entries.
const Sheet = "Duas"

var header = []any{
	"id", "prophet", "prophet_tr", "source_type", "reference",
	"arabic", "transliteration", "english", "turkish",
	"topics", "taught_to", "sources",
}

// WriteXLSX writes entries to w, one row per entry below a header row.
func WriteXLSX(w io.Writer, entries []entities.Dua) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", Sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(Sheet)
	if err != nil {
		return fmt.Errorf("create stream writer: %w", err)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, d := range entries {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row(d)); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush rows: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func row(d entities.Dua) []any {
	return []any{
		d.ID,
		d.Prophet.Display(),
		d.Prophet.TR,
		d.Source.TypeOrDefault(),
		d.Source.Reference,
		d.Arabic,
		d.Transliteration,
		d.English,
		d.Turkish,
		strings.Join(d.Topics, ", "),
		render.Companion(d),
		strings.Join(d.Sources, "\n"),
	}
}
