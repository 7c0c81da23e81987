package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aliskhannn/prophets-duas-bot/internal/catalog"
	"github.com/aliskhannn/prophets-duas-bot/internal/export"
)

var (
	exportFilters filterFlags
	exportOutput  string
)

// exportCmd writes the (filtered) dataset as an XLSX workbook
var exportCmd = &cobra.Command{
	Use:   "export [query]",
	Short: "Export duas to an XLSX workbook",
	Long: `Writes the duas matching the query and filters, in dataset order, to an
XLSX workbook with one row per dua.

Example:
  duas export --source Hadith -o hadith.xlsx`,
	RunE: runExport,
}

func init() {
	exportFilters.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "duas.xlsx", "Output file")
}

func runExport(cmd *cobra.Command, args []string) error {
	entries, err := loadEntries(cmd.Context())
	if err != nil {
		return err
	}

	cat := catalog.New(entries, zlog)
	found := cat.FilterEntries(exportFilters.criteria(strings.Join(args, " ")))

	f, err := os.Create(exportOutput)
	if err != nil {
		return fmt.Errorf("create %s: %w", exportOutput, err)
	}
	if err := export.WriteXLSX(f, found); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", exportOutput, err)
	}

	zlog.Info("export written", zap.String("path", exportOutput), zap.Int("duas", len(found)))
	fmt.Fprintf(cmd.OutOrStdout(), "%d duas written to %s\n", len(found), exportOutput)
	return nil
}
