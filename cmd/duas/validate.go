package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/aliskhannn/prophets-duas-bot/internal/catalog"
)

var strict bool

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b"))
)

// validateCmd reports data quality issues of the dataset
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the dataset for data quality issues",
	Long: `Reports entries without an id, duplicated ids or texts, missing translations
or references, Hadith entries without an occasion, unknown source types and
prophets spelled differently across entries. Findings are advisory; with
--strict any finding fails the command.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when there are findings")
}

func runValidate(cmd *cobra.Command, _ []string) error {
	entries, err := loadEntries(cmd.Context())
	if err != nil {
		return err
	}

	findings := catalog.Validate(entries)
	out := cmd.OutOrStdout()
	for _, f := range findings {
		fmt.Fprintln(out, warnStyle.Render(f.String()))
	}

	if len(findings) == 0 {
		fmt.Fprintln(out, okStyle.Render(fmt.Sprintf("%d entries, no findings", len(entries))))
		return nil
	}

	fmt.Fprintf(out, "%d entries, %d findings\n", len(entries), len(findings))
	if strict {
		return fmt.Errorf("dataset has %d findings", len(findings))
	}
	return nil
}
