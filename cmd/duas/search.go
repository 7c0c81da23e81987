package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aliskhannn/prophets-duas-bot/internal/catalog"
	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
	"github.com/aliskhannn/prophets-duas-bot/internal/render"
	"github.com/aliskhannn/prophets-duas-bot/internal/render/terminal"
)

var (
	searchFilters filterFlags
	searchLang    string
	searchLimit   int
	searchWidth   int
)

// searchCmd prints matching duas as terminal cards
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the dataset from the terminal",
	Long: `Matches the query against names, texts, topics and references, ignoring
case and diacritics, and prints the results as cards with the matches
highlighted.

Example:
  duas search patience --prophet ibrahim --limit 3`,
	RunE: runSearch,
}

func init() {
	searchFilters.register(searchCmd)
	searchCmd.Flags().StringVar(&searchLang, "lang", entities.LangEN, "Interface language (en, tr)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "Maximum number of cards, 0 prints all")
	searchCmd.Flags().IntVar(&searchWidth, "width", 80, "Card width")
}

func runSearch(cmd *cobra.Command, args []string) error {
	entries, err := loadEntries(cmd.Context())
	if err != nil {
		return err
	}

	cat := catalog.New(entries, zlog)
	query := strings.Join(args, " ")
	found := cat.FilterEntries(searchFilters.criteria(query))

	prefs := entities.DefaultPreferences()
	prefs.SetLanguage(searchLang)
	msg := render.For(prefs.Language())

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, terminal.Summary(msg, len(found), cat.Len()))

	if len(found) == 0 {
		fmt.Fprintln(out, terminal.Empty(msg.NoResultsTitle, msg.NoResultsDesc))
		return nil
	}

	if searchLimit > 0 && len(found) > searchLimit {
		found = found[:searchLimit]
	}
	for _, d := range found {
		card := render.Card(d, prefs, render.CardOptions{Highlight: query})
		fmt.Fprintln(out, terminal.Card(card, searchWidth))
	}
	return nil
}
