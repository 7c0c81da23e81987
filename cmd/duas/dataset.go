package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aliskhannn/prophets-duas-bot/internal/catalog"
	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
)

// filterFlags are the list filters shared by search and export.
type filterFlags struct {
	prophet string
	topic   string
	source  string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.prophet, "prophet", "", "Only duas of this prophet (slug or name)")
	cmd.Flags().StringVar(&f.topic, "topic", "", "Only duas with this topic")
	cmd.Flags().StringVar(&f.source, "source", "", "Only duas of this source type (Quran, Hadith, Other)")
}

func (f *filterFlags) criteria(query string) catalog.Criteria {
	return catalog.Criteria{
		Query:   query,
		Prophet: f.prophet,
		Topic:   f.topic,
		Source:  f.source,
	}
}

// loadEntries reads the configured dataset once.
func loadEntries(ctx context.Context) ([]entities.Dua, error) {
	ctx, cancel := context.WithTimeout(ctx, datasetTimeout)
	defer cancel()

	repo := datasetRepository(cfg)
	entries, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", repo.Location(), err)
	}
	return entries, nil
}
