package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aliskhannn/prophets-duas-bot/internal/config"
	"github.com/aliskhannn/prophets-duas-bot/internal/logger"
	"github.com/aliskhannn/prophets-duas-bot/internal/repository"
)

const datasetTimeout = 30 * time.Second

var (
	// Global flags
	configFile string
	verbose    bool
	datasetArg string

	cfg *config.Config
	zlog *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "duas",
	Short: "Prophets' Duas: a browsable collection of the supplications of the prophets",
	Long: `duas serves the collection as a Telegram bot and a web page, and offers
offline tools to validate, search and export the dataset.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
		if datasetArg != "" {
			cfg.Dataset.Path, cfg.Dataset.URL = datasetArg, ""
		}

		zlog, err = logger.New(cfg, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if zlog != nil {
			_ = zlog.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&datasetArg, "dataset", "d", "", "Dataset file, overrides dataset.path and dataset.url")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// datasetRepository reads the dataset from dataset.url when set, otherwise
// from dataset.path.
func datasetRepository(c *config.Config) *repository.DatasetRepository {
	if c.Dataset.URL != "" {
		return repository.NewHTTPDatasetRepository(c.Dataset.URL, &http.Client{Timeout: datasetTimeout})
	}
	return repository.NewFileDatasetRepository(c.Dataset.Path)
}
