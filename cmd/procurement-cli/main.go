// cmd/procurement-cli/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"procurement-workers/internal/catalog"
	"procurement-workers/internal/common/config"
	"procurement-workers/internal/common/database"
	"procurement-workers/internal/common/logger"
	"procurement-workers/internal/datasource"
	"procurement-workers/internal/seedstore"
)

var (
	configPath string
	verbose    bool
	timeout    time.Duration
	jsonOutput bool

	// openCatalog is replaced in tests.
	openCatalog = openConfiguredCatalog
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "procurement-cli",
	Short: "Query public procurement notices and manage seeds",
	Long: `procurement-cli loads the configured procedure snapshot and seed
collection and runs the same query pipeline the job workers use.

Available commands:
  query      - Search, filter by seed and sort procedures
  seed       - Create, list and show saved seeds
  activities - Validate and list the activity registry`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: configs/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "Operation timeout")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of a table")

	queryCmd.Flags().StringVarP(&querySearch, "search", "s", "", "Free-text search")
	queryCmd.Flags().StringVar(&querySeed, "seed", "", "Active seed code")
	queryCmd.Flags().StringVar(&querySort, "sort", "publication", "Sort column (description, entity, platform, publication, deadline, price; empty for dataset order)")
	queryCmd.Flags().StringVar(&queryDirection, "dir", "desc", "Sort direction (asc, desc)")
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 20, "Maximum rows to print (0 for all)")

	seedCreateCmd.Flags().StringSliceVarP(&seedTags, "tags", "t", nil, "Comma-separated tags")
	seedCreateCmd.Flags().StringVarP(&seedDistrict, "district", "d", "", "Restrict the seed to one district")
	_ = seedCreateCmd.MarkFlagRequired("tags")

	activitiesCmd.Flags().StringVar(&registryPath, "registry", "configs/activity-registry.json", "Path to the activity registry")

	seedCmd.AddCommand(seedCreateCmd)
	seedCmd.AddCommand(seedListCmd)
	seedCmd.AddCommand(seedShowCmd)

	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(activitiesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() logger.Logger {
	if !verbose {
		return logger.NewNoOpLogger()
	}
	return logger.NewStructured("debug", "console", "stderr")
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

// openConfiguredCatalog wires the catalog the same way the worker manager
// does and loads both snapshots.
func openConfiguredCatalog(ctx context.Context) (*catalog.Catalog, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log := newLogger()

	conns, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	closeAll := conns.Close

	source, err := datasource.New(cfg.Records, conns)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	store, err := seedstore.New(cfg.Seeds, conns, log)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	if err := seedstore.Prepare(ctx, store); err != nil {
		closeAll()
		return nil, nil, err
	}

	cat := catalog.New(source, store, log, catalog.Options{CodeAttempts: cfg.Seeds.CodeAttempts})
	if err := cat.Load(ctx); err != nil {
		closeAll()
		return nil, nil, err
	}
	return cat, closeAll, nil
}

// withCatalog opens the catalog for one command run.
func withCatalog(cmd *cobra.Command, fn func(ctx context.Context, cat *catalog.Catalog) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	cat, closeFn, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	return fn(ctx, cat)
}
