// cmd/procurement-cli/cmd_seed.go
package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"procurement-workers/internal/catalog"
	apperrors "procurement-workers/internal/common/errors"
	"procurement-workers/internal/models"
	"procurement-workers/internal/procurement"
)

var (
	seedTags     []string
	seedDistrict string
)

// seedCmd is the parent command for seed management
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create, list and show saved seeds",
	Long: `Manage saved seeds. A seed is a set of tags plus an optional district,
identified by a generated SEEDXXXXXX code.

Available subcommands:
  create - Create a seed from tags
  list   - List every seed in creation order
  show   - Show one seed by code`,
}

var seedCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a seed from tags",
	Args:  cobra.NoArgs,
	RunE:  runSeedCreate,
}

var seedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every seed in creation order",
	Args:  cobra.NoArgs,
	RunE:  runSeedList,
}

var seedShowCmd = &cobra.Command{
	Use:   "show CODE",
	Short: "Show one seed by code",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeedShow,
}

func runSeedCreate(cmd *cobra.Command, args []string) error {
	return withCatalog(cmd, func(ctx context.Context, cat *catalog.Catalog) error {
		seed, err := cat.CreateSeed(ctx, seedTags, seedDistrict)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, seed)
		}
		fmt.Fprintf(out, "Created seed %s (%s)\n", seed.Code, seed.Name)
		return nil
	})
}

func runSeedList(cmd *cobra.Command, args []string) error {
	return withCatalog(cmd, func(ctx context.Context, cat *catalog.Catalog) error {
		seeds := cat.Seeds()

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, seeds)
		}
		if len(seeds) == 0 {
			fmt.Fprintln(out, "No seeds")
			return nil
		}
		printSeeds(out, seeds)
		return nil
	})
}

func runSeedShow(cmd *cobra.Command, args []string) error {
	return withCatalog(cmd, func(ctx context.Context, cat *catalog.Catalog) error {
		code := procurement.NormalizeSeedCode(args[0])
		if code == "" {
			return apperrors.NewEmptySeedCodeError()
		}

		seed, ok, err := cat.LookupSeed(code)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NewSeedNotFoundError(code)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, seed)
		}
		printSeeds(out, []models.Seed{seed})
		return nil
	})
}

func printSeeds(out io.Writer, seeds []models.Seed) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tDISTRICT\tCREATED\tTAGS")
	for _, s := range seeds {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			s.Code,
			s.Name,
			procurement.DisplayValue(s.District),
			s.Created.UTC().Format(time.RFC3339),
			strings.Join(s.Tags, ", "),
		)
	}
	tw.Flush()
}
