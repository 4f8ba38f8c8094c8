// cmd/procurement-cli/cmd_query.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"procurement-workers/internal/catalog"
	"procurement-workers/internal/models"
	"procurement-workers/internal/procurement"
)

var (
	querySearch    string
	querySeed      string
	querySort      string
	queryDirection string
	queryLimit     int
)

// queryCmd runs the pipeline once and prints the result
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search, filter by seed and sort procedures",
	Long: `Run the query pipeline over the current snapshot.

The search term is matched case-insensitively against the searchable fields
of every procedure. An active seed further restricts results to its tags and
district. Sorting is stable in both directions.`,
	Args: cobra.NoArgs,
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	state := procurement.QueryState{
		Search:    querySearch,
		SeedCode:  procurement.NormalizeSeedCode(querySeed),
		Column:    procurement.ParseColumn(querySort),
		Direction: procurement.ParseDirection(queryDirection),
	}

	return withCatalog(cmd, func(ctx context.Context, cat *catalog.Catalog) error {
		res, err := cat.Query(ctx, state)
		if err != nil {
			return err
		}

		rows := res.Procedures
		if queryLimit > 0 && len(rows) > queryLimit {
			rows = rows[:queryLimit]
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, map[string]interface{}{
				"total":      len(res.Procedures),
				"procedures": rows,
			})
		}

		printProcedures(out, rows)
		fmt.Fprintf(out, "\n%d of %d procedures (search %d, seed %d)\n",
			len(rows), res.Total, res.AfterSearch, res.AfterSeed)
		return nil
	})
}

func printProcedures(out io.Writer, procedures []models.Procedure) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NUMBER\tPUBLISHED\tDEADLINE\tPRICE\tDISTRICT\tENTITY\tDESCRIPTION")
	for _, p := range procedures {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			procurement.DisplayValue(p.NumeroProcedimento),
			procurement.ExtractPublicationDate(p.DetalhesCompletos),
			procurement.FormatDeadline(p.PrazoApresentacaoPropostas),
			procurement.FormatPrice(p.PrecoBase),
			procurement.DisplayValue(p.Distrito),
			truncate(procurement.DisplayValue(p.Entidade), 40),
			truncate(procurement.DisplayValue(p.Descricao), 60),
		)
	}
	tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
