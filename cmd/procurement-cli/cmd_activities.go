// cmd/procurement-cli/cmd_activities.go
package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"procurement-workers/pkg/registry"
)

var registryPath string

// activitiesCmd lists the job types process models can bind to
var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "Validate and list the activity registry",
	Long: `Load the activity registry, validate it and list every registered
job type with its timeout and the error codes it can throw.`,
	Args: cobra.NoArgs,
	RunE: runActivities,
}

func runActivities(cmd *cobra.Command, args []string) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("registry validation failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, reg)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK TYPE\tVERSION\tSTATUS\tTIMEOUT\tERROR CODES")
	for _, a := range reg.Activities {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			a.TaskType, a.Version, a.ImplementationStatus, a.Timeout, strings.Join(a.ErrorCodes, ","))
	}
	tw.Flush()
	fmt.Fprintf(out, "\n%d activities (registry %s)\n", len(reg.Activities), reg.Version)
	return nil
}
