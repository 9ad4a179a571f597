// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbshift/pgdiffkit/cmd/flags"
	"github.com/dbshift/pgdiffkit/pkg/filter"
	"github.com/dbshift/pgdiffkit/pkg/plan"
)

func planCmd() *cobra.Command {
	var outputFile string

	c := &cobra.Command{
		Use:   "plan",
		Short: "Compute the DDL diff between the source and target schemas without applying it",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := generatePlan(cmd)
			if err != nil {
				return err
			}

			if err := writePlanOutput(p, outputFile, !flags.NoColor()); err != nil {
				return err
			}

			if !p.IsEmpty() {
				// spec.md §6: exit code 2 means "changes detected" for plan.
				os.Exit(2)
			}
			return nil
		},
	}

	flags.FilterFlag(c)
	c.Flags().StringVar(&outputFile, "output", "", "Write the JSON plan artifact to this path instead of stdout")

	return c
}

// generatePlan runs the full pipeline (extract both catalogs, build the
// filter if one was configured, call plan.Generate) for the plan/sync
// subcommands.
func generatePlan(cmd *cobra.Command) (*plan.Plan, error) {
	sourceURL := flags.SourceURL()
	targetURL := flags.TargetURL()
	if sourceURL == "" || targetURL == "" {
		return nil, fmt.Errorf("both --source-url and --target-url are required")
	}

	source, target, err := extractBoth(cmd.Context(), sourceURL, targetURL, flags.Role(), flags.ExcludeSchemas())
	if err != nil {
		return nil, err
	}

	var pattern filter.Pattern
	if f := flags.FilterFile(); f != "" {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading filter file %q: %w", f, err)
		}
		pattern, err = filter.Load(data)
		if err != nil {
			return nil, fmt.Errorf("loading filter file %q: %w", f, err)
		}
	}

	return plan.Generate(source, target, sourceURL, targetURL, flags.Role(), pattern)
}

func writePlanOutput(p *plan.Plan, outputFile string, useColor bool) error {
	if outputFile != "" {
		data, err := p.ToJSON()
		if err != nil {
			return fmt.Errorf("encoding plan: %w", err)
		}
		return os.WriteFile(outputFile, data, 0o644)
	}

	fmt.Print(p.HumanColored(useColor))
	return nil
}
