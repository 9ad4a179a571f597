// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/dbshift/pgdiffkit/cmd/flags"
	"github.com/dbshift/pgdiffkit/pkg/apply"
	"github.com/dbshift/pgdiffkit/pkg/catalog"
	"github.com/dbshift/pgdiffkit/pkg/db"
	"github.com/dbshift/pgdiffkit/pkg/plan"
)

func applyCmd() *cobra.Command {
	var planFile string

	c := &cobra.Command{
		Use:   "apply",
		Short: "Apply a previously generated plan artifact to the source connection",
		RunE: func(cmd *cobra.Command, args []string) error {
			if planFile == "" {
				return fmt.Errorf("--plan-file is required")
			}
			data, err := os.ReadFile(planFile)
			if err != nil {
				return fmt.Errorf("reading plan file %q: %w", planFile, err)
			}
			p, err := plan.Decode(data)
			if err != nil {
				return err
			}

			result, err := runApply(cmd.Context(), p)
			if err != nil {
				return err
			}

			fmt.Printf("applied %d statements (run %s)\n", result.StatementsApplied, result.RunID)
			for _, w := range result.Warnings {
				fmt.Printf("WARNING: %s\n", w)
			}
			return nil
		},
	}

	c.Flags().StringVar(&planFile, "plan-file", "", "Path to a plan JSON artifact produced by `plan --output`")

	return c
}

// runApply applies p against the source connection named in the plan,
// opening its own connection and extractor the way extractOne does for the
// plan/sync subcommands.
func runApply(ctx context.Context, p *plan.Plan) (*apply.Result, error) {
	sqlDB, err := sql.Open("postgres", p.Source.URL)
	if err != nil {
		return nil, fmt.Errorf("opening connection to %s: %w", p.Source.URL, err)
	}
	defer sqlDB.Close()

	rdb := &db.RDB{DB: sqlDB}

	role := flags.Role()
	extract := func(ctx context.Context) (*catalog.Catalog, error) {
		extractor := &catalog.Extractor{DB: rdb, Role: role, ExtraExcludedSchemas: flags.ExcludeSchemas()}
		return extractor.Extract(ctx)
	}

	return apply.Apply(ctx, rdb, p, extract, apply.NewLogger())
}
