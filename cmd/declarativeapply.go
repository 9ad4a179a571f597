// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/dbshift/pgdiffkit/cmd/flags"
	"github.com/dbshift/pgdiffkit/pkg/db"
)

const declarativeApplyMaxRounds = 10

func declarativeApplyCmd() *cobra.Command {
	var dir string
	var maxRounds int

	c := &cobra.Command{
		Use:   "declarative-apply",
		Short: "Apply every .sql file in a directory to the source connection, round-robin, until all converge",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				return fmt.Errorf("--dir is required")
			}
			sourceURL := flags.SourceURL()
			if sourceURL == "" {
				return fmt.Errorf("--source-url is required")
			}
			return runDeclarativeApply(cmd.Context(), sourceURL, dir, maxRounds)
		},
	}

	c.Flags().StringVar(&dir, "dir", "", "Directory of .sql files to apply in name order")
	c.Flags().IntVar(&maxRounds, "max-rounds", declarativeApplyMaxRounds, "Maximum round-robin passes before giving up on the files still failing")

	return c
}

// runDeclarativeApply implements the "round-robin executor" of SPEC_FULL.md
// supplement 5: files are applied in name order each round; a file that
// fails (often because it depends on an object a later file in the same
// round creates) stays in the queue for the next round. The loop stops when
// the queue is empty (convergence) or maxRounds is exhausted, in which case
// the returned error gives the number of files still failing and wraps the
// first one's error from the last round.
func runDeclarativeApply(ctx context.Context, sourceURL, dir string, maxRounds int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %q: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".sql" {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	if len(files) == 0 {
		return fmt.Errorf("no .sql files found in %q", dir)
	}

	sqlDB, err := sql.Open("postgres", sourceURL)
	if err != nil {
		return fmt.Errorf("opening connection: %w", err)
	}
	defer sqlDB.Close()
	rdb := &db.RDB{DB: sqlDB}

	pending := files
	var lastErrors map[string]error

	for round := 1; round <= maxRounds && len(pending) > 0; round++ {
		var next []string
		lastErrors = make(map[string]error)

		for _, f := range pending {
			data, err := os.ReadFile(f)
			if err != nil {
				return fmt.Errorf("reading %q: %w", f, err)
			}
			if _, err := rdb.ExecContext(ctx, string(data)); err != nil {
				next = append(next, f)
				lastErrors[f] = err
				continue
			}
		}
		pending = next
	}

	if len(pending) > 0 {
		return fmt.Errorf("declarative-apply did not converge after %d rounds: %d file(s) still failing: %w",
			maxRounds, len(pending), firstError(pending, lastErrors))
	}
	return nil
}

func firstError(pending []string, errs map[string]error) error {
	if len(pending) == 0 {
		return nil
	}
	return fmt.Errorf("%s: %w", pending[0], errs[pending[0]])
}
