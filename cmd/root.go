// SPDX-License-Identifier: Apache-2.0

// Package cmd is the CLI frontend: plan, apply, sync, declarative-apply.
// It is the external collaborator spec.md §1 calls "out of scope... each a
// thin layer over the core" — it wires pkg/catalog, pkg/plan, and
// pkg/apply together over two live connections, following the teacher's
// cobra/viper root-command structure (cmd/root.go, cmd/flags).
package cmd

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dbshift/pgdiffkit/cmd/flags"
	"github.com/dbshift/pgdiffkit/pkg/catalog"
	"github.com/dbshift/pgdiffkit/pkg/db"
)

// Version is the pgdiffkit version.
var Version = "development"

func init() {
	viper.SetEnvPrefix("PGDIFFKIT")
	viper.AutomaticEnv()

	flags.ConnectionFlags(rootCmd)
}

var rootCmd = &cobra.Command{
	Use:          "pgdiffkit",
	Short:        "Computes and applies the minimal DDL diff between two PostgreSQL schemas",
	SilenceUsage: true,
	Version:      Version,
}

// Execute executes the root command.
func Execute() error {
	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(applyCmd())
	rootCmd.AddCommand(syncCmd())
	rootCmd.AddCommand(declarativeApplyCmd())

	return rootCmd.Execute()
}

// extractBoth runs the source and target extractions in parallel over two
// independent connections, per spec.md §5: "the two catalog extractions...
// are independent and may be executed in parallel on two connections; no
// shared mutable state is involved."
func extractBoth(ctx context.Context, sourceURL, targetURL, role string, exclude []string) (source, target *catalog.Catalog, err error) {
	type result struct {
		cat *catalog.Catalog
		err error
	}

	sourceCh := make(chan result, 1)
	targetCh := make(chan result, 1)

	go func() {
		cat, err := extractOne(ctx, sourceURL, role, exclude)
		sourceCh <- result{cat, err}
	}()
	go func() {
		cat, err := extractOne(ctx, targetURL, role, exclude)
		targetCh <- result{cat, err}
	}()

	sourceResult := <-sourceCh
	targetResult := <-targetCh

	if sourceResult.err != nil {
		return nil, nil, fmt.Errorf("extracting source catalog: %w", sourceResult.err)
	}
	if targetResult.err != nil {
		return nil, nil, fmt.Errorf("extracting target catalog: %w", targetResult.err)
	}
	return sourceResult.cat, targetResult.cat, nil
}

// extractOne opens a connection, runs the extractor, and closes the
// connection before returning — the engine "leaks no state beyond the two
// database connections, which it always closes on exit" (spec.md §5).
func extractOne(ctx context.Context, connStr, role string, exclude []string) (*catalog.Catalog, error) {
	sqlDB, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening connection: %w", err)
	}
	defer sqlDB.Close()

	rdb := &db.RDB{DB: sqlDB}
	extractor := &catalog.Extractor{DB: rdb, Role: role, ExtraExcludedSchemas: exclude}
	return extractor.Extract(ctx)
}
