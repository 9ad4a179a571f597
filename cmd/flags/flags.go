// SPDX-License-Identifier: Apache-2.0

// Package flags centralizes CLI flag/environment-variable plumbing, the way
// the teacher's cmd/flags package does: persistent flags are registered
// once and bound to viper keys under the PGDIFFKIT_ prefix, so every
// subcommand reads through the same small set of getters instead of each
// command threading its own flag lookups.
package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func SourceURL() string {
	return viper.GetString("SOURCE_URL")
}

func TargetURL() string {
	return viper.GetString("TARGET_URL")
}

func Role() string {
	return viper.GetString("ROLE")
}

func ExcludeSchemas() []string {
	return viper.GetStringSlice("EXCLUDE_SCHEMAS")
}

func FilterFile() string {
	return viper.GetString("FILTER_FILE")
}

func NoColor() bool {
	return viper.GetBool("NO_COLOR")
}

// ConnectionFlags registers the two-connection flags shared by plan, apply,
// and sync, binding each to a PGDIFFKIT_ environment variable the way the
// teacher's PgConnectionFlags does for PGROLL_.
func ConnectionFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("source-url", "", "Source Postgres connection URL (current state)")
	cmd.PersistentFlags().String("target-url", "", "Target Postgres connection URL (desired state)")
	cmd.PersistentFlags().String("role", "", "Optional Postgres role to SET ROLE to before extraction")
	cmd.PersistentFlags().StringSlice("exclude-schema", nil, "Additional schema to exclude from extraction, beyond the fixed system-schema set (repeatable)")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored human-readable output")

	viper.BindPFlag("SOURCE_URL", cmd.PersistentFlags().Lookup("source-url"))
	viper.BindPFlag("TARGET_URL", cmd.PersistentFlags().Lookup("target-url"))
	viper.BindPFlag("ROLE", cmd.PersistentFlags().Lookup("role"))
	viper.BindPFlag("EXCLUDE_SCHEMAS", cmd.PersistentFlags().Lookup("exclude-schema"))
	viper.BindPFlag("NO_COLOR", cmd.PersistentFlags().Lookup("no-color"))
}

// FilterFlag registers the pattern-file flag used by plan and sync.
func FilterFlag(cmd *cobra.Command) {
	cmd.Flags().String("filter-file", "", "Path to a YAML Change filter pattern file")
	viper.BindPFlag("FILTER_FILE", cmd.Flags().Lookup("filter-file"))
}
