// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/dbshift/pgdiffkit/cmd/flags"
)

func syncCmd() *cobra.Command {
	var yes bool

	c := &cobra.Command{
		Use:   "sync",
		Short: "Plan, confirm, and apply in one step",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := generatePlan(cmd)
			if err != nil {
				return err
			}

			if p.IsEmpty() {
				fmt.Println("no changes, nothing to do")
				return nil
			}

			fmt.Print(p.HumanColored(!flags.NoColor()))

			if !yes {
				confirmed, _ := pterm.DefaultInteractiveConfirm.
					WithDefaultText("Apply this plan?").
					Show()
				if !confirmed {
					// spec.md §6: exit code 2 means "user cancelled" for sync.
					os.Exit(2)
				}
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

	flags.FilterFlag(c)
	c.Flags().BoolVarP(&yes, "yes", "y", false, "Apply without an interactive confirmation prompt")

	return c
}
