// SPDX-License-Identifier: Apache-2.0

package plan

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pterm/pterm"
)

// HumanColored renders the Plan as a summary line, per-object-type counts, a
// numbered statement list colored by verb, and any warnings, the way the
// teacher's CLI commands lean on pterm for colored, structured console
// output (cmd/create.go's pterm.Success.Println, pkg/migrations/logger.go's
// pterm.Logger). useColor=false disables styling (e.g. when writing to a
// file or a non-tty stdout) the way pgschema's plan rendering gates on
// `output.target == "stdout" && !noColor`.
func (p *Plan) HumanColored(useColor bool) string {
	var b strings.Builder
	if p.IsEmpty() {
		b.WriteString(renderLine(useColor, pterm.FgGray, "No changes. Source and target are structurally equal."))
		return b.String()
	}

	b.WriteString(renderLine(useColor, pterm.FgDefault, fmt.Sprintf(
		"Plan: %d to create, %d to alter, %d to drop.", p.Stats.Creates, p.Stats.Alters, p.Stats.Drops)))
	b.WriteString("\n")

	kinds := make([]string, 0, len(p.Stats.ByObjectType))
	for k := range p.Stats.ByObjectType {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		b.WriteString(renderLine(useColor, pterm.FgCyan, fmt.Sprintf("  %s: %d", k, p.Stats.ByObjectType[k])))
	}
	b.WriteString("\n")

	for i, stmt := range p.Statements {
		color := pterm.FgGreen
		if strings.HasPrefix(stmt, "DROP") {
			color = pterm.FgRed
		} else if strings.HasPrefix(stmt, "ALTER") {
			color = pterm.FgYellow
		}
		b.WriteString(renderLine(useColor, color, fmt.Sprintf("  %d. %s", i+1, stmt)))
	}

	for _, w := range p.Warnings {
		b.WriteString(renderLine(useColor, pterm.FgYellow, "WARNING: "+w))
	}

	return b.String()
}

func renderLine(useColor bool, color pterm.Color, s string) string {
	if !useColor {
		return s + "\n"
	}
	return color.Sprint(s) + "\n"
}
