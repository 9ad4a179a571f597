// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"github.com/dbshift/pgdiffkit/pkg/catalog"
	"github.com/dbshift/pgdiffkit/pkg/change"
)

func diffTables(source, target *catalog.Catalog) []*change.Change {
	created, dropped, common := setDiff(source.Tables, target.Tables)
	var out []*change.Change
	for _, id := range created {
		out = append(out, change.CreateTable(target.Tables[id]))
	}
	for _, id := range dropped {
		out = append(out, change.DropTable(source.Tables[id]))
	}
	for _, id := range common {
		s, t := source.Tables[id], target.Tables[id]
		out = append(out, diffOneTable(s, t)...)
	}
	return out
}

// partitioningChanged reports whether any field PostgreSQL offers no ALTER
// form for changed — a table's partitioning strategy and parent are fixed at
// creation time.
func partitioningChanged(s, t *catalog.Table) bool {
	if s.Partitioned != t.Partitioned || s.PartitionBy != t.PartitionBy {
		return true
	}
	if (s.PartitionOf == nil) != (t.PartitionOf == nil) {
		return true
	}
	if s.PartitionOf != nil && *s.PartitionOf != *t.PartitionOf {
		return true
	}
	return s.Persistence != t.Persistence
}

func diffOneTable(s, t *catalog.Table) []*change.Change {
	if partitioningChanged(s, t) {
		return []*change.Change{change.ReplaceTable(s, t)}
	}

	var out []*change.Change
	out = append(out, diffColumns(s, t)...)

	if s.RLSEnabled != t.RLSEnabled {
		if t.RLSEnabled {
			out = append(out, change.AlterTableEnableRLS(s, t))
		} else {
			out = append(out, change.AlterTableDisableRLS(s, t))
		}
	}
	if s.RLSForced != t.RLSForced {
		if t.RLSForced {
			out = append(out, change.AlterTableForceRLS(s, t))
		} else {
			out = append(out, change.AlterTableNoForceRLS(s, t))
		}
	}
	if s.Owner != t.Owner {
		out = append(out, change.AlterTableSetOwner(s, t))
	}
	return out
}

func diffColumns(s, t *catalog.Table) []*change.Change {
	sourceCols := make(map[string]catalog.Column, len(s.Columns))
	for _, c := range s.Columns {
		sourceCols[c.Name] = c
	}
	targetCols := make(map[string]catalog.Column, len(t.Columns))
	for _, c := range t.Columns {
		targetCols[c.Name] = c
	}

	var out []*change.Change
	// Stable, positional order: additions and alters follow target's column
	// order; drops follow source's, so a reviewer sees them in the order
	// they appear in each respective table definition.
	for _, col := range t.Columns {
		before, existed := sourceCols[col.Name]
		if !existed {
			out = append(out, change.AlterTableAddColumn(s, t, col))
			continue
		}
		if catalog.ColumnsEqual(before, col) {
			continue
		}
		if before.DataType != col.DataType || before.TypeModifier != col.TypeModifier {
			out = append(out, change.AlterTableAlterColumnType(s, t, col.Name))
		}
		if !stringPtrEqual(before.Default, col.Default) {
			if col.Default == nil {
				out = append(out, change.AlterTableAlterColumnDropDefault(s, t, col.Name))
			} else {
				out = append(out, change.AlterTableAlterColumnSetDefault(s, t, col.Name))
			}
		}
		if before.NotNull != col.NotNull {
			if col.NotNull {
				out = append(out, change.AlterTableAlterColumnSetNotNull(s, t, col.Name))
			} else {
				out = append(out, change.AlterTableAlterColumnDropNotNull(s, t, col.Name))
			}
		}
	}
	for _, col := range s.Columns {
		if _, stillPresent := targetCols[col.Name]; !stillPresent {
			out = append(out, change.AlterTableDropColumn(s, t, col.Name))
		}
	}
	return out
}
