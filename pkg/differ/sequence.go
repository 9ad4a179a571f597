// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"github.com/dbshift/pgdiffkit/pkg/catalog"
	"github.com/dbshift/pgdiffkit/pkg/change"
)

func diffSequences(source, target *catalog.Catalog) []*change.Change {
	created, dropped, common := setDiff(source.Sequences, target.Sequences)
	var out []*change.Change
	for _, id := range created {
		s := target.Sequences[id]
		out = append(out, change.CreateSequence(s))
		if s.OwnedByCol != nil {
			out = append(out, change.AlterSequenceOwnedBy(s, tableIDOf(schemaOf(s.OwnedByCol.Table), nameOf(s.OwnedByCol.Table))))
		}
	}
	for _, id := range dropped {
		out = append(out, change.DropSequence(source.Sequences[id]))
	}
	for _, id := range common {
		s, t := source.Sequences[id], target.Sequences[id]
		if s.DataType != t.DataType {
			out = append(out, change.DropSequence(s), change.CreateSequence(t))
			continue
		}
		ownerChanged := (s.OwnedByCol == nil) != (t.OwnedByCol == nil)
		if !ownerChanged && s.OwnedByCol != nil && t.OwnedByCol != nil {
			ownerChanged = *s.OwnedByCol != *t.OwnedByCol
		}
		if ownerChanged && t.OwnedByCol != nil {
			out = append(out, change.AlterSequenceOwnedBy(t, tableIDOf(schemaOf(t.OwnedByCol.Table), nameOf(t.OwnedByCol.Table))))
		}
		if s.StartValue != t.StartValue || s.Increment != t.Increment || s.MinValue != t.MinValue || s.MaxValue != t.MaxValue || s.Cache != t.Cache || s.Cycle != t.Cycle {
			out = append(out, change.AlterSequence(s, t))
		}
	}
	return out
}

// schemaOf/nameOf split a "schema.name" qualified name; ColumnRef.Table is
// always stored qualified (see pkg/catalog/extract.go).
func schemaOf(qname string) string {
	for i := 0; i < len(qname); i++ {
		if qname[i] == '.' {
			return qname[:i]
		}
	}
	return ""
}

func nameOf(qname string) string {
	for i := 0; i < len(qname); i++ {
		if qname[i] == '.' {
			return qname[i+1:]
		}
	}
	return qname
}
