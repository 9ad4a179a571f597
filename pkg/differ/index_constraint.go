// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"github.com/dbshift/pgdiffkit/pkg/catalog"
	"github.com/dbshift/pgdiffkit/pkg/change"
)

func diffIndexes(source, target *catalog.Catalog) []*change.Change {
	created, dropped, common := setDiff(source.Indexes, target.Indexes)
	var out []*change.Change
	for _, id := range created {
		idx := target.Indexes[id]
		if idx.OwningConstraint != "" {
			// Created as a side effect of its owning constraint (deptype
			// internal); the constraint's own Change carries it.
			continue
		}
		out = append(out, change.CreateIndex(idx, tableIDOf(idx.Schema, idx.Table)))
	}
	for _, id := range dropped {
		idx := source.Indexes[id]
		if idx.OwningConstraint != "" {
			continue
		}
		out = append(out, change.DropIndex(idx, tableIDOf(idx.Schema, idx.Table)))
	}
	for _, id := range common {
		s, t := source.Indexes[id], target.Indexes[id]
		if s.OwningConstraint != "" || t.OwningConstraint != "" {
			continue
		}
		if !s.Equals(t) {
			tid := tableIDOf(t.Schema, t.Table)
			out = append(out, change.DropIndex(s, tid), change.CreateIndex(t, tid))
		}
	}
	return out
}

func tableIDOf(schema, table string) catalog.StableID {
	return catalog.NewStableID(catalog.KindTable, catalog.QualifiedName(schema, table))
}

func diffConstraints(source, target *catalog.Catalog) []*change.Change {
	created, dropped, common := setDiff(source.Constraints, target.Constraints)
	var out []*change.Change
	for _, id := range created {
		con := target.Constraints[id]
		out = append(out, change.CreateConstraint(con, tableIDOf(con.Schema, con.Table)))
	}
	for _, id := range dropped {
		con := source.Constraints[id]
		out = append(out, change.DropConstraint(con, tableIDOf(con.Schema, con.Table)))
	}
	for _, id := range common {
		s, t := source.Constraints[id], target.Constraints[id]
		if s.Equals(t) {
			continue
		}
		tid := tableIDOf(t.Schema, t.Table)
		if s.NotValid && !t.NotValid && s.Definition == t.Definition {
			out = append(out, change.ValidateConstraint(t, tid))
			continue
		}
		out = append(out, change.DropConstraint(s, tid), change.CreateConstraint(t, tid))
	}
	return out
}
