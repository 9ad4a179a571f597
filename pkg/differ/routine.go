// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"github.com/dbshift/pgdiffkit/pkg/catalog"
	"github.com/dbshift/pgdiffkit/pkg/change"
)

func diffFunctions(source, target *catalog.Catalog) []*change.Change {
	created, dropped, common := setDiff(source.Functions, target.Functions)
	var out []*change.Change
	for _, id := range created {
		out = append(out, change.CreateFunction(target.Functions[id]))
	}
	for _, id := range dropped {
		out = append(out, change.DropFunction(source.Functions[id]))
	}
	for _, id := range common {
		s, t := source.Functions[id], target.Functions[id]
		if s.Equals(t) {
			continue
		}
		if s.Returns != t.Returns || s.ReturnsSet != t.ReturnsSet || !sameParams(s.Arguments, t.Arguments) {
			out = append(out, change.DropFunction(s), change.CreateFunction(t))
			continue
		}
		// Body, volatility, strictness, security, cost/rows, config: all
		// covered by CREATE OR REPLACE FUNCTION.
		out = append(out, change.ReplaceFunction(s, t))
	}
	return out
}

func sameParams(a, b []catalog.Parameter) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Type != b[i].Type || a[i].Mode != b[i].Mode {
			return false
		}
	}
	return true
}

func diffProcedures(source, target *catalog.Catalog) []*change.Change {
	created, dropped, common := setDiff(source.Procedures, target.Procedures)
	var out []*change.Change
	for _, id := range created {
		out = append(out, change.CreateProcedure(target.Procedures[id]))
	}
	for _, id := range dropped {
		out = append(out, change.DropProcedure(source.Procedures[id]))
	}
	for _, id := range common {
		s, t := source.Procedures[id], target.Procedures[id]
		if s.Equals(t) {
			continue
		}
		if !sameParams(s.Arguments, t.Arguments) {
			out = append(out, change.DropProcedure(s), change.CreateProcedure(t))
			continue
		}
		out = append(out, change.ReplaceProcedure(s, t))
	}
	return out
}

func diffAggregates(source, target *catalog.Catalog) []*change.Change {
	created, dropped, common := setDiff(source.Aggregates, target.Aggregates)
	var out []*change.Change
	for _, id := range created {
		out = append(out, change.CreateAggregate(target.Aggregates[id]))
	}
	for _, id := range dropped {
		out = append(out, change.DropAggregate(source.Aggregates[id]))
	}
	for _, id := range common {
		s, t := source.Aggregates[id], target.Aggregates[id]
		if !s.Equals(t) {
			out = append(out, change.DropAggregate(s), change.CreateAggregate(t))
		}
	}
	return out
}
