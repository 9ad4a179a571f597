// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"github.com/dbshift/pgdiffkit/pkg/catalog"
	"github.com/dbshift/pgdiffkit/pkg/change"
)

// diffEnums implements the enum-used-by-many-objects class documented in
// spec §4.4/§8: appending values is always a safe ALTER TYPE ... ADD VALUE
// per value; anything else (removed or reordered values) degrades to
// Replace, since PostgreSQL has no ALTER form for removing an enum label.
func diffEnums(source, target *catalog.Catalog) []*change.Change {
	created, dropped, common := setDiff(source.Enums, target.Enums)
	var out []*change.Change
	for _, id := range created {
		out = append(out, change.CreateEnum(target.Enums[id]))
	}
	for _, id := range dropped {
		out = append(out, change.DropEnum(source.Enums[id]))
	}
	for _, id := range common {
		s, t := source.Enums[id], target.Enums[id]
		if s.Equals(t) {
			continue
		}
		if isAppendOnly(s.Values, t.Values) {
			for _, v := range t.Values[len(s.Values):] {
				out = append(out, change.AlterEnumAddValue(s, t, v))
			}
			continue
		}
		out = append(out, change.ReplaceEnum(s, t, dependentsOf(source, id)))
	}
	return out
}

func isAppendOnly(before, after []string) bool {
	if len(after) < len(before) {
		return false
	}
	for i, v := range before {
		if after[i] != v {
			return false
		}
	}
	return true
}

// dependentsOf returns every stable ID that has a pg_depend edge referencing
// id, so a Replace Change can record what must be recreated alongside it.
func dependentsOf(c *catalog.Catalog, id catalog.StableID) []catalog.StableID {
	var out []catalog.StableID
	for _, d := range c.Depends {
		if d.Referenced == id {
			out = append(out, d.Dependent)
		}
	}
	return out
}

func diffCompositeTypes(source, target *catalog.Catalog) []*change.Change {
	created, dropped, common := setDiff(source.CompositeTypes, target.CompositeTypes)
	var out []*change.Change
	for _, id := range created {
		out = append(out, change.CreateCompositeType(target.CompositeTypes[id]))
	}
	for _, id := range dropped {
		out = append(out, change.DropCompositeType(source.CompositeTypes[id]))
	}
	for _, id := range common {
		s, t := source.CompositeTypes[id], target.CompositeTypes[id]
		if !s.Equals(t) {
			out = append(out, change.ReplaceCompositeType(s, t))
		}
	}
	return out
}

func diffRanges(source, target *catalog.Catalog) []*change.Change {
	created, dropped, common := setDiff(source.Ranges, target.Ranges)
	var out []*change.Change
	for _, id := range created {
		out = append(out, change.CreateRange(target.Ranges[id]))
	}
	for _, id := range dropped {
		out = append(out, change.DropRange(source.Ranges[id]))
	}
	for _, id := range common {
		s, t := source.Ranges[id], target.Ranges[id]
		if !s.Equals(t) {
			out = append(out, change.DropRange(s), change.CreateRange(t))
		}
	}
	return out
}

func diffDomains(source, target *catalog.Catalog) []*change.Change {
	created, dropped, common := setDiff(source.Domains, target.Domains)
	var out []*change.Change
	for _, id := range created {
		out = append(out, change.CreateDomain(target.Domains[id]))
	}
	for _, id := range dropped {
		out = append(out, change.DropDomain(source.Domains[id]))
	}
	for _, id := range common {
		s, t := source.Domains[id], target.Domains[id]
		if s.Equals(t) {
			continue
		}
		if s.BaseType != t.BaseType {
			out = append(out, change.DropDomain(s), change.CreateDomain(t))
			continue
		}
		if s.NotNull != t.NotNull && t.NotNull {
			out = append(out, change.AlterDomainSetNotNull(s, t))
		}
		if !stringPtrEqual(s.Default, t.Default) {
			out = append(out, change.AlterDomainSetDefault(s, t))
		}
		if len(t.Constraints) > len(s.Constraints) {
			out = append(out, change.AlterDomainAddConstraint(s, t))
		}
	}
	return out
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
