// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"github.com/dbshift/pgdiffkit/pkg/catalog"
	"github.com/dbshift/pgdiffkit/pkg/change"
)

func diffSchemas(source, target *catalog.Catalog) []*change.Change {
	created, dropped, common := setDiff(source.Schemas, target.Schemas)
	var out []*change.Change
	for _, id := range created {
		out = append(out, change.CreateSchema(target.Schemas[id]))
	}
	for _, id := range dropped {
		out = append(out, change.DropSchema(source.Schemas[id]))
	}
	for _, id := range common {
		s, t := source.Schemas[id], target.Schemas[id]
		if s.Owner != t.Owner {
			out = append(out, change.AlterSchemaSetOwner(s, t))
		}
	}
	return out
}

func diffExtensions(source, target *catalog.Catalog) []*change.Change {
	created, dropped, common := setDiff(source.Extensions, target.Extensions)
	var out []*change.Change
	for _, id := range created {
		out = append(out, change.CreateExtension(target.Extensions[id]))
	}
	for _, id := range dropped {
		out = append(out, change.DropExtension(source.Extensions[id]))
	}
	for _, id := range common {
		s, t := source.Extensions[id], target.Extensions[id]
		if s.Equals(t) {
			continue
		}
		switch {
		case s.Schema != t.Schema && t.Relocatable:
			out = append(out, change.AlterExtensionSetSchema(s, t))
		case s.Schema != t.Schema && !t.Relocatable:
			out = append(out, change.ReplaceExtension(s, t))
		case s.Version != t.Version:
			out = append(out, change.AlterExtensionUpdateVersion(s, t))
		default:
			out = append(out, change.ReplaceExtension(s, t))
		}
	}
	return out
}

func diffRoles(source, target *catalog.Catalog) []*change.Change {
	created, dropped, common := setDiff(source.Roles, target.Roles)
	var out []*change.Change
	for _, id := range created {
		out = append(out, change.CreateRole(target.Roles[id]))
	}
	for _, id := range dropped {
		out = append(out, change.DropRole(source.Roles[id]))
	}
	for _, id := range common {
		s, t := source.Roles[id], target.Roles[id]
		if !s.Equals(t) {
			out = append(out, change.AlterRole(s, t))
		}
	}
	return out
}

func diffLanguages(source, target *catalog.Catalog) []*change.Change {
	created, dropped, _ := setDiff(source.Languages, target.Languages)
	var out []*change.Change
	for _, id := range created {
		out = append(out, change.CreateLanguage(target.Languages[id]))
	}
	for _, id := range dropped {
		out = append(out, change.DropLanguage(source.Languages[id]))
	}
	return out
}

// Collations have no supported ALTER form for their defining fields: a
// changed locale/provider always replaces.
func diffCollations(source, target *catalog.Catalog) []*change.Change {
	created, dropped, common := setDiff(source.Collations, target.Collations)
	var out []*change.Change
	for _, id := range created {
		out = append(out, change.CreateCollation(target.Collations[id]))
	}
	for _, id := range dropped {
		out = append(out, change.DropCollation(source.Collations[id]))
	}
	for _, id := range common {
		s, t := source.Collations[id], target.Collations[id]
		if !s.Equals(t) {
			out = append(out, change.DropCollation(s), change.CreateCollation(t))
		}
	}
	return out
}
