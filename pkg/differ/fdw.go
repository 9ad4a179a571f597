// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"github.com/dbshift/pgdiffkit/pkg/catalog"
	"github.com/dbshift/pgdiffkit/pkg/change"
)

func diffForeignDataWrappers(source, target *catalog.Catalog) []*change.Change {
	created, dropped, common := setDiff(source.ForeignDataWrappers, target.ForeignDataWrappers)
	var out []*change.Change
	for _, id := range created {
		out = append(out, change.CreateForeignDataWrapper(target.ForeignDataWrappers[id]))
	}
	for _, id := range dropped {
		out = append(out, change.DropForeignDataWrapper(source.ForeignDataWrappers[id]))
	}
	for _, id := range common {
		s, t := source.ForeignDataWrappers[id], target.ForeignDataWrappers[id]
		if !s.Equals(t) {
			out = append(out, change.DropForeignDataWrapper(s), change.CreateForeignDataWrapper(t))
		}
	}
	return out
}

func diffServers(source, target *catalog.Catalog) []*change.Change {
	created, dropped, common := setDiff(source.Servers, target.Servers)
	var out []*change.Change
	for _, id := range created {
		out = append(out, change.CreateServer(target.Servers[id]))
	}
	for _, id := range dropped {
		out = append(out, change.DropServer(source.Servers[id]))
	}
	for _, id := range common {
		s, t := source.Servers[id], target.Servers[id]
		if s.Wrapper != t.Wrapper {
			out = append(out, change.DropServer(s), change.CreateServer(t))
			continue
		}
		if !s.Equals(t) {
			out = append(out, change.AlterServerOptions(s, t))
		}
	}
	return out
}

func diffUserMappings(source, target *catalog.Catalog) []*change.Change {
	created, dropped, common := setDiff(source.UserMappings, target.UserMappings)
	var out []*change.Change
	for _, id := range created {
		out = append(out, change.CreateUserMapping(target.UserMappings[id]))
	}
	for _, id := range dropped {
		out = append(out, change.DropUserMapping(source.UserMappings[id]))
	}
	for _, id := range common {
		s, t := source.UserMappings[id], target.UserMappings[id]
		if !s.Equals(t) {
			out = append(out, change.AlterUserMappingOptions(s, t))
		}
	}
	return out
}
