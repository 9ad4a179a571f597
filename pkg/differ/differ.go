// SPDX-License-Identifier: Apache-2.0

// Package differ implements C3: a total, pure function pairing two Catalogs
// by stable ID and emitting the unordered set of Changes that transforms one
// into the other. The Differ never errors — every valid pair of Catalogs has
// a diff, even if that diff is empty (spec §4.3, §7: "Diff errors: none
// inherent — the Differ is a total function over valid Catalogs").
package differ

import (
	"sort"

	"github.com/dbshift/pgdiffkit/pkg/catalog"
	"github.com/dbshift/pgdiffkit/pkg/change"
)

// Diff computes every Change required to turn source into target. The
// result is unordered; pkg/sorter imposes the dependency-respecting order.
func Diff(source, target *catalog.Catalog) []*change.Change {
	var changes []*change.Change

	changes = append(changes, diffSchemas(source, target)...)
	changes = append(changes, diffExtensions(source, target)...)
	changes = append(changes, diffRoles(source, target)...)
	changes = append(changes, diffLanguages(source, target)...)
	changes = append(changes, diffCollations(source, target)...)
	changes = append(changes, diffEnums(source, target)...)
	changes = append(changes, diffCompositeTypes(source, target)...)
	changes = append(changes, diffRanges(source, target)...)
	changes = append(changes, diffDomains(source, target)...)
	changes = append(changes, diffSequences(source, target)...)
	changes = append(changes, diffTables(source, target)...)
	changes = append(changes, diffForeignDataWrappers(source, target)...)
	changes = append(changes, diffServers(source, target)...)
	changes = append(changes, diffUserMappings(source, target)...)
	changes = append(changes, diffForeignTables(source, target)...)
	changes = append(changes, diffViews(source, target)...)
	changes = append(changes, diffMaterializedViews(source, target)...)
	changes = append(changes, diffIndexes(source, target)...)
	changes = append(changes, diffConstraints(source, target)...)
	changes = append(changes, diffTriggers(source, target)...)
	changes = append(changes, diffRules(source, target)...)
	changes = append(changes, diffRLSPolicies(source, target)...)
	changes = append(changes, diffFunctions(source, target)...)
	changes = append(changes, diffProcedures(source, target)...)
	changes = append(changes, diffAggregates(source, target)...)
	changes = append(changes, diffEventTriggers(source, target)...)
	changes = append(changes, diffPublications(source, target)...)
	changes = append(changes, diffSubscriptions(source, target)...)
	changes = append(changes, diffComments(source, target)...)

	return changes
}

// setDiff compares two stable-ID-keyed maps and returns, in deterministic
// sorted order, the IDs present only in target (created), only in source
// (dropped), and in both (common — candidates for alter).
func setDiff[T any](source, target map[catalog.StableID]T) (created, dropped, common []catalog.StableID) {
	for id := range target {
		if _, ok := source[id]; ok {
			common = append(common, id)
		} else {
			created = append(created, id)
		}
	}
	for id := range source {
		if _, ok := target[id]; !ok {
			dropped = append(dropped, id)
		}
	}
	sortIDs(created)
	sortIDs(dropped)
	sortIDs(common)
	return
}

func sortIDs(ids []catalog.StableID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
