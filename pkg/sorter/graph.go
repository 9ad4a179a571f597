// SPDX-License-Identifier: Apache-2.0

package sorter

import (
	"github.com/dbshift/pgdiffkit/pkg/catalog"
	"github.com/dbshift/pgdiffkit/pkg/change"
)

// edgeClass ranks an edge's eligibility for removal when breaking a cycle,
// per §4.4's fixed-priority rule: ownership (pg_depend deptype a) breaks
// first, then internal (i), then normal (n). declared edges — the Change's
// own published dependencies — are never broken; a cycle that survives with
// only declared edges remaining is reported, not guessed at.
type edgeClass int

const (
	classDeclared edgeClass = iota
	classNormal
	classInternal
	classOwnership
)

// breakPriority orders edgeClass values from first-removed to last, matching
// "ownership edges > internal edges > normal edges" (declared is excluded:
// never a removal candidate).
var breakPriority = []edgeClass{classOwnership, classInternal, classNormal}

type edge struct {
	from, to int
	class    edgeClass
}

// isCreating reports whether change c establishes its StableID's existence:
// true for create/alter/replace, false for drop.
func isCreating(c *change.Change) bool {
	return c.Operation != change.OpDrop
}

// buildGraph returns one node per Change (same index as changes) plus the
// directed edges requiring from to precede to.
func buildGraph(source, target *catalog.Catalog, changes []*change.Change) []edge {
	byStableID := make(map[catalog.StableID][]int)
	for i, c := range changes {
		byStableID[c.StableID] = append(byStableID[c.StableID], i)
	}

	var edges []edge
	addOrderingEdge := func(ci, cj int, class edgeClass) {
		c, d := changes[ci], changes[cj]
		switch {
		case isCreating(c) && isCreating(d):
			// d establishes a dependency c needs: d before c.
			edges = append(edges, edge{from: cj, to: ci, class: class})
		case !isCreating(c) && !isCreating(d):
			// c (the dependent) must be torn down before d (the dependency).
			edges = append(edges, edge{from: ci, to: cj, class: class})
		}
	}

	// Source 1 & 3: change-declared edges (also covers comment/privilege
	// cross-scope ordering, since those constructors set dependsOn to the
	// annotated object's stable ID).
	for i, c := range changes {
		for _, depID := range c.DependsOn() {
			for _, j := range byStableID[depID] {
				if i == j {
					continue
				}
				addOrderingEdge(i, j, classDeclared)
			}
		}
	}

	// Source 2: catalog pg_depend edges, from both catalogs (a drop needs
	// the source's edges; a create needs the target's).
	seen := make(map[[2]catalog.StableID]bool)
	addDepends := func(depends []catalog.Depend) {
		for _, d := range depends {
			key := [2]catalog.StableID{d.Dependent, d.Referenced}
			if seen[key] {
				continue
			}
			seen[key] = true
			class := classNormal
			switch d.Type {
			case catalog.DepAuto:
				class = classOwnership
			case catalog.DepInternal:
				class = classInternal
			}
			for _, ci := range byStableID[d.Dependent] {
				for _, cj := range byStableID[d.Referenced] {
					if ci == cj {
						continue
					}
					addOrderingEdge(ci, cj, class)
				}
			}
		}
	}
	addDepends(source.Depends)
	addDepends(target.Depends)

	return edges
}
