// SPDX-License-Identifier: Apache-2.0

// Package sorter implements C4: it orders an unordered set of Changes so
// that every statement's referenced objects already exist (or are being
// dropped in dependency-safe order) by the time it runs. See §4.4.
package sorter

import (
	"sort"

	"github.com/dbshift/pgdiffkit/pkg/catalog"
	"github.com/dbshift/pgdiffkit/pkg/change"
)

// Sort returns changes in a topological order consistent with the three
// edge sources documented in §4.4, breaking cycles by fixed priority where
// possible and failing with *CycleError otherwise.
func Sort(source, target *catalog.Catalog, changes []*change.Change) ([]*change.Change, error) {
	if len(changes) == 0 {
		return nil, nil
	}

	edges := buildGraph(source, target, changes)

	const maxBreakAttempts = 10000
	for attempt := 0; ; attempt++ {
		order, cycle := tryTopoSort(changes, edges)
		if cycle == nil {
			return order, nil
		}
		if attempt >= maxBreakAttempts {
			return nil, cycleError(changes, cycle)
		}
		broken, ok := breakOneEdge(edges, cycle)
		if !ok {
			return nil, cycleError(changes, cycle)
		}
		edges = broken
	}
}

func cycleError(changes []*change.Change, cycle []int) error {
	ids := make([]catalog.StableID, len(cycle))
	for i, idx := range cycle {
		ids[i] = changes[idx].StableID
	}
	return &CycleError{StableIDs: ids}
}

// tryTopoSort runs Kahn's algorithm with deterministic tie-breaking. On
// success it returns the full order and a nil cycle. On failure (some nodes
// never reach indegree zero) it returns nil and the node-index cycle found
// among the unresolved remainder via DFS.
func tryTopoSort(changes []*change.Change, edges []edge) ([]*change.Change, []int) {
	n := len(changes)
	adj := make([][]int, n)
	indegree := make([]int, n)
	for _, e := range edges {
		adj[e.from] = append(adj[e.from], e.to)
		indegree[e.to]++
	}

	priority := nodePriority(changes)
	ready := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	var order []*change.Change
	placed := make([]bool, n)
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return priority[ready[i]] < priority[ready[j]] })
		next := ready[0]
		ready = ready[1:]
		placed[next] = true
		order = append(order, changes[next])
		for _, to := range adj[next] {
			indegree[to]--
			if indegree[to] == 0 {
				ready = append(ready, to)
			}
		}
	}

	if len(order) == n {
		return order, nil
	}

	var remaining []int
	for i := 0; i < n; i++ {
		if !placed[i] {
			remaining = append(remaining, i)
		}
	}
	return nil, findCycle(remaining, adj)
}

// nodePriority returns the deterministic tie-break key string for each
// change: kind-priority (reversed for drops, so dependents-first ordering on
// drop matches contents-before-container), then stable id, then key.
func nodePriority(changes []*change.Change) []string {
	out := make([]string, len(changes))
	for i, c := range changes {
		p := catalog.KindPriority(c.ObjectType)
		if c.Operation == change.OpDrop {
			p = len(catalog.AllKinds) - p
		}
		out[i] = sortKey(p, string(c.StableID), c.Key())
	}
	return out
}

func sortKey(priority int, stableID, key string) string {
	// Zero-padding keeps lexicographic string comparison equivalent to
	// numeric comparison across the small priority range actually in use.
	return padInt(priority) + "\x00" + stableID + "\x00" + key
}

func padInt(n int) string {
	const width = 6
	s := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		s[i] = byte('0' + n%10)
		n /= 10
	}
	return string(s)
}

// findCycle runs DFS over the subgraph induced by remaining nodes, following
// only edges whose endpoints are both still unresolved, and returns the
// first cycle found as a sequence of node indices in edge order: each node
// has an edge to the next, and the last has an edge to the first.
func findCycle(remaining []int, adj [][]int) []int {
	inRemaining := make(map[int]bool, len(remaining))
	for _, i := range remaining {
		inRemaining[i] = true
	}

	const (
		white = iota
		gray
		black
	)
	color := make(map[int]int)
	var stack []int
	var cycle []int

	var visit func(n int) bool
	visit = func(n int) bool {
		color[n] = gray
		stack = append(stack, n)
		for _, to := range adj[n] {
			if !inRemaining[to] {
				continue
			}
			switch color[to] {
			case white:
				if visit(to) {
					return true
				}
			case gray:
				// Found the back edge; extract the cycle from the stack.
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == to {
						cycle = append(cycle, stack[i:]...)
						break
					}
				}
				return true
			}
		}
		stack = stack[:len(stack)-1]
		color[n] = black
		return false
	}

	for _, n := range remaining {
		if color[n] == white {
			if visit(n) {
				return cycle
			}
		}
	}
	return remaining // should not happen: Kahn's algorithm guarantees a cycle exists
}

// breakOneEdge removes the single highest-break-priority edge among those
// connecting consecutive nodes in cycle. Returns ok=false if no edge in the
// cycle is eligible (only declared edges remain), per §4.4: "if no edge in
// the cycle matches any breakable class, fail".
func breakOneEdge(edges []edge, cycle []int) ([]edge, bool) {
	inCycle := make(map[[2]int]bool)
	for i := 0; i < len(cycle); i++ {
		from := cycle[i]
		to := cycle[(i+1)%len(cycle)]
		inCycle[[2]int{from, to}] = true
	}

	for _, class := range breakPriority {
		for i, e := range edges {
			if e.class != class {
				continue
			}
			if inCycle[[2]int{e.from, e.to}] {
				out := make([]edge, 0, len(edges)-1)
				out = append(out, edges[:i]...)
				out = append(out, edges[i+1:]...)
				return out, true
			}
		}
	}
	return nil, false
}
