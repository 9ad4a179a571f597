// SPDX-License-Identifier: Apache-2.0

// Package fingerprint implements C6: a content hash of a subset of a
// Catalog, invariant to environment-only differences, used to gate plan
// application (§4.6). Two fingerprints coincide iff the two catalogs are
// indistinguishable from the engine's point of view over the given scope.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/dbshift/pgdiffkit/pkg/catalog"
)

// maskPlaceholder replaces an environment-dependent value before it enters
// the canonical form. It is duplicated from pkg/change/mask.go's constant of
// the same name rather than imported, the way pkg/catalog/equals.go already
// duplicates the environment-dependent option key table for equality rather
// than pulling in pkg/change — the two packages' masking tables are allowed
// to diverge independently.
const maskPlaceholder = "__REDACTED__"

// environmentDependentOptionKeys names, per kind, the Options map keys that
// hold environment-dependent values (§4.3).
var environmentDependentOptionKeys = map[catalog.Kind][]string{
	catalog.KindServer:      {"host", "port", "dbname"},
	catalog.KindUserMapping: {"user", "password"},
}

type depEdge struct {
	Dependent  string `json:"dependent"`
	Referenced string `json:"referenced"`
	Type       string `json:"type"`
}

// Compute canonicalizes the entities named by ids plus every catalog.Depend
// edge whose endpoints are both in ids, serializes the result
// deterministically, and returns the SHA-256 hex digest (§4.6 steps 1-3).
func Compute(cat *catalog.Catalog, ids map[catalog.StableID]bool) (string, error) {
	entities := make(map[string]interface{}, len(ids))
	for id := range ids {
		entity, kind, ok := cat.EntityByID(id)
		if !ok {
			// Touched by a plan but absent from this snapshot: a dropped
			// object's pre-image lives only in the source catalog, and vice
			// versa. The fingerprint only ever covers what a given catalog
			// actually has; absence itself is captured by the edge/entity
			// count differing between two fingerprint runs.
			continue
		}
		canon, err := canonicalize(kind, entity)
		if err != nil {
			return "", fmt.Errorf("fingerprint: canonicalizing %s: %w", id, err)
		}
		entities[string(id)] = canon
	}

	edges := collectEdges(cat.Depends, ids)

	payload := struct {
		Entities map[string]interface{} `json:"entities"`
		Edges    []depEdge               `json:"edges"`
	}{
		Entities: entities,
		Edges:    edges,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("fingerprint: marshaling canonical form: %w", err)
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// StableIDSet builds the set Compute expects from a flat slice, the shape a
// Plan stores its touched stable IDs in.
func StableIDSet(ids []string) map[catalog.StableID]bool {
	out := make(map[catalog.StableID]bool, len(ids))
	for _, id := range ids {
		out[catalog.StableID(id)] = true
	}
	return out
}

func collectEdges(depends []catalog.Depend, ids map[catalog.StableID]bool) []depEdge {
	seen := make(map[depEdge]bool)
	edges := make([]depEdge, 0)
	for _, d := range depends {
		if !ids[d.Dependent] || !ids[d.Referenced] {
			continue
		}
		e := depEdge{Dependent: string(d.Dependent), Referenced: string(d.Referenced), Type: string(d.Type)}
		if seen[e] {
			continue
		}
		seen[e] = true
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Dependent != edges[j].Dependent {
			return edges[i].Dependent < edges[j].Dependent
		}
		if edges[i].Referenced != edges[j].Referenced {
			return edges[i].Referenced < edges[j].Referenced
		}
		return edges[i].Type < edges[j].Type
	})
	return edges
}

// canonicalize round-trips entity through JSON to get a field-name-keyed map
// (json.Marshal sorts map keys, which is what gives the final payload its
// "fields sorted by name" property once everything is re-marshaled), then
// zeroes out whichever fields this kind documents as environment-dependent.
func canonicalize(kind catalog.Kind, entity interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	maskEnvironment(kind, m)
	return m, nil
}

func maskEnvironment(kind catalog.Kind, m map[string]interface{}) {
	switch kind {
	case catalog.KindRole:
		if _, ok := m["Password"]; ok {
			m["Password"] = maskPlaceholder
		}
	case catalog.KindSubscription:
		if _, ok := m["ConnInfo"]; ok {
			m["ConnInfo"] = maskPlaceholder
		}
	case catalog.KindUserMapping:
		if _, ok := m["User"]; ok {
			m["User"] = maskPlaceholder
		}
	}
	if keys, ok := environmentDependentOptionKeys[kind]; ok {
		if opts, ok := m["Options"].(map[string]interface{}); ok {
			for _, k := range keys {
				if _, present := opts[k]; present {
					opts[k] = maskPlaceholder
				}
			}
		}
	}
}
