// SPDX-License-Identifier: Apache-2.0

// Package plan implements the Plan artifact of spec.md §6: the frozen
// record of {source, target, stableIds, sqlHash, statements, stats} that
// Generate produces by wiring the Differ, Filter, Sorter, Serializer, and
// Fingerprinter together (§2's data-flow diagram), and that pkg/apply later
// consumes to gate and run an apply.
package plan

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/oapi-codegen/nullable"

	"github.com/dbshift/pgdiffkit/pkg/catalog"
	"github.com/dbshift/pgdiffkit/pkg/change"
	"github.com/dbshift/pgdiffkit/pkg/differ"
	"github.com/dbshift/pgdiffkit/pkg/filter"
	"github.com/dbshift/pgdiffkit/pkg/fingerprint"
	"github.com/dbshift/pgdiffkit/pkg/sorter"
)

// Version is the Plan artifact's schema version (spec.md §6: "version: 1").
const Version = 1

// Endpoint records the connection URL and fingerprint of one side of a plan.
type Endpoint struct {
	URL         string `json:"url"`
	Fingerprint string `json:"fingerprint"`
}

// Stats summarizes a Plan's statement counts, overall and per object type.
type Stats struct {
	Total        int            `json:"total"`
	Creates      int            `json:"creates"`
	Alters       int            `json:"alters"`
	Drops        int            `json:"drops"`
	ByObjectType map[string]int `json:"byObjectType"`
}

// Plan is the finalized artifact described in spec.md §3 ("Lifecycle") and
// §6 ("Plan artifact (JSON)"). Role is carried with
// github.com/oapi-codegen/nullable so that "role omitted entirely" and
// "role explicitly empty" round-trip distinctly through JSON, the way the
// teacher's sql2pgroll package uses nullable.Nullable for optional
// operation fields generated from its JSON schema.
type Plan struct {
	Version    int                    `json:"version"`
	Role       nullable.Nullable[string] `json:"role,omitempty"`
	Source     Endpoint               `json:"source"`
	Target     Endpoint               `json:"target"`
	StableIDs  []string               `json:"stableIds"`
	SQLHash    string                 `json:"sqlHash"`
	Statements []string               `json:"statements"`
	Stats      Stats                  `json:"stats"`

	// Warnings carries the non-fatal findings produced while serializing
	// (masked environment-dependent values, etc — §7: "attached to the
	// successful result as warnings"). Not part of spec.md's JSON field
	// list, so it's additive-only and never required for a round trip.
	Warnings []string `json:"warnings,omitempty"`
}

// IsEmpty reports whether the plan has no statements, the representation of
// the "Empty→empty" and "plan(T, T)" scenarios in spec.md §8 — callers
// render this as plan == nil ("plan is null").
func (p *Plan) IsEmpty() bool {
	return p == nil || len(p.Statements) == 0
}

// Generate computes the ordered, filtered, serialized Change sequence from
// source to target and assembles it into a Plan. sourceURL/targetURL are
// recorded verbatim for the artifact's source.url/target.url fields; role,
// if non-empty, is recorded as the Plan's Role. pattern may be nil (no
// filter configured).
func Generate(source, target *catalog.Catalog, sourceURL, targetURL, role string, pattern filter.Pattern) (*Plan, error) {
	changes := differ.Diff(source, target)
	changes = filter.Apply(changes, pattern)

	ordered, err := sorter.Sort(source, target, changes)
	if err != nil {
		return nil, err
	}

	statements, warnings, stableIDs, stats, err := serialize(ordered)
	if err != nil {
		return nil, err
	}

	sqlHash := hashStatements(statements)

	idSet := fingerprint.StableIDSet(stableIDs)
	sourceFP, err := fingerprint.Compute(source, idSet)
	if err != nil {
		return nil, err
	}
	targetFP, err := fingerprint.Compute(target, idSet)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		Version:    Version,
		Source:     Endpoint{URL: sourceURL, Fingerprint: sourceFP},
		Target:     Endpoint{URL: targetURL, Fingerprint: targetFP},
		StableIDs:  stableIDs,
		SQLHash:    sqlHash,
		Statements: statements,
		Stats:      stats,
		Warnings:   warnings,
	}
	if role != "" {
		p.Role = nullable.NewNullableWithValue(role)
	}
	return p, nil
}

// serialize walks the ordered Changes, invoking each one's SQL method, and
// accumulates the stats/stableIds/warnings the Plan carries. It prepends
// `SET check_function_bodies = false` when any change touches a function,
// procedure, or aggregate, per spec.md §4.5.
func serialize(ordered []*change.Change) (statements []string, warnings []string, stableIDs []string, stats Stats, err error) {
	stats.ByObjectType = make(map[string]int)

	needsCheckFunctionBodies := false
	for _, c := range ordered {
		if c.ObjectType == catalog.KindFunction || c.ObjectType == catalog.KindProcedure || c.ObjectType == catalog.KindAggregate {
			needsCheckFunctionBodies = true
			break
		}
	}
	if needsCheckFunctionBodies {
		statements = append(statements, "SET check_function_bodies = false")
	}

	seenIDs := make(map[string]bool)
	for _, c := range ordered {
		stmts, warns, serr := c.SQL()
		if serr != nil {
			return nil, nil, nil, Stats{}, serr
		}
		statements = append(statements, stmts...)
		for _, w := range warns {
			warnings = append(warnings, w.Message)
		}

		if !seenIDs[string(c.StableID)] {
			seenIDs[string(c.StableID)] = true
			stableIDs = append(stableIDs, string(c.StableID))
		}

		if c.Scope != change.ScopeObject {
			continue
		}
		stats.Total++
		stats.ByObjectType[string(c.ObjectType)]++
		switch c.Operation {
		case change.OpCreate:
			stats.Creates++
		case change.OpDrop:
			stats.Drops++
		case change.OpAlter, change.OpReplace:
			stats.Alters++
		}
	}
	return statements, warnings, stableIDs, stats, nil
}

func hashStatements(statements []string) string {
	h := sha256.New()
	for _, s := range statements {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ToJSON serializes the Plan the way spec.md §6 requires: "the JSON
// round-trips losslessly."
func (p *Plan) ToJSON() ([]byte, error) {
	return json.Marshal(p)
}

// ToSQL joins the Plan's statements into a script: each statement
// terminated by ";\n", per spec.md §6 ("SQL output").
func (p *Plan) ToSQL() string {
	var out []byte
	for _, s := range p.Statements {
		out = append(out, []byte(s)...)
		out = append(out, ";\n"...)
	}
	return string(out)
}
