// SPDX-License-Identifier: Apache-2.0

// Package filter implements the declarative Change pattern language of
// spec.md §6: "a pattern matches a Change by any combination of {type,
// operation, scope, schema, owner, member}; patterns may be composed with
// and, or, not." Patterns are represented as a tagged tree (Property | And |
// Or | Not) per SPEC_FULL.md's "small interpreter" design, the same shape
// the teacher's migrations package uses for its operation-kind dispatch:
// property matching consults a static registry of extractors keyed by name,
// and Property.Match ignores unknown property names by design (always match)
// rather than rejecting them. Load, which parses hand-written pattern files,
// is stricter and rejects unknown keys (see knownProperties in load.go).
package filter

import (
	"reflect"
	"strings"

	"github.com/dbshift/pgdiffkit/pkg/catalog"
	"github.com/dbshift/pgdiffkit/pkg/change"
)

// Pattern is a predicate over a Change.
type Pattern interface {
	Match(c *change.Change) bool
}

// Property matches a Change whose named property equals Value. Matching is
// delegated to the extractor registered under Name; an unregistered Name
// always matches (unknown properties are ignored by design).
type Property struct {
	Name  string
	Value string
}

func (p Property) Match(c *change.Change) bool {
	extract, ok := extractors[p.Name]
	if !ok {
		return true
	}
	return extract(c, p.Value)
}

// And matches when every sub-pattern matches. An empty And matches nothing,
// mirroring a vacuous AND-of-zero-terms edge case a handwritten pattern file
// should never produce, rather than silently passing everything through.
type And []Pattern

func (a And) Match(c *change.Change) bool {
	if len(a) == 0 {
		return false
	}
	for _, p := range a {
		if !p.Match(c) {
			return false
		}
	}
	return true
}

// Or matches when any sub-pattern matches.
type Or []Pattern

func (o Or) Match(c *change.Change) bool {
	for _, p := range o {
		if p.Match(c) {
			return true
		}
	}
	return false
}

// Not negates a sub-pattern.
type Not struct {
	Pattern Pattern
}

func (n Not) Match(c *change.Change) bool {
	return !n.Pattern.Match(c)
}

// extractors maps a pattern property name to a function testing a Change
// against a candidate value. New properties are added here; the Property
// type never needs to change.
var extractors = map[string]func(c *change.Change, value string) bool{
	"type": func(c *change.Change, value string) bool {
		return string(c.ObjectType) == value
	},
	"operation": func(c *change.Change, value string) bool {
		return string(c.Operation) == value
	},
	"scope": func(c *change.Change, value string) bool {
		return string(c.Scope) == value
	},
	"schema": func(c *change.Change, value string) bool {
		return schemaOf(c.StableID) == value
	},
	"owner": func(c *change.Change, value string) bool {
		return ownerOf(c) == value
	},
	"member": func(c *change.Change, value string) bool {
		for _, m := range memberOf(c) {
			if m == value {
				return true
			}
		}
		return false
	},
}

// schemaOf recovers the schema portion of a "kind:schema.name" or
// "kind:name" stable ID. Cluster-scope kinds (role, extension, ...) have no
// schema component and schemaOf returns "" for them, which only a pattern
// explicitly matching schema="" will select.
func schemaOf(id catalog.StableID) string {
	_, qualified, ok := strings.Cut(string(id), ":")
	if !ok {
		return ""
	}
	schema, _, ok := strings.Cut(qualified, ".")
	if !ok {
		return ""
	}
	return schema
}

// ownerOf reads the promoted Base.Owner field off whichever of Before/After
// is non-nil, via reflection, since Change.Before/After are untyped entity
// pointers (§9's tagged-union translation of the source's class hierarchy).
func ownerOf(c *change.Change) string {
	v := entityValue(c)
	if !v.IsValid() {
		return ""
	}
	f := v.FieldByName("Owner")
	if !f.IsValid() || f.Kind() != reflect.String {
		return ""
	}
	return f.String()
}

// memberOf reads catalog.Role.MemberOf off whichever of Before/After is
// non-nil; every other kind lacks the field and memberOf returns nil.
func memberOf(c *change.Change) []string {
	v := entityValue(c)
	if !v.IsValid() {
		return nil
	}
	f := v.FieldByName("MemberOf")
	if !f.IsValid() || f.Kind() != reflect.Slice {
		return nil
	}
	out := make([]string, f.Len())
	for i := range out {
		out[i] = f.Index(i).String()
	}
	return out
}

// entityValue returns the dereferenced struct Value of whichever of
// Before/After is set, preferring After (the post-image is the more
// "current" view for an alter).
func entityValue(c *change.Change) reflect.Value {
	entity := c.After
	if entity == nil {
		entity = c.Before
	}
	if entity == nil {
		return reflect.Value{}
	}
	v := reflect.ValueOf(entity)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}
	}
	return v
}

// Apply returns the subset of changes for which p matches. A nil p matches
// everything (no filter configured).
func Apply(changes []*change.Change, p Pattern) []*change.Change {
	if p == nil {
		return changes
	}
	out := make([]*change.Change, 0, len(changes))
	for _, c := range changes {
		if p.Match(c) {
			out = append(out, c)
		}
	}
	return out
}
