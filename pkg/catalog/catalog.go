// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Catalog is the immutable container produced by Extract. Every field other
// than Depends is a collection keyed by stable_id. Catalogs are never
// mutated after construction; callers that need a derived view (e.g. the
// fingerprinter's masked subset) build a new value.
type Catalog struct {
	Schemas             map[StableID]*Schema
	Tables              map[StableID]*Table
	Views               map[StableID]*View
	MaterializedViews   map[StableID]*MaterializedView
	ForeignTables       map[StableID]*ForeignTable
	Indexes             map[StableID]*Index
	Constraints         map[StableID]*Constraint
	Triggers            map[StableID]*Trigger
	Rules               map[StableID]*Rule
	RLSPolicies         map[StableID]*RLSPolicy
	Sequences           map[StableID]*Sequence
	Functions           map[StableID]*Function
	Procedures          map[StableID]*Procedure
	Aggregates          map[StableID]*Aggregate
	Enums               map[StableID]*Enum
	CompositeTypes      map[StableID]*CompositeType
	Ranges              map[StableID]*Range
	Domains             map[StableID]*Domain
	Collations          map[StableID]*Collation
	Extensions          map[StableID]*Extension
	Roles               map[StableID]*Role
	EventTriggers       map[StableID]*EventTrigger
	Publications        map[StableID]*Publication
	Subscriptions       map[StableID]*Subscription
	ForeignDataWrappers map[StableID]*ForeignDataWrapper
	Servers             map[StableID]*Server
	UserMappings        map[StableID]*UserMapping
	Languages           map[StableID]*Language

	// Depends is the flat edge list: pg_depend rows that survived
	// system-schema filtering, deduplicated, plus synthesized edges (see
	// pkg/catalog/depend.go).
	Depends []Depend
}

// New returns an empty, fully initialized Catalog.
func New() *Catalog {
	return &Catalog{
		Schemas:             make(map[StableID]*Schema),
		Tables:              make(map[StableID]*Table),
		Views:               make(map[StableID]*View),
		MaterializedViews:   make(map[StableID]*MaterializedView),
		ForeignTables:       make(map[StableID]*ForeignTable),
		Indexes:             make(map[StableID]*Index),
		Constraints:         make(map[StableID]*Constraint),
		Triggers:            make(map[StableID]*Trigger),
		Rules:               make(map[StableID]*Rule),
		RLSPolicies:         make(map[StableID]*RLSPolicy),
		Sequences:           make(map[StableID]*Sequence),
		Functions:           make(map[StableID]*Function),
		Procedures:          make(map[StableID]*Procedure),
		Aggregates:          make(map[StableID]*Aggregate),
		Enums:               make(map[StableID]*Enum),
		CompositeTypes:      make(map[StableID]*CompositeType),
		Ranges:              make(map[StableID]*Range),
		Domains:             make(map[StableID]*Domain),
		Collations:          make(map[StableID]*Collation),
		Extensions:          make(map[StableID]*Extension),
		Roles:               make(map[StableID]*Role),
		EventTriggers:       make(map[StableID]*EventTrigger),
		Publications:        make(map[StableID]*Publication),
		Subscriptions:       make(map[StableID]*Subscription),
		ForeignDataWrappers: make(map[StableID]*ForeignDataWrapper),
		Servers:             make(map[StableID]*Server),
		UserMappings:        make(map[StableID]*UserMapping),
		Languages:           make(map[StableID]*Language),
	}
}

// schemas returns the set of schema names present in the catalog, for
// invariant 2 ("every entity whose schema field is non-null must have its
// schema present as a schema entity").
func (c *Catalog) schemas() map[string]bool {
	present := make(map[string]bool, len(c.Schemas))
	for _, s := range c.Schemas {
		present[s.Name] = true
	}
	return present
}

// Validate checks the invariants from the data model: unique stable IDs
// (guaranteed by map construction, but checked across collections too, since
// two different kinds could theoretically collide if a caller hand-built a
// Catalog), schema presence, and pg_depend endpoint resolution.
func (c *Catalog) Validate() error {
	seen := make(map[StableID]bool)
	check := func(id StableID) error {
		if seen[id] {
			return fmt.Errorf("duplicate stable id: %s", id)
		}
		seen[id] = true
		return nil
	}

	for _, m := range c.allMaps() {
		for id := range m {
			if err := check(id); err != nil {
				return err
			}
		}
	}

	present := c.schemas()
	for schema, names := range c.schemaRefs() {
		if schema == "" {
			continue
		}
		if !present[schema] {
			return fmt.Errorf("schema %q referenced by %s is not present in catalog", schema, strings.Join(names, ", "))
		}
	}

	ids := c.AllStableIDs()
	for _, d := range c.Depends {
		if !ids[d.Dependent] || !ids[d.Referenced] {
			return fmt.Errorf("pg_depend edge references unknown stable id: %s -> %s", d.Dependent, d.Referenced)
		}
	}

	return nil
}

// schemaRefs maps each referenced schema name to a sample of the stable IDs
// that reference it, for error reporting.
func (c *Catalog) schemaRefs() map[string][]string {
	refs := make(map[string][]string)
	add := func(schema string, id StableID) {
		if schema == "" {
			return
		}
		refs[schema] = append(refs[schema], string(id))
	}
	for id, t := range c.Tables {
		add(t.Schema, id)
	}
	for id, v := range c.Views {
		add(v.Schema, id)
	}
	for id, v := range c.MaterializedViews {
		add(v.Schema, id)
	}
	for id, v := range c.ForeignTables {
		add(v.Schema, id)
	}
	for id, v := range c.Sequences {
		add(v.Schema, id)
	}
	for id, v := range c.Functions {
		add(v.Schema, id)
	}
	for id, v := range c.Procedures {
		add(v.Schema, id)
	}
	for id, v := range c.Aggregates {
		add(v.Schema, id)
	}
	for id, v := range c.Enums {
		add(v.Schema, id)
	}
	for id, v := range c.CompositeTypes {
		add(v.Schema, id)
	}
	for id, v := range c.Ranges {
		add(v.Schema, id)
	}
	for id, v := range c.Domains {
		add(v.Schema, id)
	}
	for id, v := range c.Collations {
		add(v.Schema, id)
	}
	return refs
}

// allMaps returns every keyed collection, used by Validate and by code that
// needs to enumerate all stable IDs generically (fingerprinting, sorting).
func (c *Catalog) allMaps() []map[StableID]bool {
	result := make([]map[StableID]bool, 0, 28)
	collect := func(ids []StableID) {
		m := make(map[StableID]bool, len(ids))
		for _, id := range ids {
			m[id] = true
		}
		result = append(result, m)
	}
	collect(keysOfSchema(c.Schemas))
	collect(keysOfTable(c.Tables))
	collect(keysOfView(c.Views))
	collect(keysOfMatView(c.MaterializedViews))
	collect(keysOfForeignTable(c.ForeignTables))
	collect(keysOfIndex(c.Indexes))
	collect(keysOfConstraint(c.Constraints))
	collect(keysOfTrigger(c.Triggers))
	collect(keysOfRule(c.Rules))
	collect(keysOfRLSPolicy(c.RLSPolicies))
	collect(keysOfSequence(c.Sequences))
	collect(keysOfFunction(c.Functions))
	collect(keysOfProcedure(c.Procedures))
	collect(keysOfAggregate(c.Aggregates))
	collect(keysOfEnum(c.Enums))
	collect(keysOfCompositeType(c.CompositeTypes))
	collect(keysOfRange(c.Ranges))
	collect(keysOfDomain(c.Domains))
	collect(keysOfCollation(c.Collations))
	collect(keysOfExtension(c.Extensions))
	collect(keysOfRole(c.Roles))
	collect(keysOfEventTrigger(c.EventTriggers))
	collect(keysOfPublication(c.Publications))
	collect(keysOfSubscription(c.Subscriptions))
	collect(keysOfForeignDataWrapper(c.ForeignDataWrappers))
	collect(keysOfServer(c.Servers))
	collect(keysOfUserMapping(c.UserMappings))
	collect(keysOfLanguage(c.Languages))
	return result
}

// AllStableIDs returns the full set of stable IDs present in the catalog.
func (c *Catalog) AllStableIDs() map[StableID]bool {
	out := make(map[StableID]bool)
	for _, m := range c.allMaps() {
		for id := range m {
			out[id] = true
		}
	}
	return out
}

// SortedStableIDs returns every stable ID in the catalog, sorted
// lexicographically; used by the fingerprinter's deterministic serialization.
func (c *Catalog) SortedStableIDs() []StableID {
	ids := c.AllStableIDs()
	out := make([]StableID, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func keysOfSchema(m map[StableID]*Schema) []StableID { return keys(m) }
func keysOfTable(m map[StableID]*Table) []StableID { return keys(m) }
func keysOfView(m map[StableID]*View) []StableID { return keys(m) }
func keysOfMatView(m map[StableID]*MaterializedView) []StableID { return keys(m) }
func keysOfForeignTable(m map[StableID]*ForeignTable) []StableID { return keys(m) }
func keysOfIndex(m map[StableID]*Index) []StableID { return keys(m) }
func keysOfConstraint(m map[StableID]*Constraint) []StableID { return keys(m) }
func keysOfTrigger(m map[StableID]*Trigger) []StableID { return keys(m) }
func keysOfRule(m map[StableID]*Rule) []StableID { return keys(m) }
func keysOfRLSPolicy(m map[StableID]*RLSPolicy) []StableID { return keys(m) }
func keysOfSequence(m map[StableID]*Sequence) []StableID { return keys(m) }
func keysOfFunction(m map[StableID]*Function) []StableID { return keys(m) }
func keysOfProcedure(m map[StableID]*Procedure) []StableID { return keys(m) }
func keysOfAggregate(m map[StableID]*Aggregate) []StableID { return keys(m) }
func keysOfEnum(m map[StableID]*Enum) []StableID { return keys(m) }
func keysOfCompositeType(m map[StableID]*CompositeType) []StableID { return keys(m) }
func keysOfRange(m map[StableID]*Range) []StableID { return keys(m) }
func keysOfDomain(m map[StableID]*Domain) []StableID { return keys(m) }
func keysOfCollation(m map[StableID]*Collation) []StableID { return keys(m) }
func keysOfExtension(m map[StableID]*Extension) []StableID { return keys(m) }
func keysOfRole(m map[StableID]*Role) []StableID { return keys(m) }
func keysOfEventTrigger(m map[StableID]*EventTrigger) []StableID { return keys(m) }
func keysOfPublication(m map[StableID]*Publication) []StableID { return keys(m) }
func keysOfSubscription(m map[StableID]*Subscription) []StableID { return keys(m) }
func keysOfForeignDataWrapper(m map[StableID]*ForeignDataWrapper) []StableID { return keys(m) }
func keysOfServer(m map[StableID]*Server) []StableID { return keys(m) }
func keysOfUserMapping(m map[StableID]*UserMapping) []StableID { return keys(m) }
func keysOfLanguage(m map[StableID]*Language) []StableID { return keys(m) }

// CommentedEntity pairs a stable ID's kind with its current comment pointer,
// for the Differ's comment-scope pass (§4.2: "comments ... are modeled as
// separate Changes with scope = comment").
type CommentedEntity struct {
	Kind    Kind
	Comment *string
}

// AllComments returns every entity's stable ID, kind, and comment, across
// every collection — the Differ does not otherwise have a uniform way to
// walk all 28 kind-specific maps generically.
func (c *Catalog) AllComments() map[StableID]CommentedEntity {
	out := make(map[StableID]CommentedEntity)
	addBase := func(kind Kind, id StableID, comment *string) {
		out[id] = CommentedEntity{Kind: kind, Comment: comment}
	}
	for id, v := range c.Schemas {
		addBase(KindSchema, id, v.Comment)
	}
	for id, v := range c.Tables {
		addBase(KindTable, id, v.Comment)
	}
	for id, v := range c.Views {
		addBase(KindView, id, v.Comment)
	}
	for id, v := range c.MaterializedViews {
		addBase(KindMaterializedView, id, v.Comment)
	}
	for id, v := range c.ForeignTables {
		addBase(KindForeignTable, id, v.Comment)
	}
	for id, v := range c.Indexes {
		addBase(KindIndex, id, v.Comment)
	}
	for id, v := range c.Constraints {
		addBase(KindConstraint, id, v.Comment)
	}
	for id, v := range c.Triggers {
		addBase(KindTrigger, id, v.Comment)
	}
	for id, v := range c.Rules {
		addBase(KindRule, id, v.Comment)
	}
	for id, v := range c.RLSPolicies {
		addBase(KindRLSPolicy, id, v.Comment)
	}
	for id, v := range c.Sequences {
		addBase(KindSequence, id, v.Comment)
	}
	for id, v := range c.Functions {
		addBase(KindFunction, id, v.Comment)
	}
	for id, v := range c.Procedures {
		addBase(KindProcedure, id, v.Comment)
	}
	for id, v := range c.Aggregates {
		addBase(KindAggregate, id, v.Comment)
	}
	for id, v := range c.Enums {
		addBase(KindEnum, id, v.Comment)
	}
	for id, v := range c.CompositeTypes {
		addBase(KindCompositeType, id, v.Comment)
	}
	for id, v := range c.Ranges {
		addBase(KindRange, id, v.Comment)
	}
	for id, v := range c.Domains {
		addBase(KindDomain, id, v.Comment)
	}
	for id, v := range c.Collations {
		addBase(KindCollation, id, v.Comment)
	}
	for id, v := range c.Extensions {
		addBase(KindExtension, id, v.Comment)
	}
	for id, v := range c.Roles {
		addBase(KindRole, id, v.Comment)
	}
	for id, v := range c.EventTriggers {
		addBase(KindEventTrigger, id, v.Comment)
	}
	for id, v := range c.Publications {
		addBase(KindPublication, id, v.Comment)
	}
	for id, v := range c.Subscriptions {
		addBase(KindSubscription, id, v.Comment)
	}
	for id, v := range c.ForeignDataWrappers {
		addBase(KindForeignDataWrapper, id, v.Comment)
	}
	for id, v := range c.Servers {
		addBase(KindServer, id, v.Comment)
	}
	for id, v := range c.UserMappings {
		addBase(KindUserMapping, id, v.Comment)
	}
	for id, v := range c.Languages {
		addBase(KindLanguage, id, v.Comment)
	}
	return out
}

// EntityByID resolves a stable ID to its entity pointer and kind, searching
// every collection. Used by pkg/fingerprint to canonicalize a plan's touched
// stable IDs and by pkg/filter to extract schema/owner properties from a
// Change's before/after image generically across all 28 kinds.
func (c *Catalog) EntityByID(id StableID) (interface{}, Kind, bool) {
	if v, ok := c.Schemas[id]; ok {
		return v, KindSchema, true
	}
	if v, ok := c.Tables[id]; ok {
		return v, KindTable, true
	}
	if v, ok := c.Views[id]; ok {
		return v, KindView, true
	}
	if v, ok := c.MaterializedViews[id]; ok {
		return v, KindMaterializedView, true
	}
	if v, ok := c.ForeignTables[id]; ok {
		return v, KindForeignTable, true
	}
	if v, ok := c.Indexes[id]; ok {
		return v, KindIndex, true
	}
	if v, ok := c.Constraints[id]; ok {
		return v, KindConstraint, true
	}
	if v, ok := c.Triggers[id]; ok {
		return v, KindTrigger, true
	}
	if v, ok := c.Rules[id]; ok {
		return v, KindRule, true
	}
	if v, ok := c.RLSPolicies[id]; ok {
		return v, KindRLSPolicy, true
	}
	if v, ok := c.Sequences[id]; ok {
		return v, KindSequence, true
	}
	if v, ok := c.Functions[id]; ok {
		return v, KindFunction, true
	}
	if v, ok := c.Procedures[id]; ok {
		return v, KindProcedure, true
	}
	if v, ok := c.Aggregates[id]; ok {
		return v, KindAggregate, true
	}
	if v, ok := c.Enums[id]; ok {
		return v, KindEnum, true
	}
	if v, ok := c.CompositeTypes[id]; ok {
		return v, KindCompositeType, true
	}
	if v, ok := c.Ranges[id]; ok {
		return v, KindRange, true
	}
	if v, ok := c.Domains[id]; ok {
		return v, KindDomain, true
	}
	if v, ok := c.Collations[id]; ok {
		return v, KindCollation, true
	}
	if v, ok := c.Extensions[id]; ok {
		return v, KindExtension, true
	}
	if v, ok := c.Roles[id]; ok {
		return v, KindRole, true
	}
	if v, ok := c.EventTriggers[id]; ok {
		return v, KindEventTrigger, true
	}
	if v, ok := c.Publications[id]; ok {
		return v, KindPublication, true
	}
	if v, ok := c.Subscriptions[id]; ok {
		return v, KindSubscription, true
	}
	if v, ok := c.ForeignDataWrappers[id]; ok {
		return v, KindForeignDataWrapper, true
	}
	if v, ok := c.Servers[id]; ok {
		return v, KindServer, true
	}
	if v, ok := c.UserMappings[id]; ok {
		return v, KindUserMapping, true
	}
	if v, ok := c.Languages[id]; ok {
		return v, KindLanguage, true
	}
	return nil, "", false
}

func keys[T any](m map[StableID]T) []StableID {
	out := make([]StableID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}
