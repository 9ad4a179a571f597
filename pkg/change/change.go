// SPDX-License-Identifier: Apache-2.0

// Package change defines the Change record produced by the Differ (pkg/differ)
// and consumed by the Sorter (pkg/sorter) and Serializer. Every entity kind
// is handled through this single tagged-union type rather than one Go type
// per kind: §9 of the design notes observes that the source's class
// hierarchy for the change taxonomy translates to a tagged union with a
// shared interface, and an exhaustive switch on the tag replaces the
// runtime instanceof checks the original uses.
package change

import "github.com/dbshift/pgdiffkit/pkg/catalog"

// Operation is the kind of DDL action a Change performs.
type Operation string

const (
	OpCreate  Operation = "create"
	OpAlter   Operation = "alter"
	OpDrop    Operation = "drop"
	OpReplace Operation = "replace" // alter degraded to drop+create (§4.3)
)

// Scope discriminates an object-defining Change from the comment/privilege
// annotations the Sorter must order after the object exists (§4.2).
type Scope string

const (
	ScopeObject    Scope = "object"
	ScopeComment   Scope = "comment"
	ScopePrivilege Scope = "privilege"
)

// Aspect names the specific ALTER-able axis an OpAlter Change realizes. The
// zero value ("") is used for OpCreate/OpDrop/OpReplace, where there is only
// one possible aspect.
type Aspect string

const (
	AspectAddColumn             Aspect = "add_column"
	AspectDropColumn             Aspect = "drop_column"
	AspectAlterColumnType        Aspect = "alter_column_type"
	AspectAlterColumnSetDefault  Aspect = "alter_column_set_default"
	AspectAlterColumnDropDefault Aspect = "alter_column_drop_default"
	AspectAlterColumnSetNotNull  Aspect = "alter_column_set_not_null"
	AspectAlterColumnDropNotNull Aspect = "alter_column_drop_not_null"
	AspectEnableRLS              Aspect = "enable_rls"
	AspectDisableRLS             Aspect = "disable_rls"
	AspectForceRLS               Aspect = "force_rls"
	AspectNoForceRLS             Aspect = "no_force_rls"
	AspectAddConstraint          Aspect = "add_constraint"
	AspectDropConstraint         Aspect = "drop_constraint"
	AspectValidateConstraint     Aspect = "validate_constraint"
	AspectSetOwner               Aspect = "set_owner"
	AspectSetSchema               Aspect = "set_schema"
	AspectRename                  Aspect = "rename"
	AspectUpdateVersion            Aspect = "update_version"
	AspectAddEnumValue             Aspect = "add_enum_value"
	AspectSetSequenceOwnedBy        Aspect = "set_sequence_owned_by"
	AspectEnableTrigger              Aspect = "enable_trigger"
	AspectDisableTrigger             Aspect = "disable_trigger"
	AspectSetOptions                 Aspect = "set_options"
	AspectSetConnInfo                Aspect = "set_conninfo"
)

// Warning is a non-fatal finding attached to a successful Change.serialize
// call, surfaced to the caller as part of the Plan (§7: "Non-fatal findings
// ... are attached to the successful result as warnings").
type Warning struct {
	Message string
}

// Change is produced by the Differ (pkg/differ), ordered by the Sorter
// (pkg/sorter), and turned into SQL by its own SQL method (serialize.go),
// which pkg/plan calls. For object-scope Changes, Before/After follow
// Operation: Create has only After, Drop has only Before, Alter and Replace
// have both, except AlterSequenceOwnedBy, which has only After. Comment- and
// privilege-scope Changes carry the comment or privilege text instead;
// DropComment carries neither.
type Change struct {
	Operation  Operation
	Scope      Scope
	ObjectType catalog.Kind
	Aspect     Aspect

	// StableID is the identity of the entity this Change concerns. For
	// column sub-changes, Column names the affected column and StableID
	// remains the parent table's.
	StableID catalog.StableID
	Column   string

	Before interface{} // pre-image entity pointer (e.g. *catalog.Table), nil for create
	After  interface{} // post-image entity pointer, nil for drop

	// dependsOn is the ordered list of stable IDs this change's declared
	// edges reference (§4.4 source 1); populated by the per-kind
	// constructors in pkg/change/constructors.go.
	dependsOn []catalog.StableID
}

// DependsOn returns the stable IDs this Change's declared dependencies
// reference (§4.4's "change-declared edges"). The Sorter treats these as
// edges in the direction documented per-operation (create: dep before
// change; drop: change before dep's drop; alter: after creates, before
// drops of either endpoint).
func (c *Change) DependsOn() []catalog.StableID {
	return c.dependsOn
}

// Key uniquely identifies a Change within a single diff's output — two
// Changes with the same key never both appear in one unordered Change slice.
// Used by the Sorter to key graph nodes and by tests to assert on expected
// change sets without caring about slice order.
func (c *Change) Key() string {
	return string(c.Operation) + ":" + string(c.Scope) + ":" + string(c.ObjectType) + ":" + string(c.StableID) + ":" + c.Column + ":" + string(c.Aspect)
}
