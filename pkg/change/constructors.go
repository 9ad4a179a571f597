// SPDX-License-Identifier: Apache-2.0

package change

import "github.com/dbshift/pgdiffkit/pkg/catalog"

// newObjectChange builds the common shape shared by every Create/Drop/Alter
// constructor below.
func newObjectChange(op Operation, kind catalog.Kind, id catalog.StableID, before, after interface{}, deps ...catalog.StableID) *Change {
	return &Change{
		Operation:  op,
		Scope:      ScopeObject,
		ObjectType: kind,
		StableID:   id,
		Before:     before,
		After:      after,
		dependsOn:  deps,
	}
}

func schemaDep(schema string) []catalog.StableID {
	if schema == "" {
		return nil
	}
	return []catalog.StableID{catalog.NewStableID(catalog.KindSchema, schema)}
}

// --- schema ---

func CreateSchema(s *catalog.Schema) *Change {
	return newObjectChange(OpCreate, catalog.KindSchema, s.ID, nil, s)
}

func DropSchema(s *catalog.Schema) *Change {
	return newObjectChange(OpDrop, catalog.KindSchema, s.ID, s, nil)
}

func AlterSchemaSetOwner(before, after *catalog.Schema) *Change {
	c := newObjectChange(OpAlter, catalog.KindSchema, after.ID, before, after)
	c.Aspect = AspectSetOwner
	return c
}

// --- table ---

func CreateTable(t *catalog.Table) *Change {
	deps := schemaDep(t.Schema)
	for _, col := range t.Columns {
		if col.Identity != nil {
			deps = append(deps, col.Identity.Sequence)
		}
	}
	if t.PartitionOf != nil {
		deps = append(deps, catalog.NewStableID(catalog.KindTable, *t.PartitionOf))
	}
	return newObjectChange(OpCreate, catalog.KindTable, t.ID, nil, t, deps...)
}

func DropTable(t *catalog.Table) *Change {
	return newObjectChange(OpDrop, catalog.KindTable, t.ID, t, nil)
}

func ReplaceTable(before, after *catalog.Table) *Change {
	c := newObjectChange(OpReplace, catalog.KindTable, after.ID, before, after, schemaDep(after.Schema)...)
	return c
}

func alterTable(before, after *catalog.Table, aspect Aspect, column string, deps ...catalog.StableID) *Change {
	c := newObjectChange(OpAlter, catalog.KindTable, after.ID, before, after, deps...)
	c.Aspect = aspect
	c.Column = column
	return c
}

func AlterTableAddColumn(before, after *catalog.Table, col catalog.Column) *Change {
	var deps []catalog.StableID
	if col.Identity != nil {
		deps = append(deps, col.Identity.Sequence)
	}
	return alterTable(before, after, AspectAddColumn, col.Name, deps...)
}

func AlterTableDropColumn(before, after *catalog.Table, columnName string) *Change {
	return alterTable(before, after, AspectDropColumn, columnName)
}

func AlterTableAlterColumnType(before, after *catalog.Table, columnName string) *Change {
	return alterTable(before, after, AspectAlterColumnType, columnName)
}

func AlterTableAlterColumnSetDefault(before, after *catalog.Table, columnName string) *Change {
	return alterTable(before, after, AspectAlterColumnSetDefault, columnName)
}

func AlterTableAlterColumnDropDefault(before, after *catalog.Table, columnName string) *Change {
	return alterTable(before, after, AspectAlterColumnDropDefault, columnName)
}

func AlterTableAlterColumnSetNotNull(before, after *catalog.Table, columnName string) *Change {
	return alterTable(before, after, AspectAlterColumnSetNotNull, columnName)
}

func AlterTableAlterColumnDropNotNull(before, after *catalog.Table, columnName string) *Change {
	return alterTable(before, after, AspectAlterColumnDropNotNull, columnName)
}

func AlterTableEnableRLS(before, after *catalog.Table) *Change {
	return alterTable(before, after, AspectEnableRLS, "")
}

func AlterTableDisableRLS(before, after *catalog.Table) *Change {
	return alterTable(before, after, AspectDisableRLS, "")
}

func AlterTableForceRLS(before, after *catalog.Table) *Change {
	return alterTable(before, after, AspectForceRLS, "")
}

func AlterTableNoForceRLS(before, after *catalog.Table) *Change {
	return alterTable(before, after, AspectNoForceRLS, "")
}

func AlterTableSetOwner(before, after *catalog.Table) *Change {
	return alterTable(before, after, AspectSetOwner, "")
}

// --- view / materialized view ---

func dependsOnRelations(refs []catalog.StableID, schema string) []catalog.StableID {
	return append(schemaDep(schema), refs...)
}

func CreateView(v *catalog.View, refs []catalog.StableID) *Change {
	return newObjectChange(OpCreate, catalog.KindView, v.ID, nil, v, dependsOnRelations(refs, v.Schema)...)
}

func DropView(v *catalog.View) *Change {
	return newObjectChange(OpDrop, catalog.KindView, v.ID, v, nil)
}

func ReplaceView(before, after *catalog.View, refs []catalog.StableID) *Change {
	return newObjectChange(OpReplace, catalog.KindView, after.ID, before, after, dependsOnRelations(refs, after.Schema)...)
}

func AlterViewSetOwner(before, after *catalog.View) *Change {
	c := newObjectChange(OpAlter, catalog.KindView, after.ID, before, after)
	c.Aspect = AspectSetOwner
	return c
}

func CreateMaterializedView(v *catalog.MaterializedView, refs []catalog.StableID) *Change {
	return newObjectChange(OpCreate, catalog.KindMaterializedView, v.ID, nil, v, dependsOnRelations(refs, v.Schema)...)
}

func DropMaterializedView(v *catalog.MaterializedView) *Change {
	return newObjectChange(OpDrop, catalog.KindMaterializedView, v.ID, v, nil)
}

func ReplaceMaterializedView(before, after *catalog.MaterializedView, refs []catalog.StableID) *Change {
	return newObjectChange(OpReplace, catalog.KindMaterializedView, after.ID, before, after, dependsOnRelations(refs, after.Schema)...)
}

// --- foreign table ---

func CreateForeignTable(f *catalog.ForeignTable) *Change {
	return newObjectChange(OpCreate, catalog.KindForeignTable, f.ID, nil, f, append(schemaDep(f.Schema), f.Server)...)
}

func DropForeignTable(f *catalog.ForeignTable) *Change {
	return newObjectChange(OpDrop, catalog.KindForeignTable, f.ID, f, nil)
}

// --- index ---

func CreateIndex(i *catalog.Index, tableID catalog.StableID) *Change {
	return newObjectChange(OpCreate, catalog.KindIndex, i.ID, nil, i, tableID)
}

func DropIndex(i *catalog.Index, tableID catalog.StableID) *Change {
	c := newObjectChange(OpDrop, catalog.KindIndex, i.ID, i, nil)
	c.dependsOn = []catalog.StableID{tableID}
	return c
}

// --- constraint ---

func CreateConstraint(con *catalog.Constraint, tableID catalog.StableID) *Change {
	deps := []catalog.StableID{tableID}
	if con.Index != "" {
		deps = append(deps, con.Index)
	}
	if con.Kind == catalog.ConstraintForeignKey && con.RefTable != "" {
		deps = append(deps, catalog.NewStableID(catalog.KindTable, con.RefTable))
	}
	c := newObjectChange(OpCreate, catalog.KindConstraint, con.ID, nil, con, deps...)
	c.Aspect = AspectAddConstraint
	return c
}

func DropConstraint(con *catalog.Constraint, tableID catalog.StableID) *Change {
	c := newObjectChange(OpDrop, catalog.KindConstraint, con.ID, con, nil, tableID)
	c.Aspect = AspectDropConstraint
	return c
}

func ValidateConstraint(con *catalog.Constraint, tableID catalog.StableID) *Change {
	c := newObjectChange(OpAlter, catalog.KindConstraint, con.ID, con, con, tableID)
	c.Aspect = AspectValidateConstraint
	return c
}

// --- trigger ---

func CreateTrigger(t *catalog.Trigger, tableID catalog.StableID) *Change {
	return newObjectChange(OpCreate, catalog.KindTrigger, t.ID, nil, t, tableID, t.Function)
}

func DropTrigger(t *catalog.Trigger, tableID catalog.StableID) *Change {
	return newObjectChange(OpDrop, catalog.KindTrigger, t.ID, t, nil, tableID)
}

func AlterTriggerEnable(before, after *catalog.Trigger, tableID catalog.StableID) *Change {
	c := newObjectChange(OpAlter, catalog.KindTrigger, after.ID, before, after, tableID)
	c.Aspect = AspectEnableTrigger
	return c
}

func AlterTriggerDisable(before, after *catalog.Trigger, tableID catalog.StableID) *Change {
	c := newObjectChange(OpAlter, catalog.KindTrigger, after.ID, before, after, tableID)
	c.Aspect = AspectDisableTrigger
	return c
}

// --- rule ---

func CreateRule(r *catalog.Rule, tableID catalog.StableID) *Change {
	return newObjectChange(OpCreate, catalog.KindRule, r.ID, nil, r, tableID)
}

func DropRule(r *catalog.Rule, tableID catalog.StableID) *Change {
	return newObjectChange(OpDrop, catalog.KindRule, r.ID, r, nil, tableID)
}

// --- rls policy ---

func CreateRLSPolicy(p *catalog.RLSPolicy, tableID catalog.StableID) *Change {
	return newObjectChange(OpCreate, catalog.KindRLSPolicy, p.ID, nil, p, tableID)
}

func DropRLSPolicy(p *catalog.RLSPolicy, tableID catalog.StableID) *Change {
	return newObjectChange(OpDrop, catalog.KindRLSPolicy, p.ID, p, nil, tableID)
}

func ReplaceRLSPolicy(before, after *catalog.RLSPolicy, tableID catalog.StableID) *Change {
	return newObjectChange(OpReplace, catalog.KindRLSPolicy, after.ID, before, after, tableID)
}

// --- sequence ---

func CreateSequence(s *catalog.Sequence) *Change {
	return newObjectChange(OpCreate, catalog.KindSequence, s.ID, nil, s, schemaDep(s.Schema)...)
}

func DropSequence(s *catalog.Sequence) *Change {
	return newObjectChange(OpDrop, catalog.KindSequence, s.ID, s, nil)
}

func AlterSequence(before, after *catalog.Sequence) *Change {
	return newObjectChange(OpAlter, catalog.KindSequence, after.ID, before, after)
}

// AlterSequenceOwnedBy is emitted as its own Change so the Sorter can place
// it after both the sequence and the owning table exist (§4.4's documented
// sequence-owns-column cycle break).
func AlterSequenceOwnedBy(s *catalog.Sequence, tableID catalog.StableID) *Change {
	c := newObjectChange(OpAlter, catalog.KindSequence, s.ID, nil, s, s.ID, tableID)
	c.Aspect = AspectSetSequenceOwnedBy
	return c
}

// --- function / procedure / aggregate ---

func argTypeDeps(args []catalog.Parameter) []catalog.StableID {
	// Only built-in scalar types need no dependency edge; user-defined
	// argument/return types are resolved by the serializer via name lookup,
	// not modeled as edges here, since pg_depend already captures them for
	// real (non-synthesized) routine/type pairs.
	return nil
}

func CreateFunction(f *catalog.Function) *Change {
	return newObjectChange(OpCreate, catalog.KindFunction, f.ID, nil, f, append(schemaDep(f.Schema), argTypeDeps(f.Arguments)...)...)
}

func DropFunction(f *catalog.Function) *Change {
	return newObjectChange(OpDrop, catalog.KindFunction, f.ID, f, nil)
}

func ReplaceFunction(before, after *catalog.Function) *Change {
	return newObjectChange(OpReplace, catalog.KindFunction, after.ID, before, after, schemaDep(after.Schema)...)
}

func AlterFunctionVolatility(before, after *catalog.Function) *Change {
	return newObjectChange(OpAlter, catalog.KindFunction, after.ID, before, after)
}

func CreateProcedure(p *catalog.Procedure) *Change {
	return newObjectChange(OpCreate, catalog.KindProcedure, p.ID, nil, p, schemaDep(p.Schema)...)
}

func DropProcedure(p *catalog.Procedure) *Change {
	return newObjectChange(OpDrop, catalog.KindProcedure, p.ID, p, nil)
}

func ReplaceProcedure(before, after *catalog.Procedure) *Change {
	return newObjectChange(OpReplace, catalog.KindProcedure, after.ID, before, after, schemaDep(after.Schema)...)
}

func CreateAggregate(a *catalog.Aggregate) *Change {
	deps := append(schemaDep(a.Schema), a.TransitionFn)
	if a.FinalFn != "" {
		deps = append(deps, a.FinalFn)
	}
	return newObjectChange(OpCreate, catalog.KindAggregate, a.ID, nil, a, deps...)
}

func DropAggregate(a *catalog.Aggregate) *Change {
	return newObjectChange(OpDrop, catalog.KindAggregate, a.ID, a, nil)
}

func ReplaceAggregate(before, after *catalog.Aggregate) *Change {
	deps := append(schemaDep(after.Schema), after.TransitionFn)
	return newObjectChange(OpReplace, catalog.KindAggregate, after.ID, before, after, deps...)
}

// --- enum ---

func CreateEnum(e *catalog.Enum) *Change {
	return newObjectChange(OpCreate, catalog.KindEnum, e.ID, nil, e, schemaDep(e.Schema)...)
}

func DropEnum(e *catalog.Enum) *Change {
	return newObjectChange(OpDrop, catalog.KindEnum, e.ID, e, nil)
}

// AlterEnumAddValue is always safe (§4.4's documented enum-used-by-many-objects
// class): one Change per added value, each its own ALTER TYPE ... ADD VALUE.
func AlterEnumAddValue(before, after *catalog.Enum, value string) *Change {
	c := newObjectChange(OpAlter, catalog.KindEnum, after.ID, before, after)
	c.Aspect = AspectAddEnumValue
	c.Column = value
	return c
}

// ReplaceEnum models removing enum values: DROP TYPE ... CASCADE followed by
// CREATE TYPE plus redefinition of dependents (§4.4). deps should list the
// stable IDs of every dependent object that must be recreated alongside it.
func ReplaceEnum(before, after *catalog.Enum, deps []catalog.StableID) *Change {
	return newObjectChange(OpReplace, catalog.KindEnum, after.ID, before, after, append(schemaDep(after.Schema), deps...)...)
}

// --- composite type / range / domain / collation ---

func CreateCompositeType(t *catalog.CompositeType) *Change {
	return newObjectChange(OpCreate, catalog.KindCompositeType, t.ID, nil, t, schemaDep(t.Schema)...)
}

func DropCompositeType(t *catalog.CompositeType) *Change {
	return newObjectChange(OpDrop, catalog.KindCompositeType, t.ID, t, nil)
}

func ReplaceCompositeType(before, after *catalog.CompositeType) *Change {
	return newObjectChange(OpReplace, catalog.KindCompositeType, after.ID, before, after, schemaDep(after.Schema)...)
}

func CreateRange(r *catalog.Range) *Change {
	return newObjectChange(OpCreate, catalog.KindRange, r.ID, nil, r, schemaDep(r.Schema)...)
}

func DropRange(r *catalog.Range) *Change {
	return newObjectChange(OpDrop, catalog.KindRange, r.ID, r, nil)
}

func CreateDomain(d *catalog.Domain) *Change {
	return newObjectChange(OpCreate, catalog.KindDomain, d.ID, nil, d, schemaDep(d.Schema)...)
}

func DropDomain(d *catalog.Domain) *Change {
	return newObjectChange(OpDrop, catalog.KindDomain, d.ID, d, nil)
}

func AlterDomainSetDefault(before, after *catalog.Domain) *Change {
	c := newObjectChange(OpAlter, catalog.KindDomain, after.ID, before, after)
	c.Aspect = AspectAlterColumnSetDefault
	return c
}

func AlterDomainSetNotNull(before, after *catalog.Domain) *Change {
	c := newObjectChange(OpAlter, catalog.KindDomain, after.ID, before, after)
	c.Aspect = AspectAlterColumnSetNotNull
	return c
}

func AlterDomainAddConstraint(before, after *catalog.Domain) *Change {
	c := newObjectChange(OpAlter, catalog.KindDomain, after.ID, before, after)
	c.Aspect = AspectAddConstraint
	return c
}

func CreateCollation(c *catalog.Collation) *Change {
	return newObjectChange(OpCreate, catalog.KindCollation, c.ID, nil, c, schemaDep(c.Schema)...)
}

func DropCollation(c *catalog.Collation) *Change {
	return newObjectChange(OpDrop, catalog.KindCollation, c.ID, c, nil)
}

// --- extension ---

func CreateExtension(e *catalog.Extension) *Change {
	return newObjectChange(OpCreate, catalog.KindExtension, e.ID, nil, e, schemaDep(e.Schema)...)
}

func DropExtension(e *catalog.Extension) *Change {
	return newObjectChange(OpDrop, catalog.KindExtension, e.ID, e, nil)
}

func AlterExtensionUpdateVersion(before, after *catalog.Extension) *Change {
	c := newObjectChange(OpAlter, catalog.KindExtension, after.ID, before, after)
	c.Aspect = AspectUpdateVersion
	return c
}

// AlterExtensionSetSchema only applies to relocatable extensions (§8's
// "Extension schema move" scenario); non-relocatable extensions instead get
// ReplaceExtension.
func AlterExtensionSetSchema(before, after *catalog.Extension) *Change {
	c := newObjectChange(OpAlter, catalog.KindExtension, after.ID, before, after, schemaDep(after.Schema)...)
	c.Aspect = AspectSetSchema
	return c
}

func ReplaceExtension(before, after *catalog.Extension) *Change {
	return newObjectChange(OpReplace, catalog.KindExtension, after.ID, before, after, schemaDep(after.Schema)...)
}

// --- role ---

func CreateRole(r *catalog.Role) *Change {
	return newObjectChange(OpCreate, catalog.KindRole, r.ID, nil, r)
}

func DropRole(r *catalog.Role) *Change {
	return newObjectChange(OpDrop, catalog.KindRole, r.ID, r, nil)
}

func AlterRole(before, after *catalog.Role) *Change {
	return newObjectChange(OpAlter, catalog.KindRole, after.ID, before, after)
}

// --- event trigger ---

func CreateEventTrigger(e *catalog.EventTrigger) *Change {
	return newObjectChange(OpCreate, catalog.KindEventTrigger, e.ID, nil, e, e.Function)
}

func DropEventTrigger(e *catalog.EventTrigger) *Change {
	return newObjectChange(OpDrop, catalog.KindEventTrigger, e.ID, e, nil)
}

func AlterEventTriggerEnable(before, after *catalog.EventTrigger) *Change {
	c := newObjectChange(OpAlter, catalog.KindEventTrigger, after.ID, before, after)
	c.Aspect = AspectEnableTrigger
	return c
}

// --- publication / subscription ---

func CreatePublication(p *catalog.Publication) *Change {
	return newObjectChange(OpCreate, catalog.KindPublication, p.ID, nil, p)
}

func DropPublication(p *catalog.Publication) *Change {
	return newObjectChange(OpDrop, catalog.KindPublication, p.ID, p, nil)
}

func AlterPublication(before, after *catalog.Publication) *Change {
	return newObjectChange(OpAlter, catalog.KindPublication, after.ID, before, after)
}

func CreateSubscription(s *catalog.Subscription) *Change {
	return newObjectChange(OpCreate, catalog.KindSubscription, s.ID, nil, s)
}

func DropSubscription(s *catalog.Subscription) *Change {
	return newObjectChange(OpDrop, catalog.KindSubscription, s.ID, s, nil)
}

func AlterSubscriptionConnInfo(before, after *catalog.Subscription) *Change {
	c := newObjectChange(OpAlter, catalog.KindSubscription, after.ID, before, after)
	c.Aspect = AspectSetConnInfo
	return c
}

func AlterSubscription(before, after *catalog.Subscription) *Change {
	return newObjectChange(OpAlter, catalog.KindSubscription, after.ID, before, after)
}

// --- foreign data wrapper / server / user mapping ---

func CreateForeignDataWrapper(f *catalog.ForeignDataWrapper) *Change {
	return newObjectChange(OpCreate, catalog.KindForeignDataWrapper, f.ID, nil, f)
}

func DropForeignDataWrapper(f *catalog.ForeignDataWrapper) *Change {
	return newObjectChange(OpDrop, catalog.KindForeignDataWrapper, f.ID, f, nil)
}

func CreateServer(s *catalog.Server) *Change {
	return newObjectChange(OpCreate, catalog.KindServer, s.ID, nil, s, catalog.NewStableID(catalog.KindForeignDataWrapper, s.Wrapper))
}

func DropServer(s *catalog.Server) *Change {
	return newObjectChange(OpDrop, catalog.KindServer, s.ID, s, nil)
}

func AlterServerOptions(before, after *catalog.Server) *Change {
	c := newObjectChange(OpAlter, catalog.KindServer, after.ID, before, after)
	c.Aspect = AspectSetOptions
	return c
}

func CreateUserMapping(u *catalog.UserMapping) *Change {
	return newObjectChange(OpCreate, catalog.KindUserMapping, u.ID, nil, u, u.Server)
}

func DropUserMapping(u *catalog.UserMapping) *Change {
	return newObjectChange(OpDrop, catalog.KindUserMapping, u.ID, u, nil, u.Server)
}

func AlterUserMappingOptions(before, after *catalog.UserMapping) *Change {
	c := newObjectChange(OpAlter, catalog.KindUserMapping, after.ID, before, after)
	c.Aspect = AspectSetOptions
	return c
}

// --- language ---

func CreateLanguage(l *catalog.Language) *Change {
	var deps []catalog.StableID
	if l.HandlerFn != "" {
		deps = append(deps, l.HandlerFn)
	}
	return newObjectChange(OpCreate, catalog.KindLanguage, l.ID, nil, l, deps...)
}

func DropLanguage(l *catalog.Language) *Change {
	return newObjectChange(OpDrop, catalog.KindLanguage, l.ID, l, nil)
}

// --- comment / privilege annotations (§4.2) ---

// CreateComment annotates objectID with a comment; scope=comment changes
// follow the object's own create and precede its drop (§4.4 source 3).
func CreateComment(kind catalog.Kind, objectID catalog.StableID, comment string) *Change {
	return &Change{
		Operation:  OpCreate,
		Scope:      ScopeComment,
		ObjectType: kind,
		StableID:   objectID,
		After:      comment,
		dependsOn:  []catalog.StableID{objectID},
	}
}

func DropComment(kind catalog.Kind, objectID catalog.StableID) *Change {
	return &Change{
		Operation:  OpDrop,
		Scope:      ScopeComment,
		ObjectType: kind,
		StableID:   objectID,
		dependsOn:  []catalog.StableID{objectID},
	}
}

// CreatePrivilege grants `privilege` to `grantee` on objectID.
func CreatePrivilege(kind catalog.Kind, objectID catalog.StableID, grantee, privilege string) *Change {
	return &Change{
		Operation:  OpCreate,
		Scope:      ScopePrivilege,
		ObjectType: kind,
		StableID:   objectID,
		Column:     grantee,
		After:      privilege,
		dependsOn:  []catalog.StableID{objectID},
	}
}

func DropPrivilege(kind catalog.Kind, objectID catalog.StableID, grantee, privilege string) *Change {
	return &Change{
		Operation:  OpDrop,
		Scope:      ScopePrivilege,
		ObjectType: kind,
		StableID:   objectID,
		Column:     grantee,
		Before:     privilege,
		dependsOn:  []catalog.StableID{objectID},
	}
}
