// SPDX-License-Identifier: Apache-2.0

package change

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/dbshift/pgdiffkit/pkg/catalog"
)

// SQL renders the DDL statement(s) for a single Change, along with any
// non-fatal warnings (e.g. a masked credential) the caller should surface.
// Exactly one statement is returned per Change except where PostgreSQL
// itself requires more than one (e.g. a Replace of a table, enum or
// extension is rendered as a DROP followed by a CREATE).
func (c *Change) SQL() ([]string, []Warning, error) {
	switch c.Scope {
	case ScopeComment:
		return c.commentSQL(), nil, nil
	case ScopePrivilege:
		return c.privilegeSQL(), nil, nil
	}

	switch c.ObjectType {
	case catalog.KindSchema:
		return c.schemaSQL()
	case catalog.KindTable:
		return c.tableSQL()
	case catalog.KindView:
		return c.viewSQL()
	case catalog.KindMaterializedView:
		return c.materializedViewSQL()
	case catalog.KindForeignTable:
		return c.foreignTableSQL()
	case catalog.KindIndex:
		return c.indexSQL()
	case catalog.KindConstraint:
		return c.constraintSQL()
	case catalog.KindTrigger:
		return c.triggerSQL()
	case catalog.KindRule:
		return c.ruleSQL()
	case catalog.KindRLSPolicy:
		return c.rlsPolicySQL()
	case catalog.KindSequence:
		return c.sequenceSQL()
	case catalog.KindFunction, catalog.KindProcedure:
		return c.routineSQL()
	case catalog.KindAggregate:
		return c.aggregateSQL()
	case catalog.KindEnum:
		return c.enumSQL()
	case catalog.KindCompositeType:
		return c.compositeTypeSQL()
	case catalog.KindRange:
		return c.rangeSQL()
	case catalog.KindDomain:
		return c.domainSQL()
	case catalog.KindCollation:
		return c.collationSQL()
	case catalog.KindExtension:
		return c.extensionSQL()
	case catalog.KindRole:
		return c.roleSQL()
	case catalog.KindEventTrigger:
		return c.eventTriggerSQL()
	case catalog.KindPublication:
		return c.publicationSQL()
	case catalog.KindSubscription:
		return c.subscriptionSQL()
	case catalog.KindForeignDataWrapper:
		return c.foreignDataWrapperSQL()
	case catalog.KindServer:
		return c.serverSQL()
	case catalog.KindUserMapping:
		return c.userMappingSQL()
	case catalog.KindLanguage:
		return c.languageSQL()
	}
	return nil, nil, fmt.Errorf("change: no serializer registered for object type %q", c.ObjectType)
}

func quoteIdent(s string) string { return pq.QuoteIdentifier(s) }

// quoteQualified quotes a "schema.name" stable-id-style string part by part.
func quoteQualified(qname string) string {
	parts := strings.SplitN(qname, ".", 2)
	if len(parts) == 2 {
		return quoteIdent(parts[0]) + "." + quoteIdent(parts[1])
	}
	return quoteIdent(qname)
}

func (c *Change) commentSQL() []string {
	objectRef := fmt.Sprintf("%s %s", commentObjectKeyword(c.ObjectType), quoteQualified(idName(c.StableID)))
	if c.Operation == OpDrop {
		return []string{fmt.Sprintf("COMMENT ON %s IS NULL", objectRef)}
	}
	comment, _ := c.After.(string)
	return []string{fmt.Sprintf("COMMENT ON %s IS %s", objectRef, quoteLiteral(comment))}
}

func commentObjectKeyword(k catalog.Kind) string {
	switch k {
	case catalog.KindTable:
		return "TABLE"
	case catalog.KindView:
		return "VIEW"
	case catalog.KindMaterializedView:
		return "MATERIALIZED VIEW"
	case catalog.KindColumn:
		return "COLUMN"
	case catalog.KindIndex:
		return "INDEX"
	case catalog.KindConstraint:
		return "CONSTRAINT"
	case catalog.KindFunction:
		return "FUNCTION"
	case catalog.KindSchema:
		return "SCHEMA"
	default:
		return strings.ToUpper(string(k))
	}
}

func (c *Change) privilegeSQL() []string {
	grantee := c.Column
	objectRef := quoteQualified(idName(c.StableID))
	if c.Operation == OpDrop {
		priv, _ := c.Before.(string)
		return []string{fmt.Sprintf("REVOKE %s ON %s FROM %s", priv, objectRef, quoteIdent(grantee))}
	}
	priv, _ := c.After.(string)
	return []string{fmt.Sprintf("GRANT %s ON %s TO %s", priv, objectRef, quoteIdent(grantee))}
}

// idName strips the "kind:" tag a stable ID carries and returns the bare
// qualified name PostgreSQL's own grammar expects after ON TABLE, ON INDEX,
// etc.
func idName(id catalog.StableID) string {
	s := string(id)
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return s[i+1:]
		}
	}
	return s
}

func (c *Change) schemaSQL() ([]string, []Warning, error) {
	switch c.Operation {
	case OpCreate:
		s := c.After.(*catalog.Schema)
		stmt := "CREATE SCHEMA " + quoteIdent(s.Name)
		if s.Owner != "" {
			stmt += " AUTHORIZATION " + quoteIdent(s.Owner)
		}
		return []string{stmt}, nil, nil
	case OpDrop:
		s := c.Before.(*catalog.Schema)
		return []string{"DROP SCHEMA " + quoteIdent(s.Name)}, nil, nil
	case OpAlter:
		after := c.After.(*catalog.Schema)
		return []string{fmt.Sprintf("ALTER SCHEMA %s OWNER TO %s", quoteIdent(after.Name), quoteIdent(after.Owner))}, nil, nil
	}
	return nil, nil, fmt.Errorf("schema: unsupported operation %q", c.Operation)
}

func columnDefSQL(col catalog.Column) string {
	def := fmt.Sprintf("%s %s%s", quoteIdent(col.Name), col.DataType, col.TypeModifier)
	if col.Collation != "" {
		def += " COLLATE " + quoteIdent(col.Collation)
	}
	if col.Default != nil {
		def += " DEFAULT " + *col.Default
	}
	if col.Identity != nil {
		mode := "BY DEFAULT"
		if col.Identity.Always {
			mode = "ALWAYS"
		}
		def += fmt.Sprintf(" GENERATED %s AS IDENTITY", mode)
	}
	if col.Generated != nil {
		def += fmt.Sprintf(" GENERATED ALWAYS AS (%s) STORED", *col.Generated)
	}
	if col.NotNull {
		def += " NOT NULL"
	}
	return def
}

func (c *Change) tableSQL() ([]string, []Warning, error) {
	switch c.Operation {
	case OpCreate:
		t := c.After.(*catalog.Table)
		cols := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			cols[i] = columnDefSQL(col)
		}
		stmt := fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", quoteQualified(idName(t.ID)), strings.Join(cols, ",\n  "))
		if t.Partitioned {
			stmt += " PARTITION BY " + t.PartitionBy
		}
		if t.PartitionOf != nil {
			stmt = fmt.Sprintf("CREATE TABLE %s PARTITION OF %s %s", quoteQualified(idName(t.ID)), quoteQualified(*t.PartitionOf), t.PartitionBound)
		}
		return []string{stmt}, nil, nil
	case OpDrop:
		t := c.Before.(*catalog.Table)
		return []string{"DROP TABLE " + quoteQualified(idName(t.ID))}, nil, nil
	case OpReplace:
		before, after := c.Before.(*catalog.Table), c.After.(*catalog.Table)
		drop, _, _ := (&Change{Operation: OpDrop, ObjectType: catalog.KindTable, Before: before}).tableSQL()
		create, _, _ := (&Change{Operation: OpCreate, ObjectType: catalog.KindTable, After: after}).tableSQL()
		return append(drop, create...), nil, nil
	case OpAlter:
		return c.alterTableSQL()
	}
	return nil, nil, fmt.Errorf("table: unsupported operation %q", c.Operation)
}

func (c *Change) alterTableSQL() ([]string, []Warning, error) {
	after := c.After.(*catalog.Table)
	table := quoteQualified(idName(after.ID))
	switch c.Aspect {
	case AspectAddColumn:
		col := columnByName(after.Columns, c.Column)
		return []string{fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", table, columnDefSQL(col))}, nil, nil
	case AspectDropColumn:
		return []string{fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", table, quoteIdent(c.Column))}, nil, nil
	case AspectAlterColumnType:
		col := columnByName(after.Columns, c.Column)
		return []string{fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s%s", table, quoteIdent(c.Column), col.DataType, col.TypeModifier)}, nil, nil
	case AspectAlterColumnSetDefault:
		col := columnByName(after.Columns, c.Column)
		return []string{fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s", table, quoteIdent(c.Column), *col.Default)}, nil, nil
	case AspectAlterColumnDropDefault:
		return []string{fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT", table, quoteIdent(c.Column))}, nil, nil
	case AspectAlterColumnSetNotNull:
		return []string{fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET NOT NULL", table, quoteIdent(c.Column))}, nil, nil
	case AspectAlterColumnDropNotNull:
		return []string{fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP NOT NULL", table, quoteIdent(c.Column))}, nil, nil
	case AspectEnableRLS:
		return []string{fmt.Sprintf("ALTER TABLE %s ENABLE ROW LEVEL SECURITY", table)}, nil, nil
	case AspectDisableRLS:
		return []string{fmt.Sprintf("ALTER TABLE %s DISABLE ROW LEVEL SECURITY", table)}, nil, nil
	case AspectForceRLS:
		return []string{fmt.Sprintf("ALTER TABLE %s FORCE ROW LEVEL SECURITY", table)}, nil, nil
	case AspectNoForceRLS:
		return []string{fmt.Sprintf("ALTER TABLE %s NO FORCE ROW LEVEL SECURITY", table)}, nil, nil
	case AspectSetOwner:
		return []string{fmt.Sprintf("ALTER TABLE %s OWNER TO %s", table, quoteIdent(after.Owner))}, nil, nil
	}
	return nil, nil, fmt.Errorf("table: unsupported alter aspect %q", c.Aspect)
}

func columnByName(cols []catalog.Column, name string) catalog.Column {
	for _, col := range cols {
		if col.Name == name {
			return col
		}
	}
	return catalog.Column{Name: name}
}

func (c *Change) viewSQL() ([]string, []Warning, error) {
	switch c.Operation {
	case OpCreate:
		v := c.After.(*catalog.View)
		return []string{fmt.Sprintf("CREATE VIEW %s AS\n%s", quoteQualified(idName(v.ID)), v.Definition)}, nil, nil
	case OpDrop:
		v := c.Before.(*catalog.View)
		return []string{"DROP VIEW " + quoteQualified(idName(v.ID))}, nil, nil
	case OpReplace:
		after := c.After.(*catalog.View)
		return []string{fmt.Sprintf("CREATE OR REPLACE VIEW %s AS\n%s", quoteQualified(idName(after.ID)), after.Definition)}, nil, nil
	case OpAlter:
		after := c.After.(*catalog.View)
		if c.Aspect == AspectSetOwner {
			return []string{fmt.Sprintf("ALTER VIEW %s OWNER TO %s", quoteQualified(idName(after.ID)), quoteIdent(after.Owner))}, nil, nil
		}
	}
	return nil, nil, fmt.Errorf("view: unsupported operation %q/%q", c.Operation, c.Aspect)
}

func (c *Change) materializedViewSQL() ([]string, []Warning, error) {
	switch c.Operation {
	case OpCreate:
		v := c.After.(*catalog.MaterializedView)
		withData := "WITH DATA"
		if !v.WithData {
			withData = "WITH NO DATA"
		}
		return []string{fmt.Sprintf("CREATE MATERIALIZED VIEW %s AS\n%s\n%s", quoteQualified(idName(v.ID)), v.Definition, withData)}, nil, nil
	case OpDrop:
		v := c.Before.(*catalog.MaterializedView)
		return []string{"DROP MATERIALIZED VIEW " + quoteQualified(idName(v.ID))}, nil, nil
	case OpReplace:
		before, after := c.Before.(*catalog.MaterializedView), c.After.(*catalog.MaterializedView)
		drop, _, _ := (&Change{Operation: OpDrop, ObjectType: catalog.KindMaterializedView, Before: before}).materializedViewSQL()
		create, _, _ := (&Change{Operation: OpCreate, ObjectType: catalog.KindMaterializedView, After: after}).materializedViewSQL()
		return append(drop, create...), nil, nil
	}
	return nil, nil, fmt.Errorf("materialized view: unsupported operation %q", c.Operation)
}

func (c *Change) foreignTableSQL() ([]string, []Warning, error) {
	switch c.Operation {
	case OpCreate:
		f := c.After.(*catalog.ForeignTable)
		cols := make([]string, len(f.Columns))
		for i, col := range f.Columns {
			cols[i] = columnDefSQL(col)
		}
		stmt := fmt.Sprintf("CREATE FOREIGN TABLE %s (\n  %s\n) SERVER %s", quoteQualified(idName(f.ID)), strings.Join(cols, ",\n  "), quoteIdent(idName(f.Server)))
		if opts := RenderOptions(catalog.KindForeignTable, f.Options); opts != "" {
			stmt += " " + opts
		}
		return []string{stmt}, nil, nil
	case OpDrop:
		f := c.Before.(*catalog.ForeignTable)
		return []string{"DROP FOREIGN TABLE " + quoteQualified(idName(f.ID))}, nil, nil
	}
	return nil, nil, fmt.Errorf("foreign table: unsupported operation %q", c.Operation)
}

func (c *Change) indexSQL() ([]string, []Warning, error) {
	switch c.Operation {
	case OpCreate:
		idx := c.After.(*catalog.Index)
		unique := ""
		if idx.Unique {
			unique = "UNIQUE "
		}
		concurrently := ""
		if idx.Concurrently {
			concurrently = "CONCURRENTLY "
		}
		colParts := make([]string, len(idx.Columns))
		for i, col := range idx.Columns {
			part := col.Expression
			if col.Collation != "" {
				part += " COLLATE " + quoteIdent(col.Collation)
			}
			if col.Opclass != "" {
				part += " " + col.Opclass
			}
			if col.Desc {
				part += " DESC"
			}
			colParts[i] = part
		}
		stmt := fmt.Sprintf("CREATE %sINDEX %s%s ON %s USING %s (%s)", unique, concurrently, quoteIdent(idx.Name), quoteQualified(catalog.QualifiedName(idx.Schema, idx.Table)), idx.Method, strings.Join(colParts, ", "))
		if idx.Predicate != "" {
			stmt += " WHERE " + idx.Predicate
		}
		return []string{stmt}, nil, nil
	case OpDrop:
		idx := c.Before.(*catalog.Index)
		return []string{"DROP INDEX " + quoteQualified(catalog.QualifiedName(idx.Schema, idx.Name))}, nil, nil
	}
	return nil, nil, fmt.Errorf("index: unsupported operation %q", c.Operation)
}

func (c *Change) constraintSQL() ([]string, []Warning, error) {
	switch c.Operation {
	case OpCreate:
		con := c.After.(*catalog.Constraint)
		table := quoteQualified(catalog.QualifiedName(con.Schema, con.Table))
		notValid := ""
		if con.NotValid {
			notValid = " NOT VALID"
		}
		return []string{fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s %s%s", table, quoteIdent(con.Name), con.Definition, notValid)}, nil, nil
	case OpDrop:
		con := c.Before.(*catalog.Constraint)
		table := quoteQualified(catalog.QualifiedName(con.Schema, con.Table))
		return []string{fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", table, quoteIdent(con.Name))}, nil, nil
	case OpAlter:
		con := c.After.(*catalog.Constraint)
		table := quoteQualified(catalog.QualifiedName(con.Schema, con.Table))
		if c.Aspect == AspectValidateConstraint {
			return []string{fmt.Sprintf("ALTER TABLE %s VALIDATE CONSTRAINT %s", table, quoteIdent(con.Name))}, nil, nil
		}
	}
	return nil, nil, fmt.Errorf("constraint: unsupported operation %q/%q", c.Operation, c.Aspect)
}

func (c *Change) triggerSQL() ([]string, []Warning, error) {
	switch c.Operation {
	case OpCreate:
		t := c.After.(*catalog.Trigger)
		table := quoteQualified(catalog.QualifiedName(t.Schema, t.Table))
		events := strings.Join(t.Events, " OR ")
		if len(t.Columns) > 0 && contains(t.Events, "UPDATE") {
			events = strings.Replace(events, "UPDATE", "UPDATE OF "+strings.Join(quoteIdents(t.Columns), ", "), 1)
		}
		stmt := fmt.Sprintf("CREATE TRIGGER %s %s %s ON %s", quoteIdent(t.Name), t.Timing, events, table)
		if t.Level == "ROW" {
			stmt += " FOR EACH ROW"
		} else {
			stmt += " FOR EACH STATEMENT"
		}
		if t.Condition != "" {
			stmt += " WHEN (" + t.Condition + ")"
		}
		args := ""
		if len(t.Arguments) > 0 {
			quoted := make([]string, len(t.Arguments))
			for i, a := range t.Arguments {
				quoted[i] = quoteLiteral(a)
			}
			args = strings.Join(quoted, ", ")
		}
		stmt += fmt.Sprintf(" EXECUTE FUNCTION %s(%s)", quoteQualified(idName(t.Function)), args)
		return []string{stmt}, nil, nil
	case OpDrop:
		t := c.Before.(*catalog.Trigger)
		return []string{fmt.Sprintf("DROP TRIGGER %s ON %s", quoteIdent(t.Name), quoteQualified(catalog.QualifiedName(t.Schema, t.Table)))}, nil, nil
	case OpAlter:
		t := c.After.(*catalog.Trigger)
		table := quoteQualified(catalog.QualifiedName(t.Schema, t.Table))
		switch c.Aspect {
		case AspectEnableTrigger:
			return []string{fmt.Sprintf("ALTER TABLE %s ENABLE TRIGGER %s", table, quoteIdent(t.Name))}, nil, nil
		case AspectDisableTrigger:
			return []string{fmt.Sprintf("ALTER TABLE %s DISABLE TRIGGER %s", table, quoteIdent(t.Name))}, nil, nil
		}
	}
	return nil, nil, fmt.Errorf("trigger: unsupported operation %q/%q", c.Operation, c.Aspect)
}

func contains(ss []string, v string) bool {
	for _, s := range ss {
		if s == v {
			return true
		}
	}
	return false
}

func quoteIdents(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = quoteIdent(s)
	}
	return out
}

func (c *Change) ruleSQL() ([]string, []Warning, error) {
	switch c.Operation {
	case OpCreate:
		r := c.After.(*catalog.Rule)
		return []string{r.Definition}, nil, nil
	case OpDrop:
		r := c.Before.(*catalog.Rule)
		return []string{fmt.Sprintf("DROP RULE %s ON %s", quoteIdent(r.Name), quoteQualified(catalog.QualifiedName(r.Schema, r.Table)))}, nil, nil
	}
	return nil, nil, fmt.Errorf("rule: unsupported operation %q", c.Operation)
}

func (c *Change) rlsPolicySQL() ([]string, []Warning, error) {
	switch c.Operation {
	case OpCreate:
		p := c.After.(*catalog.RLSPolicy)
		return []string{renderPolicy(p)}, nil, nil
	case OpDrop:
		p := c.Before.(*catalog.RLSPolicy)
		return []string{fmt.Sprintf("DROP POLICY %s ON %s", quoteIdent(p.Name), quoteQualified(catalog.QualifiedName(p.Schema, p.Table)))}, nil, nil
	case OpReplace:
		before, after := c.Before.(*catalog.RLSPolicy), c.After.(*catalog.RLSPolicy)
		drop := fmt.Sprintf("DROP POLICY %s ON %s", quoteIdent(before.Name), quoteQualified(catalog.QualifiedName(before.Schema, before.Table)))
		return []string{drop, renderPolicy(after)}, nil, nil
	}
	return nil, nil, fmt.Errorf("rls policy: unsupported operation %q", c.Operation)
}

func renderPolicy(p *catalog.RLSPolicy) string {
	permissive := "PERMISSIVE"
	if !p.Permissive {
		permissive = "RESTRICTIVE"
	}
	stmt := fmt.Sprintf("CREATE POLICY %s ON %s AS %s FOR %s", quoteIdent(p.Name), quoteQualified(catalog.QualifiedName(p.Schema, p.Table)), permissive, p.Command)
	if len(p.Roles) > 0 {
		stmt += " TO " + strings.Join(quoteIdents(p.Roles), ", ")
	}
	if p.Using != "" {
		stmt += " USING (" + p.Using + ")"
	}
	if p.WithCheck != "" {
		stmt += " WITH CHECK (" + p.WithCheck + ")"
	}
	return stmt
}

func (c *Change) sequenceSQL() ([]string, []Warning, error) {
	switch c.Operation {
	case OpCreate:
		s := c.After.(*catalog.Sequence)
		stmt := fmt.Sprintf("CREATE SEQUENCE %s AS %s INCREMENT %d MINVALUE %d MAXVALUE %d START %d CACHE %d",
			quoteQualified(idName(s.ID)), s.DataType, s.Increment, s.MinValue, s.MaxValue, s.StartValue, s.Cache)
		if s.Cycle {
			stmt += " CYCLE"
		}
		return []string{stmt}, nil, nil
	case OpDrop:
		s := c.Before.(*catalog.Sequence)
		return []string{"DROP SEQUENCE " + quoteQualified(idName(s.ID))}, nil, nil
	case OpAlter:
		after := c.After.(*catalog.Sequence)
		seq := quoteQualified(idName(after.ID))
		if c.Aspect == AspectSetSequenceOwnedBy && after.OwnedByCol != nil {
			return []string{fmt.Sprintf("ALTER SEQUENCE %s OWNED BY %s.%s", seq, quoteQualified(after.OwnedByCol.Table), quoteIdent(after.OwnedByCol.Column))}, nil, nil
		}
		return []string{fmt.Sprintf("ALTER SEQUENCE %s INCREMENT %d MINVALUE %d MAXVALUE %d CACHE %d", seq, after.Increment, after.MinValue, after.MaxValue, after.Cache)}, nil, nil
	}
	return nil, nil, fmt.Errorf("sequence: unsupported operation %q", c.Operation)
}

func paramList(params []catalog.Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		part := p.Type
		if p.Mode != "" && p.Mode != "IN" {
			part = p.Mode + " " + part
		}
		if p.Name != "" {
			part = p.Name + " " + part
		}
		parts[i] = part
	}
	return strings.Join(parts, ", ")
}

func (c *Change) routineSQL() ([]string, []Warning, error) {
	switch c.Operation {
	case OpCreate, OpReplace:
		if fn, ok := c.After.(*catalog.Function); ok {
			return []string{renderFunction(fn)}, nil, nil
		}
		p := c.After.(*catalog.Procedure)
		return []string{renderProcedure(p)}, nil, nil
	case OpDrop:
		if fn, ok := c.Before.(*catalog.Function); ok {
			return []string{fmt.Sprintf("DROP FUNCTION %s(%s)", quoteQualified(idName(fn.ID)), paramList(fn.Arguments))}, nil, nil
		}
		p := c.Before.(*catalog.Procedure)
		return []string{fmt.Sprintf("DROP PROCEDURE %s(%s)", quoteQualified(idName(p.ID)), paramList(p.Arguments))}, nil, nil
	}
	return nil, nil, fmt.Errorf("routine: unsupported operation %q", c.Operation)
}

func renderFunction(fn *catalog.Function) string {
	ret := fn.Returns
	if fn.ReturnsSet {
		ret = "SETOF " + ret
	}
	stmt := fmt.Sprintf("CREATE OR REPLACE FUNCTION %s(%s)\nRETURNS %s\nLANGUAGE %s\n%s", quoteQualified(idName(fn.ID)), paramList(fn.Arguments), ret, fn.Language, fn.Volatility)
	if fn.Strict {
		stmt += " STRICT"
	}
	if fn.Security == "DEFINER" {
		stmt += " SECURITY DEFINER"
	}
	for _, cfg := range fn.Config {
		stmt += "\nSET " + cfg
	}
	stmt += fmt.Sprintf("\nAS $pgdiffkit$\n%s\n$pgdiffkit$", fn.Body)
	return stmt
}

func renderProcedure(p *catalog.Procedure) string {
	stmt := fmt.Sprintf("CREATE OR REPLACE PROCEDURE %s(%s)\nLANGUAGE %s", quoteQualified(idName(p.ID)), paramList(p.Arguments), p.Language)
	if p.Security == "DEFINER" {
		stmt += " SECURITY DEFINER"
	}
	stmt += fmt.Sprintf("\nAS $pgdiffkit$\n%s\n$pgdiffkit$", p.Body)
	return stmt
}

func (c *Change) aggregateSQL() ([]string, []Warning, error) {
	switch c.Operation {
	case OpCreate:
		a := c.After.(*catalog.Aggregate)
		stmt := fmt.Sprintf("CREATE AGGREGATE %s(%s) (\n  SFUNC = %s,\n  STYPE = %s", quoteQualified(idName(a.ID)), paramList(a.Arguments), quoteQualified(idName(a.TransitionFn)), a.StateType)
		if a.FinalFn != "" {
			stmt += fmt.Sprintf(",\n  FINALFUNC = %s", quoteQualified(idName(a.FinalFn)))
		}
		if a.InitialValue != "" {
			stmt += fmt.Sprintf(",\n  INITCOND = %s", quoteLiteral(a.InitialValue))
		}
		stmt += "\n)"
		return []string{stmt}, nil, nil
	case OpDrop:
		a := c.Before.(*catalog.Aggregate)
		return []string{fmt.Sprintf("DROP AGGREGATE %s(%s)", quoteQualified(idName(a.ID)), paramList(a.Arguments))}, nil, nil
	}
	return nil, nil, fmt.Errorf("aggregate: unsupported operation %q", c.Operation)
}

func (c *Change) enumSQL() ([]string, []Warning, error) {
	switch c.Operation {
	case OpCreate:
		e := c.After.(*catalog.Enum)
		quoted := make([]string, len(e.Values))
		for i, v := range e.Values {
			quoted[i] = quoteLiteral(v)
		}
		return []string{fmt.Sprintf("CREATE TYPE %s AS ENUM (%s)", quoteQualified(idName(e.ID)), strings.Join(quoted, ", "))}, nil, nil
	case OpDrop:
		e := c.Before.(*catalog.Enum)
		return []string{"DROP TYPE " + quoteQualified(idName(e.ID))}, nil, nil
	case OpAlter:
		e := c.After.(*catalog.Enum)
		if c.Aspect == AspectAddEnumValue {
			return []string{fmt.Sprintf("ALTER TYPE %s ADD VALUE %s", quoteQualified(idName(e.ID)), quoteLiteral(c.Column))}, nil, nil
		}
	case OpReplace:
		before, after := c.Before.(*catalog.Enum), c.After.(*catalog.Enum)
		drop := "DROP TYPE " + quoteQualified(idName(before.ID)) + " CASCADE"
		quoted := make([]string, len(after.Values))
		for i, v := range after.Values {
			quoted[i] = quoteLiteral(v)
		}
		create := fmt.Sprintf("CREATE TYPE %s AS ENUM (%s)", quoteQualified(idName(after.ID)), strings.Join(quoted, ", "))
		return []string{drop, create}, []Warning{{Message: fmt.Sprintf("%s: dependents dropped by CASCADE must be recreated separately", after.ID)}}, nil
	}
	return nil, nil, fmt.Errorf("enum: unsupported operation %q/%q", c.Operation, c.Aspect)
}

func (c *Change) compositeTypeSQL() ([]string, []Warning, error) {
	switch c.Operation {
	case OpCreate:
		t := c.After.(*catalog.CompositeType)
		return []string{fmt.Sprintf("CREATE TYPE %s AS (%s)", quoteQualified(idName(t.ID)), paramList(t.Fields))}, nil, nil
	case OpDrop:
		t := c.Before.(*catalog.CompositeType)
		return []string{"DROP TYPE " + quoteQualified(idName(t.ID))}, nil, nil
	case OpReplace:
		before, after := c.Before.(*catalog.CompositeType), c.After.(*catalog.CompositeType)
		drop := "DROP TYPE " + quoteQualified(idName(before.ID)) + " CASCADE"
		create := fmt.Sprintf("CREATE TYPE %s AS (%s)", quoteQualified(idName(after.ID)), paramList(after.Fields))
		return []string{drop, create}, []Warning{{Message: fmt.Sprintf("%s: dependents dropped by CASCADE must be recreated separately", after.ID)}}, nil
	}
	return nil, nil, fmt.Errorf("composite type: unsupported operation %q", c.Operation)
}

func (c *Change) rangeSQL() ([]string, []Warning, error) {
	switch c.Operation {
	case OpCreate:
		r := c.After.(*catalog.Range)
		stmt := fmt.Sprintf("CREATE TYPE %s AS RANGE (SUBTYPE = %s", quoteQualified(idName(r.ID)), r.Subtype)
		if r.SubtypeOpclass != "" {
			stmt += ", SUBTYPE_OPCLASS = " + r.SubtypeOpclass
		}
		if r.Collation != "" {
			stmt += ", COLLATION = " + quoteIdent(r.Collation)
		}
		if r.Canonical != "" {
			stmt += ", CANONICAL = " + r.Canonical
		}
		if r.Subdiff != "" {
			stmt += ", SUBTYPE_DIFF = " + r.Subdiff
		}
		stmt += ")"
		return []string{stmt}, nil, nil
	case OpDrop:
		r := c.Before.(*catalog.Range)
		return []string{"DROP TYPE " + quoteQualified(idName(r.ID))}, nil, nil
	}
	return nil, nil, fmt.Errorf("range: unsupported operation %q", c.Operation)
}

func (c *Change) domainSQL() ([]string, []Warning, error) {
	switch c.Operation {
	case OpCreate:
		d := c.After.(*catalog.Domain)
		stmt := fmt.Sprintf("CREATE DOMAIN %s AS %s", quoteQualified(idName(d.ID)), d.BaseType)
		if d.NotNull {
			stmt += " NOT NULL"
		}
		if d.Default != nil {
			stmt += " DEFAULT " + *d.Default
		}
		for _, con := range d.Constraints {
			stmt += fmt.Sprintf(" CONSTRAINT %s CHECK (%s)", quoteIdent(con.Name), con.Expression)
		}
		return []string{stmt}, nil, nil
	case OpDrop:
		d := c.Before.(*catalog.Domain)
		return []string{"DROP DOMAIN " + quoteQualified(idName(d.ID))}, nil, nil
	case OpAlter:
		d := c.After.(*catalog.Domain)
		domain := quoteQualified(idName(d.ID))
		switch c.Aspect {
		case AspectAlterColumnSetDefault:
			return []string{fmt.Sprintf("ALTER DOMAIN %s SET DEFAULT %s", domain, *d.Default)}, nil, nil
		case AspectAlterColumnSetNotNull:
			return []string{fmt.Sprintf("ALTER DOMAIN %s SET NOT NULL", domain)}, nil, nil
		case AspectAddConstraint:
			last := d.Constraints[len(d.Constraints)-1]
			return []string{fmt.Sprintf("ALTER DOMAIN %s ADD CONSTRAINT %s CHECK (%s)", domain, quoteIdent(last.Name), last.Expression)}, nil, nil
		}
	}
	return nil, nil, fmt.Errorf("domain: unsupported operation %q/%q", c.Operation, c.Aspect)
}

func (c *Change) collationSQL() ([]string, []Warning, error) {
	switch c.Operation {
	case OpCreate:
		col := c.After.(*catalog.Collation)
		stmt := fmt.Sprintf("CREATE COLLATION %s (PROVIDER = %s, LOCALE = %s", quoteQualified(idName(col.ID)), col.Provider, quoteLiteral(col.LCCollate))
		if !col.Deterministic {
			stmt += ", DETERMINISTIC = false"
		}
		stmt += ")"
		return []string{stmt}, nil, nil
	case OpDrop:
		col := c.Before.(*catalog.Collation)
		return []string{"DROP COLLATION " + quoteQualified(idName(col.ID))}, nil, nil
	}
	return nil, nil, fmt.Errorf("collation: unsupported operation %q", c.Operation)
}

func (c *Change) extensionSQL() ([]string, []Warning, error) {
	switch c.Operation {
	case OpCreate:
		e := c.After.(*catalog.Extension)
		stmt := fmt.Sprintf("CREATE EXTENSION %s", quoteIdent(e.Name))
		if e.Schema != "" {
			stmt += " SCHEMA " + quoteIdent(e.Schema)
		}
		if e.Version != "" {
			stmt += " VERSION " + quoteLiteral(e.Version)
		}
		return []string{stmt}, nil, nil
	case OpDrop:
		e := c.Before.(*catalog.Extension)
		return []string{"DROP EXTENSION " + quoteIdent(e.Name)}, nil, nil
	case OpAlter:
		after := c.After.(*catalog.Extension)
		switch c.Aspect {
		case AspectUpdateVersion:
			return []string{fmt.Sprintf("ALTER EXTENSION %s UPDATE TO %s", quoteIdent(after.Name), quoteLiteral(after.Version))}, nil, nil
		case AspectSetSchema:
			return []string{fmt.Sprintf("ALTER EXTENSION %s SET SCHEMA %s", quoteIdent(after.Name), quoteIdent(after.Schema))}, nil, nil
		}
	case OpReplace:
		before, after := c.Before.(*catalog.Extension), c.After.(*catalog.Extension)
		drop := "DROP EXTENSION " + quoteIdent(before.Name)
		create, _, _ := (&Change{Operation: OpCreate, ObjectType: catalog.KindExtension, After: after}).extensionSQL()
		return append([]string{drop}, create...), nil, nil
	}
	return nil, nil, fmt.Errorf("extension: unsupported operation %q/%q", c.Operation, c.Aspect)
}

func (c *Change) roleSQL() ([]string, []Warning, error) {
	var warnings []Warning
	switch c.Operation {
	case OpCreate:
		r := c.After.(*catalog.Role)
		stmt := "CREATE ROLE " + quoteIdent(r.Name) + roleAttributesSQL(r)
		if pw := RolePasswordClause(r); pw != "" {
			stmt += " " + pw
			warnings = append(warnings, MaskWarning(r.ID, "password"))
		}
		return []string{stmt}, warnings, nil
	case OpDrop:
		r := c.Before.(*catalog.Role)
		return []string{"DROP ROLE " + quoteIdent(r.Name)}, nil, nil
	case OpAlter:
		r := c.After.(*catalog.Role)
		return []string{"ALTER ROLE " + quoteIdent(r.Name) + roleAttributesSQL(r)}, nil, nil
	}
	return nil, nil, fmt.Errorf("role: unsupported operation %q", c.Operation)
}

func roleAttributesSQL(r *catalog.Role) string {
	flag := func(v bool, on, off string) string {
		if v {
			return " " + on
		}
		return " " + off
	}
	stmt := flag(r.Login, "LOGIN", "NOLOGIN")
	stmt += flag(r.Superuser, "SUPERUSER", "NOSUPERUSER")
	stmt += flag(r.CreateDB, "CREATEDB", "NOCREATEDB")
	stmt += flag(r.CreateRole, "CREATEROLE", "NOCREATEROLE")
	stmt += flag(r.Inherit, "INHERIT", "NOINHERIT")
	stmt += flag(r.Replication, "REPLICATION", "NOREPLICATION")
	stmt += flag(r.BypassRLS, "BYPASSRLS", "NOBYPASSRLS")
	stmt += fmt.Sprintf(" CONNECTION LIMIT %d", r.ConnectionLimit)
	if r.ValidUntil != nil {
		stmt += " VALID UNTIL " + quoteLiteral(*r.ValidUntil)
	}
	return stmt
}

func (c *Change) eventTriggerSQL() ([]string, []Warning, error) {
	switch c.Operation {
	case OpCreate:
		e := c.After.(*catalog.EventTrigger)
		stmt := fmt.Sprintf("CREATE EVENT TRIGGER %s ON %s", quoteIdent(e.Name), e.Event)
		if len(e.Tags) > 0 {
			tags := make([]string, len(e.Tags))
			for i, t := range e.Tags {
				tags[i] = quoteLiteral(t)
			}
			stmt += fmt.Sprintf(" WHEN TAG IN (%s)", strings.Join(tags, ", "))
		}
		stmt += fmt.Sprintf(" EXECUTE FUNCTION %s()", quoteQualified(idName(e.Function)))
		return []string{stmt}, nil, nil
	case OpDrop:
		e := c.Before.(*catalog.EventTrigger)
		return []string{"DROP EVENT TRIGGER " + quoteIdent(e.Name)}, nil, nil
	case OpAlter:
		e := c.After.(*catalog.EventTrigger)
		if c.Aspect == AspectEnableTrigger {
			return []string{fmt.Sprintf("ALTER EVENT TRIGGER %s ENABLE", quoteIdent(e.Name))}, nil, nil
		}
	}
	return nil, nil, fmt.Errorf("event trigger: unsupported operation %q/%q", c.Operation, c.Aspect)
}

func (c *Change) publicationSQL() ([]string, []Warning, error) {
	switch c.Operation {
	case OpCreate:
		p := c.After.(*catalog.Publication)
		stmt := "CREATE PUBLICATION " + quoteIdent(p.Name)
		if p.AllTables {
			stmt += " FOR ALL TABLES"
		} else if len(p.Tables) > 0 {
			stmt += " FOR TABLE " + strings.Join(quoteIdents(p.Tables), ", ")
		}
		stmt += fmt.Sprintf(" WITH (publish = '%s')", publishList(p))
		return []string{stmt}, nil, nil
	case OpDrop:
		p := c.Before.(*catalog.Publication)
		return []string{"DROP PUBLICATION " + quoteIdent(p.Name)}, nil, nil
	case OpAlter:
		p := c.After.(*catalog.Publication)
		return []string{fmt.Sprintf("ALTER PUBLICATION %s SET (publish = '%s')", quoteIdent(p.Name), publishList(p))}, nil, nil
	}
	return nil, nil, fmt.Errorf("publication: unsupported operation %q", c.Operation)
}

func publishList(p *catalog.Publication) string {
	var ops []string
	if p.Insert {
		ops = append(ops, "insert")
	}
	if p.Update {
		ops = append(ops, "update")
	}
	if p.Delete {
		ops = append(ops, "delete")
	}
	if p.Truncate {
		ops = append(ops, "truncate")
	}
	return strings.Join(ops, ", ")
}

func (c *Change) subscriptionSQL() ([]string, []Warning, error) {
	var warnings []Warning
	switch c.Operation {
	case OpCreate:
		s := c.After.(*catalog.Subscription)
		stmt := fmt.Sprintf("CREATE SUBSCRIPTION %s %s PUBLICATION %s", quoteIdent(s.Name), SubscriptionConnInfoClause(s), strings.Join(s.Publications, ", "))
		warnings = append(warnings, MaskWarning(s.ID, "conninfo"))
		return []string{stmt}, warnings, nil
	case OpDrop:
		s := c.Before.(*catalog.Subscription)
		return []string{"DROP SUBSCRIPTION " + quoteIdent(s.Name)}, nil, nil
	case OpAlter:
		s := c.After.(*catalog.Subscription)
		if c.Aspect == AspectSetConnInfo {
			warnings = append(warnings, MaskWarning(s.ID, "conninfo"))
			return []string{fmt.Sprintf("ALTER SUBSCRIPTION %s %s", quoteIdent(s.Name), SubscriptionConnInfoClause(s))}, warnings, nil
		}
		enable := "ENABLE"
		if !s.Enabled {
			enable = "DISABLE"
		}
		return []string{fmt.Sprintf("ALTER SUBSCRIPTION %s %s", quoteIdent(s.Name), enable)}, nil, nil
	}
	return nil, nil, fmt.Errorf("subscription: unsupported operation %q", c.Operation)
}

func (c *Change) foreignDataWrapperSQL() ([]string, []Warning, error) {
	switch c.Operation {
	case OpCreate:
		f := c.After.(*catalog.ForeignDataWrapper)
		stmt := "CREATE FOREIGN DATA WRAPPER " + quoteIdent(f.Name)
		if f.Handler != "" {
			stmt += " HANDLER " + f.Handler
		}
		if f.Validator != "" {
			stmt += " VALIDATOR " + f.Validator
		}
		if opts := RenderOptions(catalog.KindForeignDataWrapper, f.Options); opts != "" {
			stmt += " " + opts
		}
		return []string{stmt}, nil, nil
	case OpDrop:
		f := c.Before.(*catalog.ForeignDataWrapper)
		return []string{"DROP FOREIGN DATA WRAPPER " + quoteIdent(f.Name)}, nil, nil
	}
	return nil, nil, fmt.Errorf("foreign data wrapper: unsupported operation %q", c.Operation)
}

func (c *Change) serverSQL() ([]string, []Warning, error) {
	var warnings []Warning
	switch c.Operation {
	case OpCreate:
		s := c.After.(*catalog.Server)
		stmt := fmt.Sprintf("CREATE SERVER %s FOREIGN DATA WRAPPER %s", quoteIdent(s.Name), quoteIdent(idName(s.Wrapper)))
		if opts := RenderOptions(catalog.KindServer, s.Options); opts != "" {
			stmt += " " + opts
			warnings = append(warnings, MaskWarning(s.ID, "options (host/port/dbname)"))
		}
		return []string{stmt}, warnings, nil
	case OpDrop:
		s := c.Before.(*catalog.Server)
		return []string{"DROP SERVER " + quoteIdent(s.Name)}, nil, nil
	case OpAlter:
		s := c.After.(*catalog.Server)
		warnings = append(warnings, MaskWarning(s.ID, "options (host/port/dbname)"))
		return []string{fmt.Sprintf("ALTER SERVER %s %s", quoteIdent(s.Name), RenderOptions(catalog.KindServer, s.Options))}, warnings, nil
	}
	return nil, nil, fmt.Errorf("server: unsupported operation %q", c.Operation)
}

func (c *Change) userMappingSQL() ([]string, []Warning, error) {
	var warnings []Warning
	switch c.Operation {
	case OpCreate:
		u := c.After.(*catalog.UserMapping)
		stmt := fmt.Sprintf("CREATE USER MAPPING FOR %s SERVER %s", quoteIdent(u.User), quoteIdent(idName(u.Server)))
		if opts := RenderOptions(catalog.KindUserMapping, u.Options); opts != "" {
			stmt += " " + opts
			warnings = append(warnings, MaskWarning(u.ID, "options (user/password)"))
		}
		return []string{stmt}, warnings, nil
	case OpDrop:
		u := c.Before.(*catalog.UserMapping)
		return []string{fmt.Sprintf("DROP USER MAPPING FOR %s SERVER %s", quoteIdent(u.User), quoteIdent(idName(u.Server)))}, nil, nil
	case OpAlter:
		u := c.After.(*catalog.UserMapping)
		warnings = append(warnings, MaskWarning(u.ID, "options (user/password)"))
		return []string{fmt.Sprintf("ALTER USER MAPPING FOR %s SERVER %s %s", quoteIdent(u.User), quoteIdent(idName(u.Server)), RenderOptions(catalog.KindUserMapping, u.Options))}, warnings, nil
	}
	return nil, nil, fmt.Errorf("user mapping: unsupported operation %q", c.Operation)
}

func (c *Change) languageSQL() ([]string, []Warning, error) {
	switch c.Operation {
	case OpCreate:
		l := c.After.(*catalog.Language)
		trusted := ""
		if l.Trusted {
			trusted = "TRUSTED "
		}
		stmt := fmt.Sprintf("CREATE %sLANGUAGE %s", trusted, quoteIdent(l.Name))
		if l.HandlerFn != "" {
			stmt += " HANDLER " + quoteQualified(idName(l.HandlerFn))
		}
		return []string{stmt}, nil, nil
	case OpDrop:
		l := c.Before.(*catalog.Language)
		return []string{"DROP LANGUAGE " + quoteIdent(l.Name)}, nil, nil
	}
	return nil, nil, fmt.Errorf("language: unsupported operation %q", c.Operation)
}
