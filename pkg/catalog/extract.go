// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// querier is the subset of pkg/db.DB the extractor needs. Extraction is
// read-only, so it never touches WithRetryableTransaction directly; queries
// still go through the retrying ExecContext/QueryContext so a query that
// races a concurrent lock on a catalog view retries instead of failing.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// Extractor runs the fixed battery of read-only queries described in §4.1
// against one live connection and builds a Catalog.
type Extractor struct {
	DB querier

	// Role, if non-empty, is issued as `SET ROLE "<role>"` on the connection
	// before any extraction query runs (§4.1, §9).
	Role string

	// ExtraExcludedSchemas are integration-specific internal schemas
	// excluded in addition to the fixed system schema set.
	ExtraExcludedSchemas []string
}

// Extract builds a Catalog from the connection. On any failure the returned
// Catalog is nil: extraction never returns a partial result (§4.1).
func (e *Extractor) Extract(ctx context.Context) (*Catalog, error) {
	if e.Role != "" {
		if _, err := e.DB.ExecContext(ctx, fmt.Sprintf("SET ROLE %s", pq.QuoteIdentifier(e.Role))); err != nil {
			return nil, &ExtractionError{Query: "SET ROLE", Err: err}
		}
	}

	version, err := e.detectVersion(ctx)
	if err != nil {
		return nil, err
	}

	c := New()
	qb := &queryBuilder{extraExcludedSchemas: e.ExtraExcludedSchemas}

	extractors := []func(context.Context, *Catalog, *queryBuilder) error{
		e.extractSchemas,
		e.extractExtensions,
		e.extractRoles,
		e.extractForeignDataWrappers,
		e.extractServers,
		e.extractUserMappings,
		e.extractLanguages,
		e.extractCollations,
		e.extractEnums,
		e.extractRanges,
		e.extractDomains,
		e.extractCompositeTypes,
		e.extractSequences,
		e.extractTables,
		e.extractForeignTables,
		e.extractViews,
		e.extractMaterializedViews,
		e.extractIndexes,
		e.extractConstraints,
		e.extractRoutines,
		e.extractTriggers,
		e.extractRules,
		e.extractRLSPolicies,
		e.extractEventTriggers,
		e.extractPublications,
	}
	for _, fn := range extractors {
		if err := fn(ctx, c, qb); err != nil {
			return nil, err
		}
	}
	if err := e.extractSubscriptions(ctx, c, version); err != nil {
		return nil, err
	}
	if err := e.extractDepends(ctx, c); err != nil {
		return nil, err
	}
	e.synthesizeEdges(c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("extracted catalog failed validation: %w", &InvariantError{Message: err.Error()})
	}

	return c, nil
}

func (e *Extractor) detectVersion(ctx context.Context) (ServerVersion, error) {
	return DetectVersion(ctx, func(ctx context.Context, query string) (string, error) {
		rows, err := e.DB.QueryContext(ctx, query)
		if err != nil {
			return "", err
		}
		defer rows.Close()
		var banner string
		if err := ScanFirstValue(rows, &banner); err != nil {
			return "", err
		}
		return banner, nil
	})
}

// ScanFirstValue scans a single column from the first row of rows, mirroring
// pkg/db.ScanFirstValue without importing pkg/db (which would create an
// import cycle, since pkg/db has no reason to know about catalog).
func ScanFirstValue[T any](rows *sql.Rows, dest *T) error {
	if rows.Next() {
		if err := rows.Scan(dest); err != nil {
			return err
		}
	}
	return rows.Err()
}

func nullableString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// parseOptionsArray turns PostgreSQL's generic_option text[] encoding
// ("key=value" elements, as returned for fdwoptions/srvoptions/umoptions)
// into a map.
func parseOptionsArray(opts []string) map[string]string {
	if len(opts) == 0 {
		return nil
	}
	m := make(map[string]string, len(opts))
	for _, kv := range opts {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			m[parts[0]] = parts[1]
		}
	}
	return m
}

func (e *Extractor) extractSchemas(ctx context.Context, c *Catalog, qb *queryBuilder) error {
	query := fmt.Sprintf(querySchemas, qb.namespaceFilter("n.nspname"))
	rows, err := e.DB.QueryContext(ctx, query)
	if err != nil {
		return &ExtractionError{Query: "schemas", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var oid int
		var name, owner string
		var comment *string
		if err := rows.Scan(&oid, &name, &owner, &comment); err != nil {
			return &RowValidationError{Query: "schemas", Field: "*", Err: err}
		}
		c.Schemas[NewStableID(KindSchema, name)] = &Schema{
			Base: Base{ID: NewStableID(KindSchema, name), Schema: "", Name: name, Owner: owner, Comment: comment},
		}
	}
	return rows.Err()
}

func (e *Extractor) extractTables(ctx context.Context, c *Catalog, qb *queryBuilder) error {
	query := fmt.Sprintf(queryTables, qb.namespaceFilter("n.nspname"))
	rows, err := e.DB.QueryContext(ctx, query)
	if err != nil {
		return &ExtractionError{Query: "tables", Err: err}
	}
	defer rows.Close()

	type tableRow struct {
		oid                                  int
		schema, name, owner                 string
		rlsEnabled, rlsForced, partitioned   bool
		partitionBound, persistence, tblspc string
		comment                             *string
	}
	var tableRows []tableRow
	for rows.Next() {
		var tr tableRow
		if err := rows.Scan(&tr.oid, &tr.schema, &tr.name, &tr.owner, &tr.rlsEnabled, &tr.rlsForced,
			&tr.partitioned, &tr.partitionBound, &tr.persistence, &tr.tblspc, &tr.comment); err != nil {
			return &RowValidationError{Query: "tables", Field: "*", Err: err}
		}
		tableRows = append(tableRows, tr)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, tr := range tableRows {
		qname := QualifiedName(tr.schema, tr.name)
		id := NewStableID(KindTable, qname)
		cols, err := e.extractColumns(ctx, tr.oid)
		if err != nil {
			return err
		}

		var partitionOf *string
		var partitionBound string
		if tr.partitionBound != "" {
			var pschema, pname string
			rows2, err := e.DB.QueryContext(ctx, queryPartitionParent, tr.oid)
			if err != nil {
				return &ExtractionError{Query: "partition parent", Err: err}
			}
			if rows2.Next() {
				if err := rows2.Scan(&pschema, &pname, &partitionBound); err != nil {
					rows2.Close()
					return &RowValidationError{Query: "partition parent", Field: "*", Err: err}
				}
				q := QualifiedName(pschema, pname)
				partitionOf = &q
			}
			rows2.Close()
		}

		var partitionBy string
		if tr.partitioned {
			rows3, err := e.DB.QueryContext(ctx, queryPartitionStrategy, tr.oid)
			if err != nil {
				return &ExtractionError{Query: "partition strategy", Err: err}
			}
			if rows3.Next() {
				if err := rows3.Scan(&partitionBy); err != nil {
					rows3.Close()
					return &RowValidationError{Query: "partition strategy", Field: "*", Err: err}
				}
			}
			rows3.Close()
		}

		c.Tables[id] = &Table{
			Base:           Base{ID: id, Schema: tr.schema, Name: tr.name, Owner: tr.owner, Comment: tr.comment},
			Columns:        cols,
			RLSEnabled:     tr.rlsEnabled,
			RLSForced:      tr.rlsForced,
			Partitioned:    tr.partitioned,
			PartitionBy:    partitionBy,
			PartitionOf:    partitionOf,
			PartitionBound: partitionBound,
			Persistence:    tr.persistence,
			Tablespace:     tr.tblspc,
		}
	}
	return nil
}

func (e *Extractor) extractColumns(ctx context.Context, tableOid int) ([]Column, error) {
	rows, err := e.DB.QueryContext(ctx, queryColumns, tableOid)
	if err != nil {
		return nil, &ExtractionError{Query: "columns", Err: err}
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var col Column
		var attnum int
		var identity string
		var genExpr *string
		if err := rows.Scan(&col.Name, &attnum, &col.DataType, &col.NotNull, &col.Default,
			&genExpr, &identity, &col.Collation, &col.Comment); err != nil {
			return nil, &RowValidationError{Query: "columns", Field: "*", Err: err}
		}
		col.Position = attnum
		col.Generated = genExpr
		if identity == "a" || identity == "d" {
			seqRows, err := e.DB.QueryContext(ctx, queryIdentitySequence, tableOid, attnum)
			if err != nil {
				return nil, &ExtractionError{Query: "identity sequence", Err: err}
			}
			if seqRows.Next() {
				var seqSchema, seqName string
				if err := seqRows.Scan(&seqSchema, &seqName); err != nil {
					seqRows.Close()
					return nil, &RowValidationError{Query: "identity sequence", Field: "*", Err: err}
				}
				col.Identity = &IdentityColumn{
					Always:   identity == "a",
					Sequence: NewStableID(KindSequence, QualifiedName(seqSchema, seqName)),
				}
			}
			seqRows.Close()
		}
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

func (e *Extractor) extractViews(ctx context.Context, c *Catalog, qb *queryBuilder) error {
	query := fmt.Sprintf(queryViews, qb.namespaceFilter("n.nspname"))
	rows, err := e.DB.QueryContext(ctx, query)
	if err != nil {
		return &ExtractionError{Query: "views", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var oid int
		var schema, name, owner, def string
		var comment *string
		if err := rows.Scan(&oid, &schema, &name, &owner, &def, &comment); err != nil {
			return &RowValidationError{Query: "views", Field: "*", Err: err}
		}
		cols, err := e.extractColumns(ctx, oid)
		if err != nil {
			return err
		}
		id := NewStableID(KindView, QualifiedName(schema, name))
		c.Views[id] = &View{
			Base:       Base{ID: id, Schema: schema, Name: name, Owner: owner, Comment: comment},
			Columns:    cols,
			Definition: def,
		}
	}
	return rows.Err()
}

func (e *Extractor) extractMaterializedViews(ctx context.Context, c *Catalog, qb *queryBuilder) error {
	query := fmt.Sprintf(queryMaterializedViews, qb.namespaceFilter("n.nspname"))
	rows, err := e.DB.QueryContext(ctx, query)
	if err != nil {
		return &ExtractionError{Query: "materialized views", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var oid int
		var schema, name, owner, def, tblspc string
		var withData bool
		var comment *string
		if err := rows.Scan(&oid, &schema, &name, &owner, &def, &withData, &tblspc, &comment); err != nil {
			return &RowValidationError{Query: "materialized views", Field: "*", Err: err}
		}
		cols, err := e.extractColumns(ctx, oid)
		if err != nil {
			return err
		}
		id := NewStableID(KindMaterializedView, QualifiedName(schema, name))
		c.MaterializedViews[id] = &MaterializedView{
			Base:       Base{ID: id, Schema: schema, Name: name, Owner: owner, Comment: comment},
			Columns:    cols,
			Definition: def,
			WithData:   withData,
			Tablespace: tblspc,
		}
	}
	return rows.Err()
}

func (e *Extractor) extractForeignTables(ctx context.Context, c *Catalog, qb *queryBuilder) error {
	query := fmt.Sprintf(queryForeignTables, qb.namespaceFilter("n.nspname"))
	rows, err := e.DB.QueryContext(ctx, query)
	if err != nil {
		return &ExtractionError{Query: "foreign tables", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var oid int
		var schema, name, owner, server string
		var comment *string
		if err := rows.Scan(&oid, &schema, &name, &owner, &server, &comment); err != nil {
			return &RowValidationError{Query: "foreign tables", Field: "*", Err: err}
		}
		cols, err := e.extractColumns(ctx, oid)
		if err != nil {
			return err
		}
		var opts pq.StringArray
		optRows, err := e.DB.QueryContext(ctx, queryForeignTableOptions, oid)
		if err != nil {
			return &ExtractionError{Query: "foreign table options", Err: err}
		}
		if optRows.Next() {
			if err := optRows.Scan(&opts); err != nil {
				optRows.Close()
				return &RowValidationError{Query: "foreign table options", Field: "*", Err: err}
			}
		}
		optRows.Close()

		id := NewStableID(KindForeignTable, QualifiedName(schema, name))
		c.ForeignTables[id] = &ForeignTable{
			Base:    Base{ID: id, Schema: schema, Name: name, Owner: owner, Comment: comment},
			Columns: cols,
			Server:  NewStableID(KindServer, server),
			Options: parseOptionsArray(opts),
		}
	}
	return rows.Err()
}

func (e *Extractor) extractIndexes(ctx context.Context, c *Catalog, qb *queryBuilder) error {
	query := fmt.Sprintf(queryIndexes, qb.namespaceFilter("n.nspname"))
	rows, err := e.DB.QueryContext(ctx, query)
	if err != nil {
		return &ExtractionError{Query: "indexes", Err: err}
	}
	defer rows.Close()

	type idxRow struct {
		oid                       int
		schema, idxName, tblName string
		unique                   bool
		method, predicate        string
		comment                  *string
		owningConstraint         string
	}
	var idxRows []idxRow
	for rows.Next() {
		var r idxRow
		if err := rows.Scan(&r.oid, &r.schema, &r.idxName, &r.tblName, &r.unique, &r.method,
			&r.predicate, &r.comment, &r.owningConstraint); err != nil {
			return &RowValidationError{Query: "indexes", Field: "*", Err: err}
		}
		idxRows = append(idxRows, r)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, r := range idxRows {
		id := NewStableID(KindIndex, QualifiedName(r.schema, r.idxName))
		cols, err := e.extractIndexColumns(ctx, r.oid)
		if err != nil {
			return err
		}
		var owning StableID
		if r.owningConstraint != "" {
			owning = NewStableID(KindConstraint, QualifiedName(r.schema, r.tblName+"."+r.owningConstraint))
		}
		c.Indexes[id] = &Index{
			Base:             Base{ID: id, Schema: r.schema, Name: r.idxName, Comment: r.comment},
			Table:            r.tblName,
			Columns:          cols,
			Unique:           r.unique,
			Method:           r.method,
			Predicate:        r.predicate,
			OwningConstraint: owning,
		}
	}
	return nil
}

func (e *Extractor) extractIndexColumns(ctx context.Context, indexOid int) ([]IndexColumn, error) {
	rows, err := e.DB.QueryContext(ctx, queryIndexColumns, indexOid)
	if err != nil {
		return nil, &ExtractionError{Query: "index columns", Err: err}
	}
	defer rows.Close()

	var cols []IndexColumn
	for rows.Next() {
		var col IndexColumn
		if err := rows.Scan(&col.Expression, &col.Collation, &col.Opclass, &col.Desc, &col.NullsFirst, &col.Included); err != nil {
			return nil, &RowValidationError{Query: "index columns", Field: "*", Err: err}
		}
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

func (e *Extractor) extractConstraints(ctx context.Context, c *Catalog, qb *queryBuilder) error {
	query := fmt.Sprintf(queryConstraints, qb.namespaceFilter("n.nspname"))
	rows, err := e.DB.QueryContext(ctx, query)
	if err != nil {
		return &ExtractionError{Query: "constraints", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var oid int
		var schema, name, table, ctype, def, owner, refTable string
		var deferrable, deferred, notValid bool
		var comment *string
		if err := rows.Scan(&oid, &schema, &name, &table, &ctype, &deferrable, &deferred, &notValid,
			&def, &owner, &comment, &refTable); err != nil {
			return &RowValidationError{Query: "constraints", Field: "*", Err: err}
		}

		kind, err := constraintKindFromChar(ctype)
		if err != nil {
			return &RowValidationError{Query: "constraints", Field: "contype", Err: err}
		}

		id := NewStableID(KindConstraint, QualifiedName(schema, table+"."+name))
		con := &Constraint{
			Base:              Base{ID: id, Schema: schema, Name: name, Owner: owner, Comment: comment},
			Table:             table,
			Kind:              kind,
			Deferrable:        deferrable,
			InitiallyDeferred: deferred,
			NotValid:          notValid,
			RefTable:          refTable,
			Definition:        def,
		}
		if kind == ConstraintCheck {
			con.CheckExpression = def
		}
		c.Constraints[id] = con
	}
	if err := rows.Err(); err != nil {
		return err
	}

	// Link each PRIMARY KEY/UNIQUE/EXCLUDE constraint to the index
	// implementing it (deptype=internal, §4.4): the pair moves as one unit.
	for indexID, idx := range c.Indexes {
		if idx.OwningConstraint == "" {
			continue
		}
		if con, ok := c.Constraints[idx.OwningConstraint]; ok {
			con.Index = indexID
		}
	}
	return nil
}

func constraintKindFromChar(c string) (ConstraintKind, error) {
	switch c {
	case "p":
		return ConstraintPrimaryKey, nil
	case "u":
		return ConstraintUnique, nil
	case "c":
		return ConstraintCheck, nil
	case "f":
		return ConstraintForeignKey, nil
	case "x":
		return ConstraintExclusion, nil
	default:
		return "", fmt.Errorf("unknown contype %q", c)
	}
}

func (e *Extractor) extractTriggers(ctx context.Context, c *Catalog, qb *queryBuilder) error {
	query := fmt.Sprintf(queryTriggers, qb.namespaceFilter("n.nspname"))
	rows, err := e.DB.QueryContext(ctx, query)
	if err != nil {
		return &ExtractionError{Query: "triggers", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var oid int
		var schema, name, table, function string
		var tgtype int16
		var condition string
		var deferrable bool
		var enabled string
		var comment *string
		if err := rows.Scan(&oid, &schema, &name, &table, &function, &tgtype, &condition,
			&deferrable, &enabled, &comment); err != nil {
			return &RowValidationError{Query: "triggers", Field: "*", Err: err}
		}

		timing, level, events := decodeTriggerType(tgtype)
		id := NewStableID(KindTrigger, QualifiedName(schema, table+"."+name))
		c.Triggers[id] = &Trigger{
			Base:       Base{ID: id, Schema: schema, Name: name, Comment: comment},
			Table:      table,
			Function:   NewStableID(KindFunction, function),
			Timing:     timing,
			Events:     events,
			Level:      level,
			Condition:  condition,
			Deferrable: deferrable,
			Enabled:    enabled,
		}
	}
	return rows.Err()
}

// decodeTriggerType unpacks pg_trigger.tgtype's bitmask, per PostgreSQL's
// trigger.h: TRIGGER_TYPE_ROW=1, BEFORE=2, INSERT=4, DELETE=8, UPDATE=16,
// TRUNCATE=32, INSTEAD=64.
func decodeTriggerType(tgtype int16) (timing, level string, events []string) {
	switch {
	case tgtype&64 != 0:
		timing = "INSTEAD OF"
	case tgtype&2 != 0:
		timing = "BEFORE"
	default:
		timing = "AFTER"
	}
	if tgtype&1 != 0 {
		level = "ROW"
	} else {
		level = "STATEMENT"
	}
	if tgtype&4 != 0 {
		events = append(events, "INSERT")
	}
	if tgtype&8 != 0 {
		events = append(events, "DELETE")
	}
	if tgtype&16 != 0 {
		events = append(events, "UPDATE")
	}
	if tgtype&32 != 0 {
		events = append(events, "TRUNCATE")
	}
	return timing, level, events
}

func (e *Extractor) extractRules(ctx context.Context, c *Catalog, qb *queryBuilder) error {
	query := fmt.Sprintf(queryRules, qb.namespaceFilter("n.nspname"))
	rows, err := e.DB.QueryContext(ctx, query)
	if err != nil {
		return &ExtractionError{Query: "rules", Err: err}
	}
	defer rows.Close()

	events := map[string]string{"1": "SELECT", "2": "UPDATE", "3": "INSERT", "4": "DELETE"}
	for rows.Next() {
		var oid int
		var schema, name, table, evType, def string
		var instead bool
		var comment *string
		if err := rows.Scan(&oid, &schema, &name, &table, &evType, &instead, &def, &comment); err != nil {
			return &RowValidationError{Query: "rules", Field: "*", Err: err}
		}
		id := NewStableID(KindRule, QualifiedName(schema, table+"."+name))
		c.Rules[id] = &Rule{
			Base:       Base{ID: id, Schema: schema, Name: name, Comment: comment},
			Table:      table,
			Event:      events[evType],
			Instead:    instead,
			Definition: def,
		}
	}
	return rows.Err()
}

func (e *Extractor) extractRLSPolicies(ctx context.Context, c *Catalog, qb *queryBuilder) error {
	query := fmt.Sprintf(queryRLSPolicies, qb.namespaceFilter("n.nspname"))
	rows, err := e.DB.QueryContext(ctx, query)
	if err != nil {
		return &ExtractionError{Query: "rls policies", Err: err}
	}
	defer rows.Close()

	cmds := map[string]string{"*": "ALL", "r": "SELECT", "a": "INSERT", "w": "UPDATE", "d": "DELETE"}
	for rows.Next() {
		var oid int
		var schema, name, table, cmd, using, withCheck string
		var permissive bool
		var comment *string
		if err := rows.Scan(&oid, &schema, &name, &table, &permissive, &cmd, &using, &withCheck, &comment); err != nil {
			return &RowValidationError{Query: "rls policies", Field: "*", Err: err}
		}
		var roles []string
		roleRows, err := e.DB.QueryContext(ctx, queryRLSPolicyRoles, oid)
		if err != nil {
			return &ExtractionError{Query: "rls policy roles", Err: err}
		}
		for roleRows.Next() {
			var r string
			if err := roleRows.Scan(&r); err != nil {
				roleRows.Close()
				return &RowValidationError{Query: "rls policy roles", Field: "*", Err: err}
			}
			if r != "public" {
				roles = append(roles, r)
			}
		}
		roleRows.Close()

		id := NewStableID(KindRLSPolicy, QualifiedName(schema, table+"."+name))
		c.RLSPolicies[id] = &RLSPolicy{
			Base:       Base{ID: id, Schema: schema, Name: name, Comment: comment},
			Table:      table,
			Permissive: permissive,
			Command:    cmds[cmd],
			Roles:      roles,
			Using:      using,
			WithCheck:  withCheck,
		}
	}
	return rows.Err()
}

func (e *Extractor) extractSequences(ctx context.Context, c *Catalog, qb *queryBuilder) error {
	query := fmt.Sprintf(querySequences, qb.namespaceFilter("n.nspname"))
	rows, err := e.DB.QueryContext(ctx, query)
	if err != nil {
		return &ExtractionError{Query: "sequences", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var oid int
		var schema, name, owner, dataType string
		var start, increment, min, max, cache int64
		var cycle bool
		var comment *string
		if err := rows.Scan(&oid, &schema, &name, &owner, &dataType, &start, &increment, &min, &max, &cache, &cycle, &comment); err != nil {
			return &RowValidationError{Query: "sequences", Field: "*", Err: err}
		}

		var ownedBy *ColumnRef
		ownerRows, err := e.DB.QueryContext(ctx, querySequenceOwner, oid)
		if err != nil {
			return &ExtractionError{Query: "sequence owner", Err: err}
		}
		if ownerRows.Next() {
			var tabSchema, tabName, colName string
			if err := ownerRows.Scan(&tabSchema, &tabName, &colName); err != nil {
				ownerRows.Close()
				return &RowValidationError{Query: "sequence owner", Field: "*", Err: err}
			}
			ownedBy = &ColumnRef{Table: QualifiedName(tabSchema, tabName), Column: colName}
		}
		ownerRows.Close()

		id := NewStableID(KindSequence, QualifiedName(schema, name))
		c.Sequences[id] = &Sequence{
			Base:       Base{ID: id, Schema: schema, Name: name, Owner: owner, Comment: comment},
			DataType:   dataType,
			StartValue: start,
			Increment:  increment,
			MinValue:   min,
			MaxValue:   max,
			Cache:      cache,
			Cycle:      cycle,
			OwnedByCol: ownedBy,
		}
	}
	return rows.Err()
}

func (e *Extractor) extractRoutines(ctx context.Context, c *Catalog, qb *queryBuilder) error {
	query := fmt.Sprintf(queryRoutines, qb.namespaceFilter("n.nspname"))
	rows, err := e.DB.QueryContext(ctx, query)
	if err != nil {
		return &ExtractionError{Query: "routines", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var oid int
		var schema, name, owner, kind, argsStr, returns, language, src string
		var returnsSet bool
		var volatility byte
		var strict, secdef bool
		var cost, rowsEst float64
		var config pq.StringArray
		var comment *string
		if err := rows.Scan(&oid, &schema, &name, &owner, &kind, &argsStr, &returns, &returnsSet,
			&language, &src, &volatility, &strict, &secdef, &cost, &rowsEst, &config, &comment); err != nil {
			return &RowValidationError{Query: "routines", Field: "*", Err: err}
		}

		args := parseArguments(argsStr)
		security := "INVOKER"
		if secdef {
			security = "DEFINER"
		}
		vol := map[byte]string{'i': "IMMUTABLE", 's': "STABLE", 'v': "VOLATILE"}[volatility]

		switch kind {
		case "a":
			id := NewStableID(KindAggregate, QualifiedName(schema, name))
			agg := &Aggregate{Base: Base{ID: id, Schema: schema, Name: name, Owner: owner, Comment: comment}, Arguments: args}
			if err := e.fillAggregateDetail(ctx, oid, agg); err != nil {
				return err
			}
			c.Aggregates[id] = agg
		case "p":
			id := NewStableID(KindProcedure, QualifiedName(schema, name))
			c.Procedures[id] = &Procedure{
				Base:      Base{ID: id, Schema: schema, Name: name, Owner: owner, Comment: comment},
				Arguments: args,
				Language:  language,
				Body:      src,
				Security:  security,
				Config:    config,
			}
		default:
			id := NewStableID(KindFunction, QualifiedName(schema, name))
			c.Functions[id] = &Function{
				Base:       Base{ID: id, Schema: schema, Name: name, Owner: owner, Comment: comment},
				Arguments:  args,
				Returns:    returns,
				ReturnsSet: returnsSet,
				Language:   language,
				Body:       src,
				Volatility: vol,
				Strict:     strict,
				Security:   security,
				Cost:       cost,
				Rows:       rowsEst,
				Config:     config,
			}
		}
	}
	return rows.Err()
}

func (e *Extractor) fillAggregateDetail(ctx context.Context, oid int, agg *Aggregate) error {
	rows, err := e.DB.QueryContext(ctx, queryAggregateDetail, oid)
	if err != nil {
		return &ExtractionError{Query: "aggregate detail", Err: err}
	}
	defer rows.Close()
	if rows.Next() {
		var stateType, transFn, finalFn, initVal string
		if err := rows.Scan(&stateType, &transFn, &finalFn, &initVal); err != nil {
			return &RowValidationError{Query: "aggregate detail", Field: "*", Err: err}
		}
		agg.StateType = stateType
		agg.TransitionFn = NewStableID(KindFunction, transFn)
		if finalFn != "" {
			agg.FinalFn = NewStableID(KindFunction, finalFn)
		}
		agg.InitialValue = initVal
	}
	return rows.Err()
}

// parseArguments parses the pg_get_function_arguments() output
// ("a integer, b text DEFAULT 'x'") into Parameters. Mode prefixes (IN, OUT,
// INOUT, VARIADIC) are recognized; unprefixed arguments are IN.
func parseArguments(s string) []Parameter {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := splitTopLevelCommas(s)
	params := make([]Parameter, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		mode := "IN"
		for _, prefix := range []string{"OUT ", "INOUT ", "VARIADIC ", "IN "} {
			if strings.HasPrefix(p, prefix) {
				mode = strings.TrimSpace(prefix)
				p = strings.TrimPrefix(p, prefix)
				break
			}
		}
		// Strip any DEFAULT clause; default expressions aren't part of the
		// stable_id/equals contract at this granularity.
		if idx := strings.Index(strings.ToUpper(p), " DEFAULT "); idx != -1 {
			p = p[:idx]
		}
		fields := strings.SplitN(strings.TrimSpace(p), " ", 2)
		if len(fields) != 2 {
			continue
		}
		params = append(params, Parameter{Name: fields[0], Type: fields[1], Mode: mode})
	}
	return params
}

func splitTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func (e *Extractor) extractEnums(ctx context.Context, c *Catalog, qb *queryBuilder) error {
	query := fmt.Sprintf(queryEnums, qb.namespaceFilter("n.nspname"))
	rows, err := e.DB.QueryContext(ctx, query)
	if err != nil {
		return &ExtractionError{Query: "enums", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var oid int
		var schema, name, owner string
		var comment *string
		if err := rows.Scan(&oid, &schema, &name, &owner, &comment); err != nil {
			return &RowValidationError{Query: "enums", Field: "*", Err: err}
		}
		var values []string
		valRows, err := e.DB.QueryContext(ctx, queryEnumValues, oid)
		if err != nil {
			return &ExtractionError{Query: "enum values", Err: err}
		}
		for valRows.Next() {
			var v string
			if err := valRows.Scan(&v); err != nil {
				valRows.Close()
				return &RowValidationError{Query: "enum values", Field: "*", Err: err}
			}
			values = append(values, v)
		}
		valRows.Close()

		id := NewStableID(KindEnum, QualifiedName(schema, name))
		c.Enums[id] = &Enum{Base: Base{ID: id, Schema: schema, Name: name, Owner: owner, Comment: comment}, Values: values}
	}
	return rows.Err()
}

func (e *Extractor) extractCompositeTypes(ctx context.Context, c *Catalog, qb *queryBuilder) error {
	query := fmt.Sprintf(queryCompositeTypes, qb.namespaceFilter("n.nspname"))
	rows, err := e.DB.QueryContext(ctx, query)
	if err != nil {
		return &ExtractionError{Query: "composite types", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var oid int
		var schema, name, owner string
		var comment *string
		if err := rows.Scan(&oid, &schema, &name, &owner, &comment); err != nil {
			return &RowValidationError{Query: "composite types", Field: "*", Err: err}
		}
		var fields []Parameter
		fieldRows, err := e.DB.QueryContext(ctx, queryCompositeTypeFields, oid)
		if err != nil {
			return &ExtractionError{Query: "composite type fields", Err: err}
		}
		for fieldRows.Next() {
			var f Parameter
			if err := fieldRows.Scan(&f.Name, &f.Type); err != nil {
				fieldRows.Close()
				return &RowValidationError{Query: "composite type fields", Field: "*", Err: err}
			}
			fields = append(fields, f)
		}
		fieldRows.Close()

		id := NewStableID(KindCompositeType, QualifiedName(schema, name))
		c.CompositeTypes[id] = &CompositeType{Base: Base{ID: id, Schema: schema, Name: name, Owner: owner, Comment: comment}, Fields: fields}
	}
	return rows.Err()
}

func (e *Extractor) extractRanges(ctx context.Context, c *Catalog, qb *queryBuilder) error {
	query := fmt.Sprintf(queryRanges, qb.namespaceFilter("n.nspname"))
	rows, err := e.DB.QueryContext(ctx, query)
	if err != nil {
		return &ExtractionError{Query: "ranges", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var oid int
		var schema, name, owner, subtype, opclass, collation, canonical, subdiff string
		var comment *string
		if err := rows.Scan(&oid, &schema, &name, &owner, &subtype, &opclass, &collation, &canonical, &subdiff, &comment); err != nil {
			return &RowValidationError{Query: "ranges", Field: "*", Err: err}
		}
		id := NewStableID(KindRange, QualifiedName(schema, name))
		c.Ranges[id] = &Range{
			Base:           Base{ID: id, Schema: schema, Name: name, Owner: owner, Comment: comment},
			Subtype:        subtype,
			SubtypeOpclass: opclass,
			Collation:      collation,
			Canonical:      canonical,
			Subdiff:        subdiff,
		}
	}
	return rows.Err()
}

func (e *Extractor) extractDomains(ctx context.Context, c *Catalog, qb *queryBuilder) error {
	query := fmt.Sprintf(queryDomains, qb.namespaceFilter("n.nspname"))
	rows, err := e.DB.QueryContext(ctx, query)
	if err != nil {
		return &ExtractionError{Query: "domains", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var oid int
		var schema, name, owner, baseType string
		var notNull bool
		var def *string
		var comment *string
		if err := rows.Scan(&oid, &schema, &name, &owner, &baseType, &notNull, &def, &comment); err != nil {
			return &RowValidationError{Query: "domains", Field: "*", Err: err}
		}
		var constraints []DomainConstraint
		conRows, err := e.DB.QueryContext(ctx, queryDomainConstraints, oid)
		if err != nil {
			return &ExtractionError{Query: "domain constraints", Err: err}
		}
		for conRows.Next() {
			var dc DomainConstraint
			if err := conRows.Scan(&dc.Name, &dc.Expression); err != nil {
				conRows.Close()
				return &RowValidationError{Query: "domain constraints", Field: "*", Err: err}
			}
			constraints = append(constraints, dc)
		}
		conRows.Close()

		id := NewStableID(KindDomain, QualifiedName(schema, name))
		c.Domains[id] = &Domain{
			Base:        Base{ID: id, Schema: schema, Name: name, Owner: owner, Comment: comment},
			BaseType:    baseType,
			NotNull:     notNull,
			Default:     def,
			Constraints: constraints,
		}
	}
	return rows.Err()
}

func (e *Extractor) extractCollations(ctx context.Context, c *Catalog, qb *queryBuilder) error {
	query := fmt.Sprintf(queryCollations, qb.namespaceFilter("n.nspname"))
	rows, err := e.DB.QueryContext(ctx, query)
	if err != nil {
		return &ExtractionError{Query: "collations", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var oid int
		var schema, name, owner, provider, lcCollate, lcCType string
		var deterministic bool
		var comment *string
		if err := rows.Scan(&oid, &schema, &name, &owner, &provider, &lcCollate, &lcCType, &deterministic, &comment); err != nil {
			return &RowValidationError{Query: "collations", Field: "*", Err: err}
		}
		id := NewStableID(KindCollation, QualifiedName(schema, name))
		c.Collations[id] = &Collation{
			Base:          Base{ID: id, Schema: schema, Name: name, Owner: owner, Comment: comment},
			Provider:      provider,
			LCCollate:     lcCollate,
			LCCType:       lcCType,
			Deterministic: deterministic,
		}
	}
	return rows.Err()
}

func (e *Extractor) extractExtensions(ctx context.Context, c *Catalog, _ *queryBuilder) error {
	rows, err := e.DB.QueryContext(ctx, queryExtensions)
	if err != nil {
		return &ExtractionError{Query: "extensions", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var oid int
		var schema, name, owner, version string
		var relocatable bool
		var comment *string
		if err := rows.Scan(&oid, &schema, &name, &owner, &version, &relocatable, &comment); err != nil {
			return &RowValidationError{Query: "extensions", Field: "*", Err: err}
		}
		id := NewStableID(KindExtension, name)
		c.Extensions[id] = &Extension{
			Base:        Base{ID: id, Schema: schema, Name: name, Owner: owner, Comment: comment},
			Version:     version,
			Relocatable: relocatable,
		}
	}
	return rows.Err()
}

func (e *Extractor) extractRoles(ctx context.Context, c *Catalog, _ *queryBuilder) error {
	rows, err := e.DB.QueryContext(ctx, queryRoles)
	if err != nil {
		return &ExtractionError{Query: "roles", Err: err}
	}
	defer rows.Close()

	type roleRow struct {
		oid                                                        int
		name                                                       string
		login, super, createdb, createrole, inherit, replication, bypassrls bool
		connLimit                                                  int
		hasPassword                                                bool
		validUntil                                                 string
		comment                                                    *string
	}
	var roleRows []roleRow
	for rows.Next() {
		var r roleRow
		if err := rows.Scan(&r.oid, &r.name, &r.login, &r.super, &r.createdb, &r.createrole, &r.inherit,
			&r.replication, &r.bypassrls, &r.connLimit, &r.hasPassword, &r.validUntil, &r.comment); err != nil {
			return &RowValidationError{Query: "roles", Field: "*", Err: err}
		}
		roleRows = append(roleRows, r)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, r := range roleRows {
		var members []string
		memberRows, err := e.DB.QueryContext(ctx, queryRoleMemberships, r.oid)
		if err != nil {
			return &ExtractionError{Query: "role memberships", Err: err}
		}
		for memberRows.Next() {
			var m string
			if err := memberRows.Scan(&m); err != nil {
				memberRows.Close()
				return &RowValidationError{Query: "role memberships", Field: "*", Err: err}
			}
			members = append(members, m)
		}
		memberRows.Close()

		var password *string
		if r.hasPassword {
			placeholder := "__OPTION_PASSWORD__"
			password = &placeholder
		}

		id := NewStableID(KindRole, r.name)
		c.Roles[id] = &Role{
			Base:            Base{ID: id, Name: r.name, Comment: r.comment},
			Login:           r.login,
			Superuser:       r.super,
			CreateDB:        r.createdb,
			CreateRole:      r.createrole,
			Inherit:         r.inherit,
			Replication:     r.replication,
			BypassRLS:       r.bypassrls,
			ConnectionLimit: r.connLimit,
			Password:        password,
			ValidUntil:      strPtrIfNotEmpty(r.validUntil),
			MemberOf:        members,
		}
	}
	return nil
}

func strPtrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (e *Extractor) extractEventTriggers(ctx context.Context, c *Catalog, _ *queryBuilder) error {
	rows, err := e.DB.QueryContext(ctx, queryEventTriggers)
	if err != nil {
		return &ExtractionError{Query: "event triggers", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var oid int
		var name, event, function, enabled, owner string
		var tags pq.StringArray
		var comment *string
		if err := rows.Scan(&oid, &name, &event, &tags, &function, &enabled, &owner, &comment); err != nil {
			return &RowValidationError{Query: "event triggers", Field: "*", Err: err}
		}
		id := NewStableID(KindEventTrigger, name)
		c.EventTriggers[id] = &EventTrigger{
			Base:     Base{ID: id, Name: name, Owner: owner, Comment: comment},
			Event:    event,
			Tags:     tags,
			Function: NewStableID(KindFunction, function),
			Enabled:  enabled,
		}
	}
	return rows.Err()
}

func (e *Extractor) extractPublications(ctx context.Context, c *Catalog, _ *queryBuilder) error {
	rows, err := e.DB.QueryContext(ctx, queryPublications)
	if err != nil {
		return &ExtractionError{Query: "publications", Err: err}
	}
	defer rows.Close()

	type pubRow struct {
		oid                                              int
		name, owner                                      string
		allTables, insert, update, delete, truncate, via bool
		comment                                           *string
	}
	var pubRows []pubRow
	for rows.Next() {
		var p pubRow
		if err := rows.Scan(&p.oid, &p.name, &p.owner, &p.allTables, &p.insert, &p.update, &p.delete, &p.truncate, &p.via, &p.comment); err != nil {
			return &RowValidationError{Query: "publications", Field: "*", Err: err}
		}
		pubRows = append(pubRows, p)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, p := range pubRows {
		var tables []string
		if !p.allTables {
			tblRows, err := e.DB.QueryContext(ctx, queryPublicationTables, p.oid)
			if err != nil {
				return &ExtractionError{Query: "publication tables", Err: err}
			}
			for tblRows.Next() {
				var t string
				if err := tblRows.Scan(&t); err != nil {
					tblRows.Close()
					return &RowValidationError{Query: "publication tables", Field: "*", Err: err}
				}
				tables = append(tables, t)
			}
			tblRows.Close()
		}

		id := NewStableID(KindPublication, p.name)
		c.Publications[id] = &Publication{
			Base:      Base{ID: id, Name: p.name, Owner: p.owner, Comment: p.comment},
			AllTables: p.allTables,
			Tables:    tables,
			Insert:    p.insert,
			Update:    p.update,
			Delete:    p.delete,
			Truncate:  p.truncate,
			ViaRoot:   p.via,
		}
	}
	return nil
}

func (e *Extractor) extractSubscriptions(ctx context.Context, c *Catalog, version ServerVersion) error {
	// Subscriptions are only visible when connected to a database where they
	// are defined (they are database-local despite living in a shared
	// catalog in newer PostgreSQL); querying pg_subscription requires
	// superuser in older versions, so a permission error here is tolerated
	// as "no subscriptions visible" rather than a hard failure.
	rows, err := e.DB.QueryContext(ctx, querySubscriptions15)
	if err != nil {
		return nil //nolint:nilerr // best-effort: insufficient privilege is not extraction failure
	}
	defer rows.Close()

	for rows.Next() {
		var oid int
		var name, owner, conninfo, slotName string
		var pubs pq.StringArray
		var enabled bool
		var comment *string
		if err := rows.Scan(&oid, &name, &owner, &conninfo, &pubs, &enabled, &slotName, &comment); err != nil {
			return &RowValidationError{Query: "subscriptions", Field: "*", Err: err}
		}
		_ = version // version-gated columns (binary/streaming) are additive and omitted from the core model
		id := NewStableID(KindSubscription, name)
		c.Subscriptions[id] = &Subscription{
			Base:         Base{ID: id, Name: name, Owner: owner, Comment: comment},
			ConnInfo:     conninfo,
			Publications: pubs,
			Enabled:      enabled,
			SlotName:     slotName,
		}
	}
	return rows.Err()
}

func (e *Extractor) extractForeignDataWrappers(ctx context.Context, c *Catalog, _ *queryBuilder) error {
	rows, err := e.DB.QueryContext(ctx, queryForeignDataWrappers)
	if err != nil {
		return &ExtractionError{Query: "foreign data wrappers", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var oid int
		var name, owner, handler, validator string
		var options pq.StringArray
		var comment *string
		if err := rows.Scan(&oid, &name, &owner, &handler, &validator, &options, &comment); err != nil {
			return &RowValidationError{Query: "foreign data wrappers", Field: "*", Err: err}
		}
		id := NewStableID(KindForeignDataWrapper, name)
		fdw := &ForeignDataWrapper{
			Base:    Base{ID: id, Name: name, Owner: owner, Comment: comment},
			Options: parseOptionsArray(options),
		}
		if handler != "" {
			fdw.Handler = handler
		}
		if validator != "" {
			fdw.Validator = validator
		}
		c.ForeignDataWrappers[id] = fdw
	}
	return rows.Err()
}

func (e *Extractor) extractServers(ctx context.Context, c *Catalog, _ *queryBuilder) error {
	rows, err := e.DB.QueryContext(ctx, queryServers)
	if err != nil {
		return &ExtractionError{Query: "servers", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var oid int
		var name, owner, wrapper string
		var options pq.StringArray
		var comment *string
		if err := rows.Scan(&oid, &name, &owner, &wrapper, &options, &comment); err != nil {
			return &RowValidationError{Query: "servers", Field: "*", Err: err}
		}
		id := NewStableID(KindServer, name)
		c.Servers[id] = &Server{
			Base:    Base{ID: id, Name: name, Owner: owner, Comment: comment},
			Wrapper: wrapper,
			Options: parseOptionsArray(options),
		}
	}
	return rows.Err()
}

func (e *Extractor) extractUserMappings(ctx context.Context, c *Catalog, _ *queryBuilder) error {
	rows, err := e.DB.QueryContext(ctx, queryUserMappings)
	if err != nil {
		return &ExtractionError{Query: "user mappings", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var oid int
		var user, server string
		var options pq.StringArray
		if err := rows.Scan(&oid, &user, &server, &options); err != nil {
			return &RowValidationError{Query: "user mappings", Field: "*", Err: err}
		}
		id := NewStableID(KindUserMapping, user+"@"+server)
		c.UserMappings[id] = &UserMapping{
			Base:    Base{ID: id, Name: user + "@" + server},
			User:    user,
			Server:  NewStableID(KindServer, server),
			Options: parseOptionsArray(options),
		}
	}
	return rows.Err()
}

func (e *Extractor) extractLanguages(ctx context.Context, c *Catalog, qb *queryBuilder) error {
	// Languages are cluster-scope but pg_language rows for trusted
	// procedural languages are still filtered to exclude the handful of
	// internal pseudo-languages PostgreSQL wires up by name.
	query := fmt.Sprintf(queryLanguages, qb.namespaceFilter("'public'"))
	rows, err := e.DB.QueryContext(ctx, query)
	if err != nil {
		return &ExtractionError{Query: "languages", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var oid int
		var name string
		var trusted bool
		var handler, inlineFn, validator, owner string
		var comment *string
		if err := rows.Scan(&oid, &name, &trusted, &handler, &inlineFn, &validator, &owner, &comment); err != nil {
			return &RowValidationError{Query: "languages", Field: "*", Err: err}
		}
		id := NewStableID(KindLanguage, name)
		lang := &Language{Base: Base{ID: id, Name: name, Owner: owner, Comment: comment}, Trusted: trusted}
		if handler != "" {
			lang.HandlerFn = NewStableID(KindFunction, handler)
		}
		if inlineFn != "" {
			lang.InlineFn = NewStableID(KindFunction, inlineFn)
		}
		if validator != "" {
			lang.ValidatorFn = NewStableID(KindFunction, validator)
		}
		c.Languages[id] = lang
	}
	return rows.Err()
}

func (e *Extractor) extractDepends(ctx context.Context, c *Catalog) error {
	rows, err := e.DB.QueryContext(ctx, queryDepends)
	if err != nil {
		return &ExtractionError{Query: "depends", Err: err}
	}
	defer rows.Close()

	seen := make(map[Depend]bool)
	for rows.Next() {
		var depNs, depClass, depProc, depType *string
		var refNs, refClass, refProc, refTypeName *string
		var deptype string
		if err := rows.Scan(&depNs, &depClass, &depProc, &depType, &refNs, &refClass, &refProc, &refTypeName, &deptype); err != nil {
			return &RowValidationError{Query: "depends", Field: "*", Err: err}
		}

		dependent, ok1 := resolveDependStableID(depNs, depClass, depProc, depType, c)
		referenced, ok2 := resolveDependStableID(refNs, refClass, refProc, refTypeName, c)
		if !ok1 || !ok2 {
			continue // endpoint is system-internal or an unmodeled kind (e.g. an opclass); §3 invariant 3 discards these
		}
		d := Depend{Dependent: dependent, Referenced: referenced, Type: DepType(deptype)}
		if !seen[d] {
			seen[d] = true
			c.Depends = append(c.Depends, d)
		}
	}
	return rows.Err()
}

// resolveDependStableID turns one pg_depend endpoint's joined name columns
// into a stable ID, trying each entity collection the endpoint could belong
// to. Endpoints that don't resolve to anything in the catalog (system
// objects already excluded by the join's own filtering, or object kinds
// pg_depend references that this catalog does not model, e.g. opclasses)
// report ok=false so the caller discards the edge per invariant 3.
func resolveDependStableID(ns, class, proc, typ *string, c *Catalog) (StableID, bool) {
	if ns == nil {
		return "", false
	}
	switch {
	case class != nil:
		qname := QualifiedName(*ns, *class)
		for _, kind := range []Kind{KindTable, KindView, KindMaterializedView, KindForeignTable, KindSequence} {
			if id := NewStableID(kind, qname); entityExists(c, kind, id) {
				return id, true
			}
		}
		return "", false
	case proc != nil:
		qname := QualifiedName(*ns, *proc)
		for _, kind := range []Kind{KindFunction, KindProcedure, KindAggregate} {
			if id := NewStableID(kind, qname); entityExists(c, kind, id) {
				return id, true
			}
		}
		return "", false
	case typ != nil:
		qname := QualifiedName(*ns, *typ)
		for _, kind := range []Kind{KindEnum, KindCompositeType, KindRange, KindDomain} {
			if id := NewStableID(kind, qname); entityExists(c, kind, id) {
				return id, true
			}
		}
		return "", false
	default:
		if id := NewStableID(KindSchema, *ns); entityExists(c, KindSchema, id) {
			return id, true
		}
		return "", false
	}
}

func entityExists(c *Catalog, kind Kind, id StableID) bool {
	switch kind {
	case KindTable:
		_, ok := c.Tables[id]
		return ok
	case KindView:
		_, ok := c.Views[id]
		return ok
	case KindMaterializedView:
		_, ok := c.MaterializedViews[id]
		return ok
	case KindForeignTable:
		_, ok := c.ForeignTables[id]
		return ok
	case KindSequence:
		_, ok := c.Sequences[id]
		return ok
	case KindFunction:
		_, ok := c.Functions[id]
		return ok
	case KindProcedure:
		_, ok := c.Procedures[id]
		return ok
	case KindAggregate:
		_, ok := c.Aggregates[id]
		return ok
	case KindEnum:
		_, ok := c.Enums[id]
		return ok
	case KindCompositeType:
		_, ok := c.CompositeTypes[id]
		return ok
	case KindRange:
		_, ok := c.Ranges[id]
		return ok
	case KindDomain:
		_, ok := c.Domains[id]
		return ok
	case KindSchema:
		_, ok := c.Schemas[id]
		return ok
	}
	return false
}

// synthesizeEdges adds the relationships pg_depend omits (§4.1): a view or
// materialized view depends on every table/view it selects from (resolved
// via pkg/catalog/depend.go's SQL-body scan), and a constraint depends on
// its underlying index.
func (e *Extractor) synthesizeEdges(c *Catalog) {
	for id, con := range c.Constraints {
		if con.Index != "" {
			c.Depends = append(c.Depends, Depend{Dependent: id, Referenced: con.Index, Type: DepInternal})
		}
	}
	for id, view := range c.Views {
		for _, ref := range FindRelationReferences(view.Definition, c) {
			c.Depends = append(c.Depends, Depend{Dependent: id, Referenced: ref, Type: DepNormal})
		}
	}
	for id, mv := range c.MaterializedViews {
		for _, ref := range FindRelationReferences(mv.Definition, c) {
			c.Depends = append(c.Depends, Depend{Dependent: id, Referenced: ref, Type: DepNormal})
		}
	}
}
