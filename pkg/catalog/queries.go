// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"fmt"
	"strings"
)

// systemSchemaSet is the fixed set every extraction query excludes (§4.1).
var systemSchemaSet = []string{"pg_catalog", "information_schema", "pg_toast"}

// queryBuilder assembles the server-side schema filter shared by every
// extraction query: the fixed system-schema set, the pg_temp_*/pg_toast_*
// pattern exclusions, and any caller-supplied extra internal schemas.
type queryBuilder struct {
	extraExcludedSchemas []string
}

// namespaceFilter returns a WHERE-clause fragment excluding the system
// schema set, temp/toast namespaces, and any extra excluded schemas, applied
// to the given namespace-name column/expression.
func (qb *queryBuilder) namespaceFilter(column string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s NOT LIKE 'pg_temp\\_%%' AND %s NOT LIKE 'pg\\_toast\\_%%'", column, column)

	excluded := append(append([]string{}, systemSchemaSet...), qb.extraExcludedSchemas...)
	fmt.Fprintf(&b, " AND %s NOT IN (%s)", column, qb.inClause(excluded))
	return b.String()
}

func (qb *queryBuilder) inClause(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	if len(quoted) == 0 {
		return "NULL"
	}
	return strings.Join(quoted, ", ")
}

// The extraction queries below join pg_catalog tables directly (rather than
// information_schema) so that every field the object model needs — relkind
// discrimination, oids for pg_depend joins, raw catalog booleans — is
// available in one row, the way pgschema's IR loader queries pg_catalog.

const querySchemas = `
SELECT
	n.oid,
	n.nspname,
	pg_catalog.pg_get_userbyid(n.nspowner),
	obj_description(n.oid, 'pg_namespace')
FROM pg_catalog.pg_namespace n
WHERE %s
ORDER BY n.nspname`

const queryTables = `
SELECT
	c.oid,
	n.nspname,
	c.relname,
	pg_catalog.pg_get_userbyid(c.relowner),
	c.relrowsecurity,
	c.relforcerowsecurity,
	c.relkind = 'p',
	COALESCE(pg_catalog.pg_get_expr(c.relpartbound, c.oid), ''),
	CASE c.relpersistence WHEN 'u' THEN 'unlogged' WHEN 't' THEN 'temporary' ELSE 'permanent' END,
	COALESCE(ts.spcname, ''),
	obj_description(c.oid, 'pg_class')
FROM pg_catalog.pg_class c
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
LEFT JOIN pg_catalog.pg_tablespace ts ON ts.oid = c.reltablespace
WHERE c.relkind IN ('r', 'p') AND %s
ORDER BY n.nspname, c.relname`

const queryPartitionParent = `
SELECT
	parent_ns.nspname,
	parent.relname,
	pg_catalog.pg_get_expr(child.relpartbound, child.oid)
FROM pg_catalog.pg_inherits i
JOIN pg_catalog.pg_class child ON child.oid = i.inhrelid
JOIN pg_catalog.pg_class parent ON parent.oid = i.inhparent
JOIN pg_catalog.pg_namespace parent_ns ON parent_ns.oid = parent.relnamespace
WHERE child.oid = $1 AND child.relispartition`

const queryPartitionStrategy = `
SELECT pg_catalog.pg_get_partkeydef(c.oid)
FROM pg_catalog.pg_class c
WHERE c.oid = $1 AND c.relkind = 'p'`

const queryColumns = `
SELECT
	a.attname,
	a.attnum,
	pg_catalog.format_type(a.atttypid, a.atttypmod),
	a.attnotnull,
	pg_catalog.pg_get_expr(d.adbin, d.adrelid),
	CASE a.attgenerated WHEN 's' THEN pg_catalog.pg_get_expr(d.adbin, d.adrelid) ELSE NULL END,
	a.attidentity,
	COALESCE(coll.collname, ''),
	col_description(a.attrelid, a.attnum)
FROM pg_catalog.pg_attribute a
LEFT JOIN pg_catalog.pg_attrdef d ON d.adrelid = a.attrelid AND d.adnum = a.attnum
LEFT JOIN pg_catalog.pg_collation coll ON coll.oid = a.attcollation
WHERE a.attrelid = $1 AND a.attnum > 0 AND NOT a.attisdropped
ORDER BY a.attnum`

const queryIdentitySequence = `
SELECT seq_ns.nspname, seq.relname
FROM pg_catalog.pg_depend dep
JOIN pg_catalog.pg_class seq ON seq.oid = dep.objid AND seq.relkind = 'S'
JOIN pg_catalog.pg_namespace seq_ns ON seq_ns.oid = seq.relnamespace
WHERE dep.refobjid = $1 AND dep.refobjsubid = $2 AND dep.deptype = 'i'`

const queryViews = `
SELECT
	c.oid,
	n.nspname,
	c.relname,
	pg_catalog.pg_get_userbyid(c.relowner),
	pg_catalog.pg_get_viewdef(c.oid, true),
	obj_description(c.oid, 'pg_class')
FROM pg_catalog.pg_class c
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
WHERE c.relkind = 'v' AND %s
ORDER BY n.nspname, c.relname`

const queryMaterializedViews = `
SELECT
	c.oid,
	n.nspname,
	c.relname,
	pg_catalog.pg_get_userbyid(c.relowner),
	pg_catalog.pg_get_viewdef(c.oid, true),
	c.relispopulated,
	COALESCE(ts.spcname, ''),
	obj_description(c.oid, 'pg_class')
FROM pg_catalog.pg_class c
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
LEFT JOIN pg_catalog.pg_tablespace ts ON ts.oid = c.reltablespace
WHERE c.relkind = 'm' AND %s
ORDER BY n.nspname, c.relname`

const queryForeignTables = `
SELECT
	c.oid,
	n.nspname,
	c.relname,
	pg_catalog.pg_get_userbyid(c.relowner),
	srv.srvname,
	obj_description(c.oid, 'pg_class')
FROM pg_catalog.pg_class c
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
JOIN pg_catalog.pg_foreign_table ft ON ft.ftrelid = c.oid
JOIN pg_catalog.pg_foreign_server srv ON srv.oid = ft.ftserver
WHERE c.relkind = 'f' AND %s
ORDER BY n.nspname, c.relname`

const queryForeignTableOptions = `
SELECT ftoptions FROM pg_catalog.pg_foreign_table WHERE ftrelid = $1`

const queryIndexes = `
SELECT
	i.oid,
	n.nspname,
	c.relname AS index_name,
	t.relname AS table_name,
	ix.indisunique,
	am.amname,
	COALESCE(pg_catalog.pg_get_expr(ix.indpred, ix.indrelid), ''),
	obj_description(i.oid, 'pg_class'),
	COALESCE(con.conname, '')
FROM pg_catalog.pg_index ix
JOIN pg_catalog.pg_class i ON i.oid = ix.indexrelid
JOIN pg_catalog.pg_class t ON t.oid = ix.indrelid
JOIN pg_catalog.pg_namespace n ON n.oid = i.relnamespace
JOIN pg_catalog.pg_am am ON am.oid = i.relam
LEFT JOIN pg_catalog.pg_constraint con ON con.conindid = i.oid
WHERE %s
ORDER BY n.nspname, t.relname, i.relname`

const queryIndexColumns = `
SELECT
	pg_catalog.pg_get_indexdef(ix.indexrelid, k.n, false),
	COALESCE(coll.collname, ''),
	COALESCE(opc.opcname, ''),
	(ix.indoption[k.n-1] & 1) = 1,
	(ix.indoption[k.n-1] & 2) = 2,
	k.n > ix.indnkeyatts
FROM pg_catalog.pg_index ix
CROSS JOIN LATERAL generate_series(1, ix.indnatts) AS k(n)
LEFT JOIN pg_catalog.pg_collation coll ON coll.oid = ix.indcollation[k.n-1]
LEFT JOIN pg_catalog.pg_opclass opc ON opc.oid = ix.indclass[k.n-1]
WHERE ix.indexrelid = $1
ORDER BY k.n`

const queryConstraints = `
SELECT
	con.oid,
	n.nspname,
	con.conname,
	t.relname,
	con.contype,
	con.condeferrable,
	con.condeferred,
	NOT con.convalidated,
	pg_catalog.pg_get_constraintdef(con.oid, true),
	pg_catalog.pg_get_userbyid(t.relowner),
	obj_description(con.oid, 'pg_constraint'),
	COALESCE(ref_n.nspname || '.' || ref_t.relname, '')
FROM pg_catalog.pg_constraint con
JOIN pg_catalog.pg_class t ON t.oid = con.conrelid
JOIN pg_catalog.pg_namespace n ON n.oid = con.connamespace
LEFT JOIN pg_catalog.pg_class ref_t ON ref_t.oid = con.confrelid
LEFT JOIN pg_catalog.pg_namespace ref_n ON ref_n.oid = ref_t.relnamespace
WHERE con.contype IN ('p', 'u', 'c', 'f', 'x') AND con.conrelid != 0 AND %s
ORDER BY n.nspname, t.relname, con.conname`

const queryTriggers = `
SELECT
	tg.oid,
	n.nspname,
	tg.tgname,
	t.relname,
	fn_n.nspname || '.' || fn.proname,
	tg.tgtype,
	COALESCE(pg_catalog.pg_get_expr(tg.tgqual, tg.tgrelid), ''),
	tg.tgdeferrable,
	tg.tgenabled,
	obj_description(tg.oid, 'pg_trigger')
FROM pg_catalog.pg_trigger tg
JOIN pg_catalog.pg_class t ON t.oid = tg.tgrelid
JOIN pg_catalog.pg_namespace n ON n.oid = t.relnamespace
JOIN pg_catalog.pg_proc fn ON fn.oid = tg.tgfoid
JOIN pg_catalog.pg_namespace fn_n ON fn_n.oid = fn.pronamespace
WHERE NOT tg.tgisinternal AND %s
ORDER BY n.nspname, t.relname, tg.tgname`

const queryRules = `
SELECT
	r.oid,
	n.nspname,
	r.rulename,
	t.relname,
	r.ev_type,
	r.is_instead,
	pg_catalog.pg_get_ruledef(r.oid, true),
	obj_description(r.oid, 'pg_rewrite')
FROM pg_catalog.pg_rewrite r
JOIN pg_catalog.pg_class t ON t.oid = r.ev_class
JOIN pg_catalog.pg_namespace n ON n.oid = t.relnamespace
WHERE r.rulename != '_RETURN' AND %s
ORDER BY n.nspname, t.relname, r.rulename`

const queryRLSPolicies = `
SELECT
	p.oid,
	n.nspname,
	p.polname,
	c.relname,
	p.polpermissive,
	p.polcmd,
	COALESCE(pg_catalog.pg_get_expr(p.polqual, p.polrelid), ''),
	COALESCE(pg_catalog.pg_get_expr(p.polwithcheck, p.polrelid), ''),
	obj_description(p.oid, 'pg_policy')
FROM pg_catalog.pg_policy p
JOIN pg_catalog.pg_class c ON c.oid = p.polrelid
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
WHERE %s
ORDER BY n.nspname, c.relname, p.polname`

const queryRLSPolicyRoles = `
SELECT pg_catalog.pg_get_userbyid(r)
FROM unnest((SELECT polroles FROM pg_catalog.pg_policy WHERE oid = $1)) AS r`

const querySequences = `
SELECT
	c.oid,
	n.nspname,
	c.relname,
	pg_catalog.pg_get_userbyid(c.relowner),
	s.seqtypid::regtype::text,
	s.seqstart,
	s.seqincrement,
	s.seqmin,
	s.seqmax,
	s.seqcache,
	s.seqcycle,
	obj_description(c.oid, 'pg_class')
FROM pg_catalog.pg_sequence s
JOIN pg_catalog.pg_class c ON c.oid = s.seqrelid
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
WHERE %s
ORDER BY n.nspname, c.relname`

const querySequenceOwner = `
SELECT tab_n.nspname, tab.relname, a.attname
FROM pg_catalog.pg_depend dep
JOIN pg_catalog.pg_class tab ON tab.oid = dep.refobjid
JOIN pg_catalog.pg_namespace tab_n ON tab_n.oid = tab.relnamespace
JOIN pg_catalog.pg_attribute a ON a.attrelid = dep.refobjid AND a.attnum = dep.refobjsubid
WHERE dep.objid = $1 AND dep.deptype = 'a'`

const queryRoutines = `
SELECT
	p.oid,
	n.nspname,
	p.proname,
	pg_catalog.pg_get_userbyid(p.proowner),
	p.prokind,
	pg_catalog.pg_get_function_arguments(p.oid),
	pg_catalog.pg_get_function_result(p.oid),
	p.proretset,
	lang.lanname,
	p.prosrc,
	p.provolatile,
	p.proisstrict,
	p.prosecdef,
	p.procost,
	p.prorows,
	COALESCE(p.proconfig, '{}'),
	obj_description(p.oid, 'pg_proc')
FROM pg_catalog.pg_proc p
JOIN pg_catalog.pg_namespace n ON n.oid = p.pronamespace
JOIN pg_catalog.pg_language lang ON lang.oid = p.prolang
WHERE p.prokind IN ('f', 'p', 'a') AND %s
ORDER BY n.nspname, p.proname`

const queryAggregateDetail = `
SELECT
	agg.aggtranstype::regtype::text,
	trans_n.nspname || '.' || trans.proname,
	COALESCE(final_n.nspname || '.' || final.proname, ''),
	COALESCE(agg.agginitval, '')
FROM pg_catalog.pg_aggregate agg
JOIN pg_catalog.pg_proc trans ON trans.oid = agg.aggtransfn
JOIN pg_catalog.pg_namespace trans_n ON trans_n.oid = trans.pronamespace
LEFT JOIN pg_catalog.pg_proc final ON final.oid = agg.aggfinalfn AND agg.aggfinalfn != 0
LEFT JOIN pg_catalog.pg_namespace final_n ON final_n.oid = final.pronamespace
WHERE agg.aggfnoid = $1`

const queryEnums = `
SELECT
	t.oid,
	n.nspname,
	t.typname,
	pg_catalog.pg_get_userbyid(t.typowner),
	obj_description(t.oid, 'pg_type')
FROM pg_catalog.pg_type t
JOIN pg_catalog.pg_namespace n ON n.oid = t.typnamespace
WHERE t.typtype = 'e' AND %s
ORDER BY n.nspname, t.typname`

const queryEnumValues = `
SELECT enumlabel FROM pg_catalog.pg_enum WHERE enumtypid = $1 ORDER BY enumsortorder`

const queryCompositeTypes = `
SELECT
	t.oid,
	n.nspname,
	t.typname,
	pg_catalog.pg_get_userbyid(t.typowner),
	obj_description(t.oid, 'pg_type')
FROM pg_catalog.pg_type t
JOIN pg_catalog.pg_namespace n ON n.oid = t.typnamespace
WHERE t.typtype = 'c' AND %s AND t.typrelid != 0
AND (SELECT relkind FROM pg_catalog.pg_class WHERE oid = t.typrelid) = 'c'
ORDER BY n.nspname, t.typname`

const queryCompositeTypeFields = `
SELECT a.attname, pg_catalog.format_type(a.atttypid, a.atttypmod)
FROM pg_catalog.pg_attribute a
WHERE a.attrelid = (SELECT typrelid FROM pg_catalog.pg_type WHERE oid = $1)
AND a.attnum > 0 AND NOT a.attisdropped
ORDER BY a.attnum`

const queryRanges = `
SELECT
	t.oid,
	n.nspname,
	t.typname,
	pg_catalog.pg_get_userbyid(t.typowner),
	r.rngsubtype::regtype::text,
	COALESCE(opc.opcname, ''),
	COALESCE(coll.collname, ''),
	COALESCE(canon_n.nspname || '.' || canon.proname, ''),
	COALESCE(diff_n.nspname || '.' || diff.proname, ''),
	obj_description(t.oid, 'pg_type')
FROM pg_catalog.pg_range r
JOIN pg_catalog.pg_type t ON t.oid = r.rngtypid
JOIN pg_catalog.pg_namespace n ON n.oid = t.typnamespace
LEFT JOIN pg_catalog.pg_opclass opc ON opc.oid = r.rngsubopc
LEFT JOIN pg_catalog.pg_collation coll ON coll.oid = r.rngcollation
LEFT JOIN pg_catalog.pg_proc canon ON canon.oid = r.rngcanonical
LEFT JOIN pg_catalog.pg_namespace canon_n ON canon_n.oid = canon.pronamespace
LEFT JOIN pg_catalog.pg_proc diff ON diff.oid = r.rngsubdiff
LEFT JOIN pg_catalog.pg_namespace diff_n ON diff_n.oid = diff.pronamespace
WHERE %s`

const queryDomains = `
SELECT
	t.oid,
	n.nspname,
	t.typname,
	pg_catalog.pg_get_userbyid(t.typowner),
	t.typbasetype::regtype::text,
	t.typnotnull,
	pg_catalog.pg_get_expr(t.typdefaultbin, 0),
	obj_description(t.oid, 'pg_type')
FROM pg_catalog.pg_type t
JOIN pg_catalog.pg_namespace n ON n.oid = t.typnamespace
WHERE t.typtype = 'd' AND %s
ORDER BY n.nspname, t.typname`

const queryDomainConstraints = `
SELECT con.conname, pg_catalog.pg_get_constraintdef(con.oid, true)
FROM pg_catalog.pg_constraint con
WHERE con.contypid = $1
ORDER BY con.oid`

const queryCollations = `
SELECT
	c.oid,
	n.nspname,
	c.collname,
	pg_catalog.pg_get_userbyid(c.collowner),
	c.collprovider,
	COALESCE(c.collcollate, ''),
	COALESCE(c.collctype, ''),
	c.collisdeterministic,
	obj_description(c.oid, 'pg_collation')
FROM pg_catalog.pg_collation c
JOIN pg_catalog.pg_namespace n ON n.oid = c.collnamespace
WHERE %s
ORDER BY n.nspname, c.collname`

const queryExtensions = `
SELECT
	e.oid,
	n.nspname,
	e.extname,
	pg_catalog.pg_get_userbyid(e.extowner),
	e.extversion,
	e.extrelocatable,
	obj_description(e.oid, 'pg_extension')
FROM pg_catalog.pg_extension e
JOIN pg_catalog.pg_namespace n ON n.oid = e.extnamespace
ORDER BY e.extname`

const queryRoles = `
SELECT
	a.oid,
	a.rolname,
	a.rolcanlogin,
	a.rolsuper,
	a.rolcreatedb,
	a.rolcreaterole,
	a.rolinherit,
	a.rolreplication,
	a.rolbypassrls,
	a.rolconnlimit,
	a.rolpassword IS NOT NULL,
	COALESCE(a.rolvaliduntil::text, ''),
	shobj_description(a.oid, 'pg_authid')
FROM pg_catalog.pg_authid a
WHERE a.rolname NOT LIKE 'pg\_%'
ORDER BY a.rolname`

const queryRoleMemberships = `
SELECT g.rolname
FROM pg_catalog.pg_auth_members m
JOIN pg_catalog.pg_authid g ON g.oid = m.roleid
WHERE m.member = $1
ORDER BY g.rolname`

const queryEventTriggers = `
SELECT
	e.oid,
	e.evtname,
	e.evtevent,
	COALESCE(e.evttags, '{}'),
	fn_n.nspname || '.' || fn.proname,
	e.evtenabled,
	pg_catalog.pg_get_userbyid(e.evtowner),
	obj_description(e.oid, 'pg_event_trigger')
FROM pg_catalog.pg_event_trigger e
JOIN pg_catalog.pg_proc fn ON fn.oid = e.evtfoid
JOIN pg_catalog.pg_namespace fn_n ON fn_n.oid = fn.pronamespace
ORDER BY e.evtname`

const queryPublications = `
SELECT
	p.oid,
	p.pubname,
	pg_catalog.pg_get_userbyid(p.pubowner),
	p.puballtables,
	p.pubinsert,
	p.pubupdate,
	p.pubdelete,
	p.pubtruncate,
	p.pubviaroot,
	obj_description(p.oid, 'pg_publication')
FROM pg_catalog.pg_publication p
ORDER BY p.pubname`

const queryPublicationTables = `
SELECT n.nspname || '.' || c.relname
FROM pg_catalog.pg_publication_rel pr
JOIN pg_catalog.pg_class c ON c.oid = pr.prrelid
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
WHERE pr.prpubid = $1
ORDER BY 1`

// querySubscriptions15 selects the subscription columns common to every
// supported PostgreSQL version. extractSubscriptions runs it on every
// version; the PostgreSQL 16+ binary/streaming options are not read.
const querySubscriptions15 = `
SELECT
	s.oid,
	s.subname,
	pg_catalog.pg_get_userbyid(s.subowner),
	s.subconninfo,
	s.subpublications,
	s.subenabled,
	s.subslotname,
	obj_description(s.oid, 'pg_subscription')
FROM pg_catalog.pg_subscription s
ORDER BY s.subname`

const queryForeignDataWrappers = `
SELECT
	w.oid,
	w.fdwname,
	pg_catalog.pg_get_userbyid(w.fdwowner),
	COALESCE(handler_n.nspname || '.' || handler.proname, ''),
	COALESCE(validator_n.nspname || '.' || validator.proname, ''),
	COALESCE(w.fdwoptions, '{}'),
	obj_description(w.oid, 'pg_foreign_data_wrapper')
FROM pg_catalog.pg_foreign_data_wrapper w
LEFT JOIN pg_catalog.pg_proc handler ON handler.oid = w.fdwhandler AND w.fdwhandler != 0
LEFT JOIN pg_catalog.pg_namespace handler_n ON handler_n.oid = handler.pronamespace
LEFT JOIN pg_catalog.pg_proc validator ON validator.oid = w.fdwvalidator AND w.fdwvalidator != 0
LEFT JOIN pg_catalog.pg_namespace validator_n ON validator_n.oid = validator.pronamespace
ORDER BY w.fdwname`

const queryServers = `
SELECT
	s.oid,
	s.srvname,
	pg_catalog.pg_get_userbyid(s.srvowner),
	w.fdwname,
	COALESCE(s.srvoptions, '{}'),
	obj_description(s.oid, 'pg_foreign_server')
FROM pg_catalog.pg_foreign_server s
JOIN pg_catalog.pg_foreign_data_wrapper w ON w.oid = s.srvfdw
ORDER BY s.srvname`

const queryUserMappings = `
SELECT
	u.oid,
	pg_catalog.pg_get_userbyid(u.umuser),
	srv.srvname,
	COALESCE(u.umoptions, '{}')
FROM pg_catalog.pg_user_mapping u
JOIN pg_catalog.pg_foreign_server srv ON srv.oid = u.umserver
ORDER BY srv.srvname, 1`

const queryLanguages = `
SELECT
	l.oid,
	l.lanname,
	l.lanpltrusted,
	COALESCE(handler_n.nspname || '.' || handler.proname, ''),
	COALESCE(inline_n.nspname || '.' || inline.proname, ''),
	COALESCE(valid_n.nspname || '.' || valid.proname, ''),
	pg_catalog.pg_get_userbyid(l.lanowner),
	obj_description(l.oid, 'pg_language')
FROM pg_catalog.pg_language l
LEFT JOIN pg_catalog.pg_proc handler ON handler.oid = l.lanplcallfoid AND l.lanplcallfoid != 0
LEFT JOIN pg_catalog.pg_namespace handler_n ON handler_n.oid = handler.pronamespace
LEFT JOIN pg_catalog.pg_proc inline ON inline.oid = l.laninline AND l.laninline != 0
LEFT JOIN pg_catalog.pg_namespace inline_n ON inline_n.oid = inline.pronamespace
LEFT JOIN pg_catalog.pg_proc valid ON valid.oid = l.lanvalidator AND l.lanvalidator != 0
LEFT JOIN pg_catalog.pg_namespace valid_n ON valid_n.oid = valid.pronamespace
WHERE l.lanispl AND %s
ORDER BY l.lanname`

const queryDepends = `
SELECT DISTINCT
	dependent_ns.nspname, dependent_class.relname, dependent_proc.proname, dependent_type.typname,
	referenced_ns.nspname, referenced_class.relname, referenced_proc.proname, referenced_type.typname,
	d.deptype
FROM pg_catalog.pg_depend d
LEFT JOIN pg_catalog.pg_class dependent_class ON dependent_class.oid = d.objid AND d.classid = 'pg_catalog.pg_class'::regclass
LEFT JOIN pg_catalog.pg_proc dependent_proc ON dependent_proc.oid = d.objid AND d.classid = 'pg_catalog.pg_proc'::regclass
LEFT JOIN pg_catalog.pg_type dependent_type ON dependent_type.oid = d.objid AND d.classid = 'pg_catalog.pg_type'::regclass
LEFT JOIN pg_catalog.pg_namespace dependent_ns ON dependent_ns.oid = COALESCE(dependent_class.relnamespace, dependent_proc.pronamespace, dependent_type.typnamespace)
LEFT JOIN pg_catalog.pg_class referenced_class ON referenced_class.oid = d.refobjid AND d.refclassid = 'pg_catalog.pg_class'::regclass
LEFT JOIN pg_catalog.pg_proc referenced_proc ON referenced_proc.oid = d.refobjid AND d.refclassid = 'pg_catalog.pg_proc'::regclass
LEFT JOIN pg_catalog.pg_type referenced_type ON referenced_type.oid = d.refobjid AND d.refclassid = 'pg_catalog.pg_type'::regclass
LEFT JOIN pg_catalog.pg_namespace referenced_ns ON referenced_ns.oid = COALESCE(referenced_class.relnamespace, referenced_proc.pronamespace, referenced_type.typnamespace)
WHERE d.deptype IN ('n', 'a', 'i')
AND d.objid != d.refobjid`
