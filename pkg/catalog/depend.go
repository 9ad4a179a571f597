// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// FindRelationReferences parses a SQL body (a view/materialized view
// definition, a function/procedure body written in SQL, a trigger WHEN
// condition, or an RLS policy expression) with a real PostgreSQL parser and
// returns the stable IDs of every table/view/materialized view it reads,
// resolved against the given catalog. This is how the extractor synthesizes
// the dependency edges pg_depend omits (§4.1) — a real parse tree rather
// than a regex scan over function bodies, since a regex cannot distinguish a
// function call from a quoted string or a comment containing the same text.
//
// Relations the body references that aren't present in the catalog (because
// they live in an excluded system schema, or the parse targets a CTE/alias
// rather than a real relation) are silently skipped: this function only
// ever adds edges between entities that already exist, per invariant 3.
func FindRelationReferences(sql string, c *Catalog) []StableID {
	if sql == "" {
		return nil
	}

	result, err := pg_query.Parse(sql)
	if err != nil {
		// A body the parser rejects (e.g. a PL/pgSQL function body, which is
		// an opaque string to the SQL parser) yields no synthesized edges;
		// whatever pg_depend already captured for it stands.
		return nil
	}

	seen := make(map[StableID]bool)
	var ids []StableID
	var visit func(node *pg_query.Node)
	visit = func(node *pg_query.Node) {
		if node == nil {
			return
		}
		if rv := node.GetRangeVar(); rv != nil {
			schema := rv.Schemaname
			name := rv.Relname
			for _, kind := range []Kind{KindTable, KindView, KindMaterializedView, KindForeignTable} {
				qname := name
				if schema != "" {
					qname = QualifiedName(schema, name)
				}
				candidates := relationCandidates(c, kind, schema, name, qname)
				for _, id := range candidates {
					if !seen[id] {
						seen[id] = true
						ids = append(ids, id)
					}
				}
			}
		}
	}

	walkParseTree(result, visit)
	return ids
}

// relationCandidates resolves an unqualified-or-qualified relation name
// against the catalog. An unqualified name is tried against every schema
// present, the way PostgreSQL itself resolves against search_path — except
// the engine has no search_path to consult, so it conservatively matches any
// schema containing a same-named relation of the given kind.
func relationCandidates(c *Catalog, kind Kind, schema, name, qname string) []StableID {
	if schema != "" {
		id := NewStableID(kind, qname)
		if entityExists(c, kind, id) {
			return []StableID{id}
		}
		return nil
	}

	var out []StableID
	for s := range c.Schemas {
		id := NewStableID(kind, QualifiedName(s.unqualifiedSchemaName(), name))
		if entityExists(c, kind, id) {
			out = append(out, id)
		}
	}
	return out
}

// unqualifiedSchemaName extracts the bare schema name back out of a
// schema's own stable ID ("schema:public" -> "public").
func (id StableID) unqualifiedSchemaName() string {
	s := string(id)
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return s[i+1:]
		}
	}
	return s
}

// walkParseTree performs a depth-first traversal over a pg_query parse
// result, invoking visit on every node reachable via protobuf reflection is
// unnecessary here: pg_query_go's Node wraps a oneof, so an explicit visitor
// covering SelectStmt's principal children is sufficient for the relation
// shapes (FROM lists, JOINs) that a view or policy expression can contain.
func walkParseTree(result *pg_query.ParseResult, visit func(*pg_query.Node)) {
	for _, raw := range result.Stmts {
		walkNode(raw.Stmt, visit)
	}
}

func walkNode(node *pg_query.Node, visit func(*pg_query.Node)) {
	if node == nil {
		return
	}
	visit(node)

	switch n := node.Node.(type) {
	case *pg_query.Node_SelectStmt:
		s := n.SelectStmt
		for _, f := range s.FromClause {
			walkNode(f, visit)
		}
		for _, t := range s.TargetList {
			walkNode(t, visit)
		}
		walkNode(s.WhereClause, visit)
		if s.Larg != nil {
			walkNode(&pg_query.Node{Node: &pg_query.Node_SelectStmt{SelectStmt: s.Larg}}, visit)
		}
		if s.Rarg != nil {
			walkNode(&pg_query.Node{Node: &pg_query.Node_SelectStmt{SelectStmt: s.Rarg}}, visit)
		}
	case *pg_query.Node_JoinExpr:
		walkNode(n.JoinExpr.Larg, visit)
		walkNode(n.JoinExpr.Rarg, visit)
		walkNode(n.JoinExpr.Quals, visit)
	case *pg_query.Node_RangeSubselect:
		walkNode(n.RangeSubselect.Subquery, visit)
	case *pg_query.Node_ResTarget:
		walkNode(n.ResTarget.Val, visit)
	case *pg_query.Node_AExpr:
		walkNode(n.AExpr.Lexpr, visit)
		walkNode(n.AExpr.Rexpr, visit)
	case *pg_query.Node_BoolExpr:
		for _, a := range n.BoolExpr.Args {
			walkNode(a, visit)
		}
	case *pg_query.Node_SubLink:
		walkNode(n.SubLink.Subselect, visit)
	}
}
