// SPDX-License-Identifier: Apache-2.0

// Package catalog implements the typed in-memory snapshot of a PostgreSQL
// cluster's schema: extraction from the system catalogs (pg_namespace,
// pg_class, pg_attribute, ...), the object model for every entity kind, and
// the stable identifier scheme that is the engine's only cross-entity
// reference.
package catalog

import "fmt"

// Kind is one of the closed set of entity kinds the engine understands.
type Kind string

const (
	KindSchema             Kind = "schema"
	KindTable               Kind = "table"
	KindView                Kind = "view"
	KindMaterializedView    Kind = "materialized_view"
	KindForeignTable        Kind = "foreign_table"
	KindColumn              Kind = "column"
	KindIndex                Kind = "index"
	KindConstraint           Kind = "constraint"
	KindTrigger              Kind = "trigger"
	KindRule                 Kind = "rule"
	KindRLSPolicy            Kind = "rls_policy"
	KindSequence             Kind = "sequence"
	KindFunction             Kind = "function"
	KindProcedure            Kind = "procedure"
	KindAggregate            Kind = "aggregate"
	KindEnum                 Kind = "enum"
	KindCompositeType        Kind = "composite_type"
	KindRange                Kind = "range"
	KindDomain               Kind = "domain"
	KindCollation            Kind = "collation"
	KindExtension            Kind = "extension"
	KindRole                 Kind = "role"
	KindEventTrigger         Kind = "event_trigger"
	KindPublication          Kind = "publication"
	KindSubscription         Kind = "subscription"
	KindForeignDataWrapper   Kind = "foreign_data_wrapper"
	KindServer               Kind = "server"
	KindUserMapping          Kind = "user_mapping"
	KindLanguage             Kind = "language"
)

// AllKinds lists the closed set in creation priority order: schemas and
// extensions (and other namespace-less prerequisites) sort before the
// objects that live inside them. The Sorter (pkg/sorter) uses the index of a
// kind in this slice as its tie-break priority on create, and the reverse on
// drop.
var AllKinds = []Kind{
	KindForeignDataWrapper,
	KindServer,
	KindRole,
	KindLanguage,
	KindExtension,
	KindSchema,
	KindCollation,
	KindEnum,
	KindRange,
	KindDomain,
	KindCompositeType,
	KindSequence,
	KindTable,
	KindColumn,
	KindForeignTable,
	KindView,
	KindMaterializedView,
	KindIndex,
	KindConstraint,
	KindFunction,
	KindProcedure,
	KindAggregate,
	KindTrigger,
	KindRule,
	KindRLSPolicy,
	KindEventTrigger,
	KindUserMapping,
	KindPublication,
	KindSubscription,
}

// KindPriority returns the create-order tie-break priority of a kind; lower
// sorts first. Unknown kinds sort last.
func KindPriority(k Kind) int {
	for i, candidate := range AllKinds {
		if candidate == k {
			return i
		}
	}
	return len(AllKinds)
}

// StableID is a string of the form "kind:qualified_name", the only
// cross-entity reference the engine ever uses.
type StableID string

// NewStableID builds the canonical stable_id for an entity: lowercase,
// unquoted except where the identifier genuinely needs it (callers pass the
// already-lowercased qualified name; this function only joins kind+name).
func NewStableID(k Kind, qualifiedName string) StableID {
	return StableID(fmt.Sprintf("%s:%s", k, qualifiedName))
}

// CommentID is the synthetic stable ID of a comment Change annotating the
// object identified by id.
func CommentID(id StableID) StableID {
	return StableID(fmt.Sprintf("comment:%s", id))
}

// PrivilegeID is the synthetic stable ID of a privilege (GRANT/REVOKE) Change
// on the object identified by id.
func PrivilegeID(id StableID) StableID {
	return StableID(fmt.Sprintf("privilege:%s", id))
}

// QualifiedName joins a schema and a local name with a dot. Cluster-scope
// kinds (role, extension, server, foreign_data_wrapper, publication,
// subscription, event_trigger, language) have no schema and pass "" here,
// producing just name.
func QualifiedName(schema, name string) string {
	if schema == "" {
		return name
	}
	return fmt.Sprintf("%s.%s", schema, name)
}

// DepType is PostgreSQL's pg_depend dependency classification.
type DepType string

const (
	DepNormal   DepType = "n"
	DepAuto     DepType = "a"
	DepInternal DepType = "i"
)

// Depend is one edge of the catalog's dependency graph: dependent requires
// referenced to exist first.
type Depend struct {
	Dependent  StableID
	Referenced StableID
	Type       DepType
}
