// SPDX-License-Identifier: Apache-2.0

package change

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dbshift/pgdiffkit/pkg/catalog"
)

// environmentDependentOptionKeys mirrors catalog's own masking table (§4.3):
// these Options keys vary by environment and must never appear literally in
// a rendered plan. It is duplicated here, rather than imported, because
// catalog's copy governs Equals() while this one governs serialize() output
// — the two are allowed to diverge if a future kind needs display-only
// masking without affecting diff equality.
var environmentDependentOptionKeys = map[catalog.Kind]map[string]bool{
	catalog.KindServer:      {"host": true, "port": true, "dbname": true},
	catalog.KindUserMapping: {"user": true, "password": true},
}

// maskPlaceholder is substituted for any environment-dependent value a
// Change would otherwise render verbatim into SQL text.
const maskPlaceholder = "__REDACTED__"

// RenderOptions formats a CREATE/ALTER ... OPTIONS (...) clause, masking any
// key the kind declares environment-dependent and sorting keys for
// deterministic output.
func RenderOptions(kind catalog.Kind, opts map[string]string) string {
	if len(opts) == 0 {
		return ""
	}
	masked := environmentDependentOptionKeys[kind]
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := opts[k]
		if masked[k] {
			v = maskPlaceholder
		}
		parts = append(parts, fmt.Sprintf("%s %s", k, quoteLiteral(v)))
	}
	return "OPTIONS (" + strings.Join(parts, ", ") + ")"
}

// RolePasswordClause renders a role's PASSWORD clause, masking the real
// value. A plan is a static artifact that may be reviewed or stored outside
// the originating database, so it must never carry a credential (§4.3,
// §4.5).
func RolePasswordClause(r *catalog.Role) string {
	if r.Password == nil {
		return ""
	}
	return "PASSWORD " + quoteLiteral(maskPlaceholder)
}

// SubscriptionConnInfoClause renders a subscription's CONNECTION clause,
// masked the same way.
func SubscriptionConnInfoClause(s *catalog.Subscription) string {
	if s.ConnInfo == "" {
		return ""
	}
	return "CONNECTION " + quoteLiteral(maskPlaceholder)
}

// MaskWarning returns a Warning documenting that a Change's rendered SQL
// contains a masked placeholder the operator must fill in before the plan
// can be applied outside the source environment it was extracted from.
func MaskWarning(objectID catalog.StableID, field string) Warning {
	return Warning{
		Message: fmt.Sprintf("%s: %s was redacted because it is environment-dependent; edit the generated SQL before applying outside the source environment", objectID, field),
	}
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
