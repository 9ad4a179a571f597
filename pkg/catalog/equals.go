// SPDX-License-Identifier: Apache-2.0

package catalog

import "reflect"

// Equals implementations are structural on data fields only (§3): identity
// fields (those baked into the stable_id) never participate, and neither
// does Comment (diffed as its own Change) nor any field documented as
// environment-dependent (§4.3 — these are masked out here so that drift in
// them never produces a spurious alter).
//
// environmentDependentOptionKeys names the per-kind option keys that hold
// environment-dependent values for kinds that store them in a free-form
// Options map rather than a dedicated field.
var environmentDependentOptionKeys = map[Kind][]string{
	KindServer:      {"host", "port", "dbname"},
	KindUserMapping: {"user", "password"},
}

func maskOptions(kind Kind, opts map[string]string) map[string]string {
	if len(opts) == 0 {
		return opts
	}
	masked := make(map[string]string, len(opts))
	exclude := make(map[string]bool)
	for _, k := range environmentDependentOptionKeys[kind] {
		exclude[k] = true
	}
	for k, v := range opts {
		if exclude[k] {
			continue
		}
		masked[k] = v
	}
	return masked
}

func (s *Schema) Equals(other *Schema) bool {
	return s.Owner == other.Owner
}

func (t *Table) Equals(other *Table) bool {
	a, b := *t, *other
	a.Comment, b.Comment = nil, nil
	return reflect.DeepEqual(a, b)
}

func (v *View) Equals(other *View) bool {
	a, b := *v, *other
	a.Comment, b.Comment = nil, nil
	return reflect.DeepEqual(a, b)
}

func (v *MaterializedView) Equals(other *MaterializedView) bool {
	a, b := *v, *other
	a.Comment, b.Comment = nil, nil
	return reflect.DeepEqual(a, b)
}

func (f *ForeignTable) Equals(other *ForeignTable) bool {
	a, b := *f, *other
	a.Comment, b.Comment = nil, nil
	return reflect.DeepEqual(a, b)
}

func (i *Index) Equals(other *Index) bool {
	a, b := *i, *other
	a.Comment, b.Comment = nil, nil
	return reflect.DeepEqual(a, b)
}

func (c *Constraint) Equals(other *Constraint) bool {
	a, b := *c, *other
	a.Comment, b.Comment = nil, nil
	return reflect.DeepEqual(a, b)
}

func (t *Trigger) Equals(other *Trigger) bool {
	a, b := *t, *other
	a.Comment, b.Comment = nil, nil
	return reflect.DeepEqual(a, b)
}

func (r *Rule) Equals(other *Rule) bool {
	a, b := *r, *other
	a.Comment, b.Comment = nil, nil
	return reflect.DeepEqual(a, b)
}

func (p *RLSPolicy) Equals(other *RLSPolicy) bool {
	a, b := *p, *other
	a.Comment, b.Comment = nil, nil
	return reflect.DeepEqual(a, b)
}

func (s *Sequence) Equals(other *Sequence) bool {
	a, b := *s, *other
	a.Comment, b.Comment = nil, nil
	return reflect.DeepEqual(a, b)
}

func (f *Function) Equals(other *Function) bool {
	a, b := *f, *other
	a.Comment, b.Comment = nil, nil
	return reflect.DeepEqual(a, b)
}

func (p *Procedure) Equals(other *Procedure) bool {
	a, b := *p, *other
	a.Comment, b.Comment = nil, nil
	return reflect.DeepEqual(a, b)
}

func (a *Aggregate) Equals(other *Aggregate) bool {
	x, y := *a, *other
	x.Comment, y.Comment = nil, nil
	return reflect.DeepEqual(x, y)
}

func (e *Enum) Equals(other *Enum) bool {
	a, b := *e, *other
	a.Comment, b.Comment = nil, nil
	return reflect.DeepEqual(a, b)
}

func (c *CompositeType) Equals(other *CompositeType) bool {
	a, b := *c, *other
	a.Comment, b.Comment = nil, nil
	return reflect.DeepEqual(a, b)
}

func (r *Range) Equals(other *Range) bool {
	a, b := *r, *other
	a.Comment, b.Comment = nil, nil
	return reflect.DeepEqual(a, b)
}

func (d *Domain) Equals(other *Domain) bool {
	a, b := *d, *other
	a.Comment, b.Comment = nil, nil
	return reflect.DeepEqual(a, b)
}

func (c *Collation) Equals(other *Collation) bool {
	a, b := *c, *other
	a.Comment, b.Comment = nil, nil
	return reflect.DeepEqual(a, b)
}

func (e *Extension) Equals(other *Extension) bool {
	a, b := *e, *other
	a.Comment, b.Comment = nil, nil
	return reflect.DeepEqual(a, b)
}

// Role.Password is environment-dependent (§4.3): it is rendered as a
// placeholder on create and never diffed.
func (r *Role) Equals(other *Role) bool {
	a, b := *r, *other
	a.Comment, b.Comment = nil, nil
	a.Password, b.Password = nil, nil
	return reflect.DeepEqual(a, b)
}

func (e *EventTrigger) Equals(other *EventTrigger) bool {
	a, b := *e, *other
	a.Comment, b.Comment = nil, nil
	return reflect.DeepEqual(a, b)
}

func (p *Publication) Equals(other *Publication) bool {
	a, b := *p, *other
	a.Comment, b.Comment = nil, nil
	return reflect.DeepEqual(a, b)
}

// Subscription.ConnInfo is environment-dependent (§4.3).
func (s *Subscription) Equals(other *Subscription) bool {
	a, b := *s, *other
	a.Comment, b.Comment = nil, nil
	a.ConnInfo, b.ConnInfo = "", ""
	return reflect.DeepEqual(a, b)
}

func (f *ForeignDataWrapper) Equals(other *ForeignDataWrapper) bool {
	a, b := *f, *other
	a.Comment, b.Comment = nil, nil
	return reflect.DeepEqual(a, b)
}

// Server's host/port/dbname options are environment-dependent (§4.3).
func (s *Server) Equals(other *Server) bool {
	a, b := *s, *other
	a.Comment, b.Comment = nil, nil
	a.Options = maskOptions(KindServer, a.Options)
	b.Options = maskOptions(KindServer, b.Options)
	return reflect.DeepEqual(a, b)
}

// UserMapping's user/password options are environment-dependent (§4.3).
func (u *UserMapping) Equals(other *UserMapping) bool {
	a, b := *u, *other
	a.Comment, b.Comment = nil, nil
	a.Options = maskOptions(KindUserMapping, a.Options)
	b.Options = maskOptions(KindUserMapping, b.Options)
	return reflect.DeepEqual(a, b)
}

func (l *Language) Equals(other *Language) bool {
	a, b := *l, *other
	a.Comment, b.Comment = nil, nil
	return reflect.DeepEqual(a, b)
}

// ColumnsEqual compares two ordered column slices field-by-field, ignoring
// Comment. Used by the Differ when deciding whether a table/view/matview
// changed (as a non-alterable-field signal forcing Replace) versus needing
// per-column Alter Changes.
func ColumnsEqual(a, b Column) bool {
	a.Comment, b.Comment = nil, nil
	return reflect.DeepEqual(a, b)
}
