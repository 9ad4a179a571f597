// SPDX-License-Identifier: Apache-2.0

package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbshift/pgdiffkit/pkg/catalog"
	"github.com/dbshift/pgdiffkit/pkg/change"
)

func tableCreate(schema, name, owner string) *change.Change {
	return &change.Change{
		Operation:  change.OpCreate,
		Scope:      change.ScopeObject,
		ObjectType: catalog.KindTable,
		StableID:   catalog.NewStableID(catalog.KindTable, catalog.QualifiedName(schema, name)),
		After: &catalog.Table{
			Base: catalog.Base{
				Schema: schema,
				Name:   name,
				Owner:  owner,
			},
		},
	}
}

func roleCreate(name string, memberOf []string) *change.Change {
	return &change.Change{
		Operation:  change.OpCreate,
		Scope:      change.ScopeObject,
		ObjectType: catalog.KindRole,
		StableID:   catalog.NewStableID(catalog.KindRole, name),
		After: &catalog.Role{
			Base:     catalog.Base{Name: name},
			MemberOf: memberOf,
		},
	}
}

func TestPropertyMatch(t *testing.T) {
	t.Parallel()

	c := tableCreate("app", "orders", "app_owner")

	assert.True(t, (Property{Name: "type", Value: "table"}).Match(c))
	assert.False(t, (Property{Name: "type", Value: "view"}).Match(c))
	assert.True(t, (Property{Name: "operation", Value: "create"}).Match(c))
	assert.True(t, (Property{Name: "scope", Value: "object"}).Match(c))
	assert.True(t, (Property{Name: "schema", Value: "app"}).Match(c))
	assert.True(t, (Property{Name: "owner", Value: "app_owner"}).Match(c))
	assert.False(t, (Property{Name: "owner", Value: "someone_else"}).Match(c))
}

func TestPropertyUnknownNameAlwaysMatches(t *testing.T) {
	t.Parallel()

	c := tableCreate("app", "orders", "app_owner")
	assert.True(t, (Property{Name: "not_a_real_property", Value: "anything"}).Match(c))
}

func TestMemberProperty(t *testing.T) {
	t.Parallel()

	c := roleCreate("app_user", []string{"app_readonly", "app_readwrite"})

	assert.True(t, (Property{Name: "member", Value: "app_readonly"}).Match(c))
	assert.False(t, (Property{Name: "member", Value: "app_admin"}).Match(c))

	table := tableCreate("app", "orders", "app_owner")
	assert.False(t, (Property{Name: "member", Value: "app_readonly"}).Match(table))
}

func TestCombinators(t *testing.T) {
	t.Parallel()

	c := tableCreate("app", "orders", "app_owner")

	and := And{
		Property{Name: "type", Value: "table"},
		Property{Name: "schema", Value: "app"},
	}
	assert.True(t, and.Match(c))

	and2 := And{
		Property{Name: "type", Value: "table"},
		Property{Name: "schema", Value: "other"},
	}
	assert.False(t, and2.Match(c))

	or := Or{
		Property{Name: "type", Value: "view"},
		Property{Name: "schema", Value: "app"},
	}
	assert.True(t, or.Match(c))

	not := Not{Pattern: Property{Name: "type", Value: "view"}}
	assert.True(t, not.Match(c))
}

func TestEmptyAndMatchesNothing(t *testing.T) {
	t.Parallel()

	c := tableCreate("app", "orders", "app_owner")
	assert.False(t, And{}.Match(c))
}

func TestApply(t *testing.T) {
	t.Parallel()

	changes := []*change.Change{
		tableCreate("app", "orders", "app_owner"),
		tableCreate("internal", "audit_log", "app_owner"),
		roleCreate("app_user", nil),
	}

	kept := Apply(changes, Property{Name: "schema", Value: "app"})
	require.Len(t, kept, 1)
	assert.Equal(t, catalog.NewStableID(catalog.KindTable, "app.orders"), kept[0].StableID)

	assert.Equal(t, changes, Apply(changes, nil))
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("implicit and within a node", func(t *testing.T) {
		p, err := Load([]byte(`
type: table
schema: app
`))
		require.NoError(t, err)

		match := tableCreate("app", "orders", "app_owner")
		noMatch := tableCreate("internal", "orders", "app_owner")
		assert.True(t, p.Match(match))
		assert.False(t, p.Match(noMatch))
	})

	t.Run("and/or/not composition", func(t *testing.T) {
		p, err := Load([]byte(`
or:
  - and:
      - type: table
      - schema: app
  - not:
      type: role
`))
		require.NoError(t, err)

		assert.True(t, p.Match(tableCreate("app", "orders", "app_owner")))
		assert.True(t, p.Match(tableCreate("internal", "orders", "app_owner")))
		assert.False(t, p.Match(roleCreate("app_user", nil)))
	})

	t.Run("unknown property rejected", func(t *testing.T) {
		_, err := Load([]byte(`not_a_real_property: x`))
		assert.Error(t, err)
	})

	t.Run("and must be sole key", func(t *testing.T) {
		_, err := Load([]byte(`
and:
  - type: table
type: view
`))
		assert.Error(t, err)
	})
}
