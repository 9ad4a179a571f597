// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbshift/pgdiffkit/pkg/catalog"
	"github.com/dbshift/pgdiffkit/pkg/change"
)

func TestDiffEmptyToEmptyIsEmpty(t *testing.T) {
	assert.Empty(t, Diff(catalog.New(), catalog.New()))
}

func TestDiffCreatesNewSchema(t *testing.T) {
	source := catalog.New()
	target := catalog.New()
	id := catalog.NewStableID(catalog.KindSchema, "app")
	target.Schemas[id] = &catalog.Schema{Base: catalog.Base{ID: id, Name: "app", Owner: "app_owner"}}

	changes := Diff(source, target)
	require.Len(t, changes, 1)
	assert.Equal(t, change.OpCreate, changes[0].Operation)
	assert.Equal(t, catalog.KindSchema, changes[0].ObjectType)
	assert.Equal(t, id, changes[0].StableID)

	stmts, warns, err := changes[0].SQL()
	require.NoError(t, err)
	assert.Empty(t, warns)
	assert.Equal(t, []string{`CREATE SCHEMA "app" AUTHORIZATION "app_owner"`}, stmts)
}

func TestDiffDropsRemovedSchema(t *testing.T) {
	source := catalog.New()
	target := catalog.New()
	id := catalog.NewStableID(catalog.KindSchema, "app")
	source.Schemas[id] = &catalog.Schema{Base: catalog.Base{ID: id, Name: "app"}}

	changes := Diff(source, target)
	require.Len(t, changes, 1)
	assert.Equal(t, change.OpDrop, changes[0].Operation)
}

func TestDiffAltersSchemaOwnerChange(t *testing.T) {
	source := catalog.New()
	target := catalog.New()
	id := catalog.NewStableID(catalog.KindSchema, "app")
	source.Schemas[id] = &catalog.Schema{Base: catalog.Base{ID: id, Name: "app", Owner: "old_owner"}}
	target.Schemas[id] = &catalog.Schema{Base: catalog.Base{ID: id, Name: "app", Owner: "new_owner"}}

	changes := Diff(source, target)
	require.Len(t, changes, 1)
	assert.Equal(t, change.OpAlter, changes[0].Operation)
	assert.Equal(t, change.AspectSetOwner, changes[0].Aspect)
}

func TestDiffIsNoopWhenIdentical(t *testing.T) {
	id := catalog.NewStableID(catalog.KindSchema, "app")
	source := catalog.New()
	source.Schemas[id] = &catalog.Schema{Base: catalog.Base{ID: id, Name: "app", Owner: "app_owner"}}
	target := catalog.New()
	target.Schemas[id] = &catalog.Schema{Base: catalog.Base{ID: id, Name: "app", Owner: "app_owner"}}

	assert.Empty(t, Diff(source, target))
}

func TestDiffNewRoleAndDroppedExtension(t *testing.T) {
	source := catalog.New()
	target := catalog.New()

	roleID := catalog.NewStableID(catalog.KindRole, "app_user")
	target.Roles[roleID] = &catalog.Role{Base: catalog.Base{ID: roleID, Name: "app_user"}, Login: true}

	extID := catalog.NewStableID(catalog.KindExtension, "pgcrypto")
	source.Extensions[extID] = &catalog.Extension{Base: catalog.Base{ID: extID, Name: "pgcrypto"}}

	changes := Diff(source, target)
	require.Len(t, changes, 2)

	var sawRoleCreate, sawExtensionDrop bool
	for _, c := range changes {
		switch {
		case c.ObjectType == catalog.KindRole && c.Operation == change.OpCreate:
			sawRoleCreate = true
		case c.ObjectType == catalog.KindExtension && c.Operation == change.OpDrop:
			sawExtensionDrop = true
		}
	}
	assert.True(t, sawRoleCreate)
	assert.True(t, sawExtensionDrop)
}
