// SPDX-License-Identifier: Apache-2.0

package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbshift/pgdiffkit/pkg/catalog"
)

func schemaCatalog(owner string) (*catalog.Catalog, catalog.StableID) {
	id := catalog.NewStableID(catalog.KindSchema, "app")
	cat := catalog.New()
	cat.Schemas[id] = &catalog.Schema{Base: catalog.Base{ID: id, Name: "app", Owner: owner}}
	return cat, id
}

func TestComputeIsDeterministic(t *testing.T) {
	cat, id := schemaCatalog("app_owner")
	ids := map[catalog.StableID]bool{id: true}

	fp1, err := Compute(cat, ids)
	require.NoError(t, err)
	fp2, err := Compute(cat, ids)
	require.NoError(t, err)

	assert.Equal(t, fp1, fp2)
	assert.Len(t, fp1, 64)
}

func TestComputeDiffersOnDataChange(t *testing.T) {
	cat1, id := schemaCatalog("app_owner")
	cat2, _ := schemaCatalog("someone_else")
	ids := map[catalog.StableID]bool{id: true}

	fp1, err := Compute(cat1, ids)
	require.NoError(t, err)
	fp2, err := Compute(cat2, ids)
	require.NoError(t, err)

	assert.NotEqual(t, fp1, fp2)
}

func TestComputeIgnoresUntouchedEntities(t *testing.T) {
	cat, id := schemaCatalog("app_owner")
	otherID := catalog.NewStableID(catalog.KindTable, "app.widgets")
	cat.Tables[otherID] = &catalog.Table{Base: catalog.Base{ID: otherID, Schema: "app", Name: "widgets"}}

	ids := map[catalog.StableID]bool{id: true}

	fp1, err := Compute(cat, ids)
	require.NoError(t, err)

	// Mutating an entity outside the touched id set must not change the
	// fingerprint: Compute only ever canonicalizes the ids it was given.
	cat.Tables[otherID].Owner = "changed"
	fp2, err := Compute(cat, ids)
	require.NoError(t, err)

	assert.Equal(t, fp1, fp2)
}

func TestComputeMasksEnvironmentDependentFields(t *testing.T) {
	id := catalog.NewStableID(catalog.KindRole, "app_user")
	one, two := "secret-one", "secret-two"
	cat1 := catalog.New()
	cat1.Roles[id] = &catalog.Role{Base: catalog.Base{ID: id, Name: "app_user"}, Password: &one}
	cat2 := catalog.New()
	cat2.Roles[id] = &catalog.Role{Base: catalog.Base{ID: id, Name: "app_user"}, Password: &two}

	ids := map[catalog.StableID]bool{id: true}

	fp1, err := Compute(cat1, ids)
	require.NoError(t, err)
	fp2, err := Compute(cat2, ids)
	require.NoError(t, err)

	assert.Equal(t, fp1, fp2, "role Password is environment-dependent and must be masked before hashing")
}

func TestComputeIncludesDependEdgesBetweenTouchedEntities(t *testing.T) {
	schemaID := catalog.NewStableID(catalog.KindSchema, "app")
	tableID := catalog.NewStableID(catalog.KindTable, "app.widgets")

	withEdge := catalog.New()
	withEdge.Schemas[schemaID] = &catalog.Schema{Base: catalog.Base{ID: schemaID, Name: "app"}}
	withEdge.Tables[tableID] = &catalog.Table{Base: catalog.Base{ID: tableID, Schema: "app", Name: "widgets"}}
	withEdge.Depends = []catalog.Depend{{Dependent: tableID, Referenced: schemaID, Type: catalog.DepNormal}}

	withoutEdge := catalog.New()
	withoutEdge.Schemas[schemaID] = &catalog.Schema{Base: catalog.Base{ID: schemaID, Name: "app"}}
	withoutEdge.Tables[tableID] = &catalog.Table{Base: catalog.Base{ID: tableID, Schema: "app", Name: "widgets"}}

	ids := map[catalog.StableID]bool{schemaID: true, tableID: true}

	fpWith, err := Compute(withEdge, ids)
	require.NoError(t, err)
	fpWithout, err := Compute(withoutEdge, ids)
	require.NoError(t, err)

	assert.NotEqual(t, fpWith, fpWithout)
}

func TestStableIDSet(t *testing.T) {
	set := StableIDSet([]string{"schema:app", "table:app.widgets"})
	assert.True(t, set[catalog.StableID("schema:app")])
	assert.True(t, set[catalog.StableID("table:app.widgets")])
	assert.Len(t, set, 2)
}
