// SPDX-License-Identifier: Apache-2.0

package sorter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbshift/pgdiffkit/pkg/catalog"
	"github.com/dbshift/pgdiffkit/pkg/change"
)

// The helpers below build Changes with no declared dependencies, since
// Change.dependsOn is only settable from within pkg/change's own
// constructors, so the tests using them exercise the sorter's catalog-pg_depend
// edge source (§4.4 source 2); TestSortFailsOnUnbreakableDeclaredCycle gets
// declared edges from change.CreateView instead.
func createChange(kind catalog.Kind, id catalog.StableID) *change.Change {
	return &change.Change{
		Operation:  change.OpCreate,
		Scope:      change.ScopeObject,
		ObjectType: kind,
		StableID:   id,
		After:      struct{}{},
	}
}

func dropChange(kind catalog.Kind, id catalog.StableID) *change.Change {
	return &change.Change{
		Operation:  change.OpDrop,
		Scope:      change.ScopeObject,
		ObjectType: kind,
		StableID:   id,
		Before:     struct{}{},
	}
}

func TestSortEmpty(t *testing.T) {
	order, err := Sort(catalog.New(), catalog.New(), nil)
	require.NoError(t, err)
	assert.Nil(t, order)
}

func TestSortOrdersSchemaBeforeTable(t *testing.T) {
	schemaID := catalog.NewStableID(catalog.KindSchema, "app")
	tableID := catalog.NewStableID(catalog.KindTable, "app.widgets")

	target := catalog.New()
	target.Depends = []catalog.Depend{
		{Dependent: tableID, Referenced: schemaID, Type: catalog.DepNormal},
	}

	changes := []*change.Change{
		createChange(catalog.KindTable, tableID),
		createChange(catalog.KindSchema, schemaID),
	}

	order, err := Sort(catalog.New(), target, changes)
	require.NoError(t, err)
	require.Len(t, order, 2)
	assert.Equal(t, schemaID, order[0].StableID)
	assert.Equal(t, tableID, order[1].StableID)
}

func TestSortDropsDependentBeforeDependency(t *testing.T) {
	schemaID := catalog.NewStableID(catalog.KindSchema, "app")
	tableID := catalog.NewStableID(catalog.KindTable, "app.widgets")

	source := catalog.New()
	source.Depends = []catalog.Depend{
		{Dependent: tableID, Referenced: schemaID, Type: catalog.DepNormal},
	}

	changes := []*change.Change{
		dropChange(catalog.KindSchema, schemaID),
		dropChange(catalog.KindTable, tableID),
	}

	order, err := Sort(source, catalog.New(), changes)
	require.NoError(t, err)
	require.Len(t, order, 2)
	assert.Equal(t, tableID, order[0].StableID)
	assert.Equal(t, schemaID, order[1].StableID)
}

func TestSortIsDeterministicAcrossInputOrder(t *testing.T) {
	a := catalog.NewStableID(catalog.KindTable, "public.a")
	b := catalog.NewStableID(catalog.KindTable, "public.b")

	changes1 := []*change.Change{createChange(catalog.KindTable, a), createChange(catalog.KindTable, b)}
	changes2 := []*change.Change{createChange(catalog.KindTable, b), createChange(catalog.KindTable, a)}

	order1, err := Sort(catalog.New(), catalog.New(), changes1)
	require.NoError(t, err)
	order2, err := Sort(catalog.New(), catalog.New(), changes2)
	require.NoError(t, err)

	require.Len(t, order1, 2)
	require.Len(t, order2, 2)
	assert.Equal(t, order1[0].StableID, order2[0].StableID)
	assert.Equal(t, order1[1].StableID, order2[1].StableID)
}

func TestSortBreaksOwnershipCycle(t *testing.T) {
	tableID := catalog.NewStableID(catalog.KindTable, "public.widgets")
	seqID := catalog.NewStableID(catalog.KindSequence, "public.widgets_id_seq")

	target := catalog.New()
	target.Depends = []catalog.Depend{
		{Dependent: seqID, Referenced: tableID, Type: catalog.DepAuto},
		{Dependent: tableID, Referenced: seqID, Type: catalog.DepNormal},
	}

	changes := []*change.Change{
		createChange(catalog.KindTable, tableID),
		createChange(catalog.KindSequence, seqID),
	}

	order, err := Sort(catalog.New(), target, changes)
	require.NoError(t, err)
	assert.Len(t, order, 2)
}

// TestSortFailsOnUnbreakableDeclaredCycle exercises a cycle made entirely of
// change-declared edges (§4.4 source 1), the only edge class breakOneEdge
// never removes (graph.go's breakPriority lists only the pg_depend classes
// ownership/internal/normal — all breakable, in that order). Two views
// declared via change.CreateView to each reference the other as a relation
// produce exactly that: neither view can be created first.
func TestSortFailsOnUnbreakableDeclaredCycle(t *testing.T) {
	aID := catalog.NewStableID(catalog.KindView, "public.a")
	bID := catalog.NewStableID(catalog.KindView, "public.b")

	viewA := &catalog.View{Base: catalog.Base{ID: aID, Schema: "public", Name: "a"}}
	viewB := &catalog.View{Base: catalog.Base{ID: bID, Schema: "public", Name: "b"}}

	ca := change.CreateView(viewA, []catalog.StableID{bID})
	cb := change.CreateView(viewB, []catalog.StableID{aID})

	order, err := Sort(catalog.New(), catalog.New(), []*change.Change{ca, cb})
	assert.Nil(t, order)
	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
}
