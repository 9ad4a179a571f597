// SPDX-License-Identifier: Apache-2.0

package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbshift/pgdiffkit/pkg/catalog"
)

func TestGenerateEmptyToEmpty(t *testing.T) {
	t.Parallel()

	source := catalog.New()
	target := catalog.New()

	p, err := Generate(source, target, "postgres://source", "postgres://target", "", nil)
	require.NoError(t, err)
	assert.True(t, p.IsEmpty())
	assert.Equal(t, 0, p.Stats.Total)
	assert.Equal(t, Version, p.Version)
}

func TestGenerateAddSchema(t *testing.T) {
	t.Parallel()

	source := catalog.New()
	target := catalog.New()
	target.Schemas[catalog.NewStableID(catalog.KindSchema, "s")] = &catalog.Schema{
		Base: catalog.Base{ID: catalog.NewStableID(catalog.KindSchema, "s"), Name: "s", Owner: "app_owner"},
	}

	p, err := Generate(source, target, "postgres://source", "postgres://target", "", nil)
	require.NoError(t, err)
	require.False(t, p.IsEmpty())
	assert.Equal(t, 1, p.Stats.Total)
	assert.Equal(t, 1, p.Stats.Creates)
	assert.Equal(t, 1, p.Stats.ByObjectType["schema"])
	assert.NotEmpty(t, p.Source.Fingerprint)
	assert.NotEmpty(t, p.Target.Fingerprint)
	assert.NotEqual(t, p.Source.Fingerprint, p.Target.Fingerprint)
}

func TestPlanJSONRoundTrip(t *testing.T) {
	t.Parallel()

	source := catalog.New()
	target := catalog.New()
	target.Schemas[catalog.NewStableID(catalog.KindSchema, "s")] = &catalog.Schema{
		Base: catalog.Base{ID: catalog.NewStableID(catalog.KindSchema, "s"), Name: "s", Owner: "app_owner"},
	}

	p, err := Generate(source, target, "postgres://source", "postgres://target", "migrator", nil)
	require.NoError(t, err)

	data, err := p.ToJSON()
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, p.Statements, decoded.Statements)
	assert.Equal(t, p.SQLHash, decoded.SQLHash)
	assert.Equal(t, p.Stats, decoded.Stats)

	role, err := decoded.Role.Get()
	require.NoError(t, err)
	assert.Equal(t, "migrator", role)
}

func TestDecodeRejectsSchemaViolation(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte(`{"version": 1}`))
	assert.Error(t, err)
}

func TestHumanColoredEmptyPlan(t *testing.T) {
	t.Parallel()

	p := &Plan{Version: Version}
	assert.Contains(t, p.HumanColored(false), "No changes")
}

func TestToSQL(t *testing.T) {
	t.Parallel()

	p := &Plan{Statements: []string{"CREATE SCHEMA s", "CREATE TABLE s.t (id integer)"}}
	assert.Equal(t, "CREATE SCHEMA s;\nCREATE TABLE s.t (id integer);\n", p.ToSQL())
}
