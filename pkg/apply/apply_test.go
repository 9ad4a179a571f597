// SPDX-License-Identifier: Apache-2.0

package apply

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbshift/pgdiffkit/pkg/catalog"
	"github.com/dbshift/pgdiffkit/pkg/db"
	"github.com/dbshift/pgdiffkit/pkg/plan"
)

func schemaCatalog(owner string) *catalog.Catalog {
	c := catalog.New()
	id := catalog.NewStableID(catalog.KindSchema, "s")
	c.Schemas[id] = &catalog.Schema{Base: catalog.Base{ID: id, Name: "s", Owner: owner}}
	return c
}

func TestApplyEmptyPlanIsNoop(t *testing.T) {
	t.Parallel()

	p := &plan.Plan{Version: plan.Version}
	result, err := Apply(context.Background(), &db.FakeDB{}, p, func(context.Context) (*catalog.Catalog, error) {
		t.Fatal("extract should not be called for an empty plan")
		return nil, nil
	}, NewNoopLogger())

	require.NoError(t, err)
	assert.Equal(t, 0, result.StatementsApplied)
}

func TestApplyAlreadyApplied(t *testing.T) {
	t.Parallel()

	source := catalog.New()
	target := schemaCatalog("app_owner")
	p, err := plan.Generate(source, target, "s", "t", "", nil)
	require.NoError(t, err)

	_, err = Apply(context.Background(), &db.FakeDB{}, p, func(context.Context) (*catalog.Catalog, error) {
		return target, nil
	}, NewNoopLogger())

	assert.ErrorAs(t, err, &AlreadyAppliedError{})
}

func TestApplyFingerprintMismatch(t *testing.T) {
	t.Parallel()

	source := catalog.New()
	target := schemaCatalog("app_owner")
	p, err := plan.Generate(source, target, "s", "t", "", nil)
	require.NoError(t, err)

	// Re-extracting the source at apply time finds the schema already
	// exists but with a different owner than either the plan's source
	// (absent) or target (app_owner) snapshot — neither fingerprint
	// matches, so apply must refuse.
	drifted := schemaCatalog("someone_else")
	_, err = Apply(context.Background(), &db.FakeDB{}, p, func(context.Context) (*catalog.Catalog, error) {
		return drifted, nil
	}, NewNoopLogger())

	var mismatch FingerprintMismatchError
	assert.ErrorAs(t, err, &mismatch)
}

func TestApplyRunsStatementsWhenSourceMatches(t *testing.T) {
	t.Parallel()

	source := catalog.New()
	target := schemaCatalog("app_owner")
	p, err := plan.Generate(source, target, "s", "t", "", nil)
	require.NoError(t, err)

	calls := 0
	extract := func(context.Context) (*catalog.Catalog, error) {
		calls++
		if calls == 1 {
			return source, nil
		}
		return target, nil
	}

	result, err := Apply(context.Background(), &db.FakeDB{}, p, extract, NewNoopLogger())
	require.NoError(t, err)
	assert.Equal(t, len(p.Statements), result.StatementsApplied)
	assert.Empty(t, result.Warnings)
}

func TestApplyWarnsOnPostApplyMismatch(t *testing.T) {
	t.Parallel()

	source := catalog.New()
	target := schemaCatalog("app_owner")
	p, err := plan.Generate(source, target, "s", "t", "", nil)
	require.NoError(t, err)

	calls := 0
	extract := func(context.Context) (*catalog.Catalog, error) {
		calls++
		if calls == 1 {
			return source, nil
		}
		// Post-apply re-extraction still looks like source: the statements
		// didn't actually run against a real database (FakeDB is a no-op),
		// so the post-apply fingerprint should disagree with the target's.
		return source, nil
	}

	result, err := Apply(context.Background(), &db.FakeDB{}, p, extract, NewNoopLogger())
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "post-apply fingerprint mismatch")
}

func TestVerifyPostApply(t *testing.T) {
	t.Parallel()

	source := catalog.New()
	target := schemaCatalog("app_owner")
	p, err := plan.Generate(source, target, "s", "t", "", nil)
	require.NoError(t, err)

	ok, err := VerifyPostApply(context.Background(), func(context.Context) (*catalog.Catalog, error) {
		return target, nil
	}, p)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPostApply(context.Background(), func(context.Context) (*catalog.Catalog, error) {
		return source, nil
	}, p)
	require.NoError(t, err)
	assert.False(t, ok)
}
