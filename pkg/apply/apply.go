// SPDX-License-Identifier: Apache-2.0

// Package apply implements the thin transactional executor spec.md lists as
// an external collaborator (§1: "out of scope... specified only by
// interface") and SPEC_FULL.md's module layout assigns a real, if small,
// implementation: it gates a Plan's application on the source fingerprint,
// runs its statements, and checks the post-apply target fingerprint as a
// non-fatal warning (§4.6, §7, §8 property 3).
package apply

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dbshift/pgdiffkit/pkg/catalog"
	"github.com/dbshift/pgdiffkit/pkg/db"
	"github.com/dbshift/pgdiffkit/pkg/fingerprint"
	"github.com/dbshift/pgdiffkit/pkg/plan"
)

// Extractor re-extracts a Catalog from the connection apply is targeting,
// so apply can recompute the source fingerprint immediately before running
// and the post-apply fingerprint immediately after — the shape Apply needs
// instead of depending on pkg/catalog.Extractor directly, so tests can
// inject a fake without a real database.
type Extractor func(ctx context.Context) (*catalog.Catalog, error)

// Result is returned by a successful Apply.
type Result struct {
	RunID             string
	StatementsApplied int

	// Warnings carries non-fatal findings, notably a post-apply fingerprint
	// mismatch (spec.md §7). Empty on a clean run.
	Warnings []string
}

// Apply runs p's statements against conn after verifying the source
// fingerprint still matches, and reports (but does not fail on) a
// post-apply target fingerprint mismatch. extract is called once before and
// once after applying.
func Apply(ctx context.Context, conn db.DB, p *plan.Plan, extract Extractor, logger Logger) (*Result, error) {
	if logger == nil {
		logger = NewNoopLogger()
	}
	runID := uuid.NewString()

	if p.IsEmpty() {
		logger.Info("plan is empty, nothing to apply", "run_id", runID)
		return &Result{RunID: runID}, nil
	}

	before, err := extract(ctx)
	if err != nil {
		return nil, fmt.Errorf("apply: re-extracting source catalog: %w", err)
	}

	ids := fingerprint.StableIDSet(p.StableIDs)
	currentFP, err := fingerprint.Compute(before, ids)
	if err != nil {
		return nil, fmt.Errorf("apply: computing pre-apply fingerprint: %w", err)
	}

	if currentFP == p.Target.Fingerprint {
		return nil, AlreadyAppliedError{}
	}
	if currentFP != p.Source.Fingerprint {
		return nil, FingerprintMismatchError{Expected: p.Source.Fingerprint, Actual: currentFP}
	}

	logger.LogApplyStart(runID, len(p.Statements))

	err = conn.WithRetryableTransaction(ctx, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		for i, stmt := range p.Statements {
			logger.LogStatement(runID, i, stmt)
			if _, err := execStatement(ctx, conn, tx, stmt); err != nil {
				return StatementError{Index: i, Statement: stmt, Err: err}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.LogApplyComplete(runID, len(p.Statements))

	warnings := append([]string{}, p.Warnings...)
	if w := verifyPostApply(ctx, extract, p, ids); w != "" {
		logger.LogWarning(runID, w)
		warnings = append(warnings, w)
	}

	return &Result{
		RunID:             runID,
		StatementsApplied: len(p.Statements),
		Warnings:          warnings,
	}, nil
}

// execStatement runs stmt on tx when one is available (the common case,
// inside Apply's single transaction), falling back to conn directly for
// callers that pass a nil tx (FakeDB in pre-transaction-gate tests).
func execStatement(ctx context.Context, conn db.DB, tx *sql.Tx, stmt string) (sql.Result, error) {
	if tx != nil {
		return tx.ExecContext(ctx, stmt)
	}
	return conn.ExecContext(ctx, stmt)
}

// verifyPostApply re-extracts the catalog after applying and compares its
// fingerprint over p's stable IDs to p.Target.Fingerprint, returning a
// human-readable warning message when they differ, or "" when they match.
// A re-extraction failure itself becomes a warning rather than failing the
// already-successful apply (spec.md §7: "post-apply fingerprint mismatch
// (warning, not fatal)").
func verifyPostApply(ctx context.Context, extract Extractor, p *plan.Plan, ids map[catalog.StableID]bool) string {
	after, err := extract(ctx)
	if err != nil {
		return fmt.Sprintf("could not verify post-apply fingerprint: %s", err.Error())
	}
	actual, err := fingerprint.Compute(after, ids)
	if err != nil {
		return fmt.Sprintf("could not compute post-apply fingerprint: %s", err.Error())
	}
	if actual != p.Target.Fingerprint {
		return PostApplyFingerprintMismatchError{Expected: p.Target.Fingerprint, Actual: actual}.Error()
	}
	return ""
}

// VerifyPostApply is the standalone form of the post-apply check, exposed
// for callers (e.g. the CLI's `sync` command) that want to re-verify
// without running Apply again.
func VerifyPostApply(ctx context.Context, extract Extractor, p *plan.Plan) (bool, error) {
	ids := fingerprint.StableIDSet(p.StableIDs)
	after, err := extract(ctx)
	if err != nil {
		return false, fmt.Errorf("apply: re-extracting target catalog: %w", err)
	}
	actual, err := fingerprint.Compute(after, ids)
	if err != nil {
		return false, fmt.Errorf("apply: computing post-apply fingerprint: %w", err)
	}
	return actual == p.Target.Fingerprint, nil
}
