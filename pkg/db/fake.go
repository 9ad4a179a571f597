// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"database/sql"
)

// FakeDB is a fake implementation of `DB`. ExecContext and QueryContext are
// no-ops returning nil, nil and record nothing; a caller that reads the
// returned *sql.Rows (pkg/catalog's extractor, pkg/db.ScanFirstValue) cannot
// run against a FakeDB.
// WithRetryableTransaction is only safe to call when f never dereferences
// the *sql.Tx it's passed (nil here) — callers that only need to exercise
// the pre-transaction gates (fingerprint checks, already-applied short
// circuit) can use FakeDB without a real database.
type FakeDB struct{}

func (db *FakeDB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (db *FakeDB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (db *FakeDB) WithRetryableTransaction(ctx context.Context, opts *sql.TxOptions, f func(context.Context, *sql.Tx) error) error {
	return f(ctx, nil)
}

func (db *FakeDB) Close() error {
	return nil
}
