// Package tx lets stores join a unit of work opened elsewhere, such as an
// approval record and its audit outbox entry committing together.
package tx

import (
	"context"
	"database/sql"
)

type txKey struct{}

// Executor is what *sql.DB and *sql.Tx have in common for store queries.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Executor = (*sql.DB)(nil)
	_ Executor = (*sql.Tx)(nil)
)

// WithTx binds tx to ctx. A nil tx leaves ctx unchanged.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey{}, tx)
}

// ExecutorFrom returns the transaction bound to ctx, falling back to db.
func ExecutorFrom(ctx context.Context, db *sql.DB) Executor {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}
