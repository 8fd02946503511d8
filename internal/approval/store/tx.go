package store

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"wardaudit/internal/platform/postgres"
	dErrors "wardaudit/pkg/domain-errors"
	txcontext "wardaudit/pkg/platform/tx"
)

const defaultTxTimeout = 5 * time.Second

// PostgresTx runs fn inside a database transaction placed in ctx, so the
// approval record and its outbox event commit together.
type PostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func NewPostgresTx(db *sql.DB) *PostgresTx {
	return &PostgresTx{db: db, timeout: defaultTxTimeout}
}

func (t *PostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	return postgres.RunInTx(ctx, t.db, func(tx *sql.Tx) error {
		return fn(txcontext.WithTx(ctx, tx))
	})
}

// InMemoryTx serializes units of work with a coarse lock. It has no rollback:
// writes made before a failure inside fn are kept.
type InMemoryTx struct {
	mu sync.Mutex
}

func NewInMemoryTx() *InMemoryTx {
	return &InMemoryTx{}
}

func (t *InMemoryTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}
