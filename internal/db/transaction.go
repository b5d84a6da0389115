package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eoserv-go/worldcore/internal/apperr"
)

// SaveFunc writes whatever the caller wants into the open transaction.
// This is the injected collaborator §1's Non-goals carve out — the
// actual mapping from a live model.Character (or account record) to SQL
// rows is "persisted character I/O", out of this module's scope; this
// package only gives the caller a transaction and a commit boundary.
type SaveFunc func(ctx context.Context, tx pgx.Tx) error

// TransactionBuffer implements §5's per-tick write buffering: writes
// accumulate against a single open transaction across many ticks, and
// that transaction commits only at the timed-save boundary. A commit
// failure rolls back that window only — in-memory state is never
// discarded — logs at warn level, and reopens a fresh transaction so
// buffering can resume immediately.
//
// Grounded on the teacher's PlayerPersistenceService.SavePlayer: begin
// a tx, run the sequence of writes, commit, with a deferred
// rollback-if-not-committed safety net. Generalized here from a fixed
// repository-call sequence into an open-ended list of buffered
// SaveFuncs, since this package doesn't own the row shapes its callers
// write.
type TransactionBuffer struct {
	pool *pgxpool.Pool

	tx      pgx.Tx
	pending []SaveFunc
}

// NewTransactionBuffer opens the first transaction window against pool.
func NewTransactionBuffer(ctx context.Context, pool *pgxpool.Pool) (*TransactionBuffer, error) {
	b := &TransactionBuffer{pool: pool}
	if err := b.reopen(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *TransactionBuffer) reopen(ctx context.Context) error {
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("db: opening transaction window: %v: %w", err, apperr.ErrDatabaseTransient)
	}
	b.tx = tx
	b.pending = nil
	return nil
}

// Buffer queues fn to run against the current transaction window. fn
// runs immediately (so later buffered writes in the same window observe
// earlier ones), but nothing is durable until Commit succeeds at the
// next timed-save boundary.
func (b *TransactionBuffer) Buffer(ctx context.Context, fn SaveFunc) error {
	if err := fn(ctx, b.tx); err != nil {
		return fmt.Errorf("db: buffering write: %w", err)
	}
	b.pending = append(b.pending, fn)
	return nil
}

// Commit is the timed-save boundary (§4.10's "timed save" tick, wired
// through scheduler.Hooks.OnTimedSave). On success the window's writes
// become durable and a fresh window opens immediately. On failure the
// window is rolled back and reopened — in-memory world state is
// untouched either way, matching §7's DatabaseTransient surfacing.
func (b *TransactionBuffer) Commit(ctx context.Context) error {
	err := b.tx.Commit(ctx)
	if err != nil {
		slog.Warn("timed-save commit failed, rolling back window", "error", err)
		_ = b.tx.Rollback(ctx)
		if reopenErr := b.reopen(ctx); reopenErr != nil {
			return reopenErr
		}
		return fmt.Errorf("db: commit failed: %v: %w", err, apperr.ErrDatabaseTransient)
	}
	return b.reopen(ctx)
}

// Close rolls back any uncommitted window writes and releases the
// connection. Safe to call after a failed reopen.
func (b *TransactionBuffer) Close(ctx context.Context) {
	if b.tx == nil {
		return
	}
	if err := b.tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
		slog.Error("rollback on close failed", "error", err)
	}
}
