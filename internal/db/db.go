// Package db implements the §5/§7 transaction-window mechanics this
// module's Non-goals leave room for: a pgx connection pool, goose
// migrations for the persisted schema §6 names, and a TransactionBuffer
// that buffers writes into a per-tick transaction and commits it at the
// timed-save boundary (§5 "Database writes are buffered into a per-tick
// transaction that commits at the timed-save boundary; a commit failure
// rolls back that window only, and no in-memory state is discarded").
//
// What this package deliberately does NOT do: map a live model.Character
// to SQL rows, or otherwise implement account/character persistence
// logic. §1's Non-goals name both "the account database" and "persisted
// character I/O" as external collaborators with documented interfaces
// only — this package gives the caller a transaction to write into and
// a commit/rollback boundary to write at, but the actual save/load
// queries are supplied by the caller as an injected SaveFunc, the same
// way cmd/worldserver represents every other out-of-scope collaborator
// as a narrow injected interface rather than an implementation.
//
// Grounded on the teacher's internal/db package: DB wraps a pgxpool.Pool
// with New/Close/Pool (db.go), RunMigrations drives goose against an
// embedded migrations.FS guarded by a sync.Once (migrate.go), and
// PlayerPersistenceService.SavePlayer's begin/sequential-writes/commit
// shape with a deferred rollback-if-not-committed safety net
// (persistence.go) — generalized here into a single reusable
// TransactionBuffer instead of a fixed sequence of repository calls,
// since this package doesn't own the row shapes being written.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a pgx connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and returns a DB handle.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("db: connecting: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db: pinging: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close closes the underlying connection pool.
func (d *DB) Close() {
	d.pool.Close()
}

// Pool returns the underlying pgx pool, for goose migrations and for
// constructing a TransactionBuffer.
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}
