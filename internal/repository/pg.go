package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx. Every
// repository method takes one explicitly, so transaction scope is always
// visible in the call chain and never an ambient global.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxManager runs a function inside a single database transaction,
// committing when it returns nil and rolling back otherwise.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(q Querier) error) error
}

type PGTxManager struct {
	pool *pgxpool.Pool
}

func NewTxManager(pool *pgxpool.Pool) *PGTxManager {
	return &PGTxManager{pool: pool}
}

// WithinTx opens a read-committed transaction. Read committed is sufficient
// because every contended read in this codebase locks its rows explicitly
// (SELECT ... FOR UPDATE on seats, conditional UPDATE on booking status); a
// concurrent writer therefore blocks until the first transaction commits
// and then observes its result.
func (m *PGTxManager) WithinTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ TxManager = (*PGTxManager)(nil)
var _ Querier = (*pgxpool.Pool)(nil)
