package store

import (
	"context"
	"database/sql"
)

// DBTX is the minimal query surface the postgres stores need. Both *sql.DB
// and *sql.Tx satisfy it, so a store can run against the pool or be rebound
// to a transaction (WithTx) without any other change.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
