package db

import (
	"context"
	"database/sql"
)

// DBTX is what the block, goal and template repositories run their
// statements against: the pooled *sql.DB for plain reads, the *sql.Tx
// handed out by WithinTx, or a *sql.Conn when a caller pins a connection.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
	_ DBTX = (*sql.Conn)(nil)
)
