// Package postgres implements the store boundary: idempotent upserts for
// transactions and customer summaries, append-only rejected-record logs, and
// the load-run audit trail. Every operation is a single parameterized
// statement; the pool acquires and releases a connection per call, so no
// transaction spans the writes of one batch and each commits independently.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dvloznov/transaction-ingest/internal/config"
)

// Writer performs all store writes for the pipeline.
type Writer struct {
	pool *pgxpool.Pool
}

// NewWriter connects to PostgreSQL using the injected configuration and
// verifies the connection.
func NewWriter(ctx context.Context, cfg config.DatabaseConfig) (*Writer, error) {
	pool, err := pgxpool.New(ctx, cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("NewWriter: creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("NewWriter: pinging database: %w", err)
	}
	return &Writer{pool: pool}, nil
}

// Close releases the connection pool.
func (w *Writer) Close() {
	w.pool.Close()
}

// WriteError reports a failed store operation. The pipeline propagates it and
// aborts the remaining writes of the batch.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("store write %s: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
