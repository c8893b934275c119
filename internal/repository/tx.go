package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// withTx runs fn inside a transaction, committing only if fn succeeds
func withTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// scanRows drains rows through scan. A read error after the last row, such as
// a dropped connection, fails the whole list.
func scanRows[T any](rows pgx.Rows, what string, scan func(pgx.Row, *T) error) ([]T, error) {
	var out []T
	for rows.Next() {
		var v T
		if err := scan(rows, &v); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", what, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading %s rows: %w", what, err)
	}
	return out, nil
}

// bumpVersion marks the candidate aggregate as changed. Every mutation of a
// candidate or one of its sub-resources goes through here so clients can
// tell a fresh reload from a stale one.
func bumpVersion(ctx context.Context, tx pgx.Tx, candidateID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE candidates SET version = version + 1, updated_at = now() WHERE id = $1
	`, candidateID)
	if err != nil {
		return fmt.Errorf("bumping candidate version: %w", err)
	}
	return nil
}

// nullTime lets an unset timestamp fall through to a column default
func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
