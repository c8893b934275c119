package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staffhub/candidate-grid/internal/apperr"
	"github.com/staffhub/candidate-grid/internal/model"
)

const checkColumns = `
	id, candidate_id, provider, check_type, status, requested_at, completed_at,
	notes, created_by, created_at`

func scanCheck(row pgx.Row, b *model.BackgroundCheck) error {
	return row.Scan(
		&b.ID, &b.CandidateID, &b.Provider, &b.CheckType, &b.Status, &b.RequestedAt,
		&b.CompletedAt, &b.Notes, &b.CreatedBy, &b.CreatedAt,
	)
}

type BackgroundCheckRepo struct {
	pool *pgxpool.Pool
}

func NewBackgroundCheckRepo(pool *pgxpool.Pool) *BackgroundCheckRepo {
	return &BackgroundCheckRepo{pool: pool}
}

func (r *BackgroundCheckRepo) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]model.BackgroundCheck, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+checkColumns+`
		FROM background_checks
		WHERE candidate_id = $1
		ORDER BY requested_at DESC
	`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("listing background checks: %w", err)
	}
	defer rows.Close()

	return scanRows(rows, "background check", scanCheck)
}

func (r *BackgroundCheckRepo) Create(ctx context.Context, b *model.BackgroundCheck) (*model.BackgroundCheck, error) {
	var created model.BackgroundCheck
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := scanCheck(tx.QueryRow(ctx, `
			INSERT INTO background_checks (candidate_id, provider, check_type, status,
			                               requested_at, completed_at, notes, created_by)
			VALUES ($1, $2, $3, $4, COALESCE($5, now()), $6, $7, $8)
			RETURNING`+checkColumns,
			b.CandidateID, b.Provider, b.CheckType, b.Status,
			nullTime(b.RequestedAt), b.CompletedAt, b.Notes, b.CreatedBy,
		), &created)
		if err != nil {
			return fmt.Errorf("creating background check: %w", err)
		}
		return bumpVersion(ctx, tx, b.CandidateID)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *BackgroundCheckRepo) Update(ctx context.Context, b *model.BackgroundCheck) (*model.BackgroundCheck, error) {
	var updated model.BackgroundCheck
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := scanCheck(tx.QueryRow(ctx, `
			UPDATE background_checks
			SET provider = $3, check_type = $4, status = $5, completed_at = $6, notes = $7
			WHERE id = $1 AND candidate_id = $2
			RETURNING`+checkColumns,
			b.ID, b.CandidateID, b.Provider, b.CheckType, b.Status, b.CompletedAt, b.Notes,
		), &updated)
		if err != nil {
			return fmt.Errorf("updating background check: %w", err)
		}
		return bumpVersion(ctx, tx, b.CandidateID)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *BackgroundCheckRepo) Delete(ctx context.Context, candidateID, id uuid.UUID) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `DELETE FROM background_checks WHERE id = $1 AND candidate_id = $2`, id, candidateID)
		if err != nil {
			return fmt.Errorf("deleting background check: %w", err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("deleting background check: %w", apperr.ErrNotFound)
		}
		return bumpVersion(ctx, tx, candidateID)
	})
}
