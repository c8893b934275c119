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

// ---- Notes ----

type NoteRepo struct {
	pool *pgxpool.Pool
}

func NewNoteRepo(pool *pgxpool.Pool) *NoteRepo {
	return &NoteRepo{pool: pool}
}

func (r *NoteRepo) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]model.Note, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, candidate_id, content, created_by, created_at, updated_at
		FROM notes
		WHERE candidate_id = $1
		ORDER BY created_at DESC
	`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.CandidateID, &n.Content, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notes: %w", err)
	}
	return notes, nil
}

func (r *NoteRepo) Create(ctx context.Context, candidateID uuid.UUID, content, createdBy string) (*model.Note, error) {
	var n model.Note
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO notes (candidate_id, content, created_by)
			VALUES ($1, $2, $3)
			RETURNING id, candidate_id, content, created_by, created_at, updated_at
		`, candidateID, content, createdBy).Scan(&n.ID, &n.CandidateID, &n.Content, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt)
		if err != nil {
			return fmt.Errorf("creating note: %w", err)
		}
		return bumpVersion(ctx, tx, candidateID)
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NoteRepo) Update(ctx context.Context, candidateID, id uuid.UUID, content string) (*model.Note, error) {
	var n model.Note
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			UPDATE notes SET content = $3, updated_at = now()
			WHERE id = $1 AND candidate_id = $2
			RETURNING id, candidate_id, content, created_by, created_at, updated_at
		`, id, candidateID, content).Scan(&n.ID, &n.CandidateID, &n.Content, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt)
		if err != nil {
			return fmt.Errorf("updating note: %w", err)
		}
		return bumpVersion(ctx, tx, candidateID)
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NoteRepo) Delete(ctx context.Context, candidateID, id uuid.UUID) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `DELETE FROM notes WHERE id = $1 AND candidate_id = $2`, id, candidateID)
		if err != nil {
			return fmt.Errorf("deleting note: %w", err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("deleting note: %w", apperr.ErrNotFound)
		}
		return bumpVersion(ctx, tx, candidateID)
	})
}
