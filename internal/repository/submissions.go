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

const submissionColumns = `id, candidate_id, submission_date, submission_number, created_by, created_at`

func scanSubmission(row pgx.Row, s *model.Submission) error {
	return row.Scan(&s.ID, &s.CandidateID, &s.SubmissionDate, &s.SubmissionNumber, &s.CreatedBy, &s.CreatedAt)
}

type SubmissionRepo struct {
	pool *pgxpool.Pool
}

func NewSubmissionRepo(pool *pgxpool.Pool) *SubmissionRepo {
	return &SubmissionRepo{pool: pool}
}

// ListByCandidate returns submissions newest first
func (r *SubmissionRepo) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]model.Submission, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions
		WHERE candidate_id = $1
		ORDER BY submission_date DESC, created_at DESC
	`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	defer rows.Close()

	return scanRows(rows, "submission", scanSubmission)
}

func (r *SubmissionRepo) Create(ctx context.Context, s *model.Submission) (*model.Submission, error) {
	var created model.Submission
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := scanSubmission(tx.QueryRow(ctx, `
			INSERT INTO submissions (candidate_id, submission_date, submission_number, created_by)
			VALUES ($1, $2, $3, $4)
			RETURNING `+submissionColumns,
			s.CandidateID, s.SubmissionDate, s.SubmissionNumber, s.CreatedBy,
		), &created)
		if err != nil {
			return fmt.Errorf("creating submission: %w", err)
		}
		return bumpVersion(ctx, tx, s.CandidateID)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *SubmissionRepo) Update(ctx context.Context, s *model.Submission) (*model.Submission, error) {
	var updated model.Submission
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := scanSubmission(tx.QueryRow(ctx, `
			UPDATE submissions
			SET submission_date = $3, submission_number = $4
			WHERE id = $1 AND candidate_id = $2
			RETURNING `+submissionColumns,
			s.ID, s.CandidateID, s.SubmissionDate, s.SubmissionNumber,
		), &updated)
		if err != nil {
			return fmt.Errorf("updating submission: %w", err)
		}
		return bumpVersion(ctx, tx, s.CandidateID)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *SubmissionRepo) Delete(ctx context.Context, candidateID, id uuid.UUID) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `DELETE FROM submissions WHERE id = $1 AND candidate_id = $2`, id, candidateID)
		if err != nil {
			return fmt.Errorf("deleting submission: %w", err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("deleting submission: %w", apperr.ErrNotFound)
		}
		return bumpVersion(ctx, tx, candidateID)
	})
}
