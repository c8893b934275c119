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

const interviewColumns = `
	id, candidate_id, scheduled_date, interview_level, interviewer, interview_link,
	notes, status, created_by, created_at, updated_at`

func scanInterview(row pgx.Row, iv *model.Interview) error {
	return row.Scan(
		&iv.ID, &iv.CandidateID, &iv.ScheduledDate, &iv.InterviewLevel, &iv.Interviewer,
		&iv.InterviewLink, &iv.Notes, &iv.Status, &iv.CreatedBy, &iv.CreatedAt, &iv.UpdatedAt,
	)
}

type InterviewRepo struct {
	pool *pgxpool.Pool
}

func NewInterviewRepo(pool *pgxpool.Pool) *InterviewRepo {
	return &InterviewRepo{pool: pool}
}

// ListByCandidate returns interviews in schedule order
func (r *InterviewRepo) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]model.Interview, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+interviewColumns+`
		FROM interviews
		WHERE candidate_id = $1
		ORDER BY scheduled_date DESC
	`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("listing interviews: %w", err)
	}
	defer rows.Close()

	return scanRows(rows, "interview", scanInterview)
}

// FindByID returns nil, nil when the interview does not belong to the candidate
func (r *InterviewRepo) FindByID(ctx context.Context, candidateID, id uuid.UUID) (*model.Interview, error) {
	var iv model.Interview
	err := scanInterview(r.pool.QueryRow(ctx, `
		SELECT`+interviewColumns+`
		FROM interviews
		WHERE id = $1 AND candidate_id = $2
	`, id, candidateID), &iv)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding interview: %w", err)
	}
	return &iv, nil
}

func (r *InterviewRepo) Create(ctx context.Context, iv *model.Interview) (*model.Interview, error) {
	var created model.Interview
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := scanInterview(tx.QueryRow(ctx, `
			INSERT INTO interviews (candidate_id, scheduled_date, interview_level, interviewer,
			                        interview_link, notes, status, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING`+interviewColumns,
			iv.CandidateID, iv.ScheduledDate, iv.InterviewLevel, iv.Interviewer,
			iv.InterviewLink, iv.Notes, iv.Status, iv.CreatedBy,
		), &created)
		if err != nil {
			return fmt.Errorf("creating interview: %w", err)
		}
		return bumpVersion(ctx, tx, iv.CandidateID)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *InterviewRepo) Update(ctx context.Context, iv *model.Interview) (*model.Interview, error) {
	var updated model.Interview
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := scanInterview(tx.QueryRow(ctx, `
			UPDATE interviews
			SET scheduled_date = $3, interview_level = $4, interviewer = $5,
			    interview_link = $6, notes = $7, status = $8, updated_at = now()
			WHERE id = $1 AND candidate_id = $2
			RETURNING`+interviewColumns,
			iv.ID, iv.CandidateID, iv.ScheduledDate, iv.InterviewLevel, iv.Interviewer,
			iv.InterviewLink, iv.Notes, iv.Status,
		), &updated)
		if err != nil {
			return fmt.Errorf("updating interview: %w", err)
		}
		return bumpVersion(ctx, tx, iv.CandidateID)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *InterviewRepo) Delete(ctx context.Context, candidateID, id uuid.UUID) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `DELETE FROM interviews WHERE id = $1 AND candidate_id = $2`, id, candidateID)
		if err != nil {
			return fmt.Errorf("deleting interview: %w", err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("deleting interview: %w", apperr.ErrNotFound)
		}
		return bumpVersion(ctx, tx, candidateID)
	})
}
