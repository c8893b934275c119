package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staffhub/candidate-grid/internal/apperr"
	"github.com/staffhub/candidate-grid/internal/model"
)

const candidateColumns = `
	id, first_name, last_name, email, phone, location, job_title, skills,
	experience_years, source, status, assigned_to, created_by,
	created_at, updated_at, version`

func scanCandidate(row pgx.Row, c *model.Candidate) error {
	return row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Location,
		&c.JobTitle, &c.Skills, &c.ExperienceYears, &c.Source, &c.Status,
		&c.AssignedTo, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt, &c.Version,
	)
}

type CandidateRepo struct {
	pool *pgxpool.Pool
}

func NewCandidateRepo(pool *pgxpool.Pool) *CandidateRepo {
	return &CandidateRepo{pool: pool}
}

// CandidateFilter narrows the grid listing
type CandidateFilter struct {
	Search string
	Status string
	Page   int
	Limit  int
}

// List returns one page of candidates plus the total matching count
func (r *CandidateRepo) List(ctx context.Context, filter CandidateFilter) ([]model.Candidate, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	argIdx := 1

	if filter.Search != "" {
		where += fmt.Sprintf(` AND (LOWER(first_name || ' ' || last_name) LIKE $%d
		           OR LOWER(email) LIKE $%d OR LOWER(job_title) LIKE $%d)`, argIdx, argIdx, argIdx)
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		argIdx++
	}
	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM candidates"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting candidates: %w", err)
	}

	query := "SELECT" + candidateColumns + " FROM candidates" + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing candidates: %w", err)
	}
	defer rows.Close()

	var candidates []model.Candidate
	for rows.Next() {
		var c model.Candidate
		if err := scanCandidate(rows, &c); err != nil {
			return nil, 0, fmt.Errorf("scanning candidate row: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating candidates: %w", err)
	}
	return candidates, total, nil
}

// FindByID returns nil, nil when the candidate does not exist
func (r *CandidateRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Candidate, error) {
	var c model.Candidate
	err := scanCandidate(r.pool.QueryRow(ctx, "SELECT"+candidateColumns+" FROM candidates WHERE id = $1", id), &c)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding candidate: %w", err)
	}
	return &c, nil
}

func (r *CandidateRepo) Create(ctx context.Context, c *model.Candidate) (*model.Candidate, error) {
	if c.Skills == nil {
		c.Skills = []string{}
	}
	var created model.Candidate
	err := scanCandidate(r.pool.QueryRow(ctx, `
		INSERT INTO candidates (first_name, last_name, email, phone, location, job_title,
		                        skills, experience_years, source, status, assigned_to, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING`+candidateColumns,
		c.FirstName, c.LastName, c.Email, c.Phone, c.Location, c.JobTitle,
		c.Skills, c.ExperienceYears, c.Source, c.Status, c.AssignedTo, c.CreatedBy,
	), &created)
	if err != nil {
		return nil, fmt.Errorf("creating candidate: %w", err)
	}
	return &created, nil
}

// Update edits profile fields. Status is changed only through UpdateStatus.
func (r *CandidateRepo) Update(ctx context.Context, c *model.Candidate) (*model.Candidate, error) {
	if c.Skills == nil {
		c.Skills = []string{}
	}
	var updated model.Candidate
	err := scanCandidate(r.pool.QueryRow(ctx, `
		UPDATE candidates
		SET first_name = $2, last_name = $3, email = $4, phone = $5, location = $6,
		    job_title = $7, skills = $8, experience_years = $9, source = $10,
		    assigned_to = $11, version = version + 1, updated_at = now()
		WHERE id = $1
		RETURNING`+candidateColumns,
		c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.Location,
		c.JobTitle, c.Skills, c.ExperienceYears, c.Source, c.AssignedTo,
	), &updated)
	if err != nil {
		return nil, fmt.Errorf("updating candidate: %w", err)
	}
	return &updated, nil
}

func (r *CandidateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting candidate: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("deleting candidate: %w", apperr.ErrNotFound)
	}
	return nil
}

// UpdateStatus changes the stored status and records history in one transaction.
// expectedFrom guards against a concurrent change between read and write.
func (r *CandidateRepo) UpdateStatus(ctx context.Context, id uuid.UUID, expectedFrom, newStatus, changedBy, note string) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		var current string
		err := tx.QueryRow(ctx, `SELECT status FROM candidates WHERE id = $1 FOR UPDATE`, id).Scan(&current)
		if err != nil {
			return fmt.Errorf("fetching current status: %w", err)
		}
		if current != expectedFrom {
			return fmt.Errorf("status changed from %q to %q concurrently: %w", expectedFrom, current, apperr.ErrConflict)
		}

		_, err = tx.Exec(ctx, `
			UPDATE candidates
			SET status = $2, version = version + 1, updated_at = now()
			WHERE id = $1
		`, id, newStatus)
		if err != nil {
			return fmt.Errorf("updating candidate status: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO status_history (candidate_id, from_status, to_status, changed_by, note)
			VALUES ($1, $2, $3, $4, $5)
		`, id, current, newStatus, changedBy, note)
		if err != nil {
			return fmt.Errorf("recording status history: %w", err)
		}
		return nil
	})
}

// GetHistory returns status changes oldest first
func (r *CandidateRepo) GetHistory(ctx context.Context, candidateID uuid.UUID) ([]model.StatusHistory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, candidate_id, from_status, to_status, changed_by, changed_at, note
		FROM status_history
		WHERE candidate_id = $1
		ORDER BY changed_at ASC
	`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("fetching status history: %w", err)
	}
	defer rows.Close()

	var history []model.StatusHistory
	for rows.Next() {
		var h model.StatusHistory
		if err := rows.Scan(&h.ID, &h.CandidateID, &h.FromStatus, &h.ToStatus, &h.ChangedBy, &h.ChangedAt, &h.Note); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}
	return history, nil
}

// CountByStatus returns raw status counts for the grid header
func (r *CandidateRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM candidates GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scanning count row: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status counts: %w", err)
	}
	return counts, nil
}
