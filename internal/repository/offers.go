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

const offerColumns = `
	id, candidate_id, candidate_name, job_title, job_location, pay_rate, vendor_name,
	client_name, start_date, status, created_by, created_at, updated_by, updated_at`

func scanOffer(row pgx.Row, o *model.OfferDetail) error {
	return row.Scan(
		&o.ID, &o.CandidateID, &o.CandidateName, &o.JobTitle, &o.JobLocation, &o.PayRate,
		&o.VendorName, &o.ClientName, &o.StartDate, &o.Status, &o.CreatedBy, &o.CreatedAt,
		&o.UpdatedBy, &o.UpdatedAt,
	)
}

type OfferRepo struct {
	pool *pgxpool.Pool
}

func NewOfferRepo(pool *pgxpool.Pool) *OfferRepo {
	return &OfferRepo{pool: pool}
}

func (r *OfferRepo) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]model.OfferDetail, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+offerColumns+`
		FROM offer_details
		WHERE candidate_id = $1
		ORDER BY created_at DESC
	`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("listing offers: %w", err)
	}
	defer rows.Close()

	return scanRows(rows, "offer", scanOffer)
}

func (r *OfferRepo) Create(ctx context.Context, o *model.OfferDetail) (*model.OfferDetail, error) {
	var created model.OfferDetail
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := scanOffer(tx.QueryRow(ctx, `
			INSERT INTO offer_details (candidate_id, candidate_name, job_title, job_location, pay_rate,
			                           vendor_name, client_name, start_date, status, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING`+offerColumns,
			o.CandidateID, o.CandidateName, o.JobTitle, o.JobLocation, o.PayRate,
			o.VendorName, o.ClientName, o.StartDate, o.Status, o.CreatedBy,
		), &created)
		if err != nil {
			return fmt.Errorf("creating offer: %w", err)
		}
		return bumpVersion(ctx, tx, o.CandidateID)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *OfferRepo) Update(ctx context.Context, o *model.OfferDetail) (*model.OfferDetail, error) {
	var updated model.OfferDetail
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := scanOffer(tx.QueryRow(ctx, `
			UPDATE offer_details
			SET candidate_name = $3, job_title = $4, job_location = $5, pay_rate = $6,
			    vendor_name = $7, client_name = $8, start_date = $9, status = $10,
			    updated_by = $11, updated_at = now()
			WHERE id = $1 AND candidate_id = $2
			RETURNING`+offerColumns,
			o.ID, o.CandidateID, o.CandidateName, o.JobTitle, o.JobLocation, o.PayRate,
			o.VendorName, o.ClientName, o.StartDate, o.Status, o.UpdatedBy,
		), &updated)
		if err != nil {
			return fmt.Errorf("updating offer: %w", err)
		}
		return bumpVersion(ctx, tx, o.CandidateID)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *OfferRepo) Delete(ctx context.Context, candidateID, id uuid.UUID) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `DELETE FROM offer_details WHERE id = $1 AND candidate_id = $2`, id, candidateID)
		if err != nil {
			return fmt.Errorf("deleting offer: %w", err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("deleting offer: %w", apperr.ErrNotFound)
		}
		return bumpVersion(ctx, tx, candidateID)
	})
}
