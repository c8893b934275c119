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

const attachmentColumns = `
	id, candidate_id, file_name, display_name, content_type, size_bytes,
	storage_key, text_preview, uploaded_by, created_at`

func scanAttachment(row pgx.Row, a *model.Attachment) error {
	return row.Scan(
		&a.ID, &a.CandidateID, &a.FileName, &a.DisplayName, &a.ContentType, &a.Size,
		&a.StorageKey, &a.TextPreview, &a.UploadedBy, &a.CreatedAt,
	)
}

type AttachmentRepo struct {
	pool *pgxpool.Pool
}

func NewAttachmentRepo(pool *pgxpool.Pool) *AttachmentRepo {
	return &AttachmentRepo{pool: pool}
}

func (r *AttachmentRepo) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]model.Attachment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+attachmentColumns+`
		FROM attachments
		WHERE candidate_id = $1
		ORDER BY created_at DESC
	`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("listing attachments: %w", err)
	}
	defer rows.Close()

	return scanRows(rows, "attachment", scanAttachment)
}

// FindByID returns nil, nil when the attachment does not belong to the candidate
func (r *AttachmentRepo) FindByID(ctx context.Context, candidateID, id uuid.UUID) (*model.Attachment, error) {
	var a model.Attachment
	err := scanAttachment(r.pool.QueryRow(ctx, `
		SELECT`+attachmentColumns+`
		FROM attachments
		WHERE id = $1 AND candidate_id = $2
	`, id, candidateID), &a)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding attachment: %w", err)
	}
	return &a, nil
}

func (r *AttachmentRepo) Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error) {
	var created model.Attachment
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := scanAttachment(tx.QueryRow(ctx, `
			INSERT INTO attachments (candidate_id, file_name, display_name, content_type,
			                         size_bytes, storage_key, text_preview, uploaded_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING`+attachmentColumns,
			a.CandidateID, a.FileName, a.DisplayName, a.ContentType,
			a.Size, a.StorageKey, a.TextPreview, a.UploadedBy,
		), &created)
		if err != nil {
			return fmt.Errorf("creating attachment: %w", err)
		}
		return bumpVersion(ctx, tx, a.CandidateID)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Delete removes the row and returns its storage key so the caller can drop the blob
func (r *AttachmentRepo) Delete(ctx context.Context, candidateID, id uuid.UUID) (string, error) {
	var key string
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			DELETE FROM attachments WHERE id = $1 AND candidate_id = $2
			RETURNING storage_key
		`, id, candidateID).Scan(&key)
		if err == pgx.ErrNoRows {
			return fmt.Errorf("deleting attachment: %w", apperr.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("deleting attachment: %w", err)
		}
		return bumpVersion(ctx, tx, candidateID)
	})
	return key, err
}
