package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staffhub/candidate-grid/internal/model"
)

// DetailRepo assembles the candidate aggregate from every sub-resource table
type DetailRepo struct {
	candidates  *CandidateRepo
	submissions *SubmissionRepo
	interviews  *InterviewRepo
	offers      *OfferRepo
	notes       *NoteRepo
	attachments *AttachmentRepo
	checks      *BackgroundCheckRepo
}

func NewDetailRepo(pool *pgxpool.Pool) *DetailRepo {
	return &DetailRepo{
		candidates:  NewCandidateRepo(pool),
		submissions: NewSubmissionRepo(pool),
		interviews:  NewInterviewRepo(pool),
		offers:      NewOfferRepo(pool),
		notes:       NewNoteRepo(pool),
		attachments: NewAttachmentRepo(pool),
		checks:      NewBackgroundCheckRepo(pool),
	}
}

// LoadDetail returns nil, nil when the candidate does not exist.
// Sub-resource slices are never nil so the JSON carries empty arrays.
func (r *DetailRepo) LoadDetail(ctx context.Context, id uuid.UUID) (*model.CandidateDetail, error) {
	cand, err := r.candidates.FindByID(ctx, id)
	if err != nil || cand == nil {
		return nil, err
	}

	d := &model.CandidateDetail{Candidate: *cand}

	if d.Submissions, err = r.submissions.ListByCandidate(ctx, id); err != nil {
		return nil, fmt.Errorf("loading detail: %w", err)
	}
	if d.Interviews, err = r.interviews.ListByCandidate(ctx, id); err != nil {
		return nil, fmt.Errorf("loading detail: %w", err)
	}
	if d.OfferDetails, err = r.offers.ListByCandidate(ctx, id); err != nil {
		return nil, fmt.Errorf("loading detail: %w", err)
	}
	if d.Notes, err = r.notes.ListByCandidate(ctx, id); err != nil {
		return nil, fmt.Errorf("loading detail: %w", err)
	}
	if d.Attachments, err = r.attachments.ListByCandidate(ctx, id); err != nil {
		return nil, fmt.Errorf("loading detail: %w", err)
	}
	if d.BackgroundChecks, err = r.checks.ListByCandidate(ctx, id); err != nil {
		return nil, fmt.Errorf("loading detail: %w", err)
	}

	fillEmpty(d)
	return d, nil
}

func fillEmpty(d *model.CandidateDetail) {
	if d.Submissions == nil {
		d.Submissions = []model.Submission{}
	}
	if d.Interviews == nil {
		d.Interviews = []model.Interview{}
	}
	if d.OfferDetails == nil {
		d.OfferDetails = []model.OfferDetail{}
	}
	if d.Notes == nil {
		d.Notes = []model.Note{}
	}
	if d.Attachments == nil {
		d.Attachments = []model.Attachment{}
	}
	if d.BackgroundChecks == nil {
		d.BackgroundChecks = []model.BackgroundCheck{}
	}
	if d.Skills == nil {
		d.Skills = []string{}
	}
}
