package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/staffhub/candidate-grid/internal/apperr"
	"github.com/staffhub/candidate-grid/internal/interview"
	"github.com/staffhub/candidate-grid/internal/model"
	"github.com/staffhub/candidate-grid/internal/submission"
)

// MutationRecorder counts sub-resource writes
type MutationRecorder interface {
	RecordMutation(resource, op string)
}

// Mutation operations
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// ScheduleGuard validates submissions and interviews against the clock before
// they reach the repository.
type ScheduleGuard struct {
	now func() time.Time
}

func NewScheduleGuard(now func() time.Time) *ScheduleGuard {
	if now == nil {
		now = time.Now
	}
	return &ScheduleGuard{now: now}
}

// Submission rejects future dates and negative numbers
func (g *ScheduleGuard) Submission(s model.Submission) error {
	if err := submission.Validate(s, g.now()); err != nil {
		return apperr.Validation("Invalid Submission", err)
	}
	return nil
}

// NewInterview requires level, interviewer and a date that is not in the past
func (g *ScheduleGuard) NewInterview(iv *model.Interview) error {
	if err := interview.Validate(iv, g.now()); err != nil {
		return apperr.Validation("Invalid Interview", err)
	}
	return nil
}

// UpdatedInterview only applies the past-date rule when the interview is rescheduled
func (g *ScheduleGuard) UpdatedInterview(iv *model.Interview, previous model.Interview) error {
	if err := interview.ValidateUpdate(iv, previous, g.now()); err != nil {
		return apperr.Validation("Invalid Interview", err)
	}
	return nil
}

// Offer checks the offer status
func (g *ScheduleGuard) Offer(o *model.OfferDetail) error {
	if o.Status == "" {
		o.Status = model.OfferDraft
	}
	if !model.ValidOfferStatus(o.Status) {
		return apperr.Validation("Invalid Offer", fmt.Errorf("unknown offer status %q", o.Status))
	}
	return nil
}

// BackgroundCheck requires provider and type and checks the status
func (g *ScheduleGuard) BackgroundCheck(b *model.BackgroundCheck) error {
	if b.Provider == "" || b.CheckType == "" {
		return apperr.Validation("Invalid Background Check", fmt.Errorf("provider and check type are required"))
	}
	if b.Status == "" {
		b.Status = model.CheckPending
	}
	if !model.ValidCheckStatus(b.Status) {
		return apperr.Validation("Invalid Background Check", fmt.Errorf("unknown background check status %q", b.Status))
	}
	if b.Status == model.CheckClear || b.Status == model.CheckConsider || b.Status == model.CheckFailed {
		if b.CompletedAt == nil {
			t := g.now()
			b.CompletedAt = &t
		}
	}
	return nil
}

// Reload re-reads the aggregate after a mutation
func Reload(ctx context.Context, details DetailLoader, id uuid.UUID) (*model.CandidateDetail, error) {
	detail, err := details.LoadDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reloading candidate: %w", err)
	}
	if detail == nil {
		return nil, apperr.NotFound("Candidate")
	}
	return detail, nil
}
