package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/staffhub/candidate-grid/internal/apperr"
	"github.com/staffhub/candidate-grid/internal/model"
	"github.com/staffhub/candidate-grid/internal/pipeline"
)

// CandidateFinder looks a candidate up, returning nil, nil when missing
type CandidateFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Candidate, error)
}

// CandidateStatusStore is the slice of the candidate repository the pipeline needs
type CandidateStatusStore interface {
	CandidateFinder
	UpdateStatus(ctx context.Context, id uuid.UUID, expectedFrom, newStatus, changedBy, note string) error
}

// DetailLoader re-reads the whole candidate aggregate
type DetailLoader interface {
	LoadDetail(ctx context.Context, id uuid.UUID) (*model.CandidateDetail, error)
}

// TransitionRecorder receives pipeline outcomes for metrics
type TransitionRecorder interface {
	RecordTransition(kind, from, to string)
	RecordRefused(kind, reason string)
}

// Transition kinds
const (
	KindAdvance = "advance"
	KindJump    = "jump"
	KindReject  = "reject"
)

// Transition is the outcome of a stage change request. When Changed is false
// the candidate was left untouched and Message explains why.
type Transition struct {
	From    pipeline.Stage         `json:"from"`
	To      pipeline.Stage         `json:"to"`
	Changed bool                   `json:"changed"`
	Message string                 `json:"message,omitempty"`
	Detail  *model.CandidateDetail `json:"candidate"`
}

// PipelineService applies stage transitions and records them in status history.
type PipelineService struct {
	candidates CandidateStatusStore
	details    DetailLoader
	recorder   TransitionRecorder
}

func NewPipelineService(candidates CandidateStatusStore, details DetailLoader, recorder TransitionRecorder) *PipelineService {
	return &PipelineService{candidates: candidates, details: details, recorder: recorder}
}

// Advance moves the candidate to the next stage
func (s *PipelineService) Advance(ctx context.Context, id uuid.UUID, actor string) (*Transition, error) {
	return s.apply(ctx, id, actor, KindAdvance, "", pipeline.Advance)
}

// JumpTo moves the candidate straight to target, in either direction
func (s *PipelineService) JumpTo(ctx context.Context, id uuid.UUID, target pipeline.Stage, actor, note string) (*Transition, error) {
	return s.apply(ctx, id, actor, KindJump, note, func(current pipeline.Stage) (pipeline.Stage, error) {
		return pipeline.JumpTo(current, target)
	})
}

// Reject moves the candidate to Rejected
func (s *PipelineService) Reject(ctx context.Context, id uuid.UUID, actor, note string) (*Transition, error) {
	return s.apply(ctx, id, actor, KindReject, note, pipeline.Reject)
}

func (s *PipelineService) apply(
	ctx context.Context,
	id uuid.UUID,
	actor, kind, note string,
	next func(pipeline.Stage) (pipeline.Stage, error),
) (*Transition, error) {
	cand, err := s.candidates.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading candidate: %w", err)
	}
	if cand == nil {
		return nil, apperr.NotFound("Candidate")
	}

	from := pipeline.Resolve(cand.Status).Stage
	to, err := next(from)
	if err != nil {
		s.refused(kind, err)
		if !pipeline.IsSignal(err) {
			return nil, apperr.Validation("Invalid Transition", err)
		}
		detail, loadErr := s.reload(ctx, id)
		if loadErr != nil {
			return nil, loadErr
		}
		return &Transition{From: from, To: from, Message: err.Error(), Detail: detail}, nil
	}

	if err := s.candidates.UpdateStatus(ctx, id, cand.Status, to.String(), actor, note); err != nil {
		return nil, err
	}
	if s.recorder != nil {
		s.recorder.RecordTransition(kind, from.String(), to.String())
	}

	log.Info().
		Str("candidateId", id.String()).
		Str("kind", kind).
		Str("from", from.String()).
		Str("to", to.String()).
		Str("by", actor).
		Msg("Candidate stage changed")

	detail, err := s.reload(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Transition{From: from, To: to, Changed: true, Detail: detail}, nil
}

func (s *PipelineService) reload(ctx context.Context, id uuid.UUID) (*model.CandidateDetail, error) {
	return Reload(ctx, s.details, id)
}

func (s *PipelineService) refused(kind string, err error) {
	if s.recorder == nil {
		return
	}
	reason := "invalid"
	switch {
	case errors.Is(err, pipeline.ErrFinalStage):
		reason = "final_stage"
	case errors.Is(err, pipeline.ErrAlreadyAtStage):
		reason = "already_at_stage"
	case errors.Is(err, pipeline.ErrRejected):
		reason = "rejected"
	case errors.Is(err, pipeline.ErrUnknownStage):
		reason = "unknown_stage"
	}
	s.recorder.RecordRefused(kind, reason)
}
