package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/staffhub/candidate-grid/internal/apperr"
	"github.com/staffhub/candidate-grid/internal/gridstate"
	"github.com/staffhub/candidate-grid/internal/interview"
	"github.com/staffhub/candidate-grid/internal/model"
	"github.com/staffhub/candidate-grid/internal/paging"
	"github.com/staffhub/candidate-grid/internal/pipeline"
	"github.com/staffhub/candidate-grid/internal/submission"
)

// StageIndicator is one step of the pipeline strip
type StageIndicator struct {
	Stage     pipeline.Stage `json:"stage"`
	Active    bool           `json:"active"`
	Completed bool           `json:"completed"`
}

// Panel is the view model of the candidate side panel
type Panel struct {
	Candidate   *model.CandidateDetail     `json:"candidate"`
	Status      pipeline.Status            `json:"status"`
	Stages      []StageIndicator           `json:"stages"`
	Submissions submission.View            `json:"submissions"`
	Interviews  paging.Page[interview.Row] `json:"interviews"`
	State       *gridstate.State           `json:"state,omitempty"`
}

// PanelQuery selects the submission window and both pages
type PanelQuery struct {
	Filter         string
	From           time.Time
	To             time.Time
	SubmissionPage int
	InterviewPage  int
}

// PanelService builds panel view models and keeps each user's grid session.
type PanelService struct {
	details DetailLoader
	states  gridstate.Store
	now     func() time.Time
}

func NewPanelService(details DetailLoader, states gridstate.Store) *PanelService {
	return &PanelService{details: details, states: states, now: time.Now}
}

// Build loads the candidate and derives every tab's view
func (s *PanelService) Build(ctx context.Context, id uuid.UUID, q PanelQuery) (*Panel, error) {
	detail, err := s.details.LoadDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading candidate: %w", err)
	}
	if detail == nil {
		return nil, apperr.NotFound("Candidate")
	}

	status := pipeline.Resolve(detail.Status)
	return &Panel{
		Candidate:   detail,
		Status:      status,
		Stages:      indicators(status.Stage),
		Submissions: submission.BuildView(detail.Submissions, q.Filter, q.From, q.To, q.SubmissionPage, s.now()),
		Interviews:  interview.Paginate(detail.Interviews, q.InterviewPage),
	}, nil
}

// ForUser builds the panel for whatever the user's session has open.
// With nothing selected it returns the session alone.
func (s *PanelService) ForUser(ctx context.Context, userKey string) (*Panel, error) {
	st, err := s.states.Get(ctx, userKey)
	if err != nil {
		return nil, fmt.Errorf("loading grid state: %w", err)
	}
	if st.CandidateID == uuid.Nil {
		return &Panel{State: &st}, nil
	}

	p, err := s.Build(ctx, st.CandidateID, PanelQuery{
		Filter:         st.SubmissionFilter.Token,
		From:           st.SubmissionFilter.From,
		To:             st.SubmissionFilter.To,
		SubmissionPage: st.SubmissionPage,
		InterviewPage:  st.InterviewPage,
	})
	if err != nil {
		return nil, err
	}
	p.State = &st
	return p, nil
}

// State returns the user's grid session
func (s *PanelService) State(ctx context.Context, userKey string) (gridstate.State, error) {
	st, err := s.states.Get(ctx, userKey)
	if err != nil {
		return st, fmt.Errorf("loading grid state: %w", err)
	}
	return st, nil
}

// UpdateState applies fn to the user's session and saves it. Errors from fn
// are returned as validation failures and nothing is saved.
func (s *PanelService) UpdateState(ctx context.Context, userKey string, fn func(*gridstate.State) error) (gridstate.State, error) {
	var invalid error
	st, err := s.states.Update(ctx, userKey, func(st *gridstate.State) error {
		if err := fn(st); err != nil {
			invalid = err
			return err
		}
		st.UpdatedAt = s.now().UTC()
		return nil
	})
	if invalid != nil {
		return st, apperr.Validation("Invalid Grid State", invalid)
	}
	if err != nil {
		return st, fmt.Errorf("saving grid state: %w", err)
	}
	return st, nil
}

// SelectCandidate opens id in the user's session after checking it exists
func (s *PanelService) SelectCandidate(ctx context.Context, userKey string, id uuid.UUID) (gridstate.State, error) {
	detail, err := s.details.LoadDetail(ctx, id)
	if err != nil {
		return gridstate.State{}, fmt.Errorf("loading candidate: %w", err)
	}
	if detail == nil {
		return gridstate.State{}, apperr.NotFound("Candidate")
	}
	return s.UpdateState(ctx, userKey, func(st *gridstate.State) error {
		st.SelectCandidate(id)
		return nil
	})
}

// CloseNoteEditor returns the user's note editor to Closed
func (s *PanelService) CloseNoteEditor(ctx context.Context, userKey string) error {
	_, err := s.UpdateState(ctx, userKey, func(st *gridstate.State) error {
		return st.SetNoteEditor(gridstate.Closed())
	})
	return err
}

// indicators marks the current stage active and every earlier forward stage
// completed. A rejected candidate has only Rejected active.
func indicators(current pipeline.Stage) []StageIndicator {
	stages := pipeline.Stages()
	out := make([]StageIndicator, len(stages))
	for i, st := range stages {
		out[i] = StageIndicator{Stage: st, Active: st == current}
		if current != pipeline.StageRejected && st != pipeline.StageRejected {
			out[i].Completed = st.Index() < current.Index()
		}
	}
	return out
}
