package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/staffhub/candidate-grid/internal/apperr"
	"github.com/staffhub/candidate-grid/internal/model"
)

// fakeRepo is an in-memory stand-in for the candidate, detail and attachment repositories
type fakeRepo struct {
	mu          sync.Mutex
	candidates  map[uuid.UUID]*model.Candidate
	attachments map[uuid.UUID]model.Attachment
	submissions map[uuid.UUID][]model.Submission
	interviews  map[uuid.UUID][]model.Interview
	statusCalls int
	loadCalls   int
	updateErr   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		candidates:  make(map[uuid.UUID]*model.Candidate),
		attachments: make(map[uuid.UUID]model.Attachment),
		submissions: make(map[uuid.UUID][]model.Submission),
		interviews:  make(map[uuid.UUID][]model.Interview),
	}
}

func (f *fakeRepo) add(status string) uuid.UUID {
	id := uuid.New()
	f.candidates[id] = &model.Candidate{ID: id, FirstName: "Ada", LastName: "Lovelace", Status: status, Version: 1}
	return id
}

func (f *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.candidates[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, expectedFrom, newStatus, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	c, ok := f.candidates[id]
	if !ok {
		return apperr.ErrNotFound
	}
	if c.Status != expectedFrom {
		return apperr.ErrConflict
	}
	f.statusCalls++
	c.Status = newStatus
	c.Version++
	return nil
}

func (f *fakeRepo) LoadDetail(_ context.Context, id uuid.UUID) (*model.CandidateDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadCalls++
	c, ok := f.candidates[id]
	if !ok {
		return nil, nil
	}
	d := &model.CandidateDetail{
		Candidate:   *c,
		Submissions: f.submissions[id],
		Interviews:  f.interviews[id],
	}
	for _, a := range f.attachments {
		if a.CandidateID == id {
			d.Attachments = append(d.Attachments, a)
		}
	}
	return d, nil
}

type fakeAttachments struct {
	*fakeRepo
}

func (f fakeAttachments) FindByID(_ context.Context, candidateID, id uuid.UUID) (*model.Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.attachments[id]
	if !ok || a.CandidateID != candidateID {
		return nil, nil
	}
	return &a, nil
}

func (f fakeAttachments) Create(_ context.Context, a *model.Attachment) (*model.Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = uuid.New()
	f.attachments[a.ID] = *a
	return a, nil
}

func (f fakeAttachments) Delete(_ context.Context, candidateID, id uuid.UUID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.attachments[id]
	if !ok || a.CandidateID != candidateID {
		return "", apperr.ErrNotFound
	}
	delete(f.attachments, id)
	return a.StorageKey, nil
}

type fakeRecorder struct {
	transitions []string
	refused     []string
}

func (r *fakeRecorder) RecordTransition(kind, from, to string) {
	r.transitions = append(r.transitions, kind+":"+from+"->"+to)
}

func (r *fakeRecorder) RecordRefused(kind, reason string) {
	r.refused = append(r.refused, kind+":"+reason)
}
