package handler

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/staffhub/candidate-grid/internal/apperr"
	"github.com/staffhub/candidate-grid/internal/model"
	"github.com/staffhub/candidate-grid/internal/repository"
)

// memDB backs every store interface the handlers use
type memDB struct {
	mu          sync.Mutex
	candidates  map[uuid.UUID]*model.Candidate
	submissions map[uuid.UUID]model.Submission
	interviews  map[uuid.UUID]model.Interview
	offers      map[uuid.UUID]model.OfferDetail
	notes       map[uuid.UUID]model.Note
	attachments map[uuid.UUID]model.Attachment
	checks      map[uuid.UUID]model.BackgroundCheck
	history     []model.StatusHistory
}

func newMemDB() *memDB {
	return &memDB{
		candidates:  make(map[uuid.UUID]*model.Candidate),
		submissions: make(map[uuid.UUID]model.Submission),
		interviews:  make(map[uuid.UUID]model.Interview),
		offers:      make(map[uuid.UUID]model.OfferDetail),
		notes:       make(map[uuid.UUID]model.Note),
		attachments: make(map[uuid.UUID]model.Attachment),
		checks:      make(map[uuid.UUID]model.BackgroundCheck),
	}
}

func (db *memDB) bump(id uuid.UUID) error {
	c, ok := db.candidates[id]
	if !ok {
		return apperr.ErrNotFound
	}
	c.Version++
	return nil
}

// ── candidates ───────────────────────────────────────

type candidateStore struct{ *memDB }

func (s candidateStore) List(_ context.Context, f repository.CandidateFilter) ([]model.Candidate, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []model.Candidate
	for _, c := range s.candidates {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(c.FullName()), strings.ToLower(f.Search)) {
			continue
		}
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })
	total := len(all)
	start := (f.Page - 1) * f.Limit
	if start > total {
		start = total
	}
	end := start + f.Limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (s candidateStore) FindByID(_ context.Context, id uuid.UUID) (*model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s candidateStore) Create(_ context.Context, c *model.Candidate) (*model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.candidates {
		if existing.Email == c.Email {
			return nil, apperr.Duplicate(nil)
		}
	}
	cp := *c
	cp.ID = uuid.New()
	cp.Version = 1
	s.candidates[cp.ID] = &cp
	return &cp, nil
}

func (s candidateStore) Update(_ context.Context, c *model.Candidate) (*model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.candidates[c.ID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	status, version := existing.Status, existing.Version
	*existing = *c
	existing.Status = status
	existing.Version = version + 1
	cp := *existing
	return &cp, nil
}

func (s candidateStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.candidates[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(s.candidates, id)
	return nil
}

func (s candidateStore) CountByStatus(_ context.Context) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int)
	for _, c := range s.candidates {
		out[c.Status]++
	}
	return out, nil
}

func (s candidateStore) UpdateStatus(_ context.Context, id uuid.UUID, expectedFrom, newStatus, changedBy, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[id]
	if !ok {
		return apperr.ErrNotFound
	}
	if c.Status != expectedFrom {
		return apperr.ErrConflict
	}
	s.history = append(s.history, model.StatusHistory{
		ID: uuid.New(), CandidateID: id, FromStatus: c.Status, ToStatus: newStatus,
		ChangedBy: changedBy, ChangedAt: time.Now(), Note: note,
	})
	c.Status = newStatus
	c.Version++
	return nil
}

func (s candidateStore) GetHistory(_ context.Context, id uuid.UUID) ([]model.StatusHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.StatusHistory
	for _, h := range s.history {
		if h.CandidateID == id {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s candidateStore) LoadDetail(_ context.Context, id uuid.UUID) (*model.CandidateDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[id]
	if !ok {
		return nil, nil
	}
	d := &model.CandidateDetail{
		Candidate:        *c,
		Submissions:      []model.Submission{},
		Interviews:       []model.Interview{},
		OfferDetails:     []model.OfferDetail{},
		Notes:            []model.Note{},
		Attachments:      []model.Attachment{},
		BackgroundChecks: []model.BackgroundCheck{},
	}
	for _, x := range s.submissions {
		if x.CandidateID == id {
			d.Submissions = append(d.Submissions, x)
		}
	}
	for _, x := range s.interviews {
		if x.CandidateID == id {
			d.Interviews = append(d.Interviews, x)
		}
	}
	for _, x := range s.offers {
		if x.CandidateID == id {
			d.OfferDetails = append(d.OfferDetails, x)
		}
	}
	for _, x := range s.notes {
		if x.CandidateID == id {
			d.Notes = append(d.Notes, x)
		}
	}
	for _, x := range s.attachments {
		if x.CandidateID == id {
			d.Attachments = append(d.Attachments, x)
		}
	}
	for _, x := range s.checks {
		if x.CandidateID == id {
			d.BackgroundChecks = append(d.BackgroundChecks, x)
		}
	}
	return d, nil
}

// ── submissions ──────────────────────────────────────

type submissionStore struct{ *memDB }

func (s submissionStore) ListByCandidate(_ context.Context, id uuid.UUID) ([]model.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Submission
	for _, x := range s.submissions {
		if x.CandidateID == id {
			out = append(out, x)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmissionDate.After(out[j].SubmissionDate) })
	return out, nil
}

func (s submissionStore) Create(_ context.Context, x *model.Submission) (*model.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.bump(x.CandidateID); err != nil {
		return nil, err
	}
	x.ID = uuid.New()
	s.submissions[x.ID] = *x
	return x, nil
}

func (s submissionStore) Update(_ context.Context, x *model.Submission) (*model.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.submissions[x.ID]; !ok || cur.CandidateID != x.CandidateID {
		return nil, apperr.ErrNotFound
	}
	s.submissions[x.ID] = *x
	return x, s.bump(x.CandidateID)
}

func (s submissionStore) Delete(_ context.Context, candidateID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.submissions[id]; !ok || cur.CandidateID != candidateID {
		return apperr.ErrNotFound
	}
	delete(s.submissions, id)
	return s.bump(candidateID)
}

// ── interviews ───────────────────────────────────────

type interviewStore struct{ *memDB }

func (s interviewStore) ListByCandidate(_ context.Context, id uuid.UUID) ([]model.Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Interview
	for _, x := range s.interviews {
		if x.CandidateID == id {
			out = append(out, x)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledDate.After(out[j].ScheduledDate) })
	return out, nil
}

func (s interviewStore) FindByID(_ context.Context, candidateID, id uuid.UUID) (*model.Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	x, ok := s.interviews[id]
	if !ok || x.CandidateID != candidateID {
		return nil, nil
	}
	return &x, nil
}

func (s interviewStore) Create(_ context.Context, x *model.Interview) (*model.Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.bump(x.CandidateID); err != nil {
		return nil, err
	}
	x.ID = uuid.New()
	s.interviews[x.ID] = *x
	return x, nil
}

func (s interviewStore) Update(_ context.Context, x *model.Interview) (*model.Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interviews[x.ID] = *x
	return x, s.bump(x.CandidateID)
}

func (s interviewStore) Delete(_ context.Context, candidateID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.interviews[id]; !ok || cur.CandidateID != candidateID {
		return apperr.ErrNotFound
	}
	delete(s.interviews, id)
	return s.bump(candidateID)
}

// ── notes ────────────────────────────────────────────

type noteStore struct{ *memDB }

func (s noteStore) ListByCandidate(_ context.Context, id uuid.UUID) ([]model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Note
	for _, x := range s.notes {
		if x.CandidateID == id {
			out = append(out, x)
		}
	}
	return out, nil
}

func (s noteStore) Create(_ context.Context, candidateID uuid.UUID, content, createdBy string) (*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.bump(candidateID); err != nil {
		return nil, err
	}
	n := model.Note{ID: uuid.New(), CandidateID: candidateID, Content: content, CreatedBy: createdBy}
	s.notes[n.ID] = n
	return &n, nil
}

func (s noteStore) Update(_ context.Context, candidateID, id uuid.UUID, content string) (*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok || n.CandidateID != candidateID {
		return nil, apperr.ErrNotFound
	}
	n.Content = content
	s.notes[id] = n
	return &n, s.bump(candidateID)
}

func (s noteStore) Delete(_ context.Context, candidateID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.notes[id]; !ok || n.CandidateID != candidateID {
		return apperr.ErrNotFound
	}
	delete(s.notes, id)
	return s.bump(candidateID)
}

// ── offers ───────────────────────────────────────────

type offerStore struct{ *memDB }

func (s offerStore) ListByCandidate(_ context.Context, id uuid.UUID) ([]model.OfferDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.OfferDetail
	for _, x := range s.offers {
		if x.CandidateID == id {
			out = append(out, x)
		}
	}
	return out, nil
}

func (s offerStore) Create(_ context.Context, x *model.OfferDetail) (*model.OfferDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.bump(x.CandidateID); err != nil {
		return nil, err
	}
	x.ID = uuid.New()
	s.offers[x.ID] = *x
	return x, nil
}

func (s offerStore) Update(_ context.Context, x *model.OfferDetail) (*model.OfferDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.offers[x.ID]; !ok || cur.CandidateID != x.CandidateID {
		return nil, apperr.ErrNotFound
	}
	s.offers[x.ID] = *x
	return x, s.bump(x.CandidateID)
}

func (s offerStore) Delete(_ context.Context, candidateID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.offers[id]; !ok || cur.CandidateID != candidateID {
		return apperr.ErrNotFound
	}
	delete(s.offers, id)
	return s.bump(candidateID)
}

// ── background checks ────────────────────────────────

type checkStore struct{ *memDB }

func (s checkStore) ListByCandidate(_ context.Context, id uuid.UUID) ([]model.BackgroundCheck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.BackgroundCheck
	for _, x := range s.checks {
		if x.CandidateID == id {
			out = append(out, x)
		}
	}
	return out, nil
}

func (s checkStore) Create(_ context.Context, x *model.BackgroundCheck) (*model.BackgroundCheck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.bump(x.CandidateID); err != nil {
		return nil, err
	}
	x.ID = uuid.New()
	s.checks[x.ID] = *x
	return x, nil
}

func (s checkStore) Update(_ context.Context, x *model.BackgroundCheck) (*model.BackgroundCheck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.checks[x.ID]; !ok || cur.CandidateID != x.CandidateID {
		return nil, apperr.ErrNotFound
	}
	s.checks[x.ID] = *x
	return x, s.bump(x.CandidateID)
}

func (s checkStore) Delete(_ context.Context, candidateID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.checks[id]; !ok || cur.CandidateID != candidateID {
		return apperr.ErrNotFound
	}
	delete(s.checks, id)
	return s.bump(candidateID)
}

// ── attachments ──────────────────────────────────────

type attachmentStore struct{ *memDB }

func (s attachmentStore) ListByCandidate(_ context.Context, id uuid.UUID) ([]model.Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Attachment
	for _, x := range s.attachments {
		if x.CandidateID == id {
			out = append(out, x)
		}
	}
	return out, nil
}

func (s attachmentStore) FindByID(_ context.Context, candidateID, id uuid.UUID) (*model.Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	x, ok := s.attachments[id]
	if !ok || x.CandidateID != candidateID {
		return nil, nil
	}
	return &x, nil
}

func (s attachmentStore) Create(_ context.Context, x *model.Attachment) (*model.Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.bump(x.CandidateID); err != nil {
		return nil, err
	}
	x.ID = uuid.New()
	s.attachments[x.ID] = *x
	return x, nil
}

func (s attachmentStore) Delete(_ context.Context, candidateID, id uuid.UUID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	x, ok := s.attachments[id]
	if !ok || x.CandidateID != candidateID {
		return "", apperr.ErrNotFound
	}
	delete(s.attachments, id)
	return x.StorageKey, s.bump(candidateID)
}
