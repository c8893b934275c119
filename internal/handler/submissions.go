package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/staffhub/candidate-grid/internal/middleware"
	"github.com/staffhub/candidate-grid/internal/model"
	"github.com/staffhub/candidate-grid/internal/permission"
	"github.com/staffhub/candidate-grid/internal/service"
	"github.com/staffhub/candidate-grid/internal/submission"
)

type SubmissionStore interface {
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]model.Submission, error)
	Create(ctx context.Context, s *model.Submission) (*model.Submission, error)
	Update(ctx context.Context, s *model.Submission) (*model.Submission, error)
	Delete(ctx context.Context, candidateID, id uuid.UUID) error
}

type SubmissionHandler struct {
	submissions SubmissionStore
	details     DetailLoader
	guard       *service.ScheduleGuard
	recorder    MutationRecorder
	now         func() time.Time
}

func NewSubmissionHandler(submissions SubmissionStore, details DetailLoader, guard *service.ScheduleGuard, recorder MutationRecorder) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions, details: details, guard: guard, recorder: recorder, now: time.Now}
}

type submissionInput struct {
	SubmissionDate   time.Time `json:"submissionDate"`
	SubmissionNumber int       `json:"submissionNumber"`
}

// List handles GET /candidates/:id/submissions?filter&from&to&page
func (h *SubmissionHandler) List(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	from, to := dateRange(c)

	subs, err := h.submissions.ListByCandidate(c.Request.Context(), id)
	if err != nil {
		fail(c, err, "Failed to list submissions")
		return
	}

	view := submission.BuildView(subs, c.Query("filter"), from, to, queryInt(c, "page", 1), h.now())
	okPaged(c, view, model.Pagination{
		Page:       view.Page.Page,
		Limit:      view.Page.PageSize,
		Total:      view.Page.TotalItems,
		TotalPages: view.Page.TotalPages,
	})
}

// Create handles POST /candidates/:id/submissions
func (h *SubmissionHandler) Create(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	var in submissionInput
	if !bindJSON(c, &in) {
		return
	}

	s := model.Submission{
		CandidateID:      id,
		SubmissionDate:   in.SubmissionDate,
		SubmissionNumber: in.SubmissionNumber,
		CreatedBy:        middleware.GetActor(c),
	}
	if err := h.guard.Submission(s); err != nil {
		fail(c, err, "Invalid submission")
		return
	}

	if _, err := h.submissions.Create(c.Request.Context(), &s); err != nil {
		fail(c, err, "Failed to create submission")
		return
	}
	record(h.recorder, permission.ResourceSubmissions, service.OpCreate)
	respondDetail(c, h.details, id, http.StatusCreated)
}

// Update handles PUT /candidates/:id/submissions/:subId
func (h *SubmissionHandler) Update(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	subID, valid := paramID(c, "subId", "submission")
	if !valid {
		return
	}
	var in submissionInput
	if !bindJSON(c, &in) {
		return
	}

	s := model.Submission{
		ID:               subID,
		CandidateID:      id,
		SubmissionDate:   in.SubmissionDate,
		SubmissionNumber: in.SubmissionNumber,
	}
	if err := h.guard.Submission(s); err != nil {
		fail(c, err, "Invalid submission")
		return
	}

	if _, err := h.submissions.Update(c.Request.Context(), &s); err != nil {
		fail(c, err, "Failed to update submission")
		return
	}
	record(h.recorder, permission.ResourceSubmissions, service.OpUpdate)
	respondDetail(c, h.details, id, http.StatusOK)
}

// Delete handles DELETE /candidates/:id/submissions/:subId
func (h *SubmissionHandler) Delete(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	subID, valid := paramID(c, "subId", "submission")
	if !valid {
		return
	}
	if err := h.submissions.Delete(c.Request.Context(), id, subID); err != nil {
		fail(c, err, "Failed to delete submission")
		return
	}
	record(h.recorder, permission.ResourceSubmissions, service.OpDelete)
	respondDetail(c, h.details, id, http.StatusOK)
}

// dateRange reads the optional from/to query parameters (RFC 3339 or
// YYYY-MM-DD). A date-only "to" covers the whole day. Unparseable values stay
// zero, which makes a date-range window match nothing.
func dateRange(c *gin.Context) (from, to time.Time) {
	if v := c.Query("from"); v != "" {
		from, _ = parseDate(v, false)
	}
	if v := c.Query("to"); v != "" {
		to, _ = parseDate(v, true)
	}
	return from, to
}

func parseDate(v string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, v, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t, nil
}
