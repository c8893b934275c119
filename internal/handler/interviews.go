package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/staffhub/candidate-grid/internal/apperr"
	"github.com/staffhub/candidate-grid/internal/interview"
	"github.com/staffhub/candidate-grid/internal/middleware"
	"github.com/staffhub/candidate-grid/internal/model"
	"github.com/staffhub/candidate-grid/internal/permission"
	"github.com/staffhub/candidate-grid/internal/service"
)

type InterviewStore interface {
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]model.Interview, error)
	FindByID(ctx context.Context, candidateID, id uuid.UUID) (*model.Interview, error)
	Create(ctx context.Context, iv *model.Interview) (*model.Interview, error)
	Update(ctx context.Context, iv *model.Interview) (*model.Interview, error)
	Delete(ctx context.Context, candidateID, id uuid.UUID) error
}

type InterviewHandler struct {
	interviews InterviewStore
	details    DetailLoader
	guard      *service.ScheduleGuard
	recorder   MutationRecorder
}

func NewInterviewHandler(interviews InterviewStore, details DetailLoader, guard *service.ScheduleGuard, recorder MutationRecorder) *InterviewHandler {
	return &InterviewHandler{interviews: interviews, details: details, guard: guard, recorder: recorder}
}

type interviewInput struct {
	ScheduledDate  time.Time `json:"scheduledDate"`
	InterviewLevel string    `json:"interviewLevel"`
	Interviewer    string    `json:"interviewer"`
	InterviewLink  string    `json:"interviewLink"`
	Notes          string    `json:"notes"`
	Status         string    `json:"status"`
}

func (in interviewInput) apply(iv *model.Interview) {
	iv.ScheduledDate = in.ScheduledDate
	iv.InterviewLevel = strings.TrimSpace(in.InterviewLevel)
	iv.Interviewer = strings.TrimSpace(in.Interviewer)
	iv.InterviewLink = strings.TrimSpace(in.InterviewLink)
	iv.Notes = in.Notes
	iv.Status = in.Status
}

// List handles GET /candidates/:id/interviews?page
func (h *InterviewHandler) List(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	ivs, err := h.interviews.ListByCandidate(c.Request.Context(), id)
	if err != nil {
		fail(c, err, "Failed to list interviews")
		return
	}

	page := interview.Paginate(ivs, queryInt(c, "page", 1))
	okPaged(c, page.Items, model.Pagination{
		Page:       page.Page,
		Limit:      page.PageSize,
		Total:      page.TotalItems,
		TotalPages: page.TotalPages,
	})
}

// Create handles POST /candidates/:id/interviews
func (h *InterviewHandler) Create(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	var in interviewInput
	if !bindJSON(c, &in) {
		return
	}

	iv := model.Interview{CandidateID: id, CreatedBy: middleware.GetActor(c)}
	in.apply(&iv)
	if err := h.guard.NewInterview(&iv); err != nil {
		fail(c, err, "Invalid interview")
		return
	}

	if _, err := h.interviews.Create(c.Request.Context(), &iv); err != nil {
		fail(c, err, "Failed to create interview")
		return
	}
	record(h.recorder, permission.ResourceInterviews, service.OpCreate)
	respondDetail(c, h.details, id, http.StatusCreated)
}

// Update handles PUT /candidates/:id/interviews/:subId
func (h *InterviewHandler) Update(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	ivID, valid := paramID(c, "subId", "interview")
	if !valid {
		return
	}
	var in interviewInput
	if !bindJSON(c, &in) {
		return
	}

	previous, err := h.interviews.FindByID(c.Request.Context(), id, ivID)
	if err != nil {
		fail(c, err, "Failed to load interview")
		return
	}
	if previous == nil {
		fail(c, apperr.NotFound("Interview"), "Interview not found")
		return
	}

	iv := *previous
	in.apply(&iv)
	if err := h.guard.UpdatedInterview(&iv, *previous); err != nil {
		fail(c, err, "Invalid interview")
		return
	}

	if _, err := h.interviews.Update(c.Request.Context(), &iv); err != nil {
		fail(c, err, "Failed to update interview")
		return
	}
	record(h.recorder, permission.ResourceInterviews, service.OpUpdate)
	respondDetail(c, h.details, id, http.StatusOK)
}

// Delete handles DELETE /candidates/:id/interviews/:subId
func (h *InterviewHandler) Delete(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	ivID, valid := paramID(c, "subId", "interview")
	if !valid {
		return
	}
	if err := h.interviews.Delete(c.Request.Context(), id, ivID); err != nil {
		fail(c, err, "Failed to delete interview")
		return
	}
	record(h.recorder, permission.ResourceInterviews, service.OpDelete)
	respondDetail(c, h.details, id, http.StatusOK)
}
