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
)

type BackgroundCheckStore interface {
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]model.BackgroundCheck, error)
	Create(ctx context.Context, b *model.BackgroundCheck) (*model.BackgroundCheck, error)
	Update(ctx context.Context, b *model.BackgroundCheck) (*model.BackgroundCheck, error)
	Delete(ctx context.Context, candidateID, id uuid.UUID) error
}

type BackgroundCheckHandler struct {
	checks   BackgroundCheckStore
	details  DetailLoader
	guard    *service.ScheduleGuard
	recorder MutationRecorder
}

func NewBackgroundCheckHandler(checks BackgroundCheckStore, details DetailLoader, guard *service.ScheduleGuard, recorder MutationRecorder) *BackgroundCheckHandler {
	return &BackgroundCheckHandler{checks: checks, details: details, guard: guard, recorder: recorder}
}

type checkInput struct {
	Provider    string     `json:"provider"`
	CheckType   string     `json:"checkType"`
	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"requestedAt"`
	CompletedAt *time.Time `json:"completedAt"`
	Notes       string     `json:"notes"`
}

func (in checkInput) toModel(candidateID uuid.UUID) model.BackgroundCheck {
	return model.BackgroundCheck{
		CandidateID: candidateID,
		Provider:    in.Provider,
		CheckType:   in.CheckType,
		Status:      in.Status,
		RequestedAt: in.RequestedAt,
		CompletedAt: in.CompletedAt,
		Notes:       in.Notes,
	}
}

// List handles GET /candidates/:id/background-checks
func (h *BackgroundCheckHandler) List(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	checks, err := h.checks.ListByCandidate(c.Request.Context(), id)
	if err != nil {
		fail(c, err, "Failed to list background checks")
		return
	}
	if checks == nil {
		checks = []model.BackgroundCheck{}
	}
	ok(c, checks)
}

// Create handles POST /candidates/:id/background-checks
func (h *BackgroundCheckHandler) Create(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	var in checkInput
	if !bindJSON(c, &in) {
		return
	}

	b := in.toModel(id)
	b.CreatedBy = middleware.GetActor(c)
	if err := h.guard.BackgroundCheck(&b); err != nil {
		fail(c, err, "Invalid background check")
		return
	}

	if _, err := h.checks.Create(c.Request.Context(), &b); err != nil {
		fail(c, err, "Failed to create background check")
		return
	}
	record(h.recorder, permission.ResourceBackgroundChecks, service.OpCreate)
	respondDetail(c, h.details, id, http.StatusCreated)
}

// Update handles PUT /candidates/:id/background-checks/:subId
func (h *BackgroundCheckHandler) Update(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	checkID, valid := paramID(c, "subId", "background check")
	if !valid {
		return
	}
	var in checkInput
	if !bindJSON(c, &in) {
		return
	}

	b := in.toModel(id)
	b.ID = checkID
	if err := h.guard.BackgroundCheck(&b); err != nil {
		fail(c, err, "Invalid background check")
		return
	}

	if _, err := h.checks.Update(c.Request.Context(), &b); err != nil {
		fail(c, err, "Failed to update background check")
		return
	}
	record(h.recorder, permission.ResourceBackgroundChecks, service.OpUpdate)
	respondDetail(c, h.details, id, http.StatusOK)
}

// Delete handles DELETE /candidates/:id/background-checks/:subId
func (h *BackgroundCheckHandler) Delete(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	checkID, valid := paramID(c, "subId", "background check")
	if !valid {
		return
	}
	if err := h.checks.Delete(c.Request.Context(), id, checkID); err != nil {
		fail(c, err, "Failed to delete background check")
		return
	}
	record(h.recorder, permission.ResourceBackgroundChecks, service.OpDelete)
	respondDetail(c, h.details, id, http.StatusOK)
}
