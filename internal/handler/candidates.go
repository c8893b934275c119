package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/staffhub/candidate-grid/internal/apperr"
	"github.com/staffhub/candidate-grid/internal/middleware"
	"github.com/staffhub/candidate-grid/internal/model"
	"github.com/staffhub/candidate-grid/internal/paging"
	"github.com/staffhub/candidate-grid/internal/permission"
	"github.com/staffhub/candidate-grid/internal/pipeline"
	"github.com/staffhub/candidate-grid/internal/repository"
	"github.com/staffhub/candidate-grid/internal/service"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// CandidateStore is the candidate repository as seen by the handlers
type CandidateStore interface {
	List(ctx context.Context, filter repository.CandidateFilter) ([]model.Candidate, int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Candidate, error)
	Create(ctx context.Context, c *model.Candidate) (*model.Candidate, error)
	Update(ctx context.Context, c *model.Candidate) (*model.Candidate, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// CandidateCard is one tile of the grid
type CandidateCard struct {
	model.Candidate
	Stage pipeline.Status `json:"stage"`
}

type CandidateHandler struct {
	candidates CandidateStore
	details    DetailLoader
	recorder   MutationRecorder
}

func NewCandidateHandler(candidates CandidateStore, details DetailLoader, recorder MutationRecorder) *CandidateHandler {
	return &CandidateHandler{candidates: candidates, details: details, recorder: recorder}
}

type candidateInput struct {
	FirstName       string   `json:"firstName" binding:"required"`
	LastName        string   `json:"lastName"`
	Email           string   `json:"email" binding:"required,email"`
	Phone           string   `json:"phone"`
	Location        string   `json:"location"`
	JobTitle        string   `json:"jobTitle"`
	Skills          []string `json:"skills"`
	ExperienceYears int      `json:"experienceYears" binding:"min=0"`
	Source          string   `json:"source"`
	Status          string   `json:"status"`
	AssignedTo      string   `json:"assignedTo"`
}

func (in candidateInput) apply(c *model.Candidate) {
	c.FirstName = strings.TrimSpace(in.FirstName)
	c.LastName = strings.TrimSpace(in.LastName)
	c.Email = strings.ToLower(strings.TrimSpace(in.Email))
	c.Phone = in.Phone
	c.Location = in.Location
	c.JobTitle = in.JobTitle
	c.Skills = in.Skills
	c.ExperienceYears = in.ExperienceYears
	c.Source = in.Source
	c.AssignedTo = in.AssignedTo
}

// List handles GET /candidates
func (h *CandidateHandler) List(c *gin.Context) {
	filter := repository.CandidateFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Status: c.Query("status"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", defaultListLimit),
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	candidates, total, err := h.candidates.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err, "Failed to list candidates")
		return
	}

	cards := make([]CandidateCard, len(candidates))
	for i, cand := range candidates {
		if cand.Skills == nil {
			cand.Skills = []string{}
		}
		cards[i] = CandidateCard{Candidate: cand, Stage: pipeline.Resolve(cand.Status)}
	}

	okPaged(c, cards, model.Pagination{
		Page:       filter.Page,
		Limit:      filter.Limit,
		Total:      total,
		TotalPages: paging.TotalPages(total, filter.Limit),
	})
}

// StageCounts handles GET /pipeline/stage-counts
// Raw statuses are folded onto their canonical stage.
func (h *CandidateHandler) StageCounts(c *gin.Context) {
	raw, err := h.candidates.CountByStatus(c.Request.Context())
	if err != nil {
		fail(c, err, "Failed to count candidates by status")
		return
	}

	counts := make(map[pipeline.Stage]int, len(pipeline.Stages()))
	for _, st := range pipeline.Stages() {
		counts[st] = 0
	}
	for status, n := range raw {
		counts[pipeline.Resolve(status).Stage] += n
	}
	ok(c, counts)
}

// Create handles POST /candidates
func (h *CandidateHandler) Create(c *gin.Context) {
	var in candidateInput
	if !bindJSON(c, &in) {
		return
	}

	var cand model.Candidate
	in.apply(&cand)
	cand.Status = in.Status
	if cand.Status == "" {
		cand.Status = pipeline.StageNew.String()
	}
	cand.CreatedBy = middleware.GetActor(c)

	created, err := h.candidates.Create(c.Request.Context(), &cand)
	if err != nil {
		fail(c, err, "Failed to create candidate")
		return
	}
	record(h.recorder, permission.ResourceCandidates, service.OpCreate)

	log.Info().Str("candidateId", created.ID.String()).Str("by", cand.CreatedBy).Msg("Candidate created")
	respondDetail(c, h.details, created.ID, http.StatusCreated)
}

// Get handles GET /candidates/:id
func (h *CandidateHandler) Get(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	detail, err := h.details.LoadDetail(c.Request.Context(), id)
	if err != nil {
		fail(c, err, "Failed to load candidate")
		return
	}
	if detail == nil {
		fail(c, apperr.NotFound("Candidate"), "Candidate not found")
		return
	}
	ok(c, detail)
}

// Update handles PUT /candidates/:id
// Status is left alone; it only changes through the pipeline endpoints.
func (h *CandidateHandler) Update(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	var in candidateInput
	if !bindJSON(c, &in) {
		return
	}

	cand, err := h.candidates.FindByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err, "Failed to load candidate")
		return
	}
	if cand == nil {
		fail(c, apperr.NotFound("Candidate"), "Candidate not found")
		return
	}

	in.apply(cand)
	if _, err := h.candidates.Update(c.Request.Context(), cand); err != nil {
		fail(c, err, "Failed to update candidate")
		return
	}
	record(h.recorder, permission.ResourceCandidates, service.OpUpdate)
	respondDetail(c, h.details, id, http.StatusOK)
}

// Delete handles DELETE /candidates/:id
func (h *CandidateHandler) Delete(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	if err := h.candidates.Delete(c.Request.Context(), id); err != nil {
		fail(c, err, "Failed to delete candidate")
		return
	}
	record(h.recorder, permission.ResourceCandidates, service.OpDelete)

	log.Info().Str("candidateId", id.String()).Str("by", middleware.GetActor(c)).Msg("Candidate deleted")
	ok(c, gin.H{"deleted": true})
}
