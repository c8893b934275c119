package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/staffhub/candidate-grid/internal/middleware"
	"github.com/staffhub/candidate-grid/internal/model"
	"github.com/staffhub/candidate-grid/internal/pipeline"
	"github.com/staffhub/candidate-grid/internal/service"
)

// HistoryReader returns a candidate's status timeline
type HistoryReader interface {
	GetHistory(ctx context.Context, candidateID uuid.UUID) ([]model.StatusHistory, error)
}

type PipelineHandler struct {
	svc     *service.PipelineService
	history HistoryReader
}

func NewPipelineHandler(svc *service.PipelineService, history HistoryReader) *PipelineHandler {
	return &PipelineHandler{svc: svc, history: history}
}

type transitionInput struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// Advance handles POST /candidates/:id/status/advance
func (h *PipelineHandler) Advance(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	tr, err := h.svc.Advance(c.Request.Context(), id, middleware.GetActor(c))
	h.respond(c, tr, err)
}

// Reject handles POST /candidates/:id/status/reject
func (h *PipelineHandler) Reject(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	var in transitionInput
	// body is optional here
	if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "Invalid Request", "Invalid request body: "+err.Error())
		return
	}

	tr, err := h.svc.Reject(c.Request.Context(), id, middleware.GetActor(c), in.Note)
	h.respond(c, tr, err)
}

// JumpTo handles PUT /candidates/:id/status
func (h *PipelineHandler) JumpTo(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	var in transitionInput
	if !bindJSON(c, &in) {
		return
	}
	if in.Status == "" {
		badRequest(c, "Invalid Request", "status is required")
		return
	}

	// accept legacy aliases as well as canonical names
	target := pipeline.Stage(in.Status)
	if !target.Valid() {
		if st := pipeline.Resolve(in.Status); st.Badge != pipeline.BadgeSecondary {
			target = st.Stage
		}
	}

	tr, err := h.svc.JumpTo(c.Request.Context(), id, target, middleware.GetActor(c), in.Note)
	h.respond(c, tr, err)
}

// History handles GET /candidates/:id/status/history
func (h *PipelineHandler) History(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	history, err := h.history.GetHistory(c.Request.Context(), id)
	if err != nil {
		fail(c, err, "Failed to fetch status history")
		return
	}
	if history == nil {
		history = []model.StatusHistory{}
	}
	ok(c, history)
}

// respond writes the transition. Refused-but-harmless outcomes (final stage,
// already there) are a 200 with the reason in message.
func (h *PipelineHandler) respond(c *gin.Context, tr *service.Transition, err error) {
	if err != nil {
		fail(c, err, "Failed to change candidate stage")
		return
	}
	c.JSON(http.StatusOK, model.Response{Success: true, Data: tr, Message: tr.Message})
}
