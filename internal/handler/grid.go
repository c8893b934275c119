package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/staffhub/candidate-grid/internal/gridstate"
	"github.com/staffhub/candidate-grid/internal/middleware"
	"github.com/staffhub/candidate-grid/internal/service"
)

// GridHandler serves the candidate panel view model and each user's grid session
type GridHandler struct {
	panels *service.PanelService
}

func NewGridHandler(panels *service.PanelService) *GridHandler {
	return &GridHandler{panels: panels}
}

// Panel handles GET /candidates/:id/panel?filter&from&to&submissionPage&interviewPage
func (h *GridHandler) Panel(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	from, to := dateRange(c)

	p, err := h.panels.Build(c.Request.Context(), id, service.PanelQuery{
		Filter:         c.Query("filter"),
		From:           from,
		To:             to,
		SubmissionPage: queryInt(c, "submissionPage", 1),
		InterviewPage:  queryInt(c, "interviewPage", 1),
	})
	if err != nil {
		fail(c, err, "Failed to build candidate panel")
		return
	}
	ok(c, p)
}

// SessionPanel handles GET /grid/panel
func (h *GridHandler) SessionPanel(c *gin.Context) {
	p, err := h.panels.ForUser(c.Request.Context(), middleware.GetFirebaseUID(c))
	if err != nil {
		fail(c, err, "Failed to build session panel")
		return
	}
	ok(c, p)
}

// State handles GET /grid/state
func (h *GridHandler) State(c *gin.Context) {
	st, err := h.panels.State(c.Request.Context(), middleware.GetFirebaseUID(c))
	if err != nil {
		fail(c, err, "Failed to load grid state")
		return
	}
	ok(c, st)
}

// SelectCandidate handles PUT /grid/state/candidate
func (h *GridHandler) SelectCandidate(c *gin.Context) {
	var in struct {
		CandidateID uuid.UUID `json:"candidateId" binding:"required"`
	}
	if !bindJSON(c, &in) {
		return
	}
	st, err := h.panels.SelectCandidate(c.Request.Context(), middleware.GetFirebaseUID(c), in.CandidateID)
	if err != nil {
		fail(c, err, "Failed to select candidate")
		return
	}
	ok(c, st)
}

// SetTab handles PUT /grid/state/tab
func (h *GridHandler) SetTab(c *gin.Context) {
	var in struct {
		Tab gridstate.Tab `json:"tab" binding:"required"`
	}
	if !bindJSON(c, &in) {
		return
	}
	h.update(c, func(st *gridstate.State) error {
		return st.SetTab(in.Tab)
	})
}

// SetSubmissionFilter handles PUT /grid/state/submission-filter
func (h *GridHandler) SetSubmissionFilter(c *gin.Context) {
	var in struct {
		Token string    `json:"token" binding:"required"`
		From  time.Time `json:"from"`
		To    time.Time `json:"to"`
	}
	if !bindJSON(c, &in) {
		return
	}
	h.update(c, func(st *gridstate.State) error {
		return st.SetSubmissionFilter(gridstate.SubmissionFilter{Token: in.Token, From: in.From, To: in.To})
	})
}

// SetPage handles PUT /grid/state/page with {"pager": "submissions"|"interviews", "page": n}
func (h *GridHandler) SetPage(c *gin.Context) {
	var in struct {
		Pager string `json:"pager" binding:"required,oneof=submissions interviews"`
		Page  int    `json:"page"`
	}
	if !bindJSON(c, &in) {
		return
	}
	h.update(c, func(st *gridstate.State) error {
		if in.Pager == "interviews" {
			return st.SetInterviewPage(in.Page)
		}
		return st.SetSubmissionPage(in.Page)
	})
}

// SetNoteEditor handles PUT /grid/state/note-editor
func (h *GridHandler) SetNoteEditor(c *gin.Context) {
	var in gridstate.Editor
	if !bindJSON(c, &in) {
		return
	}
	h.update(c, func(st *gridstate.State) error {
		return st.SetNoteEditor(in)
	})
}

// SetDialog handles PUT /grid/state/dialog. An empty action dismisses.
func (h *GridHandler) SetDialog(c *gin.Context) {
	var in gridstate.Dialog
	if !bindJSON(c, &in) {
		return
	}
	h.update(c, func(st *gridstate.State) error {
		if in.Action == "" {
			st.Dismiss()
			return nil
		}
		st.Confirm(in.Action, in.TargetID)
		return nil
	})
}

func (h *GridHandler) update(c *gin.Context, fn func(*gridstate.State) error) {
	st, err := h.panels.UpdateState(c.Request.Context(), middleware.GetFirebaseUID(c), fn)
	if err != nil {
		fail(c, err, "Failed to update grid state")
		return
	}
	ok(c, st)
}
