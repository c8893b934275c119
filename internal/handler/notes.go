package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/staffhub/candidate-grid/internal/middleware"
	"github.com/staffhub/candidate-grid/internal/model"
	"github.com/staffhub/candidate-grid/internal/permission"
	"github.com/staffhub/candidate-grid/internal/service"
)

const maxNoteLen = 10000

type NoteStore interface {
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]model.Note, error)
	Create(ctx context.Context, candidateID uuid.UUID, content, createdBy string) (*model.Note, error)
	Update(ctx context.Context, candidateID, id uuid.UUID, content string) (*model.Note, error)
	Delete(ctx context.Context, candidateID, id uuid.UUID) error
}

// EditorCloser resets the caller's note editor once a note is saved
type EditorCloser interface {
	CloseNoteEditor(ctx context.Context, userKey string) error
}

type NoteHandler struct {
	notes    NoteStore
	details  DetailLoader
	editors  EditorCloser
	recorder MutationRecorder
}

func NewNoteHandler(notes NoteStore, details DetailLoader, editors EditorCloser, recorder MutationRecorder) *NoteHandler {
	return &NoteHandler{notes: notes, details: details, editors: editors, recorder: recorder}
}

type noteInput struct {
	Content string `json:"content" binding:"required"`
}

func (in *noteInput) validate(c *gin.Context) bool {
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		badRequest(c, "Invalid Note", "Note content is required")
		return false
	}
	if len(in.Content) > maxNoteLen {
		badRequest(c, "Invalid Note", "Note is too long")
		return false
	}
	return true
}

// List handles GET /candidates/:id/notes
func (h *NoteHandler) List(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	notes, err := h.notes.ListByCandidate(c.Request.Context(), id)
	if err != nil {
		fail(c, err, "Failed to list notes")
		return
	}
	if notes == nil {
		notes = []model.Note{}
	}
	ok(c, notes)
}

// Create handles POST /candidates/:id/notes
func (h *NoteHandler) Create(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	var in noteInput
	if !bindJSON(c, &in) || !in.validate(c) {
		return
	}

	if _, err := h.notes.Create(c.Request.Context(), id, in.Content, middleware.GetActor(c)); err != nil {
		fail(c, err, "Failed to create note")
		return
	}
	record(h.recorder, permission.ResourceNotes, service.OpCreate)
	h.closeEditor(c)
	respondDetail(c, h.details, id, http.StatusCreated)
}

// Update handles PUT /candidates/:id/notes/:subId
func (h *NoteHandler) Update(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	noteID, valid := paramID(c, "subId", "note")
	if !valid {
		return
	}
	var in noteInput
	if !bindJSON(c, &in) || !in.validate(c) {
		return
	}

	if _, err := h.notes.Update(c.Request.Context(), id, noteID, in.Content); err != nil {
		fail(c, err, "Failed to update note")
		return
	}
	record(h.recorder, permission.ResourceNotes, service.OpUpdate)
	h.closeEditor(c)
	respondDetail(c, h.details, id, http.StatusOK)
}

// Delete handles DELETE /candidates/:id/notes/:subId
func (h *NoteHandler) Delete(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	noteID, valid := paramID(c, "subId", "note")
	if !valid {
		return
	}
	if err := h.notes.Delete(c.Request.Context(), id, noteID); err != nil {
		fail(c, err, "Failed to delete note")
		return
	}
	record(h.recorder, permission.ResourceNotes, service.OpDelete)
	respondDetail(c, h.details, id, http.StatusOK)
}

func (h *NoteHandler) closeEditor(c *gin.Context) {
	if h.editors == nil {
		return
	}
	if err := h.editors.CloseNoteEditor(c.Request.Context(), middleware.GetFirebaseUID(c)); err != nil {
		log.Warn().Err(err).Msg("Failed to close note editor")
	}
}
