package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/staffhub/candidate-grid/internal/apperr"
	"github.com/staffhub/candidate-grid/internal/model"
	"github.com/staffhub/candidate-grid/internal/paging"
)

// DetailLoader re-reads the whole candidate aggregate
type DetailLoader interface {
	LoadDetail(ctx context.Context, id uuid.UUID) (*model.CandidateDetail, error)
}

// MutationRecorder counts writes per resource
type MutationRecorder interface {
	RecordMutation(resource, op string)
}

// ── Envelope ─────────────────────────────────────────

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, model.Response{Success: true, Data: data})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, model.Response{Success: true, Data: data})
}

func okPaged(c *gin.Context, data any, p model.Pagination) {
	c.JSON(http.StatusOK, model.Response{Success: true, Data: data, Pagination: &p})
}

// fail classifies err and writes the error envelope. Unexpected errors are
// logged with action for context; the client only sees the generic message.
func fail(c *gin.Context, err error, action string) {
	ae := apperr.Classify(err)
	if ae.Status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("kind", ae.Kind.String()).Msg(action)
	} else {
		log.Debug().Err(err).Int("status", ae.Status).Msg(action)
	}
	c.JSON(ae.Status, model.Response{Success: false, Title: ae.Title, Message: ae.Message})
}

func badRequest(c *gin.Context, title, message string) {
	c.JSON(http.StatusBadRequest, model.Response{Success: false, Title: title, Message: message})
}

// ── Request helpers ──────────────────────────────────

// paramID parses a UUID path parameter, writing a 400 on failure
func paramID(c *gin.Context, name, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "Invalid ID", "Invalid "+what+" ID")
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "Invalid Request", "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// queryInt reads a positive integer query parameter, falling back on absent
// or malformed values. Values above paging.MaxPage are clamped.
func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 1 {
		return fallback
	}
	return min(v, paging.MaxPage)
}

// respondDetail re-reads the candidate and writes it with status
func respondDetail(c *gin.Context, details DetailLoader, id uuid.UUID, status int) {
	detail, err := details.LoadDetail(c.Request.Context(), id)
	if err != nil {
		fail(c, err, "Failed to reload candidate")
		return
	}
	if detail == nil {
		fail(c, apperr.NotFound("Candidate"), "Candidate disappeared after write")
		return
	}
	c.JSON(status, model.Response{Success: true, Data: detail})
}

func record(rec MutationRecorder, resource, op string) {
	if rec != nil {
		rec.RecordMutation(resource, op)
	}
}
