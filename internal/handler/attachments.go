package handler

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/staffhub/candidate-grid/internal/middleware"
	"github.com/staffhub/candidate-grid/internal/model"
	"github.com/staffhub/candidate-grid/internal/permission"
	"github.com/staffhub/candidate-grid/internal/service"
)

type AttachmentLister interface {
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]model.Attachment, error)
}

type AttachmentHandler struct {
	attachments AttachmentLister
	svc         *service.AttachmentService
	recorder    MutationRecorder
	maxBytes    int64
}

func NewAttachmentHandler(attachments AttachmentLister, svc *service.AttachmentService, recorder MutationRecorder, maxBytes int64) *AttachmentHandler {
	return &AttachmentHandler{attachments: attachments, svc: svc, recorder: recorder, maxBytes: maxBytes}
}

// List handles GET /candidates/:id/attachments
func (h *AttachmentHandler) List(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	atts, err := h.attachments.ListByCandidate(c.Request.Context(), id)
	if err != nil {
		fail(c, err, "Failed to list attachments")
		return
	}
	if atts == nil {
		atts = []model.Attachment{}
	}
	ok(c, atts)
}

// Upload handles POST /candidates/:id/attachments
// Accepts a single file in the multipart field "file"
func (h *AttachmentHandler) Upload(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}

	// multipart overhead on top of the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+1<<20)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		badRequest(c, "No File", "No file uploaded")
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		badRequest(c, "File Too Large", "File too large. Maximum size is "+strconv.FormatInt(h.maxBytes>>20, 10)+"MB.")
		return
	}

	detail, err := h.svc.Upload(c.Request.Context(), id, service.Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}, middleware.GetActor(c))
	if err != nil {
		fail(c, err, "Failed to upload attachment")
		return
	}
	record(h.recorder, permission.ResourceAttachments, service.OpCreate)
	created(c, detail)
}

// Download handles GET /candidates/:id/attachments/:subId/download
func (h *AttachmentHandler) Download(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	attID, valid := paramID(c, "subId", "attachment")
	if !valid {
		return
	}

	att, rc, err := h.svc.Open(c.Request.Context(), id, attID)
	if err != nil {
		fail(c, err, "Failed to open attachment")
		return
	}
	defer rc.Close()

	contentType := att.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": att.DisplayName}))
	c.Header("Content-Type", contentType)
	if att.Size > 0 {
		c.Header("Content-Length", strconv.FormatInt(att.Size, 10))
	}
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, rc); err != nil {
		log.Warn().Err(err).Str("attachmentId", attID.String()).Msg("Attachment download interrupted")
	}
}

// Delete handles DELETE /candidates/:id/attachments/:subId
func (h *AttachmentHandler) Delete(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	attID, valid := paramID(c, "subId", "attachment")
	if !valid {
		return
	}
	detail, err := h.svc.Delete(c.Request.Context(), id, attID)
	if err != nil {
		fail(c, err, "Failed to delete attachment")
		return
	}
	record(h.recorder, permission.ResourceAttachments, service.OpDelete)
	ok(c, detail)
}
