package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/staffhub/candidate-grid/internal/middleware"
	p "github.com/staffhub/candidate-grid/internal/permission"
)

// Handlers groups every handler the API exposes
type Handlers struct {
	Candidates       *CandidateHandler
	Pipeline         *PipelineHandler
	Submissions      *SubmissionHandler
	Interviews       *InterviewHandler
	Offers           *OfferHandler
	Notes            *NoteHandler
	Attachments      *AttachmentHandler
	BackgroundChecks *BackgroundCheckHandler
	Grid             *GridHandler
	Permissions      *PermissionHandler
}

// RegisterRoutes mounts the authenticated API on api. Every route is guarded
// by the permission it needs under policy.
func RegisterRoutes(api gin.IRouter, h Handlers, policy *p.Policy) {
	can := func(action, resource string) gin.HandlerFunc {
		return middleware.RequirePermission(policy, action, resource)
	}

	// Candidates
	api.GET("/candidates", can(p.ActionView, p.ResourceCandidates), h.Candidates.List)
	api.POST("/candidates", can(p.ActionCreate, p.ResourceCandidates), h.Candidates.Create)
	api.GET("/candidates/:id", can(p.ActionView, p.ResourceCandidates), h.Candidates.Get)
	api.PUT("/candidates/:id", can(p.ActionEdit, p.ResourceCandidates), h.Candidates.Update)
	api.DELETE("/candidates/:id", can(p.ActionDelete, p.ResourceCandidates), h.Candidates.Delete)
	api.GET("/candidates/:id/panel", can(p.ActionView, p.ResourceCandidates), h.Grid.Panel)

	// Pipeline
	api.GET("/pipeline/stage-counts", can(p.ActionView, p.ResourcePipeline), h.Candidates.StageCounts)
	api.POST("/candidates/:id/status/advance", can(p.ActionEdit, p.ResourcePipeline), h.Pipeline.Advance)
	api.POST("/candidates/:id/status/reject", can(p.ActionEdit, p.ResourcePipeline), h.Pipeline.Reject)
	api.PUT("/candidates/:id/status", can(p.ActionEdit, p.ResourcePipeline), h.Pipeline.JumpTo)
	api.GET("/candidates/:id/status/history", can(p.ActionView, p.ResourcePipeline), h.Pipeline.History)

	// Submissions
	api.GET("/candidates/:id/submissions", can(p.ActionView, p.ResourceSubmissions), h.Submissions.List)
	api.POST("/candidates/:id/submissions", can(p.ActionCreate, p.ResourceSubmissions), h.Submissions.Create)
	api.PUT("/candidates/:id/submissions/:subId", can(p.ActionEdit, p.ResourceSubmissions), h.Submissions.Update)
	api.DELETE("/candidates/:id/submissions/:subId", can(p.ActionDelete, p.ResourceSubmissions), h.Submissions.Delete)

	// Interviews
	api.GET("/candidates/:id/interviews", can(p.ActionView, p.ResourceInterviews), h.Interviews.List)
	api.POST("/candidates/:id/interviews", can(p.ActionCreate, p.ResourceInterviews), h.Interviews.Create)
	api.PUT("/candidates/:id/interviews/:subId", can(p.ActionEdit, p.ResourceInterviews), h.Interviews.Update)
	api.DELETE("/candidates/:id/interviews/:subId", can(p.ActionDelete, p.ResourceInterviews), h.Interviews.Delete)

	// Offer details
	api.GET("/candidates/:id/offer-details", can(p.ActionView, p.ResourceOffers), h.Offers.List)
	api.POST("/candidates/:id/offer-details", can(p.ActionCreate, p.ResourceOffers), h.Offers.Create)
	api.PUT("/candidates/:id/offer-details/:subId", can(p.ActionEdit, p.ResourceOffers), h.Offers.Update)
	api.DELETE("/candidates/:id/offer-details/:subId", can(p.ActionDelete, p.ResourceOffers), h.Offers.Delete)

	// Notes
	api.GET("/candidates/:id/notes", can(p.ActionView, p.ResourceNotes), h.Notes.List)
	api.POST("/candidates/:id/notes", can(p.ActionCreate, p.ResourceNotes), h.Notes.Create)
	api.PUT("/candidates/:id/notes/:subId", can(p.ActionEdit, p.ResourceNotes), h.Notes.Update)
	api.DELETE("/candidates/:id/notes/:subId", can(p.ActionDelete, p.ResourceNotes), h.Notes.Delete)

	// Attachments
	api.GET("/candidates/:id/attachments", can(p.ActionView, p.ResourceAttachments), h.Attachments.List)
	api.POST("/candidates/:id/attachments", can(p.ActionCreate, p.ResourceAttachments), h.Attachments.Upload)
	api.GET("/candidates/:id/attachments/:subId/download", can(p.ActionView, p.ResourceAttachments), h.Attachments.Download)
	api.DELETE("/candidates/:id/attachments/:subId", can(p.ActionDelete, p.ResourceAttachments), h.Attachments.Delete)

	// Background checks
	api.GET("/candidates/:id/background-checks", can(p.ActionView, p.ResourceBackgroundChecks), h.BackgroundChecks.List)
	api.POST("/candidates/:id/background-checks", can(p.ActionCreate, p.ResourceBackgroundChecks), h.BackgroundChecks.Create)
	api.PUT("/candidates/:id/background-checks/:subId", can(p.ActionEdit, p.ResourceBackgroundChecks), h.BackgroundChecks.Update)
	api.DELETE("/candidates/:id/background-checks/:subId", can(p.ActionDelete, p.ResourceBackgroundChecks), h.BackgroundChecks.Delete)

	// Grid session
	grid := api.Group("/grid", can(p.ActionView, p.ResourceCandidates))
	grid.GET("/state", h.Grid.State)
	grid.PUT("/state/candidate", h.Grid.SelectCandidate)
	grid.PUT("/state/tab", h.Grid.SetTab)
	grid.PUT("/state/submission-filter", h.Grid.SetSubmissionFilter)
	grid.PUT("/state/page", h.Grid.SetPage)
	grid.PUT("/state/note-editor", h.Grid.SetNoteEditor)
	grid.PUT("/state/dialog", h.Grid.SetDialog)
	grid.GET("/panel", h.Grid.SessionPanel)

	// Permissions
	api.GET("/permissions", h.Permissions.Check)
}
