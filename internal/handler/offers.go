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

type OfferStore interface {
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]model.OfferDetail, error)
	Create(ctx context.Context, o *model.OfferDetail) (*model.OfferDetail, error)
	Update(ctx context.Context, o *model.OfferDetail) (*model.OfferDetail, error)
	Delete(ctx context.Context, candidateID, id uuid.UUID) error
}

type OfferHandler struct {
	offers   OfferStore
	details  DetailLoader
	guard    *service.ScheduleGuard
	recorder MutationRecorder
}

func NewOfferHandler(offers OfferStore, details DetailLoader, guard *service.ScheduleGuard, recorder MutationRecorder) *OfferHandler {
	return &OfferHandler{offers: offers, details: details, guard: guard, recorder: recorder}
}

type offerInput struct {
	CandidateName string     `json:"candidateName"`
	JobTitle      string     `json:"jobTitle" binding:"required"`
	JobLocation   string     `json:"jobLocation"`
	PayRate       string     `json:"payRate"`
	VendorName    string     `json:"vendorName"`
	ClientName    string     `json:"clientName"`
	StartDate     *time.Time `json:"startDate"`
	Status        string     `json:"status"`
}

func (in offerInput) toModel(candidateID uuid.UUID) model.OfferDetail {
	return model.OfferDetail{
		CandidateID:   candidateID,
		CandidateName: in.CandidateName,
		JobTitle:      in.JobTitle,
		JobLocation:   in.JobLocation,
		PayRate:       in.PayRate,
		VendorName:    in.VendorName,
		ClientName:    in.ClientName,
		StartDate:     in.StartDate,
		Status:        in.Status,
	}
}

// List handles GET /candidates/:id/offer-details
func (h *OfferHandler) List(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	offers, err := h.offers.ListByCandidate(c.Request.Context(), id)
	if err != nil {
		fail(c, err, "Failed to list offer details")
		return
	}
	if offers == nil {
		offers = []model.OfferDetail{}
	}
	ok(c, offers)
}

// Create handles POST /candidates/:id/offer-details
// A blank candidate name is filled from the candidate record.
func (h *OfferHandler) Create(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	var in offerInput
	if !bindJSON(c, &in) {
		return
	}

	o := in.toModel(id)
	o.CreatedBy = middleware.GetActor(c)
	if err := h.guard.Offer(&o); err != nil {
		fail(c, err, "Invalid offer")
		return
	}
	if o.CandidateName == "" {
		detail, err := h.details.LoadDetail(c.Request.Context(), id)
		if err != nil {
			fail(c, err, "Failed to load candidate")
			return
		}
		if detail != nil {
			o.CandidateName = detail.FullName()
		}
	}

	if _, err := h.offers.Create(c.Request.Context(), &o); err != nil {
		fail(c, err, "Failed to create offer")
		return
	}
	record(h.recorder, permission.ResourceOffers, service.OpCreate)
	respondDetail(c, h.details, id, http.StatusCreated)
}

// Update handles PUT /candidates/:id/offer-details/:subId
func (h *OfferHandler) Update(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	offerID, valid := paramID(c, "subId", "offer")
	if !valid {
		return
	}
	var in offerInput
	if !bindJSON(c, &in) {
		return
	}

	o := in.toModel(id)
	o.ID = offerID
	o.UpdatedBy = middleware.GetActor(c)
	if err := h.guard.Offer(&o); err != nil {
		fail(c, err, "Invalid offer")
		return
	}

	if _, err := h.offers.Update(c.Request.Context(), &o); err != nil {
		fail(c, err, "Failed to update offer")
		return
	}
	record(h.recorder, permission.ResourceOffers, service.OpUpdate)
	respondDetail(c, h.details, id, http.StatusOK)
}

// Delete handles DELETE /candidates/:id/offer-details/:subId
func (h *OfferHandler) Delete(c *gin.Context) {
	id, valid := paramID(c, "id", "candidate")
	if !valid {
		return
	}
	offerID, valid := paramID(c, "subId", "offer")
	if !valid {
		return
	}
	if err := h.offers.Delete(c.Request.Context(), id, offerID); err != nil {
		fail(c, err, "Failed to delete offer")
		return
	}
	record(h.recorder, permission.ResourceOffers, service.OpDelete)
	respondDetail(c, h.details, id, http.StatusOK)
}
