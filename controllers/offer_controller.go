// controllers/offer_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"uprez-backend/services"
	"uprez-backend/utils"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type AcceptOfferPayload struct {
	SelectedPropID string `json:"selected_prop_id" binding:"required"`
}

type RegenOfferPayload struct {
	ExcludePropIDs []string `json:"exclude_prop_ids"`
}

type OfferController struct {
	offers *services.OfferService
}

func NewOfferController(offers *services.OfferService) *OfferController {
	return &OfferController{offers: offers}
}

// GetOffer handles GET /api/offers/:id
func (ctrl *OfferController) GetOffer(c *gin.Context) {
	view, err := ctrl.offers.GetOffer(c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, services.ErrOfferNotFound):
			status = http.StatusNotFound
		case errors.Is(err, services.ErrBookingNotFound), errors.Is(err, services.ErrPropertyNotFound):
			status = http.StatusNotFound
		}
		utils.JSONError(c, status, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, view)
}

// AcceptOffer handles POST /api/offers/:id/accept
func (ctrl *OfferController) AcceptOffer(c *gin.Context) {
	var payload AcceptOfferPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := ctrl.offers.AcceptOffer(c.Param("id"), payload.SelectedPropID)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, services.ErrOfferNotFound):
			status = http.StatusNotFound
		case errors.Is(err, services.ErrOfferExpired):
			status = http.StatusGone
		case errors.Is(err, services.ErrOptionNotInOffer):
			status = http.StatusNotFound
		}
		utils.JSONError(c, status, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, result)
}

// RegenOffer handles POST /api/offers/:id/regen
func (ctrl *OfferController) RegenOffer(c *gin.Context) {
	var payload RegenOfferPayload
	// Body is optional for regen.
	_ = c.ShouldBindJSON(&payload)

	view, err := ctrl.offers.RegenerateOffer(c.Param("id"), payload.ExcludePropIDs)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrOfferNotFound) {
			status = http.StatusNotFound
		}
		utils.JSONError(c, status, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, view)
}
