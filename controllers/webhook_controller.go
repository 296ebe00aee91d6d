// controllers/webhook_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"uprez-backend/services"
	"uprez-backend/utils"
)

// Channel-manager event types accepted on the webhook.
const (
	EventPreArrival   = "cron_pre_arrival"
	EventCancellation = "cancellation"
)

type ChannelManagerEvent struct {
	Event     string `json:"event" binding:"required"`
	BookingID string `json:"booking_id" binding:"required"`
}

type WebhookController struct {
	offers *services.OfferService
}

func NewWebhookController(offers *services.OfferService) *WebhookController {
	return &WebhookController{offers: offers}
}

// HandleChannelManager handles POST /webhook/channel-manager. Pre-arrival
// events kick off offer generation for the booking; cancellation events
// trigger recovery fan-out.
func (ctrl *WebhookController) HandleChannelManager(c *gin.Context) {
	var event ChannelManagerEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	switch event.Event {
	case EventPreArrival:
		offerID, err := ctrl.offers.GenerateOffer(c.Request.Context(), event.BookingID)
		if err != nil {
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, services.ErrBookingNotFound), errors.Is(err, services.ErrPropertyNotFound):
				status = http.StatusNotFound
			case errors.Is(err, services.ErrNoEligibleCandidates), errors.Is(err, services.ErrNoViableOptions):
				status = http.StatusUnprocessableEntity
			}
			utils.JSONError(c, status, err.Error())
			return
		}
		utils.JSONSuccess(c, http.StatusOK, gin.H{"offer_id": offerID})

	case EventCancellation:
		offerIDs, err := ctrl.offers.HandleCancellation(c.Request.Context(), event.BookingID)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, services.ErrBookingNotFound) {
				status = http.StatusNotFound
			}
			utils.JSONError(c, status, err.Error())
			return
		}
		utils.JSONSuccess(c, http.StatusOK, gin.H{"recovery_offer_ids": offerIDs})

	default:
		utils.JSONError(c, http.StatusBadRequest, "unknown event: "+event.Event)
	}
}
