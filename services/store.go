// services/store.go
package services

import (
	"errors"
	"time"

	"uprez-backend/models"
)

// Failure taxonomy surfaced by the offer pipeline. Controllers match these
// with errors.Is to pick status codes.
var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrPropertyNotFound = errors.New("property not found")
	ErrOfferNotFound    = errors.New("offer not found")
	ErrOptionNotInOffer = errors.New("property not in offer")

	ErrNoEligibleCandidates = errors.New("no eligible upgrade candidates")
	ErrNoViableOptions      = errors.New("no valid options after filtering")
	ErrOfferExpired         = errors.New("offer expired")
)

// Store is the persistence collaborator. Implementations must make
// ReplaceOfferForBooking an atomic delete-by-booking-id-then-insert and
// UpdateOffer a single atomic row update.
type Store interface {
	GetBooking(id string) (*models.Booking, error)
	UpdateBookingStatus(id, status string) error

	GetProperty(id string) (*models.Property, error)
	ListProperties() ([]models.Property, error)

	// GetHostSettings returns ErrOfferNotFound-style miss via gorm's not
	// found; callers fall back to models.DefaultHostSettings.
	GetHostSettings(hostID string) (*models.HostSettings, error)

	GetOffer(id string) (*models.Offer, error)
	ReplaceOfferForBooking(bookingID string, offer *models.Offer) error
	UpdateOffer(id string, updates map[string]interface{}) error

	// OverlappingBookings returns confirmed bookings whose stay window falls
	// fully inside [arrival, departure], at a property other than excludePropID
	// and other than booking excludeBookingID, cheapest paid rate first.
	OverlappingBookings(arrival, departure time.Time, excludeBookingID, excludePropID string) ([]models.Booking, error)
}
