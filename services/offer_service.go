// services/offer_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"uprez-backend/models"
	"uprez-backend/utils"
)

const (
	topOptionsPerOffer = 3

	// An offer never outlives the guest's arrival morning, regardless of the
	// configured validity window.
	expiryCapHour = 10

	// Cancellation recovery fans out to at most this many displaced-guest
	// candidates.
	maxRecoveryOffers = 3
)

// OfferConfig carries the non-collaborator knobs of the pipeline.
type OfferConfig struct {
	// FrontendURL is the base for guest-facing offer links substituted into
	// the {{OFFER_URL}} placeholder of generated copy.
	FrontendURL string
}

// OfferService is the offer pipeline: candidate filtering, scoring, pricing
// with guardrails, ranking, persistence, and the offer lifecycle (accept,
// regen, lazy expiry) plus cancellation recovery.
type OfferService struct {
	store    Store
	copyGen  CopyGenerator
	notifier Notifier
	cfg      OfferConfig
	now      func() time.Time

	// Per-booking serialization for generate/accept races; storage adds row
	// locks for the cross-process half.
	mu          sync.Mutex
	bookingLock map[string]*sync.Mutex
}

func NewOfferService(store Store, copyGen CopyGenerator, notifier Notifier, cfg OfferConfig) *OfferService {
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = "http://localhost:3030"
	}
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	return &OfferService{
		store:       store,
		copyGen:     copyGen,
		notifier:    notifier,
		cfg:         cfg,
		now:         time.Now,
		bookingLock: map[string]*sync.Mutex{},
	}
}

func (s *OfferService) lockBooking(bookingID string) func() {
	s.mu.Lock()
	l, ok := s.bookingLock[bookingID]
	if !ok {
		l = &sync.Mutex{}
		s.bookingLock[bookingID] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (s *OfferService) offerURL(offerID string) string {
	return s.cfg.FrontendURL + "/offer/" + offerID
}

// GenerateOffer runs the full assembly pipeline for one booking and persists
// a single replacement offer. Safe to call repeatedly: each run fully
// replaces the prior offer for the booking.
func (s *OfferService) GenerateOffer(ctx context.Context, bookingID string) (string, error) {
	unlock := s.lockBooking(bookingID)
	defer unlock()

	booking, err := s.store.GetBooking(bookingID)
	if err != nil {
		log.Printf("[offer] booking %s not found", bookingID)
		return "", ErrBookingNotFound
	}

	original, err := s.store.GetProperty(booking.PropID)
	if err != nil {
		log.Printf("[offer] property %s not found for booking %s", booking.PropID, bookingID)
		return "", ErrPropertyNotFound
	}

	settings, err := s.store.GetHostSettings(booking.HostID)
	if err != nil {
		def := models.DefaultHostSettings(booking.HostID)
		settings = &def
		log.Printf("[offer] no settings for host %s, using defaults", booking.HostID)
	}

	inventory, err := s.store.ListProperties()
	if err != nil {
		return "", fmt.Errorf("load inventory: %w", err)
	}

	candidates := FilterEligibleCandidates(inventory, original, booking, settings)
	if len(candidates) == 0 {
		log.Printf("[offer] booking %s: no eligible upgrade candidates", bookingID)
		return "", ErrNoEligibleCandidates
	}

	guest := GuestContext{
		GuestName: booking.GuestName,
		Adults:    booking.Adults,
		Children:  booking.Children,
		HasCar:    booking.HasCar,
		PMName:    settings.PMCompanyName,
	}

	options := make([]models.UpgradeOption, 0, len(candidates))
	for i := range candidates {
		candidate := &candidates[i]

		pricing := CalculateOfferPricing(
			booking.BaseNightlyRate,
			candidate.ListNightlyRate,
			booking.Nights,
			settings.MaxDiscountPct,
			booking.TotalPaid,
		)
		if !ValidatePricing(pricing, settings) {
			log.Printf("[offer] booking %s candidate %s failed pricing guardrails", bookingID, candidate.ID)
			continue
		}

		score := ComputeScore(original, candidate, booking)

		copyPkg, err := s.copyGen.GenerateOfferCopy(ctx, original, candidate, pricing, guest)
		if err != nil {
			// Degraded, never fatal.
			log.Printf("[offer] copy generation degraded for candidate %s: %v", candidate.ID, err)
			copyPkg = FallbackCopy(original, candidate, pricing, guest)
		}

		options = append(options, models.UpgradeOption{
			PropID:         candidate.ID,
			PropName:       candidate.Name,
			ViabilityScore: score,
			Pricing:        pricing.Rounded(),
			Diffs:          copyPkg.DiffBullets,
			Headline:       copyPkg.LandingHero,
			Summary:        copyPkg.LandingSummary,
			Copy:           copyPkg,
			Images:         candidate.ImageList(),
			Availability:   models.Availability{Available: true},
		})
	}

	// Stable sort keeps discovery order on ties.
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].ViabilityScore > options[j].ViabilityScore
	})
	if len(options) > topOptionsPerOffer {
		options = options[:topOptionsPerOffer]
	}
	if len(options) == 0 {
		log.Printf("[offer] booking %s: no valid options after guardrail filtering", bookingID)
		return "", ErrNoViableOptions
	}
	for i := range options {
		options[i].Ranking = i + 1
	}

	now := s.now().UTC()
	expiresAt := now.Add(time.Duration(settings.OfferValidityHours) * time.Hour)
	arrivalCap := time.Date(
		booking.ArrivalDate.Year(), booking.ArrivalDate.Month(), booking.ArrivalDate.Day(),
		expiryCapHour, 0, 0, 0, time.UTC,
	)
	if expiresAt.After(arrivalCap) {
		expiresAt = arrivalCap
	}

	offerID := uuid.NewString()
	top := options[0]
	subject := top.Copy.Subject
	body := strings.ReplaceAll(top.Copy.EmailHTML, "{{OFFER_URL}}", s.offerURL(offerID))

	encoded, err := models.EncodeOptions(options)
	if err != nil {
		return "", fmt.Errorf("encode options: %w", err)
	}

	offer := &models.Offer{
		ID:            offerID,
		BookingID:     bookingID,
		Status:        models.OfferStatusActive,
		Options:       encoded,
		ExpiresAt:     expiresAt,
		RegenCount:    0,
		EmailSubject:  subject,
		EmailBodyHTML: body,
		CreatedAt:     now,
	}

	if err := s.store.ReplaceOfferForBooking(bookingID, offer); err != nil {
		return "", fmt.Errorf("persist offer: %w", err)
	}
	log.Printf("[offer] generated offer %s for booking %s with %d options", offerID, bookingID, len(options))

	s.sendOfferEmail(offer, booking)

	return offerID, nil
}

func (s *OfferService) sendOfferEmail(offer *models.Offer, booking *models.Booking) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(booking.GuestEmail, offer.EmailSubject, offer.EmailBodyHTML); err != nil {
		log.Printf("[offer] email for offer %s failed: %v", offer.ID, err)
		return
	}
	sentAt := s.now().UTC()
	if err := s.store.UpdateOffer(offer.ID, map[string]interface{}{
		"email_sent_at": sentAt,
		"email_sent_to": booking.GuestEmail,
	}); err != nil {
		log.Printf("[offer] could not record email send for offer %s: %v", offer.ID, err)
	}
}

// OfferView is the guest-facing read model: the offer plus a snapshot of the
// original booking.
type OfferView struct {
	OfferID    string                 `json:"offer_id"`
	BookingID  string                 `json:"booking_id"`
	Status     string                 `json:"status"`
	ExpiresAt  time.Time              `json:"expires_at"`
	RegenCount int                    `json:"regen_count"`
	HostInfo   HostInfo               `json:"host_info"`
	Original   OriginalBookingView    `json:"original_booking"`
	Options    []models.UpgradeOption `json:"options"`
}

type HostInfo struct {
	Name   string `json:"name"`
	PMName string `json:"pm_name"`
}

type OriginalBookingView struct {
	ArrivalDate   time.Time `json:"arrival_date"`
	DepartureDate time.Time `json:"departure_date"`
	Nights        int       `json:"nights"`
	Adults        int       `json:"adults"`
	Children      int       `json:"children"`
	PropName      string    `json:"prop_name"`
	GuestName     string    `json:"guest_name"`
	CurrentADR    float64   `json:"current_adr"`
	CurrentTotal  float64   `json:"current_total"`
}

// GetOffer reads an offer with lazy expiry: past-expiry rows report expired
// without being mutated.
func (s *OfferService) GetOffer(offerID string) (*OfferView, error) {
	offer, err := s.store.GetOffer(offerID)
	if err != nil {
		return nil, ErrOfferNotFound
	}

	booking, err := s.store.GetBooking(offer.BookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}
	original, err := s.store.GetProperty(booking.PropID)
	if err != nil {
		return nil, ErrPropertyNotFound
	}

	hostName := "Your Host"
	pmName := "@luxury_stays"
	if settings, err := s.store.GetHostSettings(booking.HostID); err == nil {
		if settings.HostName != "" {
			hostName = settings.HostName
		}
		if settings.PMCompanyName != "" {
			pmName = settings.PMCompanyName
		}
	}

	return &OfferView{
		OfferID:    offer.ID,
		BookingID:  booking.ID,
		Status:     offer.EffectiveStatus(s.now().UTC()),
		ExpiresAt:  offer.ExpiresAt,
		RegenCount: offer.RegenCount,
		HostInfo:   HostInfo{Name: hostName, PMName: pmName},
		Original: OriginalBookingView{
			ArrivalDate:   booking.ArrivalDate,
			DepartureDate: booking.DepartureDate,
			Nights:        booking.Nights,
			Adults:        booking.Adults,
			Children:      booking.Children,
			PropName:      original.Name,
			GuestName:     booking.GuestName,
			CurrentADR:    booking.BaseNightlyRate,
			CurrentTotal:  booking.TotalPaid,
		},
		Options: offer.DecodeOptions(),
	}, nil
}

// AcceptResult reports a (possibly repeated) acceptance.
type AcceptResult struct {
	ConfirmationNumber string  `json:"confirmation_number"`
	PaymentAmount      float64 `json:"payment_amount"`
	IsDuplicate        bool    `json:"is_duplicate"`
}

// AcceptOffer transitions an active offer to accepted. Accepting an already
// accepted offer is an idempotent success returning the original confirmation
// flagged as duplicate; no new confirmation is minted.
func (s *OfferService) AcceptOffer(offerID, selectedPropID string) (*AcceptResult, error) {
	offer, err := s.store.GetOffer(offerID)
	if err != nil {
		return nil, ErrOfferNotFound
	}

	unlock := s.lockBooking(offer.BookingID)
	defer unlock()

	// Re-read under the lock; a racing generation may have replaced the row.
	offer, err = s.store.GetOffer(offerID)
	if err != nil {
		return nil, ErrOfferNotFound
	}

	if offer.Status == models.OfferStatusAccepted {
		return &AcceptResult{
			ConfirmationNumber: offer.ConfirmationNumber,
			PaymentAmount:      offer.PaymentAmount,
			IsDuplicate:        true,
		}, nil
	}

	now := s.now().UTC()
	if now.After(offer.ExpiresAt) {
		return nil, ErrOfferExpired
	}

	var selected *models.UpgradeOption
	for _, opt := range offer.DecodeOptions() {
		if opt.PropID == selectedPropID {
			o := opt
			selected = &o
			break
		}
	}
	if selected == nil {
		return nil, ErrOptionNotInOffer
	}

	// Degraded-but-non-fatal: a malformed option document still accepts, with
	// a zero payment amount for the operator to reconcile.
	payment := selected.Pricing.OfferTotal
	if payment == 0 {
		log.Printf("[offer] accept %s: option %s has no offer total, recording 0", offerID, selectedPropID)
	}

	confirmation, err := utils.GenerateConfirmationNumber()
	if err != nil {
		return nil, fmt.Errorf("generate confirmation: %w", err)
	}

	if err := s.store.UpdateOffer(offerID, map[string]interface{}{
		"status":              models.OfferStatusAccepted,
		"accepted_at":         now,
		"confirmation_number": confirmation,
		"selected_prop_id":    selectedPropID,
		"payment_amount":      payment,
	}); err != nil {
		return nil, fmt.Errorf("accept offer: %w", err)
	}
	log.Printf("[offer] offer %s accepted for property %s, confirmation %s", offerID, selectedPropID, confirmation)

	return &AcceptResult{
		ConfirmationNumber: confirmation,
		PaymentAmount:      payment,
	}, nil
}

// RegenerateOffer bumps the regeneration counter and returns the offer view
// unchanged. Real re-assembly with an exclusion set never ships in the
// observed system; full replacement goes through GenerateOffer, which resets
// the counter.
func (s *OfferService) RegenerateOffer(offerID string, excludePropIDs []string) (*OfferView, error) {
	offer, err := s.store.GetOffer(offerID)
	if err != nil {
		return nil, ErrOfferNotFound
	}

	unlock := s.lockBooking(offer.BookingID)
	defer unlock()

	if len(excludePropIDs) > 0 {
		log.Printf("[offer] regen %s requested excluding %v (options returned unchanged)", offerID, excludePropIDs)
	}

	if err := s.store.UpdateOffer(offerID, map[string]interface{}{
		"regen_count": offer.RegenCount + 1,
	}); err != nil {
		return nil, fmt.Errorf("bump regen count: %w", err)
	}

	return s.GetOffer(offerID)
}

// HandleCancellation marks a booking cancelled and fans recovery offers out
// to guests whose stays fall inside the vacated window at other properties.
// A candidate that yields no offer is skipped, not fatal for the batch.
func (s *OfferService) HandleCancellation(ctx context.Context, bookingID string) ([]string, error) {
	cancelled, err := s.store.GetBooking(bookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}

	if err := s.store.UpdateBookingStatus(bookingID, models.BookingStatusCancelled); err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}
	log.Printf("[recovery] booking %s cancelled, searching overlapping stays at other properties", bookingID)

	candidates, err := s.store.OverlappingBookings(cancelled.ArrivalDate, cancelled.DepartureDate, cancelled.ID, cancelled.PropID)
	if err != nil {
		return nil, fmt.Errorf("find overlapping bookings: %w", err)
	}
	if len(candidates) > maxRecoveryOffers {
		candidates = candidates[:maxRecoveryOffers]
	}

	offerIDs := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		offerID, err := s.GenerateOffer(ctx, candidate.ID)
		if err != nil {
			if errors.Is(err, ErrNoEligibleCandidates) || errors.Is(err, ErrNoViableOptions) {
				log.Printf("[recovery] booking %s yields no offer: %v", candidate.ID, err)
				continue
			}
			log.Printf("[recovery] booking %s failed: %v", candidate.ID, err)
			continue
		}
		offerIDs = append(offerIDs, offerID)
	}

	log.Printf("[recovery] generated %d recovery offers for cancelled booking %s", len(offerIDs), bookingID)
	return offerIDs, nil
}
