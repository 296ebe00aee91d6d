// services/pricing_service.go
package services

import (
	"uprez-backend/models"
)

// floorMinLiftPerNight is the fixed per-night minimum lift backing the
// negotiation floor, in currency units.
const floorMinLiftPerNight = 20.0

// CalculateOfferPricing prices an upgrade: the guest pays the original rate
// plus the discounted difference to the candidate's list rate.
//
// Preconditions (enforced upstream by the eligibility filter): nights > 0,
// toADR > fromADR > 0, discountPct in [0,1]. Pass fromTotal <= 0 to default
// it to fromADR*nights.
//
// The returned breakdown is unrounded; call Rounded() before persisting or
// presenting it.
func CalculateOfferPricing(fromADR, toADR float64, nights int, discountPct float64, fromTotal float64) models.PricingDetails {
	diff := toADR - fromADR

	offerADR := fromADR + diff*(1-discountPct)
	offerTotal := offerADR * float64(nights)
	discountAmount := diff * float64(nights) * discountPct

	if fromTotal <= 0 {
		fromTotal = fromADR * float64(nights)
	}
	revenueLift := offerTotal - fromTotal

	// Lowest total the system will auto-honor in a negotiation. Never below
	// what the guest already paid.
	floorTotal := offerTotal * 0.75
	if min := fromTotal + float64(nights)*floorMinLiftPerNight; min > floorTotal {
		floorTotal = min
	}

	return models.PricingDetails{
		Currency:            "EUR",
		FromADR:             fromADR,
		ToADRList:           toADR,
		OfferADR:            offerADR,
		Nights:              nights,
		FromTotal:           fromTotal,
		OfferTotal:          offerTotal,
		ListTotal:           toADR * float64(nights),
		DiscountPercent:     discountPct,
		DiscountAmountTotal: discountAmount,
		RevenueLift:         revenueLift,
		FloorTotal:          floorTotal,
		FloorADR:            floorTotal / float64(nights),
	}
}

// ValidatePricing checks a computed breakdown against the host's guardrails.
// Uses unrounded values.
func ValidatePricing(pricing models.PricingDetails, settings *models.HostSettings) bool {
	if pricing.RevenueLift/float64(pricing.Nights) < settings.MinRevenueLiftPerNight {
		return false
	}
	if pricing.OfferTotal <= pricing.FromTotal {
		return false
	}
	if pricing.OfferADR < pricing.FromADR*settings.MinADRRatio {
		return false
	}
	return true
}
