// services/eligibility_service.go
package services

import (
	"log"

	"uprez-backend/models"
)

// criticalAmenities must survive an upgrade: a candidate missing one the
// original has is rejected outright.
var criticalAmenities = []string{"wifi", "ac"}

// FilterEligibleCandidates applies the hard pass/fail constraints over the
// full inventory and returns the survivors in inventory order. An empty
// result is a valid terminal outcome, not an error.
func FilterEligibleCandidates(
	allProperties []models.Property,
	original *models.Property,
	booking *models.Booking,
	settings *models.HostSettings,
) []models.Property {
	eligible := make([]models.Property, 0, len(allProperties))

	for i := range allProperties {
		candidate := &allProperties[i]

		if reason := rejectReason(candidate, original, settings); reason != "" {
			log.Printf("[eligibility] booking=%s candidate=%s rejected: %s", booking.ID, candidate.ID, reason)
			continue
		}
		eligible = append(eligible, *candidate)
	}

	return eligible
}

// rejectReason returns the first failing constraint, or "" when the candidate
// survives. Order of checks only matters for diagnostics.
func rejectReason(candidate, original *models.Property, settings *models.HostSettings) string {
	if candidate.ID == original.ID {
		return "same property"
	}
	if settings.IsBlocked(candidate.ID) {
		return "blocked by host"
	}
	if candidate.Beds < original.Beds {
		return "fewer beds"
	}
	if candidate.Baths < original.Baths {
		return "fewer baths"
	}
	if candidate.ListNightlyRate <= original.ListNightlyRate {
		return "not an upgrade on price"
	}
	if candidate.ListNightlyRate > original.ListNightlyRate*settings.MaxADRMultiplier {
		return "exceeds max ADR multiplier"
	}
	for _, amenity := range criticalAmenities {
		if original.HasAmenity(amenity) && !candidate.HasAmenity(amenity) {
			return "drops critical amenity " + amenity
		}
	}
	return ""
}
