// services/scoring_service.go
package services

import (
	"strings"

	"uprez-backend/models"
)

// ComputeScore assigns a candidate its viability score relative to the
// original property and the booking's party. Additive and clamped to [0,10]:
// any single improvement never decreases rank, and no one signal can dominate
// the rest.
func ComputeScore(original, candidate *models.Property, booking *models.Booking) float64 {
	score := 0.0

	origMeta := original.Meta()
	candMeta := candidate.Meta()

	// Capacity upgrade
	if candidate.Beds > original.Beds {
		score += 2
	}
	if candidate.Baths > original.Baths {
		score += 1
	}

	// Newly gained premium amenities
	if candidate.HasAmenity("pool") && !original.HasAmenity("pool") {
		score += 3
	}
	if candidate.HasAmenity("parking") && !original.HasAmenity("parking") {
		if booking.HasCar {
			score += 2
		} else {
			score += 1
		}
	}
	if gainsGarden(original, origMeta, candidate, candMeta) {
		score += 1
	}

	// WiFi tier upgrade
	if isExcellentWifi(candMeta.WifiSpeed) && isBasicWifi(origMeta.WifiSpeed) {
		score += 1
	}

	// Family fit
	if booking.Children > 0 {
		if candidate.Beds >= original.Beds+1 {
			score += 2
		}
		if candMeta.BabyCrib {
			score += 1
		}
		if candMeta.HighChair {
			score += 0.5
		}
		if candidate.HasAmenity("kids_allowed") {
			score += 0.5
		}
	}

	// Beach proximity. Moving a beach-oriented guest away from the beach is
	// penalized even when everything else about the candidate is better.
	if isNearBeach(origMeta.BeachDistance) {
		switch {
		case isNearBeach(candMeta.BeachDistance):
			score += 2
		case strings.Contains(candMeta.BeachDistance, "10min"):
			score += 1
		default:
			score -= 2
		}
	}

	// Review delta, no penalty for a decrease
	if delta := candMeta.ReviewsRating - origMeta.ReviewsRating; delta > 0 {
		score += delta
	}

	if candMeta.Superhost && !origMeta.Superhost {
		score += 0.5
	}

	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}

func gainsGarden(original *models.Property, origMeta models.PropertyMeta, candidate *models.Property, candMeta models.PropertyMeta) bool {
	candHas := candidate.HasAmenity("garden") || strings.Contains(candMeta.OutdoorSpace, "garden")
	origHas := original.HasAmenity("garden") || strings.Contains(origMeta.OutdoorSpace, "garden")
	return candHas && !origHas
}

func isNearBeach(distance string) bool {
	return strings.Contains(distance, "beachfront") || strings.Contains(distance, "<5min")
}

func isExcellentWifi(speed string) bool {
	return strings.Contains(speed, "excellent") ||
		strings.Contains(speed, "500mbps") ||
		strings.Contains(speed, "gigabit")
}

func isBasicWifi(speed string) bool {
	return strings.Contains(speed, "basic") || strings.Contains(speed, "30mbps")
}
