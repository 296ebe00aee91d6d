package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"uprez-backend/models"
)

func withMeta(t *testing.T, p models.Property, meta map[string]interface{}) models.Property {
	t.Helper()
	b, err := json.Marshal(meta)
	require.NoError(t, err)
	p.Metadata = datatypes.JSON(b)
	return p
}

func TestComputeScoreCapacityAndPool(t *testing.T) {
	original := makeProperty(t, "orig", 2, 1, 150, []string{"wifi", "ac"})
	candidate := makeProperty(t, "cand", 3, 2, 300, []string{"wifi", "ac", "pool"})
	booking := &models.Booking{ID: "bk_1"}

	// +2 beds, +1 baths, +3 pool.
	assert.Equal(t, 6.0, ComputeScore(&original, &candidate, booking))
}

func TestComputeScoreParkingDependsOnCar(t *testing.T) {
	original := makeProperty(t, "orig", 2, 1, 150, nil)
	candidate := makeProperty(t, "cand", 2, 1, 300, []string{"parking"})

	withCar := ComputeScore(&original, &candidate, &models.Booking{HasCar: true})
	withoutCar := ComputeScore(&original, &candidate, &models.Booking{HasCar: false})

	assert.Equal(t, 2.0, withCar)
	assert.Equal(t, 1.0, withoutCar)
}

func TestComputeScoreNoPointsForAlreadyOwnedAmenities(t *testing.T) {
	original := makeProperty(t, "orig", 2, 1, 150, []string{"pool", "parking", "garden"})
	candidate := makeProperty(t, "cand", 2, 1, 300, []string{"pool", "parking", "garden"})
	booking := &models.Booking{HasCar: true}

	assert.Equal(t, 0.0, ComputeScore(&original, &candidate, booking))
}

func TestComputeScoreWifiTierUpgrade(t *testing.T) {
	original := withMeta(t, makeProperty(t, "orig", 2, 1, 150, nil),
		map[string]interface{}{"wifi_speed": "basic 30mbps"})
	candidate := withMeta(t, makeProperty(t, "cand", 2, 1, 300, nil),
		map[string]interface{}{"wifi_speed": "excellent 500mbps"})
	booking := &models.Booking{}

	assert.Equal(t, 1.0, ComputeScore(&original, &candidate, booking))

	// No credit when the original already has fast wifi.
	fastOriginal := withMeta(t, makeProperty(t, "orig2", 2, 1, 150, nil),
		map[string]interface{}{"wifi_speed": "excellent 500mbps"})
	assert.Equal(t, 0.0, ComputeScore(&fastOriginal, &candidate, booking))
}

func TestComputeScoreFamilyFit(t *testing.T) {
	original := makeProperty(t, "orig", 2, 1, 150, nil)
	candidate := withMeta(t, makeProperty(t, "cand", 3, 1, 300, []string{"kids_allowed"}),
		map[string]interface{}{"baby_crib": true, "high_chair": true})

	family := &models.Booking{Children: 2}
	noKids := &models.Booking{Children: 0}

	// +2 beds, and with children: +2 extra-bed bonus, +1 crib, +0.5 chair,
	// +0.5 kids_allowed.
	assert.Equal(t, 6.0, ComputeScore(&original, &candidate, family))
	assert.Equal(t, 2.0, ComputeScore(&original, &candidate, noKids))
}

func TestComputeScoreBeachOrientation(t *testing.T) {
	original := withMeta(t, makeProperty(t, "orig", 2, 1, 150, nil),
		map[string]interface{}{"beach_distance": "beachfront"})
	booking := &models.Booking{}

	staysNear := withMeta(t, makeProperty(t, "c1", 2, 1, 300, nil),
		map[string]interface{}{"beach_distance": "<5min walk"})
	tenMinutes := withMeta(t, makeProperty(t, "c2", 2, 1, 300, nil),
		map[string]interface{}{"beach_distance": "10min walk"})
	inland := withMeta(t, makeProperty(t, "c3", 2, 1, 300, nil),
		map[string]interface{}{"beach_distance": "25min drive"})

	assert.Equal(t, 2.0, ComputeScore(&original, &staysNear, booking))
	assert.Equal(t, 1.0, ComputeScore(&original, &tenMinutes, booking))
	// Moving a beachfront guest inland floors at zero, never negative.
	assert.Equal(t, 0.0, ComputeScore(&original, &inland, booking))
}

func TestComputeScoreBeachPenaltyOnlyWhenOriginalIsNear(t *testing.T) {
	original := withMeta(t, makeProperty(t, "orig", 2, 1, 150, nil),
		map[string]interface{}{"beach_distance": "20min drive"})
	inland := withMeta(t, makeProperty(t, "cand", 3, 1, 300, nil),
		map[string]interface{}{"beach_distance": "25min drive"})

	assert.Equal(t, 2.0, ComputeScore(&original, &inland, &models.Booking{}))
}

func TestComputeScoreReviewDeltaNeverNegative(t *testing.T) {
	original := withMeta(t, makeProperty(t, "orig", 2, 1, 150, nil),
		map[string]interface{}{"reviews_rating": 4.9})
	candidate := withMeta(t, makeProperty(t, "cand", 3, 1, 300, nil),
		map[string]interface{}{"reviews_rating": 4.2})

	// +2 beds; the 0.7 rating drop costs nothing.
	assert.Equal(t, 2.0, ComputeScore(&original, &candidate, &models.Booking{}))

	better := withMeta(t, makeProperty(t, "cand2", 3, 1, 300, nil),
		map[string]interface{}{"reviews_rating": 5.4})
	assert.InDelta(t, 2.5, ComputeScore(&original, &better, &models.Booking{}), 1e-9)
}

func TestComputeScoreSuperhostBonus(t *testing.T) {
	original := makeProperty(t, "orig", 2, 1, 150, nil)
	candidate := withMeta(t, makeProperty(t, "cand", 2, 1, 300, nil),
		map[string]interface{}{"superhost": true})

	assert.Equal(t, 0.5, ComputeScore(&original, &candidate, &models.Booking{}))
}

func TestComputeScoreClampedAtTen(t *testing.T) {
	original := withMeta(t, makeProperty(t, "orig", 1, 1, 100, nil),
		map[string]interface{}{"beach_distance": "beachfront", "reviews_rating": 3.0})
	candidate := withMeta(t,
		makeProperty(t, "cand", 4, 3, 250, []string{"pool", "parking", "garden", "kids_allowed"}),
		map[string]interface{}{
			"beach_distance": "beachfront",
			"reviews_rating": 5.0,
			"superhost":      true,
			"baby_crib":      true,
			"high_chair":     true,
			"wifi_speed":     "gigabit",
		})
	booking := &models.Booking{Children: 2, HasCar: true}

	assert.Equal(t, 10.0, ComputeScore(&original, &candidate, booking))
}
