package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uprez-backend/models"
)

func TestCalculateOfferPricingWorkedExample(t *testing.T) {
	// €150 booked, €300 list, 7 nights, 40% discount on the difference.
	pricing := CalculateOfferPricing(150, 300, 7, 0.40, 1050)

	assert.InDelta(t, 240.0, pricing.OfferADR, 1e-9)
	assert.InDelta(t, 1680.0, pricing.OfferTotal, 1e-9)
	assert.InDelta(t, 2100.0, pricing.ListTotal, 1e-9)
	assert.InDelta(t, 420.0, pricing.DiscountAmountTotal, 1e-9)
	assert.InDelta(t, 630.0, pricing.RevenueLift, 1e-9)
	assert.Equal(t, "EUR", pricing.Currency)
	assert.Equal(t, 7, pricing.Nights)
}

func TestCalculateOfferPricingDefaultsFromTotal(t *testing.T) {
	pricing := CalculateOfferPricing(100, 200, 3, 0.30, 0)

	assert.InDelta(t, 300.0, pricing.FromTotal, 1e-9)
	assert.InDelta(t, 170.0, pricing.OfferADR, 1e-9)
	assert.InDelta(t, 510.0, pricing.OfferTotal, 1e-9)
	assert.InDelta(t, 210.0, pricing.RevenueLift, 1e-9)
}

func TestCalculateOfferPricingZeroDiscountIsListPrice(t *testing.T) {
	pricing := CalculateOfferPricing(150, 300, 7, 0, 1050)

	assert.InDelta(t, 300.0, pricing.OfferADR, 1e-9)
	assert.InDelta(t, pricing.ListTotal, pricing.OfferTotal, 1e-9)
	assert.InDelta(t, 0.0, pricing.DiscountAmountTotal, 1e-9)
}

func TestCalculateOfferPricingFullDiscountIsOriginalRate(t *testing.T) {
	pricing := CalculateOfferPricing(150, 300, 7, 1.0, 1050)

	assert.InDelta(t, 150.0, pricing.OfferADR, 1e-9)
	assert.InDelta(t, 1050.0, pricing.OfferTotal, 1e-9)
	assert.InDelta(t, 0.0, pricing.RevenueLift, 1e-9)
}

func TestOfferTotalMonotonicInTargetRate(t *testing.T) {
	prev := CalculateOfferPricing(150, 200, 7, 0.40, 1050).OfferTotal
	for _, toADR := range []float64{220.0, 250.0, 300.0, 360.0} {
		cur := CalculateOfferPricing(150, toADR, 7, 0.40, 1050).OfferTotal
		assert.Greaterf(t, cur, prev, "offer total must grow with the target rate (toADR=%v)", toADR)
		prev = cur
	}
}

func TestOfferADRMonotonicInDiscount(t *testing.T) {
	prev := CalculateOfferPricing(150, 300, 7, 0, 1050).OfferADR
	for _, pct := range []float64{0.1, 0.25, 0.4, 0.6, 0.9} {
		cur := CalculateOfferPricing(150, 300, 7, pct, 1050).OfferADR
		assert.Lessf(t, cur, prev, "offer ADR must shrink as discount grows (pct=%v)", pct)
		prev = cur
	}
}

func TestFloorTotalTakesThreeQuarterBranch(t *testing.T) {
	pricing := CalculateOfferPricing(150, 300, 7, 0.40, 1050)

	// 0.75 * 1680 = 1260 beats 1050 + 7*20 = 1190.
	assert.InDelta(t, 1260.0, pricing.FloorTotal, 1e-9)
	assert.InDelta(t, 180.0, pricing.FloorADR, 1e-9)
}

func TestFloorTotalNeverBelowPaidPlusMinLift(t *testing.T) {
	// Thin margin: offer barely above what the guest paid, so the 75% cut
	// would undercut the paid total. The floor must hold at paid + 20/night.
	pricing := CalculateOfferPricing(150, 160, 5, 0.40, 750)

	require.InDelta(t, 156.0, pricing.OfferADR, 1e-9)
	require.InDelta(t, 780.0, pricing.OfferTotal, 1e-9)
	assert.InDelta(t, 850.0, pricing.FloorTotal, 1e-9)
	assert.GreaterOrEqual(t, pricing.FloorTotal, pricing.FromTotal)
}

func TestValidatePricing(t *testing.T) {
	settings := &models.HostSettings{
		MinRevenueLiftPerNight: 30,
		MinADRRatio:            1.10,
	}

	tests := []struct {
		name    string
		pricing models.PricingDetails
		want    bool
	}{
		{
			name:    "worked example passes",
			pricing: CalculateOfferPricing(150, 300, 7, 0.40, 1050),
			want:    true,
		},
		{
			// Ratio holds (124 >= 110) but lift is 24/night.
			name:    "lift per night below minimum",
			pricing: CalculateOfferPricing(100, 140, 7, 0.40, 700),
			want:    false,
		},
		{
			name:    "full discount means no lift",
			pricing: CalculateOfferPricing(150, 300, 7, 1.0, 1050),
			want:    false,
		},
		{
			// Lift holds (33/night) but 433 < 400*1.10.
			name:    "offer ADR below minimum ratio",
			pricing: CalculateOfferPricing(400, 455, 4, 0.40, 1600),
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePricing(tt.pricing, settings))
		})
	}
}

func TestPricingRoundedTwoDecimals(t *testing.T) {
	pricing := CalculateOfferPricing(133.33, 266.67, 3, 0.35, 0)
	rounded := pricing.Rounded()

	// 133.33 + 133.34*0.65 = 220.001 rounds to 220.00.
	assert.InDelta(t, rounded.OfferADR, pricing.OfferADR, 0.005)
	assert.Equal(t, 220.0, rounded.OfferADR)
	assert.Equal(t, 660.0, rounded.OfferTotal)
}
