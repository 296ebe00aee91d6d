package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// HostSettings carries every guardrail the offer pipeline consumes, one row
// per host.
type HostSettings struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	HostID string `gorm:"column:host_id;uniqueIndex;size:64" json:"host_id"`

	HostName string `gorm:"column:host_name;size:255" json:"host_name,omitempty"`

	MinRevenueLiftPerNight float64 `gorm:"column:min_revenue_lift_eur_per_night;default:30" json:"min_revenue_lift_eur_per_night"`
	MaxDiscountPct         float64 `gorm:"column:max_discount_pct;default:0.40" json:"max_discount_pct"`
	MinADRRatio            float64 `gorm:"column:min_adr_ratio;default:1.10" json:"min_adr_ratio"`
	MaxADRMultiplier       float64 `gorm:"column:max_adr_multiplier;default:2.50" json:"max_adr_multiplier"`

	ChannelFeePct float64 `gorm:"column:channel_fee_pct;default:0.18" json:"channel_fee_pct"`
	ChangeFeeEUR  float64 `gorm:"column:change_fee_eur;default:25" json:"change_fee_eur"`

	BlockedPropIDs     datatypes.JSON `gorm:"column:blocked_prop_ids" json:"blocked_prop_ids,omitempty"`
	PreferredAmenities datatypes.JSON `gorm:"column:preferred_amenities" json:"preferred_amenities,omitempty"`

	MaxDistanceToBeachM int  `gorm:"column:max_distance_to_beach_m;default:5000" json:"max_distance_to_beach_m"`
	OfferValidityHours  int  `gorm:"column:offer_validity_hours;default:48" json:"offer_validity_hours"`
	AutoRegenEnabled    bool `gorm:"column:auto_regen_enabled;default:true" json:"auto_regen_enabled"`

	EmailSenderAddress string `gorm:"column:email_sender_address;size:255" json:"email_sender_address,omitempty"`
	EmailSenderName    string `gorm:"column:email_sender_name;size:255;default:UpRez" json:"email_sender_name,omitempty"`
	PMCompanyName      string `gorm:"column:pm_company_name;size:255" json:"pm_company_name,omitempty"`

	OffersSentThisMonth    int     `gorm:"column:offers_sent_this_month;default:0" json:"offers_sent_this_month"`
	RevenueLiftedThisMonth float64 `gorm:"column:revenue_lifted_this_month;default:0" json:"revenue_lifted_this_month"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultHostSettings is the documented fallback used when a booking's host
// has no settings row: 40% max discount, €30/night minimum lift, x2.5 ADR
// ceiling, 48h validity.
func DefaultHostSettings(hostID string) HostSettings {
	return HostSettings{
		HostID:                 hostID,
		MinRevenueLiftPerNight: 30,
		MaxDiscountPct:         0.40,
		MinADRRatio:            1.10,
		MaxADRMultiplier:       2.50,
		ChannelFeePct:          0.18,
		ChangeFeeEUR:           25,
		MaxDistanceToBeachM:    5000,
		OfferValidityHours:     48,
		AutoRegenEnabled:       true,
		EmailSenderName:        "UpRez",
	}
}

func (s *HostSettings) BlockedIDs() []string {
	if len(s.BlockedPropIDs) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(s.BlockedPropIDs, &out); err != nil {
		return nil
	}
	return out
}

func (s *HostSettings) IsBlocked(propID string) bool {
	for _, id := range s.BlockedIDs() {
		if id == propID {
			return true
		}
	}
	return false
}
