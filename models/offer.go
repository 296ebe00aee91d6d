package models

import (
	"encoding/json"
	"math"
	"time"

	"gorm.io/datatypes"
)

const (
	OfferStatusActive   = "active"
	OfferStatusExpired  = "expired"
	OfferStatusAccepted = "accepted"
)

// Offer is the persisted, time-boxed bundle of ranked upgrade options for one
// booking. The ranked options are stored as a single JSON document so the
// presented content stays immutable once generated, independent of later
// property edits.
type Offer struct {
	ID        string `gorm:"primaryKey;size:64" json:"id"`
	BookingID string `gorm:"column:booking_id;uniqueIndex;size:64" json:"booking_id"`
	Status    string `gorm:"size:32;default:active;index" json:"status"`

	Options datatypes.JSON `gorm:"column:options" json:"options"`

	ExpiresAt  time.Time `gorm:"column:expires_at" json:"expires_at"`
	RegenCount int       `gorm:"column:regen_count;default:0" json:"regen_count"`

	EmailSubject   string     `gorm:"column:email_subject;size:512" json:"email_subject,omitempty"`
	EmailBodyHTML  string     `gorm:"column:email_body_html;type:longtext" json:"email_body_html,omitempty"`
	EmailSentAt    *time.Time `gorm:"column:email_sent_at" json:"email_sent_at,omitempty"`
	EmailSentTo    string     `gorm:"column:email_sent_to;size:255" json:"email_sent_to,omitempty"`
	EmailOpenedAt  *time.Time `gorm:"column:email_opened_at" json:"email_opened_at,omitempty"`
	EmailClickedAt *time.Time `gorm:"column:email_clicked_at" json:"email_clicked_at,omitempty"`

	AcceptedAt         *time.Time `gorm:"column:accepted_at" json:"accepted_at,omitempty"`
	ConfirmationNumber string     `gorm:"column:confirmation_number;size:32" json:"confirmation_number,omitempty"`
	SelectedPropID     string     `gorm:"column:selected_prop_id;size:64" json:"selected_prop_id,omitempty"`
	PaymentAmount      float64    `gorm:"column:payment_amount;default:0" json:"payment_amount,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// PricingDetails is the full breakdown for one upgrade option. FloorTotal is
// the lowest total the system will auto-honor in a negotiation.
type PricingDetails struct {
	Currency            string  `json:"currency"`
	FromADR             float64 `json:"from_adr"`
	ToADRList           float64 `json:"to_adr_list"`
	OfferADR            float64 `json:"offer_adr"`
	Nights              int     `json:"nights"`
	FromTotal           float64 `json:"from_total"`
	OfferTotal          float64 `json:"offer_total"`
	ListTotal           float64 `json:"list_total"`
	DiscountPercent     float64 `json:"discount_percent"`
	DiscountAmountTotal float64 `json:"discount_amount_total"`
	RevenueLift         float64 `json:"revenue_lift"`
	FloorTotal          float64 `json:"floor_total"`
	FloorADR            float64 `json:"floor_adr"`
}

// Rounded returns a display copy with monetary fields rounded to 2 decimals.
// Internal comparisons always use the unrounded struct.
func (p PricingDetails) Rounded() PricingDetails {
	r := p
	r.FromADR = round2(p.FromADR)
	r.ToADRList = round2(p.ToADRList)
	r.OfferADR = round2(p.OfferADR)
	r.FromTotal = round2(p.FromTotal)
	r.OfferTotal = round2(p.OfferTotal)
	r.ListTotal = round2(p.ListTotal)
	r.DiscountAmountTotal = round2(p.DiscountAmountTotal)
	r.RevenueLift = round2(p.RevenueLift)
	r.FloorTotal = round2(p.FloorTotal)
	r.FloorADR = round2(p.FloorADR)
	return r
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// OfferCopy is the structured text package from the copy generator, or its
// deterministic fallback.
type OfferCopy struct {
	Subject        string   `json:"subject"`
	EmailHTML      string   `json:"email_html"`
	LandingHero    string   `json:"landing_hero"`
	LandingSummary string   `json:"landing_summary"`
	DiffBullets    []string `json:"diff_bullets"`
}

// Availability is a hook for future real-time inventory checks; always
// available at generation time.
type Availability struct {
	Available bool    `json:"available"`
	Reason    *string `json:"reason"`
}

// UpgradeOption is one ranked entry of an offer's option list, embedded in
// the offer document rather than stored as its own row.
type UpgradeOption struct {
	Ranking        int            `json:"ranking"`
	PropID         string         `json:"prop_id"`
	PropName       string         `json:"prop_name"`
	ViabilityScore float64        `json:"viability_score"`
	Pricing        PricingDetails `json:"pricing"`
	Diffs          []string       `json:"diffs"`
	Headline       string         `json:"headline"`
	Summary        string         `json:"summary"`
	Copy           *OfferCopy     `json:"ai_copy,omitempty"`
	Images         []string       `json:"images"`
	Availability   Availability   `json:"availability"`
}

func (o *Offer) DecodeOptions() []UpgradeOption {
	if len(o.Options) == 0 {
		return nil
	}
	var opts []UpgradeOption
	if err := json.Unmarshal(o.Options, &opts); err != nil {
		return nil
	}
	return opts
}

func EncodeOptions(opts []UpgradeOption) (datatypes.JSON, error) {
	b, err := json.Marshal(opts)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// EffectiveStatus applies lazy expiry: a stored "active" row past its expiry
// reads as expired without being mutated.
func (o *Offer) EffectiveStatus(now time.Time) string {
	if o.Status == OfferStatusActive && now.After(o.ExpiresAt) {
		return OfferStatusExpired
	}
	return o.Status
}
