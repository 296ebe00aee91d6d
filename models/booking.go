package models

import "time"

const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

type Booking struct {
	ID     string `gorm:"primaryKey;size:64" json:"id"`
	HostID string `gorm:"column:host_id;index;size:64" json:"host_id"`
	PropID string `gorm:"column:prop_id;index;size:64" json:"prop_id"`

	ArrivalDate   time.Time `gorm:"column:arrival_date" json:"arrival_date"`
	DepartureDate time.Time `gorm:"column:departure_date" json:"departure_date"`
	Nights        int       `json:"nights"`

	GuestName    string `gorm:"column:guest_name;size:255" json:"guest_name"`
	GuestEmail   string `gorm:"column:guest_email;size:255" json:"guest_email"`
	GuestCountry string `gorm:"column:guest_country;size:64" json:"guest_country,omitempty"`

	Adults   int  `gorm:"default:2" json:"adults"`
	Children int  `gorm:"default:0" json:"children"`
	Infants  int  `gorm:"default:0" json:"infants"`
	HasCar   bool `gorm:"column:has_car;default:false" json:"has_car"`

	RateCode        string  `gorm:"column:rate_code;size:32;default:FLEX" json:"rate_code,omitempty"`
	BaseNightlyRate float64 `gorm:"column:base_nightly_rate" json:"base_nightly_rate"`
	TotalPaid       float64 `gorm:"column:total_paid" json:"total_paid"`
	Channel         string  `gorm:"size:64;default:direct" json:"channel,omitempty"`

	Status string `gorm:"size:32;default:confirmed;index" json:"status"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	Property Property `gorm:"foreignKey:PropID;references:ID" json:"property,omitempty"`
}
