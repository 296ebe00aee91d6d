package models

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type Property struct {
	ID       string `gorm:"primaryKey;size:64" json:"id"`
	Name     string `gorm:"uniqueIndex;size:255" json:"name"`
	Location string `gorm:"size:255" json:"location"`
	Beds     int    `json:"beds"`
	Baths    int    `json:"baths"`

	ListNightlyRate float64 `gorm:"column:list_nightly_rate" json:"list_nightly_rate"`

	Amenities datatypes.JSON `gorm:"column:amenities" json:"amenities,omitempty"`
	Metadata  datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	Images    datatypes.JSON `gorm:"column:images" json:"images,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// PropertyMeta is the typed view of the metadata JSON column. Known fields are
// named; anything else lands in Extra so extension data survives round trips.
type PropertyMeta struct {
	BeachDistance string  `json:"beach_distance,omitempty"`
	WifiSpeed     string  `json:"wifi_speed,omitempty"`
	ReviewsRating float64 `json:"reviews_rating,omitempty"`
	Superhost     bool    `json:"superhost,omitempty"`
	BabyCrib      bool    `json:"baby_crib,omitempty"`
	HighChair     bool    `json:"high_chair,omitempty"`
	OutdoorSpace  string  `json:"outdoor_space,omitempty"`

	Extra map[string]interface{} `json:"-"`
}

var propertyMetaKnownKeys = map[string]bool{
	"beach_distance": true,
	"wifi_speed":     true,
	"reviews_rating": true,
	"superhost":      true,
	"baby_crib":      true,
	"high_chair":     true,
	"outdoor_space":  true,
}

func (m *PropertyMeta) UnmarshalJSON(data []byte) error {
	type alias PropertyMeta
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*m = PropertyMeta(a)

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k := range propertyMetaKnownKeys {
		delete(raw, k)
	}
	if len(raw) > 0 {
		m.Extra = raw
	}
	return nil
}

func (m PropertyMeta) MarshalJSON() ([]byte, error) {
	type alias PropertyMeta
	out := map[string]interface{}{}
	base, err := json.Marshal(alias(m))
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(base, &out); err != nil {
		return nil, err
	}
	for k, v := range m.Extra {
		if !propertyMetaKnownKeys[k] {
			out[k] = v
		}
	}
	return json.Marshal(out)
}

// Meta decodes the metadata column. An empty or unparseable column yields the
// zero value; the scorer treats every field as optional.
func (p *Property) Meta() PropertyMeta {
	var m PropertyMeta
	if len(p.Metadata) == 0 {
		return m
	}
	_ = json.Unmarshal(p.Metadata, &m)
	return m
}

func (p *Property) AmenityList() []string {
	return decodeStringList(p.Amenities)
}

func (p *Property) ImageList() []string {
	return decodeStringList(p.Images)
}

// HasAmenity does a case-insensitive tag lookup.
func (p *Property) HasAmenity(tag string) bool {
	for _, a := range p.AmenityList() {
		if strings.EqualFold(a, tag) {
			return true
		}
	}
	return false
}

func decodeStringList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// EncodeStringList marshals a string slice for a datatypes.JSON column.
func EncodeStringList(list []string) ([]byte, error) {
	if list == nil {
		list = []string{}
	}
	return json.Marshal(list)
}
