package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/datatypes"
)

func TestPropertyMetaKeepsUnknownKeys(t *testing.T) {
	raw := []byte(`{
		"beach_distance": "beachfront",
		"wifi_speed": "excellent 500mbps",
		"reviews_rating": 4.8,
		"superhost": true,
		"heating": "underfloor",
		"checkin": {"self": true}
	}`)

	var meta PropertyMeta
	require.NoError(t, json.Unmarshal(raw, &meta))

	assert.Equal(t, "beachfront", meta.BeachDistance)
	assert.Equal(t, 4.8, meta.ReviewsRating)
	assert.True(t, meta.Superhost)
	require.NotNil(t, meta.Extra)
	assert.Equal(t, "underfloor", meta.Extra["heating"])
	assert.Contains(t, meta.Extra, "checkin")

	out, err := json.Marshal(meta)
	require.NoError(t, err)
	var round map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &round))
	assert.Equal(t, "underfloor", round["heating"])
	assert.Equal(t, "beachfront", round["beach_distance"])
}

func TestPropertyMetaEmptyColumn(t *testing.T) {
	p := Property{}
	meta := p.Meta()
	assert.Empty(t, meta.BeachDistance)
	assert.Zero(t, meta.ReviewsRating)
	assert.Nil(t, meta.Extra)
}

func TestPropertyHasAmenityCaseInsensitive(t *testing.T) {
	p := Property{Amenities: datatypes.JSON(`["WiFi","Pool"]`)}
	assert.True(t, p.HasAmenity("wifi"))
	assert.True(t, p.HasAmenity("POOL"))
	assert.False(t, p.HasAmenity("parking"))
}
