package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uprez-backend/models"
)

func TestGeneratePropertyDiffs(t *testing.T) {
	original := makeProperty(t, "orig", 2, 1, 150, []string{"wifi"})
	candidate := makeProperty(t, "cand", 4, 2, 300, []string{"wifi", "pool"})

	diffs := GeneratePropertyDiffs(&original, &candidate)
	require.Len(t, diffs, 3)
	assert.Equal(t, "+2 extra bedrooms (4 beds vs 2)", diffs[0])
	assert.Equal(t, "+1 extra bathroom", diffs[1])
	assert.Equal(t, "Includes Pool", diffs[2])
}

func TestGeneratePropertyDiffsCappedAtThree(t *testing.T) {
	original := makeProperty(t, "orig", 1, 1, 100, nil)
	candidate := makeProperty(t, "cand", 3, 2, 300,
		[]string{"pool", "parking", "garden", "gym", "balcony"})

	diffs := GeneratePropertyDiffs(&original, &candidate)
	assert.Len(t, diffs, 3)
}

func TestGeneratePropertyDiffsGenericFallbacks(t *testing.T) {
	original := makeProperty(t, "orig", 2, 1, 150, []string{"wifi"})
	similar := makeProperty(t, "cand", 2, 1, 180, []string{"wifi"})
	premium := makeProperty(t, "cand2", 2, 1, 280, []string{"wifi"})

	assert.Equal(t, []string{"Better amenities and location"}, GeneratePropertyDiffs(&original, &similar))
	assert.Equal(t, []string{"Premium property upgrade"}, GeneratePropertyDiffs(&original, &premium))
}

func TestFallbackCopyShape(t *testing.T) {
	original := makeProperty(t, "orig", 2, 1, 150, []string{"wifi"})
	candidate := makeProperty(t, "cand", 3, 2, 300, []string{"wifi", "pool"})
	pricing := CalculateOfferPricing(150, 300, 7, 0.40, 1050)
	guest := GuestContext{GuestName: "Anna Schmidt", Adults: 2}

	pkg := FallbackCopy(&original, &candidate, pricing, guest)

	assert.Contains(t, pkg.Subject, "Anna")
	assert.Contains(t, pkg.Subject, candidate.Name)
	assert.Contains(t, pkg.EmailHTML, "{{OFFER_URL}}")
	assert.Contains(t, pkg.EmailHTML, "90&euro;")
	assert.NotEmpty(t, pkg.LandingHero)
	assert.NotEmpty(t, pkg.DiffBullets)
}

func TestFallbackCopyAnonymousGuest(t *testing.T) {
	original := makeProperty(t, "orig", 2, 1, 150, nil)
	candidate := makeProperty(t, "cand", 3, 2, 300, nil)
	pricing := CalculateOfferPricing(150, 300, 7, 0.40, 1050)

	pkg := FallbackCopy(&original, &candidate, pricing, GuestContext{})
	assert.Contains(t, pkg.Subject, "Valued Guest")
}

func TestAigenCopyServiceParsesResponse(t *testing.T) {
	payload := models.OfferCopy{
		Subject:        "Anna, your upgrade awaits",
		EmailHTML:      `<a href="{{OFFER_URL}}">Upgrade</a>`,
		LandingHero:    "Go bigger",
		LandingSummary: "Three bedrooms by the sea",
		DiffBullets:    []string{"+1 bedroom"},
	}
	inner, err := json.Marshal(payload)
	require.NoError(t, err)

	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-aigen-key")
		resp := map[string]interface{}{
			"status":  "success",
			"message": "ok",
			// Backend wraps the JSON document in chatter.
			"data": "Here you go:\n" + string(inner) + "\nEnjoy!",
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	svc := NewAigenCopyService(CopyConfig{Endpoint: srv.URL, APIKey: "k-123", Timeout: 2 * time.Second})

	original := makeProperty(t, "orig", 2, 1, 150, nil)
	candidate := makeProperty(t, "cand", 3, 2, 300, nil)
	pricing := CalculateOfferPricing(150, 300, 7, 0.40, 1050)

	pkg, err := svc.GenerateOfferCopy(context.Background(), &original, &candidate, pricing, GuestContext{GuestName: "Anna"})
	require.NoError(t, err)
	assert.Equal(t, "k-123", gotKey)
	assert.Equal(t, payload.Subject, pkg.Subject)
	assert.Equal(t, payload.EmailHTML, pkg.EmailHTML)
}

func TestAigenCopyServiceRejectsEmptyCopy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"status": "success",
			"data":   `{"subject":"","email_html":""}`,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	svc := NewAigenCopyService(CopyConfig{Endpoint: srv.URL, APIKey: "k", Timeout: 2 * time.Second})

	original := makeProperty(t, "orig", 2, 1, 150, nil)
	candidate := makeProperty(t, "cand", 3, 2, 300, nil)
	pricing := CalculateOfferPricing(150, 300, 7, 0.40, 1050)

	_, err := svc.GenerateOfferCopy(context.Background(), &original, &candidate, pricing, GuestContext{})
	assert.Error(t, err)
}
