// services/copy_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"uprez-backend/models"
)

// GuestContext is the slice of booking data the copy backend personalizes on.
type GuestContext struct {
	GuestName string `json:"guest_name"`
	Adults    int    `json:"adults"`
	Children  int    `json:"children"`
	HasCar    bool   `json:"has_car"`
	PMName    string `json:"pm_name,omitempty"`
}

// CopyGenerator produces the marketing text package for one upgrade option.
// Implementations may fail or time out; callers must substitute FallbackCopy
// and never let a copy failure abort offer generation.
type CopyGenerator interface {
	GenerateOfferCopy(ctx context.Context, original, candidate *models.Property, pricing models.PricingDetails, guest GuestContext) (*models.OfferCopy, error)
}

// CopyConfig selects the copy backend explicitly at construction time instead
// of reading ambient process state inside the pipeline.
type CopyConfig struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// AigenCopyService calls the Aigen text-generation API. Single attempt with a
// bounded timeout; no inline retry.
type AigenCopyService struct {
	cfg    CopyConfig
	client *http.Client
}

func NewAigenCopyService(cfg CopyConfig) *AigenCopyService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if cfg.Model == "" {
		cfg.Model = "copywriter-v1"
	}
	return &AigenCopyService{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type aigenResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (s *AigenCopyService) GenerateOfferCopy(
	ctx context.Context,
	original, candidate *models.Property,
	pricing models.PricingDetails,
	guest GuestContext,
) (*models.OfferCopy, error) {
	diffs := GeneratePropertyDiffs(original, candidate)
	display := pricing.Rounded()

	payload := map[string]interface{}{
		"model":  s.cfg.Model,
		"prompt": buildCopyPrompt(original, candidate, display, guest, diffs),
	}
	b, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("cannot build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-aigen-key", s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var ar aigenResponse
	if err := json.Unmarshal(bodyBytes, &ar); err != nil {
		return nil, fmt.Errorf("JSON parse error: %w", err)
	}
	if ar.Status != "success" {
		return nil, fmt.Errorf("API status error: %s - %s", ar.Status, ar.Message)
	}

	// The model replies with raw JSON matching OfferCopy, either inline or as
	// a quoted string; tolerate leading or trailing prose by trimming to the
	// outermost braces.
	raw := string(ar.Data)
	var unquoted string
	if err := json.Unmarshal(ar.Data, &unquoted); err == nil {
		raw = unquoted
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in copy response")
	}

	var copyPkg models.OfferCopy
	if err := json.Unmarshal([]byte(raw[start:end+1]), &copyPkg); err != nil {
		return nil, fmt.Errorf("copy payload parse error: %w", err)
	}
	if copyPkg.Subject == "" || copyPkg.EmailHTML == "" {
		return nil, fmt.Errorf("incomplete copy payload")
	}
	if len(copyPkg.DiffBullets) == 0 {
		copyPkg.DiffBullets = diffs
	}
	return &copyPkg, nil
}

func buildCopyPrompt(original, candidate *models.Property, pricing models.PricingDetails, guest GuestContext, diffs []string) string {
	firstName := firstName(guest.GuestName)
	pmName := guest.PMName
	if pmName == "" {
		pmName = "your host"
	}
	priceDelta := pricing.OfferADR - pricing.FromADR

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a luxury hospitality copywriter for %s. Generate a personalized upgrade offer.\n\n", pmName)
	fmt.Fprintf(&sb, "ORIGINAL BOOKING:\nProperty: %s\nLocation: %s\nRate: %.2f EUR/night\n\n", original.Name, original.Location, pricing.FromADR)
	fmt.Fprintf(&sb, "UPGRADE PROPERTY:\nProperty: %s\nList rate: %.2f EUR/night\nOffer rate: %.2f EUR/night (only %.0f EUR more per night)\nGuest savings: %.2f EUR\nKey improvements: %s\n\n",
		candidate.Name, pricing.ToADRList, pricing.OfferADR, priceDelta, pricing.DiscountAmountTotal, strings.Join(diffs, ", "))
	fmt.Fprintf(&sb, "GUEST: %s, party of %d adults and %d children.\n\n", firstName, guest.Adults, guest.Children)
	sb.WriteString("Return only raw JSON with fields: subject, email_html, landing_hero, landing_summary, diff_bullets. ")
	sb.WriteString("The email CTA must be an <a> tag with href=\"{{OFFER_URL}}\". ")
	sb.WriteString("Lead with the incremental per-night cost, mention the offer is time-limited and first-come, first-served.")
	return sb.String()
}

// FallbackCopy is the deterministic template used whenever the copy backend
// fails or times out. Same shape as a generated package, including the
// {{OFFER_URL}} placeholder.
func FallbackCopy(original, candidate *models.Property, pricing models.PricingDetails, guest GuestContext) *models.OfferCopy {
	display := pricing.Rounded()
	name := firstName(guest.GuestName)
	pmName := guest.PMName
	if pmName == "" {
		pmName = "Luxury Stays"
	}
	priceDelta := display.OfferADR - display.FromADR

	heroImg := ""
	if imgs := candidate.ImageList(); len(imgs) > 0 {
		heroImg = imgs[0]
	}

	diffs := GeneratePropertyDiffs(original, candidate)

	var body strings.Builder
	body.WriteString(`<div style="background-color:#050505;color:#ffffff;font-family:-apple-system,system-ui,sans-serif;padding:60px 40px;text-align:center;max-width:600px;margin:0 auto;border-radius:48px;">`)
	fmt.Fprintf(&body, `<div style="font-size:12px;font-weight:700;letter-spacing:2px;margin-bottom:40px;color:#666666;text-transform:uppercase;">A message from %s</div>`, pmName)
	if heroImg != "" {
		fmt.Fprintf(&body, `<img src="%s" style="display:block;margin:0 auto 40px;width:100%%;border-radius:40px;" alt="The Property">`, heroImg)
	}
	body.WriteString(`<h1 style="font-size:48px;font-weight:900;margin-bottom:24px;color:#ffffff;">Experience<br>the Extraordinary.</h1>`)
	fmt.Fprintf(&body, `<p style="color:#a0a0a0;font-size:20px;line-height:1.6;margin-bottom:48px;">Hi %s, we&rsquo;ve unlocked a private invitation for you to upgrade your stay to <b>%s</b>.</p>`, name, candidate.Name)
	body.WriteString(`<div style="background-color:#EA580C;padding:56px 40px;border-radius:40px;margin-bottom:48px;">`)
	body.WriteString(`<div style="font-size:14px;font-weight:900;text-transform:uppercase;opacity:0.8;letter-spacing:2px;margin-bottom:12px;color:#ffffff;">Upgrade today for only</div>`)
	fmt.Fprintf(&body, `<div style="font-size:72px;font-weight:900;line-height:1;color:#ffffff;">%.0f&euro;<span style="font-size:22px;font-weight:400;opacity:0.7;">/night</span></div>`, priceDelta)
	body.WriteString(`</div>`)
	body.WriteString(`<a href="{{OFFER_URL}}" style="display:inline-block;background-color:#ffffff;color:#000000;padding:26px 64px;border-radius:24px;font-weight:900;text-decoration:none;text-transform:uppercase;font-size:16px;">Unlock Upgrade</a>`)
	body.WriteString(`<div style="font-size:10px;color:#444444;border-top:1px solid #1a1a1a;padding-top:30px;margin-top:60px;">Upgrade offer powered by UpRez</div>`)
	body.WriteString(`</div>`)

	return &models.OfferCopy{
		Subject:        fmt.Sprintf("%s, an exclusive upgrade for your stay at %s", name, candidate.Name),
		EmailHTML:      body.String(),
		LandingHero:    "Upgrade to Prestige",
		LandingSummary: fmt.Sprintf("Step into the extraordinary at %s for an exclusive rate of %.2f€/night.", candidate.Name, display.OfferADR),
		DiffBullets:    diffs,
	}
}

// GeneratePropertyDiffs builds the human-readable comparison bullets, at most
// three.
func GeneratePropertyDiffs(original, candidate *models.Property) []string {
	diffs := []string{}

	if candidate.Beds > original.Beds {
		n := candidate.Beds - original.Beds
		diffs = append(diffs, fmt.Sprintf("+%d extra bedroom%s (%d beds vs %d)", n, plural(n), candidate.Beds, original.Beds))
	}
	if candidate.Baths > original.Baths {
		n := candidate.Baths - original.Baths
		diffs = append(diffs, fmt.Sprintf("+%d extra bathroom%s", n, plural(n)))
	}

	for _, amenity := range []string{"pool", "parking", "workspace", "garden", "elevator", "gym", "balcony"} {
		if candidate.HasAmenity(amenity) && !original.HasAmenity(amenity) {
			diffs = append(diffs, "Includes "+strings.ToUpper(amenity[:1])+amenity[1:])
		}
	}

	origMeta := original.Meta()
	candMeta := candidate.Meta()
	if strings.Contains(candMeta.BeachDistance, "beachfront") && !strings.Contains(origMeta.BeachDistance, "beachfront") {
		diffs = append(diffs, "Beachfront location")
	} else if strings.Contains(candMeta.BeachDistance, "<5min") && !strings.Contains(origMeta.BeachDistance, "<5min") {
		diffs = append(diffs, "Closer to beach (<5min walk)")
	}

	if isExcellentWifi(candMeta.WifiSpeed) && isBasicWifi(origMeta.WifiSpeed) {
		diffs = append(diffs, "Faster WiFi (excellent speed)")
	}

	if len(diffs) == 0 {
		if candidate.ListNightlyRate > original.ListNightlyRate*1.5 {
			diffs = append(diffs, "Premium property upgrade")
		} else {
			diffs = append(diffs, "Better amenities and location")
		}
	}

	if len(diffs) > 3 {
		diffs = diffs[:3]
	}
	return diffs
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

func firstName(full string) string {
	full = strings.TrimSpace(full)
	if full == "" {
		return "Valued Guest"
	}
	return strings.Fields(full)[0]
}
