// controllers/host_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"uprez-backend/models"
	"uprez-backend/utils"
)

// SettingsStore is the slice of persistence the host endpoints need.
type SettingsStore interface {
	GetHostSettings(hostID string) (*models.HostSettings, error)
	UpsertHostSettings(settings *models.HostSettings) error
}

// hostSettingsPayload uses pointers so PATCH only touches the fields the
// client actually sent.
type hostSettingsPayload struct {
	HostName               *string   `json:"host_name"`
	MinRevenueLiftPerNight *float64  `json:"min_revenue_lift_eur_per_night"`
	MaxDiscountPct         *float64  `json:"max_discount_pct"`
	MinADRRatio            *float64  `json:"min_adr_ratio"`
	MaxADRMultiplier       *float64  `json:"max_adr_multiplier"`
	ChannelFeePct          *float64  `json:"channel_fee_pct"`
	ChangeFeeEUR           *float64  `json:"change_fee_eur"`
	BlockedPropIDs         *[]string `json:"blocked_prop_ids"`
	MaxDistanceToBeachM    *int      `json:"max_distance_to_beach_m"`
	OfferValidityHours     *int      `json:"offer_validity_hours"`
	AutoRegenEnabled       *bool     `json:"auto_regen_enabled"`
	EmailSenderName        *string   `json:"email_sender_name"`
	PMCompanyName          *string   `json:"pm_company_name"`
}

type HostController struct {
	store SettingsStore
}

func NewHostController(store SettingsStore) *HostController {
	return &HostController{store: store}
}

// GetSettings handles GET /api/hosts/:host_id/settings. A host with no
// stored row gets the defaults back rather than a 404.
func (ctrl *HostController) GetSettings(c *gin.Context) {
	hostID := c.Param("host_id")
	settings, err := ctrl.store.GetHostSettings(hostID)
	if err != nil {
		def := models.DefaultHostSettings(hostID)
		utils.JSONSuccess(c, http.StatusOK, def)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, settings)
}

// UpdateSettings handles PATCH /api/hosts/:host_id/settings.
func (ctrl *HostController) UpdateSettings(c *gin.Context) {
	hostID := c.Param("host_id")

	var payload hostSettingsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	settings, err := ctrl.store.GetHostSettings(hostID)
	if err != nil {
		def := models.DefaultHostSettings(hostID)
		settings = &def
	}

	applySettingsPatch(settings, &payload)

	if err := ctrl.store.UpsertHostSettings(settings); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, settings)
}

func applySettingsPatch(settings *models.HostSettings, p *hostSettingsPayload) {
	if p.HostName != nil {
		settings.HostName = *p.HostName
	}
	if p.MinRevenueLiftPerNight != nil {
		settings.MinRevenueLiftPerNight = *p.MinRevenueLiftPerNight
	}
	if p.MaxDiscountPct != nil {
		settings.MaxDiscountPct = *p.MaxDiscountPct
	}
	if p.MinADRRatio != nil {
		settings.MinADRRatio = *p.MinADRRatio
	}
	if p.MaxADRMultiplier != nil {
		settings.MaxADRMultiplier = *p.MaxADRMultiplier
	}
	if p.ChannelFeePct != nil {
		settings.ChannelFeePct = *p.ChannelFeePct
	}
	if p.ChangeFeeEUR != nil {
		settings.ChangeFeeEUR = *p.ChangeFeeEUR
	}
	if p.BlockedPropIDs != nil {
		if raw, err := models.EncodeStringList(*p.BlockedPropIDs); err == nil {
			settings.BlockedPropIDs = datatypes.JSON(raw)
		}
	}
	if p.MaxDistanceToBeachM != nil {
		settings.MaxDistanceToBeachM = *p.MaxDistanceToBeachM
	}
	if p.OfferValidityHours != nil {
		settings.OfferValidityHours = *p.OfferValidityHours
	}
	if p.AutoRegenEnabled != nil {
		settings.AutoRegenEnabled = *p.AutoRegenEnabled
	}
	if p.EmailSenderName != nil {
		settings.EmailSenderName = *p.EmailSenderName
	}
	if p.PMCompanyName != nil {
		settings.PMCompanyName = *p.PMCompanyName
	}
}
