package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/invconfig"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/settings"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SettingsHandler exposes the store configuration endpoints.
type SettingsHandler struct {
	BaseHandler
	settings settings.Repository
	logger   *zap.Logger
}

// NewSettingsHandler creates a settings handler.
func NewSettingsHandler(repo settings.Repository, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{settings: repo, logger: logger}
}

// RegisterRoutes wires the settings endpoints into the API group.
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/settings", h.Get)
	rg.PUT("/settings", h.Update)
	rg.GET("/settings/inventory-config", h.EffectiveInventoryConfig)
}

type themeView struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

type loyaltySettingsView struct {
	RedemptionRate decimal.Decimal `json:"redemption_rate"`
	EarnThreshold  decimal.Decimal `json:"earn_threshold"`
	EarnRate       int64           `json:"earn_rate"`
}

type printSettingsView struct {
	Enabled bool `json:"enabled"`
	Width   int  `json:"width"`
}

type pushSettingsView struct {
	Enabled  bool   `json:"enabled"`
	Endpoint string `json:"endpoint"`
	Token    string `json:"token"`
}

type emailSettingsView struct {
	Enabled   bool   `json:"enabled"`
	Endpoint  string `json:"endpoint"`
	APIKey    string `json:"api_key"`
	FromName  string `json:"from_name"`
	FromEmail string `json:"from_email"`
}

type smsSettingsView struct {
	Enabled   bool   `json:"enabled"`
	Provider  string `json:"provider"`
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`
	SenderID  string `json:"sender_id"`
}

type settingsView struct {
	StoreName         string              `json:"store_name"`
	StoreAddress      string              `json:"store_address"`
	StorePhone        string              `json:"store_phone"`
	FooterNote        string              `json:"footer_note"`
	TaxRate           decimal.Decimal     `json:"tax_rate"`
	CurrencySymbol    string              `json:"currency_symbol"`
	BusinessType      string              `json:"business_type"`
	Theme             themeView           `json:"theme"`
	Loyalty           loyaltySettingsView `json:"loyalty"`
	Print             printSettingsView   `json:"print"`
	Push              pushSettingsView    `json:"push"`
	Email             emailSettingsView   `json:"email"`
	SMS               smsSettingsView     `json:"sms"`
	InventoryOverride invconfig.Override  `json:"inventory_override"`
}

func toSettingsView(s *settings.StoreSettings) settingsView {
	return settingsView{
		StoreName:      s.StoreName,
		StoreAddress:   s.StoreAddress,
		StorePhone:     s.StorePhone,
		FooterNote:     s.FooterNote,
		TaxRate:        s.TaxRate,
		CurrencySymbol: s.CurrencySymbol,
		BusinessType:   string(s.BusinessType),
		Theme: themeView{
			Primary:   s.Theme.Primary,
			Secondary: s.Theme.Secondary,
			Accent:    s.Theme.Accent,
		},
		Loyalty: loyaltySettingsView{
			RedemptionRate: s.Loyalty.RedemptionRate,
			EarnThreshold:  s.Loyalty.EarnThreshold,
			EarnRate:       s.Loyalty.EarnRate,
		},
		Print: printSettingsView{Enabled: s.Print.Enabled, Width: s.Print.Width},
		Push: pushSettingsView{
			Enabled:  s.Push.Enabled,
			Endpoint: s.Push.Endpoint,
			Token:    s.Push.Token,
		},
		Email: emailSettingsView{
			Enabled:   s.Email.Enabled,
			Endpoint:  s.Email.Endpoint,
			APIKey:    s.Email.APIKey,
			FromName:  s.Email.FromName,
			FromEmail: s.Email.FromEmail,
		},
		SMS: smsSettingsView{
			Enabled:   s.SMS.Enabled,
			Provider:  string(s.SMS.Provider),
			APIKey:    s.SMS.APIKey,
			APISecret: s.SMS.APISecret,
			SenderID:  s.SMS.SenderID,
		},
		InventoryOverride: s.InventoryOverride,
	}
}

// Get returns the store settings, seeding defaults on first use.
func (h *SettingsHandler) Get(c *gin.Context) {
	s, err := h.settings.Load(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSettingsView(s))
}

// Update replaces the store settings. Validation rejects a channel enabled
// without its credentials before anything is written.
func (h *SettingsHandler) Update(c *gin.Context) {
	var req settingsView
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid settings payload: "+err.Error())
		return
	}

	current, err := h.settings.Load(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	current.StoreName = req.StoreName
	current.StoreAddress = req.StoreAddress
	current.StorePhone = req.StorePhone
	current.FooterNote = req.FooterNote
	current.TaxRate = req.TaxRate
	current.CurrencySymbol = req.CurrencySymbol
	current.BusinessType = invconfig.BusinessType(req.BusinessType)
	current.Theme = settings.ThemeColors{
		Primary:   req.Theme.Primary,
		Secondary: req.Theme.Secondary,
		Accent:    req.Theme.Accent,
	}
	current.Loyalty = settings.LoyaltySettings{
		RedemptionRate: req.Loyalty.RedemptionRate,
		EarnThreshold:  req.Loyalty.EarnThreshold,
		EarnRate:       req.Loyalty.EarnRate,
	}
	current.Print = settings.PrintSettings{Enabled: req.Print.Enabled, Width: req.Print.Width}
	current.Push = settings.PushSettings{
		Enabled:  req.Push.Enabled,
		Endpoint: req.Push.Endpoint,
		Token:    req.Push.Token,
	}
	current.Email = settings.EmailSettings{
		Enabled:   req.Email.Enabled,
		Endpoint:  req.Email.Endpoint,
		APIKey:    req.Email.APIKey,
		FromName:  req.Email.FromName,
		FromEmail: req.Email.FromEmail,
	}
	current.SMS = settings.SMSSettings{
		Enabled:   req.SMS.Enabled,
		Provider:  settings.SMSProvider(req.SMS.Provider),
		APIKey:    req.SMS.APIKey,
		APISecret: req.SMS.APISecret,
		SenderID:  req.SMS.SenderID,
	}
	current.InventoryOverride = req.InventoryOverride
	current.Touch()

	if err := h.settings.Save(c.Request.Context(), current); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSettingsView(current))
}

// EffectiveInventoryConfig returns the business-type preset merged with the
// operator's override.
func (h *SettingsHandler) EffectiveInventoryConfig(c *gin.Context) {
	s, err := h.settings.Load(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, s.EffectiveInventoryConfig())
}
