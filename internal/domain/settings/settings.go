package settings

import (
	"context"

	"github.com/inblognet/OmniPOS-sub000/internal/domain/invconfig"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SMSProvider selects the SMS gateway a store routes messages through.
type SMSProvider string

const (
	SMSProviderTextLK SMSProvider = "textlk"
	SMSProviderBrevo  SMSProvider = "brevo"
	SMSProviderTwilio SMSProvider = "twilio"
	SMSProviderBird   SMSProvider = "bird"
	SMSProviderPlivo  SMSProvider = "plivo"
)

// PushSettings holds push-messaging gateway credentials.
type PushSettings struct {
	Enabled  bool
	Endpoint string
	Token    string // bearer token
}

// EmailSettings holds transactional email gateway credentials.
type EmailSettings struct {
	Enabled   bool
	Endpoint  string
	APIKey    string
	FromName  string
	FromEmail string
}

// SMSSettings holds SMS gateway credentials. The provider enum decides
// which request shape is used.
type SMSSettings struct {
	Enabled   bool
	Provider  SMSProvider
	APIKey    string
	APISecret string // account SID for twilio, auth ID for plivo
	SenderID  string
}

// PrintSettings holds receipt printing configuration.
type PrintSettings struct {
	Enabled bool
	Width   int // characters per line on the thermal printer
}

// ThemeColors are persisted for the UI layer; the backend treats them as
// opaque hex strings.
type ThemeColors struct {
	Primary   string
	Secondary string
	Accent    string
}

// LoyaltySettings holds the store's loyalty conversion configuration.
type LoyaltySettings struct {
	RedemptionRate decimal.Decimal // currency per point
	EarnThreshold  decimal.Decimal // spend that yields EarnRate points
	EarnRate       int64
}

// StoreSettings is the single persisted settings record: store identity,
// tax, currency, receipt layout, theme, loyalty configuration and
// per-channel notification credentials.
type StoreSettings struct {
	shared.BaseEntity
	StoreName      string
	StoreAddress   string
	StorePhone     string
	FooterNote     string
	TaxRate        decimal.Decimal // percent
	CurrencySymbol string
	BusinessType   invconfig.BusinessType
	Theme          ThemeColors
	Loyalty        LoyaltySettings
	Print          PrintSettings
	Push           PushSettings
	Email          EmailSettings
	SMS            SMSSettings

	// InventoryOverride is the operator customization merged over the
	// business-type preset.
	InventoryOverride invconfig.Override
}

// Default returns the settings a fresh store starts with.
func Default() *StoreSettings {
	return &StoreSettings{
		BaseEntity:     shared.NewBaseEntity(),
		StoreName:      "My Store",
		TaxRate:        decimal.Zero,
		CurrencySymbol: "$",
		BusinessType:   invconfig.BusinessTypeRetail,
		Loyalty: LoyaltySettings{
			RedemptionRate: decimal.Zero,
			EarnThreshold:  decimal.Zero,
		},
		Print: PrintSettings{Enabled: true, Width: 42},
	}
}

// EffectiveInventoryConfig resolves the business-type preset with the
// operator's override.
func (s *StoreSettings) EffectiveInventoryConfig() invconfig.EffectiveConfig {
	return invconfig.Merge(invconfig.PresetFor(s.BusinessType), s.InventoryOverride)
}

// Validate rejects settings that enable a channel without the credentials
// it needs. Disabled channels may carry empty credentials.
func (s *StoreSettings) Validate() error {
	if s.StoreName == "" {
		return shared.NewDomainError("INVALID_SETTINGS", "Store name cannot be empty")
	}
	if s.TaxRate.IsNegative() {
		return shared.NewDomainError("INVALID_SETTINGS", "Tax rate cannot be negative")
	}
	if s.Print.Enabled && s.Print.Width <= 0 {
		return shared.NewDomainError("INVALID_SETTINGS", "Receipt width must be positive")
	}
	if s.Push.Enabled && (s.Push.Endpoint == "" || s.Push.Token == "") {
		return shared.NewDomainError("INVALID_SETTINGS", "Push channel is enabled but endpoint or token is missing")
	}
	if s.Email.Enabled && (s.Email.APIKey == "" || s.Email.FromEmail == "") {
		return shared.NewDomainError("INVALID_SETTINGS", "Email channel is enabled but API key or sender is missing")
	}
	if s.SMS.Enabled {
		switch s.SMS.Provider {
		case SMSProviderTextLK, SMSProviderBrevo, SMSProviderTwilio, SMSProviderBird, SMSProviderPlivo:
		default:
			return shared.NewDomainError("INVALID_SETTINGS", "Unknown SMS provider: "+string(s.SMS.Provider))
		}
		if s.SMS.APIKey == "" {
			return shared.NewDomainError("INVALID_SETTINGS", "SMS channel is enabled but API key is missing")
		}
	}
	return nil
}

// Repository persists the single settings record.
type Repository interface {
	Load(ctx context.Context) (*StoreSettings, error)
	Save(ctx context.Context, s *StoreSettings) error
}
