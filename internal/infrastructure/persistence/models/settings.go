package models

import (
	"github.com/inblognet/OmniPOS-sub000/internal/domain/invconfig"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/settings"
	"github.com/shopspring/decimal"
)

// StoreSettingsModel is the persistence model for the single settings
// record. Nested sections are stored as JSON columns; the record itself
// is flat enough that flattening every credential into a column would
// only add churn when a gateway grows a field.
type StoreSettingsModel struct {
	BaseModel
	StoreName      string                   `gorm:"type:varchar(200);not null"`
	StoreAddress   string                   `gorm:"type:text"`
	StorePhone     string                   `gorm:"type:varchar(30)"`
	FooterNote     string                   `gorm:"type:text"`
	TaxRate        decimal.Decimal          `gorm:"type:decimal(8,4);not null;default:0"`
	CurrencySymbol string                   `gorm:"type:varchar(8);not null"`
	BusinessType   string                   `gorm:"type:varchar(30);not null"`
	Theme          settings.ThemeColors     `gorm:"serializer:json"`
	Loyalty        settings.LoyaltySettings `gorm:"serializer:json"`
	Print          settings.PrintSettings   `gorm:"serializer:json"`
	Push           settings.PushSettings    `gorm:"serializer:json"`
	Email          settings.EmailSettings   `gorm:"serializer:json"`
	SMS            settings.SMSSettings     `gorm:"serializer:json"`
	Inventory      invconfig.Override       `gorm:"serializer:json"`
}

// TableName returns the table name for GORM
func (StoreSettingsModel) TableName() string {
	return "store_settings"
}

// ToDomain converts the persistence model to domain StoreSettings.
func (m *StoreSettingsModel) ToDomain() *settings.StoreSettings {
	return &settings.StoreSettings{
		BaseEntity:     m.BaseModel.ToDomain(),
		StoreName:      m.StoreName,
		StoreAddress:   m.StoreAddress,
		StorePhone:     m.StorePhone,
		FooterNote:     m.FooterNote,
		TaxRate:        m.TaxRate,
		CurrencySymbol: m.CurrencySymbol,
		BusinessType:   invconfig.BusinessType(m.BusinessType),
		Theme:          m.Theme,
		Loyalty:        m.Loyalty,
		Print:          m.Print,
		Push:           m.Push,
		Email:          m.Email,
		SMS:            m.SMS,

		InventoryOverride: m.Inventory,
	}
}

// FromDomain populates the persistence model from domain StoreSettings.
func (m *StoreSettingsModel) FromDomain(s *settings.StoreSettings) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.StoreName = s.StoreName
	m.StoreAddress = s.StoreAddress
	m.StorePhone = s.StorePhone
	m.FooterNote = s.FooterNote
	m.TaxRate = s.TaxRate
	m.CurrencySymbol = s.CurrencySymbol
	m.BusinessType = string(s.BusinessType)
	m.Theme = s.Theme
	m.Loyalty = s.Loyalty
	m.Print = s.Print
	m.Push = s.Push
	m.Email = s.Email
	m.SMS = s.SMS
	m.Inventory = s.InventoryOverride
}
