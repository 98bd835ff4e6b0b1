package receipt

import (
	"time"

	"github.com/shopspring/decimal"
)

// StoreIdentity is the header block printed on every receipt.
type StoreIdentity struct {
	Name       string
	Address    string
	Phone      string
	FooterNote string
}

// Line is one itemized receipt line.
type Line struct {
	Name      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// LoyaltySection carries the loyalty movements of a sale. It is rendered
// only when points were earned or redeemed.
type LoyaltySection struct {
	PointsEarned   int64
	PointsRedeemed int64
	RedeemedValue  decimal.Decimal
	BalanceAfter   int64
}

// SaleSnapshot is the canonical immutable view of a completed sale shared
// by every dispatch channel. Channel renderers consume this one value
// rather than re-reading the order aggregate.
type SaleSnapshot struct {
	Store          StoreIdentity
	OrderNumber    string
	Date           time.Time
	Lines          []Line
	Subtotal       decimal.Decimal
	TaxRate        decimal.Decimal
	TaxAmount      decimal.Decimal
	Discount       decimal.Decimal
	Total          decimal.Decimal
	Tendered       decimal.Decimal
	Change         decimal.Decimal
	CurrencySymbol string
	ReceiptWidth   int
	Loyalty        *LoyaltySection
	CustomerName   string
	CustomerPhone  string
	CustomerEmail  string
}

// HasLoyalty reports whether the loyalty section should be rendered.
func (s *SaleSnapshot) HasLoyalty() bool {
	return s.Loyalty != nil && (s.Loyalty.PointsEarned > 0 || s.Loyalty.PointsRedeemed > 0)
}

// HasTender reports whether tendered/change amounts are present.
func (s *SaleSnapshot) HasTender() bool {
	return s.Tendered.GreaterThan(decimal.Zero)
}
