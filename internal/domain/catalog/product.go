package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is the aggregate root for a sellable item. Stock is split into
// three buckets: sellable Stock, DamagedQty and ExpiredQty. TotalQty is the
// last-known intake snapshot; the buckets never sum above it.
type Product struct {
	shared.BaseEntity
	SKU             string
	Name            string
	CategoryID      *uuid.UUID
	Price           decimal.Decimal
	Cost            decimal.Decimal
	Stock           decimal.Decimal
	DamagedQty      decimal.Decimal
	ExpiredQty      decimal.Decimal
	TotalQty        decimal.Decimal
	BatchTracked    bool
	StockExpiryDate *time.Time

	Batches    []ProductBatch
	DamageLogs []DamageLog
}

// NewProduct creates a product with empty stock buckets.
func NewProduct(sku, name string, price decimal.Decimal) (*Product, error) {
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}

	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		SKU:        sku,
		Name:       name,
		Price:      price,
		Stock:      decimal.Zero,
		DamagedQty: decimal.Zero,
		ExpiredQty: decimal.Zero,
		TotalQty:   decimal.Zero,
	}, nil
}

// ReceiveStock adds incoming quantity to the sellable bucket and bumps the
// total intake snapshot.
func (p *Product) ReceiveStock(qty decimal.Decimal) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
	}
	p.Stock = p.Stock.Add(qty)
	p.TotalQty = p.TotalQty.Add(qty)
	p.Touch()
	return nil
}

// Sell removes quantity from the sellable bucket. A sale is the only
// operation allowed to shrink the bucket sum.
func (p *Product) Sell(qty decimal.Decimal) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Sold quantity must be positive")
	}
	if qty.GreaterThan(p.Stock) {
		return shared.ErrInsufficientStock
	}
	p.Stock = p.Stock.Sub(qty)
	p.TotalQty = p.TotalQty.Sub(qty)
	p.Touch()
	return nil
}

// BucketSum returns Stock + DamagedQty + ExpiredQty.
func (p *Product) BucketSum() decimal.Decimal {
	return p.Stock.Add(p.DamagedQty).Add(p.ExpiredQty)
}

// HasExpired reports whether the product-level expiry date has passed
// relative to the given day.
func (p *Product) HasExpired(today time.Time) bool {
	if p.StockExpiryDate == nil {
		return false
	}
	return p.StockExpiryDate.Before(today)
}
