package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductBatch represents one discrete lot of stock with its own quantity
// and optional issue/expiry dates.
type ProductBatch struct {
	shared.BaseEntity
	ProductID   uuid.UUID
	BatchNumber string
	Quantity    decimal.Decimal
	IssueDate   *time.Time
	ExpiryDate  *time.Time
}

// NewProductBatch creates a batch for the given product.
func NewProductBatch(productID uuid.UUID, batchNumber string, quantity decimal.Decimal, issueDate, expiryDate *time.Time) (*ProductBatch, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Batch quantity cannot be negative")
	}

	return &ProductBatch{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		BatchNumber: batchNumber,
		Quantity:    quantity,
		IssueDate:   issueDate,
		ExpiryDate:  expiryDate,
	}, nil
}

// IsExpired reports whether the batch expiry date has passed relative to
// the given day. Batches without an expiry date never expire.
func (b *ProductBatch) IsExpired(today time.Time) bool {
	if b.ExpiryDate == nil {
		return false
	}
	return b.ExpiryDate.Before(today)
}

// Deduct reduces the batch quantity, returning the quantity actually
// removed (capped at what the batch holds).
func (b *ProductBatch) Deduct(qty decimal.Decimal) decimal.Decimal {
	if qty.GreaterThan(b.Quantity) {
		removed := b.Quantity
		b.Quantity = decimal.Zero
		b.Touch()
		return removed
	}
	b.Quantity = b.Quantity.Sub(qty)
	b.Touch()
	return qty
}
