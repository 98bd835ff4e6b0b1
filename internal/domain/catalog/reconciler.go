package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DamageLog is an immutable record of stock moved to the damaged bucket.
type DamageLog struct {
	shared.BaseEntity
	ProductID  uuid.UUID
	Quantity   decimal.Decimal
	Note       string
	ReportedBy string
	ReportedAt time.Time
}

// SweptProduct reports how much expired quantity a sweep moved for one
// product.
type SweptProduct struct {
	ProductID uuid.UUID
	MovedQty  decimal.Decimal
}

// RecalcStock returns the sellable stock implied by a product's batches:
// the sum of every batch quantity. Expired batches hold zero quantity once
// swept, so the sum stays equal to the non-expired stock. Callers that
// track batches keep Product.Stock equal to the returned total.
func RecalcStock(batches []ProductBatch) decimal.Decimal {
	total := decimal.Zero
	for i := range batches {
		total = total.Add(batches[i].Quantity)
	}
	return total
}

// ApplyDamage moves qty from the sellable bucket to the damaged bucket and
// appends an immutable log entry. Requesting more than the sellable stock
// is rejected before any mutation.
func ApplyDamage(p *Product, qty decimal.Decimal, note, reportedBy string) (*DamageLog, error) {
	if qty.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Damage quantity must be positive")
	}
	if qty.GreaterThan(p.Stock) {
		return nil, shared.ErrInsufficientStock
	}

	p.Stock = p.Stock.Sub(qty)
	p.DamagedQty = p.DamagedQty.Add(qty)
	p.Touch()

	log := &DamageLog{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  p.ID,
		Quantity:   qty,
		Note:       note,
		ReportedBy: reportedBy,
		ReportedAt: time.Now(),
	}
	p.DamageLogs = append(p.DamageLogs, *log)
	return log, nil
}

// SweepExpired moves the entire remaining sellable stock of every product
// whose expiry date is before today into the expired bucket. The sweep is
// idempotent: a second run on the same day finds zero sellable stock and
// moves nothing. Products without an expiry date are untouched.
func SweepExpired(products []*Product, today time.Time) []SweptProduct {
	swept := make([]SweptProduct, 0)
	for _, p := range products {
		if !p.HasExpired(today) || !p.Stock.GreaterThan(decimal.Zero) {
			continue
		}
		moved := p.Stock
		p.ExpiredQty = p.ExpiredQty.Add(moved)
		p.Stock = decimal.Zero
		for i := range p.Batches {
			if p.Batches[i].IsExpired(today) {
				p.Batches[i].Quantity = decimal.Zero
				p.Batches[i].Touch()
			}
		}
		p.Touch()
		swept = append(swept, SweptProduct{ProductID: p.ID, MovedQty: moved})
	}
	return swept
}
