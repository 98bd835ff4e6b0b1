package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/receipt"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of a sales order.
type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusHeld      OrderStatus = "HELD"
	OrderStatusVoided    OrderStatus = "VOIDED"
)

// OrderLine is one sold item on an order.
type OrderLine struct {
	ProductID uuid.UUID
	Name      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// SalesOrder is the aggregate root for a completed sale. Once created the
// order is authoritative; receipt delivery failures never roll it back.
type SalesOrder struct {
	shared.BaseEntity
	OrderNumber     string
	CustomerID      *uuid.UUID
	Lines           []OrderLine
	Subtotal        decimal.Decimal
	TaxRate         decimal.Decimal
	TaxAmount       decimal.Decimal
	LoyaltyDiscount decimal.Decimal
	Total           decimal.Decimal
	Tendered        decimal.Decimal
	Change          decimal.Decimal
	PointsEarned    int64
	PointsRedeemed  int64
	Status          OrderStatus
}

// NewSalesOrder builds an order from its lines, computing subtotal, tax and
// grand total. The loyalty discount is applied after tax, mirroring the
// redemption clamp (the discount never exceeds the taxed total).
func NewSalesOrder(lines []OrderLine, taxRate, loyaltyDiscount decimal.Decimal) (*SalesOrder, error) {
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one line")
	}
	if taxRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}

	subtotal := decimal.Zero
	for i := range lines {
		if lines[i].Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be positive")
		}
		lines[i].Total = lines[i].UnitPrice.Mul(lines[i].Quantity)
		subtotal = subtotal.Add(lines[i].Total)
	}

	tax := subtotal.Mul(taxRate).Div(decimal.NewFromInt(100)).Round(2)
	taxed := subtotal.Add(tax)
	if loyaltyDiscount.GreaterThan(taxed) {
		loyaltyDiscount = taxed
	}

	entity := shared.NewBaseEntity()
	return &SalesOrder{
		BaseEntity:      entity,
		OrderNumber:     generateOrderNumber(entity.ID, entity.CreatedAt),
		Lines:           lines,
		Subtotal:        subtotal,
		TaxRate:         taxRate,
		TaxAmount:       tax,
		LoyaltyDiscount: loyaltyDiscount,
		Total:           taxed.Sub(loyaltyDiscount),
		Status:          OrderStatusCompleted,
	}, nil
}

// RecordPayment records the tendered amount and computes change. Tendering
// less than the total is rejected.
func (o *SalesOrder) RecordPayment(tendered decimal.Decimal) error {
	if tendered.LessThan(o.Total) {
		return shared.NewDomainError("INSUFFICIENT_PAYMENT", "Tendered amount is less than the order total")
	}
	o.Tendered = tendered
	o.Change = tendered.Sub(o.Total)
	o.Touch()
	return nil
}

// AttachLoyalty records the loyalty movements applied at checkout.
func (o *SalesOrder) AttachLoyalty(customerID uuid.UUID, earned, redeemed int64) {
	o.CustomerID = &customerID
	o.PointsEarned = earned
	o.PointsRedeemed = redeemed
	o.Touch()
}

// Snapshot produces the canonical receipt view of this order.
func (o *SalesOrder) Snapshot(store receipt.StoreIdentity, currencySymbol string, width int, balanceAfter int64) *receipt.SaleSnapshot {
	lines := make([]receipt.Line, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = receipt.Line{
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Total:     l.Total,
		}
	}

	snap := &receipt.SaleSnapshot{
		Store:          store,
		OrderNumber:    o.OrderNumber,
		Date:           o.CreatedAt,
		Lines:          lines,
		Subtotal:       o.Subtotal,
		TaxRate:        o.TaxRate,
		TaxAmount:      o.TaxAmount,
		Discount:       o.LoyaltyDiscount,
		Total:          o.Total,
		Tendered:       o.Tendered,
		Change:         o.Change,
		CurrencySymbol: currencySymbol,
		ReceiptWidth:   width,
	}
	if o.PointsEarned > 0 || o.PointsRedeemed > 0 {
		snap.Loyalty = &receipt.LoyaltySection{
			PointsEarned:   o.PointsEarned,
			PointsRedeemed: o.PointsRedeemed,
			RedeemedValue:  o.LoyaltyDiscount,
			BalanceAfter:   balanceAfter,
		}
	}
	return snap
}

// generateOrderNumber derives a short scannable order identifier from the
// order ID and timestamp.
func generateOrderNumber(id uuid.UUID, at time.Time) string {
	return fmt.Sprintf("POS-%s-%s", at.Format("20060102"), id.String()[:8])
}
