package models

import (
	"github.com/google/uuid"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// SalesOrderModel is the persistence model for the SalesOrder aggregate.
// Lines are stored in their own table and loaded with the order.
type SalesOrderModel struct {
	BaseModel
	OrderNumber     string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID      *uuid.UUID       `gorm:"type:uuid;index"`
	Subtotal        decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	TaxRate         decimal.Decimal  `gorm:"type:decimal(8,4);not null"`
	TaxAmount       decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	LoyaltyDiscount decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Total           decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Tendered        decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Change          decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	PointsEarned    int64            `gorm:"not null;default:0"`
	PointsRedeemed  int64            `gorm:"not null;default:0"`
	Status          string           `gorm:"type:varchar(20);not null"`
	Lines           []OrderLineModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (SalesOrderModel) TableName() string {
	return "sales_orders"
}

// OrderLineModel is the persistence model for one order line.
type OrderLineModel struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"type:varchar(200);not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "sales_order_lines"
}

// ToDomain converts the persistence model to a domain SalesOrder.
func (m *SalesOrderModel) ToDomain() *trade.SalesOrder {
	lines := make([]trade.OrderLine, len(m.Lines))
	for i, lm := range m.Lines {
		lines[i] = trade.OrderLine{
			ProductID: lm.ProductID,
			Name:      lm.Name,
			Quantity:  lm.Quantity,
			UnitPrice: lm.UnitPrice,
			Total:     lm.Total,
		}
	}
	return &trade.SalesOrder{
		BaseEntity:      m.BaseModel.ToDomain(),
		OrderNumber:     m.OrderNumber,
		CustomerID:      m.CustomerID,
		Lines:           lines,
		Subtotal:        m.Subtotal,
		TaxRate:         m.TaxRate,
		TaxAmount:       m.TaxAmount,
		LoyaltyDiscount: m.LoyaltyDiscount,
		Total:           m.Total,
		Tendered:        m.Tendered,
		Change:          m.Change,
		PointsEarned:    m.PointsEarned,
		PointsRedeemed:  m.PointsRedeemed,
		Status:          trade.OrderStatus(m.Status),
	}
}

// FromDomain populates the persistence model from a domain SalesOrder.
func (m *SalesOrderModel) FromDomain(o *trade.SalesOrder) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.OrderNumber = o.OrderNumber
	m.CustomerID = o.CustomerID
	m.Subtotal = o.Subtotal
	m.TaxRate = o.TaxRate
	m.TaxAmount = o.TaxAmount
	m.LoyaltyDiscount = o.LoyaltyDiscount
	m.Total = o.Total
	m.Tendered = o.Tendered
	m.Change = o.Change
	m.PointsEarned = o.PointsEarned
	m.PointsRedeemed = o.PointsRedeemed
	m.Status = string(o.Status)

	m.Lines = make([]OrderLineModel, len(o.Lines))
	for i, l := range o.Lines {
		m.Lines[i] = OrderLineModel{
			OrderID:   o.ID,
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Total:     l.Total,
		}
	}
}
