package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate.
// Batches and damage logs live in their own tables and are loaded
// separately by the repository.
type ProductModel struct {
	BaseModel
	SKU             string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name            string          `gorm:"type:varchar(200);not null"`
	CategoryID      *uuid.UUID      `gorm:"type:uuid;index"`
	Price           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Cost            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Stock           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DamagedQty      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ExpiredQty      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalQty        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	BatchTracked    bool            `gorm:"not null;default:false"`
	StockExpiryDate *time.Time      `gorm:"index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity:      m.BaseModel.ToDomain(),
		SKU:             m.SKU,
		Name:            m.Name,
		CategoryID:      m.CategoryID,
		Price:           m.Price,
		Cost:            m.Cost,
		Stock:           m.Stock,
		DamagedQty:      m.DamagedQty,
		ExpiredQty:      m.ExpiredQty,
		TotalQty:        m.TotalQty,
		BatchTracked:    m.BatchTracked,
		StockExpiryDate: m.StockExpiryDate,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.SKU = p.SKU
	m.Name = p.Name
	m.CategoryID = p.CategoryID
	m.Price = p.Price
	m.Cost = p.Cost
	m.Stock = p.Stock
	m.DamagedQty = p.DamagedQty
	m.ExpiredQty = p.ExpiredQty
	m.TotalQty = p.TotalQty
	m.BatchTracked = p.BatchTracked
	m.StockExpiryDate = p.StockExpiryDate
}

// ProductBatchModel is the persistence model for one stock lot.
type ProductBatchModel struct {
	BaseModel
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchNumber string          `gorm:"type:varchar(100)"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IssueDate   *time.Time
	ExpiryDate  *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (ProductBatchModel) TableName() string {
	return "product_batches"
}

// ToDomain converts the persistence model to a domain ProductBatch.
func (m *ProductBatchModel) ToDomain() catalog.ProductBatch {
	return catalog.ProductBatch{
		BaseEntity:  m.BaseModel.ToDomain(),
		ProductID:   m.ProductID,
		BatchNumber: m.BatchNumber,
		Quantity:    m.Quantity,
		IssueDate:   m.IssueDate,
		ExpiryDate:  m.ExpiryDate,
	}
}

// FromDomain populates the persistence model from a domain ProductBatch.
func (m *ProductBatchModel) FromDomain(b *catalog.ProductBatch) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.ProductID = b.ProductID
	m.BatchNumber = b.BatchNumber
	m.Quantity = b.Quantity
	m.IssueDate = b.IssueDate
	m.ExpiryDate = b.ExpiryDate
}

// DamageLogModel is the persistence model for a damage report.
type DamageLogModel struct {
	BaseModel
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Note       string          `gorm:"type:text"`
	ReportedBy string          `gorm:"type:varchar(100)"`
	ReportedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DamageLogModel) TableName() string {
	return "damage_logs"
}

// ToDomain converts the persistence model to a domain DamageLog.
func (m *DamageLogModel) ToDomain() catalog.DamageLog {
	return catalog.DamageLog{
		BaseEntity: m.BaseModel.ToDomain(),
		ProductID:  m.ProductID,
		Quantity:   m.Quantity,
		Note:       m.Note,
		ReportedBy: m.ReportedBy,
		ReportedAt: m.ReportedAt,
	}
}

// FromDomain populates the persistence model from a domain DamageLog.
func (m *DamageLogModel) FromDomain(l *catalog.DamageLog) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.ProductID = l.ProductID
	m.Quantity = l.Quantity
	m.Note = l.Note
	m.ReportedBy = l.ReportedBy
	m.ReportedAt = l.ReportedAt
}
