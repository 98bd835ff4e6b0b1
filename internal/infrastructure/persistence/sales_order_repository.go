package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/shared"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/trade"
	"github.com/inblognet/OmniPOS-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSalesOrderRepository implements trade.Repository using GORM.
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// Save inserts the order with its lines. Orders are immutable once
// completed, so there is no update path.
func (r *GormSalesOrderRepository) Save(ctx context.Context, o *trade.SalesOrder) error {
	var m models.SalesOrderModel
	m.FromDomain(o)
	return dbFromContext(ctx, r.db).Create(&m).Error
}

// FindByID loads an order with its lines.
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	var m models.SalesOrderModel
	err := dbFromContext(ctx, r.db).Preload("Lines").First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByNumber loads an order by its receipt-facing number.
func (r *GormSalesOrderRepository) FindByNumber(ctx context.Context, number string) (*trade.SalesOrder, error) {
	var m models.SalesOrderModel
	err := dbFromContext(ctx, r.db).Preload("Lines").First(&m, "order_number = ?", number).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindBetween returns orders created inside [from, to), newest first.
func (r *GormSalesOrderRepository) FindBetween(ctx context.Context, from, to time.Time) ([]*trade.SalesOrder, error) {
	var ms []models.SalesOrderModel
	err := dbFromContext(ctx, r.db).
		Preload("Lines").
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at desc").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	orders := make([]*trade.SalesOrder, len(ms))
	for i := range ms {
		orders[i] = ms[i].ToDomain()
	}
	return orders, nil
}

var _ trade.Repository = (*GormSalesOrderRepository)(nil)
