package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/partner"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/shared"
	"github.com/inblognet/OmniPOS-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCustomerRepository implements partner.Repository using GORM.
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Save upserts the customer row.
func (r *GormCustomerRepository) Save(ctx context.Context, c *partner.Customer) error {
	var m models.CustomerModel
	m.FromDomain(c)
	return dbFromContext(ctx, r.db).Clauses(clause.OnConflict{UpdateAll: true}).Create(&m).Error
}

// FindByID finds a customer by ID.
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var m models.CustomerModel
	if err := dbFromContext(ctx, r.db).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByPhone finds a customer by phone number.
func (r *GormCustomerRepository) FindByPhone(ctx context.Context, phone string) (*partner.Customer, error) {
	var m models.CustomerModel
	if err := dbFromContext(ctx, r.db).First(&m, "phone = ?", phone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll returns every customer, sorted by name.
func (r *GormCustomerRepository) FindAll(ctx context.Context) ([]*partner.Customer, error) {
	var ms []models.CustomerModel
	if err := dbFromContext(ctx, r.db).Order("name asc").Find(&ms).Error; err != nil {
		return nil, err
	}
	customers := make([]*partner.Customer, len(ms))
	for i := range ms {
		customers[i] = ms[i].ToDomain()
	}
	return customers, nil
}

// Delete removes the customer row.
func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFromContext(ctx, r.db).Delete(&models.CustomerModel{}, "id = ?", id).Error
}

var _ partner.Repository = (*GormCustomerRepository)(nil)
