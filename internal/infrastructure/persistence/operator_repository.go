package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/identity"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/shared"
	"github.com/inblognet/OmniPOS-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOperatorRepository implements identity.Repository using GORM.
type GormOperatorRepository struct {
	db *gorm.DB
}

// NewGormOperatorRepository creates a new GormOperatorRepository
func NewGormOperatorRepository(db *gorm.DB) *GormOperatorRepository {
	return &GormOperatorRepository{db: db}
}

// Save upserts the operator row.
func (r *GormOperatorRepository) Save(ctx context.Context, op *identity.Operator) error {
	var m models.OperatorModel
	m.FromDomain(op)
	return dbFromContext(ctx, r.db).Clauses(clause.OnConflict{UpdateAll: true}).Create(&m).Error
}

// FindByUsername finds an operator by username.
func (r *GormOperatorRepository) FindByUsername(ctx context.Context, username string) (*identity.Operator, error) {
	var m models.OperatorModel
	if err := dbFromContext(ctx, r.db).First(&m, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByID finds an operator by ID.
func (r *GormOperatorRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Operator, error) {
	var m models.OperatorModel
	if err := dbFromContext(ctx, r.db).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

var _ identity.Repository = (*GormOperatorRepository)(nil)
