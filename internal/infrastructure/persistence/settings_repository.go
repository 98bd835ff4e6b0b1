package persistence

import (
	"context"
	"errors"

	"github.com/inblognet/OmniPOS-sub000/internal/domain/settings"
	"github.com/inblognet/OmniPOS-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingsRepository implements settings.Repository using GORM.
// The store has exactly one settings record; Load creates it from the
// defaults on first use.
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Load returns the settings record, seeding the defaults when none exists.
func (r *GormSettingsRepository) Load(ctx context.Context) (*settings.StoreSettings, error) {
	db := dbFromContext(ctx, r.db)

	var m models.StoreSettingsModel
	err := db.Order("created_at asc").First(&m).Error
	if err == nil {
		return m.ToDomain(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	defaults := settings.Default()
	m.FromDomain(defaults)
	if err := db.Create(&m).Error; err != nil {
		return nil, err
	}
	return defaults, nil
}

// Save upserts the settings record.
func (r *GormSettingsRepository) Save(ctx context.Context, s *settings.StoreSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	var m models.StoreSettingsModel
	m.FromDomain(s)
	return dbFromContext(ctx, r.db).Clauses(clause.OnConflict{UpdateAll: true}).Create(&m).Error
}

var _ settings.Repository = (*GormSettingsRepository)(nil)
