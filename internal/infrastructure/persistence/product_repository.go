package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/catalog"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/shared"
	"github.com/inblognet/OmniPOS-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements catalog.Repository using GORM.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Save upserts the product row. Batches and damage logs are saved through
// their own methods.
func (r *GormProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	var m models.ProductModel
	m.FromDomain(p)
	return dbFromContext(ctx, r.db).Clauses(clause.OnConflict{UpdateAll: true}).Create(&m).Error
}

// FindByID loads the product with its batches and damage logs.
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	db := dbFromContext(ctx, r.db)

	var m models.ProductModel
	if err := db.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	p := m.ToDomain()
	if err := r.loadChildren(db, p); err != nil {
		return nil, err
	}
	return p, nil
}

// FindBySKU loads the product with the given SKU.
func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	db := dbFromContext(ctx, r.db)

	var m models.ProductModel
	if err := db.First(&m, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	p := m.ToDomain()
	if err := r.loadChildren(db, p); err != nil {
		return nil, err
	}
	return p, nil
}

// FindAll returns every product, without child collections.
func (r *GormProductRepository) FindAll(ctx context.Context) ([]*catalog.Product, error) {
	var ms []models.ProductModel
	if err := dbFromContext(ctx, r.db).Order("name asc").Find(&ms).Error; err != nil {
		return nil, err
	}
	products := make([]*catalog.Product, len(ms))
	for i := range ms {
		products[i] = ms[i].ToDomain()
	}
	return products, nil
}

// FindExpirable returns products that carry expiry-dated stock, with
// batches loaded for the sweep.
func (r *GormProductRepository) FindExpirable(ctx context.Context) ([]*catalog.Product, error) {
	db := dbFromContext(ctx, r.db)

	var ms []models.ProductModel
	err := db.
		Where("stock_expiry_date IS NOT NULL OR id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Model(&models.ProductBatchModel{}).
				Select("product_id").
				Where("expiry_date IS NOT NULL")).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	products := make([]*catalog.Product, len(ms))
	for i := range ms {
		p := ms[i].ToDomain()
		if err := r.loadChildren(db, p); err != nil {
			return nil, err
		}
		products[i] = p
	}
	return products, nil
}

// Delete removes the product and its child rows.
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := dbFromContext(ctx, r.db)
	if err := db.Delete(&models.ProductBatchModel{}, "product_id = ?", id).Error; err != nil {
		return err
	}
	if err := db.Delete(&models.DamageLogModel{}, "product_id = ?", id).Error; err != nil {
		return err
	}
	return db.Delete(&models.ProductModel{}, "id = ?", id).Error
}

// SaveBatch upserts one stock lot.
func (r *GormProductRepository) SaveBatch(ctx context.Context, b *catalog.ProductBatch) error {
	var m models.ProductBatchModel
	m.FromDomain(b)
	return dbFromContext(ctx, r.db).Clauses(clause.OnConflict{UpdateAll: true}).Create(&m).Error
}

// FindBatches returns the product's lots, oldest expiry first.
func (r *GormProductRepository) FindBatches(ctx context.Context, productID uuid.UUID) ([]catalog.ProductBatch, error) {
	var ms []models.ProductBatchModel
	err := dbFromContext(ctx, r.db).
		Where("product_id = ?", productID).
		Order("expiry_date asc").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	batches := make([]catalog.ProductBatch, len(ms))
	for i := range ms {
		batches[i] = ms[i].ToDomain()
	}
	return batches, nil
}

// DeleteBatch removes one stock lot.
func (r *GormProductRepository) DeleteBatch(ctx context.Context, id uuid.UUID) error {
	return dbFromContext(ctx, r.db).Delete(&models.ProductBatchModel{}, "id = ?", id).Error
}

// SaveDamageLog appends a damage report.
func (r *GormProductRepository) SaveDamageLog(ctx context.Context, l *catalog.DamageLog) error {
	var m models.DamageLogModel
	m.FromDomain(l)
	return dbFromContext(ctx, r.db).Create(&m).Error
}

// FindDamageLogs returns the product's damage reports, newest first.
func (r *GormProductRepository) FindDamageLogs(ctx context.Context, productID uuid.UUID) ([]catalog.DamageLog, error) {
	var ms []models.DamageLogModel
	err := dbFromContext(ctx, r.db).
		Where("product_id = ?", productID).
		Order("reported_at desc").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	logs := make([]catalog.DamageLog, len(ms))
	for i := range ms {
		logs[i] = ms[i].ToDomain()
	}
	return logs, nil
}

func (r *GormProductRepository) loadChildren(db *gorm.DB, p *catalog.Product) error {
	var bms []models.ProductBatchModel
	if err := db.Where("product_id = ?", p.ID).Order("expiry_date asc").Find(&bms).Error; err != nil {
		return err
	}
	p.Batches = make([]catalog.ProductBatch, len(bms))
	for i := range bms {
		p.Batches[i] = bms[i].ToDomain()
	}

	var dms []models.DamageLogModel
	if err := db.Where("product_id = ?", p.ID).Order("reported_at desc").Find(&dms).Error; err != nil {
		return err
	}
	p.DamageLogs = make([]catalog.DamageLog, len(dms))
	for i := range dms {
		p.DamageLogs[i] = dms[i].ToDomain()
	}
	return nil
}

var _ catalog.Repository = (*GormProductRepository)(nil)
