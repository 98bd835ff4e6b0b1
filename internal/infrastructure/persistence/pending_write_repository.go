package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/outbox"
	"github.com/inblognet/OmniPOS-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPendingWriteRepository implements outbox.Repository using GORM.
type GormPendingWriteRepository struct {
	db *gorm.DB
}

// NewGormPendingWriteRepository creates a new GormPendingWriteRepository
func NewGormPendingWriteRepository(db *gorm.DB) *GormPendingWriteRepository {
	return &GormPendingWriteRepository{db: db}
}

// Save appends or updates a pending write. The auto-incremented Seq of
// the first insert fixes the write's replay position.
func (r *GormPendingWriteRepository) Save(ctx context.Context, w *outbox.PendingWrite) error {
	var m models.PendingWriteModel
	m.FromDomain(w)
	return dbFromContext(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&m).Error
}

// FindPending returns all queued writes in insertion order.
func (r *GormPendingWriteRepository) FindPending(ctx context.Context) ([]*outbox.PendingWrite, error) {
	var ms []models.PendingWriteModel
	if err := dbFromContext(ctx, r.db).Order("seq asc").Find(&ms).Error; err != nil {
		return nil, err
	}
	writes := make([]*outbox.PendingWrite, len(ms))
	for i := range ms {
		writes[i] = ms[i].ToDomain()
	}
	return writes, nil
}

// Delete removes a successfully replayed write.
func (r *GormPendingWriteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFromContext(ctx, r.db).Delete(&models.PendingWriteModel{}, "id = ?", id).Error
}

// Count returns the queue depth.
func (r *GormPendingWriteRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&models.PendingWriteModel{}).Count(&count).Error
	return count, err
}

var _ outbox.Repository = (*GormPendingWriteRepository)(nil)
