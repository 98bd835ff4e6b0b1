package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists products, batches and damage logs in the local
// mirror store.
type Repository interface {
	Save(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	FindAll(ctx context.Context) ([]*Product, error)
	// FindExpirable returns products with an expiry date set, for the sweep.
	FindExpirable(ctx context.Context) ([]*Product, error)
	Delete(ctx context.Context, id uuid.UUID) error

	SaveBatch(ctx context.Context, b *ProductBatch) error
	FindBatches(ctx context.Context, productID uuid.UUID) ([]ProductBatch, error)
	DeleteBatch(ctx context.Context, id uuid.UUID) error

	SaveDamageLog(ctx context.Context, l *DamageLog) error
	FindDamageLogs(ctx context.Context, productID uuid.UUID) ([]DamageLog, error)
}
