package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists sales orders in the local mirror store.
type Repository interface {
	Save(ctx context.Context, o *SalesOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)
	FindByNumber(ctx context.Context, orderNumber string) (*SalesOrder, error)
	FindBetween(ctx context.Context, from, to time.Time) ([]*SalesOrder, error)
}
