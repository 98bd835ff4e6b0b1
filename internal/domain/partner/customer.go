package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/loyalty"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/shared"
)

// Customer is the aggregate root for a loyalty-tracked customer.
type Customer struct {
	shared.BaseEntity
	Name    string
	Phone   string
	Email   string
	Loyalty loyalty.Account
}

// NewCustomer creates a customer with an empty loyalty account.
func NewCustomer(name, phone, email string) (*Customer, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Phone:      phone,
		Email:      email,
		Loyalty:    loyalty.NewAccount(0),
	}, nil
}

// SettleLoyalty applies a sale's loyalty movements: redeemed points are
// subtracted first, then earned points added. Redemption over the balance
// is rejected without mutation.
func (c *Customer) SettleLoyalty(redeemed, earned int64) error {
	if err := c.Loyalty.Redeem(redeemed); err != nil {
		return err
	}
	c.Loyalty.Earn(earned)
	c.Touch()
	return nil
}

// Repository persists customers in the local mirror store.
type Repository interface {
	Save(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByPhone(ctx context.Context, phone string) (*Customer, error)
	FindAll(ctx context.Context) ([]*Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
