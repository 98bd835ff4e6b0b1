package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/shared"
)

// Role is the permission level of an operator.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
)

// Operator is a staff account that can sign in to the terminal.
type Operator struct {
	shared.BaseEntity
	Username     string
	DisplayName  string
	PasswordHash string
	Role         Role
	Active       bool
}

// NewOperator creates an active operator. The password hash is produced by
// the auth infrastructure, not here.
func NewOperator(username, displayName, passwordHash string, role Role) (*Operator, error) {
	if username == "" {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password hash cannot be empty")
	}
	if role != RoleAdmin && role != RoleCashier {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown operator role")
	}
	return &Operator{
		BaseEntity:   shared.NewBaseEntity(),
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		Role:         role,
		Active:       true,
	}, nil
}

// Repository persists operators in the local mirror store.
type Repository interface {
	Save(ctx context.Context, op *Operator) error
	FindByUsername(ctx context.Context, username string) (*Operator, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Operator, error)
}
