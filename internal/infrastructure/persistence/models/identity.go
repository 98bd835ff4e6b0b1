package models

import (
	"github.com/inblognet/OmniPOS-sub000/internal/domain/identity"
)

// OperatorModel is the persistence model for a staff account.
type OperatorModel struct {
	BaseModel
	Username     string `gorm:"type:varchar(50);not null;uniqueIndex"`
	DisplayName  string `gorm:"type:varchar(100)"`
	PasswordHash string `gorm:"type:varchar(100);not null"`
	Role         string `gorm:"type:varchar(20);not null"`
	Active       bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (OperatorModel) TableName() string {
	return "operators"
}

// ToDomain converts the persistence model to a domain Operator.
func (m *OperatorModel) ToDomain() *identity.Operator {
	return &identity.Operator{
		BaseEntity:   m.BaseModel.ToDomain(),
		Username:     m.Username,
		DisplayName:  m.DisplayName,
		PasswordHash: m.PasswordHash,
		Role:         identity.Role(m.Role),
		Active:       m.Active,
	}
}

// FromDomain populates the persistence model from a domain Operator.
func (m *OperatorModel) FromDomain(o *identity.Operator) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.Username = o.Username
	m.DisplayName = o.DisplayName
	m.PasswordHash = o.PasswordHash
	m.Role = string(o.Role)
	m.Active = o.Active
}
