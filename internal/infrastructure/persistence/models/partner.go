package models

import (
	"github.com/inblognet/OmniPOS-sub000/internal/domain/loyalty"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/partner"
)

// CustomerModel is the persistence model for the Customer aggregate.
type CustomerModel struct {
	BaseModel
	Name          string `gorm:"type:varchar(200);not null"`
	Phone         string `gorm:"type:varchar(30);index"`
	Email         string `gorm:"type:varchar(200)"`
	LoyaltyPoints int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Phone:      m.Phone,
		Email:      m.Email,
		Loyalty:    loyalty.NewAccount(m.LoyaltyPoints),
	}
}

// FromDomain populates the persistence model from a domain Customer.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Phone = c.Phone
	m.Email = c.Email
	m.LoyaltyPoints = c.Loyalty.Balance
}
