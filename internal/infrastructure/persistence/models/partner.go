package models

import (
	"github.com/francisjavinico/backend-tintado/internal/domain/partner"
)

// ClientModel is the persistence model for the Client domain entity.
type ClientModel struct {
	BaseModel
	Name             string  `gorm:"type:varchar(100);not null"`
	Surname          string  `gorm:"type:varchar(100);not null"`
	Email            *string `gorm:"type:varchar(200);index"`
	Phone            string  `gorm:"type:varchar(20);not null;uniqueIndex:idx_clients_phone"`
	Address          *string `gorm:"type:text"`
	DocumentIdentity *string `gorm:"type:varchar(30);uniqueIndex:idx_clients_document"`
	DataConsent      bool    `gorm:"not null;default:false"`
	MarketingOptIn   bool    `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *partner.Client {
	return &partner.Client{
		BaseEntity:       m.BaseModel.ToDomain(),
		Name:             m.Name,
		Surname:          m.Surname,
		Email:            m.Email,
		Phone:            m.Phone,
		Address:          m.Address,
		DocumentIdentity: m.DocumentIdentity,
		DataConsent:      m.DataConsent,
		MarketingOptIn:   m.MarketingOptIn,
	}
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *partner.Client) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Surname = c.Surname
	m.Email = c.Email
	m.Phone = c.Phone
	m.Address = c.Address
	m.DocumentIdentity = c.DocumentIdentity
	m.DataConsent = c.DataConsent
	m.MarketingOptIn = c.MarketingOptIn
}

// ClientModelFromDomain converts a domain Client to a persistence model
func ClientModelFromDomain(c *partner.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}
