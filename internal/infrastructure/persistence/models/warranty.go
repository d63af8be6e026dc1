package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/francisjavinico/backend-tintado/internal/domain/warranty"
)

// WarrantyModel is the persistence model for the Warranty entity.
type WarrantyModel struct {
	BaseModel
	Description   string    `gorm:"type:text;not null"`
	StartDate     time.Time `gorm:"not null"`
	EndDate       time.Time `gorm:"not null"`
	ClientID      uuid.UUID `gorm:"type:uuid;not null;index"`
	AppointmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_warranties_appointment"`
}

// TableName returns the table name for GORM
func (WarrantyModel) TableName() string {
	return "warranties"
}

// ToDomain converts the persistence model to a domain Warranty entity.
func (m *WarrantyModel) ToDomain() *warranty.Warranty {
	return &warranty.Warranty{
		BaseEntity:    m.BaseModel.ToDomain(),
		Description:   m.Description,
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
		ClientID:      m.ClientID,
		AppointmentID: m.AppointmentID,
	}
}

// FromDomain populates the persistence model from a domain Warranty.
func (m *WarrantyModel) FromDomain(w *warranty.Warranty) {
	m.FromDomainBaseEntity(w.BaseEntity)
	m.Description = w.Description
	m.StartDate = w.StartDate
	m.EndDate = w.EndDate
	m.ClientID = w.ClientID
	m.AppointmentID = w.AppointmentID
}
