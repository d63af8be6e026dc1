package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/francisjavinico/backend-tintado/internal/domain/scheduling"
)

// VehicleModel is the persistence model for the Vehicle domain entity.
type VehicleModel struct {
	BaseModel
	Make  string `gorm:"type:varchar(60);not null;uniqueIndex:idx_vehicles_tuple,priority:1"`
	Model string `gorm:"type:varchar(80);not null;uniqueIndex:idx_vehicles_tuple,priority:2"`
	Year  int    `gorm:"not null;uniqueIndex:idx_vehicles_tuple,priority:3"`
	Doors int    `gorm:"not null;uniqueIndex:idx_vehicles_tuple,priority:4"`
}

// TableName returns the table name for GORM
func (VehicleModel) TableName() string {
	return "vehicles"
}

// ToDomain converts the persistence model to a domain Vehicle entity.
func (m *VehicleModel) ToDomain() *scheduling.Vehicle {
	return &scheduling.Vehicle{
		BaseEntity: m.BaseModel.ToDomain(),
		Make:       m.Make,
		Model:      m.Model,
		Year:       m.Year,
		Doors:      m.Doors,
	}
}

// FromDomain populates the persistence model from a domain Vehicle entity.
func (m *VehicleModel) FromDomain(v *scheduling.Vehicle) {
	m.FromDomainBaseEntity(v.BaseEntity)
	m.Make = v.Make
	m.Model = v.Model
	m.Year = v.Year
	m.Doors = v.Doors
}

// AppointmentModel is the persistence model for the Appointment aggregate.
type AppointmentModel struct {
	BaseModel
	ScheduledAt   time.Time                    `gorm:"not null;uniqueIndex:idx_appointments_scheduled_at"`
	Status        scheduling.AppointmentStatus `gorm:"type:varchar(20);not null;default:'pendiente';index"`
	Description   *string                      `gorm:"type:text"`
	Phone         string                       `gorm:"type:varchar(20);not null"`
	Plate         *string                      `gorm:"type:varchar(10)"`
	BudgetBasic   *decimal.Decimal             `gorm:"type:decimal(12,2)"`
	BudgetMid     *decimal.Decimal             `gorm:"type:decimal(12,2)"`
	BudgetPremium *decimal.Decimal             `gorm:"type:decimal(12,2)"`
	BudgetMax     *decimal.Decimal             `gorm:"type:decimal(12,2)"`
	ClientID      *uuid.UUID                   `gorm:"type:uuid;index"`
	VehicleID     uuid.UUID                    `gorm:"type:uuid;not null;index"`

	Services []AppointmentServiceModel `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (AppointmentModel) TableName() string {
	return "appointments"
}

// AppointmentServiceModel is one requested service row of an appointment.
type AppointmentServiceModel struct {
	ID            uuid.UUID                  `gorm:"type:uuid;primary_key"`
	AppointmentID uuid.UUID                  `gorm:"type:uuid;not null;index"`
	Position      int                        `gorm:"not null"`
	Category      scheduling.ServiceCategory `gorm:"type:varchar(20);not null"`
	Name          string                     `gorm:"type:varchar(120);not null"`
	Description   *string                    `gorm:"type:text"`
	Price         *decimal.Decimal           `gorm:"type:decimal(12,2)"`
}

// TableName returns the table name for GORM
func (AppointmentServiceModel) TableName() string {
	return "appointment_services"
}

// ToDomain converts the persistence model to a domain Appointment aggregate.
func (m *AppointmentModel) ToDomain() *scheduling.Appointment {
	services := make([]scheduling.RequestedService, len(m.Services))
	for i, s := range m.Services {
		services[i] = scheduling.RequestedService{
			Category:    s.Category,
			Name:        s.Name,
			Description: s.Description,
			Price:       s.Price,
		}
	}
	return &scheduling.Appointment{
		BaseEntity:  m.BaseModel.ToDomain(),
		ScheduledAt: m.ScheduledAt,
		Status:      m.Status,
		Description: m.Description,
		Phone:       m.Phone,
		Plate:       m.Plate,
		Budget: scheduling.Budget{
			Basic:   m.BudgetBasic,
			Mid:     m.BudgetMid,
			Premium: m.BudgetPremium,
			Max:     m.BudgetMax,
		},
		Services:  services,
		ClientID:  m.ClientID,
		VehicleID: m.VehicleID,
	}
}

// FromDomain populates the persistence model from a domain Appointment.
// Service rows keep their position so listings preserve the order the
// services were requested in.
func (m *AppointmentModel) FromDomain(a *scheduling.Appointment) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.ScheduledAt = a.ScheduledAt
	m.Status = a.Status
	m.Description = a.Description
	m.Phone = a.Phone
	m.Plate = a.Plate
	m.BudgetBasic = a.Budget.Basic
	m.BudgetMid = a.Budget.Mid
	m.BudgetPremium = a.Budget.Premium
	m.BudgetMax = a.Budget.Max
	m.ClientID = a.ClientID
	m.VehicleID = a.VehicleID

	m.Services = make([]AppointmentServiceModel, len(a.Services))
	for i, s := range a.Services {
		m.Services[i] = AppointmentServiceModel{
			ID:            uuid.New(),
			AppointmentID: a.ID,
			Position:      i,
			Category:      s.Category,
			Name:          s.Name,
			Description:   s.Description,
			Price:         s.Price,
		}
	}
}
