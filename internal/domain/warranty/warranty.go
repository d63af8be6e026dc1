package warranty

import (
	"context"
	"strings"
	"time"

	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
	"github.com/google/uuid"
)

// DefaultTermMonths is the warranty coverage issued for tinting work.
const DefaultTermMonths = 12

// Warranty covers the film installed during one appointment. Each
// appointment carries at most one warranty.
type Warranty struct {
	shared.BaseEntity
	Description   string    `json:"descripcion"`
	StartDate     time.Time `json:"fechaInicio"`
	EndDate       time.Time `json:"fechaFin"`
	ClientID      uuid.UUID `json:"clienteId"`
	AppointmentID uuid.UUID `json:"citaId"`
}

// NewWarranty creates a warranty covering [startDate, endDate)
func NewWarranty(description string, startDate, endDate time.Time, clientID, appointmentID uuid.UUID) (*Warranty, error) {
	if strings.TrimSpace(description) == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "La descripción de la garantía es obligatoria")
	}
	if startDate.IsZero() || endDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATES", "Las fechas de la garantía son obligatorias")
	}
	if !endDate.After(startDate) {
		return nil, shared.NewDomainError("INVALID_DATES", "La fecha de fin debe ser posterior a la de inicio")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "El cliente es obligatorio")
	}
	if appointmentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_APPOINTMENT", "La cita es obligatoria")
	}
	return &Warranty{
		BaseEntity:    shared.NewBaseEntity(),
		Description:   strings.TrimSpace(description),
		StartDate:     startDate.UTC(),
		EndDate:       endDate.UTC(),
		ClientID:      clientID,
		AppointmentID: appointmentID,
	}, nil
}

// NewStandardWarranty creates the default 12-month warranty starting now
func NewStandardWarranty(description string, clientID, appointmentID uuid.UUID) (*Warranty, error) {
	start := time.Now().UTC()
	return NewWarranty(description, start, start.AddDate(0, DefaultTermMonths, 0), clientID, appointmentID)
}

// Amend rewrites the description and coverage window, keeping the
// client and appointment links intact
func (w *Warranty) Amend(description string, startDate, endDate time.Time) error {
	if strings.TrimSpace(description) == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "La descripción de la garantía es obligatoria")
	}
	if startDate.IsZero() || endDate.IsZero() {
		return shared.NewDomainError("INVALID_DATES", "Las fechas de la garantía son obligatorias")
	}
	if !endDate.After(startDate) {
		return shared.NewDomainError("INVALID_DATES", "La fecha de fin debe ser posterior a la de inicio")
	}
	w.Description = strings.TrimSpace(description)
	w.StartDate = startDate.UTC()
	w.EndDate = endDate.UTC()
	w.Touch()
	return nil
}

// IsActive reports whether the warranty covers the given instant
func (w *Warranty) IsActive(at time.Time) bool {
	return !at.Before(w.StartDate) && at.Before(w.EndDate)
}

// Repository defines persistence for warranties
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Warranty, error)
	FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*Warranty, error)
	FindByClientID(ctx context.Context, clientID uuid.UUID) ([]Warranty, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Warranty, int64, error)
	Save(ctx context.Context, w *Warranty) error
	Update(ctx context.Context, w *Warranty) error
	Delete(ctx context.Context, id uuid.UUID) error
}
