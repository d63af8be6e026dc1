package scheduling

import (
	"context"
	"strings"
	"time"

	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pendiente"
	AppointmentStatusCompleted AppointmentStatus = "completada"
	AppointmentStatusCancelled AppointmentStatus = "cancelada"
)

// IsValid checks if the status is a valid AppointmentStatus
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of AppointmentStatus
func (s AppointmentStatus) String() string {
	return string(s)
}

// ServiceCategory classifies the services the workshop offers.
// Behavior keyed off the category (budget shape, warranty issuance)
// never inspects free-form service names.
type ServiceCategory string

const (
	ServiceCategoryTinting  ServiceCategory = "tintado"
	ServiceCategoryWash     ServiceCategory = "lavado"
	ServiceCategoryPolish   ServiceCategory = "pulido"
	ServiceCategoryWrapping ServiceCategory = "vinilado"
	ServiceCategoryOther    ServiceCategory = "otros"
)

// IsValid checks if the category is a valid ServiceCategory
func (c ServiceCategory) IsValid() bool {
	switch c {
	case ServiceCategoryTinting, ServiceCategoryWash, ServiceCategoryPolish,
		ServiceCategoryWrapping, ServiceCategoryOther:
		return true
	}
	return false
}

// String returns the string representation of ServiceCategory
func (c ServiceCategory) String() string {
	return string(c)
}

// DisplayName returns the label printed on documents
func (c ServiceCategory) DisplayName() string {
	switch c {
	case ServiceCategoryTinting:
		return "Tintado de Lunas"
	case ServiceCategoryWash:
		return "Lavado"
	case ServiceCategoryPolish:
		return "Pulido de Faros"
	case ServiceCategoryWrapping:
		return "Vinilado"
	case ServiceCategoryOther:
		return "Otros"
	default:
		return string(c)
	}
}

// CarriesWarranty reports whether completing this service issues a film
// warranty to the client
func (c ServiceCategory) CarriesWarranty() bool {
	return c == ServiceCategoryTinting
}

// RequestedService is one service line requested for an appointment
type RequestedService struct {
	Category    ServiceCategory  `json:"categoria"`
	Name        string           `json:"nombre"`
	Description *string          `json:"descripcion,omitempty"`
	Price       *decimal.Decimal `json:"precio,omitempty"`
}

// Validate checks one requested service
func (s RequestedService) Validate() error {
	if !s.Category.IsValid() {
		return shared.NewDomainError("INVALID_SERVICE_CATEGORY", "Categoría de servicio no válida")
	}
	if strings.TrimSpace(s.Name) == "" {
		return shared.NewDomainError("INVALID_SERVICE_NAME", "El nombre del servicio es obligatorio")
	}
	if s.Category == ServiceCategoryOther && (s.Description == nil || strings.TrimSpace(*s.Description) == "") {
		return shared.NewDomainError("SERVICE_DESCRIPTION_REQUIRED", "Los servicios de tipo otros requieren descripción")
	}
	if s.Price != nil && s.Price.IsNegative() {
		return shared.NewDomainError("INVALID_SERVICE_PRICE", "El precio no puede ser negativo")
	}
	return nil
}

// LineDescription returns the text billed for this service
func (s RequestedService) LineDescription() string {
	if s.Category == ServiceCategoryOther && s.Description != nil {
		return *s.Description
	}
	return s.Name
}

// HasTinting reports whether any of the services is a tinting job
func HasTinting(services []RequestedService) bool {
	for _, s := range services {
		if s.Category == ServiceCategoryTinting {
			return true
		}
	}
	return false
}

// Budget is the quote attached to an appointment. Tinting jobs carry a
// three-tier quote (film quality tiers); any other job carries a single
// ceiling price. Exactly one of the two shapes is present.
type Budget struct {
	Basic   *decimal.Decimal `json:"presupuestoBasico,omitempty"`
	Mid     *decimal.Decimal `json:"presupuestoIntermedio,omitempty"`
	Premium *decimal.Decimal `json:"presupuestoPremium,omitempty"`
	Max     *decimal.Decimal `json:"presupuestoMax,omitempty"`
}

// Validate enforces the budget shape against the requested services
func (b Budget) Validate(services []RequestedService) error {
	tiered := b.Basic != nil || b.Mid != nil || b.Premium != nil
	if HasTinting(services) {
		if b.Basic == nil || b.Mid == nil || b.Premium == nil {
			return shared.NewDomainError("BUDGET_TIERS_REQUIRED", "El tintado requiere presupuesto básico, intermedio y premium")
		}
		if b.Max != nil {
			return shared.NewDomainError("BUDGET_MAX_FORBIDDEN", "El tintado no admite presupuesto máximo")
		}
		return nil
	}
	if b.Max == nil {
		return shared.NewDomainError("BUDGET_MAX_REQUIRED", "El presupuesto máximo es obligatorio")
	}
	if tiered {
		return shared.NewDomainError("BUDGET_TIERS_FORBIDDEN", "Solo el tintado admite presupuesto por tramos")
	}
	return nil
}

// CleanPlate uppercases a number plate and strips separators
func CleanPlate(raw string) string {
	p := strings.ToUpper(strings.TrimSpace(raw))
	p = strings.ReplaceAll(p, " ", "")
	p = strings.ReplaceAll(p, "-", "")
	return p
}

// IsValidPlate reports whether the cleaned plate has an acceptable length
func IsValidPlate(plate string) bool {
	n := len(CleanPlate(plate))
	return n >= 7 && n <= 10
}

// Appointment is the aggregate around which the whole workflow turns
type Appointment struct {
	shared.BaseEntity
	ScheduledAt time.Time          `json:"fecha"`
	Status      AppointmentStatus  `json:"estado"`
	Description *string            `json:"descripcion,omitempty"`
	Phone       string             `json:"telefono"`
	Plate       *string            `json:"matricula,omitempty"`
	Budget      Budget             `json:"presupuesto"`
	Services    []RequestedService `json:"servicios"`
	ClientID    *uuid.UUID         `json:"clienteId,omitempty"`
	VehicleID   uuid.UUID          `json:"vehiculoId"`
}

// NewAppointment creates a pending appointment after validating the
// requested services and the budget shape
func NewAppointment(scheduledAt time.Time, phone string, vehicleID uuid.UUID, services []RequestedService, budget Budget, description, plate *string, clientID *uuid.UUID) (*Appointment, error) {
	if scheduledAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "La fecha de la cita es obligatoria")
	}
	if vehicleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VEHICLE", "El vehículo es obligatorio")
	}
	if !shared.IsValidSpanishMobile(phone) {
		return nil, shared.NewDomainError("INVALID_PHONE", "Teléfono móvil español no válido")
	}
	if len(services) == 0 {
		return nil, shared.NewDomainError("SERVICES_REQUIRED", "Debe solicitar al menos un servicio")
	}
	for _, s := range services {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	if err := budget.Validate(services); err != nil {
		return nil, err
	}
	if plate != nil {
		cleaned := CleanPlate(*plate)
		if !IsValidPlate(cleaned) {
			return nil, shared.NewDomainError("INVALID_PLATE", "Matrícula no válida")
		}
		plate = &cleaned
	}
	return &Appointment{
		BaseEntity:  shared.NewBaseEntity(),
		ScheduledAt: scheduledAt.UTC(),
		Status:      AppointmentStatusPending,
		Description: description,
		Phone:       shared.NormalizeSpanishMobile(phone),
		Plate:       plate,
		Budget:      budget,
		Services:    services,
		ClientID:    clientID,
		VehicleID:   vehicleID,
	}, nil
}

// Complete transitions the appointment to completed. The transition is
// one-way: completed and cancelled appointments stay that way.
func (a *Appointment) Complete() error {
	if a.Status != AppointmentStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Solo se pueden finalizar citas pendientes")
	}
	a.Status = AppointmentStatusCompleted
	a.Touch()
	return nil
}

// Cancel marks a pending appointment as cancelled
func (a *Appointment) Cancel() error {
	if a.Status != AppointmentStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Solo se pueden cancelar citas pendientes")
	}
	a.Status = AppointmentStatusCancelled
	a.Touch()
	return nil
}

// AssignClient links a client after check-in
func (a *Appointment) AssignClient(clientID uuid.UUID) {
	a.ClientID = &clientID
	a.Touch()
}

// AppointmentFilter narrows appointment listings
type AppointmentFilter struct {
	shared.Filter
	ClientID *uuid.UUID
	Status   *AppointmentStatus
	From     *time.Time
	To       *time.Time
}

// AppointmentRepository defines persistence for appointments
type AppointmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	FindByScheduledAt(ctx context.Context, at time.Time) (*Appointment, error)
	FindAll(ctx context.Context, filter AppointmentFilter) ([]Appointment, int64, error)
	FindPendingBetween(ctx context.Context, from, to time.Time) ([]Appointment, error)
	CountByStatus(ctx context.Context, status AppointmentStatus) (int64, error)
	Save(ctx context.Context, appointment *Appointment) error
	Update(ctx context.Context, appointment *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
}
