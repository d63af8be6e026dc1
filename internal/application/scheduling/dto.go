package scheduling

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/francisjavinico/backend-tintado/internal/domain/scheduling"
)

// ServiceInput is one requested service line in an appointment request
type ServiceInput struct {
	Category    string           `json:"categoria" binding:"required"`
	Name        string           `json:"nombre" binding:"required,min=1,max=100"`
	Description *string          `json:"descripcion" binding:"omitempty,max=300"`
	Price       *decimal.Decimal `json:"precio"`
}

func (i ServiceInput) toDomain() scheduling.RequestedService {
	return scheduling.RequestedService{
		Category:    scheduling.ServiceCategory(i.Category),
		Name:        i.Name,
		Description: i.Description,
		Price:       i.Price,
	}
}

func toDomainServices(inputs []ServiceInput) []scheduling.RequestedService {
	services := make([]scheduling.RequestedService, len(inputs))
	for i, in := range inputs {
		services[i] = in.toDomain()
	}
	return services
}

// BudgetInput is the quote attached to an appointment request
type BudgetInput struct {
	Basic   *decimal.Decimal `json:"presupuestoBasico"`
	Mid     *decimal.Decimal `json:"presupuestoIntermedio"`
	Premium *decimal.Decimal `json:"presupuestoPremium"`
	Max     *decimal.Decimal `json:"presupuestoMax"`
}

func (b BudgetInput) toDomain() scheduling.Budget {
	return scheduling.Budget{Basic: b.Basic, Mid: b.Mid, Premium: b.Premium, Max: b.Max}
}

// CreateAppointmentRequest represents a request to book an appointment
type CreateAppointmentRequest struct {
	ScheduledAt time.Time      `json:"fecha" binding:"required"`
	Phone       string         `json:"telefono" binding:"required,telefono_es"`
	VehicleID   uuid.UUID      `json:"vehiculoId" binding:"required"`
	Services    []ServiceInput `json:"servicios" binding:"required,min=1,dive"`
	Budget      BudgetInput    `json:"presupuesto"`
	Description *string        `json:"descripcion" binding:"omitempty,max=500"`
	Plate       *string        `json:"matricula"`
	ClientID    *uuid.UUID     `json:"clienteId"`
}

// UpdateAppointmentRequest represents a request to reschedule or edit a
// pending appointment
type UpdateAppointmentRequest struct {
	ScheduledAt *time.Time     `json:"fecha"`
	Phone       *string        `json:"telefono"`
	VehicleID   *uuid.UUID     `json:"vehiculoId"`
	// ClientID connects the appointment to a client; leaving it out
	// disconnects any linked client.
	ClientID *uuid.UUID `json:"clienteId"`
	Services    []ServiceInput `json:"servicios" binding:"omitempty,min=1,dive"`
	Budget      *BudgetInput   `json:"presupuesto"`
	Description *string        `json:"descripcion" binding:"omitempty,max=500"`
	Plate       *string        `json:"matricula"`
}

// ListAppointmentsRequest represents the appointment listing filters
type ListAppointmentsRequest struct {
	ClientID *uuid.UUID `form:"clienteId"`
	Status   string     `form:"estado"`
	From     *time.Time `form:"desde" time_format:"2006-01-02"`
	To       *time.Time `form:"hasta" time_format:"2006-01-02"`
	Page     int        `form:"page"`
	PageSize int        `form:"pageSize"`
}

// CheckInRequest carries the data the client fills in at the counter.
// The client record is created or refreshed by phone number and then
// linked to the appointment.
type CheckInRequest struct {
	Name             string  `json:"nombre" binding:"required,min=1,max=100"`
	Surname          string  `json:"apellido" binding:"required,min=1,max=100"`
	Phone            string  `json:"telefono" binding:"required,telefono_es"`
	Email            *string `json:"email" binding:"omitempty,email,max=200"`
	Address          *string `json:"direccion" binding:"omitempty,max=300"`
	DocumentIdentity *string `json:"documentoIdentidad" binding:"omitempty,max=20"`
	DataConsent      bool    `json:"consentimientoLOPD"`
	MarketingOptIn   bool    `json:"aceptaPromociones"`
}

// FinalizeAppointmentRequest represents a request to close out a finished
// appointment. Services and plate, when present, override what was booked;
// the front desk corrects them as the job leaves the workshop.
type FinalizeAppointmentRequest struct {
	ClientID        uuid.UUID      `json:"clienteId" binding:"required"`
	Services        []ServiceInput `json:"servicios" binding:"omitempty,min=1,dive"`
	GenerateInvoice bool           `json:"generarFactura"`
	Plate           *string        `json:"matricula"`
	FilmType        *string        `json:"tipoLamina"`
}

// ServiceResponse is one service line in API responses
type ServiceResponse struct {
	Category    string           `json:"categoria"`
	Name        string           `json:"nombre"`
	Description *string          `json:"descripcion,omitempty"`
	Price       *decimal.Decimal `json:"precio,omitempty"`
}

// BudgetResponse is the quote in API responses
type BudgetResponse struct {
	Basic   *decimal.Decimal `json:"presupuestoBasico,omitempty"`
	Mid     *decimal.Decimal `json:"presupuestoIntermedio,omitempty"`
	Premium *decimal.Decimal `json:"presupuestoPremium,omitempty"`
	Max     *decimal.Decimal `json:"presupuestoMax,omitempty"`
}

// AppointmentResponse represents an appointment in API responses
type AppointmentResponse struct {
	ID          uuid.UUID         `json:"id"`
	ScheduledAt time.Time         `json:"fecha"`
	Status      string            `json:"estado"`
	Description *string           `json:"descripcion,omitempty"`
	Phone       string            `json:"telefono"`
	Plate       *string           `json:"matricula,omitempty"`
	Budget      BudgetResponse    `json:"presupuesto"`
	Services    []ServiceResponse `json:"servicios"`
	ClientID    *uuid.UUID        `json:"clienteId,omitempty"`
	VehicleID   uuid.UUID         `json:"vehiculoId"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// toAppointmentResponse converts a domain appointment to its response shape
func toAppointmentResponse(a *scheduling.Appointment) *AppointmentResponse {
	services := make([]ServiceResponse, len(a.Services))
	for i, s := range a.Services {
		services[i] = ServiceResponse{
			Category:    s.Category.String(),
			Name:        s.Name,
			Description: s.Description,
			Price:       s.Price,
		}
	}
	return &AppointmentResponse{
		ID:          a.ID,
		ScheduledAt: a.ScheduledAt,
		Status:      a.Status.String(),
		Description: a.Description,
		Phone:       a.Phone,
		Plate:       a.Plate,
		Budget: BudgetResponse{
			Basic:   a.Budget.Basic,
			Mid:     a.Budget.Mid,
			Premium: a.Budget.Premium,
			Max:     a.Budget.Max,
		},
		Services:  services,
		ClientID:  a.ClientID,
		VehicleID: a.VehicleID,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// CreateVehicleRequest represents a request to register a vehicle entry
type CreateVehicleRequest struct {
	Make  string `json:"marca" binding:"required,min=1,max=60"`
	Model string `json:"modelo" binding:"required,min=1,max=60"`
	Year  int    `json:"año" binding:"required"`
	Doors int    `json:"numeroPuertas" binding:"required"`
}

// UpdateVehicleRequest represents a request to correct a vehicle entry
type UpdateVehicleRequest struct {
	Make  string `json:"marca" binding:"required,min=1,max=60"`
	Model string `json:"modelo" binding:"required,min=1,max=60"`
	Year  int    `json:"año" binding:"required"`
	Doors int    `json:"numeroPuertas" binding:"required"`
}

// ListVehiclesRequest represents the vehicle search filters
type ListVehiclesRequest struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// VehicleResponse represents a vehicle in API responses
type VehicleResponse struct {
	ID        uuid.UUID `json:"id"`
	Make      string    `json:"marca"`
	Model     string    `json:"modelo"`
	Year      int       `json:"año"`
	Doors     int       `json:"numeroPuertas"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toVehicleResponse(v *scheduling.Vehicle) *VehicleResponse {
	return &VehicleResponse{
		ID:        v.ID,
		Make:      v.Make,
		Model:     v.Model,
		Year:      v.Year,
		Doors:     v.Doors,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}
