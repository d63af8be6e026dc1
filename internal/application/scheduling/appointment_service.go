package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/francisjavinico/backend-tintado/internal/domain/partner"
	"github.com/francisjavinico/backend-tintado/internal/domain/scheduling"
	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
)

// AppointmentService handles appointment booking and lifecycle
type AppointmentService struct {
	appointmentRepo scheduling.AppointmentRepository
	vehicleRepo     scheduling.VehicleRepository
	clientRepo      partner.ClientRepository
}

// NewAppointmentService creates a new AppointmentService
func NewAppointmentService(
	appointmentRepo scheduling.AppointmentRepository,
	vehicleRepo scheduling.VehicleRepository,
	clientRepo partner.ClientRepository,
) *AppointmentService {
	return &AppointmentService{
		appointmentRepo: appointmentRepo,
		vehicleRepo:     vehicleRepo,
		clientRepo:      clientRepo,
	}
}

// Create books an appointment after checking the vehicle exists, the
// client (when given) exists, and the slot is free
func (s *AppointmentService) Create(ctx context.Context, req CreateAppointmentRequest) (*AppointmentResponse, error) {
	appointment, err := scheduling.NewAppointment(req.ScheduledAt, req.Phone, req.VehicleID,
		toDomainServices(req.Services), req.Budget.toDomain(), req.Description, req.Plate, req.ClientID)
	if err != nil {
		return nil, err
	}

	vehicle, err := s.vehicleRepo.FindByID(ctx, appointment.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Vehículo no encontrado")
	}

	if appointment.ClientID != nil {
		client, err := s.clientRepo.FindByID(ctx, *appointment.ClientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, shared.NewDomainError("NOT_FOUND", "Cliente no encontrado")
		}
	}

	taken, err := s.appointmentRepo.FindByScheduledAt(ctx, appointment.ScheduledAt)
	if err != nil {
		return nil, err
	}
	if taken != nil {
		return nil, shared.NewDomainError("CONFLICT", "Ya existe una cita en esa fecha y hora")
	}

	if err := s.appointmentRepo.Save(ctx, appointment); err != nil {
		return nil, err
	}
	return toAppointmentResponse(appointment), nil
}

// GetByID returns one appointment
func (s *AppointmentService) GetByID(ctx context.Context, id uuid.UUID) (*AppointmentResponse, error) {
	appointment, err := s.findAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAppointmentResponse(appointment), nil
}

// List returns appointments matching the filters, paginated
func (s *AppointmentService) List(ctx context.Context, req ListAppointmentsRequest) (*shared.Paginated[AppointmentResponse], error) {
	filter := scheduling.AppointmentFilter{
		Filter:   shared.Filter{Page: req.Page, PageSize: req.PageSize},
		ClientID: req.ClientID,
		From:     req.From,
		To:       req.To,
	}
	if req.Status != "" {
		status := scheduling.AppointmentStatus(req.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Estado de cita no válido")
		}
		filter.Status = &status
	}

	appointments, total, err := s.appointmentRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]AppointmentResponse, len(appointments))
	for i := range appointments {
		items[i] = *toAppointmentResponse(&appointments[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.Limit())
	return &page, nil
}

// PendingToday returns the pending appointments scheduled for today, in
// chronological order. Feeds the front desk's morning board.
func (s *AppointmentService) PendingToday(ctx context.Context) ([]AppointmentResponse, error) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	appointments, err := s.appointmentRepo.FindPendingBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	items := make([]AppointmentResponse, len(appointments))
	for i := range appointments {
		items[i] = *toAppointmentResponse(&appointments[i])
	}
	return items, nil
}

// Update edits a pending appointment. Completed and cancelled
// appointments are frozen.
func (s *AppointmentService) Update(ctx context.Context, id uuid.UUID, req UpdateAppointmentRequest) (*AppointmentResponse, error) {
	appointment, err := s.findAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.Status != scheduling.AppointmentStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Solo se pueden modificar citas pendientes")
	}

	if req.ScheduledAt != nil {
		at := req.ScheduledAt.UTC()
		if at != appointment.ScheduledAt {
			taken, err := s.appointmentRepo.FindByScheduledAt(ctx, at)
			if err != nil {
				return nil, err
			}
			if taken != nil && taken.ID != appointment.ID {
				return nil, shared.NewDomainError("CONFLICT", "Ya existe una cita en esa fecha y hora")
			}
			appointment.ScheduledAt = at
		}
	}
	if req.Phone != nil {
		if !shared.IsValidSpanishMobile(*req.Phone) {
			return nil, shared.NewDomainError("INVALID_PHONE", "Teléfono móvil español no válido")
		}
		appointment.Phone = shared.NormalizeSpanishMobile(*req.Phone)
	}
	if req.VehicleID != nil {
		vehicle, err := s.vehicleRepo.FindByID(ctx, *req.VehicleID)
		if err != nil {
			return nil, err
		}
		if vehicle == nil {
			return nil, shared.NewDomainError("NOT_FOUND", "Vehículo no encontrado")
		}
		appointment.VehicleID = *req.VehicleID
	}
	if req.ClientID != nil {
		client, err := s.clientRepo.FindByID(ctx, *req.ClientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, shared.NewDomainError("NOT_FOUND", "Cliente no encontrado")
		}
		appointment.AssignClient(*req.ClientID)
	} else {
		appointment.ClientID = nil
	}
	if req.Services != nil {
		appointment.Services = toDomainServices(req.Services)
		for _, svc := range appointment.Services {
			if err := svc.Validate(); err != nil {
				return nil, err
			}
		}
	}
	if req.Budget != nil {
		appointment.Budget = req.Budget.toDomain()
	}
	// Services and budget move together, so revalidate the pair
	if err := appointment.Budget.Validate(appointment.Services); err != nil {
		return nil, err
	}
	if req.Description != nil {
		appointment.Description = req.Description
	}
	if req.Plate != nil {
		cleaned := scheduling.CleanPlate(*req.Plate)
		if !scheduling.IsValidPlate(cleaned) {
			return nil, shared.NewDomainError("INVALID_PLATE", "Matrícula no válida")
		}
		appointment.Plate = &cleaned
	}
	appointment.Touch()

	if err := s.appointmentRepo.Update(ctx, appointment); err != nil {
		return nil, err
	}
	return toAppointmentResponse(appointment), nil
}

// CheckIn registers the client's own data at the counter. The client
// record is upserted by phone number and linked to the appointment.
func (s *AppointmentService) CheckIn(ctx context.Context, id uuid.UUID, req CheckInRequest) (*AppointmentResponse, error) {
	appointment, err := s.findAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.Status != scheduling.AppointmentStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Solo se pueden registrar citas pendientes")
	}

	incoming, err := partner.NewClient(req.Name, req.Surname, req.Phone,
		req.Email, req.Address, req.DocumentIdentity, req.DataConsent, req.MarketingOptIn)
	if err != nil {
		return nil, err
	}

	// Email and tax ID must not belong to a client with another phone
	if incoming.Email != nil {
		other, err := s.clientRepo.FindByEmail(ctx, *incoming.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.Phone != incoming.Phone {
			return nil, shared.NewDomainError("CONFLICT", "El email ya está registrado para otro cliente")
		}
	}
	if incoming.DocumentIdentity != nil {
		other, err := s.clientRepo.FindByDocumentIdentity(ctx, *incoming.DocumentIdentity)
		if err != nil {
			return nil, err
		}
		if other != nil && other.Phone != incoming.Phone {
			return nil, shared.NewDomainError("CONFLICT", "El documento de identidad ya está registrado para otro cliente")
		}
	}

	client, err := s.clientRepo.FindByPhone(ctx, incoming.Phone)
	if err != nil {
		return nil, err
	}
	if client != nil {
		client.Name = incoming.Name
		client.Surname = incoming.Surname
		client.Email = incoming.Email
		client.Address = incoming.Address
		client.DocumentIdentity = incoming.DocumentIdentity
		client.DataConsent = incoming.DataConsent
		client.MarketingOptIn = incoming.MarketingOptIn
		client.Touch()
		if err := s.clientRepo.Update(ctx, client); err != nil {
			return nil, err
		}
	} else {
		client = incoming
		if err := s.clientRepo.Save(ctx, client); err != nil {
			return nil, err
		}
	}

	appointment.AssignClient(client.ID)
	if err := s.appointmentRepo.Update(ctx, appointment); err != nil {
		return nil, err
	}
	return toAppointmentResponse(appointment), nil
}

// Cancel marks a pending appointment as cancelled
func (s *AppointmentService) Cancel(ctx context.Context, id uuid.UUID) (*AppointmentResponse, error) {
	appointment, err := s.findAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := appointment.Cancel(); err != nil {
		return nil, err
	}
	if err := s.appointmentRepo.Update(ctx, appointment); err != nil {
		return nil, err
	}
	return toAppointmentResponse(appointment), nil
}

// Delete removes an appointment
func (s *AppointmentService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findAppointment(ctx, id); err != nil {
		return err
	}
	return s.appointmentRepo.Delete(ctx, id)
}

func (s *AppointmentService) findAppointment(ctx context.Context, id uuid.UUID) (*scheduling.Appointment, error) {
	appointment, err := s.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Cita no encontrada")
	}
	return appointment, nil
}
