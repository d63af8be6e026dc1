package warranty

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
	"github.com/francisjavinico/backend-tintado/internal/domain/warranty"
)

// CreateWarrantyRequest represents a request to issue a warranty by hand
type CreateWarrantyRequest struct {
	Description   string     `json:"descripcion" binding:"required,min=1,max=300"`
	ClientID      uuid.UUID  `json:"clienteId" binding:"required"`
	AppointmentID uuid.UUID  `json:"citaId" binding:"required"`
	StartDate     *time.Time `json:"fechaInicio"`
	EndDate       *time.Time `json:"fechaFin"`
}

// UpdateWarrantyRequest represents a request to correct a warranty's
// description or coverage window
type UpdateWarrantyRequest struct {
	Description string    `json:"descripcion" binding:"required,min=1,max=300"`
	StartDate   time.Time `json:"fechaInicio" binding:"required"`
	EndDate     time.Time `json:"fechaFin" binding:"required"`
}

// ListWarrantiesRequest represents the warranty listing filters
type ListWarrantiesRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"pageSize"`
}

// WarrantyResponse represents a warranty in API responses
type WarrantyResponse struct {
	ID            uuid.UUID `json:"id"`
	Description   string    `json:"descripcion"`
	StartDate     time.Time `json:"fechaInicio"`
	EndDate       time.Time `json:"fechaFin"`
	Active        bool      `json:"activa"`
	ClientID      uuid.UUID `json:"clienteId"`
	AppointmentID uuid.UUID `json:"citaId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toWarrantyResponse(w *warranty.Warranty) *WarrantyResponse {
	return &WarrantyResponse{
		ID:            w.ID,
		Description:   w.Description,
		StartDate:     w.StartDate,
		EndDate:       w.EndDate,
		Active:        w.IsActive(time.Now().UTC()),
		ClientID:      w.ClientID,
		AppointmentID: w.AppointmentID,
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}
}

// WarrantyService handles warranty querying and manual issuing. The
// usual path creates warranties automatically when a tinting appointment
// is finalized; this surface covers corrections and lookups.
type WarrantyService struct {
	warrantyRepo warranty.Repository
}

// NewWarrantyService creates a new WarrantyService
func NewWarrantyService(warrantyRepo warranty.Repository) *WarrantyService {
	return &WarrantyService{warrantyRepo: warrantyRepo}
}

// Create issues a warranty by hand. Without explicit dates it covers the
// standard term starting now.
func (s *WarrantyService) Create(ctx context.Context, req CreateWarrantyRequest) (*WarrantyResponse, error) {
	existing, err := s.warrantyRepo.FindByAppointmentID(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "La cita ya tiene una garantía")
	}

	var w *warranty.Warranty
	if req.StartDate != nil || req.EndDate != nil {
		if req.StartDate == nil || req.EndDate == nil {
			return nil, shared.NewDomainError("INVALID_DATES", "Las fechas de la garantía son obligatorias")
		}
		w, err = warranty.NewWarranty(req.Description, *req.StartDate, *req.EndDate, req.ClientID, req.AppointmentID)
	} else {
		w, err = warranty.NewStandardWarranty(req.Description, req.ClientID, req.AppointmentID)
	}
	if err != nil {
		return nil, err
	}

	if err := s.warrantyRepo.Save(ctx, w); err != nil {
		return nil, err
	}
	return toWarrantyResponse(w), nil
}

// GetByID returns one warranty
func (s *WarrantyService) GetByID(ctx context.Context, id uuid.UUID) (*WarrantyResponse, error) {
	w, err := s.findWarranty(ctx, id)
	if err != nil {
		return nil, err
	}
	return toWarrantyResponse(w), nil
}

// GetByAppointment returns the warranty covering one appointment
func (s *WarrantyService) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*WarrantyResponse, error) {
	w, err := s.warrantyRepo.FindByAppointmentID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Garantía no encontrada")
	}
	return toWarrantyResponse(w), nil
}

// ListByClient returns a client's warranties, newest first
func (s *WarrantyService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]WarrantyResponse, error) {
	warranties, err := s.warrantyRepo.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	items := make([]WarrantyResponse, len(warranties))
	for i := range warranties {
		items[i] = *toWarrantyResponse(&warranties[i])
	}
	return items, nil
}

// List returns warranties, paginated
func (s *WarrantyService) List(ctx context.Context, req ListWarrantiesRequest) (*shared.Paginated[WarrantyResponse], error) {
	filter := shared.Filter{Page: req.Page, PageSize: req.PageSize}
	warranties, total, err := s.warrantyRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]WarrantyResponse, len(warranties))
	for i := range warranties {
		items[i] = *toWarrantyResponse(&warranties[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.Limit())
	return &page, nil
}

// Update corrects a warranty's description or coverage window
func (s *WarrantyService) Update(ctx context.Context, id uuid.UUID, req UpdateWarrantyRequest) (*WarrantyResponse, error) {
	w, err := s.findWarranty(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := w.Amend(req.Description, req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	if err := s.warrantyRepo.Update(ctx, w); err != nil {
		return nil, err
	}
	return toWarrantyResponse(w), nil
}

// Delete removes a warranty
func (s *WarrantyService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findWarranty(ctx, id); err != nil {
		return err
	}
	return s.warrantyRepo.Delete(ctx, id)
}

func (s *WarrantyService) findWarranty(ctx context.Context, id uuid.UUID) (*warranty.Warranty, error) {
	w, err := s.warrantyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Garantía no encontrada")
	}
	return w, nil
}
