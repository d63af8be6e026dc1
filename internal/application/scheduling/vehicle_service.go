package scheduling

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/francisjavinico/backend-tintado/internal/domain/scheduling"
	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
)

// VehicleService handles the vehicle catalog
type VehicleService struct {
	vehicleRepo scheduling.VehicleRepository
}

// NewVehicleService creates a new VehicleService
func NewVehicleService(vehicleRepo scheduling.VehicleRepository) *VehicleService {
	return &VehicleService{vehicleRepo: vehicleRepo}
}

// Create registers a vehicle entry. Registering an already known
// make/model/year/doors tuple returns the existing entry instead of
// duplicating it.
func (s *VehicleService) Create(ctx context.Context, req CreateVehicleRequest) (*VehicleResponse, error) {
	vehicle, err := scheduling.NewVehicle(req.Make, req.Model, req.Year, req.Doors)
	if err != nil {
		return nil, err
	}

	existing, err := s.vehicleRepo.FindByTuple(ctx, vehicle.Make, vehicle.Model, vehicle.Year, vehicle.Doors)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return toVehicleResponse(existing), nil
	}

	if err := s.vehicleRepo.Save(ctx, vehicle); err != nil {
		return nil, err
	}
	return toVehicleResponse(vehicle), nil
}

// GetByID returns one vehicle
func (s *VehicleService) GetByID(ctx context.Context, id uuid.UUID) (*VehicleResponse, error) {
	vehicle, err := s.vehicleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Vehículo no encontrado")
	}
	return toVehicleResponse(vehicle), nil
}

// Search returns vehicles matching the search text, paginated
func (s *VehicleService) Search(ctx context.Context, req ListVehiclesRequest) (*shared.Paginated[VehicleResponse], error) {
	filter := scheduling.VehicleFilter{
		Filter: shared.Filter{Page: req.Page, PageSize: req.PageSize},
		Search: strings.TrimSpace(req.Search),
	}

	vehicles, total, err := s.vehicleRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]VehicleResponse, len(vehicles))
	for i := range vehicles {
		items[i] = *toVehicleResponse(&vehicles[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.Limit())
	return &page, nil
}

// BudgetStats returns the average tinting quotes for one vehicle, built
// from its completed appointments. The front desk uses it to price a new
// quote for a model the workshop has already handled.
func (s *VehicleService) BudgetStats(ctx context.Context, id uuid.UUID) (*scheduling.VehicleBudgetStats, error) {
	vehicle, err := s.vehicleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Vehículo no encontrado")
	}
	return s.vehicleRepo.BudgetStats(ctx, id)
}

// Update corrects a vehicle entry. The new tuple must not collide with
// another entry.
func (s *VehicleService) Update(ctx context.Context, id uuid.UUID, req UpdateVehicleRequest) (*VehicleResponse, error) {
	vehicle, err := s.vehicleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Vehículo no encontrado")
	}

	updated, err := scheduling.NewVehicle(req.Make, req.Model, req.Year, req.Doors)
	if err != nil {
		return nil, err
	}

	other, err := s.vehicleRepo.FindByTuple(ctx, updated.Make, updated.Model, updated.Year, updated.Doors)
	if err != nil {
		return nil, err
	}
	if other != nil && other.ID != id {
		return nil, shared.NewDomainError("CONFLICT", "Ya existe un vehículo con esas características")
	}

	vehicle.Make = updated.Make
	vehicle.Model = updated.Model
	vehicle.Year = updated.Year
	vehicle.Doors = updated.Doors
	vehicle.Touch()

	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, err
	}
	return toVehicleResponse(vehicle), nil
}

// Delete removes a vehicle entry
func (s *VehicleService) Delete(ctx context.Context, id uuid.UUID) error {
	vehicle, err := s.vehicleRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if vehicle == nil {
		return shared.NewDomainError("NOT_FOUND", "Vehículo no encontrado")
	}
	return s.vehicleRepo.Delete(ctx, id)
}
