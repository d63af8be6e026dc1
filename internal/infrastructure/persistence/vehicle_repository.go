package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/francisjavinico/backend-tintado/internal/domain/scheduling"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/persistence/models"
)

// GormVehicleRepository implements VehicleRepository using GORM
type GormVehicleRepository struct {
	db *gorm.DB
}

// NewGormVehicleRepository creates a new GormVehicleRepository
func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

// FindByID finds a vehicle by ID
func (r *GormVehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*scheduling.Vehicle, error) {
	var model models.VehicleModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByTuple finds a vehicle by its unique make/model/year/doors tuple
func (r *GormVehicleRepository) FindByTuple(ctx context.Context, make, model string, year, doors int) (*scheduling.Vehicle, error) {
	var m models.VehicleModel
	if err := dbFromContext(ctx, r.db).First(&m,
		"make = ? AND model = ? AND year = ? AND doors = ?",
		strings.ToUpper(make), strings.ToUpper(model), year, doors,
	).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// Search finds vehicles matching every word of the search text against
// make and model, with pagination
func (r *GormVehicleRepository) Search(ctx context.Context, filter scheduling.VehicleFilter) ([]scheduling.Vehicle, int64, error) {
	query := dbFromContext(ctx, r.db).Model(&models.VehicleModel{})

	for _, word := range strings.Fields(strings.ToUpper(filter.Search)) {
		pattern := "%" + word + "%"
		query = query.Where("make LIKE ? OR model LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var vehicleModels []models.VehicleModel
	if err := query.
		Order("make ASC, model ASC, year DESC").
		Limit(filter.Limit()).
		Offset(filter.Offset()).
		Find(&vehicleModels).Error; err != nil {
		return nil, 0, err
	}

	vehicles := make([]scheduling.Vehicle, len(vehicleModels))
	for i, m := range vehicleModels {
		vehicles[i] = *m.ToDomain()
	}
	return vehicles, total, nil
}

// BudgetStats aggregates completed-appointment budgets for one vehicle
func (r *GormVehicleRepository) BudgetStats(ctx context.Context, id uuid.UUID) (*scheduling.VehicleBudgetStats, error) {
	var row struct {
		Completed  int64
		AvgBasic   *decimal.Decimal
		AvgMid     *decimal.Decimal
		AvgPremium *decimal.Decimal
	}
	if err := dbFromContext(ctx, r.db).
		Model(&models.AppointmentModel{}).
		Select("COUNT(*) AS completed, AVG(budget_basic) AS avg_basic, AVG(budget_mid) AS avg_mid, AVG(budget_premium) AS avg_premium").
		Where("vehicle_id = ? AND status = ?", id, scheduling.AppointmentStatusCompleted).
		Scan(&row).Error; err != nil {
		return nil, err
	}
	return &scheduling.VehicleBudgetStats{
		Completed:  row.Completed,
		AvgBasic:   row.AvgBasic,
		AvgMid:     row.AvgMid,
		AvgPremium: row.AvgPremium,
	}, nil
}

// Save creates a vehicle
func (r *GormVehicleRepository) Save(ctx context.Context, vehicle *scheduling.Vehicle) error {
	model := &models.VehicleModel{}
	model.FromDomain(vehicle)
	return dbFromContext(ctx, r.db).Create(model).Error
}

// Update updates a vehicle
func (r *GormVehicleRepository) Update(ctx context.Context, vehicle *scheduling.Vehicle) error {
	model := &models.VehicleModel{}
	model.FromDomain(vehicle)
	return dbFromContext(ctx, r.db).Save(model).Error
}

// Delete deletes a vehicle
func (r *GormVehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFromContext(ctx, r.db).Delete(&models.VehicleModel{}, "id = ?", id).Error
}

// Ensure GormVehicleRepository implements the interface
var _ scheduling.VehicleRepository = (*GormVehicleRepository)(nil)
