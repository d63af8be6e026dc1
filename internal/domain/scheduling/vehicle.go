package scheduling

import (
	"context"
	"strings"
	"time"

	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vehicle represents a make/model/year/doors combination the workshop has
// seen. Vehicles are catalog entries shared across appointments, not
// per-client records.
type Vehicle struct {
	shared.BaseEntity
	Make  string `json:"marca"`
	Model string `json:"modelo"`
	Year  int    `json:"año"`
	Doors int    `json:"numeroPuertas"`
}

// NewVehicle creates a vehicle entry. Make and model are stored uppercase
// so the unique tuple is case-insensitive.
func NewVehicle(make, model string, year, doors int) (*Vehicle, error) {
	make = strings.ToUpper(strings.TrimSpace(make))
	model = strings.ToUpper(strings.TrimSpace(model))
	if make == "" {
		return nil, shared.NewDomainError("INVALID_MAKE", "La marca es obligatoria")
	}
	if model == "" {
		return nil, shared.NewDomainError("INVALID_MODEL", "El modelo es obligatorio")
	}
	if year < 1950 || year > time.Now().Year()+1 {
		return nil, shared.NewDomainError("INVALID_YEAR", "Año fuera de rango")
	}
	if doors < 2 || doors > 6 {
		return nil, shared.NewDomainError("INVALID_DOORS", "Número de puertas fuera de rango")
	}
	return &Vehicle{
		BaseEntity: shared.NewBaseEntity(),
		Make:       make,
		Model:      model,
		Year:       year,
		Doors:      doors,
	}, nil
}

// VehicleFilter narrows vehicle searches
type VehicleFilter struct {
	shared.Filter
	Search string
}

// VehicleBudgetStats aggregates the tinting budgets quoted for completed
// appointments of one vehicle
type VehicleBudgetStats struct {
	Completed  int64            `json:"citasCompletadas"`
	AvgBasic   *decimal.Decimal `json:"mediaBasico"`
	AvgMid     *decimal.Decimal `json:"mediaMedio"`
	AvgPremium *decimal.Decimal `json:"mediaPremium"`
}

// VehicleRepository defines persistence for vehicles
type VehicleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Vehicle, error)
	FindByTuple(ctx context.Context, make, model string, year, doors int) (*Vehicle, error)
	Search(ctx context.Context, filter VehicleFilter) ([]Vehicle, int64, error)
	BudgetStats(ctx context.Context, id uuid.UUID) (*VehicleBudgetStats, error)
	Save(ctx context.Context, vehicle *Vehicle) error
	Update(ctx context.Context, vehicle *Vehicle) error
	Delete(ctx context.Context, id uuid.UUID) error
}
