package scheduling

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/francisjavinico/backend-tintado/internal/domain/scheduling"
	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
)

func TestVehicleService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("registers a new tuple", func(t *testing.T) {
		vehicleRepo := new(MockVehicleRepository)
		service := NewVehicleService(vehicleRepo)

		vehicleRepo.On("FindByTuple", ctx, "SEAT", "IBIZA", 2020, 5).Return(nil, nil)
		vehicleRepo.On("Save", ctx, mock.AnythingOfType("*scheduling.Vehicle")).Return(nil)

		resp, err := service.Create(ctx, CreateVehicleRequest{Make: "seat", Model: "ibiza", Year: 2020, Doors: 5})
		require.NoError(t, err)
		assert.Equal(t, "SEAT", resp.Make)
		assert.Equal(t, "IBIZA", resp.Model)
		vehicleRepo.AssertExpectations(t)
	})

	t.Run("returns the existing entry for a known tuple", func(t *testing.T) {
		vehicleRepo := new(MockVehicleRepository)
		service := NewVehicleService(vehicleRepo)
		existing := testVehicle(t)

		vehicleRepo.On("FindByTuple", ctx, "SEAT", "IBIZA", 2020, 5).Return(existing, nil)

		resp, err := service.Create(ctx, CreateVehicleRequest{Make: "Seat", Model: "Ibiza", Year: 2020, Doors: 5})
		require.NoError(t, err)
		assert.Equal(t, existing.ID, resp.ID)
		vehicleRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects an out-of-range year", func(t *testing.T) {
		service := NewVehicleService(new(MockVehicleRepository))

		_, err := service.Create(ctx, CreateVehicleRequest{Make: "Seat", Model: "Ibiza", Year: 1800, Doors: 5})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_YEAR", domainErr.Code)
	})
}

func TestVehicleService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("corrects the tuple", func(t *testing.T) {
		vehicleRepo := new(MockVehicleRepository)
		service := NewVehicleService(vehicleRepo)
		vehicle := testVehicle(t)

		vehicleRepo.On("FindByID", ctx, vehicle.ID).Return(vehicle, nil)
		vehicleRepo.On("FindByTuple", ctx, "SEAT", "LEON", 2021, 5).Return(nil, nil)
		vehicleRepo.On("Update", ctx, mock.AnythingOfType("*scheduling.Vehicle")).Return(nil)

		resp, err := service.Update(ctx, vehicle.ID, UpdateVehicleRequest{Make: "Seat", Model: "Leon", Year: 2021, Doors: 5})
		require.NoError(t, err)
		assert.Equal(t, "LEON", resp.Model)
		assert.Equal(t, 2021, resp.Year)
		vehicleRepo.AssertExpectations(t)
	})

	t.Run("rejects a tuple taken by another entry", func(t *testing.T) {
		vehicleRepo := new(MockVehicleRepository)
		service := NewVehicleService(vehicleRepo)
		vehicle := testVehicle(t)
		other := testVehicle(t)

		vehicleRepo.On("FindByID", ctx, vehicle.ID).Return(vehicle, nil)
		vehicleRepo.On("FindByTuple", ctx, "SEAT", "LEON", 2021, 5).Return(other, nil)

		_, err := service.Update(ctx, vehicle.ID, UpdateVehicleRequest{Make: "Seat", Model: "Leon", Year: 2021, Doors: 5})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONFLICT", domainErr.Code)
		vehicleRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestVehicleService_BudgetStats(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the aggregate for a known vehicle", func(t *testing.T) {
		vehicleRepo := new(MockVehicleRepository)
		service := NewVehicleService(vehicleRepo)
		vehicle := testVehicle(t)
		stats := &scheduling.VehicleBudgetStats{Completed: 3}

		vehicleRepo.On("FindByID", ctx, vehicle.ID).Return(vehicle, nil)
		vehicleRepo.On("BudgetStats", ctx, vehicle.ID).Return(stats, nil)

		got, err := service.BudgetStats(ctx, vehicle.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), got.Completed)
	})

	t.Run("unknown vehicle is not found", func(t *testing.T) {
		vehicleRepo := new(MockVehicleRepository)
		service := NewVehicleService(vehicleRepo)
		id := uuid.New()

		vehicleRepo.On("FindByID", ctx, id).Return(nil, nil)

		_, err := service.BudgetStats(ctx, id)
		require.Error(t, err)
		vehicleRepo.AssertNotCalled(t, "BudgetStats", mock.Anything, mock.Anything)
	})
}
