package warranty

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/persistence"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/persistence/models"
)

func setupWarrantyService(t *testing.T) *WarrantyService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.WarrantyModel{}))
	return NewWarrantyService(persistence.NewGormWarrantyRepository(db))
}

func TestWarrantyService_Create(t *testing.T) {
	ctx := context.Background()
	service := setupWarrantyService(t)
	appointmentID := uuid.New()

	resp, err := service.Create(ctx, CreateWarrantyRequest{
		Description:   "Lámina cerámica",
		ClientID:      uuid.New(),
		AppointmentID: appointmentID,
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().AddDate(0, 12, 0), resp.EndDate, time.Minute)

	t.Run("one warranty per appointment", func(t *testing.T) {
		_, err := service.Create(ctx, CreateWarrantyRequest{
			Description:   "Otra lámina",
			ClientID:      uuid.New(),
			AppointmentID: appointmentID,
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})
}

func TestWarrantyService_Update(t *testing.T) {
	ctx := context.Background()
	service := setupWarrantyService(t)

	created, err := service.Create(ctx, CreateWarrantyRequest{
		Description:   "Lámina cerámica",
		ClientID:      uuid.New(),
		AppointmentID: uuid.New(),
	})
	require.NoError(t, err)

	t.Run("corrects the description and the coverage window", func(t *testing.T) {
		start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		resp, err := service.Update(ctx, created.ID, UpdateWarrantyRequest{
			Description: "Llumar ATC 05",
			StartDate:   start,
			EndDate:     start.AddDate(2, 0, 0),
		})
		require.NoError(t, err)
		assert.Equal(t, "Llumar ATC 05", resp.Description)
		assert.Equal(t, start, resp.StartDate)
		assert.Equal(t, created.ClientID, resp.ClientID)
	})

	t.Run("unknown warranty is not found", func(t *testing.T) {
		start := time.Now().UTC()
		_, err := service.Update(ctx, uuid.New(), UpdateWarrantyRequest{
			Description: "Llumar ATC 05",
			StartDate:   start,
			EndDate:     start.AddDate(1, 0, 0),
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})
}
