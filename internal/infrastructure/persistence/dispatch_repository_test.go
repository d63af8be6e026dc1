package persistence

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
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/persistence/models"
)

func setupDispatchTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.DispatchJobModel{})
	require.NoError(t, err)

	return db
}

func TestDispatchRepository_FindDue(t *testing.T) {
	db := setupDispatchTestDB(t)
	repo := NewGormDispatchRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	fresh := shared.NewDispatchJob(shared.DispatchKindAppointmentDocs, uuid.New(), nil)

	retryPast := shared.NewDispatchJob(shared.DispatchKindInvoiceEmail, uuid.New(), nil)
	retryPast.MarkFailed("smtp timeout")

	retryFuture := shared.NewDispatchJob(shared.DispatchKindReceiptEmail, uuid.New(), nil)
	future := now.Add(time.Hour)
	retryFuture.NextRetryAt = &future

	sent := shared.NewDispatchJob(shared.DispatchKindInvoiceEmail, uuid.New(), nil)
	sent.MarkSent()

	require.NoError(t, repo.Save(ctx, fresh, retryPast, retryFuture, sent))

	t.Run("returns pending jobs whose retry time passed", func(t *testing.T) {
		due, err := repo.FindDue(ctx, now.Add(time.Minute), 10)
		require.NoError(t, err)
		require.Len(t, due, 2)
		ids := []uuid.UUID{due[0].ID, due[1].ID}
		assert.Contains(t, ids, fresh.ID)
		assert.Contains(t, ids, retryPast.ID)
	})

	t.Run("honors the batch limit", func(t *testing.T) {
		due, err := repo.FindDue(ctx, now.Add(time.Minute), 1)
		require.NoError(t, err)
		assert.Len(t, due, 1)
	})
}

func TestDispatchRepository_Lifecycle(t *testing.T) {
	db := setupDispatchTestDB(t)
	repo := NewGormDispatchRepository(db)
	ctx := context.Background()

	job := shared.NewDispatchJob(shared.DispatchKindAppointmentDocs, uuid.New(), []byte(`{"citaId":"x"}`))
	require.NoError(t, repo.Save(ctx, job))

	require.NoError(t, job.MarkProcessing())
	require.NoError(t, repo.Update(ctx, job))

	job.MarkSent()
	require.NoError(t, repo.Update(ctx, job))

	found, err := repo.FindByID(ctx, job.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, shared.DispatchStatusSent, found.Status)
	assert.NotNil(t, found.ProcessedAt)
}

func TestDispatchRepository_DeleteOlderThan(t *testing.T) {
	db := setupDispatchTestDB(t)
	repo := NewGormDispatchRepository(db)
	ctx := context.Background()

	old := shared.NewDispatchJob(shared.DispatchKindInvoiceEmail, uuid.New(), nil)
	old.MarkSent()
	require.NoError(t, repo.Save(ctx, old))

	pending := shared.NewDispatchJob(shared.DispatchKindReceiptEmail, uuid.New(), nil)
	require.NoError(t, repo.Save(ctx, pending))

	removed, err := repo.DeleteOlderThan(ctx, time.Now().UTC().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	// Pending jobs survive the cleanup regardless of age.
	still, err := repo.FindByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.NotNil(t, still)
}

func TestDispatchRepository_CountByStatus(t *testing.T) {
	db := setupDispatchTestDB(t)
	repo := NewGormDispatchRepository(db)
	ctx := context.Background()

	a := shared.NewDispatchJob(shared.DispatchKindAppointmentDocs, uuid.New(), nil)
	b := shared.NewDispatchJob(shared.DispatchKindInvoiceEmail, uuid.New(), nil)
	b.MarkSkipped("cliente sin email")
	require.NoError(t, repo.Save(ctx, a, b))

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[shared.DispatchStatusPending])
	assert.Equal(t, int64(1), counts[shared.DispatchStatusSkipped])
}
