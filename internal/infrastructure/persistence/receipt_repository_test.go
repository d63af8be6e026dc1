package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/francisjavinico/backend-tintado/internal/domain/billing"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/persistence/models"
)

func setupReceiptTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.ReceiptModel{}, &models.ReceiptItemModel{})
	require.NoError(t, err)

	return db
}

func mustReceipt(t *testing.T, seq int64, amount float64) *billing.Receipt {
	t.Helper()
	rec, err := billing.NewReceipt(2026, seq, uuid.New(), uuid.New(), "Tintado de lunas", []billing.LineItem{
		{Description: "Tintado de lunas", Quantity: 1, UnitPrice: decimal.NewFromFloat(amount)},
	})
	require.NoError(t, err)
	return rec
}

func TestReceiptRepository_SaveAndFind(t *testing.T) {
	db := setupReceiptTestDB(t)
	repo := NewGormReceiptRepository(db)
	ctx := context.Background()

	t.Run("round-trips a receipt with its items", func(t *testing.T) {
		rec := mustReceipt(t, 1, 100)
		require.NoError(t, repo.Save(ctx, rec))

		found, err := repo.FindByID(ctx, rec.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "2026-0001", found.Number())
		assert.Equal(t, billing.ReceiptStatusActive, found.Status)
		assert.True(t, found.Amount.Equal(decimal.NewFromInt(100)))
		require.Len(t, found.Items, 1)
	})

	t.Run("finds the receipt of an appointment", func(t *testing.T) {
		rec := mustReceipt(t, 2, 45)
		require.NoError(t, repo.Save(ctx, rec))

		found, err := repo.FindByAppointmentID(ctx, rec.AppointmentID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, rec.ID, found.ID)

		missing, err := repo.FindByAppointmentID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("rejects a second receipt for the same appointment", func(t *testing.T) {
		first := mustReceipt(t, 3, 30)
		require.NoError(t, repo.Save(ctx, first))

		dup, err := billing.NewReceipt(2026, 4, uuid.New(), first.AppointmentID, "Lavado", []billing.LineItem{
			{Description: "Lavado", Quantity: 1, UnitPrice: decimal.NewFromInt(30)},
		})
		require.NoError(t, err)
		require.Error(t, repo.Save(ctx, dup))
	})
}

func TestReceiptRepository_Balance(t *testing.T) {
	db := setupReceiptTestDB(t)
	repo := NewGormReceiptRepository(db)
	ctx := context.Background()

	amounts := []float64{30, 100}
	for i, amount := range amounts {
		require.NoError(t, repo.Save(ctx, mustReceipt(t, int64(i+1), amount)))
	}

	balance, err := repo.Balance(ctx, billing.DocumentFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), balance.Count)
	assert.True(t, balance.SumTotal.Equal(decimal.NewFromInt(130)), "sum %s", balance.SumTotal)

	// A receipt amount carries the tax inside, so the balance backs the
	// tax portion out of the sum.
	subtotal, vat := billing.SplitVAT(decimal.NewFromInt(130))
	assert.True(t, balance.SumSubtotal.Equal(subtotal), "subtotal %s", balance.SumSubtotal)
	assert.True(t, balance.SumVAT.Equal(vat), "vat %s", balance.SumVAT)

	t.Run("the end date bound covers that whole day", func(t *testing.T) {
		now := time.Now().UTC()
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		balance, err := repo.Balance(ctx, billing.DocumentFilter{From: &day, To: &day})
		require.NoError(t, err)
		assert.Equal(t, int64(2), balance.Count)
	})
}

func TestReceiptRepository_UpdateStatus(t *testing.T) {
	db := setupReceiptTestDB(t)
	repo := NewGormReceiptRepository(db)
	ctx := context.Background()

	rec := mustReceipt(t, 1, 80)
	require.NoError(t, repo.Save(ctx, rec))

	require.NoError(t, rec.MarkConverted())
	require.NoError(t, repo.Update(ctx, rec))

	found, err := repo.FindByID(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, billing.ReceiptStatusConverted, found.Status)
}
