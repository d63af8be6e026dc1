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

func setupInvoiceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.InvoiceModel{}, &models.InvoiceItemModel{})
	require.NoError(t, err)

	return db
}

func mustInvoice(t *testing.T, seq int64, total float64) *billing.Invoice {
	t.Helper()
	inv, err := billing.NewInvoice(2026, seq, uuid.New(), "Cliente de Prueba", []billing.LineItem{
		{Description: "Tintado de lunas", Quantity: 1, UnitPrice: decimal.NewFromFloat(total)},
	})
	require.NoError(t, err)
	return inv
}

func TestInvoiceRepository_SaveAndFind(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	t.Run("round-trips an invoice with its items", func(t *testing.T) {
		inv, err := billing.NewInvoice(2026, 1, uuid.New(), "María López", []billing.LineItem{
			{Description: "Tintado de lunas", Quantity: 1, UnitPrice: decimal.NewFromInt(80)},
			{Description: "Lavado", Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
		})
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, inv))

		found, err := repo.FindByID(ctx, inv.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "2026-0001", found.Number())
		require.Len(t, found.Items, 2)
		assert.Equal(t, "Tintado de lunas", found.Items[0].Description)
		assert.True(t, found.Total.Equal(decimal.NewFromInt(100)), "total %s", found.Total)
		assert.True(t, found.VAT.Equal(decimal.NewFromFloat(17.36)), "vat %s", found.VAT)
		assert.True(t, found.Subtotal.Equal(decimal.NewFromFloat(82.64)), "subtotal %s", found.Subtotal)
	})

	t.Run("returns nil when the invoice does not exist", func(t *testing.T) {
		found, err := repo.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("rejects a duplicate year and number", func(t *testing.T) {
		dup := mustInvoice(t, 1, 50)
		err := repo.Save(ctx, dup)
		require.Error(t, err)
	})
}

func TestInvoiceRepository_FindAll(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	totals := []float64{30, 75, 120, 250}
	for i, total := range totals {
		require.NoError(t, repo.Save(ctx, mustInvoice(t, int64(i+1), total)))
	}

	t.Run("lists newest numbers first", func(t *testing.T) {
		invoices, total, err := repo.FindAll(ctx, billing.DocumentFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, invoices, 4)
		assert.Equal(t, int64(4), invoices[0].SeqNumber)
	})

	t.Run("filters by total bounds", func(t *testing.T) {
		minTotal := decimal.NewFromInt(50)
		maxTotal := decimal.NewFromInt(200)
		invoices, total, err := repo.FindAll(ctx, billing.DocumentFilter{
			MinTotal: &minTotal,
			MaxTotal: &maxTotal,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, invoices, 2)
	})

	t.Run("searches by client name", func(t *testing.T) {
		invoices, total, err := repo.FindAll(ctx, billing.DocumentFilter{Search: "prueba"})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, invoices, 4)
	})
}

func TestInvoiceRepository_Balance(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	totals := []float64{30, 75, 120, 250}
	for i, total := range totals {
		require.NoError(t, repo.Save(ctx, mustInvoice(t, int64(i+1), total)))
	}

	t.Run("aggregates only the invoices inside the bounds", func(t *testing.T) {
		minTotal := decimal.NewFromInt(50)
		maxTotal := decimal.NewFromInt(200)
		balance, err := repo.Balance(ctx, billing.DocumentFilter{
			MinTotal: &minTotal,
			MaxTotal: &maxTotal,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), balance.Count)
		assert.True(t, balance.SumTotal.Equal(decimal.NewFromInt(195)), "sum %s", balance.SumTotal)
	})

	t.Run("empty filter covers everything", func(t *testing.T) {
		balance, err := repo.Balance(ctx, billing.DocumentFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), balance.Count)
		assert.True(t, balance.SumTotal.Equal(decimal.NewFromInt(475)), "sum %s", balance.SumTotal)
	})

	t.Run("the end date bound covers that whole day", func(t *testing.T) {
		now := time.Now().UTC()
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		balance, err := repo.Balance(ctx, billing.DocumentFilter{From: &day, To: &day})
		require.NoError(t, err)
		assert.Equal(t, int64(4), balance.Count)
	})
}

func TestInvoiceRepository_Update(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	inv := mustInvoice(t, 1, 100)
	require.NoError(t, repo.Save(ctx, inv))

	require.NoError(t, inv.ReplaceItems([]billing.LineItem{
		{Description: "Pulido de faros", Quantity: 1, UnitPrice: decimal.NewFromInt(60)},
	}))
	require.NoError(t, repo.Update(ctx, inv))

	found, err := repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Pulido de faros", found.Items[0].Description)
	assert.True(t, found.Total.Equal(decimal.NewFromInt(60)))

	var itemCount int64
	require.NoError(t, db.Model(&models.InvoiceItemModel{}).Count(&itemCount).Error)
	assert.Equal(t, int64(1), itemCount, "replaced items must not linger")
}
