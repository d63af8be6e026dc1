package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/francisjavinico/backend-tintado/internal/domain/finance"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/persistence/models"
)

func setupReportTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.TransactionModel{})
	require.NoError(t, err)

	return db
}

func seedLedger(t *testing.T, repo *GormTransactionRepository, ctx context.Context) {
	t.Helper()
	entries := []struct {
		txType finance.TransactionType
		amount float64
		date   time.Time
	}{
		{finance.TransactionTypeIncome, 100, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)},
		{finance.TransactionTypeIncome, 50, time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)},
		{finance.TransactionTypeExpense, 20, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)},
		{finance.TransactionTypeIncome, 80, time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)},
		{finance.TransactionTypeExpense, 700, time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)},
	}
	for _, e := range entries {
		tx := mustManualTx(t, e.txType, "servicios", e.amount, e.date)
		require.NoError(t, repo.Save(ctx, tx))
	}
}

func TestReportRepository_Summary(t *testing.T) {
	db := setupReportTestDB(t)
	txRepo := NewGormTransactionRepository(db)
	repo := NewGormReportRepository(db)
	ctx := context.Background()

	seedLedger(t, txRepo, ctx)

	t.Run("groups by day", func(t *testing.T) {
		rows, err := repo.Summary(ctx, finance.SummaryQuery{Granularity: finance.GranularityDay})
		require.NoError(t, err)
		require.Len(t, rows, 3)

		assert.Equal(t, "2026-03-02", rows[0].Period)
		assert.True(t, rows[0].Income.Equal(decimal.NewFromInt(150)), "income %s", rows[0].Income)
		assert.True(t, rows[0].Expenses.Equal(decimal.NewFromInt(20)), "expenses %s", rows[0].Expenses)

		assert.Equal(t, "2026-03-15", rows[1].Period)
		assert.True(t, rows[1].Income.Equal(decimal.NewFromInt(80)))
		assert.True(t, rows[1].Expenses.IsZero())
	})

	t.Run("groups by month", func(t *testing.T) {
		rows, err := repo.Summary(ctx, finance.SummaryQuery{Granularity: finance.GranularityMonth})
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, "2026-03", rows[0].Period)
		assert.True(t, rows[0].Income.Equal(decimal.NewFromInt(230)))
		assert.True(t, rows[0].Expenses.Equal(decimal.NewFromInt(20)))

		assert.Equal(t, "2026-04", rows[1].Period)
		assert.True(t, rows[1].Income.IsZero())
		assert.True(t, rows[1].Expenses.Equal(decimal.NewFromInt(700)))
	})

	t.Run("honors the date window", func(t *testing.T) {
		from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		rows, err := repo.Summary(ctx, finance.SummaryQuery{
			Granularity: finance.GranularityMonth,
			From:        &from,
		})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "2026-04", rows[0].Period)
	})

	t.Run("rejects an unknown granularity", func(t *testing.T) {
		_, err := repo.Summary(ctx, finance.SummaryQuery{Granularity: finance.Granularity("trimestre")})
		require.Error(t, err)
	})
}

func TestReportRepository_DailyIncome(t *testing.T) {
	db := setupReportTestDB(t)
	txRepo := NewGormTransactionRepository(db)
	repo := NewGormReportRepository(db)
	ctx := context.Background()

	seedLedger(t, txRepo, ctx)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	points, err := repo.DailyIncome(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, "2026-03-02", points[0].Period)
	assert.True(t, points[0].Income.Equal(decimal.NewFromInt(150)), "income %s", points[0].Income)
	assert.Equal(t, "2026-03-15", points[1].Period)
	assert.True(t, points[1].Income.Equal(decimal.NewFromInt(80)))
}
