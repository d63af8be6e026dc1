package finance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/francisjavinico/backend-tintado/internal/domain/finance"
	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/persistence"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/persistence/models"
)

func setupLedgerDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.TransactionModel{}, &models.ClientModel{},
		&models.AppointmentModel{}, &models.AppointmentServiceModel{},
		&models.VehicleModel{}, &models.InvoiceModel{}, &models.InvoiceItemModel{},
	))
	return db
}

func TestTransactionService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("records a manual expense", func(t *testing.T) {
		db := setupLedgerDB(t)
		invalidated := 0
		service := NewTransactionService(persistence.NewGormTransactionRepository(db),
			func(context.Context) { invalidated++ })

		number := "F-2026-117"
		resp, err := service.Create(ctx, CreateTransactionRequest{
			Type:                 "gasto",
			Category:             "material",
			Description:          "Rollo de lámina nanocerámica",
			Amount:               decimal.NewFromFloat(240.50),
			ExpenseInvoiceNumber: &number,
		})
		require.NoError(t, err)
		assert.Equal(t, "gasto", resp.Type)
		assert.Equal(t, "manual", resp.Origin)
		assert.Nil(t, resp.ReferenceID)
		require.NotNil(t, resp.ExpenseInvoiceNumber)
		assert.Equal(t, 1, invalidated)
	})

	t.Run("rejects an unknown type", func(t *testing.T) {
		db := setupLedgerDB(t)
		service := NewTransactionService(persistence.NewGormTransactionRepository(db), nil)

		_, err := service.Create(ctx, CreateTransactionRequest{
			Type:        "transferencia",
			Category:    "varios",
			Description: "x",
			Amount:      decimal.NewFromInt(10),
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TYPE", domainErr.Code)
	})
}

func TestTransactionService_List(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerDB(t)
	repo := persistence.NewGormTransactionRepository(db)
	service := NewTransactionService(repo, nil)

	for i := 0; i < 12; i++ {
		entry, err := finance.NewTransaction(finance.TransactionTypeIncome, "varios",
			"Ingreso de prueba", decimal.NewFromInt(int64(10+i)),
			time.Date(2026, 5, 1+i, 12, 0, 0, 0, time.UTC),
			finance.TransactionOriginManual, nil, nil)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, entry))
	}

	t.Run("no filters returns the latest entries only", func(t *testing.T) {
		page, err := service.List(ctx, ListTransactionsRequest{})
		require.NoError(t, err)
		assert.Len(t, page.Items, 10)
		// Newest date first
		assert.True(t, page.Items[0].Date.After(page.Items[9].Date))
	})

	t.Run("date filters page through everything", func(t *testing.T) {
		from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
		page, err := service.List(ctx, ListTransactionsRequest{From: &from, PageSize: 50})
		require.NoError(t, err)
		assert.Equal(t, int64(12), page.Total)
		assert.Len(t, page.Items, 12)
	})
}

func TestTransactionService_Update(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerDB(t)
	repo := persistence.NewGormTransactionRepository(db)
	service := NewTransactionService(repo, nil)

	t.Run("document entries cannot be edited", func(t *testing.T) {
		refID := uuid.New()
		entry, err := finance.NewTransaction(finance.TransactionTypeIncome, finance.CategoryBilling,
			"Ingreso automático por factura", decimal.NewFromInt(100), time.Now().UTC(),
			finance.TransactionOriginInvoice, &refID, nil)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, entry))

		amount := decimal.NewFromInt(1)
		_, err = service.Update(ctx, entry.ID, UpdateTransactionRequest{Amount: &amount})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("manual entries are editable", func(t *testing.T) {
		entry, err := finance.NewTransaction(finance.TransactionTypeExpense, "alquiler",
			"Alquiler del local", decimal.NewFromInt(900), time.Now().UTC(),
			finance.TransactionOriginManual, nil, nil)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, entry))

		amount := decimal.NewFromInt(950)
		resp, err := service.Update(ctx, entry.ID, UpdateTransactionRequest{Amount: &amount})
		require.NoError(t, err)
		assert.True(t, resp.Amount.Equal(amount))
	})
}

func TestReportService_Dashboard(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerDB(t)
	ledgerRepo := persistence.NewGormTransactionRepository(db)
	service := NewReportService(
		persistence.NewGormReportRepository(db),
		ledgerRepo,
		persistence.NewGormAppointmentRepository(db),
		persistence.NewGormClientRepository(db),
		persistence.NewGormInvoiceRepository(db),
		nil,
		zap.NewNop(),
	)

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	seed := func(txType finance.TransactionType, amount int64, at time.Time) {
		entry, err := finance.NewTransaction(txType, "varios", "Apunte de prueba",
			decimal.NewFromInt(amount), at, finance.TransactionOriginManual, nil, nil)
		require.NoError(t, err)
		require.NoError(t, ledgerRepo.Save(ctx, entry))
	}
	seed(finance.TransactionTypeIncome, 300, monthStart.Add(time.Hour))
	seed(finance.TransactionTypeExpense, 120, monthStart.Add(2*time.Hour))
	seed(finance.TransactionTypeIncome, 150, monthStart.AddDate(0, -1, 0).Add(time.Hour))

	summary, err := service.Dashboard(ctx)
	require.NoError(t, err)
	assert.True(t, summary.Month.Income.Equal(decimal.NewFromInt(300)), "income %s", summary.Month.Income)
	assert.True(t, summary.Month.Expenses.Equal(decimal.NewFromInt(120)), "expenses %s", summary.Month.Expenses)
	assert.True(t, summary.PreviousMonth.Income.Equal(decimal.NewFromInt(150)))
	assert.True(t, summary.IncomeTrendPct.Equal(decimal.NewFromInt(100)), "trend %s", summary.IncomeTrendPct)
	// No expenses last month, so any spend this month reads as +100%
	assert.True(t, summary.ExpenseTrendPct.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, int64(0), summary.PendingAppointments)
}
