package billing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/francisjavinico/backend-tintado/internal/domain/billing"
	"github.com/francisjavinico/backend-tintado/internal/domain/finance"
	"github.com/francisjavinico/backend-tintado/internal/domain/partner"
	"github.com/francisjavinico/backend-tintado/internal/domain/scheduling"
	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/persistence"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/persistence/models"
)

type billingFixture struct {
	db      *gorm.DB
	service *ReceiptService

	clientRepo      partner.ClientRepository
	appointmentRepo scheduling.AppointmentRepository
	vehicleRepo     scheduling.VehicleRepository
	receiptRepo     billing.ReceiptRepository
	invoiceRepo     billing.InvoiceRepository
	ledgerRepo      finance.TransactionRepository
	dispatchRepo    shared.DispatchRepository
}

func setupBillingFixture(t *testing.T) *billingFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.ClientModel{}, &models.VehicleModel{},
		&models.AppointmentModel{}, &models.AppointmentServiceModel{},
		&models.InvoiceModel{}, &models.InvoiceItemModel{},
		&models.ReceiptModel{}, &models.ReceiptItemModel{},
		&models.DocumentSequenceModel{}, &models.TransactionModel{},
		&models.DispatchJobModel{},
	))

	f := &billingFixture{
		db:              db,
		clientRepo:      persistence.NewGormClientRepository(db),
		appointmentRepo: persistence.NewGormAppointmentRepository(db),
		vehicleRepo:     persistence.NewGormVehicleRepository(db),
		receiptRepo:     persistence.NewGormReceiptRepository(db),
		invoiceRepo:     persistence.NewGormInvoiceRepository(db),
		ledgerRepo:      persistence.NewGormTransactionRepository(db),
		dispatchRepo:    persistence.NewGormDispatchRepository(db),
	}
	f.service = NewReceiptService(
		persistence.NewTxManager(&persistence.Database{DB: db}),
		f.receiptRepo,
		f.invoiceRepo,
		f.clientRepo,
		f.appointmentRepo,
		f.ledgerRepo,
		persistence.NewGormSequenceAllocator(db),
		f.dispatchRepo,
		zap.NewNop(),
	)
	return f
}

// seedClientAndAppointment creates the client and the washed-car
// appointment the billing documents hang from
func (f *billingFixture) seedClientAndAppointment(t *testing.T) (*partner.Client, *scheduling.Appointment) {
	t.Helper()
	ctx := context.Background()

	address := "Calle Mayor 1, Valencia"
	taxID := "12345678Z"
	client, err := partner.NewClient("Ana", "García", "698765432", nil, &address, &taxID, true, false)
	require.NoError(t, err)
	require.NoError(t, f.clientRepo.Save(ctx, client))

	vehicle, err := scheduling.NewVehicle("Audi", "A3", 2022, 5)
	require.NoError(t, err)
	require.NoError(t, f.vehicleRepo.Save(ctx, vehicle))

	plate := "1234ABC"
	maxBudget := decimal.NewFromInt(60)
	appointment, err := scheduling.NewAppointment(
		time.Now().UTC().Add(time.Hour), "698765432", vehicle.ID,
		[]scheduling.RequestedService{{Category: scheduling.ServiceCategoryWash, Name: "Lavado"}},
		scheduling.Budget{Max: &maxBudget}, nil, &plate, &client.ID)
	require.NoError(t, err)
	require.NoError(t, f.appointmentRepo.Save(ctx, appointment))

	return client, appointment
}

// seedReceipt creates the client, appointment and active receipt the
// conversion starts from, with its ledger entry in place
func (f *billingFixture) seedReceipt(t *testing.T) (*partner.Client, *billing.Receipt) {
	t.Helper()
	ctx := context.Background()

	client, appointment := f.seedClientAndAppointment(t)

	receipt, err := billing.NewReceipt(2026, 1, client.ID, appointment.ID,
		"Recibo generado automáticamente por servicio: Lavado",
		[]billing.LineItem{{Description: "Lavado", Quantity: 1, UnitPrice: decimal.NewFromInt(50)}})
	require.NoError(t, err)
	require.NoError(t, f.receiptRepo.Save(ctx, receipt))

	entry, err := finance.NewTransaction(
		finance.TransactionTypeIncome, finance.CategoryBilling,
		"Ingreso automático por recibo", receipt.Amount, time.Now().UTC(),
		finance.TransactionOriginReceipt, &receipt.ID, nil)
	require.NoError(t, err)
	require.NoError(t, f.ledgerRepo.Save(ctx, entry))

	return client, receipt
}

func TestReceiptService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("manual receipt allocates a number and records the income", func(t *testing.T) {
		f := setupBillingFixture(t)
		client, appointment := f.seedClientAndAppointment(t)

		resp, err := f.service.Create(ctx, CreateReceiptRequest{
			ClientID:      client.ID,
			AppointmentID: appointment.ID,
			Description:   "Lavado completo",
			Items: []LineItemInput{
				{Description: "Lavado", Quantity: 2, UnitPrice: decimal.NewFromInt(25)},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.SeqNumber)
		assert.True(t, resp.Amount.Equal(decimal.NewFromInt(50)), "amount %s", resp.Amount)

		entry, err := f.ledgerRepo.FindByReference(ctx, finance.TransactionOriginReceipt, resp.ID)
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.True(t, entry.Amount.Equal(resp.Amount))
	})

	t.Run("an appointment carries at most one receipt", func(t *testing.T) {
		f := setupBillingFixture(t)
		client, receipt := f.seedReceipt(t)

		_, err := f.service.Create(ctx, CreateReceiptRequest{
			ClientID:      client.ID,
			AppointmentID: receipt.AppointmentID,
			Description:   "Otro recibo",
			Items: []LineItemInput{
				{Description: "Lavado", Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
			},
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})
}

func TestReceiptService_Update(t *testing.T) {
	ctx := context.Background()
	f := setupBillingFixture(t)
	_, receipt := f.seedReceipt(t)

	resp, err := f.service.Update(ctx, receipt.ID, UpdateReceiptRequest{
		Items: []LineItemInput{
			{Description: "Lavado", Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
			{Description: "Pulido de faros", Quantity: 1, UnitPrice: decimal.NewFromInt(30)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, receipt.Number(), resp.Number)
	assert.True(t, resp.Amount.Equal(decimal.NewFromInt(80)), "amount %s", resp.Amount)

	entry, err := f.ledgerRepo.FindByReference(ctx, finance.TransactionOriginReceipt, receipt.ID)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.True(t, entry.Amount.Equal(resp.Amount))
}

func TestReceiptService_ResendEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("queues a receipt email for the client", func(t *testing.T) {
		f := setupBillingFixture(t)
		client, receipt := f.seedReceipt(t)

		email := "ana@example.com"
		client.Email = &email
		require.NoError(t, f.clientRepo.Update(ctx, client))

		require.NoError(t, f.service.ResendEmail(ctx, receipt.ID))

		jobs, err := f.dispatchRepo.FindDue(ctx, time.Now().UTC(), 10)
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, shared.DispatchKindReceiptEmail, jobs[0].Kind)
		assert.Equal(t, receipt.ID, jobs[0].ReferenceID)
	})

	t.Run("a client without email cannot be resent to", func(t *testing.T) {
		f := setupBillingFixture(t)
		_, receipt := f.seedReceipt(t)

		err := f.service.ResendEmail(ctx, receipt.ID)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CLIENT_EMAIL_REQUIRED", domainErr.Code)
	})
}

func TestReceiptService_ConvertToInvoice(t *testing.T) {
	ctx := context.Background()

	t.Run("conversion swaps the documents and the ledger entry", func(t *testing.T) {
		f := setupBillingFixture(t)
		client, receipt := f.seedReceipt(t)

		resp, err := f.service.ConvertToInvoice(ctx, receipt.ID)
		require.NoError(t, err)
		assert.Equal(t, client.ID, resp.ClientID)
		assert.Equal(t, "Ana García", resp.ClientName)
		require.NotNil(t, resp.ClientTaxID)
		assert.Equal(t, "12345678Z", *resp.ClientTaxID)
		require.NotNil(t, resp.Plate)
		assert.Equal(t, "1234ABC", *resp.Plate)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "Lavado", resp.Items[0].Description)
		assert.True(t, resp.Total.Equal(decimal.NewFromInt(50)), "total %s", resp.Total)

		converted, err := f.receiptRepo.FindByID(ctx, receipt.ID)
		require.NoError(t, err)
		assert.Equal(t, billing.ReceiptStatusConverted, converted.Status)

		gone, err := f.ledgerRepo.FindByReference(ctx, finance.TransactionOriginReceipt, receipt.ID)
		require.NoError(t, err)
		assert.Nil(t, gone)

		entry, err := f.ledgerRepo.FindByReference(ctx, finance.TransactionOriginInvoice, resp.ID)
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.True(t, entry.Amount.Equal(resp.Total))

		jobs, err := f.dispatchRepo.FindDue(ctx, time.Now().UTC(), 10)
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, shared.DispatchKindInvoiceEmail, jobs[0].Kind)
		assert.Equal(t, resp.ID, jobs[0].ReferenceID)
	})

	t.Run("a receipt converts at most once", func(t *testing.T) {
		f := setupBillingFixture(t)
		_, receipt := f.seedReceipt(t)

		_, err := f.service.ConvertToInvoice(ctx, receipt.ID)
		require.NoError(t, err)

		_, err = f.service.ConvertToInvoice(ctx, receipt.ID)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestReceiptService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleting a receipt leaves its ledger entry behind", func(t *testing.T) {
		f := setupBillingFixture(t)
		_, receipt := f.seedReceipt(t)

		require.NoError(t, f.service.Delete(ctx, receipt.ID))

		gone, err := f.receiptRepo.FindByID(ctx, receipt.ID)
		require.NoError(t, err)
		assert.Nil(t, gone)

		entry, err := f.ledgerRepo.FindByReference(ctx, finance.TransactionOriginReceipt, receipt.ID)
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.True(t, entry.Amount.Equal(receipt.Amount))
	})
}
