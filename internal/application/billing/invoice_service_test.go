package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francisjavinico/backend-tintado/internal/domain/finance"
	"github.com/francisjavinico/backend-tintado/internal/domain/partner"
	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/persistence"
)

func newInvoiceServiceForTest(f *billingFixture) *InvoiceService {
	return NewInvoiceService(
		persistence.NewTxManager(&persistence.Database{DB: f.db}),
		f.invoiceRepo,
		f.clientRepo,
		f.appointmentRepo,
		f.ledgerRepo,
		persistence.NewGormSequenceAllocator(f.db),
		f.dispatchRepo,
	)
}

func TestInvoiceService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("manual invoice allocates a number and records the income", func(t *testing.T) {
		f := setupBillingFixture(t)
		service := newInvoiceServiceForTest(f)
		client, err := partner.NewClient("Luis", "Martín", "611222333", nil, nil, nil, true, false)
		require.NoError(t, err)
		require.NoError(t, f.clientRepo.Save(ctx, client))

		resp, err := service.Create(ctx, CreateInvoiceRequest{
			ClientID: client.ID,
			Items: []LineItemInput{
				{Description: "Tintado de lunas", Quantity: 1, UnitPrice: decimal.NewFromInt(100)},
				{Description: "Lavado", Quantity: 1, UnitPrice: decimal.NewFromInt(21)},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.SeqNumber)
		assert.Equal(t, "Luis Martín", resp.ClientName)
		assert.True(t, resp.Total.Equal(decimal.NewFromInt(121)), "total %s", resp.Total)
		assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(100)), "subtotal %s", resp.Subtotal)
		assert.True(t, resp.VAT.Equal(decimal.NewFromInt(21)), "vat %s", resp.VAT)

		entry, err := f.ledgerRepo.FindByReference(ctx, finance.TransactionOriginInvoice, resp.ID)
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.True(t, entry.Amount.Equal(resp.Total))
	})

	t.Run("derives the lines from the services when no items come in", func(t *testing.T) {
		f := setupBillingFixture(t)
		service := newInvoiceServiceForTest(f)
		client, appointment := f.seedClientAndAppointment(t)

		desc := "Retirada de lámina antigua"
		price := decimal.NewFromInt(150)
		extra := decimal.NewFromInt(25)
		resp, err := service.Create(ctx, CreateInvoiceRequest{
			ClientID:      client.ID,
			AppointmentID: &appointment.ID,
			Services: []BilledServiceInput{
				{Category: "tintado", Name: "Tintado completo", Price: &price},
				{Category: "otros", Name: "Otros", Description: &desc, Price: &extra},
			},
		})
		require.NoError(t, err)
		require.NotNil(t, resp.AppointmentID)
		assert.Equal(t, appointment.ID, *resp.AppointmentID)
		require.Len(t, resp.Items, 2)
		assert.Equal(t, "Tintado completo", resp.Items[0].Description)
		assert.Equal(t, desc, resp.Items[1].Description)
		assert.True(t, resp.Total.Equal(decimal.NewFromInt(175)), "total %s", resp.Total)
	})

	t.Run("unknown appointment is rejected", func(t *testing.T) {
		f := setupBillingFixture(t)
		service := newInvoiceServiceForTest(f)
		client, err := partner.NewClient("Luis", "Martín", "611222333", nil, nil, nil, true, false)
		require.NoError(t, err)
		require.NoError(t, f.clientRepo.Save(ctx, client))

		missing := uuid.New()
		_, err = service.Create(ctx, CreateInvoiceRequest{
			ClientID:      client.ID,
			AppointmentID: &missing,
			Items:         []LineItemInput{{Description: "Lavado", Quantity: 1, UnitPrice: decimal.NewFromInt(20)}},
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
		assert.Equal(t, "Cita no encontrada", domainErr.Message)
	})

	t.Run("rejects a request with neither items nor services", func(t *testing.T) {
		f := setupBillingFixture(t)
		service := newInvoiceServiceForTest(f)
		client, err := partner.NewClient("Luis", "Martín", "611222333", nil, nil, nil, true, false)
		require.NoError(t, err)
		require.NoError(t, f.clientRepo.Save(ctx, client))

		_, err = service.Create(ctx, CreateInvoiceRequest{ClientID: client.ID})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ITEMS_REQUIRED", domainErr.Code)
	})

	t.Run("unknown client is rejected", func(t *testing.T) {
		f := setupBillingFixture(t)
		service := newInvoiceServiceForTest(f)

		_, err := service.Create(ctx, CreateInvoiceRequest{
			ClientID: uuid.New(),
			Items:    []LineItemInput{{Description: "Lavado", Quantity: 1, UnitPrice: decimal.NewFromInt(20)}},
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})
}

func TestInvoiceService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("replacing the items moves the ledger entry with the total", func(t *testing.T) {
		f := setupBillingFixture(t)
		service := newInvoiceServiceForTest(f)
		client, err := partner.NewClient("Luis", "Martín", "611222333", nil, nil, nil, true, false)
		require.NoError(t, err)
		require.NoError(t, f.clientRepo.Save(ctx, client))

		created, err := service.Create(ctx, CreateInvoiceRequest{
			ClientID: client.ID,
			Items:    []LineItemInput{{Description: "Lavado", Quantity: 1, UnitPrice: decimal.NewFromInt(30)}},
		})
		require.NoError(t, err)

		updated, err := service.Update(ctx, created.ID, UpdateInvoiceRequest{
			Items: []LineItemInput{{Description: "Lavado y pulido", Quantity: 1, UnitPrice: decimal.NewFromInt(75)}},
		})
		require.NoError(t, err)
		assert.Equal(t, created.Number, updated.Number)
		assert.True(t, updated.Total.Equal(decimal.NewFromInt(75)), "total %s", updated.Total)

		entry, err := f.ledgerRepo.FindByReference(ctx, finance.TransactionOriginInvoice, created.ID)
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.True(t, entry.Amount.Equal(decimal.NewFromInt(75)), "amount %s", entry.Amount)
	})
}

func TestInvoiceService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleting an invoice leaves its ledger entry behind", func(t *testing.T) {
		f := setupBillingFixture(t)
		service := newInvoiceServiceForTest(f)
		client, err := partner.NewClient("Luis", "Martín", "611222333", nil, nil, nil, true, false)
		require.NoError(t, err)
		require.NoError(t, f.clientRepo.Save(ctx, client))

		created, err := service.Create(ctx, CreateInvoiceRequest{
			ClientID: client.ID,
			Items:    []LineItemInput{{Description: "Lavado", Quantity: 1, UnitPrice: decimal.NewFromInt(30)}},
		})
		require.NoError(t, err)

		require.NoError(t, service.Delete(ctx, created.ID))

		gone, err := f.invoiceRepo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, gone)

		entry, err := f.ledgerRepo.FindByReference(ctx, finance.TransactionOriginInvoice, created.ID)
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.True(t, entry.Amount.Equal(created.Total))
	})
}

func TestInvoiceService_ResendEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("queues an invoice email for the client", func(t *testing.T) {
		f := setupBillingFixture(t)
		service := newInvoiceServiceForTest(f)
		email := "luis@example.com"
		client, err := partner.NewClient("Luis", "Martín", "611222333", &email, nil, nil, true, false)
		require.NoError(t, err)
		require.NoError(t, f.clientRepo.Save(ctx, client))

		created, err := service.Create(ctx, CreateInvoiceRequest{
			ClientID: client.ID,
			Items:    []LineItemInput{{Description: "Lavado", Quantity: 1, UnitPrice: decimal.NewFromInt(30)}},
		})
		require.NoError(t, err)

		require.NoError(t, service.ResendEmail(ctx, created.ID))

		jobs, err := f.dispatchRepo.FindDue(ctx, time.Now().UTC(), 10)
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, shared.DispatchKindInvoiceEmail, jobs[0].Kind)
		assert.Equal(t, created.ID, jobs[0].ReferenceID)
	})

	t.Run("a client without email cannot be resent to", func(t *testing.T) {
		f := setupBillingFixture(t)
		service := newInvoiceServiceForTest(f)
		client, err := partner.NewClient("Luis", "Martín", "611222333", nil, nil, nil, true, false)
		require.NoError(t, err)
		require.NoError(t, f.clientRepo.Save(ctx, client))

		created, err := service.Create(ctx, CreateInvoiceRequest{
			ClientID: client.ID,
			Items:    []LineItemInput{{Description: "Lavado", Quantity: 1, UnitPrice: decimal.NewFromInt(30)}},
		})
		require.NoError(t, err)

		err = service.ResendEmail(ctx, created.ID)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CLIENT_EMAIL_REQUIRED", domainErr.Code)
	})
}
