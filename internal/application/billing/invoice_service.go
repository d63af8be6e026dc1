package billing

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/francisjavinico/backend-tintado/internal/domain/billing"
	"github.com/francisjavinico/backend-tintado/internal/domain/finance"
	"github.com/francisjavinico/backend-tintado/internal/domain/partner"
	"github.com/francisjavinico/backend-tintado/internal/domain/scheduling"
	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
)

// InvoiceService handles invoice issuing and querying
type InvoiceService struct {
	txManager       shared.TransactionManager
	invoiceRepo     billing.InvoiceRepository
	clientRepo      partner.ClientRepository
	appointmentRepo scheduling.AppointmentRepository
	ledgerRepo      finance.TransactionRepository
	allocator       billing.SequenceAllocator
	dispatchRepo    shared.DispatchRepository
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	txManager shared.TransactionManager,
	invoiceRepo billing.InvoiceRepository,
	clientRepo partner.ClientRepository,
	appointmentRepo scheduling.AppointmentRepository,
	ledgerRepo finance.TransactionRepository,
	allocator billing.SequenceAllocator,
	dispatchRepo shared.DispatchRepository,
) *InvoiceService {
	return &InvoiceService{
		txManager:       txManager,
		invoiceRepo:     invoiceRepo,
		clientRepo:      clientRepo,
		appointmentRepo: appointmentRepo,
		ledgerRepo:      ledgerRepo,
		allocator:       allocator,
		dispatchRepo:    dispatchRepo,
	}
}

// Create issues an invoice by hand, outside the appointment flow. The
// number allocation, the invoice and its ledger entry commit together.
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Cliente no encontrado")
	}

	if req.AppointmentID != nil {
		appointment, err := s.appointmentRepo.FindByID(ctx, *req.AppointmentID)
		if err != nil {
			return nil, err
		}
		if appointment == nil {
			return nil, shared.NewDomainError("NOT_FOUND", "Cita no encontrada")
		}
	}

	items := toDomainItems(req.Items)
	if len(items) == 0 && len(req.Services) > 0 {
		services := toBilledServices(req.Services)
		for _, svc := range services {
			if err := svc.Validate(); err != nil {
				return nil, err
			}
		}
		items = serviceItems(services)
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("ITEMS_REQUIRED", "Se requiere al menos una línea")
	}

	var plate *string
	if req.Plate != nil {
		cleaned := scheduling.CleanPlate(*req.Plate)
		if !scheduling.IsValidPlate(cleaned) {
			return nil, shared.NewDomainError("INVALID_PLATE", "Matrícula no válida")
		}
		plate = &cleaned
	}

	var invoice *billing.Invoice
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		year := time.Now().UTC().Year()
		seq, err := s.allocator.Next(ctx, billing.SequenceKindInvoice, year)
		if err != nil {
			return err
		}
		invoice, err = billing.NewInvoice(year, seq, client.ID, client.FullName(), items)
		if err != nil {
			return err
		}
		invoice.ClientAddress = client.Address
		invoice.ClientTaxID = client.DocumentIdentity
		invoice.AppointmentID = req.AppointmentID
		invoice.Plate = plate

		if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
			return err
		}

		entry, err := finance.NewTransaction(
			finance.TransactionTypeIncome,
			finance.CategoryBilling,
			"Ingreso automático por factura",
			invoice.Total,
			time.Now().UTC(),
			finance.TransactionOriginInvoice,
			&invoice.ID,
			nil,
		)
		if err != nil {
			return err
		}
		return s.ledgerRepo.Save(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(invoice), nil
}

// GetByID returns one invoice
func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.findInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(invoice), nil
}

// List returns invoices matching the filters, paginated
func (s *InvoiceService) List(ctx context.Context, req ListDocumentsRequest) (*shared.Paginated[InvoiceResponse], error) {
	filter := toDocumentFilter(req)
	invoices, total, err := s.invoiceRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		items[i] = *toInvoiceResponse(&invoices[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.Limit())
	return &page, nil
}

// Balance aggregates the invoices matching the filters in one query
func (s *InvoiceService) Balance(ctx context.Context, req ListDocumentsRequest) (*BalanceResponse, error) {
	balance, err := s.invoiceRepo.Balance(ctx, toDocumentFilter(req))
	if err != nil {
		return nil, err
	}
	return toBalanceResponse(balance), nil
}

// Update corrects an invoice's line items. The document number never
// changes; the ledger entry follows the new total.
func (s *InvoiceService) Update(ctx context.Context, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.findInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := invoice.ReplaceItems(toDomainItems(req.Items)); err != nil {
		return nil, err
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
			return err
		}
		entry, err := s.ledgerRepo.FindByReference(ctx, finance.TransactionOriginInvoice, invoice.ID)
		if err != nil {
			return err
		}
		if entry == nil {
			return nil
		}
		entry.Amount = invoice.Total
		entry.Touch()
		return s.ledgerRepo.Update(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(invoice), nil
}

// ResendEmail queues another copy of the invoice for the client's inbox
func (s *InvoiceService) ResendEmail(ctx context.Context, id uuid.UUID) error {
	invoice, err := s.findInvoice(ctx, id)
	if err != nil {
		return err
	}
	client, err := s.clientRepo.FindByID(ctx, invoice.ClientID)
	if err != nil {
		return err
	}
	if client == nil {
		return shared.NewDomainError("NOT_FOUND", "Cliente no encontrado")
	}
	if !client.HasEmail() {
		return shared.NewDomainError("CLIENT_EMAIL_REQUIRED", "El cliente no tiene email")
	}

	payload, err := json.Marshal(shared.InvoiceEmailPayload{
		ClientID:  client.ID,
		InvoiceID: invoice.ID,
	})
	if err != nil {
		return err
	}
	job := shared.NewDispatchJob(shared.DispatchKindInvoiceEmail, invoice.ID, payload)
	return s.dispatchRepo.Save(ctx, job)
}

// Delete removes an invoice and its line items. The ledger entry is
// managed independently and stays behind.
func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findInvoice(ctx, id); err != nil {
		return err
	}
	return s.invoiceRepo.Delete(ctx, id)
}

func (s *InvoiceService) findInvoice(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Factura no encontrada")
	}
	return invoice, nil
}
