package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/francisjavinico/backend-tintado/internal/domain/billing"
	"github.com/francisjavinico/backend-tintado/internal/domain/finance"
	"github.com/francisjavinico/backend-tintado/internal/domain/partner"
	"github.com/francisjavinico/backend-tintado/internal/domain/scheduling"
	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
)

// ReceiptService handles receipt querying and the conversion of receipts
// into proper invoices
type ReceiptService struct {
	txManager       shared.TransactionManager
	receiptRepo     billing.ReceiptRepository
	invoiceRepo     billing.InvoiceRepository
	clientRepo      partner.ClientRepository
	appointmentRepo scheduling.AppointmentRepository
	ledgerRepo      finance.TransactionRepository
	allocator       billing.SequenceAllocator
	dispatchRepo    shared.DispatchRepository
	logger          *zap.Logger
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(
	txManager shared.TransactionManager,
	receiptRepo billing.ReceiptRepository,
	invoiceRepo billing.InvoiceRepository,
	clientRepo partner.ClientRepository,
	appointmentRepo scheduling.AppointmentRepository,
	ledgerRepo finance.TransactionRepository,
	allocator billing.SequenceAllocator,
	dispatchRepo shared.DispatchRepository,
	logger *zap.Logger,
) *ReceiptService {
	return &ReceiptService{
		txManager:       txManager,
		receiptRepo:     receiptRepo,
		invoiceRepo:     invoiceRepo,
		clientRepo:      clientRepo,
		appointmentRepo: appointmentRepo,
		ledgerRepo:      ledgerRepo,
		allocator:       allocator,
		dispatchRepo:    dispatchRepo,
		logger:          logger,
	}
}

// Create issues a receipt by hand, outside the appointment flow. Each
// appointment carries at most one receipt; the number allocation, the
// receipt and its ledger entry commit together.
func (s *ReceiptService) Create(ctx context.Context, req CreateReceiptRequest) (*ReceiptResponse, error) {
	appointment, err := s.appointmentRepo.FindByID(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Cita no encontrada")
	}
	client, err := s.clientRepo.FindByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Cliente no encontrado")
	}
	existing, err := s.receiptRepo.FindByAppointmentID(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "La cita ya tiene un recibo")
	}

	var receipt *billing.Receipt
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		year := time.Now().UTC().Year()
		seq, err := s.allocator.Next(ctx, billing.SequenceKindReceipt, year)
		if err != nil {
			return err
		}
		receipt, err = billing.NewReceipt(year, seq, client.ID, appointment.ID, req.Description, toDomainItems(req.Items))
		if err != nil {
			return err
		}
		if err := s.receiptRepo.Save(ctx, receipt); err != nil {
			return err
		}

		entry, err := finance.NewTransaction(
			finance.TransactionTypeIncome,
			finance.CategoryBilling,
			"Ingreso automático por recibo",
			receipt.Amount,
			time.Now().UTC(),
			finance.TransactionOriginReceipt,
			&receipt.ID,
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
	return toReceiptResponse(receipt), nil
}

// Update corrects a receipt's line items. The document number never
// changes; the ledger entry follows the new amount.
func (s *ReceiptService) Update(ctx context.Context, id uuid.UUID, req UpdateReceiptRequest) (*ReceiptResponse, error) {
	receipt, err := s.findReceipt(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := receipt.ReplaceItems(toDomainItems(req.Items)); err != nil {
		return nil, err
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.receiptRepo.Update(ctx, receipt); err != nil {
			return err
		}
		entry, err := s.ledgerRepo.FindByReference(ctx, finance.TransactionOriginReceipt, receipt.ID)
		if err != nil {
			return err
		}
		if entry == nil {
			return nil
		}
		entry.Amount = receipt.Amount
		entry.Touch()
		return s.ledgerRepo.Update(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return toReceiptResponse(receipt), nil
}

// GetByID returns one receipt
func (s *ReceiptService) GetByID(ctx context.Context, id uuid.UUID) (*ReceiptResponse, error) {
	receipt, err := s.findReceipt(ctx, id)
	if err != nil {
		return nil, err
	}
	return toReceiptResponse(receipt), nil
}

// List returns receipts matching the filters, paginated
func (s *ReceiptService) List(ctx context.Context, req ListDocumentsRequest) (*shared.Paginated[ReceiptResponse], error) {
	filter := toDocumentFilter(req)
	receipts, total, err := s.receiptRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]ReceiptResponse, len(receipts))
	for i := range receipts {
		items[i] = *toReceiptResponse(&receipts[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.Limit())
	return &page, nil
}

// Balance aggregates the receipts matching the filters in one query
func (s *ReceiptService) Balance(ctx context.Context, req ListDocumentsRequest) (*BalanceResponse, error) {
	balance, err := s.receiptRepo.Balance(ctx, toDocumentFilter(req))
	if err != nil {
		return nil, err
	}
	return toBalanceResponse(balance), nil
}

// ConvertToInvoice turns an active receipt into a proper invoice. The
// items transfer as they are, the client's fiscal data is snapshotted on
// the invoice, the receipt's ledger entry is replaced by the invoice's,
// and the receipt stays behind marked convertido. A receipt converts at
// most once.
func (s *ReceiptService) ConvertToInvoice(ctx context.Context, receiptID uuid.UUID) (*InvoiceResponse, error) {
	receipt, err := s.findReceipt(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	client, err := s.clientRepo.FindByID(ctx, receipt.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Cliente no encontrado")
	}

	// The plate travels from the appointment onto the invoice
	var plate *string
	appointment, err := s.appointmentRepo.FindByID(ctx, receipt.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appointment != nil {
		plate = appointment.Plate
	}

	if err := receipt.MarkConverted(); err != nil {
		return nil, err
	}

	var invoice *billing.Invoice
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		year := time.Now().UTC().Year()
		seq, err := s.allocator.Next(ctx, billing.SequenceKindInvoice, year)
		if err != nil {
			return err
		}
		invoice, err = billing.NewInvoice(year, seq, client.ID, client.FullName(), receipt.Items)
		if err != nil {
			return err
		}
		invoice.AppointmentID = &receipt.AppointmentID
		invoice.ClientAddress = client.Address
		invoice.ClientTaxID = client.DocumentIdentity
		invoice.Plate = plate

		if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
			return err
		}
		if err := s.receiptRepo.Update(ctx, receipt); err != nil {
			return err
		}

		// The receipt's income entry is superseded by the invoice's
		if err := s.ledgerRepo.DeleteByReference(ctx, finance.TransactionOriginReceipt, receipt.ID); err != nil {
			return err
		}
		entry, err := finance.NewTransaction(
			finance.TransactionTypeIncome,
			finance.CategoryBilling,
			fmt.Sprintf("Factura generada desde recibo %s", receipt.Number()),
			invoice.Total,
			time.Now().UTC(),
			finance.TransactionOriginInvoice,
			&invoice.ID,
			nil,
		)
		if err != nil {
			return err
		}
		if err := s.ledgerRepo.Save(ctx, entry); err != nil {
			return err
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
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("receipt converted to invoice",
		zap.String("receipt_id", receipt.ID.String()),
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.Number()))

	return toInvoiceResponse(invoice), nil
}

// ResendEmail queues another copy of the receipt for the client's inbox
func (s *ReceiptService) ResendEmail(ctx context.Context, id uuid.UUID) error {
	receipt, err := s.findReceipt(ctx, id)
	if err != nil {
		return err
	}
	client, err := s.clientRepo.FindByID(ctx, receipt.ClientID)
	if err != nil {
		return err
	}
	if client == nil {
		return shared.NewDomainError("NOT_FOUND", "Cliente no encontrado")
	}
	if !client.HasEmail() {
		return shared.NewDomainError("CLIENT_EMAIL_REQUIRED", "El cliente no tiene email")
	}

	payload, err := json.Marshal(shared.ReceiptEmailPayload{
		ClientID:  client.ID,
		ReceiptID: receipt.ID,
	})
	if err != nil {
		return err
	}
	job := shared.NewDispatchJob(shared.DispatchKindReceiptEmail, receipt.ID, payload)
	return s.dispatchRepo.Save(ctx, job)
}

// Delete removes a receipt and its line items. The ledger entry is
// managed independently and stays behind.
func (s *ReceiptService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findReceipt(ctx, id); err != nil {
		return err
	}
	return s.receiptRepo.Delete(ctx, id)
}

func (s *ReceiptService) findReceipt(ctx context.Context, id uuid.UUID) (*billing.Receipt, error) {
	receipt, err := s.receiptRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Recibo no encontrado")
	}
	return receipt, nil
}
