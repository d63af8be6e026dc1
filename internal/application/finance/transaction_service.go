package finance

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/francisjavinico/backend-tintado/internal/domain/finance"
	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
)

// latestEntriesLimit is what an unfiltered listing returns
const latestEntriesLimit = 10

// TransactionService handles the cash ledger. Manual entries are created
// and edited here; document-origin entries are written by the billing
// flows and are read-only from this surface.
type TransactionService struct {
	ledgerRepo finance.TransactionRepository
	invalidate func(ctx context.Context)
}

// NewTransactionService creates a new TransactionService. invalidate is
// called after every ledger write so the cached dashboard snapshot never
// outlives the data it summarizes; pass nil when there is no cache.
func NewTransactionService(ledgerRepo finance.TransactionRepository, invalidate func(ctx context.Context)) *TransactionService {
	if invalidate == nil {
		invalidate = func(context.Context) {}
	}
	return &TransactionService{ledgerRepo: ledgerRepo, invalidate: invalidate}
}

// Create records a manual ledger entry
func (s *TransactionService) Create(ctx context.Context, req CreateTransactionRequest) (*TransactionResponse, error) {
	txType := finance.TransactionType(req.Type)
	date := time.Time{}
	if req.Date != nil {
		date = *req.Date
	}
	entry, err := finance.NewTransaction(txType, req.Category, req.Description,
		req.Amount, date, finance.TransactionOriginManual, nil, req.ExpenseInvoiceNumber)
	if err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.Save(ctx, entry); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return toTransactionResponse(entry), nil
}

// GetByID returns one ledger entry
func (s *TransactionService) GetByID(ctx context.Context, id uuid.UUID) (*TransactionResponse, error) {
	entry, err := s.findEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(entry), nil
}

// List returns ledger entries. Without filters it returns the latest few
// entries; with filters it returns the matching page.
func (s *TransactionService) List(ctx context.Context, req ListTransactionsRequest) (*shared.Paginated[TransactionResponse], error) {
	filter, err := toTransactionFilter(req)
	if err != nil {
		return nil, err
	}

	if filter.IsEmpty() {
		entries, err := s.ledgerRepo.FindLatest(ctx, latestEntriesLimit)
		if err != nil {
			return nil, err
		}
		items := make([]TransactionResponse, len(entries))
		for i := range entries {
			items[i] = *toTransactionResponse(&entries[i])
		}
		page := shared.NewPaginated(items, int64(len(items)), 1, latestEntriesLimit)
		return &page, nil
	}

	entries, total, err := s.ledgerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]TransactionResponse, len(entries))
	for i := range entries {
		items[i] = *toTransactionResponse(&entries[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.Limit())
	return &page, nil
}

// Update corrects a manual ledger entry. Document-origin entries follow
// their document and cannot be edited directly.
func (s *TransactionService) Update(ctx context.Context, id uuid.UUID, req UpdateTransactionRequest) (*TransactionResponse, error) {
	entry, err := s.findEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.Origin != finance.TransactionOriginManual {
		return nil, shared.NewDomainError("INVALID_STATE", "Solo se pueden editar transacciones manuales")
	}

	if req.Category != nil {
		if strings.TrimSpace(*req.Category) == "" {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "La categoría es obligatoria")
		}
		entry.Category = strings.TrimSpace(*req.Category)
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return nil, shared.NewDomainError("INVALID_DESCRIPTION", "La descripción es obligatoria")
		}
		entry.Description = strings.TrimSpace(*req.Description)
	}
	if req.Amount != nil {
		if req.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "El importe debe ser positivo")
		}
		entry.Amount = *req.Amount
	}
	if req.Date != nil {
		entry.Date = req.Date.UTC()
	}
	if req.ExpenseInvoiceNumber != nil {
		if entry.Type != finance.TransactionTypeExpense {
			return nil, shared.NewDomainError("EXPENSE_NUMBER_FORBIDDEN", "El número de factura de gasto solo aplica a gastos")
		}
		entry.ExpenseInvoiceNumber = req.ExpenseInvoiceNumber
	}
	entry.Touch()

	if err := s.ledgerRepo.Update(ctx, entry); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return toTransactionResponse(entry), nil
}

// Delete removes a manual ledger entry
func (s *TransactionService) Delete(ctx context.Context, id uuid.UUID) error {
	entry, err := s.findEntry(ctx, id)
	if err != nil {
		return err
	}
	if entry.Origin != finance.TransactionOriginManual {
		return shared.NewDomainError("INVALID_STATE", "Solo se pueden eliminar transacciones manuales")
	}
	if err := s.ledgerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *TransactionService) findEntry(ctx context.Context, id uuid.UUID) (*finance.Transaction, error) {
	entry, err := s.ledgerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Transacción no encontrada")
	}
	return entry, nil
}

func toTransactionFilter(req ListTransactionsRequest) (finance.TransactionFilter, error) {
	filter := finance.TransactionFilter{
		Filter: shared.Filter{Page: req.Page, PageSize: req.PageSize},
		From:   req.From,
		To:     req.To,
	}
	if req.Type != "" {
		txType := finance.TransactionType(req.Type)
		if !txType.IsValid() {
			return filter, shared.NewDomainError("INVALID_TYPE", "Tipo de transacción no válido")
		}
		filter.Type = &txType
	}
	if req.Origin != "" {
		origin := finance.TransactionOrigin(req.Origin)
		if !origin.IsValid() {
			return filter, shared.NewDomainError("INVALID_ORIGIN", "Origen de transacción no válido")
		}
		filter.Origin = &origin
	}
	if req.Category != "" {
		category := req.Category
		filter.Category = &category
	}
	return filter, nil
}
