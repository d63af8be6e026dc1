package billing

import (
	"context"
	"strings"
	"time"

	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one billed line on an invoice or receipt
type LineItem struct {
	Description string          `json:"descripcion"`
	Quantity    int             `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"precioUnit"`
}

// Validate checks one line item
func (i LineItem) Validate() error {
	if strings.TrimSpace(i.Description) == "" {
		return shared.NewDomainError("INVALID_ITEM_DESCRIPTION", "Cada línea requiere descripción")
	}
	if i.Quantity < 1 {
		return shared.NewDomainError("INVALID_ITEM_QUANTITY", "La cantidad debe ser al menos 1")
	}
	if i.UnitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_ITEM_PRICE", "El precio unitario no puede ser negativo")
	}
	return nil
}

// Amount returns quantity times unit price
func (i LineItem) Amount() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SumItems totals a set of line items, tax included
func SumItems(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount())
	}
	return total
}

// ValidateItems checks a non-empty set of line items
func ValidateItems(items []LineItem) error {
	if len(items) == 0 {
		return shared.NewDomainError("ITEMS_REQUIRED", "Se requiere al menos una línea")
	}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Invoice is a numbered tax document. Numbers restart each UTC calendar
// year and are unique within (year, seq_number).
type Invoice struct {
	shared.BaseEntity
	Year          int             `json:"año"`
	SeqNumber     int64           `json:"numeroAnual"`
	ClientID      uuid.UUID       `json:"clienteId"`
	AppointmentID *uuid.UUID      `json:"citaId,omitempty"`
	ClientName    string          `json:"nombreCliente"`
	ClientAddress *string         `json:"direccionCliente,omitempty"`
	ClientTaxID   *string         `json:"nifCliente,omitempty"`
	Plate         *string         `json:"matricula,omitempty"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	VAT           decimal.Decimal `json:"iva"`
	Total         decimal.Decimal `json:"total"`
	Items         []LineItem      `json:"items"`
}

// NewInvoice creates an invoice from its line items. Totals are always
// derived from the items, never taken from the caller.
func NewInvoice(year int, seqNumber int64, clientID uuid.UUID, clientName string, items []LineItem) (*Invoice, error) {
	if seqNumber < 1 {
		return nil, shared.NewDomainError("INVALID_SEQUENCE", "Número de factura no válido")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "El cliente es obligatorio")
	}
	if strings.TrimSpace(clientName) == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT_NAME", "El nombre del cliente es obligatorio")
	}
	if err := ValidateItems(items); err != nil {
		return nil, err
	}
	total := SumItems(items)
	subtotal, vat := SplitVAT(total)
	return &Invoice{
		BaseEntity: shared.NewBaseEntity(),
		Year:       year,
		SeqNumber:  seqNumber,
		ClientID:   clientID,
		ClientName: clientName,
		Subtotal:   subtotal,
		VAT:        vat,
		Total:      total,
		Items:      items,
	}, nil
}

// ReplaceItems swaps the line items wholesale and recomputes the totals
func (inv *Invoice) ReplaceItems(items []LineItem) error {
	if err := ValidateItems(items); err != nil {
		return err
	}
	inv.Items = items
	inv.Total = SumItems(items)
	inv.Subtotal, inv.VAT = SplitVAT(inv.Total)
	inv.Touch()
	return nil
}

// Number returns the printed document number, e.g. "2026-0042"
func (inv *Invoice) Number() string {
	return FormatDocumentNumber(inv.Year, inv.SeqNumber)
}

// DocumentFilter narrows invoice and receipt listings
type DocumentFilter struct {
	shared.Filter
	Search   string
	ClientID *uuid.UUID
	From     *time.Time
	To       *time.Time
	MinTotal *decimal.Decimal
	MaxTotal *decimal.Decimal
}

// Balance aggregates the documents matching a filter in one query
type Balance struct {
	Count       int64           `json:"count"`
	SumTotal    decimal.Decimal `json:"sumTotal"`
	SumVAT      decimal.Decimal `json:"sumIva"`
	SumSubtotal decimal.Decimal `json:"sumSubtotal"`
}

// InvoiceRepository defines persistence for invoices
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*Invoice, error)
	FindAll(ctx context.Context, filter DocumentFilter) ([]Invoice, int64, error)
	Balance(ctx context.Context, filter DocumentFilter) (*Balance, error)
	SumTotalBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	Save(ctx context.Context, invoice *Invoice) error
	Update(ctx context.Context, invoice *Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
}
