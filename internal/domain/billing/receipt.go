package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptStatus represents the lifecycle state of a receipt
type ReceiptStatus string

const (
	ReceiptStatusActive    ReceiptStatus = "activo"
	ReceiptStatusConverted ReceiptStatus = "convertido"
)

// IsValid checks if the status is a valid ReceiptStatus
func (s ReceiptStatus) IsValid() bool {
	return s == ReceiptStatusActive || s == ReceiptStatusConverted
}

// String returns the string representation of ReceiptStatus
func (s ReceiptStatus) String() string {
	return string(s)
}

// Receipt is the provisional payment document issued at the counter.
// It carries its own yearly number series, independent of invoices,
// and can later be converted into a proper invoice.
type Receipt struct {
	shared.BaseEntity
	Year          int             `json:"año"`
	SeqNumber     int64           `json:"numeroAnual"`
	ClientID      uuid.UUID       `json:"clienteId"`
	AppointmentID uuid.UUID       `json:"citaId"`
	Description   string          `json:"descripcion"`
	Amount        decimal.Decimal `json:"monto"`
	Status        ReceiptStatus   `json:"estado"`
	Items         []LineItem      `json:"items"`
}

// NewReceipt creates a receipt from its line items. The amount is the
// tax-inclusive sum of the items.
func NewReceipt(year int, seqNumber int64, clientID, appointmentID uuid.UUID, description string, items []LineItem) (*Receipt, error) {
	if seqNumber < 1 {
		return nil, shared.NewDomainError("INVALID_SEQUENCE", "Número de recibo no válido")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "El cliente es obligatorio")
	}
	if appointmentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_APPOINTMENT", "Los recibos requieren una cita")
	}
	if strings.TrimSpace(description) == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "La descripción es obligatoria")
	}
	if err := ValidateItems(items); err != nil {
		return nil, err
	}
	return &Receipt{
		BaseEntity:    shared.NewBaseEntity(),
		Year:          year,
		SeqNumber:     seqNumber,
		ClientID:      clientID,
		AppointmentID: appointmentID,
		Description:   description,
		Amount:        SumItems(items),
		Status:        ReceiptStatusActive,
		Items:         items,
	}, nil
}

// ReplaceItems swaps the line items wholesale and recomputes the amount
func (r *Receipt) ReplaceItems(items []LineItem) error {
	if r.Status == ReceiptStatusConverted {
		return shared.NewDomainError("INVALID_STATE", "No se puede modificar un recibo convertido")
	}
	if err := ValidateItems(items); err != nil {
		return err
	}
	r.Items = items
	r.Amount = SumItems(items)
	r.Touch()
	return nil
}

// MarkConverted flags the receipt as consumed by an invoice conversion
func (r *Receipt) MarkConverted() error {
	if r.Status == ReceiptStatusConverted {
		return shared.NewDomainError("INVALID_STATE", "El recibo ya fue convertido en factura")
	}
	r.Status = ReceiptStatusConverted
	r.Touch()
	return nil
}

// Number returns the printed document number, e.g. "2026-0007"
func (r *Receipt) Number() string {
	return FormatDocumentNumber(r.Year, r.SeqNumber)
}

// FormatDocumentNumber renders the year-scoped number printed on documents
func FormatDocumentNumber(year int, seq int64) string {
	return fmt.Sprintf("%d-%04d", year, seq)
}

// ReceiptRepository defines persistence for receipts
type ReceiptRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Receipt, error)
	FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*Receipt, error)
	FindAll(ctx context.Context, filter DocumentFilter) ([]Receipt, int64, error)
	Balance(ctx context.Context, filter DocumentFilter) (*Balance, error)
	Save(ctx context.Context, receipt *Receipt) error
	Update(ctx context.Context, receipt *Receipt) error
	Delete(ctx context.Context, id uuid.UUID) error
}
