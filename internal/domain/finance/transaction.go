package finance

import (
	"context"
	"strings"
	"time"

	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType distinguishes money coming in from money going out
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "ingreso"
	TransactionTypeExpense TransactionType = "gasto"
)

// IsValid checks if the type is a valid TransactionType
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// TransactionOrigin records what produced a transaction
type TransactionOrigin string

const (
	TransactionOriginInvoice TransactionOrigin = "factura"
	TransactionOriginReceipt TransactionOrigin = "recibo"
	TransactionOriginManual  TransactionOrigin = "manual"
)

// IsValid checks if the origin is a valid TransactionOrigin
func (o TransactionOrigin) IsValid() bool {
	switch o {
	case TransactionOriginInvoice, TransactionOriginReceipt, TransactionOriginManual:
		return true
	}
	return false
}

// String returns the string representation of TransactionOrigin
func (o TransactionOrigin) String() string {
	return string(o)
}

// RequiresReference reports whether transactions of this origin must point
// at the document that produced them
func (o TransactionOrigin) RequiresReference() bool {
	return o == TransactionOriginInvoice || o == TransactionOriginReceipt
}

// CategoryBilling is the category assigned to income generated by
// documents (invoices and receipt conversions).
const CategoryBilling = "facturación"

// Transaction is one entry in the cash ledger. Document-origin entries
// keep a back reference to the invoice or receipt that produced them;
// at most one transaction exists per (origin, reference).
type Transaction struct {
	shared.BaseEntity
	Type                 TransactionType   `json:"tipo"`
	Category             string            `json:"categoria"`
	Description          string            `json:"descripcion"`
	Amount               decimal.Decimal   `json:"monto"`
	Date                 time.Time         `json:"fecha"`
	Origin               TransactionOrigin `json:"origen"`
	ReferenceID          *uuid.UUID        `json:"referenciaId,omitempty"`
	ExpenseInvoiceNumber *string           `json:"numeroFacturaGasto,omitempty"`
}

// NewTransaction creates a ledger entry after validating the origin rules
func NewTransaction(txType TransactionType, category, description string, amount decimal.Decimal, date time.Time, origin TransactionOrigin, referenceID *uuid.UUID, expenseInvoiceNumber *string) (*Transaction, error) {
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Tipo de transacción no válido")
	}
	if strings.TrimSpace(category) == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "La categoría es obligatoria")
	}
	if strings.TrimSpace(description) == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "La descripción es obligatoria")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "El importe debe ser positivo")
	}
	if !origin.IsValid() {
		return nil, shared.NewDomainError("INVALID_ORIGIN", "Origen de transacción no válido")
	}
	if origin.RequiresReference() && referenceID == nil {
		return nil, shared.NewDomainError("REFERENCE_REQUIRED", "Las transacciones de factura o recibo requieren referencia")
	}
	if !origin.RequiresReference() && referenceID != nil {
		return nil, shared.NewDomainError("REFERENCE_FORBIDDEN", "Las transacciones manuales no admiten referencia")
	}
	if expenseInvoiceNumber != nil && txType != TransactionTypeExpense {
		return nil, shared.NewDomainError("EXPENSE_NUMBER_FORBIDDEN", "El número de factura de gasto solo aplica a gastos")
	}
	if date.IsZero() {
		date = time.Now().UTC()
	}
	return &Transaction{
		BaseEntity:           shared.NewBaseEntity(),
		Type:                 txType,
		Category:             strings.TrimSpace(category),
		Description:          strings.TrimSpace(description),
		Amount:               amount,
		Date:                 date.UTC(),
		Origin:               origin,
		ReferenceID:          referenceID,
		ExpenseInvoiceNumber: expenseInvoiceNumber,
	}, nil
}

// TransactionFilter narrows ledger listings. A zero filter means
// "the latest few entries" rather than "everything".
type TransactionFilter struct {
	shared.Filter
	Type     *TransactionType
	Origin   *TransactionOrigin
	Category *string
	From     *time.Time
	To       *time.Time
}

// IsEmpty reports whether no filter criteria were given
func (f TransactionFilter) IsEmpty() bool {
	return f.Type == nil && f.Origin == nil && f.Category == nil && f.From == nil && f.To == nil
}

// TransactionRepository defines persistence for ledger entries
type TransactionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	FindByReference(ctx context.Context, origin TransactionOrigin, referenceID uuid.UUID) (*Transaction, error)
	FindLatest(ctx context.Context, limit int) ([]Transaction, error)
	FindAll(ctx context.Context, filter TransactionFilter) ([]Transaction, int64, error)
	SumByTypeBetween(ctx context.Context, txType TransactionType, from, to time.Time) (decimal.Decimal, error)
	Save(ctx context.Context, tx *Transaction) error
	Update(ctx context.Context, tx *Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByReference(ctx context.Context, origin TransactionOrigin, referenceID uuid.UUID) error
}
