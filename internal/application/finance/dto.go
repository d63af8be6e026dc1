package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/francisjavinico/backend-tintado/internal/domain/finance"
)

// CreateTransactionRequest represents a request to record a manual
// ledger entry
type CreateTransactionRequest struct {
	Type                 string          `json:"tipo" binding:"required"`
	Category             string          `json:"categoria" binding:"required,min=1,max=100"`
	Description          string          `json:"descripcion" binding:"required,min=1,max=300"`
	Amount               decimal.Decimal `json:"monto" binding:"required"`
	Date                 *time.Time      `json:"fecha"`
	ExpenseInvoiceNumber *string         `json:"numeroFacturaGasto" binding:"omitempty,max=50"`
}

// UpdateTransactionRequest represents a request to correct a manual entry
type UpdateTransactionRequest struct {
	Category             *string          `json:"categoria" binding:"omitempty,min=1,max=100"`
	Description          *string          `json:"descripcion" binding:"omitempty,min=1,max=300"`
	Amount               *decimal.Decimal `json:"monto"`
	Date                 *time.Time       `json:"fecha"`
	ExpenseInvoiceNumber *string          `json:"numeroFacturaGasto" binding:"omitempty,max=50"`
}

// ListTransactionsRequest represents the ledger listing filters
type ListTransactionsRequest struct {
	Type     string     `form:"tipo"`
	Origin   string     `form:"origen"`
	Category string     `form:"categoria"`
	From     *time.Time `form:"desde" time_format:"2006-01-02"`
	To       *time.Time `form:"hasta" time_format:"2006-01-02"`
	Page     int        `form:"page"`
	PageSize int        `form:"pageSize"`
}

// SummaryRequest bounds the income/expense summary
type SummaryRequest struct {
	Granularity string     `form:"agrupacion" binding:"required"`
	From        *time.Time `form:"desde" time_format:"2006-01-02"`
	To          *time.Time `form:"hasta" time_format:"2006-01-02"`
}

// TransactionResponse represents a ledger entry in API responses
type TransactionResponse struct {
	ID                   uuid.UUID       `json:"id"`
	Type                 string          `json:"tipo"`
	Category             string          `json:"categoria"`
	Description          string          `json:"descripcion"`
	Amount               decimal.Decimal `json:"monto"`
	Date                 time.Time       `json:"fecha"`
	Origin               string          `json:"origen"`
	ReferenceID          *uuid.UUID      `json:"referenciaId,omitempty"`
	ExpenseInvoiceNumber *string         `json:"numeroFacturaGasto,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

func toTransactionResponse(t *finance.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:                   t.ID,
		Type:                 t.Type.String(),
		Category:             t.Category,
		Description:          t.Description,
		Amount:               t.Amount,
		Date:                 t.Date,
		Origin:               t.Origin.String(),
		ReferenceID:          t.ReferenceID,
		ExpenseInvoiceNumber: t.ExpenseInvoiceNumber,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
}
