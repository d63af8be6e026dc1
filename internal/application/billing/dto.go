package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/francisjavinico/backend-tintado/internal/domain/billing"
	"github.com/francisjavinico/backend-tintado/internal/domain/scheduling"
	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
)

func filterFromPage(page, pageSize int) shared.Filter {
	return shared.Filter{Page: page, PageSize: pageSize}
}

// LineItemInput is one billed line in a document request
type LineItemInput struct {
	Description string          `json:"descripcion" binding:"required,min=1,max=300"`
	Quantity    int             `json:"cantidad" binding:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"precioUnit" binding:"required"`
}

func toDomainItems(inputs []LineItemInput) []billing.LineItem {
	items := make([]billing.LineItem, len(inputs))
	for i, in := range inputs {
		items[i] = billing.LineItem{
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
		}
	}
	return items
}

// BilledServiceInput is one performed service in a manual invoice request.
// When no explicit items come in, the lines are derived from these.
type BilledServiceInput struct {
	Category    string           `json:"categoria" binding:"required"`
	Name        string           `json:"nombre" binding:"required,min=1,max=100"`
	Description *string          `json:"descripcion" binding:"omitempty,max=300"`
	Price       *decimal.Decimal `json:"precio"`
}

func toBilledServices(inputs []BilledServiceInput) []scheduling.RequestedService {
	services := make([]scheduling.RequestedService, len(inputs))
	for i, in := range inputs {
		services[i] = scheduling.RequestedService{
			Category:    scheduling.ServiceCategory(in.Category),
			Name:        in.Name,
			Description: in.Description,
			Price:       in.Price,
		}
	}
	return services
}

// serviceItems maps performed services to billed lines, one per service
func serviceItems(services []scheduling.RequestedService) []billing.LineItem {
	items := make([]billing.LineItem, len(services))
	for i, svc := range services {
		price := decimal.Zero
		if svc.Price != nil {
			price = *svc.Price
		}
		items[i] = billing.LineItem{
			Description: svc.LineDescription(),
			Quantity:    1,
			UnitPrice:   price,
		}
	}
	return items
}

// CreateInvoiceRequest represents a request to issue an invoice by hand,
// outside the appointment flow
type CreateInvoiceRequest struct {
	ClientID      uuid.UUID            `json:"clienteId" binding:"required"`
	AppointmentID *uuid.UUID           `json:"citaId"`
	Items         []LineItemInput      `json:"items" binding:"omitempty,dive"`
	Services      []BilledServiceInput `json:"servicios" binding:"omitempty,dive"`
	Plate         *string              `json:"matricula"`
}

// UpdateInvoiceRequest represents a request to correct an invoice's lines
type UpdateInvoiceRequest struct {
	Items []LineItemInput `json:"items" binding:"required,min=1,dive"`
}

// CreateReceiptRequest represents a request to issue a receipt by hand,
// outside the appointment flow
type CreateReceiptRequest struct {
	ClientID      uuid.UUID       `json:"clienteId" binding:"required"`
	AppointmentID uuid.UUID       `json:"citaId" binding:"required"`
	Description   string          `json:"descripcion" binding:"required,min=1,max=300"`
	Items         []LineItemInput `json:"items" binding:"required,min=1,dive"`
}

// UpdateReceiptRequest represents a request to correct a receipt's lines
type UpdateReceiptRequest struct {
	Items []LineItemInput `json:"items" binding:"required,min=1,dive"`
}

// ListDocumentsRequest represents the invoice and receipt listing filters
type ListDocumentsRequest struct {
	Search   string           `form:"search"`
	ClientID *uuid.UUID       `form:"clienteId"`
	From     *time.Time       `form:"desde" time_format:"2006-01-02"`
	To       *time.Time       `form:"hasta" time_format:"2006-01-02"`
	MinTotal *decimal.Decimal `form:"totalMin"`
	MaxTotal *decimal.Decimal `form:"totalMax"`
	Page     int              `form:"page"`
	PageSize int              `form:"pageSize"`
}

// LineItemResponse is one billed line in API responses
type LineItemResponse struct {
	Description string          `json:"descripcion"`
	Quantity    int             `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"precioUnit"`
	Amount      decimal.Decimal `json:"importe"`
}

func toItemResponses(items []billing.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, len(items))
	for i, it := range items {
		out[i] = LineItemResponse{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount(),
		}
	}
	return out
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            uuid.UUID          `json:"id"`
	Number        string             `json:"numero"`
	Year          int                `json:"año"`
	SeqNumber     int64              `json:"numeroAnual"`
	ClientID      uuid.UUID          `json:"clienteId"`
	AppointmentID *uuid.UUID         `json:"citaId,omitempty"`
	ClientName    string             `json:"nombreCliente"`
	ClientAddress *string            `json:"direccionCliente,omitempty"`
	ClientTaxID   *string            `json:"nifCliente,omitempty"`
	Plate         *string            `json:"matricula,omitempty"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	VAT           decimal.Decimal    `json:"iva"`
	Total         decimal.Decimal    `json:"total"`
	Items         []LineItemResponse `json:"items"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

func toInvoiceResponse(inv *billing.Invoice) *InvoiceResponse {
	return &InvoiceResponse{
		ID:            inv.ID,
		Number:        inv.Number(),
		Year:          inv.Year,
		SeqNumber:     inv.SeqNumber,
		ClientID:      inv.ClientID,
		AppointmentID: inv.AppointmentID,
		ClientName:    inv.ClientName,
		ClientAddress: inv.ClientAddress,
		ClientTaxID:   inv.ClientTaxID,
		Plate:         inv.Plate,
		Subtotal:      inv.Subtotal,
		VAT:           inv.VAT,
		Total:         inv.Total,
		Items:         toItemResponses(inv.Items),
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

// ReceiptResponse represents a receipt in API responses
type ReceiptResponse struct {
	ID            uuid.UUID          `json:"id"`
	Number        string             `json:"numero"`
	Year          int                `json:"año"`
	SeqNumber     int64              `json:"numeroAnual"`
	ClientID      uuid.UUID          `json:"clienteId"`
	AppointmentID uuid.UUID          `json:"citaId"`
	Description   string             `json:"descripcion"`
	Amount        decimal.Decimal    `json:"monto"`
	Status        string             `json:"estado"`
	Items         []LineItemResponse `json:"items"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

func toReceiptResponse(r *billing.Receipt) *ReceiptResponse {
	return &ReceiptResponse{
		ID:            r.ID,
		Number:        r.Number(),
		Year:          r.Year,
		SeqNumber:     r.SeqNumber,
		ClientID:      r.ClientID,
		AppointmentID: r.AppointmentID,
		Description:   r.Description,
		Amount:        r.Amount,
		Status:        r.Status.String(),
		Items:         toItemResponses(r.Items),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// BalanceResponse aggregates the documents matching a filter
type BalanceResponse struct {
	Count       int64           `json:"count"`
	SumTotal    decimal.Decimal `json:"sumTotal"`
	SumVAT      decimal.Decimal `json:"sumIva"`
	SumSubtotal decimal.Decimal `json:"sumSubtotal"`
}

func toBalanceResponse(b *billing.Balance) *BalanceResponse {
	return &BalanceResponse{
		Count:       b.Count,
		SumTotal:    b.SumTotal,
		SumVAT:      b.SumVAT,
		SumSubtotal: b.SumSubtotal,
	}
}

func toDocumentFilter(req ListDocumentsRequest) billing.DocumentFilter {
	return billing.DocumentFilter{
		Filter:   filterFromPage(req.Page, req.PageSize),
		Search:   req.Search,
		ClientID: req.ClientID,
		From:     req.From,
		To:       req.To,
		MinTotal: req.MinTotal,
		MaxTotal: req.MaxTotal,
	}
}
