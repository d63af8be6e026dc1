package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/francisjavinico/backend-tintado/internal/domain/billing"
)

// InvoiceModel is the persistence model for the Invoice aggregate.
type InvoiceModel struct {
	BaseModel
	Year          int             `gorm:"not null;uniqueIndex:idx_invoices_year_seq,priority:1"`
	SeqNumber     int64           `gorm:"not null;uniqueIndex:idx_invoices_year_seq,priority:2"`
	ClientID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	AppointmentID *uuid.UUID      `gorm:"type:uuid;index"`
	ClientName    string          `gorm:"type:varchar(200);not null"`
	ClientAddress *string         `gorm:"type:text"`
	ClientTaxID   *string         `gorm:"type:varchar(30)"`
	Plate         *string         `gorm:"type:varchar(10)"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	VAT           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Items []InvoiceItemModel `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceItemModel is one billed line of an invoice.
type InvoiceItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null"`
	Description string          `gorm:"type:text;not null"`
	Quantity    int             `gorm:"not null;default:1"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain Invoice aggregate.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	items := make([]billing.LineItem, len(m.Items))
	for i, it := range m.Items {
		items[i] = billing.LineItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		}
	}
	return &billing.Invoice{
		BaseEntity:    m.BaseModel.ToDomain(),
		Year:          m.Year,
		SeqNumber:     m.SeqNumber,
		ClientID:      m.ClientID,
		AppointmentID: m.AppointmentID,
		ClientName:    m.ClientName,
		ClientAddress: m.ClientAddress,
		ClientTaxID:   m.ClientTaxID,
		Plate:         m.Plate,
		Subtotal:      m.Subtotal,
		VAT:           m.VAT,
		Total:         m.Total,
		Items:         items,
	}
}

// FromDomain populates the persistence model from a domain Invoice.
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainBaseEntity(inv.BaseEntity)
	m.Year = inv.Year
	m.SeqNumber = inv.SeqNumber
	m.ClientID = inv.ClientID
	m.AppointmentID = inv.AppointmentID
	m.ClientName = inv.ClientName
	m.ClientAddress = inv.ClientAddress
	m.ClientTaxID = inv.ClientTaxID
	m.Plate = inv.Plate
	m.Subtotal = inv.Subtotal
	m.VAT = inv.VAT
	m.Total = inv.Total

	m.Items = make([]InvoiceItemModel, len(inv.Items))
	for i, it := range inv.Items {
		m.Items[i] = InvoiceItemModel{
			ID:          uuid.New(),
			InvoiceID:   inv.ID,
			Position:    i,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		}
	}
}

// ReceiptModel is the persistence model for the Receipt aggregate.
type ReceiptModel struct {
	BaseModel
	Year          int                   `gorm:"not null;uniqueIndex:idx_receipts_year_seq,priority:1"`
	SeqNumber     int64                 `gorm:"not null;uniqueIndex:idx_receipts_year_seq,priority:2"`
	ClientID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	AppointmentID uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_receipts_appointment"`
	Description   string                `gorm:"type:text;not null"`
	Amount        decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	Status        billing.ReceiptStatus `gorm:"type:varchar(20);not null;default:'activo';index"`

	Items []ReceiptItemModel `gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ReceiptModel) TableName() string {
	return "receipts"
}

// ReceiptItemModel is one billed line of a receipt.
type ReceiptItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	ReceiptID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null"`
	Description string          `gorm:"type:text;not null"`
	Quantity    int             `gorm:"not null;default:1"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (ReceiptItemModel) TableName() string {
	return "receipt_items"
}

// ToDomain converts the persistence model to a domain Receipt aggregate.
func (m *ReceiptModel) ToDomain() *billing.Receipt {
	items := make([]billing.LineItem, len(m.Items))
	for i, it := range m.Items {
		items[i] = billing.LineItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		}
	}
	return &billing.Receipt{
		BaseEntity:    m.BaseModel.ToDomain(),
		Year:          m.Year,
		SeqNumber:     m.SeqNumber,
		ClientID:      m.ClientID,
		AppointmentID: m.AppointmentID,
		Description:   m.Description,
		Amount:        m.Amount,
		Status:        m.Status,
		Items:         items,
	}
}

// FromDomain populates the persistence model from a domain Receipt.
func (m *ReceiptModel) FromDomain(r *billing.Receipt) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.Year = r.Year
	m.SeqNumber = r.SeqNumber
	m.ClientID = r.ClientID
	m.AppointmentID = r.AppointmentID
	m.Description = r.Description
	m.Amount = r.Amount
	m.Status = r.Status

	m.Items = make([]ReceiptItemModel, len(r.Items))
	for i, it := range r.Items {
		m.Items[i] = ReceiptItemModel{
			ID:          uuid.New(),
			ReceiptID:   r.ID,
			Position:    i,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		}
	}
}

// DocumentSequenceModel is the per-kind, per-year counter row backing
// document numbering. The allocator locks this row while incrementing.
type DocumentSequenceModel struct {
	Kind       billing.SequenceKind `gorm:"type:varchar(20);primaryKey"`
	Year       int                  `gorm:"primaryKey"`
	LastNumber int64                `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (DocumentSequenceModel) TableName() string {
	return "document_sequences"
}
