package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/francisjavinico/backend-tintado/internal/domain/finance"
)

// TransactionModel is the persistence model for the Transaction entity.
type TransactionModel struct {
	BaseModel
	Type                 finance.TransactionType   `gorm:"type:varchar(10);not null;index"`
	Category             string                    `gorm:"type:varchar(60);not null;index"`
	Description          string                    `gorm:"type:text;not null"`
	Amount               decimal.Decimal           `gorm:"type:decimal(12,2);not null"`
	Date                 time.Time                 `gorm:"not null;index"`
	Origin               finance.TransactionOrigin `gorm:"type:varchar(10);not null;uniqueIndex:idx_transactions_reference,priority:1"`
	ReferenceID          *uuid.UUID                `gorm:"type:uuid;uniqueIndex:idx_transactions_reference,priority:2"`
	ExpenseInvoiceNumber *string                   `gorm:"type:varchar(60)"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the persistence model to a domain Transaction entity.
func (m *TransactionModel) ToDomain() *finance.Transaction {
	return &finance.Transaction{
		BaseEntity:           m.BaseModel.ToDomain(),
		Type:                 m.Type,
		Category:             m.Category,
		Description:          m.Description,
		Amount:               m.Amount,
		Date:                 m.Date,
		Origin:               m.Origin,
		ReferenceID:          m.ReferenceID,
		ExpenseInvoiceNumber: m.ExpenseInvoiceNumber,
	}
}

// FromDomain populates the persistence model from a domain Transaction.
func (m *TransactionModel) FromDomain(t *finance.Transaction) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.Type = t.Type
	m.Category = t.Category
	m.Description = t.Description
	m.Amount = t.Amount
	m.Date = t.Date
	m.Origin = t.Origin
	m.ReferenceID = t.ReferenceID
	m.ExpenseInvoiceNumber = t.ExpenseInvoiceNumber
}
