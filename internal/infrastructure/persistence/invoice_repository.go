package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/francisjavinico/backend-tintado/internal/domain/billing"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/persistence/models"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice with its items
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := dbFromContext(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAppointmentID finds the invoice issued for an appointment
func (r *GormInvoiceRepository) FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := dbFromContext(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&model, "appointment_id = ?", appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// applyDocumentFilter translates a DocumentFilter into WHERE clauses
func applyInvoiceFilter(query *gorm.DB, filter billing.DocumentFilter) *gorm.DB {
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		query = query.Where("LOWER(client_name) LIKE ?", pattern)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		// The bound arrives as a bare date, so the whole end day counts
		query = query.Where("created_at < ?", filter.To.UTC().Add(24*time.Hour))
	}
	if filter.MinTotal != nil {
		query = query.Where("total >= ?", *filter.MinTotal)
	}
	if filter.MaxTotal != nil {
		query = query.Where("total <= ?", *filter.MaxTotal)
	}
	return query
}

// FindAll finds invoices with filtering, newest first
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter billing.DocumentFilter) ([]billing.Invoice, int64, error) {
	query := applyInvoiceFilter(dbFromContext(ctx, r.db).Model(&models.InvoiceModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoiceModels []models.InvoiceModel
	if err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("year DESC, seq_number DESC").
		Limit(filter.Limit()).
		Offset(filter.Offset()).
		Find(&invoiceModels).Error; err != nil {
		return nil, 0, err
	}

	invoices := make([]billing.Invoice, len(invoiceModels))
	for i, m := range invoiceModels {
		invoices[i] = *m.ToDomain()
	}
	return invoices, total, nil
}

// Balance aggregates the invoices matching the filter in one query
func (r *GormInvoiceRepository) Balance(ctx context.Context, filter billing.DocumentFilter) (*billing.Balance, error) {
	var row struct {
		Count       int64
		SumTotal    decimal.Decimal
		SumVAT      decimal.Decimal
		SumSubtotal decimal.Decimal
	}
	query := applyInvoiceFilter(dbFromContext(ctx, r.db).Model(&models.InvoiceModel{}), filter)
	if err := query.
		Select("COUNT(*) AS count, COALESCE(SUM(total), 0) AS sum_total, COALESCE(SUM(vat), 0) AS sum_vat, COALESCE(SUM(subtotal), 0) AS sum_subtotal").
		Scan(&row).Error; err != nil {
		return nil, err
	}
	return &billing.Balance{
		Count:       row.Count,
		SumTotal:    row.SumTotal,
		SumVAT:      row.SumVAT,
		SumSubtotal: row.SumSubtotal,
	}, nil
}

// SumTotalBetween sums invoice totals inside a time window
func (r *GormInvoiceRepository) SumTotalBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	if err := dbFromContext(ctx, r.db).
		Model(&models.InvoiceModel{}).
		Select("COALESCE(SUM(total), 0)").
		Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC()).
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// Save creates an invoice with its items
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	model := &models.InvoiceModel{}
	model.FromDomain(invoice)
	return dbFromContext(ctx, r.db).Create(model).Error
}

// Update rewrites the invoice and replaces its items wholesale
func (r *GormInvoiceRepository) Update(ctx context.Context, invoice *billing.Invoice) error {
	db := dbFromContext(ctx, r.db)
	model := &models.InvoiceModel{}
	model.FromDomain(invoice)

	if err := db.Delete(&models.InvoiceItemModel{}, "invoice_id = ?", invoice.ID).Error; err != nil {
		return err
	}
	return db.Session(&gorm.Session{FullSaveAssociations: true}).Save(model).Error
}

// Delete deletes an invoice; items cascade
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := dbFromContext(ctx, r.db)
	if err := db.Delete(&models.InvoiceItemModel{}, "invoice_id = ?", id).Error; err != nil {
		return err
	}
	return db.Delete(&models.InvoiceModel{}, "id = ?", id).Error
}

// Ensure GormInvoiceRepository implements the interface
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
