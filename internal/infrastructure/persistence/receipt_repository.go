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

// GormReceiptRepository implements ReceiptRepository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// FindByID finds a receipt with its items
func (r *GormReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Receipt, error) {
	var model models.ReceiptModel
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

// FindByAppointmentID finds the receipt issued for an appointment
func (r *GormReceiptRepository) FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*billing.Receipt, error) {
	var model models.ReceiptModel
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

// applyReceiptFilter translates a DocumentFilter into WHERE clauses.
// Receipts carry no client snapshot, so text search matches the
// description instead.
func applyReceiptFilter(query *gorm.DB, filter billing.DocumentFilter) *gorm.DB {
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		query = query.Where("LOWER(description) LIKE ?", pattern)
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
		query = query.Where("amount >= ?", *filter.MinTotal)
	}
	if filter.MaxTotal != nil {
		query = query.Where("amount <= ?", *filter.MaxTotal)
	}
	return query
}

// FindAll finds receipts with filtering, newest first
func (r *GormReceiptRepository) FindAll(ctx context.Context, filter billing.DocumentFilter) ([]billing.Receipt, int64, error) {
	query := applyReceiptFilter(dbFromContext(ctx, r.db).Model(&models.ReceiptModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var receiptModels []models.ReceiptModel
	if err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("year DESC, seq_number DESC").
		Limit(filter.Limit()).
		Offset(filter.Offset()).
		Find(&receiptModels).Error; err != nil {
		return nil, 0, err
	}

	receipts := make([]billing.Receipt, len(receiptModels))
	for i, m := range receiptModels {
		receipts[i] = *m.ToDomain()
	}
	return receipts, total, nil
}

// Balance aggregates the receipts matching the filter in one query.
// Receipt amounts are tax inclusive; the VAT and subtotal parts are
// backed out per the standard rate.
func (r *GormReceiptRepository) Balance(ctx context.Context, filter billing.DocumentFilter) (*billing.Balance, error) {
	var row struct {
		Count    int64
		SumTotal decimal.Decimal
	}
	query := applyReceiptFilter(dbFromContext(ctx, r.db).Model(&models.ReceiptModel{}), filter)
	if err := query.
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS sum_total").
		Scan(&row).Error; err != nil {
		return nil, err
	}
	subtotal, vat := billing.SplitVAT(row.SumTotal)
	return &billing.Balance{
		Count:       row.Count,
		SumTotal:    row.SumTotal,
		SumVAT:      vat,
		SumSubtotal: subtotal,
	}, nil
}

// Save creates a receipt with its items
func (r *GormReceiptRepository) Save(ctx context.Context, receipt *billing.Receipt) error {
	model := &models.ReceiptModel{}
	model.FromDomain(receipt)
	return dbFromContext(ctx, r.db).Create(model).Error
}

// Update rewrites the receipt and replaces its items wholesale
func (r *GormReceiptRepository) Update(ctx context.Context, receipt *billing.Receipt) error {
	db := dbFromContext(ctx, r.db)
	model := &models.ReceiptModel{}
	model.FromDomain(receipt)

	if err := db.Delete(&models.ReceiptItemModel{}, "receipt_id = ?", receipt.ID).Error; err != nil {
		return err
	}
	return db.Session(&gorm.Session{FullSaveAssociations: true}).Save(model).Error
}

// Delete deletes a receipt; items cascade
func (r *GormReceiptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := dbFromContext(ctx, r.db)
	if err := db.Delete(&models.ReceiptItemModel{}, "receipt_id = ?", id).Error; err != nil {
		return err
	}
	return db.Delete(&models.ReceiptModel{}, "id = ?", id).Error
}

// Ensure GormReceiptRepository implements the interface
var _ billing.ReceiptRepository = (*GormReceiptRepository)(nil)
