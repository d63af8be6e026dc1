package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/francisjavinico/backend-tintado/internal/domain/finance"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/persistence/models"
)

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a transaction by ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Transaction, error) {
	var model models.TransactionModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByReference finds the transaction produced by a document
func (r *GormTransactionRepository) FindByReference(ctx context.Context, origin finance.TransactionOrigin, referenceID uuid.UUID) (*finance.Transaction, error) {
	var model models.TransactionModel
	if err := dbFromContext(ctx, r.db).
		First(&model, "origin = ? AND reference_id = ?", origin, referenceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindLatest returns the most recent ledger entries
func (r *GormTransactionRepository) FindLatest(ctx context.Context, limit int) ([]finance.Transaction, error) {
	var txModels []models.TransactionModel
	if err := dbFromContext(ctx, r.db).
		Order("date DESC, created_at DESC").
		Limit(limit).
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	txs := make([]finance.Transaction, len(txModels))
	for i, m := range txModels {
		txs[i] = *m.ToDomain()
	}
	return txs, nil
}

// FindAll finds ledger entries with filtering and pagination
func (r *GormTransactionRepository) FindAll(ctx context.Context, filter finance.TransactionFilter) ([]finance.Transaction, int64, error) {
	query := dbFromContext(ctx, r.db).Model(&models.TransactionModel{})

	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Origin != nil {
		query = query.Where("origin = ?", *filter.Origin)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("date <= ?", filter.To.UTC())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txModels []models.TransactionModel
	if err := query.
		Order("date DESC, created_at DESC").
		Limit(filter.Limit()).
		Offset(filter.Offset()).
		Find(&txModels).Error; err != nil {
		return nil, 0, err
	}

	txs := make([]finance.Transaction, len(txModels))
	for i, m := range txModels {
		txs[i] = *m.ToDomain()
	}
	return txs, total, nil
}

// SumByTypeBetween sums ledger amounts of one type inside a time window
func (r *GormTransactionRepository) SumByTypeBetween(ctx context.Context, txType finance.TransactionType, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	if err := dbFromContext(ctx, r.db).
		Model(&models.TransactionModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("type = ? AND date >= ? AND date < ?", txType, from.UTC(), to.UTC()).
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// Save creates a transaction
func (r *GormTransactionRepository) Save(ctx context.Context, tx *finance.Transaction) error {
	model := &models.TransactionModel{}
	model.FromDomain(tx)
	return dbFromContext(ctx, r.db).Create(model).Error
}

// Update updates a transaction
func (r *GormTransactionRepository) Update(ctx context.Context, tx *finance.Transaction) error {
	model := &models.TransactionModel{}
	model.FromDomain(tx)
	return dbFromContext(ctx, r.db).Save(model).Error
}

// Delete deletes a transaction
func (r *GormTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFromContext(ctx, r.db).Delete(&models.TransactionModel{}, "id = ?", id).Error
}

// DeleteByReference deletes the transaction produced by a document
func (r *GormTransactionRepository) DeleteByReference(ctx context.Context, origin finance.TransactionOrigin, referenceID uuid.UUID) error {
	return dbFromContext(ctx, r.db).
		Delete(&models.TransactionModel{}, "origin = ? AND reference_id = ?", origin, referenceID).Error
}

// Ensure GormTransactionRepository implements the interface
var _ finance.TransactionRepository = (*GormTransactionRepository)(nil)
