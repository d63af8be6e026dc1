package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/francisjavinico/backend-tintado/internal/domain/billing"
	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/persistence/models"
)

// GormSequenceAllocator allocates year-scoped document numbers from a
// per-(kind, year) counter row. The row is taken with a row lock, so two
// transactions creating documents concurrently serialize on the counter
// and can never be handed the same number. Because the counter only moves
// forward, numbers of deleted documents are never reissued.
type GormSequenceAllocator struct {
	db *gorm.DB
}

// NewGormSequenceAllocator creates a new GormSequenceAllocator
func NewGormSequenceAllocator(db *gorm.DB) *GormSequenceAllocator {
	return &GormSequenceAllocator{db: db}
}

// Next returns the next number in the (kind, year) series. It must run
// inside the transaction that persists the document so the increment
// rolls back with it.
func (a *GormSequenceAllocator) Next(ctx context.Context, kind billing.SequenceKind, year int) (int64, error) {
	if !kind.IsValid() {
		return 0, shared.NewDomainError("INVALID_SEQUENCE_KIND", "Unknown document series")
	}
	db := dbFromContext(ctx, a.db)

	var row models.DocumentSequenceModel
	err := lockForUpdate(db).
		First(&row, "kind = ? AND year = ?", kind, year).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
		// First document of this series and year. The insert conflict
		// clause covers two transactions racing to create the row.
		row = models.DocumentSequenceModel{Kind: kind, Year: year, LastNumber: 0}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return 0, err
		}
		if err := lockForUpdate(db).
			First(&row, "kind = ? AND year = ?", kind, year).Error; err != nil {
			return 0, err
		}
	}

	row.LastNumber++
	if err := db.Model(&models.DocumentSequenceModel{}).
		Where("kind = ? AND year = ?", kind, year).
		Update("last_number", row.LastNumber).Error; err != nil {
		return 0, err
	}
	return row.LastNumber, nil
}

// lockForUpdate takes a row lock where the dialect supports one. SQLite
// has no FOR UPDATE and serializes writers on its own.
func lockForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Ensure GormSequenceAllocator implements the interface
var _ billing.SequenceAllocator = (*GormSequenceAllocator)(nil)
