package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/francisjavinico/backend-tintado/internal/domain/identity"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/persistence/models"
)

// GormResetTokenRepository implements identity.ResetTokenRepository using GORM
type GormResetTokenRepository struct {
	db *gorm.DB
}

// NewGormResetTokenRepository creates a new GormResetTokenRepository
func NewGormResetTokenRepository(db *gorm.DB) *GormResetTokenRepository {
	return &GormResetTokenRepository{db: db}
}

// FindByToken finds a reset token by its value
func (r *GormResetTokenRepository) FindByToken(ctx context.Context, token string) (*identity.PasswordResetToken, error) {
	var model models.ResetTokenModel
	if err := dbFromContext(ctx, r.db).First(&model, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates a reset token
func (r *GormResetTokenRepository) Save(ctx context.Context, token *identity.PasswordResetToken) error {
	model := &models.ResetTokenModel{}
	model.FromDomain(token)
	return dbFromContext(ctx, r.db).Create(model).Error
}

// Update updates a reset token
func (r *GormResetTokenRepository) Update(ctx context.Context, token *identity.PasswordResetToken) error {
	model := &models.ResetTokenModel{}
	model.FromDomain(token)
	return dbFromContext(ctx, r.db).Save(model).Error
}

// DeleteExpired removes tokens that expired before the given instant and
// returns how many were removed
func (r *GormResetTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := dbFromContext(ctx, r.db).
		Where("expires_at < ?", before).
		Delete(&models.ResetTokenModel{})
	return result.RowsAffected, result.Error
}

// Ensure GormResetTokenRepository implements the interface
var _ identity.ResetTokenRepository = (*GormResetTokenRepository)(nil)
