package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
	"github.com/francisjavinico/backend-tintado/internal/domain/warranty"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/persistence/models"
)

// GormWarrantyRepository implements warranty.Repository using GORM
type GormWarrantyRepository struct {
	db *gorm.DB
}

// NewGormWarrantyRepository creates a new GormWarrantyRepository
func NewGormWarrantyRepository(db *gorm.DB) *GormWarrantyRepository {
	return &GormWarrantyRepository{db: db}
}

// FindByID finds a warranty by ID
func (r *GormWarrantyRepository) FindByID(ctx context.Context, id uuid.UUID) (*warranty.Warranty, error) {
	var model models.WarrantyModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAppointmentID finds the warranty issued for an appointment
func (r *GormWarrantyRepository) FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*warranty.Warranty, error) {
	var model models.WarrantyModel
	if err := dbFromContext(ctx, r.db).First(&model, "appointment_id = ?", appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByClientID finds a client's warranties, newest first
func (r *GormWarrantyRepository) FindByClientID(ctx context.Context, clientID uuid.UUID) ([]warranty.Warranty, error) {
	var warrantyModels []models.WarrantyModel
	if err := dbFromContext(ctx, r.db).
		Where("client_id = ?", clientID).
		Order("start_date DESC").
		Find(&warrantyModels).Error; err != nil {
		return nil, err
	}
	warranties := make([]warranty.Warranty, len(warrantyModels))
	for i, m := range warrantyModels {
		warranties[i] = *m.ToDomain()
	}
	return warranties, nil
}

// FindAll finds warranties with pagination, newest first
func (r *GormWarrantyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]warranty.Warranty, int64, error) {
	query := dbFromContext(ctx, r.db).Model(&models.WarrantyModel{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var warrantyModels []models.WarrantyModel
	if err := query.
		Order("start_date DESC").
		Limit(filter.Limit()).
		Offset(filter.Offset()).
		Find(&warrantyModels).Error; err != nil {
		return nil, 0, err
	}

	warranties := make([]warranty.Warranty, len(warrantyModels))
	for i, m := range warrantyModels {
		warranties[i] = *m.ToDomain()
	}
	return warranties, total, nil
}

// Save creates a warranty
func (r *GormWarrantyRepository) Save(ctx context.Context, w *warranty.Warranty) error {
	model := &models.WarrantyModel{}
	model.FromDomain(w)
	return dbFromContext(ctx, r.db).Create(model).Error
}

// Update updates a warranty
func (r *GormWarrantyRepository) Update(ctx context.Context, w *warranty.Warranty) error {
	model := &models.WarrantyModel{}
	model.FromDomain(w)
	return dbFromContext(ctx, r.db).Save(model).Error
}

// Delete deletes a warranty
func (r *GormWarrantyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFromContext(ctx, r.db).Delete(&models.WarrantyModel{}, "id = ?", id).Error
}

// Ensure GormWarrantyRepository implements the interface
var _ warranty.Repository = (*GormWarrantyRepository)(nil)
