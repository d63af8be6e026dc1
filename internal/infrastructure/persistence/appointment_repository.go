package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/francisjavinico/backend-tintado/internal/domain/scheduling"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/persistence/models"
)

// GormAppointmentRepository implements AppointmentRepository using GORM
type GormAppointmentRepository struct {
	db *gorm.DB
}

// NewGormAppointmentRepository creates a new GormAppointmentRepository
func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

// FindByID finds an appointment with its service rows
func (r *GormAppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*scheduling.Appointment, error) {
	var model models.AppointmentModel
	if err := dbFromContext(ctx, r.db).
		Preload("Services", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByScheduledAt finds an appointment by its exact slot
func (r *GormAppointmentRepository) FindByScheduledAt(ctx context.Context, at time.Time) (*scheduling.Appointment, error) {
	var model models.AppointmentModel
	if err := dbFromContext(ctx, r.db).
		Preload("Services", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&model, "scheduled_at = ?", at.UTC()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds appointments with filtering, newest first
func (r *GormAppointmentRepository) FindAll(ctx context.Context, filter scheduling.AppointmentFilter) ([]scheduling.Appointment, int64, error) {
	query := dbFromContext(ctx, r.db).Model(&models.AppointmentModel{})

	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		query = query.Where("scheduled_at >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("scheduled_at <= ?", filter.To.UTC())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var appointmentModels []models.AppointmentModel
	if err := query.
		Preload("Services", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("scheduled_at DESC").
		Limit(filter.Limit()).
		Offset(filter.Offset()).
		Find(&appointmentModels).Error; err != nil {
		return nil, 0, err
	}

	appointments := make([]scheduling.Appointment, len(appointmentModels))
	for i, m := range appointmentModels {
		appointments[i] = *m.ToDomain()
	}
	return appointments, total, nil
}

// FindPendingBetween finds pending appointments inside a time window,
// earliest first
func (r *GormAppointmentRepository) FindPendingBetween(ctx context.Context, from, to time.Time) ([]scheduling.Appointment, error) {
	var appointmentModels []models.AppointmentModel
	if err := dbFromContext(ctx, r.db).
		Preload("Services", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("status = ? AND scheduled_at >= ? AND scheduled_at < ?", scheduling.AppointmentStatusPending, from.UTC(), to.UTC()).
		Order("scheduled_at ASC").
		Find(&appointmentModels).Error; err != nil {
		return nil, err
	}
	appointments := make([]scheduling.Appointment, len(appointmentModels))
	for i, m := range appointmentModels {
		appointments[i] = *m.ToDomain()
	}
	return appointments, nil
}

// CountByStatus counts appointments in one status
func (r *GormAppointmentRepository) CountByStatus(ctx context.Context, status scheduling.AppointmentStatus) (int64, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).
		Model(&models.AppointmentModel{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates an appointment with its service rows
func (r *GormAppointmentRepository) Save(ctx context.Context, appointment *scheduling.Appointment) error {
	model := &models.AppointmentModel{}
	model.FromDomain(appointment)
	return dbFromContext(ctx, r.db).Create(model).Error
}

// Update rewrites the appointment and replaces its service rows wholesale
func (r *GormAppointmentRepository) Update(ctx context.Context, appointment *scheduling.Appointment) error {
	db := dbFromContext(ctx, r.db)
	model := &models.AppointmentModel{}
	model.FromDomain(appointment)

	if err := db.Delete(&models.AppointmentServiceModel{}, "appointment_id = ?", appointment.ID).Error; err != nil {
		return err
	}
	return db.Session(&gorm.Session{FullSaveAssociations: true}).Save(model).Error
}

// Delete deletes an appointment; service rows cascade
func (r *GormAppointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := dbFromContext(ctx, r.db)
	if err := db.Delete(&models.AppointmentServiceModel{}, "appointment_id = ?", id).Error; err != nil {
		return err
	}
	return db.Delete(&models.AppointmentModel{}, "id = ?", id).Error
}

// Ensure GormAppointmentRepository implements the interface
var _ scheduling.AppointmentRepository = (*GormAppointmentRepository)(nil)
