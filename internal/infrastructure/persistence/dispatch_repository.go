package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/persistence/models"
)

// GormDispatchRepository implements shared.DispatchRepository using GORM
type GormDispatchRepository struct {
	db *gorm.DB
}

// NewGormDispatchRepository creates a new GormDispatchRepository
func NewGormDispatchRepository(db *gorm.DB) *GormDispatchRepository {
	return &GormDispatchRepository{db: db}
}

// Save creates one or more dispatch jobs. Called inside the transaction
// that produces the documents the jobs deliver.
func (r *GormDispatchRepository) Save(ctx context.Context, jobs ...*shared.DispatchJob) error {
	if len(jobs) == 0 {
		return nil
	}
	jobModels := make([]models.DispatchJobModel, len(jobs))
	for i, job := range jobs {
		jobModels[i].FromDomain(job)
	}
	return dbFromContext(ctx, r.db).Create(&jobModels).Error
}

// FindDue returns pending jobs whose retry time has passed, oldest first
func (r *GormDispatchRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*shared.DispatchJob, error) {
	var jobModels []models.DispatchJobModel
	if err := dbFromContext(ctx, r.db).
		Where("status = ? AND (next_retry_at IS NULL OR next_retry_at <= ?)", shared.DispatchStatusPending, now).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobModels).Error; err != nil {
		return nil, err
	}
	jobs := make([]*shared.DispatchJob, len(jobModels))
	for i, m := range jobModels {
		jobs[i] = m.ToDomain()
	}
	return jobs, nil
}

// FindByID finds a dispatch job by ID
func (r *GormDispatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.DispatchJob, error) {
	var model models.DispatchJobModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Update updates a dispatch job
func (r *GormDispatchRepository) Update(ctx context.Context, job *shared.DispatchJob) error {
	model := &models.DispatchJobModel{}
	model.FromDomain(job)
	return dbFromContext(ctx, r.db).Save(model).Error
}

// DeleteOlderThan removes resolved jobs older than the given cutoff and
// returns how many were removed
func (r *GormDispatchRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result := dbFromContext(ctx, r.db).
		Where("status IN ? AND updated_at < ?",
			[]shared.DispatchStatus{shared.DispatchStatusSent, shared.DispatchStatusSkipped, shared.DispatchStatusDead},
			before).
		Delete(&models.DispatchJobModel{})
	return result.RowsAffected, result.Error
}

// CountByStatus returns how many jobs are in each status
func (r *GormDispatchRepository) CountByStatus(ctx context.Context) (map[shared.DispatchStatus]int64, error) {
	type statusCount struct {
		Status shared.DispatchStatus
		Count  int64
	}
	var rows []statusCount
	if err := dbFromContext(ctx, r.db).
		Model(&models.DispatchJobModel{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[shared.DispatchStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Ensure GormDispatchRepository implements the interface
var _ shared.DispatchRepository = (*GormDispatchRepository)(nil)
