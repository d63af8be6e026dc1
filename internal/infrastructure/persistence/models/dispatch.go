package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
)

// DispatchJobModel is the persistence model for document dispatch jobs.
type DispatchJobModel struct {
	ID          uuid.UUID             `gorm:"type:uuid;primary_key"`
	Kind        shared.DispatchKind   `gorm:"type:varchar(40);not null;index"`
	ReferenceID uuid.UUID             `gorm:"type:uuid;not null;index"`
	Payload     []byte                `gorm:"type:jsonb"`
	Status      shared.DispatchStatus `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_dispatch_status_retry,priority:1"`
	Attempts    int                   `gorm:"not null;default:0"`
	MaxAttempts int                   `gorm:"not null;default:5"`
	LastError   string                `gorm:"type:text"`
	NextRetryAt *time.Time            `gorm:"index:idx_dispatch_status_retry,priority:2"`
	ProcessedAt *time.Time
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DispatchJobModel) TableName() string {
	return "dispatch_jobs"
}

// ToDomain converts the persistence model to a domain DispatchJob.
func (m *DispatchJobModel) ToDomain() *shared.DispatchJob {
	return &shared.DispatchJob{
		ID:          m.ID,
		Kind:        m.Kind,
		ReferenceID: m.ReferenceID,
		Payload:     m.Payload,
		Status:      m.Status,
		Attempts:    m.Attempts,
		MaxAttempts: m.MaxAttempts,
		LastError:   m.LastError,
		NextRetryAt: m.NextRetryAt,
		ProcessedAt: m.ProcessedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain DispatchJob.
func (m *DispatchJobModel) FromDomain(j *shared.DispatchJob) {
	m.ID = j.ID
	m.Kind = j.Kind
	m.ReferenceID = j.ReferenceID
	m.Payload = j.Payload
	m.Status = j.Status
	m.Attempts = j.Attempts
	m.MaxAttempts = j.MaxAttempts
	m.LastError = j.LastError
	m.NextRetryAt = j.NextRetryAt
	m.ProcessedAt = j.ProcessedAt
	m.CreatedAt = j.CreatedAt
	m.UpdatedAt = j.UpdatedAt
}
