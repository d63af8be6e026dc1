package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DispatchStatus represents the status of a document dispatch job
type DispatchStatus string

const (
	DispatchStatusPending    DispatchStatus = "PENDING"
	DispatchStatusProcessing DispatchStatus = "PROCESSING"
	DispatchStatusSent       DispatchStatus = "SENT"
	DispatchStatusSkipped    DispatchStatus = "SKIPPED"
	DispatchStatusDead       DispatchStatus = "DEAD"
)

// DispatchKind identifies what kind of document a job delivers
type DispatchKind string

const (
	DispatchKindAppointmentDocs DispatchKind = "cita.documentos"
	DispatchKindInvoiceEmail    DispatchKind = "factura.email"
	DispatchKindReceiptEmail    DispatchKind = "recibo.email"
	DispatchKindPasswordReset   DispatchKind = "password.reset"
)

// Default retry configuration
const (
	DefaultMaxAttempts = 5
	DefaultBaseBackoff = time.Second
)

// DispatchJob is a pending side effect recorded in the same transaction
// as the documents it delivers. A background dispatcher renders the PDFs
// and sends the email after the commit, so a renderer or SMTP failure can
// never roll back a finalized appointment.
type DispatchJob struct {
	ID          uuid.UUID
	Kind        DispatchKind
	ReferenceID uuid.UUID
	Payload     []byte
	Status      DispatchStatus
	Attempts    int
	MaxAttempts int
	LastError   string
	NextRetryAt *time.Time
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewDispatchJob creates a pending dispatch job
func NewDispatchJob(kind DispatchKind, referenceID uuid.UUID, payload []byte) *DispatchJob {
	now := time.Now().UTC()
	return &DispatchJob{
		ID:          uuid.New(),
		Kind:        kind,
		ReferenceID: referenceID,
		Payload:     payload,
		Status:      DispatchStatusPending,
		MaxAttempts: DefaultMaxAttempts,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// MarkProcessing flags the job as picked up by the dispatcher
func (j *DispatchJob) MarkProcessing() error {
	if j.Status != DispatchStatusPending {
		return NewDomainError("INVALID_STATE", "Only pending jobs can start processing")
	}
	j.Status = DispatchStatusProcessing
	j.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkSent flags the job as delivered
func (j *DispatchJob) MarkSent() {
	now := time.Now().UTC()
	j.Status = DispatchStatusSent
	j.ProcessedAt = &now
	j.UpdatedAt = now
}

// MarkSkipped resolves a job that has nowhere to go, typically because
// the client has no email address
func (j *DispatchJob) MarkSkipped(reason string) {
	now := time.Now().UTC()
	j.Status = DispatchStatusSkipped
	j.LastError = reason
	j.ProcessedAt = &now
	j.UpdatedAt = now
}

// MarkFailed records a delivery failure and schedules the retry with
// exponential backoff. After MaxAttempts the job goes dead.
func (j *DispatchJob) MarkFailed(errMsg string) {
	j.Attempts++
	j.LastError = errMsg
	j.UpdatedAt = time.Now().UTC()

	if j.Attempts >= j.MaxAttempts {
		j.Status = DispatchStatusDead
		j.NextRetryAt = nil
		return
	}
	j.Status = DispatchStatusPending
	backoff := DefaultBaseBackoff * time.Duration(1<<uint(j.Attempts-1))
	next := time.Now().UTC().Add(backoff)
	j.NextRetryAt = &next
}

// IsDead returns true if the job exhausted its attempts
func (j *DispatchJob) IsDead() bool {
	return j.Status == DispatchStatusDead
}

// AppointmentDocsPayload is the payload of a cita.documentos job. It
// pins the exact documents the finalization produced so the dispatcher
// never has to guess which invoice or receipt belongs to the email.
type AppointmentDocsPayload struct {
	ClientID   uuid.UUID  `json:"clienteId"`
	InvoiceID  *uuid.UUID `json:"facturaId,omitempty"`
	ReceiptID  *uuid.UUID `json:"reciboId,omitempty"`
	WarrantyID *uuid.UUID `json:"garantiaId,omitempty"`
}

// InvoiceEmailPayload is the payload of a factura.email job
type InvoiceEmailPayload struct {
	ClientID  uuid.UUID `json:"clienteId"`
	InvoiceID uuid.UUID `json:"facturaId"`
}

// ReceiptEmailPayload is the payload of a recibo.email job
type ReceiptEmailPayload struct {
	ClientID  uuid.UUID `json:"clienteId"`
	ReceiptID uuid.UUID `json:"reciboId"`
}

// PasswordResetPayload is the payload of a password.reset job
type PasswordResetPayload struct {
	UserID    uuid.UUID `json:"usuarioId"`
	UserName  string    `json:"nombre"`
	Email     string    `json:"email"`
	ResetLink string    `json:"enlace"`
}

// DispatchRepository defines persistence for dispatch jobs
type DispatchRepository interface {
	Save(ctx context.Context, jobs ...*DispatchJob) error
	FindDue(ctx context.Context, now time.Time, limit int) ([]*DispatchJob, error)
	FindByID(ctx context.Context, id uuid.UUID) (*DispatchJob, error)
	Update(ctx context.Context, job *DispatchJob) error
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
	CountByStatus(ctx context.Context) (map[DispatchStatus]int64, error)
}
