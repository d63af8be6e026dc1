package outbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/config"
)

// SkipError resolves a job without delivering it, typically because the
// client has no email address.
type SkipError struct {
	Reason string
}

// Error implements the error interface
func (e *SkipError) Error() string {
	return "dispatch skipped: " + e.Reason
}

// Skip creates a SkipError
func Skip(reason string) error {
	return &SkipError{Reason: reason}
}

// HandlerFunc processes one dispatch job. Returning nil marks the job
// sent; returning a SkipError marks it skipped; any other error
// schedules a retry.
type HandlerFunc func(ctx context.Context, job *shared.DispatchJob) error

// Dispatcher drains the dispatch job table in the background. Jobs are
// written in the same transaction as the documents they deliver, so the
// dispatcher is the only place renderer and SMTP failures surface.
type Dispatcher struct {
	repo     shared.DispatchRepository
	cfg      config.DispatchConfig
	logger   *zap.Logger
	handlers map[shared.DispatchKind]HandlerFunc

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(repo shared.DispatchRepository, cfg config.DispatchConfig, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		repo:     repo,
		cfg:      cfg,
		logger:   logger,
		handlers: make(map[shared.DispatchKind]HandlerFunc),
	}
}

// Register binds a handler to a job kind. Must be called before Start.
func (d *Dispatcher) Register(kind shared.DispatchKind, handler HandlerFunc) {
	d.handlers[kind] = handler
}

// Start launches the polling loop
func (d *Dispatcher) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.run(ctx)
	}()
}

// Stop cancels the loop and waits for in-flight jobs to settle
func (d *Dispatcher) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	cleanup := time.NewTicker(time.Hour)
	defer cleanup.Stop()

	d.logger.Info("dispatch loop started",
		zap.Duration("poll_interval", d.cfg.PollInterval),
		zap.Int("batch_size", d.cfg.BatchSize))

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("dispatch loop stopped")
			return
		case <-ticker.C:
			d.drain(ctx)
		case <-cleanup.C:
			d.cleanup(ctx)
		}
	}
}

// drain processes one batch of due jobs
func (d *Dispatcher) drain(ctx context.Context) {
	jobs, err := d.repo.FindDue(ctx, time.Now().UTC(), d.cfg.BatchSize)
	if err != nil {
		d.logger.Error("failed to fetch due dispatch jobs", zap.Error(err))
		return
	}

	for _, job := range jobs {
		if ctx.Err() != nil {
			return
		}
		d.process(ctx, job)
	}
}

func (d *Dispatcher) process(ctx context.Context, job *shared.DispatchJob) {
	log := d.logger.With(
		zap.String("job_id", job.ID.String()),
		zap.String("kind", string(job.Kind)),
		zap.Int("attempt", job.Attempts+1))

	handler, ok := d.handlers[job.Kind]
	if !ok {
		job.MarkFailed(fmt.Sprintf("no handler registered for kind %s", job.Kind))
		if err := d.repo.Update(ctx, job); err != nil {
			log.Error("failed to persist job state", zap.Error(err))
		}
		log.Error("no handler for dispatch kind")
		return
	}

	if err := job.MarkProcessing(); err != nil {
		log.Warn("job not in a processable state", zap.Error(err))
		return
	}
	if err := d.repo.Update(ctx, job); err != nil {
		log.Error("failed to claim job", zap.Error(err))
		return
	}

	err := handler(ctx, job)
	switch {
	case err == nil:
		job.MarkSent()
		log.Info("dispatch job delivered")
	default:
		var skip *SkipError
		if errors.As(err, &skip) {
			job.MarkSkipped(skip.Reason)
			log.Info("dispatch job skipped", zap.String("reason", skip.Reason))
		} else {
			job.MarkFailed(err.Error())
			if job.IsDead() {
				log.Error("dispatch job exhausted its retries", zap.Error(err))
			} else {
				log.Warn("dispatch job failed, will retry", zap.Error(err),
					zap.Timep("next_retry_at", job.NextRetryAt))
			}
		}
	}

	if err := d.repo.Update(ctx, job); err != nil {
		log.Error("failed to persist job state", zap.Error(err))
	}
}

// cleanup removes resolved jobs past the retention window
func (d *Dispatcher) cleanup(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-d.cfg.CleanupRetention)
	removed, err := d.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		d.logger.Error("dispatch cleanup failed", zap.Error(err))
		return
	}
	if removed > 0 {
		d.logger.Info("dispatch cleanup", zap.Int64("removed", removed))
	}
}
