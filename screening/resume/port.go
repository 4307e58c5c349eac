package resume

import (
	"context"
	"time"

	"github.com/Abraxas-365/sift/pkg/kernel"
)

type Repository interface {
	// Create creates a new resume
	Create(ctx context.Context, resume *Resume) error

	// Update updates an existing resume
	Update(ctx context.Context, resume *Resume) error

	// GetByID retrieves a resume by ID
	GetByID(ctx context.Context, id kernel.ResumeID) (*Resume, error)

	// ListByTenantID retrieves resumes for a tenant with pagination
	ListByTenantID(ctx context.Context, tenantID kernel.TenantID, pagination kernel.PaginationOptions) (*kernel.Paginated[Resume], error)

	// ListActiveByTenantID retrieves every active resume for a tenant.
	// Ranking batches score all of these, so no pagination.
	ListActiveByTenantID(ctx context.Context, tenantID kernel.TenantID) ([]*Resume, error)

	// Delete deletes a resume
	Delete(ctx context.Context, id kernel.ResumeID) error

	// CountByTenantID counts resumes for a tenant
	CountByTenantID(ctx context.Context, tenantID kernel.TenantID) (int64, error)
}

type IngestRepository interface {
	Create(ctx context.Context, job *IngestJob) error
	Update(ctx context.Context, job *IngestJob) error
	GetByID(ctx context.Context, jobID kernel.IngestJobID) (*IngestJob, error)
	ListByTenantID(ctx context.Context, tenantID kernel.TenantID, pagination kernel.PaginationOptions) (*kernel.Paginated[IngestJob], error)

	// Update status helpers
	MarkAsProcessing(ctx context.Context, jobID kernel.IngestJobID) error
	MarkAsCompleted(ctx context.Context, jobID kernel.IngestJobID, resumeID kernel.ResumeID) error
	MarkAsFailed(ctx context.Context, jobID kernel.IngestJobID, errorMsg string, errorDetails map[string]any) error
	UpdateProgress(ctx context.Context, jobID kernel.IngestJobID, step IngestStep, percentage int) error
}

// JobQueue defines the interface for ingest queue operations
type JobQueue interface {
	// Enqueue adds a job to the queue
	Enqueue(ctx context.Context, jobID kernel.IngestJobID, payload any) error

	// Dequeue gets a job from the queue (blocking with timeout)
	Dequeue(ctx context.Context, timeout time.Duration) ([]byte, error)

	// EnqueueDelayed schedules a job for later processing (for retries)
	EnqueueDelayed(ctx context.Context, jobID kernel.IngestJobID, payload any, delay time.Duration) error

	// MoveDelayedToReady moves delayed jobs that are ready to the main queue
	MoveDelayedToReady(ctx context.Context) (int, error)

	// GetQueueSize returns the number of jobs in the queue
	GetQueueSize(ctx context.Context) (int64, error)

	// GetDelayedQueueSize returns the number of delayed jobs
	GetDelayedQueueSize(ctx context.Context) (int64, error)

	// Clear removes all jobs from the queue (use with caution)
	Clear(ctx context.Context) error
}
