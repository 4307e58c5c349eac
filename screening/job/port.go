package job

import (
	"context"

	"github.com/Abraxas-365/sift/pkg/kernel"
)

type Repository interface {
	// Create creates a new job
	Create(ctx context.Context, job *Job) error

	// Update updates an existing job
	Update(ctx context.Context, job *Job) error

	// GetByID retrieves a job by ID
	GetByID(ctx context.Context, id kernel.JobID) (*Job, error)

	// Delete deletes a job by ID
	Delete(ctx context.Context, id kernel.JobID) error

	// List retrieves all jobs with pagination
	List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[Job], error)

	// ListByStatus retrieves jobs in a given status
	ListByStatus(ctx context.Context, status JobStatus, pagination kernel.PaginationOptions) (*kernel.Paginated[Job], error)

	// Exists checks if a job exists by ID
	Exists(ctx context.Context, id kernel.JobID) (bool, error)
}
