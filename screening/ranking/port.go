package ranking

import (
	"context"

	"github.com/Abraxas-365/sift/pkg/kernel"
)

// Repository persists scoring run results. Implementations must make
// ReplaceForJob atomic: readers never observe a mix of two runs.
type Repository interface {
	// ReplaceForJob deletes all stored results for the job and inserts
	// the given set in a single transaction.
	ReplaceForJob(ctx context.Context, jobID kernel.JobID, results []*RankedResult) error

	// ListByJob returns results for a job ordered by rank ascending,
	// limited to the top N. limit <= 0 means no limit.
	ListByJob(ctx context.Context, jobID kernel.JobID, limit int) ([]*RankedResult, error)

	// DeleteByJob removes all results for a job
	DeleteByJob(ctx context.Context, jobID kernel.JobID) error

	// CountByJob returns the number of stored results for a job
	CountByJob(ctx context.Context, jobID kernel.JobID) (int64, error)
}
