package resumesrv

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/sift/internal/extract"
	"github.com/Abraxas-365/sift/pkg/errx"
	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/screening/resume"
)

const tenantID = kernel.TenantID("tenant-1")

// ============================================================================
// In-memory fakes
// ============================================================================

type memoryRepo struct {
	resumes map[kernel.ResumeID]*resume.Resume
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{resumes: make(map[kernel.ResumeID]*resume.Resume)}
}

func (r *memoryRepo) Create(_ context.Context, entity *resume.Resume) error {
	r.resumes[entity.ID] = entity
	return nil
}

func (r *memoryRepo) Update(_ context.Context, entity *resume.Resume) error {
	if _, ok := r.resumes[entity.ID]; !ok {
		return resume.ErrResumeNotFound()
	}
	r.resumes[entity.ID] = entity
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id kernel.ResumeID) (*resume.Resume, error) {
	entity, ok := r.resumes[id]
	if !ok {
		return nil, resume.ErrResumeNotFound()
	}
	return entity, nil
}

func (r *memoryRepo) ListByTenantID(_ context.Context, tenantID kernel.TenantID, pagination kernel.PaginationOptions) (*kernel.Paginated[resume.Resume], error) {
	items := []resume.Resume{}
	for _, entity := range r.resumes {
		if entity.TenantID == tenantID {
			items = append(items, *entity)
		}
	}
	return kernel.NewPaginated(items, int64(len(items)), pagination), nil
}

func (r *memoryRepo) ListActiveByTenantID(_ context.Context, tenantID kernel.TenantID) ([]*resume.Resume, error) {
	var items []*resume.Resume
	for _, entity := range r.resumes {
		if entity.TenantID == tenantID && entity.IsActive {
			items = append(items, entity)
		}
	}
	return items, nil
}

func (r *memoryRepo) Delete(_ context.Context, id kernel.ResumeID) error {
	if _, ok := r.resumes[id]; !ok {
		return resume.ErrResumeNotFound()
	}
	delete(r.resumes, id)
	return nil
}

func (r *memoryRepo) CountByTenantID(_ context.Context, tenantID kernel.TenantID) (int64, error) {
	var count int64
	for _, entity := range r.resumes {
		if entity.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

type memoryIngestRepo struct {
	jobs map[kernel.IngestJobID]*resume.IngestJob
}

func newMemoryIngestRepo() *memoryIngestRepo {
	return &memoryIngestRepo{jobs: make(map[kernel.IngestJobID]*resume.IngestJob)}
}

func (r *memoryIngestRepo) Create(_ context.Context, job *resume.IngestJob) error {
	stored := *job
	r.jobs[job.ID] = &stored
	return nil
}

func (r *memoryIngestRepo) Update(_ context.Context, job *resume.IngestJob) error {
	if _, ok := r.jobs[job.ID]; !ok {
		return resume.ErrIngestNotFound()
	}
	stored := *job
	r.jobs[job.ID] = &stored
	return nil
}

func (r *memoryIngestRepo) GetByID(_ context.Context, jobID kernel.IngestJobID) (*resume.IngestJob, error) {
	job, ok := r.jobs[jobID]
	if !ok {
		return nil, resume.ErrIngestNotFound()
	}
	copied := *job
	return &copied, nil
}

func (r *memoryIngestRepo) ListByTenantID(_ context.Context, tenantID kernel.TenantID, pagination kernel.PaginationOptions) (*kernel.Paginated[resume.IngestJob], error) {
	items := []resume.IngestJob{}
	for _, job := range r.jobs {
		if job.TenantID == tenantID {
			items = append(items, *job)
		}
	}
	return kernel.NewPaginated(items, int64(len(items)), pagination), nil
}

func (r *memoryIngestRepo) MarkAsProcessing(_ context.Context, jobID kernel.IngestJobID) error {
	job, ok := r.jobs[jobID]
	if !ok {
		return resume.ErrIngestNotFound()
	}
	if job.Status != resume.IngestStatusPending {
		return resume.ErrInvalidIngestStatus()
	}
	now := time.Now()
	job.Status = resume.IngestStatusProcessing
	job.StartedAt = &now
	return nil
}

func (r *memoryIngestRepo) MarkAsCompleted(_ context.Context, jobID kernel.IngestJobID, resumeID kernel.ResumeID) error {
	job, ok := r.jobs[jobID]
	if !ok {
		return resume.ErrIngestNotFound()
	}
	now := time.Now()
	job.Status = resume.IngestStatusCompleted
	job.ResumeID = &resumeID
	job.CompletedAt = &now
	job.ProgressPercentage = 100
	job.ErrorMessage = ""
	job.ErrorDetails = nil
	job.NextRetryAt = nil
	return nil
}

func (r *memoryIngestRepo) MarkAsFailed(_ context.Context, jobID kernel.IngestJobID, errorMsg string, errorDetails map[string]any) error {
	job, ok := r.jobs[jobID]
	if !ok {
		return resume.ErrIngestNotFound()
	}
	now := time.Now()
	job.Status = resume.IngestStatusFailed
	job.FailedAt = &now
	job.ErrorMessage = errorMsg
	job.ErrorDetails = errorDetails
	return nil
}

func (r *memoryIngestRepo) UpdateProgress(_ context.Context, jobID kernel.IngestJobID, step resume.IngestStep, percentage int) error {
	job, ok := r.jobs[jobID]
	if !ok {
		return resume.ErrIngestNotFound()
	}
	job.CurrentStep = &step
	job.ProgressPercentage = percentage
	return nil
}

type fakeQueue struct {
	enqueued []kernel.IngestJobID
	delayed  []kernel.IngestJobID
}

func (q *fakeQueue) Enqueue(_ context.Context, jobID kernel.IngestJobID, _ any) error {
	q.enqueued = append(q.enqueued, jobID)
	return nil
}

func (q *fakeQueue) Dequeue(context.Context, time.Duration) ([]byte, error) { return nil, nil }

func (q *fakeQueue) EnqueueDelayed(_ context.Context, jobID kernel.IngestJobID, _ any, _ time.Duration) error {
	q.delayed = append(q.delayed, jobID)
	return nil
}

func (q *fakeQueue) MoveDelayedToReady(context.Context) (int, error) { return 0, nil }
func (q *fakeQueue) GetQueueSize(context.Context) (int64, error)     { return int64(len(q.enqueued)), nil }
func (q *fakeQueue) GetDelayedQueueSize(context.Context) (int64, error) {
	return int64(len(q.delayed)), nil
}
func (q *fakeQueue) Clear(context.Context) error { return nil }

type fakeFileReader struct {
	files map[string][]byte
}

func (f *fakeFileReader) ReadFile(_ context.Context, path string) ([]byte, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return data, nil
}

// ============================================================================
// Fixtures
// ============================================================================

const sampleResumeText = `Jane Rivera
jane.rivera@example.com | (555) 123-4567

Backend engineer with 8 years of experience building services in
Python and Golang, deploying to Kubernetes on AWS.

Education: Master of Science in Computer Science`

func newTestService() (*Service, *memoryRepo, *memoryIngestRepo, *fakeQueue, *fakeFileReader) {
	repo := newMemoryRepo()
	ingestRepo := newMemoryIngestRepo()
	queue := &fakeQueue{}
	reader := &fakeFileReader{files: make(map[string][]byte)}
	svc := NewService(repo, ingestRepo, extract.NewResumeExtractor(nil), reader, queue)
	return svc, repo, ingestRepo, queue, reader
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, code, string(xerr.Code))
}

// ============================================================================
// Synchronous CRUD tests
// ============================================================================

func TestCreateFromTextExtractsFields(t *testing.T) {
	svc, repo, _, _, _ := newTestService()

	created, err := svc.CreateFromText(context.Background(), resume.CreateResumeRequest{
		TenantID: tenantID,
		RawText:  sampleResumeText,
	})
	require.NoError(t, err)

	assert.Equal(t, "Jane Rivera", created.CandidateName)
	assert.Equal(t, "jane.rivera@example.com", created.Email)
	assert.Equal(t, 8.0, created.ExperienceYears)
	assert.Equal(t, kernel.EducationMaster, created.Education)
	assert.Contains(t, created.SkillNames(), "python")
	assert.Contains(t, created.SkillNames(), "go")
	assert.True(t, created.IsActive)

	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, stored.ID)
}

func TestCreateFromTextRejectsEmptyText(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.CreateFromText(context.Background(), resume.CreateResumeRequest{
		TenantID: tenantID,
	})
	require.Error(t, err)
	assertCode(t, err, "RESUME.EMPTY_TEXT")
}

func TestGetResumeEnforcesTenant(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	created, err := svc.CreateFromText(context.Background(), resume.CreateResumeRequest{
		TenantID: tenantID,
		RawText:  sampleResumeText,
	})
	require.NoError(t, err)

	_, err = svc.GetResume(context.Background(), created.ID, kernel.TenantID("other-tenant"))
	require.Error(t, err)
	assertCode(t, err, "RESUME.TENANT_MISMATCH")
}

// ============================================================================
// Ingestion pipeline tests
// ============================================================================

func TestIngestResumeAsyncQueuesPendingJob(t *testing.T) {
	svc, _, ingestRepo, queue, _ := newTestService()

	status, err := svc.IngestResumeAsync(context.Background(), resume.IngestResumeRequest{
		TenantID: tenantID,
		FilePath: "resumes/tenant-1/jane.txt",
		FileName: "jane.txt",
		FileType: "txt",
	})
	require.NoError(t, err)
	assert.Equal(t, resume.IngestStatusPending, status.Status)

	job, err := ingestRepo.GetByID(context.Background(), status.JobID)
	require.NoError(t, err)
	assert.Equal(t, resume.IngestStatusPending, job.Status)
	assert.Equal(t, 3, job.MaxAttempts)
	assert.Equal(t, []kernel.IngestJobID{status.JobID}, queue.enqueued)
}

func TestProcessIngestJobCompletesTextFile(t *testing.T) {
	svc, repo, ingestRepo, _, reader := newTestService()
	ctx := context.Background()

	reader.files["resumes/tenant-1/jane.txt"] = []byte(sampleResumeText)

	status, err := svc.IngestResumeAsync(ctx, resume.IngestResumeRequest{
		TenantID: tenantID,
		FilePath: "resumes/tenant-1/jane.txt",
		FileName: "jane.txt",
		FileType: "txt",
	})
	require.NoError(t, err)

	job, err := ingestRepo.GetByID(ctx, status.JobID)
	require.NoError(t, err)
	require.NoError(t, svc.ProcessIngestJob(ctx, job))

	finished, err := ingestRepo.GetByID(ctx, status.JobID)
	require.NoError(t, err)
	assert.Equal(t, resume.IngestStatusCompleted, finished.Status)
	assert.Equal(t, 100, finished.ProgressPercentage)
	require.NotNil(t, finished.ResumeID)

	stored, err := repo.GetByID(ctx, *finished.ResumeID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Rivera", stored.CandidateName)
	assert.Equal(t, "jane.txt", stored.FileName)
	assert.True(t, stored.IsActive)
}

func TestProcessIngestJobRetriesOnReadFailure(t *testing.T) {
	svc, _, ingestRepo, queue, _ := newTestService()
	ctx := context.Background()

	status, err := svc.IngestResumeAsync(ctx, resume.IngestResumeRequest{
		TenantID: tenantID,
		FilePath: "resumes/tenant-1/missing.txt",
		FileName: "missing.txt",
		FileType: "txt",
	})
	require.NoError(t, err)

	job, err := ingestRepo.GetByID(ctx, status.JobID)
	require.NoError(t, err)

	err = svc.ProcessIngestJob(ctx, job)
	require.Error(t, err)
	assertCode(t, err, "RESUME.INGEST_FAILED")

	// Job goes back to pending with the retry scheduled
	updated, err := ingestRepo.GetByID(ctx, status.JobID)
	require.NoError(t, err)
	assert.Equal(t, resume.IngestStatusPending, updated.Status)
	assert.Equal(t, 1, updated.AttemptCount)
	require.NotNil(t, updated.NextRetryAt)
	assert.Equal(t, []kernel.IngestJobID{status.JobID}, queue.delayed)
}

func TestProcessIngestJobFailsPermanentlyAfterMaxAttempts(t *testing.T) {
	svc, _, ingestRepo, queue, _ := newTestService()
	ctx := context.Background()

	status, err := svc.IngestResumeAsync(ctx, resume.IngestResumeRequest{
		TenantID: tenantID,
		FilePath: "resumes/tenant-1/missing.txt",
		FileName: "missing.txt",
		FileType: "txt",
	})
	require.NoError(t, err)

	job, err := ingestRepo.GetByID(ctx, status.JobID)
	require.NoError(t, err)
	job.AttemptCount = job.MaxAttempts - 1

	err = svc.ProcessIngestJob(ctx, job)
	require.Error(t, err)
	assertCode(t, err, "RESUME.INGEST_MAX_RETRIES")

	failed, err := ingestRepo.GetByID(ctx, status.JobID)
	require.NoError(t, err)
	assert.Equal(t, resume.IngestStatusFailed, failed.Status)
	assert.Empty(t, queue.delayed)
}

func TestProcessIngestJobRejectsUnknownFileType(t *testing.T) {
	svc, _, ingestRepo, _, reader := newTestService()
	ctx := context.Background()

	reader.files["resumes/tenant-1/photo.png"] = []byte{0x89, 0x50}

	status, err := svc.IngestResumeAsync(ctx, resume.IngestResumeRequest{
		TenantID: tenantID,
		FilePath: "resumes/tenant-1/photo.png",
		FileName: "photo.png",
		FileType: "png",
	})
	require.NoError(t, err)

	job, err := ingestRepo.GetByID(ctx, status.JobID)
	require.NoError(t, err)

	err = svc.ProcessIngestJob(ctx, job)
	require.Error(t, err)

	var xerr *errx.Error
	require.True(t, errors.As(err, &xerr))
	assert.Equal(t, "invalid_file_type", xerr.Details["error_type"])
}

func TestRetryFailedIngestResetsAndRequeues(t *testing.T) {
	svc, _, ingestRepo, queue, _ := newTestService()
	ctx := context.Background()

	status, err := svc.IngestResumeAsync(ctx, resume.IngestResumeRequest{
		TenantID: tenantID,
		FilePath: "resumes/tenant-1/missing.txt",
		FileName: "missing.txt",
		FileType: "txt",
	})
	require.NoError(t, err)

	require.NoError(t, ingestRepo.MarkAsFailed(ctx, status.JobID, "file_read_failed", nil))

	retried, err := svc.RetryFailedIngest(ctx, status.JobID, tenantID)
	require.NoError(t, err)
	assert.Equal(t, resume.IngestStatusPending, retried.Status)

	job, err := ingestRepo.GetByID(ctx, status.JobID)
	require.NoError(t, err)
	assert.Equal(t, 0, job.AttemptCount)
	assert.Empty(t, job.ErrorMessage)
	assert.Len(t, queue.enqueued, 2)
}

func TestRetryFailedIngestRejectsNonFailedJob(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	ctx := context.Background()

	status, err := svc.IngestResumeAsync(ctx, resume.IngestResumeRequest{
		TenantID: tenantID,
		FilePath: "resumes/tenant-1/jane.txt",
		FileName: "jane.txt",
		FileType: "txt",
	})
	require.NoError(t, err)

	_, err = svc.RetryFailedIngest(ctx, status.JobID, tenantID)
	require.Error(t, err)
	assertCode(t, err, "RESUME.INVALID_INGEST_STATUS")
}

func TestGetIngestStatusEnforcesTenant(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	ctx := context.Background()

	status, err := svc.IngestResumeAsync(ctx, resume.IngestResumeRequest{
		TenantID: tenantID,
		FilePath: "resumes/tenant-1/jane.txt",
		FileName: "jane.txt",
		FileType: "txt",
	})
	require.NoError(t, err)

	_, err = svc.GetIngestStatus(ctx, status.JobID, kernel.TenantID("other-tenant"))
	require.Error(t, err)
	assertCode(t, err, "RESUME.TENANT_MISMATCH")
}

func TestGetIngestStatsAggregates(t *testing.T) {
	svc, _, ingestRepo, _, reader := newTestService()
	ctx := context.Background()

	reader.files["resumes/tenant-1/jane.txt"] = []byte(sampleResumeText)

	completed, err := svc.IngestResumeAsync(ctx, resume.IngestResumeRequest{
		TenantID: tenantID,
		FilePath: "resumes/tenant-1/jane.txt",
		FileName: "jane.txt",
		FileType: "txt",
	})
	require.NoError(t, err)
	job, err := ingestRepo.GetByID(ctx, completed.JobID)
	require.NoError(t, err)
	require.NoError(t, svc.ProcessIngestJob(ctx, job))

	_, err = svc.IngestResumeAsync(ctx, resume.IngestResumeRequest{
		TenantID: tenantID,
		FilePath: "resumes/tenant-1/pending.txt",
		FileName: "pending.txt",
		FileType: "txt",
	})
	require.NoError(t, err)

	stats, err := svc.GetIngestStats(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalJobs)
	assert.Equal(t, 1, stats.CompletedJobs)
	assert.Equal(t, 1, stats.PendingJobs)
	require.NotNil(t, stats.LastCompletedJob)
	require.NotNil(t, stats.OldestPendingJob)
}
