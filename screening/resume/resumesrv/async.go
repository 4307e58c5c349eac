package resumesrv

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Abraxas-365/sift/internal/pdf"
	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/pkg/logx"
	"github.com/Abraxas-365/sift/screening/resume"
)

// IngestResumeAsync queues a stored resume file for background
// ingestion and returns the job handle.
func (s *Service) IngestResumeAsync(ctx context.Context, req resume.IngestResumeRequest) (*resume.IngestStatusResponse, error) {
	logx.Infof("Queueing resume for ingestion: TenantID=%s, File=%s", req.TenantID, req.FileName)

	count, err := s.repo.CountByTenantID(ctx, req.TenantID)
	if err != nil {
		return nil, resume.ErrRegistry.NewWithCause(resume.CodeIngestCreationFailed, err).
			WithDetail("tenant_id", req.TenantID.String())
	}
	if count >= MaxResumesPerTenant {
		return nil, resume.ErrMaxResumesExceeded().
			WithDetail("tenant_id", req.TenantID.String()).
			WithDetail("current_count", count).
			WithDetail("max_allowed", MaxResumesPerTenant)
	}

	jobID := kernel.NewIngestJobID(uuid.NewString())
	job := &resume.IngestJob{
		ID:             jobID,
		TenantID:       req.TenantID,
		Status:         resume.IngestStatusPending,
		FilePath:       req.FilePath,
		FileName:       req.FileName,
		FileType:       req.FileType,
		MaxAttempts:    3,
		CreatedAt:      time.Now(),
		RequestPayload: req,
	}

	if err := s.ingestRepo.Create(ctx, job); err != nil {
		return nil, resume.ErrIngestCreationFailed().
			WithDetail("tenant_id", req.TenantID.String()).
			WithDetail("file_name", req.FileName).
			WithDetail("error", err.Error())
	}

	if err := s.queue.Enqueue(ctx, jobID, job); err != nil {
		_ = s.ingestRepo.MarkAsFailed(ctx, jobID, "failed to enqueue", map[string]any{
			"error": err.Error(),
		})
		return nil, resume.ErrQueueEnqueueFailed().
			WithDetail("job_id", jobID.String()).
			WithDetail("error", err.Error())
	}

	logx.Infof("Ingest job queued: JobID=%s", jobID)

	return &resume.IngestStatusResponse{
		JobID:     jobID,
		TenantID:  req.TenantID,
		Status:    resume.IngestStatusPending,
		Message:   "Resume queued for processing",
		CreatedAt: job.CreatedAt,
	}, nil
}

// ProcessIngestJob runs one ingest job: read the file, extract text and
// structured fields, save the resume. Called by queue workers.
func (s *Service) ProcessIngestJob(ctx context.Context, job *resume.IngestJob) error {
	logx.Infof("Processing ingest job: JobID=%s, Attempt=%d/%d", job.ID, job.AttemptCount+1, job.MaxAttempts)

	if err := s.ingestRepo.MarkAsProcessing(ctx, job.ID); err != nil {
		return resume.ErrIngestUpdateFailed().
			WithDetail("job_id", job.ID.String()).
			WithDetail("error", err.Error())
	}

	_ = s.ingestRepo.UpdateProgress(ctx, job.ID, resume.StepReading, 25)

	fileData, err := s.fileReader.ReadFile(ctx, job.FilePath)
	if err != nil {
		return s.handleIngestError(ctx, job, "file_read_failed", err)
	}

	_ = s.ingestRepo.UpdateProgress(ctx, job.ID, resume.StepExtracting, 50)

	var text string
	switch job.FileType {
	case "pdf":
		text, err = pdf.ExtractText(fileData)
	case "txt", "text":
		text = string(fileData)
	default:
		return s.handleIngestError(ctx, job, "invalid_file_type",
			fmt.Errorf("unsupported file type: %s", job.FileType))
	}
	if err != nil {
		return s.handleIngestError(ctx, job, "text_extraction_failed", err)
	}
	if text == "" {
		return s.handleIngestError(ctx, job, "empty_text",
			fmt.Errorf("no text extracted from %s", job.FileName))
	}

	details := s.extractor.Extract(text)

	_ = s.ingestRepo.UpdateProgress(ctx, job.ID, resume.StepSaving, 75)

	now := time.Now()
	entity := &resume.Resume{
		ID:              kernel.NewResumeID(uuid.NewString()),
		TenantID:        job.TenantID,
		CandidateName:   details.CandidateName,
		Email:           details.Email,
		Phone:           details.Phone,
		FileName:        job.FileName,
		FilePath:        job.FilePath,
		FileType:        job.FileType,
		RawText:         text,
		Skills:          toSkillNames(details.Skills),
		ExperienceYears: details.ExperienceYears,
		Education:       details.Education,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, entity); err != nil {
		return s.handleIngestError(ctx, job, "save_failed", err)
	}

	if err := s.ingestRepo.MarkAsCompleted(ctx, job.ID, entity.ID); err != nil {
		// Resume was created; don't fail the job over the status write
		logx.Errorf("Failed to mark ingest job as completed: %v", err)
	}

	logx.Infof("Ingest job completed: JobID=%s, ResumeID=%s", job.ID, entity.ID)
	return nil
}

// handleIngestError applies retry with exponential backoff, then marks
// jobs permanently failed once attempts run out.
func (s *Service) handleIngestError(ctx context.Context, job *resume.IngestJob, errorType string, err error) error {
	job.AttemptCount++

	errorDetails := map[string]any{
		"error":        err.Error(),
		"error_type":   errorType,
		"attempt":      job.AttemptCount,
		"max_attempts": job.MaxAttempts,
		"file_path":    job.FilePath,
		"file_name":    job.FileName,
	}

	if job.AttemptCount < job.MaxAttempts {
		retryDelay := time.Duration(1<<uint(job.AttemptCount)) * time.Minute
		nextRetry := time.Now().Add(retryDelay)
		job.NextRetryAt = &nextRetry

		logx.Warnf("Ingest job failed, will retry: JobID=%s, Attempt=%d/%d, Error=%s",
			job.ID, job.AttemptCount, job.MaxAttempts, errorType)

		if queueErr := s.queue.EnqueueDelayed(ctx, job.ID, job, retryDelay); queueErr != nil {
			logx.Errorf("Failed to enqueue ingest retry: %v", queueErr)
			_ = s.ingestRepo.MarkAsFailed(ctx, job.ID,
				fmt.Sprintf("%s (retry enqueue failed)", errorType), errorDetails)
			return resume.ErrIngestFailed().
				WithDetail("job_id", job.ID.String()).
				WithDetails(errorDetails)
		}

		job.ErrorMessage = fmt.Sprintf("%s (will retry)", errorType)
		job.ErrorDetails = errorDetails
		job.Status = resume.IngestStatusPending

		if updateErr := s.ingestRepo.Update(ctx, job); updateErr != nil {
			logx.Errorf("Failed to update ingest job for retry: %v", updateErr)
		}

		return resume.ErrIngestFailed().
			WithDetail("job_id", job.ID.String()).
			WithDetail("will_retry", true).
			WithDetail("next_retry_at", nextRetry).
			WithDetails(errorDetails)
	}

	logx.Errorf("Ingest job permanently failed: JobID=%s, Error=%s, Attempts=%d/%d",
		job.ID, errorType, job.AttemptCount, job.MaxAttempts)

	_ = s.ingestRepo.MarkAsFailed(ctx, job.ID, errorType, errorDetails)

	return resume.ErrIngestMaxRetries().
		WithDetail("job_id", job.ID.String()).
		WithDetail("final_attempt", job.AttemptCount).
		WithDetails(errorDetails)
}

// GetIngestStatus retrieves the current status of an ingest job
func (s *Service) GetIngestStatus(ctx context.Context, jobID kernel.IngestJobID, tenantID kernel.TenantID) (*resume.IngestStatusResponse, error) {
	job, err := s.ingestRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, resume.ErrIngestNotFound().WithDetail("job_id", jobID.String())
	}
	if job.TenantID != tenantID {
		return nil, resume.ErrTenantMismatch().WithDetail("job_id", jobID.String())
	}

	response := &resume.IngestStatusResponse{
		JobID:     job.ID,
		TenantID:  job.TenantID,
		Status:    job.Status,
		Progress:  job.ProgressPercentage,
		CreatedAt: job.CreatedAt,
	}

	switch job.Status {
	case resume.IngestStatusPending:
		if job.AttemptCount > 0 {
			response.Message = fmt.Sprintf("Pending retry (attempt %d/%d)", job.AttemptCount, job.MaxAttempts)
		} else {
			response.Message = "Queued and waiting to be processed"
		}
		response.NextRetryAt = job.NextRetryAt

	case resume.IngestStatusProcessing:
		response.Message = "Processing resume"
		response.CurrentStep = job.CurrentStep
		response.StartedAt = job.StartedAt

	case resume.IngestStatusCompleted:
		response.Message = "Resume processed successfully"
		response.ResumeID = job.ResumeID
		response.CompletedAt = job.CompletedAt

	case resume.IngestStatusFailed:
		response.Message = job.ErrorMessage
		response.Error = &resume.IngestError{
			Message: job.ErrorMessage,
			Details: job.ErrorDetails,
		}
		response.FailedAt = job.FailedAt
		response.AttemptCount = job.AttemptCount
	}

	return response, nil
}

// ListIngestJobs retrieves ingest jobs for a tenant
func (s *Service) ListIngestJobs(ctx context.Context, tenantID kernel.TenantID, pagination kernel.PaginationOptions) (*kernel.Paginated[resume.IngestJob], error) {
	return s.ingestRepo.ListByTenantID(ctx, tenantID, pagination)
}

// RetryFailedIngest manually retries a failed ingest job
func (s *Service) RetryFailedIngest(ctx context.Context, jobID kernel.IngestJobID, tenantID kernel.TenantID) (*resume.IngestStatusResponse, error) {
	job, err := s.ingestRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, resume.ErrIngestNotFound().WithDetail("job_id", jobID.String())
	}
	if job.TenantID != tenantID {
		return nil, resume.ErrTenantMismatch().WithDetail("job_id", jobID.String())
	}
	if job.Status != resume.IngestStatusFailed {
		return nil, resume.ErrInvalidIngestStatus().
			WithDetail("job_id", jobID.String()).
			WithDetail("current_status", job.Status)
	}

	// Reset for a fresh round of attempts
	job.Status = resume.IngestStatusPending
	job.AttemptCount = 0
	job.ErrorMessage = ""
	job.ErrorDetails = nil
	job.FailedAt = nil
	job.NextRetryAt = nil
	job.ProgressPercentage = 0
	job.CurrentStep = nil

	if err := s.ingestRepo.Update(ctx, job); err != nil {
		return nil, resume.ErrIngestUpdateFailed().
			WithDetail("job_id", jobID.String()).
			WithDetail("error", err.Error())
	}

	if err := s.queue.Enqueue(ctx, jobID, job); err != nil {
		_ = s.ingestRepo.MarkAsFailed(ctx, jobID, "failed to re-enqueue", map[string]any{
			"error": err.Error(),
		})
		return nil, resume.ErrQueueEnqueueFailed().
			WithDetail("job_id", jobID.String()).
			WithDetail("error", err.Error())
	}

	logx.Infof("Ingest job manually retried: JobID=%s", jobID)

	return &resume.IngestStatusResponse{
		JobID:     jobID,
		TenantID:  job.TenantID,
		Status:    resume.IngestStatusPending,
		Message:   "Job requeued for processing",
		CreatedAt: job.CreatedAt,
	}, nil
}

// GetIngestStats returns ingest statistics for a tenant
func (s *Service) GetIngestStats(ctx context.Context, tenantID kernel.TenantID) (*resume.IngestStatsResponse, error) {
	allJobs, err := s.ingestRepo.ListByTenantID(ctx, tenantID, kernel.PaginationOptions{
		Page:     1,
		PageSize: kernel.MaxPageSize,
	})
	if err != nil {
		return nil, resume.ErrRegistry.NewWithCause(resume.CodeIngestNotFound, err).
			WithDetail("tenant_id", tenantID.String())
	}

	stats := &resume.IngestStatsResponse{TenantID: tenantID, TotalJobs: len(allJobs.Items)}

	totalProgress := 0
	var oldestPending, newestCompleted *time.Time

	for i := range allJobs.Items {
		job := &allJobs.Items[i]
		switch job.Status {
		case resume.IngestStatusPending:
			stats.PendingJobs++
			if oldestPending == nil || job.CreatedAt.Before(*oldestPending) {
				oldestPending = &job.CreatedAt
			}
		case resume.IngestStatusProcessing:
			stats.ProcessingJobs++
		case resume.IngestStatusCompleted:
			stats.CompletedJobs++
			if job.CompletedAt != nil && (newestCompleted == nil || job.CompletedAt.After(*newestCompleted)) {
				newestCompleted = job.CompletedAt
			}
		case resume.IngestStatusFailed:
			stats.FailedJobs++
		}
		totalProgress += job.ProgressPercentage
	}

	if len(allJobs.Items) > 0 {
		stats.AverageProgress = float64(totalProgress) / float64(len(allJobs.Items))
	}
	stats.OldestPendingJob = oldestPending
	stats.LastCompletedJob = newestCompleted

	return stats, nil
}
