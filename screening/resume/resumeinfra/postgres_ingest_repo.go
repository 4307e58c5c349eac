package resumeinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/pkg/logx"
	"github.com/Abraxas-365/sift/screening/resume"
)

// PostgresIngestRepository implements resume.IngestRepository using PostgreSQL
type PostgresIngestRepository struct {
	db *sqlx.DB
}

// NewPostgresIngestRepository creates a new PostgreSQL ingest job repository
func NewPostgresIngestRepository(db *sqlx.DB) resume.IngestRepository {
	return &PostgresIngestRepository{db: db}
}

// dbIngestJob is the database model with proper JSON handling
type dbIngestJob struct {
	ID       string  `db:"id"`
	TenantID string  `db:"tenant_id"`
	ResumeID *string `db:"resume_id"`

	Status   string `db:"status"`
	FilePath string `db:"file_path"`
	FileName string `db:"file_name"`
	FileType string `db:"file_type"`

	AttemptCount int `db:"attempt_count"`
	MaxAttempts  int `db:"max_attempts"`

	ErrorMessage string         `db:"error_message"`
	ErrorDetails sql.NullString `db:"error_details"`

	CurrentStep        *string `db:"current_step"`
	ProgressPercentage int     `db:"progress_percentage"`

	CreatedAt   time.Time  `db:"created_at"`
	StartedAt   *time.Time `db:"started_at"`
	CompletedAt *time.Time `db:"completed_at"`
	FailedAt    *time.Time `db:"failed_at"`
	NextRetryAt *time.Time `db:"next_retry_at"`

	RequestPayload string `db:"request_payload"`
}

const ingestJobColumns = `
	id, tenant_id, resume_id, status, file_path, file_name, file_type,
	attempt_count, max_attempts, error_message, error_details,
	current_step, progress_percentage,
	created_at, started_at, completed_at, failed_at, next_retry_at,
	request_payload
`

// Create creates a new ingest job record
func (r *PostgresIngestRepository) Create(ctx context.Context, job *resume.IngestJob) error {
	query := `
		INSERT INTO resume_ingest_jobs (
			id, tenant_id, resume_id, status, file_path, file_name, file_type,
			attempt_count, max_attempts, error_message, error_details,
			current_step, progress_percentage,
			created_at, started_at, completed_at, failed_at, next_retry_at,
			request_payload
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11,
			$12, $13,
			$14, $15, $16, $17, $18,
			$19
		)
	`

	model, err := r.toDBJob(job)
	if err != nil {
		return fmt.Errorf("convert to db job: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		model.ID, model.TenantID, model.ResumeID, model.Status,
		model.FilePath, model.FileName, model.FileType,
		model.AttemptCount, model.MaxAttempts, model.ErrorMessage, model.ErrorDetails,
		model.CurrentStep, model.ProgressPercentage,
		model.CreatedAt, model.StartedAt, model.CompletedAt, model.FailedAt, model.NextRetryAt,
		model.RequestPayload,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("ingest job already exists: %w", err)
		}
		return fmt.Errorf("create ingest job: %w", err)
	}

	logx.Infof("Created ingest job: %s", job.ID)
	return nil
}

// Update updates an existing ingest job
func (r *PostgresIngestRepository) Update(ctx context.Context, job *resume.IngestJob) error {
	query := `
		UPDATE resume_ingest_jobs SET
			resume_id = $2,
			status = $3,
			attempt_count = $4,
			error_message = $5,
			error_details = $6,
			current_step = $7,
			progress_percentage = $8,
			started_at = $9,
			completed_at = $10,
			failed_at = $11,
			next_retry_at = $12
		WHERE id = $1
	`

	model, err := r.toDBJob(job)
	if err != nil {
		return fmt.Errorf("convert to db job: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query,
		model.ID,
		model.ResumeID,
		model.Status,
		model.AttemptCount,
		model.ErrorMessage,
		model.ErrorDetails,
		model.CurrentStep,
		model.ProgressPercentage,
		model.StartedAt,
		model.CompletedAt,
		model.FailedAt,
		model.NextRetryAt,
	)

	if err != nil {
		return fmt.Errorf("update ingest job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return resume.ErrIngestNotFound().WithDetail("job_id", job.ID.String())
	}

	return nil
}

// GetByID retrieves an ingest job by ID
func (r *PostgresIngestRepository) GetByID(ctx context.Context, jobID kernel.IngestJobID) (*resume.IngestJob, error) {
	query := `SELECT ` + ingestJobColumns + ` FROM resume_ingest_jobs WHERE id = $1`

	var model dbIngestJob
	err := r.db.GetContext(ctx, &model, query, jobID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, resume.ErrIngestNotFound().WithDetail("job_id", jobID.String())
		}
		return nil, fmt.Errorf("get ingest job: %w", err)
	}

	return r.toDomainJob(&model)
}

// ListByTenantID retrieves ingest jobs for a tenant with pagination
func (r *PostgresIngestRepository) ListByTenantID(
	ctx context.Context,
	tenantID kernel.TenantID,
	pagination kernel.PaginationOptions,
) (*kernel.Paginated[resume.IngestJob], error) {
	pagination = pagination.Sanitize()

	var total int64
	countQuery := `SELECT COUNT(*) FROM resume_ingest_jobs WHERE tenant_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, tenantID.String()); err != nil {
		return nil, fmt.Errorf("count ingest jobs: %w", err)
	}

	query := `SELECT ` + ingestJobColumns + ` FROM resume_ingest_jobs
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var models []dbIngestJob
	if err := r.db.SelectContext(ctx, &models, query, tenantID.String(), pagination.PageSize, pagination.Offset()); err != nil {
		return nil, fmt.Errorf("list ingest jobs: %w", err)
	}

	jobs := make([]resume.IngestJob, 0, len(models))
	for i := range models {
		job, err := r.toDomainJob(&models[i])
		if err != nil {
			logx.Errorf("Failed to convert ingest job %s: %v", models[i].ID, err)
			continue
		}
		jobs = append(jobs, *job)
	}

	return kernel.NewPaginated(jobs, total, pagination), nil
}

// MarkAsProcessing marks an ingest job as processing
func (r *PostgresIngestRepository) MarkAsProcessing(ctx context.Context, jobID kernel.IngestJobID) error {
	query := `
		UPDATE resume_ingest_jobs
		SET status = $2, started_at = $3
		WHERE id = $1 AND status = $4
	`

	result, err := r.db.ExecContext(ctx, query,
		jobID.String(),
		string(resume.IngestStatusProcessing),
		time.Now(),
		string(resume.IngestStatusPending),
	)
	if err != nil {
		return fmt.Errorf("mark as processing: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return resume.ErrInvalidIngestStatus().WithDetail("job_id", jobID.String())
	}

	logx.Infof("Marked ingest job as processing: %s", jobID)
	return nil
}

// MarkAsCompleted marks an ingest job as completed
func (r *PostgresIngestRepository) MarkAsCompleted(ctx context.Context, jobID kernel.IngestJobID, resumeID kernel.ResumeID) error {
	query := `
		UPDATE resume_ingest_jobs
		SET
			status = $2,
			resume_id = $3,
			completed_at = $4,
			progress_percentage = 100,
			error_message = '',
			error_details = NULL,
			next_retry_at = NULL
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		jobID.String(),
		string(resume.IngestStatusCompleted),
		resumeID.String(),
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("mark as completed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return resume.ErrIngestNotFound().WithDetail("job_id", jobID.String())
	}

	logx.Infof("Marked ingest job as completed: %s, ResumeID: %s", jobID, resumeID)
	return nil
}

// MarkAsFailed marks an ingest job as failed
func (r *PostgresIngestRepository) MarkAsFailed(
	ctx context.Context,
	jobID kernel.IngestJobID,
	errorMsg string,
	errorDetails map[string]any,
) error {
	var errorDetailsJSON sql.NullString
	if len(errorDetails) > 0 {
		jsonBytes, err := json.Marshal(errorDetails)
		if err != nil {
			logx.Warnf("Failed to marshal error details: %v", err)
		} else {
			errorDetailsJSON = sql.NullString{String: string(jsonBytes), Valid: true}
		}
	}

	query := `
		UPDATE resume_ingest_jobs
		SET
			status = $2,
			failed_at = $3,
			error_message = $4,
			error_details = $5
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		jobID.String(),
		string(resume.IngestStatusFailed),
		time.Now(),
		errorMsg,
		errorDetailsJSON,
	)
	if err != nil {
		return fmt.Errorf("mark as failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return resume.ErrIngestNotFound().WithDetail("job_id", jobID.String())
	}

	logx.Warnf("Marked ingest job as failed: %s, Error: %s", jobID, errorMsg)
	return nil
}

// UpdateProgress updates the progress of an ingest job
func (r *PostgresIngestRepository) UpdateProgress(
	ctx context.Context,
	jobID kernel.IngestJobID,
	step resume.IngestStep,
	percentage int,
) error {
	query := `
		UPDATE resume_ingest_jobs
		SET
			current_step = $2,
			progress_percentage = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, jobID.String(), string(step), percentage)
	if err != nil {
		return fmt.Errorf("update progress: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return resume.ErrIngestNotFound().WithDetail("job_id", jobID.String())
	}

	return nil
}

// ============================================================================
// Helper Methods
// ============================================================================

// toDBJob converts domain model to database model
func (r *PostgresIngestRepository) toDBJob(job *resume.IngestJob) (*dbIngestJob, error) {
	requestPayloadJSON, err := json.Marshal(job.RequestPayload)
	if err != nil {
		return nil, fmt.Errorf("marshal request payload: %w", err)
	}

	var errorDetails sql.NullString
	if len(job.ErrorDetails) > 0 {
		errorDetailsJSON, err := json.Marshal(job.ErrorDetails)
		if err != nil {
			logx.Warnf("Failed to marshal error details: %v", err)
		} else {
			errorDetails = sql.NullString{String: string(errorDetailsJSON), Valid: true}
		}
	}

	var currentStep *string
	if job.CurrentStep != nil {
		stepStr := string(*job.CurrentStep)
		currentStep = &stepStr
	}

	var resumeID *string
	if job.ResumeID != nil {
		idStr := job.ResumeID.String()
		resumeID = &idStr
	}

	return &dbIngestJob{
		ID:                 job.ID.String(),
		TenantID:           job.TenantID.String(),
		ResumeID:           resumeID,
		Status:             string(job.Status),
		FilePath:           job.FilePath,
		FileName:           job.FileName,
		FileType:           job.FileType,
		AttemptCount:       job.AttemptCount,
		MaxAttempts:        job.MaxAttempts,
		ErrorMessage:       job.ErrorMessage,
		ErrorDetails:       errorDetails,
		CurrentStep:        currentStep,
		ProgressPercentage: job.ProgressPercentage,
		CreatedAt:          job.CreatedAt,
		StartedAt:          job.StartedAt,
		CompletedAt:        job.CompletedAt,
		FailedAt:           job.FailedAt,
		NextRetryAt:        job.NextRetryAt,
		RequestPayload:     string(requestPayloadJSON),
	}, nil
}

// toDomainJob converts database model to domain model
func (r *PostgresIngestRepository) toDomainJob(model *dbIngestJob) (*resume.IngestJob, error) {
	var requestPayload resume.IngestResumeRequest
	if err := json.Unmarshal([]byte(model.RequestPayload), &requestPayload); err != nil {
		return nil, fmt.Errorf("unmarshal request payload: %w", err)
	}

	var errorDetails map[string]any
	if model.ErrorDetails.Valid && model.ErrorDetails.String != "" {
		if err := json.Unmarshal([]byte(model.ErrorDetails.String), &errorDetails); err != nil {
			logx.Warnf("Failed to unmarshal error details for ingest job %s: %v", model.ID, err)
			errorDetails = nil
		}
	}

	var currentStep *resume.IngestStep
	if model.CurrentStep != nil {
		step := resume.IngestStep(*model.CurrentStep)
		currentStep = &step
	}

	var resumeID *kernel.ResumeID
	if model.ResumeID != nil {
		id := kernel.ResumeID(*model.ResumeID)
		resumeID = &id
	}

	return &resume.IngestJob{
		ID:                 kernel.IngestJobID(model.ID),
		TenantID:           kernel.TenantID(model.TenantID),
		ResumeID:           resumeID,
		Status:             resume.IngestStatus(model.Status),
		FilePath:           model.FilePath,
		FileName:           model.FileName,
		FileType:           model.FileType,
		AttemptCount:       model.AttemptCount,
		MaxAttempts:        model.MaxAttempts,
		ErrorMessage:       model.ErrorMessage,
		ErrorDetails:       errorDetails,
		CurrentStep:        currentStep,
		ProgressPercentage: model.ProgressPercentage,
		CreatedAt:          model.CreatedAt,
		StartedAt:          model.StartedAt,
		CompletedAt:        model.CompletedAt,
		FailedAt:           model.FailedAt,
		NextRetryAt:        model.NextRetryAt,
		RequestPayload:     requestPayload,
	}, nil
}
