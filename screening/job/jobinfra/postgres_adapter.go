package jobinfra

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
	"github.com/Abraxas-365/sift/screening/job"
)

// PostgresJobRepository implements job.Repository using PostgreSQL
type PostgresJobRepository struct {
	db *sqlx.DB
}

// NewPostgresJobRepository creates a new PostgreSQL job repository
func NewPostgresJobRepository(db *sqlx.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

// ============================================================================
// Database Model
// ============================================================================

type jobModel struct {
	ID                 string          `db:"id"`
	Title              string          `db:"title"`
	Description        string          `db:"description"`
	RequiredSkills     pq.StringArray  `db:"required_skills"`
	PreferredSkills    json.RawMessage `db:"preferred_skills"`
	MinExperienceYears int             `db:"min_experience_years"`
	MinEducation       string          `db:"min_education"`
	KeyPhrases         pq.StringArray  `db:"key_phrases"`
	PostedBy           string          `db:"posted_by"`
	Status             string          `db:"status"`
	PublishedAt        *time.Time      `db:"published_at"`
	ArchivedAt         *time.Time      `db:"archived_at"`
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`
}

// toEntity converts database model to domain entity
func (m *jobModel) toEntity() (*job.Job, error) {
	var preferred map[string]float64
	if len(m.PreferredSkills) > 0 {
		if err := json.Unmarshal(m.PreferredSkills, &preferred); err != nil {
			return nil, fmt.Errorf("failed to unmarshal preferred skills: %w", err)
		}
	}

	required := make([]kernel.SkillName, len(m.RequiredSkills))
	for i, s := range m.RequiredSkills {
		required[i] = kernel.SkillName(s)
	}

	return &job.Job{
		ID:                 kernel.JobID(m.ID),
		Title:              kernel.JobTitle(m.Title),
		Description:        kernel.JobDescription(m.Description),
		RequiredSkills:     required,
		PreferredSkills:    preferred,
		MinExperienceYears: m.MinExperienceYears,
		MinEducation:       kernel.EducationLevel(m.MinEducation),
		KeyPhrases:         m.KeyPhrases,
		PostedBy:           kernel.UserID(m.PostedBy),
		Status:             job.JobStatus(m.Status),
		PublishedAt:        m.PublishedAt,
		ArchivedAt:         m.ArchivedAt,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}, nil
}

// fromEntity converts domain entity to database model
func fromEntity(j *job.Job) (*jobModel, error) {
	preferred, err := json.Marshal(j.PreferredSkills)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal preferred skills: %w", err)
	}

	return &jobModel{
		ID:                 string(j.ID),
		Title:              string(j.Title),
		Description:        string(j.Description),
		RequiredSkills:     pq.StringArray(j.RequiredSkillNames()),
		PreferredSkills:    preferred,
		MinExperienceYears: j.MinExperienceYears,
		MinEducation:       string(j.MinEducation),
		KeyPhrases:         pq.StringArray(j.KeyPhrases),
		PostedBy:           string(j.PostedBy),
		Status:             string(j.Status),
		PublishedAt:        j.PublishedAt,
		ArchivedAt:         j.ArchivedAt,
		CreatedAt:          j.CreatedAt,
		UpdatedAt:          j.UpdatedAt,
	}, nil
}

const jobColumns = `
	id, title, description, required_skills, preferred_skills,
	min_experience_years, min_education, key_phrases, posted_by, status,
	published_at, archived_at, created_at, updated_at
`

// ============================================================================
// Repository Implementation
// ============================================================================

// Create creates a new job
func (r *PostgresJobRepository) Create(ctx context.Context, jobEntity *job.Job) error {
	model, err := fromEntity(jobEntity)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO jobs (
			id, title, description, required_skills, preferred_skills,
			min_experience_years, min_education, key_phrases, posted_by, status,
			published_at, archived_at, created_at, updated_at
		) VALUES (
			:id, :title, :description, :required_skills, :preferred_skills,
			:min_experience_years, :min_education, :key_phrases, :posted_by, :status,
			:published_at, :archived_at, :created_at, :updated_at
		)
	`

	_, err = r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return job.ErrJobAlreadyExists()
		}
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// Update updates an existing job
func (r *PostgresJobRepository) Update(ctx context.Context, jobEntity *job.Job) error {
	model, err := fromEntity(jobEntity)
	if err != nil {
		return err
	}

	query := `
		UPDATE jobs SET
			title = :title,
			description = :description,
			required_skills = :required_skills,
			preferred_skills = :preferred_skills,
			min_experience_years = :min_experience_years,
			min_education = :min_education,
			key_phrases = :key_phrases,
			status = :status,
			published_at = :published_at,
			archived_at = :archived_at,
			updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return job.ErrJobNotFound()
	}

	return nil
}

// GetByID retrieves a job by ID
func (r *PostgresJobRepository) GetByID(ctx context.Context, id kernel.JobID) (*job.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	var model jobModel
	err := r.db.GetContext(ctx, &model, query, string(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, job.ErrJobNotFound().WithDetail("job_id", id.String())
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return model.toEntity()
}

// Delete deletes a job by ID
func (r *PostgresJobRepository) Delete(ctx context.Context, id kernel.JobID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return job.ErrJobNotFound()
	}
	return nil
}

// List retrieves all jobs with pagination
func (r *PostgresJobRepository) List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[job.Job], error) {
	pagination = pagination.Sanitize()

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM jobs`); err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	query := `SELECT ` + jobColumns + ` FROM jobs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	var models []jobModel
	if err := r.db.SelectContext(ctx, &models, query, pagination.PageSize, pagination.Offset()); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	return toPage(models, total, pagination)
}

// ListByStatus retrieves jobs in a given status
func (r *PostgresJobRepository) ListByStatus(ctx context.Context, status job.JobStatus, pagination kernel.PaginationOptions) (*kernel.Paginated[job.Job], error) {
	pagination = pagination.Sanitize()

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM jobs WHERE status = $1`, string(status)); err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	query := `SELECT ` + jobColumns + ` FROM jobs
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var models []jobModel
	if err := r.db.SelectContext(ctx, &models, query, string(status), pagination.PageSize, pagination.Offset()); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	return toPage(models, total, pagination)
}

func toPage(models []jobModel, total int64, pagination kernel.PaginationOptions) (*kernel.Paginated[job.Job], error) {
	jobs := make([]job.Job, 0, len(models))
	for i := range models {
		entity, err := models[i].toEntity()
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *entity)
	}
	return kernel.NewPaginated(jobs, total, pagination), nil
}

// Exists checks if a job exists by ID
func (r *PostgresJobRepository) Exists(ctx context.Context, id kernel.JobID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM jobs WHERE id = $1)`, string(id))
	if err != nil {
		return false, fmt.Errorf("failed to check job existence: %w", err)
	}
	return exists, nil
}
