package resumeinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/screening/resume"
)

// PostgresResumeRepository implements resume.Repository using PostgreSQL
type PostgresResumeRepository struct {
	db *sqlx.DB
}

// NewPostgresResumeRepository creates a new PostgreSQL resume repository
func NewPostgresResumeRepository(db *sqlx.DB) *PostgresResumeRepository {
	return &PostgresResumeRepository{db: db}
}

// ============================================================================
// Database Model
// ============================================================================

type resumeModel struct {
	ID              string         `db:"id"`
	TenantID        string         `db:"tenant_id"`
	CandidateName   string         `db:"candidate_name"`
	Email           string         `db:"email"`
	Phone           string         `db:"phone"`
	FileName        string         `db:"file_name"`
	FilePath        string         `db:"file_path"`
	FileType        string         `db:"file_type"`
	RawText         string         `db:"raw_text"`
	Skills          pq.StringArray `db:"skills"`
	ExperienceYears float64        `db:"experience_years"`
	Education       string         `db:"education"`
	IsActive        bool           `db:"is_active"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (m *resumeModel) toEntity() *resume.Resume {
	skills := make([]kernel.SkillName, len(m.Skills))
	for i, s := range m.Skills {
		skills[i] = kernel.SkillName(s)
	}

	return &resume.Resume{
		ID:              kernel.ResumeID(m.ID),
		TenantID:        kernel.TenantID(m.TenantID),
		CandidateName:   m.CandidateName,
		Email:           m.Email,
		Phone:           m.Phone,
		FileName:        m.FileName,
		FilePath:        m.FilePath,
		FileType:        m.FileType,
		RawText:         m.RawText,
		Skills:          skills,
		ExperienceYears: m.ExperienceYears,
		Education:       kernel.EducationLevel(m.Education),
		IsActive:        m.IsActive,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func fromEntity(r *resume.Resume) *resumeModel {
	return &resumeModel{
		ID:              string(r.ID),
		TenantID:        string(r.TenantID),
		CandidateName:   r.CandidateName,
		Email:           r.Email,
		Phone:           r.Phone,
		FileName:        r.FileName,
		FilePath:        r.FilePath,
		FileType:        r.FileType,
		RawText:         r.RawText,
		Skills:          pq.StringArray(r.SkillNames()),
		ExperienceYears: r.ExperienceYears,
		Education:       string(r.Education),
		IsActive:        r.IsActive,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

const resumeColumns = `
	id, tenant_id, candidate_name, email, phone, file_name, file_path,
	file_type, raw_text, skills, experience_years, education, is_active,
	created_at, updated_at
`

// ============================================================================
// Repository Implementation
// ============================================================================

// Create creates a new resume
func (r *PostgresResumeRepository) Create(ctx context.Context, entity *resume.Resume) error {
	query := `
		INSERT INTO resumes (
			id, tenant_id, candidate_name, email, phone, file_name, file_path,
			file_type, raw_text, skills, experience_years, education, is_active,
			created_at, updated_at
		) VALUES (
			:id, :tenant_id, :candidate_name, :email, :phone, :file_name, :file_path,
			:file_type, :raw_text, :skills, :experience_years, :education, :is_active,
			:created_at, :updated_at
		)
	`

	_, err := r.db.NamedExecContext(ctx, query, fromEntity(entity))
	if err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

// Update updates an existing resume
func (r *PostgresResumeRepository) Update(ctx context.Context, entity *resume.Resume) error {
	query := `
		UPDATE resumes SET
			candidate_name = :candidate_name,
			email = :email,
			phone = :phone,
			file_name = :file_name,
			file_path = :file_path,
			file_type = :file_type,
			raw_text = :raw_text,
			skills = :skills,
			experience_years = :experience_years,
			education = :education,
			is_active = :is_active,
			updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, fromEntity(entity))
	if err != nil {
		return fmt.Errorf("failed to update resume: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return resume.ErrResumeNotFound()
	}
	return nil
}

// GetByID retrieves a resume by ID
func (r *PostgresResumeRepository) GetByID(ctx context.Context, id kernel.ResumeID) (*resume.Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE id = $1`

	var model resumeModel
	err := r.db.GetContext(ctx, &model, query, string(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, resume.ErrResumeNotFound().WithDetail("resume_id", id.String())
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return model.toEntity(), nil
}

// ListByTenantID retrieves resumes for a tenant with pagination
func (r *PostgresResumeRepository) ListByTenantID(ctx context.Context, tenantID kernel.TenantID, pagination kernel.PaginationOptions) (*kernel.Paginated[resume.Resume], error) {
	pagination = pagination.Sanitize()

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM resumes WHERE tenant_id = $1`, string(tenantID)); err != nil {
		return nil, fmt.Errorf("failed to count resumes: %w", err)
	}

	query := `SELECT ` + resumeColumns + ` FROM resumes
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var models []resumeModel
	if err := r.db.SelectContext(ctx, &models, query, string(tenantID), pagination.PageSize, pagination.Offset()); err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}

	resumes := make([]resume.Resume, 0, len(models))
	for i := range models {
		resumes = append(resumes, *models[i].toEntity())
	}
	return kernel.NewPaginated(resumes, total, pagination), nil
}

// ListActiveByTenantID retrieves every active resume for a tenant
func (r *PostgresResumeRepository) ListActiveByTenantID(ctx context.Context, tenantID kernel.TenantID) ([]*resume.Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes
		WHERE tenant_id = $1 AND is_active = TRUE
		ORDER BY created_at ASC`

	var models []resumeModel
	if err := r.db.SelectContext(ctx, &models, query, string(tenantID)); err != nil {
		return nil, fmt.Errorf("failed to list active resumes: %w", err)
	}

	resumes := make([]*resume.Resume, 0, len(models))
	for i := range models {
		resumes = append(resumes, models[i].toEntity())
	}
	return resumes, nil
}

// Delete deletes a resume
func (r *PostgresResumeRepository) Delete(ctx context.Context, id kernel.ResumeID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1`, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return resume.ErrResumeNotFound()
	}
	return nil
}

// CountByTenantID counts resumes for a tenant
func (r *PostgresResumeRepository) CountByTenantID(ctx context.Context, tenantID kernel.TenantID) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM resumes WHERE tenant_id = $1`, string(tenantID))
	if err != nil {
		return 0, fmt.Errorf("failed to count resumes: %w", err)
	}
	return count, nil
}
