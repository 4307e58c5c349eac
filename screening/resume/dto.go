package resume

import (
	"time"

	"github.com/Abraxas-365/sift/pkg/kernel"
)

// IngestResumeRequest - DTO for queueing a resume file for background
// ingestion. The file must already be uploaded to storage.
type IngestResumeRequest struct {
	TenantID kernel.TenantID `json:"tenant_id" validate:"required"`
	FilePath string          `json:"file_path" validate:"required"`
	FileName string          `json:"file_name" validate:"required"`
	FileType string          `json:"file_type" validate:"required"`
}

// CreateResumeRequest - DTO for creating a resume from raw text
// synchronously, without the file pipeline.
type CreateResumeRequest struct {
	TenantID      kernel.TenantID `json:"tenant_id"`
	CandidateName string          `json:"candidate_name,omitempty"`
	RawText       string          `json:"raw_text" validate:"required"`
}

// UpdateResumeRequest - DTO for editing extracted fields by hand
type UpdateResumeRequest struct {
	CandidateName   *string             `json:"candidate_name,omitempty"`
	Email           *string             `json:"email,omitempty"`
	Phone           *string             `json:"phone,omitempty"`
	Skills          *[]kernel.SkillName `json:"skills,omitempty"`
	ExperienceYears *float64            `json:"experience_years,omitempty"`
	Education       *string             `json:"education,omitempty"`
	IsActive        *bool               `json:"is_active,omitempty"`
}

// Response type alias for paginated resumes
type PaginatedResumesResponse = kernel.Paginated[ResumeResponse]

// ResumeResponse - DTO for returning resume data
type ResumeResponse struct {
	ID              kernel.ResumeID       `json:"id"`
	TenantID        kernel.TenantID       `json:"tenant_id"`
	CandidateName   string                `json:"candidate_name"`
	Email           string                `json:"email,omitempty"`
	Phone           string                `json:"phone,omitempty"`
	FileName        string                `json:"file_name,omitempty"`
	FileType        string                `json:"file_type,omitempty"`
	Skills          []kernel.SkillName    `json:"skills"`
	ExperienceYears float64               `json:"experience_years"`
	Education       kernel.EducationLevel `json:"education"`
	IsActive        bool                  `json:"is_active"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}
