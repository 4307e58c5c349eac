package job

import (
	"time"

	"github.com/Abraxas-365/sift/pkg/kernel"
)

// CreateJobRequest - DTO for creating a new job. When the skill and
// requirement fields are left empty they are derived from the
// description text.
type CreateJobRequest struct {
	Title              kernel.JobTitle       `json:"title" validate:"required"`
	Description        kernel.JobDescription `json:"description" validate:"required"`
	RequiredSkills     []kernel.SkillName    `json:"required_skills,omitempty"`
	PreferredSkills    map[string]float64    `json:"preferred_skills,omitempty"`
	MinExperienceYears *int                  `json:"min_experience_years,omitempty"`
	MinEducation       string                `json:"min_education,omitempty"`
	PostedBy           kernel.UserID         `json:"posted_by"`
}

// UpdateJobRequest - DTO for updating an existing job
type UpdateJobRequest struct {
	Title              *kernel.JobTitle       `json:"title,omitempty"`
	Description        *kernel.JobDescription `json:"description,omitempty"`
	RequiredSkills     *[]kernel.SkillName    `json:"required_skills,omitempty"`
	PreferredSkills    *map[string]float64    `json:"preferred_skills,omitempty"`
	MinExperienceYears *int                   `json:"min_experience_years,omitempty"`
	MinEducation       *string                `json:"min_education,omitempty"`
}

// ListJobsRequest - DTO for listing jobs
type ListJobsRequest struct {
	Pagination kernel.PaginationOptions `json:"pagination"`
}

// Response type alias for paginated jobs
type PaginatedJobsResponse = kernel.Paginated[JobResponse]

// JobResponse - DTO for returning job data
type JobResponse struct {
	ID                 kernel.JobID          `json:"id"`
	Title              kernel.JobTitle       `json:"title"`
	Description        kernel.JobDescription `json:"description"`
	RequiredSkills     []kernel.SkillName    `json:"required_skills"`
	PreferredSkills    map[string]float64    `json:"preferred_skills"`
	MinExperienceYears int                   `json:"min_experience_years"`
	MinEducation       kernel.EducationLevel `json:"min_education"`
	KeyPhrases         []string              `json:"key_phrases,omitempty"`
	PostedBy           kernel.UserID         `json:"posted_by"`
	Status             JobStatus             `json:"status"`
	PublishedAt        *time.Time            `json:"published_at,omitempty"`
	ArchivedAt         *time.Time            `json:"archived_at,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}
