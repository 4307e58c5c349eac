package job

import (
	"time"

	"github.com/Abraxas-365/sift/pkg/kernel"
)

// JobStatus represents the status of a job posting
type JobStatus string

const (
	JobStatusDraft     JobStatus = "DRAFT"     // Created but not published
	JobStatusPublished JobStatus = "PUBLISHED" // Active and accepting resumes
	JobStatusClosed    JobStatus = "CLOSED"    // No longer accepting resumes
	JobStatusArchived  JobStatus = "ARCHIVED"  // Archived
)

type Job struct {
	ID                 kernel.JobID          `db:"id" json:"id"`
	Title              kernel.JobTitle       `db:"title" json:"title"`
	Description        kernel.JobDescription `db:"description" json:"description"`
	RequiredSkills     []kernel.SkillName    `db:"required_skills" json:"required_skills"`
	PreferredSkills    map[string]float64    `db:"preferred_skills" json:"preferred_skills"`
	MinExperienceYears int                   `db:"min_experience_years" json:"min_experience_years"`
	MinEducation       kernel.EducationLevel `db:"min_education" json:"min_education"`
	KeyPhrases         []string              `db:"key_phrases" json:"key_phrases,omitempty"`
	PostedBy           kernel.UserID         `db:"posted_by" json:"posted_by"`
	Status             JobStatus             `db:"status" json:"status"`
	PublishedAt        *time.Time            `db:"published_at" json:"published_at,omitempty"`
	ArchivedAt         *time.Time            `db:"archived_at" json:"archived_at,omitempty"`
	CreatedAt          time.Time             `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time             `db:"updated_at" json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// IsPublished checks if the job is currently published
func (j *Job) IsPublished() bool {
	return j.Status == JobStatusPublished
}

// IsArchived checks if the job is archived
func (j *Job) IsArchived() bool {
	return j.Status == JobStatusArchived
}

// IsDraft checks if the job is in draft status
func (j *Job) IsDraft() bool {
	return j.Status == JobStatusDraft
}

// CanBePublished checks if a job can be published
func (j *Job) CanBePublished() bool {
	return j.Status == JobStatusDraft
}

// CanBeEdited checks if a job can be edited
func (j *Job) CanBeEdited() bool {
	return !j.IsArchived()
}

// Publish marks the job as published
func (j *Job) Publish() error {
	if !j.CanBePublished() {
		return ErrCannotPublish().WithDetail("current_status", j.Status)
	}

	now := time.Now()
	j.Status = JobStatusPublished
	j.PublishedAt = &now
	j.UpdatedAt = now
	return nil
}

// Unpublish marks the job as draft
func (j *Job) Unpublish() {
	j.Status = JobStatusDraft
	j.UpdatedAt = time.Now()
}

// Close marks the job as closed
func (j *Job) Close() {
	j.Status = JobStatusClosed
	j.UpdatedAt = time.Now()
}

// Archive marks the job as archived
func (j *Job) Archive() error {
	if j.IsArchived() {
		return ErrJobAlreadyArchived()
	}

	now := time.Now()
	j.Status = JobStatusArchived
	j.ArchivedAt = &now
	j.UpdatedAt = now
	return nil
}

// Unarchive removes archived status
func (j *Job) Unarchive() error {
	if !j.IsArchived() {
		return ErrJobNotArchived()
	}

	j.Status = JobStatusDraft
	j.ArchivedAt = nil
	j.UpdatedAt = time.Now()
	return nil
}

// UpdateRequirements replaces the screening criteria of the posting
func (j *Job) UpdateRequirements(required []kernel.SkillName, preferred map[string]float64, minExperience int, minEducation kernel.EducationLevel) {
	j.RequiredSkills = required
	j.PreferredSkills = preferred
	j.MinExperienceYears = minExperience
	j.MinEducation = minEducation
	j.UpdatedAt = time.Now()
}

// RequiredSkillNames returns the required skills as plain strings
func (j *Job) RequiredSkillNames() []string {
	out := make([]string, len(j.RequiredSkills))
	for i, s := range j.RequiredSkills {
		out[i] = string(s)
	}
	return out
}
