package resume

import (
	"time"

	"github.com/Abraxas-365/sift/pkg/kernel"
)

// Resume is a stored candidate resume with the structured fields the
// scoring engine consumes. RawText keeps the full extracted text for
// similarity matching.
type Resume struct {
	ID       kernel.ResumeID `db:"id" json:"id"`
	TenantID kernel.TenantID `db:"tenant_id" json:"tenant_id"`

	CandidateName string `db:"candidate_name" json:"candidate_name"`
	Email         string `db:"email" json:"email,omitempty"`
	Phone         string `db:"phone" json:"phone,omitempty"`

	FileName string `db:"file_name" json:"file_name,omitempty"`
	FilePath string `db:"file_path" json:"file_path,omitempty"`
	FileType string `db:"file_type" json:"file_type,omitempty"`

	RawText         string                `db:"raw_text" json:"-"`
	Skills          []kernel.SkillName    `db:"skills" json:"skills"`
	ExperienceYears float64               `db:"experience_years" json:"experience_years"`
	Education       kernel.EducationLevel `db:"education" json:"education"`

	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Activate marks the resume as eligible for screening
func (r *Resume) Activate() {
	r.IsActive = true
	r.UpdatedAt = time.Now()
}

// Deactivate excludes the resume from screening without deleting it
func (r *Resume) Deactivate() {
	r.IsActive = false
	r.UpdatedAt = time.Now()
}

// SkillNames returns the extracted skills as plain strings
func (r *Resume) SkillNames() []string {
	out := make([]string, len(r.Skills))
	for i, s := range r.Skills {
		out[i] = string(s)
	}
	return out
}
