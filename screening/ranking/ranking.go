package ranking

import (
	"time"

	"github.com/Abraxas-365/sift/pkg/kernel"
)

// RankedResult is one candidate's scoring outcome for one job, produced
// by a scoring run. A run replaces all previous results for the job, so
// the stored set is always a single consistent snapshot.
type RankedResult struct {
	ID       kernel.RankingID `db:"id" json:"id"`
	JobID    kernel.JobID     `db:"job_id" json:"job_id"`
	ResumeID kernel.ResumeID  `db:"resume_id" json:"resume_id"`
	TenantID kernel.TenantID  `db:"tenant_id" json:"tenant_id"`

	CandidateName string `db:"candidate_name" json:"candidate_name"`
	Rank          int    `db:"rank" json:"rank"`

	SkillsScore     float64 `db:"skills_score" json:"skills_score"`
	ExperienceScore float64 `db:"experience_score" json:"experience_score"`
	EducationScore  float64 `db:"education_score" json:"education_score"`
	SemanticScore   float64 `db:"semantic_score" json:"semantic_score"`
	OverallScore    float64 `db:"overall_score" json:"overall_score"`

	MatchedRequired  []string `db:"matched_required" json:"matched_required"`
	MissingRequired  []string `db:"missing_required" json:"missing_required"`
	MatchedPreferred []string `db:"matched_preferred" json:"matched_preferred"`
	Flags            []string `db:"flags" json:"flags,omitempty"`

	RunAt time.Time `db:"run_at" json:"run_at"`
}

// HasAllRequired reports whether the candidate matched every required
// skill of the job.
func (r *RankedResult) HasAllRequired() bool {
	return len(r.MissingRequired) == 0
}
