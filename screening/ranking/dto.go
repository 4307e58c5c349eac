package ranking

import (
	"time"

	"github.com/Abraxas-365/sift/pkg/kernel"
)

// RunRankingsRequest - DTO for triggering a scoring run
type RunRankingsRequest struct {
	JobID    kernel.JobID    `json:"job_id" validate:"required"`
	TenantID kernel.TenantID `json:"tenant_id" validate:"required"`
}

// RunRankingsResponse summarizes a completed scoring run
type RunRankingsResponse struct {
	JobID           kernel.JobID `json:"job_id"`
	CandidatesRated int          `json:"candidates_rated"`
	FlaggedResults  int          `json:"flagged_results"`
	RunAt           time.Time    `json:"run_at"`
	DurationMs      int64        `json:"duration_ms"`
}

// RankedResultResponse - DTO for returning one ranked candidate
type RankedResultResponse struct {
	ResumeID      kernel.ResumeID `json:"resume_id"`
	CandidateName string          `json:"candidate_name"`
	Rank          int             `json:"rank"`

	SkillsScore     float64 `json:"skills_score"`
	ExperienceScore float64 `json:"experience_score"`
	EducationScore  float64 `json:"education_score"`
	SemanticScore   float64 `json:"semantic_score"`
	OverallScore    float64 `json:"overall_score"`

	MatchedRequired  []string `json:"matched_required"`
	MissingRequired  []string `json:"missing_required"`
	MatchedPreferred []string `json:"matched_preferred"`
	Flags            []string `json:"flags,omitempty"`

	RunAt time.Time `json:"run_at"`
}

// RankingsResponse - DTO for returning the leaderboard of a job
type RankingsResponse struct {
	JobID   kernel.JobID           `json:"job_id"`
	Total   int                    `json:"total"`
	Results []RankedResultResponse `json:"results"`
}

// RankingStatsResponse - Aggregate statistics over a job's rankings
type RankingStatsResponse struct {
	JobID             kernel.JobID `json:"job_id"`
	TotalCandidates   int          `json:"total_candidates"`
	AverageOverall    float64      `json:"average_overall"`
	AverageSkills     float64      `json:"average_skills"`
	AverageExperience float64      `json:"average_experience"`
	TopOverall        float64      `json:"top_overall"`
	FullRequiredMatch int          `json:"full_required_match"`
	FlaggedCandidates int          `json:"flagged_candidates"`
	LastRunAt         *time.Time   `json:"last_run_at,omitempty"`
}
