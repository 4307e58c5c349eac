package rankinginfra

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/screening/ranking"
)

// PostgresRankingRepository implements ranking.Repository using PostgreSQL
type PostgresRankingRepository struct {
	db *sqlx.DB
}

// NewPostgresRankingRepository creates a new PostgreSQL ranking repository
func NewPostgresRankingRepository(db *sqlx.DB) ranking.Repository {
	return &PostgresRankingRepository{db: db}
}

type rankedResultModel struct {
	ID       string `db:"id"`
	JobID    string `db:"job_id"`
	ResumeID string `db:"resume_id"`
	TenantID string `db:"tenant_id"`

	CandidateName string `db:"candidate_name"`
	Rank          int    `db:"rank"`

	SkillsScore     float64 `db:"skills_score"`
	ExperienceScore float64 `db:"experience_score"`
	EducationScore  float64 `db:"education_score"`
	SemanticScore   float64 `db:"semantic_score"`
	OverallScore    float64 `db:"overall_score"`

	MatchedRequired  pq.StringArray `db:"matched_required"`
	MissingRequired  pq.StringArray `db:"missing_required"`
	MatchedPreferred pq.StringArray `db:"matched_preferred"`
	Flags            pq.StringArray `db:"flags"`

	RunAt time.Time `db:"run_at"`
}

func (m *rankedResultModel) toEntity() *ranking.RankedResult {
	return &ranking.RankedResult{
		ID:               kernel.RankingID(m.ID),
		JobID:            kernel.JobID(m.JobID),
		ResumeID:         kernel.ResumeID(m.ResumeID),
		TenantID:         kernel.TenantID(m.TenantID),
		CandidateName:    m.CandidateName,
		Rank:             m.Rank,
		SkillsScore:      m.SkillsScore,
		ExperienceScore:  m.ExperienceScore,
		EducationScore:   m.EducationScore,
		SemanticScore:    m.SemanticScore,
		OverallScore:     m.OverallScore,
		MatchedRequired:  []string(m.MatchedRequired),
		MissingRequired:  []string(m.MissingRequired),
		MatchedPreferred: []string(m.MatchedPreferred),
		Flags:            []string(m.Flags),
		RunAt:            m.RunAt,
	}
}

func fromEntity(r *ranking.RankedResult) *rankedResultModel {
	return &rankedResultModel{
		ID:               string(r.ID),
		JobID:            string(r.JobID),
		ResumeID:         string(r.ResumeID),
		TenantID:         string(r.TenantID),
		CandidateName:    r.CandidateName,
		Rank:             r.Rank,
		SkillsScore:      r.SkillsScore,
		ExperienceScore:  r.ExperienceScore,
		EducationScore:   r.EducationScore,
		SemanticScore:    r.SemanticScore,
		OverallScore:     r.OverallScore,
		MatchedRequired:  pq.StringArray(r.MatchedRequired),
		MissingRequired:  pq.StringArray(r.MissingRequired),
		MatchedPreferred: pq.StringArray(r.MatchedPreferred),
		Flags:            pq.StringArray(r.Flags),
		RunAt:            r.RunAt,
	}
}

const rankedResultColumns = `
	id, job_id, resume_id, tenant_id, candidate_name, rank,
	skills_score, experience_score, education_score, semantic_score, overall_score,
	matched_required, missing_required, matched_preferred, flags, run_at
`

// ReplaceForJob deletes all stored results for the job and inserts the
// new set in one transaction
func (r *PostgresRankingRepository) ReplaceForJob(ctx context.Context, jobID kernel.JobID, results []*ranking.RankedResult) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ranked_results WHERE job_id = $1`, string(jobID)); err != nil {
		return fmt.Errorf("clear previous rankings: %w", err)
	}

	query := `
		INSERT INTO ranked_results (
			id, job_id, resume_id, tenant_id, candidate_name, rank,
			skills_score, experience_score, education_score, semantic_score, overall_score,
			matched_required, missing_required, matched_preferred, flags, run_at
		) VALUES (
			:id, :job_id, :resume_id, :tenant_id, :candidate_name, :rank,
			:skills_score, :experience_score, :education_score, :semantic_score, :overall_score,
			:matched_required, :missing_required, :matched_preferred, :flags, :run_at
		)
	`

	for _, result := range results {
		if _, err := tx.NamedExecContext(ctx, query, fromEntity(result)); err != nil {
			return fmt.Errorf("insert ranking for resume %s: %w", result.ResumeID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rankings: %w", err)
	}
	return nil
}

// ListByJob returns results ordered by rank ascending
func (r *PostgresRankingRepository) ListByJob(ctx context.Context, jobID kernel.JobID, limit int) ([]*ranking.RankedResult, error) {
	query := `SELECT ` + rankedResultColumns + ` FROM ranked_results
		WHERE job_id = $1
		ORDER BY rank ASC`

	args := []any{string(jobID)}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	var models []rankedResultModel
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, fmt.Errorf("list rankings: %w", err)
	}

	results := make([]*ranking.RankedResult, 0, len(models))
	for i := range models {
		results = append(results, models[i].toEntity())
	}
	return results, nil
}

// DeleteByJob removes all results for a job
func (r *PostgresRankingRepository) DeleteByJob(ctx context.Context, jobID kernel.JobID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM ranked_results WHERE job_id = $1`, string(jobID)); err != nil {
		return fmt.Errorf("delete rankings: %w", err)
	}
	return nil
}

// CountByJob returns the number of stored results for a job
func (r *PostgresRankingRepository) CountByJob(ctx context.Context, jobID kernel.JobID) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM ranked_results WHERE job_id = $1`, string(jobID)); err != nil {
		return 0, fmt.Errorf("count rankings: %w", err)
	}
	return count, nil
}
