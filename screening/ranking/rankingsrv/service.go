package rankingsrv

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Abraxas-365/sift/internal/match"
	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/pkg/logx"
	"github.com/Abraxas-365/sift/screening/job"
	"github.com/Abraxas-365/sift/screening/ranking"
	"github.com/Abraxas-365/sift/screening/resume"
)

// Service orchestrates scoring runs: it loads the job profile and the
// tenant's active resumes, scores the batch, and atomically replaces
// the stored leaderboard for the job.
type Service struct {
	engine   *match.Engine
	jobs     job.Repository
	resumes  resume.Repository
	rankings ranking.Repository
}

func NewService(
	engine *match.Engine,
	jobs job.Repository,
	resumes resume.Repository,
	rankings ranking.Repository,
) *Service {
	return &Service{
		engine:   engine,
		jobs:     jobs,
		resumes:  resumes,
		rankings: rankings,
	}
}

// RunRankings scores every active resume of the tenant against the job
// and replaces the job's stored rankings with the new snapshot.
func (s *Service) RunRankings(ctx context.Context, jobID kernel.JobID, tenantID kernel.TenantID) (*ranking.RunRankingsResponse, error) {
	started := time.Now()

	jobEntity, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	// Drafts and archived jobs have no stable requirement set to rank
	// against.
	if jobEntity.IsDraft() || jobEntity.IsArchived() {
		return nil, ranking.ErrJobNotPublished().
			WithDetail("job_id", jobID.String()).
			WithDetail("status", string(jobEntity.Status))
	}

	resumes, err := s.resumes.ListActiveByTenantID(ctx, tenantID)
	if err != nil {
		return nil, ranking.ErrRunFailed(err)
	}
	if len(resumes) == 0 {
		return nil, ranking.ErrNoCandidates().WithDetail("tenant_id", tenantID.String())
	}

	profile := match.JobProfile{
		Title:              string(jobEntity.Title),
		Description:        string(jobEntity.Description),
		RequiredSkills:     jobEntity.RequiredSkillNames(),
		PreferredSkills:    jobEntity.PreferredSkills,
		MinExperienceYears: jobEntity.MinExperienceYears,
		MinEducation:       jobEntity.MinEducation,
	}

	candidates := make([]match.Candidate, 0, len(resumes))
	names := make(map[string]string, len(resumes))
	for _, r := range resumes {
		candidates = append(candidates, match.Candidate{
			ID:              r.ID.String(),
			RawText:         r.RawText,
			Skills:          r.SkillNames(),
			ExperienceYears: r.ExperienceYears,
			Education:       r.Education,
		})
		names[r.ID.String()] = r.CandidateName
	}

	ranked, err := s.engine.RankBatch(ctx, profile, candidates)
	if err != nil {
		return nil, ranking.ErrRunFailed(err)
	}

	runAt := time.Now()
	results := make([]*ranking.RankedResult, 0, len(ranked))
	flagged := 0
	for _, r := range ranked {
		if len(r.Breakdown.Flags) > 0 {
			flagged++
		}
		results = append(results, &ranking.RankedResult{
			ID:               kernel.RankingID(uuid.NewString()),
			JobID:            jobID,
			ResumeID:         kernel.ResumeID(r.CandidateID),
			TenantID:         tenantID,
			CandidateName:    names[r.CandidateID],
			Rank:             r.Rank,
			SkillsScore:      r.Breakdown.Skills,
			ExperienceScore:  r.Breakdown.Experience,
			EducationScore:   r.Breakdown.Education,
			SemanticScore:    r.Breakdown.Semantic,
			OverallScore:     r.Breakdown.Overall,
			MatchedRequired:  r.Breakdown.MatchedRequired,
			MissingRequired:  r.Breakdown.MissingRequired,
			MatchedPreferred: r.Breakdown.MatchedPreferred,
			Flags:            r.Breakdown.Flags,
			RunAt:            runAt,
		})
	}

	if err := s.rankings.ReplaceForJob(ctx, jobID, results); err != nil {
		return nil, ranking.ErrRunFailed(err)
	}

	logx.Infof("Scoring run for job %s rated %d candidates (%d flagged) in %s",
		jobID, len(results), flagged, time.Since(started))

	return &ranking.RunRankingsResponse{
		JobID:           jobID,
		CandidatesRated: len(results),
		FlaggedResults:  flagged,
		RunAt:           runAt,
		DurationMs:      time.Since(started).Milliseconds(),
	}, nil
}

// GetRankings returns the stored leaderboard for a job, top N first.
// limit <= 0 returns all results.
func (s *Service) GetRankings(ctx context.Context, jobID kernel.JobID, limit int) (*ranking.RankingsResponse, error) {
	if _, err := s.jobs.GetByID(ctx, jobID); err != nil {
		return nil, err
	}

	total, err := s.rankings.CountByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	results, err := s.rankings.ListByJob(ctx, jobID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]ranking.RankedResultResponse, 0, len(results))
	for _, r := range results {
		responses = append(responses, toResultResponse(r))
	}

	return &ranking.RankingsResponse{
		JobID:   jobID,
		Total:   int(total),
		Results: responses,
	}, nil
}

// GetStats aggregates statistics over a job's stored rankings
func (s *Service) GetStats(ctx context.Context, jobID kernel.JobID) (*ranking.RankingStatsResponse, error) {
	results, err := s.rankings.ListByJob(ctx, jobID, 0)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ranking.ErrRankingsNotFound().WithDetail("job_id", jobID.String())
	}

	stats := &ranking.RankingStatsResponse{
		JobID:           jobID,
		TotalCandidates: len(results),
	}

	var sumOverall, sumSkills, sumExperience float64
	for _, r := range results {
		sumOverall += r.OverallScore
		sumSkills += r.SkillsScore
		sumExperience += r.ExperienceScore
		if r.OverallScore > stats.TopOverall {
			stats.TopOverall = r.OverallScore
		}
		if r.HasAllRequired() {
			stats.FullRequiredMatch++
		}
		if len(r.Flags) > 0 {
			stats.FlaggedCandidates++
		}
		if stats.LastRunAt == nil || r.RunAt.After(*stats.LastRunAt) {
			runAt := r.RunAt
			stats.LastRunAt = &runAt
		}
	}
	n := float64(len(results))
	stats.AverageOverall = sumOverall / n
	stats.AverageSkills = sumSkills / n
	stats.AverageExperience = sumExperience / n

	return stats, nil
}

// DeleteRankings removes all stored results for a job
func (s *Service) DeleteRankings(ctx context.Context, jobID kernel.JobID) error {
	return s.rankings.DeleteByJob(ctx, jobID)
}

func toResultResponse(r *ranking.RankedResult) ranking.RankedResultResponse {
	return ranking.RankedResultResponse{
		ResumeID:         r.ResumeID,
		CandidateName:    r.CandidateName,
		Rank:             r.Rank,
		SkillsScore:      r.SkillsScore,
		ExperienceScore:  r.ExperienceScore,
		EducationScore:   r.EducationScore,
		SemanticScore:    r.SemanticScore,
		OverallScore:     r.OverallScore,
		MatchedRequired:  r.MatchedRequired,
		MissingRequired:  r.MissingRequired,
		MatchedPreferred: r.MatchedPreferred,
		Flags:            r.Flags,
		RunAt:            r.RunAt,
	}
}
