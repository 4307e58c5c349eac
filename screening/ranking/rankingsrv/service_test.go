package rankingsrv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/sift/internal/match"
	"github.com/Abraxas-365/sift/pkg/errx"
	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/screening/job"
	"github.com/Abraxas-365/sift/screening/ranking"
	"github.com/Abraxas-365/sift/screening/resume"
)

// ============================================================================
// In-memory fakes
// ============================================================================

type memoryJobRepo struct {
	jobs map[kernel.JobID]*job.Job
}

func newMemoryJobRepo() *memoryJobRepo {
	return &memoryJobRepo{jobs: make(map[kernel.JobID]*job.Job)}
}

func (r *memoryJobRepo) Create(_ context.Context, j *job.Job) error {
	r.jobs[j.ID] = j
	return nil
}

func (r *memoryJobRepo) Update(_ context.Context, j *job.Job) error {
	r.jobs[j.ID] = j
	return nil
}

func (r *memoryJobRepo) GetByID(_ context.Context, id kernel.JobID) (*job.Job, error) {
	j, ok := r.jobs[id]
	if !ok {
		return nil, job.ErrJobNotFound()
	}
	return j, nil
}

func (r *memoryJobRepo) Delete(_ context.Context, id kernel.JobID) error {
	delete(r.jobs, id)
	return nil
}

func (r *memoryJobRepo) List(_ context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[job.Job], error) {
	items := make([]job.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		items = append(items, *j)
	}
	return kernel.NewPaginated(items, int64(len(items)), pagination), nil
}

func (r *memoryJobRepo) ListByStatus(_ context.Context, status job.JobStatus, pagination kernel.PaginationOptions) (*kernel.Paginated[job.Job], error) {
	items := []job.Job{}
	for _, j := range r.jobs {
		if j.Status == status {
			items = append(items, *j)
		}
	}
	return kernel.NewPaginated(items, int64(len(items)), pagination), nil
}

func (r *memoryJobRepo) Exists(_ context.Context, id kernel.JobID) (bool, error) {
	_, ok := r.jobs[id]
	return ok, nil
}

type memoryResumeRepo struct {
	resumes map[kernel.ResumeID]*resume.Resume
}

func newMemoryResumeRepo() *memoryResumeRepo {
	return &memoryResumeRepo{resumes: make(map[kernel.ResumeID]*resume.Resume)}
}

func (r *memoryResumeRepo) Create(_ context.Context, entity *resume.Resume) error {
	r.resumes[entity.ID] = entity
	return nil
}

func (r *memoryResumeRepo) Update(_ context.Context, entity *resume.Resume) error {
	r.resumes[entity.ID] = entity
	return nil
}

func (r *memoryResumeRepo) GetByID(_ context.Context, id kernel.ResumeID) (*resume.Resume, error) {
	entity, ok := r.resumes[id]
	if !ok {
		return nil, resume.ErrResumeNotFound()
	}
	return entity, nil
}

func (r *memoryResumeRepo) ListByTenantID(_ context.Context, tenantID kernel.TenantID, pagination kernel.PaginationOptions) (*kernel.Paginated[resume.Resume], error) {
	items := []resume.Resume{}
	for _, entity := range r.resumes {
		if entity.TenantID == tenantID {
			items = append(items, *entity)
		}
	}
	return kernel.NewPaginated(items, int64(len(items)), pagination), nil
}

func (r *memoryResumeRepo) ListActiveByTenantID(_ context.Context, tenantID kernel.TenantID) ([]*resume.Resume, error) {
	var items []*resume.Resume
	for _, entity := range r.resumes {
		if entity.TenantID == tenantID && entity.IsActive {
			items = append(items, entity)
		}
	}
	return items, nil
}

func (r *memoryResumeRepo) Delete(_ context.Context, id kernel.ResumeID) error {
	delete(r.resumes, id)
	return nil
}

func (r *memoryResumeRepo) CountByTenantID(_ context.Context, tenantID kernel.TenantID) (int64, error) {
	var count int64
	for _, entity := range r.resumes {
		if entity.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

type memoryRankingRepo struct {
	byJob map[kernel.JobID][]*ranking.RankedResult
}

func newMemoryRankingRepo() *memoryRankingRepo {
	return &memoryRankingRepo{byJob: make(map[kernel.JobID][]*ranking.RankedResult)}
}

func (r *memoryRankingRepo) ReplaceForJob(_ context.Context, jobID kernel.JobID, results []*ranking.RankedResult) error {
	r.byJob[jobID] = results
	return nil
}

func (r *memoryRankingRepo) ListByJob(_ context.Context, jobID kernel.JobID, limit int) ([]*ranking.RankedResult, error) {
	results := r.byJob[jobID]
	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}
	return results, nil
}

func (r *memoryRankingRepo) DeleteByJob(_ context.Context, jobID kernel.JobID) error {
	delete(r.byJob, jobID)
	return nil
}

func (r *memoryRankingRepo) CountByJob(_ context.Context, jobID kernel.JobID) (int64, error) {
	return int64(len(r.byJob[jobID])), nil
}

// ============================================================================
// Fixtures
// ============================================================================

const tenantID = kernel.TenantID("tenant-1")

func newTestService(t *testing.T) (*Service, *memoryJobRepo, *memoryResumeRepo, *memoryRankingRepo) {
	t.Helper()

	engine, warnings, err := match.New(match.DefaultConfig())
	require.NoError(t, err)
	require.Empty(t, warnings)

	jobs := newMemoryJobRepo()
	resumes := newMemoryResumeRepo()
	rankings := newMemoryRankingRepo()
	return NewService(engine, jobs, resumes, rankings), jobs, resumes, rankings
}

func publishedJob(id string) *job.Job {
	now := time.Now()
	return &job.Job{
		ID:          kernel.JobID(id),
		Title:       "Senior Backend Engineer",
		Description: "We need a backend engineer with strong Python and SQL experience building data pipelines.",
		RequiredSkills: []kernel.SkillName{
			"python", "sql",
		},
		PreferredSkills:    map[string]float64{"aws": 1.0},
		MinExperienceYears: 5,
		MinEducation:       kernel.EducationBachelor,
		Status:             job.JobStatusPublished,
		PublishedAt:        &now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func activeResume(id, name, text string, skills []kernel.SkillName, years float64, education kernel.EducationLevel) *resume.Resume {
	now := time.Now()
	return &resume.Resume{
		ID:              kernel.ResumeID(id),
		TenantID:        tenantID,
		CandidateName:   name,
		RawText:         text,
		Skills:          skills,
		ExperienceYears: years,
		Education:       education,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// ============================================================================
// Tests
// ============================================================================

func TestRunRankingsOrdersStrongerCandidateFirst(t *testing.T) {
	svc, jobs, resumes, rankings := newTestService(t)
	ctx := context.Background()

	j := publishedJob("job-1")
	require.NoError(t, jobs.Create(ctx, j))

	strong := activeResume("resume-a", "Alice Strong",
		"Seasoned backend engineer building data pipelines with Python and SQL on AWS.",
		[]kernel.SkillName{"python", "sql", "aws"}, 6, kernel.EducationMaster)
	weak := activeResume("resume-b", "Bob Weak",
		"Frontend developer working with JavaScript.",
		[]kernel.SkillName{"javascript"}, 2, kernel.EducationHighSchool)
	require.NoError(t, resumes.Create(ctx, strong))
	require.NoError(t, resumes.Create(ctx, weak))

	run, err := svc.RunRankings(ctx, j.ID, tenantID)
	require.NoError(t, err)
	assert.Equal(t, 2, run.CandidatesRated)
	assert.Equal(t, j.ID, run.JobID)

	stored := rankings.byJob[j.ID]
	require.Len(t, stored, 2)
	assert.Equal(t, kernel.ResumeID("resume-a"), stored[0].ResumeID)
	assert.Equal(t, 1, stored[0].Rank)
	assert.Equal(t, "Alice Strong", stored[0].CandidateName)
	assert.Equal(t, kernel.ResumeID("resume-b"), stored[1].ResumeID)
	assert.Equal(t, 2, stored[1].Rank)
	assert.Greater(t, stored[0].OverallScore, stored[1].OverallScore)

	assert.InDelta(t, 1.0, stored[0].SkillsScore, 1e-9)
	assert.ElementsMatch(t, []string{"python", "sql"}, stored[0].MatchedRequired)
	assert.ElementsMatch(t, []string{"aws"}, stored[0].MatchedPreferred)
	assert.ElementsMatch(t, []string{"python", "sql"}, stored[1].MissingRequired)
}

func TestRunRankingsReplacesPreviousResults(t *testing.T) {
	svc, jobs, resumes, rankings := newTestService(t)
	ctx := context.Background()

	j := publishedJob("job-1")
	require.NoError(t, jobs.Create(ctx, j))
	require.NoError(t, resumes.Create(ctx, activeResume("resume-a", "Alice",
		"Python and SQL engineer.", []kernel.SkillName{"python", "sql"}, 6, kernel.EducationBachelor)))

	_, err := svc.RunRankings(ctx, j.ID, tenantID)
	require.NoError(t, err)
	require.Len(t, rankings.byJob[j.ID], 1)

	// A second candidate appears; the next run replaces the snapshot
	require.NoError(t, resumes.Create(ctx, activeResume("resume-b", "Bob",
		"SQL analyst.", []kernel.SkillName{"sql"}, 3, kernel.EducationBachelor)))

	run, err := svc.RunRankings(ctx, j.ID, tenantID)
	require.NoError(t, err)
	assert.Equal(t, 2, run.CandidatesRated)
	assert.Len(t, rankings.byJob[j.ID], 2)
}

func TestRunRankingsSkipsInactiveResumes(t *testing.T) {
	svc, jobs, resumes, _ := newTestService(t)
	ctx := context.Background()

	j := publishedJob("job-1")
	require.NoError(t, jobs.Create(ctx, j))

	inactive := activeResume("resume-x", "Gone", "Python.", []kernel.SkillName{"python"}, 5, kernel.EducationBachelor)
	inactive.IsActive = false
	require.NoError(t, resumes.Create(ctx, inactive))
	require.NoError(t, resumes.Create(ctx, activeResume("resume-a", "Alice",
		"Python and SQL.", []kernel.SkillName{"python", "sql"}, 6, kernel.EducationBachelor)))

	run, err := svc.RunRankings(ctx, j.ID, tenantID)
	require.NoError(t, err)
	assert.Equal(t, 1, run.CandidatesRated)
}

func TestRunRankingsRejectsDraftJob(t *testing.T) {
	svc, jobs, resumes, _ := newTestService(t)
	ctx := context.Background()

	j := publishedJob("job-1")
	j.Status = job.JobStatusDraft
	j.PublishedAt = nil
	require.NoError(t, jobs.Create(ctx, j))
	require.NoError(t, resumes.Create(ctx, activeResume("resume-a", "Alice",
		"Python.", []kernel.SkillName{"python"}, 6, kernel.EducationBachelor)))

	_, err := svc.RunRankings(ctx, j.ID, tenantID)
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "RANKING.JOB_NOT_PUBLISHED", string(xerr.Code))
}

func TestRunRankingsRequiresCandidates(t *testing.T) {
	svc, jobs, _, _ := newTestService(t)
	ctx := context.Background()

	j := publishedJob("job-1")
	require.NoError(t, jobs.Create(ctx, j))

	_, err := svc.RunRankings(ctx, j.ID, tenantID)
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "RANKING.NO_CANDIDATES", string(xerr.Code))
}

func TestGetRankingsHonorsLimit(t *testing.T) {
	svc, jobs, resumes, _ := newTestService(t)
	ctx := context.Background()

	j := publishedJob("job-1")
	require.NoError(t, jobs.Create(ctx, j))
	require.NoError(t, resumes.Create(ctx, activeResume("resume-a", "Alice",
		"Python and SQL.", []kernel.SkillName{"python", "sql"}, 6, kernel.EducationMaster)))
	require.NoError(t, resumes.Create(ctx, activeResume("resume-b", "Bob",
		"SQL analyst.", []kernel.SkillName{"sql"}, 4, kernel.EducationBachelor)))
	require.NoError(t, resumes.Create(ctx, activeResume("resume-c", "Cara",
		"Marketing.", []kernel.SkillName{}, 1, kernel.EducationHighSchool)))

	_, err := svc.RunRankings(ctx, j.ID, tenantID)
	require.NoError(t, err)

	response, err := svc.GetRankings(ctx, j.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, response.Total)
	require.Len(t, response.Results, 2)
	assert.Equal(t, 1, response.Results[0].Rank)
	assert.Equal(t, 2, response.Results[1].Rank)
}

func TestGetStatsAggregates(t *testing.T) {
	svc, jobs, resumes, _ := newTestService(t)
	ctx := context.Background()

	j := publishedJob("job-1")
	require.NoError(t, jobs.Create(ctx, j))
	require.NoError(t, resumes.Create(ctx, activeResume("resume-a", "Alice",
		"Python and SQL on AWS.", []kernel.SkillName{"python", "sql", "aws"}, 6, kernel.EducationMaster)))

	// Empty text draws a flag but the candidate is still scored
	flagged := activeResume("resume-b", "Bob", "", nil, 2, kernel.EducationBachelor)
	require.NoError(t, resumes.Create(ctx, flagged))

	_, err := svc.RunRankings(ctx, j.ID, tenantID)
	require.NoError(t, err)

	stats, err := svc.GetStats(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalCandidates)
	assert.Equal(t, 1, stats.FullRequiredMatch)
	assert.Equal(t, 1, stats.FlaggedCandidates)
	assert.Greater(t, stats.TopOverall, stats.AverageOverall)
	assert.Greater(t, stats.AverageSkills, 0.0)
	assert.Greater(t, stats.AverageExperience, 0.0)
	require.NotNil(t, stats.LastRunAt)
}

func TestGetStatsWithoutRunFails(t *testing.T) {
	svc, jobs, _, _ := newTestService(t)
	ctx := context.Background()

	j := publishedJob("job-1")
	require.NoError(t, jobs.Create(ctx, j))

	_, err := svc.GetStats(ctx, j.ID)
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "RANKING.NOT_FOUND", string(xerr.Code))
}

func TestDeleteRankings(t *testing.T) {
	svc, jobs, resumes, rankings := newTestService(t)
	ctx := context.Background()

	j := publishedJob("job-1")
	require.NoError(t, jobs.Create(ctx, j))
	require.NoError(t, resumes.Create(ctx, activeResume("resume-a", "Alice",
		"Python.", []kernel.SkillName{"python", "sql"}, 6, kernel.EducationBachelor)))

	_, err := svc.RunRankings(ctx, j.ID, tenantID)
	require.NoError(t, err)
	require.NotEmpty(t, rankings.byJob[j.ID])

	require.NoError(t, svc.DeleteRankings(ctx, j.ID))
	assert.Empty(t, rankings.byJob[j.ID])
}
