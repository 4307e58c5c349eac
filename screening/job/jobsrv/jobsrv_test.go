package jobsrv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/sift/internal/extract"
	"github.com/Abraxas-365/sift/pkg/errx"
	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/screening/job"
)

type memoryJobRepo struct {
	jobs map[kernel.JobID]*job.Job
}

func newMemoryJobRepo() *memoryJobRepo {
	return &memoryJobRepo{jobs: make(map[kernel.JobID]*job.Job)}
}

func (r *memoryJobRepo) Create(_ context.Context, j *job.Job) error {
	if _, ok := r.jobs[j.ID]; ok {
		return job.ErrJobAlreadyExists()
	}
	stored := *j
	r.jobs[j.ID] = &stored
	return nil
}

func (r *memoryJobRepo) Update(_ context.Context, j *job.Job) error {
	if _, ok := r.jobs[j.ID]; !ok {
		return job.ErrJobNotFound()
	}
	stored := *j
	r.jobs[j.ID] = &stored
	return nil
}

func (r *memoryJobRepo) GetByID(_ context.Context, id kernel.JobID) (*job.Job, error) {
	j, ok := r.jobs[id]
	if !ok {
		return nil, job.ErrJobNotFound()
	}
	copied := *j
	return &copied, nil
}

func (r *memoryJobRepo) Delete(_ context.Context, id kernel.JobID) error {
	if _, ok := r.jobs[id]; !ok {
		return job.ErrJobNotFound()
	}
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

const sampleDescription = kernel.JobDescription(`Senior Python Developer

We are looking for an experienced engineer.

Requirements:
- 5+ years of experience with Python
- Strong SQL and PostgreSQL knowledge
- Bachelor's degree in Computer Science

Nice to have:
- Experience with AWS`)

func newTestService() (*JobService, *memoryJobRepo) {
	repo := newMemoryJobRepo()
	return NewJobService(repo, extract.NewJobAnalyzer(nil)), repo
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, code, string(xerr.Code))
}

func TestCreateJobDerivesRequirementsFromDescription(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.CreateJob(context.Background(), job.CreateJobRequest{
		Title:       "Senior Python Developer",
		Description: sampleDescription,
		PostedBy:    "recruiter-1",
	})
	require.NoError(t, err)

	assert.Equal(t, job.JobStatusDraft, created.Status)
	assert.Contains(t, created.RequiredSkills, kernel.SkillName("python"))
	assert.Contains(t, created.RequiredSkills, kernel.SkillName("sql"))
	assert.Contains(t, created.PreferredSkills, "aws")
	assert.Equal(t, 5, created.MinExperienceYears)
	assert.Equal(t, kernel.EducationBachelor, created.MinEducation)
	assert.NotEmpty(t, created.KeyPhrases)
}

func TestCreateJobExplicitFieldsWinOverAnalysis(t *testing.T) {
	svc, _ := newTestService()

	minExperience := 2
	created, err := svc.CreateJob(context.Background(), job.CreateJobRequest{
		Title:              "Senior Python Developer",
		Description:        sampleDescription,
		RequiredSkills:     []kernel.SkillName{"go"},
		MinExperienceYears: &minExperience,
		MinEducation:       "master",
	})
	require.NoError(t, err)

	assert.Equal(t, []kernel.SkillName{"go"}, created.RequiredSkills)
	assert.Equal(t, 2, created.MinExperienceYears)
	assert.Equal(t, kernel.EducationMaster, created.MinEducation)
}

func TestCreateJobRequiresTitleAndDescription(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateJob(context.Background(), job.CreateJobRequest{Title: "No description"})
	require.Error(t, err)
	assertCode(t, err, "JOB.INVALID_REQUEST")
}

func TestPublishLifecycle(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateJob(ctx, job.CreateJobRequest{
		Title:       "Senior Python Developer",
		Description: sampleDescription,
	})
	require.NoError(t, err)

	published, err := svc.PublishJob(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, job.JobStatusPublished, published.Status)
	require.NotNil(t, published.PublishedAt)

	// Publishing twice is rejected
	_, err = svc.PublishJob(ctx, created.ID)
	require.Error(t, err)
	assertCode(t, err, "JOB.CANNOT_PUBLISH")

	unpublished, err := svc.UnpublishJob(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, job.JobStatusDraft, unpublished.Status)
}

func TestArchiveBlocksEdits(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateJob(ctx, job.CreateJobRequest{
		Title:       "Senior Python Developer",
		Description: sampleDescription,
	})
	require.NoError(t, err)

	archived, err := svc.ArchiveJob(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, job.JobStatusArchived, archived.Status)

	newTitle := kernel.JobTitle("Retitled")
	_, err = svc.UpdateJob(ctx, created.ID, job.UpdateJobRequest{Title: &newTitle})
	require.Error(t, err)
	assertCode(t, err, "JOB.ARCHIVED")

	restored, err := svc.UnarchiveJob(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, job.JobStatusDraft, restored.Status)
}

func TestUpdateJobReanalyzesKeyPhrasesOnDescriptionChange(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateJob(ctx, job.CreateJobRequest{
		Title:       "Senior Python Developer",
		Description: sampleDescription,
	})
	require.NoError(t, err)

	newDescription := kernel.JobDescription("Looking for proven experience with distributed systems and strong knowledge of Go.")
	updated, err := svc.UpdateJob(ctx, created.ID, job.UpdateJobRequest{Description: &newDescription})
	require.NoError(t, err)
	assert.Equal(t, newDescription, updated.Description)
	assert.NotEqual(t, created.KeyPhrases, updated.KeyPhrases)
}

func TestDeleteJob(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	created, err := svc.CreateJob(ctx, job.CreateJobRequest{
		Title:       "Senior Python Developer",
		Description: sampleDescription,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteJob(ctx, created.ID))
	_, ok := repo.jobs[created.ID]
	assert.False(t, ok)

	err = svc.DeleteJob(ctx, created.ID)
	require.Error(t, err)
	assertCode(t, err, "JOB.NOT_FOUND")
}

func TestListPublishedJobsFiltersByStatus(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.CreateJob(ctx, job.CreateJobRequest{
		Title:       "Senior Python Developer",
		Description: sampleDescription,
	})
	require.NoError(t, err)
	_, err = svc.CreateJob(ctx, job.CreateJobRequest{
		Title:       "Draft Role",
		Description: "Internal draft posting.",
	})
	require.NoError(t, err)

	_, err = svc.PublishJob(ctx, first.ID)
	require.NoError(t, err)

	published, err := svc.ListPublishedJobs(ctx, kernel.PaginationOptions{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, published.Items, 1)
	assert.Equal(t, first.ID, published.Items[0].ID)
}
