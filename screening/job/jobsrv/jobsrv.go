package jobsrv

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Abraxas-365/sift/internal/extract"
	"github.com/Abraxas-365/sift/pkg/errx"
	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/screening/job"
)

// JobService provides business operations for job postings
type JobService struct {
	jobRepo  job.Repository
	analyzer *extract.JobAnalyzer
}

// NewJobService creates a new instance of the job service
func NewJobService(jobRepo job.Repository, analyzer *extract.JobAnalyzer) *JobService {
	return &JobService{
		jobRepo:  jobRepo,
		analyzer: analyzer,
	}
}

// CreateJob creates a new job posting. Screening criteria left empty in
// the request are derived from the description text.
func (s *JobService) CreateJob(ctx context.Context, req job.CreateJobRequest) (*job.Job, error) {
	if req.Title == "" || req.Description == "" {
		return nil, job.ErrInvalidRequest().WithDetail("reason", "title and description are required")
	}

	analysis := s.analyzer.Analyze(string(req.Title), string(req.Description))

	required := req.RequiredSkills
	if len(required) == 0 {
		required = toSkillNames(analysis.RequiredSkills)
	}

	preferred := req.PreferredSkills
	if len(preferred) == 0 {
		preferred = analysis.PreferredSkills
	}

	minExperience := analysis.MinExperienceYears
	if req.MinExperienceYears != nil {
		minExperience = *req.MinExperienceYears
	}
	if minExperience < 0 {
		return nil, job.ErrInvalidRequest().WithDetail("min_experience_years", minExperience)
	}

	minEducation := analysis.MinEducation
	if req.MinEducation != "" {
		minEducation = kernel.ParseEducationLevel(req.MinEducation)
	}

	now := time.Now()
	newJob := &job.Job{
		ID:                 kernel.NewJobID(uuid.NewString()),
		Title:              req.Title,
		Description:        req.Description,
		RequiredSkills:     required,
		PreferredSkills:    preferred,
		MinExperienceYears: minExperience,
		MinEducation:       minEducation,
		KeyPhrases:         analysis.KeyPhrases,
		PostedBy:           req.PostedBy,
		Status:             job.JobStatusDraft,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.jobRepo.Create(ctx, newJob); err != nil {
		return nil, errx.Wrap(err, "failed to create job", errx.TypeInternal)
	}

	return newJob, nil
}

// GetJobByID retrieves a job by ID
func (s *JobService) GetJobByID(ctx context.Context, jobID kernel.JobID) (*job.JobResponse, error) {
	jobEntity, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	resp := toJobResponse(jobEntity)
	return &resp, nil
}

// UpdateJob applies a partial update to a job posting
func (s *JobService) UpdateJob(ctx context.Context, jobID kernel.JobID, req job.UpdateJobRequest) (*job.Job, error) {
	jobEntity, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !jobEntity.CanBeEdited() {
		return nil, job.ErrJobArchived().WithDetail("job_id", jobID.String())
	}

	if req.Title != nil && *req.Title != "" {
		jobEntity.Title = *req.Title
	}
	if req.Description != nil && *req.Description != "" {
		jobEntity.Description = *req.Description
		analysis := s.analyzer.Analyze(string(jobEntity.Title), string(jobEntity.Description))
		jobEntity.KeyPhrases = analysis.KeyPhrases
	}
	if req.RequiredSkills != nil {
		jobEntity.RequiredSkills = *req.RequiredSkills
	}
	if req.PreferredSkills != nil {
		jobEntity.PreferredSkills = *req.PreferredSkills
	}
	if req.MinExperienceYears != nil {
		if *req.MinExperienceYears < 0 {
			return nil, job.ErrInvalidRequest().WithDetail("min_experience_years", *req.MinExperienceYears)
		}
		jobEntity.MinExperienceYears = *req.MinExperienceYears
	}
	if req.MinEducation != nil {
		jobEntity.MinEducation = kernel.ParseEducationLevel(*req.MinEducation)
	}
	jobEntity.UpdatedAt = time.Now()

	if err := s.jobRepo.Update(ctx, jobEntity); err != nil {
		return nil, errx.Wrap(err, "failed to update job", errx.TypeInternal)
	}
	return jobEntity, nil
}

// ListJobs retrieves all jobs with pagination
func (s *JobService) ListJobs(ctx context.Context, pagination kernel.PaginationOptions) (*job.PaginatedJobsResponse, error) {
	jobs, err := s.jobRepo.List(ctx, pagination)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list jobs", errx.TypeInternal)
	}
	return toPaginatedResponse(jobs), nil
}

// ListPublishedJobs retrieves only published/active jobs
func (s *JobService) ListPublishedJobs(ctx context.Context, pagination kernel.PaginationOptions) (*job.PaginatedJobsResponse, error) {
	jobs, err := s.jobRepo.ListByStatus(ctx, job.JobStatusPublished, pagination)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list published jobs", errx.TypeInternal)
	}
	return toPaginatedResponse(jobs), nil
}

// PublishJob transitions a draft job to published
func (s *JobService) PublishJob(ctx context.Context, jobID kernel.JobID) (*job.Job, error) {
	return s.transition(ctx, jobID, func(j *job.Job) error { return j.Publish() })
}

// UnpublishJob returns a job to draft
func (s *JobService) UnpublishJob(ctx context.Context, jobID kernel.JobID) (*job.Job, error) {
	return s.transition(ctx, jobID, func(j *job.Job) error { j.Unpublish(); return nil })
}

// CloseJob stops a job from accepting new resumes
func (s *JobService) CloseJob(ctx context.Context, jobID kernel.JobID) (*job.Job, error) {
	return s.transition(ctx, jobID, func(j *job.Job) error { j.Close(); return nil })
}

// ArchiveJob archives a job
func (s *JobService) ArchiveJob(ctx context.Context, jobID kernel.JobID) (*job.Job, error) {
	return s.transition(ctx, jobID, func(j *job.Job) error { return j.Archive() })
}

// UnarchiveJob restores an archived job to draft
func (s *JobService) UnarchiveJob(ctx context.Context, jobID kernel.JobID) (*job.Job, error) {
	return s.transition(ctx, jobID, func(j *job.Job) error { return j.Unarchive() })
}

// DeleteJob removes a job permanently
func (s *JobService) DeleteJob(ctx context.Context, jobID kernel.JobID) error {
	exists, err := s.jobRepo.Exists(ctx, jobID)
	if err != nil {
		return errx.Wrap(err, "failed to check job", errx.TypeInternal)
	}
	if !exists {
		return job.ErrJobNotFound().WithDetail("job_id", jobID.String())
	}
	return s.jobRepo.Delete(ctx, jobID)
}

func (s *JobService) transition(ctx context.Context, jobID kernel.JobID, apply func(*job.Job) error) (*job.Job, error) {
	jobEntity, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := apply(jobEntity); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Update(ctx, jobEntity); err != nil {
		return nil, errx.Wrap(err, "failed to update job", errx.TypeInternal)
	}
	return jobEntity, nil
}

func toSkillNames(names []string) []kernel.SkillName {
	out := make([]kernel.SkillName, len(names))
	for i, n := range names {
		out[i] = kernel.SkillName(n)
	}
	return out
}

func toJobResponse(j *job.Job) job.JobResponse {
	return job.JobResponse{
		ID:                 j.ID,
		Title:              j.Title,
		Description:        j.Description,
		RequiredSkills:     j.RequiredSkills,
		PreferredSkills:    j.PreferredSkills,
		MinExperienceYears: j.MinExperienceYears,
		MinEducation:       j.MinEducation,
		KeyPhrases:         j.KeyPhrases,
		PostedBy:           j.PostedBy,
		Status:             j.Status,
		PublishedAt:        j.PublishedAt,
		ArchivedAt:         j.ArchivedAt,
		CreatedAt:          j.CreatedAt,
		UpdatedAt:          j.UpdatedAt,
	}
}

func toPaginatedResponse(jobs *kernel.Paginated[job.Job]) *job.PaginatedJobsResponse {
	responses := make([]job.JobResponse, 0, len(jobs.Items))
	for i := range jobs.Items {
		responses = append(responses, toJobResponse(&jobs.Items[i]))
	}
	return kernel.NewPaginated(responses, jobs.Total, kernel.PaginationOptions{
		Page:     jobs.Page,
		PageSize: jobs.PageSize,
	})
}
