package resumesrv

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Abraxas-365/sift/internal/extract"
	"github.com/Abraxas-365/sift/pkg/errx"
	"github.com/Abraxas-365/sift/pkg/fsx"
	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/screening/resume"
)

// MaxResumesPerTenant caps stored resumes per tenant
const MaxResumesPerTenant = 5000

// Service provides resume storage and the background ingestion pipeline
type Service struct {
	repo       resume.Repository
	ingestRepo resume.IngestRepository
	extractor  *extract.ResumeExtractor
	fileReader fsx.FileReader
	queue      resume.JobQueue
}

func NewService(
	repo resume.Repository,
	ingestRepo resume.IngestRepository,
	extractor *extract.ResumeExtractor,
	fileReader fsx.FileReader,
	queue resume.JobQueue,
) *Service {
	return &Service{
		repo:       repo,
		ingestRepo: ingestRepo,
		extractor:  extractor,
		fileReader: fileReader,
		queue:      queue,
	}
}

// CreateFromText creates a resume synchronously from raw text,
// extracting the structured fields inline.
func (s *Service) CreateFromText(ctx context.Context, req resume.CreateResumeRequest) (*resume.Resume, error) {
	if req.RawText == "" {
		return nil, resume.ErrEmptyText()
	}

	count, err := s.repo.CountByTenantID(ctx, req.TenantID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to count resumes", errx.TypeInternal)
	}
	if count >= MaxResumesPerTenant {
		return nil, resume.ErrMaxResumesExceeded().
			WithDetail("tenant_id", req.TenantID.String()).
			WithDetail("max_allowed", MaxResumesPerTenant)
	}

	details := s.extractor.Extract(req.RawText)
	name := req.CandidateName
	if name == "" {
		name = details.CandidateName
	}

	now := time.Now()
	entity := &resume.Resume{
		ID:              kernel.NewResumeID(uuid.NewString()),
		TenantID:        req.TenantID,
		CandidateName:   name,
		Email:           details.Email,
		Phone:           details.Phone,
		RawText:         req.RawText,
		Skills:          toSkillNames(details.Skills),
		ExperienceYears: details.ExperienceYears,
		Education:       details.Education,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, errx.Wrap(err, "failed to create resume", errx.TypeInternal)
	}
	return entity, nil
}

// GetResume retrieves a resume by ID, scoped to the tenant
func (s *Service) GetResume(ctx context.Context, id kernel.ResumeID, tenantID kernel.TenantID) (*resume.ResumeResponse, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity.TenantID != tenantID {
		return nil, resume.ErrTenantMismatch().WithDetail("resume_id", id.String())
	}
	resp := toResumeResponse(entity)
	return &resp, nil
}

// ListResumes retrieves a tenant's resumes with pagination
func (s *Service) ListResumes(ctx context.Context, tenantID kernel.TenantID, pagination kernel.PaginationOptions) (*resume.PaginatedResumesResponse, error) {
	page, err := s.repo.ListByTenantID(ctx, tenantID, pagination)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list resumes", errx.TypeInternal)
	}

	responses := make([]resume.ResumeResponse, 0, len(page.Items))
	for i := range page.Items {
		responses = append(responses, toResumeResponse(&page.Items[i]))
	}
	return kernel.NewPaginated(responses, page.Total, kernel.PaginationOptions{
		Page:     page.Page,
		PageSize: page.PageSize,
	}), nil
}

// UpdateResume applies manual corrections to extracted fields
func (s *Service) UpdateResume(ctx context.Context, id kernel.ResumeID, tenantID kernel.TenantID, req resume.UpdateResumeRequest) (*resume.Resume, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity.TenantID != tenantID {
		return nil, resume.ErrTenantMismatch().WithDetail("resume_id", id.String())
	}

	if req.CandidateName != nil {
		entity.CandidateName = *req.CandidateName
	}
	if req.Email != nil {
		entity.Email = *req.Email
	}
	if req.Phone != nil {
		entity.Phone = *req.Phone
	}
	if req.Skills != nil {
		entity.Skills = *req.Skills
	}
	if req.ExperienceYears != nil {
		entity.ExperienceYears = *req.ExperienceYears
	}
	if req.Education != nil {
		entity.Education = kernel.ParseEducationLevel(*req.Education)
	}
	if req.IsActive != nil {
		if *req.IsActive {
			entity.Activate()
		} else {
			entity.Deactivate()
		}
	}
	entity.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, entity); err != nil {
		return nil, errx.Wrap(err, "failed to update resume", errx.TypeInternal)
	}
	return entity, nil
}

// DeleteResume removes a resume
func (s *Service) DeleteResume(ctx context.Context, id kernel.ResumeID, tenantID kernel.TenantID) error {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if entity.TenantID != tenantID {
		return resume.ErrTenantMismatch().WithDetail("resume_id", id.String())
	}
	return s.repo.Delete(ctx, id)
}

func toSkillNames(names []string) []kernel.SkillName {
	out := make([]kernel.SkillName, len(names))
	for i, n := range names {
		out[i] = kernel.SkillName(n)
	}
	return out
}

func toResumeResponse(r *resume.Resume) resume.ResumeResponse {
	return resume.ResumeResponse{
		ID:              r.ID,
		TenantID:        r.TenantID,
		CandidateName:   r.CandidateName,
		Email:           r.Email,
		Phone:           r.Phone,
		FileName:        r.FileName,
		FileType:        r.FileType,
		Skills:          r.Skills,
		ExperienceYears: r.ExperienceYears,
		Education:       r.Education,
		IsActive:        r.IsActive,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
