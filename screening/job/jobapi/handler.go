package jobapi

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/Abraxas-365/sift/pkg/iam/auth"
	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/screening/job"
	"github.com/Abraxas-365/sift/screening/job/jobsrv"
)

// Handlers provides HTTP handlers for job operations
type Handlers struct {
	service *jobsrv.JobService
}

// NewHandlers creates a new job handlers instance
func NewHandlers(service *jobsrv.JobService) *Handlers {
	return &Handlers{service: service}
}

// CreateJob creates a new job posting
// POST /api/jobs
func (h *Handlers) CreateJob(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrRegistry.New(auth.CodeMissingAuth)
	}

	var req job.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return job.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}
	req.PostedBy = authContext.UserID

	newJob, err := h.service.CreateJob(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(newJob)
}

// GetJobByID retrieves a job by ID
// GET /api/jobs/:id
func (h *Handlers) GetJobByID(c *fiber.Ctx) error {
	jobID := kernel.JobID(c.Params("id"))
	if jobID == "" {
		return job.ErrJobNotFound().WithDetail("id", "missing or empty")
	}

	jobResp, err := h.service.GetJobByID(c.Context(), jobID)
	if err != nil {
		return err
	}

	return c.JSON(jobResp)
}

// ListJobs retrieves all jobs with pagination
// GET /api/jobs
func (h *Handlers) ListJobs(c *fiber.Ctx) error {
	jobs, err := h.service.ListJobs(c.Context(), parsePaginationOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(jobs)
}

// ListPublishedJobs retrieves only published/active jobs
// GET /api/jobs/published
func (h *Handlers) ListPublishedJobs(c *fiber.Ctx) error {
	jobs, err := h.service.ListPublishedJobs(c.Context(), parsePaginationOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(jobs)
}

// UpdateJob applies a partial update
// PUT /api/jobs/:id
func (h *Handlers) UpdateJob(c *fiber.Ctx) error {
	jobID := kernel.JobID(c.Params("id"))
	if jobID == "" {
		return job.ErrJobNotFound().WithDetail("id", "missing or empty")
	}

	var req job.UpdateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return job.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	updated, err := h.service.UpdateJob(c.Context(), jobID, req)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

// PublishJob publishes a draft job
// POST /api/jobs/:id/publish
func (h *Handlers) PublishJob(c *fiber.Ctx) error {
	return h.mutateStatus(c, h.service.PublishJob)
}

// UnpublishJob returns a job to draft
// POST /api/jobs/:id/unpublish
func (h *Handlers) UnpublishJob(c *fiber.Ctx) error {
	return h.mutateStatus(c, h.service.UnpublishJob)
}

// CloseJob closes a job
// POST /api/jobs/:id/close
func (h *Handlers) CloseJob(c *fiber.Ctx) error {
	return h.mutateStatus(c, h.service.CloseJob)
}

// ArchiveJob archives a job
// POST /api/jobs/:id/archive
func (h *Handlers) ArchiveJob(c *fiber.Ctx) error {
	return h.mutateStatus(c, h.service.ArchiveJob)
}

// UnarchiveJob restores an archived job
// POST /api/jobs/:id/unarchive
func (h *Handlers) UnarchiveJob(c *fiber.Ctx) error {
	return h.mutateStatus(c, h.service.UnarchiveJob)
}

// DeleteJob removes a job
// DELETE /api/jobs/:id
func (h *Handlers) DeleteJob(c *fiber.Ctx) error {
	jobID := kernel.JobID(c.Params("id"))
	if jobID == "" {
		return job.ErrJobNotFound().WithDetail("id", "missing or empty")
	}
	if err := h.service.DeleteJob(c.Context(), jobID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handlers) mutateStatus(c *fiber.Ctx, op func(ctx context.Context, jobID kernel.JobID) (*job.Job, error)) error {
	jobID := kernel.JobID(c.Params("id"))
	if jobID == "" {
		return job.ErrJobNotFound().WithDetail("id", "missing or empty")
	}
	updated, err := op(c.Context(), jobID)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

// ============================================================================
// Helper Functions
// ============================================================================

// parsePaginationOptions extracts pagination options from query parameters
func parsePaginationOptions(c *fiber.Ctx) kernel.PaginationOptions {
	return kernel.PaginationOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", kernel.DefaultPageSize),
	}.Sanitize()
}

// RegisterRoutes registers all job routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.UnifiedAuthMiddleware) {
	api := app.Group("/api/jobs", authMiddleware.Authenticate())

	api.Get("/",
		authMiddleware.RequireScope(auth.ScopeJobsRead),
		handlers.ListJobs,
	)

	api.Get("/published",
		authMiddleware.RequireScope(auth.ScopeJobsRead),
		handlers.ListPublishedJobs,
	)

	api.Get("/:id",
		authMiddleware.RequireScope(auth.ScopeJobsRead),
		handlers.GetJobByID,
	)

	api.Post("/",
		authMiddleware.RequireScope(auth.ScopeJobsWrite),
		handlers.CreateJob,
	)

	api.Put("/:id",
		authMiddleware.RequireScope(auth.ScopeJobsWrite),
		handlers.UpdateJob,
	)

	api.Post("/:id/publish",
		authMiddleware.RequireScope(auth.ScopeJobsPublish),
		handlers.PublishJob,
	)

	api.Post("/:id/unpublish",
		authMiddleware.RequireScope(auth.ScopeJobsPublish),
		handlers.UnpublishJob,
	)

	api.Post("/:id/close",
		authMiddleware.RequireScope(auth.ScopeJobsPublish),
		handlers.CloseJob,
	)

	api.Post("/:id/archive",
		authMiddleware.RequireScope(auth.ScopeJobsArchive),
		handlers.ArchiveJob,
	)

	api.Post("/:id/unarchive",
		authMiddleware.RequireScope(auth.ScopeJobsArchive),
		handlers.UnarchiveJob,
	)

	api.Delete("/:id",
		authMiddleware.RequireScope(auth.ScopeJobsDelete),
		handlers.DeleteJob,
	)
}
