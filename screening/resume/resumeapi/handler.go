package resumeapi

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Abraxas-365/sift/pkg/fsx"
	"github.com/Abraxas-365/sift/pkg/iam/auth"
	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/screening/resume"
	"github.com/Abraxas-365/sift/screening/resume/resumesrv"
)

// maxUploadSize caps uploaded resume files at 10MB
const maxUploadSize = int64(10 * 1024 * 1024)

type Handlers struct {
	service    *resumesrv.Service
	fileSystem fsx.FileSystem
}

func NewHandlers(service *resumesrv.Service, fileSystem fsx.FileSystem) *Handlers {
	return &Handlers{
		service:    service,
		fileSystem: fileSystem,
	}
}

func (h *Handlers) RegisterRoutes(app *fiber.App, authMiddleware *auth.UnifiedAuthMiddleware) {
	resumes := app.Group("/api/resumes", authMiddleware.Authenticate())

	// Ingest pipeline routes must be registered before /:id
	resumes.Post("/upload",
		authMiddleware.RequireScope(auth.ScopeResumesWrite),
		h.UploadResume)
	resumes.Get("/ingest/stats",
		authMiddleware.RequireScope(auth.ScopeResumesRead),
		h.GetIngestStats)
	resumes.Get("/ingest/:job_id",
		authMiddleware.RequireScope(auth.ScopeResumesRead),
		h.GetIngestStatus)
	resumes.Get("/ingest",
		authMiddleware.RequireScope(auth.ScopeResumesRead),
		h.ListIngestJobs)
	resumes.Post("/ingest/:job_id/retry",
		authMiddleware.RequireScope(auth.ScopeResumesWrite),
		h.RetryIngest)

	// Resume CRUD
	resumes.Post("/",
		authMiddleware.RequireScope(auth.ScopeResumesWrite),
		h.CreateResume)
	resumes.Get("/",
		authMiddleware.RequireScope(auth.ScopeResumesRead),
		h.ListResumes)
	resumes.Get("/:id",
		authMiddleware.RequireScope(auth.ScopeResumesRead),
		h.GetResume)
	resumes.Put("/:id",
		authMiddleware.RequireScope(auth.ScopeResumesWrite),
		h.UpdateResume)
	resumes.Delete("/:id",
		authMiddleware.RequireScope(auth.ScopeResumesDelete),
		h.DeleteResume)
}

// ============================================================================
// Upload & Ingest Handlers
// ============================================================================

// UploadResume accepts a resume file and queues it for background ingestion
// POST /api/resumes/upload
func (h *Handlers) UploadResume(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file is required",
		})
	}

	if file.Size > maxUploadSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":    "file too large",
			"max_size": "10MB",
			"size":     file.Size,
		})
	}

	fileType := determineFileType(file.Filename, file.Header.Get("Content-Type"))
	if fileType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":           "unsupported file type",
			"supported_types": []string{"pdf", "txt"},
			"detected_type":   file.Header.Get("Content-Type"),
			"file_extension":  filepath.Ext(file.Filename),
		})
	}

	uploadedFile, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to open uploaded file",
		})
	}
	defer uploadedFile.Close()

	// Format: resumes/{tenant_id}/{year}/{month}/{uuid}.{ext}
	now := time.Now()
	extension := filepath.Ext(file.Filename)
	if extension == "" {
		extension = "." + fileType
	}

	filePath := h.fileSystem.Join(
		"resumes",
		authCtx.TenantID.String(),
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		uuid.NewString()+extension,
	)

	if err := h.fileSystem.WriteFileStream(c.Context(), filePath, uploadedFile); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "failed to upload file to storage",
			"details": err.Error(),
		})
	}

	req := resume.IngestResumeRequest{
		TenantID: authCtx.TenantID,
		FilePath: filePath,
		FileName: file.Filename,
		FileType: fileType,
	}

	jobResponse, err := h.service.IngestResumeAsync(c.Context(), req)
	if err != nil {
		// If queueing fails, clean up the uploaded file
		_ = h.fileSystem.DeleteFile(c.Context(), filePath)
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message":    "Resume upload successful, ingestion started",
		"job":        jobResponse,
		"status_url": fmt.Sprintf("/api/resumes/ingest/%s", jobResponse.JobID),
	})
}

// GetIngestStatus retrieves the status of an ingest job
// GET /api/resumes/ingest/:job_id
func (h *Handlers) GetIngestStatus(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	jobID := kernel.IngestJobID(c.Params("job_id"))
	if jobID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid job ID",
		})
	}

	status, err := h.service.GetIngestStatus(c.Context(), jobID, authCtx.TenantID)
	if err != nil {
		return err
	}

	return c.JSON(status)
}

// ListIngestJobs lists ingest jobs for the authenticated tenant
// GET /api/resumes/ingest?page=1&page_size=20
func (h *Handlers) ListIngestJobs(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	jobs, err := h.service.ListIngestJobs(c.Context(), authCtx.TenantID, parsePaginationOptions(c))
	if err != nil {
		return err
	}

	return c.JSON(jobs)
}

// GetIngestStats retrieves ingest statistics for the tenant
// GET /api/resumes/ingest/stats
func (h *Handlers) GetIngestStats(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	stats, err := h.service.GetIngestStats(c.Context(), authCtx.TenantID)
	if err != nil {
		return err
	}

	return c.JSON(stats)
}

// RetryIngest retries a failed ingest job
// POST /api/resumes/ingest/:job_id/retry
func (h *Handlers) RetryIngest(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	jobID := kernel.IngestJobID(c.Params("job_id"))
	if jobID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid job ID",
		})
	}

	status, err := h.service.RetryFailedIngest(c.Context(), jobID, authCtx.TenantID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "ingest job retried",
		"job":     status,
	})
}

// ============================================================================
// Resume CRUD Handlers
// ============================================================================

// CreateResume creates a resume from raw text
// POST /api/resumes
func (h *Handlers) CreateResume(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	var req resume.CreateResumeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	req.TenantID = authCtx.TenantID

	created, err := h.service.CreateFromText(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetResume retrieves a resume by ID
// GET /api/resumes/:id
func (h *Handlers) GetResume(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	resumeID := kernel.ResumeID(c.Params("id"))
	if resumeID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid resume ID",
		})
	}

	response, err := h.service.GetResume(c.Context(), resumeID, authCtx.TenantID)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// ListResumes lists resumes for the tenant
// GET /api/resumes?page=1&page_size=20
func (h *Handlers) ListResumes(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	response, err := h.service.ListResumes(c.Context(), authCtx.TenantID, parsePaginationOptions(c))
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// UpdateResume updates extracted resume fields
// PUT /api/resumes/:id
func (h *Handlers) UpdateResume(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	resumeID := kernel.ResumeID(c.Params("id"))
	if resumeID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid resume ID",
		})
	}

	var req resume.UpdateResumeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	updated, err := h.service.UpdateResume(c.Context(), resumeID, authCtx.TenantID, req)
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

// DeleteResume deletes a resume
// DELETE /api/resumes/:id
func (h *Handlers) DeleteResume(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	resumeID := kernel.ResumeID(c.Params("id"))
	if resumeID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid resume ID",
		})
	}

	if err := h.service.DeleteResume(c.Context(), resumeID, authCtx.TenantID); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
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

// determineFileType determines the file type from filename and content type
func determineFileType(filename, contentType string) string {
	switch contentType {
	case "application/pdf":
		return "pdf"
	case "text/plain":
		return "txt"
	}

	switch filepath.Ext(filename) {
	case ".pdf":
		return "pdf"
	case ".txt", ".text":
		return "txt"
	default:
		return ""
	}
}
