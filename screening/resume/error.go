package resume

import (
	"net/http"

	"github.com/Abraxas-365/sift/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("RESUME")

// Error codes
var (
	CodeResumeNotFound     = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Resume not found")
	CodeMaxResumesExceeded = ErrRegistry.Register("MAX_RESUMES_EXCEEDED", errx.TypeBusiness, http.StatusConflict, "Maximum number of resumes reached")
	CodeInvalidFile        = ErrRegistry.Register("INVALID_FILE", errx.TypeValidation, http.StatusBadRequest, "Invalid or unsupported resume file")
	CodeEmptyText          = ErrRegistry.Register("EMPTY_TEXT", errx.TypeValidation, http.StatusBadRequest, "Resume text is empty")
	CodeTenantMismatch     = ErrRegistry.Register("TENANT_MISMATCH", errx.TypeAuthorization, http.StatusForbidden, "Resource belongs to another tenant")

	CodeIngestNotFound         = ErrRegistry.Register("INGEST_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Ingest job not found")
	CodeIngestCreationFailed   = ErrRegistry.Register("INGEST_CREATE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to create ingest job")
	CodeQueueEnqueueFailed     = ErrRegistry.Register("QUEUE_ENQUEUE_FAILED", errx.TypeExternal, http.StatusServiceUnavailable, "Failed to enqueue ingest job")
	CodeIngestUpdateFailed     = ErrRegistry.Register("INGEST_UPDATE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to update ingest job")
	CodeIngestFailed           = ErrRegistry.Register("INGEST_FAILED", errx.TypeBusiness, http.StatusUnprocessableEntity, "Ingest job failed")
	CodeIngestMaxRetries       = ErrRegistry.Register("INGEST_MAX_RETRIES", errx.TypeBusiness, http.StatusUnprocessableEntity, "Ingest job failed after maximum retries")
	CodeIngestAlreadyCompleted = ErrRegistry.Register("INGEST_ALREADY_COMPLETED", errx.TypeConflict, http.StatusConflict, "Ingest job already completed")
	CodeInvalidIngestStatus    = ErrRegistry.Register("INVALID_INGEST_STATUS", errx.TypeBusiness, http.StatusConflict, "Ingest job is not in the required status")
)

// Helper functions
func ErrResumeNotFound() *errx.Error {
	return ErrRegistry.New(CodeResumeNotFound)
}

func ErrMaxResumesExceeded() *errx.Error {
	return ErrRegistry.New(CodeMaxResumesExceeded)
}

func ErrInvalidFile() *errx.Error {
	return ErrRegistry.New(CodeInvalidFile)
}

func ErrEmptyText() *errx.Error {
	return ErrRegistry.New(CodeEmptyText)
}

func ErrTenantMismatch() *errx.Error {
	return ErrRegistry.New(CodeTenantMismatch)
}

func ErrIngestNotFound() *errx.Error {
	return ErrRegistry.New(CodeIngestNotFound)
}

func ErrIngestCreationFailed() *errx.Error {
	return ErrRegistry.New(CodeIngestCreationFailed)
}

func ErrQueueEnqueueFailed() *errx.Error {
	return ErrRegistry.New(CodeQueueEnqueueFailed)
}

func ErrIngestUpdateFailed() *errx.Error {
	return ErrRegistry.New(CodeIngestUpdateFailed)
}

func ErrIngestFailed() *errx.Error {
	return ErrRegistry.New(CodeIngestFailed)
}

func ErrIngestMaxRetries() *errx.Error {
	return ErrRegistry.New(CodeIngestMaxRetries)
}

func ErrIngestAlreadyCompleted() *errx.Error {
	return ErrRegistry.New(CodeIngestAlreadyCompleted)
}

func ErrInvalidIngestStatus() *errx.Error {
	return ErrRegistry.New(CodeInvalidIngestStatus)
}
