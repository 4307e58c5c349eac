package job

import (
	"net/http"

	"github.com/Abraxas-365/sift/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("JOB")

// Error codes
var (
	CodeJobNotFound        = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Job not found")
	CodeJobAlreadyExists   = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "Job already exists")
	CodeJobArchived        = ErrRegistry.Register("ARCHIVED", errx.TypeBusiness, http.StatusForbidden, "Job is archived")
	CodeJobNotArchived     = ErrRegistry.Register("NOT_ARCHIVED", errx.TypeBusiness, http.StatusBadRequest, "Job is not archived")
	CodeJobAlreadyArchived = ErrRegistry.Register("ALREADY_ARCHIVED", errx.TypeBusiness, http.StatusConflict, "Job is already archived")
	CodeCannotPublish      = ErrRegistry.Register("CANNOT_PUBLISH", errx.TypeBusiness, http.StatusBadRequest, "Job cannot be published in current state")
	CodeInvalidRequest     = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid job request")
)

// Helper functions
func ErrJobNotFound() *errx.Error {
	return ErrRegistry.New(CodeJobNotFound)
}

func ErrJobAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeJobAlreadyExists)
}

func ErrJobArchived() *errx.Error {
	return ErrRegistry.New(CodeJobArchived)
}

func ErrJobNotArchived() *errx.Error {
	return ErrRegistry.New(CodeJobNotArchived)
}

func ErrJobAlreadyArchived() *errx.Error {
	return ErrRegistry.New(CodeJobAlreadyArchived)
}

func ErrCannotPublish() *errx.Error {
	return ErrRegistry.New(CodeCannotPublish)
}

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}
