package ranking

import (
	"net/http"

	"github.com/Abraxas-365/sift/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("RANKING")

var (
	CodeNotFound = ErrRegistry.Register(
		"NOT_FOUND", errx.TypeNotFound, http.StatusNotFound,
		"No rankings found for this job")
	CodeJobNotPublished = ErrRegistry.Register(
		"JOB_NOT_PUBLISHED", errx.TypeValidation, http.StatusConflict,
		"Job must be published before running rankings")
	CodeNoCandidates = ErrRegistry.Register(
		"NO_CANDIDATES", errx.TypeValidation, http.StatusUnprocessableEntity,
		"No active resumes available to rank")
	CodeRunFailed = ErrRegistry.Register(
		"RUN_FAILED", errx.TypeInternal, http.StatusInternalServerError,
		"Scoring run failed")
)

func ErrRankingsNotFound() *errx.Error {
	return ErrRegistry.New(CodeNotFound)
}

func ErrJobNotPublished() *errx.Error {
	return ErrRegistry.New(CodeJobNotPublished)
}

func ErrNoCandidates() *errx.Error {
	return ErrRegistry.New(CodeNoCandidates)
}

func ErrRunFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeRunFailed, cause)
}
