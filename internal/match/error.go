package match

import (
	"net/http"

	"github.com/Abraxas-365/sift/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("MATCH")

var (
	CodeInvalidConfig = ErrRegistry.Register("CONFIG_INVALID", errx.TypeValidation, http.StatusInternalServerError, "Invalid engine configuration")
	CodeInvalidInput  = ErrRegistry.Register("INVALID_INPUT", errx.TypeValidation, http.StatusBadRequest, "Invalid scoring input")
)

func ErrInvalidConfig() *errx.Error {
	return ErrRegistry.New(CodeInvalidConfig)
}

func ErrInvalidInput() *errx.Error {
	return ErrRegistry.New(CodeInvalidInput)
}
