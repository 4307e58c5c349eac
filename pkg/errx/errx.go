package errx

import (
	"fmt"
	"net/http"
)

// Type classifies an error for logging, metrics and HTTP mapping
type Type string

const (
	TypeValidation     Type = "VALIDATION"
	TypeNotFound       Type = "NOT_FOUND"
	TypeConflict       Type = "CONFLICT"
	TypeAuthorization  Type = "AUTHORIZATION"
	TypeAuthentication Type = "AUTHENTICATION"
	TypeBusiness       Type = "BUSINESS"
	TypeExternal       Type = "EXTERNAL"
	TypeInternal       Type = "INTERNAL"
)

// Code is a registered error code, namespaced by its registry prefix
type Code string

// definition holds the registered metadata for a code
type definition struct {
	Type       Type
	HTTPStatus int
	Message    string
}

// Registry is a namespaced catalog of error codes for one domain
type Registry struct {
	prefix      string
	definitions map[Code]definition
}

// NewRegistry creates a registry with the given domain prefix (e.g. "RESUME")
func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix:      prefix,
		definitions: make(map[Code]definition),
	}
}

// Register adds an error code to the registry and returns the namespaced code
func (r *Registry) Register(code string, t Type, httpStatus int, message string) Code {
	full := Code(r.prefix + "." + code)
	r.definitions[full] = definition{
		Type:       t,
		HTTPStatus: httpStatus,
		Message:    message,
	}
	return full
}

// New creates an error for a registered code
func (r *Registry) New(code Code) *Error {
	def, ok := r.definitions[code]
	if !ok {
		return &Error{
			Code:       code,
			Type:       TypeInternal,
			HTTPStatus: http.StatusInternalServerError,
			Message:    "unregistered error code",
		}
	}
	return &Error{
		Code:       code,
		Type:       def.Type,
		HTTPStatus: def.HTTPStatus,
		Message:    def.Message,
	}
}

// NewWithCause creates an error for a registered code wrapping an underlying cause
func (r *Registry) NewWithCause(code Code, cause error) *Error {
	e := r.New(code)
	e.Cause = cause
	return e
}

// Error is a structured application error
type Error struct {
	Code       Code           `json:"code"`
	Type       Type           `json:"type"`
	HTTPStatus int            `json:"-"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the cause for errors.Is/As chains
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail attaches a single key/value pair to the error
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithDetails attaches multiple key/value pairs to the error
func (e *Error) WithDetails(details map[string]any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any, len(details))
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// Wrap converts an arbitrary error into an *Error of the given type.
// Already-wrapped errors are returned unchanged so codes survive layering.
func Wrap(err error, message string, t Type) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return &Error{
		Code:       Code("GENERIC." + string(t)),
		Type:       t,
		HTTPStatus: httpStatusFor(t),
		Message:    message,
		Cause:      err,
	}
}

func httpStatusFor(t Type) int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeAuthorization:
		return http.StatusForbidden
	case TypeAuthentication:
		return http.StatusUnauthorized
	case TypeBusiness:
		return http.StatusUnprocessableEntity
	case TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
