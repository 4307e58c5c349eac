package errx

import (
	"errors"
	"net/http"
	"testing"
)

func TestRegistryNew(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("NOT_FOUND", TypeNotFound, http.StatusNotFound, "Thing not found")

	err := reg.New(code)
	if err.Code != "TEST.NOT_FOUND" {
		t.Fatalf("unexpected code: %s", err.Code)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", err.HTTPStatus)
	}
	if err.Type != TypeNotFound {
		t.Fatalf("unexpected type: %s", err.Type)
	}
}

func TestWithDetailChaining(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("INVALID", TypeValidation, http.StatusBadRequest, "Invalid input")

	err := reg.New(code).
		WithDetail("field", "weights").
		WithDetails(map[string]any{"sum": 0.9})

	if err.Details["field"] != "weights" {
		t.Fatalf("missing detail: %v", err.Details)
	}
	if err.Details["sum"] != 0.9 {
		t.Fatalf("missing merged detail: %v", err.Details)
	}
}

func TestWrapPreservesExistingError(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("BUSY", TypeConflict, http.StatusConflict, "Busy")

	original := reg.New(code)
	wrapped := Wrap(original, "outer context", TypeInternal)
	if wrapped != original {
		t.Fatalf("expected wrap to be a no-op on *Error")
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, "failed to reach store", TypeExternal)

	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable via errors.Is")
	}
	if err.HTTPStatus != http.StatusBadGateway {
		t.Fatalf("unexpected status for external error: %d", err.HTTPStatus)
	}
}
