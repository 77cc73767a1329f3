package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - match with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrStore        = errors.New("document store failure")
)

// Authorization gate failures. All of them are ErrUnauthorized to callers;
// the distinction only exists for logs and tests.
var (
	ErrMissingHeader  = fmt.Errorf("%w: missing auth header", ErrUnauthorized)
	ErrMalformedToken = fmt.Errorf("%w: malformed auth header", ErrUnauthorized)
	ErrInvalidToken   = fmt.Errorf("%w: invalid token", ErrUnauthorized)
)

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input (bad identifier, empty body)
	ValidationError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string   { return e.Message }
func (e *ValidationError) Error() string { return e.Message }

func (e *NotFoundError) StatusCode() int   { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// StoreError wraps a failure reported by the document store driver.
// The wrapped error is for logs only and must never reach a client.
type StoreError struct {
	Op  string
	Err error
}

// NewStoreError wraps err as a StoreError for the given operation
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// StatusCode implements the HTTPError interface
func (e *StoreError) StatusCode() int { return http.StatusInternalServerError }

// Is allows errors.Is() to match against ErrStore
func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}
