package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Sentinel error kinds. Concrete error types below implement Is against these
// so callers can classify with errors.Is without knowing the concrete type.
var (
	ErrValidation       = errors.New("validation failed")
	ErrConflict         = errors.New("time conflict")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrDeadlineExceeded = errors.New("cancellation deadline exceeded")
	ErrNotFound         = errors.New("not found")
	ErrTransientStore   = errors.New("transient store failure")
)

// ValidationError reports missing or invalid input fields.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidation creates a field-level validation error.
func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ConflictError reports a time-window overlap with one or more registrations
// the registrant already holds.
type ConflictError struct {
	RegistrationIDs []uuid.UUID
}

func (e *ConflictError) Error() string {
	ids := make([]string, len(e.RegistrationIDs))
	for i, id := range e.RegistrationIDs {
		ids[i] = id.String()
	}
	return fmt.Sprintf("time conflict with registration(s) %s", strings.Join(ids, ", "))
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// CapacityExceededError reports a full slot without an enabled waitlist.
type CapacityExceededError struct {
	ShiftID  uuid.UUID
	Capacity int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("shift %s is full (capacity %d)", e.ShiftID, e.Capacity)
}

func (e *CapacityExceededError) Is(target error) bool { return target == ErrCapacityExceeded }

// DeadlineExceededError reports a self-service cancellation past the cutoff.
type DeadlineExceededError struct {
	EventID uuid.UUID
}

func (e *DeadlineExceededError) Error() string {
	return fmt.Sprintf("cancellation deadline for event %s has passed", e.EventID)
}

func (e *DeadlineExceededError) Is(target error) bool { return target == ErrDeadlineExceeded }

// NotFound wraps a lookup miss. Deliberately generic: a consumed cancellation
// token and a token that never existed produce the same message.
func NotFound(what string) error {
	return fmt.Errorf("%s %w or no longer valid", what, ErrNotFound)
}

// TransientStoreError marks infrastructure failures that are safe to retry.
type TransientStoreError struct {
	Err error
}

func (e *TransientStoreError) Error() string {
	return fmt.Sprintf("transient store failure: %v", e.Err)
}

func (e *TransientStoreError) Is(target error) bool { return target == ErrTransientStore }

func (e *TransientStoreError) Unwrap() error { return e.Err }

// Transient wraps err as a retryable store failure.
func Transient(err error) error {
	return &TransientStoreError{Err: err}
}

// HTTPStatus maps an error kind to the status code controllers should render.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrCapacityExceeded):
		return http.StatusConflict
	case errors.Is(err, ErrDeadlineExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTransientStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
