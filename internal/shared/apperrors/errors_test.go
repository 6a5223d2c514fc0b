package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConflictErrorClassification(t *testing.T) {
	id := uuid.New()
	err := fmt.Errorf("register failed: %w", &ConflictError{RegistrationIDs: []uuid.UUID{id}})

	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrCapacityExceeded))

	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, []uuid.UUID{id}, conflict.RegistrationIDs)
}

func TestTransientUnwrap(t *testing.T) {
	inner := errors.New("connection reset")
	err := Transient(inner)

	assert.True(t, errors.Is(err, ErrTransientStore))
	assert.True(t, errors.Is(err, inner))
}

func TestNotFoundIsGeneric(t *testing.T) {
	used := NotFound("cancellation token")
	missing := NotFound("cancellation token")

	assert.True(t, errors.Is(used, ErrNotFound))
	// A consumed token and an unknown token must be indistinguishable.
	assert.Equal(t, used.Error(), missing.Error())
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidation("email", "required"), http.StatusBadRequest},
		{"conflict", &ConflictError{}, http.StatusConflict},
		{"capacity", &CapacityExceededError{}, http.StatusConflict},
		{"deadline", &DeadlineExceededError{}, http.StatusUnprocessableEntity},
		{"not found", NotFound("registration"), http.StatusNotFound},
		{"transient", Transient(errors.New("timeout")), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
