package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSample = NewDomainError("SAMPLE", "sample failure", http.StatusConflict, nil)

func TestWithDetailsKeepsIdentity(t *testing.T) {
	err := errSample.WithDetails(map[string]any{"balance": 3})
	wrapped := fmt.Errorf("claim: %w", err)

	assert.ErrorIs(t, wrapped, errSample)
	de := ToDomainError(wrapped)
	assert.Equal(t, "SAMPLE", de.Code)
	assert.Equal(t, 3, de.Details["balance"])
	assert.Nil(t, errSample.Details)
}

func TestToDomainErrorMapsUnknownErrors(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	de := ToDomainError(errors.New("disk on fire"))
	assert.Equal(t, "INTERNAL_ERROR", de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.EqualError(t, de, "internal server error: disk on fire")
}

func TestRetryable(t *testing.T) {
	retry := NewRetryable("LATER", "try later", http.StatusConflict)
	assert.True(t, IsRetryable(fmt.Errorf("x: %w", retry)))
	assert.False(t, IsRetryable(errSample))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		err    error
		code   string
		status int
	}{
		{NewValidationError("bad", nil), "VALIDATION_FAILED", http.StatusBadRequest},
		{NewNotFound("pool", nil), "NOT_FOUND", http.StatusNotFound},
		{NewUnauthorized("who"), "UNAUTHENTICATED", http.StatusUnauthorized},
		{NewForbidden("no"), "FORBIDDEN", http.StatusForbidden},
		{NewConflict("dup", nil), "CONFLICT", http.StatusConflict},
		{NewInternalError(nil), "INTERNAL_ERROR", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		de := ToDomainError(tt.err)
		assert.Equal(t, tt.code, de.Code)
		assert.Equal(t, tt.status, de.HTTPStatus)
	}
}
