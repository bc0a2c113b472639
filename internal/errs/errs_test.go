package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	code := "NO_UPDATE_FIELDS"

	tests := []struct {
		name       string
		err        *HTTPError
		wantStatus int
		wantCode   string
	}{
		{"unauthorized", NewUnauthorizedError("sign in", true), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", NewForbiddenError("admins only", true), http.StatusForbidden, "FORBIDDEN"},
		{"bad request", NewBadRequestError("bad", false, nil, nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"bad request with code", NewBadRequestError("bad", true, &code, nil, nil), http.StatusBadRequest, code},
		{"not found", NewNotFoundError("Company not found", true, nil), http.StatusNotFound, "NOT_FOUND"},
		{"too many requests", NewTooManyRequestsError("slow down"), http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{"internal", NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.Status)
			assert.Equal(t, tt.wantCode, tt.err.Code)
		})
	}
}

func TestHTTPErrorIs(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", NewNotFoundError("Job not found", true, nil))

	assert.True(t, errors.Is(wrapped, &HTTPError{}))
	assert.False(t, errors.Is(errors.New("plain"), &HTTPError{}))
}

func TestWithMessageCopies(t *testing.T) {
	fields := []FieldError{{Field: "title", Error: "is required"}}
	original := NewBadRequestError("original", true, nil, fields, nil)

	copied := original.WithMessage("changed")

	assert.Equal(t, "original", original.Message)
	assert.Equal(t, "changed", copied.Message)
	assert.Equal(t, fields, copied.Errors)
	assert.NotSame(t, original, copied)
}

func TestValidationError(t *testing.T) {
	err := ValidationError(errors.New("title is required"))

	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, "Validation failed: title is required", err.Error())
}
