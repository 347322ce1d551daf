package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/apperr"
)

// TestHTTPStatus_Mapping проверяет таблицу маппинга видов ошибок в статусы
func TestHTTPStatus_Mapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", apperr.New(apperr.Validation, "bad input"), http.StatusBadRequest},
		{"conflict", apperr.New(apperr.Conflict, "taken"), http.StatusBadRequest},
		{"expired", apperr.New(apperr.Expired, "link has expired"), http.StatusBadRequest},
		{"auth", apperr.New(apperr.Auth, "invalid credentials"), http.StatusBadRequest},
		{"not found", apperr.New(apperr.NotFound, "missing"), http.StatusNotFound},
		{"unexpected", apperr.New(apperr.Unexpected, "boom"), http.StatusInternalServerError},
		{"plain error", errors.New("plain"), http.StatusInternalServerError},
		{"nil kind default", fmt.Errorf("wrapped: %w", errors.New("inner")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, apperr.HTTPStatus(tt.err))
		})
	}
}

// TestKindOf_Wrapped вид извлекается и из обёрнутой ошибки
func TestKindOf_Wrapped(t *testing.T) {
	inner := apperr.New(apperr.NotFound, "link not found")
	wrapped := fmt.Errorf("resolve: %w", inner)

	assert.Equal(t, apperr.NotFound, apperr.KindOf(wrapped))
	assert.Equal(t, http.StatusNotFound, apperr.HTTPStatus(wrapped))
}

// TestError_Unwrap обёрнутая причина доступна через errors.Is
func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := apperr.Wrap(apperr.Unexpected, "failed to query links", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "failed to query links: connection reset", err.Error())
}
