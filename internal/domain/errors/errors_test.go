package errors

import (
	"net/http"
	"testing"

	"accounts/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseError_WithDetailsKeepsIdentity(t *testing.T) {
	detailed := ErrWeakPassword.WithDetails("must be at least 8 characters long")

	assert.True(t, errors.Is(detailed, ErrWeakPassword))
	assert.False(t, errors.Is(detailed, ErrDuplicateIdentity))
	assert.Equal(t, "must be at least 8 characters long", detailed.Details())
	assert.Empty(t, ErrWeakPassword.Details())
}

func TestBaseError_WrapMessage(t *testing.T) {
	err := ErrInvalidCredentials.WrapMessage("password mismatch")

	var appErr AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode())
	assert.Equal(t, "INVALID_CREDENTIALS", appErr.ErrorCode())
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestStatusCodes(t *testing.T) {
	cases := map[*BaseError]int{
		ErrDuplicateIdentity:  http.StatusBadRequest,
		ErrWeakPassword:       http.StatusBadRequest,
		ErrInvalidCredentials: http.StatusBadRequest,
		ErrUnauthorized:       http.StatusUnauthorized,
		ErrMethodNotAllowed:   http.StatusMethodNotAllowed,
		ErrTooManyRequests:    http.StatusTooManyRequests,
	}

	for err, code := range cases {
		assert.Equal(t, code, err.HTTPCode(), err.ErrorCode())
	}
}

func TestDatabaseExecuteError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewDatabaseExecuteError(cause, "insert user")

	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode())
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", err.ErrorCode())
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "connection reset")
}
