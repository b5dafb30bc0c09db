package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	wrapped := errors.New("boom")
	appErr := NewAppError(http.StatusBadGateway, CodeDependency, "upstream failed", wrapped)

	assert.Equal(t, "boom", appErr.Error())
	assert.ErrorIs(t, appErr, wrapped)

	bare := NewAppError(http.StatusBadRequest, CodeValidation, "bad input", nil)
	assert.Equal(t, "bad input", bare.Error())
}

func TestConstructors(t *testing.T) {
	cases := []struct {
		name     string
		err      *AppError
		status   int
		code     string
		sentinel error
	}{
		{"bad request", BadRequest("x"), http.StatusBadRequest, CodeValidation, ErrInvalidInput},
		{"conflict", Conflict("x"), http.StatusConflict, CodeConflict, ErrAlreadyExists},
		{"unauthorized", Unauthorized("x"), http.StatusUnauthorized, CodeUnauthorized, ErrUnauthorized},
		{"not found", NotFound("x"), http.StatusNotFound, CodeNotFound, ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, tc.err.Status)
			assert.Equal(t, tc.code, tc.err.Code)
			assert.ErrorIs(t, tc.err, tc.sentinel)
		})
	}

	internal := InternalError(errors.New("oops"))
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.Equal(t, CodeInternal, internal.Code)
}
