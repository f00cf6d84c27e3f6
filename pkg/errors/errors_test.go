package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	err := New(ErrCodeViewNotFound, "view %q", "3f2a")
	assert.Equal(t, ErrCodeViewNotFound, err.Code)
	assert.Equal(t, `view "3f2a"`, err.Message)
	assert.Equal(t, `VIEW_NOT_FOUND: view "3f2a"`, err.Error())

	wrapped := Wrap(ErrCodeNetwork, errors.New("connection refused"), "fetch %s", "https://hr.example/org.json")
	assert.Equal(t, "NETWORK_ERROR: fetch https://hr.example/org.json: connection refused", wrapped.Error())
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Wrap(ErrCodeInvalidPayload, cause, "decode payload")

	require.Same(t, cause, errors.Unwrap(err))
	assert.ErrorIs(t, err, cause)
}

func TestCodeLookup(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		msg  string
	}{
		{"direct", New(ErrCodeNodeNotFound, "node emp:7"), ErrCodeNodeNotFound, "node emp:7"},
		{"outermost wins", Wrap(ErrCodeSourceNotFound, New(ErrCodeInvalidPath, "inner"), "outer"), ErrCodeSourceNotFound, "outer"},
		{"through fmt", fmt.Errorf("load: %w", New(ErrCodeInvalidKind, "no employees")), ErrCodeInvalidKind, "no employees"},
		{"plain", errors.New("boom"), "", "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, GetCode(tt.err))
			assert.Equal(t, tt.msg, UserMessage(tt.err))
			if tt.code != "" {
				assert.True(t, Is(tt.err, tt.code))
			}
			assert.False(t, Is(tt.err, ErrCodeTimeout))
		})
	}

	assert.False(t, Is(nil, ErrCodeInternal))
	assert.Empty(t, GetCode(nil))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeInvalidPayload, http.StatusBadRequest},
		{ErrCodeInvalidKind, http.StatusBadRequest},
		{ErrCodeInvalidFormat, http.StatusBadRequest},
		{ErrCodeInvalidConfig, http.StatusBadRequest},
		{ErrCodeInvalidPath, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeSourceNotFound, http.StatusNotFound},
		{ErrCodeViewNotFound, http.StatusNotFound},
		{ErrCodeNodeNotFound, http.StatusNotFound},
		{ErrCodeBranchNotFound, http.StatusNotFound},
		{ErrCodeNetwork, http.StatusBadGateway},
		{ErrCodeTimeout, http.StatusGatewayTimeout},
		{ErrCodeUnsupported, http.StatusNotImplemented},
		{ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(New(tt.code, "x")))
		})
	}

	assert.Equal(t, http.StatusNotFound, HTTPStatus(fmt.Errorf("branch: %w", New(ErrCodeBranchNotFound, "H-9"))))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}
