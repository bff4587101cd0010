package errors

import (
	stderrors "errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_HTTPStatus(t *testing.T) {
	testCases := []struct {
		err    *APIError
		status int
	}{
		{NewBadRequestError("No file uploaded"), http.StatusBadRequest},
		{NewUnauthorizedError("bad key"), http.StatusUnauthorized},
		{NewPayloadTooLargeError("too big"), http.StatusRequestEntityTooLarge},
		{NewInternalError("boom"), http.StatusInternalServerError},
		{NewServiceUnavailableError("down"), http.StatusServiceUnavailable},
		{&APIError{Kind: "unknown"}, http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(string(tc.err.Kind), func(t *testing.T) {
			assert.Equal(t, tc.status, tc.err.HTTPStatus())
			assert.Equal(t, tc.err.Message, tc.err.Error())
		})
	}
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, WrapError(nil, KindInternal, "ignored"))

	apiErr := WrapError(io.ErrUnexpectedEOF, KindServiceUnavailable, "service error")
	assert.Equal(t, "service error", apiErr.Error())
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.HTTPStatus())
	assert.True(t, stderrors.Is(apiErr, io.ErrUnexpectedEOF))
	assert.NotContains(t, apiErr.Error(), "unexpected EOF")
}
