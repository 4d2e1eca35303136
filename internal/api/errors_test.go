package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusPerKind(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{InsufficientSessions("not enough sessions"), http.StatusBadRequest},
		{NotFound("missing"), http.StatusNotFound},
		{Conflict("duplicate"), http.StatusConflict},
		{Expired("token expired"), http.StatusGone},
		{PartialFailure("payment not recorded", nil), http.StatusInternalServerError},
		{Integrity("insert booking", errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.HTTPStatus(), tc.err.Message)
		assert.Equal(t, tc.status, StatusOf(tc.err))
	}
}

func TestKindOfWrappedError(t *testing.T) {
	inner := NotFound("client not found")
	wrapped := fmt.Errorf("loading purchase input: %w", inner)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.Equal(t, http.StatusNotFound, StatusOf(wrapped))
}

func TestUntaggedErrorMapsToIntegrity(t *testing.T) {
	err := errors.New("connection reset")
	assert.Equal(t, KindIntegrity, KindOf(err))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
}

func TestIntegrityUnwrapsCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Integrity("count bookings", cause)
	assert.ErrorIs(t, err, cause)
}
