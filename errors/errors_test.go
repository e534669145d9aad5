package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := New(ValidationError, "bad input", "field x is required")
	assert.Equal(t, "VALIDATION_ERROR: bad input (field x is required)", err.Error())

	err = New(ServerError, "boom", "")
	assert.Equal(t, "SERVER_ERROR: boom", err.Error())
}

func TestWrap(t *testing.T) {
	raw := errors.New("underlying")
	err := Wrap(raw, DatabaseError, "query failed")

	assert.Equal(t, DatabaseError, err.Type)
	assert.Equal(t, raw, errors.Unwrap(err))
	assert.Equal(t, http.StatusInternalServerError, err.GetHTTPStatus())

	assert.Nil(t, Wrap(nil, DatabaseError, "no-op"))
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected int
	}{
		{"user not found is 404", UserNotFound("u1"), http.StatusNotFound},
		{"trip not found is 404", TripNotFound("t1"), http.StatusNotFound},
		{"already granted is 409", AlreadyGranted("dup"), http.StatusConflict},
		{"invalid transition is 400", InvalidStatusTransition("completed", "scheduled", "terminal"), http.StatusBadRequest},
		{"unknown status is 400", UnknownStatus("bogus"), http.StatusBadRequest},
		{"permission store unavailable is 503", PermissionStoreUnavailable(errors.New("relation missing")), http.StatusServiceUnavailable},
		{"rate limit is 429", RateLimitExceeded("slow down", 60), http.StatusTooManyRequests},
		{"forbidden is 403", Forbidden("no", ""), http.StatusForbidden},
		{"unauthorized is 401", Unauthorized("missing_auth", "login required"), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.GetHTTPStatus())
		})
	}
}

func TestPermissionStoreUnavailable_DistinctFromForbidden(t *testing.T) {
	unavailable := PermissionStoreUnavailable(errors.New("relation missing"))
	denied := Forbidden("denied", "")

	assert.NotEqual(t, denied.GetHTTPStatus(), unavailable.GetHTTPStatus())
	assert.NotEqual(t, denied.Type, unavailable.Type)
}
