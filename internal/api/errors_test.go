package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicletracker/internal/fault"
)

func TestWriteFault_KindMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", fault.Validation("start is in the past"), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"conflict", fault.Conflict("vehicle already booked"), http.StatusConflict, "BOOKING_CONFLICT"},
		{"state", fault.State("only pending bookings can be approved"), http.StatusConflict, "INVALID_STATE_TRANSITION"},
		{"authorization", fault.Authorization("admin only"), http.StatusForbidden, "FORBIDDEN"},
		{"not found", fault.NotFound("booking not found"), http.StatusNotFound, "NOT_FOUND"},
		{"unknown error", errors.New("pg down"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteFault(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var env ErrorEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.Equal(t, tt.wantCode, env.Error.Code)
		})
	}
}

func TestWriteFault_InternalHidesDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteFault(rec, errors.New("dial tcp: connection refused"))

	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "internal error", env.Error.Message)
}
