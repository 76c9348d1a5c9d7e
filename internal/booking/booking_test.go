package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicletracker/internal/fault"
)

func validRequest() CreateRequest {
	return CreateRequest{
		VehicleID:    "veh-1",
		StartPlanned: "2025-06-01T08:00:00Z",
		EndPlanned:   "2025-06-01T10:00:00Z",
		RouteFrom:    "Head Office",
		RouteTo:      "Field Site",
		Purpose:      "Site inspection",
	}
}

func TestCreateRequestValidate_OK(t *testing.T) {
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	req := validRequest()
	start, end, f := req.validate(now)
	require.Nil(t, f)
	assert.Equal(t, time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), end)
}

func TestCreateRequestValidate_Failures(t *testing.T) {
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(*CreateRequest)
		message string
	}{
		{"missing vehicle", func(r *CreateRequest) { r.VehicleID = "" }, "vehicle"},
		{"missing start", func(r *CreateRequest) { r.StartPlanned = "" }, "start date/time is required"},
		{"bad start format", func(r *CreateRequest) { r.StartPlanned = "yesterday" }, "invalid start"},
		{"missing end", func(r *CreateRequest) { r.EndPlanned = "" }, "end date/time is required"},
		{"bad end format", func(r *CreateRequest) { r.EndPlanned = "2025/06/01" }, "invalid end"},
		{"missing route from", func(r *CreateRequest) { r.RouteFrom = " " }, "route from"},
		{"missing route to", func(r *CreateRequest) { r.RouteTo = "" }, "route to"},
		{"missing purpose", func(r *CreateRequest) { r.Purpose = "" }, "purpose"},
		{"end equals start", func(r *CreateRequest) { r.EndPlanned = r.StartPlanned }, "after start"},
		{"end before start", func(r *CreateRequest) {
			r.EndPlanned = "2025-06-01T07:00:00Z"
		}, "after start"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			_, _, f := req.validate(now)
			require.NotNil(t, f)
			assert.Equal(t, fault.KindValidation, f.Kind)
			assert.Contains(t, f.Message, tt.message)
		})
	}
}

// A start in the past always fails validation, regardless of other fields.
func TestCreateRequestValidate_PastStart(t *testing.T) {
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	req := validRequest()
	_, _, f := req.validate(now)
	require.NotNil(t, f)
	assert.Equal(t, fault.KindValidation, f.Kind)
	assert.Contains(t, f.Message, "past")
}

func TestCreateRequestValidate_StartExactlyNow(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	req := validRequest()
	_, _, f := req.validate(now)
	assert.Nil(t, f, "start == now is allowed")
}
