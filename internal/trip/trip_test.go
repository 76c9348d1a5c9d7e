package trip

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicletracker/internal/fault"
)

func int64p(v int64) *int64 { return &v }

func TestStartRequestValidate(t *testing.T) {
	req := StartRequest{ActualStart: "2025-06-01T08:05:00Z", OdometerStart: int64p(1000)}
	start, f := req.validate()
	require.Nil(t, f)
	assert.Equal(t, time.Date(2025, 6, 1, 8, 5, 0, 0, time.UTC), start)

	tests := []struct {
		name    string
		req     StartRequest
		message string
	}{
		{"missing start", StartRequest{OdometerStart: int64p(1000)}, "start date/time"},
		{"bad format", StartRequest{ActualStart: "today", OdometerStart: int64p(1000)}, "invalid start"},
		{"missing odometer", StartRequest{ActualStart: "2025-06-01T08:05:00Z"}, "odometer reading is required"},
		{"negative odometer", StartRequest{ActualStart: "2025-06-01T08:05:00Z", OdometerStart: int64p(-1)}, "negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, f := tt.req.validate()
			require.NotNil(t, f)
			assert.Equal(t, fault.KindValidation, f.Kind)
			assert.Contains(t, f.Message, tt.message)
		})
	}
}

func openTrip() *Trip {
	return &Trip{
		ID:            "t-1",
		BookingID:     "b-1",
		StartActual:   time.Date(2025, 6, 1, 8, 5, 0, 0, time.UTC),
		OdometerStart: 1000,
	}
}

// end-trip(odometerEnd=950) fails; end-trip(odometerEnd=1120) yields
// distance 120.
func TestEndRequestValidate_OdometerScenario(t *testing.T) {
	tr := openTrip()

	bad := EndRequest{ActualEnd: "2025-06-01T12:00:00Z", OdometerEnd: int64p(950)}
	_, f := bad.validateEnd(tr)
	require.NotNil(t, f)
	assert.Equal(t, fault.KindValidation, f.Kind)
	assert.Contains(t, f.Message, "950")
	assert.Contains(t, f.Message, "1000")

	good := EndRequest{ActualEnd: "2025-06-01T12:00:00Z", OdometerEnd: int64p(1120)}
	v, f := good.validateEnd(tr)
	require.Nil(t, f)
	assert.Equal(t, int64(120), v.distance)
	assert.Equal(t, int64(1120), v.odoEnd)
}

func TestEndRequestValidate_ZeroDistance(t *testing.T) {
	tr := openTrip()

	req := EndRequest{ActualEnd: "2025-06-01T12:00:00Z", OdometerEnd: int64p(1000)}
	v, f := req.validateEnd(tr)
	require.Nil(t, f)
	assert.Equal(t, int64(0), v.distance)
}

func TestEndRequestValidate_TimeAndFuel(t *testing.T) {
	tr := openTrip()

	tests := []struct {
		name    string
		req     EndRequest
		message string
	}{
		{"missing end", EndRequest{OdometerEnd: int64p(1100)}, "end date/time is required"},
		{"end before start", EndRequest{ActualEnd: "2025-06-01T07:00:00Z", OdometerEnd: int64p(1100)}, "after the trip start"},
		{"end equals start", EndRequest{ActualEnd: "2025-06-01T08:05:00Z", OdometerEnd: int64p(1100)}, "after the trip start"},
		{"missing odometer", EndRequest{ActualEnd: "2025-06-01T12:00:00Z"}, "odometer reading is required"},
		{"fuel not a number", EndRequest{ActualEnd: "2025-06-01T12:00:00Z", OdometerEnd: int64p(1100), FuelUsed: "a lot"}, "fuel used must be a number"},
		{"negative fuel", EndRequest{ActualEnd: "2025-06-01T12:00:00Z", OdometerEnd: int64p(1100), FuelUsed: "-3"}, "fuel used cannot be negative"},
		{"negative cost", EndRequest{ActualEnd: "2025-06-01T12:00:00Z", OdometerEnd: int64p(1100), FuelCost: "-10.50"}, "fuel cost cannot be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, f := tt.req.validateEnd(tr)
			require.NotNil(t, f)
			assert.Equal(t, fault.KindValidation, f.Kind)
			assert.Contains(t, f.Message, tt.message)
		})
	}
}

func TestEndRequestValidate_FuelParsing(t *testing.T) {
	tr := openTrip()

	req := EndRequest{
		ActualEnd:   "2025-06-01T12:00:00Z",
		OdometerEnd: int64p(1100),
		FuelUsed:    "12.5",
		FuelCost:    "43.20",
	}
	v, f := req.validateEnd(tr)
	require.Nil(t, f)
	require.NotNil(t, v.fuelUsed)
	require.NotNil(t, v.fuelCost)
	assert.Equal(t, "12.5", *v.fuelUsed)
	assert.Equal(t, "43.2", *v.fuelCost)
}

func TestTripOpen(t *testing.T) {
	var missing *Trip
	assert.False(t, missing.Open())

	tr := openTrip()
	assert.True(t, tr.Open())

	end := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tr.EndActual = &end
	assert.False(t, tr.Open())
}
