package maintenance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	for _, s := range []string{"routine", "repair", "inspection", "tyre", "other"} {
		got, err := ParseType(s)
		require.NoError(t, err)
		assert.Equal(t, Type(s), got)
	}

	_, err := ParseType("oil-change")
	assert.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"scheduled", "completed", "cancelled"} {
		got, err := ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, Status(s), got)
	}

	_, err := ParseStatus("done")
	assert.Error(t, err)
}

func validScheduleRequest() ScheduleRequest {
	return ScheduleRequest{
		VehicleID:     "veh-1",
		Type:          "routine",
		Description:   "10k km service",
		ScheduledDate: "2026-09-15",
	}
}

func TestScheduleRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ScheduleRequest)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(r *ScheduleRequest) {},
		},
		{
			name:   "valid with cost",
			mutate: func(r *ScheduleRequest) { r.Cost = "150.00" },
		},
		{
			name:    "missing vehicle",
			mutate:  func(r *ScheduleRequest) { r.VehicleID = "" },
			wantErr: "vehicle",
		},
		{
			name:    "unknown type",
			mutate:  func(r *ScheduleRequest) { r.Type = "polish" },
			wantErr: "maintenance type",
		},
		{
			name:    "blank description",
			mutate:  func(r *ScheduleRequest) { r.Description = "   " },
			wantErr: "description",
		},
		{
			name:    "missing date",
			mutate:  func(r *ScheduleRequest) { r.ScheduledDate = "" },
			wantErr: "scheduled date",
		},
		{
			name:    "bad date format",
			mutate:  func(r *ScheduleRequest) { r.ScheduledDate = "15/09/2026" },
			wantErr: "YYYY-MM-DD",
		},
		{
			name:    "non-numeric cost",
			mutate:  func(r *ScheduleRequest) { r.Cost = "cheap" },
			wantErr: "number",
		},
		{
			name:    "negative cost",
			mutate:  func(r *ScheduleRequest) { r.Cost = "-5" },
			wantErr: "negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validScheduleRequest()
			tt.mutate(&req)

			mtype, scheduled, cost, f := req.validate()
			if tt.wantErr != "" {
				require.NotNil(t, f)
				assert.Contains(t, f.Message, tt.wantErr)
				return
			}
			require.Nil(t, f)
			assert.Equal(t, TypeRoutine, mtype)
			assert.Equal(t, "2026-09-15", scheduled.Format(dateFormat))
			if req.Cost != "" {
				require.NotNil(t, cost)
				assert.Equal(t, "150", *cost)
			} else {
				assert.Nil(t, cost)
			}
		})
	}
}

func TestParseCostNormalizes(t *testing.T) {
	cost, f := parseCost("043.200")
	require.Nil(t, f)
	require.NotNil(t, cost)
	assert.Equal(t, "43.2", *cost)

	cost, f = parseCost("")
	require.Nil(t, f)
	assert.Nil(t, cost)
}
