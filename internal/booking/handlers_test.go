package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicletracker/internal/fault"
	"vehicletracker/internal/vehicle"
)

func TestCreateGuard(t *testing.T) {
	veh := &vehicle.Vehicle{Registration: "KAA123B", Status: vehicle.StatusMaintenance}
	f := createGuard(veh)
	require.NotNil(t, f)
	assert.Equal(t, fault.KindValidation, f.Kind)
	assert.Contains(t, f.Message, "KAA123B")
	assert.Contains(t, f.Message, "maintenance")

	// In-use only blocks the current window, not a future booking.
	for _, s := range []vehicle.Status{vehicle.StatusAvailable, vehicle.StatusInUse} {
		assert.Nil(t, createGuard(&vehicle.Vehicle{Registration: "KAA123B", Status: s}))
	}
}

func TestApproveCheckNonPending(t *testing.T) {
	for _, s := range []Status{StatusApproved, StatusCompleted, StatusCancelled} {
		f := approveCheck(&Booking{ID: "b1", Status: s}, nil)
		require.NotNil(t, f, "status %s", s)
		assert.Equal(t, fault.KindState, f.Kind)
	}

	assert.Nil(t, approveCheck(&Booking{ID: "b1", Status: StatusPending}, nil))
}

// A booking approved after this one was requested now occupies part of the
// window: approval must fail with a conflict and neither booking's status
// may move.
func TestApproveCheckConflict(t *testing.T) {
	holder := Booking{
		ID:            "b-approved",
		Status:        StatusApproved,
		RequesterName: "Jane Smith",
		StartPlanned:  at(t, "2025-01-01T08:00:00Z"),
		EndPlanned:    at(t, "2025-01-01T10:00:00Z"),
	}
	pending := Booking{
		ID:           "b-pending",
		Status:       StatusPending,
		StartPlanned: at(t, "2025-01-01T09:00:00Z"),
		EndPlanned:   at(t, "2025-01-01T11:00:00Z"),
	}

	conflict := FirstConflict([]Booking{holder}, pending.StartPlanned, pending.EndPlanned, pending.ID)
	require.NotNil(t, conflict)

	f := approveCheck(&pending, conflict)
	require.NotNil(t, f)
	assert.Equal(t, fault.KindConflict, f.Kind)
	assert.Contains(t, f.Message, "Jane Smith")

	assert.Equal(t, StatusPending, pending.Status)
	assert.Equal(t, StatusApproved, holder.Status)
}
