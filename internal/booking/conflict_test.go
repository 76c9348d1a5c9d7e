package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func TestOverlaps(t *testing.T) {
	s1 := at(t, "2025-01-01T08:00:00Z")
	e1 := at(t, "2025-01-01T10:00:00Z")

	tests := []struct {
		name   string
		s2, e2 time.Time
		want   bool
	}{
		{"contained", at(t, "2025-01-01T08:30:00Z"), at(t, "2025-01-01T09:30:00Z"), true},
		{"overlaps tail", at(t, "2025-01-01T09:00:00Z"), at(t, "2025-01-01T11:00:00Z"), true},
		{"overlaps head", at(t, "2025-01-01T07:00:00Z"), at(t, "2025-01-01T08:30:00Z"), true},
		{"covers", at(t, "2025-01-01T07:00:00Z"), at(t, "2025-01-01T11:00:00Z"), true},
		{"identical", s1, e1, true},
		{"touching end", e1, at(t, "2025-01-01T12:00:00Z"), false},
		{"touching start", at(t, "2025-01-01T06:00:00Z"), s1, false},
		{"disjoint after", at(t, "2025-01-01T11:00:00Z"), at(t, "2025-01-01T12:00:00Z"), false},
		{"disjoint before", at(t, "2025-01-01T06:00:00Z"), at(t, "2025-01-01T07:00:00Z"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(s1, e1, tt.s2, tt.e2))
			// Overlap is symmetric.
			assert.Equal(t, tt.want, Overlaps(tt.s2, tt.e2, s1, e1))
		})
	}
}

// The canonical scenario: A 08:00-10:00 holds the vehicle, B 09:00-11:00
// conflicts, C 10:00-12:00 starts at A's endpoint and does not.
func TestFirstConflict_Scenario(t *testing.T) {
	bookingA := Booking{
		ID:            "a",
		Status:        StatusPending,
		StartPlanned:  at(t, "2025-01-01T08:00:00Z"),
		EndPlanned:    at(t, "2025-01-01T10:00:00Z"),
		RequesterName: "Alice",
	}
	candidates := []Booking{bookingA}

	gotB := FirstConflict(candidates, at(t, "2025-01-01T09:00:00Z"), at(t, "2025-01-01T11:00:00Z"), "")
	require.NotNil(t, gotB)
	assert.Equal(t, "a", gotB.ID)

	gotC := FirstConflict(candidates, at(t, "2025-01-01T10:00:00Z"), at(t, "2025-01-01T12:00:00Z"), "")
	assert.Nil(t, gotC)
}

func TestFirstConflict_SkipsExcludedBooking(t *testing.T) {
	candidates := []Booking{{
		ID:           "self",
		Status:       StatusPending,
		StartPlanned: at(t, "2025-01-01T08:00:00Z"),
		EndPlanned:   at(t, "2025-01-01T10:00:00Z"),
	}}

	// Re-evaluating the same booking during approval must not conflict with
	// itself.
	got := FirstConflict(candidates, at(t, "2025-01-01T08:00:00Z"), at(t, "2025-01-01T10:00:00Z"), "self")
	assert.Nil(t, got)
}

func TestFirstConflict_IgnoresInactiveBookings(t *testing.T) {
	start := at(t, "2025-01-01T08:00:00Z")
	end := at(t, "2025-01-01T10:00:00Z")
	candidates := []Booking{
		{ID: "done", Status: StatusCompleted, StartPlanned: start, EndPlanned: end},
		{ID: "gone", Status: StatusCancelled, StartPlanned: start, EndPlanned: end},
	}

	got := FirstConflict(candidates, start, end, "")
	assert.Nil(t, got)
}

func TestFirstConflict_FindsApprovedOverlap(t *testing.T) {
	candidates := []Booking{{
		ID:           "approved",
		Status:       StatusApproved,
		StartPlanned: at(t, "2025-01-01T08:00:00Z"),
		EndPlanned:   at(t, "2025-01-01T10:00:00Z"),
	}}

	got := FirstConflict(candidates, at(t, "2025-01-01T09:30:00Z"), at(t, "2025-01-01T09:45:00Z"), "")
	require.NotNil(t, got)
	assert.Equal(t, "approved", got.ID)
}
