package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptrInt64(v int64) *int64    { return &v }
func ptrString(s string) *string { return &s }

func TestTotals(t *testing.T) {
	trips := []TripRow{
		{Distance: ptrInt64(120), FuelCost: ptrString("43.20")},
		{Distance: ptrInt64(80), FuelCost: ptrString("30.55")},
		{Distance: ptrInt64(15)}, // no fuel recorded
	}

	distance, cost := Totals(trips)
	assert.Equal(t, int64(215), distance)
	assert.Equal(t, "73.75", cost.String())
}

func TestTotalsEmpty(t *testing.T) {
	distance, cost := Totals(nil)
	assert.Equal(t, int64(0), distance)
	assert.True(t, cost.IsZero())
}
