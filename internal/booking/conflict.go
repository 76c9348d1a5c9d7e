package booking

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2) share
// any instant. Touching endpoints do not overlap: a booking ending at 10:00
// and one starting at 10:00 can share a vehicle.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// FirstConflict scans candidates for an active booking whose planned window
// overlaps [start,end), skipping excludeID (the booking being re-evaluated
// during approval or edit). Pure; no ordering guarantee beyond slice order.
func FirstConflict(candidates []Booking, start, end time.Time, excludeID string) *Booking {
	for i := range candidates {
		b := &candidates[i]
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if !b.Status.Active() {
			continue
		}
		if Overlaps(b.StartPlanned, b.EndPlanned, start, end) {
			return b
		}
	}
	return nil
}

// HasConflict loads the vehicle's active bookings inside the caller's
// transaction and applies FirstConflict. Callers must already hold the
// vehicle row lock (vehicle.GetForUpdate) so that the scan and the write it
// guards are atomic with respect to concurrent writers on the same vehicle.
func HasConflict(ctx context.Context, tx pgx.Tx, vehicleID string, start, end time.Time, excludeID string) (*Booking, error) {
	const q = `
SELECT id, start_planned, end_planned, status, requester_name
FROM bookings
WHERE vehicle_id = $1 AND status IN ('pending', 'approved')
`
	rows, err := tx.Query(ctx, q, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.StartPlanned, &b.EndPlanned, &b.Status, &b.RequesterName); err != nil {
			return nil, err
		}
		candidates = append(candidates, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return FirstConflict(candidates, start, end, excludeID), nil
}
