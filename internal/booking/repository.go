package booking

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("booking not found")

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const columns = `
b.id, b.vehicle_id, b.requester_id, b.requester_name, b.driver_id,
b.start_planned, b.end_planned,
b.route_from, b.route_to, b.purpose,
COALESCE(b.activity_code, ''), COALESCE(b.project_code, ''),
b.status, b.created_at, b.updated_at,
EXISTS (SELECT 1 FROM trips t WHERE t.booking_id = b.id) AS trip_started`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.VehicleID, &b.RequesterID, &b.RequesterName, &b.DriverID,
		&b.StartPlanned, &b.EndPlanned,
		&b.RouteFrom, &b.RouteTo, &b.Purpose,
		&b.ActivityCode, &b.ProjectCode,
		&b.Status, &b.CreatedAt, &b.UpdatedAt,
		&b.TripStarted,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Booking, error) {
	return scanBooking(r.db.QueryRow(ctx, `SELECT `+columns+` FROM bookings b WHERE b.id = $1`, id))
}

func (r *Repository) List(ctx context.Context, status Status) ([]Booking, error) {
	q := `SELECT ` + columns + ` FROM bookings b`
	args := []any{}
	if status != "" {
		q += ` WHERE b.status = $1`
		args = append(args, string(status))
	}
	q += ` ORDER BY b.start_planned DESC`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// ListActive feeds the calendar view: every pending or approved booking.
func (r *Repository) ListActive(ctx context.Context) ([]Booking, error) {
	const q = `
SELECT ` + columns + `
FROM bookings b
WHERE b.status IN ('pending', 'approved')
ORDER BY b.start_planned`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// GetForUpdate locks the booking row for the rest of the transaction. Flows
// that also touch the vehicle lock the booking first, then the vehicle.
func GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (*Booking, error) {
	const q = `
SELECT id, vehicle_id, requester_id, requester_name, driver_id,
       start_planned, end_planned,
       route_from, route_to, purpose,
       COALESCE(activity_code, ''), COALESCE(project_code, ''),
       status, created_at, updated_at,
       FALSE
FROM bookings
WHERE id = $1
FOR UPDATE`
	return scanBooking(tx.QueryRow(ctx, q, id))
}

func Insert(ctx context.Context, tx pgx.Tx, b *Booking) error {
	const q = `
INSERT INTO bookings (
  id, vehicle_id, requester_id, requester_name, driver_id,
  start_planned, end_planned,
  route_from, route_to, purpose, activity_code, project_code, status
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), NULLIF($12, ''), $13)
`
	_, err := tx.Exec(ctx, q,
		b.ID, b.VehicleID, b.RequesterID, b.RequesterName, b.DriverID,
		b.StartPlanned, b.EndPlanned,
		b.RouteFrom, b.RouteTo, b.Purpose, b.ActivityCode, b.ProjectCode, string(b.Status),
	)
	return err
}

func UpdateStatus(ctx context.Context, tx pgx.Tx, id string, next Status) error {
	const q = `
UPDATE bookings
SET status = $2, updated_at = NOW()
WHERE id = $1
`
	_, err := tx.Exec(ctx, q, id, string(next))
	return err
}

func UpdateDriver(ctx context.Context, tx pgx.Tx, id string, driverID *string) error {
	const q = `
UPDATE bookings
SET driver_id = $2, updated_at = NOW()
WHERE id = $1
`
	_, err := tx.Exec(ctx, q, id, driverID)
	return err
}

// Delete removes the booking; the trips FK cascades, so the booking's trip
// (if any) goes with it.
func Delete(ctx context.Context, tx pgx.Tx, id string) error {
	_, err := tx.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	return err
}
