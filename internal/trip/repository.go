package trip

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("trip not found")

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const columns = `
id, booking_id, start_actual, end_actual,
odometer_start, odometer_end, distance,
fuel_used::text, fuel_cost::text, COALESCE(remarks, '')`

func scanTrip(row pgx.Row) (*Trip, error) {
	var t Trip
	if err := row.Scan(
		&t.ID, &t.BookingID, &t.StartActual, &t.EndActual,
		&t.OdometerStart, &t.OdometerEnd, &t.Distance,
		&t.FuelUsed, &t.FuelCost, &t.Remarks,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *Repository) GetByBookingID(ctx context.Context, bookingID string) (*Trip, error) {
	return scanTrip(r.db.QueryRow(ctx,
		`SELECT `+columns+` FROM trips WHERE booking_id = $1`, bookingID))
}

// GetByBookingForUpdate returns (nil, nil) when the booking has no trip yet;
// the caller holds the booking row lock, which serializes trip creation.
func GetByBookingForUpdate(ctx context.Context, tx pgx.Tx, bookingID string) (*Trip, error) {
	t, err := scanTrip(tx.QueryRow(ctx,
		`SELECT `+columns+` FROM trips WHERE booking_id = $1 FOR UPDATE`, bookingID))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return t, err
}

func Insert(ctx context.Context, tx pgx.Tx, t *Trip) error {
	const q = `
INSERT INTO trips (id, booking_id, start_actual, odometer_start)
VALUES ($1, $2, $3, $4)
`
	_, err := tx.Exec(ctx, q, t.ID, t.BookingID, t.StartActual, t.OdometerStart)
	return err
}

// Finish writes every end field in one statement; the surrounding
// transaction also flips the booking and vehicle statuses, so a reader never
// sees a completed booking with an open trip.
func Finish(ctx context.Context, tx pgx.Tx, id string, end time.Time, odometerEnd, distance int64, fuelUsed, fuelCost *string, remarks string) error {
	const q = `
UPDATE trips
SET end_actual = $2,
    odometer_end = $3,
    distance = $4,
    fuel_used = CAST($5 AS numeric),
    fuel_cost = CAST($6 AS numeric),
    remarks = NULLIF($7, '')
WHERE id = $1
`
	_, err := tx.Exec(ctx, q, id, end, odometerEnd, distance, fuelUsed, fuelCost, remarks)
	return err
}
