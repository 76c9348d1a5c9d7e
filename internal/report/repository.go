package report

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// TripRow is one finished trip joined with its booking context.
type TripRow struct {
	TripID      string    `json:"tripId"`
	BookingID   string    `json:"bookingId"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	RouteFrom   string    `json:"routeFrom"`
	RouteTo     string    `json:"routeTo"`
	DriverName  string    `json:"driverName,omitempty"`
	ProjectCode string    `json:"projectCode,omitempty"`
	Distance    *int64    `json:"distance,omitempty"`
	FuelUsed    *string   `json:"fuelUsed,omitempty"`
	FuelCost    *string   `json:"fuelCost,omitempty"`
}

// VehicleTrips returns the finished trips of one vehicle whose actual start
// falls inside [from, to). Open trips are excluded; a trip without an end has
// nothing to report yet.
func (r *Repository) VehicleTrips(ctx context.Context, vehicleID string, from, to time.Time) ([]TripRow, error) {
	const q = `
SELECT t.id, t.booking_id, t.start_actual, t.end_actual,
       b.route_from, b.route_to,
       COALESCE(u.full_name, ''),
       COALESCE(b.project_code, ''),
       t.distance, t.fuel_used::text, t.fuel_cost::text
FROM trips t
JOIN bookings b ON b.id = t.booking_id
LEFT JOIN users u ON u.id = b.driver_id
WHERE b.vehicle_id = $1
  AND t.start_actual >= $2
  AND t.start_actual < $3
  AND t.end_actual IS NOT NULL
ORDER BY t.start_actual
`
	rows, err := r.db.Query(ctx, q, vehicleID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TripRow
	for rows.Next() {
		var tr TripRow
		if err := rows.Scan(
			&tr.TripID, &tr.BookingID, &tr.Start, &tr.End,
			&tr.RouteFrom, &tr.RouteTo, &tr.DriverName, &tr.ProjectCode,
			&tr.Distance, &tr.FuelUsed, &tr.FuelCost,
		); err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}

// BudgetRow aggregates finished trips under one project code.
type BudgetRow struct {
	ProjectCode   string  `json:"projectCode"`
	TripCount     int64   `json:"tripCount"`
	TotalDistance int64   `json:"totalDistance"`
	TotalFuel     *string `json:"totalFuel,omitempty"`
	TotalCost     *string `json:"totalCost,omitempty"`
}

func (r *Repository) BudgetByProject(ctx context.Context) ([]BudgetRow, error) {
	const q = `
SELECT COALESCE(b.project_code, ''),
       COUNT(t.id),
       COALESCE(SUM(t.distance), 0),
       SUM(t.fuel_used)::text,
       SUM(t.fuel_cost)::text
FROM trips t
JOIN bookings b ON b.id = t.booking_id
WHERE t.end_actual IS NOT NULL
GROUP BY COALESCE(b.project_code, '')
ORDER BY COALESCE(b.project_code, '')
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BudgetRow
	for rows.Next() {
		var br BudgetRow
		if err := rows.Scan(&br.ProjectCode, &br.TripCount, &br.TotalDistance, &br.TotalFuel, &br.TotalCost); err != nil {
			return nil, err
		}
		out = append(out, br)
	}
	return out, rows.Err()
}
