package maintenance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("maintenance record not found")

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const columns = `
id, vehicle_id, maintenance_type, description,
scheduled_date, completed_date, cost::text, status, created_by_id, created_at`

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	if err := row.Scan(
		&rec.ID, &rec.VehicleID, &rec.Type, &rec.Description,
		&rec.Scheduled, &rec.Completed, &rec.Cost, &rec.Status, &rec.CreatedByID, &rec.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Record, error) {
	return scanRecord(r.db.QueryRow(ctx,
		`SELECT `+columns+` FROM maintenance_records WHERE id = $1`, id))
}

func (r *Repository) List(ctx context.Context, status Status) ([]Record, error) {
	q := `SELECT ` + columns + ` FROM maintenance_records`
	args := []any{}
	if status != "" {
		q += ` WHERE status = $1`
		args = append(args, string(status))
	}
	q += ` ORDER BY scheduled_date DESC`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (*Record, error) {
	return scanRecord(tx.QueryRow(ctx,
		`SELECT `+columns+` FROM maintenance_records WHERE id = $1 FOR UPDATE`, id))
}

func Insert(ctx context.Context, tx pgx.Tx, rec *Record) error {
	const q = `
INSERT INTO maintenance_records (
  id, vehicle_id, maintenance_type, description, scheduled_date, cost, status, created_by_id
) VALUES ($1, $2, $3, $4, $5, CAST($6 AS numeric), $7, $8)
`
	_, err := tx.Exec(ctx, q,
		rec.ID, rec.VehicleID, string(rec.Type), rec.Description,
		rec.Scheduled, rec.Cost, string(rec.Status), rec.CreatedByID,
	)
	return err
}

func Complete(ctx context.Context, tx pgx.Tx, id string, completed time.Time, cost *string) error {
	const q = `
UPDATE maintenance_records
SET status = 'completed',
    completed_date = $2,
    cost = COALESCE(CAST($3 AS numeric), cost)
WHERE id = $1
`
	_, err := tx.Exec(ctx, q, id, completed, cost)
	return err
}

func UpdateStatus(ctx context.Context, tx pgx.Tx, id string, status Status) error {
	const q = `UPDATE maintenance_records SET status = $2 WHERE id = $1`
	_, err := tx.Exec(ctx, q, id, string(status))
	return err
}

func Delete(ctx context.Context, tx pgx.Tx, id string) error {
	_, err := tx.Exec(ctx, `DELETE FROM maintenance_records WHERE id = $1`, id)
	return err
}

// HasOtherScheduled reports whether another scheduled record still claims
// the vehicle; completing or cancelling one record must not free a vehicle
// that a second record is holding in maintenance.
func HasOtherScheduled(ctx context.Context, tx pgx.Tx, vehicleID, excludeID string) (bool, error) {
	const q = `
SELECT EXISTS (
  SELECT 1 FROM maintenance_records
  WHERE vehicle_id = $1 AND status = 'scheduled' AND id <> $2
)
`
	var exists bool
	err := tx.QueryRow(ctx, q, vehicleID, excludeID).Scan(&exists)
	return exists, err
}
