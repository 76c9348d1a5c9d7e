package vehicle

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("vehicle not found")

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const columns = `id, registration, make, model, status, created_at, updated_at`

func scanVehicle(row pgx.Row) (*Vehicle, error) {
	var v Vehicle
	if err := row.Scan(&v.ID, &v.Registration, &v.Make, &v.Model, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *Repository) List(ctx context.Context) ([]Vehicle, error) {
	rows, err := r.db.Query(ctx, `SELECT `+columns+` FROM vehicles ORDER BY registration`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.Registration, &v.Make, &v.Model, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Vehicle, error) {
	return scanVehicle(r.db.QueryRow(ctx, `SELECT `+columns+` FROM vehicles WHERE id = $1`, id))
}

func (r *Repository) GetByRegistration(ctx context.Context, registration string) (*Vehicle, error) {
	return scanVehicle(r.db.QueryRow(ctx,
		`SELECT `+columns+` FROM vehicles WHERE registration = $1`, NormalizeRegistration(registration)))
}

// GetForUpdate locks the vehicle row for the rest of the transaction. Every
// flow that checks conflicts or flips vehicle status takes this lock first,
// which serializes per-vehicle check-then-act sequences.
func GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (*Vehicle, error) {
	return scanVehicle(tx.QueryRow(ctx, `SELECT `+columns+` FROM vehicles WHERE id = $1 FOR UPDATE`, id))
}

func Insert(ctx context.Context, tx pgx.Tx, v *Vehicle) error {
	const q = `
INSERT INTO vehicles (id, registration, make, model, status)
VALUES ($1, $2, $3, $4, $5)
`
	_, err := tx.Exec(ctx, q, v.ID, v.Registration, v.Make, v.Model, string(v.Status))
	return err
}

func Update(ctx context.Context, tx pgx.Tx, id, registration, make, model string) error {
	const q = `
UPDATE vehicles
SET registration = $2, make = $3, model = $4, updated_at = NOW()
WHERE id = $1
`
	_, err := tx.Exec(ctx, q, id, registration, make, model)
	return err
}

// UpdateStatus is the registry's single status write. Callers decide the
// target status under their own row locks before invoking it.
func UpdateStatus(ctx context.Context, tx pgx.Tx, id string, status Status) error {
	const q = `
UPDATE vehicles
SET status = $2, updated_at = NOW()
WHERE id = $1
`
	_, err := tx.Exec(ctx, q, id, string(status))
	return err
}

func ExistsByRegistration(ctx context.Context, tx pgx.Tx, registration, excludeID string) (bool, error) {
	const q = `
SELECT EXISTS (
  SELECT 1 FROM vehicles WHERE registration = $1 AND ($2 = '' OR id <> $2)
)
`
	var exists bool
	err := tx.QueryRow(ctx, q, registration, excludeID).Scan(&exists)
	return exists, err
}
