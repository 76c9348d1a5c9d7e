package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Entry struct {
	ID         int64     `json:"id"`
	EntityType string    `json:"entityType"`
	EntityID   *string   `json:"entityId,omitempty"`
	Action     string    `json:"action"`
	Actor      string    `json:"actor"`
	Details    any       `json:"details,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Insert records one state transition inside the caller's transaction.
// Callers ignore the returned error: audit is fire-and-forget and must not
// block the transition itself.
func Insert(ctx context.Context, tx pgx.Tx, entityType string, entityID *string, action, actor string, details any) error {
	var s *string
	if details != nil {
		b, _ := json.Marshal(details)
		str := string(b)
		s = &str
	}
	const q = `
INSERT INTO audit_logs (entity_type, entity_id, action, actor, details)
VALUES ($1, $2, $3, $4, CAST($5 AS jsonb))
`
	_, err := tx.Exec(ctx, q, entityType, entityID, action, actor, s)
	return err
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const q = `
SELECT id, entity_type, entity_id, action, actor, COALESCE(details, '{}'::jsonb), created_at
FROM audit_logs
ORDER BY created_at DESC, id DESC
LIMIT $1
`
	rows, err := r.db.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Action, &e.Actor, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
