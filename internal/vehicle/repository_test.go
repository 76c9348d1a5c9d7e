package vehicle

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingTx captures the statement and arguments a repository function
// sends, answering queries with static values.
type recordingTx struct {
	lastSQL  string
	lastArgs []any
}

func (t *recordingTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *recordingTx) Commit(ctx context.Context) error          { return nil }
func (t *recordingTx) Rollback(ctx context.Context) error        { return nil }
func (t *recordingTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *recordingTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *recordingTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *recordingTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *recordingTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	t.lastSQL = sql
	t.lastArgs = arguments
	return pgconn.CommandTag{}, nil
}
func (t *recordingTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	t.lastSQL = sql
	t.lastArgs = args
	return nil, pgx.ErrNoRows
}
func (t *recordingTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	t.lastSQL = sql
	t.lastArgs = args
	return staticRow{}
}
func (t *recordingTx) Conn() *pgx.Conn { return nil }

type staticRow struct{}

func (staticRow) Scan(dest ...any) error {
	for _, d := range dest {
		if b, ok := d.(*bool); ok {
			*b = false
		}
	}
	return nil
}

// vehicles.id is TEXT; the exclusion clause must compare it without any type
// cast, since a cast on the parameter makes the statement unplannable both
// for empty and non-empty exclude values.
func TestExistsByRegistrationExcludesByTextID(t *testing.T) {
	tx := &recordingTx{}

	_, err := ExistsByRegistration(context.Background(), tx, "KAA123B", "veh-1")
	require.NoError(t, err)

	assert.Contains(t, tx.lastSQL, "id <> $2")
	assert.NotContains(t, tx.lastSQL, "::")
	assert.Equal(t, []any{"KAA123B", "veh-1"}, tx.lastArgs)
}
