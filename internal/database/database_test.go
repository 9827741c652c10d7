package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-crm-backend/internal/database"
	"telegram-crm-backend/internal/logger"
)

func TestNormalizeDialect(t *testing.T) {
	for in, want := range map[string]string{
		"":           database.DialectSQLite,
		"sqlite3":    database.DialectSQLite,
		"Postgres":   database.DialectPostgres,
		"postgresql": database.DialectPostgres,
	} {
		got, err := database.NormalizeDialect(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := database.NormalizeDialect("mysql")
	assert.Error(t, err)
}

func TestMigratorIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "crm.sqlite")

	db, err := database.Open(ctx, database.DialectSQLite, path)
	require.NoError(t, err)
	defer db.Close()

	m, err := database.NewMigrator(db, "sqlite", logger.Discard())
	require.NoError(t, err)
	require.NoError(t, m.Run(ctx))
	require.NoError(t, m.Run(ctx))

	var applied int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, 3, applied)

	for _, table := range []string{"projects", "equipment", "history_logs"} {
		var n int
		err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = $1`, table).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, table)
	}
}

func TestSchemaRejectsDuplicateChatAndBadQuantity(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, database.DialectSQLite, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	m, err := database.NewMigrator(db, database.DialectSQLite, nil)
	require.NoError(t, err)
	require.NoError(t, m.Run(ctx))

	insert := `INSERT INTO projects (title, chat_id, status, created_at, updated_at) VALUES ('A', '1_1', 'New', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`
	_, err = db.ExecContext(ctx, insert)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, insert)
	assert.Error(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO equipment (project_id, model, quantity, item_status, created_at, updated_at) VALUES (1, 'X', 0, 'Ordered', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
	assert.Error(t, err)
}

func TestOpenRejectsEmptySQLitePath(t *testing.T) {
	_, err := database.Open(context.Background(), database.DialectSQLite, "")
	assert.Error(t, err)
}
