// Package testutil builds throwaway stores for tests.
package testutil

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"telegram-crm-backend/internal/database"
	"telegram-crm-backend/internal/logger"
	"telegram-crm-backend/internal/store"
)

// NewStore returns a migrated in-memory SQLite store closed at test cleanup.
func NewStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(NewDB(t))
}

// NewDB returns the migrated in-memory database behind NewStore.
func NewDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, database.DialectSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m, err := database.NewMigrator(db, database.DialectSQLite, logger.Discard())
	require.NoError(t, err)
	require.NoError(t, m.Run(ctx))

	return db
}

// Clock hands out strictly increasing timestamps one second apart.
type Clock struct {
	mu sync.Mutex
	t  time.Time
}

func NewClock() *Clock {
	return &Clock{t: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}
