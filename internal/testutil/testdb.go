package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/lifesync/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB creates an in-memory block store with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openTestDB(t, db.MemoryPath)
}

// NewTestFileDB opens a block store in a fresh temp directory, nested one
// level so OpenDB has to create it. Use it when a test needs more than the
// single pinned connection of an in-memory store, such as WAL mode or
// per-connection pragmas.
func NewTestFileDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lifesync", "lifesync.db")
	return openTestDB(t, path), path
}

func openTestDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(path)
	require.NoError(t, err, "opening test block store")
	t.Cleanup(func() {
		database.Close()
	})
	// Reopened stores run Migrate again; catch a non-idempotent step here.
	require.NoError(t, db.Migrate(database), "re-running migrations")
	return database
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
