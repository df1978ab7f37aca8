package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/recallflash/internal/clock"
	"github.com/vytor/recallflash/internal/db"
)

// Today is the fixed day used by tests that need a calendar.
var Today = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// A single connection is kept so every query sees the same in-memory database.
func NewTestDB(t *testing.T) *sql.DB {
	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), sqlDB), "failed to apply migrations")
	return sqlDB
}

// FixedClock returns a clock pinned to noon on Today.
func FixedClock() clock.Fixed {
	return clock.Fixed{At: Today.Add(12 * time.Hour)}
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// InsertMaterial stores a material row and returns its id.
func InsertMaterial(t *testing.T, sqlDB *sql.DB, title string) int64 {
	res, err := sqlDB.Exec(`INSERT INTO materials (title, subject, content) VALUES (?, ?, ?)`, title, "biology", "Cells are the basic unit of life.")
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}
