package test_utils

import (
	"database/sql"
	"testing"

	"github.com/familytrip/tripplanner/internal/database"
)

// NewSQLiteDB returns a migrated in-memory SQLite database closed when the test ends.
// Each call yields an isolated database.
func NewSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}
