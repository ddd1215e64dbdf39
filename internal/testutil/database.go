package testutil

import (
	"testing"

	"fwm-go/internal/database"
)

// NewTestDatabase creates a migrated in-memory store that is closed when the
// test completes.
func NewTestDatabase(t *testing.T) *database.SQLiteDatabase {
	t.Helper()

	db, err := database.NewSQLiteDatabase(database.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}
