package store

import "testing"

// setupTestDB opens a fresh in-memory database with the schema applied
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewFromDSN(":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}
