// Package storagetest opens migrated in-memory databases for store tests.
package storagetest

import (
	"context"
	"testing"

	"sportsschool/internal/adapters/storage"
)

// Open returns a migrated in-memory SQLite database wrapped in a TimedDB.
// The database is closed when the test finishes.
func Open(t testing.TB) *storage.TimedDB {
	t.Helper()
	ctx := context.Background()
	db, err := storage.Open(ctx, storage.DialectSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(ctx, db, storage.DialectSQLite); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return storage.NewTimedDB(db, storage.DialectSQLite, nil)
}

// InsertStudent adds a minimal active student row so foreign keys resolve.
func InsertStudent(t testing.TB, db storage.SQLDB, id, name string) {
	t.Helper()
	_, err := db.ExecContext(context.Background(),
		"INSERT INTO student (id, name, status, created_at, updated_at) VALUES (?, ?, 'active', '', '')", id, name)
	if err != nil {
		t.Fatalf("insert student: %v", err)
	}
}
