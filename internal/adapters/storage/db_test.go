package storage

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"
)

// openTestDB creates an in-memory SQLite database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), DialectSQLite, ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// getTableNames returns sorted table names from sqlite_master, excluding internal tables.
func getTableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan table name: %v", err)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// expectedTables is the sorted list of tables after all migrations.
var expectedTables = []string{
	"account",
	"announcement",
	"assessment",
	"attendance_mark",
	"attendance_session",
	"coach",
	"invoice",
	"preferences",
	"schema_version",
	"school_settings",
	"student",
}

// TestMigrateDB_Fresh verifies all migrations apply cleanly to an empty database.
func TestMigrateDB_Fresh(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	if err := MigrateDB(ctx, db, DialectSQLite); err != nil {
		t.Fatalf("MigrateDB failed on fresh db: %v", err)
	}

	version, err := SchemaVersion(ctx, db)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != LatestSchemaVersion() {
		t.Errorf("version = %d, want %d", version, LatestSchemaVersion())
	}

	tables := getTableNames(t, db)
	if len(tables) != len(expectedTables) {
		t.Fatalf("got %d tables, want %d\ngot:  %v\nwant: %v", len(tables), len(expectedTables), tables, expectedTables)
	}
	for i, want := range expectedTables {
		if tables[i] != want {
			t.Errorf("table[%d] = %q, want %q", i, tables[i], want)
		}
	}
}

// TestMigrateDB_Idempotent verifies that running MigrateDB twice produces no errors
// and the version remains the same.
func TestMigrateDB_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	if err := MigrateDB(ctx, db, DialectSQLite); err != nil {
		t.Fatalf("first MigrateDB failed: %v", err)
	}
	version1, _ := SchemaVersion(ctx, db)

	if err := MigrateDB(ctx, db, DialectSQLite); err != nil {
		t.Fatalf("second MigrateDB failed: %v", err)
	}
	version2, _ := SchemaVersion(ctx, db)
	if version1 != version2 {
		t.Errorf("version changed after idempotent run: %d → %d", version1, version2)
	}
}

// TestMigrateDB_VersionProgression verifies that SchemaVersion reports 0 before
// migration and the correct version after.
func TestMigrateDB_VersionProgression(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	v, err := SchemaVersion(ctx, db)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if v != 0 {
		t.Errorf("initial version = %d, want 0", v)
	}

	if err := MigrateDB(ctx, db, DialectSQLite); err != nil {
		t.Fatalf("MigrateDB failed: %v", err)
	}
	v, _ = SchemaVersion(ctx, db)
	if v != LatestSchemaVersion() {
		t.Errorf("post-migration version = %d, want %d", v, LatestSchemaVersion())
	}
}

// TestParseDialect verifies driver names from configuration.
func TestParseDialect(t *testing.T) {
	for in, want := range map[string]Dialect{"": DialectSQLite, "sqlite": DialectSQLite, "Postgres": DialectPostgres, "pgx": DialectPostgres} {
		got, err := ParseDialect(in)
		if err != nil || got != want {
			t.Errorf("ParseDialect(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseDialect("oracle"); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

// TestColumnHelpers verifies the TEXT encodings shared by stores.
func TestColumnHelpers(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := ParseTime(FormatTime(now)); !got.Equal(now) {
		t.Errorf("time round trip = %v", got)
	}
	if FormatTime(time.Time{}) != "" || !ParseTime("").IsZero() {
		t.Error("zero time should map to empty string")
	}
	if got := DecodeList(EncodeList([]string{"a", "b"})); len(got) != 2 || got[1] != "b" {
		t.Errorf("list round trip = %v", got)
	}
	if EncodeList(nil) != "[]" || DecodeList("garbage") != nil {
		t.Error("empty and malformed lists")
	}
	if got := ContainsPattern(" 50%_Off "); got != `%50\%\_off%` {
		t.Errorf("ContainsPattern = %q", got)
	}
}
