package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver
)

// Dialect names the SQL flavour behind a connection. Its value is also the
// database/sql driver name.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "pgx"
)

// ErrNotFound is wrapped by every store when a row does not exist.
var ErrNotFound = errors.New("not found")

// ParseDialect maps a driver name from configuration onto a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "pgx", "postgres", "postgresql":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Open connects to the database and verifies the connection.
// PRE: dsn is a valid DSN for dialect
// POST: Returns a live *sql.DB; SQLite connections have WAL and foreign keys enabled
func Open(ctx context.Context, dialect Dialect, dsn string) (*sql.DB, error) {
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// A single writer keeps SQLite from returning SQLITE_BUSY under load.
		db.SetMaxOpenConns(1)
		for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON", "PRAGMA busy_timeout=5000"} {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				db.Close()
				return nil, fmt.Errorf("%s: %w", pragma, err)
			}
		}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	return db, nil
}

// Rebind rewrites '?' placeholders into the dialect's bind syntax.
// Question marks inside single-quoted literals are left untouched.
func Rebind(dialect Dialect, query string) string {
	if dialect != DialectPostgres || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// migration is one forward-only schema step.
type migration struct {
	version    int
	name       string
	statements []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "baseline",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS account (
				id TEXT PRIMARY KEY,
				email TEXT NOT NULL UNIQUE,
				name TEXT NOT NULL DEFAULT '',
				password_hash TEXT NOT NULL DEFAULT '',
				role TEXT NOT NULL,
				created_at TEXT NOT NULL,
				failed_logins INTEGER NOT NULL DEFAULT 0,
				locked_until TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE TABLE IF NOT EXISTS announcement (
				id TEXT PRIMARY KEY,
				title TEXT NOT NULL,
				content TEXT NOT NULL,
				audience TEXT NOT NULL DEFAULT '[]',
				pinned INTEGER NOT NULL DEFAULT 0,
				status TEXT NOT NULL,
				created_by TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				published_at TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE TABLE IF NOT EXISTS coach (
				id TEXT PRIMARY KEY,
				account_id TEXT NOT NULL DEFAULT '',
				name TEXT NOT NULL,
				email TEXT NOT NULL,
				phone TEXT NOT NULL DEFAULT '',
				specialties TEXT NOT NULL DEFAULT '[]',
				bio TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS student (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT NOT NULL DEFAULT '',
				phone TEXT NOT NULL DEFAULT '',
				guardian_name TEXT NOT NULL DEFAULT '',
				guardian_phone TEXT NOT NULL DEFAULT '',
				group_names TEXT NOT NULL DEFAULT '[]',
				birth_date TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS invoice (
				id TEXT PRIMARY KEY,
				number TEXT NOT NULL UNIQUE,
				student_id TEXT NOT NULL REFERENCES student(id),
				description TEXT NOT NULL,
				amount_cents BIGINT NOT NULL,
				due_date TEXT NOT NULL,
				status TEXT NOT NULL,
				issued_at TEXT NOT NULL DEFAULT '',
				paid_at TEXT NOT NULL DEFAULT '',
				reminded_at TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS attendance_session (
				id TEXT PRIMARY KEY,
				group_name TEXT NOT NULL,
				session_date TEXT NOT NULL,
				coach_id TEXT NOT NULL DEFAULT '',
				notes TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS attendance_mark (
				session_id TEXT NOT NULL REFERENCES attendance_session(id) ON DELETE CASCADE,
				student_id TEXT NOT NULL REFERENCES student(id),
				status TEXT NOT NULL,
				PRIMARY KEY (session_id, student_id)
			)`,
			`CREATE TABLE IF NOT EXISTS assessment (
				id TEXT PRIMARY KEY,
				student_id TEXT NOT NULL REFERENCES student(id),
				coach_id TEXT NOT NULL DEFAULT '',
				skill TEXT NOT NULL,
				score INTEGER NOT NULL,
				notes TEXT NOT NULL DEFAULT '',
				assessed_on TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS school_settings (
				id INTEGER PRIMARY KEY,
				school_name TEXT NOT NULL,
				contact_email TEXT NOT NULL,
				contact_phone TEXT NOT NULL DEFAULT '',
				currency TEXT NOT NULL,
				timezone TEXT NOT NULL,
				default_page_size INTEGER NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS preferences (
				account_id TEXT PRIMARY KEY,
				language TEXT NOT NULL,
				email_notifications INTEGER NOT NULL DEFAULT 1,
				digest_frequency TEXT NOT NULL,
				dashboard_widgets TEXT NOT NULL DEFAULT '[]',
				updated_at TEXT NOT NULL
			)`,
		},
	},
	{
		version: 2,
		name:    "list indexes",
		statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_announcement_status ON announcement(status)`,
			`CREATE INDEX IF NOT EXISTS idx_student_status ON student(status)`,
			`CREATE INDEX IF NOT EXISTS idx_invoice_student ON invoice(student_id)`,
			`CREATE INDEX IF NOT EXISTS idx_invoice_status ON invoice(status)`,
			`CREATE INDEX IF NOT EXISTS idx_attendance_session_date ON attendance_session(session_date)`,
			`CREATE INDEX IF NOT EXISTS idx_assessment_student ON assessment(student_id)`,
		},
	},
}

// LatestSchemaVersion returns the version MigrateDB brings a database to.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the highest applied migration, or 0 for an empty database.
// PRE: db is a valid database connection
// POST: Returns version >= 0
func SchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return 0, fmt.Errorf("create schema_version: %w", err)
	}
	var v sql.NullInt64
	if err := db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema_version: %w", err)
	}
	return int(v.Int64), nil
}

// MigrateDB applies every pending migration, each in its own transaction.
// PRE: db is a valid database connection
// POST: SchemaVersion(db) == LatestSchemaVersion()
func MigrateDB(ctx context.Context, db *sql.DB, dialect Dialect) error {
	current, err := SchemaVersion(ctx, db)
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyMigration(ctx, db, dialect, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		slog.Info("migration_event", "event", "migration_applied", "version", m.version, "name", m.name)
	}
	return nil
}

func applyMigration(ctx context.Context, db *sql.DB, dialect Dialect, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range m.statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	_, err = tx.ExecContext(ctx,
		Rebind(dialect, "INSERT INTO schema_version (version, name, applied_at) VALUES (?, ?, ?)"),
		m.version, m.name, FormatTime(time.Now()),
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}
