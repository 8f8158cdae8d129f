package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sportsschool/internal/adapters/storage"
	"sportsschool/internal/domain/access"
	domain "sportsschool/internal/domain/account"
)

const selectColumns = "SELECT id, email, name, password_hash, role, created_at, failed_logins, locked_until FROM account"

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new account store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

func scan(row storage.RowScanner) (domain.Account, error) {
	var a domain.Account
	var role, createdAt, lockedUntil string
	if err := row.Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &role, &createdAt, &a.FailedLogins, &lockedUntil); err != nil {
		return domain.Account{}, err
	}
	a.Role = access.Role(role)
	a.CreatedAt = storage.ParseTime(createdAt)
	a.LockedUntil = storage.ParseTime(lockedUntil)
	return a, nil
}

func notFound(err error, key string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("account %s: %w", key, storage.ErrNotFound)
	}
	return err
}

// GetByID retrieves an Account by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	a, err := scan(s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id))
	return a, notFound(err, id)
}

// GetByEmail retrieves an Account by email, case-insensitively.
// PRE: email is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	a, err := scan(s.db.QueryRowContext(ctx, selectColumns+" WHERE LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))))
	return a, notFound(err, email)
}

// Save persists an Account to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLStore) Save(ctx context.Context, a domain.Account) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO account (id, email, name, password_hash, role, created_at, failed_logins, locked_until)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET email=excluded.email, name=excluded.name, password_hash=excluded.password_hash,
			role=excluded.role, failed_logins=excluded.failed_logins, locked_until=excluded.locked_until`,
		a.ID, a.Email, a.Name, a.PasswordHash, string(a.Role), storage.FormatTime(a.CreatedAt),
		a.FailedLogins, storage.FormatTime(a.LockedUntil),
	)
	return err
}

// Delete removes an Account from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM account WHERE id = ?", id)
	return err
}

// List retrieves accounts ordered by email.
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Account, error) {
	query := selectColumns + " WHERE 1=1"
	var args []any
	if filter.Role != "" {
		query += " AND role = ?"
		args = append(args, filter.Role)
	}
	query += " ORDER BY email ASC"
	page, pageArgs := storage.PageClause(filter.Limit, filter.Offset)
	query += page
	args = append(args, pageArgs...)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Account
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

// Count returns the number of accounts.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account").Scan(&n)
	return n, err
}
