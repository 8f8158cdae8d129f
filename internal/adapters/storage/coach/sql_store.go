package coach

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sportsschool/internal/adapters/storage"
	domain "sportsschool/internal/domain/coach"
)

const selectColumns = "SELECT id, account_id, name, email, phone, specialties, bio, status, created_at, updated_at FROM coach"

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new coach store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

func scan(row storage.RowScanner) (domain.Coach, error) {
	var c domain.Coach
	var specialties, createdAt, updatedAt string
	if err := row.Scan(&c.ID, &c.AccountID, &c.Name, &c.Email, &c.Phone, &specialties, &c.Bio, &c.Status,
		&createdAt, &updatedAt); err != nil {
		return domain.Coach{}, err
	}
	c.Specialties = storage.DecodeList(specialties)
	c.CreatedAt = storage.ParseTime(createdAt)
	c.UpdatedAt = storage.ParseTime(updatedAt)
	return c, nil
}

// GetByID retrieves a Coach by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Coach, error) {
	c, err := scan(s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coach{}, fmt.Errorf("coach %s: %w", id, storage.ErrNotFound)
	}
	return c, err
}

// Save persists a Coach to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLStore) Save(ctx context.Context, c domain.Coach) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO coach (id, account_id, name, email, phone, specialties, bio, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET account_id=excluded.account_id, name=excluded.name, email=excluded.email,
			phone=excluded.phone, specialties=excluded.specialties, bio=excluded.bio, status=excluded.status,
			updated_at=excluded.updated_at`,
		c.ID, c.AccountID, c.Name, c.Email, c.Phone, storage.EncodeList(c.Specialties), c.Bio, c.Status,
		storage.FormatTime(c.CreatedAt), storage.FormatTime(c.UpdatedAt),
	)
	return err
}

// Delete removes a Coach from the database.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM coach WHERE id = ?", id)
	return err
}

func listWhereClause(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any

	if filter.Status != "" {
		where += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.Specialty != "" {
		where += " AND specialties LIKE ?"
		args = append(args, storage.ListMatchPattern(filter.Specialty))
	}
	if filter.Search != "" {
		where += " AND (LOWER(name) LIKE ?" + storage.LikeEscape + " OR LOWER(email) LIKE ?" + storage.LikeEscape + ")"
		term := storage.ContainsPattern(filter.Search)
		args = append(args, term, term)
	}
	return where, args
}

var sortSpec = storage.SortSpec{
	Columns:  map[string]string{"name": "name", "email": "email", "status": "status"},
	Default:  "name ASC, id ASC",
	Tiebreak: "id ASC",
}

// Count returns the total number of coaches matching the filter.
func (s *SQLStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM coach"+where, args...).Scan(&count)
	return count, err
}

// List retrieves coaches matching the filter, by name unless sorted otherwise.
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Coach, error) {
	where, args := listWhereClause(filter)
	query := selectColumns + where + sortSpec.Clause(filter.Sort, filter.Dir)
	page, pageArgs := storage.PageClause(filter.Limit, filter.Offset)
	query += page
	args = append(args, pageArgs...)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Coach
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}
