package announcement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sportsschool/internal/adapters/storage"
	domain "sportsschool/internal/domain/announcement"
)

const selectColumns = "SELECT id, title, content, audience, pinned, status, created_by, created_at, updated_at, published_at FROM announcement"

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new announcement store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

func scan(row storage.RowScanner) (domain.Announcement, error) {
	var a domain.Announcement
	var audience, createdAt, updatedAt, publishedAt string
	var pinned int
	if err := row.Scan(&a.ID, &a.Title, &a.Content, &audience, &pinned, &a.Status, &a.CreatedBy,
		&createdAt, &updatedAt, &publishedAt); err != nil {
		return domain.Announcement{}, err
	}
	a.Audience = storage.DecodeList(audience)
	a.Pinned = pinned != 0
	a.CreatedAt = storage.ParseTime(createdAt)
	a.UpdatedAt = storage.ParseTime(updatedAt)
	a.PublishedAt = storage.ParseTime(publishedAt)
	return a, nil
}

// GetByID retrieves an Announcement by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Announcement, error) {
	a, err := scan(s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Announcement{}, fmt.Errorf("announcement %s: %w", id, storage.ErrNotFound)
	}
	return a, err
}

// Save persists an Announcement to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLStore) Save(ctx context.Context, a domain.Announcement) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO announcement (id, title, content, audience, pinned, status, created_by, created_at, updated_at, published_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title=excluded.title, content=excluded.content, audience=excluded.audience,
			pinned=excluded.pinned, status=excluded.status, updated_at=excluded.updated_at, published_at=excluded.published_at`,
		a.ID, a.Title, a.Content, storage.EncodeList(a.Audience), storage.Bool(a.Pinned), a.Status, a.CreatedBy,
		storage.FormatTime(a.CreatedAt), storage.FormatTime(a.UpdatedAt), storage.FormatTime(a.PublishedAt),
	)
	return err
}

// Delete removes an Announcement from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM announcement WHERE id = ?", id)
	return err
}

// listWhereClause builds the WHERE clause and args for List/Count queries.
func listWhereClause(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any

	if filter.Status != "" {
		where += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.Audience != "" {
		where += " AND audience LIKE ?"
		args = append(args, storage.ListMatchPattern(filter.Audience))
	}
	if filter.Search != "" {
		where += " AND (LOWER(title) LIKE ?" + storage.LikeEscape + " OR LOWER(content) LIKE ?" + storage.LikeEscape + ")"
		term := storage.ContainsPattern(filter.Search)
		args = append(args, term, term)
	}
	return where, args
}

var sortSpec = storage.SortSpec{
	Columns: map[string]string{
		"title": "title", "status": "status", "created_at": "created_at", "updated_at": "updated_at",
	},
	Default:  "pinned DESC, updated_at DESC, id ASC",
	Tiebreak: "id ASC",
}

// Count returns the total number of announcements matching the filter.
// PRE: filter has valid parameters
// POST: Returns count >= 0
func (s *SQLStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM announcement"+where, args...).Scan(&count)
	return count, err
}

// List retrieves announcements matching the filter. Pinned announcements sort
// first unless an explicit sort column is requested.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Announcement, error) {
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

	var results []domain.Announcement
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, rows.Err()
}
