package student

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sportsschool/internal/adapters/storage"
	domain "sportsschool/internal/domain/student"
)

const selectColumns = "SELECT id, name, email, phone, guardian_name, guardian_phone, group_names, birth_date, status, created_at, updated_at FROM student"

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new student store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

func scan(row storage.RowScanner) (domain.Student, error) {
	var st domain.Student
	var groups, createdAt, updatedAt string
	if err := row.Scan(&st.ID, &st.Name, &st.Email, &st.Phone, &st.GuardianName, &st.GuardianPhone,
		&groups, &st.BirthDate, &st.Status, &createdAt, &updatedAt); err != nil {
		return domain.Student{}, err
	}
	st.Groups = storage.DecodeList(groups)
	st.CreatedAt = storage.ParseTime(createdAt)
	st.UpdatedAt = storage.ParseTime(updatedAt)
	return st, nil
}

// GetByID retrieves a Student by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Student, error) {
	st, err := scan(s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Student{}, fmt.Errorf("student %s: %w", id, storage.ErrNotFound)
	}
	return st, err
}

// Save persists a Student to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLStore) Save(ctx context.Context, st domain.Student) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO student (id, name, email, phone, guardian_name, guardian_phone, group_names, birth_date, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, email=excluded.email, phone=excluded.phone,
			guardian_name=excluded.guardian_name, guardian_phone=excluded.guardian_phone, group_names=excluded.group_names,
			birth_date=excluded.birth_date, status=excluded.status, updated_at=excluded.updated_at`,
		st.ID, st.Name, st.Email, st.Phone, st.GuardianName, st.GuardianPhone, storage.EncodeList(st.Groups),
		st.BirthDate, st.Status, storage.FormatTime(st.CreatedAt), storage.FormatTime(st.UpdatedAt),
	)
	return err
}

// Delete removes a Student from the database.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM student WHERE id = ?", id)
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
	if filter.Group != "" {
		where += " AND group_names LIKE ?"
		args = append(args, storage.ListMatchPattern(filter.Group))
	}
	if filter.Search != "" {
		where += " AND (LOWER(name) LIKE ?" + storage.LikeEscape + " OR LOWER(email) LIKE ?" + storage.LikeEscape +
			" OR LOWER(guardian_name) LIKE ?" + storage.LikeEscape + ")"
		term := storage.ContainsPattern(filter.Search)
		args = append(args, term, term, term)
	}
	return where, args
}

var sortSpec = storage.SortSpec{
	Columns: map[string]string{
		"name": "name", "email": "email", "status": "status", "birth_date": "birth_date",
	},
	Default:  "name ASC, id ASC",
	Tiebreak: "id ASC",
}

// Count returns the total number of students matching the filter.
// PRE: filter has valid parameters
// POST: Returns count >= 0
func (s *SQLStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM student"+where, args...).Scan(&count)
	return count, err
}

// List retrieves students matching the filter.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Student, error) {
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

	var results []domain.Student
	for rows.Next() {
		st, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, st)
	}
	return results, rows.Err()
}
