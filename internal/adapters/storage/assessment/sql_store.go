package assessment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sportsschool/internal/adapters/storage"
	domain "sportsschool/internal/domain/assessment"
)

const selectColumns = `SELECT a.id, a.student_id, COALESCE(s.name, ''), a.coach_id, COALESCE(c.name, ''), a.skill, a.score,
	a.notes, a.assessed_on, a.created_at, a.updated_at
	FROM assessment a
	LEFT JOIN student s ON s.id = a.student_id
	LEFT JOIN coach c ON c.id = a.coach_id`

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new assessment store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

func scan(row storage.RowScanner) (domain.Assessment, error) {
	var a domain.Assessment
	var createdAt, updatedAt string
	if err := row.Scan(&a.ID, &a.StudentID, &a.StudentName, &a.CoachID, &a.CoachName, &a.Skill, &a.Score,
		&a.Notes, &a.AssessedOn, &createdAt, &updatedAt); err != nil {
		return domain.Assessment{}, err
	}
	a.CreatedAt = storage.ParseTime(createdAt)
	a.UpdatedAt = storage.ParseTime(updatedAt)
	return a, nil
}

// GetByID retrieves an Assessment by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Assessment, error) {
	a, err := scan(s.db.QueryRowContext(ctx, selectColumns+" WHERE a.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Assessment{}, fmt.Errorf("assessment %s: %w", id, storage.ErrNotFound)
	}
	return a, err
}

// Save persists an Assessment to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLStore) Save(ctx context.Context, a domain.Assessment) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO assessment (id, student_id, coach_id, skill, score, notes, assessed_on, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET student_id=excluded.student_id, coach_id=excluded.coach_id, skill=excluded.skill,
			score=excluded.score, notes=excluded.notes, assessed_on=excluded.assessed_on, updated_at=excluded.updated_at`,
		a.ID, a.StudentID, a.CoachID, a.Skill, a.Score, a.Notes, a.AssessedOn,
		storage.FormatTime(a.CreatedAt), storage.FormatTime(a.UpdatedAt),
	)
	return err
}

// Delete removes an Assessment from the database.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM assessment WHERE id = ?", id)
	return err
}

func listWhereClause(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any

	if filter.Skill != "" {
		where += " AND a.skill = ?"
		args = append(args, filter.Skill)
	}
	if filter.StudentID != "" {
		where += " AND a.student_id = ?"
		args = append(args, filter.StudentID)
	}
	if filter.Search != "" {
		where += " AND (LOWER(s.name) LIKE ?" + storage.LikeEscape + " OR LOWER(a.notes) LIKE ?" + storage.LikeEscape + ")"
		term := storage.ContainsPattern(filter.Search)
		args = append(args, term, term)
	}
	return where, args
}

var sortSpec = storage.SortSpec{
	Columns:  map[string]string{"assessed_on": "a.assessed_on", "score": "a.score", "skill": "a.skill", "student": "s.name"},
	Default:  "a.assessed_on DESC, a.id ASC",
	Tiebreak: "a.id ASC",
}

// Count returns the number of assessments matching the filter.
func (s *SQLStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM assessment a LEFT JOIN student s ON s.id = a.student_id"+where, args...).Scan(&count)
	return count, err
}

// List retrieves assessments matching the filter, newest first by default.
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Assessment, error) {
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

	var results []domain.Assessment
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, rows.Err()
}
