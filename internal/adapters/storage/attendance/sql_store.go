package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sportsschool/internal/adapters/storage"
	domain "sportsschool/internal/domain/attendance"
)

const selectColumns = `SELECT s.id, s.group_name, s.session_date, s.coach_id, COALESCE(c.name, ''), s.notes, s.created_at, s.updated_at
	FROM attendance_session s LEFT JOIN coach c ON c.id = s.coach_id`

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new attendance store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

func scan(row storage.RowScanner) (domain.Session, error) {
	var s domain.Session
	var createdAt, updatedAt string
	if err := row.Scan(&s.ID, &s.Group, &s.Date, &s.CoachID, &s.CoachName, &s.Notes, &createdAt, &updatedAt); err != nil {
		return domain.Session{}, err
	}
	s.CreatedAt = storage.ParseTime(createdAt)
	s.UpdatedAt = storage.ParseTime(updatedAt)
	return s, nil
}

// GetByID retrieves a Session and its marks.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (st *SQLStore) GetByID(ctx context.Context, id string) (domain.Session, error) {
	s, err := scan(st.db.QueryRowContext(ctx, selectColumns+" WHERE s.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, fmt.Errorf("attendance session %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return domain.Session{}, err
	}
	sessions := []domain.Session{s}
	if err := st.loadMarks(ctx, sessions); err != nil {
		return domain.Session{}, err
	}
	return sessions[0], nil
}

// loadMarks fills Marks for every session in one query.
func (st *SQLStore) loadMarks(ctx context.Context, sessions []domain.Session) error {
	if len(sessions) == 0 {
		return nil
	}
	index := make(map[string]int, len(sessions))
	args := make([]any, 0, len(sessions))
	for i, s := range sessions {
		index[s.ID] = i
		args = append(args, s.ID)
	}
	query := `SELECT m.session_id, m.student_id, COALESCE(p.name, ''), m.status
		FROM attendance_mark m LEFT JOIN student p ON p.id = m.student_id
		WHERE m.session_id IN (?` + strings.Repeat(", ?", len(sessions)-1) + `)
		ORDER BY p.name ASC, m.student_id ASC`
	rows, err := st.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var sessionID string
		var m domain.Mark
		if err := rows.Scan(&sessionID, &m.StudentID, &m.StudentName, &m.Status); err != nil {
			return err
		}
		i := index[sessionID]
		sessions[i].Marks = append(sessions[i].Marks, m)
	}
	return rows.Err()
}

// Save persists a Session and replaces its marks atomically.
// PRE: entity has been validated
// POST: Session row upserted, marks equal value.Marks
func (st *SQLStore) Save(ctx context.Context, s domain.Session) error {
	tx, err := st.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, st.db.Rebind(`INSERT INTO attendance_session (id, group_name, session_date, coach_id, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET group_name=excluded.group_name, session_date=excluded.session_date,
			coach_id=excluded.coach_id, notes=excluded.notes, updated_at=excluded.updated_at`),
		s.ID, s.Group, s.Date, s.CoachID, s.Notes, storage.FormatTime(s.CreatedAt), storage.FormatTime(s.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, st.db.Rebind("DELETE FROM attendance_mark WHERE session_id = ?"), s.ID); err != nil {
		return err
	}
	insert := st.db.Rebind("INSERT INTO attendance_mark (session_id, student_id, status) VALUES (?, ?, ?)")
	for _, m := range s.Marks {
		if _, err := tx.ExecContext(ctx, insert, s.ID, m.StudentID, m.Status); err != nil {
			return fmt.Errorf("mark %s: %w", m.StudentID, err)
		}
	}
	return tx.Commit()
}

// Delete removes a Session and, by cascade, its marks.
func (st *SQLStore) Delete(ctx context.Context, id string) error {
	tx, err := st.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, st.db.Rebind("DELETE FROM attendance_mark WHERE session_id = ?"), id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, st.db.Rebind("DELETE FROM attendance_session WHERE id = ?"), id); err != nil {
		return err
	}
	return tx.Commit()
}

func listWhereClause(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any

	if filter.Group != "" {
		where += " AND s.group_name = ?"
		args = append(args, filter.Group)
	}
	if filter.From != "" {
		where += " AND s.session_date >= ?"
		args = append(args, filter.From)
	}
	if filter.To != "" {
		where += " AND s.session_date <= ?"
		args = append(args, filter.To)
	}
	if filter.Search != "" {
		where += " AND LOWER(s.group_name) LIKE ?" + storage.LikeEscape
		args = append(args, storage.ContainsPattern(filter.Search))
	}
	return where, args
}

var sortSpec = storage.SortSpec{
	Columns:  map[string]string{"date": "s.session_date", "group": "s.group_name", "coach": "c.name"},
	Default:  "s.session_date DESC, s.group_name ASC, s.id ASC",
	Tiebreak: "s.id ASC",
}

// Count returns the number of sessions matching the filter.
func (st *SQLStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var count int
	err := st.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM attendance_session s"+where, args...).Scan(&count)
	return count, err
}

// List retrieves sessions matching the filter, most recent first, with marks loaded.
func (st *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Session, error) {
	where, args := listWhereClause(filter)
	query := selectColumns + where + sortSpec.Clause(filter.Sort, filter.Dir)
	page, pageArgs := storage.PageClause(filter.Limit, filter.Offset)
	query += page
	args = append(args, pageArgs...)

	rows, err := st.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var results []domain.Session
	for rows.Next() {
		s, err := scan(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		results = append(results, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := st.loadMarks(ctx, results); err != nil {
		return nil, err
	}
	return results, nil
}
