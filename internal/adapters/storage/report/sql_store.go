package report

import (
	"context"

	"sportsschool/internal/adapters/storage"
	domain "sportsschool/internal/domain/report"
)

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new report store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// Attendance returns one row per training group with sessions held in the range.
// Late marks count as present; excused marks are left out of the rate.
// PRE: r has been validated
func (s *SQLStore) Attendance(ctx context.Context, r domain.Range) ([]domain.Row, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT s.group_name,
			COUNT(DISTINCT s.id),
			CAST(SUM(CASE WHEN m.status IN ('present', 'late') THEN 1 ELSE 0 END) AS BIGINT),
			CAST(SUM(CASE WHEN m.status IS NOT NULL AND m.status <> 'excused' THEN 1 ELSE 0 END) AS BIGINT)
		FROM attendance_session s
		LEFT JOIN attendance_mark m ON m.session_id = s.id
		WHERE s.session_date >= ? AND s.session_date <= ?
		GROUP BY s.group_name
		ORDER BY s.group_name`, r.From, r.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Row
	for rows.Next() {
		var row domain.Row
		var expected int
		if err := rows.Scan(&row.Label, &row.Sessions, &row.Present, &expected); err != nil {
			return nil, err
		}
		if expected > 0 {
			row.AttendanceRate = float64(row.Present) * 100 / float64(expected)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Finance returns one row per due month (YYYY-MM) in the range. Drafts and
// void invoices are not counted as invoiced.
// PRE: r has been validated
func (s *SQLStore) Finance(ctx context.Context, r domain.Range) ([]domain.Row, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT SUBSTR(due_date, 1, 7) AS month,
			CAST(SUM(CASE WHEN status IN ('issued', 'paid') THEN amount_cents ELSE 0 END) AS BIGINT),
			CAST(SUM(CASE WHEN status = 'paid' THEN amount_cents ELSE 0 END) AS BIGINT),
			CAST(SUM(CASE WHEN status = 'issued' THEN amount_cents ELSE 0 END) AS BIGINT)
		FROM invoice
		WHERE due_date >= ? AND due_date <= ?
		GROUP BY SUBSTR(due_date, 1, 7)
		ORDER BY month`, r.From, r.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Row
	for rows.Next() {
		var row domain.Row
		if err := rows.Scan(&row.Label, &row.Invoiced, &row.Paid, &row.Outstanding); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
