package invoice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sportsschool/internal/adapters/storage"
	domain "sportsschool/internal/domain/invoice"
)

const selectColumns = `SELECT i.id, i.number, i.student_id, COALESCE(s.name, ''), i.description, i.amount_cents, i.due_date,
	i.status, i.issued_at, i.paid_at, i.reminded_at, i.created_at, i.updated_at
	FROM invoice i LEFT JOIN student s ON s.id = i.student_id`

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new invoice store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

func scan(row storage.RowScanner) (domain.Invoice, error) {
	var inv domain.Invoice
	var issuedAt, paidAt, remindedAt, createdAt, updatedAt string
	if err := row.Scan(&inv.ID, &inv.Number, &inv.StudentID, &inv.StudentName, &inv.Description, &inv.AmountCents,
		&inv.DueDate, &inv.Status, &issuedAt, &paidAt, &remindedAt, &createdAt, &updatedAt); err != nil {
		return domain.Invoice{}, err
	}
	inv.IssuedAt = storage.ParseTime(issuedAt)
	inv.PaidAt = storage.ParseTime(paidAt)
	inv.RemindedAt = storage.ParseTime(remindedAt)
	inv.CreatedAt = storage.ParseTime(createdAt)
	inv.UpdatedAt = storage.ParseTime(updatedAt)
	return inv, nil
}

// GetByID retrieves an Invoice by its ID, with the student's name.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Invoice, error) {
	inv, err := scan(s.db.QueryRowContext(ctx, selectColumns+" WHERE i.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Invoice{}, fmt.Errorf("invoice %s: %w", id, storage.ErrNotFound)
	}
	return inv, err
}

// Save persists an Invoice to the database.
// PRE: entity has been validated, Number is set
// POST: Entity is persisted (insert or update)
func (s *SQLStore) Save(ctx context.Context, inv domain.Invoice) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO invoice (id, number, student_id, description, amount_cents, due_date, status,
			issued_at, paid_at, reminded_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET student_id=excluded.student_id, description=excluded.description,
			amount_cents=excluded.amount_cents, due_date=excluded.due_date, status=excluded.status,
			issued_at=excluded.issued_at, paid_at=excluded.paid_at, reminded_at=excluded.reminded_at,
			updated_at=excluded.updated_at`,
		inv.ID, inv.Number, inv.StudentID, inv.Description, inv.AmountCents, inv.DueDate, inv.Status,
		storage.FormatTime(inv.IssuedAt), storage.FormatTime(inv.PaidAt), storage.FormatTime(inv.RemindedAt),
		storage.FormatTime(inv.CreatedAt), storage.FormatTime(inv.UpdatedAt),
	)
	return err
}

// Delete removes an Invoice from the database.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM invoice WHERE id = ?", id)
	return err
}

func listWhereClause(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any

	if filter.Status != "" {
		where += " AND i.status = ?"
		args = append(args, filter.Status)
	}
	if filter.StudentID != "" {
		where += " AND i.student_id = ?"
		args = append(args, filter.StudentID)
	}
	if filter.Search != "" {
		where += " AND (LOWER(i.number) LIKE ?" + storage.LikeEscape + " OR LOWER(i.description) LIKE ?" + storage.LikeEscape +
			" OR LOWER(s.name) LIKE ?" + storage.LikeEscape + ")"
		term := storage.ContainsPattern(filter.Search)
		args = append(args, term, term, term)
	}
	return where, args
}

var sortSpec = storage.SortSpec{
	Columns: map[string]string{
		"number": "i.number", "due_date": "i.due_date", "amount": "i.amount_cents", "status": "i.status", "student": "s.name",
	},
	Default:  "i.due_date DESC, i.id ASC",
	Tiebreak: "i.id ASC",
}

// Count returns the total number of invoices matching the filter.
func (s *SQLStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM invoice i LEFT JOIN student s ON s.id = i.student_id"+where, args...).Scan(&count)
	return count, err
}

// List retrieves invoices matching the filter, latest due date first by default.
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Invoice, error) {
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

	var results []domain.Invoice
	for rows.Next() {
		inv, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, inv)
	}
	return results, rows.Err()
}
