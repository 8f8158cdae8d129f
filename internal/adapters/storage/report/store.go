// Package report computes read-only summaries straight from the operational tables.
package report

import (
	"context"

	domain "sportsschool/internal/domain/report"
)

// Store aggregates report rows.
type Store interface {
	Attendance(ctx context.Context, r domain.Range) ([]domain.Row, error)
	Finance(ctx context.Context, r domain.Range) ([]domain.Row, error)
}
