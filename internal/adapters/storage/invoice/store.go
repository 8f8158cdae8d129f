package invoice

import (
	"context"

	domain "sportsschool/internal/domain/invoice"
)

// Store persists Invoice state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Invoice, error)
	Save(ctx context.Context, value domain.Invoice) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Invoice, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit     int
	Offset    int
	Search    string
	Status    string
	StudentID string
	Sort      string
	Dir       string
}
