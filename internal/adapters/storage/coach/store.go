package coach

import (
	"context"

	domain "sportsschool/internal/domain/coach"
)

// Store persists Coach state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Coach, error)
	Save(ctx context.Context, value domain.Coach) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Coach, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit     int
	Offset    int
	Search    string
	Status    string
	Specialty string
	Sort      string
	Dir       string
}
