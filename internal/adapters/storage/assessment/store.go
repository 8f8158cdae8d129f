package assessment

import (
	"context"

	domain "sportsschool/internal/domain/assessment"
)

// Store persists Assessment state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Assessment, error)
	Save(ctx context.Context, value domain.Assessment) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Assessment, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit     int
	Offset    int
	Search    string
	Skill     string
	StudentID string
	Sort      string
	Dir       string
}
