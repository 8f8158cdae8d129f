package attendance

import (
	"context"

	domain "sportsschool/internal/domain/attendance"
)

// Store persists attendance sessions and their marks.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Session, error)
	Save(ctx context.Context, value domain.Session) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Session, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit  int
	Offset int
	Search string // matches the group name
	Group  string
	From   string
	To     string
	Sort   string
	Dir    string
}
