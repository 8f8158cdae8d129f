package projections

import (
	"context"

	"sportsschool/internal/application/listview"
)

// Page is one page of a list, as sent on the wire.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// TotalPages returns max(1, ceil(Total / PageSize)).
func (p Page[T]) TotalPages() int {
	return listview.TotalPages(p.Total, p.PageSize)
}

// paginate counts first so the requested page can be clamped before listing.
// PRE: count and list apply the same filter
// POST: Items is never nil; Page is within [1, TotalPages]
func paginate[T any](ctx context.Context, state listview.State,
	count func(context.Context) (int, error),
	list func(ctx context.Context, limit, offset int) ([]T, error),
) (Page[T], error) {
	total, err := count(ctx)
	if err != nil {
		return Page[T]{}, err
	}
	info := listview.NewPageInfo(state.Page, state.PageSize, total)
	items, err := list(ctx, info.PageSize, info.Offset())
	if err != nil {
		return Page[T]{}, err
	}
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Page: info.Page, PageSize: info.PageSize}, nil
}
