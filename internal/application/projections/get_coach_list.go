package projections

import (
	"context"

	"sportsschool/internal/adapters/storage/coach"
	"sportsschool/internal/application/listview"
	domainCoach "sportsschool/internal/domain/coach"
)

// GetCoachListQuery carries query parameters.
type GetCoachListQuery struct {
	List      listview.State
	Specialty string
}

// GetCoachListDeps holds dependencies for GetCoachList.
type GetCoachListDeps struct {
	CoachStore CoachStore
}

// QueryGetCoachList returns one page of coaches.
// PRE: query.List came from listview.ParseState
// POST: Returns at most PageSize coaches ordered by name unless sorted
func QueryGetCoachList(ctx context.Context, query GetCoachListQuery, deps GetCoachListDeps) (Page[domainCoach.Coach], error) {
	filter := coach.ListFilter{
		Search:    query.List.Query,
		Status:    query.List.Status,
		Specialty: query.Specialty,
		Sort:      query.List.Sort,
		Dir:       query.List.Dir,
	}
	return paginate(ctx, query.List,
		func(ctx context.Context) (int, error) { return deps.CoachStore.Count(ctx, filter) },
		func(ctx context.Context, limit, offset int) ([]domainCoach.Coach, error) {
			f := filter
			f.Limit, f.Offset = limit, offset
			return deps.CoachStore.List(ctx, f)
		})
}
