package projections

import (
	"context"

	"sportsschool/internal/adapters/storage/student"
	"sportsschool/internal/application/listview"
	domainStudent "sportsschool/internal/domain/student"
)

// GetStudentListQuery carries query parameters.
type GetStudentListQuery struct {
	List  listview.State
	Group string
}

// GetStudentListDeps holds dependencies for GetStudentList.
type GetStudentListDeps struct {
	StudentStore StudentStore
}

// QueryGetStudentList returns one page of students.
// PRE: query.List came from listview.ParseState
// POST: Returns at most PageSize students ordered by name unless sorted
func QueryGetStudentList(ctx context.Context, query GetStudentListQuery, deps GetStudentListDeps) (Page[domainStudent.Student], error) {
	filter := student.ListFilter{
		Search: query.List.Query,
		Status: query.List.Status,
		Group:  query.Group,
		Sort:   query.List.Sort,
		Dir:    query.List.Dir,
	}
	return paginate(ctx, query.List,
		func(ctx context.Context) (int, error) { return deps.StudentStore.Count(ctx, filter) },
		func(ctx context.Context, limit, offset int) ([]domainStudent.Student, error) {
			f := filter
			f.Limit, f.Offset = limit, offset
			return deps.StudentStore.List(ctx, f)
		})
}
