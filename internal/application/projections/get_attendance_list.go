package projections

import (
	"context"

	"sportsschool/internal/adapters/storage/attendance"
	"sportsschool/internal/adapters/storage/student"
	"sportsschool/internal/application/listview"
	domainAttendance "sportsschool/internal/domain/attendance"
	domainStudent "sportsschool/internal/domain/student"
)

// GetAttendanceListQuery carries query parameters. Group and date bounds
// travel in List.Filters under "group", "from" and "to".
type GetAttendanceListQuery struct {
	List listview.State
}

// GetAttendanceListDeps holds dependencies for GetAttendanceList.
type GetAttendanceListDeps struct {
	AttendanceStore AttendanceStore
}

// QueryGetAttendanceList returns one page of sessions with their marks.
// PRE: query.List came from listview.ParseState
// POST: Returns at most PageSize sessions, most recent first unless sorted
func QueryGetAttendanceList(ctx context.Context, query GetAttendanceListQuery, deps GetAttendanceListDeps) (Page[domainAttendance.Session], error) {
	filter := attendance.ListFilter{
		Search: query.List.Query,
		Group:  query.List.Filters["group"],
		From:   query.List.Filters["from"],
		To:     query.List.Filters["to"],
		Sort:   query.List.Sort,
		Dir:    query.List.Dir,
	}
	return paginate(ctx, query.List,
		func(ctx context.Context) (int, error) { return deps.AttendanceStore.Count(ctx, filter) },
		func(ctx context.Context, limit, offset int) ([]domainAttendance.Session, error) {
			f := filter
			f.Limit, f.Offset = limit, offset
			return deps.AttendanceStore.List(ctx, f)
		})
}

// GetAttendanceRosterQuery carries query parameters.
type GetAttendanceRosterQuery struct {
	Group string
}

// GetAttendanceRosterDeps holds dependencies for GetAttendanceRoster.
type GetAttendanceRosterDeps struct {
	StudentStore StudentStore
}

// QueryGetAttendanceRoster returns a blank sheet for a new session: one mark
// per active student in the group, defaulting to present.
// PRE: query.Group is non-empty
// POST: Marks are ordered by student name
func QueryGetAttendanceRoster(ctx context.Context, query GetAttendanceRosterQuery, deps GetAttendanceRosterDeps) ([]domainAttendance.Mark, error) {
	students, err := deps.StudentStore.List(ctx, student.ListFilter{
		Group:  query.Group,
		Status: domainStudent.StatusActive,
		Sort:   "name",
		Dir:    "asc",
	})
	if err != nil {
		return nil, err
	}
	marks := make([]domainAttendance.Mark, 0, len(students))
	for _, s := range students {
		marks = append(marks, domainAttendance.Mark{
			StudentID:   s.ID,
			StudentName: s.Name,
			Status:      domainAttendance.MarkPresent,
		})
	}
	return marks, nil
}
