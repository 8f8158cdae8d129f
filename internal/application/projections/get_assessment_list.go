package projections

import (
	"context"

	"sportsschool/internal/adapters/storage/assessment"
	"sportsschool/internal/application/listview"
	domainAssessment "sportsschool/internal/domain/assessment"
)

// GetAssessmentListQuery carries query parameters. The skill filter travels
// in List.Filters["skill"].
type GetAssessmentListQuery struct {
	List      listview.State
	StudentID string
}

// GetAssessmentListDeps holds dependencies for GetAssessmentList.
type GetAssessmentListDeps struct {
	AssessmentStore AssessmentStore
}

// QueryGetAssessmentList returns one page of assessments.
// PRE: query.List came from listview.ParseState
// POST: Returns at most PageSize assessments, most recent first unless sorted
func QueryGetAssessmentList(ctx context.Context, query GetAssessmentListQuery, deps GetAssessmentListDeps) (Page[domainAssessment.Assessment], error) {
	filter := assessment.ListFilter{
		Search:    query.List.Query,
		Skill:     query.List.Filters["skill"],
		StudentID: query.StudentID,
		Sort:      query.List.Sort,
		Dir:       query.List.Dir,
	}
	return paginate(ctx, query.List,
		func(ctx context.Context) (int, error) { return deps.AssessmentStore.Count(ctx, filter) },
		func(ctx context.Context, limit, offset int) ([]domainAssessment.Assessment, error) {
			f := filter
			f.Limit, f.Offset = limit, offset
			return deps.AssessmentStore.List(ctx, f)
		})
}
