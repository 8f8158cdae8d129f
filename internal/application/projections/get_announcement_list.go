package projections

import (
	"context"

	"sportsschool/internal/adapters/storage/announcement"
	"sportsschool/internal/application/listview"
	domainAnnouncement "sportsschool/internal/domain/announcement"
)

// GetAnnouncementListQuery carries query parameters.
type GetAnnouncementListQuery struct {
	List     listview.State
	Audience string
}

// GetAnnouncementListDeps holds dependencies for GetAnnouncementList.
type GetAnnouncementListDeps struct {
	AnnouncementStore AnnouncementStore
}

// QueryGetAnnouncementList returns one page of announcements.
// PRE: query.List came from listview.ParseState
// POST: Returns at most PageSize announcements, pinned first unless sorted
func QueryGetAnnouncementList(ctx context.Context, query GetAnnouncementListQuery, deps GetAnnouncementListDeps) (Page[domainAnnouncement.Announcement], error) {
	filter := announcement.ListFilter{
		Search:   query.List.Query,
		Status:   query.List.Status,
		Audience: query.Audience,
		Sort:     query.List.Sort,
		Dir:      query.List.Dir,
	}
	return paginate(ctx, query.List,
		func(ctx context.Context) (int, error) { return deps.AnnouncementStore.Count(ctx, filter) },
		func(ctx context.Context, limit, offset int) ([]domainAnnouncement.Announcement, error) {
			f := filter
			f.Limit, f.Offset = limit, offset
			return deps.AnnouncementStore.List(ctx, f)
		})
}
