package projections

import (
	"context"
	"time"

	"sportsschool/internal/adapters/storage/announcement"
	"sportsschool/internal/adapters/storage/assessment"
	"sportsschool/internal/domain/access"
	domainAnnouncement "sportsschool/internal/domain/announcement"
	domainAssessment "sportsschool/internal/domain/assessment"
	domainReport "sportsschool/internal/domain/report"
)

// dashboardItems bounds each dashboard list.
const dashboardItems = 5

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	AccountID string
	Role      access.Role
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	AnnouncementStore AnnouncementStore
	AssessmentStore   AssessmentStore
	ReportStore       ReportStore
	SettingsStore     SettingsStore
	Now               func() time.Time
}

// DashboardResult carries the output of the dashboard projection.
// Widgets the account hid or the role cannot see are left empty.
type DashboardResult struct {
	Widgets       []string                          `json:"widgets"`
	Announcements []domainAnnouncement.Announcement `json:"announcements,omitempty"`
	Attendance    *domainReport.Row                 `json:"attendance,omitempty"`
	Finance       *domainReport.Row                 `json:"finance,omitempty"`
	Assessments   []domainAssessment.Assessment     `json:"assessments,omitempty"`
	Range         domainReport.Range                `json:"range"`
}

// QueryGetDashboard assembles the widgets chosen in the account's preferences.
// PRE: query.AccountID is non-empty
// POST: Only widgets the role can view are populated
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (DashboardResult, error) {
	prefs, err := QueryGetPreferences(ctx, query.AccountID, GetSettingsDeps{SettingsStore: deps.SettingsStore})
	if err != nil {
		return DashboardResult{}, err
	}

	rng := domainReport.DefaultRange(deps.Now())
	result := DashboardResult{Range: rng}

	for _, widget := range prefs.DashboardWidgets {
		switch widget {
		case "announcements":
			items, err := deps.AnnouncementStore.List(ctx, announcement.ListFilter{
				Limit:  dashboardItems,
				Status: domainAnnouncement.StatusPublished,
			})
			if err != nil {
				return DashboardResult{}, err
			}
			result.Announcements = items
		case "attendance":
			if !access.Can(query.Role, access.ViewReports) {
				continue
			}
			rows, err := deps.ReportStore.Attendance(ctx, rng)
			if err != nil {
				return DashboardResult{}, err
			}
			total := domainReport.Total(rows)
			result.Attendance = &total
		case "finance":
			if !access.Can(query.Role, access.ViewFinance) {
				continue
			}
			rows, err := deps.ReportStore.Finance(ctx, rng)
			if err != nil {
				return DashboardResult{}, err
			}
			total := domainReport.Total(rows)
			result.Finance = &total
		case "assessments":
			items, err := deps.AssessmentStore.List(ctx, assessment.ListFilter{Limit: dashboardItems})
			if err != nil {
				return DashboardResult{}, err
			}
			result.Assessments = items
		default:
			continue
		}
		result.Widgets = append(result.Widgets, widget)
	}
	return result, nil
}
