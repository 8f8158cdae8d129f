package projections

import (
	"context"
	"errors"
	"testing"
	"time"

	"sportsschool/internal/adapters/storage"
	"sportsschool/internal/adapters/storage/announcement"
	"sportsschool/internal/adapters/storage/assessment"
	"sportsschool/internal/adapters/storage/student"
	"sportsschool/internal/application/listview"
	"sportsschool/internal/domain/access"
	domainAnnouncement "sportsschool/internal/domain/announcement"
	domainAssessment "sportsschool/internal/domain/assessment"
	domainReport "sportsschool/internal/domain/report"
	domainSettings "sportsschool/internal/domain/settings"
	domainStudent "sportsschool/internal/domain/student"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

type mockAnnouncementStore struct {
	total      int
	items      []domainAnnouncement.Announcement
	lastFilter announcement.ListFilter
}

// List records the filter and returns the seeded announcements.
func (m *mockAnnouncementStore) List(_ context.Context, f announcement.ListFilter) ([]domainAnnouncement.Announcement, error) {
	m.lastFilter = f
	return m.items, nil
}

// Count returns the seeded total.
func (m *mockAnnouncementStore) Count(_ context.Context, _ announcement.ListFilter) (int, error) {
	return m.total, nil
}

type mockStudentStore struct {
	students   []domainStudent.Student
	lastFilter student.ListFilter
}

// List records the filter and returns the seeded students.
func (m *mockStudentStore) List(_ context.Context, f student.ListFilter) ([]domainStudent.Student, error) {
	m.lastFilter = f
	return m.students, nil
}

// Count returns the number of seeded students.
func (m *mockStudentStore) Count(_ context.Context, _ student.ListFilter) (int, error) {
	return len(m.students), nil
}

type mockAssessmentStore struct{}

// List returns no assessments.
func (m *mockAssessmentStore) List(_ context.Context, _ assessment.ListFilter) ([]domainAssessment.Assessment, error) {
	return nil, nil
}

// Count returns zero.
func (m *mockAssessmentStore) Count(_ context.Context, _ assessment.ListFilter) (int, error) {
	return 0, nil
}

type mockReportStore struct {
	attendance []domainReport.Row
	finance    []domainReport.Row
	calls      int
}

// Attendance returns the seeded attendance rows.
func (m *mockReportStore) Attendance(_ context.Context, _ domainReport.Range) ([]domainReport.Row, error) {
	m.calls++
	return m.attendance, nil
}

// Finance returns the seeded finance rows.
func (m *mockReportStore) Finance(_ context.Context, _ domainReport.Range) ([]domainReport.Row, error) {
	m.calls++
	return m.finance, nil
}

type mockSettingsStore struct {
	school    *domainSettings.School
	prefs     map[string]domainSettings.Preferences
	schoolErr error
}

// GetSchool returns the seeded school or ErrNotFound.
func (m *mockSettingsStore) GetSchool(_ context.Context) (domainSettings.School, error) {
	if m.schoolErr != nil {
		return domainSettings.School{}, m.schoolErr
	}
	if m.school == nil {
		return domainSettings.School{}, storage.ErrNotFound
	}
	return *m.school, nil
}

// GetPreferences returns seeded preferences or ErrNotFound.
func (m *mockSettingsStore) GetPreferences(_ context.Context, id string) (domainSettings.Preferences, error) {
	p, ok := m.prefs[id]
	if !ok {
		return domainSettings.Preferences{}, storage.ErrNotFound
	}
	return p, nil
}

// TestQueryGetAnnouncementList_Paging verifies the third page of 25 rows at size 10.
func TestQueryGetAnnouncementList_Paging(t *testing.T) {
	store := &mockAnnouncementStore{total: 25, items: []domainAnnouncement.Announcement{{ID: "a1"}}}
	page, err := QueryGetAnnouncementList(context.Background(), GetAnnouncementListQuery{
		List:     listview.State{Query: "camp", Status: "published", Page: 3, PageSize: 10},
		Audience: "parents",
	}, GetAnnouncementListDeps{AnnouncementStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Page != 3 || page.PageSize != 10 || page.Total != 25 || page.TotalPages() != 3 {
		t.Errorf("unexpected page: %+v", page)
	}
	f := store.lastFilter
	if f.Limit != 10 || f.Offset != 20 || f.Search != "camp" || f.Status != "published" || f.Audience != "parents" {
		t.Errorf("unexpected filter: %+v", f)
	}
}

// TestQueryGetAnnouncementList_ClampsPage verifies a page past the end is clamped and items is never nil.
func TestQueryGetAnnouncementList_ClampsPage(t *testing.T) {
	store := &mockAnnouncementStore{total: 0}
	page, err := QueryGetAnnouncementList(context.Background(), GetAnnouncementListQuery{
		List: listview.State{Page: 9, PageSize: 20},
	}, GetAnnouncementListDeps{AnnouncementStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Page != 1 || store.lastFilter.Offset != 0 {
		t.Errorf("expected page 1 offset 0, got page %d offset %d", page.Page, store.lastFilter.Offset)
	}
	if page.Items == nil {
		t.Error("Items must be an empty slice, not nil")
	}
}

// TestQueryGetAttendanceRoster verifies the roster lists active group members marked present.
func TestQueryGetAttendanceRoster(t *testing.T) {
	store := &mockStudentStore{students: []domainStudent.Student{{ID: "s1", Name: "Ana"}, {ID: "s2", Name: "Ben"}}}
	marks, err := QueryGetAttendanceRoster(context.Background(), GetAttendanceRosterQuery{Group: "under-12"},
		GetAttendanceRosterDeps{StudentStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(marks) != 2 || marks[0].StudentName != "Ana" || marks[1].Status != "present" {
		t.Errorf("unexpected marks: %+v", marks)
	}
	if store.lastFilter.Group != "under-12" || store.lastFilter.Status != domainStudent.StatusActive {
		t.Errorf("unexpected filter: %+v", store.lastFilter)
	}
}

// TestQueryGetReport verifies kind and range validation and the totals row.
func TestQueryGetReport(t *testing.T) {
	store := &mockReportStore{finance: []domainReport.Row{
		{Label: "2026-01", Invoiced: 10000, Paid: 4000, Outstanding: 6000},
		{Label: "2026-02", Invoiced: 5000, Paid: 5000},
	}}
	deps := GetReportDeps{ReportStore: store}
	rng := domainReport.Range{From: "2026-01-01", To: "2026-02-28"}

	if _, err := QueryGetReport(context.Background(), GetReportQuery{Kind: "payroll", Range: rng}, deps); !errors.Is(err, domainReport.ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
	if _, err := QueryGetReport(context.Background(), GetReportQuery{Kind: "finance", Range: domainReport.Range{From: "2026-03-01", To: "2026-01-01"}}, deps); err == nil {
		t.Error("expected error for inverted range")
	}
	if store.calls != 0 {
		t.Errorf("invalid queries must not reach the store, got %d calls", store.calls)
	}

	rep, err := QueryGetReport(context.Background(), GetReportQuery{Kind: "finance", Range: rng}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Totals.Invoiced != 15000 || rep.Totals.Paid != 9000 || rep.Totals.Outstanding != 6000 {
		t.Errorf("unexpected totals: %+v", rep.Totals)
	}

	empty, err := QueryGetReport(context.Background(), GetReportQuery{Kind: "attendance", Range: rng}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty.Rows == nil {
		t.Error("Rows must be an empty slice, not nil")
	}
}

// TestQueryGetSchoolSettings verifies defaults are served before the first save.
func TestQueryGetSchoolSettings(t *testing.T) {
	s, err := QueryGetSchoolSettings(context.Background(), GetSettingsDeps{SettingsStore: &mockSettingsStore{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != domainSettings.DefaultSchool() {
		t.Errorf("expected defaults, got %+v", s)
	}

	boom := errors.New("disk on fire")
	if _, err := QueryGetSchoolSettings(context.Background(), GetSettingsDeps{SettingsStore: &mockSettingsStore{schoolErr: boom}}); !errors.Is(err, boom) {
		t.Errorf("expected store error to pass through, got %v", err)
	}
}

// TestQueryGetPreferences verifies defaults carry the account ID.
func TestQueryGetPreferences(t *testing.T) {
	p, err := QueryGetPreferences(context.Background(), "acct-1", GetSettingsDeps{SettingsStore: &mockSettingsStore{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.AccountID != "acct-1" || p.Language != "en" {
		t.Errorf("unexpected defaults: %+v", p)
	}
}

// TestQueryGetDashboard_HidesFinanceFromViewer verifies role gating of dashboard widgets.
func TestQueryGetDashboard_HidesFinanceFromViewer(t *testing.T) {
	settings := &mockSettingsStore{prefs: map[string]domainSettings.Preferences{
		"v1": {AccountID: "v1", DashboardWidgets: []string{"announcements", "finance", "attendance"}},
	}}
	reports := &mockReportStore{attendance: []domainReport.Row{{Label: "senior", Sessions: 2, Present: 10, AttendanceRate: 80}}}
	deps := GetDashboardDeps{
		AnnouncementStore: &mockAnnouncementStore{items: []domainAnnouncement.Announcement{{ID: "a1"}}},
		AssessmentStore:   &mockAssessmentStore{},
		ReportStore:       reports,
		SettingsStore:     settings,
		Now:               fixedNow,
	}
	res, err := QueryGetDashboard(context.Background(), GetDashboardQuery{AccountID: "v1", Role: access.RoleViewer}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Finance != nil {
		t.Error("viewer must not see the finance widget")
	}
	if res.Attendance == nil || res.Attendance.AttendanceRate != 80 {
		t.Errorf("unexpected attendance widget: %+v", res.Attendance)
	}
	if len(res.Widgets) != 2 || res.Widgets[0] != "announcements" || res.Widgets[1] != "attendance" {
		t.Errorf("unexpected widgets: %v", res.Widgets)
	}
	if res.Range.To != "2026-03-01" {
		t.Errorf("unexpected range: %+v", res.Range)
	}
}
