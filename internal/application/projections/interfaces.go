package projections

import (
	"context"

	"sportsschool/internal/adapters/storage/announcement"
	"sportsschool/internal/adapters/storage/assessment"
	"sportsschool/internal/adapters/storage/attendance"
	"sportsschool/internal/adapters/storage/coach"
	"sportsschool/internal/adapters/storage/invoice"
	"sportsschool/internal/adapters/storage/student"
	domainAnnouncement "sportsschool/internal/domain/announcement"
	domainAssessment "sportsschool/internal/domain/assessment"
	domainAttendance "sportsschool/internal/domain/attendance"
	domainCoach "sportsschool/internal/domain/coach"
	domainInvoice "sportsschool/internal/domain/invoice"
	domainReport "sportsschool/internal/domain/report"
	domainSettings "sportsschool/internal/domain/settings"
	domainStudent "sportsschool/internal/domain/student"
)

// AnnouncementStore interface for announcement queries.
type AnnouncementStore interface {
	List(ctx context.Context, filter announcement.ListFilter) ([]domainAnnouncement.Announcement, error)
	Count(ctx context.Context, filter announcement.ListFilter) (int, error)
}

// CoachStore interface for coach queries.
type CoachStore interface {
	List(ctx context.Context, filter coach.ListFilter) ([]domainCoach.Coach, error)
	Count(ctx context.Context, filter coach.ListFilter) (int, error)
}

// StudentStore interface for student queries.
type StudentStore interface {
	List(ctx context.Context, filter student.ListFilter) ([]domainStudent.Student, error)
	Count(ctx context.Context, filter student.ListFilter) (int, error)
}

// InvoiceStore interface for invoice queries.
type InvoiceStore interface {
	List(ctx context.Context, filter invoice.ListFilter) ([]domainInvoice.Invoice, error)
	Count(ctx context.Context, filter invoice.ListFilter) (int, error)
}

// AttendanceStore interface for attendance session queries.
type AttendanceStore interface {
	List(ctx context.Context, filter attendance.ListFilter) ([]domainAttendance.Session, error)
	Count(ctx context.Context, filter attendance.ListFilter) (int, error)
}

// AssessmentStore interface for assessment queries.
type AssessmentStore interface {
	List(ctx context.Context, filter assessment.ListFilter) ([]domainAssessment.Assessment, error)
	Count(ctx context.Context, filter assessment.ListFilter) (int, error)
}

// ReportStore interface for summary report queries.
type ReportStore interface {
	Attendance(ctx context.Context, r domainReport.Range) ([]domainReport.Row, error)
	Finance(ctx context.Context, r domainReport.Range) ([]domainReport.Row, error)
}

// SettingsStore interface for settings queries.
type SettingsStore interface {
	GetSchool(ctx context.Context) (domainSettings.School, error)
	GetPreferences(ctx context.Context, accountID string) (domainSettings.Preferences, error)
}
