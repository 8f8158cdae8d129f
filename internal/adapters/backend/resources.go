package backend

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"sportsschool/internal/adapters/http/perf"
	"sportsschool/internal/domain/access"
	"sportsschool/internal/domain/announcement"
	"sportsschool/internal/domain/assessment"
	"sportsschool/internal/domain/attendance"
	"sportsschool/internal/domain/coach"
	"sportsschool/internal/domain/invoice"
	"sportsschool/internal/domain/report"
	"sportsschool/internal/domain/settings"
	"sportsschool/internal/domain/student"
)

// Page is the list envelope returned by every collection endpoint.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Account is the signed-in caller.
type Account struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  access.Role `json:"role"`
}

// Session is a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Account   Account   `json:"account"`
}

// AnnouncementInput is the writable part of an announcement.
type AnnouncementInput struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Audience []string `json:"audience"`
	Pinned   bool     `json:"pinned"`
}

// CoachInput is the writable part of a coach.
type CoachInput struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Specialties []string `json:"specialties"`
	Bio         string   `json:"bio"`
}

// StudentInput is the writable part of a student.
type StudentInput struct {
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	GuardianName  string   `json:"guardian_name"`
	GuardianPhone string   `json:"guardian_phone"`
	Groups        []string `json:"groups"`
	BirthDate     string   `json:"birth_date"`
}

// InvoiceInput is the writable part of a draft invoice. Amount is a decimal string.
type InvoiceInput struct {
	StudentID   string `json:"student_id"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	DueDate     string `json:"due_date"`
}

// AttendanceInput is one attendance sheet.
type AttendanceInput struct {
	Group   string            `json:"group"`
	Date    string            `json:"date"`
	CoachID string            `json:"coach_id"`
	Notes   string            `json:"notes"`
	Marks   []attendance.Mark `json:"marks"`
}

// AssessmentInput is the writable part of an assessment.
type AssessmentInput struct {
	StudentID  string `json:"student_id"`
	CoachID    string `json:"coach_id"`
	Skill      string `json:"skill"`
	Score      int    `json:"score"`
	Notes      string `json:"notes"`
	AssessedOn string `json:"assessed_on"`
}

// Roster is the blank attendance sheet for a group.
type Roster struct {
	Group string            `json:"group"`
	Marks []attendance.Mark `json:"marks"`
}

// Dashboard is the signed-in account's home page data.
type Dashboard struct {
	Widgets       []string                    `json:"widgets"`
	Announcements []announcement.Announcement `json:"announcements"`
	Attendance    *report.Row                 `json:"attendance"`
	Finance       *report.Row                 `json:"finance"`
	Assessments   []assessment.Assessment     `json:"assessments"`
	Range         report.Range                `json:"range"`
}

type statusAction struct {
	Action string `json:"action"`
}

// --- Auth ---

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var s Session
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", nil, map[string]string{"email": email, "password": password}, &s)
	return s, err
}

// Me returns the account the token belongs to.
func (c *Client) Me(ctx context.Context) (Account, error) {
	var a Account
	err := c.do(ctx, http.MethodGet, "/api/v1/me", nil, nil, &a)
	return a, err
}

// Dashboard returns the widgets for the signed-in account.
func (c *Client) Dashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	err := c.do(ctx, http.MethodGet, "/api/v1/dashboard", nil, nil, &d)
	return d, err
}

// --- generic resource helpers ---

func list[T any](ctx context.Context, c *Client, collection string, q url.Values) (Page[T], error) {
	var p Page[T]
	err := c.do(ctx, http.MethodGet, "/api/v1/"+collection, q, nil, &p)
	if p.Items == nil {
		p.Items = []T{}
	}
	return p, err
}

func get[T any](ctx context.Context, c *Client, collection, id string) (T, error) {
	var v T
	err := c.do(ctx, http.MethodGet, resourcePath(collection, id), nil, nil, &v)
	return v, err
}

// save creates when id is empty and updates otherwise.
func save[T any](ctx context.Context, c *Client, collection, id string, body any) (T, error) {
	var v T
	var err error
	if id == "" {
		err = c.do(ctx, http.MethodPost, "/api/v1/"+collection, nil, body, &v)
	} else {
		err = c.do(ctx, http.MethodPut, resourcePath(collection, id), nil, body, &v)
	}
	return v, err
}

func setStatus[T any](ctx context.Context, c *Client, collection, id, action string) (T, error) {
	var v T
	err := c.do(ctx, http.MethodPost, resourcePath(collection, id, "status"), nil, statusAction{Action: action}, &v)
	return v, err
}

// --- Announcements ---

// ListAnnouncements fetches one page of announcements.
func (c *Client) ListAnnouncements(ctx context.Context, q url.Values) (Page[announcement.Announcement], error) {
	return list[announcement.Announcement](ctx, c, "announcements", q)
}

// GetAnnouncement fetches one announcement.
func (c *Client) GetAnnouncement(ctx context.Context, id string) (announcement.Announcement, error) {
	return get[announcement.Announcement](ctx, c, "announcements", id)
}

// SaveAnnouncement creates (empty id) or updates an announcement.
func (c *Client) SaveAnnouncement(ctx context.Context, id string, in AnnouncementInput) (announcement.Announcement, error) {
	return save[announcement.Announcement](ctx, c, "announcements", id, in)
}

// SetAnnouncementStatus publishes or unpublishes an announcement.
func (c *Client) SetAnnouncementStatus(ctx context.Context, id, action string) (announcement.Announcement, error) {
	return setStatus[announcement.Announcement](ctx, c, "announcements", id, action)
}

// --- Coaches ---

// ListCoaches fetches one page of coaches.
func (c *Client) ListCoaches(ctx context.Context, q url.Values) (Page[coach.Coach], error) {
	return list[coach.Coach](ctx, c, "coaches", q)
}

// GetCoach fetches one coach.
func (c *Client) GetCoach(ctx context.Context, id string) (coach.Coach, error) {
	return get[coach.Coach](ctx, c, "coaches", id)
}

// SaveCoach creates (empty id) or updates a coach.
func (c *Client) SaveCoach(ctx context.Context, id string, in CoachInput) (coach.Coach, error) {
	return save[coach.Coach](ctx, c, "coaches", id, in)
}

// SetCoachStatus activates or deactivates a coach.
func (c *Client) SetCoachStatus(ctx context.Context, id, action string) (coach.Coach, error) {
	return setStatus[coach.Coach](ctx, c, "coaches", id, action)
}

// --- Students ---

// ListStudents fetches one page of students.
func (c *Client) ListStudents(ctx context.Context, q url.Values) (Page[student.Student], error) {
	return list[student.Student](ctx, c, "students", q)
}

// GetStudent fetches one student.
func (c *Client) GetStudent(ctx context.Context, id string) (student.Student, error) {
	return get[student.Student](ctx, c, "students", id)
}

// SaveStudent creates (empty id) or updates a student.
func (c *Client) SaveStudent(ctx context.Context, id string, in StudentInput) (student.Student, error) {
	return save[student.Student](ctx, c, "students", id, in)
}

// SetStudentStatus archives, restores, activates or deactivates a student.
func (c *Client) SetStudentStatus(ctx context.Context, id, action string) (student.Student, error) {
	return setStatus[student.Student](ctx, c, "students", id, action)
}

// --- Invoices ---

// ListInvoices fetches one page of invoices.
func (c *Client) ListInvoices(ctx context.Context, q url.Values) (Page[invoice.Invoice], error) {
	return list[invoice.Invoice](ctx, c, "invoices", q)
}

// GetInvoice fetches one invoice.
func (c *Client) GetInvoice(ctx context.Context, id string) (invoice.Invoice, error) {
	return get[invoice.Invoice](ctx, c, "invoices", id)
}

// SaveInvoice creates (empty id) or updates a draft invoice.
func (c *Client) SaveInvoice(ctx context.Context, id string, in InvoiceInput) (invoice.Invoice, error) {
	return save[invoice.Invoice](ctx, c, "invoices", id, in)
}

// SetInvoiceStatus issues, marks paid or voids an invoice.
func (c *Client) SetInvoiceStatus(ctx context.Context, id, action string) (invoice.Invoice, error) {
	return setStatus[invoice.Invoice](ctx, c, "invoices", id, action)
}

// RemindInvoice emails a payment reminder for an issued invoice.
func (c *Client) RemindInvoice(ctx context.Context, id string) (invoice.Invoice, error) {
	var inv invoice.Invoice
	err := c.do(ctx, http.MethodPost, resourcePath("invoices", id, "remind"), nil, nil, &inv)
	return inv, err
}

// --- Attendance ---

// ListAttendance fetches one page of attendance sessions.
func (c *Client) ListAttendance(ctx context.Context, q url.Values) (Page[attendance.Session], error) {
	return list[attendance.Session](ctx, c, "attendance", q)
}

// GetAttendance fetches one attendance session with its marks.
func (c *Client) GetAttendance(ctx context.Context, id string) (attendance.Session, error) {
	return get[attendance.Session](ctx, c, "attendance", id)
}

// SaveAttendance creates (empty id) or updates an attendance sheet.
func (c *Client) SaveAttendance(ctx context.Context, id string, in AttendanceInput) (attendance.Session, error) {
	return save[attendance.Session](ctx, c, "attendance", id, in)
}

// AttendanceRoster returns a blank sheet for group.
func (c *Client) AttendanceRoster(ctx context.Context, group string) (Roster, error) {
	var r Roster
	err := c.do(ctx, http.MethodGet, "/api/v1/attendance/roster", url.Values{"group": {group}}, nil, &r)
	return r, err
}

// --- Assessments ---

// ListAssessments fetches one page of assessments.
func (c *Client) ListAssessments(ctx context.Context, q url.Values) (Page[assessment.Assessment], error) {
	return list[assessment.Assessment](ctx, c, "assessments", q)
}

// GetAssessment fetches one assessment.
func (c *Client) GetAssessment(ctx context.Context, id string) (assessment.Assessment, error) {
	return get[assessment.Assessment](ctx, c, "assessments", id)
}

// SaveAssessment creates (empty id) or updates an assessment.
func (c *Client) SaveAssessment(ctx context.Context, id string, in AssessmentInput) (assessment.Assessment, error) {
	return save[assessment.Assessment](ctx, c, "assessments", id, in)
}

// --- Reports, settings, diagnostics ---

// Report fetches a summary report for the inclusive date range.
func (c *Client) Report(ctx context.Context, kind string, rng report.Range) (report.Report, error) {
	var rep report.Report
	q := url.Values{}
	if rng.From != "" {
		q.Set("from", rng.From)
	}
	if rng.To != "" {
		q.Set("to", rng.To)
	}
	err := c.do(ctx, http.MethodGet, "/api/v1/reports/"+url.PathEscape(kind), q, nil, &rep)
	return rep, err
}

// SchoolSettings fetches the school-wide settings.
func (c *Client) SchoolSettings(ctx context.Context) (settings.School, error) {
	var s settings.School
	err := c.do(ctx, http.MethodGet, "/api/v1/settings", nil, nil, &s)
	return s, err
}

// SaveSchoolSettings replaces the school-wide settings.
func (c *Client) SaveSchoolSettings(ctx context.Context, s settings.School) (settings.School, error) {
	var out settings.School
	err := c.do(ctx, http.MethodPut, "/api/v1/settings", nil, s, &out)
	return out, err
}

// Preferences fetches the signed-in account's preferences.
func (c *Client) Preferences(ctx context.Context) (settings.Preferences, error) {
	var p settings.Preferences
	err := c.do(ctx, http.MethodGet, "/api/v1/me/preferences", nil, nil, &p)
	return p, err
}

// SavePreferences replaces the signed-in account's preferences.
func (c *Client) SavePreferences(ctx context.Context, p settings.Preferences) (settings.Preferences, error) {
	var out settings.Preferences
	err := c.do(ctx, http.MethodPut, "/api/v1/me/preferences", nil, p, &out)
	return out, err
}

// Perf fetches the API's request and query timings.
func (c *Client) Perf(ctx context.Context) (perf.Snapshot, error) {
	var s perf.Snapshot
	err := c.do(ctx, http.MethodGet, "/api/v1/diagnostics/perf", nil, nil, &s)
	return s, err
}
