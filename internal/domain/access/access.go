// Package access maps account roles to the capabilities they grant.
//
// The portal consults it only to decide which controls to render. The API
// consults it to decide whether to answer 403; that answer is the one that counts.
package access

// Role names an account's role.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCoach   Role = "coach"
	RoleFinance Role = "finance"
	RoleViewer  Role = "viewer"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleCoach, RoleFinance, RoleViewer}

// Capability names a single permitted action.
type Capability string

const (
	ViewRoster          Capability = "roster.view"
	EditAnnouncements   Capability = "announcements.edit"
	PublishAnnouncement Capability = "announcements.publish"
	EditCoaches         Capability = "coaches.edit"
	EditStudents        Capability = "students.edit"
	RecordAttendance    Capability = "attendance.record"
	EditAssessments     Capability = "assessments.edit"
	ViewFinance         Capability = "finance.view"
	EditInvoices        Capability = "invoices.edit"
	ViewReports         Capability = "reports.view"
	EditSettings        Capability = "settings.edit"
	ViewDiagnostics     Capability = "diagnostics.view"
)

var grants = map[Role]map[Capability]bool{
	RoleAdmin: set(ViewRoster, EditAnnouncements, PublishAnnouncement, EditCoaches, EditStudents,
		RecordAttendance, EditAssessments, ViewFinance, EditInvoices, ViewReports, EditSettings,
		ViewDiagnostics),
	RoleCoach:   set(ViewRoster, EditAnnouncements, RecordAttendance, EditAssessments, ViewReports),
	RoleFinance: set(ViewRoster, ViewFinance, EditInvoices, ViewReports),
	RoleViewer:  set(ViewRoster, ViewReports),
}

func set(caps ...Capability) map[Capability]bool {
	m := make(map[Capability]bool, len(caps))
	for _, c := range caps {
		m[c] = true
	}
	return m
}

// Can reports whether role holds capability. Unknown roles hold nothing.
func Can(role Role, capability Capability) bool {
	return grants[role][capability]
}

// CanString is Can for callers holding the role as a plain string.
func CanString(role string, capability Capability) bool {
	return Can(Role(role), capability)
}

// Valid reports whether role is a known role.
func (r Role) Valid() bool {
	_, ok := grants[r]
	return ok
}
