package access

import "testing"

// TestCan verifies the role to capability matrix for representative cases.
func TestCan(t *testing.T) {
	tests := []struct {
		role Role
		cap  Capability
		want bool
	}{
		{RoleAdmin, EditSettings, true},
		{RoleAdmin, ViewDiagnostics, true},
		{RoleCoach, RecordAttendance, true},
		{RoleCoach, EditInvoices, false},
		{RoleCoach, PublishAnnouncement, false},
		{RoleFinance, EditInvoices, true},
		{RoleFinance, EditStudents, false},
		{RoleViewer, ViewRoster, true},
		{RoleViewer, EditAnnouncements, false},
		{Role("intruder"), ViewRoster, false},
	}
	for _, tt := range tests {
		if got := Can(tt.role, tt.cap); got != tt.want {
			t.Errorf("Can(%s, %s) = %v, want %v", tt.role, tt.cap, got, tt.want)
		}
	}
}

// TestRole_Valid verifies only the declared roles are valid.
func TestRole_Valid(t *testing.T) {
	for _, r := range Roles {
		if !r.Valid() {
			t.Errorf("role %s should be valid", r)
		}
	}
	if Role("member").Valid() {
		t.Error("member is not a portal role")
	}
}
