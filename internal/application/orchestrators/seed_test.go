package orchestrators

import (
	"context"
	"testing"

	"github.com/google/uuid"

	accountStore "sportsschool/internal/adapters/storage/account"
	announcementStore "sportsschool/internal/adapters/storage/announcement"
	assessmentStore "sportsschool/internal/adapters/storage/assessment"
	attendanceStore "sportsschool/internal/adapters/storage/attendance"
	coachStore "sportsschool/internal/adapters/storage/coach"
	invoiceStore "sportsschool/internal/adapters/storage/invoice"
	"sportsschool/internal/adapters/storage/storagetest"
	studentStore "sportsschool/internal/adapters/storage/student"
	"sportsschool/internal/domain/invoice"
)

// TestExecuteSeedDemo verifies the demo seed populates every area once.
func TestExecuteSeedDemo(t *testing.T) {
	db := storagetest.Open(t)
	students := studentStore.NewSQLStore(db)
	invoices := invoiceStore.NewSQLStore(db)
	accounts := accountStore.NewSQLStore(db)
	deps := SeedDemoDeps{
		AccountStore:      accounts,
		AnnouncementStore: announcementStore.NewSQLStore(db),
		CoachStore:        coachStore.NewSQLStore(db),
		StudentStore:      students,
		InvoiceStore:      invoices,
		AttendanceStore:   attendanceStore.NewSQLStore(db),
		AssessmentStore:   assessmentStore.NewSQLStore(db),
		GenerateID:        uuid.NewString,
		Now:               fixedNow,
	}
	ctx := context.Background()

	if err := ExecuteSeedDemo(ctx, deps); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := ExecuteSeedDemo(ctx, deps); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	n, err := students.Count(ctx, studentStore.ListFilter{})
	if err != nil || n != 6 {
		t.Errorf("students = %d, %v; want 6", n, err)
	}
	issued, err := invoices.Count(ctx, invoiceStore.ListFilter{Status: invoice.StatusIssued})
	if err != nil || issued != 2 {
		t.Errorf("issued invoices = %d, %v; want 2", issued, err)
	}
	if _, err := accounts.GetByEmail(ctx, "finance@sportsschool.test"); err != nil {
		t.Errorf("expected finance demo account: %v", err)
	}
}
