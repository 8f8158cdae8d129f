package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	studentStore "sportsschool/internal/adapters/storage/student"
	"sportsschool/internal/domain/access"
	"sportsschool/internal/domain/attendance"
	"sportsschool/internal/domain/invoice"
	"sportsschool/internal/domain/validation"
)

// DemoPassword is the password of every seeded demo staff account.
const DemoPassword = "sportsschool-demo"

// StudentCounterForSeed lets the seeder detect an already populated database.
type StudentCounterForSeed interface {
	StudentStoreForOrchestrator
	Count(ctx context.Context, filter studentStore.ListFilter) (int, error)
}

// SeedDemoDeps holds the stores needed for demo data seeding.
type SeedDemoDeps struct {
	AccountStore      AccountStoreForCreate
	AnnouncementStore AnnouncementStoreForOrchestrator
	CoachStore        CoachStoreForOrchestrator
	StudentStore      StudentCounterForSeed
	InvoiceStore      InvoiceStoreForOrchestrator
	AttendanceStore   AttendanceStoreForOrchestrator
	AssessmentStore   AssessmentStoreForOrchestrator
	GenerateID        func() string
	Now               func() time.Time
}

type demoAccount struct {
	Email string
	Name  string
	Role  access.Role
}

func demoAccounts() []demoAccount {
	return []demoAccount{
		{Email: "coach@sportsschool.test", Name: "Casey Coach", Role: access.RoleCoach},
		{Email: "finance@sportsschool.test", Name: "Frankie Finance", Role: access.RoleFinance},
		{Email: "viewer@sportsschool.test", Name: "Vic Viewer", Role: access.RoleViewer},
	}
}

// ExecuteSeedDemo fills an empty database with a small, realistic school.
// It is idempotent: nothing is written when any student already exists.
// PRE: Database is migrated
// POST: Demo accounts, coaches, students, announcements, invoices, sessions and assessments exist
func ExecuteSeedDemo(ctx context.Context, deps SeedDemoDeps) error {
	count, err := deps.StudentStore.Count(ctx, studentStore.ListFilter{})
	if err != nil {
		return err
	}
	if count > 0 {
		slog.Info("seed_event", "event", "demo_seed_skipped", "students", count)
		return nil
	}
	now := deps.Now()
	today := now.Format(validation.DateLayout)
	day := func(offset int) string { return now.AddDate(0, 0, offset).Format(validation.DateLayout) }

	accountDeps := CreateAccountDeps{AccountStore: deps.AccountStore, GenerateID: deps.GenerateID, Now: deps.Now}
	for _, def := range demoAccounts() {
		if _, err := deps.AccountStore.GetByEmail(ctx, def.Email); err == nil {
			continue
		}
		if _, err := ExecuteCreateAccount(ctx, CreateAccountInput{
			Email: def.Email, Name: def.Name, Password: DemoPassword, Role: def.Role,
		}, accountDeps); err != nil {
			return fmt.Errorf("seed account %s: %w", def.Email, err)
		}
	}

	coachDeps := CoachDeps{CoachStore: deps.CoachStore, GenerateID: deps.GenerateID, Now: deps.Now}
	var coachIDs []string
	for _, in := range []SaveCoachInput{
		{Name: "Casey Coach", Email: "coach@sportsschool.test", Phone: "+64 21 555 0101", Specialties: []string{"football", "conditioning"}, Bio: "Head of football."},
		{Name: "Mere Parata", Email: "mere@sportsschool.test", Phone: "+64 21 555 0102", Specialties: []string{"swimming"}},
		{Name: "Tomás Ruiz", Email: "tomas@sportsschool.test", Specialties: []string{"athletics", "tennis"}},
	} {
		c, err := ExecuteSaveCoach(ctx, in, coachDeps)
		if err != nil {
			return fmt.Errorf("seed coach %s: %w", in.Name, err)
		}
		coachIDs = append(coachIDs, c.ID)
	}

	studentDeps := StudentDeps{StudentStore: deps.StudentStore, GenerateID: deps.GenerateID, Now: deps.Now}
	var studentIDs []string
	for _, in := range []SaveStudentInput{
		{Name: "Aroha Ngata", Email: "aroha@example.com", Groups: []string{"under-12"}, GuardianName: "Rangi Ngata", GuardianPhone: "+64 27 555 0201", BirthDate: "2015-04-12"},
		{Name: "Ben Carter", Email: "ben.carter@example.com", Groups: []string{"under-12"}, GuardianName: "Lisa Carter", BirthDate: "2014-09-30"},
		{Name: "Chloe Wu", Groups: []string{"under-14", "squad"}, GuardianName: "Ming Wu", GuardianPhone: "+64 22 555 0203"},
		{Name: "Daniel Okafor", Email: "daniel@example.com", Groups: []string{"under-14"}},
		{Name: "Ella Thompson", Email: "ella@example.com", Groups: []string{"senior", "squad"}, Phone: "+64 21 555 0205"},
		{Name: "Finn O'Brien", Groups: []string{"under-10"}, GuardianName: "Siobhan O'Brien"},
	} {
		s, err := ExecuteSaveStudent(ctx, in, studentDeps)
		if err != nil {
			return fmt.Errorf("seed student %s: %w", in.Name, err)
		}
		studentIDs = append(studentIDs, s.ID)
	}

	annDeps := SaveAnnouncementDeps{AnnouncementStore: deps.AnnouncementStore, GenerateID: deps.GenerateID, Now: deps.Now}
	announcements := []SaveAnnouncementInput{
		{Title: "Winter term starts Monday", Content: "Training resumes **Monday** at 4pm. Bring a water bottle.", Audience: []string{"students", "parents"}, Pinned: true},
		{Title: "Coaches meeting", Content: "Staff room, Thursday 7pm.", Audience: []string{"coaches", "staff"}},
		{Title: "Uniform order", Content: "Orders close at the end of the month.", Audience: []string{"parents"}},
	}
	for i, in := range announcements {
		a, err := ExecuteSaveAnnouncement(ctx, in, annDeps)
		if err != nil {
			return fmt.Errorf("seed announcement %q: %w", in.Title, err)
		}
		if i < 2 {
			if _, err := ExecuteSetAnnouncementStatus(ctx, SetStatusInput{ID: a.ID, Action: ActionPublish},
				SetAnnouncementStatusDeps{AnnouncementStore: deps.AnnouncementStore, Now: deps.Now}); err != nil {
				return err
			}
		}
	}

	invDeps := SaveInvoiceDeps{
		InvoiceStore: deps.InvoiceStore, StudentStore: deps.StudentStore,
		GenerateID: deps.GenerateID, GenerateNumber: NewInvoiceNumber, Now: deps.Now,
	}
	statusDeps := SetInvoiceStatusDeps{InvoiceStore: deps.InvoiceStore, Now: deps.Now}
	invoices := []struct {
		in      SaveInvoiceInput
		actions []string
	}{
		{SaveInvoiceInput{StudentID: studentIDs[0], Description: "Winter term fees", Amount: "180.00", DueDate: day(14)}, nil},
		{SaveInvoiceInput{StudentID: studentIDs[1], Description: "Winter term fees", Amount: "180.00", DueDate: day(-10)}, []string{invoice.ActionIssue}},
		{SaveInvoiceInput{StudentID: studentIDs[2], Description: "Squad tour levy", Amount: "1,250.50", DueDate: day(-40)}, []string{invoice.ActionIssue, invoice.ActionMarkPaid}},
		{SaveInvoiceInput{StudentID: studentIDs[4], Description: "Uniform", Amount: "65", DueDate: day(7)}, []string{invoice.ActionIssue}},
	}
	for _, def := range invoices {
		inv, err := ExecuteSaveInvoice(ctx, def.in, invDeps)
		if err != nil {
			return fmt.Errorf("seed invoice: %w", err)
		}
		for _, action := range def.actions {
			if _, err := ExecuteSetInvoiceStatus(ctx, SetStatusInput{ID: inv.ID, Action: action}, statusDeps); err != nil {
				return err
			}
		}
	}

	attDeps := SaveAttendanceDeps{
		AttendanceStore: deps.AttendanceStore, StudentStore: deps.StudentStore, CoachStore: deps.CoachStore,
		GenerateID: deps.GenerateID, Now: deps.Now,
	}
	for _, in := range []SaveAttendanceInput{
		{Group: "under-12", Date: day(-7), CoachID: coachIDs[0], Marks: []attendance.Mark{
			{StudentID: studentIDs[0], Status: attendance.MarkPresent},
			{StudentID: studentIDs[1], Status: attendance.MarkLate},
		}},
		{Group: "under-12", Date: today, CoachID: coachIDs[0], Marks: []attendance.Mark{
			{StudentID: studentIDs[0], Status: attendance.MarkPresent},
			{StudentID: studentIDs[1], Status: attendance.MarkAbsent},
		}},
		{Group: "under-14", Date: day(-3), CoachID: coachIDs[1], Notes: "Pool lanes 1-3.", Marks: []attendance.Mark{
			{StudentID: studentIDs[2], Status: attendance.MarkPresent},
			{StudentID: studentIDs[3], Status: attendance.MarkExcused},
		}},
	} {
		if _, err := ExecuteSaveAttendance(ctx, in, attDeps); err != nil {
			return fmt.Errorf("seed attendance %s %s: %w", in.Group, in.Date, err)
		}
	}

	asmDeps := SaveAssessmentDeps{
		AssessmentStore: deps.AssessmentStore, StudentStore: deps.StudentStore, CoachStore: deps.CoachStore,
		GenerateID: deps.GenerateID, Now: deps.Now,
	}
	for _, in := range []SaveAssessmentInput{
		{StudentID: studentIDs[0], CoachID: coachIDs[0], Skill: "technique", Score: 8, AssessedOn: day(-7), Notes: "Clean first touch."},
		{StudentID: studentIDs[1], CoachID: coachIDs[0], Skill: "teamwork", Score: 6, AssessedOn: day(-7)},
		{StudentID: studentIDs[2], CoachID: coachIDs[1], Skill: "fitness", Score: 9, AssessedOn: day(-3)},
		{StudentID: studentIDs[4], CoachID: coachIDs[2], Skill: "tactics", Score: 4, AssessedOn: day(-1), Notes: "Work on positioning."},
	} {
		if _, err := ExecuteSaveAssessment(ctx, in, asmDeps); err != nil {
			return fmt.Errorf("seed assessment: %w", err)
		}
	}

	slog.Info("seed_event", "event", "demo_seeded", "coaches", len(coachIDs), "students", len(studentIDs),
		"announcements", len(announcements), "invoices", len(invoices))
	return nil
}
