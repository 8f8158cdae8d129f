package orchestrators

import (
	"context"
	"errors"
	"testing"

	"sportsschool/internal/domain/coach"
	"sportsschool/internal/domain/student"
	"sportsschool/internal/domain/validation"
)

func coachID(c coach.Coach) string       { return c.ID }
func studentID(s student.Student) string { return s.ID }

// TestExecuteSaveCoach verifies creation defaults and field validation.
func TestExecuteSaveCoach(t *testing.T) {
	store := newMemStore(coachID)
	deps := CoachDeps{CoachStore: store, GenerateID: fixedID, Now: fixedNow}

	c, err := ExecuteSaveCoach(context.Background(), SaveCoachInput{
		Name: "Mere", Email: "mere@sportsschool.test", Phone: "+64 21 555 0102", Specialties: []string{"swimming"},
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Status != coach.StatusActive {
		t.Errorf("expected active coach, got %s", c.Status)
	}

	_, err = ExecuteSaveCoach(context.Background(), SaveCoachInput{Name: "Bad", Email: "not-an-email", Phone: "12"}, deps)
	fields, ok := validation.FieldErrors(err)
	if !ok || fields["email"] == "" || fields["phone"] == "" {
		t.Errorf("expected email and phone errors, got %v", err)
	}
}

// TestExecuteSetCoachStatus verifies activate/deactivate transitions.
func TestExecuteSetCoachStatus(t *testing.T) {
	store := newMemStore(coachID, coach.Coach{ID: "c1", Name: "Casey", Email: "c@x.test", Status: coach.StatusActive})
	deps := CoachDeps{CoachStore: store, GenerateID: fixedID, Now: fixedNow}

	c, err := ExecuteSetCoachStatus(context.Background(), SetStatusInput{ID: "c1", Action: ActionDeactivate}, deps)
	if err != nil || c.Status != coach.StatusInactive {
		t.Fatalf("deactivate = %+v, %v", c, err)
	}
	if _, err := ExecuteSetCoachStatus(context.Background(), SetStatusInput{ID: "c1", Action: ActionDeactivate}, deps); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := ExecuteSetCoachStatus(context.Background(), SetStatusInput{ID: "c1", Action: ActionArchive}, deps); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
}

// TestExecuteSaveStudent verifies optional contact fields are checked only when present.
func TestExecuteSaveStudent(t *testing.T) {
	store := newMemStore(studentID)
	deps := StudentDeps{StudentStore: store, GenerateID: fixedID, Now: fixedNow}

	s, err := ExecuteSaveStudent(context.Background(), SaveStudentInput{Name: "Aroha", Groups: []string{"under-12"}}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Status != student.StatusActive {
		t.Errorf("expected active student, got %s", s.Status)
	}

	_, err = ExecuteSaveStudent(context.Background(), SaveStudentInput{Name: "Ben", Email: "ben@", Groups: []string{"under-99"}}, deps)
	fields, ok := validation.FieldErrors(err)
	if !ok || fields["email"] == "" || fields["groups"] == "" {
		t.Errorf("expected email and groups errors, got %v", err)
	}
}

// TestExecuteSetStudentStatus verifies the archive lifecycle.
func TestExecuteSetStudentStatus(t *testing.T) {
	store := newMemStore(studentID, student.Student{ID: "s1", Name: "Aroha", Status: student.StatusActive})
	deps := StudentDeps{StudentStore: store, GenerateID: fixedID, Now: fixedNow}
	ctx := context.Background()

	tests := []struct {
		action  string
		want    string
		wantErr error
	}{
		{ActionArchive, student.StatusArchived, nil},
		{ActionActivate, "", ErrInvalidTransition},
		{ActionRestore, student.StatusActive, nil},
		{ActionDeactivate, student.StatusInactive, nil},
		{ActionRestore, "", ErrInvalidTransition},
		{"expel", "", ErrUnknownAction},
	}
	for _, tt := range tests {
		s, err := ExecuteSetStudentStatus(ctx, SetStatusInput{ID: "s1", Action: tt.action}, deps)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("%s: expected %v, got %v", tt.action, tt.wantErr, err)
			}
			continue
		}
		if err != nil || s.Status != tt.want {
			t.Errorf("%s: got %s, %v; want %s", tt.action, s.Status, err, tt.want)
		}
	}
}
