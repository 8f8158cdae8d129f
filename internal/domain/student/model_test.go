package student_test

import (
	"errors"
	"testing"

	"sportsschool/internal/domain/student"
	"sportsschool/internal/domain/validation"
)

// TestStudentValidation tests validation of Student.
func TestStudentValidation(t *testing.T) {
	valid := func() student.Student {
		return student.Student{
			Name:      "Ana Lima",
			Email:     "ana@example.com",
			Phone:     "+64 21 555 0101",
			Groups:    []string{"under-12"},
			BirthDate: "2015-03-09",
			Status:    student.StatusActive,
		}
	}
	tests := []struct {
		name      string
		mutate    func(*student.Student)
		wantField string
	}{
		{name: "valid student", mutate: func(*student.Student) {}},
		{name: "optional contact omitted", mutate: func(s *student.Student) { s.Email, s.Phone = "", "" }},
		{name: "empty name", mutate: func(s *student.Student) { s.Name = "" }, wantField: "name"},
		{name: "invalid email", mutate: func(s *student.Student) { s.Email = "not-an-email" }, wantField: "email"},
		{name: "invalid phone", mutate: func(s *student.Student) { s.Phone = "call me" }, wantField: "phone"},
		{name: "invalid guardian phone", mutate: func(s *student.Student) { s.GuardianPhone = "12" }, wantField: "guardian_phone"},
		{name: "unknown group", mutate: func(s *student.Student) { s.Groups = []string{"masters"} }, wantField: "groups"},
		{name: "bad birth date", mutate: func(s *student.Student) { s.BirthDate = "09/03/2015" }, wantField: "birth_date"},
		{name: "invalid status", mutate: func(s *student.Student) { s.Status = "invalid" }, wantField: "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			fe, ok := validation.FieldErrors(err)
			if !ok || fe[tt.wantField] == "" {
				t.Errorf("Validate() = %v, want error on %q", err, tt.wantField)
			}
		})
	}
}

// TestStudentStatusTransitions tests archive, restore, activate and deactivate rules.
func TestStudentStatusTransitions(t *testing.T) {
	s := student.Student{Status: student.StatusActive}

	if err := s.Activate(); !errors.Is(err, student.ErrAlreadyActive) {
		t.Errorf("Activate(active) = %v", err)
	}
	if err := s.Deactivate(); err != nil || s.Status != student.StatusInactive {
		t.Fatalf("Deactivate() = %v, status %s", err, s.Status)
	}
	if err := s.Archive(); err != nil || !s.IsArchived() {
		t.Fatalf("Archive() = %v, status %s", err, s.Status)
	}
	if err := s.Archive(); !errors.Is(err, student.ErrAlreadyArchived) {
		t.Errorf("Archive(archived) = %v", err)
	}
	if err := s.Activate(); !errors.Is(err, student.ErrAlreadyArchived) {
		t.Errorf("Activate(archived) = %v", err)
	}
	if err := s.Restore(); err != nil || !s.IsActive() {
		t.Fatalf("Restore() = %v, status %s", err, s.Status)
	}
	if err := s.Restore(); !errors.Is(err, student.ErrNotArchived) {
		t.Errorf("Restore(active) = %v", err)
	}
}
