package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sportsschool/internal/domain/student"
)

// StudentStoreForOrchestrator defines the store interface needed by student orchestrators.
type StudentStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (student.Student, error)
	Save(ctx context.Context, s student.Student) error
}

// Archive actions
const (
	ActionArchive = "archive"
	ActionRestore = "restore"
)

// SaveStudentInput carries input for the save student orchestrator.
// An empty ID enrols a new active student.
type SaveStudentInput struct {
	ID            string   `json:"-"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	GuardianName  string   `json:"guardian_name"`
	GuardianPhone string   `json:"guardian_phone"`
	Groups        []string `json:"groups"`
	BirthDate     string   `json:"birth_date"`
	ActorID       string   `json:"-"`
}

// StudentDeps holds dependencies for the student orchestrators.
type StudentDeps struct {
	StudentStore StudentStoreForOrchestrator
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteSaveStudent creates or updates a student.
// PRE: For updates, the student exists
// POST: Student persisted; status is unchanged on update
func ExecuteSaveStudent(ctx context.Context, input SaveStudentInput, deps StudentDeps) (student.Student, error) {
	now := deps.Now()

	var s student.Student
	if input.ID == "" {
		s = student.Student{ID: deps.GenerateID(), Status: student.StatusActive, CreatedAt: now}
	} else {
		existing, err := deps.StudentStore.GetByID(ctx, input.ID)
		if err != nil {
			return student.Student{}, err
		}
		s = existing
	}

	s.Name = strings.TrimSpace(input.Name)
	s.Email = strings.TrimSpace(input.Email)
	s.Phone = strings.TrimSpace(input.Phone)
	s.GuardianName = strings.TrimSpace(input.GuardianName)
	s.GuardianPhone = strings.TrimSpace(input.GuardianPhone)
	s.Groups = input.Groups
	s.BirthDate = strings.TrimSpace(input.BirthDate)
	s.UpdatedAt = now

	if err := s.Validate(); err != nil {
		return student.Student{}, err
	}
	if err := deps.StudentStore.Save(ctx, s); err != nil {
		return student.Student{}, err
	}

	slog.Info("student_event", "event", "student_saved", "student_id", s.ID, "actor", input.ActorID)
	return s, nil
}

// ExecuteSetStudentStatus archives, restores, activates or deactivates a student.
// PRE: ID names an existing student
// POST: Status changed and persisted, or ErrInvalidTransition returned
func ExecuteSetStudentStatus(ctx context.Context, input SetStatusInput, deps StudentDeps) (student.Student, error) {
	if input.ID == "" {
		return student.Student{}, ErrIDRequired
	}
	s, err := deps.StudentStore.GetByID(ctx, input.ID)
	if err != nil {
		return student.Student{}, err
	}

	switch input.Action {
	case ActionArchive:
		err = s.Archive()
	case ActionRestore:
		err = s.Restore()
	case ActionActivate:
		err = s.Activate()
	case ActionDeactivate:
		err = s.Deactivate()
	default:
		return student.Student{}, ErrUnknownAction
	}
	if err != nil {
		return student.Student{}, fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	}
	s.UpdatedAt = deps.Now()

	if err := deps.StudentStore.Save(ctx, s); err != nil {
		return student.Student{}, err
	}

	slog.Info("student_event", "event", "student_"+input.Action, "student_id", s.ID, "status", s.Status, "actor", input.ActorID)
	return s, nil
}
