package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"sportsschool/internal/adapters/storage"
	"sportsschool/internal/domain/attendance"
	"sportsschool/internal/domain/coach"
	"sportsschool/internal/domain/validation"
)

// AttendanceStoreForOrchestrator defines the store interface needed by attendance orchestrators.
type AttendanceStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (attendance.Session, error)
	Save(ctx context.Context, s attendance.Session) error
}

// CoachLookup resolves the coach a session or assessment refers to.
type CoachLookup interface {
	GetByID(ctx context.Context, id string) (coach.Coach, error)
}

// SaveAttendanceInput carries input for the save attendance orchestrator.
// An empty ID records a new session.
type SaveAttendanceInput struct {
	ID      string            `json:"-"`
	Group   string            `json:"group"`
	Date    string            `json:"date"`
	CoachID string            `json:"coach_id"`
	Notes   string            `json:"notes"`
	Marks   []attendance.Mark `json:"marks"`
	ActorID string            `json:"-"`
}

// SaveAttendanceDeps holds dependencies for SaveAttendance.
type SaveAttendanceDeps struct {
	AttendanceStore AttendanceStoreForOrchestrator
	StudentStore    StudentLookup
	CoachStore      CoachLookup
	GenerateID      func() string
	Now             func() time.Time
}

// ExecuteSaveAttendance records a session sheet, replacing any previous marks.
// PRE: For updates, the session exists
// POST: Session and marks persisted
// INVARIANT: every marked student exists; a student is marked at most once
func ExecuteSaveAttendance(ctx context.Context, input SaveAttendanceInput, deps SaveAttendanceDeps) (attendance.Session, error) {
	now := deps.Now()

	var s attendance.Session
	if input.ID == "" {
		s = attendance.Session{ID: deps.GenerateID(), CreatedAt: now}
	} else {
		existing, err := deps.AttendanceStore.GetByID(ctx, input.ID)
		if err != nil {
			return attendance.Session{}, err
		}
		s = existing
	}

	s.Group = strings.TrimSpace(input.Group)
	s.Date = strings.TrimSpace(input.Date)
	s.CoachID = strings.TrimSpace(input.CoachID)
	s.Notes = input.Notes
	s.Marks = nil
	for _, m := range input.Marks {
		s.SetMark(m.StudentID, m.Status)
	}
	s.UpdatedAt = now

	errs := validation.Errors{}
	if verrs, ok := validation.FieldErrors(s.Validate()); ok {
		for k, v := range verrs {
			errs.Add(k, v)
		}
	}
	if len(s.Marks) == 0 {
		errs.Add("marks", attendance.ErrNoMarks.Error())
	}
	if _, bad := errs["marks"]; !bad {
		for i, m := range s.Marks {
			st, err := deps.StudentStore.GetByID(ctx, m.StudentID)
			if errors.Is(err, storage.ErrNotFound) {
				errs.Add("marks", "Unknown student "+m.StudentID)
				break
			}
			if err != nil {
				return attendance.Session{}, err
			}
			s.Marks[i].StudentName = st.Name
		}
	}
	if s.CoachID != "" {
		c, err := deps.CoachStore.GetByID(ctx, s.CoachID)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			errs.Add("coach_id", "Unknown coach")
		case err != nil:
			return attendance.Session{}, err
		default:
			s.CoachName = c.Name
		}
	}
	if err := errs.Err(); err != nil {
		return attendance.Session{}, err
	}

	if err := deps.AttendanceStore.Save(ctx, s); err != nil {
		return attendance.Session{}, err
	}

	sum := s.Summarize()
	slog.Info("attendance_event", "event", "session_recorded", "session_id", s.ID, "group", s.Group, "date", s.Date,
		"present", sum.Present, "absent", sum.Absent, "late", sum.Late, "excused", sum.Excused, "actor", input.ActorID)
	return s, nil
}
