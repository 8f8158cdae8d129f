package attendance

import (
	"errors"
	"time"

	"sportsschool/internal/domain/validation"
)

// Mark statuses
const (
	MarkPresent = "present"
	MarkAbsent  = "absent"
	MarkLate    = "late"
	MarkExcused = "excused"
)

// MarkStatuses lists every mark in display order.
var MarkStatuses = []string{MarkPresent, MarkAbsent, MarkLate, MarkExcused}

// ErrNoMarks is returned when a sheet is saved without any student rows.
var ErrNoMarks = errors.New("attendance sheet has no students")

// Mark records one student's attendance at a session.
type Mark struct {
	StudentID   string `json:"student_id" validate:"required"`
	StudentName string `json:"student_name,omitempty"`
	Status      string `json:"status" validate:"oneof=present absent late excused"`
}

// Session is a single training session for a group and its attendance sheet.
type Session struct {
	ID        string    `json:"id"`
	Group     string    `json:"group" form:"group" validate:"required,max=50"`
	Date      string    `json:"date" form:"date" validate:"required,datetime=2006-01-02"`
	CoachID   string    `json:"coach_id" form:"coach_id"`
	CoachName string    `json:"coach_name,omitempty"`
	Notes     string    `json:"notes" form:"notes" validate:"max=1000"`
	Marks     []Mark    `json:"marks" form:"marks" validate:"dive"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary counts marks by status.
type Summary struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	Excused int `json:"excused"`
}

// Validate checks if the Session has valid data.
// PRE: Session struct is initialized
// POST: Returns validation.Errors if validation fails, nil otherwise
// INVARIANT: every mark is one of the four statuses
func (s *Session) Validate() error {
	return validation.Struct(s).Err()
}

// StatusOf returns the status recorded for studentID, or "" if the student is not on the sheet.
func (s *Session) StatusOf(studentID string) string {
	for _, m := range s.Marks {
		if m.StudentID == studentID {
			return m.Status
		}
	}
	return ""
}

// SetMark records status for studentID, appending the student if absent from the sheet.
// POST: exactly one mark exists for studentID
func (s *Session) SetMark(studentID, status string) {
	for i := range s.Marks {
		if s.Marks[i].StudentID == studentID {
			s.Marks[i].Status = status
			return
		}
	}
	s.Marks = append(s.Marks, Mark{StudentID: studentID, Status: status})
}

// Summarize counts the session's marks.
func (s *Session) Summarize() Summary {
	var sum Summary
	for _, m := range s.Marks {
		sum.Total++
		switch m.Status {
		case MarkPresent:
			sum.Present++
		case MarkAbsent:
			sum.Absent++
		case MarkLate:
			sum.Late++
		case MarkExcused:
			sum.Excused++
		}
	}
	return sum
}

// Attended returns the number of students who turned up. Late counts as attended.
func (s Summary) Attended() int {
	return s.Present + s.Late
}

// Rate returns attended over expected as a percentage. Excused students are not expected.
func (s Summary) Rate() float64 {
	expected := s.Total - s.Excused
	if expected <= 0 {
		return 0
	}
	return float64(s.Attended()) * 100 / float64(expected)
}

// SortKeys are the list columns a session list may be sorted by.
var SortKeys = []string{"date", "group", "coach"}
