package student

import (
	"errors"
	"time"

	"sportsschool/internal/domain/validation"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Business rule constants
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusArchived = "archived"
)

// Statuses lists every student status in display order.
var Statuses = []string{StatusActive, StatusInactive, StatusArchived}

// Groups are the training groups a student can be enrolled in.
var Groups = []string{"under-8", "under-10", "under-12", "under-14", "under-16", "senior", "squad"}

// Domain errors
var (
	ErrAlreadyArchived = errors.New("student is already archived")
	ErrNotArchived     = errors.New("student is not archived")
	ErrAlreadyActive   = errors.New("student is already active")
	ErrAlreadyInactive = errors.New("student is already inactive")
)

// Student is an enrolled athlete.
type Student struct {
	ID            string    `json:"id"`
	Name          string    `json:"name" form:"name" validate:"required,max=100"`
	Email         string    `json:"email" form:"email" validate:"omitempty,email"`
	Phone         string    `json:"phone" form:"phone" validate:"omitempty,phone"`
	GuardianName  string    `json:"guardian_name" form:"guardian_name" validate:"max=100"`
	GuardianPhone string    `json:"guardian_phone" form:"guardian_phone" validate:"omitempty,phone"`
	Groups        []string  `json:"groups" form:"groups" validate:"dive,oneof=under-8 under-10 under-12 under-14 under-16 senior squad"`
	BirthDate     string    `json:"birth_date" form:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Status        string    `json:"status" form:"status" validate:"oneof=active inactive archived"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Validate checks if the Student has valid data.
// PRE: Student struct is initialized
// POST: Returns validation.Errors if validation fails, nil otherwise
// INVARIANT: Name must not be empty, contact fields must be well-formed when present
func (s *Student) Validate() error {
	return validation.Struct(s).Err()
}

// IsActive returns true if the student is currently active.
// INVARIANT: Status field is not mutated
func (s *Student) IsActive() bool {
	return s.Status == StatusActive
}

// IsArchived returns true if the student is archived.
// INVARIANT: Status field is not mutated
func (s *Student) IsArchived() bool {
	return s.Status == StatusArchived
}

// InGroup reports whether the student trains with group.
func (s *Student) InGroup(group string) bool {
	for _, g := range s.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// Archive sets the student status to archived.
// PRE: Student is not already archived
// POST: Status is set to archived
func (s *Student) Archive() error {
	if s.Status == StatusArchived {
		return ErrAlreadyArchived
	}
	s.Status = StatusArchived
	return nil
}

// Restore sets the student status back to active.
// PRE: Student is currently archived
// POST: Status is set to active
func (s *Student) Restore() error {
	if s.Status != StatusArchived {
		return ErrNotArchived
	}
	s.Status = StatusActive
	return nil
}

// Deactivate pauses an active student without archiving them.
func (s *Student) Deactivate() error {
	switch s.Status {
	case StatusInactive:
		return ErrAlreadyInactive
	case StatusArchived:
		return ErrAlreadyArchived
	}
	s.Status = StatusInactive
	return nil
}

// Activate returns an inactive student to active.
func (s *Student) Activate() error {
	switch s.Status {
	case StatusActive:
		return ErrAlreadyActive
	case StatusArchived:
		return ErrAlreadyArchived
	}
	s.Status = StatusActive
	return nil
}

// SortKeys are the list columns a student list may be sorted by.
var SortKeys = []string{"name", "email", "status", "birth_date"}
