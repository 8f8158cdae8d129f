package coach

import (
	"errors"
	"time"

	"sportsschool/internal/domain/validation"
)

// Coach statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Statuses lists every coach status in display order.
var Statuses = []string{StatusActive, StatusInactive}

// Specialties a coach can be listed under.
var Specialties = []string{"athletics", "football", "gymnastics", "swimming", "tennis", "conditioning"}

// Domain errors
var (
	ErrAlreadyActive   = errors.New("coach is already active")
	ErrAlreadyInactive = errors.New("coach is already inactive")
)

// Coach is a member of coaching staff.
type Coach struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id,omitempty"`
	Name        string    `json:"name" form:"name" validate:"required,max=100"`
	Email       string    `json:"email" form:"email" validate:"required,email,max=254"`
	Phone       string    `json:"phone" form:"phone" validate:"omitempty,phone"`
	Specialties []string  `json:"specialties" form:"specialties" validate:"dive,oneof=athletics football gymnastics swimming tennis conditioning"`
	Bio         string    `json:"bio" form:"bio" validate:"max=2000"`
	Status      string    `json:"status" form:"status" validate:"oneof=active inactive"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks if the Coach has valid data.
// PRE: Coach struct is initialized
// POST: Returns validation.Errors if validation fails, nil otherwise
func (c *Coach) Validate() error {
	return validation.Struct(c).Err()
}

// IsActive returns true if the coach can be assigned to sessions.
func (c *Coach) IsActive() bool {
	return c.Status == StatusActive
}

// Activate marks the coach active.
// PRE: Coach is inactive
// POST: Status is active
func (c *Coach) Activate() error {
	if c.IsActive() {
		return ErrAlreadyActive
	}
	c.Status = StatusActive
	return nil
}

// Deactivate marks the coach inactive.
// PRE: Coach is active
// POST: Status is inactive
func (c *Coach) Deactivate() error {
	if !c.IsActive() {
		return ErrAlreadyInactive
	}
	c.Status = StatusInactive
	return nil
}

// SortKeys are the list columns a coach list may be sorted by.
var SortKeys = []string{"name", "email", "status"}
