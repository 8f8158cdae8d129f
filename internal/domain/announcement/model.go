package announcement

import (
	"errors"
	"time"

	"sportsschool/internal/domain/validation"
)

// Announcement statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Audiences an announcement can target.
const (
	AudienceStudents = "students"
	AudienceCoaches  = "coaches"
	AudienceParents  = "parents"
	AudienceStaff    = "staff"
)

// Audiences lists every audience in display order.
var Audiences = []string{AudienceStudents, AudienceParents, AudienceCoaches, AudienceStaff}

// Statuses lists every status in display order.
var Statuses = []string{StatusDraft, StatusPublished}

// MaxTitleLength bounds the title field.
const MaxTitleLength = 200

// Domain errors
var (
	ErrAlreadyPublished = errors.New("announcement is already published")
	ErrNotPublished     = errors.New("announcement is not published")
)

// Announcement is a school-wide message for one or more audiences.
// Content is Markdown.
type Announcement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" form:"title" validate:"required,max=200"`
	Content     string    `json:"content" form:"content" validate:"required"`
	Audience    []string  `json:"audience" form:"audience" validate:"min=1,dive,oneof=students parents coaches staff"`
	Pinned      bool      `json:"pinned" form:"pinned"`
	Status      string    `json:"status" form:"status" validate:"oneof=draft published"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	PublishedAt time.Time `json:"published_at"`
}

// Validate checks if the Announcement has valid data.
// PRE: Announcement struct is populated
// POST: Returns nil if valid, validation.Errors otherwise
func (a *Announcement) Validate() error {
	return validation.Struct(a).Err()
}

// IsPublished returns true if the announcement is visible to its audience.
// INVARIANT: Status field is not mutated
func (a *Announcement) IsPublished() bool {
	return a.Status == StatusPublished
}

// Publish moves the announcement from draft to published.
// PRE: Announcement is in draft state
// POST: Status is published, PublishedAt is set
func (a *Announcement) Publish(now time.Time) error {
	if a.IsPublished() {
		return ErrAlreadyPublished
	}
	a.Status = StatusPublished
	a.PublishedAt = now
	return nil
}

// Unpublish returns a published announcement to draft.
// PRE: Announcement is published
// POST: Status is draft, PublishedAt is zeroed
func (a *Announcement) Unpublish() error {
	if !a.IsPublished() {
		return ErrNotPublished
	}
	a.Status = StatusDraft
	a.PublishedAt = time.Time{}
	return nil
}

// TargetsAudience reports whether the announcement addresses audience.
func (a *Announcement) TargetsAudience(audience string) bool {
	for _, v := range a.Audience {
		if v == audience {
			return true
		}
	}
	return false
}

// SortKeys are the list columns an announcement list may be sorted by.
var SortKeys = []string{"title", "status", "created_at", "updated_at"}
