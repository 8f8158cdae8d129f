package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sportsschool/internal/domain/announcement"
)

// AnnouncementStoreForOrchestrator defines the store interface needed by announcement orchestrators.
type AnnouncementStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (announcement.Announcement, error)
	Save(ctx context.Context, a announcement.Announcement) error
}

// Announcement status actions
const (
	ActionPublish   = "publish"
	ActionUnpublish = "unpublish"
)

// --- Save Announcement ---

// SaveAnnouncementInput carries input for the save announcement orchestrator.
// An empty ID creates a new draft.
type SaveAnnouncementInput struct {
	ID       string   `json:"-"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Audience []string `json:"audience"`
	Pinned   bool     `json:"pinned"`
	ActorID  string   `json:"-"`
}

// SaveAnnouncementDeps holds dependencies for SaveAnnouncement.
type SaveAnnouncementDeps struct {
	AnnouncementStore AnnouncementStoreForOrchestrator
	GenerateID        func() string
	Now               func() time.Time
}

// ExecuteSaveAnnouncement creates a draft or updates the editable fields of an existing announcement.
// PRE: For updates, the announcement exists
// POST: Announcement persisted; status is unchanged on update
func ExecuteSaveAnnouncement(ctx context.Context, input SaveAnnouncementInput, deps SaveAnnouncementDeps) (announcement.Announcement, error) {
	now := deps.Now()

	var a announcement.Announcement
	if input.ID == "" {
		a = announcement.Announcement{
			ID:        deps.GenerateID(),
			Status:    announcement.StatusDraft,
			CreatedBy: input.ActorID,
			CreatedAt: now,
		}
	} else {
		existing, err := deps.AnnouncementStore.GetByID(ctx, input.ID)
		if err != nil {
			return announcement.Announcement{}, err
		}
		a = existing
	}

	a.Title = strings.TrimSpace(input.Title)
	a.Content = input.Content
	a.Audience = input.Audience
	a.Pinned = input.Pinned
	a.UpdatedAt = now

	if err := a.Validate(); err != nil {
		return announcement.Announcement{}, err
	}
	if err := deps.AnnouncementStore.Save(ctx, a); err != nil {
		return announcement.Announcement{}, err
	}

	event := "announcement_updated"
	if input.ID == "" {
		event = "announcement_created"
	}
	slog.Info("announcement_event", "event", event, "announcement_id", a.ID, "actor", input.ActorID)
	return a, nil
}

// --- Set Announcement Status ---

// SetStatusInput carries input for the status toggle orchestrators.
type SetStatusInput struct {
	ID      string `json:"-"`
	Action  string `json:"action"`
	ActorID string `json:"-"`
}

// SetAnnouncementStatusDeps holds dependencies for SetAnnouncementStatus.
type SetAnnouncementStatusDeps struct {
	AnnouncementStore AnnouncementStoreForOrchestrator
	Now               func() time.Time
}

// ExecuteSetAnnouncementStatus publishes or unpublishes an announcement.
// PRE: ID names an existing announcement; Action is publish or unpublish
// POST: Status changed and persisted, or ErrInvalidTransition returned
func ExecuteSetAnnouncementStatus(ctx context.Context, input SetStatusInput, deps SetAnnouncementStatusDeps) (announcement.Announcement, error) {
	if input.ID == "" {
		return announcement.Announcement{}, ErrIDRequired
	}
	a, err := deps.AnnouncementStore.GetByID(ctx, input.ID)
	if err != nil {
		return announcement.Announcement{}, err
	}

	now := deps.Now()
	switch input.Action {
	case ActionPublish:
		err = a.Publish(now)
	case ActionUnpublish:
		err = a.Unpublish()
	default:
		return announcement.Announcement{}, ErrUnknownAction
	}
	if err != nil {
		return announcement.Announcement{}, fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	}
	a.UpdatedAt = now

	if err := deps.AnnouncementStore.Save(ctx, a); err != nil {
		return announcement.Announcement{}, err
	}

	slog.Info("announcement_event", "event", "announcement_"+input.Action+"ed", "announcement_id", a.ID, "actor", input.ActorID)
	return a, nil
}
