package orchestrators

import (
	"context"
	"errors"
	"testing"

	"sportsschool/internal/adapters/storage"
	"sportsschool/internal/domain/announcement"
	"sportsschool/internal/domain/validation"
)

func announcementID(a announcement.Announcement) string { return a.ID }

// TestExecuteSaveAnnouncement_CreatesDraft verifies a new announcement starts as a draft.
func TestExecuteSaveAnnouncement_CreatesDraft(t *testing.T) {
	store := newMemStore(announcementID)
	a, err := ExecuteSaveAnnouncement(context.Background(), SaveAnnouncementInput{
		Title:    "  Winter term  ",
		Content:  "**Monday** 4pm",
		Audience: []string{"students", "parents"},
		ActorID:  "admin-001",
	}, SaveAnnouncementDeps{AnnouncementStore: store, GenerateID: fixedID, Now: fixedNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID != "test-id-001" || a.Status != announcement.StatusDraft || a.Title != "Winter term" {
		t.Errorf("unexpected announcement: %+v", a)
	}
	if a.CreatedBy != "admin-001" || !a.CreatedAt.Equal(fixedTime) {
		t.Errorf("expected creator and timestamps, got %+v", a)
	}
	if _, ok := store.items["test-id-001"]; !ok {
		t.Error("expected announcement to be persisted")
	}
}

// TestExecuteSaveAnnouncement_EmptyTitleNotSaved verifies a field error and no persistence.
func TestExecuteSaveAnnouncement_EmptyTitleNotSaved(t *testing.T) {
	store := newMemStore(announcementID)
	_, err := ExecuteSaveAnnouncement(context.Background(), SaveAnnouncementInput{
		Content:  "Body",
		Audience: []string{"staff"},
	}, SaveAnnouncementDeps{AnnouncementStore: store, GenerateID: fixedID, Now: fixedNow})
	fields, ok := validation.FieldErrors(err)
	if !ok || fields["title"] == "" {
		t.Fatalf("expected title field error, got %v", err)
	}
	if store.saves != 0 {
		t.Errorf("expected no save, got %d", store.saves)
	}
}

// TestExecuteSaveAnnouncement_UpdateKeepsStatus verifies editing a published announcement keeps it published.
func TestExecuteSaveAnnouncement_UpdateKeepsStatus(t *testing.T) {
	store := newMemStore(announcementID, announcement.Announcement{
		ID: "a1", Title: "Old", Content: "Old", Audience: []string{"staff"}, Status: announcement.StatusPublished, CreatedBy: "admin-001",
	})
	a, err := ExecuteSaveAnnouncement(context.Background(), SaveAnnouncementInput{
		ID: "a1", Title: "New", Content: "New", Audience: []string{"coaches"}, Pinned: true,
	}, SaveAnnouncementDeps{AnnouncementStore: store, GenerateID: fixedID, Now: fixedNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != announcement.StatusPublished || a.CreatedBy != "admin-001" || !a.Pinned || a.Title != "New" {
		t.Errorf("unexpected announcement: %+v", a)
	}
}

// TestExecuteSaveAnnouncement_UnknownID verifies not-found passes through.
func TestExecuteSaveAnnouncement_UnknownID(t *testing.T) {
	_, err := ExecuteSaveAnnouncement(context.Background(), SaveAnnouncementInput{ID: "missing"},
		SaveAnnouncementDeps{AnnouncementStore: newMemStore(announcementID), GenerateID: fixedID, Now: fixedNow})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// TestExecuteSetAnnouncementStatus verifies publish and unpublish transitions.
func TestExecuteSetAnnouncementStatus(t *testing.T) {
	store := newMemStore(announcementID, announcement.Announcement{ID: "a1", Status: announcement.StatusDraft})
	deps := SetAnnouncementStatusDeps{AnnouncementStore: store, Now: fixedNow}
	ctx := context.Background()

	a, err := ExecuteSetAnnouncementStatus(ctx, SetStatusInput{ID: "a1", Action: ActionPublish}, deps)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !a.IsPublished() || !a.PublishedAt.Equal(fixedTime) {
		t.Errorf("expected published at fixed time, got %+v", a)
	}

	if _, err := ExecuteSetAnnouncementStatus(ctx, SetStatusInput{ID: "a1", Action: ActionPublish}, deps); !errors.Is(err, ErrInvalidTransition) || !errors.Is(err, announcement.ErrAlreadyPublished) {
		t.Errorf("expected wrapped ErrAlreadyPublished, got %v", err)
	}

	a, err = ExecuteSetAnnouncementStatus(ctx, SetStatusInput{ID: "a1", Action: ActionUnpublish}, deps)
	if err != nil || a.IsPublished() {
		t.Errorf("unpublish = %+v, %v", a, err)
	}

	if _, err := ExecuteSetAnnouncementStatus(ctx, SetStatusInput{ID: "a1", Action: "delete"}, deps); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
	if _, err := ExecuteSetAnnouncementStatus(ctx, SetStatusInput{}, deps); !errors.Is(err, ErrIDRequired) {
		t.Errorf("expected ErrIDRequired, got %v", err)
	}
}
