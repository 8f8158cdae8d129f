package announcement_test

import (
	"errors"
	"testing"
	"time"

	"sportsschool/internal/domain/announcement"
	"sportsschool/internal/domain/validation"
)

// TestAnnouncement_Validate tests validation of Announcement.
func TestAnnouncement_Validate(t *testing.T) {
	tests := []struct {
		name      string
		a         announcement.Announcement
		wantField string
	}{
		{
			name: "valid",
			a: announcement.Announcement{Title: "Pool closed", Content: "No swimming Friday.",
				Audience: []string{announcement.AudienceStudents}, Status: announcement.StatusDraft},
		},
		{
			name: "empty title",
			a: announcement.Announcement{Content: "Body", Audience: []string{announcement.AudienceStaff},
				Status: announcement.StatusDraft},
			wantField: "title",
		},
		{
			name:      "empty content",
			a:         announcement.Announcement{Title: "T", Audience: []string{"staff"}, Status: "draft"},
			wantField: "content",
		},
		{
			name:      "no audience",
			a:         announcement.Announcement{Title: "T", Content: "C", Status: "draft"},
			wantField: "audience",
		},
		{
			name:      "unknown audience",
			a:         announcement.Announcement{Title: "T", Content: "C", Audience: []string{"aliens"}, Status: "draft"},
			wantField: "audience",
		},
		{
			name:      "bad status",
			a:         announcement.Announcement{Title: "T", Content: "C", Audience: []string{"staff"}, Status: "bogus"},
			wantField: "status",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.a.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			fe, ok := validation.FieldErrors(err)
			if !ok {
				t.Fatalf("expected field errors, got %v", err)
			}
			if fe[tt.wantField] == "" {
				t.Errorf("expected error on %q, got %v", tt.wantField, fe)
			}
		})
	}
}

// TestAnnouncement_PublishLifecycle tests Publish and Unpublish transitions.
func TestAnnouncement_PublishLifecycle(t *testing.T) {
	now := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)
	a := announcement.Announcement{Status: announcement.StatusDraft}

	if err := a.Unpublish(); !errors.Is(err, announcement.ErrNotPublished) {
		t.Errorf("Unpublish(draft) = %v, want ErrNotPublished", err)
	}
	if err := a.Publish(now); err != nil {
		t.Fatalf("Publish() unexpected error: %v", err)
	}
	if !a.IsPublished() || !a.PublishedAt.Equal(now) {
		t.Errorf("expected published at %v, got %s at %v", now, a.Status, a.PublishedAt)
	}
	if err := a.Publish(now); !errors.Is(err, announcement.ErrAlreadyPublished) {
		t.Errorf("Publish(published) = %v, want ErrAlreadyPublished", err)
	}
	if err := a.Unpublish(); err != nil {
		t.Fatalf("Unpublish() unexpected error: %v", err)
	}
	if a.IsPublished() || !a.PublishedAt.IsZero() {
		t.Error("expected draft with zero PublishedAt")
	}
}

// TestAnnouncement_TargetsAudience verifies audience membership checks.
func TestAnnouncement_TargetsAudience(t *testing.T) {
	a := announcement.Announcement{Audience: []string{"parents", "coaches"}}
	if !a.TargetsAudience("parents") || a.TargetsAudience("students") {
		t.Errorf("TargetsAudience mismatch for %v", a.Audience)
	}
}
