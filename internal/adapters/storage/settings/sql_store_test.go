package settings_test

import (
	"context"
	"errors"
	"testing"

	"sportsschool/internal/adapters/storage"
	store "sportsschool/internal/adapters/storage/settings"
	"sportsschool/internal/adapters/storage/storagetest"
	domain "sportsschool/internal/domain/settings"
)

// TestSQLStore_School verifies the single settings row is created then replaced.
func TestSQLStore_School(t *testing.T) {
	s := store.NewSQLStore(storagetest.Open(t))
	ctx := context.Background()

	if _, err := s.GetSchool(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("GetSchool before save = %v, want ErrNotFound", err)
	}
	sc := domain.DefaultSchool()
	if err := s.SaveSchool(ctx, sc); err != nil {
		t.Fatalf("SaveSchool: %v", err)
	}
	sc.SchoolName = "Harbour Sports"
	sc.DefaultPageSize = 50
	if err := s.SaveSchool(ctx, sc); err != nil {
		t.Fatalf("SaveSchool update: %v", err)
	}
	got, err := s.GetSchool(ctx)
	if err != nil || got.SchoolName != "Harbour Sports" || got.DefaultPageSize != 50 {
		t.Errorf("GetSchool = %+v, %v", got, err)
	}
}

// TestSQLStore_Preferences verifies per-account preferences round-trip.
func TestSQLStore_Preferences(t *testing.T) {
	s := store.NewSQLStore(storagetest.Open(t))
	ctx := context.Background()

	if _, err := s.GetPreferences(ctx, "acc-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("GetPreferences before save = %v", err)
	}
	p := domain.DefaultPreferences("acc-1")
	p.EmailNotifications = false
	p.DashboardWidgets = []string{"finance"}
	if err := s.SavePreferences(ctx, p); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}
	got, err := s.GetPreferences(ctx, "acc-1")
	if err != nil || got.EmailNotifications || !got.ShowsWidget("finance") || got.Language != "en" {
		t.Errorf("GetPreferences = %+v, %v", got, err)
	}
}
