package coach_test

import (
	"context"
	"testing"

	store "sportsschool/internal/adapters/storage/coach"
	"sportsschool/internal/adapters/storage/storagetest"
	domain "sportsschool/internal/domain/coach"
)

// TestSQLStore_SaveListCount verifies persistence and specialty filtering.
func TestSQLStore_SaveListCount(t *testing.T) {
	s := store.NewSQLStore(storagetest.Open(t))
	ctx := context.Background()
	for _, c := range []domain.Coach{
		{ID: "c1", Name: "Sam Reid", Email: "sam@school.test", Specialties: []string{"swimming"}, Status: "active"},
		{ID: "c2", Name: "Alex Moana", Email: "alex@school.test", Specialties: []string{"football", "conditioning"}, Status: "inactive"},
	} {
		if err := s.Save(ctx, c); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := s.GetByID(ctx, "c2")
	if err != nil || len(got.Specialties) != 2 || got.Status != "inactive" {
		t.Fatalf("GetByID = %+v, %v", got, err)
	}

	list, err := s.List(ctx, store.ListFilter{})
	if err != nil || len(list) != 2 || list[0].ID != "c2" {
		t.Errorf("List ordered by name = %v, %v", list, err)
	}
	list, _ = s.List(ctx, store.ListFilter{Specialty: "swimming"})
	if len(list) != 1 || list[0].ID != "c1" {
		t.Errorf("List(specialty) = %v", list)
	}
	n, _ := s.Count(ctx, store.ListFilter{Search: "SCHOOL.TEST"})
	if n != 2 {
		t.Errorf("Count(search) = %d, want 2", n)
	}
}
