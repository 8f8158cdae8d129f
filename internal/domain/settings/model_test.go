package settings_test

import (
	"testing"

	"sportsschool/internal/domain/settings"
	"sportsschool/internal/domain/validation"
)

// TestSchool_Validate verifies school settings rules.
func TestSchool_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*settings.School)
		wantField string
	}{
		{name: "defaults are valid", mutate: func(*settings.School) {}},
		{name: "missing name", mutate: func(s *settings.School) { s.SchoolName = "" }, wantField: "school_name"},
		{name: "bad email", mutate: func(s *settings.School) { s.ContactEmail = "office" }, wantField: "contact_email"},
		{name: "lowercase currency", mutate: func(s *settings.School) { s.Currency = "nzd" }, wantField: "currency"},
		{name: "unknown timezone", mutate: func(s *settings.School) { s.Timezone = "Mars/Olympus" }, wantField: "timezone"},
		{name: "odd page size", mutate: func(s *settings.School) { s.DefaultPageSize = 25 }, wantField: "default_page_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := settings.DefaultSchool()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			fe, ok := validation.FieldErrors(err)
			if !ok || fe[tt.wantField] == "" {
				t.Errorf("Validate() = %v, want error on %q", err, tt.wantField)
			}
		})
	}
}

// TestPreferences_Validate verifies preference enumerations.
func TestPreferences_Validate(t *testing.T) {
	p := settings.DefaultPreferences("acc-1")
	if err := p.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if !p.ShowsWidget("attendance") || p.ShowsWidget("finance") {
		t.Errorf("ShowsWidget mismatch for %v", p.DashboardWidgets)
	}

	p.Language = "de"
	p.DigestFrequency = "hourly"
	p.DashboardWidgets = []string{"weather"}
	fe, ok := validation.FieldErrors(p.Validate())
	if !ok {
		t.Fatal("expected field errors")
	}
	for _, field := range []string{"language", "digest_frequency", "dashboard_widgets"} {
		if fe[field] == "" {
			t.Errorf("expected error on %q, got %v", field, fe)
		}
	}
}
