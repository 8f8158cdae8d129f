package assessment_test

import (
	"testing"

	"sportsschool/internal/domain/assessment"
	"sportsschool/internal/domain/validation"
)

// TestAssessment_Validate verifies score range and required fields.
func TestAssessment_Validate(t *testing.T) {
	tests := []struct {
		name      string
		a         assessment.Assessment
		wantField string
	}{
		{name: "valid", a: assessment.Assessment{StudentID: "s1", Skill: "technique", Score: 7, AssessedOn: "2026-05-01"}},
		{name: "zero score allowed", a: assessment.Assessment{StudentID: "s1", Skill: "fitness", Score: 0, AssessedOn: "2026-05-01"}},
		{name: "score too high", a: assessment.Assessment{StudentID: "s1", Skill: "fitness", Score: 11, AssessedOn: "2026-05-01"}, wantField: "score"},
		{name: "negative score", a: assessment.Assessment{StudentID: "s1", Skill: "fitness", Score: -1, AssessedOn: "2026-05-01"}, wantField: "score"},
		{name: "missing student", a: assessment.Assessment{Skill: "fitness", AssessedOn: "2026-05-01"}, wantField: "student_id"},
		{name: "missing skill", a: assessment.Assessment{StudentID: "s1", AssessedOn: "2026-05-01"}, wantField: "skill"},
		{name: "missing date", a: assessment.Assessment{StudentID: "s1", Skill: "tactics"}, wantField: "assessed_on"},
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
			if !ok || fe[tt.wantField] == "" {
				t.Errorf("Validate() = %v, want error on %q", err, tt.wantField)
			}
		})
	}
}

// TestAssessment_Band verifies score bucketing.
func TestAssessment_Band(t *testing.T) {
	for score, want := range map[int]string{10: "strong", 8: "strong", 5: "developing", 4: "emerging", 0: "emerging"} {
		a := assessment.Assessment{Score: score}
		if got := a.Band(); got != want {
			t.Errorf("Band(%d) = %q, want %q", score, got, want)
		}
	}
}
