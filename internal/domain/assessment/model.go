package assessment

import (
	"time"

	"sportsschool/internal/domain/validation"
)

// Score bounds
const (
	MinScore = 0
	MaxScore = 10
)

// Skills that coaches assess.
var Skills = []string{"technique", "fitness", "tactics", "teamwork", "attitude"}

// Assessment is a coach's scored observation of one student skill.
type Assessment struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id" form:"student_id" validate:"required"`
	StudentName string    `json:"student_name,omitempty"`
	CoachID     string    `json:"coach_id" form:"coach_id"`
	CoachName   string    `json:"coach_name,omitempty"`
	Skill       string    `json:"skill" form:"skill" validate:"required,oneof=technique fitness tactics teamwork attitude"`
	Score       int       `json:"score" form:"score" validate:"gte=0,lte=10"`
	Notes       string    `json:"notes" form:"notes" validate:"max=2000"`
	AssessedOn  string    `json:"assessed_on" form:"assessed_on" validate:"required,datetime=2006-01-02"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks if the Assessment has valid data.
// PRE: Assessment struct is initialized
// POST: Returns validation.Errors if validation fails, nil otherwise
func (a *Assessment) Validate() error {
	return validation.Struct(a).Err()
}

// Band buckets the score for display.
func (a *Assessment) Band() string {
	switch {
	case a.Score >= 8:
		return "strong"
	case a.Score >= 5:
		return "developing"
	default:
		return "emerging"
	}
}

// SortKeys are the list columns an assessment list may be sorted by.
var SortKeys = []string{"assessed_on", "score", "skill", "student"}
