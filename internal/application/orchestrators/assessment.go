package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"sportsschool/internal/adapters/storage"
	"sportsschool/internal/domain/assessment"
	"sportsschool/internal/domain/validation"
)

// AssessmentStoreForOrchestrator defines the store interface needed by assessment orchestrators.
type AssessmentStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (assessment.Assessment, error)
	Save(ctx context.Context, a assessment.Assessment) error
}

// SaveAssessmentInput carries input for the save assessment orchestrator.
// An empty ID records a new assessment.
type SaveAssessmentInput struct {
	ID         string `json:"-"`
	StudentID  string `json:"student_id"`
	CoachID    string `json:"coach_id"`
	Skill      string `json:"skill"`
	Score      int    `json:"score"`
	Notes      string `json:"notes"`
	AssessedOn string `json:"assessed_on"`
	ActorID    string `json:"-"`
}

// SaveAssessmentDeps holds dependencies for SaveAssessment.
type SaveAssessmentDeps struct {
	AssessmentStore AssessmentStoreForOrchestrator
	StudentStore    StudentLookup
	CoachStore      CoachLookup
	GenerateID      func() string
	Now             func() time.Time
}

// ExecuteSaveAssessment creates or updates a skill assessment.
// PRE: For updates, the assessment exists
// POST: Assessment persisted
// INVARIANT: the student exists; the coach exists when given
func ExecuteSaveAssessment(ctx context.Context, input SaveAssessmentInput, deps SaveAssessmentDeps) (assessment.Assessment, error) {
	now := deps.Now()

	var a assessment.Assessment
	if input.ID == "" {
		a = assessment.Assessment{ID: deps.GenerateID(), CreatedAt: now}
	} else {
		existing, err := deps.AssessmentStore.GetByID(ctx, input.ID)
		if err != nil {
			return assessment.Assessment{}, err
		}
		a = existing
	}

	a.StudentID = strings.TrimSpace(input.StudentID)
	a.CoachID = strings.TrimSpace(input.CoachID)
	a.Skill = input.Skill
	a.Score = input.Score
	a.Notes = input.Notes
	a.AssessedOn = strings.TrimSpace(input.AssessedOn)
	a.UpdatedAt = now

	errs := validation.Errors{}
	if verrs, ok := validation.FieldErrors(a.Validate()); ok {
		for k, v := range verrs {
			errs.Add(k, v)
		}
	}
	if _, bad := errs["student_id"]; !bad {
		st, err := deps.StudentStore.GetByID(ctx, a.StudentID)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			errs.Add("student_id", "Unknown student")
		case err != nil:
			return assessment.Assessment{}, err
		default:
			a.StudentName = st.Name
		}
	}
	if a.CoachID != "" {
		c, err := deps.CoachStore.GetByID(ctx, a.CoachID)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			errs.Add("coach_id", "Unknown coach")
		case err != nil:
			return assessment.Assessment{}, err
		default:
			a.CoachName = c.Name
		}
	}
	if err := errs.Err(); err != nil {
		return assessment.Assessment{}, err
	}

	if err := deps.AssessmentStore.Save(ctx, a); err != nil {
		return assessment.Assessment{}, err
	}

	slog.Info("assessment_event", "event", "assessment_saved", "assessment_id", a.ID, "student_id", a.StudentID, "skill", a.Skill, "score", a.Score, "actor", input.ActorID)
	return a, nil
}
