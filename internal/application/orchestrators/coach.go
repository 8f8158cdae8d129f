package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sportsschool/internal/domain/coach"
)

// CoachStoreForOrchestrator defines the store interface needed by coach orchestrators.
type CoachStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (coach.Coach, error)
	Save(ctx context.Context, c coach.Coach) error
}

// Activation actions shared by coaches and students
const (
	ActionActivate   = "activate"
	ActionDeactivate = "deactivate"
)

// SaveCoachInput carries input for the save coach orchestrator.
// An empty ID creates a new active coach.
type SaveCoachInput struct {
	ID          string   `json:"-"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Specialties []string `json:"specialties"`
	Bio         string   `json:"bio"`
	ActorID     string   `json:"-"`
}

// CoachDeps holds dependencies for the coach orchestrators.
type CoachDeps struct {
	CoachStore CoachStoreForOrchestrator
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteSaveCoach creates or updates a coach.
// PRE: For updates, the coach exists
// POST: Coach persisted; status is unchanged on update
func ExecuteSaveCoach(ctx context.Context, input SaveCoachInput, deps CoachDeps) (coach.Coach, error) {
	now := deps.Now()

	var c coach.Coach
	if input.ID == "" {
		c = coach.Coach{ID: deps.GenerateID(), Status: coach.StatusActive, CreatedAt: now}
	} else {
		existing, err := deps.CoachStore.GetByID(ctx, input.ID)
		if err != nil {
			return coach.Coach{}, err
		}
		c = existing
	}

	c.Name = strings.TrimSpace(input.Name)
	c.Email = strings.TrimSpace(input.Email)
	c.Phone = strings.TrimSpace(input.Phone)
	c.Specialties = input.Specialties
	c.Bio = input.Bio
	c.UpdatedAt = now

	if err := c.Validate(); err != nil {
		return coach.Coach{}, err
	}
	if err := deps.CoachStore.Save(ctx, c); err != nil {
		return coach.Coach{}, err
	}

	slog.Info("coach_event", "event", "coach_saved", "coach_id", c.ID, "actor", input.ActorID)
	return c, nil
}

// ExecuteSetCoachStatus activates or deactivates a coach.
// PRE: ID names an existing coach; Action is activate or deactivate
// POST: Status changed and persisted, or ErrInvalidTransition returned
func ExecuteSetCoachStatus(ctx context.Context, input SetStatusInput, deps CoachDeps) (coach.Coach, error) {
	if input.ID == "" {
		return coach.Coach{}, ErrIDRequired
	}
	c, err := deps.CoachStore.GetByID(ctx, input.ID)
	if err != nil {
		return coach.Coach{}, err
	}

	switch input.Action {
	case ActionActivate:
		err = c.Activate()
	case ActionDeactivate:
		err = c.Deactivate()
	default:
		return coach.Coach{}, ErrUnknownAction
	}
	if err != nil {
		return coach.Coach{}, fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	}
	c.UpdatedAt = deps.Now()

	if err := deps.CoachStore.Save(ctx, c); err != nil {
		return coach.Coach{}, err
	}

	slog.Info("coach_event", "event", "coach_"+c.Status, "coach_id", c.ID, "actor", input.ActorID)
	return c, nil
}
