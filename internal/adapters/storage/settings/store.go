package settings

import (
	"context"

	domain "sportsschool/internal/domain/settings"
)

// Store persists school settings and per-account preferences.
type Store interface {
	GetSchool(ctx context.Context) (domain.School, error)
	SaveSchool(ctx context.Context, value domain.School) error
	GetPreferences(ctx context.Context, accountID string) (domain.Preferences, error)
	SavePreferences(ctx context.Context, value domain.Preferences) error
}
