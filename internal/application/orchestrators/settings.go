package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"sportsschool/internal/domain/settings"
)

// SettingsStoreForOrchestrator defines the store interface needed by settings orchestrators.
type SettingsStoreForOrchestrator interface {
	SaveSchool(ctx context.Context, s settings.School) error
	SavePreferences(ctx context.Context, p settings.Preferences) error
}

// SettingsDeps holds dependencies for the settings orchestrators.
type SettingsDeps struct {
	SettingsStore SettingsStoreForOrchestrator
	Now           func() time.Time
}

// ExecuteSaveSchoolSettings validates and stores the school-wide settings.
// PRE: none
// POST: Settings persisted with UpdatedAt set
func ExecuteSaveSchoolSettings(ctx context.Context, input settings.School, actorID string, deps SettingsDeps) (settings.School, error) {
	s := input
	s.SchoolName = strings.TrimSpace(s.SchoolName)
	s.ContactEmail = strings.TrimSpace(s.ContactEmail)
	s.ContactPhone = strings.TrimSpace(s.ContactPhone)
	s.Currency = strings.TrimSpace(s.Currency)
	s.Timezone = strings.TrimSpace(s.Timezone)
	s.UpdatedAt = deps.Now()

	if err := s.Validate(); err != nil {
		return settings.School{}, err
	}
	if err := deps.SettingsStore.SaveSchool(ctx, s); err != nil {
		return settings.School{}, err
	}

	slog.Info("settings_event", "event", "school_settings_saved", "actor", actorID)
	return s, nil
}

// ExecuteSavePreferences validates and stores one account's preferences.
// PRE: accountID is the authenticated account
// POST: Preferences persisted under accountID regardless of input.AccountID
func ExecuteSavePreferences(ctx context.Context, input settings.Preferences, accountID string, deps SettingsDeps) (settings.Preferences, error) {
	p := input
	p.AccountID = accountID
	p.UpdatedAt = deps.Now()

	if err := p.Validate(); err != nil {
		return settings.Preferences{}, err
	}
	if err := deps.SettingsStore.SavePreferences(ctx, p); err != nil {
		return settings.Preferences{}, err
	}

	slog.Info("settings_event", "event", "preferences_saved", "account_id", accountID)
	return p, nil
}
