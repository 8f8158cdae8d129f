package projections

import (
	"context"
	"errors"

	"sportsschool/internal/adapters/storage"
	domainSettings "sportsschool/internal/domain/settings"
)

// GetSettingsDeps holds dependencies for the settings projections.
type GetSettingsDeps struct {
	SettingsStore SettingsStore
}

// QueryGetSchoolSettings returns the school settings, or the defaults when
// none have been saved yet.
// POST: Returns a School that passes Validate
func QueryGetSchoolSettings(ctx context.Context, deps GetSettingsDeps) (domainSettings.School, error) {
	s, err := deps.SettingsStore.GetSchool(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return domainSettings.DefaultSchool(), nil
	}
	return s, err
}

// QueryGetPreferences returns an account's preferences, or the defaults when
// the account never saved any.
// PRE: accountID is non-empty
func QueryGetPreferences(ctx context.Context, accountID string, deps GetSettingsDeps) (domainSettings.Preferences, error) {
	p, err := deps.SettingsStore.GetPreferences(ctx, accountID)
	if errors.Is(err, storage.ErrNotFound) {
		return domainSettings.DefaultPreferences(accountID), nil
	}
	return p, err
}
