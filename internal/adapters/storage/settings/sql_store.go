package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sportsschool/internal/adapters/storage"
	domain "sportsschool/internal/domain/settings"
)

// schoolRowID is the primary key of the single school_settings row.
const schoolRowID = 1

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new settings store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// GetSchool returns the saved school settings.
// POST: Returns an error wrapping storage.ErrNotFound until SaveSchool has run once
func (s *SQLStore) GetSchool(ctx context.Context) (domain.School, error) {
	var sc domain.School
	var updatedAt string
	err := s.db.QueryRowContext(ctx, `SELECT school_name, contact_email, contact_phone, currency, timezone, default_page_size, updated_at
		FROM school_settings WHERE id = ?`, schoolRowID).
		Scan(&sc.SchoolName, &sc.ContactEmail, &sc.ContactPhone, &sc.Currency, &sc.Timezone, &sc.DefaultPageSize, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.School{}, fmt.Errorf("school settings: %w", storage.ErrNotFound)
	}
	if err != nil {
		return domain.School{}, err
	}
	sc.UpdatedAt = storage.ParseTime(updatedAt)
	return sc, nil
}

// SaveSchool replaces the school settings.
// PRE: value has been validated
func (s *SQLStore) SaveSchool(ctx context.Context, sc domain.School) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO school_settings (id, school_name, contact_email, contact_phone, currency, timezone, default_page_size, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET school_name=excluded.school_name, contact_email=excluded.contact_email,
			contact_phone=excluded.contact_phone, currency=excluded.currency, timezone=excluded.timezone,
			default_page_size=excluded.default_page_size, updated_at=excluded.updated_at`,
		schoolRowID, sc.SchoolName, sc.ContactEmail, sc.ContactPhone, sc.Currency, sc.Timezone, sc.DefaultPageSize,
		storage.FormatTime(sc.UpdatedAt),
	)
	return err
}

// GetPreferences returns the preferences saved for accountID.
// POST: Returns an error wrapping storage.ErrNotFound if none were saved
func (s *SQLStore) GetPreferences(ctx context.Context, accountID string) (domain.Preferences, error) {
	var p domain.Preferences
	var notifications int
	var widgets, updatedAt string
	err := s.db.QueryRowContext(ctx, `SELECT account_id, language, email_notifications, digest_frequency, dashboard_widgets, updated_at
		FROM preferences WHERE account_id = ?`, accountID).
		Scan(&p.AccountID, &p.Language, &notifications, &p.DigestFrequency, &widgets, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Preferences{}, fmt.Errorf("preferences %s: %w", accountID, storage.ErrNotFound)
	}
	if err != nil {
		return domain.Preferences{}, err
	}
	p.EmailNotifications = notifications != 0
	p.DashboardWidgets = storage.DecodeList(widgets)
	p.UpdatedAt = storage.ParseTime(updatedAt)
	return p, nil
}

// SavePreferences replaces the preferences for value.AccountID.
// PRE: value has been validated, AccountID is non-empty
func (s *SQLStore) SavePreferences(ctx context.Context, p domain.Preferences) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO preferences (account_id, language, email_notifications, digest_frequency, dashboard_widgets, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(account_id) DO UPDATE SET language=excluded.language, email_notifications=excluded.email_notifications,
			digest_frequency=excluded.digest_frequency, dashboard_widgets=excluded.dashboard_widgets, updated_at=excluded.updated_at`,
		p.AccountID, p.Language, storage.Bool(p.EmailNotifications), p.DigestFrequency, storage.EncodeList(p.DashboardWidgets),
		storage.FormatTime(p.UpdatedAt),
	)
	return err
}
