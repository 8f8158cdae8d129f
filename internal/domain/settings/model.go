package settings

import (
	"time"
	_ "time/tzdata" // timezone validation must not depend on the host zoneinfo

	"sportsschool/internal/domain/validation"
)

// Page sizes the school may choose as its list default.
var PageSizes = []int{10, 20, 50, 100}

// Languages, digest frequencies and dashboard widgets offered on the preferences form.
var (
	Languages         = []string{"en", "es", "fr"}
	DigestFrequencies = []string{"off", "daily", "weekly"}
	Widgets           = []string{"announcements", "attendance", "finance", "assessments"}
)

// School is the single school-wide settings record.
type School struct {
	SchoolName      string    `json:"school_name" form:"school_name" validate:"required,max=120"`
	ContactEmail    string    `json:"contact_email" form:"contact_email" validate:"required,email"`
	ContactPhone    string    `json:"contact_phone" form:"contact_phone" validate:"omitempty,phone"`
	Currency        string    `json:"currency" form:"currency" validate:"required,len=3,uppercase"`
	Timezone        string    `json:"timezone" form:"timezone" validate:"required,timezone"`
	DefaultPageSize int       `json:"default_page_size" form:"default_page_size" validate:"oneof=10 20 50 100"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DefaultSchool returns the record served before an admin saves settings.
func DefaultSchool() School {
	return School{
		SchoolName:      "Sports School",
		ContactEmail:    "office@sportsschool.test",
		Currency:        "NZD",
		Timezone:        "Pacific/Auckland",
		DefaultPageSize: 20,
	}
}

// Validate checks if the School settings have valid data.
// PRE: School struct is populated
// POST: Returns validation.Errors if validation fails, nil otherwise
func (s *School) Validate() error {
	return validation.Struct(s).Err()
}

// Preferences are per-account portal choices.
type Preferences struct {
	AccountID          string    `json:"account_id"`
	Language           string    `json:"language" form:"language" validate:"oneof=en es fr"`
	EmailNotifications bool      `json:"email_notifications" form:"email_notifications"`
	DigestFrequency    string    `json:"digest_frequency" form:"digest_frequency" validate:"oneof=off daily weekly"`
	DashboardWidgets   []string  `json:"dashboard_widgets" form:"dashboard_widgets" validate:"dive,oneof=announcements attendance finance assessments"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// DefaultPreferences returns the preferences of an account that never saved any.
func DefaultPreferences(accountID string) Preferences {
	return Preferences{
		AccountID:          accountID,
		Language:           "en",
		EmailNotifications: true,
		DigestFrequency:    "weekly",
		DashboardWidgets:   []string{"announcements", "attendance"},
	}
}

// Validate checks if the Preferences have valid data.
func (p *Preferences) Validate() error {
	return validation.Struct(p).Err()
}

// ShowsWidget reports whether the dashboard should render widget.
func (p *Preferences) ShowsWidget(widget string) bool {
	for _, w := range p.DashboardWidgets {
		if w == widget {
			return true
		}
	}
	return false
}
