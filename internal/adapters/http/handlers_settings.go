package web

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"sportsschool/internal/adapters/backend"
	"sportsschool/internal/adapters/http/perf"
	"sportsschool/internal/application/formsession"
	"sportsschool/internal/application/formstate"
	"sportsschool/internal/domain/access"
	"sportsschool/internal/domain/settings"
	"sportsschool/internal/domain/validation"
)

// --- School settings ---

func pageSizeChoices() []formsession.Choice {
	out := make([]formsession.Choice, len(settings.PageSizes))
	for i, n := range settings.PageSizes {
		s := strconv.Itoa(n)
		out[i] = formsession.Choice{Value: s, Label: s + " rows"}
	}
	return out
}

var schoolFields = []field{
	{Name: "school_name", Label: "School name", Type: fieldText, Required: true},
	{Name: "contact_email", Label: "Contact email", Type: fieldEmail, Required: true},
	{Name: "contact_phone", Label: "Contact phone", Type: fieldTel},
	{Name: "currency", Label: "Currency", Type: fieldText, Required: true, Help: "Three-letter code, e.g. NZD"},
	{Name: "timezone", Label: "Timezone", Type: fieldText, Required: true, Help: "IANA name, e.g. Pacific/Auckland"},
	{Name: "default_page_size", Label: "Rows per page", Type: fieldSelect, Options: pageSizeChoices()},
}

func schoolFromValues(v formstate.Values) settings.School {
	size, _ := intField(v, "default_page_size")
	return settings.School{
		SchoolName:      v.Get("school_name"),
		ContactEmail:    v.Get("contact_email"),
		ContactPhone:    v.Get("contact_phone"),
		Currency:        v.Get("currency"),
		Timezone:        v.Get("timezone"),
		DefaultPageSize: size,
	}
}

var schoolForm = registerForm(formDef{
	Kind:     "school_settings",
	Title:    "School settings",
	ListPath: "/",
	EditCap:  access.EditSettings,
	Fields:   schoolFields,
	Open: func(ctx context.Context, c *backend.Client, _ string, _ url.Values) (openedForm, error) {
		s, err := c.SchoolSettings(ctx)
		if err != nil {
			return openedForm{}, err
		}
		return openedForm{
			Schema: schemaOf(schoolFields),
			Values: formstate.Values{
				"school_name":       {s.SchoolName},
				"contact_email":     {s.ContactEmail},
				"contact_phone":     {s.ContactPhone},
				"currency":          {s.Currency},
				"timezone":          {s.Timezone},
				"default_page_size": {strconv.Itoa(s.DefaultPageSize)},
			},
		}, nil
	},
	Validate: func(v formstate.Values) map[string]string {
		s := schoolFromValues(v)
		return mergeErrors(validation.Struct(&s), nil)
	},
	Persist: func(ctx context.Context, c *backend.Client, _ string, v formstate.Values) error {
		_, err := c.SaveSchoolSettings(ctx, schoolFromValues(v))
		return err
	},
})

// --- My preferences ---

var preferenceFields = []field{
	{Name: "language", Label: "Language", Type: fieldSelect, Options: []formsession.Choice{
		{Value: "en", Label: "English"}, {Value: "es", Label: "Español"}, {Value: "fr", Label: "Français"},
	}},
	{Name: "email_notifications", Label: "Email me about new announcements", Type: fieldCheckbox},
	{Name: "digest_frequency", Label: "Digest", Type: fieldSelect, Options: choicesOf(settings.DigestFrequencies)},
	{Name: "dashboard_widgets", Label: "Dashboard widgets", Type: fieldCheckboxes, Options: choicesOf(settings.Widgets)},
}

func preferencesFromValues(v formstate.Values) settings.Preferences {
	return settings.Preferences{
		Language:           v.Get("language"),
		EmailNotifications: isChecked(v, "email_notifications"),
		DigestFrequency:    v.Get("digest_frequency"),
		DashboardWidgets:   v.List("dashboard_widgets"),
	}
}

var preferencesForm = registerForm(formDef{
	Kind:     "preferences",
	Title:    "Preferences",
	ListPath: "/",
	Fields:   preferenceFields,
	Open: func(ctx context.Context, c *backend.Client, _ string, _ url.Values) (openedForm, error) {
		p, err := c.Preferences(ctx)
		if err != nil {
			return openedForm{}, err
		}
		return openedForm{
			Schema: schemaOf(preferenceFields),
			Values: formstate.Values{
				"language":            {p.Language},
				"email_notifications": boolValues(p.EmailNotifications),
				"digest_frequency":    {p.DigestFrequency},
				"dashboard_widgets":   p.DashboardWidgets,
			},
		}, nil
	},
	Validate: func(v formstate.Values) map[string]string {
		p := preferencesFromValues(v)
		return mergeErrors(validation.Struct(&p), nil)
	},
	Persist: func(ctx context.Context, c *backend.Client, _ string, v formstate.Values) error {
		if v.List("dashboard_widgets") == nil {
			v = v.Clone()
			v["dashboard_widgets"] = []string{}
		}
		_, err := c.SavePreferences(ctx, preferencesFromValues(v))
		return err
	},
})

// --- Diagnostics ---

// handleAdminPerf handles GET /admin/perf.
// Shows the portal's own timings beside the API's (window minutes, default 15).
func handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	if !sess.Can(access.ViewDiagnostics) {
		redirectAccessDenied(w, r)
		return
	}
	window := 15
	if v, err := strconv.Atoi(r.URL.Query().Get("window")); err == nil && v > 0 {
		window = v
	}
	var portal perf.Snapshot
	if perfCollector != nil {
		portal = perfCollector.Snapshot(timeNow().Add(-time.Duration(window)*time.Minute), 10)
	}
	data := map[string]any{
		"Title":  "Performance",
		"Window": window,
		"Portal": portal,
	}
	apiSnap, err := backendFor(sess).Perf(r.Context())
	if err != nil {
		if backend.IsForbidden(err) || backend.IsUnauthorized(err) {
			renderFailure(w, r, err, backLink{})
			return
		}
		data["APIError"] = backend.Message(err, defaultFailureMessage)
	} else {
		data["API"] = apiSnap
	}
	renderTemplate(w, r, "perf.html", data)
}
