package api

import (
	"net/http"
	"time"

	"sportsschool/internal/application/orchestrators"
	"sportsschool/internal/application/projections"
	"sportsschool/internal/domain/settings"
)

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Account   Principal `json:"account"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var input orchestrators.LoginInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	result, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{
		AccountStore: h.stores.Accounts,
		Now:          h.now,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	p := Principal{AccountID: result.AccountID, Email: result.Email, Name: result.Name, Role: result.Role}
	token, expires, err := h.tokens.Issue(p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, LoginResponse{Token: token, ExpiresAt: expires, Account: p})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, principal(r))
}

func (h *Handler) settingsQueryDeps() projections.GetSettingsDeps {
	return projections.GetSettingsDeps{SettingsStore: h.stores.Settings}
}

func (h *Handler) settingsDeps() orchestrators.SettingsDeps {
	return orchestrators.SettingsDeps{SettingsStore: h.stores.Settings, Now: h.now}
}

func (h *Handler) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := projections.QueryGetPreferences(r.Context(), principal(r).AccountID, h.settingsQueryDeps())
	respondResult(w, r, http.StatusOK, prefs, err)
}

func (h *Handler) handleSavePreferences(w http.ResponseWriter, r *http.Request) {
	var input settings.Preferences
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	prefs, err := orchestrators.ExecuteSavePreferences(r.Context(), input, principal(r).AccountID, h.settingsDeps())
	respondResult(w, r, http.StatusOK, prefs, err)
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	school, err := projections.QueryGetSchoolSettings(r.Context(), h.settingsQueryDeps())
	respondResult(w, r, http.StatusOK, school, err)
}

func (h *Handler) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var input settings.School
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	school, err := orchestrators.ExecuteSaveSchoolSettings(r.Context(), input, principal(r).AccountID, h.settingsDeps())
	respondResult(w, r, http.StatusOK, school, err)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	p := principal(r)
	result, err := projections.QueryGetDashboard(r.Context(), projections.GetDashboardQuery{
		AccountID: p.AccountID,
		Role:      p.Role,
	}, projections.GetDashboardDeps{
		AnnouncementStore: h.stores.Announcements,
		AssessmentStore:   h.stores.Assessments,
		ReportStore:       h.stores.Reports,
		SettingsStore:     h.stores.Settings,
		Now:               h.now,
	})
	respondResult(w, r, http.StatusOK, result, err)
}
