package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"sportsschool/internal/adapters/backend"
	"sportsschool/internal/adapters/http/middleware"
	"sportsschool/internal/application/navguard"
	"sportsschool/internal/application/resource"
)

// handleLoginPage handles GET /login.
func handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, "login.html", map[string]any{
		"Title": "Sign in",
		"Next":  navguard.SafeTarget(r.URL.Query().Get("next"), "/"),
	})
}

// handleLogin handles POST /login.
// PRE: email and password form fields present; CSRF token present.
// POST: portal session created holding the API token; redirects to next.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	next := navguard.SafeTarget(r.FormValue("next"), "/")

	fail := func(status int, message string) {
		renderTemplateStatus(w, r, status, "login.html", map[string]any{
			"Title": "Sign in",
			"Email": email,
			"Next":  next,
			"Error": message,
		})
	}
	if email == "" || password == "" {
		fail(http.StatusUnprocessableEntity, "Enter your email and password.")
		return
	}

	login, err := apiClient.Login(r.Context(), email, password)
	if err != nil {
		var be *backend.Error
		if errors.As(err, &be) && be.Status > 0 && be.Status < 500 {
			slog.Info("auth_event", "event", "login_failed", "email", email, "code", be.Code)
			fail(http.StatusUnauthorized, backend.Message(err, "Email or password is incorrect."))
			return
		}
		slog.Warn("backend_failure", "path", r.URL.Path, "error", err)
		fail(http.StatusBadGateway, defaultFailureMessage)
		return
	}

	sess, err := sessions.Create(middleware.Session{
		AccountID:    login.Account.ID,
		Email:        login.Account.Email,
		Name:         login.Account.Name,
		Role:         login.Account.Role,
		BackendToken: login.Token,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, sess.Token)
	slog.Info("auth_event", "event", "login", "account_id", sess.AccountID, "role", sess.Role)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// handleLogout handles POST /logout.
// POST: portal session and every open form of the account are discarded.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		sessions.Delete(sess.Token)
		forms.CloseAccount(sess.AccountID)
		slog.Info("auth_event", "event", "logout", "account_id", sess.AccountID)
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleAccessDenied handles GET /access-denied.
func handleAccessDenied(w http.ResponseWriter, r *http.Request) {
	renderTemplateStatus(w, r, http.StatusForbidden, "access_denied.html", map[string]any{
		"Title": "Access denied",
	})
}

// handleDashboard handles GET /.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		renderNotFound(w, r, backLink{})
		return
	}
	client := backendFor(currentSession(r))
	res := resource.Load(r.Context(), client.Dashboard)
	if renderResult(w, r, res, backLink{}) {
		return
	}
	renderTemplate(w, r, "dashboard.html", map[string]any{
		"Title":     "Dashboard",
		"Dashboard": res.Data,
	})
}
