package web

import (
	"log/slog"
	"net/http"

	"sportsschool/internal/adapters/backend"
	"sportsschool/internal/adapters/http/middleware"
	"sportsschool/internal/application/resource"
)

// defaultFailureMessage is shown when the backend gives no usable message.
const defaultFailureMessage = "Something went wrong while talking to the server. Please try again."

// backLink points a not-found page at the list the user came from.
type backLink struct {
	URL   string
	Label string
}

// redirectAccessDenied sends the browser to the access-denied page, replacing
// the current entry: 303 for page loads, a JSON hint for script calls.
func redirectAccessDenied(w http.ResponseWriter, r *http.Request) {
	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusForbidden, map[string]string{"redirect": "/access-denied"})
		return
	}
	http.Redirect(w, r, "/access-denied", http.StatusSeeOther)
}

// redirectLogin ends a portal session whose API token was rejected.
func redirectLogin(w http.ResponseWriter, r *http.Request) {
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		sessions.Delete(sess.Token)
		forms.CloseAccount(sess.AccountID)
	}
	middleware.ClearSessionCookie(w)
	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"redirect": "/login"})
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// renderFailure renders a failed backend call and reports whether it did.
// Forbidden redirects to /access-denied, NotFound renders a 404 page linking
// back to the parent list, anything else renders a banner with a Retry link.
// An expired API token signs the user out.
// POST: returns false and writes nothing when err is nil
func renderFailure(w http.ResponseWriter, r *http.Request, err error, back backLink) bool {
	if err == nil {
		return false
	}
	if backend.IsUnauthorized(err) {
		slog.Info("auth_event", "event", "backend_token_rejected", "path", r.URL.Path)
		redirectLogin(w, r)
		return true
	}
	switch resource.Classify(err) {
	case resource.Forbidden:
		slog.Warn("auth_denied", "path", r.URL.Path, "role", currentSession(r).Role)
		redirectAccessDenied(w, r)
	case resource.NotFound:
		renderNotFound(w, r, back)
	default:
		slog.Warn("backend_failure", "path", r.URL.Path, "error", err)
		if !isHTMLRequest(r) {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": backend.Message(err, defaultFailureMessage)})
			return true
		}
		renderTemplateStatus(w, r, http.StatusBadGateway, "error.html", map[string]any{
			"Title":    "Something went wrong",
			"Banner":   backend.Message(err, defaultFailureMessage),
			"RetryURL": r.URL.RequestURI(),
			"Back":     back,
		})
	}
	return true
}

// renderResult renders a non-OK Result and reports whether it did.
func renderResult[T any](w http.ResponseWriter, r *http.Request, res resource.Result[T], back backLink) bool {
	if res.OK() {
		return false
	}
	return renderFailure(w, r, res.Err, back)
}

func renderNotFound(w http.ResponseWriter, r *http.Request, back backLink) {
	if back.URL == "" {
		back = backLink{URL: "/", Label: "Dashboard"}
	}
	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found", "back": back.URL})
		return
	}
	renderTemplateStatus(w, r, http.StatusNotFound, "not_found.html", map[string]any{
		"Title": "Not found",
		"Back":  back,
	})
}
