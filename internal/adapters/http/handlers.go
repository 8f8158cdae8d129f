package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"sportsschool/internal/adapters/backend"
	"sportsschool/internal/adapters/http/middleware"
	"sportsschool/internal/application/listview"
	"sportsschool/internal/application/navguard"
	"sportsschool/internal/domain/access"
	"sportsschool/internal/domain/invoice"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 64<<10))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return accept == "" || strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("internal_error", "error", err.Error())
	}
}

// backendFor returns the API client acting as the signed-in user.
func backendFor(sess middleware.Session) *backend.Client {
	return apiClient.WithToken(sess.BackendToken)
}

// currentSession returns the session set by Auth. Routes behind RequireAuth always have one.
func currentSession(r *http.Request) middleware.Session {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	return sess
}

const flashCookieName = "portal_flash"

// setFlash stores a one-shot message shown on the next rendered page.
func setFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(message),
		Path:     "/",
		HttpOnly: true,
		Secure:   middleware.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   60,
	})
}

// takeFlash reads and clears the flash message.
func takeFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookieName)
	if err != nil || c.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookieName, Path: "/", MaxAge: -1})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// leaveURL routes an in-app link through the form's navigation guard.
func leaveURL(formID, target string) string {
	return "/forms/" + url.PathEscape(formID) + "/leave?to=" + url.QueryEscape(navguard.SafeTarget(target, "/"))
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data map[string]any) {
	renderTemplateStatus(w, r, http.StatusOK, templateName, data)
}

// renderTemplateStatus renders templateName inside the layout.
// When data carries a FormID, every link built with the "link" func goes through
// the form's leave endpoint so the navigation guard sees it.
func renderTemplateStatus(w http.ResponseWriter, r *http.Request, status int, templateName string, data map[string]any) {
	sess, loggedIn := middleware.GetSessionFromContext(r.Context())
	if data == nil {
		data = map[string]any{}
	}
	formID, _ := data["FormID"].(string)
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = takeFlash(w, r)
	}

	funcMap := template.FuncMap{
		"currentRole":  func() string { return string(sess.Role) },
		"currentName":  func() string { return sess.Name },
		"currentEmail": func() string { return sess.Email },
		"isLoggedIn":   func() bool { return loggedIn },
		"can": func(capability string) bool {
			return loggedIn && access.Can(sess.Role, access.Capability(capability))
		},
		"csrfToken":      func() string { return csrf.Token(r) },
		"csrfField":      func() template.HTML { return csrf.TemplateField(r) },
		"themeCSS":       themeCSS,
		"renderMarkdown": renderMarkdown,
		"link": func(target string) string {
			if formID == "" {
				return target
			}
			return leaveURL(formID, target)
		},
		"money":      func(cents int64) string { return invoice.FormatAmount(cents) },
		"percent":    func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) + "%" },
		"debounceMs": func() int64 { return listview.SearchDebounce.Milliseconds() },
		"formatDate": formatDate,
		"add":        func(a, b int) int { return a + b },
		"sub":        func(a, b int) int { return a - b },
		"contains":   contains,
		"requestURI": func() string { return r.URL.RequestURI() },
		"navActive":  func(prefix string) bool { return strings.HasPrefix(r.URL.Path, prefix) },
		"list":       func(items ...string) []string { return items },
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		internalError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("render_aborted", "template", templateName, "error", err)
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2 Jan 2006")
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
