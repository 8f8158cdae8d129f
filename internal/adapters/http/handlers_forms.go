package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"sportsschool/internal/adapters/backend"
	"sportsschool/internal/application/formsession"
	"sportsschool/internal/application/formstate"
	"sportsschool/internal/application/navguard"
	"sportsschool/internal/application/resource"
	"sportsschool/internal/domain/access"
)

// Field types rendered by form.html.
const (
	fieldText       = "text"
	fieldEmail      = "email"
	fieldTel        = "tel"
	fieldDate       = "date"
	fieldNumber     = "number"
	fieldTextarea   = "textarea"
	fieldMarkdown   = "markdown"
	fieldSelect     = "select"
	fieldCheckboxes = "checkboxes"
	fieldCheckbox   = "checkbox"
	fieldRadio      = "radio"
	fieldHidden     = "hidden"
)

// field declares one form control.
type field struct {
	Name     string
	Label    string
	Type     string
	Options  []formsession.Choice
	Required bool
	Help     string
	// Choices names the Session.Choices list that supplies Options.
	Choices string
}

// openedForm is what a formDef's Open returns.
type openedForm struct {
	Schema  formstate.Schema
	Values  formstate.Values
	Choices map[string][]formsession.Choice
}

// formDef describes one editable entity.
type formDef struct {
	Kind     string // form session kind, e.g. "announcement"
	Title    string // singular, e.g. "Announcement"
	ListPath string
	EditCap  access.Capability
	Fields   []field
	// Dynamic renders schema fields not listed in Fields (attendance marks).
	// Name and Label come from the "marks" choice list.
	Dynamic *field
	// Open loads the entity (empty id for a create form) and its choice lists.
	Open func(ctx context.Context, c *backend.Client, id string, q url.Values) (openedForm, error)
	// Validate runs the same rules the API applies, before any network call.
	Validate func(formstate.Values) map[string]string
	// Persist saves the draft; empty id creates.
	Persist func(ctx context.Context, c *backend.Client, id string, v formstate.Values) error
}

// schemaOf derives the Schema of a static field list.
func schemaOf(fields []field) formstate.Schema {
	var s formstate.Schema
	for _, f := range fields {
		s.Fields = append(s.Fields, f.Name)
		if f.Type == fieldCheckboxes {
			s.SetFields = append(s.SetFields, f.Name)
		}
	}
	return s
}

// fieldView is a control ready to render.
type fieldView struct {
	field
	Value    string
	Values   []string
	Error    string
	Selected map[string]bool
}

// optionsFor resolves a field's option list.
func optionsFor(f field, sess *formsession.Session) []formsession.Choice {
	if f.Choices != "" {
		return sess.Choices[f.Choices]
	}
	return f.Options
}

func fieldViews(def formDef, sess *formsession.Session) []fieldView {
	draft := sess.Form.Draft()
	errs := sess.Form.Errors()
	view := func(f field) fieldView {
		fv := fieldView{field: f, Value: draft.Get(f.Name), Values: draft.List(f.Name), Error: errs[f.Name]}
		fv.Options = optionsFor(f, sess)
		fv.Selected = make(map[string]bool, len(fv.Values))
		for _, v := range fv.Values {
			fv.Selected[v] = true
		}
		return fv
	}

	views := make([]fieldView, 0, len(def.Fields))
	static := make(map[string]bool, len(def.Fields))
	for _, f := range def.Fields {
		static[f.Name] = true
		views = append(views, view(f))
	}
	if def.Dynamic != nil {
		labels := make(map[string]string)
		for _, c := range sess.Choices["marks"] {
			labels[c.Value] = c.Label
		}
		for _, name := range sess.Form.Schema().Fields {
			if static[name] {
				continue
			}
			f := *def.Dynamic
			f.Name = name
			f.Label = labels[strings.TrimPrefix(name, markPrefix)]
			views = append(views, view(f))
		}
	}
	return views
}

// fieldErrorsOutside returns errors for keys that have no control on the page.
func fieldErrorsOutside(views []fieldView, errs map[string]string) map[string]string {
	shown := make(map[string]bool, len(views))
	for _, v := range views {
		shown[v.Name] = true
	}
	out := map[string]string{}
	for k, msg := range errs {
		if !shown[k] {
			out[k] = msg
		}
	}
	return out
}

// formDefs indexes every formDef by kind for the /forms routes.
var formDefs = map[string]formDef{}

func registerForm(def formDef) formDef {
	formDefs[def.Kind] = def
	return def
}

// openForm loads the entity, registers a form session for the caller and
// redirects to it. Load failures render like any other backend failure.
func openForm(w http.ResponseWriter, r *http.Request, def formDef, id string) {
	sess := currentSession(r)
	back := backLink{URL: def.ListPath, Label: def.Title + " list"}
	client := backendFor(sess)
	res := resource.Load(r.Context(), func(ctx context.Context) (openedForm, error) {
		return def.Open(ctx, client, id, r.URL.Query())
	})
	if renderResult(w, r, res, back) {
		return
	}
	opened := res.Data
	returnTo := navguard.SafeTarget(r.URL.Query().Get("return"), def.ListPath)
	fs := forms.Open(sess.AccountID, def.Kind, id, returnTo, r.URL.RequestURI(), formstate.New(opened.Schema, opened.Values))
	fs.Choices = opened.Choices
	http.Redirect(w, r, "/forms/"+url.PathEscape(fs.ID), http.StatusSeeOther)
}

// handleFormNew handles GET /{resource}/new.
func handleFormNew(def formDef) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		openForm(w, r, def, "")
	}
}

// handleFormEdit handles GET /{resource}/{id}/edit.
func handleFormEdit(def formDef) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		openForm(w, r, def, r.PathValue("id"))
	}
}

// handleFormSingleton opens a form for a record that always exists (settings).
func handleFormSingleton(def formDef, id string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		openForm(w, r, def, id)
	}
}

// loadFormSession resolves the {id} path value to the caller's form session.
// An unknown or expired session renders a 404 pointing at fallback.
func loadFormSession(w http.ResponseWriter, r *http.Request, fallback string) (*formsession.Session, formDef, bool) {
	sess := currentSession(r)
	fs, err := forms.Get(r.PathValue("id"), sess.AccountID)
	if err == nil {
		if def, ok := formDefs[fs.Kind]; ok {
			return fs, def, true
		}
		err = errors.New("unknown form kind " + fs.Kind)
	}
	if !errors.Is(err, formsession.ErrNotFound) {
		internalError(w, err)
		return nil, formDef{}, false
	}
	renderNotFound(w, r, backLink{URL: navguard.SafeTarget(fallback, "/"), Label: "Back"})
	return nil, formDef{}, false
}

// formPage is the extra state of one form render.
type formPage struct {
	Notice string
	Dialog bool
}

func renderForm(w http.ResponseWriter, r *http.Request, status int, def formDef, fs *formsession.Session, page formPage) {
	views := fieldViews(def, fs)
	title := "Edit " + strings.ToLower(def.Title)
	if fs.IsNew() {
		title = "New " + strings.ToLower(def.Title)
	}
	data := map[string]any{
		"Title":      title,
		"FormID":     fs.ID,
		"Def":        def,
		"Fields":     views,
		"OtherErrs":  fieldErrorsOutside(views, fs.Form.Errors()),
		"Banner":     fs.Form.Banner(),
		"Notice":     page.Notice,
		"Dirty":      fs.Form.IsDirty(),
		"ReadOnly":   def.EditCap != "" && !currentSession(r).Can(def.EditCap),
		"ReturnTo":   fs.ReturnTo,
		"DialogOpen": page.Dialog || fs.Guard.DialogOpen(),
		"Pending":    fs.Guard.Pending(),
	}
	renderTemplateStatus(w, r, status, "form.html", data)
}

// handleFormShow handles GET /forms/{id}.
// POST: a session that was closed, evicted or expired redirects to the page
// that opened it, which opens a fresh one
func handleFormShow(w http.ResponseWriter, r *http.Request) {
	if target, closed := forms.ReopenURL(r.PathValue("id"), currentSession(r).AccountID); closed {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	fs, def, ok := loadFormSession(w, r, "/")
	if !ok {
		return
	}
	renderForm(w, r, http.StatusOK, def, fs, formPage{})
}

// handleFormSave handles POST /forms/{id}.
// PRE: CSRF token present
// POST: an invalid draft renders field errors without any backend call; a
// saved draft closes the session and redirects to the list; a 403 redirects to
// /access-denied and renders no form content
func handleFormSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	fs, def, ok := loadFormSession(w, r, r.PostForm.Get("fallback"))
	if !ok {
		return
	}
	sess := currentSession(r)
	client := backendFor(sess)
	err := fs.Form.Submit(r.Context(), fs.Form.Schema().FromForm(r.PostForm), def.Validate, func(ctx context.Context, v formstate.Values) error {
		return def.Persist(ctx, client, fs.EntityID, v)
	})
	switch {
	case err == nil:
		if _, gone := forms.Get(fs.ID, sess.AccountID); gone != nil {
			slog.Info("form_session_event", "event", "late_save_discarded", "session_id", fs.ID, "kind", fs.Kind)
			http.Redirect(w, r, fs.ReturnTo, http.StatusSeeOther)
			return
		}
		forms.Close(fs.ID, sess.AccountID)
		slog.Info(fs.Kind+"_event", "event", fs.Kind+"_saved", "entity_id", fs.EntityID, "actor", sess.AccountID)
		setFlash(w, def.Title+" saved.")
		http.Redirect(w, r, fs.ReturnTo, http.StatusSeeOther)
	case errors.Is(err, formstate.ErrInvalid):
		renderForm(w, r, http.StatusUnprocessableEntity, def, fs, formPage{})
	case errors.Is(err, formstate.ErrSaveInProgress):
		renderForm(w, r, http.StatusConflict, def, fs, formPage{Notice: "A save is already in progress."})
	case backend.IsUnauthorized(err):
		redirectLogin(w, r)
	case backend.IsForbidden(err):
		forms.Close(fs.ID, sess.AccountID)
		slog.Warn("auth_denied", "path", r.URL.Path, "role", sess.Role, "kind", fs.Kind)
		redirectAccessDenied(w, r)
	case backend.IsNotFound(err):
		forms.Close(fs.ID, sess.AccountID)
		renderNotFound(w, r, backLink{URL: def.ListPath, Label: def.Title + " list"})
	default:
		if fields, ok := backend.FieldErrors(err); ok {
			fs.Form.SetErrors(fields, formstate.SummaryInvalid)
			renderForm(w, r, http.StatusUnprocessableEntity, def, fs, formPage{})
			return
		}
		slog.Warn("backend_failure", "path", r.URL.Path, "kind", fs.Kind, "error", err)
		fs.Form.SetBanner(backend.Message(err, defaultFailureMessage))
		renderForm(w, r, http.StatusBadGateway, def, fs, formPage{})
	}
}

// fieldSync is the body portal.js posts on every debounced edit.
type fieldSync struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// handleFormField handles POST /forms/{id}/fields.
// POST: the draft holds the new value; the response reports whether the draft
// still differs from its snapshot so the page can arm or disarm beforeunload
func handleFormField(w http.ResponseWriter, r *http.Request) {
	fs, err := forms.Get(r.PathValue("id"), currentSession(r).AccountID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "form not found"})
		return
	}
	var body fieldSync
	if err := strictDecode(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}
	schema := fs.Form.Schema()
	if !schema.Has(body.Name) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown field"})
		return
	}
	values := schema.FromForm(url.Values{body.Name: body.Values})[body.Name]
	fs.Form.UpdateField(body.Name, values...)
	writeJSON(w, http.StatusOK, map[string]bool{"dirty": fs.Form.IsDirty()})
}

// handleFormLeave handles GET /forms/{id}/leave?to=<path>.
// POST: a clean form closes and 303s to the target; a dirty form re-renders
// with the leave dialog open and the target pending
func handleFormLeave(w http.ResponseWriter, r *http.Request) {
	fs, def, ok := loadFormSession(w, r, r.URL.Query().Get("to"))
	if !ok {
		return
	}
	target := navguard.SafeTarget(r.URL.Query().Get("to"), fs.ReturnTo)
	decision := fs.Guard.AttemptNavigate(target, fs.Form.IsDirty())
	if decision.Navigate {
		forms.Close(fs.ID, currentSession(r).AccountID)
		http.Redirect(w, r, decision.Target, http.StatusSeeOther)
		return
	}
	renderForm(w, r, http.StatusOK, def, fs, formPage{Dialog: true})
}

// handleFormStay handles POST /forms/{id}/stay.
func handleFormStay(w http.ResponseWriter, r *http.Request) {
	fs, _, ok := loadFormSession(w, r, r.FormValue("fallback"))
	if !ok {
		return
	}
	fs.Guard.Stay()
	http.Redirect(w, r, "/forms/"+url.PathEscape(fs.ID), http.StatusSeeOther)
}

// handleFormLeaveConfirm handles POST /forms/{id}/leave/confirm.
// POST: the first confirm discards the draft and 303s to the pending target
// exactly once; any later confirm 303s to the list
func handleFormLeaveConfirm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	sess := currentSession(r)
	fallback := navguard.SafeTarget(r.PostForm.Get("fallback"), "/")
	fs, err := forms.Get(r.PathValue("id"), sess.AccountID)
	if err != nil {
		http.Redirect(w, r, fallback, http.StatusSeeOther)
		return
	}
	target, ok := fs.Guard.Leave()
	if !ok {
		http.Redirect(w, r, fs.ReturnTo, http.StatusSeeOther)
		return
	}
	forms.Close(fs.ID, sess.AccountID)
	slog.Info("form_session_event", "event", "draft_discarded", "session_id", fs.ID, "kind", fs.Kind)
	http.Redirect(w, r, target, http.StatusSeeOther)
}
