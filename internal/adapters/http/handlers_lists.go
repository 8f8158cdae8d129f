package web

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"sportsschool/internal/adapters/backend"
	"sportsschool/internal/application/listview"
	"sportsschool/internal/application/navguard"
	"sportsschool/internal/application/resource"
	"sportsschool/internal/domain/access"
)

// column is one table column of a list page.
type column struct {
	Label string
	Sort  string // sort key, empty when the column is not sortable
}

// rowAction is an inline status toggle offered on a row.
type rowAction struct {
	Action  string
	Label   string
	Confirm string // confirmation modal text
	Danger  bool
}

// listRow is one rendered row.
type listRow struct {
	ID      string
	Cells   []string
	Status  string
	Actions []rowAction
}

// filterDef is an extra filter control beside search and status.
type filterDef struct {
	Key     string
	Label   string
	Type    string // "select" or "date"
	Options []string
}

// listPage is one fetched page converted to rows.
type listPage struct {
	Rows     []listRow
	Total    int
	Page     int
	PageSize int
}

// listDef describes one list page.
type listDef struct {
	Path     string
	Title    string
	NewLabel string
	ViewCap  access.Capability
	EditCap  access.Capability
	// ActCap gates the row actions; zero uses EditCap.
	ActCap   access.Capability
	Statuses []string
	SortKeys []string
	Filters  []filterDef
	Columns  []column
	Fetch    func(ctx context.Context, c *backend.Client, q url.Values) (listPage, error)
	// Act applies a row action. Nil when the list has no row actions.
	Act func(ctx context.Context, c *backend.Client, id, action string) error
}

func (d listDef) actCap() access.Capability {
	if d.ActCap != "" {
		return d.ActCap
	}
	return d.EditCap
}

func (d listDef) filterKeys() []string {
	keys := make([]string, len(d.Filters))
	for i, f := range d.Filters {
		keys[i] = f.Key
	}
	return keys
}

// pageLink is one numbered pagination button.
type pageLink struct {
	N       int
	URL     string
	Current bool
}

// sortHeader is one rendered column header.
type sortHeader struct {
	Label  string
	URL    string // empty when not sortable
	Active bool
	Dir    string
}

// confirmModal is the open confirmation dialog for a row action.
type confirmModal struct {
	ID        string
	Action    rowAction
	CancelURL string
}

// handleList returns the GET handler for a list page.
// PRE: caller is signed in
// POST: renders one page fetched from the backend; a changed search or
// status filter resets the page to 1
func handleList(def listDef) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := currentSession(r)
		if def.ViewCap != "" && !sess.Can(def.ViewCap) {
			slog.Warn("auth_denied", "path", r.URL.Path, "role", sess.Role)
			redirectAccessDenied(w, r)
			return
		}
		q := r.URL.Query()
		state := listview.ParseState(q, listview.Options{
			SortColumns: def.SortKeys,
			FilterKeys:  def.filterKeys(),
		})
		if _, explicit := q["page_size"]; !explicit {
			// Let the API apply the school's default page size.
			state.PageSize = 0
		}

		client := backendFor(sess)
		query := resource.NewQuery(func(ctx context.Context) (listPage, error) {
			return def.Fetch(ctx, client, apiQuery(state))
		})
		res := query.Refetch(r.Context())
		if renderResult(w, r, res, backLink{URL: "/", Label: "Dashboard"}) {
			return
		}
		page := res.Data
		if state.PageSize == 0 {
			state.PageSize = page.PageSize
		}
		info := listview.NewPageInfo(state.Page, page.PageSize, page.Total)

		canAct := def.Act != nil && sess.Can(def.actCap())
		if !canAct {
			for i := range page.Rows {
				page.Rows[i].Actions = nil
			}
		}

		self := state.URL(def.Path)
		confirmBase := self + "?"
		if strings.Contains(self, "?") {
			confirmBase = self + "&"
		}
		data := map[string]any{
			"Title":     def.Title,
			"Def":       def,
			"Rows":      page.Rows,
			"State":     state,
			"PageInfo":  info,
			"Self":      self,
			"CanEdit":   def.EditCap != "" && sess.Can(def.EditCap),
			"CanAct":    canAct,
			"Headers":   sortHeaders(def, state),
			"Pages":     pageLinks(def.Path, state, info),
			"PrevURL":   state.WithPage(info.Page - 1).URL(def.Path),
			"NextURL":   state.WithPage(info.Page + 1).URL(def.Path),
			"PageSizes": listview.PageSizes,
		}
		// ConfirmBase prefixes the ?confirm= links of row actions.
		data["ConfirmBase"] = confirmBase
		if id := q.Get("confirm"); id != "" && canAct {
			if modal, ok := findConfirm(page.Rows, id, q.Get("action"), self); ok {
				data["Confirm"] = modal
			}
		}
		renderTemplate(w, r, "list.html", data)
	}
}

// apiQuery encodes the list state for the backend. The backend parses the
// very same contract.
func apiQuery(state listview.State) url.Values {
	v := state.Values()
	v.Del("page_size")
	if state.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(state.PageSize))
	}
	return v
}

func sortHeaders(def listDef, state listview.State) []sortHeader {
	headers := make([]sortHeader, len(def.Columns))
	for i, c := range def.Columns {
		h := sortHeader{Label: c.Label}
		if c.Sort != "" {
			h.URL = state.WithSort(c.Sort).WithPage(1).URL(def.Path)
			h.Active = state.Sort == c.Sort
			h.Dir = state.Dir
		}
		headers[i] = h
	}
	return headers
}

func pageLinks(path string, state listview.State, info listview.PageInfo) []pageLink {
	nums := info.PageNumbers()
	links := make([]pageLink, len(nums))
	for i, n := range nums {
		links[i] = pageLink{N: n, URL: state.WithPage(n).URL(path), Current: n == info.Page}
	}
	return links
}

func findConfirm(rows []listRow, id, action, self string) (confirmModal, bool) {
	for _, row := range rows {
		if row.ID != id {
			continue
		}
		for _, a := range row.Actions {
			if a.Action == action {
				return confirmModal{ID: id, Action: a, CancelURL: self}, true
			}
		}
	}
	return confirmModal{}, false
}

// handleRowAction returns the POST handler for /{resource}/{id}/status.
// PRE: action form field names a row action; CSRF token present
// POST: the backend applied the action or a flash explains why not; always
// 303 back to the list URL so the row is re-fetched
func handleRowAction(def listDef) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		sess := currentSession(r)
		id := r.PathValue("id")
		action := r.FormValue("action")
		back := navguard.SafeTarget(r.FormValue("return"), def.Path)

		err := def.Act(r.Context(), backendFor(sess), id, action)
		switch {
		case err == nil:
			slog.Info("list_event", "event", "row_action", "list", def.Path, "id", id, "action", action, "actor", sess.AccountID)
			setFlash(w, "Done: "+actionLabel(action)+".")
		case backend.IsUnauthorized(err):
			redirectLogin(w, r)
			return
		case backend.IsForbidden(err):
			slog.Warn("auth_denied", "path", r.URL.Path, "role", sess.Role, "action", action)
			redirectAccessDenied(w, r)
			return
		case backend.IsNotFound(err):
			setFlash(w, "That record no longer exists.")
		default:
			slog.Warn("backend_failure", "path", r.URL.Path, "error", err)
			setFlash(w, backend.Message(err, defaultFailureMessage))
		}
		http.Redirect(w, r, back, http.StatusSeeOther)
	}
}

var actionLabels = map[string]string{
	"publish":    "published",
	"unpublish":  "unpublished",
	"activate":   "activated",
	"deactivate": "deactivated",
	"archive":    "archived",
	"restore":    "restored",
	"issue":      "issued",
	"mark_paid":  "marked paid",
	"void":       "voided",
	"remind":     "reminder sent",
}

func actionLabel(action string) string {
	if l, ok := actionLabels[action]; ok {
		return l
	}
	return action
}
