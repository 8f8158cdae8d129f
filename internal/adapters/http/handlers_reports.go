package web

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/url"

	"sportsschool/internal/adapters/xlsx"
	"sportsschool/internal/domain/report"
	"sportsschool/internal/domain/validation"
)

// reportRequest reads kind and range from the query string. A blank range
// lets the API choose its default window; a half-filled or malformed range
// is rejected before any network call.
func reportRequest(q url.Values) (string, report.Range, map[string]string) {
	kind := q.Get("kind")
	if kind == "" {
		kind = report.KindAttendance
	}
	rng := report.Range{From: q.Get("from"), To: q.Get("to")}
	if rng.From == "" && rng.To == "" {
		return kind, rng, nil
	}
	if err := rng.Validate(); err != nil {
		if fields, ok := validation.FieldErrors(err); ok {
			return kind, rng, fields
		}
		return kind, rng, map[string]string{"to": err.Error()}
	}
	return kind, rng, nil
}

// handleReports handles GET /reports.
func handleReports(w http.ResponseWriter, r *http.Request) {
	kind, rng, errs := reportRequest(r.URL.Query())
	data := map[string]any{
		"Title":  "Reports",
		"Kind":   kind,
		"Range":  rng,
		"Errors": errs,
	}
	if !report.ValidKind(kind) {
		renderNotFound(w, r, backLink{URL: "/reports", Label: "Reports"})
		return
	}
	if len(errs) > 0 {
		renderTemplateStatus(w, r, http.StatusUnprocessableEntity, "reports.html", data)
		return
	}

	rep, err := backendFor(currentSession(r)).Report(r.Context(), kind, rng)
	if renderFailure(w, r, err, backLink{URL: "/", Label: "Dashboard"}) {
		return
	}
	data["Report"] = rep
	data["Range"] = rep.Range
	data["ExportURL"] = "/reports/export?" + url.Values{"kind": {kind}, "from": {rep.Range.From}, "to": {rep.Range.To}}.Encode()
	renderTemplate(w, r, "reports.html", data)
}

// handleReportExport handles GET /reports/export.
// POST: responds with an .xlsx attachment of the same report /reports shows
func handleReportExport(w http.ResponseWriter, r *http.Request) {
	kind, rng, errs := reportRequest(r.URL.Query())
	if len(errs) > 0 || !report.ValidKind(kind) {
		http.Redirect(w, r, "/reports?"+r.URL.RawQuery, http.StatusSeeOther)
		return
	}
	sess := currentSession(r)
	rep, err := backendFor(sess).Report(r.Context(), kind, rng)
	if renderFailure(w, r, err, backLink{URL: "/reports", Label: "Reports"}) {
		return
	}
	var buf bytes.Buffer
	if err := xlsx.WriteReport(&buf, rep); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", xlsx.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+xlsx.Filename(rep)+`"`)
	buf.WriteTo(w)
	slog.Info("report_event", "event", "report_exported", "kind", kind, "from", rep.Range.From, "to", rep.Range.To, "actor", sess.AccountID)
}

