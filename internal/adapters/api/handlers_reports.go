package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"sportsschool/internal/application/projections"
	"sportsschool/internal/domain/access"
	"sportsschool/internal/domain/report"
)

// handleReport serves /reports/{kind}?from=&to=. Omitted dates default to the
// current reporting range. Finance figures also need the finance capability.
func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if kind == report.KindFinance && !principal(r).Can(access.ViewFinance) {
		writeError(w, r, forbidden())
		return
	}
	rng := report.DefaultRange(h.now())
	q := r.URL.Query()
	if v := q.Get("from"); v != "" {
		rng.From = v
	}
	if v := q.Get("to"); v != "" {
		rng.To = v
	}
	rep, err := projections.QueryGetReport(r.Context(), projections.GetReportQuery{Kind: kind, Range: rng},
		projections.GetReportDeps{ReportStore: h.stores.Reports})
	respondResult(w, r, http.StatusOK, rep, err)
}

// handlePerf returns request and query timings for the last window minutes
// (default 15).
func (h *Handler) handlePerf(w http.ResponseWriter, r *http.Request) {
	window := 15 * time.Minute
	if v, err := strconv.Atoi(r.URL.Query().Get("window")); err == nil && v > 0 {
		window = time.Duration(v) * time.Minute
	}
	respondJSON(w, http.StatusOK, h.perf.Snapshot(h.now().Add(-window), 10))
}
