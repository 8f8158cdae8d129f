package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sportsschool/internal/application/listview"
	"sportsschool/internal/application/orchestrators"
	"sportsschool/internal/application/projections"
)

// listState parses list query parameters. A missing page_size falls back to
// the school's configured default.
func (h *Handler) listState(r *http.Request, sortKeys []string, filterKeys ...string) listview.State {
	def := listview.DefaultPageSize
	school, err := projections.QueryGetSchoolSettings(r.Context(), projections.GetSettingsDeps{SettingsStore: h.stores.Settings})
	if err != nil {
		slog.Warn("school settings unavailable, using default page size", "error", err)
	} else {
		def = school.DefaultPageSize
	}
	return listview.ParseState(r.URL.Query(), listview.Options{
		SortColumns:     sortKeys,
		FilterKeys:      filterKeys,
		DefaultPageSize: def,
	})
}

// statusInput decodes a status action body for the entity named in the URL.
func statusInput(w http.ResponseWriter, r *http.Request) (orchestrators.SetStatusInput, error) {
	var input orchestrators.SetStatusInput
	if err := decodeJSON(w, r, &input); err != nil {
		return input, err
	}
	input.ID = chi.URLParam(r, "id")
	input.ActorID = principal(r).AccountID
	return input, nil
}

// respondResult answers with v, or with the classified error.
func respondResult(w http.ResponseWriter, r *http.Request, status int, v any, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, status, v)
}
