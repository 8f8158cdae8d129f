package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sportsschool/internal/application/orchestrators"
	"sportsschool/internal/application/projections"
	"sportsschool/internal/domain/announcement"
)

func (h *Handler) handleListAnnouncements(w http.ResponseWriter, r *http.Request) {
	state := h.listState(r, announcement.SortKeys, "audience")
	page, err := projections.QueryGetAnnouncementList(r.Context(), projections.GetAnnouncementListQuery{
		List:     state,
		Audience: state.Filters["audience"],
	}, projections.GetAnnouncementListDeps{AnnouncementStore: h.stores.Announcements})
	respondResult(w, r, http.StatusOK, page, err)
}

func (h *Handler) handleGetAnnouncement(w http.ResponseWriter, r *http.Request) {
	a, err := h.stores.Announcements.GetByID(r.Context(), chi.URLParam(r, "id"))
	respondResult(w, r, http.StatusOK, a, err)
}

func (h *Handler) handleCreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	h.saveAnnouncement(w, r, "", http.StatusCreated)
}

func (h *Handler) handleUpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	h.saveAnnouncement(w, r, chi.URLParam(r, "id"), http.StatusOK)
}

func (h *Handler) saveAnnouncement(w http.ResponseWriter, r *http.Request, id string, status int) {
	var input orchestrators.SaveAnnouncementInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	input.ID = id
	input.ActorID = principal(r).AccountID
	a, err := orchestrators.ExecuteSaveAnnouncement(r.Context(), input, orchestrators.SaveAnnouncementDeps{
		AnnouncementStore: h.stores.Announcements,
		GenerateID:        h.newID,
		Now:               h.now,
	})
	respondResult(w, r, status, a, err)
}

func (h *Handler) handleAnnouncementStatus(w http.ResponseWriter, r *http.Request) {
	input, err := statusInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a, err := orchestrators.ExecuteSetAnnouncementStatus(r.Context(), input, orchestrators.SetAnnouncementStatusDeps{
		AnnouncementStore: h.stores.Announcements,
		Now:               h.now,
	})
	respondResult(w, r, http.StatusOK, a, err)
}
