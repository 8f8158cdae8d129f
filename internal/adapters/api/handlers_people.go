package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sportsschool/internal/application/orchestrators"
	"sportsschool/internal/application/projections"
	"sportsschool/internal/domain/coach"
	"sportsschool/internal/domain/student"
)

// --- Coaches ---

func (h *Handler) coachDeps() orchestrators.CoachDeps {
	return orchestrators.CoachDeps{CoachStore: h.stores.Coaches, GenerateID: h.newID, Now: h.now}
}

func (h *Handler) handleListCoaches(w http.ResponseWriter, r *http.Request) {
	state := h.listState(r, coach.SortKeys, "specialty")
	page, err := projections.QueryGetCoachList(r.Context(), projections.GetCoachListQuery{
		List:      state,
		Specialty: state.Filters["specialty"],
	}, projections.GetCoachListDeps{CoachStore: h.stores.Coaches})
	respondResult(w, r, http.StatusOK, page, err)
}

func (h *Handler) handleGetCoach(w http.ResponseWriter, r *http.Request) {
	c, err := h.stores.Coaches.GetByID(r.Context(), chi.URLParam(r, "id"))
	respondResult(w, r, http.StatusOK, c, err)
}

func (h *Handler) handleCreateCoach(w http.ResponseWriter, r *http.Request) {
	h.saveCoach(w, r, "", http.StatusCreated)
}

func (h *Handler) handleUpdateCoach(w http.ResponseWriter, r *http.Request) {
	h.saveCoach(w, r, chi.URLParam(r, "id"), http.StatusOK)
}

func (h *Handler) saveCoach(w http.ResponseWriter, r *http.Request, id string, status int) {
	var input orchestrators.SaveCoachInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	input.ID = id
	input.ActorID = principal(r).AccountID
	c, err := orchestrators.ExecuteSaveCoach(r.Context(), input, h.coachDeps())
	respondResult(w, r, status, c, err)
}

func (h *Handler) handleCoachStatus(w http.ResponseWriter, r *http.Request) {
	input, err := statusInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := orchestrators.ExecuteSetCoachStatus(r.Context(), input, h.coachDeps())
	respondResult(w, r, http.StatusOK, c, err)
}

// --- Students ---

func (h *Handler) studentDeps() orchestrators.StudentDeps {
	return orchestrators.StudentDeps{StudentStore: h.stores.Students, GenerateID: h.newID, Now: h.now}
}

func (h *Handler) handleListStudents(w http.ResponseWriter, r *http.Request) {
	state := h.listState(r, student.SortKeys, "group")
	page, err := projections.QueryGetStudentList(r.Context(), projections.GetStudentListQuery{
		List:  state,
		Group: state.Filters["group"],
	}, projections.GetStudentListDeps{StudentStore: h.stores.Students})
	respondResult(w, r, http.StatusOK, page, err)
}

func (h *Handler) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	s, err := h.stores.Students.GetByID(r.Context(), chi.URLParam(r, "id"))
	respondResult(w, r, http.StatusOK, s, err)
}

func (h *Handler) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	h.saveStudent(w, r, "", http.StatusCreated)
}

func (h *Handler) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	h.saveStudent(w, r, chi.URLParam(r, "id"), http.StatusOK)
}

func (h *Handler) saveStudent(w http.ResponseWriter, r *http.Request, id string, status int) {
	var input orchestrators.SaveStudentInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	input.ID = id
	input.ActorID = principal(r).AccountID
	s, err := orchestrators.ExecuteSaveStudent(r.Context(), input, h.studentDeps())
	respondResult(w, r, status, s, err)
}

func (h *Handler) handleStudentStatus(w http.ResponseWriter, r *http.Request) {
	input, err := statusInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s, err := orchestrators.ExecuteSetStudentStatus(r.Context(), input, h.studentDeps())
	respondResult(w, r, http.StatusOK, s, err)
}
