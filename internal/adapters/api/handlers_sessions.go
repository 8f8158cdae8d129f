package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"sportsschool/internal/application/orchestrators"
	"sportsschool/internal/application/projections"
	"sportsschool/internal/domain/assessment"
	"sportsschool/internal/domain/attendance"
	"sportsschool/internal/domain/validation"
)

// --- Attendance ---

func (h *Handler) handleListAttendance(w http.ResponseWriter, r *http.Request) {
	state := h.listState(r, attendance.SortKeys, "group", "from", "to")
	page, err := projections.QueryGetAttendanceList(r.Context(), projections.GetAttendanceListQuery{List: state},
		projections.GetAttendanceListDeps{AttendanceStore: h.stores.Attendance})
	respondResult(w, r, http.StatusOK, page, err)
}

// handleAttendanceRoster returns a blank sheet for a group: one present mark
// per active student.
func (h *Handler) handleAttendanceRoster(w http.ResponseWriter, r *http.Request) {
	group := strings.TrimSpace(r.URL.Query().Get("group"))
	if group == "" {
		errs := validation.Errors{}
		errs.Add("group", "Choose a group")
		writeError(w, r, errs)
		return
	}
	marks, err := projections.QueryGetAttendanceRoster(r.Context(), projections.GetAttendanceRosterQuery{Group: group},
		projections.GetAttendanceRosterDeps{StudentStore: h.stores.Students})
	respondResult(w, r, http.StatusOK, map[string]any{"group": group, "marks": marks}, err)
}

func (h *Handler) handleGetAttendance(w http.ResponseWriter, r *http.Request) {
	s, err := h.stores.Attendance.GetByID(r.Context(), chi.URLParam(r, "id"))
	respondResult(w, r, http.StatusOK, s, err)
}

func (h *Handler) handleCreateAttendance(w http.ResponseWriter, r *http.Request) {
	h.saveAttendance(w, r, "", http.StatusCreated)
}

func (h *Handler) handleUpdateAttendance(w http.ResponseWriter, r *http.Request) {
	h.saveAttendance(w, r, chi.URLParam(r, "id"), http.StatusOK)
}

func (h *Handler) saveAttendance(w http.ResponseWriter, r *http.Request, id string, status int) {
	var input orchestrators.SaveAttendanceInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	input.ID = id
	input.ActorID = principal(r).AccountID
	s, err := orchestrators.ExecuteSaveAttendance(r.Context(), input, orchestrators.SaveAttendanceDeps{
		AttendanceStore: h.stores.Attendance,
		StudentStore:    h.stores.Students,
		CoachStore:      h.stores.Coaches,
		GenerateID:      h.newID,
		Now:             h.now,
	})
	respondResult(w, r, status, s, err)
}

// --- Assessments ---

func (h *Handler) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	state := h.listState(r, assessment.SortKeys, "skill", "student_id")
	page, err := projections.QueryGetAssessmentList(r.Context(), projections.GetAssessmentListQuery{
		List:      state,
		StudentID: state.Filters["student_id"],
	}, projections.GetAssessmentListDeps{AssessmentStore: h.stores.Assessments})
	respondResult(w, r, http.StatusOK, page, err)
}

func (h *Handler) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	a, err := h.stores.Assessments.GetByID(r.Context(), chi.URLParam(r, "id"))
	respondResult(w, r, http.StatusOK, a, err)
}

func (h *Handler) handleCreateAssessment(w http.ResponseWriter, r *http.Request) {
	h.saveAssessment(w, r, "", http.StatusCreated)
}

func (h *Handler) handleUpdateAssessment(w http.ResponseWriter, r *http.Request) {
	h.saveAssessment(w, r, chi.URLParam(r, "id"), http.StatusOK)
}

func (h *Handler) saveAssessment(w http.ResponseWriter, r *http.Request, id string, status int) {
	var input orchestrators.SaveAssessmentInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	input.ID = id
	input.ActorID = principal(r).AccountID
	a, err := orchestrators.ExecuteSaveAssessment(r.Context(), input, orchestrators.SaveAssessmentDeps{
		AssessmentStore: h.stores.Assessments,
		StudentStore:    h.stores.Students,
		CoachStore:      h.stores.Coaches,
		GenerateID:      h.newID,
		Now:             h.now,
	})
	respondResult(w, r, status, a, err)
}
