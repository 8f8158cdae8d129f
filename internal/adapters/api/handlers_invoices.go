package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sportsschool/internal/application/orchestrators"
	"sportsschool/internal/application/projections"
	"sportsschool/internal/domain/invoice"
)

func (h *Handler) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	state := h.listState(r, invoice.SortKeys, "student_id")
	page, err := projections.QueryGetInvoiceList(r.Context(), projections.GetInvoiceListQuery{
		List:      state,
		StudentID: state.Filters["student_id"],
	}, projections.GetInvoiceListDeps{InvoiceStore: h.stores.Invoices})
	respondResult(w, r, http.StatusOK, page, err)
}

func (h *Handler) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.stores.Invoices.GetByID(r.Context(), chi.URLParam(r, "id"))
	respondResult(w, r, http.StatusOK, inv, err)
}

func (h *Handler) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	h.saveInvoice(w, r, "", http.StatusCreated)
}

func (h *Handler) handleUpdateInvoice(w http.ResponseWriter, r *http.Request) {
	h.saveInvoice(w, r, chi.URLParam(r, "id"), http.StatusOK)
}

func (h *Handler) saveInvoice(w http.ResponseWriter, r *http.Request, id string, status int) {
	var input orchestrators.SaveInvoiceInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	input.ID = id
	input.ActorID = principal(r).AccountID
	inv, err := orchestrators.ExecuteSaveInvoice(r.Context(), input, orchestrators.SaveInvoiceDeps{
		InvoiceStore:   h.stores.Invoices,
		StudentStore:   h.stores.Students,
		GenerateID:     h.newID,
		GenerateNumber: orchestrators.NewInvoiceNumber,
		Now:            h.now,
	})
	respondResult(w, r, status, inv, err)
}

func (h *Handler) handleInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	input, err := statusInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	inv, err := orchestrators.ExecuteSetInvoiceStatus(r.Context(), input, orchestrators.SetInvoiceStatusDeps{
		InvoiceStore: h.stores.Invoices,
		Now:          h.now,
	})
	respondResult(w, r, http.StatusOK, inv, err)
}

// RemindDeps returns the dependencies for sending invoice reminders.
func (h *Handler) RemindDeps() orchestrators.RemindInvoiceDeps {
	return orchestrators.RemindInvoiceDeps{
		InvoiceStore:  h.stores.Invoices,
		StudentStore:  h.stores.Students,
		SettingsStore: h.stores.Settings,
		Sender:        h.sender,
		Now:           h.now,
	}
}

func (h *Handler) handleRemindInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := orchestrators.ExecuteRemindInvoice(r.Context(), orchestrators.RemindInvoiceInput{
		ID:      chi.URLParam(r, "id"),
		ActorID: principal(r).AccountID,
	}, h.RemindDeps())
	if err == nil {
		h.metrics.reminders.Inc()
	}
	respondResult(w, r, http.StatusOK, inv, err)
}
