package web

import "net/http"

// importContacts handles POST /api/imports/contacts. The body is the raw CSV
// file; a header row is required.
func (h *Handler) importContacts(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ImportContacts(r.Context(), r.Body)
	if err != nil {
		writeError(w, r, err.Error(), "IMPORT_FAILED", http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, result)
}

// importExpenses handles POST /api/imports/expenses. The body is the raw CSV
// file; a header row is required.
func (h *Handler) importExpenses(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ImportExpenses(r.Context(), r.Body)
	if err != nil {
		writeError(w, r, err.Error(), "IMPORT_FAILED", http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, result)
}
