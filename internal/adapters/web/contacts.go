package web

import (
	"net/http"

	"bakeshop/internal/app"
)

// listContacts handles GET /api/contacts. Optional ?search= filter.
func (h *Handler) listContacts(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListContacts(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Contacts)
}

// getContact handles GET /api/contacts/{id}.
func (h *Handler) getContact(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetContact(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Contact)
}

// createContact handles POST /api/contacts.
func (h *Handler) createContact(w http.ResponseWriter, r *http.Request) {
	var req app.ContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, r, "name is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.CreateContact(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Contact)
}

// updateContact handles PUT /api/contacts/{id}.
func (h *Handler) updateContact(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req app.ContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, r, "name is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.UpdateContact(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Contact)
}
