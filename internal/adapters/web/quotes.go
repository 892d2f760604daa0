package web

import (
	"net/http"

	"bakeshop/internal/app"
	"bakeshop/internal/core"
)

// listQuotes handles GET /api/quotes. Optional ?status= filter.
func (h *Handler) listQuotes(w http.ResponseWriter, r *http.Request) {
	h.listByKind(w, r, core.KindQuote)
}

// createQuote handles POST /api/quotes.
func (h *Handler) createQuote(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req app.CreateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Actor = actor
	result, err := h.svc.CreateQuote(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Order)
}

// convertQuote handles POST /api/quotes/{id}/convert.
func (h *Handler) convertQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	result, err := h.svc.ConvertQuoteToOrder(r.Context(), id, actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Order)
}
