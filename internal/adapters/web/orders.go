package web

import (
	"net/http"

	"bakeshop/internal/app"
	"bakeshop/internal/core"
)

// listOrders handles GET /api/orders. Optional ?status= filter.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	h.listByKind(w, r, core.KindOrder)
}

func (h *Handler) listByKind(w http.ResponseWriter, r *http.Request, kind core.Kind) {
	req := app.ListOrdersRequest{Kind: kind}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := core.Status(raw)
		if !core.ValidStatus(kind, status) {
			writeError(w, r, "unknown status "+raw, "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		req.Status = &status
	}
	result, err := h.svc.ListOrders(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Orders)
}

// getOrder handles GET /api/orders/{id} and GET /api/quotes/{id}.
func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Order)
}

// createOrder handles POST /api/orders.
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req app.CreateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Actor = actor
	result, err := h.svc.CreateOrder(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Order)
}

// changeStatus handles POST /api/orders/{id}/status and /api/quotes/{id}/status.
// Body: { action }
func (h *Handler) changeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req app.ChangeStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Action == "" {
		writeError(w, r, "action is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	req.OrderID = id
	req.Actor = actor
	result, err := h.svc.ChangeStatus(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Order)
}

// reviseItems handles PUT /api/orders/{id}/items and /api/quotes/{id}/items.
// Body: { version?, items: [{product_id?, name?, quantity, unit_price}] }
func (h *Handler) reviseItems(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req app.ReviseItemsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Items) == 0 {
		writeError(w, r, "at least one item is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	req.OrderID = id
	req.Actor = actor
	result, err := h.svc.ReviseItems(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Order)
}

// addNote handles POST /api/orders/{id}/notes and /api/quotes/{id}/notes.
// Body: { note }
func (h *Handler) addNote(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req app.AddNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Note == "" {
		writeError(w, r, "note is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	req.OrderID = id
	req.Actor = actor
	result, err := h.svc.AddNote(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Entries)
}

// getHistory handles GET /api/orders/{id}/history and /api/quotes/{id}/history.
func (h *Handler) getHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetHistory(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Entries)
}

// recordPayment handles POST /api/orders/{id}/payments.
// Body: { amount, method?, use_provider? }
func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req app.RecordPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.OrderID = id
	req.Actor = actor
	result, err := h.svc.RecordPayment(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result)
}
