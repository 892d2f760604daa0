// Package web is the HTTP adapter: JSON in, JSON out, no business logic.
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"bakeshop/internal/app"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
	logger *zap.Logger
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{svc: svc, logger: logger}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recoverer(logger))
	r.Use(CORS(allowedOrigins))

	r.Get("/api/health", h.health)

	// CSV imports take whole files; everything else gets a 1 MB body cap.
	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(10 << 20)) // 10 MB
		r.Post("/api/imports/contacts", h.importContacts)
		r.Post("/api/imports/expenses", h.importExpenses)
	})

	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		// ── Orders ────────────────────────────────────────────────────────────
		r.Get("/api/orders", h.listOrders)
		r.Post("/api/orders", h.createOrder)
		r.Get("/api/orders/{id}", h.getOrder)
		r.Post("/api/orders/{id}/status", h.changeStatus)
		r.Put("/api/orders/{id}/items", h.reviseItems)
		r.Post("/api/orders/{id}/notes", h.addNote)
		r.Get("/api/orders/{id}/history", h.getHistory)
		r.Post("/api/orders/{id}/payments", h.recordPayment)

		// ── Quotes ────────────────────────────────────────────────────────────
		r.Get("/api/quotes", h.listQuotes)
		r.Post("/api/quotes", h.createQuote)
		r.Get("/api/quotes/{id}", h.getOrder)
		r.Post("/api/quotes/{id}/status", h.changeStatus)
		r.Put("/api/quotes/{id}/items", h.reviseItems)
		r.Post("/api/quotes/{id}/notes", h.addNote)
		r.Get("/api/quotes/{id}/history", h.getHistory)
		r.Post("/api/quotes/{id}/convert", h.convertQuote)

		// ── Contacts ──────────────────────────────────────────────────────────
		r.Get("/api/contacts", h.listContacts)
		r.Post("/api/contacts", h.createContact)
		r.Get("/api/contacts/{id}", h.getContact)
		r.Put("/api/contacts/{id}", h.updateContact)

		// ── Catalog ───────────────────────────────────────────────────────────
		r.Get("/api/products", h.listProducts)
		r.Post("/api/products", h.createProduct)
		r.Delete("/api/products/{id}", h.deactivateProduct)
		r.Get("/api/recipes", h.listRecipes)
		r.Post("/api/recipes", h.createRecipe)
		r.Get("/api/recipes/{id}", h.getRecipe)

		// ── Expenses ──────────────────────────────────────────────────────────
		r.Get("/api/expenses", h.listExpenses)
		r.Post("/api/expenses", h.recordExpense)
		r.Delete("/api/expenses/{id}", h.deleteExpense)
		r.Get("/api/expenses/summary", h.expenseSummary)
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// idParam extracts the {id} URL parameter as an int. On failure it writes a
// 400 response and returns false.
func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// actorFrom reads the X-Actor header identifying who performs a mutation.
// Mutations without it are rejected; attribution is never defaulted.
func actorFrom(w http.ResponseWriter, r *http.Request) (string, bool) {
	actor := r.Header.Get("X-Actor")
	if actor == "" {
		writeError(w, r, "X-Actor header is required", "BAD_REQUEST", http.StatusBadRequest)
		return "", false
	}
	return actor, true
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
