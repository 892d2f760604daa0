package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"bakeshop/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps a business error to its HTTP status. Unknown errors
// fall through to 500 so callers never see a misleading 4xx for a bug.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrOrderNotFound), errors.Is(err, core.ErrNotFound):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrConflict):
		writeError(w, r, err.Error(), "CONFLICT", http.StatusConflict)
	case errors.Is(err, core.ErrIllegalTransition):
		writeError(w, r, err.Error(), "ILLEGAL_TRANSITION", http.StatusConflict)
	case errors.Is(err, core.ErrIllegalConversion):
		writeError(w, r, err.Error(), "ILLEGAL_CONVERSION", http.StatusConflict)
	case errors.Is(err, core.ErrPaymentIncomplete):
		writeError(w, r, err.Error(), "PAYMENT_INCOMPLETE", http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrInvalidLineItem),
		errors.Is(err, core.ErrInvalidDiscount),
		errors.Is(err, core.ErrInvalidTaxRate),
		errors.Is(err, core.ErrInvalidPayment):
		writeError(w, r, err.Error(), "VALIDATION_FAILED", http.StatusUnprocessableEntity)
	default:
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
