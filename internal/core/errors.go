package core

import "errors"

// Sentinel errors for the order/quote lifecycle. Services wrap these with
// fmt.Errorf("...: %w", Err...) so callers can classify with errors.Is while
// still getting a human-readable message. The web adapter maps each kind to
// an HTTP status; none of them is fatal to the process.
var (
	// ErrInvalidLineItem is returned when a line item violates the input
	// constraints: quantity below 1 or a negative unit price.
	ErrInvalidLineItem = errors.New("invalid line item")

	// ErrInvalidDiscount is returned for a percent discount above 100 or a
	// negative discount of either type.
	ErrInvalidDiscount = errors.New("invalid discount")

	// ErrInvalidTaxRate is returned when the tax rate falls outside [0, 100]
	// or a fee is negative.
	ErrInvalidTaxRate = errors.New("invalid tax rate or fee")

	// ErrInvalidPayment is returned when a payment amount is not positive or
	// a payment targets a quote instead of an order.
	ErrInvalidPayment = errors.New("invalid payment")

	// ErrIllegalTransition is returned when a status action is not listed in
	// the transition table for the aggregate's kind and current status.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrPaymentIncomplete is returned when an order is marked paid while its
	// outstanding balance is still above zero.
	ErrPaymentIncomplete = errors.New("payment incomplete")

	// ErrIllegalConversion is returned when a quote that is not in ACCEPTED
	// status is converted to an order, or the aggregate is not a quote.
	ErrIllegalConversion = errors.New("illegal quote conversion")

	// ErrOrderNotFound is returned when the referenced order or quote does
	// not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrNotFound is returned for missing collaborator records (contacts,
	// products, recipes, expenses).
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an optimistic version check fails because
	// the aggregate was modified concurrently. Callers may retry after
	// re-reading; all other errors are terminal for the request.
	ErrConflict = errors.New("concurrent modification conflict")
)
