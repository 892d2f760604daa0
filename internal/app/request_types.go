package app

import (
	"github.com/shopspring/decimal"

	"bakeshop/internal/core"
)

// CreateOrderRequest is the input for creating a new order or quote. Actor
// identifies the authenticated user; it is required on every mutation.
type CreateOrderRequest struct {
	ContactID       int               `json:"contact_id"`
	Items           []LineItemRequest `json:"items"`
	Discount        decimal.Decimal   `json:"discount"`
	DiscountType    string            `json:"discount_type"` // "percent" or "fixed"
	SetupFee        decimal.Decimal   `json:"setup_fee"`
	DeliveryFee     decimal.Decimal   `json:"delivery_fee"`
	TaxRate         decimal.Decimal   `json:"tax_rate"`
	DeliveryDate    string            `json:"delivery_date,omitempty"`
	DeliveryAddress string            `json:"delivery_address,omitempty"`
	ValidUntil      string            `json:"valid_until,omitempty"` // quotes only
	Notes           string            `json:"notes,omitempty"`
	Actor           string            `json:"-"`
}

// LineItemRequest is a single line within a create or revise request.
type LineItemRequest struct {
	ProductID   *int            `json:"product_id,omitempty"`
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"` // zero with a product reference means "use catalog price"
}

// ListOrdersRequest filters the order list.
type ListOrdersRequest struct {
	Kind   core.Kind
	Status *core.Status
}

// ChangeStatusRequest applies a lifecycle action to an order or quote.
type ChangeStatusRequest struct {
	OrderID int         `json:"-"`
	Action  core.Action `json:"action"`
	Actor   string      `json:"-"`
}

// ReviseItemsRequest replaces an aggregate's line items. Version is the
// version the client last read; zero means "against the current version".
type ReviseItemsRequest struct {
	OrderID int               `json:"-"`
	Version int               `json:"version"`
	Items   []LineItemRequest `json:"items"`
	Actor   string            `json:"-"`
}

// AddNoteRequest appends a note to an aggregate's history.
type AddNoteRequest struct {
	OrderID int    `json:"-"`
	Note    string `json:"note"`
	Actor   string `json:"-"`
}

// RecordPaymentRequest records a payment against an order. With UseProvider
// set, the payment provider is charged first and its reference stored;
// otherwise the payment is recorded as collected manually.
type RecordPaymentRequest struct {
	OrderID     int             `json:"-"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	UseProvider bool            `json:"use_provider,omitempty"`
	Actor       string          `json:"-"`
}

// ContactRequest creates or updates a contact.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// ProductRequest creates a catalog product.
type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// RecipeRequest creates a recipe with its ingredient lines.
type RecipeRequest struct {
	Name         string                       `json:"name"`
	ProductID    *int                         `json:"product_id,omitempty"`
	YieldCount   int                          `json:"yield_count"`
	Instructions string                       `json:"instructions,omitempty"`
	Ingredients  []core.RecipeIngredientInput `json:"ingredients"`
}

// ExpenseRequest records an expense.
type ExpenseRequest struct {
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Vendor      string          `json:"vendor,omitempty"`
	IncurredOn  string          `json:"incurred_on"`
}
