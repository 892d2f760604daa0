package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind distinguishes the two structurally identical aggregates: a firm order
// and a quote awaiting customer response.
type Kind string

const (
	KindOrder Kind = "ORDER"
	KindQuote Kind = "QUOTE"
)

// DiscountType selects how Order.Discount is interpreted by the pricing engine.
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

// LineItem is one priced line on an order or quote. It is owned exclusively
// by its parent aggregate and is immutable once the parent leaves DRAFT,
// except through the explicit ReviseItems action.
type LineItem struct {
	ID          int             `json:"id"`
	OrderID     int             `json:"order_id"`
	Position    int             `json:"position"`
	ProductID   *int            `json:"product_id,omitempty"` // catalog reference, optional for free-form lines
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"` // derived: quantity × unit price
}

// Payment is one recorded payment against an order. Many payments may exist
// per order; their sum is the order's amount paid.
type Payment struct {
	ID                int             `json:"id"`
	OrderID           int             `json:"order_id"`
	Amount            decimal.Decimal `json:"amount"`
	Method            string          `json:"method"`
	ProviderReference string          `json:"provider_reference,omitempty"`
	RecordedBy        string          `json:"recorded_by"`
	RecordedAt        time.Time       `json:"recorded_at"`
}

// Order is the order/quote aggregate. Totals are always derived from the
// current items, discount, fees, tax rate, and payments, never stored as an
// independently editable column.
type Order struct {
	ID               int             `json:"id"`
	Kind             Kind            `json:"kind"`
	ContactID        int             `json:"contact_id"`
	ContactName      string          `json:"contact_name"` // joined from contacts
	Status           Status          `json:"status"`
	Items            []LineItem      `json:"items"`
	Payments         []Payment       `json:"payments,omitempty"`
	Discount         decimal.Decimal `json:"discount"`
	DiscountType     DiscountType    `json:"discount_type"`
	SetupFee         decimal.Decimal `json:"setup_fee"`
	DeliveryFee      decimal.Decimal `json:"delivery_fee"`
	TaxRate          decimal.Decimal `json:"tax_rate"`                // percentage in [0,100]
	DeliveryDate     string          `json:"delivery_date,omitempty"` // YYYY-MM-DD
	DeliveryAddress  string          `json:"delivery_address,omitempty"`
	ValidUntil       string          `json:"valid_until,omitempty"` // quotes only, YYYY-MM-DD
	Notes            string          `json:"notes,omitempty"`
	SourceQuoteID    *int            `json:"source_quote_id,omitempty"`    // set on orders created by quote conversion
	ConvertedOrderID *int            `json:"converted_order_id,omitempty"` // set on accepted quotes after conversion
	Version          int             `json:"version"`
	Totals           Totals          `json:"totals"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Totals is the pricing engine output. Every field is non-negative and
// rounded to 2 decimal places.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxableBase    decimal.Decimal `json:"taxable_base"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Total          decimal.Decimal `json:"total"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	Outstanding    decimal.Decimal `json:"outstanding"`
}

// AuditAction tags an audit log entry.
type AuditAction string

const (
	AuditStatusChanged      AuditAction = "StatusChanged"
	AuditPaymentRecorded    AuditAction = "PaymentRecorded"
	AuditNoteAdded          AuditAction = "NoteAdded"
	AuditItemsRevised       AuditAction = "ItemsRevised"
	AuditConvertedFromQuote AuditAction = "ConvertedFromQuote"
	AuditConvertedToOrder   AuditAction = "ConvertedToOrder"
)

// AuditLogEntry is one append-only history record for an order or quote.
// Entries are never edited or deleted once written.
type AuditLogEntry struct {
	ID        int         `json:"id"`
	OrderID   int         `json:"order_id"`
	Action    AuditAction `json:"action"`
	Details   string      `json:"details"`
	Actor     string      `json:"actor"`
	CreatedAt time.Time   `json:"created_at"`
}

// LineItemInput is used when creating an aggregate or revising its items.
// If ProductID is set and UnitPrice is zero, the catalog price is used and
// the product name fills an empty Name.
type LineItemInput struct {
	ProductID   *int            `json:"product_id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateOrderInput carries everything needed to create a DRAFT order or quote.
// Actor is the authenticated user performing the action and is always passed
// in explicitly.
type CreateOrderInput struct {
	Kind            Kind
	ContactID       int
	Items           []LineItemInput
	Discount        decimal.Decimal
	DiscountType    DiscountType
	SetupFee        decimal.Decimal
	DeliveryFee     decimal.Decimal
	TaxRate         decimal.Decimal
	DeliveryDate    string
	DeliveryAddress string
	ValidUntil      string // quotes only
	Notes           string
	Actor           string
}
