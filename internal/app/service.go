package app

import (
	"context"
	"io"
)

// ApplicationService is the single interface the web adapter calls. It
// decouples presentation from business logic; implementations contain no
// display logic of any kind.
type ApplicationService interface {
	// Orders
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResult, error)
	GetOrder(ctx context.Context, orderID int) (*OrderResult, error)
	ListOrders(ctx context.Context, req ListOrdersRequest) (*OrderListResult, error)
	ChangeStatus(ctx context.Context, req ChangeStatusRequest) (*OrderResult, error)
	ReviseItems(ctx context.Context, req ReviseItemsRequest) (*OrderResult, error)
	AddNote(ctx context.Context, req AddNoteRequest) (*HistoryResult, error)
	GetHistory(ctx context.Context, orderID int) (*HistoryResult, error)

	// Payments
	RecordPayment(ctx context.Context, req RecordPaymentRequest) (*PaymentResult, error)

	// Quotes
	CreateQuote(ctx context.Context, req CreateOrderRequest) (*OrderResult, error)
	ConvertQuoteToOrder(ctx context.Context, quoteID int, actor string) (*OrderResult, error)

	// Contacts
	CreateContact(ctx context.Context, req ContactRequest) (*ContactResult, error)
	UpdateContact(ctx context.Context, id int, req ContactRequest) (*ContactResult, error)
	GetContact(ctx context.Context, id int) (*ContactResult, error)
	ListContacts(ctx context.Context, search string) (*ContactListResult, error)

	// Catalog
	CreateProduct(ctx context.Context, req ProductRequest) (*ProductResult, error)
	ListProducts(ctx context.Context, includeInactive bool) (*ProductListResult, error)
	DeactivateProduct(ctx context.Context, id int) error
	CreateRecipe(ctx context.Context, req RecipeRequest) (*RecipeResult, error)
	GetRecipe(ctx context.Context, id int) (*RecipeResult, error)
	ListRecipes(ctx context.Context) (*RecipeListResult, error)

	// Expenses
	RecordExpense(ctx context.Context, req ExpenseRequest) (*ExpenseResult, error)
	ListExpenses(ctx context.Context, category, from, to string) (*ExpenseListResult, error)
	DeleteExpense(ctx context.Context, id int) error
	ExpenseSummary(ctx context.Context, year, month int) (*ExpenseSummaryResult, error)

	// CSV import
	ImportContacts(ctx context.Context, r io.Reader) (*ImportResult, error)
	ImportExpenses(ctx context.Context, r io.Reader) (*ImportResult, error)
}
