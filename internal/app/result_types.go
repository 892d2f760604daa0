package app

import "bakeshop/internal/core"

// OrderResult is returned by order and quote lifecycle operations.
type OrderResult struct {
	Order *core.Order `json:"order"`
}

// OrderListResult is returned by ListOrders.
type OrderListResult struct {
	Orders []core.Order `json:"orders"`
}

// PaymentResult is returned by RecordPayment: the stored provider reference
// and the totals after the payment landed.
type PaymentResult struct {
	ProviderReference string      `json:"provider_reference,omitempty"`
	Totals            core.Totals `json:"totals"`
}

// HistoryResult is returned by GetHistory and AddNote, oldest entry first.
type HistoryResult struct {
	Entries []core.AuditLogEntry `json:"entries"`
}

// ContactResult is returned by contact operations.
type ContactResult struct {
	Contact *core.Contact `json:"contact"`
}

// ContactListResult is returned by ListContacts.
type ContactListResult struct {
	Contacts []core.Contact `json:"contacts"`
}

// ProductResult is returned by CreateProduct.
type ProductResult struct {
	Product *core.Product `json:"product"`
}

// ProductListResult is returned by ListProducts.
type ProductListResult struct {
	Products []core.Product `json:"products"`
}

// RecipeResult is returned by recipe operations.
type RecipeResult struct {
	Recipe *core.Recipe `json:"recipe"`
}

// RecipeListResult is returned by ListRecipes.
type RecipeListResult struct {
	Recipes []core.Recipe `json:"recipes"`
}

// ExpenseResult is returned by RecordExpense.
type ExpenseResult struct {
	Expense *core.Expense `json:"expense"`
}

// ExpenseListResult is returned by ListExpenses.
type ExpenseListResult struct {
	Expenses []core.Expense `json:"expenses"`
}

// ExpenseSummaryResult is returned by ExpenseSummary.
type ExpenseSummaryResult struct {
	Year    int                   `json:"year"`
	Month   int                   `json:"month"`
	Rows    []core.ExpenseSummary `json:"rows"`
}

// ImportResult reports an import run: how many records landed and which
// rows were skipped with why.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped,omitempty"`
}
