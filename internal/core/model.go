package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contact is a bakery customer record. Orders and quotes reference contacts
// by id but do not own them.
type Contact struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Product is a sellable catalog item used to prefill order lines.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Recipe describes how a product is made. Ingredient costs roll up into an
// estimated batch cost.
type Recipe struct {
	ID           int                `json:"id"`
	ProductID    *int               `json:"product_id,omitempty"`
	Name         string             `json:"name"`
	YieldCount   int                `json:"yield_count"` // servings per batch
	Instructions string             `json:"instructions,omitempty"`
	Ingredients  []RecipeIngredient `json:"ingredients"`
	BatchCost    decimal.Decimal    `json:"batch_cost"` // derived: Σ ingredient costs
	CreatedAt    time.Time          `json:"created_at"`
}

// RecipeIngredient is one line of a recipe.
type RecipeIngredient struct {
	ID       int             `json:"id"`
	RecipeID int             `json:"recipe_id"`
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	Cost     decimal.Decimal `json:"cost"`
}

// RecipeIngredientInput is used when creating or updating a recipe.
type RecipeIngredientInput struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	Cost     decimal.Decimal `json:"cost"`
}

// Expense is one business expense record.
type Expense struct {
	ID          int             `json:"id"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Vendor      string          `json:"vendor,omitempty"`
	IncurredOn  string          `json:"incurred_on"` // YYYY-MM-DD
	CreatedAt   time.Time       `json:"created_at"`
}

// ExpenseSummary is one row of the monthly per-category rollup.
type ExpenseSummary struct {
	Category string          `json:"category"`
	Count    int             `json:"count"`
	Total    decimal.Decimal `json:"total"`
}
