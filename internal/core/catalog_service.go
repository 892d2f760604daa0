package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CatalogService manages the product list and the recipes behind it.
type CatalogService interface {
	CreateProduct(ctx context.Context, name, description string, unitPrice decimal.Decimal) (*Product, error)
	ListProducts(ctx context.Context, includeInactive bool) ([]Product, error)
	DeactivateProduct(ctx context.Context, id int) error

	CreateRecipe(ctx context.Context, name string, productID *int, yieldCount int, instructions string, ingredients []RecipeIngredientInput) (*Recipe, error)
	GetRecipe(ctx context.Context, id int) (*Recipe, error)
	ListRecipes(ctx context.Context) ([]Recipe, error)
}

type catalogService struct {
	pool *pgxpool.Pool
}

func NewCatalogService(pool *pgxpool.Pool) CatalogService {
	return &catalogService{pool: pool}
}

// ── Products ─────────────────────────────────────────────────────────────────

func (s *catalogService) CreateProduct(ctx context.Context, name, description string, unitPrice decimal.Decimal) (*Product, error) {
	if name == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if unitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: product price must not be negative, got %s", ErrInvalidLineItem, unitPrice)
	}

	var p Product
	err := s.pool.QueryRow(ctx, `
		INSERT INTO products (name, description, unit_price)
		VALUES ($1, NULLIF($2, ''), $3)
		RETURNING id, name, COALESCE(description, ''), unit_price, is_active, created_at
	`, name, description, unitPrice).Scan(&p.ID, &p.Name, &p.Description, &p.UnitPrice, &p.IsActive, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &p, nil
}

func (s *catalogService) ListProducts(ctx context.Context, includeInactive bool) ([]Product, error) {
	query := "SELECT id, name, COALESCE(description, ''), unit_price, is_active, created_at FROM products"
	if !includeInactive {
		query += " WHERE is_active = true"
	}
	query += " ORDER BY name"

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.UnitPrice, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *catalogService) DeactivateProduct(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, "UPDATE products SET is_active = false WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to deactivate product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	return nil
}

// ── Recipes ──────────────────────────────────────────────────────────────────

func (s *catalogService) CreateRecipe(ctx context.Context, name string, productID *int, yieldCount int, instructions string, ingredients []RecipeIngredientInput) (*Recipe, error) {
	if name == "" {
		return nil, fmt.Errorf("recipe name is required")
	}
	if yieldCount < 1 {
		return nil, fmt.Errorf("recipe yield must be at least 1, got %d", yieldCount)
	}
	for i, ing := range ingredients {
		if ing.Name == "" {
			return nil, fmt.Errorf("ingredient %d needs a name", i+1)
		}
		if ing.Cost.IsNegative() {
			return nil, fmt.Errorf("ingredient %d cost must not be negative, got %s", i+1, ing.Cost)
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var recipeID int
	err = tx.QueryRow(ctx, `
		INSERT INTO recipes (name, product_id, yield_count, instructions)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING id
	`, name, productID, yieldCount, instructions).Scan(&recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	for _, ing := range ingredients {
		_, err := tx.Exec(ctx, `
			INSERT INTO recipe_ingredients (recipe_id, name, quantity, unit, cost)
			VALUES ($1, $2, $3, $4, $5)
		`, recipeID, ing.Name, ing.Quantity, ing.Unit, ing.Cost)
		if err != nil {
			return nil, fmt.Errorf("failed to insert ingredient %q: %w", ing.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit recipe: %w", err)
	}
	return s.GetRecipe(ctx, recipeID)
}

func (s *catalogService) GetRecipe(ctx context.Context, id int) (*Recipe, error) {
	var r Recipe
	err := s.pool.QueryRow(ctx, `
		SELECT id, product_id, name, yield_count, COALESCE(instructions, ''), created_at
		FROM recipes WHERE id = $1
	`, id).Scan(&r.ID, &r.ProductID, &r.Name, &r.YieldCount, &r.Instructions, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: recipe %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to fetch recipe %d: %w", id, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, recipe_id, name, quantity, unit, cost
		FROM recipe_ingredients WHERE recipe_id = $1 ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingredients: %w", err)
	}
	defer rows.Close()

	cost := decimal.Zero
	for rows.Next() {
		var ing RecipeIngredient
		if err := rows.Scan(&ing.ID, &ing.RecipeID, &ing.Name, &ing.Quantity, &ing.Unit, &ing.Cost); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		cost = cost.Add(ing.Cost)
		r.Ingredients = append(r.Ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.BatchCost = cost.Round(2)
	return &r, nil
}

func (s *catalogService) ListRecipes(ctx context.Context) ([]Recipe, error) {
	rows, err := s.pool.Query(ctx, "SELECT id FROM recipes ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan recipe id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var recipes []Recipe
	for _, id := range ids {
		r, err := s.GetRecipe(ctx, id)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, *r)
	}
	return recipes, nil
}
