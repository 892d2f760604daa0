package core_test

import (
	"context"
	"errors"
	"testing"

	"bakeshop/internal/core"
)

func TestContactService_CRUDAndSearch(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewContactService(pool)
	ctx := context.Background()

	created, err := svc.CreateContact(ctx, "Priya Nair", "priya@example.com", "555-0199", "", "gluten free")
	if err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}
	if created.ID == 0 || created.Email != "priya@example.com" {
		t.Errorf("unexpected contact %+v", created)
	}

	updated, err := svc.UpdateContact(ctx, created.ID, "Priya Nair", "priya.n@example.com", "555-0199", "12 Mill Rd", "gluten free")
	if err != nil {
		t.Fatalf("UpdateContact failed: %v", err)
	}
	if updated.Email != "priya.n@example.com" || updated.Address != "12 Mill Rd" {
		t.Errorf("unexpected contact after update %+v", updated)
	}

	got, err := svc.GetContact(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetContact failed: %v", err)
	}
	if got.Email != "priya.n@example.com" {
		t.Errorf("expected updated email, got %q", got.Email)
	}

	// Case-insensitive search on name and email.
	found, err := svc.ListContacts(ctx, "priya")
	if err != nil {
		t.Fatalf("ListContacts failed: %v", err)
	}
	if len(found) != 1 || found[0].ID != created.ID {
		t.Errorf("expected one match, got %d", len(found))
	}

	all, err := svc.ListContacts(ctx, "")
	if err != nil {
		t.Fatalf("ListContacts failed: %v", err)
	}
	if len(all) != 3 { // two seeded + one created
		t.Errorf("expected 3 contacts, got %d", len(all))
	}

	if _, err := svc.GetContact(ctx, 99999); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.UpdateContact(ctx, 99999, "Ghost", "", "", "", ""); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalogService_ProductsAndRecipes(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewCatalogService(pool)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, "Focaccia", "Rosemary and sea salt", dec("6.25"))
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if !product.IsActive {
		t.Error("new products should be active")
	}

	if err := svc.DeactivateProduct(ctx, product.ID); err != nil {
		t.Fatalf("DeactivateProduct failed: %v", err)
	}

	active, err := svc.ListProducts(ctx, false)
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	for _, p := range active {
		if p.ID == product.ID {
			t.Error("deactivated product should not appear in the active list")
		}
	}
	everything, err := svc.ListProducts(ctx, true)
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if len(everything) != len(active)+1 {
		t.Errorf("expected the inactive product in the full list")
	}

	if err := svc.DeactivateProduct(ctx, 99999); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Recipe with a batch cost rolled up from its ingredients.
	sourdoughID := 1
	recipe, err := svc.CreateRecipe(ctx, "Sourdough batch", &sourdoughID, 8, "Mix, proof overnight, bake at 230C.",
		[]core.RecipeIngredientInput{
			{Name: "Bread flour", Quantity: dec("2.5"), Unit: "kg", Cost: dec("3.20")},
			{Name: "Salt", Quantity: dec("0.05"), Unit: "kg", Cost: dec("0.10")},
			{Name: "Starter", Quantity: dec("0.5"), Unit: "kg", Cost: dec("0.00")},
		})
	if err != nil {
		t.Fatalf("CreateRecipe failed: %v", err)
	}
	if len(recipe.Ingredients) != 3 {
		t.Fatalf("expected 3 ingredients, got %d", len(recipe.Ingredients))
	}
	if !recipe.BatchCost.Equal(dec("3.30")) {
		t.Errorf("expected batch cost 3.30, got %s", recipe.BatchCost)
	}

	got, err := svc.GetRecipe(ctx, recipe.ID)
	if err != nil {
		t.Fatalf("GetRecipe failed: %v", err)
	}
	if got.YieldCount != 8 {
		t.Errorf("expected yield 8, got %d", got.YieldCount)
	}

	if _, err := svc.GetRecipe(ctx, 99999); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestExpenseService_RecordListSummary(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewExpenseService(pool)
	ctx := context.Background()

	seed := []struct {
		category string
		amount   string
		date     string
	}{
		{"ingredients", "120.40", "2026-03-02"},
		{"ingredients", "80.00", "2026-03-18"},
		{"utilities", "210.55", "2026-03-05"},
		{"ingredients", "95.00", "2026-04-01"},
	}
	for _, e := range seed {
		if _, err := svc.RecordExpense(ctx, e.category, "", dec(e.amount), "Cash & Carry", e.date); err != nil {
			t.Fatalf("RecordExpense failed: %v", err)
		}
	}

	// Category and date range filters combine.
	march, err := svc.ListExpenses(ctx, "ingredients", "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(march) != 2 {
		t.Fatalf("expected 2 march ingredient expenses, got %d", len(march))
	}
	// Newest first.
	if march[0].IncurredOn != "2026-03-18" {
		t.Errorf("expected newest first, got %s", march[0].IncurredOn)
	}

	summary, err := svc.MonthlySummary(ctx, 2026, 3)
	if err != nil {
		t.Fatalf("MonthlySummary failed: %v", err)
	}
	if len(summary) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(summary))
	}
	if summary[0].Category != "ingredients" || !summary[0].Total.Equal(dec("200.40")) {
		t.Errorf("unexpected ingredients rollup %+v", summary[0])
	}
	if summary[1].Category != "utilities" || summary[1].Count != 1 {
		t.Errorf("unexpected utilities rollup %+v", summary[1])
	}

	if _, err := svc.MonthlySummary(ctx, 2026, 13); err == nil {
		t.Error("expected error for month 13")
	}

	all, err := svc.ListExpenses(ctx, "", "", "")
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if err := svc.DeleteExpense(ctx, all[0].ID); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	if err := svc.DeleteExpense(ctx, all[0].ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}

	if _, err := svc.RecordExpense(ctx, "ingredients", "", dec("0"), "", "2026-03-01"); err == nil {
		t.Error("expected error for zero amount")
	}
	if _, err := svc.RecordExpense(ctx, "", "", dec("5"), "", "2026-03-01"); err == nil {
		t.Error("expected error for missing category")
	}
}
