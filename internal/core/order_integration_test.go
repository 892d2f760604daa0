package core_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"bakeshop/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE audit_log, payments, order_items, orders, recipe_ingredients, recipes, products, contacts, expenses RESTART IDENTITY CASCADE;

		INSERT INTO contacts (name, email, phone) VALUES
		('Maria Lopez',  'maria@example.com',  '555-0101'),
		('Sam Whitfield', 'sam@example.com',   '555-0102');

		INSERT INTO products (name, description, unit_price) VALUES
		('Sourdough Loaf',   'Classic sourdough',       8.50),
		('Birthday Cake 8"', 'Two-layer vanilla cake', 45.00),
		('Croissant',        'All butter',              3.75);
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

func newOrderService(pool *pgxpool.Pool) (core.OrderService, *core.AuditLog) {
	audit := core.NewAuditLog(pool)
	return core.NewOrderService(pool, audit), audit
}

func draftOrderInput() core.CreateOrderInput {
	return core.CreateOrderInput{
		ContactID: 1,
		Items: []core.LineItemInput{
			{Name: "Custom cupcakes", Quantity: 2, UnitPrice: decimal.NewFromFloat(15.00)},
		},
		Discount:     decimal.NewFromInt(10),
		DiscountType: core.DiscountPercent,
		SetupFee:     decimal.NewFromInt(5),
		TaxRate:      decimal.NewFromInt(10),
		Actor:        "tester",
	}
}

func TestOrderService_FullLifecycle(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc, audit := newOrderService(pool)
	ctx := context.Background()

	// 1. Create: 2 × 15.00, 10% discount, 5.00 setup, 10% tax → total 34.70.
	order, err := svc.CreateOrder(ctx, draftOrderInput())
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if order.Status != core.StatusDraft {
		t.Errorf("expected DRAFT, got %s", order.Status)
	}
	if order.Kind != core.KindOrder {
		t.Errorf("expected kind ORDER, got %s", order.Kind)
	}
	if !order.Totals.Total.Equal(dec("34.70")) {
		t.Errorf("expected total 34.70, got %s", order.Totals.Total)
	}
	if order.Version != 1 {
		t.Errorf("expected version 1, got %d", order.Version)
	}

	// 2. Confirm.
	order, err = svc.ChangeStatus(ctx, order.ID, core.ActionConfirm, "tester")
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if order.Status != core.StatusConfirmed {
		t.Errorf("expected CONFIRMED, got %s", order.Status)
	}

	// 3. Partial payment: marking paid must fail while money is outstanding.
	if _, err := svc.AddPayment(ctx, order.ID, dec("20.00"), "card", "", "tester"); err != nil {
		t.Fatalf("AddPayment failed: %v", err)
	}
	_, err = svc.ChangeStatus(ctx, order.ID, core.ActionMarkPaid, "tester")
	if !errors.Is(err, core.ErrPaymentIncomplete) {
		t.Fatalf("expected ErrPaymentIncomplete, got %v", err)
	}

	// 4. Pay the rest, then the transition goes through.
	totals, err := svc.AddPayment(ctx, order.ID, dec("14.70"), "cash", "", "tester")
	if err != nil {
		t.Fatalf("AddPayment failed: %v", err)
	}
	if !totals.Outstanding.IsZero() {
		t.Fatalf("expected zero outstanding, got %s", totals.Outstanding)
	}
	order, err = svc.ChangeStatus(ctx, order.ID, core.ActionMarkPaid, "tester")
	if err != nil {
		t.Fatalf("mark_paid failed: %v", err)
	}
	if order.Status != core.StatusPaid {
		t.Errorf("expected PAID, got %s", order.Status)
	}

	// 5. Ready, delivered.
	if _, err := svc.ChangeStatus(ctx, order.ID, core.ActionMarkReady, "tester"); err != nil {
		t.Fatalf("mark_ready failed: %v", err)
	}
	order, err = svc.ChangeStatus(ctx, order.ID, core.ActionDeliver, "tester")
	if err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if order.Status != core.StatusDelivered {
		t.Errorf("expected DELIVERED, got %s", order.Status)
	}

	// 6. Delivered is terminal.
	_, err = svc.ChangeStatus(ctx, order.ID, core.ActionCancel, "tester")
	if !errors.Is(err, core.ErrIllegalTransition) {
		t.Errorf("expected ErrIllegalTransition cancelling a delivered order, got %v", err)
	}

	// 7. History reads back in order: 4 status changes + 2 payments.
	entries, err := audit.History(ctx, order.ID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	wantActions := []core.AuditAction{
		core.AuditStatusChanged,   // DRAFT -> CONFIRMED
		core.AuditPaymentRecorded, // 20.00
		core.AuditPaymentRecorded, // 14.70
		core.AuditStatusChanged,   // CONFIRMED -> PAID
		core.AuditStatusChanged,   // PAID -> READY
		core.AuditStatusChanged,   // READY -> DELIVERED
	}
	if len(entries) != len(wantActions) {
		t.Fatalf("expected %d audit entries, got %d", len(wantActions), len(entries))
	}
	for i, want := range wantActions {
		if entries[i].Action != want {
			t.Errorf("entry %d: expected %s, got %s (%s)", i, want, entries[i].Action, entries[i].Details)
		}
		if entries[i].Actor == "" {
			t.Errorf("entry %d: actor must not be empty", i)
		}
	}
	if entries[0].Details != "DRAFT -> CONFIRMED" {
		t.Errorf("unexpected first entry details %q", entries[0].Details)
	}
}

func TestOrderService_ProductCatalogPrefill(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc, _ := newOrderService(pool)
	ctx := context.Background()

	productID := 1 // Sourdough Loaf, 8.50
	order, err := svc.CreateOrder(ctx, core.CreateOrderInput{
		ContactID: 1,
		Items: []core.LineItemInput{
			{ProductID: &productID, Quantity: 3},
		},
		Actor: "tester",
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if len(order.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(order.Items))
	}
	item := order.Items[0]
	if item.Name != "Sourdough Loaf" {
		t.Errorf("expected catalog name, got %q", item.Name)
	}
	if !item.UnitPrice.Equal(dec("8.50")) {
		t.Errorf("expected catalog price 8.50, got %s", item.UnitPrice)
	}
	if !order.Totals.Subtotal.Equal(dec("25.50")) {
		t.Errorf("expected subtotal 25.50, got %s", order.Totals.Subtotal)
	}

	// An explicit price on the line overrides the catalog.
	order, err = svc.CreateOrder(ctx, core.CreateOrderInput{
		ContactID: 1,
		Items: []core.LineItemInput{
			{ProductID: &productID, Quantity: 1, UnitPrice: dec("7.00")},
		},
		Actor: "tester",
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if !order.Items[0].UnitPrice.Equal(dec("7.00")) {
		t.Errorf("expected explicit price 7.00, got %s", order.Items[0].UnitPrice)
	}

	// Unknown product fails the whole create.
	missing := 999
	_, err = svc.CreateOrder(ctx, core.CreateOrderInput{
		ContactID: 1,
		Items:     []core.LineItemInput{{ProductID: &missing, Quantity: 1}},
		Actor:     "tester",
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown product, got %v", err)
	}
}

func TestOrderService_ReviseItems(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc, _ := newOrderService(pool)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, draftOrderInput())
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	// Revision against the current version succeeds and bumps the version.
	revised, err := svc.ReviseItems(ctx, order.ID, order.Version, []core.LineItemInput{
		{Name: "Custom cupcakes", Quantity: 4, UnitPrice: dec("15.00")},
	}, "tester")
	if err != nil {
		t.Fatalf("ReviseItems failed: %v", err)
	}
	if !revised.Totals.Subtotal.Equal(dec("60.00")) {
		t.Errorf("expected subtotal 60.00, got %s", revised.Totals.Subtotal)
	}
	if revised.Version <= order.Version {
		t.Errorf("expected version bump past %d, got %d", order.Version, revised.Version)
	}

	// A stale version is rejected.
	_, err = svc.ReviseItems(ctx, order.ID, order.Version, []core.LineItemInput{
		{Name: "Custom cupcakes", Quantity: 1, UnitPrice: dec("15.00")},
	}, "tester")
	if !errors.Is(err, core.ErrConflict) {
		t.Fatalf("expected ErrConflict on stale version, got %v", err)
	}

	// Items stop being revisable once the order is paid.
	if _, err := svc.ChangeStatus(ctx, order.ID, core.ActionConfirm, "tester"); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if _, err := svc.AddPayment(ctx, order.ID, revised.Totals.Total, "cash", "", "tester"); err != nil {
		t.Fatalf("AddPayment failed: %v", err)
	}
	if _, err := svc.ChangeStatus(ctx, order.ID, core.ActionMarkPaid, "tester"); err != nil {
		t.Fatalf("mark_paid failed: %v", err)
	}
	current, err := svc.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	_, err = svc.ReviseItems(ctx, order.ID, current.Version, []core.LineItemInput{
		{Name: "Custom cupcakes", Quantity: 1, UnitPrice: dec("15.00")},
	}, "tester")
	if !errors.Is(err, core.ErrIllegalTransition) {
		t.Errorf("expected ErrIllegalTransition revising a paid order, got %v", err)
	}
}

func TestOrderService_PaymentRules(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc, _ := newOrderService(pool)
	ctx := context.Background()

	quote, err := svc.CreateQuote(ctx, core.CreateOrderInput{
		ContactID: 1,
		Items:     []core.LineItemInput{{Name: "Wedding tasting", Quantity: 1, UnitPrice: dec("40.00")}},
		Actor:     "tester",
	})
	if err != nil {
		t.Fatalf("CreateQuote failed: %v", err)
	}

	// Quotes never take payments.
	_, err = svc.AddPayment(ctx, quote.ID, dec("40.00"), "cash", "", "tester")
	if !errors.Is(err, core.ErrInvalidPayment) {
		t.Errorf("expected ErrInvalidPayment for a quote, got %v", err)
	}

	order, err := svc.CreateOrder(ctx, draftOrderInput())
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	// Non-positive amounts are rejected.
	_, err = svc.AddPayment(ctx, order.ID, decimal.Zero, "cash", "", "tester")
	if !errors.Is(err, core.ErrInvalidPayment) {
		t.Errorf("expected ErrInvalidPayment for zero amount, got %v", err)
	}

	// Cancelled orders take no payments either.
	if _, err := svc.ChangeStatus(ctx, order.ID, core.ActionCancel, "tester"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	_, err = svc.AddPayment(ctx, order.ID, dec("10.00"), "cash", "", "tester")
	if !errors.Is(err, core.ErrInvalidPayment) {
		t.Errorf("expected ErrInvalidPayment for cancelled order, got %v", err)
	}

	// Unknown orders surface ErrOrderNotFound.
	_, err = svc.AddPayment(ctx, 99999, dec("10.00"), "cash", "", "tester")
	if !errors.Is(err, core.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderService_ListOrders(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc, _ := newOrderService(pool)
	ctx := context.Background()

	first, err := svc.CreateOrder(ctx, draftOrderInput())
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if _, err := svc.CreateOrder(ctx, draftOrderInput()); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if _, err := svc.ChangeStatus(ctx, first.ID, core.ActionConfirm, "tester"); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if _, err := svc.CreateQuote(ctx, core.CreateOrderInput{
		ContactID: 2,
		Items:     []core.LineItemInput{{Name: "Quote line", Quantity: 1, UnitPrice: dec("12.00")}},
		Actor:     "tester",
	}); err != nil {
		t.Fatalf("CreateQuote failed: %v", err)
	}

	orders, err := svc.ListOrders(ctx, core.KindOrder, nil)
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].ContactName == "" {
		t.Error("expected contact name to be joined in")
	}

	confirmed := core.StatusConfirmed
	filtered, err := svc.ListOrders(ctx, core.KindOrder, &confirmed)
	if err != nil {
		t.Fatalf("ListOrders with filter failed: %v", err)
	}
	if len(filtered) != 1 || filtered[0].ID != first.ID {
		t.Errorf("expected only the confirmed order, got %d rows", len(filtered))
	}

	quotes, err := svc.ListOrders(ctx, core.KindQuote, nil)
	if err != nil {
		t.Fatalf("ListOrders quotes failed: %v", err)
	}
	if len(quotes) != 1 {
		t.Errorf("expected 1 quote, got %d", len(quotes))
	}
}

func TestAuditLog_AppendAndHistory(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc, audit := newOrderService(pool)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, draftOrderInput())
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if _, err := svc.AddNote(ctx, order.ID, "customer wants pink frosting", "tester"); err != nil {
		t.Fatalf("AddNote failed: %v", err)
	}

	entries, err := audit.History(ctx, order.ID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Action != core.AuditNoteAdded || entries[0].Details != "customer wants pink frosting" {
		t.Errorf("unexpected entry %+v", entries[0])
	}

	// History of a missing order is an error, not an empty list.
	_, err = audit.History(ctx, 99999)
	if !errors.Is(err, core.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}

	// Appending against a missing order fails too.
	_, err = audit.Append(ctx, 99999, core.AuditNoteAdded, "ghost", "tester")
	if !errors.Is(err, core.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}
