package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// OrderService manages the order/quote aggregate: creation, payments, status
// transitions, item revisions, and quote conversion. Every mutation runs in a
// single transaction that locks the aggregate row, so concurrent operations
// on the same order are sequenced and the audit entry is atomic with the
// change it records.
type OrderService interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*Order, error)
	CreateQuote(ctx context.Context, input CreateOrderInput) (*Order, error)

	// AddPayment records a payment against an order and returns the
	// recomputed totals. Amounts must be positive; quotes take no payments.
	AddPayment(ctx context.Context, orderID int, amount decimal.Decimal, method, providerRef, actor string) (Totals, error)

	// ChangeStatus applies a state machine action. Marking an order PAID
	// requires a zero outstanding balance.
	ChangeStatus(ctx context.Context, orderID int, action Action, actor string) (*Order, error)

	// ReviseItems replaces the aggregate's line items. version is the version
	// the caller last read; a mismatch fails with ErrConflict. Items are only
	// revisable while the aggregate is DRAFT (quotes) or DRAFT/CONFIRMED
	// (orders).
	ReviseItems(ctx context.Context, orderID, version int, items []LineItemInput, actor string) (*Order, error)

	// AddNote appends a free-form NoteAdded audit entry.
	AddNote(ctx context.Context, orderID int, note, actor string) (*AuditLogEntry, error)

	// ConvertQuoteToOrder copies an ACCEPTED quote's items and terms into a
	// new DRAFT order.
	ConvertQuoteToOrder(ctx context.Context, quoteID int, actor string) (*Order, error)

	// ExpireOverdueQuotes applies the expire action to every SENT quote whose
	// validity date is before asOf (YYYY-MM-DD). Returns how many expired.
	ExpireOverdueQuotes(ctx context.Context, asOf, actor string) (int, error)

	// Queries
	GetOrder(ctx context.Context, orderID int) (*Order, error)
	ListOrders(ctx context.Context, kind Kind, status *Status) ([]Order, error)
}

type orderService struct {
	pool  *pgxpool.Pool
	audit *AuditLog
}

func NewOrderService(pool *pgxpool.Pool, audit *AuditLog) OrderService {
	return &orderService{pool: pool, audit: audit}
}

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, enabling shared
// query helpers.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ── Creation ─────────────────────────────────────────────────────────────────

func (s *orderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*Order, error) {
	input.Kind = KindOrder
	input.ValidUntil = ""
	return s.create(ctx, input)
}

func (s *orderService) CreateQuote(ctx context.Context, input CreateOrderInput) (*Order, error) {
	input.Kind = KindQuote
	return s.create(ctx, input)
}

func (s *orderService) create(ctx context.Context, input CreateOrderInput) (*Order, error) {
	if input.Actor == "" {
		return nil, fmt.Errorf("actor is required")
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one line item is required", ErrInvalidLineItem)
	}
	if err := validateItemInputs(input.Items); err != nil {
		return nil, err
	}
	if input.DiscountType == "" {
		input.DiscountType = DiscountFixed
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var contactName string
	err = tx.QueryRow(ctx, "SELECT name FROM contacts WHERE id = $1", input.ContactID).Scan(&contactName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: contact %d", ErrNotFound, input.ContactID)
		}
		return nil, fmt.Errorf("failed to resolve contact %d: %w", input.ContactID, err)
	}

	items, err := resolveLineItems(ctx, tx, input.Items)
	if err != nil {
		return nil, err
	}

	// Run the pricing engine before persisting anything: a discount, fee, or
	// tax rate the engine would reject must never reach the database.
	if _, err := ComputeTotals(items, input.Discount, input.DiscountType, input.SetupFee, input.DeliveryFee, input.TaxRate, nil); err != nil {
		return nil, err
	}

	var orderID int
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (kind, contact_id, status, discount, discount_type, setup_fee, delivery_fee, tax_rate,
		                    delivery_date, delivery_address, valid_until, notes, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, NULLIF($11, ''), $12, 1)
		RETURNING id
	`, input.Kind, input.ContactID, StatusDraft, input.Discount, input.DiscountType, input.SetupFee,
		input.DeliveryFee, input.TaxRate, input.DeliveryDate, input.DeliveryAddress, input.ValidUntil, input.Notes).Scan(&orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert %s: %w", input.Kind, err)
	}

	if err := insertLineItems(ctx, tx, orderID, items); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit %s creation: %w", input.Kind, err)
	}

	return s.GetOrder(ctx, orderID)
}

// ── Payments ─────────────────────────────────────────────────────────────────

func (s *orderService) AddPayment(ctx context.Context, orderID int, amount decimal.Decimal, method, providerRef, actor string) (Totals, error) {
	if !amount.IsPositive() {
		return Totals{}, fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidPayment, amount)
	}
	if method == "" {
		method = "cash"
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Totals{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var kind Kind
	var status Status
	err = tx.QueryRow(ctx, "SELECT kind, status FROM orders WHERE id = $1 FOR UPDATE", orderID).Scan(&kind, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Totals{}, fmt.Errorf("%w: order %d", ErrOrderNotFound, orderID)
		}
		return Totals{}, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}
	if kind != KindOrder {
		return Totals{}, fmt.Errorf("%w: payments can only be recorded against orders, %d is a quote", ErrInvalidPayment, orderID)
	}
	if status == StatusCancelled {
		return Totals{}, fmt.Errorf("%w: order %d is cancelled", ErrInvalidPayment, orderID)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO payments (order_id, amount, method, provider_reference, recorded_by)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
	`, orderID, amount, method, providerRef, actor)
	if err != nil {
		return Totals{}, fmt.Errorf("failed to insert payment: %w", err)
	}

	details := fmt.Sprintf("%s via %s", amount.StringFixed(2), method)
	if providerRef != "" {
		details += " (ref " + providerRef + ")"
	}
	if _, err := appendAuditTx(ctx, tx, orderID, AuditPaymentRecorded, details, actor); err != nil {
		return Totals{}, err
	}

	if err := touchOrderTx(ctx, tx, orderID); err != nil {
		return Totals{}, err
	}

	totals, err := s.computeTotalsTx(ctx, tx, orderID)
	if err != nil {
		return Totals{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Totals{}, fmt.Errorf("failed to commit payment: %w", err)
	}
	return totals, nil
}

// ── Status transitions ───────────────────────────────────────────────────────

func (s *orderService) ChangeStatus(ctx context.Context, orderID int, action Action, actor string) (*Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.changeStatusTx(ctx, tx, orderID, action, actor); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit status change: %w", err)
	}
	return s.GetOrder(ctx, orderID)
}

// changeStatusTx applies one transition inside the caller's transaction:
// lock, resolve the next state, enforce the paid precondition, update, audit.
func (s *orderService) changeStatusTx(ctx context.Context, tx pgx.Tx, orderID int, action Action, actor string) error {
	var kind Kind
	var current Status
	err := tx.QueryRow(ctx, "SELECT kind, status FROM orders WHERE id = $1 FOR UPDATE", orderID).Scan(&kind, &current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: order %d", ErrOrderNotFound, orderID)
		}
		return fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}

	next, err := Transition(kind, current, action)
	if err != nil {
		return err
	}

	// An order only becomes PAID once the money is actually in.
	if kind == KindOrder && next == StatusPaid {
		totals, err := s.computeTotalsTx(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if totals.Outstanding.IsPositive() {
			return fmt.Errorf("%w: order %d has %s outstanding", ErrPaymentIncomplete, orderID, totals.Outstanding.StringFixed(2))
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE orders SET status = $1, version = version + 1, updated_at = NOW() WHERE id = $2
	`, next, orderID)
	if err != nil {
		return fmt.Errorf("failed to update status of order %d: %w", orderID, err)
	}

	if _, err := appendAuditTx(ctx, tx, orderID, AuditStatusChanged, fmt.Sprintf("%s -> %s", current, next), actor); err != nil {
		return err
	}
	return nil
}

// ── Item revision ────────────────────────────────────────────────────────────

func (s *orderService) ReviseItems(ctx context.Context, orderID, version int, items []LineItemInput, actor string) (*Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: at least one line item is required", ErrInvalidLineItem)
	}
	if err := validateItemInputs(items); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var kind Kind
	var status Status
	var currentVersion int
	var discount, setupFee, deliveryFee, taxRate decimal.Decimal
	var discountType DiscountType
	err = tx.QueryRow(ctx, `
		SELECT kind, status, version, discount, discount_type, setup_fee, delivery_fee, tax_rate
		FROM orders WHERE id = $1 FOR UPDATE
	`, orderID).Scan(&kind, &status, &currentVersion, &discount, &discountType, &setupFee, &deliveryFee, &taxRate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: order %d", ErrOrderNotFound, orderID)
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}

	if currentVersion != version {
		return nil, fmt.Errorf("%w: order %d is at version %d, revision based on %d", ErrConflict, orderID, currentVersion, version)
	}
	if !itemsRevisable(kind, status) {
		return nil, fmt.Errorf("%w: items of a %s %s cannot be revised", ErrIllegalTransition, status, kind)
	}

	resolved, err := resolveLineItems(ctx, tx, items)
	if err != nil {
		return nil, err
	}
	totals, err := ComputeTotals(resolved, discount, discountType, setupFee, deliveryFee, taxRate, nil)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, "DELETE FROM order_items WHERE order_id = $1", orderID); err != nil {
		return nil, fmt.Errorf("failed to clear items of order %d: %w", orderID, err)
	}
	if err := insertLineItems(ctx, tx, orderID, resolved); err != nil {
		return nil, err
	}
	if err := touchOrderTx(ctx, tx, orderID); err != nil {
		return nil, err
	}

	details := fmt.Sprintf("%d lines, subtotal %s", len(resolved), totals.Subtotal.StringFixed(2))
	if _, err := appendAuditTx(ctx, tx, orderID, AuditItemsRevised, details, actor); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit item revision: %w", err)
	}
	return s.GetOrder(ctx, orderID)
}

// itemsRevisable reports whether the explicit revision action is allowed in
// the aggregate's current status. Orders stay revisable until payment;
// quotes only while still DRAFT.
func itemsRevisable(kind Kind, status Status) bool {
	if kind == KindOrder {
		return status == StatusDraft || status == StatusConfirmed
	}
	return status == StatusDraft
}

// ── Notes ────────────────────────────────────────────────────────────────────

func (s *orderService) AddNote(ctx context.Context, orderID int, note, actor string) (*AuditLogEntry, error) {
	if note == "" {
		return nil, fmt.Errorf("note must not be empty")
	}
	return s.audit.Append(ctx, orderID, AuditNoteAdded, note, actor)
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *orderService) GetOrder(ctx context.Context, orderID int) (*Order, error) {
	return fetchOrder(ctx, s.pool, orderID)
}

func (s *orderService) ListOrders(ctx context.Context, kind Kind, status *Status) ([]Order, error) {
	query := `
		SELECT o.id, o.kind, o.contact_id, c.name, o.status,
		       o.discount, o.discount_type, o.setup_fee, o.delivery_fee, o.tax_rate,
		       COALESCE(o.delivery_date::text, ''), o.delivery_address,
		       COALESCE(o.valid_until::text, ''), o.notes,
		       o.source_quote_id, o.converted_order_id, o.version, o.created_at, o.updated_at
		FROM orders o
		JOIN contacts c ON c.id = o.contact_id
		WHERE o.kind = $1
	`
	args := []any{kind}
	if status != nil {
		query += " AND o.status = $2"
		args = append(args, *status)
	}
	query += " ORDER BY o.id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if err := hydrateOrder(ctx, s.pool, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// ── Shared helpers ───────────────────────────────────────────────────────────

func fetchOrder(ctx context.Context, q pgxQuerier, orderID int) (*Order, error) {
	row := q.QueryRow(ctx, `
		SELECT o.id, o.kind, o.contact_id, c.name, o.status,
		       o.discount, o.discount_type, o.setup_fee, o.delivery_fee, o.tax_rate,
		       COALESCE(o.delivery_date::text, ''), o.delivery_address,
		       COALESCE(o.valid_until::text, ''), o.notes,
		       o.source_quote_id, o.converted_order_id, o.version, o.created_at, o.updated_at
		FROM orders o
		JOIN contacts c ON c.id = o.contact_id
		WHERE o.id = $1
	`, orderID)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: order %d", ErrOrderNotFound, orderID)
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}

	if err := hydrateOrder(ctx, q, o); err != nil {
		return nil, err
	}
	return o, nil
}

// scanOrder scans the canonical order column list from a row.
func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.Kind, &o.ContactID, &o.ContactName, &o.Status,
		&o.Discount, &o.DiscountType, &o.SetupFee, &o.DeliveryFee, &o.TaxRate,
		&o.DeliveryDate, &o.DeliveryAddress, &o.ValidUntil, &o.Notes,
		&o.SourceQuoteID, &o.ConvertedOrderID, &o.Version, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// hydrateOrder loads items and payments and derives totals. Totals are never
// read from storage; the pricing engine is the single source of truth.
func hydrateOrder(ctx context.Context, q pgxQuerier, o *Order) error {
	items, err := fetchLineItems(ctx, q, o.ID)
	if err != nil {
		return err
	}
	payments, err := fetchPayments(ctx, q, o.ID)
	if err != nil {
		return err
	}

	totals, err := ComputeTotals(items, o.Discount, o.DiscountType, o.SetupFee, o.DeliveryFee, o.TaxRate, payments)
	if err != nil {
		return fmt.Errorf("stored pricing inputs of order %d are invalid: %w", o.ID, err)
	}

	o.Items = items
	o.Payments = payments
	o.Totals = totals
	return nil
}

func fetchLineItems(ctx context.Context, q pgxQuerier, orderID int) ([]LineItem, error) {
	rows, err := q.Query(ctx, `
		SELECT id, order_id, position, product_id, name, description, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY position
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		var it LineItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.Position, &it.ProductID, &it.Name, &it.Description, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		it.LineTotal = decimal.NewFromInt(int64(it.Quantity)).Mul(it.UnitPrice).Round(2)
		items = append(items, it)
	}
	return items, rows.Err()
}

func fetchPayments(ctx context.Context, q pgxQuerier, orderID int) ([]Payment, error) {
	rows, err := q.Query(ctx, `
		SELECT id, order_id, amount, method, COALESCE(provider_reference, ''), recorded_by, recorded_at
		FROM payments
		WHERE order_id = $1
		ORDER BY recorded_at, id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Method, &p.ProviderReference, &p.RecordedBy, &p.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// computeTotalsTx derives totals from rows visible inside the transaction,
// used for the paid precondition and the AddPayment return value.
func (s *orderService) computeTotalsTx(ctx context.Context, tx pgx.Tx, orderID int) (Totals, error) {
	var discount, setupFee, deliveryFee, taxRate decimal.Decimal
	var discountType DiscountType
	err := tx.QueryRow(ctx, `
		SELECT discount, discount_type, setup_fee, delivery_fee, tax_rate FROM orders WHERE id = $1
	`, orderID).Scan(&discount, &discountType, &setupFee, &deliveryFee, &taxRate)
	if err != nil {
		return Totals{}, fmt.Errorf("failed to fetch pricing terms of order %d: %w", orderID, err)
	}

	items, err := fetchLineItems(ctx, tx, orderID)
	if err != nil {
		return Totals{}, err
	}
	payments, err := fetchPayments(ctx, tx, orderID)
	if err != nil {
		return Totals{}, err
	}
	return ComputeTotals(items, discount, discountType, setupFee, deliveryFee, taxRate, payments)
}

// resolveLineItems turns raw inputs into line items, pulling name and price
// from the product catalog where a product reference is given.
func resolveLineItems(ctx context.Context, q pgxQuerier, inputs []LineItemInput) ([]LineItem, error) {
	items := make([]LineItem, 0, len(inputs))
	for i, input := range inputs {
		item := LineItem{
			Position:    i + 1,
			ProductID:   input.ProductID,
			Name:        input.Name,
			Description: input.Description,
			Quantity:    input.Quantity,
			UnitPrice:   input.UnitPrice,
		}

		if input.ProductID != nil {
			var name string
			var unitPrice decimal.Decimal
			err := q.QueryRow(ctx,
				"SELECT name, unit_price FROM products WHERE id = $1 AND is_active = true",
				*input.ProductID,
			).Scan(&name, &unitPrice)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, fmt.Errorf("%w: line %d references unknown product %d", ErrNotFound, i+1, *input.ProductID)
				}
				return nil, fmt.Errorf("line %d: failed to resolve product: %w", i+1, err)
			}
			if item.Name == "" {
				item.Name = name
			}
			if item.UnitPrice.IsZero() {
				item.UnitPrice = unitPrice
			}
		}

		item.LineTotal = decimal.NewFromInt(int64(item.Quantity)).Mul(item.UnitPrice).Round(2)
		items = append(items, item)
	}
	return items, nil
}

func insertLineItems(ctx context.Context, tx pgx.Tx, orderID int, items []LineItem) error {
	for _, it := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, position, product_id, name, description, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, orderID, it.Position, it.ProductID, it.Name, it.Description, it.Quantity, it.UnitPrice)
		if err != nil {
			return fmt.Errorf("failed to insert order item %d: %w", it.Position, err)
		}
	}
	return nil
}

// touchOrderTx bumps the optimistic version and updated_at.
func touchOrderTx(ctx context.Context, tx pgx.Tx, orderID int) error {
	_, err := tx.Exec(ctx, "UPDATE orders SET version = version + 1, updated_at = NOW() WHERE id = $1", orderID)
	if err != nil {
		return fmt.Errorf("failed to touch order %d: %w", orderID, err)
	}
	return nil
}
