package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ConvertQuoteToOrder copies an ACCEPTED quote's line items, contact
// reference, discount, fees, and tax rate into a brand new DRAFT order. The
// quote itself keeps its ACCEPTED status; it records the resulting order id
// and can only be converted once.
func (s *orderService) ConvertQuoteToOrder(ctx context.Context, quoteID int, actor string) (*Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var kind Kind
	var status Status
	var convertedOrderID *int
	err = tx.QueryRow(ctx,
		"SELECT kind, status, converted_order_id FROM orders WHERE id = $1 FOR UPDATE",
		quoteID,
	).Scan(&kind, &status, &convertedOrderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: quote %d", ErrOrderNotFound, quoteID)
		}
		return nil, fmt.Errorf("failed to fetch quote %d: %w", quoteID, err)
	}

	if kind != KindQuote {
		return nil, fmt.Errorf("%w: %d is an order, not a quote", ErrIllegalConversion, quoteID)
	}
	if status != StatusAccepted {
		return nil, fmt.Errorf("%w: quote %d is %s (must be ACCEPTED)", ErrIllegalConversion, quoteID, status)
	}
	if convertedOrderID != nil {
		return nil, fmt.Errorf("%w: quote %d was already converted to order %d", ErrIllegalConversion, quoteID, *convertedOrderID)
	}

	var orderID int
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (kind, contact_id, status, discount, discount_type, setup_fee, delivery_fee, tax_rate,
		                    delivery_date, delivery_address, notes, source_quote_id, version)
		SELECT $1, contact_id, $2, discount, discount_type, setup_fee, delivery_fee, tax_rate,
		       delivery_date, delivery_address, notes, id, 1
		FROM orders WHERE id = $3
		RETURNING id
	`, KindOrder, StatusDraft, quoteID).Scan(&orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to create order from quote %d: %w", quoteID, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO order_items (order_id, position, product_id, name, description, quantity, unit_price)
		SELECT $1, position, product_id, name, description, quantity, unit_price
		FROM order_items WHERE order_id = $2
	`, orderID, quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to copy quote items: %w", err)
	}

	_, err = tx.Exec(ctx,
		"UPDATE orders SET converted_order_id = $1, version = version + 1, updated_at = NOW() WHERE id = $2",
		orderID, quoteID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to link quote %d to order %d: %w", quoteID, orderID, err)
	}

	if _, err := appendAuditTx(ctx, tx, quoteID, AuditConvertedToOrder, fmt.Sprintf("order #%d", orderID), actor); err != nil {
		return nil, err
	}
	if _, err := appendAuditTx(ctx, tx, orderID, AuditConvertedFromQuote, fmt.Sprintf("quote #%d", quoteID), actor); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit quote conversion: %w", err)
	}
	return s.GetOrder(ctx, orderID)
}

// ExpireOverdueQuotes expires every SENT quote whose valid_until date lies
// strictly before asOf. Each quote goes through the regular transition path
// so the StatusChanged audit entry is emitted per quote.
func (s *orderService) ExpireOverdueQuotes(ctx context.Context, asOf, actor string) (int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id FROM orders
		WHERE kind = $1 AND status = $2 AND valid_until IS NOT NULL AND valid_until < $3::date
		ORDER BY id
	`, KindQuote, StatusSent, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to query overdue quotes: %w", err)
	}

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan quote id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	expired := 0
	for _, id := range ids {
		if _, err := s.ChangeStatus(ctx, id, ActionExpire, actor); err != nil {
			// A quote acted on between the query and the lock is fine; any
			// other failure stops the sweep.
			if errors.Is(err, ErrIllegalTransition) || errors.Is(err, ErrOrderNotFound) {
				continue
			}
			return expired, err
		}
		expired++
	}
	return expired, nil
}
