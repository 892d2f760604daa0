package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgForeignKeyViolation is the SQLSTATE class 23 code for FK failures.
const pgForeignKeyViolation = "23503"

// AuditLog is the append-only history of an order or quote. Entries are
// created exclusively as side effects of state-changing aggregate operations
// (plus explicit notes) and are never edited or removed through this type.
type AuditLog struct {
	pool *pgxpool.Pool
}

func NewAuditLog(pool *pgxpool.Pool) *AuditLog {
	return &AuditLog{pool: pool}
}

// Append writes one entry in its own transaction. Aggregate operations use
// appendAuditTx instead, so the entry is atomic with the state change that
// caused it.
func (a *AuditLog) Append(ctx context.Context, orderID int, action AuditAction, details, actor string) (*AuditLogEntry, error) {
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	entry, err := appendAuditTx(ctx, tx, orderID, action, details, actor)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit audit entry: %w", err)
	}
	return entry, nil
}

// History returns all entries for an order, oldest first. The chronological
// ordering (created_at ascending, id as tiebreak) is this component's
// contract; display layers may reverse it.
func (a *AuditLog) History(ctx context.Context, orderID int) ([]AuditLogEntry, error) {
	var exists bool
	err := a.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)", orderID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check order %d: %w", orderID, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: order %d", ErrOrderNotFound, orderID)
	}

	rows, err := a.pool.Query(ctx, `
		SELECT id, order_id, action, details, actor, created_at
		FROM audit_log
		WHERE order_id = $1
		ORDER BY created_at, id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []AuditLogEntry
	for rows.Next() {
		var e AuditLogEntry
		if err := rows.Scan(&e.ID, &e.OrderID, &e.Action, &e.Details, &e.Actor, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// appendAuditTx inserts one audit entry inside the caller's transaction.
// The foreign key on order_id guarantees the owning aggregate exists.
func appendAuditTx(ctx context.Context, tx pgx.Tx, orderID int, action AuditAction, details, actor string) (*AuditLogEntry, error) {
	var e AuditLogEntry
	err := tx.QueryRow(ctx, `
		INSERT INTO audit_log (order_id, action, details, actor)
		VALUES ($1, $2, $3, $4)
		RETURNING id, order_id, action, details, actor, created_at
	`, orderID, string(action), details, actor).Scan(
		&e.ID, &e.OrderID, &e.Action, &e.Details, &e.Actor, &e.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return nil, fmt.Errorf("%w: order %d", ErrOrderNotFound, orderID)
		}
		return nil, fmt.Errorf("failed to append audit entry: %w", err)
	}
	return &e, nil
}
