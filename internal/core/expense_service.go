package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ExpenseService tracks business expenses and produces per-category rollups.
type ExpenseService interface {
	RecordExpense(ctx context.Context, category, description string, amount decimal.Decimal, vendor, incurredOn string) (*Expense, error)
	ListExpenses(ctx context.Context, category string, from, to string) ([]Expense, error)
	DeleteExpense(ctx context.Context, id int) error
	MonthlySummary(ctx context.Context, year, month int) ([]ExpenseSummary, error)
}

type expenseService struct {
	pool *pgxpool.Pool
}

func NewExpenseService(pool *pgxpool.Pool) ExpenseService {
	return &expenseService{pool: pool}
}

const expenseColumns = "id, category, COALESCE(description, ''), amount, COALESCE(vendor, ''), incurred_on::text, created_at"

func (s *expenseService) RecordExpense(ctx context.Context, category, description string, amount decimal.Decimal, vendor, incurredOn string) (*Expense, error) {
	if category == "" {
		return nil, fmt.Errorf("expense category is required")
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("expense amount must be positive, got %s", amount)
	}
	if incurredOn == "" {
		return nil, fmt.Errorf("expense date is required")
	}

	var e Expense
	err := s.pool.QueryRow(ctx, `
		INSERT INTO expenses (category, description, amount, vendor, incurred_on)
		VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''), $5::date)
		RETURNING `+expenseColumns,
		category, description, amount, vendor, incurredOn,
	).Scan(&e.ID, &e.Category, &e.Description, &e.Amount, &e.Vendor, &e.IncurredOn, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record expense: %w", err)
	}
	return &e, nil
}

func (s *expenseService) ListExpenses(ctx context.Context, category, from, to string) ([]Expense, error) {
	query := "SELECT " + expenseColumns + " FROM expenses WHERE 1=1"
	args := []any{}
	if category != "" {
		args = append(args, category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if from != "" {
		args = append(args, from)
		query += fmt.Sprintf(" AND incurred_on >= $%d::date", len(args))
	}
	if to != "" {
		args = append(args, to)
		query += fmt.Sprintf(" AND incurred_on <= $%d::date", len(args))
	}
	query += " ORDER BY incurred_on DESC, id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.Category, &e.Description, &e.Amount, &e.Vendor, &e.IncurredOn, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *expenseService) DeleteExpense(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM expenses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete expense %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: expense %d", ErrNotFound, id)
	}
	return nil
}

func (s *expenseService) MonthlySummary(ctx context.Context, year, month int) ([]ExpenseSummary, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be between 1 and 12, got %d", month)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT category, COUNT(*), COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE EXTRACT(YEAR FROM incurred_on) = $1 AND EXTRACT(MONTH FROM incurred_on) = $2
		GROUP BY category
		ORDER BY category
	`, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense summary: %w", err)
	}
	defer rows.Close()

	var summary []ExpenseSummary
	for rows.Next() {
		var row ExpenseSummary
		if err := rows.Scan(&row.Category, &row.Count, &row.Total); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		summary = append(summary, row)
	}
	return summary, rows.Err()
}
