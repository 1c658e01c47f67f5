package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lathikasakthivel/voice-based-expense-logger/internal/core"
)

// ExpenseFilter narrows aggregate queries. Zero-value fields are ignored.
type ExpenseFilter struct {
	Since         time.Time
	Until         time.Time
	Category      string
	PaymentMethod string
}

// CategoryTotal is an aggregate row of the category-wise breakdown.
type CategoryTotal struct {
	Category   string
	TotalCents int64
}

// PeriodTotal is an aggregate row keyed by a formatted date period
// ("2026-08" for months, "2026-08-29" for days).
type PeriodTotal struct {
	Period     string
	TotalCents int64
}

func (f ExpenseFilter) clauses(userID int64) (string, []any) {
	where := []string{"user_id = ?"}
	args := []any{userID}
	if !f.Since.IsZero() {
		where = append(where, "timestamp >= ?")
		args = append(args, f.Since)
	}
	if !f.Until.IsZero() {
		where = append(where, "timestamp <= ?")
		args = append(args, f.Until)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.PaymentMethod != "" {
		where = append(where, "payment_method = ?")
		args = append(args, f.PaymentMethod)
	}
	return strings.Join(where, " AND "), args
}

// SumExpenses returns the total spent matching the filter, zero when no rows
// match.
func (r *SQLiteRepository) SumExpenses(ctx context.Context, userID int64, f ExpenseFilter) (int64, error) {
	where, args := f.clauses(userID)
	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(amount_cents) FROM expenses WHERE `+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum expenses: %w", err)
	}
	return total.Int64, nil
}

func (r *SQLiteRepository) CountExpenses(ctx context.Context, userID int64, f ExpenseFilter) (int64, error) {
	where, args := f.clauses(userID)
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM expenses WHERE `+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}
	return n, nil
}

// TotalSaved sums the saved amounts across all of a user's goals.
func (r *SQLiteRepository) TotalSaved(ctx context.Context, userID int64) (int64, error) {
	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(saved_cents) FROM goals WHERE user_id = ?`, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total saved: %w", err)
	}
	return total.Int64, nil
}

// CategoryTotals returns per-category spend matching the filter, highest
// first. Empty categories are folded into "Others".
func (r *SQLiteRepository) CategoryTotals(ctx context.Context, userID int64, f ExpenseFilter) ([]CategoryTotal, error) {
	where, args := f.clauses(userID)
	rows, err := r.db.QueryContext(ctx,
		`SELECT CASE WHEN category IN ('', 'Unknown') THEN 'Others' ELSE category END AS cat,
		        SUM(amount_cents)
		 FROM expenses WHERE `+where+`
		 GROUP BY cat ORDER BY SUM(amount_cents) DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	defer rows.Close()

	var out []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.TotalCents); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}

// MonthTotals returns per-month spend since the given time, oldest first.
func (r *SQLiteRepository) MonthTotals(ctx context.Context, userID int64, since time.Time) ([]PeriodTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT strftime('%Y-%m', timestamp), SUM(amount_cents)
		 FROM expenses WHERE user_id = ? AND timestamp >= ?
		 GROUP BY 1 ORDER BY 1 ASC`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("month totals: %w", err)
	}
	defer rows.Close()

	var out []PeriodTotal
	for rows.Next() {
		var pt PeriodTotal
		if err := rows.Scan(&pt.Period, &pt.TotalCents); err != nil {
			return nil, fmt.Errorf("scan month total: %w", err)
		}
		out = append(out, pt)
	}
	return out, rows.Err()
}

// TopCategory returns the category with the highest (or, with ascending,
// lowest) total spend. core.ErrNotFound when the user has no expenses.
func (r *SQLiteRepository) TopCategory(ctx context.Context, userID int64, ascending bool) (CategoryTotal, error) {
	order := "DESC"
	if ascending {
		order = "ASC"
	}
	var ct CategoryTotal
	err := r.db.QueryRowContext(ctx,
		`SELECT category, SUM(amount_cents) AS total
		 FROM expenses WHERE user_id = ?
		 GROUP BY category ORDER BY total `+order+` LIMIT 1`, userID).
		Scan(&ct.Category, &ct.TotalCents)
	if errors.Is(err, sql.ErrNoRows) {
		return CategoryTotal{}, core.ErrNotFound
	}
	if err != nil {
		return CategoryTotal{}, fmt.Errorf("top category: %w", err)
	}
	return ct, nil
}

// TopDay returns the calendar day with the highest total spend.
func (r *SQLiteRepository) TopDay(ctx context.Context, userID int64) (PeriodTotal, error) {
	var pt PeriodTotal
	err := r.db.QueryRowContext(ctx,
		`SELECT strftime('%Y-%m-%d', timestamp), SUM(amount_cents) AS total
		 FROM expenses WHERE user_id = ?
		 GROUP BY 1 ORDER BY total DESC LIMIT 1`, userID).
		Scan(&pt.Period, &pt.TotalCents)
	if errors.Is(err, sql.ErrNoRows) {
		return PeriodTotal{}, core.ErrNotFound
	}
	if err != nil {
		return PeriodTotal{}, fmt.Errorf("top day: %w", err)
	}
	return pt, nil
}

// ExtremeExpense returns the single largest (or smallest) expense.
func (r *SQLiteRepository) ExtremeExpense(ctx context.Context, userID int64, largest bool) (core.Expense, error) {
	order := "DESC"
	if !largest {
		order = "ASC"
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, amount_cents, category, payment_method, description, amount_pending, timestamp
		 FROM expenses WHERE user_id = ? ORDER BY amount_cents `+order+`, id ASC LIMIT 1`, userID)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	return e, err
}
