// Package services holds the application logic between the HTTP layer and
// storage. Each service depends on small store interfaces so tests can swap
// in fakes.
package services

import (
	"context"
	"time"

	"github.com/lathikasakthivel/voice-based-expense-logger/internal/amqp"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/core"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/storage"
)

type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (core.User, error)
	GetUserByEmail(ctx context.Context, email string) (core.User, error)
}

type ExpenseStore interface {
	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	ListExpenses(ctx context.Context, userID int64, limit int) ([]core.Expense, error)
	DeleteExpense(ctx context.Context, userID, expenseID int64) error
}

type GoalStore interface {
	CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
	GetGoalBySlug(ctx context.Context, userID int64, slug string) (core.Goal, error)
	ListGoals(ctx context.Context, userID int64) ([]core.Goal, error)
	UpdateGoalTarget(ctx context.Context, goalID, targetCents int64) (core.Goal, error)
	AddToGoalSaved(ctx context.Context, goalID, deltaCents int64) (core.Goal, error)
	DeleteGoal(ctx context.Context, userID, goalID int64) error
	ActiveGoal(ctx context.Context, userID int64) (core.Goal, error)
}

type AnalyticsStore interface {
	SumExpenses(ctx context.Context, userID int64, f storage.ExpenseFilter) (int64, error)
	CountExpenses(ctx context.Context, userID int64, f storage.ExpenseFilter) (int64, error)
	TotalSaved(ctx context.Context, userID int64) (int64, error)
	CategoryTotals(ctx context.Context, userID int64, f storage.ExpenseFilter) ([]storage.CategoryTotal, error)
	MonthTotals(ctx context.Context, userID int64, since time.Time) ([]storage.PeriodTotal, error)
	TopCategory(ctx context.Context, userID int64, ascending bool) (storage.CategoryTotal, error)
	TopDay(ctx context.Context, userID int64) (storage.PeriodTotal, error)
	ExtremeExpense(ctx context.Context, userID int64, largest bool) (core.Expense, error)
}

// EventPublisher pushes domain events to the broker. Services treat a nil
// publisher as "broker disabled" and skip publishing.
type EventPublisher interface {
	PublishExpenseLogged(ctx context.Context, msg amqp.ExpenseLoggedMessage) error
	PublishGoalProgress(ctx context.Context, msg amqp.GoalProgressMessage) error
}
