package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lathikasakthivel/voice-based-expense-logger/internal/core"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/log"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/storage"
)

// ErrUnknownQuestion is returned for question IDs outside the supported set.
var ErrUnknownQuestion = errors.New("unknown question id")

// QAService answers a fixed set of natural-language questions about a user's
// spending and goals. Each question is addressed by ID; clients map the
// spoken question to an ID on their side.
type QAService struct {
	analytics AnalyticsStore
	goals     GoalStore
	logger    *log.Logger
	now       func() time.Time
}

func NewQAService(analytics AnalyticsStore, goals GoalStore, logger *log.Logger) *QAService {
	return &QAService{
		analytics: analytics,
		goals:     goals,
		logger:    logger.WithComponent(log.ComponentAnalytics),
		now:       time.Now,
	}
}

// Answer produces a one-sentence reply for the question ID, 1 through 20.
func (s *QAService) Answer(ctx context.Context, userID int64, questionID int) (string, error) {
	now := s.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	// Weeks start on Monday.
	sinceMonday := (int(now.Weekday()) + 6) % 7
	weekStart := dayStart.AddDate(0, 0, -sinceMonday)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)

	sum := func(f storage.ExpenseFilter) (int64, error) {
		return s.analytics.SumExpenses(ctx, userID, f)
	}

	switch questionID {
	case 1:
		cents, err := sum(storage.ExpenseFilter{Since: dayStart})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("You spent %s today.", core.FormatRupees(cents)), nil
	case 2:
		cents, err := sum(storage.ExpenseFilter{Since: weekStart})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("You spent %s this week.", core.FormatRupees(cents)), nil
	case 3:
		cents, err := sum(storage.ExpenseFilter{Since: monthStart})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("You spent %s this month.", core.FormatRupees(cents)), nil
	case 4:
		cents, err := sum(storage.ExpenseFilter{Category: "Food"})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("You spent %s on Food.", core.FormatRupees(cents)), nil
	case 5:
		cents, err := sum(storage.ExpenseFilter{Category: "Food", Since: monthStart})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("You spent %s on Food this month.", core.FormatRupees(cents)), nil
	case 6:
		top, err := s.analytics.TopCategory(ctx, userID, false)
		if err != nil {
			return s.noData(err, "No expenses found.")
		}
		return fmt.Sprintf("Your highest spending category is %s (%s).", top.Category, core.FormatRupees(top.TotalCents)), nil
	case 7:
		top, err := s.analytics.TopCategory(ctx, userID, true)
		if err != nil {
			return s.noData(err, "No expenses found.")
		}
		return fmt.Sprintf("Your lowest spending category is %s (%s).", top.Category, core.FormatRupees(top.TotalCents)), nil
	case 8:
		cents, err := sum(storage.ExpenseFilter{PaymentMethod: "UPI"})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("You spent %s using UPI.", core.FormatRupees(cents)), nil
	case 9:
		cents, err := sum(storage.ExpenseFilter{PaymentMethod: "Cash"})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("You spent %s using Cash.", core.FormatRupees(cents)), nil
	case 10:
		e, err := s.analytics.ExtremeExpense(ctx, userID, true)
		if err != nil {
			return s.noData(err, "No expenses found.")
		}
		return fmt.Sprintf("Your biggest expense was %s (%s).", core.FormatRupees(e.Amount.Cents), e.Description), nil
	case 11:
		e, err := s.analytics.ExtremeExpense(ctx, userID, false)
		if err != nil {
			return s.noData(err, "No expenses found.")
		}
		return fmt.Sprintf("Your smallest expense was %s (%s).", core.FormatRupees(e.Amount.Cents), e.Description), nil
	case 12:
		count, err := s.analytics.CountExpenses(ctx, userID, storage.ExpenseFilter{Since: monthStart})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("You logged %d expenses this month.", count), nil
	case 13:
		top, err := s.analytics.TopDay(ctx, userID)
		if err != nil {
			return s.noData(err, "No expenses found.")
		}
		return fmt.Sprintf("You spent the most on %s (%s).", top.Period, core.FormatRupees(top.TotalCents)), nil
	case 14:
		cents, err := sum(storage.ExpenseFilter{Since: monthStart})
		if err != nil {
			return "", err
		}
		days := int64(now.Day())
		if days == 0 {
			days = 1
		}
		return fmt.Sprintf("Your average daily spending this month is %s.", core.FormatRupees(cents/days)), nil
	case 15:
		goal, err := s.goals.ActiveGoal(ctx, userID)
		if err != nil {
			return s.noData(err, "No goal found.")
		}
		return fmt.Sprintf("You have saved %s towards your goal '%s'.", core.FormatRupees(goal.SavedCents), goal.Name), nil
	case 16:
		goal, err := s.goals.ActiveGoal(ctx, userID)
		if err != nil {
			return s.noData(err, "No goal found.")
		}
		left := goal.TargetCents - goal.SavedCents
		if left < 0 {
			left = 0
		}
		return fmt.Sprintf("%s left to achieve your goal '%s'.", core.FormatRupees(left), goal.Name), nil
	case 17:
		goal, err := s.goals.ActiveGoal(ctx, userID)
		if err != nil {
			return s.noData(err, "You have no active goals.")
		}
		return fmt.Sprintf("Your current goal is '%s'.", goal.Name), nil
	case 18:
		goal, err := s.goals.ActiveGoal(ctx, userID)
		if err != nil {
			return s.noData(err, "You have no goals.")
		}
		return fmt.Sprintf("Goal completed: %t.", goal.IsCompleted), nil
	case 19:
		return "Here are your recent 5 expenses.", nil
	case 20:
		cents, err := sum(storage.ExpenseFilter{Since: yearStart})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("You spent %s this year.", core.FormatRupees(cents)), nil
	default:
		return "", ErrUnknownQuestion
	}
}

// noData turns a missing-row error into a friendly sentence; anything else
// propagates.
func (s *QAService) noData(err error, msg string) (string, error) {
	if errors.Is(err, core.ErrNotFound) || errors.Is(err, core.ErrGoalNotFound) {
		return msg, nil
	}
	return "", err
}
