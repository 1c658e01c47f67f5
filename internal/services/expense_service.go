package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lathikasakthivel/voice-based-expense-logger/internal/amqp"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/core"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/interpret"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/log"
)

// LogExpenseInput is what a client sends to record an expense. Text is
// required; the other fields override whatever the interpreter detects.
type LogExpenseInput struct {
	Text          string
	Amount        string
	Category      string
	PaymentMethod string
}

type ExpenseService struct {
	store     ExpenseStore
	publisher EventPublisher
	logger    *log.Logger
}

func NewExpenseService(store ExpenseStore, publisher EventPublisher, logger *log.Logger) *ExpenseService {
	return &ExpenseService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentExpense),
	}
}

// Log interprets the free-form text, applies any caller overrides and stores
// the expense. An event is published best effort; a broker failure never
// fails the request.
func (s *ExpenseService) Log(ctx context.Context, userID int64, in LogExpenseInput) (core.Expense, error) {
	if strings.TrimSpace(in.Text) == "" {
		return core.Expense{}, core.ErrEmptyDescription
	}

	fields := interpret.Interpret(in.Text)
	fields.Category = interpret.DetectCategory(in.Text, in.Category)
	fields.PaymentMethod = interpret.DetectPaymentMethod(in.Text, in.PaymentMethod)

	if in.Amount != "" {
		cents, err := core.ParseDecimalToCents(strings.ReplaceAll(in.Amount, ",", ""))
		if err != nil {
			return core.Expense{}, fmt.Errorf("%w: %q", core.ErrInvalidAmount, in.Amount)
		}
		fields.Amount = core.Money{Cents: cents}
		fields.AmountPending = false
	}

	expense := core.Expense{
		UserID:        userID,
		Amount:        fields.Amount,
		Category:      fields.Category,
		PaymentMethod: fields.PaymentMethod,
		Description:   fields.Description,
		AmountPending: fields.AmountPending,
	}
	if err := expense.Validate(); err != nil {
		return core.Expense{}, err
	}

	stored, err := s.store.CreateExpense(ctx, expense)
	if err != nil {
		return core.Expense{}, err
	}

	s.logger.InfoContext(ctx, "expense logged",
		log.FieldUserID, userID,
		log.FieldExpenseID, stored.ID,
		log.FieldCategory, stored.Category,
		log.FieldAmountCents, stored.Amount.Cents,
	)

	s.publishLogged(ctx, stored)
	return stored, nil
}

func (s *ExpenseService) List(ctx context.Context, userID int64, limit int) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx, userID, limit)
}

func (s *ExpenseService) Delete(ctx context.Context, userID, expenseID int64) error {
	if err := s.store.DeleteExpense(ctx, userID, expenseID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "expense deleted",
		log.FieldUserID, userID,
		log.FieldExpenseID, expenseID,
	)
	return nil
}

func (s *ExpenseService) publishLogged(ctx context.Context, e core.Expense) {
	if s.publisher == nil {
		return
	}
	msg := amqp.ExpenseLoggedMessage{
		EventID:       amqp.NewEventID(),
		UserID:        e.UserID,
		ExpenseID:     e.ID,
		AmountCents:   e.Amount.Cents,
		Category:      e.Category,
		PaymentMethod: e.PaymentMethod,
		AmountPending: e.AmountPending,
		OccurredAt:    time.Now().UTC(),
	}
	if err := s.publisher.PublishExpenseLogged(ctx, msg); err != nil {
		s.logger.WarnContext(ctx, "publish expense event failed",
			log.FieldError, err,
			log.FieldExpenseID, e.ID,
		)
	}
}
