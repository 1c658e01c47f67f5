package amqp

import (
	"time"

	"github.com/google/uuid"
)

// Routing keys for the event exchange.
const (
	KeyExpenseLogged = "expense.logged"
	KeyGoalProgress  = "goal.progress"
)

// ExpenseLoggedMessage is published after an expense is stored.
type ExpenseLoggedMessage struct {
	EventID       string    `json:"event_id"`
	UserID        int64     `json:"user_id"`
	ExpenseID     int64     `json:"expense_id"`
	AmountCents   int64     `json:"amount_cents"`
	Category      string    `json:"category"`
	PaymentMethod string    `json:"payment_method"`
	AmountPending bool      `json:"amount_pending"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// GoalProgressMessage is published after a voice update moves money into a
// goal.
type GoalProgressMessage struct {
	EventID     string    `json:"event_id"`
	UserID      int64     `json:"user_id"`
	GoalID      int64     `json:"goal_id"`
	Slug        string    `json:"slug"`
	AddedCents  int64     `json:"added_cents"`
	SavedCents  int64     `json:"saved_cents"`
	TargetCents int64     `json:"target_cents"`
	Completed   bool      `json:"completed"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewEventID returns a unique ID used for consumer-side deduplication.
func NewEventID() string {
	return uuid.NewString()
}
