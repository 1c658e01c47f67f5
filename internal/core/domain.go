package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// Currency is fixed for the whole system; there is no conversion.
	Currency = "INR"

	// Placeholder labels produced when detection finds nothing.
	CategoryOthers       = "Others"
	PaymentMethodUnknown = "Unknown"
)

type (
	Money struct {
		Cents int64
	}

	// ExpenseFields is the interpreter's output: everything needed to build
	// an expense record except identity and timestamp. AmountPending is set
	// when no numeric token was found in the text; the record is still
	// created with a zero amount.
	ExpenseFields struct {
		Amount        Money
		Category      string
		PaymentMethod string
		Description   string
		AmountPending bool
	}

	Expense struct {
		ID            int64
		UserID        int64
		Amount        Money
		Category      string
		PaymentMethod string
		Description   string
		AmountPending bool
		Timestamp     time.Time
	}

	// Goal is a savings target owned by a user. Slug is the canonical lookup
	// key; exactly one goal exists per (user, slug) pair.
	Goal struct {
		ID          int64
		UserID      int64
		Name        string
		Slug        string
		TargetCents int64
		SavedCents  int64
		Currency    string
		IsCompleted bool
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	// GoalProgress is the result of applying a voice update to a goal.
	GoalProgress struct {
		Goal      Goal
		Added     Money
		Completed bool
		Exceeded  bool
		OverBy    Money
	}

	User struct {
		ID           int64
		Username     string
		Email        string
		PasswordHash string
		CreatedAt    time.Time
	}
)

var (
	ErrAmountNotFound   = errors.New("no amount found in transcript")
	ErrGoalNameNotFound = errors.New("no goal name found in transcript")
	ErrGoalNotFound     = errors.New("goal not found")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyGoalName    = errors.New("empty goal name")
	ErrInvalidTarget    = errors.New("target amount must be positive")
	ErrNotFound         = errors.New("not found")
	ErrEmailTaken       = errors.New("email already exists")
	ErrBadCredentials   = errors.New("invalid credentials")
)

// Recompute derives IsCompleted from the current saved and target amounts.
func (g *Goal) Recompute() {
	g.IsCompleted = g.TargetCents > 0 && g.SavedCents >= g.TargetCents
}

// Progress applies an increment to the saved amount and reports the
// completion/overflow flags the voice flow returns to the user. OverBy is
// zero unless the target was strictly exceeded.
func (g Goal) Progress(added Money) GoalProgress {
	g.SavedCents += added.Cents
	g.Recompute()
	exceeded := g.TargetCents > 0 && g.SavedCents > g.TargetCents
	var over int64
	if exceeded {
		over = g.SavedCents - g.TargetCents
	}
	return GoalProgress{
		Goal:      g,
		Added:     added,
		Completed: g.IsCompleted,
		Exceeded:  exceeded,
		OverBy:    Money{Cents: over},
	}
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" || g.Slug == "" {
		return ErrEmptyGoalName
	}
	if g.TargetCents <= 0 {
		return ErrInvalidTarget
	}
	if g.SavedCents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if e.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}
