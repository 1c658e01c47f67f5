package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lathikasakthivel/voice-based-expense-logger/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists users, expenses and goals. All goal mutations go
// through SQL so the saved-amount increment is atomic; two concurrent voice
// updates to the same goal both land.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// _time_format=sqlite stores time.Time in the text layout SQLite's date
	// functions understand; the strftime aggregates depend on it.
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Ping backs the readiness probe.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ---- users ----

func (r *SQLiteRepository) CreateUser(ctx context.Context, username, email, passwordHash string) (core.User, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE email = ?`, email).Scan(&exists)
	if err != nil {
		return core.User{}, fmt.Errorf("check email: %w", err)
	}
	if exists > 0 {
		return core.User{}, core.ErrEmailTaken
	}

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		username, email, passwordHash, now)
	if err != nil {
		return core.User{}, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("user insert id: %w", err)
	}

	slog.InfoContext(ctx, "User created", "user_id", id, "email", email)
	return core.User{ID: id, Username: username, Email: email, PasswordHash: passwordHash, CreatedAt: now}, nil
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// ---- expenses ----

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (user_id, amount_cents, category, payment_method, description, amount_pending, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, e.Amount.Cents, e.Category, e.PaymentMethod, e.Description, boolToInt(e.AmountPending), e.Timestamp)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense insert id: %w", err)
	}
	e.ID = id

	slog.InfoContext(ctx, "Expense saved",
		"expense_id", e.ID,
		"user_id", e.UserID,
		"amount_cents", e.Amount.Cents,
		"category", e.Category,
		"payment_method", e.PaymentMethod)
	return e, nil
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID int64, limit int) ([]core.Expense, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, amount_cents, category, payment_method, description, amount_pending, timestamp
		 FROM expenses WHERE user_id = ? ORDER BY timestamp DESC, id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, userID, expenseID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND user_id = ?`, expenseID, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// ---- goals ----

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now
	if g.Currency == "" {
		g.Currency = core.Currency
	}
	g.Recompute()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (user_id, goal_name, slug, target_cents, saved_cents, currency, is_completed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.UserID, g.Name, g.Slug, g.TargetCents, g.SavedCents, g.Currency, boolToInt(g.IsCompleted), g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return core.Goal{}, fmt.Errorf("insert goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Goal{}, fmt.Errorf("goal insert id: %w", err)
	}
	g.ID = id

	slog.InfoContext(ctx, "Goal created", "goal_id", g.ID, "user_id", g.UserID, "slug", g.Slug, "target_cents", g.TargetCents)
	return g, nil
}

func (r *SQLiteRepository) GetGoalBySlug(ctx context.Context, userID int64, slug string) (core.Goal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, goal_name, slug, target_cents, saved_cents, currency, is_completed, created_at, updated_at
		 FROM goals WHERE user_id = ? AND slug = ?`, userID, slug)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, core.ErrGoalNotFound
	}
	return g, err
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, userID int64) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, goal_name, slug, target_cents, saved_cents, currency, is_completed, created_at, updated_at
		 FROM goals WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// UpdateGoalTarget replaces the target amount of an existing goal and
// recomputes completion against the current saved amount.
func (r *SQLiteRepository) UpdateGoalTarget(ctx context.Context, goalID, targetCents int64) (core.Goal, error) {
	_, err := r.db.ExecContext(ctx,
		`UPDATE goals
		 SET target_cents = ?,
		     is_completed = CASE WHEN ? > 0 AND saved_cents >= ? THEN 1 ELSE 0 END,
		     updated_at = ?
		 WHERE id = ?`,
		targetCents, targetCents, targetCents, time.Now().UTC(), goalID)
	if err != nil {
		return core.Goal{}, fmt.Errorf("update goal target: %w", err)
	}
	return r.getGoalByID(ctx, goalID)
}

// AddToGoalSaved atomically increments a goal's saved amount and recomputes
// completion in the same statement, then returns the fresh row.
func (r *SQLiteRepository) AddToGoalSaved(ctx context.Context, goalID, deltaCents int64) (core.Goal, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals
		 SET saved_cents = saved_cents + ?,
		     is_completed = CASE WHEN target_cents > 0 AND saved_cents + ? >= target_cents THEN 1 ELSE 0 END,
		     updated_at = ?
		 WHERE id = ?`,
		deltaCents, deltaCents, time.Now().UTC(), goalID)
	if err != nil {
		return core.Goal{}, fmt.Errorf("increment goal saved: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Goal{}, fmt.Errorf("increment rows affected: %w", err)
	}
	if n == 0 {
		return core.Goal{}, core.ErrGoalNotFound
	}

	slog.InfoContext(ctx, "Goal saved amount incremented", "goal_id", goalID, "delta_cents", deltaCents)
	return r.getGoalByID(ctx, goalID)
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, userID, goalID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM goals WHERE id = ? AND user_id = ?`, goalID, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete goal rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrGoalNotFound
	}
	return nil
}

// ActiveGoal returns the most recent incomplete goal, falling back to the
// latest goal of any state. Used by the Q&A answers about goal progress.
func (r *SQLiteRepository) ActiveGoal(ctx context.Context, userID int64) (core.Goal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, goal_name, slug, target_cents, saved_cents, currency, is_completed, created_at, updated_at
		 FROM goals WHERE user_id = ? AND is_completed = 0 ORDER BY created_at DESC, id DESC LIMIT 1`, userID)
	g, err := scanGoal(row)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, err
	}

	row = r.db.QueryRowContext(ctx,
		`SELECT id, user_id, goal_name, slug, target_cents, saved_cents, currency, is_completed, created_at, updated_at
		 FROM goals WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`, userID)
	g, err = scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, core.ErrGoalNotFound
	}
	return g, err
}

func (r *SQLiteRepository) getGoalByID(ctx context.Context, goalID int64) (core.Goal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, goal_name, slug, target_cents, saved_cents, currency, is_completed, created_at, updated_at
		 FROM goals WHERE id = ?`, goalID)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, core.ErrGoalNotFound
	}
	return g, err
}

// ---- audit log ----

func (r *SQLiteRepository) AppendAuditEvent(ctx context.Context, eventID string, userID int64, kind, detail string, occurredAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO audit_log (event_id, user_id, kind, detail, occurred_at) VALUES (?, ?, ?, ?, ?)`,
		eventID, userID, kind, detail, occurredAt)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// ---- scanning helpers ----

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(s rowScanner) (core.Expense, error) {
	var e core.Expense
	var pending int
	err := s.Scan(&e.ID, &e.UserID, &e.Amount.Cents, &e.Category, &e.PaymentMethod, &e.Description, &pending, &e.Timestamp)
	if err != nil {
		return core.Expense{}, fmt.Errorf("scan expense: %w", err)
	}
	e.AmountPending = pending != 0
	return e, nil
}

func scanGoal(s rowScanner) (core.Goal, error) {
	var g core.Goal
	var completed int
	err := s.Scan(&g.ID, &g.UserID, &g.Name, &g.Slug, &g.TargetCents, &g.SavedCents, &g.Currency, &completed, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return core.Goal{}, err
	}
	g.IsCompleted = completed != 0
	return g, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
