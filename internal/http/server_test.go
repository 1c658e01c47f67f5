package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lathikasakthivel/voice-based-expense-logger/internal/asr"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/auth"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/core"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/log"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/services"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/storage"
)

type memStore struct {
	users    []core.User
	expenses []core.Expense
	goals    []core.Goal
	nextID   int64
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) CreateUser(_ context.Context, username, email, hash string) (core.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return core.User{}, core.ErrEmailTaken
		}
	}
	u := core.User{ID: m.id(), Username: username, Email: email, PasswordHash: hash, CreatedAt: time.Now()}
	m.users = append(m.users, u)
	return u, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (core.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return core.User{}, core.ErrNotFound
}

func (m *memStore) CreateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	e.ID = m.id()
	e.Timestamp = time.Now().UTC()
	m.expenses = append(m.expenses, e)
	return e, nil
}

func (m *memStore) ListExpenses(_ context.Context, userID int64, _ int) ([]core.Expense, error) {
	var out []core.Expense
	for _, e := range m.expenses {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) DeleteExpense(_ context.Context, userID, expenseID int64) error {
	for i, e := range m.expenses {
		if e.ID == expenseID && e.UserID == userID {
			m.expenses = append(m.expenses[:i], m.expenses[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func (m *memStore) CreateGoal(_ context.Context, g core.Goal) (core.Goal, error) {
	g.ID = m.id()
	g.Currency = core.Currency
	g.CreatedAt = time.Now().UTC()
	g.UpdatedAt = g.CreatedAt
	g.Recompute()
	m.goals = append(m.goals, g)
	return g, nil
}

func (m *memStore) GetGoalBySlug(_ context.Context, userID int64, slug string) (core.Goal, error) {
	for _, g := range m.goals {
		if g.UserID == userID && g.Slug == slug {
			return g, nil
		}
	}
	return core.Goal{}, core.ErrGoalNotFound
}

func (m *memStore) ListGoals(_ context.Context, userID int64) ([]core.Goal, error) {
	var out []core.Goal
	for _, g := range m.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *memStore) UpdateGoalTarget(_ context.Context, goalID, targetCents int64) (core.Goal, error) {
	for i, g := range m.goals {
		if g.ID == goalID {
			g.TargetCents = targetCents
			g.Recompute()
			m.goals[i] = g
			return g, nil
		}
	}
	return core.Goal{}, core.ErrGoalNotFound
}

func (m *memStore) AddToGoalSaved(_ context.Context, goalID, deltaCents int64) (core.Goal, error) {
	for i, g := range m.goals {
		if g.ID == goalID {
			g.SavedCents += deltaCents
			g.Recompute()
			m.goals[i] = g
			return g, nil
		}
	}
	return core.Goal{}, core.ErrGoalNotFound
}

func (m *memStore) DeleteGoal(_ context.Context, userID, goalID int64) error {
	for i, g := range m.goals {
		if g.ID == goalID && g.UserID == userID {
			m.goals = append(m.goals[:i], m.goals[i+1:]...)
			return nil
		}
	}
	return core.ErrGoalNotFound
}

func (m *memStore) ActiveGoal(_ context.Context, userID int64) (core.Goal, error) {
	for _, g := range m.goals {
		if g.UserID == userID && !g.IsCompleted {
			return g, nil
		}
	}
	return core.Goal{}, core.ErrGoalNotFound
}

func (m *memStore) SumExpenses(_ context.Context, userID int64, f storage.ExpenseFilter) (int64, error) {
	var total int64
	for _, e := range m.expenses {
		if e.UserID != userID {
			continue
		}
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		if f.PaymentMethod != "" && e.PaymentMethod != f.PaymentMethod {
			continue
		}
		if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
			continue
		}
		total += e.Amount.Cents
	}
	return total, nil
}

func (m *memStore) CountExpenses(_ context.Context, userID int64, _ storage.ExpenseFilter) (int64, error) {
	var n int64
	for _, e := range m.expenses {
		if e.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) TotalSaved(_ context.Context, userID int64) (int64, error) {
	var total int64
	for _, g := range m.goals {
		if g.UserID == userID {
			total += g.SavedCents
		}
	}
	return total, nil
}

func (m *memStore) CategoryTotals(_ context.Context, userID int64, _ storage.ExpenseFilter) ([]storage.CategoryTotal, error) {
	totals := make(map[string]int64)
	for _, e := range m.expenses {
		if e.UserID == userID {
			totals[e.Category] += e.Amount.Cents
		}
	}
	var out []storage.CategoryTotal
	for cat, cents := range totals {
		out = append(out, storage.CategoryTotal{Category: cat, TotalCents: cents})
	}
	return out, nil
}

func (m *memStore) MonthTotals(_ context.Context, userID int64, _ time.Time) ([]storage.PeriodTotal, error) {
	totals := make(map[string]int64)
	for _, e := range m.expenses {
		if e.UserID == userID {
			totals[e.Timestamp.Format("2006-01")] += e.Amount.Cents
		}
	}
	var out []storage.PeriodTotal
	for period, cents := range totals {
		out = append(out, storage.PeriodTotal{Period: period, TotalCents: cents})
	}
	return out, nil
}

func (m *memStore) TopCategory(ctx context.Context, userID int64, _ bool) (storage.CategoryTotal, error) {
	totals, _ := m.CategoryTotals(ctx, userID, storage.ExpenseFilter{})
	if len(totals) == 0 {
		return storage.CategoryTotal{}, core.ErrNotFound
	}
	return totals[0], nil
}

func (m *memStore) TopDay(context.Context, int64) (storage.PeriodTotal, error) {
	return storage.PeriodTotal{}, core.ErrNotFound
}

func (m *memStore) ExtremeExpense(_ context.Context, userID int64, _ bool) (core.Expense, error) {
	for _, e := range m.expenses {
		if e.UserID == userID {
			return e, nil
		}
	}
	return core.Expense{}, core.ErrNotFound
}

func newTestServer(t *testing.T) (*Server, *memStore) {
	t.Helper()

	store := &memStore{}
	logger := log.New(log.Config{Level: slog.LevelError})
	sessions := auth.NewSessionStore(time.Hour, 0)
	t.Cleanup(sessions.Close)

	srv := NewServer(Options{
		Addr:        ":0",
		Auth:        services.NewAuthService(store, logger),
		Expenses:    services.NewExpenseService(store, nil, logger),
		Goals:       services.NewGoalService(store, nil, logger),
		Analytics:   services.NewAnalyticsService(store, logger),
		QA:          services.NewQAService(store, store, logger),
		Sessions:    sessions,
		Transcriber: asr.ClientProvided{},
		Logger:      logger,
		CookieName:  "session",
		SessionTTL:  time.Hour,
	})
	t.Cleanup(func() {
		srv.rateLimiter.stop()
	})
	return srv, store
}

func doJSON(t *testing.T, srv *Server, method, path, body, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.Header.Set("Cookie", "session="+cookie)
	}
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func signupAndLogin(t *testing.T, srv *Server) string {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/api/auth/signup",
		`{"username":"asha","email":"asha@example.com","password":"supersecret"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/auth/login",
		`{"email":"asha@example.com","password":"supersecret"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" {
			return c.Value
		}
	}
	t.Fatal("no session cookie set on login")
	return ""
}

func TestAuthFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	// Unauthenticated requests are rejected.
	rec := doJSON(t, srv, http.MethodGet, "/api/expenses", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d", rec.Code)
	}

	cookie := signupAndLogin(t, srv)

	rec = doJSON(t, srv, http.MethodGet, "/api/auth/me", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("me status = %d", rec.Code)
	}

	// Duplicate signup conflicts.
	rec = doJSON(t, srv, http.MethodPost, "/api/auth/signup",
		`{"username":"asha","email":"asha@example.com","password":"supersecret"}`, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate signup status = %d", rec.Code)
	}

	// Wrong password.
	rec = doJSON(t, srv, http.MethodPost, "/api/auth/login",
		`{"email":"asha@example.com","password":"wrong"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d", rec.Code)
	}

	// Logout revokes the session.
	rec = doJSON(t, srv, http.MethodPost, "/api/auth/logout", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodGet, "/api/expenses", "", cookie)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("post-logout status = %d", rec.Code)
	}
}

func TestExpenseEndpoints(t *testing.T) {
	srv, store := newTestServer(t)
	cookie := signupAndLogin(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/expenses",
		`{"text":"I spent 500 on pizza via Google Pay"}`, cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}

	var created struct {
		Expense expenseResponse `json:"expense"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.Expense.Amount.Cents != 50000 {
		t.Errorf("amount cents = %d, want 50000", created.Expense.Amount.Cents)
	}
	if created.Expense.Category != "Food" {
		t.Errorf("category = %q, want Food", created.Expense.Category)
	}
	if created.Expense.PaymentMethod != "Google Pay" {
		t.Errorf("payment method = %q", created.Expense.PaymentMethod)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/expenses", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "pizza") {
		t.Errorf("list body missing expense: %s", rec.Body)
	}

	rec = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/expenses/%d", created.Expense.ID), "", cookie)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if len(store.expenses) != 0 {
		t.Fatalf("expense still stored after delete")
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/expenses/999", "", cookie)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing delete status = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/expenses", `{"text":"   "}`, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty text status = %d", rec.Code)
	}
}

func TestGoalEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	cookie := signupAndLogin(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/goals",
		`{"goal_name":"Watch","target_amount":"1000"}`, cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create goal status = %d: %s", rec.Code, rec.Body)
	}

	// Same slug: target update, not a second goal.
	rec = doJSON(t, srv, http.MethodPost, "/api/goals",
		`{"goal_name":"watch!!","target_amount":"2000"}`, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("upsert goal status = %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/goals/voice-update",
		`{"transcript":"add 500 to my watch"}`, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("voice update status = %d: %s", rec.Code, rec.Body)
	}
	var vu struct {
		Goal      goalResponse `json:"goal"`
		Added     moneyOut     `json:"added"`
		Completed bool         `json:"completed"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &vu); err != nil {
		t.Fatalf("decode voice update: %v", err)
	}
	if vu.Added.Cents != 50000 {
		t.Errorf("added = %d, want 50000", vu.Added.Cents)
	}
	if vu.Goal.Saved.Cents != 50000 {
		t.Errorf("saved = %d, want 50000", vu.Goal.Saved.Cents)
	}
	if vu.Completed {
		t.Error("goal reported complete at 500 of 2000")
	}

	// Unknown goal name.
	rec = doJSON(t, srv, http.MethodPost, "/api/goals/voice-update",
		`{"transcript":"add 500 to my yacht"}`, cookie)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown goal status = %d: %s", rec.Code, rec.Body)
	}

	// No amount in transcript.
	rec = doJSON(t, srv, http.MethodPost, "/api/goals/voice-update",
		`{"transcript":"add money to my watch"}`, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("no amount status = %d: %s", rec.Code, rec.Body)
	}

	// A goal stored as "My Phone" has slug my-phone, but the transcript
	// parser drops the possessive, so "to my phone" resolves to slug
	// phone and misses it.
	rec = doJSON(t, srv, http.MethodPost, "/api/goals",
		`{"goal_name":"My Phone","target_amount":"3000"}`, cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create second goal status = %d: %s", rec.Code, rec.Body)
	}
	rec = doJSON(t, srv, http.MethodPost, "/api/goals/voice-update",
		`{"transcript":"add 500 to my phone"}`, cookie)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("possessive goal name status = %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/goals", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("list goals status = %d", rec.Code)
	}
	var list struct {
		Goals []goalResponse `json:"goals"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode goals: %v", err)
	}
	if len(list.Goals) != 2 {
		t.Fatalf("got %d goals, want 2", len(list.Goals))
	}

	rec = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/goals/%d", list.Goals[0].ID), "", cookie)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete goal status = %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/goals/%d", list.Goals[0].ID), "", cookie)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("repeat delete goal status = %d", rec.Code)
	}
}

func TestAnalyticsAndQAEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	cookie := signupAndLogin(t, srv)

	doJSON(t, srv, http.MethodPost, "/api/expenses", `{"text":"groceries 800"}`, cookie)
	doJSON(t, srv, http.MethodPost, "/api/goals", `{"goal_name":"trip","target_amount":"5000"}`, cookie)
	doJSON(t, srv, http.MethodPost, "/api/goals/voice-update", `{"transcript":"add 1000 to my trip"}`, cookie)

	rec := doJSON(t, srv, http.MethodGet, "/api/analytics/summary", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d: %s", rec.Code, rec.Body)
	}
	var sum struct {
		TotalSpent   moneyOut `json:"total_spent"`
		ExpenseCount int64    `json:"expense_count"`
		TotalSaved   moneyOut `json:"total_saved"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if sum.TotalSpent.Cents != 80000 {
		t.Errorf("total spent = %d, want 80000", sum.TotalSpent.Cents)
	}
	if sum.TotalSaved.Cents != 100000 {
		t.Errorf("total saved = %d, want 100000", sum.TotalSaved.Cents)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/analytics/category-wise", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("category-wise status = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/analytics/month-wise", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("month-wise status = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/qa", `{"question_id":17}`, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("qa status = %d: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "trip") {
		t.Errorf("qa answer missing goal name: %s", rec.Body)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/qa", `{"question_id":99}`, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown question status = %d", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodGet, "/readyz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz status = %d", rec.Code)
	}
}
