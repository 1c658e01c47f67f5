// Package http exposes the JSON API: auth, expenses, goals, voice updates,
// analytics and Q&A.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/lathikasakthivel/voice-based-expense-logger/internal/asr"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/auth"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/core"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/log"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/services"
)

// Options carries everything the server needs. ReadyCheck is called by the
// readiness probe; Transcriber may be the client-provided backend.
type Options struct {
	Addr          string
	Auth          *services.AuthService
	Expenses      *services.ExpenseService
	Goals         *services.GoalService
	Analytics     *services.AnalyticsService
	QA            *services.QAService
	Sessions      *auth.SessionStore
	Transcriber   asr.Transcriber
	Logger        *log.Logger
	CookieName    string
	SecureCookies bool
	SessionTTL    time.Duration
	ReadyCheck    func(ctx context.Context) error
}

type Server struct {
	http.Server

	auth        *services.AuthService
	expenses    *services.ExpenseService
	goals       *services.GoalService
	analytics   *services.AnalyticsService
	qa          *services.QAService
	sessions    *auth.SessionStore
	transcriber asr.Transcriber
	logger      *log.Logger

	cookieName    string
	secureCookies bool
	sessionTTL    time.Duration
	readyCheck    func(ctx context.Context) error

	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

func NewServer(opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              opts.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		auth:          opts.Auth,
		expenses:      opts.Expenses,
		goals:         opts.Goals,
		analytics:     opts.Analytics,
		qa:            opts.QA,
		sessions:      opts.Sessions,
		transcriber:   opts.Transcriber,
		logger:        opts.Logger.WithComponent(log.ComponentHTTP),
		cookieName:    opts.CookieName,
		secureCookies: opts.SecureCookies,
		sessionTTL:    opts.SessionTTL,
		readyCheck:    opts.ReadyCheck,
		rateLimiter:   newRateLimiter(),
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/auth/signup", s.wrap(s.handleSignup))
	mux.HandleFunc("POST /api/auth/login", s.wrap(s.handleLogin))
	mux.HandleFunc("POST /api/auth/logout", s.wrap(s.handleLogout))
	mux.HandleFunc("GET /api/auth/me", s.wrap(s.requireUser(s.handleMe)))

	mux.HandleFunc("GET /api/expenses", s.wrap(s.requireUser(s.handleListExpenses)))
	mux.HandleFunc("POST /api/expenses", s.wrap(s.requireUser(s.handleCreateExpense)))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.wrap(s.requireUser(s.handleDeleteExpense)))
	mux.HandleFunc("POST /api/expenses/upload-audio", s.wrap(s.requireUser(s.handleUploadAudio)))

	mux.HandleFunc("GET /api/goals", s.wrap(s.requireUser(s.handleListGoals)))
	mux.HandleFunc("POST /api/goals", s.wrap(s.requireUser(s.handleUpsertGoal)))
	mux.HandleFunc("DELETE /api/goals/{id}", s.wrap(s.requireUser(s.handleDeleteGoal)))
	mux.HandleFunc("POST /api/goals/voice-update", s.wrap(s.requireUser(s.handleVoiceUpdate)))

	mux.HandleFunc("GET /api/analytics/summary", s.wrap(s.requireUser(s.handleSummary)))
	mux.HandleFunc("GET /api/analytics/category-wise", s.wrap(s.requireUser(s.handleCategoryWise)))
	mux.HandleFunc("GET /api/analytics/month-wise", s.wrap(s.requireUser(s.handleMonthWise)))

	mux.HandleFunc("POST /api/qa", s.wrap(s.requireUser(s.handleQA)))

	return s
}

// wrap adds security headers, rate limiting and request logging.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ip := clientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), contextKey(log.FieldRequestID), requestID)
		r = r.WithContext(ctx)

		if r.Method == http.MethodPost && !s.rateLimiter.allow(ip) {
			s.logger.WarnContext(ctx, "rate limit exceeded",
				log.FieldClientIP, ip,
				log.FieldPath, r.URL.Path,
			)
			w.Header().Set("Retry-After", "60")
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.InfoContext(ctx, "request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds(),
			log.FieldClientIP, ip,
		)
	}
}

// requireUser resolves the session cookie and stows the user ID in the
// request context.
func (s *Server) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(s.cookieName)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "login required")
			return
		}
		userID, err := s.sessions.Lookup(cookie.Value)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "session expired, log in again")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

func currentUserID(r *http.Request) int64 {
	id, _ := r.Context().Value(userIDKey).(int64)
	return id
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.readyCheck != nil {
		if err := s.readyCheck(r.Context()); err != nil {
			s.logger.ErrorContext(r.Context(), "readiness check failed", log.FieldError, err)
			respondError(w, http.StatusServiceUnavailable, "not ready")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Shutdown stops the HTTP server and background goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// moneyOut renders cents for JSON responses: both the raw integer and the
// decimal the UI displays.
type moneyOut struct {
	Cents  int64   `json:"cents"`
	Amount float64 `json:"amount"`
}

func money(cents int64) moneyOut {
	return moneyOut{Cents: cents, Amount: core.Money{Cents: cents}.Rupees()}
}
