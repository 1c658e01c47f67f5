package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/lathikasakthivel/voice-based-expense-logger/internal/amqp"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/asr"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/auth"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/config"
	apphttp "github.com/lathikasakthivel/voice-based-expense-logger/internal/http"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/log"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/services"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(log.Config{
		Level:     slog.LevelInfo,
		Component: log.ComponentApp,
	})
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", log.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("open database failed", log.FieldError, err)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("database ready", "path", cfg.SQLiteDBPath)

	transcriber, err := buildTranscriber(cfg, logger)
	if err != nil {
		logger.Error("speech backend setup failed", log.FieldError, err, log.FieldBackend, cfg.ASRBackend)
		os.Exit(1)
	}
	logger.Info("speech backend ready", log.FieldBackend, cfg.ASRBackend)

	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			// Events are best effort: run without the broker rather than
			// refusing to start.
			logger.Warn("AMQP unavailable, events disabled", log.FieldError, err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("AMQP connected", "exchange", cfg.AMQPExchange)
		}
	}

	sessions := auth.NewSessionStore(cfg.SessionTTL, cfg.SessionJanitor)
	defer sessions.Close()

	srv := apphttp.NewServer(apphttp.Options{
		Addr:          ":" + cfg.Port,
		Auth:          services.NewAuthService(repo, logger),
		Expenses:      services.NewExpenseService(repo, publisher, logger),
		Goals:         services.NewGoalService(repo, publisher, logger),
		Analytics:     services.NewAnalyticsService(repo, logger),
		QA:            services.NewQAService(repo, repo, logger),
		Sessions:      sessions,
		Transcriber:   transcriber,
		Logger:        logger,
		CookieName:    cfg.SessionCookie,
		SecureCookies: cfg.SecureCookies,
		SessionTTL:    cfg.SessionTTL,
		ReadyCheck:    repo.Ping,
	})

	srv.ReadTimeout = 30 * time.Second
	srv.WriteTimeout = 60 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("server error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func buildTranscriber(cfg *config.Config, logger *log.Logger) (asr.Transcriber, error) {
	switch cfg.ASRBackend {
	case "google":
		return asr.NewGoogleSpeech(context.Background(), cfg.GoogleAPIKey, "")
	case "client":
		return asr.ClientProvided{}, nil
	default:
		return asr.NewWhisper(cfg.WhisperBin, cfg.WhisperModel, logger)
	}
}
