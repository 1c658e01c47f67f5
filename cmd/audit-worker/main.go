// The audit worker drains expense and goal events from RabbitMQ into the
// audit_log table, so there is a durable trail independent of request logs.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lathikasakthivel/voice-based-expense-logger/internal/amqp"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/config"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/core"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/log"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(log.Config{
		Level:     slog.LevelInfo,
		Component: log.ComponentWorker,
	})
	log.SetDefault(logger)

	cfg := config.Load()
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the audit worker")
		os.Exit(1)
	}
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

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("AMQP connect failed", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("audit worker started", "queue", cfg.AMQPQueue)

	err = client.ConsumeEvents(ctx, func(routingKey string, body []byte) error {
		return recordEvent(ctx, repo, routingKey, body)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("consumer stopped", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("audit worker stopped")
}

func recordEvent(ctx context.Context, repo *storage.SQLiteRepository, routingKey string, body []byte) error {
	switch routingKey {
	case amqp.KeyExpenseLogged:
		var msg amqp.ExpenseLoggedMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("unmarshal expense event: %w", err)
		}
		detail := fmt.Sprintf("expense %d: %s in %s via %s",
			msg.ExpenseID, core.FormatRupees(msg.AmountCents), msg.Category, msg.PaymentMethod)
		if msg.AmountPending {
			detail += " (amount pending)"
		}
		return repo.AppendAuditEvent(ctx, msg.EventID, msg.UserID, routingKey, detail, msg.OccurredAt)

	case amqp.KeyGoalProgress:
		var msg amqp.GoalProgressMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("unmarshal goal event: %w", err)
		}
		detail := fmt.Sprintf("goal %s: +%s, %s of %s",
			msg.Slug, core.FormatRupees(msg.AddedCents),
			core.FormatRupees(msg.SavedCents), core.FormatRupees(msg.TargetCents))
		if msg.Completed {
			detail += " (completed)"
		}
		return repo.AppendAuditEvent(ctx, msg.EventID, msg.UserID, routingKey, detail, msg.OccurredAt)

	default:
		// Unknown kinds are recorded raw rather than requeued forever.
		return repo.AppendAuditEvent(ctx, amqp.NewEventID(), 0, routingKey, string(body), time.Now().UTC())
	}
}
