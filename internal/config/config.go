package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// Sessions
	SessionTTL     time.Duration
	SessionCookie  string
	SecureCookies  bool
	SessionJanitor time.Duration

	// Speech to text
	ASRBackend   string // whisper | google | client
	WhisperBin   string
	WhisperModel string
	GoogleAPIKey string

	// AMQP event stream (optional; empty URL disables publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/expenses.db"),

		SessionTTL:     getEnvDuration("SESSION_TTL", 24*time.Hour),
		SessionCookie:  getEnv("SESSION_COOKIE", "session_id"),
		SecureCookies:  getEnv("SECURE_COOKIES", "false") == "true",
		SessionJanitor: getEnvDuration("SESSION_JANITOR_INTERVAL", 10*time.Minute),

		ASRBackend:   getEnv("ASR_BACKEND", "whisper"),
		WhisperBin:   getEnv("WHISPER_BIN", "whisper"),
		WhisperModel: getEnv("WHISPER_MODEL", "base"),
		GoogleAPIKey: getEnv("GOOGLE_SPEECH_API_KEY", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "expense-logger"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "audit_events"),
	}
}

// Validate checks the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	switch c.ASRBackend {
	case "whisper", "google", "client":
	default:
		errs = append(errs, fmt.Sprintf("invalid ASR backend '%s': must be one of [whisper google client]", c.ASRBackend))
	}
	if c.ASRBackend == "whisper" && c.WhisperBin == "" {
		errs = append(errs, "whisper binary path cannot be empty when using whisper backend")
	}
	if c.ASRBackend == "google" && c.GoogleAPIKey == "" {
		errs = append(errs, "GOOGLE_SPEECH_API_KEY is required when using google backend")
	}

	if c.SessionTTL < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	}
	if c.SessionJanitor < time.Second {
		errs = append(errs, fmt.Sprintf("invalid session janitor interval %v: must be at least 1 second", c.SessionJanitor))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
