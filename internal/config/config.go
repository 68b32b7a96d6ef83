package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr         = ":8090"
	defaultDBPath           = "/data/alertify.db"
	defaultSmokeInterval    = 30 * time.Second
	defaultSecurityInterval = 10 * time.Second
	defaultBgSmokeEvery     = 15 * time.Minute
	defaultBgSecurityEvery  = 10 * time.Minute
)

// Config stores runtime settings loaded from environment variables. The
// remote base URLs here are only seeds: once written, the persisted settings
// take precedence.
type Config struct {
	HTTPAddr string
	DBPath   string
	LogLevel slog.Level

	SmokeInterval    time.Duration
	SecurityInterval time.Duration
	BgSmokeEvery     time.Duration
	BgSecurityEvery  time.Duration

	SeedSmokeBaseURL    string
	SeedSecurityBaseURL string

	TelegramToken  string
	TelegramChatID int64
}

// Load builds Config from the environment, reading .env first if present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:            getenv("HTTP_ADDR", defaultHTTPAddr),
		DBPath:              getenv("DB_PATH", defaultDBPath),
		LogLevel:            parseLogLevel(getenv("LOG_LEVEL", "info")),
		SmokeInterval:       parseDuration("SMOKE_POLL_INTERVAL", defaultSmokeInterval),
		SecurityInterval:    parseDuration("SECURITY_POLL_INTERVAL", defaultSecurityInterval),
		BgSmokeEvery:        parseDuration("BG_SMOKE_INTERVAL", defaultBgSmokeEvery),
		BgSecurityEvery:     parseDuration("BG_SECURITY_INTERVAL", defaultBgSecurityEvery),
		SeedSmokeBaseURL:    getenv("SMOKE_BASE_URL", ""),
		SeedSecurityBaseURL: getenv("SECURITY_BASE_URL", ""),
		TelegramToken:       getenv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:      parseInt64("TELEGRAM_CHAT_ID", 0),
	}
}

// DBDir returns the target directory for DBPath.
func (c Config) DBDir() string {
	return filepath.Dir(c.DBPath)
}

func getenv(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func parseInt64(key string, fallback int64) int64 {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return fallback
	}
	return value
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
