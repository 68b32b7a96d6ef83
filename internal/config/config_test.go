package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_ADDR", "DB_PATH", "LOG_LEVEL",
		"SMOKE_POLL_INTERVAL", "SECURITY_POLL_INTERVAL",
		"BG_SMOKE_INTERVAL", "BG_SECURITY_INTERVAL",
		"SMOKE_BASE_URL", "SECURITY_BASE_URL",
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.HTTPAddr != ":8090" {
		t.Fatalf("HTTPAddr = %q, want :8090", cfg.HTTPAddr)
	}
	if cfg.DBPath != "/data/alertify.db" {
		t.Fatalf("DBPath = %q, want /data/alertify.db", cfg.DBPath)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.SmokeInterval != 30*time.Second {
		t.Fatalf("SmokeInterval = %v, want 30s", cfg.SmokeInterval)
	}
	if cfg.BgSmokeEvery != 15*time.Minute {
		t.Fatalf("BgSmokeEvery = %v, want 15m", cfg.BgSmokeEvery)
	}
	if cfg.SeedSmokeBaseURL != "" || cfg.TelegramToken != "" || cfg.TelegramChatID != 0 {
		t.Fatalf("optional values not empty: %+v", cfg)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SMOKE_POLL_INTERVAL", "1m")
	t.Setenv("SMOKE_BASE_URL", " https://smoke.example.com ")
	t.Setenv("TELEGRAM_CHAT_ID", "123456789")

	cfg := Load()

	if cfg.HTTPAddr != "127.0.0.1:9000" {
		t.Fatalf("HTTPAddr = %q, want 127.0.0.1:9000", cfg.HTTPAddr)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.SmokeInterval != time.Minute {
		t.Fatalf("SmokeInterval = %v, want 1m", cfg.SmokeInterval)
	}
	if cfg.SeedSmokeBaseURL != "https://smoke.example.com" {
		t.Fatalf("SeedSmokeBaseURL = %q, want trimmed url", cfg.SeedSmokeBaseURL)
	}
	if cfg.TelegramChatID != 123456789 {
		t.Fatalf("TelegramChatID = %d, want 123456789", cfg.TelegramChatID)
	}
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("SMOKE_POLL_INTERVAL", "soon")
	t.Setenv("SECURITY_POLL_INTERVAL", "-5s")
	t.Setenv("TELEGRAM_CHAT_ID", "not-a-number")

	cfg := Load()

	if cfg.SmokeInterval != 30*time.Second {
		t.Fatalf("SmokeInterval = %v, want default 30s", cfg.SmokeInterval)
	}
	if cfg.SecurityInterval != 10*time.Second {
		t.Fatalf("SecurityInterval = %v, want default 10s", cfg.SecurityInterval)
	}
	if cfg.TelegramChatID != 0 {
		t.Fatalf("TelegramChatID = %d, want 0", cfg.TelegramChatID)
	}
}
