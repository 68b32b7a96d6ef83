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

	"github.com/alertify/agent/internal/config"
	"github.com/alertify/agent/internal/httpapi"
	"github.com/alertify/agent/internal/logging"
	"github.com/alertify/agent/internal/notify"
	"github.com/alertify/agent/internal/poller"
	"github.com/alertify/agent/internal/securityapi"
	"github.com/alertify/agent/internal/service"
	"github.com/alertify/agent/internal/smokeapi"
	"github.com/alertify/agent/internal/state"
	"github.com/alertify/agent/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	if err := os.MkdirAll(cfg.DBDir(), 0o755); err != nil {
		logger.Error("failed to create db directory", "err", err)
		os.Exit(1)
	}

	repo, err := storage.New(ctx, cfg.DBPath, logger)
	if err != nil {
		logger.Error("failed to initialize storage", "err", err)
		os.Exit(1)
	}
	defer repo.Close()

	seedSettings(ctx, repo, cfg, logger)

	var sender notify.Sender
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		telegram, err := notify.NewTelegramSender(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			logger.Warn("telegram setup failed; notifications disabled", "err", err)
		} else {
			sender = telegram
		}
	} else {
		logger.Warn("telegram not configured; notifications disabled")
	}
	dispatcher := notify.NewDispatcher(sender, logger)

	store := state.New()
	svc := service.New(repo, smokeapi.NewClient(), securityapi.NewClient(), store, dispatcher, logger)

	smokePoller := poller.New("smoke",
		func() time.Duration { return cfg.SmokeInterval }, svc.PollSmokeOnce, logger)
	securityPoller := poller.New("security",
		func() time.Duration { return cfg.SecurityInterval }, svc.PollSecurityOnce, logger)
	unified := poller.NewUnified(svc.PollSmokeOnce, svc.PollSecurityOnce,
		cfg.BgSmokeEvery, cfg.BgSecurityEvery, logger)

	go smokePoller.Run(ctx)
	go securityPoller.Run(ctx)
	go unified.Run(ctx)
	smokePoller.TriggerRefresh()
	securityPoller.TriggerRefresh()

	api := httpapi.New(svc, smokePoller, securityPoller, repo, logger)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("agent starting", "addr", httpServer.Addr)
	if err := httpapi.RunServer(ctx, httpServer, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server terminated with error", "err", err)
		os.Exit(1)
	}
	logger.Info("agent stopped")
}

// seedSettings writes the env-supplied base URLs into the settings store on
// first run so a fresh install starts monitoring without a manual PATCH.
func seedSettings(ctx context.Context, repo *storage.Repository, cfg config.Config, logger *slog.Logger) {
	settings, err := repo.LoadSettings(ctx)
	if err != nil {
		logger.Warn("settings load failed during seed", "err", err)
		return
	}
	changed := false
	if settings.SmokeBaseURL == "" && cfg.SeedSmokeBaseURL != "" {
		settings.SmokeBaseURL = cfg.SeedSmokeBaseURL
		settings.SmokeMonitoring = true
		changed = true
	}
	if settings.SecurityBaseURL == "" && cfg.SeedSecurityBaseURL != "" {
		settings.SecurityBaseURL = cfg.SeedSecurityBaseURL
		settings.SecurityMonitoring = true
		changed = true
	}
	if !changed {
		return
	}
	if err := repo.SaveSettings(ctx, settings); err != nil {
		logger.Warn("settings seed failed", "err", err)
	}
}
