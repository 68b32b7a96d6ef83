// Package httpapi exposes the agent's state and actions to local dashboard
// clients.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alertify/agent/internal/service"
	"github.com/alertify/agent/internal/storage"
)

// Refresher triggers an immediate poll outside the regular cadence.
type Refresher interface {
	TriggerRefresh()
}

// AlertLog reads back the dispatched-notification audit trail.
type AlertLog interface {
	RecentAlerts(ctx context.Context, limit int) ([]storage.AlertLogEntry, error)
}

type API struct {
	service        *service.Service
	smokePoller    Refresher
	securityPoller Refresher
	alertLog       AlertLog
	logger         *slog.Logger
}

func New(svc *service.Service, smokePoller, securityPoller Refresher, alertLog AlertLog, logger *slog.Logger) *API {
	return &API{
		service:        svc,
		smokePoller:    smokePoller,
		securityPoller: securityPoller,
		alertLog:       alertLog,
		logger:         logger,
	}
}

func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", a.health)
	r.Get("/stream", a.streamPage)
	r.Route("/api", func(api chi.Router) {
		// The state feed outlives any request deadline, so the timeout
		// middleware covers everything but it.
		api.Get("/ws", a.stateFeed)

		api.Group(func(api chi.Router) {
			api.Use(middleware.Timeout(30 * time.Second))
			api.Get("/state", a.fullState)
			api.Get("/smoke/latest", a.smokeLatest)
			api.Get("/smoke/history", a.smokeHistory)
			api.Get("/security/status", a.securityStatus)
			api.Get("/security/alerts", a.securityAlerts)
			api.Get("/security/detections", a.securityDetections)
			api.Get("/security/persons", a.securityPersons)
			api.Post("/security/alerts/clear", a.clearAlerts)
			api.Post("/security/camera/reconnect", a.reconnectCamera)
			api.Get("/alerts/log", a.alertLogEntries)
			api.Get("/settings", a.getSettings)
			api.Patch("/settings", a.patchSettings)
			api.Post("/refresh", a.refresh)
		})
	})
	return r
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	settings, err := a.service.Settings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "settings_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"configured": settings.SmokeBaseURL != "" || settings.SecurityBaseURL != "",
	})
}

func (a *API) refresh(w http.ResponseWriter, _ *http.Request) {
	a.smokePoller.TriggerRefresh()
	a.securityPoller.TriggerRefresh()
	writeJSON(w, http.StatusAccepted, map[string]any{"ok": true})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}

// RunServer starts and gracefully stops the HTTP server with context
// cancellation.
func RunServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil {
			logger.Error("http server failed", "err", err)
			return err
		}
		return nil
	}
}
