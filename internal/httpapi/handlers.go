package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/alertify/agent/internal/model"
	"github.com/alertify/agent/internal/remoteapi"
)

func (a *API) fullState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.service.View())
}

func (a *API) smokeLatest(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.service.View().Smoke)
}

func (a *API) smokeHistory(w http.ResponseWriter, _ *http.Request) {
	smoke := a.service.View().Smoke
	writeJSON(w, http.StatusOK, map[string]any{
		"items":        smoke.History,
		"alerts_count": smoke.AlertsCount,
	})
}

func (a *API) securityStatus(w http.ResponseWriter, _ *http.Request) {
	security := a.service.View().Security
	writeJSON(w, http.StatusOK, map[string]any{
		"snapshot":   security.Snapshot,
		"updated_at": security.UpdatedAt,
		"last_error": security.LastError,
	})
}

func (a *API) securityAlerts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"alerts": a.service.View().Security.Alerts})
}

func (a *API) securityDetections(w http.ResponseWriter, _ *http.Request) {
	security := a.service.View().Security
	writeJSON(w, http.StatusOK, map[string]any{
		"detections": security.Detections,
		"stats":      security.DetectionStats,
	})
}

func (a *API) securityPersons(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"persons": a.service.View().Security.Persons})
}

func (a *API) clearAlerts(w http.ResponseWriter, r *http.Request) {
	ok, err := a.service.ClearAlerts(r.Context())
	if err != nil {
		writeRemoteError(w, "clear_failed", err)
		return
	}
	a.securityPoller.TriggerRefresh()
	writeJSON(w, http.StatusOK, map[string]any{"success": ok})
}

func (a *API) reconnectCamera(w http.ResponseWriter, r *http.Request) {
	ok, err := a.service.ReconnectCamera(r.Context())
	if err != nil {
		writeRemoteError(w, "reconnect_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": ok})
}

func (a *API) alertLogEntries(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = value
	}
	entries, err := a.alertLog.RecentAlerts(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "log_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": entries})
}

func (a *API) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := a.service.Settings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "settings_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (a *API) patchSettings(w http.ResponseWriter, r *http.Request) {
	var patch model.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid JSON payload")
		return
	}
	settings, err := a.service.PatchSettings(r.Context(), patch)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "patch_failed", err.Error())
		return
	}
	a.smokePoller.TriggerRefresh()
	a.securityPoller.TriggerRefresh()
	writeJSON(w, http.StatusOK, settings)
}

// writeRemoteError maps fetch failures onto gateway-ish statuses so a
// dashboard can distinguish "this agent broke" from "the remote is down".
func writeRemoteError(w http.ResponseWriter, code string, err error) {
	if errors.Is(err, remoteapi.ErrNoBaseURL) {
		writeError(w, http.StatusConflict, "not_configured", "Security base URL not configured")
		return
	}
	writeError(w, http.StatusBadGateway, code, err.Error())
}
