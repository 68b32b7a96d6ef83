// Package service ties the remote clients, view-state store, classifier and
// notification dispatcher into poll operations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alertify/agent/internal/alert"
	"github.com/alertify/agent/internal/model"
	"github.com/alertify/agent/internal/notify"
	"github.com/alertify/agent/internal/remoteapi"
	"github.com/alertify/agent/internal/state"
)

// ErrMonitoringDisabled signals a poll skipped because the user toggle for
// that source is off.
var ErrMonitoringDisabled = errors.New("monitoring disabled")

type SmokeClient interface {
	FetchLatest(ctx context.Context, baseURL string) (model.SensorReading, error)
	FetchHistory(ctx context.Context, baseURL string) (model.SensorHistory, error)
}

type SecurityClient interface {
	FetchStatus(ctx context.Context, baseURL string) (model.SecuritySnapshot, error)
	FetchAlerts(ctx context.Context, baseURL string) ([]model.AlertRecord, error)
	FetchDetections(ctx context.Context, baseURL string) ([]model.DetectionRecord, map[string]int, error)
	FetchPersons(ctx context.Context, baseURL string) ([]model.PersonRecord, error)
	FetchStreamURL(ctx context.Context, baseURL string) (string, error)
	ClearAlerts(ctx context.Context, baseURL string) (bool, error)
	ReconnectCamera(ctx context.Context, baseURL string) (bool, error)
}

type SettingsStore interface {
	LoadSettings(ctx context.Context) (model.Settings, error)
	PatchSettings(ctx context.Context, patch model.SettingsPatch) (model.Settings, error)
	TouchSmokeCheck(ctx context.Context, at time.Time, alerted bool) error
	TouchCameraCheck(ctx context.Context, at time.Time, alerted bool) error
	AppendAlert(ctx context.Context, channel, title, message string) error
}

type Service struct {
	settings   SettingsStore
	smoke      SmokeClient
	security   SecurityClient
	store      *state.Store
	dispatcher *notify.Dispatcher
	logger     *slog.Logger
	now        func() time.Time
}

func New(
	settings SettingsStore,
	smoke SmokeClient,
	security SecurityClient,
	store *state.Store,
	dispatcher *notify.Dispatcher,
	logger *slog.Logger,
) *Service {
	return &Service{
		settings:   settings,
		smoke:      smoke,
		security:   security,
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// PollSmokeOnce fetches the latest reading plus bulk history, installs them
// in the view state and raises a smoke notification when the bridge reports
// an alert. One invocation is one poll tick; there is no internal retry.
func (s *Service) PollSmokeOnce(ctx context.Context) error {
	settings, err := s.settings.LoadSettings(ctx)
	if err != nil {
		return err
	}
	if !settings.SmokeMonitoring {
		return ErrMonitoringDisabled
	}

	seq := s.store.NextSmokeSeq()
	reading, err := s.smoke.FetchLatest(ctx, settings.SmokeBaseURL)
	if err != nil {
		if !errors.Is(err, remoteapi.ErrNoBaseURL) {
			s.store.ApplySmokeError(seq, err.Error())
		}
		return err
	}

	history, err := s.smoke.FetchHistory(ctx, settings.SmokeBaseURL)
	if err != nil {
		// Latest succeeded; show it with the previous history rather
		// than dropping the whole tick.
		s.logger.Warn("smoke history fetch failed", "err", err)
		history = model.SensorHistory{Readings: s.store.View().Smoke.History}
	}
	s.store.ApplySmoke(seq, reading, history)

	alerted := alert.IsSmokeAlert(reading)
	if alerted {
		title := "Smoke alarm"
		body := fmt.Sprintf("%s\nSensor value %.1f (status %d)", reading.AlertText, reading.SensorValue, reading.AlertStatus)
		if s.dispatcher.Dispatch(ctx, notify.ChannelSmoke, title, body) {
			if err := s.settings.AppendAlert(ctx, string(notify.ChannelSmoke), title, reading.AlertText); err != nil {
				s.logger.Warn("alert log append failed", "err", err)
			}
		}
	}
	if err := s.settings.TouchSmokeCheck(ctx, s.now().UTC(), alerted); err != nil {
		s.logger.Warn("smoke check bookkeeping failed", "err", err)
	}
	return nil
}

// PollSecurityOnce fetches the gateway's status, alert list, detections and
// persons, installs them and raises an intruder notification when the alert
// list contains push-worthy entries.
func (s *Service) PollSecurityOnce(ctx context.Context) error {
	settings, err := s.settings.LoadSettings(ctx)
	if err != nil {
		return err
	}
	if !settings.SecurityMonitoring {
		return ErrMonitoringDisabled
	}

	seq := s.store.NextSecuritySeq()
	snapshot, err := s.security.FetchStatus(ctx, settings.SecurityBaseURL)
	if err != nil {
		if !errors.Is(err, remoteapi.ErrNoBaseURL) {
			s.store.ApplySecurityError(seq, err.Error())
		}
		return err
	}
	alerts, err := s.security.FetchAlerts(ctx, settings.SecurityBaseURL)
	if err != nil {
		s.store.ApplySecurityError(seq, err.Error())
		return err
	}
	detections, stats, err := s.security.FetchDetections(ctx, settings.SecurityBaseURL)
	if err != nil {
		s.logger.Warn("detections fetch failed", "err", err)
	}
	persons, err := s.security.FetchPersons(ctx, settings.SecurityBaseURL)
	if err != nil {
		s.logger.Warn("persons fetch failed", "err", err)
	}
	s.store.ApplySecurity(seq, snapshot, alerts, detections, stats, persons)

	alerted := false
	if summary, ok := alert.SummarizeIntruders(alerts); ok {
		alerted = true
		title := fmt.Sprintf("%d intruder(s) detected", summary.Count)
		body := fmt.Sprintf("%s in %s", summary.Message, summary.Area)
		if s.dispatcher.Dispatch(ctx, notify.ChannelSecurity, title, body) {
			if err := s.settings.AppendAlert(ctx, string(notify.ChannelSecurity), title, body); err != nil {
				s.logger.Warn("alert log append failed", "err", err)
			}
		}
	}
	if err := s.settings.TouchCameraCheck(ctx, s.now().UTC(), alerted); err != nil {
		s.logger.Warn("camera check bookkeeping failed", "err", err)
	}
	return nil
}

// View returns the current displayable state.
func (s *Service) View() state.View {
	return s.store.View()
}

// Subscribe registers a state-change listener; see state.Store.Subscribe.
func (s *Service) Subscribe() (<-chan state.View, func()) {
	return s.store.Subscribe()
}

// Settings returns the persisted settings record.
func (s *Service) Settings(ctx context.Context) (model.Settings, error) {
	return s.settings.LoadSettings(ctx)
}

// PatchSettings applies a partial settings update.
func (s *Service) PatchSettings(ctx context.Context, patch model.SettingsPatch) (model.Settings, error) {
	return s.settings.PatchSettings(ctx, patch)
}

// ClearAlerts proxies the clear action to the gateway.
func (s *Service) ClearAlerts(ctx context.Context) (bool, error) {
	settings, err := s.settings.LoadSettings(ctx)
	if err != nil {
		return false, err
	}
	return s.security.ClearAlerts(ctx, settings.SecurityBaseURL)
}

// ReconnectCamera proxies the reconnect action to the gateway.
func (s *Service) ReconnectCamera(ctx context.Context) (bool, error) {
	settings, err := s.settings.LoadSettings(ctx)
	if err != nil {
		return false, err
	}
	return s.security.ReconnectCamera(ctx, settings.SecurityBaseURL)
}

// StreamURL resolves the gateway's live video feed address.
func (s *Service) StreamURL(ctx context.Context) (string, error) {
	settings, err := s.settings.LoadSettings(ctx)
	if err != nil {
		return "", err
	}
	return s.security.FetchStreamURL(ctx, settings.SecurityBaseURL)
}
