// Package securityapi is the REST client for the camera security gateway.
package securityapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/alertify/agent/internal/model"
	"github.com/alertify/agent/internal/remoteapi"
)

const (
	statusPath      = "/api/security/status"
	alertsPath      = "/api/security/alerts"
	detectionsPath  = "/api/security/detections"
	personsPath     = "/api/security/persons"
	streamURLPath   = "/api/security/stream-url"
	clearAlertsPath = "/api/security/alerts/clear"
	reconnectPath   = "/api/security/camera/reconnect"
)

type Client struct {
	httpClient *http.Client
}

func NewClient() *Client {
	return NewClientWithHTTPClient(remoteapi.NewHTTPClient())
}

func NewClientWithHTTPClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = remoteapi.NewHTTPClient()
	}
	if httpClient.Timeout == 0 {
		httpClient.Timeout = remoteapi.DefaultTimeout
	}
	return &Client{httpClient: httpClient}
}

type statusEnvelope struct {
	Success bool `json:"success"`
	Running bool `json:"running"`
	System  struct {
		Status string `json:"status"`
		Camera struct {
			Connected bool `json:"connected"`
			Info      struct {
				Width      int     `json:"width"`
				Height     int     `json:"height"`
				FPSSetting int     `json:"fps_setting"`
				FPSActual  float64 `json:"fps_actual"`
				FrameCount int     `json:"frame_count"`
			} `json:"info"`
		} `json:"camera"`
		Recognition model.RecognitionStats `json:"recognition"`
		Health      model.HealthStats      `json:"health"`
	} `json:"system"`
}

// FetchStatus returns the gateway's nested camera/recognition/health state.
func (c *Client) FetchStatus(ctx context.Context, baseURL string) (model.SecuritySnapshot, error) {
	base, err := remoteapi.NormalizeBaseURL(baseURL)
	if err != nil {
		return model.SecuritySnapshot{}, err
	}
	url := base + statusPath

	body, err := remoteapi.Do(ctx, c.httpClient, http.MethodGet, url)
	if err != nil {
		return model.SecuritySnapshot{}, err
	}

	var envelope statusEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return model.SecuritySnapshot{}, &remoteapi.ParseError{URL: url, Err: err}
	}
	if !envelope.Success {
		return model.SecuritySnapshot{}, &remoteapi.GatewayError{URL: url}
	}

	return model.SecuritySnapshot{
		Running: envelope.Running,
		Status:  envelope.System.Status,
		Camera: model.CameraInfo{
			Connected:  envelope.System.Camera.Connected,
			Width:      envelope.System.Camera.Info.Width,
			Height:     envelope.System.Camera.Info.Height,
			FPSSetting: envelope.System.Camera.Info.FPSSetting,
			FPSActual:  envelope.System.Camera.Info.FPSActual,
			FrameCount: envelope.System.Camera.Info.FrameCount,
		},
		Recognition: envelope.System.Recognition,
		Health:      envelope.System.Health,
	}, nil
}

// FetchAlerts returns the gateway's pending alert list in server order.
func (c *Client) FetchAlerts(ctx context.Context, baseURL string) ([]model.AlertRecord, error) {
	base, err := remoteapi.NormalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	url := base + alertsPath

	body, err := remoteapi.Do(ctx, c.httpClient, http.MethodGet, url)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Success bool                `json:"success"`
		Alerts  []model.AlertRecord `json:"alerts"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &remoteapi.ParseError{URL: url, Err: err}
	}
	if !envelope.Success {
		return nil, &remoteapi.GatewayError{URL: url}
	}

	alerts := envelope.Alerts
	for i := range alerts {
		alerts[i].Severity = model.ParseSeverity(string(alerts[i].Severity))
	}
	return alerts, nil
}

// FetchDetections returns recent recognition events plus per-name counters.
func (c *Client) FetchDetections(ctx context.Context, baseURL string) ([]model.DetectionRecord, map[string]int, error) {
	base, err := remoteapi.NormalizeBaseURL(baseURL)
	if err != nil {
		return nil, nil, err
	}
	url := base + detectionsPath

	body, err := remoteapi.Do(ctx, c.httpClient, http.MethodGet, url)
	if err != nil {
		return nil, nil, err
	}

	var envelope struct {
		Success    bool                    `json:"success"`
		Detections []model.DetectionRecord `json:"detections"`
		Stats      map[string]int          `json:"stats"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, nil, &remoteapi.ParseError{URL: url, Err: err}
	}
	if !envelope.Success {
		return nil, nil, &remoteapi.GatewayError{URL: url}
	}
	return envelope.Detections, envelope.Stats, nil
}

// FetchPersons returns the registered identities known to the gateway.
func (c *Client) FetchPersons(ctx context.Context, baseURL string) ([]model.PersonRecord, error) {
	base, err := remoteapi.NormalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	url := base + personsPath

	body, err := remoteapi.Do(ctx, c.httpClient, http.MethodGet, url)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Success bool                 `json:"success"`
		Persons []model.PersonRecord `json:"persons"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &remoteapi.ParseError{URL: url, Err: err}
	}
	if !envelope.Success {
		return nil, &remoteapi.GatewayError{URL: url}
	}
	return envelope.Persons, nil
}

// FetchStreamURL resolves the address of the MJPEG video feed.
func (c *Client) FetchStreamURL(ctx context.Context, baseURL string) (string, error) {
	base, err := remoteapi.NormalizeBaseURL(baseURL)
	if err != nil {
		return "", err
	}
	url := base + streamURLPath

	body, err := remoteapi.Do(ctx, c.httpClient, http.MethodGet, url)
	if err != nil {
		return "", err
	}

	var envelope struct {
		StreamURL string `json:"stream_url"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", &remoteapi.ParseError{URL: url, Err: err}
	}
	if envelope.StreamURL == "" {
		// Older gateways only expose the fixed feed path.
		return base + "/video_feed", nil
	}
	return envelope.StreamURL, nil
}

// ClearAlerts asks the gateway to drop its pending alert list.
func (c *Client) ClearAlerts(ctx context.Context, baseURL string) (bool, error) {
	return c.postAck(ctx, baseURL, clearAlertsPath)
}

// ReconnectCamera asks the gateway to re-open its camera device.
func (c *Client) ReconnectCamera(ctx context.Context, baseURL string) (bool, error) {
	return c.postAck(ctx, baseURL, reconnectPath)
}

func (c *Client) postAck(ctx context.Context, baseURL, path string) (bool, error) {
	base, err := remoteapi.NormalizeBaseURL(baseURL)
	if err != nil {
		return false, err
	}
	url := base + path

	body, err := remoteapi.Do(ctx, c.httpClient, http.MethodPost, url)
	if err != nil {
		return false, err
	}

	var envelope struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return false, &remoteapi.ParseError{URL: url, Err: err}
	}
	return envelope.Success, nil
}
