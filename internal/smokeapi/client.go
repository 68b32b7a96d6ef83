// Package smokeapi is the REST client for the smoke/gas sensor bridge.
package smokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/alertify/agent/internal/model"
	"github.com/alertify/agent/internal/remoteapi"
)

const (
	latestPath  = "/api/latest"
	historyPath = "/api/smoke-data"
)

var errMissingLatest = errors.New("latest object missing from payload")

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

type latestEnvelope struct {
	Latest *model.SensorReading `json:"latest"`
}

type historyEnvelope struct {
	Data        []model.SensorReading `json:"data"`
	AlertsCount int                   `json:"alerts_count"`
}

// FetchLatest returns the most recent sensor reading. Fields missing from
// the payload keep their documented defaults: numbers zero, booleans false,
// alert text "Unknown".
func (c *Client) FetchLatest(ctx context.Context, baseURL string) (model.SensorReading, error) {
	base, err := remoteapi.NormalizeBaseURL(baseURL)
	if err != nil {
		return model.SensorReading{}, err
	}
	url := base + latestPath

	body, err := remoteapi.Do(ctx, c.httpClient, http.MethodGet, url)
	if err != nil {
		return model.SensorReading{}, err
	}

	var envelope latestEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return model.SensorReading{}, &remoteapi.ParseError{URL: url, Err: err}
	}
	if envelope.Latest == nil {
		return model.SensorReading{}, &remoteapi.ParseError{URL: url, Err: errMissingLatest}
	}
	return normalizeReading(*envelope.Latest), nil
}

// FetchHistory returns the bridge's bulk reading history in server order.
// Trimming to the retained window is the caller's concern.
func (c *Client) FetchHistory(ctx context.Context, baseURL string) (model.SensorHistory, error) {
	base, err := remoteapi.NormalizeBaseURL(baseURL)
	if err != nil {
		return model.SensorHistory{}, err
	}
	url := base + historyPath

	body, err := remoteapi.Do(ctx, c.httpClient, http.MethodGet, url)
	if err != nil {
		return model.SensorHistory{}, err
	}

	var envelope historyEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return model.SensorHistory{}, &remoteapi.ParseError{URL: url, Err: err}
	}

	readings := make([]model.SensorReading, 0, len(envelope.Data))
	for _, reading := range envelope.Data {
		readings = append(readings, normalizeReading(reading))
	}
	return model.SensorHistory{
		Readings:    readings,
		AlertsCount: envelope.AlertsCount,
		FetchedAt:   time.Now().UTC(),
	}, nil
}

func normalizeReading(r model.SensorReading) model.SensorReading {
	if r.AlertText == "" {
		r.AlertText = "Unknown"
	}
	return r
}
