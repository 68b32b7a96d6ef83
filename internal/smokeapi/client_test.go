package smokeapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alertify/agent/internal/remoteapi"
)

func TestFetchLatestDefaultsMissingFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("ngrok-skip-browser-warning"); got != "true" {
			t.Errorf("tunnel skip header = %q, want %q", got, "true")
		}
		if r.URL.Path != "/api/latest" {
			t.Errorf("path = %q, want /api/latest", r.URL.Path)
		}
		w.Write([]byte(`{"latest":{"time":"10:00","is_alert":true}}`))
	}))
	defer server.Close()

	reading, err := NewClient().FetchLatest(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchLatest() error: %v", err)
	}
	if reading.Time != "10:00" {
		t.Fatalf("Time = %q, want %q", reading.Time, "10:00")
	}
	if !reading.IsAlert {
		t.Fatalf("IsAlert = false, want true")
	}
	if reading.SensorValue != 0.0 {
		t.Fatalf("SensorValue = %v, want 0.0", reading.SensorValue)
	}
	if reading.AlertStatus != 0 {
		t.Fatalf("AlertStatus = %d, want 0", reading.AlertStatus)
	}
	if reading.AlertText != "Unknown" {
		t.Fatalf("AlertText = %q, want %q", reading.AlertText, "Unknown")
	}
}

func TestFetchLatestFullPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"latest":{"time":"12:30","alert_status":2,"sensor_value":412.5,"is_alert":true,"alert_text":"Gas detected"}}`))
	}))
	defer server.Close()

	reading, err := NewClient().FetchLatest(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchLatest() error: %v", err)
	}
	if reading.SensorValue != 412.5 {
		t.Fatalf("SensorValue = %v, want 412.5", reading.SensorValue)
	}
	if reading.AlertStatus != 2 {
		t.Fatalf("AlertStatus = %d, want 2", reading.AlertStatus)
	}
	if reading.AlertText != "Gas detected" {
		t.Fatalf("AlertText = %q, want %q", reading.AlertText, "Gas detected")
	}
}

func TestFetchLatestHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient().FetchLatest(context.Background(), server.URL)
	var httpErr *remoteapi.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error = %v, want HTTPError", err)
	}
	if httpErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("StatusCode = %d, want 503", httpErr.StatusCode)
	}
	if !strings.Contains(err.Error(), "503") {
		t.Fatalf("error message %q does not mention 503", err.Error())
	}
}

func TestFetchLatestGuardsBaseURL(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient()
	for _, baseURL := range []string{"", "   ", "ftp://example.test", "example.test"} {
		if _, err := client.FetchLatest(context.Background(), baseURL); !errors.Is(err, remoteapi.ErrNoBaseURL) {
			t.Fatalf("FetchLatest(%q) error = %v, want ErrNoBaseURL", baseURL, err)
		}
	}
	if called {
		t.Fatal("network call issued despite invalid base url")
	}
}

func TestFetchLatestConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient().FetchLatest(context.Background(), url)
	var connErr *remoteapi.ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("error = %v, want ConnectionError", err)
	}
}

func TestFetchLatestMissingLatestObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"alerts_count":0}`))
	}))
	defer server.Close()

	_, err := NewClient().FetchLatest(context.Background(), server.URL)
	var parseErr *remoteapi.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %v, want ParseError", err)
	}
}

func TestFetchHistoryKeepsServerOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/smoke-data" {
			t.Errorf("path = %q, want /api/smoke-data", r.URL.Path)
		}
		w.Write([]byte(`{"data":[{"time":"10:00","sensor_value":1},{"time":"10:01","sensor_value":2},{"time":"10:02","sensor_value":3}],"alerts_count":7}`))
	}))
	defer server.Close()

	history, err := NewClient().FetchHistory(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchHistory() error: %v", err)
	}
	if len(history.Readings) != 3 {
		t.Fatalf("len(Readings) = %d, want 3", len(history.Readings))
	}
	if history.Readings[0].Time != "10:00" || history.Readings[2].Time != "10:02" {
		t.Fatalf("readings out of order: %+v", history.Readings)
	}
	if history.AlertsCount != 7 {
		t.Fatalf("AlertsCount = %d, want 7", history.AlertsCount)
	}
	if history.Readings[1].AlertText != "Unknown" {
		t.Fatalf("AlertText = %q, want %q", history.Readings[1].AlertText, "Unknown")
	}
}
