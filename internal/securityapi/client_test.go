package securityapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alertify/agent/internal/model"
	"github.com/alertify/agent/internal/remoteapi"
)

func TestFetchStatusMapsNestedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/security/status" {
			t.Errorf("path = %q, want /api/security/status", r.URL.Path)
		}
		w.Write([]byte(`{
			"success": true,
			"running": true,
			"system": {
				"status": "armed",
				"camera": {"connected": true, "info": {"width": 1280, "height": 720, "fps_setting": 30, "fps_actual": 24.5, "frame_count": 10042}},
				"recognition": {"known_persons": 4, "pending_alerts": 1, "avg_recognition_time_ms": 82.3, "cache_size": 16, "threshold": 0.6},
				"health": {"uptime_seconds": 3600, "camera_failures": 2, "recognition_errors": 0, "memory_warnings": 1, "memory_usage_percent": 41.7}
			}
		}`))
	}))
	defer server.Close()

	snapshot, err := NewClient().FetchStatus(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchStatus() error: %v", err)
	}
	if !snapshot.Running {
		t.Fatalf("Running = false, want true")
	}
	if snapshot.Status != "armed" {
		t.Fatalf("Status = %q, want %q", snapshot.Status, "armed")
	}
	if !snapshot.Camera.Connected || snapshot.Camera.Width != 1280 || snapshot.Camera.FPSActual != 24.5 {
		t.Fatalf("camera mapped wrong: %+v", snapshot.Camera)
	}
	if snapshot.Recognition.KnownPersons != 4 || snapshot.Recognition.AvgRecognitionTimeMs != 82.3 {
		t.Fatalf("recognition mapped wrong: %+v", snapshot.Recognition)
	}
	if snapshot.Health.UptimeSeconds != 3600 || snapshot.Health.MemoryUsagePercent != 41.7 {
		t.Fatalf("health mapped wrong: %+v", snapshot.Health)
	}
}

func TestFetchStatusGatewayFailureEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"success": false}`))
	}))
	defer server.Close()

	_, err := NewClient().FetchStatus(context.Background(), server.URL)
	var gwErr *remoteapi.GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("error = %v, want GatewayError", err)
	}
}

func TestFetchAlertsNormalizesSeverity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"success": true, "alerts": [
			{"id": "a1", "type": "INTRUSO_RILEVATO", "message": "unknown face", "severity": "high", "location": [12, 40], "area": "deck"},
			{"id": "a2", "type": "LOW_QUALITY", "severity": "weird"}
		]}`))
	}))
	defer server.Close()

	alerts, err := NewClient().FetchAlerts(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchAlerts() error: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("len(alerts) = %d, want 2", len(alerts))
	}
	if alerts[0].Severity != model.SeverityHigh {
		t.Fatalf("Severity = %q, want HIGH", alerts[0].Severity)
	}
	if alerts[1].Severity != model.SeverityUnknown {
		t.Fatalf("Severity = %q, want UNKNOWN", alerts[1].Severity)
	}
	if len(alerts[0].Location) != 2 || alerts[0].Location[0] != 12 {
		t.Fatalf("Location = %v, want [12 40]", alerts[0].Location)
	}
}

func TestClearAlertsPosts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if r.URL.Path != "/api/security/alerts/clear" {
			t.Errorf("path = %q, want /api/security/alerts/clear", r.URL.Path)
		}
		w.Write([]byte(`{"success": true}`))
	}))
	defer server.Close()

	ok, err := NewClient().ClearAlerts(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("ClearAlerts() error: %v", err)
	}
	if !ok {
		t.Fatalf("ClearAlerts() = false, want true")
	}
}

func TestFetchStreamURLFallsBackToFixedFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	streamURL, err := NewClient().FetchStreamURL(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchStreamURL() error: %v", err)
	}
	if want := server.URL + "/video_feed"; streamURL != want {
		t.Fatalf("stream url = %q, want %q", streamURL, want)
	}
}

func TestFetchPersonsDecodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"success": true, "persons": [{"name": "Ada", "access_level": "owner", "features_count": 12, "is_complete": true}]}`))
	}))
	defer server.Close()

	persons, err := NewClient().FetchPersons(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchPersons() error: %v", err)
	}
	if len(persons) != 1 || persons[0].Name != "Ada" || !persons[0].IsComplete {
		t.Fatalf("persons = %+v", persons)
	}
}
