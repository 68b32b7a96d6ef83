package model

// Severity is the gateway-reported weight of an alert.
type Severity string

const (
	SeverityLow     Severity = "LOW"
	SeverityMedium  Severity = "MEDIUM"
	SeverityHigh    Severity = "HIGH"
	SeverityUnknown Severity = "UNKNOWN"
)

// ParseSeverity normalizes a raw severity string from the gateway.
func ParseSeverity(raw string) Severity {
	switch raw {
	case "LOW", "low":
		return SeverityLow
	case "MEDIUM", "medium":
		return SeverityMedium
	case "HIGH", "high":
		return SeverityHigh
	default:
		return SeverityUnknown
	}
}

// AlertTypeIntruder is the gateway alert type treated as push-worthy.
const AlertTypeIntruder = "INTRUSO_RILEVATO"

type CameraInfo struct {
	Connected  bool    `json:"connected"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	FPSSetting int     `json:"fps_setting"`
	FPSActual  float64 `json:"fps_actual"`
	FrameCount int     `json:"frame_count"`
}

type RecognitionStats struct {
	KnownPersons         int     `json:"known_persons"`
	PendingAlerts        int     `json:"pending_alerts"`
	AvgRecognitionTimeMs float64 `json:"avg_recognition_time_ms"`
	CacheSize            int     `json:"cache_size"`
	Threshold            float64 `json:"threshold"`
}

type HealthStats struct {
	UptimeSeconds      int     `json:"uptime_seconds"`
	CameraFailures     int     `json:"camera_failures"`
	RecognitionErrors  int     `json:"recognition_errors"`
	MemoryWarnings     int     `json:"memory_warnings"`
	MemoryUsagePercent float64 `json:"memory_usage_percent"`
}

// SecuritySnapshot is the camera gateway's status at one point in time.
type SecuritySnapshot struct {
	Running     bool             `json:"running"`
	Status      string           `json:"status"`
	Camera      CameraInfo       `json:"camera"`
	Recognition RecognitionStats `json:"recognition"`
	Health      HealthStats      `json:"health"`
}

// AlertRecord is one pending gateway alert. The list is fetched and fully
// replaces the prior list on each poll.
type AlertRecord struct {
	ID         string   `json:"id"`
	Timestamp  string   `json:"timestamp"`
	Type       string   `json:"type"`
	Message    string   `json:"message"`
	Confidence float64  `json:"confidence"`
	Quality    float64  `json:"quality"`
	Location   []int    `json:"location"`
	Severity   Severity `json:"severity"`
	Area       string   `json:"area,omitempty"`
}

// DetectionRecord is one recent face-recognition event.
type DetectionRecord struct {
	Timestamp   string  `json:"timestamp"`
	Name        string  `json:"name"`
	Confidence  float64 `json:"confidence"`
	AccessLevel string  `json:"access_level"`
	Location    []int   `json:"location"`
	Quality     float64 `json:"quality"`
	IsUnknown   bool    `json:"is_unknown"`
}

// PersonRecord describes one registered identity on the gateway.
type PersonRecord struct {
	Name          string  `json:"name"`
	AccessLevel   string  `json:"access_level"`
	FeaturesCount int     `json:"features_count"`
	ImageCount    int     `json:"image_count"`
	AvgQuality    float64 `json:"avg_quality"`
	AddedAt       string  `json:"added_at"`
	IsComplete    bool    `json:"is_complete"`
}
