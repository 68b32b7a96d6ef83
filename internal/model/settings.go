package model

import "time"

// Settings is the small persisted configuration surface of the agent.
// Everything else is derived from the latest successful poll.
type Settings struct {
	SmokeBaseURL       string     `json:"smoke_base_url"`
	SecurityBaseURL    string     `json:"security_base_url"`
	SmokeMonitoring    bool       `json:"smoke_monitoring"`
	SecurityMonitoring bool       `json:"security_monitoring"`
	LastSmokeCheckAt   *time.Time `json:"last_smoke_check_at,omitempty"`
	LastCameraCheckAt  *time.Time `json:"last_camera_check_at,omitempty"`
	SmokeAlertCount    int        `json:"smoke_alert_count"`
	CameraAlertCount   int        `json:"camera_alert_count"`
}

// SettingsPatch carries partial updates; nil fields are left unchanged.
type SettingsPatch struct {
	SmokeBaseURL       *string `json:"smoke_base_url,omitempty"`
	SecurityBaseURL    *string `json:"security_base_url,omitempty"`
	SmokeMonitoring    *bool   `json:"smoke_monitoring,omitempty"`
	SecurityMonitoring *bool   `json:"security_monitoring,omitempty"`
}
