package model

import "time"

// SensorReading is one decoded sample from the smoke/gas sensor bridge.
// Readings are immutable; each poll replaces the previous one wholesale.
type SensorReading struct {
	Time        string  `json:"time"`
	AlertStatus int     `json:"alert_status"`
	SensorValue float64 `json:"sensor_value"`
	IsAlert     bool    `json:"is_alert"`
	AlertText   string  `json:"alert_text"`
}

// SensorHistory is the bulk history response trimmed client-side.
type SensorHistory struct {
	Readings    []SensorReading `json:"readings"`
	AlertsCount int             `json:"alerts_count"`
	FetchedAt   time.Time       `json:"fetched_at"`
}

// HistoryLimit is how many bulk readings the agent retains per poll.
const HistoryLimit = 10
