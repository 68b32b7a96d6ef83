// Package alert decides whether decoded remote state is an alert condition.
// All functions are pure; thresholds live server-side.
package alert

import "github.com/alertify/agent/internal/model"

// IsSmokeAlert is a passthrough of the bridge-reported flag. The agent does
// no independent thresholding on sensor values.
func IsSmokeAlert(reading model.SensorReading) bool {
	return reading.IsAlert
}

// HasPendingAlerts reports whether the gateway returned any alert at all.
func HasPendingAlerts(alerts []model.AlertRecord) bool {
	return len(alerts) > 0
}

// IntruderSummary condenses the push-worthy subset of a gateway alert list.
type IntruderSummary struct {
	Count   int
	Message string
	Area    string
}

// SummarizeIntruders extracts intruder-detected alerts from the full list.
// The returned message and area come from the most recent matching alert,
// which the gateway places first.
func SummarizeIntruders(alerts []model.AlertRecord) (IntruderSummary, bool) {
	summary := IntruderSummary{}
	for _, a := range alerts {
		if a.Type != model.AlertTypeIntruder {
			continue
		}
		if summary.Count == 0 {
			summary.Message = a.Message
			summary.Area = a.Area
			if summary.Message == "" {
				summary.Message = "Intruder detected"
			}
			if summary.Area == "" {
				summary.Area = "unknown area"
			}
		}
		summary.Count++
	}
	return summary, summary.Count > 0
}
