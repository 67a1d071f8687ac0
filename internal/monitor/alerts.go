package monitor

import (
	"fmt"
	"time"
)

// AlertLevel classifies a configuration alert.
type AlertLevel string

const (
	AlertHigh     AlertLevel = "HIGH"
	AlertCritical AlertLevel = "CRITICAL"
)

// Alert flags a dangerous security configuration state.
type Alert struct {
	Level     AlertLevel `json:"level"`
	Message   string     `json:"message"`
	Timestamp time.Time  `json:"timestamp"`
}

// SecurityState is the configuration snapshot alerts are evaluated against.
type SecurityState struct {
	MonitoringActive bool
	PatchGeneration  bool
	ActiveModel      string
	ExpectedModel    string
}

// EvaluateAlerts checks the state for disabled monitoring, disabled patch
// generation, and an unexpected active model.
func EvaluateAlerts(state SecurityState, now time.Time) []Alert {
	alerts := make([]Alert, 0)

	if !state.MonitoringActive {
		alerts = append(alerts, Alert{
			Level:     AlertCritical,
			Message:   "Security monitoring is disabled",
			Timestamp: now,
		})
	}

	if !state.PatchGeneration {
		alerts = append(alerts, Alert{
			Level:     AlertHigh,
			Message:   "Automatic patch generation is disabled",
			Timestamp: now,
		})
	}

	if state.ActiveModel != state.ExpectedModel {
		alerts = append(alerts, Alert{
			Level:     AlertCritical,
			Message:   fmt.Sprintf("Security model has been changed from %s", state.ExpectedModel),
			Timestamp: now,
		})
	}

	return alerts
}
