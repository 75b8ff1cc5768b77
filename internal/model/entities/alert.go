package entities

import "time"

// AlertType identifies which anomaly check fired.
type AlertType string

const (
	AlertPumpIneffective AlertType = "pump_ineffective"
	AlertSensorFailure   AlertType = "sensor_failure"
	AlertWaterlogging    AlertType = "waterlogging"
	AlertNDVIConflict    AlertType = "ndvi_moisture_conflict"
	AlertHeatStress      AlertType = "heat_stress"
	AlertFrostRisk       AlertType = "frost_risk"
)

// Severity grades an alert.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// AnomalyAlert is recomputed on every report; there is no acknowledgment or
// lifecycle state here, that belongs to the UI.
type AnomalyAlert struct {
	Type      AlertType `json:"type"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
