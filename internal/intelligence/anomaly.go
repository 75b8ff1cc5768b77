package intelligence

import (
	"fmt"
	"time"

	"github.com/agrifog/agrimind/internal/model/entities"
	"github.com/agrifog/agrimind/internal/model/messages"
)

// Pump check window and the moisture rise (points) below which a running pump
// is considered ineffective. Fixed values carried over from the original
// heuristics; they are not tuned per soil type and may false-positive on
// slow-draining clay.
const (
	pumpCheckWindow  = 3
	pumpMinRisePct   = 2.0
	waterloggedPct   = 95.0
	heatStressTempC  = 42.0
	frostRiskTempC   = 2.0
	ndviConflictNDVI = 0.25
	ndviConflictPct  = 60.0
)

// DetectAnomalies runs every check over the current snapshot and the recent
// history window and returns zero or one alert per check. All checks always
// run; the returned order is fixed (pump, sensor, waterlogging, NDVI conflict,
// heat, frost) so callers get deterministic output.
func DetectAnomalies(fs entities.FieldState, history []messages.SensorData) []entities.AnomalyAlert {
	now := fs.ObservedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}
	alerts := make([]entities.AnomalyAlert, 0, 3)

	if fs.PumpOn && len(history) >= pumpCheckWindow {
		last := history[len(history)-1].SoilMoisturePct
		first := history[len(history)-pumpCheckWindow].SoilMoisturePct
		if last-first < pumpMinRisePct {
			alerts = append(alerts, alert(entities.AlertPumpIneffective, entities.SeverityHigh, now,
				"Pump is running but soil moisture rose only %.1f points over the last %d readings; possible leak or pump failure",
				last-first, pumpCheckWindow))
		}
	}

	if fs.TemperatureC == 0 && fs.HumidityPct == 0 {
		alerts = append(alerts, alert(entities.AlertSensorFailure, entities.SeverityMedium, now,
			"Temperature and humidity both read exactly zero; sensor glitch likely"))
	}

	if fs.SoilMoisturePct > waterloggedPct {
		alerts = append(alerts, alert(entities.AlertWaterlogging, entities.SeverityHigh, now,
			"Soil moisture %.1f%% indicates waterlogging; check drainage", fs.SoilMoisturePct))
	}

	if fs.SoilMoisturePct > ndviConflictPct && fs.NDVI < ndviConflictNDVI {
		alerts = append(alerts, alert(entities.AlertNDVIConflict, entities.SeverityMedium, now,
			"Soil moisture is high (%.1f%%) but NDVI %.2f is poor; possible disease or pest issue", fs.SoilMoisturePct, fs.NDVI))
	}

	if fs.TemperatureC > heatStressTempC {
		alerts = append(alerts, alert(entities.AlertHeatStress, entities.SeverityHigh, now,
			"Temperature %.1f°C exceeds heat-stress limit", fs.TemperatureC))
	}

	if fs.TemperatureC < frostRiskTempC {
		alerts = append(alerts, alert(entities.AlertFrostRisk, entities.SeverityHigh, now,
			"Temperature %.1f°C risks frost damage", fs.TemperatureC))
	}

	return alerts
}

// HealthOf summarizes alerts into the report's system-health block.
func HealthOf(alerts []entities.AnomalyAlert) entities.SystemHealth {
	status := "healthy"
	for _, a := range alerts {
		if a.Severity == entities.SeverityHigh {
			status = "critical"
			break
		}
		status = "warning"
	}
	return entities.SystemHealth{
		AlertCount:    len(alerts),
		Alerts:        alerts,
		OverallStatus: status,
	}
}

func alert(t entities.AlertType, sev entities.Severity, ts time.Time, format string, args ...any) entities.AnomalyAlert {
	return entities.AnomalyAlert{
		Type:      t,
		Severity:  sev,
		Message:   fmt.Sprintf(format, args...),
		Timestamp: ts,
	}
}
