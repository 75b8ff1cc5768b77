package intelligence

import (
	"testing"
	"time"

	"github.com/agrifog/agrimind/internal/model/entities"
	"github.com/agrifog/agrimind/internal/model/messages"
)

func readings(moistures ...float64) []messages.SensorData {
	out := make([]messages.SensorData, len(moistures))
	ts := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	for i, m := range moistures {
		out[i] = messages.SensorData{FarmID: "farm1", SoilMoisturePct: m, Timestamp: ts.Add(time.Duration(i) * time.Minute)}
	}
	return out
}

func alertTypes(alerts []entities.AnomalyAlert) []entities.AlertType {
	out := make([]entities.AlertType, len(alerts))
	for i, a := range alerts {
		out[i] = a.Type
	}
	return out
}

func TestDetectAnomaliesHealthy(t *testing.T) {
	alerts := DetectAnomalies(healthyState(), readings(54, 54.5, 55))
	if len(alerts) != 0 {
		t.Fatalf("healthy field raised %v", alertTypes(alerts))
	}
}

func TestDetectAnomaliesPumpIneffective(t *testing.T) {
	fs := healthyState()
	fs.PumpOn = true
	alerts := DetectAnomalies(fs, readings(40, 40.5, 41))
	if len(alerts) != 1 || alerts[0].Type != entities.AlertPumpIneffective {
		t.Fatalf("got %v, want pump_ineffective", alertTypes(alerts))
	}
	if alerts[0].Severity != entities.SeverityHigh {
		t.Fatalf("severity %s, want high", alerts[0].Severity)
	}
}

func TestDetectAnomaliesPumpRisingIsFine(t *testing.T) {
	fs := healthyState()
	fs.PumpOn = true
	if alerts := DetectAnomalies(fs, readings(40, 42, 44)); len(alerts) != 0 {
		t.Fatalf("rising moisture flagged: %v", alertTypes(alerts))
	}
}

func TestDetectAnomaliesPumpNeedsFullWindow(t *testing.T) {
	fs := healthyState()
	fs.PumpOn = true
	if alerts := DetectAnomalies(fs, readings(40, 40.1)); len(alerts) != 0 {
		t.Fatalf("short history flagged: %v", alertTypes(alerts))
	}
}

func TestDetectAnomaliesSensorFailure(t *testing.T) {
	fs := healthyState()
	fs.TemperatureC = 0
	fs.HumidityPct = 0
	alerts := DetectAnomalies(fs, nil)
	found := false
	for _, a := range alerts {
		if a.Type == entities.AlertSensorFailure {
			found = true
			if a.Severity != entities.SeverityMedium {
				t.Fatalf("sensor failure severity %s, want medium", a.Severity)
			}
		}
	}
	if !found {
		t.Fatalf("zeroed sensors not flagged: %v", alertTypes(alerts))
	}
}

func TestDetectAnomaliesWaterlogging(t *testing.T) {
	fs := healthyState()
	fs.SoilMoisturePct = 96
	alerts := DetectAnomalies(fs, nil)
	if len(alerts) != 1 || alerts[0].Type != entities.AlertWaterlogging {
		t.Fatalf("got %v, want waterlogging", alertTypes(alerts))
	}
}

func TestDetectAnomaliesNDVIConflict(t *testing.T) {
	fs := healthyState()
	fs.SoilMoisturePct = 65
	fs.NDVI = 0.2
	alerts := DetectAnomalies(fs, nil)
	if len(alerts) != 1 || alerts[0].Type != entities.AlertNDVIConflict {
		t.Fatalf("got %v, want ndvi_moisture_conflict", alertTypes(alerts))
	}
}

func TestDetectAnomaliesHeatStress(t *testing.T) {
	fs := healthyState()
	fs.TemperatureC = 43
	alerts := DetectAnomalies(fs, nil)
	if len(alerts) != 1 || alerts[0].Type != entities.AlertHeatStress {
		t.Fatalf("got %v, want heat_stress", alertTypes(alerts))
	}
}

func TestDetectAnomaliesFrostRisk(t *testing.T) {
	fs := healthyState()
	fs.TemperatureC = 1
	alerts := DetectAnomalies(fs, nil)
	if len(alerts) != 1 || alerts[0].Type != entities.AlertFrostRisk {
		t.Fatalf("got %v, want frost_risk", alertTypes(alerts))
	}
}

func TestDetectAnomaliesMultipleDeterministicOrder(t *testing.T) {
	fs := healthyState()
	fs.SoilMoisturePct = 96
	fs.TemperatureC = 43
	first := DetectAnomalies(fs, nil)
	if len(first) != 2 {
		t.Fatalf("got %v, want waterlogging+heat", alertTypes(first))
	}
	if first[0].Type != entities.AlertWaterlogging || first[1].Type != entities.AlertHeatStress {
		t.Fatalf("order %v, want [waterlogging heat_stress]", alertTypes(first))
	}
	for i := 0; i < 3; i++ {
		again := DetectAnomalies(fs, nil)
		if len(again) != len(first) || again[0].Type != first[0].Type || again[1].Type != first[1].Type {
			t.Fatalf("order changed between runs: %v vs %v", alertTypes(first), alertTypes(again))
		}
	}
}

func TestHealthOf(t *testing.T) {
	if h := HealthOf(nil); h.OverallStatus != "healthy" || h.AlertCount != 0 {
		t.Fatalf("no alerts: %+v", h)
	}

	medium := []entities.AnomalyAlert{{Type: entities.AlertSensorFailure, Severity: entities.SeverityMedium}}
	if h := HealthOf(medium); h.OverallStatus != "warning" {
		t.Fatalf("medium alert: status %s, want warning", h.OverallStatus)
	}

	mixed := append(medium, entities.AnomalyAlert{Type: entities.AlertHeatStress, Severity: entities.SeverityHigh})
	h := HealthOf(mixed)
	if h.OverallStatus != "critical" || h.AlertCount != 2 {
		t.Fatalf("high alert present: %+v", h)
	}
}
