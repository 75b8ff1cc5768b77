package messages

import "time"

// SensorData is the telemetry message published by field gateways on
// sensor/data/{farm} and republished averaged on sensor/aggregated/{farm}.
type SensorData struct {
	FarmID          string    `json:"farm_id"`
	SoilMoisturePct float64   `json:"soil_moisture_pct"`
	TemperatureC    float64   `json:"temperature_c"`
	HumidityPct     float64   `json:"humidity_pct"`
	RainDetected    bool      `json:"rain_detected"`
	RainForecast    bool      `json:"rain_forecast"`
	PumpOn          bool      `json:"pump_on"`
	Aggregated      bool      `json:"aggregated"`
	Timestamp       time.Time `json:"timestamp"`
}
