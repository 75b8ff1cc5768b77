package entities

import "time"

// FieldState is the fused snapshot of everything the decision and scoring
// functions look at. It is assembled fresh on every report request and never
// persisted; all defaulting for missing upstream data happens in the fusion
// step, so the pure functions can assume every field is populated.
type FieldState struct {
	FarmID           string             `json:"farm_id"`
	SoilMoisturePct  float64            `json:"soil_moisture_pct"` // [0,100]
	TemperatureC     float64            `json:"temperature_c"`
	HumidityPct      float64            `json:"humidity_pct"`
	RainDetected     bool               `json:"rain_detected"`
	RainForecast     bool               `json:"rain_forecast"`
	NDVI             float64            `json:"ndvi"` // [-1,1], 0.5 when unknown
	CropType         string             `json:"crop_type"`
	SoilType         string             `json:"soil_type"`
	GrowthStage      Stage              `json:"growth_stage"`
	Thresholds       MoistureThresholds `json:"thresholds"`
	PumpOn           bool               `json:"pump_on"`
	FieldAreaSqm     float64            `json:"field_area_sqm"`
	SprinklerFlowLpm float64            `json:"sprinkler_flow_lpm"`
	ObservedAt       time.Time          `json:"observed_at"`
}
