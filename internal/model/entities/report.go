package entities

import "time"

// Report sourcing states.
const (
	SourceComputed      = "computed"
	SourceCache         = "cache"
	SourceErrorFallback = "error_fallback"
)

// StressRisk is the crop-stress block of a report.
type StressRisk struct {
	Score       int    `json:"score"` // [0,100]
	Level       string `json:"level"` // low | moderate | high | critical
	Description string `json:"description"`
}

// IrrigationTimer says when the field will next need water.
type IrrigationTimer struct {
	HoursUntilNeeded int       `json:"hours_until_needed"`
	EstimatedTime    time.Time `json:"estimated_time"`
}

// SystemHealth summarizes the anomaly checks for one report.
type SystemHealth struct {
	AlertCount    int            `json:"alert_count"`
	Alerts        []AnomalyAlert `json:"alerts"`
	OverallStatus string         `json:"overall_status"` // healthy | warning | critical
}

// WaterSavings compares actual usage against a flood-irrigation baseline.
type WaterSavings struct {
	SavingPercent    float64 `json:"saving_percent"` // [0,100]
	LitersPerDay     float64 `json:"liters_per_day"`
	TotalSavedLiters float64 `json:"total_saved_liters"`
	CostSavedINR     float64 `json:"cost_saved_inr"`
	EfficiencyRating string  `json:"efficiency_rating"`
}

// NDVIInsights is the vegetation-index block of a report.
type NDVIInsights struct {
	CurrentNDVI      float64 `json:"current_ndvi"`
	Trend            string  `json:"trend"` // rising | stable | falling
	TrendDescription string  `json:"trend_description"`
}

// Report is the full intelligence report returned to callers. Every failure
// path still resolves to a valid Report; Source and Stale communicate degraded
// confidence instead of an error screen.
type Report struct {
	ReportID             string             `json:"report_id"`
	FarmID               string             `json:"farm_id"`
	Timestamp            time.Time          `json:"timestamp"`
	IrrigationDecision   IrrigationDecision `json:"irrigation_decision"`
	CropStressRisk       StressRisk         `json:"crop_stress_risk"`
	NextIrrigationTimer  IrrigationTimer    `json:"next_irrigation_timer"`
	SystemHealth         SystemHealth       `json:"system_health"`
	WaterSavingPotential WaterSavings       `json:"water_saving_potential"`
	NDVIInsights         NDVIInsights       `json:"ndvi_insights"`
	FieldSnapshot        FieldState         `json:"field_snapshot"`
	Source               string             `json:"source"`
	Stale                bool               `json:"stale,omitempty"`
}

// UsageStats is the aggregate the irrigation log supplies for the water
// savings calculation.
type UsageStats struct {
	TotalLitersUsed float64 `json:"total_liters_used"`
	IrrigationCount int     `json:"irrigation_count"`
	DaysPeriod      int     `json:"days_period"`
}
