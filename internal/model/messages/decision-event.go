package messages

import "time"

// IrrigationDecisionEvent is published after a report is computed to record
// WHY/WHAT was decided for a farm. Downstream consumers (event log, dashboard
// relay) treat it as fire-and-forget.
type IrrigationDecisionEvent struct {
	FarmID      string    `json:"farm_id"`
	Action      string    `json:"action"`
	Priority    string    `json:"priority"`
	WaterLiters float64   `json:"water_liters"`
	DurationMin int       `json:"duration_min"`
	DelayHours  int       `json:"delay_hours"`
	Reason      string    `json:"reason"`
	StressScore int       `json:"stress_score"`
	Timestamp   time.Time `json:"timestamp"`
}

// IrrigationEvent is an applied-irrigation record appended to the irrigation
// log once a START decision has been acted on.
type IrrigationEvent struct {
	FarmID      string    `json:"farm_id"`
	Liters      float64   `json:"liters"`
	DurationMin int       `json:"duration_min"`
	Timestamp   time.Time `json:"timestamp"`
}
