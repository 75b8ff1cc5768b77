package entities

// Action is what the pump should do right now.
type Action string

const (
	ActionStart Action = "START"
	ActionStop  Action = "STOP"
	ActionDelay Action = "DELAY"
)

// Priority ranks how urgently the action should be applied.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// IrrigationDecision is the outcome of the rule cascade for one field state.
// Reason always interpolates the numbers the rule fired on, so the dashboard
// can show why without re-deriving anything.
type IrrigationDecision struct {
	Action                Action   `json:"action"`
	Priority              Priority `json:"priority"`
	WaterQuantityLiters   float64  `json:"water_quantity_liters"`
	IrrigationTimeMinutes int      `json:"irrigation_time_minutes"`
	DelayHours            int      `json:"delay_hours"`
	Reason                string   `json:"reason"`
}
