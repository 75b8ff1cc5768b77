package entities

import "fmt"

// Stage is the crop lifecycle phase that selects the active moisture thresholds.
type Stage string

const (
	StageGermination Stage = "germination"
	StageSeedling    Stage = "seedling"
	StageVegetative  Stage = "vegetative"
	StageFlowering   Stage = "flowering"
	StageFruiting    Stage = "fruiting"
	StageMaturity    Stage = "maturity"
	StageHarvest     Stage = "harvest"
)

// MoistureThresholds are the soil-moisture bounds (percent) active for a growth stage.
// Invariant: 0 <= CriticalLow < Min < Max <= 100.
type MoistureThresholds struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	CriticalLow float64 `json:"critical_low"`
}

// Validate rejects threshold sets that break the ordering invariant. Malformed
// sets are refused at config-write time so the decision functions can assume
// a well-formed band.
func (t MoistureThresholds) Validate() error {
	if t.CriticalLow < 0 || t.Max > 100 {
		return fmt.Errorf("thresholds out of [0,100]: critical_low=%.1f max=%.1f", t.CriticalLow, t.Max)
	}
	if !(t.CriticalLow < t.Min && t.Min < t.Max) {
		return fmt.Errorf("thresholds not ordered: critical_low=%.1f min=%.1f max=%.1f", t.CriticalLow, t.Min, t.Max)
	}
	return nil
}
