package entities

import "time"

// CropConfig is the per-farm agronomic configuration. A default record is
// created on first access for an unknown farm; updates go through the config
// store, which validates any threshold overrides before accepting them.
type CropConfig struct {
	FarmID             string                       `json:"farm_id"`
	CropType           string                       `json:"crop_type"` // e.g. "wheat", "rice"
	SoilType           string                       `json:"soil_type"` // e.g. "loam", "clay"
	GrowthStage        Stage                        `json:"growth_stage"`
	FieldAreaSqm       float64                      `json:"field_area_sqm"`
	SprinklerFlowLpm   float64                      `json:"sprinkler_flow_lpm"`
	ThresholdOverrides map[Stage]MoistureThresholds `json:"threshold_overrides,omitempty"`
	UpdatedAt          time.Time                    `json:"updated_at"`
}

// DefaultCropConfig is the record materialized on first read for a farm that
// has never been configured.
func DefaultCropConfig(farmID string) CropConfig {
	return CropConfig{
		FarmID:           farmID,
		CropType:         "wheat",
		SoilType:         "loam",
		GrowthStage:      StageVegetative,
		FieldAreaSqm:     1000,
		SprinklerFlowLpm: 40,
		UpdatedAt:        time.Now().UTC(),
	}
}

// Validate checks the config, including every threshold override band.
func (c CropConfig) Validate() error {
	for stage, th := range c.ThresholdOverrides {
		if err := th.Validate(); err != nil {
			return &InvalidConfigError{FarmID: c.FarmID, Stage: stage, Cause: err}
		}
	}
	return nil
}

// InvalidConfigError is returned when a config write carries a malformed
// threshold override.
type InvalidConfigError struct {
	FarmID string
	Stage  Stage
	Cause  error
}

func (e *InvalidConfigError) Error() string {
	return "invalid crop config for farm " + e.FarmID + " (stage " + string(e.Stage) + "): " + e.Cause.Error()
}

func (e *InvalidConfigError) Unwrap() error { return e.Cause }
