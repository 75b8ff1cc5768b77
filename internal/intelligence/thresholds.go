// Package intelligence holds the pure decision core: threshold resolution,
// crop-stress scoring, the irrigation rule cascade, anomaly detection and the
// water-savings estimate. Everything here is deterministic and side-effect
// free; absence handling lives in the fusion layer, not here.
package intelligence

import (
	"github.com/agrifog/agrimind/internal/model/entities"
)

// defaultThresholds are the stock per-stage moisture bands (percent).
var defaultThresholds = map[entities.Stage]entities.MoistureThresholds{
	entities.StageGermination: {CriticalLow: 35, Min: 45, Max: 75},
	entities.StageSeedling:    {CriticalLow: 30, Min: 42, Max: 72},
	entities.StageVegetative:  {CriticalLow: 25, Min: 40, Max: 70},
	entities.StageFlowering:   {CriticalLow: 30, Min: 45, Max: 75},
	entities.StageFruiting:    {CriticalLow: 30, Min: 45, Max: 70},
	entities.StageMaturity:    {CriticalLow: 20, Min: 30, Max: 60},
	entities.StageHarvest:     {CriticalLow: 15, Min: 25, Max: 50},
}

// ResolveThresholds looks up the moisture band for a growth stage, preferring
// a per-farm override. An unrecognized stage falls back to the vegetative
// band: lenient by intent, a misspelled stage must not block a report.
func ResolveThresholds(stage entities.Stage, overrides map[entities.Stage]entities.MoistureThresholds) entities.MoistureThresholds {
	if th, ok := overrides[stage]; ok {
		return th
	}
	if th, ok := defaultThresholds[stage]; ok {
		return th
	}
	return defaultThresholds[entities.StageVegetative]
}
