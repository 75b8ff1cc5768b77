package intelligence

import (
	"fmt"
	"math"

	"github.com/agrifog/agrimind/internal/model/entities"
)

// decisionRule pairs a guard with its outcome. The cascade is an ordered
// table: the first rule whose guard fires wins, and that ordering is a
// correctness contract (rain beats everything, critical deficit beats normal
// deficit, and so on).
type decisionRule struct {
	name string
	when func(entities.FieldState) bool
	then func(entities.FieldState) entities.IrrigationDecision
}

var decisionRules = []decisionRule{
	{
		name: "rain-detected",
		when: func(fs entities.FieldState) bool { return fs.RainDetected },
		then: func(fs entities.FieldState) entities.IrrigationDecision {
			return decision(fs, entities.ActionStop, entities.PriorityLow, 0, 6,
				fmt.Sprintf("Rain detected on field; irrigation stopped for 6h (moisture %.1f%%)", fs.SoilMoisturePct))
		},
	},
	{
		name: "rain-forecast",
		when: func(fs entities.FieldState) bool { return fs.RainForecast },
		then: func(fs entities.FieldState) entities.IrrigationDecision {
			return decision(fs, entities.ActionDelay, entities.PriorityLow, 0, 4,
				fmt.Sprintf("Rain forecast; delaying irrigation 4h (moisture %.1f%%)", fs.SoilMoisturePct))
		},
	},
	{
		name: "critical-deficit",
		when: func(fs entities.FieldState) bool { return fs.SoilMoisturePct < fs.Thresholds.CriticalLow },
		then: func(fs entities.FieldState) entities.IrrigationDecision {
			liters := deficitLiters(fs, 0.6)
			return decision(fs, entities.ActionStart, entities.PriorityHigh, liters, 0,
				fmt.Sprintf("Moisture %.1f%% below critical %.1f%%; starting irrigation with %.0f L",
					fs.SoilMoisturePct, fs.Thresholds.CriticalLow, liters))
		},
	},
	{
		name: "deficit",
		when: func(fs entities.FieldState) bool { return fs.SoilMoisturePct < fs.Thresholds.Min },
		then: func(fs entities.FieldState) entities.IrrigationDecision {
			// NDVI cross-validates the soil signal: weak vegetation bumps priority.
			prio := entities.PriorityMedium
			if fs.NDVI < 0.4 {
				prio = entities.PriorityHigh
			}
			liters := deficitLiters(fs, 0.5)
			return decision(fs, entities.ActionStart, prio, liters, 0,
				fmt.Sprintf("Moisture %.1f%% below minimum %.1f%% (NDVI %.2f); starting irrigation with %.0f L",
					fs.SoilMoisturePct, fs.Thresholds.Min, fs.NDVI, liters))
		},
	},
	{
		name: "adequate",
		when: func(fs entities.FieldState) bool { return fs.SoilMoisturePct <= fs.Thresholds.Max },
		then: func(fs entities.FieldState) entities.IrrigationDecision {
			if fs.NDVI < 0.3 {
				return decision(fs, entities.ActionDelay, entities.PriorityMedium, 0, 2,
					fmt.Sprintf("Moisture adequate (%.1f%%) but NDVI %.2f is low; recheck in 2h, possible nutrient issue",
						fs.SoilMoisturePct, fs.NDVI))
			}
			h := DryingHours(fs.SoilMoisturePct, fs.Thresholds.Min, fs.TemperatureC, fs.HumidityPct)
			return decision(fs, entities.ActionDelay, entities.PriorityLow, 0, h,
				fmt.Sprintf("Moisture %.1f%% within [%.1f,%.1f]; next irrigation in ~%dh",
					fs.SoilMoisturePct, fs.Thresholds.Min, fs.Thresholds.Max, h))
		},
	},
	{
		name: "over-watered",
		when: func(entities.FieldState) bool { return true },
		then: func(fs entities.FieldState) entities.IrrigationDecision {
			return decision(fs, entities.ActionStop, entities.PriorityLow, 0, 8,
				fmt.Sprintf("Moisture %.1f%% above maximum %.1f%%; stopping irrigation for 8h",
					fs.SoilMoisturePct, fs.Thresholds.Max))
		},
	},
}

// Decide runs the rule cascade over a fused field state. Pure and idempotent:
// identical input yields an identical decision.
func Decide(fs entities.FieldState) entities.IrrigationDecision {
	for _, r := range decisionRules {
		if r.when(fs) {
			return r.then(fs)
		}
	}
	// unreachable: the last rule is a catch-all
	return entities.IrrigationDecision{Action: entities.ActionDelay, Priority: entities.PriorityLow, Reason: "no rule matched"}
}

// deficitLiters converts the moisture gap to liters for the field area.
// Clamped at zero so a malformed threshold set cannot produce a negative dose.
func deficitLiters(fs entities.FieldState, coeff float64) float64 {
	gap := fs.Thresholds.Min - fs.SoilMoisturePct
	if gap < 0 {
		gap = 0
	}
	return math.Round(gap / 100 * fs.FieldAreaSqm * coeff)
}

func decision(fs entities.FieldState, action entities.Action, prio entities.Priority, liters float64, delayH int, reason string) entities.IrrigationDecision {
	minutes := 0
	if liters > 0 && fs.SprinklerFlowLpm > 0 {
		minutes = int(math.Round(liters / fs.SprinklerFlowLpm))
		if minutes < 1 {
			minutes = 1
		}
	}
	return entities.IrrigationDecision{
		Action:                action,
		Priority:              prio,
		WaterQuantityLiters:   liters,
		IrrigationTimeMinutes: minutes,
		DelayHours:            delayH,
		Reason:                reason,
	}
}
