package intelligence

import (
	"fmt"
	"math"

	"github.com/agrifog/agrimind/internal/model/entities"
)

// Sub-score weights. They must sum to 1.
const (
	weightMoisture    = 0.40
	weightTemperature = 0.20
	weightNDVI        = 0.25
	weightHumidity    = 0.15
)

// StressScore computes the crop-stress risk in [0,100] as a weighted sum of
// four independent sub-scores. Deterministic, no I/O.
func StressScore(fs entities.FieldState) int {
	total := weightMoisture*moistureStress(fs.SoilMoisturePct, fs.Thresholds) +
		weightTemperature*temperatureStress(fs.TemperatureC) +
		weightNDVI*ndviStress(fs.NDVI) +
		weightHumidity*humidityStress(fs.HumidityPct)
	return int(clamp(math.Round(total), 0, 100))
}

// StressRiskOf wraps the score with the level label and description used in
// the report.
func StressRiskOf(fs entities.FieldState) entities.StressRisk {
	score := StressScore(fs)
	var level, desc string
	switch {
	case score < 25:
		level = "low"
		desc = "Crop is in good condition, no immediate stress factors."
	case score < 50:
		level = "moderate"
		desc = "Some stress indicators present, monitor moisture and weather."
	case score < 75:
		level = "high"
		desc = "Crop is under significant stress, intervention recommended."
	default:
		level = "critical"
		desc = "Severe stress detected, immediate action required."
	}
	return entities.StressRisk{
		Score:       score,
		Level:       level,
		Description: fmt.Sprintf("%s (moisture %.1f%%, temp %.1f°C, NDVI %.2f)", desc, fs.SoilMoisturePct, fs.TemperatureC, fs.NDVI),
	}
}

// moistureStress: 100 below the critical floor, 100→50 ramp up to min, 0 in the
// comfort band, 0→40 ramp for over-moisture capped at a 20-point excess.
func moistureStress(m float64, th entities.MoistureThresholds) float64 {
	switch {
	case m < th.CriticalLow:
		return 100
	case m < th.Min:
		span := th.Min - th.CriticalLow
		if span <= 0 {
			return 100
		}
		return 50 + 50*(th.Min-m)/span
	case m > th.Max:
		excess := math.Min(m-th.Max, 20)
		return 2 * excess
	default:
		return 0
	}
}

func temperatureStress(t float64) float64 {
	switch {
	case t >= 42:
		return 100
	case t >= 38:
		return 60 + 40*(t-38)/4
	case t >= 35:
		return 60 * (t - 35) / 3
	case t < 5:
		return 80
	case t < 10:
		return 30
	default:
		return 0
	}
}

func ndviStress(n float64) float64 {
	switch {
	case n < 0.2:
		return 100
	case n < 0.3:
		return 70 + 30*(0.3-n)/0.1
	case n < 0.5:
		return 20 + 50*(0.5-n)/0.2
	case n < 0.7:
		// healthy but not lush: small penalty
		return 20 * (0.7 - n) / 0.2
	default:
		return 0
	}
}

func humidityStress(h float64) float64 {
	switch {
	case h < 20:
		return 80
	case h < 30:
		return 40
	case h > 90:
		// disease-risk proxy
		return 30
	default:
		return 0
	}
}
