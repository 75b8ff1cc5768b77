package intelligence

import (
	"math"

	"github.com/agrifog/agrimind/internal/model/entities"
)

// Baseline flood-irrigation reference and cost constants.
const (
	floodBaselineLPerSqmDay = 6.0
	costPerLiterINR         = 0.05
)

// WaterSavings compares the farm's actual water usage over the stats period
// against a flood-irrigation baseline for the same field area. Never negative:
// a farm using more than the baseline reports zero savings, not debt.
func WaterSavings(fs entities.FieldState, stats entities.UsageStats) entities.WaterSavings {
	days := stats.DaysPeriod
	if days <= 0 {
		days = 7
	}
	baseline := fs.FieldAreaSqm * floodBaselineLPerSqmDay * float64(days)
	saved := math.Max(0, baseline-stats.TotalLitersUsed)

	pct := 0.0
	if baseline > 0 {
		pct = saved / baseline * 100
	}

	rating := "Needs Improvement"
	switch {
	case pct > 50:
		rating = "Excellent"
	case pct > 30:
		rating = "Good"
	case pct > 10:
		rating = "Fair"
	}

	return entities.WaterSavings{
		SavingPercent:    math.Round(pct*10) / 10,
		LitersPerDay:     math.Round(saved / float64(days)),
		TotalSavedLiters: math.Round(saved),
		CostSavedINR:     math.Round(saved*costPerLiterINR*100) / 100,
		EfficiencyRating: rating,
	}
}
