package intelligence

import (
	"testing"

	"github.com/agrifog/agrimind/internal/model/entities"
)

func TestWaterSavingsAgainstBaseline(t *testing.T) {
	fs := healthyState()
	fs.FieldAreaSqm = 1000
	stats := entities.UsageStats{TotalLitersUsed: 10000, IrrigationCount: 12, DaysPeriod: 7}

	ws := WaterSavings(fs, stats)
	// baseline 1000 * 6 * 7 = 42000, saved 32000
	if ws.TotalSavedLiters != 32000 {
		t.Fatalf("saved %.0f L, want 32000", ws.TotalSavedLiters)
	}
	if ws.SavingPercent != 76.2 {
		t.Fatalf("saving %.1f%%, want 76.2", ws.SavingPercent)
	}
	if ws.LitersPerDay != 4571 {
		t.Fatalf("per day %.0f L, want 4571", ws.LitersPerDay)
	}
	if ws.CostSavedINR != 1600 {
		t.Fatalf("cost saved %.2f, want 1600", ws.CostSavedINR)
	}
	if ws.EfficiencyRating != "Excellent" {
		t.Fatalf("rating %q, want Excellent", ws.EfficiencyRating)
	}
}

func TestWaterSavingsNeverNegative(t *testing.T) {
	fs := healthyState()
	fs.FieldAreaSqm = 100
	stats := entities.UsageStats{TotalLitersUsed: 999999, DaysPeriod: 7}

	ws := WaterSavings(fs, stats)
	if ws.TotalSavedLiters != 0 || ws.SavingPercent != 0 {
		t.Fatalf("overuse produced savings: %+v", ws)
	}
	if ws.EfficiencyRating != "Needs Improvement" {
		t.Fatalf("rating %q, want Needs Improvement", ws.EfficiencyRating)
	}
}

func TestWaterSavingsDefaultsEmptyPeriod(t *testing.T) {
	fs := healthyState()
	fs.FieldAreaSqm = 1000
	ws := WaterSavings(fs, entities.UsageStats{})
	// no recorded usage over the default 7 days: full baseline saved
	if ws.SavingPercent != 100 {
		t.Fatalf("no usage: saving %.1f%%, want 100", ws.SavingPercent)
	}
	if ws.LitersPerDay != 6000 {
		t.Fatalf("per day %.0f L, want 6000", ws.LitersPerDay)
	}
}

func TestWaterSavingsZeroArea(t *testing.T) {
	fs := healthyState()
	fs.FieldAreaSqm = 0
	ws := WaterSavings(fs, entities.UsageStats{DaysPeriod: 7})
	if ws.SavingPercent != 0 || ws.TotalSavedLiters != 0 {
		t.Fatalf("zero area: %+v", ws)
	}
}

func TestWaterSavingsRatingBands(t *testing.T) {
	fs := healthyState()
	fs.FieldAreaSqm = 1000
	cases := []struct {
		used   float64
		rating string
	}{
		{42000, "Needs Improvement"}, // 0%
		{35000, "Fair"},              // ~16.7%
		{27000, "Good"},              // ~35.7%
		{18000, "Excellent"},         // ~57.1%
	}
	for _, c := range cases {
		ws := WaterSavings(fs, entities.UsageStats{TotalLitersUsed: c.used, DaysPeriod: 7})
		if ws.EfficiencyRating != c.rating {
			t.Errorf("used %.0f: rating %q (%.1f%%), want %q", c.used, ws.EfficiencyRating, ws.SavingPercent, c.rating)
		}
	}
}
