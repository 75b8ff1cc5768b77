package intelligence

import (
	"fmt"
	"math"

	"github.com/agrifog/agrimind/internal/model/entities"
)

// InvalidReadingError is raised when a pure function receives a value no real
// sensor can produce (NaN, Inf, moisture outside [0,100]). The direct caller
// is expected to substitute a default and retry; nothing above the report
// composer ever sees it.
type InvalidReadingError struct {
	Field string
	Value float64
}

func (e *InvalidReadingError) Error() string {
	return fmt.Sprintf("invalid reading: %s=%v", e.Field, e.Value)
}

// ValidateState checks the numeric inputs the scoring functions rely on.
func ValidateState(fs entities.FieldState) error {
	checks := []struct {
		name string
		v    float64
		min  float64
		max  float64
	}{
		{"soil_moisture_pct", fs.SoilMoisturePct, 0, 100},
		{"temperature_c", fs.TemperatureC, -90, 70},
		{"humidity_pct", fs.HumidityPct, 0, 100},
		{"ndvi", fs.NDVI, -1, 1},
	}
	for _, c := range checks {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) || c.v < c.min || c.v > c.max {
			return &InvalidReadingError{Field: c.name, Value: c.v}
		}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
