package intelligence

import (
	"fmt"

	"github.com/agrifog/agrimind/internal/model/entities"
)

// Trend is called on NDVI values when their movement is smaller than satellite
// observation noise.
const ndviTrendNoise = 0.05

// NDVITrend classifies the movement of recent NDVI observations, oldest
// first. Fewer than two samples reads as stable.
func NDVITrend(current float64, recent []float64) entities.NDVIInsights {
	trend := "stable"
	desc := "Vegetation index is holding steady."
	if len(recent) >= 2 {
		delta := recent[len(recent)-1] - recent[0]
		switch {
		case delta > ndviTrendNoise:
			trend = "rising"
			desc = fmt.Sprintf("Vegetation health improving (NDVI +%.2f over %d observations).", delta, len(recent))
		case delta < -ndviTrendNoise:
			trend = "falling"
			desc = fmt.Sprintf("Vegetation health declining (NDVI %.2f over %d observations); investigate stress causes.", delta, len(recent))
		}
	}
	return entities.NDVIInsights{
		CurrentNDVI:      current,
		Trend:            trend,
		TrendDescription: desc,
	}
}
