package intelligence

import "math"

// Base soil drying rate in moisture points per hour before the
// evapotranspiration adjustment.
const baseDryingRatePctPerHour = 1.5

// DryingHours estimates how many hours until soil moisture falls from current
// to target, given temperature and humidity. Hotter and drier air dries soil
// faster. Returns 0 when the target is already reached, otherwise at least 1.
func DryingHours(currentPct, targetPct, tempC, humidityPct float64) int {
	gap := currentPct - targetPct
	if gap <= 0 {
		return 0
	}
	etFactor := (tempC / 30) * ((100 - humidityPct) / 50)
	if etFactor < 0.3 {
		etFactor = 0.3
	}
	rate := baseDryingRatePctPerHour * etFactor
	hours := int(math.Ceil(gap / rate))
	if hours < 1 {
		hours = 1
	}
	return hours
}
