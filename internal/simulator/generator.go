package simulator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/agrifog/agrimind/internal/model"
)

const (
	// gainPerMin: soil moisture gained per minute while the pump runs, in pct points.
	gainPerMin = 0.6

	// defaultSeedPct: starting moisture if SoilGrids is unreachable.
	defaultSeedPct = 30.0

	// soilGridsURL: fetched once at startup, never per tick.
	soilGridsURL = "https://rest.isric.org/soilgrids/v2.0/properties/query?lat=%f&lon=%f&property=wv0010"

	rainChancePerTick = 0.04
	rainBoostPct      = 4.0
)

// Generator holds the simulated field state and advances it over time.
// Moisture decays while the pump is off and climbs while it is on; temperature
// follows a diurnal wave and humidity drifts inversely with it.
type Generator struct {
	mu          sync.Mutex
	seeded      bool
	last        time.Time
	moisture    float64 // pct 0..100
	decayPerMin float64 // pct points lost per minute while pump off
	raining     bool
	rng         *rand.Rand
	httpClient  *http.Client
}

func NewGenerator(decayPerMin float64) *Generator {
	return &Generator{
		decayPerMin: math.Max(0, decayPerMin),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		httpClient:  &http.Client{Timeout: 8 * time.Second},
	}
}

// SeedFromSoilGrids does a single startup fetch to seed moisture from the
// field's coordinates. Falls back to the default seed on any failure.
func (g *Generator) SeedFromSoilGrids(ctx context.Context, lat, lon float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.seeded {
		return
	}

	seed := defaultSeedPct
	if lat != 0 || lon != 0 {
		if m, err := g.fetchSoilMoisture(ctx, lat, lon); err == nil && m >= 0 {
			seed = m * 100
		}
	}

	g.moisture = clampPct(seed)
	g.last = time.Now().UTC()
	g.seeded = true
}

// Next advances the field state and returns one telemetry reading.
func (g *Generator) Next(farmID string, pumpOn bool) model.SensorData {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UTC()
	if !g.seeded {
		g.moisture = defaultSeedPct
		g.last = now
		g.seeded = true
	}

	dtMin := now.Sub(g.last).Minutes()
	if dtMin < 0 {
		dtMin = 0
	}

	if pumpOn {
		g.moisture = clampPct(g.moisture + gainPerMin*dtMin)
	} else {
		g.moisture = clampPct(g.moisture - g.decayPerMin*dtMin)
	}

	// rain events: start rarely, always end after one tick of boost
	if g.raining {
		g.moisture = clampPct(g.moisture + rainBoostPct)
		g.raining = false
	} else if g.rng.Float64() < rainChancePerTick {
		g.raining = true
	}

	temp := diurnalTemp(now) + g.rng.Float64()*2 - 1
	humidity := clampPct(95 - temp + g.rng.Float64()*10 - 5)

	g.last = now

	return model.SensorData{
		FarmID:          farmID,
		SoilMoisturePct: round1(g.moisture),
		TemperatureC:    round1(temp),
		HumidityPct:     round1(humidity),
		RainDetected:    g.raining,
		PumpOn:          pumpOn,
		Aggregated:      false,
		Timestamp:       now,
	}
}

// diurnalTemp peaks around 14:00 UTC at ~34C and bottoms near 02:00 at ~20C.
func diurnalTemp(t time.Time) float64 {
	h := float64(t.Hour()) + float64(t.Minute())/60
	return 27 + 7*math.Sin((h-8)*math.Pi/12)
}

func (g *Generator) fetchSoilMoisture(ctx context.Context, lat, lon float64) (float64, error) {
	url := fmt.Sprintf(soilGridsURL, lat, lon)
	var lastErr error

	attemptOnce := func() (val float64, retry bool, err error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return -1, true, err
		}
		req.Header.Set("User-Agent", "agrimind-simulator/1.0")

		resp, err := g.httpClient.Do(req)
		if err != nil {
			return -1, true, err
		}
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		resp.Body.Close()
		if readErr != nil {
			return -1, true, readErr
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			var parsed any
			if err := json.Unmarshal(body, &parsed); err != nil {
				return -1, true, err
			}
			if m := extractMoisture(parsed); m >= 0 {
				return normalizeWV(m), false, nil
			}
			return -1, true, errors.New("soilgrids: moisture field not found")
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return -1, true, fmt.Errorf("soilgrids HTTP %d", resp.StatusCode)
		default:
			return -1, false, fmt.Errorf("soilgrids HTTP %d: %s", resp.StatusCode, string(body))
		}
	}

	for attempt := 0; attempt < 2; attempt++ {
		val, retry, err := attemptOnce()
		if err == nil {
			return val, nil
		}
		lastErr = err
		if !retry {
			return -1, lastErr
		}
		if attempt == 0 {
			time.Sleep(time.Duration(rand.Intn(400)+600) * time.Millisecond)
		}
	}
	return -1, lastErr
}

// extractMoisture digs through the common SoilGrids response shapes for a
// numeric moisture value, returning -1 when none is found.
func extractMoisture(v any) float64 {
	m, ok := v.(map[string]any)
	if !ok {
		return -1
	}
	if feats, ok := m["features"].([]any); ok && len(feats) > 0 {
		if f0, ok := feats[0].(map[string]any); ok {
			if p, ok := f0["properties"].(map[string]any); ok {
				if x := extractFromProperties(p); x >= 0 {
					return x
				}
			}
		}
	}
	if p, ok := m["properties"].(map[string]any); ok {
		if x := extractFromProperties(p); x >= 0 {
			return x
		}
	}
	return -1
}

func extractFromProperties(p map[string]any) float64 {
	layers, ok := p["layers"].([]any)
	if !ok || len(layers) == 0 {
		return -1
	}
	l0, ok := layers[0].(map[string]any)
	if !ok {
		return -1
	}
	depths, ok := l0["depths"].([]any)
	if !ok || len(depths) == 0 {
		return -1
	}
	d0, ok := depths[0].(map[string]any)
	if !ok {
		return -1
	}
	vals, ok := d0["values"].(map[string]any)
	if !ok {
		return -1
	}
	for _, k := range []string{"Q0.5", "mean", "Q0.95", "Q0.05", "value"} {
		raw, ok := vals[k]
		if !ok || raw == nil {
			continue
		}
		switch t := raw.(type) {
		case float64:
			return t
		case json.Number:
			if f, err := t.Float64(); err == nil {
				return f
			}
		}
	}
	return -1
}

// normalizeWV maps SoilGrids "wv****" values into 0..1. Many layers are
// integers in thousandths of m3/m3 (420 => 0.420).
func normalizeWV(x float64) float64 {
	if x > 1.5 {
		x = x / 1000.0
	}
	if x < 0 {
		x = 0
	}
	if x > 1 {
		x = 1
	}
	return x
}

func clampPct(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 100 {
		return 100
	}
	return x
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
