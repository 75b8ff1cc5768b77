package report

import (
	"context"
	"log"
	"time"

	"github.com/agrifog/agrimind/internal/intelligence"
	"github.com/agrifog/agrimind/internal/model"
	"github.com/agrifog/agrimind/internal/model/entities"
)

// Per-field defaults used when an upstream source is missing or timed out.
// Missing data is not an error: a report is always produced, tagged with what
// it was built from.
const (
	defaultMoisturePct = 50.0
	defaultTempC       = 28.0
	defaultHumidityPct = 60.0
	defaultNDVI        = 0.5
)

const sensorLookback = 24 * time.Hour

// buildFieldState assembles the fused snapshot for one farm. The three
// upstream reads are independent, so they are dispatched concurrently and
// joined; a read that fails, times out or trips its breaker resolves to the
// documented default instead of failing the fusion.
func (s *Service) buildFieldState(ctx context.Context, farmID string, live *model.SensorData) model.FieldState {
	type result struct {
		key string
		val any
		err error
	}
	ch := make(chan result, 3)

	go func() {
		v, err := s.breakerDo(s.configBreaker, func() (any, error) {
			return s.configs.Get(ctx, farmID)
		})
		ch <- result{"config", v, err}
	}()
	go func() {
		if live != nil {
			ch <- result{"sensor", *live, nil}
			return
		}
		v, err := s.breakerDo(s.sensorBreaker, func() (any, error) {
			return s.sensors.LatestReading(ctx, farmID, sensorLookback)
		})
		ch <- result{"sensor", v, err}
	}()
	go func() {
		v, err := s.breakerDo(s.ndviBreaker, func() (any, error) {
			return s.ndvi.LatestNDVI(ctx, farmID)
		})
		ch <- result{"ndvi", v, err}
	}()

	cfg := entities.DefaultCropConfig(farmID)
	reading := model.SensorData{
		FarmID:          farmID,
		SoilMoisturePct: defaultMoisturePct,
		TemperatureC:    defaultTempC,
		HumidityPct:     defaultHumidityPct,
	}
	ndviValue := defaultNDVI
	observedAt := time.Now().UTC()

	for i := 0; i < 3; i++ {
		r := <-ch
		if r.err != nil {
			fusionFallbacks.WithLabelValues(r.key).Inc()
			log.Printf("report: %s unavailable for farm=%s, using defaults: %v", r.key, farmID, r.err)
			continue
		}
		switch r.key {
		case "config":
			if c, ok := r.val.(model.CropConfig); ok {
				cfg = c
			}
		case "sensor":
			if m, ok := r.val.(model.SensorData); ok {
				reading = m
				if !m.Timestamp.IsZero() {
					observedAt = m.Timestamp.UTC()
				}
			}
		case "ndvi":
			if n, ok := r.val.(model.NDVIRecord); ok {
				ndviValue = n.NDVIValue
			}
		}
	}

	fs := model.FieldState{
		FarmID:           farmID,
		SoilMoisturePct:  reading.SoilMoisturePct,
		TemperatureC:     reading.TemperatureC,
		HumidityPct:      reading.HumidityPct,
		RainDetected:     reading.RainDetected,
		RainForecast:     reading.RainForecast,
		PumpOn:           reading.PumpOn,
		NDVI:             ndviValue,
		CropType:         cfg.CropType,
		SoilType:         cfg.SoilType,
		GrowthStage:      cfg.GrowthStage,
		Thresholds:       intelligence.ResolveThresholds(cfg.GrowthStage, cfg.ThresholdOverrides),
		FieldAreaSqm:     cfg.FieldAreaSqm,
		SprinklerFlowLpm: cfg.SprinklerFlowLpm,
		ObservedAt:       observedAt,
	}

	// A reading no sensor can produce is swapped for the defaults before the
	// pure functions run.
	if err := intelligence.ValidateState(fs); err != nil {
		log.Printf("report: invalid reading for farm=%s: %v (substituting defaults)", farmID, err)
		fs.SoilMoisturePct = defaultMoisturePct
		fs.TemperatureC = defaultTempC
		fs.HumidityPct = defaultHumidityPct
		fs.NDVI = defaultNDVI
	}
	return fs
}

// breakerDo runs fn through a circuit breaker when one is configured.
func (s *Service) breakerDo(cb breaker, fn func() (any, error)) (any, error) {
	if cb == nil {
		return fn()
	}
	return cb.Execute(fn)
}
