// Package report fuses sensor, satellite and configuration data into the
// per-farm intelligence report and serves it over HTTP. The pure decision
// logic lives in internal/intelligence; this package owns caching, history,
// upstream fan-out and the never-fail report boundary.
package report

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/agrifog/agrimind/internal/intelligence"
	"github.com/agrifog/agrimind/internal/model"
	"github.com/agrifog/agrimind/internal/model/entities"
	"github.com/agrifog/agrimind/pkg/broker"
)

const (
	usageStatsDays  = 7
	ndviTrendDepth  = 5
	anomalyWindow   = DefaultHistoryDepth
	upstreamTimeout = 3 * time.Second
)

// breaker is the slice of gobreaker the service uses; a nil breaker means
// "call directly".
type breaker interface {
	Execute(req func() (interface{}, error)) (interface{}, error)
}

type Config struct {
	CacheTTL          time.Duration
	HistoryDepth      int
	BreakerFailures   uint32
	BreakerOpenFor    time.Duration
	DecisionTopicTmpl string // e.g. "event/irrigationDecision/{farm}"
}

// Service composes intelligence reports for farms.
type Service struct {
	sensors SensorStore
	ndvi    NDVIStore
	configs ConfigStore
	irrlog  IrrigationLog

	cache     DecisionCache
	history   HistoryStore
	publisher broker.IPublisher // optional; nil disables decision events

	sensorBreaker breaker
	ndviBreaker   breaker
	configBreaker breaker

	decisionTopicTmpl string

	// last successfully computed report per farm, independent of cache TTL,
	// used as the error fallback
	lastGoodMu sync.Mutex
	lastGood   map[string]model.Report
}

func NewService(sensors SensorStore, ndvi NDVIStore, configs ConfigStore, irrlog IrrigationLog, pub broker.IPublisher, cfg Config) *Service {
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 3
	}
	if cfg.BreakerOpenFor <= 0 {
		cfg.BreakerOpenFor = 15 * time.Second
	}
	mk := func(name string) breaker {
		return gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    name,
			Timeout: cfg.BreakerOpenFor,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= cfg.BreakerFailures
			},
		})
	}
	return &Service{
		sensors:           sensors,
		ndvi:              ndvi,
		configs:           configs,
		irrlog:            irrlog,
		cache:             NewMemoryCache(cfg.CacheTTL),
		history:           NewMemoryHistory(cfg.HistoryDepth),
		publisher:         pub,
		sensorBreaker:     mk("sensor-store"),
		ndviBreaker:       mk("ndvi-store"),
		configBreaker:     mk("config-store"),
		decisionTopicTmpl: firstNonEmpty(cfg.DecisionTopicTmpl, "event/irrigationDecision/{farm}"),
		lastGood:          make(map[string]model.Report),
	}
}

// SetCache and SetHistory swap the injected stores; used by tests and by
// deployments with an external cache.
func (s *Service) SetCache(c DecisionCache)  { s.cache = c }
func (s *Service) SetHistory(h HistoryStore) { s.history = h }
func (s *Service) History() HistoryStore     { return s.history }

// Report returns the intelligence report for a farm. A live reading forces a
// fresh computation; otherwise a cache entry within TTL is served as-is,
// tagged as such. This method never returns an error: every failure path
// degrades to the last good report or to the static default.
func (s *Service) Report(ctx context.Context, farmID string, live *model.SensorData) model.Report {
	if live == nil {
		if cached, ok := s.cache.Get(farmID); ok {
			cached.Source = entities.SourceCache
			reportsTotal.WithLabelValues(entities.SourceCache).Inc()
			return cached
		}
	}

	rep, err := s.compute(ctx, farmID, live)
	if err != nil {
		log.Printf("report: compute failed for farm=%s: %v (falling back)", farmID, err)
		reportsTotal.WithLabelValues(entities.SourceErrorFallback).Inc()
		return s.fallback(farmID)
	}

	s.cache.Set(farmID, rep)
	s.lastGoodMu.Lock()
	s.lastGood[farmID] = rep
	s.lastGoodMu.Unlock()

	reportsTotal.WithLabelValues(entities.SourceComputed).Inc()
	return rep
}

// compute runs the full pipeline: fusion, decision, scoring, anomalies,
// savings, NDVI trend. A panic in any scoring function is recovered here and
// surfaces as an error to the fallback path.
func (s *Service) compute(ctx context.Context, farmID string, live *model.SensorData) (rep model.Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &computeFault{farmID: farmID, cause: r}
		}
	}()

	start := time.Now()
	cctx, cancel := context.WithTimeout(ctx, upstreamTimeout)
	defer cancel()

	fs := s.buildFieldState(cctx, farmID, live)

	dec := intelligence.Decide(fs)
	stress := intelligence.StressRiskOf(fs)
	alerts := intelligence.DetectAnomalies(fs, s.history.Recent(farmID, anomalyWindow))

	stats, statsErr := s.irrlog.UsageStats(cctx, farmID, usageStatsDays)
	if statsErr != nil {
		log.Printf("report: usage stats unavailable for farm=%s: %v", farmID, statsErr)
		stats = model.UsageStats{DaysPeriod: usageStatsDays}
	}

	recentNDVI, ndviErr := s.ndvi.RecentNDVI(cctx, farmID, ndviTrendDepth)
	if ndviErr != nil {
		recentNDVI = nil
	}

	now := time.Now().UTC()
	rep = model.Report{
		ReportID:             uuid.New().String(),
		FarmID:               farmID,
		Timestamp:            now,
		IrrigationDecision:   dec,
		CropStressRisk:       stress,
		NextIrrigationTimer:  nextIrrigation(dec, now),
		SystemHealth:         intelligence.HealthOf(alerts),
		WaterSavingPotential: intelligence.WaterSavings(fs, stats),
		NDVIInsights:         intelligence.NDVITrend(fs.NDVI, recentNDVI),
		FieldSnapshot:        fs,
		Source:               entities.SourceComputed,
	}
	computeSeconds.Observe(time.Since(start).Seconds())

	if dec.Action == entities.ActionStart {
		go s.recordDecision(farmID, rep)
	}
	return rep, nil
}

// fallback returns the last good report marked stale, or the static default
// report built from the documented default field state when this farm has
// never computed successfully.
func (s *Service) fallback(farmID string) model.Report {
	s.lastGoodMu.Lock()
	last, ok := s.lastGood[farmID]
	s.lastGoodMu.Unlock()
	if ok {
		last.Source = entities.SourceErrorFallback
		last.Stale = true
		return last
	}
	return defaultReport(farmID)
}

// defaultReport is the terminal fallback: the pipeline run over the default
// field state, which cannot fail.
func defaultReport(farmID string) model.Report {
	cfg := entities.DefaultCropConfig(farmID)
	now := time.Now().UTC()
	fs := model.FieldState{
		FarmID:           farmID,
		SoilMoisturePct:  defaultMoisturePct,
		TemperatureC:     defaultTempC,
		HumidityPct:      defaultHumidityPct,
		NDVI:             defaultNDVI,
		CropType:         cfg.CropType,
		SoilType:         cfg.SoilType,
		GrowthStage:      cfg.GrowthStage,
		Thresholds:       intelligence.ResolveThresholds(cfg.GrowthStage, nil),
		FieldAreaSqm:     cfg.FieldAreaSqm,
		SprinklerFlowLpm: cfg.SprinklerFlowLpm,
		ObservedAt:       now,
	}
	dec := intelligence.Decide(fs)
	return model.Report{
		ReportID:             uuid.New().String(),
		FarmID:               farmID,
		Timestamp:            now,
		IrrigationDecision:   dec,
		CropStressRisk:       intelligence.StressRiskOf(fs),
		NextIrrigationTimer:  nextIrrigation(dec, now),
		SystemHealth:         intelligence.HealthOf(nil),
		WaterSavingPotential: intelligence.WaterSavings(fs, model.UsageStats{DaysPeriod: usageStatsDays}),
		NDVIInsights:         intelligence.NDVITrend(fs.NDVI, nil),
		FieldSnapshot:        fs,
		Source:               entities.SourceErrorFallback,
		Stale:                true,
	}
}

// Ingest feeds a fresh sensor reading into the history window and invalidates
// the farm's cached report so the next request recomputes. Called by the MQTT
// subscription and by the live-report endpoint.
func (s *Service) Ingest(reading model.SensorData) {
	if strings.TrimSpace(reading.FarmID) == "" {
		return
	}
	s.history.Push(reading.FarmID, reading)
	s.cache.Invalidate(reading.FarmID)
	cacheInvalidations.WithLabelValues("sensor_data").Inc()
}

// UpdateConfig writes the farm's crop config and invalidates its cached
// report; the write happens before the invalidation so the next report sees
// the new config.
func (s *Service) UpdateConfig(ctx context.Context, cfg model.CropConfig) error {
	if err := s.configs.Update(ctx, cfg); err != nil {
		return err
	}
	s.cache.Invalidate(cfg.FarmID)
	cacheInvalidations.WithLabelValues("config_update").Inc()
	return nil
}

// GetConfig proxies the config store.
func (s *Service) GetConfig(ctx context.Context, farmID string) (model.CropConfig, error) {
	return s.configs.Get(ctx, farmID)
}

// recordDecision logs a START decision to the irrigation log and publishes
// the decision event. Fire-and-forget: failures are logged, never surfaced.
func (s *Service) recordDecision(farmID string, rep model.Report) {
	ctx, cancel := context.WithTimeout(context.Background(), upstreamTimeout)
	defer cancel()

	dec := rep.IrrigationDecision
	evt := model.IrrigationEvent{
		FarmID:      farmID,
		Liters:      dec.WaterQuantityLiters,
		DurationMin: dec.IrrigationTimeMinutes,
		Timestamp:   rep.Timestamp,
	}
	if err := s.irrlog.AppendIrrigation(ctx, evt); err != nil {
		log.Printf("report: irrigation log append failed for farm=%s: %v", farmID, err)
	}

	if s.publisher == nil {
		return
	}
	out := model.IrrigationDecisionEvent{
		FarmID:      farmID,
		Action:      string(dec.Action),
		Priority:    string(dec.Priority),
		WaterLiters: dec.WaterQuantityLiters,
		DurationMin: dec.IrrigationTimeMinutes,
		DelayHours:  dec.DelayHours,
		Reason:      dec.Reason,
		StressScore: rep.CropStressRisk.Score,
		Timestamp:   rep.Timestamp,
	}
	b, _ := json.Marshal(out)
	topic := strings.ReplaceAll(s.decisionTopicTmpl, "{farm}", farmID)
	if err := s.publisher.PublishTo(topic, 1, false, b); err != nil {
		log.Printf("report: publish decision failed for farm=%s: %v", farmID, err)
		return
	}
	log.Printf("decision: farm=%s action=%s priority=%s liters=%.0f topic=%s",
		farmID, dec.Action, dec.Priority, dec.WaterQuantityLiters, topic)
}

func nextIrrigation(dec model.IrrigationDecision, now time.Time) entities.IrrigationTimer {
	hours := dec.DelayHours
	if dec.Action == entities.ActionStart {
		hours = 0
	}
	return entities.IrrigationTimer{
		HoursUntilNeeded: hours,
		EstimatedTime:    now.Add(time.Duration(hours) * time.Hour),
	}
}

type computeFault struct {
	farmID string
	cause  any
}

func (e *computeFault) Error() string {
	return "report pipeline panic for farm " + e.farmID
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
