package report

import (
	"context"
	"time"

	"github.com/agrifog/agrimind/internal/model"
)

// The report service talks to its collaborators through these interfaces;
// the concrete implementations live in internal/stores and are swapped for
// fakes in tests.

// SensorStore supplies the most recent reading for a farm.
type SensorStore interface {
	LatestReading(ctx context.Context, farmID string, lookback time.Duration) (model.SensorData, error)
}

// NDVIStore supplies satellite vegetation observations.
type NDVIStore interface {
	LatestNDVI(ctx context.Context, farmID string) (model.NDVIRecord, error)
	RecentNDVI(ctx context.Context, farmID string, n int) ([]float64, error)
}

// ConfigStore supplies per-farm crop configuration, creating a default record
// on first read.
type ConfigStore interface {
	Get(ctx context.Context, farmID string) (model.CropConfig, error)
	Update(ctx context.Context, cfg model.CropConfig) error
}

// IrrigationLog aggregates applied-water usage and accepts new irrigation
// records.
type IrrigationLog interface {
	UsageStats(ctx context.Context, farmID string, days int) (model.UsageStats, error)
	AppendIrrigation(ctx context.Context, evt model.IrrigationEvent) error
}

// DecisionCache holds the last computed report per farm until its TTL runs
// out or it is invalidated by fresh data.
type DecisionCache interface {
	Get(farmID string) (model.Report, bool)
	Set(farmID string, r model.Report)
	Invalidate(farmID string)
}

// HistoryStore is the bounded window of recent readings per farm feeding the
// anomaly detector.
type HistoryStore interface {
	Push(farmID string, r model.SensorData)
	Recent(farmID string, n int) []model.SensorData
}
