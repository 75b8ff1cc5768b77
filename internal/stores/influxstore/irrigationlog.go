package influxstore

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"

	"github.com/agrifog/agrimind/internal/model"
)

// AppendIrrigation records one applied irrigation for a farm.
func (c *Client) AppendIrrigation(ctx context.Context, evt model.IrrigationEvent) error {
	ts := evt.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	point := influxdb2.NewPoint(measurementIrrigation,
		map[string]string{"farm_id": evt.FarmID},
		map[string]interface{}{
			"liters":       evt.Liters,
			"duration_min": evt.DurationMin,
		}, ts)
	return c.writeAPI.WritePoint(ctx, point)
}

// UsageStats aggregates liters used and irrigation count for a farm over the
// last days.
func (c *Client) UsageStats(ctx context.Context, farmID string, days int) (model.UsageStats, error) {
	if days <= 0 {
		days = 7
	}
	flux := fmt.Sprintf(`
from(bucket: %q)
  |> range(start: -%dd)
  |> filter(fn: (r) => r._measurement == %q and r.farm_id == %q)
  |> filter(fn: (r) => r._field == "liters")
  |> keep(columns: ["_time","_value"])
`, c.bucket, days, measurementIrrigation, farmID)

	res, err := c.queryAPI.Query(ctx, flux)
	if err != nil {
		return model.UsageStats{}, fmt.Errorf("usage query: %w", err)
	}
	defer res.Close()

	out := model.UsageStats{DaysPeriod: days}
	for res.Next() {
		out.TotalLitersUsed += asFloat(res.Record().Value())
		out.IrrigationCount++
	}
	if res.Err() != nil {
		return model.UsageStats{}, fmt.Errorf("usage iter: %w", res.Err())
	}
	return out, nil
}
