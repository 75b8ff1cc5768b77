package influxstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/agrifog/agrimind/internal/model"
)

// NDVI observations arrive every few days at best, so the lookback is long.
const ndviLookbackDays = 30

// LatestNDVI returns the newest NDVI observation for a farm.
func (c *Client) LatestNDVI(ctx context.Context, farmID string) (model.NDVIRecord, error) {
	flux := fmt.Sprintf(`
from(bucket: %q)
  |> range(start: -%dd)
  |> filter(fn: (r) => r._measurement == %q and r.farm_id == %q)
  |> filter(fn: (r) => r._field == "ndvi")
  |> sort(columns: ["_time"], desc: true)
  |> limit(n:1)
`, c.bucket, ndviLookbackDays, measurementNDVI, farmID)

	res, err := c.queryAPI.Query(ctx, flux)
	if err != nil {
		return model.NDVIRecord{}, fmt.Errorf("ndvi query: %w", err)
	}
	defer res.Close()

	for res.Next() {
		rec := res.Record()
		out := model.NDVIRecord{
			FarmID:    farmID,
			NDVIValue: asFloat(rec.Value()),
			Timestamp: rec.Time().UTC(),
		}
		if v := rec.ValueByKey("crop_health"); v != nil {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				out.CropHealthStatus = s
			}
		}
		return out, nil
	}
	if res.Err() != nil {
		return model.NDVIRecord{}, fmt.Errorf("ndvi iter: %w", res.Err())
	}
	return model.NDVIRecord{}, fmt.Errorf("no ndvi for farm %s", farmID)
}

// RecentNDVI returns up to n NDVI values for a farm, oldest first, for trend
// classification.
func (c *Client) RecentNDVI(ctx context.Context, farmID string, n int) ([]float64, error) {
	if n <= 0 {
		n = 5
	}
	flux := fmt.Sprintf(`
from(bucket: %q)
  |> range(start: -%dd)
  |> filter(fn: (r) => r._measurement == %q and r.farm_id == %q)
  |> filter(fn: (r) => r._field == "ndvi")
  |> sort(columns: ["_time"], desc: true)
  |> limit(n:%d)
`, c.bucket, ndviLookbackDays, measurementNDVI, farmID, n)

	res, err := c.queryAPI.Query(ctx, flux)
	if err != nil {
		return nil, fmt.Errorf("ndvi recent query: %w", err)
	}
	defer res.Close()

	var newestFirst []float64
	for res.Next() {
		newestFirst = append(newestFirst, asFloat(res.Record().Value()))
	}
	if res.Err() != nil {
		return nil, fmt.Errorf("ndvi recent iter: %w", res.Err())
	}

	out := make([]float64, 0, len(newestFirst))
	for i := len(newestFirst) - 1; i >= 0; i-- {
		out = append(out, newestFirst[i])
	}
	return out, nil
}
