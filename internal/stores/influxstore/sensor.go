package influxstore

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"

	"github.com/agrifog/agrimind/internal/model"
)

// WriteReading persists one sensor reading as a point tagged by farm.
func (c *Client) WriteReading(ctx context.Context, m model.SensorData) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	point := influxdb2.NewPoint(measurementSensor,
		map[string]string{"farm_id": m.FarmID},
		map[string]interface{}{
			"soil_moisture_pct": m.SoilMoisturePct,
			"temperature_c":     m.TemperatureC,
			"humidity_pct":      m.HumidityPct,
			"rain_detected":     m.RainDetected,
			"rain_forecast":     m.RainForecast,
			"pump_on":           m.PumpOn,
			"aggregated":        m.Aggregated,
		}, ts)
	return c.writeAPI.WritePoint(ctx, point)
}

// LatestReading returns the most recent reading for a farm within the
// lookback window.
func (c *Client) LatestReading(ctx context.Context, farmID string, lookback time.Duration) (model.SensorData, error) {
	flux := fmt.Sprintf(`
from(bucket: %q)
  |> range(start: -%dm)
  |> filter(fn: (r) => r._measurement == %q and r.farm_id == %q)
  |> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")
  |> sort(columns: ["_time"], desc: true)
  |> limit(n:1)
`, c.bucket, int(lookback.Minutes()), measurementSensor, farmID)

	res, err := c.queryAPI.Query(ctx, flux)
	if err != nil {
		return model.SensorData{}, fmt.Errorf("latest reading query: %w", err)
	}
	defer res.Close()

	for res.Next() {
		rec := res.Record()
		return model.SensorData{
			FarmID:          farmID,
			SoilMoisturePct: asFloat(rec.ValueByKey("soil_moisture_pct")),
			TemperatureC:    asFloat(rec.ValueByKey("temperature_c")),
			HumidityPct:     asFloat(rec.ValueByKey("humidity_pct")),
			RainDetected:    asBool(rec.ValueByKey("rain_detected")),
			RainForecast:    asBool(rec.ValueByKey("rain_forecast")),
			PumpOn:          asBool(rec.ValueByKey("pump_on")),
			Aggregated:      asBool(rec.ValueByKey("aggregated")),
			Timestamp:       rec.Time().UTC(),
		}, nil
	}
	if res.Err() != nil {
		return model.SensorData{}, fmt.Errorf("latest reading iter: %w", res.Err())
	}
	return model.SensorData{}, fmt.Errorf("no reading for farm %s in last %s", farmID, lookback)
}

func asFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case int:
		return float64(t)
	}
	return 0
}

func asBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}
