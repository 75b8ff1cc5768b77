package messages

import "time"

// NDVIRecord is the most recent satellite vegetation observation for a farm,
// as produced by the external NDVI pipeline and persisted to the series store.
type NDVIRecord struct {
	FarmID           string    `json:"farm_id"`
	NDVIValue        float64   `json:"ndvi_value"` // [-1,1]
	CropHealthStatus string    `json:"crop_health_status"`
	Timestamp        time.Time `json:"timestamp"`
}
