// Package influxstore backs the sensor, NDVI and irrigation-log stores with
// InfluxDB. Reads are short Flux queries; writes use the blocking write API.
package influxstore

import (
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

const (
	measurementSensor     = "sensor_reading"
	measurementNDVI       = "ndvi_observation"
	measurementIrrigation = "irrigation_event"
)

type Config struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

type Client struct {
	influx   influxdb2.Client
	queryAPI api.QueryAPI
	writeAPI api.WriteAPIBlocking
	bucket   string
}

func New(cfg Config) (*Client, error) {
	if cfg.URL == "" || cfg.Token == "" || cfg.Org == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("influx config incomplete")
	}
	c := influxdb2.NewClient(cfg.URL, cfg.Token)
	return &Client{
		influx:   c,
		queryAPI: c.QueryAPI(cfg.Org),
		writeAPI: c.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		bucket:   cfg.Bucket,
	}, nil
}

func (c *Client) Close() { c.influx.Close() }
