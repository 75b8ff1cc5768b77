// Package ingest consumes raw sensor telemetry from MQTT, persists every
// reading to InfluxDB, and periodically republishes a per-farm average on the
// aggregated topic at QoS 1 for downstream consumers.
package ingest

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/agrifog/agrimind/internal/model"
	"github.com/agrifog/agrimind/pkg/broker"
	"github.com/agrifog/agrimind/pkg/dedup"
)

// Writer persists readings; backed by InfluxDB in production.
type Writer interface {
	WriteReading(ctx context.Context, m model.SensorData) error
}

type Service struct {
	consumer  broker.IConsumer
	publisher broker.IPublisher
	writer    Writer
	deduper   *dedup.Deduper

	aggregationInterval time.Duration
	aggTopicTmpl        string // e.g. "sensor/aggregated/{farm}"

	mu     sync.Mutex
	buffer map[string][]model.SensorData // farm -> readings since last flush
	latest map[string]model.SensorData   // farm -> newest reading, serves /data/latest
}

func NewService(consumer broker.IConsumer, publisher broker.IPublisher, writer Writer, aggregationInterval time.Duration, aggTopicTmpl string) *Service {
	if aggregationInterval <= 0 {
		aggregationInterval = time.Minute
	}
	if strings.TrimSpace(aggTopicTmpl) == "" {
		aggTopicTmpl = "sensor/aggregated/{farm}"
	}
	s := &Service{
		consumer:            consumer,
		publisher:           publisher,
		writer:              writer,
		deduper:             dedup.New(10*time.Minute, 20000),
		aggregationInterval: aggregationInterval,
		aggTopicTmpl:        aggTopicTmpl,
		buffer:              make(map[string][]model.SensorData),
		latest:              make(map[string]model.SensorData),
	}
	consumer.SetHandler(s.handleMessage)
	return s
}

// Start consumes until ctx is cancelled, flushing aggregates on a ticker.
func (s *Service) Start(ctx context.Context) {
	go s.consumer.ConsumeMessage(ctx)

	ticker := time.NewTicker(s.aggregationInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if s.publisher != nil {
				s.publisher.Close()
			}
			return
		case <-ticker.C:
			s.flushAggregates()
		}
	}
}

func (s *Service) handleMessage(topic string, m mqtt.Message) error {
	// drop QoS1 redeliveries before doing any work
	if !s.deduper.FirstSeen(dedup.Key(m.Payload())) {
		return nil
	}

	var reading model.SensorData
	if err := json.Unmarshal(m.Payload(), &reading); err != nil {
		log.Printf("ingest: bad payload on %s: %v", topic, err)
		return nil // do not block the stream
	}
	if strings.TrimSpace(reading.FarmID) == "" {
		log.Printf("ingest: reading without farm id on %s", topic)
		return nil
	}
	if reading.Timestamp.IsZero() {
		reading.Timestamp = time.Now().UTC()
	}

	s.mu.Lock()
	s.buffer[reading.FarmID] = append(s.buffer[reading.FarmID], reading)
	s.latest[reading.FarmID] = reading
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.writer.WriteReading(ctx, reading); err != nil {
		log.Printf("ingest: write error: %v", err)
		return err
	}
	log.Printf("ingest: wrote farm=%s moisture=%.1f%% temp=%.1fC", reading.FarmID, reading.SoilMoisturePct, reading.TemperatureC)
	return nil
}

// flushAggregates averages buffered readings per farm and republishes them on
// the aggregated topic at QoS 1. Booleans aggregate as "any reading set it".
func (s *Service) flushAggregates() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for farmID, readings := range s.buffer {
		if len(readings) == 0 {
			continue
		}
		out := averageReadings(farmID, readings)
		s.buffer[farmID] = readings[:0]

		if s.publisher == nil {
			continue
		}
		b, err := json.Marshal(out)
		if err != nil {
			log.Printf("ingest: marshal aggregate: %v", err)
			continue
		}
		topic := strings.ReplaceAll(s.aggTopicTmpl, "{farm}", farmID)
		if err := s.publisher.PublishTo(topic, 1, false, b); err != nil {
			log.Printf("ingest: publish aggregate for %s: %v", farmID, err)
			continue
		}
		log.Printf("ingest: aggregated farm=%s n=%d moisture=%.1f%%", farmID, len(readings), out.SoilMoisturePct)
	}
}

// Latest returns the newest reading seen per farm, in no particular order.
func (s *Service) Latest() []model.SensorData {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.SensorData, 0, len(s.latest))
	for _, r := range s.latest {
		out = append(out, r)
	}
	return out
}

func averageReadings(farmID string, readings []model.SensorData) model.SensorData {
	out := model.SensorData{
		FarmID:     farmID,
		Aggregated: true,
		Timestamp:  time.Now().UTC(),
	}
	n := float64(len(readings))
	for _, r := range readings {
		out.SoilMoisturePct += r.SoilMoisturePct / n
		out.TemperatureC += r.TemperatureC / n
		out.HumidityPct += r.HumidityPct / n
		out.RainDetected = out.RainDetected || r.RainDetected
		out.RainForecast = out.RainForecast || r.RainForecast
		out.PumpOn = out.PumpOn || r.PumpOn
	}
	return out
}
