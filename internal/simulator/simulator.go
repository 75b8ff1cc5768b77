package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/agrifog/agrimind/internal/model"
	"github.com/agrifog/agrimind/pkg/broker"
	"github.com/agrifog/agrimind/pkg/dedup"
)

// Simulator publishes synthetic telemetry for one farm and reacts to
// irrigation decisions: a START event turns the simulated pump on for the
// decided duration, which the generator reflects as rising moisture.
type Simulator struct {
	mu        sync.Mutex
	farmID    string
	pumpOn    bool
	timer     *time.Timer
	generator *Generator
	publisher broker.IPublisher
	consumer  broker.IConsumer
	deduper   *dedup.Deduper
}

func New(consumer broker.IConsumer, publisher broker.IPublisher, gen *Generator, farmID string) *Simulator {
	return &Simulator{
		farmID:    farmID,
		generator: gen,
		publisher: publisher,
		consumer:  consumer,
		deduper:   dedup.New(2*time.Minute, 10000),
	}
}

// Start consumes decision events and publishes telemetry at the given
// interval until ctx is cancelled.
func (s *Simulator) Start(ctx context.Context, interval time.Duration) {
	s.consumer.SetHandler(s.handleDecision)
	go s.consumer.ConsumeMessage(ctx)

	topic := fmt.Sprintf("sensor/data/%s", s.farmID)
	for {
		select {
		case <-ctx.Done():
			s.publisher.Close()
			return
		case <-time.After(interval):
			sd := s.generator.Next(s.farmID, s.pumpState())
			log.Printf("simulator: farm=%s moisture=%.1f%% temp=%.1fC pump=%v",
				sd.FarmID, sd.SoilMoisturePct, sd.TemperatureC, sd.PumpOn)
			payload, _ := json.Marshal(sd)
			if err := s.publisher.PublishTo(topic, 1, false, payload); err != nil {
				log.Printf("simulator: publish error: %v", err)
			}
		}
	}
}

func (s *Simulator) pumpState() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pumpOn
}

func (s *Simulator) handleDecision(_ string, msg mqtt.Message) error {
	// QoS1 redeliveries carry the same payload, so the hash dedups them
	if !s.deduper.FirstSeen(dedup.Key(msg.Payload())) {
		return nil
	}

	var evt model.IrrigationDecisionEvent
	if err := json.Unmarshal(msg.Payload(), &evt); err != nil {
		return fmt.Errorf("invalid decision event: %w", err)
	}
	if evt.FarmID != s.farmID {
		return nil
	}

	switch evt.Action {
	case "START":
		s.runPump(time.Duration(evt.DurationMin) * time.Minute)
	case "STOP":
		s.stopPump()
	}
	return nil
}

func (s *Simulator) runPump(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.pumpOn = true
	log.Printf("simulator: pump ON for %s", d)
	s.timer = time.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.pumpOn = false
		s.timer = nil
		log.Printf("simulator: pump OFF after %s", d)
	})
}

func (s *Simulator) stopPump() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.pumpOn {
		s.pumpOn = false
		log.Println("simulator: pump OFF (stop event)")
	}
}
