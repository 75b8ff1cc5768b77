package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/agrifog/agrimind/internal/simulator"
	"github.com/agrifog/agrimind/pkg/broker"
)

func main() {
	farmID := flag.String("farm-id", "farm1", "farm identifier")
	clientID := flag.String("client-id", "farmSimulator1", "MQTT client ID")
	interval := flag.Duration("interval", 10*time.Second, "publish interval")
	lat := flag.Float64("lat", 12.37007, "field latitude")
	lon := flag.Float64("lon", 41.51109, "field longitude")
	decayPerHour := flag.Float64("decay", 1.5, "moisture decay, pct points per hour")
	host := flag.String("mqtt-host", "localhost", "MQTT broker host")
	port := flag.Int("mqtt-port", 1883, "MQTT broker port")
	user := flag.String("mqtt-user", "guest", "MQTT user")
	password := flag.String("mqtt-password", "guest", "MQTT password")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := broker.Connect(ctx, &broker.Config{
		Host:     *host,
		Port:     *port,
		User:     *user,
		Password: *password,
		ClientID: *clientID,
	})
	if err != nil {
		log.Fatal(err)
	}

	publisher := broker.NewPublisher(client)
	decisionTopic := fmt.Sprintf("event/irrigationDecision/%s", *farmID)
	consumer := broker.NewConsumer(client, decisionTopic, 1, nil)

	gen := simulator.NewGenerator(*decayPerHour / 60)
	seedCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	gen.SeedFromSoilGrids(seedCtx, *lat, *lon)
	cancel()

	sim := simulator.New(consumer, publisher, gen, *farmID)
	log.Printf("simulator: farm=%s interval=%s", *farmID, *interval)
	sim.Start(ctx, *interval)
}
