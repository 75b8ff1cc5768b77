package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/agrifog/agrimind/internal/services/ingest"
	"github.com/agrifog/agrimind/internal/stores/influxstore"
	"github.com/agrifog/agrimind/pkg/broker"
)

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clientID := fmt.Sprintf("IngestService-%s", env("HOSTNAME", "local"))
	mqClient, err := broker.Connect(ctx, &broker.Config{
		Host:     env("MQTT_HOST", "localhost"),
		Port:     envInt("MQTT_PORT", 1883),
		User:     env("MQTT_USER", "guest"),
		Password: env("MQTT_PASSWORD", "guest"),
		ClientID: clientID,
	})
	if err != nil {
		log.Fatalf("MQTT connect failed: %v", err)
	}

	influx, err := influxstore.New(influxstore.Config{
		URL:    env("INFLUX_URL", "http://influxdb:8086"),
		Token:  env("INFLUX_TOKEN", ""),
		Org:    env("INFLUX_ORG", "agrimind"),
		Bucket: env("INFLUX_BUCKET", "farm"),
	})
	if err != nil {
		log.Fatalf("influx init: %v", err)
	}
	defer influx.Close()

	subTopic := env("SENSOR_SUB_TOPIC", "sensor/data/#")
	consumer := broker.NewConsumer(mqClient, subTopic, 1, nil)
	publisher := broker.NewPublisher(mqClient)

	interval := time.Duration(envInt("AGGREGATION_INTERVAL_SEC", 60)) * time.Second
	svc := ingest.NewService(consumer, publisher, influx, interval, env("AGGREGATED_TOPIC_TMPL", "sensor/aggregated/{farm}"))

	mux := ingest.NewHTTPMux(svc, influx)
	srv := &http.Server{Addr: ":" + env("PORT", "8091"), Handler: mux}
	go func() {
		log.Printf("ingest service listening on %s (sub=%s)", srv.Addr, subTopic)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http serve: %v", err)
		}
	}()

	go svc.Start(ctx)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	<-sigc
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
