package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agrifog/agrimind/internal/services/report"
	"github.com/agrifog/agrimind/internal/stores/configstore"
	"github.com/agrifog/agrimind/internal/stores/influxstore"
	"github.com/agrifog/agrimind/pkg/broker"
)

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MQTT
	clientID := fmt.Sprintf("ReportService-%s", getenv("HOSTNAME", "local"))
	mqClient, err := broker.Connect(ctx, &broker.Config{
		Host: cfg.MQTTHost, Port: cfg.MQTTPort, User: cfg.MQTTUser, Password: cfg.MQTTPassword, ClientID: clientID,
	})
	if err != nil {
		log.Fatalf("MQTT connect failed: %v", err)
	}

	// Influx-backed stores
	influx, err := influxstore.New(influxstore.Config{
		URL: cfg.InfluxURL, Token: cfg.InfluxToken, Org: cfg.InfluxOrg, Bucket: cfg.InfluxBucket,
	})
	if err != nil {
		log.Fatalf("influx init: %v", err)
	}
	defer influx.Close()

	// SQLite crop-config store
	configs, err := configstore.Open(cfg.ConfigDBPath)
	if err != nil {
		log.Fatalf("config store init: %v", err)
	}
	defer configs.Close()

	publisher := broker.NewPublisher(mqClient)
	svc := report.NewService(influx, influx, configs, influx, publisher, report.Config{
		CacheTTL:          cfg.CacheTTL,
		DecisionTopicTmpl: cfg.DecisionTopicTmpl,
	})

	// Fresh sensor data feeds the history window and invalidates the cache.
	consumer := broker.NewConsumer(mqClient, cfg.SensorSubTopic, 1, svc.HandleSensorMessage)
	go consumer.ConsumeMessage(ctx)

	mux := report.NewHTTPMux(svc)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, _ *http.Request) {
		ready := mqClient.IsConnectionOpen()
		w.Header().Set("Content-Type", "application/json")
		if !ready {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(map[string]bool{"ready": ready})
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: mux}
	go func() {
		log.Printf("report service listening on :%s (sub=%s)", cfg.Port, cfg.SensorSubTopic)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http serve: %v", err)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	<-sigc
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
