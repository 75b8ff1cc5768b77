package report

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/agrifog/agrimind/internal/model"
	"github.com/agrifog/agrimind/internal/model/entities"
)

// NewHTTPMux exposes the report service over HTTP.
func NewHTTPMux(svc *Service) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	// GET /farms/{farm}/report
	mux.HandleFunc("GET /farms/{farm}/report", func(w http.ResponseWriter, r *http.Request) {
		farmID := strings.TrimSpace(r.PathValue("farm"))
		if farmID == "" {
			http.Error(w, "missing farm id", http.StatusBadRequest)
			return
		}
		rep := svc.Report(r.Context(), farmID, nil)
		writeReport(w, rep)
	})

	// POST /farms/{farm}/report/live — compute a fresh report from a
	// caller-supplied reading, bypassing the cache.
	mux.HandleFunc("POST /farms/{farm}/report/live", func(w http.ResponseWriter, r *http.Request) {
		farmID := strings.TrimSpace(r.PathValue("farm"))
		if farmID == "" {
			http.Error(w, "missing farm id", http.StatusBadRequest)
			return
		}
		var live model.SensorData
		if err := json.NewDecoder(r.Body).Decode(&live); err != nil {
			http.Error(w, "bad reading payload: "+err.Error(), http.StatusBadRequest)
			return
		}
		live.FarmID = farmID
		if live.Timestamp.IsZero() {
			live.Timestamp = time.Now().UTC()
		}
		svc.Ingest(live)
		rep := svc.Report(r.Context(), farmID, &live)
		writeReport(w, rep)
	})

	// GET /farms/{farm}/config
	mux.HandleFunc("GET /farms/{farm}/config", func(w http.ResponseWriter, r *http.Request) {
		farmID := strings.TrimSpace(r.PathValue("farm"))
		cfg, err := svc.GetConfig(r.Context(), farmID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, cfg)
	})

	// PUT /farms/{farm}/config — rejects malformed thresholds, invalidates
	// the farm's cached report on success.
	mux.HandleFunc("PUT /farms/{farm}/config", func(w http.ResponseWriter, r *http.Request) {
		farmID := strings.TrimSpace(r.PathValue("farm"))
		var cfg model.CropConfig
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			http.Error(w, "bad config payload: "+err.Error(), http.StatusBadRequest)
			return
		}
		cfg.FarmID = farmID
		if err := svc.UpdateConfig(r.Context(), cfg); err != nil {
			var invalid *entities.InvalidConfigError
			if errors.As(err, &invalid) {
				http.Error(w, invalid.Error(), http.StatusUnprocessableEntity)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, cfg)
	})

	return mux
}

// HandleSensorMessage is the MQTT subscription handler: every fresh reading
// feeds the history window and invalidates the farm's cached report.
func (s *Service) HandleSensorMessage(_ string, m mqtt.Message) error {
	var reading model.SensorData
	if err := json.Unmarshal(m.Payload(), &reading); err != nil {
		// bad payload must not kill the stream
		return nil
	}
	if reading.Timestamp.IsZero() {
		reading.Timestamp = time.Now().UTC()
	}
	s.Ingest(reading)
	return nil
}

func writeReport(w http.ResponseWriter, rep model.Report) {
	w.Header().Set("X-Report-Source", rep.Source)
	writeJSON(w, rep)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
