package report

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agrifog/agrimind/internal/model"
	"github.com/agrifog/agrimind/internal/model/entities"
)

func newTestMux() (*http.ServeMux, *Service) {
	svc := newTestService(healthySensors(), &fakeNDVI{latest: model.NDVIRecord{NDVIValue: 0.7}}, &fakeConfigs{}, &fakeIrrlog{})
	return NewHTTPMux(svc), svc
}

func TestHTTPGetReport(t *testing.T) {
	mux, _ := newTestMux()

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/farms/farm1/report", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("X-Report-Source"); got != entities.SourceComputed {
		t.Fatalf("source header %q, want computed", got)
	}

	var rep model.Report
	if err := json.Unmarshal(rr.Body.Bytes(), &rep); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if rep.FarmID != "farm1" || rep.ReportID == "" {
		t.Fatalf("report %+v", rep)
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/farms/farm1/report", nil))
	if got := rr.Header().Get("X-Report-Source"); got != entities.SourceCache {
		t.Fatalf("second call source header %q, want cache", got)
	}
}

func TestHTTPLiveReport(t *testing.T) {
	mux, svc := newTestMux()

	body := `{"soil_moisture_pct": 18, "temperature_c": 30, "humidity_pct": 40}`
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/farms/farm1/report/live", strings.NewReader(body)))

	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var rep model.Report
	if err := json.Unmarshal(rr.Body.Bytes(), &rep); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if rep.FieldSnapshot.SoilMoisturePct != 18 {
		t.Fatalf("snapshot moisture %.1f, want 18", rep.FieldSnapshot.SoilMoisturePct)
	}
	if rep.IrrigationDecision.Action != entities.ActionStart {
		t.Fatalf("action %s, want START", rep.IrrigationDecision.Action)
	}
	// the posted reading must land in the anomaly window
	if got := svc.History().Recent("farm1", 10); len(got) != 1 || got[0].SoilMoisturePct != 18 {
		t.Fatalf("history after live post: %v", got)
	}
}

func TestHTTPLiveReportBadPayload(t *testing.T) {
	mux, _ := newTestMux()
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/farms/farm1/report/live", strings.NewReader("{not json")))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rr.Code)
	}
}

func TestHTTPConfigRoundTrip(t *testing.T) {
	mux, _ := newTestMux()

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/farms/farm1/config", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("get config status %d", rr.Code)
	}
	var cfg model.CropConfig
	if err := json.Unmarshal(rr.Body.Bytes(), &cfg); err != nil {
		t.Fatalf("bad config body: %v", err)
	}
	if cfg.GrowthStage != entities.StageVegetative {
		t.Fatalf("default stage %q", cfg.GrowthStage)
	}

	cfg.GrowthStage = entities.StageFruiting
	b, _ := json.Marshal(cfg)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/farms/farm1/config", strings.NewReader(string(b))))
	if rr.Code != http.StatusOK {
		t.Fatalf("put config status %d: %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/farms/farm1/config", nil))
	var back model.CropConfig
	if err := json.Unmarshal(rr.Body.Bytes(), &back); err != nil {
		t.Fatalf("bad config body: %v", err)
	}
	if back.GrowthStage != entities.StageFruiting {
		t.Fatalf("stage after update %q, want fruiting", back.GrowthStage)
	}
}

func TestHTTPConfigRejectsMalformedThresholds(t *testing.T) {
	mux, _ := newTestMux()

	body := `{"crop_type":"rice","growth_stage":"vegetative","field_area_sqm":1000,"sprinkler_flow_lpm":40,` +
		`"threshold_overrides":{"vegetative":{"critical_low":50,"min":40,"max":30}}}`
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/farms/farm1/config", strings.NewReader(body)))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleSensorMessage(t *testing.T) {
	_, svc := newTestMux()

	payload, _ := json.Marshal(model.SensorData{FarmID: "farm1", SoilMoisturePct: 33, Timestamp: time.Now().UTC()})
	if err := svc.HandleSensorMessage("sensor/data/farm1", fakeMessage{payload: payload}); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := svc.History().Recent("farm1", 10); len(got) != 1 || got[0].SoilMoisturePct != 33 {
		t.Fatalf("history after message: %v", got)
	}

	if err := svc.HandleSensorMessage("sensor/data/farm1", fakeMessage{payload: []byte("{broken")}); err != nil {
		t.Fatalf("bad payload must not error the stream: %v", err)
	}
}

// fakeMessage implements the subset of mqtt.Message the handler touches.
type fakeMessage struct{ payload []byte }

func (f fakeMessage) Duplicate() bool   { return false }
func (f fakeMessage) Qos() byte         { return 1 }
func (f fakeMessage) Retained() bool    { return false }
func (f fakeMessage) Topic() string     { return "sensor/data/farm1" }
func (f fakeMessage) MessageID() uint16 { return 1 }
func (f fakeMessage) Payload() []byte   { return f.payload }
func (f fakeMessage) Ack()              {}
