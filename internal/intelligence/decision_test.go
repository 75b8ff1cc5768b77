package intelligence

import (
	"reflect"
	"strings"
	"testing"

	"github.com/agrifog/agrimind/internal/model/entities"
)

func fieldState(moisture float64) entities.FieldState {
	return entities.FieldState{
		FarmID:           "farm1",
		SoilMoisturePct:  moisture,
		TemperatureC:     28,
		HumidityPct:      60,
		NDVI:             0.6,
		GrowthStage:      entities.StageVegetative,
		Thresholds:       vegBand,
		FieldAreaSqm:     1000,
		SprinklerFlowLpm: 40,
	}
}

func TestDecideRainStopsEvenOnCriticalDeficit(t *testing.T) {
	fs := fieldState(5)
	fs.RainDetected = true
	d := Decide(fs)
	if d.Action != entities.ActionStop {
		t.Fatalf("rain on dry field: action %s, want STOP", d.Action)
	}
	if d.WaterQuantityLiters != 0 {
		t.Fatalf("rain decision carries water: %.0f L", d.WaterQuantityLiters)
	}
	if d.DelayHours != 6 {
		t.Fatalf("rain hold %dh, want 6", d.DelayHours)
	}
}

func TestDecideRainForecastDelays(t *testing.T) {
	fs := fieldState(30)
	fs.RainForecast = true
	d := Decide(fs)
	if d.Action != entities.ActionDelay || d.DelayHours != 4 {
		t.Fatalf("forecast on deficit field: %s/%dh, want DELAY/4h", d.Action, d.DelayHours)
	}
}

func TestDecideCriticalDeficit(t *testing.T) {
	fs := fieldState(18)
	fs.Thresholds = entities.MoistureThresholds{CriticalLow: 35, Min: 45, Max: 75}
	d := Decide(fs)
	if d.Action != entities.ActionStart || d.Priority != entities.PriorityHigh {
		t.Fatalf("critical deficit: %s/%s, want START/HIGH", d.Action, d.Priority)
	}
	// gap 27 points over 1000 sqm at coeff 0.6 = 162 L
	if d.WaterQuantityLiters != 162 {
		t.Fatalf("water %.0f L, want 162", d.WaterQuantityLiters)
	}
	if d.IrrigationTimeMinutes != 4 {
		t.Fatalf("duration %d min, want 4", d.IrrigationTimeMinutes)
	}
	if d.DelayHours != 0 {
		t.Fatalf("start decision has delay %dh", d.DelayHours)
	}
}

func TestDecideDeficitPriorityFollowsNDVI(t *testing.T) {
	fs := fieldState(30)
	d := Decide(fs)
	if d.Action != entities.ActionStart || d.Priority != entities.PriorityMedium {
		t.Fatalf("plain deficit: %s/%s, want START/MEDIUM", d.Action, d.Priority)
	}
	// gap 10 points over 1000 sqm at coeff 0.5 = 50 L
	if d.WaterQuantityLiters != 50 {
		t.Fatalf("water %.0f L, want 50", d.WaterQuantityLiters)
	}

	fs.NDVI = 0.3
	d = Decide(fs)
	if d.Priority != entities.PriorityHigh {
		t.Fatalf("deficit with weak NDVI: priority %s, want HIGH", d.Priority)
	}
}

func TestDecideAdequateDelaysByDryingEstimate(t *testing.T) {
	fs := fieldState(55)
	d := Decide(fs)
	if d.Action != entities.ActionDelay || d.Priority != entities.PriorityLow {
		t.Fatalf("adequate moisture: %s/%s, want DELAY/LOW", d.Action, d.Priority)
	}
	want := DryingHours(55, vegBand.Min, fs.TemperatureC, fs.HumidityPct)
	if d.DelayHours != want {
		t.Fatalf("delay %dh, want drying estimate %dh", d.DelayHours, want)
	}
}

func TestDecideAdequateButLowNDVIRechecksSoon(t *testing.T) {
	fs := fieldState(55)
	fs.NDVI = 0.25
	d := Decide(fs)
	if d.Action != entities.ActionDelay || d.Priority != entities.PriorityMedium || d.DelayHours != 2 {
		t.Fatalf("adequate with poor NDVI: %s/%s/%dh, want DELAY/MEDIUM/2h", d.Action, d.Priority, d.DelayHours)
	}
	if !strings.Contains(d.Reason, "NDVI") {
		t.Fatalf("reason does not mention NDVI: %q", d.Reason)
	}
}

func TestDecideOverWateredStops(t *testing.T) {
	d := Decide(fieldState(80))
	if d.Action != entities.ActionStop || d.DelayHours != 8 {
		t.Fatalf("over-watered: %s/%dh, want STOP/8h", d.Action, d.DelayHours)
	}
}

func TestDecideIsIdempotent(t *testing.T) {
	fs := fieldState(18)
	first := Decide(fs)
	for i := 0; i < 5; i++ {
		if next := Decide(fs); !reflect.DeepEqual(first, next) {
			t.Fatalf("run %d differs: %+v vs %+v", i, first, next)
		}
	}
}

func TestDecideMinimumRunDuration(t *testing.T) {
	fs := fieldState(39.9)
	fs.SprinklerFlowLpm = 500
	d := Decide(fs)
	if d.Action != entities.ActionStart {
		t.Fatalf("hairline deficit: action %s, want START", d.Action)
	}
	if d.IrrigationTimeMinutes < 1 {
		t.Fatalf("start with %d min run", d.IrrigationTimeMinutes)
	}
}

func TestDecideReasonCarriesNumbers(t *testing.T) {
	d := Decide(fieldState(18))
	if !strings.Contains(d.Reason, "18.0") {
		t.Fatalf("reason lacks the observed moisture: %q", d.Reason)
	}
}
