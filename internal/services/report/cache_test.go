package report

import (
	"testing"
	"time"

	"github.com/agrifog/agrimind/internal/model"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	if _, ok := c.Get("farm1"); ok {
		t.Fatal("hit on empty cache")
	}

	c.Set("farm1", model.Report{ReportID: "r1", FarmID: "farm1"})
	got, ok := c.Get("farm1")
	if !ok || got.ReportID != "r1" {
		t.Fatalf("got %+v ok=%v", got, ok)
	}

	if _, ok := c.Get("farm2"); ok {
		t.Fatal("farms must not share entries")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	clock := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	c.Set("farm1", model.Report{ReportID: "r1"})

	clock = clock.Add(59 * time.Second)
	if _, ok := c.Get("farm1"); !ok {
		t.Fatal("entry expired before its TTL")
	}

	clock = clock.Add(time.Second)
	if _, ok := c.Get("farm1"); ok {
		t.Fatal("entry survived past its TTL")
	}
}

func TestMemoryCacheInvalidate(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	c.Set("farm1", model.Report{ReportID: "r1"})
	c.Set("farm2", model.Report{ReportID: "r2"})

	c.Invalidate("farm1")
	if _, ok := c.Get("farm1"); ok {
		t.Fatal("invalidated entry still served")
	}
	if _, ok := c.Get("farm2"); !ok {
		t.Fatal("invalidation leaked to another farm")
	}
}

func TestMemoryHistoryBounded(t *testing.T) {
	h := NewMemoryHistory(3)
	for i := 1; i <= 5; i++ {
		h.Push("farm1", model.SensorData{FarmID: "farm1", SoilMoisturePct: float64(i)})
	}

	got := h.Recent("farm1", 10)
	if len(got) != 3 {
		t.Fatalf("window holds %d readings, want 3", len(got))
	}
	for i, want := range []float64{3, 4, 5} {
		if got[i].SoilMoisturePct != want {
			t.Fatalf("window[%d] = %.0f, want %.0f (oldest first)", i, got[i].SoilMoisturePct, want)
		}
	}
}

func TestMemoryHistoryRecentLimit(t *testing.T) {
	h := NewMemoryHistory(10)
	for i := 1; i <= 6; i++ {
		h.Push("farm1", model.SensorData{SoilMoisturePct: float64(i)})
	}
	got := h.Recent("farm1", 2)
	if len(got) != 2 || got[0].SoilMoisturePct != 5 || got[1].SoilMoisturePct != 6 {
		t.Fatalf("Recent(2) = %v", got)
	}
}

func TestMemoryHistoryIsolatesFarms(t *testing.T) {
	h := NewMemoryHistory(5)
	h.Push("farm1", model.SensorData{SoilMoisturePct: 1})
	if got := h.Recent("farm2", 5); len(got) != 0 {
		t.Fatalf("farm2 sees farm1 readings: %v", got)
	}
}

func TestMemoryHistoryReturnsCopy(t *testing.T) {
	h := NewMemoryHistory(5)
	h.Push("farm1", model.SensorData{SoilMoisturePct: 1})

	got := h.Recent("farm1", 5)
	got[0].SoilMoisturePct = 99

	again := h.Recent("farm1", 5)
	if again[0].SoilMoisturePct != 1 {
		t.Fatal("Recent exposed internal storage")
	}
}
