package dedup

import (
	"testing"
	"time"
)

func TestFirstSeen(t *testing.T) {
	d := New(time.Minute, 100)
	k := Key([]byte(`{"farm_id":"farm1"}`))

	if !d.FirstSeen(k) {
		t.Fatal("fresh key reported as seen")
	}
	if d.FirstSeen(k) {
		t.Fatal("redelivered key reported as fresh")
	}
}

func TestDistinctPayloadsDistinctKeys(t *testing.T) {
	a := Key([]byte("a"))
	b := Key([]byte("b"))
	if a == b {
		t.Fatal("hash collision on distinct payloads")
	}

	d := New(time.Minute, 100)
	if !d.FirstSeen(a) || !d.FirstSeen(b) {
		t.Fatal("distinct keys interfered")
	}
}

func TestEmptyKeyAlwaysPasses(t *testing.T) {
	d := New(time.Minute, 100)
	if !d.FirstSeen("") || !d.FirstSeen("") {
		t.Fatal("empty key got deduplicated")
	}
}

func TestCapacitySweep(t *testing.T) {
	d := New(time.Nanosecond, 3)
	for i := 0; i < 10; i++ {
		d.FirstSeen(Key([]byte{byte(i)}))
	}
	time.Sleep(time.Millisecond)
	d.FirstSeen(Key([]byte("trigger sweep")))
	d.mu.Lock()
	n := len(d.seen)
	d.mu.Unlock()
	if n > 4 {
		t.Fatalf("map holds %d entries after sweep, cap is 3", n)
	}
}
