// Package dedup discards QoS1 redeliveries by remembering payload hashes for
// a short TTL.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

type Deduper struct {
	mu   sync.Mutex
	ttl  time.Duration
	cap  int
	seen map[string]time.Time // hash -> expiry
}

func New(ttl time.Duration, capacity int) *Deduper {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if capacity <= 0 {
		capacity = 10000
	}
	return &Deduper{ttl: ttl, cap: capacity, seen: make(map[string]time.Time, capacity)}
}

// Key hashes a raw payload into a dedup key.
func Key(payload []byte) string {
	h := sha256.Sum256(payload)
	return hex.EncodeToString(h[:])
}

// FirstSeen reports whether this key has not been processed within the TTL,
// recording it as seen. Expired entries are swept opportunistically when the
// map outgrows its capacity.
func (d *Deduper) FirstSeen(key string) bool {
	if key == "" {
		return true
	}
	now := time.Now()
	d.mu.Lock()
	defer d.mu.Unlock()
	if exp, ok := d.seen[key]; ok && now.Before(exp) {
		return false
	}
	d.seen[key] = now.Add(d.ttl)
	if len(d.seen) > d.cap {
		for k, exp := range d.seen {
			if now.After(exp) {
				delete(d.seen, k)
			}
			if len(d.seen) <= d.cap {
				break
			}
		}
	}
	return true
}
