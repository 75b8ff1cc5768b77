package report

import (
	"sync"

	"github.com/agrifog/agrimind/internal/model"
)

// DefaultHistoryDepth is how many recent readings are kept per farm.
const DefaultHistoryDepth = 20

// MemoryHistory keeps a bounded window of readings per farm, oldest first.
// Once the window is full the oldest entry drops off.
type MemoryHistory struct {
	mu    sync.Mutex
	depth int
	buf   map[string][]model.SensorData
}

func NewMemoryHistory(depth int) *MemoryHistory {
	if depth <= 0 {
		depth = DefaultHistoryDepth
	}
	return &MemoryHistory{depth: depth, buf: make(map[string][]model.SensorData)}
}

func (h *MemoryHistory) Push(farmID string, r model.SensorData) {
	h.mu.Lock()
	defer h.mu.Unlock()
	window := append(h.buf[farmID], r)
	if len(window) > h.depth {
		window = window[len(window)-h.depth:]
	}
	h.buf[farmID] = window
}

// Recent returns up to n readings for a farm in insertion order (oldest
// first). The returned slice is a copy.
func (h *MemoryHistory) Recent(farmID string, n int) []model.SensorData {
	h.mu.Lock()
	defer h.mu.Unlock()
	window := h.buf[farmID]
	if n > 0 && len(window) > n {
		window = window[len(window)-n:]
	}
	out := make([]model.SensorData, len(window))
	copy(out, window)
	return out
}
