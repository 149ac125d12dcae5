package telemetry

import (
	"github.com/diwise/iot-tamper-dashboard/pkg/types"
)

const DefaultHistorySize int = 50

// History is an append-only sequence of readings that keeps at most capacity
// entries, dropping the oldest first. It is owned by a single goroutine.
type History struct {
	buffer   []types.SensorReading
	capacity int
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}

	return &History{
		buffer:   make([]types.SensorReading, 0, capacity),
		capacity: capacity,
	}
}

func (h *History) Add(r types.SensorReading) {
	if len(h.buffer) >= h.capacity {
		h.buffer = append(h.buffer[:0], h.buffer[1:]...)
	}
	h.buffer = append(h.buffer, r)
}

// Recent returns a copy of the last count readings in arrival order. A count
// outside (0, Len] returns everything.
func (h *History) Recent(count int) []types.SensorReading {
	if count <= 0 || count > len(h.buffer) {
		count = len(h.buffer)
	}

	result := make([]types.SensorReading, count)
	copy(result, h.buffer[len(h.buffer)-count:])
	return result
}

func (h *History) All() []types.SensorReading {
	return h.Recent(0)
}

func (h *History) Len() int {
	return len(h.buffer)
}

func (h *History) Cap() int {
	return h.capacity
}

func (h *History) Reset() {
	h.buffer = h.buffer[:0]
}
