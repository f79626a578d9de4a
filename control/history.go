// control/history.go
// Author: momentics <momentics@gmail.com>
//
// Bounded per-stream history of monitoring events, exposed through
// Registry.History so operators can inspect the last few block/wakeup/moved
// transitions on a stream without attaching a profiler.

package control

import (
	"sync"

	"github.com/eapache/queue"
)

// HistoryEvent is one recorded stream-monitor transition.
type HistoryEvent struct {
	StreamUID uint32
	Kind      string // "open", "close", "replace", "blockon", "wakeup", "moved"
}

// EventHistory keeps, per stream, the most recent events up to a fixed
// depth, backed by github.com/eapache/queue's ring-buffered FIFO.
type EventHistory struct {
	mu    sync.Mutex
	depth int
	byUID map[uint32]*queue.Queue
}

// NewEventHistory creates a history keeping at most depth events per
// stream uid. depth <= 0 substitutes a default of 32.
func NewEventHistory(depth int) *EventHistory {
	if depth <= 0 {
		depth = 32
	}
	return &EventHistory{
		depth: depth,
		byUID: make(map[uint32]*queue.Queue),
	}
}

// Record appends an event to its stream's history, evicting the oldest
// entry once the history exceeds its configured depth.
func (h *EventHistory) Record(ev HistoryEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	q, ok := h.byUID[ev.StreamUID]
	if !ok {
		q = queue.New()
		h.byUID[ev.StreamUID] = q
	}
	q.Add(ev)
	for q.Length() > h.depth {
		q.Remove()
	}
}

// Snapshot returns a copy of the recorded events for streamUID, oldest first.
func (h *EventHistory) Snapshot(streamUID uint32) []HistoryEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	q, ok := h.byUID[streamUID]
	if !ok {
		return nil
	}
	out := make([]HistoryEvent, 0, q.Length())
	for i := 0; i < q.Length(); i++ {
		out = append(out, q.Get(i).(HistoryEvent))
	}
	return out
}
