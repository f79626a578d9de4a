// control/monitor.go
// Author: momentics <momentics@gmail.com>
//
// Registry implements api.Monitor, minting per-descriptor
// api.StreamMonitor handles that feed process-wide event counters (exposed
// as DebugProbes probes), a bounded per-stream EventHistory (read through
// History), and a process-wide recent-events feed (DrainRecent). The
// MetricsRegistry returned by Stats records each opened stream's mode.

package control

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/momentics/lpel/api"
	"github.com/momentics/lpel/pool"
)

// recentCapacity bounds the process-wide cross-stream event feed. Must be a
// power of two; pool.BufferRing panics otherwise.
const recentCapacity = 1024

// Registry is the process-wide monitoring and control surface. It
// implements api.Monitor and api.Control.
type Registry struct {
	metrics *MetricsRegistry
	debug   *DebugProbes
	history *EventHistory
	recent  *pool.BufferRing[HistoryEvent]
	// recentMu serialises access to recent, a single-producer/
	// single-consumer ring fed from every stream's monitor.
	recentMu sync.Mutex

	openCount, closeCount, blockCount, wakeupCount, movedCount atomic.Int64

	cfg       map[string]any
	reloadFns []func()
}

// NewRegistry creates a Registry with its own metrics, debug probes, and
// bounded event history, and registers the platform-specific debug probes.
func NewRegistry(historyDepth int) *Registry {
	r := &Registry{
		metrics: NewMetricsRegistry(),
		debug:   NewDebugProbes(),
		history: NewEventHistory(historyDepth),
		recent:  pool.NewRingBuffer[HistoryEvent](recentCapacity),
		cfg:     make(map[string]any),
	}
	RegisterPlatformProbes(r.debug)
	r.debug.RegisterProbe("lpel.stream.opens", func() any { return r.openCount.Load() })
	r.debug.RegisterProbe("lpel.stream.closes", func() any { return r.closeCount.Load() })
	r.debug.RegisterProbe("lpel.stream.blocks", func() any { return r.blockCount.Load() })
	r.debug.RegisterProbe("lpel.stream.wakeups", func() any { return r.wakeupCount.Load() })
	r.debug.RegisterProbe("lpel.stream.moved", func() any { return r.movedCount.Load() })
	r.debug.RegisterProbe("lpel.recent.pending", func() any { return r.recent.Len() })
	return r
}

// DrainRecent pops up to max events from the process-wide cross-stream feed,
// oldest first. Unlike History, this is destructive: each event is returned
// at most once across all callers. Intended for a tailing consumer (a log
// shipper, a debug endpoint) rather than repeated inspection.
func (r *Registry) DrainRecent(max int) []HistoryEvent {
	out := make([]HistoryEvent, 0, max)
	r.recentMu.Lock()
	defer r.recentMu.Unlock()
	for i := 0; i < max; i++ {
		ev, ok := r.recent.Dequeue()
		if !ok {
			break
		}
		out = append(out, ev)
	}
	return out
}

// record appends ev to both the per-stream bounded history and the
// process-wide recent-events ring, dropping the ring push silently if the
// ring is momentarily full — diagnostics never gate stream progress.
func (r *Registry) record(ev HistoryEvent) {
	r.history.Record(ev)
	r.recentMu.Lock()
	r.recent.Enqueue(ev)
	r.recentMu.Unlock()
}

// History returns the event history for streamUID, oldest first.
func (r *Registry) History(streamUID uint32) []HistoryEvent {
	return r.history.Snapshot(streamUID)
}

// StreamOpen implements api.Monitor.
func (r *Registry) StreamOpen(streamUID uint32, mode api.StreamMode) api.StreamMonitor {
	r.openCount.Add(1)
	r.record(HistoryEvent{StreamUID: streamUID, Kind: "open"})
	r.metrics.Set(fmt.Sprintf("stream.%d.mode", streamUID), mode.String())
	return &streamMonitor{reg: r, uid: streamUID}
}

var _ api.Monitor = (*Registry)(nil)

// streamMonitor implements api.StreamMonitor for one descriptor.
type streamMonitor struct {
	reg *Registry
	uid uint32
}

func (m *streamMonitor) Close() {
	m.reg.closeCount.Add(1)
	m.reg.record(HistoryEvent{StreamUID: m.uid, Kind: "close"})
}

func (m *streamMonitor) Replace(newUID uint32) {
	m.reg.record(HistoryEvent{StreamUID: m.uid, Kind: "replace"})
	m.uid = newUID
}

func (m *streamMonitor) Blockon() {
	m.reg.blockCount.Add(1)
	m.reg.record(HistoryEvent{StreamUID: m.uid, Kind: "blockon"})
}

func (m *streamMonitor) Wakeup() {
	m.reg.wakeupCount.Add(1)
	m.reg.record(HistoryEvent{StreamUID: m.uid, Kind: "wakeup"})
}

func (m *streamMonitor) Moved(item any) {
	m.reg.movedCount.Add(1)
	m.reg.record(HistoryEvent{StreamUID: m.uid, Kind: "moved"})
}

var _ api.StreamMonitor = (*streamMonitor)(nil)

// GetConfig implements api.Control.
func (r *Registry) GetConfig() map[string]any {
	out := make(map[string]any, len(r.cfg))
	for k, v := range r.cfg {
		out[k] = v
	}
	return out
}

// SetConfig implements api.Control.
func (r *Registry) SetConfig(cfg map[string]any) error {
	for k, v := range cfg {
		r.cfg[k] = v
	}
	for _, fn := range r.reloadFns {
		fn()
	}
	return nil
}

// Stats implements api.Control.
func (r *Registry) Stats() map[string]any {
	return r.metrics.GetSnapshot()
}

// OnReload implements api.Control.
func (r *Registry) OnReload(fn func()) {
	r.reloadFns = append(r.reloadFns, fn)
}

// RegisterDebugProbe implements api.Control.
func (r *Registry) RegisterDebugProbe(name string, fn func() any) {
	r.debug.RegisterProbe(name, fn)
}

var _ api.Control = (*Registry)(nil)
