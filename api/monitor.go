// File: api/monitor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Monitoring hooks for the stream subsystem. Monitors observe stream
// lifecycle and data movement; they never gate or delay an operation and
// must be cheap and non-throwing. Callbacks are always invoked with no
// stream lock held.

package api

// StreamMode identifies which end of a stream a descriptor is bound to.
type StreamMode int

const (
	// ModeRead designates a consumer-side descriptor.
	ModeRead StreamMode = iota
	// ModeWrite designates a producer-side descriptor.
	ModeWrite
)

func (m StreamMode) String() string {
	if m == ModeWrite {
		return "write"
	}
	return "read"
}

// Monitor mints a per-descriptor observation handle whenever a task opens
// a stream. A nil Monitor means the task is not monitored; StreamOpen is
// then never called and descriptors carry a nil StreamMonitor.
type Monitor interface {
	// StreamOpen is called on Open and returns the handle that will receive
	// the rest of the callbacks for that descriptor's lifetime.
	StreamOpen(streamUID uint32, mode StreamMode) StreamMonitor
}

// StreamMonitor receives lifecycle and data-movement events for one
// stream descriptor. All methods must be safe to call with no stream
// lock held and must not block.
type StreamMonitor interface {
	// Close is called when the owning descriptor is closed.
	Close()

	// Replace is called when the descriptor's stream is replaced, naming
	// the uid of the newly installed stream.
	Replace(newUID uint32)

	// Blockon is called when the owning task is about to suspend waiting
	// on this stream (empty read or full write). Poll does not call it.
	Blockon()

	// Wakeup is called when the owning task unblocks the task waiting on
	// the other end of this stream (a blocked peer or a polling consumer).
	Wakeup()

	// Moved is called once per item that crosses the stream, after the
	// move has completed.
	Moved(item any)
}
