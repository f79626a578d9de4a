// File: stream/stream.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stream creation, open/close/replace and descriptor lifecycle.

package stream

import (
	"sync"
	"sync/atomic"

	"github.com/momentics/lpel/api"
	"github.com/momentics/lpel/pool"
)

// defaultCapacity substitutes for Create(0).
const defaultCapacity = 16

var streamSeq atomic.Uint32

var descriptorPool = pool.NewSyncPool(func() *Descriptor { return &Descriptor{} })

// Descriptor is a task's handle for one end of a Stream. It is the only
// object a task manipulates after opening a stream.
type Descriptor struct {
	task api.Task
	s    *Stream
	mode api.StreamMode
	next *Descriptor // intrusive link used by Set
	mon  api.StreamMonitor
}

// Mode reports whether sd is bound for reading or writing.
func (sd *Descriptor) Mode() api.StreamMode { return sd.mode }

// Stream is a bounded, unidirectional single-producer/single-consumer
// communication channel.
type Stream struct {
	buffer   *ringBuffer
	uid      uint32
	prodLock sync.Mutex
	isPoll   bool // guarded by prodLock
	prodSD   *Descriptor
	consSD   *Descriptor
	nSem     atomic.Int64 // filled - waiters
	eSem     atomic.Int64 // free - waiters
}

// UID returns the stream's process-unique identifier.
func (s *Stream) UID() uint32 { return s.uid }

// Create allocates a stream with the given buffer capacity. size == 0
// substitutes defaultCapacity; negative sizes are a programming error.
func Create(size int) *Stream {
	if size < 0 {
		api.PreconditionViolation("stream: negative capacity %d", size)
	}
	if size == 0 {
		size = defaultCapacity
	}
	s := &Stream{
		buffer: newRingBuffer(size),
		uid:    streamSeq.Add(1),
	}
	s.eSem.Store(int64(size))
	return s
}

// Destroy frees a stream. Precondition: the stream has no bound descriptors.
func Destroy(s *Stream) {
	if s.prodSD != nil || s.consSD != nil {
		api.PreconditionViolation("stream: destroy of stream %d with a bound descriptor", s.uid)
	}
}

// Open binds self to s in the given mode and returns a fresh descriptor.
// Precondition: no descriptor of that mode is already bound to s.
func Open(s *Stream, mode api.StreamMode, self api.Task) *Descriptor {
	sd := descriptorPool.Get()
	sd.task = self
	sd.s = s
	sd.mode = mode
	sd.next = nil
	sd.mon = nil
	if self != nil && self.Monitor() != nil {
		sd.mon = self.Monitor().StreamOpen(s.uid, mode)
	}
	switch mode {
	case api.ModeRead:
		if s.consSD != nil {
			api.PreconditionViolation("stream: stream %d already open for reading", s.uid)
		}
		s.consSD = sd
	case api.ModeWrite:
		if s.prodSD != nil {
			api.PreconditionViolation("stream: stream %d already open for writing", s.uid)
		}
		s.prodSD = sd
	}
	return sd
}

// Close releases sd. If destroy is true, the bound stream is destroyed as
// well — valid only once both its descriptors have been released.
func Close(sd *Descriptor, destroy bool) {
	if sd.mon != nil {
		sd.mon.Close()
	}
	switch sd.mode {
	case api.ModeRead:
		sd.s.consSD = nil
	case api.ModeWrite:
		sd.s.prodSD = nil
	}
	s := sd.s
	sd.s = nil
	sd.task = nil
	sd.mon = nil
	descriptorPool.Put(sd)
	if destroy {
		Destroy(s)
	}
}

// Replace destroys sd's current stream and rebinds sd to snew, which must
// not already be open by any task. sd keeps its identity and its place in
// any containing Set.
func Replace(sd *Descriptor, snew *Stream) {
	if sd.mode != api.ModeRead {
		api.PreconditionViolation("stream: Replace called on a write descriptor")
	}
	if snew.consSD != nil {
		api.PreconditionViolation("stream: Replace target stream %d already open for reading", snew.uid)
	}
	old := sd.s
	if old.prodSD != nil {
		api.PreconditionViolation("stream: Replace of stream %d with a bound producer", old.uid)
	}
	old.consSD = nil
	Destroy(old)
	sd.s = snew
	snew.consSD = sd
	if sd.mon != nil {
		sd.mon.Replace(snew.uid)
	}
}

// Get returns the stream currently bound to sd.
func Get(sd *Descriptor) *Stream { return sd.s }

// Peek performs a non-blocking, non-consuming read: the top item, or nil
// if the stream is empty. Precondition: sd.mode == api.ModeRead.
func Peek(sd *Descriptor) any {
	if sd.mode != api.ModeRead {
		api.PreconditionViolation("stream: Peek on a write descriptor")
	}
	return sd.s.buffer.Top()
}
