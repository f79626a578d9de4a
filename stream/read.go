// File: stream/read.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Consumer-side read protocol.

package stream

import "github.com/momentics/lpel/api"

// Read performs a blocking, consuming read from the stream bound to sd. If
// the stream is empty, the calling task suspends until a producer writes
// an item. Precondition: sd.mode == api.ModeRead.
func Read(sd *Descriptor) any {
	if sd.mode != api.ModeRead {
		api.PreconditionViolation("stream: Read on a write descriptor")
	}
	s := sd.s
	self := sd.task

	// quasi P(n_sem): claim a filled slot.
	if s.nSem.Add(-1) == -1 {
		if sd.mon != nil {
			sd.mon.Blockon()
		}
		blockTask(self, api.BlockedOnInput)
	}

	item := s.buffer.Top()
	if item == nil {
		api.PreconditionViolation("stream: Read found an empty buffer on stream %d after wakeup", s.uid)
	}
	s.buffer.Pop()

	// quasi V(e_sem): release a free slot.
	if s.eSem.Add(1) == 0 {
		prod := s.prodSD.task
		unblockTask(self, prod)
		if sd.mon != nil {
			sd.mon.Wakeup()
		}
	}

	if sd.mon != nil {
		sd.mon.Moved(item)
	}
	return item
}
