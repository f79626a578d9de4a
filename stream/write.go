// File: stream/write.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Producer-side write protocol, including the poll-token handoff that lets
// a blocked Poll wake on a single write instead of a thundering herd.

package stream

import "github.com/momentics/lpel/api"

// Write performs a blocking write of item to the stream bound to sd. If
// the stream is full, the calling task suspends until the consumer frees
// space. Preconditions: sd.mode == api.ModeWrite; item != nil.
func Write(sd *Descriptor, item any) {
	if sd.mode != api.ModeWrite {
		api.PreconditionViolation("stream: Write on a read descriptor")
	}
	if item == nil {
		api.PreconditionViolation("stream: Write of a nil item")
	}
	s := sd.s
	self := sd.task
	var pollWakeup uint32

	// quasi P(e_sem): claim a free slot.
	if s.eSem.Add(-1) == -1 {
		if sd.mon != nil {
			sd.mon.Blockon()
		}
		blockTask(self, api.BlockedOnOutput)
	}

	// Deposit and snapshot poll state atomically with respect to Poll's scan.
	s.prodLock.Lock()
	if !s.buffer.IsSpace() {
		s.prodLock.Unlock()
		api.PreconditionViolation("stream: Write found no space on stream %d after wakeup", s.uid)
	}
	s.buffer.Put(item)
	if s.isPoll {
		pollWakeup = s.consSD.task.PollToken().Swap(0)
		s.isPoll = false
	}
	s.prodLock.Unlock()

	// quasi V(n_sem): wake a blocked reader, or the single winning poller.
	if s.nSem.Add(1) == 0 {
		cons := s.consSD.task
		unblockTask(self, cons)
		if sd.mon != nil {
			sd.mon.Wakeup()
		}
	} else if pollWakeup != 0 {
		cons := s.consSD.task
		cons.WakeupSlot().Store(sd.s.consSD)
		unblockTask(self, cons)
		if sd.mon != nil {
			sd.mon.Wakeup()
		}
	}

	if sd.mon != nil {
		sd.mon.Moved(item)
	}
}

// TryWrite attempts a non-blocking write. If the stream is full, it returns
// api.ErrFull without mutating any state. Otherwise it performs Write and
// returns nil. The IsSpace check races with a concurrent Read but only in
// the direction of false negatives, which is safe.
func TryWrite(sd *Descriptor, item any) error {
	if sd.mode != api.ModeWrite {
		api.PreconditionViolation("stream: TryWrite on a read descriptor")
	}
	if !sd.s.buffer.IsSpace() {
		return api.ErrFull
	}
	Write(sd, item)
	return nil
}
