// File: stream/poll.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Poll blocks a consumer until any stream in a Set becomes readable, then
// rotates the set so the next traversal starts just past the stream that
// woke it. The poll token is a one-shot race-free election between the
// consumer's own scan and at most one producer's Write; see Write's
// deposit-and-snapshot critical section for the other half of the handoff.

package stream

import "github.com/momentics/lpel/api"

// Poll suspends the calling consumer until at least one stream in set has
// a readable item, then returns the descriptor whose arrival unblocked it.
// Precondition: set must not be empty.
func Poll(set *Set) *Descriptor {
	if set.Empty() {
		api.PreconditionViolation("stream: Poll on an empty set")
	}
	self := set.cur.task

	// 1. Arm.
	self.PollToken().Store(1)

	// 2. Scan.
	doCtxSwitch := true
	activators := 0
	it := set.newIterator()
	for it.hasNext() {
		sd := it.Next()
		s := sd.s
		s.prodLock.Lock()
		if s.buffer.Top() != nil {
			if tok := self.PollToken().Swap(0); tok != 0 {
				doCtxSwitch = false
				self.WakeupSlot().Store(sd)
			}
			s.prodLock.Unlock()
			break
		}
		s.isPoll = true
		activators++
		s.prodLock.Unlock()
	}

	// 3. Suspend if still armed.
	if doCtxSwitch {
		blockTask(self, api.BlockedOnAnyin)
	}
	if self.PollToken().Load() != 0 {
		api.PreconditionViolation("stream: Poll resumed with a non-zero poll token")
	}

	// 4. Disarm: clear is_poll on exactly the streams the scan marked.
	dit := set.newIterator()
	for activators > 0 && dit.hasNext() {
		sd := dit.Next()
		s := sd.s
		s.prodLock.Lock()
		s.isPoll = false
		s.prodLock.Unlock()
		activators--
	}

	// 5. Return and rotate.
	wakeupSD, _ := self.WakeupSlot().Load().(*Descriptor)
	if wakeupSD == nil {
		api.PreconditionViolation("stream: Poll woke with no wakeup descriptor set")
	}
	set.rotateTo(wakeupSD)
	return wakeupSD
}
