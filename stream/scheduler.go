// File: stream/scheduler.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Wires the stream subsystem to the external task runtime. The stream
// package never imports task directly; it calls Block/Unblock through the
// api.Scheduler contract so the two packages stay decoupled and either can
// be tested in isolation.

package stream

import "github.com/momentics/lpel/api"

var sched api.Scheduler

// SetScheduler installs the scheduler that Read, Write, and Poll suspend
// and resume against. Must be called once during process wiring before any
// stream operation that can block.
func SetScheduler(s api.Scheduler) {
	sched = s
}

func blockTask(self api.Task, reason api.BlockReason) {
	sched.Block(self, reason)
}

func unblockTask(caller, target api.Task) {
	sched.Unblock(caller, target)
}
