// Package api
// Author: momentics
//
// Scheduler contract consumed by the stream subsystem. The stream core
// never creates, steps, or destroys tasks; it only calls Self/Block/Unblock
// and touches the three task-local fields a suspension protocol needs.

package api

import "sync/atomic"

// BlockReason names why the calling task is about to suspend.
type BlockReason int

const (
	// BlockedOnInput means Read found the stream empty.
	BlockedOnInput BlockReason = iota
	// BlockedOnOutput means Write found the stream full.
	BlockedOnOutput
	// BlockedOnAnyin means Poll found every stream in its set empty.
	BlockedOnAnyin
)

func (r BlockReason) String() string {
	switch r {
	case BlockedOnInput:
		return "blocked-on-input"
	case BlockedOnOutput:
		return "blocked-on-output"
	case BlockedOnAnyin:
		return "blocked-on-anyin"
	default:
		return "unknown"
	}
}

// Task is the minimal state the stream core needs from a scheduled task.
// Everything else about a task (stack, registers, run queue placement) is
// owned by the scheduler implementation and is invisible here.
type Task interface {
	// PollToken is the atomic 0/1 flag arbitrating a single Poll wakeup.
	PollToken() *atomic.Uint32

	// WakeupSlot holds the descriptor that caused the task's most recent
	// wakeup from Poll. It is written only by the winner of a poll token
	// race and read only by the task itself after resuming. Always holds
	// a concrete *stream.Descriptor once set; the api package stays
	// decoupled from the stream package by typing it as atomic.Value.
	WakeupSlot() *atomic.Value

	// Monitor returns the task's opaque monitoring handle, or nil.
	Monitor() Monitor
}

// Scheduler is the external task runtime the stream core calls into. All
// three methods are safe to call from any worker.
type Scheduler interface {
	// Self returns the task currently running on the calling worker.
	Self() Task

	// Block transitions the calling task to Blocked(reason) and returns
	// only after some other task calls Unblock naming it as target.
	Block(self Task, reason BlockReason)

	// Unblock marks target Ready without preempting caller. caller may be
	// nil when called from a context with no current task (e.g. a pure
	// producer worker that never blocks itself).
	Unblock(caller Task, target Task)
}
