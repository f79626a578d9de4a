// File: task/task.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// T is the concrete task the scheduler manages: a poll token, a wakeup
// slot, an opaque monitor handle, and a park channel used to implement
// Block/Unblock as a parked-goroutine handoff rather than a true stackful
// context switch (see api.Scheduler for the contract these fields serve).

package task

import (
	"sync/atomic"

	"github.com/momentics/lpel/api"
)

// State is the task's coarse scheduling state.
type State int32

const (
	Ready State = iota
	Running
	Blocked
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Blocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// T is a scheduled task. It implements api.Task.
type T struct {
	id         uint64
	pollToken  atomic.Uint32
	wakeupSlot atomic.Value
	mon        api.Monitor

	state  atomic.Int32 // State
	reason api.BlockReason
	park   chan struct{}
}

var taskSeq atomic.Uint64

func newTask(mon api.Monitor) *T {
	t := &T{
		id:   taskSeq.Add(1),
		mon:  mon,
		park: make(chan struct{}, 1),
	}
	t.state.Store(int32(Ready))
	return t
}

// ID returns the task's process-unique identifier.
func (t *T) ID() uint64 { return t.id }

// State returns the task's current coarse scheduling state.
func (t *T) State() State { return State(t.state.Load()) }

// BlockReason returns why the task last suspended. Meaningful only while
// State() == Blocked.
func (t *T) BlockReason() api.BlockReason { return t.reason }

// PollToken implements api.Task.
func (t *T) PollToken() *atomic.Uint32 { return &t.pollToken }

// WakeupSlot implements api.Task.
func (t *T) WakeupSlot() *atomic.Value { return &t.wakeupSlot }

// Monitor implements api.Task.
func (t *T) Monitor() api.Monitor { return t.mon }

var _ api.Task = (*T)(nil)
