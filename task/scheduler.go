// File: task/scheduler.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Scheduler implements api.Scheduler atop a CPU-pinned worker pool
// (internal/concurrency.Executor, used here only to size and pin the
// process's OS threads, not to run task steps) and a park-channel handoff
// for Block/Unblock. Each spawned task runs on its own dedicated goroutine
// for its entire lifetime; suspending it parks that goroutine in place,
// which is a faithful enough rendition of LPEL's cooperative suspension
// for a runtime that hands scheduling to the Go runtime instead of to a
// user-space dispatcher (see SPEC_FULL.md §9).

package task

import (
	"sync"

	"github.com/momentics/lpel/api"
	"github.com/momentics/lpel/internal/concurrency"
)

// UnblockEvent is posted to the scheduler's notification loop every time
// Unblock fires, so monitoring code can observe wakeups off the hot path.
type UnblockEvent struct {
	TaskID uint64
	Reason api.BlockReason
}

// Scheduler is the concrete api.Scheduler implementation.
type Scheduler struct {
	exec     *concurrency.Executor
	notify   *concurrency.EventLoop
	postMu   sync.Mutex // serialises Post: notify's queue is single-producer
	registry sync.Map   // goroutine id (int64) -> *T
}

// NewScheduler creates a scheduler with numWorkers CPU-pinned OS threads
// reserved starting at logical CPU baseCPU (-1 to leave them unpinned).
// The worker pool backs ancillary computational work submitted through
// Executor(); task goroutines themselves are spawned directly via Spawn.
func NewScheduler(numWorkers, baseCPU int) *Scheduler {
	sc := &Scheduler{
		exec:   concurrency.NewExecutor(numWorkers, baseCPU),
		notify: concurrency.NewEventLoop(32, 1024),
	}
	go sc.notify.Run()
	return sc
}

// Executor exposes the scheduler's CPU-pinned worker pool for dispatching
// plain computational work alongside the cooperative task graph.
func (sc *Scheduler) Executor() *concurrency.Executor { return sc.exec }

// OnUnblock registers a handler invoked with an UnblockEvent payload every
// time a task is unblocked, batched through the scheduler's event loop.
func (sc *Scheduler) OnUnblock(h concurrency.EventHandler) {
	sc.notify.RegisterHandler(h)
}

// Close shuts the scheduler down: stops the notification loop and the
// worker pool. Tasks still parked on a park channel are left as-is; the
// caller is responsible for having unblocked or abandoned them first.
func (sc *Scheduler) Close() {
	sc.notify.Stop()
	sc.exec.Close()
}

// Spawn starts a new task running fn on its own goroutine and returns its
// handle. fn receives self directly so it never strictly needs Self(),
// though Self() also resolves correctly from anywhere in fn's call tree.
func (sc *Scheduler) Spawn(mon api.Monitor, fn func(self api.Task)) *T {
	t := newTask(mon)
	go func() {
		id := goroutineID()
		sc.registry.Store(id, t)
		defer sc.registry.Delete(id)
		t.state.Store(int32(Running))
		fn(t)
	}()
	return t
}

// Self implements api.Scheduler.
func (sc *Scheduler) Self() api.Task {
	id := goroutineID()
	v, ok := sc.registry.Load(id)
	if !ok {
		api.PreconditionViolation("task: Self() called from a goroutine with no registered task")
	}
	return v.(*T)
}

// Block implements api.Scheduler.
func (sc *Scheduler) Block(self api.Task, reason api.BlockReason) {
	t := self.(*T)
	t.reason = reason
	t.state.Store(int32(Blocked))
	<-t.park
	t.state.Store(int32(Running))
}

// Unblock implements api.Scheduler. Safe to call from any goroutine.
func (sc *Scheduler) Unblock(caller, target api.Task) {
	t := target.(*T)
	t.state.Store(int32(Ready))
	select {
	case t.park <- struct{}{}:
	default:
		// already has a pending wakeup queued; Block will consume it once.
	}
	sc.postMu.Lock()
	sc.notify.Post(concurrency.Event{Data: UnblockEvent{TaskID: t.id, Reason: t.reason}})
	sc.postMu.Unlock()
}

var _ api.Scheduler = (*Scheduler)(nil)
