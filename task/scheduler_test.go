package task

import (
	"sync"
	"testing"
	"time"

	"github.com/momentics/lpel/api"
	"github.com/momentics/lpel/internal/concurrency"
)

// TestSpawnSelfResolvesToOwnTask confirms the goroutine-id registry round
// trips: a task's own goroutine sees Self() return exactly the *T Spawn gave
// the caller.
func TestSpawnSelfResolvesToOwnTask(t *testing.T) {
	sc := NewScheduler(0, -1)
	defer sc.Close()

	done := make(chan bool, 1)
	spawned := sc.Spawn(nil, func(self api.Task) {
		done <- sc.Self().(*T) == self
	})

	if ok := <-done; !ok {
		t.Fatalf("Self() inside task did not match the api.Task passed to fn")
	}
	_ = spawned
}

// TestSelfDistinguishesConcurrentTasks spawns many tasks concurrently and
// checks each one's Self() resolves to its own handle, not a sibling's.
func TestSelfDistinguishesConcurrentTasks(t *testing.T) {
	sc := NewScheduler(0, -1)
	defer sc.Close()

	const n = 32
	var wg sync.WaitGroup
	results := make(chan bool, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		sc.Spawn(nil, func(self api.Task) {
			defer wg.Done()
			// spin a little to encourage interleaving across goroutines
			for j := 0; j < 1000; j++ {
				if sc.Self() != self {
					results <- false
					return
				}
			}
			results <- true
		})
	}
	wg.Wait()
	close(results)
	for ok := range results {
		if !ok {
			t.Fatalf("a task's Self() resolved to a different task's handle")
		}
	}
}

// TestSelfPanicsOutsideRegisteredGoroutine checks the precondition: calling
// Self() from a goroutine the scheduler never Spawn-ed must panic.
func TestSelfPanicsOutsideRegisteredGoroutine(t *testing.T) {
	sc := NewScheduler(0, -1)
	defer sc.Close()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic calling Self() from an unregistered goroutine")
		}
	}()
	sc.Self()
}

// TestBlockUnblockRoundTrip checks a blocked task resumes once Unblock is
// called with its handle, and not before.
func TestBlockUnblockRoundTrip(t *testing.T) {
	sc := NewScheduler(0, -1)
	defer sc.Close()

	resumed := make(chan struct{})
	ready := make(chan struct{})
	target := sc.Spawn(nil, func(self api.Task) {
		close(ready)
		sc.Block(self, api.BlockedOnInput)
		close(resumed)
	})

	<-ready
	select {
	case <-resumed:
		t.Fatalf("task resumed before Unblock was called")
	case <-time.After(20 * time.Millisecond):
	}

	sc.Unblock(nil, target)
	select {
	case <-resumed:
	case <-time.After(time.Second):
		t.Fatalf("task did not resume after Unblock")
	}
}

// TestUnblockBeforeBlockStillDelivers exercises the buffered-park-channel
// handoff: an Unblock that arrives before the target ever calls Block must
// still wake it once Block does run, rather than being lost.
func TestUnblockBeforeBlockStillDelivers(t *testing.T) {
	sc := NewScheduler(0, -1)
	defer sc.Close()

	resumed := make(chan struct{})
	target := sc.Spawn(nil, func(self api.Task) {
		sc.Block(self, api.BlockedOnInput)
		close(resumed)
	})

	sc.Unblock(nil, target) // may race ahead of the goroutine ever starting

	select {
	case <-resumed:
	case <-time.After(time.Second):
		t.Fatalf("task never resumed; an early Unblock was lost")
	}
}

// captureHandler adapts a func(UnblockEvent) into concurrency.EventHandler.
type captureHandler struct {
	fn func(UnblockEvent)
}

func (h captureHandler) HandleEvent(ev concurrency.Event) {
	if ue, ok := ev.Data.(UnblockEvent); ok {
		h.fn(ue)
	}
}

// TestOnUnblockNotifiesRegisteredHandler checks Unblock posts an
// UnblockEvent through the scheduler's event loop to every registered
// handler.
func TestOnUnblockNotifiesRegisteredHandler(t *testing.T) {
	sc := NewScheduler(0, -1)
	defer sc.Close()

	received := make(chan UnblockEvent, 1)
	sc.OnUnblock(captureHandler{fn: func(ev UnblockEvent) {
		received <- ev
	}})

	target := sc.Spawn(nil, func(self api.Task) {})
	sc.Unblock(nil, target)

	select {
	case ev := <-received:
		if ev.TaskID != target.ID() {
			t.Fatalf("UnblockEvent.TaskID = %d, want %d", ev.TaskID, target.ID())
		}
	case <-time.After(time.Second):
		t.Fatalf("OnUnblock handler was never invoked")
	}
}
