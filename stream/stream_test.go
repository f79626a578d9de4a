package stream

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/momentics/lpel/api"
)

// fakeTask is a minimal api.Task for tests that do not need a real scheduler.
type fakeTask struct {
	pollToken  atomic.Uint32
	wakeupSlot atomic.Value
}

func (t *fakeTask) PollToken() *atomic.Uint32 { return &t.pollToken }
func (t *fakeTask) WakeupSlot() *atomic.Value { return &t.wakeupSlot }
func (t *fakeTask) Monitor() api.Monitor      { return nil }

var _ api.Task = (*fakeTask)(nil)

// fakeScheduler parks and wakes fakeTasks on plain Go channels, enough to
// drive Read/Write/Poll's suspension points without a real task runtime.
type fakeScheduler struct {
	mu    sync.Mutex
	parks map[api.Task]chan struct{}
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{parks: make(map[api.Task]chan struct{})}
}

func (f *fakeScheduler) Self() api.Task { return nil }

func (f *fakeScheduler) Block(self api.Task, reason api.BlockReason) {
	f.mu.Lock()
	ch, ok := f.parks[self]
	if !ok {
		ch = make(chan struct{}, 1)
		f.parks[self] = ch
	}
	f.mu.Unlock()
	<-ch
}

func (f *fakeScheduler) Unblock(caller, target api.Task) {
	f.mu.Lock()
	ch, ok := f.parks[target]
	if !ok {
		ch = make(chan struct{}, 1)
		f.parks[target] = ch
	}
	f.mu.Unlock()
	select {
	case ch <- struct{}{}:
	default:
	}
}

func newTestDescriptors(capacity int) (*Stream, *Descriptor, *Descriptor) {
	sched = newFakeScheduler()
	s := Create(capacity)
	prod := &fakeTask{}
	cons := &fakeTask{}
	wsd := Open(s, api.ModeWrite, prod)
	rsd := Open(s, api.ModeRead, cons)
	return s, wsd, rsd
}

// S1 — simple pipe.
func TestS1SimplePipe(t *testing.T) {
	s, wsd, rsd := newTestDescriptors(4)
	Write(wsd, 10)
	Write(wsd, 20)
	Write(wsd, 30)
	if got := Read(rsd); got != 10 {
		t.Fatalf("first read = %v, want 10", got)
	}
	if got := Read(rsd); got != 20 {
		t.Fatalf("second read = %v, want 20", got)
	}
	if got := Read(rsd); got != 30 {
		t.Fatalf("third read = %v, want 30", got)
	}
	if s.nSem.Load() != 0 || s.eSem.Load() != 4 {
		t.Fatalf("counters at rest = (%d,%d), want (0,4)", s.nSem.Load(), s.eSem.Load())
	}
}

// S2 — producer blocks.
func TestS2ProducerBlocks(t *testing.T) {
	s, wsd, rsd := newTestDescriptors(2)
	Write(wsd, "A")
	Write(wsd, "B")

	done := make(chan struct{})
	go func() {
		Write(wsd, "C") // blocks until a read frees a slot
		close(done)
	}()

	if got := Read(rsd); got != "A" {
		t.Fatalf("read = %v, want A", got)
	}
	<-done

	if got := Read(rsd); got != "B" {
		t.Fatalf("read = %v, want B", got)
	}
	if got := Read(rsd); got != "C" {
		t.Fatalf("read = %v, want C", got)
	}
	if s.nSem.Load() != 0 || s.eSem.Load() != 2 {
		t.Fatalf("counters at rest = (%d,%d), want (0,2)", s.nSem.Load(), s.eSem.Load())
	}
}

// S3 — consumer blocks.
func TestS3ConsumerBlocks(t *testing.T) {
	_, wsd, rsd := newTestDescriptors(4)

	results := make(chan any, 1)
	go func() {
		results <- Read(rsd) // blocks: stream starts empty
	}()

	Write(wsd, "X")
	if got := <-results; got != "X" {
		t.Fatalf("read = %v, want X", got)
	}
}

func TestTryWriteOnFullReturnsErrFullWithoutMutation(t *testing.T) {
	s, wsd, _ := newTestDescriptors(1)
	Write(wsd, 1)
	before := s.buffer.Top()
	if err := TryWrite(wsd, 2); err != api.ErrFull {
		t.Fatalf("TryWrite on full = %v, want ErrFull", err)
	}
	if s.buffer.Top() != before {
		t.Fatalf("TryWrite on full mutated the buffer")
	}
}

func TestPeekIdempotent(t *testing.T) {
	_, wsd, rsd := newTestDescriptors(4)
	Write(wsd, 7)
	if Peek(rsd) != 7 {
		t.Fatalf("first Peek != 7")
	}
	if Peek(rsd) != 7 {
		t.Fatalf("second Peek != 7, Peek is not idempotent")
	}
}

func TestOpenCloseReopen(t *testing.T) {
	s, _, rsd := newTestDescriptors(4)
	Close(rsd, false)
	cons := &fakeTask{}
	rsd2 := Open(s, api.ModeRead, cons)
	if Get(rsd2) != s {
		t.Fatalf("reopened descriptor not bound to s")
	}
}

func TestDoubleOpenSameModePanics(t *testing.T) {
	s, _, _ := newTestDescriptors(4)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on double-open for reading")
		}
	}()
	Open(s, api.ModeRead, &fakeTask{})
}

func TestWriteNilItemPanics(t *testing.T) {
	_, wsd, _ := newTestDescriptors(4)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on Write(nil)")
		}
	}()
	Write(wsd, nil)
}
