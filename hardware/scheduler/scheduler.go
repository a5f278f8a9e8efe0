// Package scheduler implements the cycle scheduler: a
// single sorted event queue that advances the emulator's 64-bit tick
// counter and dispatches event handlers in fire_tick order, ties broken
// by insertion sequence.
//
// Peripherals here are advanced through a shared priority queue rather
// than stepped directly cycle by cycle, so this package is built
// directly on the standard library's container/heap, which is the
// idiomatic Go tool for exactly this shape of problem; see DESIGN.md.
package scheduler

import "container/heap"

// Tick is the emulator's fundamental time unit: one ARM7 cycle, per
// hardware/clocks.
type Tick uint64

// Kind identifies what an event does when it fires. Components define
// their own Kind values in their own packages (DMA, timers, IPC, ...);
// the scheduler only ever needs to compare and invoke them.
type Kind int

// Handler is invoked when an event fires. now is the tick the event
// fired at (always equal to the event's FireTick). The handler may
// schedule successor events, including re-arming itself.
type Handler func(s *Scheduler, now Tick, param uint32)

// Handle is returned by Schedule and passed to Cancel. It identifies an
// event uniquely for the lifetime of the scheduler.
type Handle uint64

type event struct {
	fireTick Tick
	seq      uint64
	handle   Handle
	kind     Kind
	param    uint32
	handler  Handler
	dead     bool
}

// eventHeap implements container/heap.Interface, ordered by fireTick
// then by insertion sequence (seq) so that two events scheduled for the
// same tick fire in the order they were submitted.
type eventHeap []*event

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].fireTick != h[j].fireTick {
		return h[i].fireTick < h[j].fireTick
	}
	return h[i].seq < h[j].seq
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x interface{}) {
	*h = append(*h, x.(*event))
}
func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Scheduler owns the event heap and the current tick. It is not safe
// for concurrent use: the emulator runs on a single thread, and
// the scheduler is that thread's sole notion of "what happens next".
type Scheduler struct {
	heap    eventHeap
	now     Tick
	nextSeq uint64
	nextHdl Handle
	byHdl   map[Handle]*event
}

// New returns a Scheduler with an empty queue at tick 0.
func New() *Scheduler {
	s := &Scheduler{byHdl: make(map[Handle]*event)}
	heap.Init(&s.heap)
	return s
}

// Now returns the current tick.
func (s *Scheduler) Now() Tick { return s.now }

// Schedule inserts an event that will fire at fireTick, invoking handler
// with param. Scheduling with fireTick < Now() is permitted and the
// event fires on the very next RunUntil call -- this is used by
// "zero-delay" peripherals.
func (s *Scheduler) Schedule(fireTick Tick, kind Kind, param uint32, handler Handler) Handle {
	s.nextHdl++
	e := &event{
		fireTick: fireTick,
		seq:      s.nextSeq,
		handle:   s.nextHdl,
		kind:     kind,
		param:    param,
		handler:  handler,
	}
	s.nextSeq++
	heap.Push(&s.heap, e)
	s.byHdl[e.handle] = e
	return e.handle
}

// Cancel marks the event dead; it is removed lazily the next time it
// would otherwise be popped. Idempotent: cancelling an unknown or
// already-fired handle is a no-op.
func (s *Scheduler) Cancel(h Handle) {
	e, ok := s.byHdl[h]
	if !ok {
		return
	}
	e.dead = true
	delete(s.byHdl, h)
}

// Pending reports whether handle refers to a live (not yet fired, not
// cancelled) event.
func (s *Scheduler) Pending(h Handle) bool {
	_, ok := s.byHdl[h]
	return ok
}

// RunUntil repeatedly pops events with fireTick <= horizon, advancing
// now to each event's fireTick before invoking its handler, then
// advances now the rest of the way to horizon. advance is called for
// every inter-event interval (including the final one up to horizon)
// with the tick range [from, to) the CPUs must be interpreted through
// before the next event (or the horizon) is reached; it is the caller's
// hook for "advance whichever CPU is behind".
func (s *Scheduler) RunUntil(horizon Tick, advance func(from, to Tick)) {
	for s.heap.Len() > 0 && s.heap[0].fireTick <= horizon {
		e := heap.Pop(&s.heap).(*event)
		if e.dead {
			continue
		}
		delete(s.byHdl, e.handle)

		if e.fireTick > s.now {
			advance(s.now, e.fireTick)
		}
		s.now = e.fireTick
		e.handler(s, s.now, e.param)
	}

	if horizon > s.now {
		advance(s.now, horizon)
		s.now = horizon
	}
}

// Reset drops every scheduled event and resets the tick to 0. Used at
// console reset; outstanding events are discarded
// cancellation semantics.
func (s *Scheduler) Reset() {
	s.heap = s.heap[:0]
	s.byHdl = make(map[Handle]*event)
	s.now = 0
	s.nextSeq = 0
	s.nextHdl = 0
}

// PendingKinds returns the kind of every live event, in heap order (not
// fire order), for use by savestate re-arming ("on load,
// the scheduler queue is reconstructed by asking each component to
// re-arm its outstanding events").
func (s *Scheduler) PendingKinds() []Kind {
	kinds := make([]Kind, 0, len(s.heap))
	for _, e := range s.heap {
		if !e.dead {
			kinds = append(kinds, e.kind)
		}
	}
	return kinds
}
