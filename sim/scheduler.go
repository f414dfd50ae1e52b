// Implements the virtual-time event scheduler: a priority queue ordered by
// (fire time, insertion sequence) plus the run loop that drives the
// simulation.

package sim

import (
	"container/heap"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Scheduler maintains the pending event queue and the virtual clock. The
// clock only ever moves forward, and only the run loop moves it.
type Scheduler struct {
	clock    float64
	queue    eventHeap
	nextSeq  uint64
	executed uint64

	// Horizon is the virtual-time limit; events scheduled past it are never
	// executed. MaxEvents caps the number of executed events (0 = unlimited).
	Horizon   float64
	MaxEvents uint64
}

// NewScheduler creates a scheduler that runs until horizon, or until
// maxEvents events have fired when maxEvents > 0.
func NewScheduler(horizon float64, maxEvents uint64) *Scheduler {
	s := &Scheduler{
		Horizon:   horizon,
		MaxEvents: maxEvents,
	}
	heap.Init(&s.queue)
	return s
}

// Now returns the current virtual time.
func (s *Scheduler) Now() float64 { return s.clock }

// Executed returns the number of events fired so far.
func (s *Scheduler) Executed() uint64 { return s.executed }

// Pending returns the number of events still queued, cancelled ones included.
func (s *Scheduler) Pending() int { return s.queue.Len() }

// Schedule inserts an event keyed by its timestamp. Scheduling into the past
// is a causality violation and fails.
func (s *Scheduler) Schedule(ev Event) error {
	b := ev.base()
	if b.time < s.clock {
		return fmt.Errorf("%w: event at t=%g, clock at t=%g", ErrCausality, b.time, s.clock)
	}
	if b.fired {
		return fmt.Errorf("%w: event already fired at t=%g", ErrEventReuse, b.time)
	}
	b.cancelled = false
	s.nextSeq++
	b.seq = s.nextSeq
	heap.Push(&s.queue, ev)
	return nil
}

// Cancel removes a not-yet-fired event from consideration. It is a no-op if
// the event has already fired or was never scheduled. Used when an owning
// entity is torn down mid-run.
func (s *Scheduler) Cancel(ev Event) {
	b := ev.base()
	if b.fired {
		return
	}
	b.cancelled = true
}

// Run extracts events in (time, insertion) order, advances the clock, and
// executes each handler synchronously until the queue drains, an event would
// fire past the horizon, or the event-count limit is reached.
func (s *Scheduler) Run(sim *Simulator) {
	for s.queue.Len() > 0 {
		if s.MaxEvents > 0 && s.executed >= s.MaxEvents {
			logrus.Infof("[t=%.6f] event limit %d reached, stopping", s.clock, s.MaxEvents)
			return
		}
		ev := heap.Pop(&s.queue).(Event)
		b := ev.base()
		// A fired event here is a stale heap entry left behind when the
		// event was cancelled or rescheduled; it must not fire again.
		if b.cancelled || b.fired {
			continue
		}
		if b.time > s.Horizon {
			// Horizon reached: the event stays unfired.
			return
		}
		if b.time < s.clock {
			panic(fmt.Sprintf("scheduler: clock went backwards: event at t=%g, clock at t=%g", b.time, s.clock))
		}
		s.clock = b.time
		b.fired = true
		s.executed++
		logrus.Debugf("[t=%.6f] executing %T", s.clock, ev)
		ev.Execute(sim)
	}
}

// eventHeap orders events by fire time, breaking ties by insertion sequence
// so that simultaneous events fire in the order they were scheduled.
type eventHeap []Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	bi, bj := h[i].base(), h[j].base()
	if bi.time != bj.time {
		return bi.time < bj.time
	}
	return bi.seq < bj.seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}
