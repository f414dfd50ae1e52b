// Implements the Table entity: a readers-writer resource with FCFS fairness.
// All pending requests wait in one arrival-ordered queue; admission scans
// from the head and stops the moment a write cannot proceed, so nothing that
// arrived after a pending write can overtake it.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Table serves read and write requests under readers-writer mutual
// exclusion: any number of concurrent readers, or exactly one writer, never
// both. Each table owns its queue and state exclusively.
type Table struct {
	BaseEntity
	id int

	queue         []*Request
	activeReaders int
	writeActive   bool
	inFlight      map[uint64]*Request

	arrivals   int64
	admissions int64

	totalServed  int64
	readsServed  int64
	writesServed int64

	maxQueueLength     int
	queueLengthSum     float64
	queueLengthSamples int64
	totalWaitingTime   float64

	busySince     float64
	totalBusyTime float64

	queueLengthSig Handle
	waitingTimeSig Handle
}

func newTable(id int, sched *Scheduler, coll *Collector) *Table {
	t := &Table{
		BaseEntity: newBaseEntity(fmt.Sprintf("table_%d", id), sched),
		id:         id,
		inFlight:   make(map[uint64]*Request),
	}
	t.queueLengthSig = coll.Register(fmt.Sprintf("table_%d.queueLength", id), AggSeries)
	t.waitingTimeSig = coll.Register(fmt.Sprintf("table_%d.waitingTime", id), AggSeries)
	return t
}

// handleArrival appends the request to the pending queue in arrival order,
// samples the queue length, and runs an admission pass.
func (t *Table) handleArrival(sim *Simulator, req *Request, now float64) {
	if t.down {
		return
	}

	t.queue = append(t.queue, req)
	t.arrivals++

	qlen := len(t.queue)
	if qlen > t.maxQueueLength {
		t.maxQueueLength = qlen
	}
	t.queueLengthSum += float64(qlen)
	t.queueLengthSamples++
	sim.Collector.Emit(t.queueLengthSig, float64(qlen))

	logrus.Debugf("[t=%.6f] table %d received %s from client %d, queue=%d",
		now, t.id, req.Kind, req.Origin, qlen)

	t.processQueue(sim, now)
}

// processQueue is the admission pass, run after every arrival and every
// completion. It scans from the queue head: consecutive reads are admitted
// together while no writer is active; a write is admitted only once all
// readers have drained, and once a write sits at the head nothing behind it
// makes progress until it is served.
func (t *Table) processQueue(sim *Simulator, now float64) {
	if t.writeActive {
		return
	}

	for len(t.queue) > 0 {
		head := t.queue[0]

		if head.Kind == OpRead {
			t.queue = t.queue[1:]
			t.startService(sim, head, now)
			continue
		}

		// Head is a write: it needs exclusive access, and it blocks
		// everything queued behind it either way.
		if t.activeReaders == 0 {
			t.queue = t.queue[1:]
			t.startService(sim, head, now)
		}
		break
	}
}

// startService admits the request: records its queue wait, updates the
// reader/writer state, and schedules the completion event that owns the
// request until it fires.
func (t *Table) startService(sim *Simulator, req *Request, now float64) {
	wait := now - req.ArrivalTime
	t.totalWaitingTime += wait
	sim.Collector.Emit(t.waitingTimeSig, wait)

	wasBusy := t.activeReaders > 0 || t.writeActive
	if req.Kind == OpRead {
		t.activeReaders++
	} else {
		t.writeActive = true
	}
	t.assertExclusion()
	if !wasBusy {
		t.busySince = now
	}

	t.inFlight[req.id] = req
	t.admissions++

	t.own(&ServiceDoneEvent{
		BaseEvent: BaseEvent{time: now + req.ServiceTime},
		Table:     t,
		Request:   req,
	})

	logrus.Debugf("[t=%.6f] table %d started %s for client %d (waited %.6f, readers=%d)",
		now, t.id, req.Kind, req.Origin, wait, t.activeReaders)
}

// handleServiceDone completes an admitted request: dispatches exactly one
// response to the origin client, releases the reader/writer state, and runs
// the next admission pass.
func (t *Table) handleServiceDone(sim *Simulator, ev *ServiceDoneEvent, now float64) {
	t.release(ev)
	req := ev.Request

	if _, ok := t.inFlight[req.id]; !ok {
		panic(fmt.Sprintf("table %d: completion for %s with no matching in-flight entry", t.id, req))
	}
	delete(t.inFlight, req.id)

	sim.send(&ResponseDeliveryEvent{
		BaseEvent: BaseEvent{time: now},
		Client:    sim.Clients[req.Origin],
		Response:  Response{Kind: req.Kind, ArrivalTime: req.ArrivalTime},
	})

	t.totalServed++
	if req.Kind == OpRead {
		t.readsServed++
		t.activeReaders--
		if t.activeReaders < 0 {
			panic(fmt.Sprintf("table %d: activeReaders went negative", t.id))
		}
	} else {
		t.writesServed++
		t.writeActive = false
	}

	logrus.Debugf("[t=%.6f] table %d finished %s for client %d", now, t.id, req.Kind, req.Origin)

	if t.activeReaders == 0 && !t.writeActive {
		t.totalBusyTime += now - t.busySince
		t.busySince = now
	}

	t.processQueue(sim, now)
}

func (t *Table) assertExclusion() {
	if t.activeReaders > 0 && t.writeActive {
		panic(fmt.Sprintf("table %d: %d active readers while a write is active", t.id, t.activeReaders))
	}
}

// finalize closes an open busy period at the end of the run.
func (t *Table) finalize(end float64) {
	if t.activeReaders > 0 || t.writeActive {
		t.totalBusyTime += end - t.busySince
		t.busySince = end
	}
}

// stats reduces the table's accumulators into its share of the run result.
func (t *Table) stats(horizon float64) TableStats {
	s := TableStats{
		ID:             t.id,
		TotalServed:    t.totalServed,
		ReadsServed:    t.readsServed,
		WritesServed:   t.writesServed,
		MaxQueueLength: t.maxQueueLength,
	}
	if t.queueLengthSamples > 0 {
		s.AverageQueueLength = t.queueLengthSum / float64(t.queueLengthSamples)
	}
	if t.totalServed > 0 {
		s.AverageWaitingTime = t.totalWaitingTime / float64(t.totalServed)
	}
	if horizon > 0 {
		s.Utilization = t.totalBusyTime / horizon
	}
	return s
}
