// Implements the Client entity: an open-loop load generator that issues one
// read or write request per self-timer fire and consumes the responses the
// tables send back.

package sim

import (
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

// Client generates table accesses on a renewal process. It shares no mutable
// state with other entities; everything it exchanges travels inside request
// and response payloads.
type Client struct {
	BaseEntity
	id int

	readProbability float64
	serviceTime     float64
	interval        IntervalSampler
	target          TargetSampler
	rng             *rand.Rand

	totalAccesses int64
	totalReads    int64
	totalWrites   int64
	totalWaitTime float64

	waitTimeSig    Handle
	intervalSig    Handle
	readAccessSig  Handle
	writeAccessSig Handle
}

// newClient builds a client and registers its signals. An unrecognized table
// distribution surfaces here, before any event is scheduled.
func newClient(id int, cfg Config, rng *rand.Rand, sched *Scheduler, coll *Collector) (*Client, error) {
	target, err := NewTargetSampler(cfg.TableDistribution, cfg.LognormalM, cfg.LognormalS, cfg.NumTables, rng)
	if err != nil {
		return nil, fmt.Errorf("client %d: %w", id, err)
	}
	c := &Client{
		BaseEntity:      newBaseEntity(fmt.Sprintf("client_%d", id), sched),
		id:              id,
		readProbability: cfg.ReadProbability,
		serviceTime:     cfg.ServiceTime,
		interval:        NewExponentialInterval(cfg.Lambda, rng),
		target:          target,
		rng:             rng,
	}
	c.waitTimeSig = coll.Register(fmt.Sprintf("client_%d.waitTime", id), AggSeries)
	c.intervalSig = coll.Register(fmt.Sprintf("client_%d.accessInterval", id), AggMean)
	c.readAccessSig = coll.Register(fmt.Sprintf("client_%d.readAccess", id), AggSum)
	c.writeAccessSig = coll.Register(fmt.Sprintf("client_%d.writeAccess", id), AggSum)
	return c, nil
}

// start arms the first self-timer.
func (c *Client) start(sim *Simulator, now float64) {
	c.scheduleNextAccess(sim, now)
}

func (c *Client) scheduleNextAccess(sim *Simulator, now float64) {
	delay := c.interval.Next()
	sim.Collector.Emit(c.intervalSig, delay)
	c.own(&AccessTimerEvent{
		BaseEvent: BaseEvent{time: now + delay},
		Client:    c,
	})
}

// handleAccessTimer generates one request, sends it to the selected table,
// and rearms the timer.
func (c *Client) handleAccessTimer(sim *Simulator, now float64) {
	if c.down {
		return
	}

	target := c.target.Target()
	kind := OpWrite
	if c.rng.Float64() < c.readProbability {
		kind = OpRead
	}

	req := &Request{
		id:          sim.nextRequestID(),
		Target:      target,
		Kind:        kind,
		Origin:      c.id,
		ArrivalTime: now,
		ServiceTime: c.serviceTime,
	}
	logrus.Debugf("[t=%.6f] client %d sends %s to table %d", now, c.id, kind, target)
	sim.send(&RequestDeliveryEvent{
		BaseEvent: BaseEvent{time: now},
		Table:     sim.Tables[target],
		Request:   req,
	})

	c.scheduleNextAccess(sim, now)
}

// handleResponse records the completed access: wait time is measured from
// the request's arrival to its completion.
func (c *Client) handleResponse(sim *Simulator, resp Response, now float64) {
	if c.down {
		return
	}

	wait := now - resp.ArrivalTime
	c.totalWaitTime += wait
	c.totalAccesses++
	if resp.Kind == OpRead {
		c.totalReads++
		sim.Collector.Emit(c.readAccessSig, 1)
	} else {
		c.totalWrites++
		sim.Collector.Emit(c.writeAccessSig, 1)
	}
	sim.Collector.Emit(c.waitTimeSig, wait)

	logrus.Debugf("[t=%.6f] client %d got %s response, waited %.6f", now, c.id, resp.Kind, wait)
}

// stats reduces the client's accumulators into its share of the run result.
func (c *Client) stats(horizon float64) ClientStats {
	s := ClientStats{
		ID:            c.id,
		TotalAccesses: c.totalAccesses,
		TotalReads:    c.totalReads,
		TotalWrites:   c.totalWrites,
	}
	if c.totalAccesses > 0 {
		s.AverageWaitTime = c.totalWaitTime / float64(c.totalAccesses)
	}
	if horizon > 0 {
		s.Throughput = float64(c.totalAccesses) / horizon
	}
	return s
}
