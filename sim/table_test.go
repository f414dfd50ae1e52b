package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioConfig is a single-client single-table setup. Tests built on it
// never arm the client's timer; requests are injected by hand.
func scenarioConfig() Config {
	return Config{
		NumTables:         1,
		NumClients:        1,
		Lambda:            1.0,
		ReadProbability:   0.5,
		ServiceTime:       1.0,
		TableDistribution: DistUniform,
		Horizon:           100,
		Seed:              1,
	}
}

// inject schedules the delivery of a hand-built request at the given time.
func inject(t *testing.T, s *Simulator, at float64, kind OpKind, serviceTime float64) {
	t.Helper()
	req := &Request{
		id:          s.nextRequestID(),
		Target:      0,
		Kind:        kind,
		Origin:      0,
		ArrivalTime: at,
		ServiceTime: serviceTime,
	}
	err := s.Scheduler.Schedule(&RequestDeliveryEvent{
		BaseEvent: BaseEvent{time: at},
		Table:     s.Tables[0],
		Request:   req,
	})
	require.NoError(t, err)
}

func runScenario(t *testing.T, build func(s *Simulator)) *Simulator {
	t.Helper()
	s, err := newSimulator(scenarioConfig())
	require.NoError(t, err)
	build(s)
	s.Scheduler.Run(s)
	return s
}

// assertSeries compares observation series within floating-point tolerance.
func assertSeries(t *testing.T, want, got []float64, name string) {
	t.Helper()
	require.Len(t, got, len(want), "%s length", name)
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9, "%s[%d]", name, i)
	}
}

// A read arrives at t=0 (S=1.0), a write at t=0.1. The write must not start
// before the read completes at t=1.0, and completes at t=2.0.
func TestTable_WriteWaitsForActiveRead(t *testing.T) {
	s := runScenario(t, func(s *Simulator) {
		inject(t, s, 0.0, OpRead, 1.0)
		inject(t, s, 0.1, OpWrite, 1.0)
	})

	signals := s.Collector.Reduce()
	// Admission waits: read at arrival, write held until t=1.0.
	assertSeries(t, []float64{0.0, 0.9}, signals["table_0.waitingTime"].Series, "admission waits")
	// Completion waits seen by the client: read 1.0, write 2.0-0.1.
	assertSeries(t, []float64{1.0, 1.9}, signals["client_0.waitTime"].Series, "client waits")
	assert.InDelta(t, 2.0, s.Scheduler.Now(), 1e-9)

	table := s.Tables[0]
	assert.Equal(t, int64(2), table.totalServed)
	assert.Equal(t, int64(1), table.readsServed)
	assert.Equal(t, int64(1), table.writesServed)
}

// Two reads arrive at t=0 and t=0.05 (S=1.0 each). Both are admitted
// concurrently; the second read is not blocked by the first.
func TestTable_ConcurrentReads(t *testing.T) {
	s := runScenario(t, func(s *Simulator) {
		inject(t, s, 0.0, OpRead, 1.0)
		inject(t, s, 0.05, OpRead, 1.0)
	})

	signals := s.Collector.Reduce()
	assertSeries(t, []float64{0.0, 0.0}, signals["table_0.waitingTime"].Series, "admission waits")
	assertSeries(t, []float64{1.0, 1.0}, signals["client_0.waitTime"].Series, "client waits")
	assert.InDelta(t, 1.05, s.Scheduler.Now(), 1e-9)
}

// A write arrives at t=0 (S=1.0), a read at t=0.1. The read waits until the
// write completes at t=1.0 and itself completes at t=2.0.
func TestTable_ActiveWriteBlocksLaterRead(t *testing.T) {
	s := runScenario(t, func(s *Simulator) {
		inject(t, s, 0.0, OpWrite, 1.0)
		inject(t, s, 0.1, OpRead, 1.0)
	})

	signals := s.Collector.Reduce()
	assertSeries(t, []float64{0.0, 0.9}, signals["table_0.waitingTime"].Series, "admission waits")
	assertSeries(t, []float64{1.0, 1.9}, signals["client_0.waitTime"].Series, "client waits")
	assert.InDelta(t, 2.0, s.Scheduler.Now(), 1e-9)
}

// A queued write fences later reads: nothing that arrived after it may be
// admitted before it, and reads queued behind it are batched together once
// it completes.
func TestTable_FCFSWriteFence(t *testing.T) {
	s := runScenario(t, func(s *Simulator) {
		inject(t, s, 0.0, OpRead, 1.0)
		inject(t, s, 0.1, OpRead, 1.0)
		inject(t, s, 0.2, OpWrite, 1.0)
		inject(t, s, 0.3, OpRead, 1.0)
		inject(t, s, 0.4, OpRead, 1.0)
	})

	signals := s.Collector.Reduce()
	// Reads 1 and 2 start on arrival. The write starts at t=1.1, when the
	// last read admitted ahead of it drains. Reads 3 and 4 start together at
	// t=2.1 when the write completes.
	assertSeries(t, []float64{0.0, 0.0, 0.9, 1.8, 1.7},
		signals["table_0.waitingTime"].Series, "admission waits")
	assert.InDelta(t, 3.1, s.Scheduler.Now(), 1e-9)
}

// Queue length equals arrivals minus admissions at all observation points,
// and every admitted request completes exactly once.
func TestTable_QueueAccounting(t *testing.T) {
	s := runScenario(t, func(s *Simulator) {
		inject(t, s, 0.0, OpWrite, 1.0)
		inject(t, s, 0.1, OpRead, 0.5)
		inject(t, s, 0.2, OpRead, 0.5)
		inject(t, s, 0.3, OpWrite, 1.0)
	})

	table := s.Tables[0]
	assert.Equal(t, table.arrivals-table.admissions, int64(len(table.queue)))
	assert.Empty(t, table.inFlight, "every admitted request must complete")
	assert.Equal(t, table.admissions, table.totalServed)
	assert.Equal(t, int64(4), table.totalServed)
	assert.Equal(t, 3, table.maxQueueLength)
}

// Tearing a table down mid-run cancels its pending completion, so the
// admitted request never completes and no response reaches the client.
func TestTable_TeardownCancelsInFlightService(t *testing.T) {
	s := runScenario(t, func(s *Simulator) {
		inject(t, s, 0.0, OpRead, 1.0)
		err := s.Scheduler.Schedule(probe(0.5, func(float64) {
			s.Tables[0].Teardown()
		}))
		require.NoError(t, err)
	})

	table := s.Tables[0]
	assert.Equal(t, int64(0), table.totalServed)
	assert.Equal(t, int64(0), s.Clients[0].totalAccesses)
	assert.InDelta(t, 0.5, s.Scheduler.Now(), 1e-9)
}

// A torn-down table ignores requests still in transit.
func TestTable_TeardownDropsLateArrivals(t *testing.T) {
	s := runScenario(t, func(s *Simulator) {
		s.Tables[0].Teardown()
		inject(t, s, 0.0, OpRead, 1.0)
	})

	table := s.Tables[0]
	assert.Equal(t, int64(0), table.arrivals)
	assert.Empty(t, table.queue)
}

// Utilization accounting: busy periods [0, 1.5] (two overlapping reads,
// counted once) and [2.0, 2.5] (a write) over a horizon of 4.0.
func TestTable_BusyTimeAccounting(t *testing.T) {
	cfg := scenarioConfig()
	cfg.Horizon = 4.0
	s, err := newSimulator(cfg)
	require.NoError(t, err)

	inject(t, s, 0.0, OpRead, 1.0)
	inject(t, s, 0.5, OpRead, 1.0)
	inject(t, s, 2.0, OpWrite, 0.5)
	s.Scheduler.Run(s)

	table := s.Tables[0]
	table.finalize(cfg.Horizon)
	stats := table.stats(cfg.Horizon)
	assert.InDelta(t, 0.5, stats.Utilization, 1e-9)
}
