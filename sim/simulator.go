// Wires the scheduler, clients, tables, and collector together and exposes
// the package entry point: Run(config) -> RunResult.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Simulator holds the full simulation state for one run.
type Simulator struct {
	Config    Config
	Scheduler *Scheduler
	Clients   []*Client
	Tables    []*Table
	Collector *Collector
	RNG       *PartitionedRNG

	nextReqID uint64
}

// New validates the configuration and builds a ready-to-run simulator with
// every client's first self-timer armed. All fatal-at-initialization errors
// surface here; once New succeeds the run proceeds without failure modes
// other than invariant panics.
func New(cfg Config) (*Simulator, error) {
	s, err := newSimulator(cfg)
	if err != nil {
		return nil, err
	}
	for _, c := range s.Clients {
		c.start(s, 0)
	}
	return s, nil
}

// newSimulator builds the entity graph without arming any timers. Tests use
// it to inject hand-built event sequences.
func newSimulator(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s := &Simulator{
		Config:    cfg,
		Scheduler: NewScheduler(cfg.Horizon, cfg.MaxEvents),
		Collector: NewCollector(),
		RNG:       NewPartitionedRNG(NewSimulationKey(cfg.Seed)),
	}

	s.Tables = make([]*Table, cfg.NumTables)
	for i := range s.Tables {
		s.Tables[i] = newTable(i, s.Scheduler, s.Collector)
	}

	s.Clients = make([]*Client, cfg.NumClients)
	for i := range s.Clients {
		rng := s.RNG.ForSubsystem(SubsystemClient(i))
		c, err := newClient(i, cfg, rng, s.Scheduler, s.Collector)
		if err != nil {
			return nil, err
		}
		s.Clients[i] = c
	}

	return s, nil
}

// nextRequestID hands out simulator-wide unique request IDs.
func (s *Simulator) nextRequestID() uint64 {
	s.nextReqID++
	return s.nextReqID
}

// send schedules a message-delivery event. Internal sends always target the
// present or future, so a failure here is a programming error.
func (s *Simulator) send(ev Event) {
	if err := s.Scheduler.Schedule(ev); err != nil {
		panic("simulator: " + err.Error())
	}
}

// Run drives the event loop to the horizon and reduces the results.
func (s *Simulator) Run() *RunResult {
	logrus.Infof("starting run: %d clients, %d tables, lambda=%g, p(read)=%g, S=%g, horizon=%g, seed=%d",
		s.Config.NumClients, s.Config.NumTables, s.Config.Lambda,
		s.Config.ReadProbability, s.Config.ServiceTime, s.Config.Horizon, s.Config.Seed)

	s.Scheduler.Run(s)

	// The run covers the full horizon unless the event cap cut it short;
	// open busy periods and the rate denominators close at the virtual time
	// actually simulated, never beyond it.
	end := s.Config.Horizon
	if s.Config.MaxEvents > 0 && s.Scheduler.Executed() >= s.Config.MaxEvents {
		end = s.Scheduler.Now()
	}
	for _, t := range s.Tables {
		t.finalize(end)
	}

	result := &RunResult{
		Seed:           s.Config.Seed,
		Horizon:        s.Config.Horizon,
		SimEndedTime:   end,
		EventsExecuted: s.Scheduler.Executed(),
		Clients:        make([]ClientStats, len(s.Clients)),
		Tables:         make([]TableStats, len(s.Tables)),
		Signals:        s.Collector.Reduce(),
	}
	for i, c := range s.Clients {
		result.Clients[i] = c.stats(end)
	}
	for i, t := range s.Tables {
		result.Tables[i] = t.stats(end)
	}

	logrus.Infof("run ended at t=%.6f after %d events", end, result.EventsExecuted)
	return result
}

// Run is the package entry point: validate, build, simulate, reduce.
func Run(cfg Config) (*RunResult, error) {
	s, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return s.Run(), nil
}
