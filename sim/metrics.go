// The metrics collector: a named-signal registry that accumulates ordered
// observations during a run and reduces each signal with its configured
// aggregator at run end.

package sim

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Aggregator selects how a signal's observations are reduced at run end.
type Aggregator int

const (
	AggMean Aggregator = iota
	AggSum
	AggMin
	AggMax
	AggSeries
)

func (a Aggregator) String() string {
	switch a {
	case AggMean:
		return "mean"
	case AggSum:
		return "sum"
	case AggMin:
		return "min"
	case AggMax:
		return "max"
	case AggSeries:
		return "series"
	default:
		return fmt.Sprintf("aggregator(%d)", int(a))
	}
}

// Handle identifies a registered signal. Handles are cheap to emit on.
type Handle int

// Collector is the named-signal registry. Observation order is preserved
// within a signal; there is no cross-signal ordering guarantee.
type Collector struct {
	signals []signal
	byName  map[string]Handle
}

type signal struct {
	name   string
	agg    Aggregator
	series []float64
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{byName: make(map[string]Handle)}
}

// Register creates a signal and returns its handle. Registering the same
// name twice is a programming error.
func (c *Collector) Register(name string, agg Aggregator) Handle {
	if _, exists := c.byName[name]; exists {
		panic(fmt.Sprintf("collector: signal %q registered twice", name))
	}
	h := Handle(len(c.signals))
	c.signals = append(c.signals, signal{name: name, agg: agg})
	c.byName[name] = h
	return h
}

// Emit appends one observation to the signal.
func (c *Collector) Emit(h Handle, value float64) {
	c.signals[h].series = append(c.signals[h].series, value)
}

// SignalResult is the reduced form of one signal. Value is nil when the
// signal received no observations.
type SignalResult struct {
	Aggregator string    `json:"aggregator" yaml:"aggregator"`
	Count      int       `json:"count" yaml:"count"`
	Value      *float64  `json:"value,omitempty" yaml:"value,omitempty"`
	Series     []float64 `json:"series,omitempty" yaml:"series,omitempty"`
}

// Reduce aggregates every registered signal. Signals with zero observations
// report a nil Value, never a crash.
func (c *Collector) Reduce() map[string]SignalResult {
	out := make(map[string]SignalResult, len(c.signals))
	for _, s := range c.signals {
		res := SignalResult{Aggregator: s.agg.String(), Count: len(s.series)}
		if s.agg == AggSeries {
			res.Series = s.series
			out[s.name] = res
			continue
		}
		if len(s.series) > 0 {
			var v float64
			switch s.agg {
			case AggMean:
				v = stat.Mean(s.series, nil)
			case AggSum:
				v = floats.Sum(s.series)
			case AggMin:
				v = floats.Min(s.series)
			case AggMax:
				v = floats.Max(s.series)
			}
			res.Value = &v
		}
		out[s.name] = res
	}
	return out
}
