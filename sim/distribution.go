// Sampling for the client workload: the renewal-process inter-arrival delay
// and the target-table selection. The distribution is chosen once at
// configuration time and dispatched through an interface; no string
// comparison happens on the hot path.

package sim

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Supported target-table distributions.
const (
	DistUniform   = "uniform"
	DistLognormal = "lognormal"
)

// IntervalSampler produces inter-arrival delays for a client's renewal
// process.
type IntervalSampler interface {
	// Next returns the delay until the client's next access, in virtual
	// seconds. Always positive.
	Next() float64
}

// ExponentialInterval draws Exponential(lambda) delays.
type ExponentialInterval struct {
	dist distuv.Exponential
}

// NewExponentialInterval creates a sampler with the given arrival rate.
func NewExponentialInterval(lambda float64, rng *rand.Rand) *ExponentialInterval {
	return &ExponentialInterval{
		dist: distuv.Exponential{Rate: lambda, Src: rng},
	}
}

func (s *ExponentialInterval) Next() float64 {
	return s.dist.Rand()
}

// TargetSampler selects which table a request is addressed to.
type TargetSampler interface {
	// Target returns a table index, always within [0, numTables).
	Target() int
}

// UniformTarget gives every table equal probability.
type UniformTarget struct {
	numTables int
	rng       *rand.Rand
}

func (s *UniformTarget) Target() int {
	return s.rng.IntN(s.numTables)
}

// LognormalTarget skews access toward a subset of tables: a Lognormal(mu,
// sigma) sample is folded into range via modulo and clamped to
// [0, numTables-1].
type LognormalTarget struct {
	numTables int
	dist      distuv.LogNormal
}

func (s *LognormalTarget) Target() int {
	v := s.dist.Rand()
	idx := int(math.Mod(v, float64(s.numTables)))
	if idx < 0 {
		idx = 0
	}
	if idx >= s.numTables {
		idx = s.numTables - 1
	}
	return idx
}

// NewTargetSampler builds the sampler named by kind. An unrecognized name is
// a configuration error, raised before any event is scheduled.
func NewTargetSampler(kind string, mu, sigma float64, numTables int, rng *rand.Rand) (TargetSampler, error) {
	switch kind {
	case DistUniform:
		return &UniformTarget{numTables: numTables, rng: rng}, nil
	case DistLognormal:
		return &LognormalTarget{
			numTables: numTables,
			dist:      distuv.LogNormal{Mu: mu, Sigma: sigma, Src: rng},
		}, nil
	default:
		return nil, fmt.Errorf("unknown table distribution %q; valid: uniform, lognormal", kind)
	}
}
