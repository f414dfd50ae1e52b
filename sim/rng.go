package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// SimulationKey uniquely identifies a reproducible simulation run. Two runs
// with the same SimulationKey and identical configuration MUST produce
// bit-for-bit identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// SubsystemClient returns the RNG subsystem name for client n. Each client
// draws from its own stream so adding a client never perturbs the others.
func SubsystemClient(n int) string {
	return fmt.Sprintf("client_%d", n)
}

// PartitionedRNG provides deterministic, isolated RNG streams per subsystem.
// Each stream is a PCG source seeded by the master seed XOR the FNV-1a hash
// of the subsystem name.
//
// Thread-safety: NOT thread-safe. The simulation is single-threaded.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the deterministically-seeded RNG for the named
// subsystem. The same name always returns the same *rand.Rand (cached).
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	derived := uint64(p.key) ^ fnv1a64(name)
	rng := rand.New(rand.NewPCG(derived, uint64(p.key)))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func fnv1a64(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
