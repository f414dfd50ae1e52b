package sim

import (
	"math"
	"math/rand/v2"
	"testing"
)

func testRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

func TestExponentialInterval_MeanMatchesRate(t *testing.T) {
	rng := testRNG(42)
	s := NewExponentialInterval(2.0, rng) // mean 0.5
	n := 10000
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += s.Next()
	}
	mean := sum / float64(n)
	if math.Abs(mean-0.5)/0.5 > 0.05 {
		t.Errorf("exponential mean = %.4f, want ≈ 0.5 (within 5%%)", mean)
	}
}

func TestExponentialInterval_AlwaysPositive(t *testing.T) {
	rng := testRNG(42)
	s := NewExponentialInterval(10.0, rng)
	for i := 0; i < 10000; i++ {
		if v := s.Next(); v <= 0 {
			t.Errorf("sample %d: got %g, want > 0", i, v)
			break
		}
	}
}

func TestUniformTarget_CoversRange(t *testing.T) {
	rng := testRNG(7)
	s, err := NewTargetSampler(DistUniform, 0, 0, 8, rng)
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[int]int)
	for i := 0; i < 10000; i++ {
		v := s.Target()
		if v < 0 || v >= 8 {
			t.Fatalf("sample %d: %d outside [0, 8)", i, v)
		}
		seen[v]++
	}
	for table := 0; table < 8; table++ {
		// Each table expects 1250 hits; allow a generous band.
		if seen[table] < 1000 || seen[table] > 1500 {
			t.Errorf("table %d hit %d times, want ≈ 1250", table, seen[table])
		}
	}
}

func TestLognormalTarget_AlwaysInRange(t *testing.T) {
	rng := testRNG(7)
	// Large sigma produces samples far beyond the table count; folding and
	// clamping must keep every index valid.
	s, err := NewTargetSampler(DistLognormal, 2.0, 3.0, 5, rng)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10000; i++ {
		v := s.Target()
		if v < 0 || v >= 5 {
			t.Fatalf("sample %d: %d outside [0, 5)", i, v)
		}
	}
}

func TestLognormalTarget_SkewsAccess(t *testing.T) {
	rng := testRNG(11)
	s, err := NewTargetSampler(DistLognormal, 0.0, 0.5, 10, rng)
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[int]int)
	for i := 0; i < 10000; i++ {
		seen[s.Target()]++
	}
	// Lognormal(0, 0.5) concentrates mass around e^0 = 1, so table 1 must be
	// hit far more often than a uniform share.
	if seen[1] < 2000 {
		t.Errorf("table 1 hit %d times, want heavy skew (> 2000 of 10000)", seen[1])
	}
}

func TestNewTargetSampler_UnknownDistribution(t *testing.T) {
	if _, err := NewTargetSampler("zipf", 0, 0, 4, testRNG(1)); err == nil {
		t.Error("unknown distribution accepted, want error")
	}
}

func TestTargetSampler_DeterministicForSeed(t *testing.T) {
	a, _ := NewTargetSampler(DistLognormal, 1.0, 1.0, 6, testRNG(99))
	b, _ := NewTargetSampler(DistLognormal, 1.0, 1.0, 6, testRNG(99))
	for i := 0; i < 1000; i++ {
		if va, vb := a.Target(), b.Target(); va != vb {
			t.Fatalf("sample %d: %d != %d for identical seeds", i, va, vb)
		}
	}
}
