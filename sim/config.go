// Simulation configuration: the scenario parameters, YAML loading with
// strict key checking, and the validation that runs before any event is
// scheduled.

package sim

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full scenario description. A run is a pure function of
// Config (the Seed included).
type Config struct {
	NumTables  int `yaml:"num_tables" json:"num_tables"`
	NumClients int `yaml:"num_clients" json:"num_clients"`

	// Lambda is the per-client arrival rate; inter-arrival delays are
	// Exponential(Lambda).
	Lambda float64 `yaml:"lambda" json:"lambda"`

	// ReadProbability is the chance a generated request is a read.
	ReadProbability float64 `yaml:"read_probability" json:"read_probability"`

	// ServiceTime is the fixed duration of every admitted operation.
	ServiceTime float64 `yaml:"service_time" json:"service_time"`

	// TableDistribution selects the target table: "uniform" or "lognormal".
	// LognormalM and LognormalS parameterize the latter.
	TableDistribution string  `yaml:"table_distribution" json:"table_distribution"`
	LognormalM        float64 `yaml:"lognormal_m,omitempty" json:"lognormal_m,omitempty"`
	LognormalS        float64 `yaml:"lognormal_s,omitempty" json:"lognormal_s,omitempty"`

	// Horizon is the virtual-time length of the run.
	Horizon float64 `yaml:"horizon" json:"horizon"`

	Seed int64 `yaml:"seed" json:"seed"`

	// MaxEvents optionally caps the number of executed events (0 = no cap).
	MaxEvents uint64 `yaml:"max_events,omitempty" json:"max_events,omitempty"`
}

var validTableDistributions = map[string]bool{
	DistUniform: true, DistLognormal: true,
}

// Load reads and parses a YAML scenario file. Parsing is strict:
// unrecognized keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks every fatal-at-initialization condition. If Validate
// returns an error the run never starts.
func (c *Config) Validate() error {
	if c.NumTables <= 0 {
		return fmt.Errorf("num_tables must be positive, got %d", c.NumTables)
	}
	if c.NumClients <= 0 {
		return fmt.Errorf("num_clients must be positive, got %d", c.NumClients)
	}
	if c.Lambda <= 0 || math.IsNaN(c.Lambda) || math.IsInf(c.Lambda, 0) {
		return fmt.Errorf("lambda must be a positive finite rate, got %g", c.Lambda)
	}
	if c.ReadProbability < 0 || c.ReadProbability > 1 || math.IsNaN(c.ReadProbability) {
		return fmt.Errorf("read_probability must be within [0, 1], got %g", c.ReadProbability)
	}
	if c.ServiceTime <= 0 || math.IsNaN(c.ServiceTime) || math.IsInf(c.ServiceTime, 0) {
		return fmt.Errorf("service_time must be a positive finite duration, got %g", c.ServiceTime)
	}
	if !validTableDistributions[c.TableDistribution] {
		return fmt.Errorf("unknown table distribution %q; valid: uniform, lognormal", c.TableDistribution)
	}
	if c.TableDistribution == DistLognormal {
		if c.LognormalS <= 0 || math.IsNaN(c.LognormalS) || math.IsInf(c.LognormalS, 0) {
			return fmt.Errorf("lognormal_s must be a positive finite scale, got %g", c.LognormalS)
		}
		if math.IsNaN(c.LognormalM) || math.IsInf(c.LognormalM, 0) {
			return fmt.Errorf("lognormal_m must be finite, got %g", c.LognormalM)
		}
	}
	if c.Horizon <= 0 || math.IsNaN(c.Horizon) || math.IsInf(c.Horizon, 0) {
		return fmt.Errorf("horizon must be a positive finite duration, got %g", c.Horizon)
	}
	return nil
}
