package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_ParsesScenario(t *testing.T) {
	path := writeScenario(t, `
num_tables: 4
num_clients: 10
lambda: 1.5
read_probability: 0.8
service_time: 0.1
table_distribution: lognormal
lognormal_m: 1.2
lognormal_s: 0.7
horizon: 10000
seed: 42
max_events: 1000000
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.NumTables)
	assert.Equal(t, 10, cfg.NumClients)
	assert.Equal(t, 1.5, cfg.Lambda)
	assert.Equal(t, 0.8, cfg.ReadProbability)
	assert.Equal(t, 0.1, cfg.ServiceTime)
	assert.Equal(t, DistLognormal, cfg.TableDistribution)
	assert.Equal(t, 1.2, cfg.LognormalM)
	assert.Equal(t, 0.7, cfg.LognormalS)
	assert.Equal(t, 10000.0, cfg.Horizon)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, uint64(1000000), cfg.MaxEvents)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	path := writeScenario(t, `
num_tables: 4
num_clients: 10
lambda: 1.5
reed_probability: 0.8
service_time: 0.1
table_distribution: uniform
horizon: 100
`)
	_, err := Load(path)
	require.Error(t, err, "misspelled keys must not be silently dropped")
	assert.Contains(t, err.Error(), "reed_probability")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
