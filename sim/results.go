// RunResult and the per-entity stat blocks it aggregates. Serialization to a
// concrete file format is the caller's responsibility; the struct carries
// both JSON and YAML tags for external writers.

package sim

// ClientStats summarizes one client's completed accesses over the run.
type ClientStats struct {
	ID              int     `json:"id" yaml:"id"`
	TotalAccesses   int64   `json:"total_accesses" yaml:"total_accesses"`
	TotalReads      int64   `json:"total_reads" yaml:"total_reads"`
	TotalWrites     int64   `json:"total_writes" yaml:"total_writes"`
	AverageWaitTime float64 `json:"average_wait_time" yaml:"average_wait_time"`
	Throughput      float64 `json:"throughput" yaml:"throughput"`
}

// TableStats summarizes one table's service over the run. AverageWaitingTime
// is queue wait (arrival to admission); utilization is busy time over the
// horizon.
type TableStats struct {
	ID                 int     `json:"id" yaml:"id"`
	TotalServed        int64   `json:"total_served" yaml:"total_served"`
	ReadsServed        int64   `json:"reads_served" yaml:"reads_served"`
	WritesServed       int64   `json:"writes_served" yaml:"writes_served"`
	MaxQueueLength     int     `json:"max_queue_length" yaml:"max_queue_length"`
	AverageQueueLength float64 `json:"average_queue_length" yaml:"average_queue_length"`
	AverageWaitingTime float64 `json:"average_waiting_time" yaml:"average_waiting_time"`
	Utilization        float64 `json:"utilization" yaml:"utilization"`
}

// RunResult is everything a run reports: per-entity stats plus the reduced
// signal map.
type RunResult struct {
	Seed           int64   `json:"seed" yaml:"seed"`
	Horizon        float64 `json:"horizon" yaml:"horizon"`
	SimEndedTime   float64 `json:"sim_ended_time" yaml:"sim_ended_time"`
	EventsExecuted uint64  `json:"events_executed" yaml:"events_executed"`

	Clients []ClientStats `json:"clients" yaml:"clients"`
	Tables  []TableStats  `json:"tables" yaml:"tables"`

	Signals map[string]SignalResult `json:"signals" yaml:"signals"`
}
