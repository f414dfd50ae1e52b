// Package sim is a discrete-event simulator for concurrent access to a
// multi-table database. Independent clients issue read and write requests at
// exponentially distributed intervals against a set of tables; each table
// enforces readers-writer mutual exclusion with first-come-first-served
// fairness through a single arrival-ordered admission queue.
//
// The simulator is single-threaded and driven entirely by virtual time:
// exactly one event handler runs at a time, and events sharing a fire time
// are processed in insertion order, so a given configuration and seed always
// produce identical results.
package sim
