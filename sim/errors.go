package sim

import "errors"

var (
	// ErrCausality is returned when an event is scheduled before the current
	// virtual time.
	ErrCausality = errors.New("causality violation")

	// ErrEventReuse is returned when an already-fired event is scheduled
	// again. Events fire at most once.
	ErrEventReuse = errors.New("event reuse")
)
