// Defines the Event interface and the concrete event types that move the
// simulation forward: client self-timers, request deliveries, service
// completions, and response deliveries.

package sim

// Event is a scheduled action owned by the Scheduler until it fires or is
// cancelled. An event fires at most once.
type Event interface {
	// Timestamp returns the virtual time at which the event fires.
	Timestamp() float64
	// Execute advances simulation state. Called exactly once, by the
	// Scheduler, with the clock already set to Timestamp().
	Execute(sim *Simulator)

	base() *BaseEvent
}

// BaseEvent carries the bookkeeping common to all events: fire time, the
// insertion sequence used for deterministic tie-breaking, and the
// fired/cancelled flags the Scheduler maintains.
type BaseEvent struct {
	time      float64
	seq       uint64
	fired     bool
	cancelled bool
}

func (e *BaseEvent) Timestamp() float64 { return e.time }

func (e *BaseEvent) base() *BaseEvent { return e }

// AccessTimerEvent is a client's self-timer. Firing it makes the client
// generate and send one request and rearm the timer.
type AccessTimerEvent struct {
	BaseEvent
	Client *Client
}

func (e *AccessTimerEvent) Execute(sim *Simulator) {
	e.Client.release(e)
	e.Client.handleAccessTimer(sim, e.time)
}

// RequestDeliveryEvent delivers a request to its target table. Ownership of
// the request transfers to the table when the event fires.
type RequestDeliveryEvent struct {
	BaseEvent
	Table   *Table
	Request *Request
}

func (e *RequestDeliveryEvent) Execute(sim *Simulator) {
	e.Table.handleArrival(sim, e.Request, e.time)
}

// ServiceDoneEvent marks the completion of an admitted request's service.
// The event owns the request until it fires; the table releases the request
// after dispatching the response.
type ServiceDoneEvent struct {
	BaseEvent
	Table   *Table
	Request *Request
}

func (e *ServiceDoneEvent) Execute(sim *Simulator) {
	e.Table.handleServiceDone(sim, e, e.time)
}

// ResponseDeliveryEvent delivers a completion response back to the client
// that originated the request.
type ResponseDeliveryEvent struct {
	BaseEvent
	Client   *Client
	Response Response
}

func (e *ResponseDeliveryEvent) Execute(sim *Simulator) {
	e.Client.handleResponse(sim, e.Response, e.time)
}
