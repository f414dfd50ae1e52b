// Defines the Request and Response payloads exchanged between clients and
// tables. A request is created by a client, handed to a table on delivery,
// and destroyed once its response has been dispatched; the response copies
// the fields the client needs so nothing references the request afterwards.

package sim

import "fmt"

// OpKind distinguishes read from write operations.
type OpKind int

const (
	OpRead OpKind = iota
	OpWrite
)

func (k OpKind) String() string {
	if k == OpRead {
		return "READ"
	}
	return "WRITE"
}

// Request models a single table access.
type Request struct {
	id uint64 // simulator-wide unique, used for in-flight matching

	Target      int     // index of the table to access
	Kind        OpKind  // read or write
	Origin      int     // index of the issuing client
	ArrivalTime float64 // virtual time the request was issued
	ServiceTime float64 // fixed service duration
}

func (r *Request) String() string {
	return fmt.Sprintf("Request(id=%d %s client=%d table=%d arrived=%g)",
		r.id, r.Kind, r.Origin, r.Target, r.ArrivalTime)
}

// Response reports the completion of a request back to its origin. It is a
// value type: it carries copies, never a pointer to the completed request.
type Response struct {
	Kind        OpKind
	ArrivalTime float64 // the original request's arrival time
}
