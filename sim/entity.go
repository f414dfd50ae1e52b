// The entity substrate: clients and tables are message-passing actors woken
// by the scheduler. Each entity owns the events it has scheduled and still
// expects to fire, so tearing an entity down releases everything it owns
// without manual cleanup loops.

package sim

// Entity is a named simulation actor.
type Entity interface {
	Name() string
}

// BaseEntity provides the name and scoped event ownership shared by all
// entities. Not safe for concurrent use; the simulation is single-threaded.
type BaseEntity struct {
	name  string
	sched *Scheduler
	owned map[Event]struct{}
	down  bool
}

func newBaseEntity(name string, sched *Scheduler) BaseEntity {
	return BaseEntity{
		name:  name,
		sched: sched,
		owned: make(map[Event]struct{}),
	}
}

func (e *BaseEntity) Name() string { return e.name }

// own schedules ev and records it as owned by this entity until released.
// Scheduling failures here are programming errors: entities only schedule at
// or after the current clock.
func (e *BaseEntity) own(ev Event) {
	if err := e.sched.Schedule(ev); err != nil {
		panic("entity " + e.name + ": " + err.Error())
	}
	e.owned[ev] = struct{}{}
}

// release drops ownership of a fired event.
func (e *BaseEntity) release(ev Event) {
	delete(e.owned, ev)
}

// Teardown cancels every event the entity still owns and marks the entity
// down, so messages already in transit are ignored rather than acted on.
// Safe to call more than once.
func (e *BaseEntity) Teardown() {
	for ev := range e.owned {
		e.sched.Cancel(ev)
	}
	e.owned = make(map[Event]struct{})
	e.down = true
}
