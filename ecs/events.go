package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

// ContactEventType is the Event.Type of contact transition events.
const ContactEventType = "contact"

// ContactEventKind identifies contact transitions reported by physics.
type ContactEventKind string

const (
	ContactEventLanded     ContactEventKind = "landed"
	ContactEventLeftGround ContactEventKind = "left_ground"
	ContactEventWall       ContactEventKind = "wall"
)

// ContactEvent is emitted when a body's contact classification changes.
type ContactEvent struct {
	Entity Entity
	Kind   ContactEventKind
	Tick   uint64
}

// RespawnEventType is the Event.Type of respawn events.
const RespawnEventType = "respawn"

// RespawnEvent is emitted when an entity is moved back to its safe position.
type RespawnEvent struct {
	Entity Entity
	Reason string
	Tick   uint64
}

// EventQueue is a simple FIFO queue, cleared at the end of every world update.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
