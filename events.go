package snapdb

import (
	"fmt"
)

type (
	// Event identifies a point in a collection operation at which handlers
	// run. Pre events fire before the operation touches anything; pre-create
	// carries the candidate entry and the other pre events carry no
	// documents. The post events carry the documents the operation produced
	// or removed.
	Event int

	// EventHandler runs synchronously on the calling goroutine, in
	// subscription order, before the operation returns.
	EventHandler func(c *Collection, ev Event, docs []Value)
)

const (
	EventPreCreate Event = iota
	EventCreate
	EventPreRead
	EventRead
	EventPreUpdate
	EventUpdate
	EventPreDelete
	EventDelete

	eventCount
)

func (ev Event) String() string {
	switch ev {
	case EventPreCreate:
		return "pre-create"
	case EventCreate:
		return "create"
	case EventPreRead:
		return "pre-read"
	case EventRead:
		return "read"
	case EventPreUpdate:
		return "pre-update"
	case EventUpdate:
		return "update"
	case EventPreDelete:
		return "pre-delete"
	case EventDelete:
		return "delete"
	default:
		return fmt.Sprintf("invalid event %d", int(ev))
	}
}

// Subscribe registers h for ev on this collection. There is no way to
// unsubscribe; handlers live as long as the collection object.
func (c *Collection) Subscribe(ev Event, h EventHandler) {
	if ev < 0 || ev >= eventCount {
		panic(fmt.Errorf("snapdb: cannot subscribe to %v", ev))
	}
	c.handlers[ev] = append(c.handlers[ev], h)
}

func (c *Collection) emit(ev Event, docs []Value) {
	for _, h := range c.handlers[ev] {
		h(c, ev, docs)
	}
}
