package layout

import "fmt"

// EventKind tells what happened to an element of a Layout.
type EventKind uint8

const (
	Added EventKind = iota
	Removed
)

// String implements fmt.Stringer.
func (k EventKind) String() string {
	switch k {
	case Added:
		return "Added"
	case Removed:
		return "Removed"
	}
	return fmt.Sprintf("EventKind(%d)", k)
}

// Event reports an element added to or removed from a Layout.
type Event[T any] struct {
	Kind    EventKind
	Element T
}

// Events is a queue of events reported by a Layout. The owner of the queue (e.g. the editor
// updating its visuals) consumes them with Drain.
//
// A nil *Events is valid and discards everything.
type Events[T any] struct {
	queue []Event[T]
}

func (e *Events[T]) push(kind EventKind, element T) {
	if e == nil {
		return
	}
	e.queue = append(e.queue, Event[T]{Kind: kind, Element: element})
}

// Len returns the number of pending events.
func (e *Events[T]) Len() int {
	if e == nil {
		return 0
	}
	return len(e.queue)
}

// Drain returns the pending events, in the order they happened, and empties the queue.
func (e *Events[T]) Drain() []Event[T] {
	if e == nil {
		return nil
	}
	events := e.queue
	e.queue = nil
	return events
}
