package cart

// EventKind discriminates the user-facing cart events.
type EventKind string

const (
	EventItemAdded   EventKind = "item_added"
	EventItemRemoved EventKind = "item_removed"
)

// Event describes a single cart mutation worth telling the shopper about.
// The engine publishes exactly one event per successful add, and a removal
// event only when a line was actually removed.
type Event struct {
	Kind      EventKind
	SessionID string
	LineID    string
	Name      string
	Quantity  int
}

// Emitter receives cart events. Implementations must not block; the engine
// calls Emit synchronously on its own goroutine.
type Emitter interface {
	Emit(event Event)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(event Event)

func (f EmitterFunc) Emit(event Event) {
	f(event)
}
