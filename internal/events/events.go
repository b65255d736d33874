// Package events provides the typed event taxonomy and the observer-list
// emitter used by the client sync engine to fan updates out to UI
// collaborators.
package events

import "sync"

// Type names an event emitted by the sync engine.
type Type string

// Canonical event types.
const (
	TypeStatusChange     Type = "status-change"
	TypeBlocksUpdated    Type = "blocks-updated"
	TypeTasksUpdated     Type = "tomorrow-tasks-updated"
	TypeSettingsUpdated  Type = "settings-updated"
	TypeConflictDetected Type = "conflict-detected"
	TypeError            Type = "error"
)

// Status is the engine's externally visible state.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusError   Status = "error"
	StatusOffline Status = "offline"
)

// Event is one emission: a type plus an optional payload (a status value, a
// conflict report, or an error, depending on the type).
type Event struct {
	Type    Type
	Payload any
}

// Handler receives events in emission order.
type Handler func(Event)

// Emitter is a plain observer list. Handlers registered with Subscribe
// receive every subsequent event, in order, on the emitting goroutine.
type Emitter struct {
	mu       sync.Mutex
	nextID   int
	handlers []subscription
}

type subscription struct {
	id      int
	handler Handler
}

// NewEmitter returns an empty emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Subscribe registers handler and returns an unsubscribe func. Calling the
// returned func more than once is a no-op.
func (e *Emitter) Subscribe(handler Handler) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++
	e.handlers = append(e.handlers, subscription{id: id, handler: handler})

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, sub := range e.handlers {
			if sub.id == id {
				e.handlers = append(e.handlers[:i], e.handlers[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers the event to every subscribed handler in registration
// order. Handlers run synchronously; a slow handler delays the rest.
func (e *Emitter) Emit(event Event) {
	e.mu.Lock()
	subs := make([]subscription, len(e.handlers))
	copy(subs, e.handlers)
	e.mu.Unlock()

	for _, sub := range subs {
		sub.handler(event)
	}
}
