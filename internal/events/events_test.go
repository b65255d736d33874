package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitter_DeliversInRegistrationOrder(t *testing.T) {
	e := NewEmitter()

	var order []string
	e.Subscribe(func(Event) { order = append(order, "first") })
	e.Subscribe(func(Event) { order = append(order, "second") })
	e.Subscribe(func(Event) { order = append(order, "third") })

	e.Emit(Event{Type: TypeBlocksUpdated})

	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestEmitter_EventsArriveInEmissionOrder(t *testing.T) {
	e := NewEmitter()

	var seen []Type
	e.Subscribe(func(ev Event) { seen = append(seen, ev.Type) })

	e.Emit(Event{Type: TypeStatusChange, Payload: StatusSyncing})
	e.Emit(Event{Type: TypeBlocksUpdated})
	e.Emit(Event{Type: TypeStatusChange, Payload: StatusIdle})

	assert.Equal(t, []Type{TypeStatusChange, TypeBlocksUpdated, TypeStatusChange}, seen)
}

func TestEmitter_Unsubscribe(t *testing.T) {
	e := NewEmitter()

	calls := 0
	unsubscribe := e.Subscribe(func(Event) { calls++ })

	e.Emit(Event{Type: TypeBlocksUpdated})
	unsubscribe()
	e.Emit(Event{Type: TypeBlocksUpdated})

	assert.Equal(t, 1, calls)

	// A second unsubscribe is a no-op.
	unsubscribe()
	e.Emit(Event{Type: TypeBlocksUpdated})
	assert.Equal(t, 1, calls)
}

func TestEmitter_UnsubscribeRemovesOnlyTarget(t *testing.T) {
	e := NewEmitter()

	var a, b int
	unsubA := e.Subscribe(func(Event) { a++ })
	e.Subscribe(func(Event) { b++ })

	unsubA()
	e.Emit(Event{Type: TypeSettingsUpdated})

	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)
}
