package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlersFireInRegistrationOrder(t *testing.T) {
	emitter := NewEmitter(nil)

	var order []int
	emitter.Subscribe(func(Event) { order = append(order, 1) })
	emitter.Subscribe(func(Event) { order = append(order, 2) })
	emitter.Subscribe(func(Event) { order = append(order, 3) })

	emitter.Emit(Event{Name: "distributions-changed"})

	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestDisposerRemovesSubscription(t *testing.T) {
	emitter := NewEmitter(nil)

	calls := 0
	dispose := emitter.Subscribe(func(Event) { calls++ })

	emitter.Emit(Event{Name: "a"})
	dispose()
	emitter.Emit(Event{Name: "b"})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, emitter.SubscriberCount())
}

func TestDisposerIsIdempotent(t *testing.T) {
	emitter := NewEmitter(nil)

	emitter.Subscribe(func(Event) {})
	dispose := emitter.Subscribe(func(Event) {})

	dispose()
	dispose()

	assert.Equal(t, 1, emitter.SubscriberCount())
}

func TestPanickingHandlerDoesNotStopOthers(t *testing.T) {
	emitter := NewEmitter(nil)

	var after bool
	emitter.Subscribe(func(Event) { panic("boom") })
	emitter.Subscribe(func(Event) { after = true })

	emitter.Emit(Event{Name: "a"})

	assert.True(t, after)
}

func TestEventDataReachesHandlers(t *testing.T) {
	emitter := NewEmitter(nil)

	var got interface{}
	emitter.Subscribe(func(ev Event) { got = ev.Data })

	emitter.Emit(Event{Name: "resolved", Data: "languageServer.2.1.1"})

	assert.Equal(t, "languageServer.2.1.1", got)
}
