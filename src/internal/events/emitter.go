// Package events provides a small subscribe/publish emitter with explicit
// disposer handles. Handlers fire in registration order; a panicking handler is
// recovered and logged so it never affects the handlers after it.
package events

import (
	"sync"

	"pyls-manager/src/internal/common"
)

// Event is a notification published through an Emitter.
type Event struct {
	Name string
	Data interface{}
}

// Handler consumes one event.
type Handler func(Event)

// Disposer removes a subscription. Safe to call more than once.
type Disposer func()

type subscription struct {
	id      uint64
	handler Handler
}

// Emitter dispatches events to subscribers in registration order.
type Emitter struct {
	mu     sync.Mutex
	nextID uint64
	subs   []subscription
	logger *common.SafeLogger
}

// NewEmitter creates an emitter logging handler failures through the given
// logger. A nil logger falls back to the resolver logger.
func NewEmitter(logger *common.SafeLogger) *Emitter {
	if logger == nil {
		logger = common.ResolverLogger
	}
	return &Emitter{logger: logger}
}

// Subscribe registers a handler and returns its disposer
func (e *Emitter) Subscribe(handler Handler) Disposer {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	id := e.nextID
	e.subs = append(e.subs, subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() {
			e.unsubscribe(id)
		})
	}
}

func (e *Emitter) unsubscribe(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, sub := range e.subs {
		if sub.id == id {
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			return
		}
	}
}

// Emit delivers the event to every current subscriber, in registration order
func (e *Emitter) Emit(event Event) {
	e.mu.Lock()
	subs := make([]subscription, len(e.subs))
	copy(subs, e.subs)
	e.mu.Unlock()

	for _, sub := range subs {
		e.dispatch(sub.handler, event)
	}
}

func (e *Emitter) dispatch(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("event handler for %s panicked: %v", event.Name, r)
		}
	}()
	handler(event)
}

// SubscriberCount returns the number of active subscriptions
func (e *Emitter) SubscriberCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs)
}
