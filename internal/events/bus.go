package events

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"cognitext/internal/pkg/logger"
)

// Handler receives events of the kind it was subscribed to
type Handler func(Event) error

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus is a synchronous in-process publish/subscribe registry.
// Handlers run on the publishing goroutine, in subscription order.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Kind][]subscriber
	nextID   uint64
	logger   *zap.Logger
}

// NewBus creates an empty bus. A nil logger discards handler failures.
func NewBus(log *zap.Logger) *Bus {
	return &Bus{
		handlers: make(map[Kind][]subscriber),
		logger:   logger.OrNop(log).Named("events"),
	}
}

// Subscription removes its handler from the bus
type Subscription struct {
	bus  *Bus
	kind Kind
	id   uint64
	once sync.Once
}

// Unsubscribe removes the handler. Calling it more than once is a no-op.
// A Publish that already started may still deliver to the handler.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.bus.remove(s.kind, s.id)
	})
}

// Subscribe registers handler for kind. The same function may be
// registered several times and is then called once per registration.
func (b *Bus) Subscribe(kind Kind, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[kind] = append(b.handlers[kind], subscriber{id: id, handler: handler})

	return &Subscription{bus: b, kind: kind, id: id}
}

func (b *Bus) remove(kind Kind, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[kind]
	for i, s := range subs {
		if s.id == id {
			// Copy so snapshots held by running publishes stay intact
			next := make([]subscriber, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			if len(next) == 0 {
				delete(b.handlers, kind)
			} else {
				b.handlers[kind] = next
			}
			return
		}
	}
}

// Publish calls every handler subscribed to the event's kind at call
// time, in order, exactly once. Handler errors and panics are logged and
// do not stop delivery to the remaining handlers.
func (b *Bus) Publish(event Event) {
	if event == nil {
		return
	}
	kind := event.Kind()

	b.mu.RLock()
	snapshot := b.handlers[kind]
	b.mu.RUnlock()

	for _, s := range snapshot {
		if err := b.invoke(s.handler, event); err != nil {
			b.logger.Warn("event handler failed",
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
		}
	}
}

func (b *Bus) invoke(h Handler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(event)
}

// HandlerCount returns the number of handlers registered for kind
func (b *Bus) HandlerCount(kind Kind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[kind])
}

// On subscribes a handler typed on the concrete event payload
func On[E Event](b *Bus, handler func(E) error) *Subscription {
	var zero E
	return b.Subscribe(zero.Kind(), func(ev Event) error {
		typed, ok := ev.(E)
		if !ok {
			return fmt.Errorf("unexpected payload %T for %s", ev, zero.Kind())
		}
		return handler(typed)
	})
}
