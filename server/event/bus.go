package event

import (
	"sync"
	"sync/atomic"
)

// Handler handles an event published on a Bus.
type Handler func(e Event)

type registration struct {
	id      uint64
	handler Handler
}

type handlerList struct {
	regs []registration
	next uint64
}

func (l *handlerList) add(h Handler) uint64 {
	id := l.next
	l.next++
	l.regs = append(l.regs, registration{id: id, handler: h})
	return id
}

func (l *handlerList) removeByID(id uint64) {
	regs := l.regs[:0]
	for _, reg := range l.regs {
		if reg.id == id {
			continue
		}
		regs = append(regs, reg)
	}
	l.regs = regs
}

func (l *handlerList) snapshot() []registration {
	if len(l.regs) == 0 {
		return nil
	}
	out := make([]registration, len(l.regs))
	copy(out, l.regs)
	return out
}

// Bus delivers events synchronously to the handlers registered for their Kind, in registration order. A nil
// *Bus is valid and delivers events to nobody.
type Bus struct {
	mu     sync.Mutex
	lists  [kindCount]handlerList
	chains [kindCount]atomic.Pointer[[]registration]
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Register registers a Handler for events of the Kind passed. Handlers run in the order they were registered.
// The function returned removes the handler again. Handlers registered while an event is being delivered do
// not receive that event.
func (b *Bus) Register(k Kind, h Handler) (unregister func()) {
	if b == nil || h == nil || k >= kindCount {
		return func() {}
	}
	b.mu.Lock()
	id := b.lists[k].add(h)
	b.store(k)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			b.lists[k].removeByID(id)
			b.store(k)
			b.mu.Unlock()
		})
	}
}

// store publishes a new snapshot of the handler list of k. b.mu must be held.
func (b *Bus) store(k Kind) {
	chain := b.lists[k].snapshot()
	b.chains[k].Store(&chain)
}

// Handlers returns the number of handlers registered for the Kind passed.
func (b *Bus) Handlers(k Kind) int {
	if b == nil || k >= kindCount {
		return 0
	}
	if chain := b.chains[k].Load(); chain != nil {
		return len(*chain)
	}
	return 0
}

// Publish delivers e to all handlers registered for e.Kind() and returns e. Cancelling the event does not stop
// delivery: every handler sees the event, and the caller checks e.Cancelled() before committing.
func (b *Bus) Publish(e Event) Event {
	if b == nil || e == nil {
		return e
	}
	k := e.Kind()
	if k >= kindCount {
		return e
	}
	chain := b.chains[k].Load()
	if chain == nil {
		return e
	}
	for _, reg := range *chain {
		reg.handler(e)
	}
	return e
}

// Publish publishes e on the Bus and returns it with its concrete type intact.
func Publish[E Event](b *Bus, e E) E {
	b.Publish(e)
	return e
}

// Handle registers a handler for events of the Kind passed that only receives events of type E.
func Handle[E Event](b *Bus, k Kind, h func(e E)) (unregister func()) {
	return b.Register(k, func(e Event) {
		if ev, ok := e.(E); ok {
			h(ev)
		}
	})
}
