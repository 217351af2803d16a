package terminal

import (
	"sort"
	"sync"

	"github.com/go-drift/drift-tui/pkg/core"
)

// EventBus fans terminal events out to subscribers in subscription order.
type EventBus struct {
	mu   sync.Mutex
	subs map[uint64]func(Event)
	next uint64
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[uint64]func(Event))}
}

// Subscribe registers fn and returns a function that removes it.
func (b *EventBus) Subscribe(fn func(Event)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	id := b.next
	b.subs[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Len returns the number of subscribers.
func (b *EventBus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Publish delivers ev to every current subscriber. Subscribers added or
// removed by a handler take effect from the next Publish.
func (b *EventBus) Publish(ev Event) {
	b.mu.Lock()
	ids := make([]uint64, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(Event), len(ids))
	for i, id := range ids {
		fns[i] = b.subs[id]
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// UseEvents subscribes handler to the EventBus provided by an ancestor for
// as long as the calling instance is mounted. The handler from the most
// recent committed update is the one called. Without a bus in context it does nothing.
func UseEvents(h *core.Hooks, handler func(Event)) {
	bus, ok := core.UseContext[*EventBus](h)
	latest := core.UseLatest(h, handler)
	core.UseEffect(h, func() func() {
		if !ok || bus == nil {
			return nil
		}
		return bus.Subscribe(func(ev Event) {
			latest.Current(ev)
		})
	}, bus)
}
