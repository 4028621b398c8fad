// Package notify implements the in-process fan-out that keeps multiple
// consumers (cache invalidation, metrics, connected views) in sync after a
// mutation. The bus is injected explicitly so tests can create isolated
// instances; there is no package-level state.
package notify

import "sync"

// Op identifies the kind of mutation that occurred.
type Op string

const (
	OpCreated   Op = "created"
	OpUpdated   Op = "updated"
	OpPublished Op = "published"
	OpDeleted   Op = "deleted"
)

// Change is a targeted change record keyed by entity id. Subscribers that
// maintain their own view apply it as an upsert or remove instead of
// refetching the full list.
type Change struct {
	Op          Op
	EventID     int
	OrganizerID int
}

// Listener receives change records. Listeners run synchronously on the
// publishing goroutine and must not block.
type Listener func(Change)

// Bus is an ordered list of listeners with explicit lifecycle management.
type Bus struct {
	mu        sync.Mutex
	nextID    int
	listeners []entry
}

type entry struct {
	id int
	fn Listener
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a listener and returns a handle that removes it.
// Listeners are invoked in registration order.
func (b *Bus) Subscribe(fn Listener) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.listeners = append(b.listeners, entry{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, e := range b.listeners {
			if e.id == id {
				b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the change to every registered listener, exactly once
// each, in registration order.
func (b *Bus) Publish(change Change) {
	b.mu.Lock()
	snapshot := make([]entry, len(b.listeners))
	copy(snapshot, b.listeners)
	b.mu.Unlock()

	for _, e := range snapshot {
		e.fn(change)
	}
}

// Len returns the number of registered listeners.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}
