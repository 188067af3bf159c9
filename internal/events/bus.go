// Package events provides the in-process change notification bus. Publishing
// invokes subscribers synchronously on the caller's goroutine; handlers must
// not assume any invocation order across independent subscribers.
package events

import "sync"

const (
	TeamsChanged         = "teams.changed"
	ContactsChanged      = "contacts.changed"
	DealsChanged         = "deals.changed"
	TouchpointsChanged   = "touchpoints.changed"
	RelationshipsChanged = "relationships.changed"
	TasksChanged         = "tasks.changed"
	SettingsChanged      = "settings.changed"
	DataImported         = "data.imported"
)

type Event struct {
	Name     string
	EntityID string
}

type Handler func(Event)

type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

// Subscribe registers fn for the named event. An empty name subscribes to all
// events.
func (b *Bus) Subscribe(name string, fn Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], fn)
}

// Publish delivers the event to matching subscribers before returning.
func (b *Bus) Publish(evt Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[evt.Name])+len(b.handlers[""]))
	handlers = append(handlers, b.handlers[evt.Name]...)
	handlers = append(handlers, b.handlers[""]...)
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(evt)
	}
}
