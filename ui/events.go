package ui

import "sync"

// Event types understood by the controllers
const (
	EventInput       = "input"
	EventFocus       = "focus"
	EventBlur        = "blur"
	EventClick       = "click"
	EventPointerDown = "pointerdown"
	EventKeyDown     = "keydown"
)

// Event is a user interaction. Target is a CSS selector addressing the element
// the event happened on; Value carries input text and Key the pressed key.
type Event struct {
	Type   string
	Target string
	Value  string
	Key    string
}

// Handler reacts to one event
type Handler func(Event)

type subscription struct {
	id int
	fn Handler
}

// Bus delivers events to handlers registered per event type, in registration order.
type Bus struct {
	mu       sync.Mutex
	nextID   int
	handlers map[string][]subscription
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]subscription)}
}

// On registers fn for eventType. The returned func removes it and is safe to call twice.
func (b *Bus) On(eventType string, fn Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.off(eventType, id) })
	}
}

func (b *Bus) off(eventType string, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.handlers[eventType]) == 0 {
		delete(b.handlers, eventType)
	}
}

// Dispatch calls every handler registered for ev.Type and returns how many ran.
// Handlers may subscribe or unsubscribe while a dispatch is in progress.
func (b *Bus) Dispatch(ev Event) int {
	b.mu.Lock()
	subs := append([]subscription(nil), b.handlers[ev.Type]...)
	b.mu.Unlock()

	for _, s := range subs {
		s.fn(ev)
	}
	return len(subs)
}

// Count returns the number of handlers registered for eventType
func (b *Bus) Count(eventType string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[eventType])
}
