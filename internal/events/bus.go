// Package events is a small synchronous publish/subscribe bus used to
// connect the form, notification and theme components without them
// reading each other's state.
package events

import "sync"

// Kind identifies a class of event.
type Kind string

const (
	FieldValidated      Kind = "field.validated"
	FieldCleared        Kind = "field.cleared"
	SubmitStateChanged  Kind = "submit.state"
	NotificationShown   Kind = "notification.shown"
	NotificationLeaving Kind = "notification.leaving"
	NotificationRemoved Kind = "notification.removed"
	ThemeChanged        Kind = "theme.changed"
)

// Event carries a kind, the topic it concerns (a field name, a
// notification id, a session) and an arbitrary payload.
type Event struct {
	Kind    Kind
	Topic   string
	Payload any
}

// Handler receives published events.
type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus delivers events to subscribers in subscription order, on the
// publisher's goroutine. A nil *Bus accepts publishes and drops them.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[Kind][]subscription
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{subs: make(map[Kind][]subscription)}
}

// Subscribe registers h for kind and returns a function that removes it.
func (b *Bus) Subscribe(kind Kind, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[kind] = append(b.subs[kind], subscription{id: id, handler: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[kind]
		for i, s := range list {
			if s.id == id {
				b.subs[kind] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers e to every handler subscribed to e.Kind.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}

	b.mu.RLock()
	list := make([]subscription, len(b.subs[e.Kind]))
	copy(list, b.subs[e.Kind])
	b.mu.RUnlock()

	for _, s := range list {
		s.handler(e)
	}
}
