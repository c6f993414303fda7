// Package notify is the banner surface used to report form outcomes.
// Every Show creates an independent banner that leaves on its own after a
// timeout or when closed, through a short exit phase before removal.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Zachkp/portfolio/internal/events"
)

// Severity of a banner.
type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
)

// Phase of a banner on screen.
type Phase string

const (
	Visible Phase = "visible"
	Leaving Phase = "leaving"
)

const (
	DefaultTimeout = 5 * time.Second
	DefaultExit    = 300 * time.Millisecond
)

// Notification is one banner.
type Notification struct {
	ID        string    `json:"id"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	Phase     Phase     `json:"phase"`
	CreatedAt time.Time `json:"created_at"`
}

// Icon is the font-awesome class for the banner's severity.
func (n Notification) Icon() string {
	if n.Severity == Success {
		return "fa-check-circle"
	}
	return "fa-exclamation-circle"
}

type entry struct {
	n     Notification
	timer *time.Timer
}

// Center holds the banners of one page.
type Center struct {
	mu      sync.Mutex
	entries map[string]*entry
	order   []string

	timeout time.Duration
	exit    time.Duration
	bus     *events.Bus
	topic   string
	now     func() time.Time
}

// Option configures a Center.
type Option func(*Center)

// WithTimeout sets how long a banner stays before leaving on its own.
// Non-positive values keep DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Center) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithExit sets the length of the exit phase.
func WithExit(d time.Duration) Option {
	return func(c *Center) { c.exit = d }
}

// WithBus publishes banner lifecycle events on bus under topic.
func WithBus(bus *events.Bus, topic string) Option {
	return func(c *Center) {
		c.bus = bus
		c.topic = topic
	}
}

// NewCenter creates an empty Center.
func NewCenter(opts ...Option) *Center {
	c := &Center{
		entries: make(map[string]*entry),
		timeout: DefaultTimeout,
		exit:    DefaultExit,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Show adds a banner. Identical messages are not merged.
func (c *Center) Show(severity Severity, message string) Notification {
	n := Notification{
		ID:        uuid.New().String(),
		Severity:  severity,
		Message:   message,
		Phase:     Visible,
		CreatedAt: c.now(),
	}

	c.mu.Lock()
	e := &entry{n: n}
	c.entries[n.ID] = e
	c.order = append(c.order, n.ID)
	e.timer = time.AfterFunc(c.timeout, func() { c.Close(n.ID) })
	c.mu.Unlock()

	c.bus.Publish(events.Event{Kind: events.NotificationShown, Topic: c.topic, Payload: n})
	return n
}

// Close starts the exit phase of a banner. It reports false when the
// banner is unknown or already leaving.
func (c *Center) Close(id string) bool {
	c.mu.Lock()
	e, ok := c.entries[id]
	if !ok || e.n.Phase == Leaving {
		c.mu.Unlock()
		return false
	}
	e.timer.Stop()
	e.n.Phase = Leaving
	n := e.n
	time.AfterFunc(c.exit, func() { c.remove(id) })
	c.mu.Unlock()

	c.bus.Publish(events.Event{Kind: events.NotificationLeaving, Topic: c.topic, Payload: n})
	return true
}

func (c *Center) remove(id string) {
	c.mu.Lock()
	e, ok := c.entries[id]
	if !ok {
		c.mu.Unlock()
		return
	}
	delete(c.entries, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}
	n := e.n
	c.mu.Unlock()

	c.bus.Publish(events.Event{Kind: events.NotificationRemoved, Topic: c.topic, Payload: n})
}

// List returns the banners still attached, oldest first, including those
// in their exit phase.
func (c *Center) List() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.entries[id].n)
	}
	return out
}

// Get returns a banner by id.
func (c *Center) Get(id string) (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return Notification{}, false
	}
	return e.n, true
}

// Len is the number of attached banners.
func (c *Center) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}
