// Package theme holds the light/dark display preference and the boundary
// through which it is loaded and saved.
package theme

import (
	"context"
	"fmt"
	"sync"

	"github.com/Zachkp/portfolio/internal/events"
)

// Key is the preference key the theme is stored under.
const Key = "theme"

// Theme is a display mode.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"

	Default = Light
)

// Parse accepts "light" or "dark".
func Parse(s string) (Theme, bool) {
	switch Theme(s) {
	case Light, Dark:
		return Theme(s), true
	}
	return "", false
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Icon is the toggle button icon: a moon offers dark mode, a sun offers
// light mode.
func (t Theme) Icon() string {
	if t == Dark {
		return "fa-sun"
	}
	return "fa-moon"
}

// Store is a key-value preference store.
type Store interface {
	Load(ctx context.Context, key string) (value string, ok bool, err error)
	Save(ctx context.Context, key, value string) error
}

// Preference is the current theme of one visitor, backed by a Store.
type Preference struct {
	mu      sync.Mutex
	current Theme
	store   Store
	bus     *events.Bus
	topic   string
}

// Load reads the stored theme. A missing or unrecognised value yields
// the default theme.
func Load(ctx context.Context, store Store, bus *events.Bus, topic string) (*Preference, error) {
	p := &Preference{current: Default, store: store, bus: bus, topic: topic}

	raw, ok, err := store.Load(ctx, Key)
	if err != nil {
		return nil, fmt.Errorf("loading theme: %w", err)
	}
	if ok {
		if t, valid := Parse(raw); valid {
			p.current = t
		}
	}
	return p, nil
}

// Current returns the active theme.
func (p *Preference) Current() Theme {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Toggle switches to the other theme and saves it.
func (p *Preference) Toggle(ctx context.Context) (Theme, error) {
	p.mu.Lock()
	next := p.current.Toggle()
	p.mu.Unlock()

	if err := p.Set(ctx, next); err != nil {
		return p.Current(), err
	}
	return next, nil
}

// Set saves t and makes it current. On a save error the current theme is
// left unchanged.
func (p *Preference) Set(ctx context.Context, t Theme) error {
	if _, ok := Parse(string(t)); !ok {
		return fmt.Errorf("unknown theme %q", t)
	}

	p.mu.Lock()
	if err := p.store.Save(ctx, Key, string(t)); err != nil {
		p.mu.Unlock()
		return fmt.Errorf("saving theme: %w", err)
	}
	p.current = t
	p.mu.Unlock()

	p.bus.Publish(events.Event{Kind: events.ThemeChanged, Topic: p.topic, Payload: t})
	return nil
}

// MemoryStore is a Store kept in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Load implements Store.
func (m *MemoryStore) Load(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
