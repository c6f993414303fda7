package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/events"
)

func TestShowCreatesIndependentBanners(t *testing.T) {
	c := NewCenter(WithTimeout(time.Hour))

	a := c.Show(Error, "Please correct the errors above")
	b := c.Show(Error, "Please correct the errors above")

	assert.NotEqual(t, a.ID, b.ID)
	require.Len(t, c.List(), 2)
	assert.Equal(t, Visible, c.List()[0].Phase)
	assert.Equal(t, "fa-exclamation-circle", a.Icon())
	assert.Equal(t, "fa-check-circle", Notification{Severity: Success}.Icon())
}

func TestAutoDismissWithoutInteraction(t *testing.T) {
	c := NewCenter(WithTimeout(20*time.Millisecond), WithExit(10*time.Millisecond))

	c.Show(Success, "sent")
	require.Equal(t, 1, c.Len())

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestCloseRemovesRegardlessOfElapsedTime(t *testing.T) {
	c := NewCenter(WithTimeout(time.Hour), WithExit(10*time.Millisecond))

	n := c.Show(Success, "sent")
	require.True(t, c.Close(n.ID))

	got, ok := c.Get(n.ID)
	require.True(t, ok)
	assert.Equal(t, Leaving, got.Phase)

	assert.False(t, c.Close(n.ID), "second close is a no-op while leaving")
	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
	assert.False(t, c.Close(n.ID))
}

func TestCloseUnknown(t *testing.T) {
	c := NewCenter()
	assert.False(t, c.Close("missing"))
}

func TestLifecycleEvents(t *testing.T) {
	bus := events.New()
	var (
		mu    sync.Mutex
		kinds []events.Kind
	)
	record := func(e events.Event) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, "visitor-1", e.Topic)
		kinds = append(kinds, e.Kind)
	}
	bus.Subscribe(events.NotificationShown, record)
	bus.Subscribe(events.NotificationLeaving, record)
	bus.Subscribe(events.NotificationRemoved, record)

	c := NewCenter(WithTimeout(time.Hour), WithExit(time.Millisecond), WithBus(bus, "visitor-1"))
	n := c.Show(Error, "boom")
	c.Close(n.ID)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(kinds) == 3
	}, time.Second, 5*time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []events.Kind{events.NotificationShown, events.NotificationLeaving, events.NotificationRemoved}, kinds)
}
