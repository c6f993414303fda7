// Package splash models the loading screen: a short run of rotating
// status messages and the rule for when the screen is dismissed.
package splash

import "time"

const (
	RotateInterval = 800 * time.Millisecond
	// HideDelay is the wait between the page finishing loading and the
	// splash fading out.
	HideDelay = 1 * time.Second
	// FallbackHide dismisses the splash even if the load never finishes.
	FallbackHide = 5 * time.Second
	FadeOut      = 500 * time.Millisecond
)

// DefaultMessages are shown in order while the page loads.
var DefaultMessages = []string{
	"Initializing Security Portfolio...",
	"Loading Security Frameworks...",
	"Preparing Threat Intelligence...",
	"Finalizing Security Dashboard...",
}

// Rotator owns the index of the message currently displayed.
type Rotator struct {
	messages []string
	index    int
}

// NewRotator starts on the first message. An empty list uses
// DefaultMessages.
func NewRotator(messages []string) *Rotator {
	if len(messages) == 0 {
		messages = DefaultMessages
	}
	return &Rotator{messages: messages}
}

// Current is the message on screen.
func (r *Rotator) Current() string { return r.messages[r.index] }

// Done reports whether the last message has been reached; rotation stops
// there.
func (r *Rotator) Done() bool { return r.index == len(r.messages)-1 }

// Advance moves to the next message unless rotation is done.
func (r *Rotator) Advance() string {
	if !r.Done() {
		r.index++
	}
	return r.Current()
}

// Step is one message and when it appears, relative to page start.
type Step struct {
	AtMS    int64  `json:"at_ms"`
	Message string `json:"message"`
}

// Schedule lists every message with its display time.
func (r *Rotator) Schedule() []Step {
	steps := make([]Step, len(r.messages))
	for i, m := range r.messages {
		steps[i] = Step{AtMS: (time.Duration(i) * RotateInterval).Milliseconds(), Message: m}
	}
	return steps
}

// HideAt is when the splash starts fading out, given how long the page
// took to load. A page that has not loaded uses the fallback.
func HideAt(loadedAfter time.Duration, loaded bool) time.Duration {
	if !loaded {
		return FallbackHide
	}
	return min(loadedAfter+HideDelay, FallbackHide)
}
