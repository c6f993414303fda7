package contact

import (
	"context"
	"time"
)

// DefaultSubmitDelay is how long the placeholder submitter waits.
const DefaultSubmitDelay = 2 * time.Second

// Submission is a validated form handed to a Submitter.
type Submission struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Email       string    `json:"email" yaml:"email"`
	Subject     string    `json:"subject" yaml:"subject"`
	Message     string    `json:"message" yaml:"message"`
	Privacy     bool      `json:"privacy" yaml:"privacy"`
	SubmittedAt time.Time `json:"submitted_at" yaml:"submitted_at"`
}

// Submitter delivers a submission. A nil error is success; any error is a
// failure carrying its reason.
type Submitter interface {
	Submit(ctx context.Context, s Submission) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, s Submission) error

// Submit calls f.
func (f SubmitterFunc) Submit(ctx context.Context, s Submission) error {
	return f(ctx, s)
}

// DelaySubmitter stands in for a backend: it waits a fixed delay and
// always succeeds. The wait is not cut short by ctx.
type DelaySubmitter struct {
	Delay time.Duration
}

// NewDelaySubmitter returns a placeholder submitter. A non-positive delay
// uses DefaultSubmitDelay.
func NewDelaySubmitter(delay time.Duration) *DelaySubmitter {
	if delay <= 0 {
		delay = DefaultSubmitDelay
	}
	return &DelaySubmitter{Delay: delay}
}

// Submit waits for the configured delay.
func (d *DelaySubmitter) Submit(_ context.Context, _ Submission) error {
	<-time.After(d.Delay)
	return nil
}
