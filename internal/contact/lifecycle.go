package contact

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Zachkp/portfolio/internal/events"
	"github.com/Zachkp/portfolio/internal/notify"
)

// Notification texts for the three submit outcomes.
const (
	NoticeInvalid = "Please correct the errors above"
	NoticeSent    = "Thank you! Your message has been sent successfully. I'll get back to you within 24 hours."
	NoticeFailed  = "Sorry, there was an error sending your message. Please try again or contact me directly."
)

// Submit button labels.
const (
	LabelIdle    = "Send Message"
	LabelSending = "Sending..."
)

// ErrSubmitInProgress is returned when a submit arrives while the previous
// one has not finished, whatever the state of the visible button.
var ErrSubmitInProgress = errors.New("contact: submission already in progress")

// State of the submit lifecycle.
type State int

const (
	Idle State = iota
	Submitting
)

func (s State) String() string {
	if s == Submitting {
		return "submitting"
	}
	return "idle"
}

// Button is how the submit control should be drawn for a state.
type Button struct {
	Disabled bool
	Label    string
}

// ButtonFor maps a state to the submit control.
func ButtonFor(s State) Button {
	if s == Submitting {
		return Button{Disabled: true, Label: LabelSending}
	}
	return Button{Disabled: false, Label: LabelIdle}
}

// Status of a finished submit call.
type Status string

const (
	StatusInvalid Status = "invalid"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

// Outcome describes what a submit call did.
type Outcome struct {
	Status       Status
	Report       Report
	Notification notify.Notification
	// Err is the submitter's failure reason when Status is StatusFailed.
	Err error
}

// Notifier shows a banner.
type Notifier interface {
	Show(severity notify.Severity, message string) notify.Notification
}

// Lifecycle drives one form from Idle through Submitting and back.
type Lifecycle struct {
	mu    sync.Mutex
	state State
	// inFlight is set for the whole of a Submit call, validation included,
	// so two submits can never overlap.
	inFlight bool

	form      *Form
	submitter Submitter
	notifier  Notifier
	bus       *events.Bus
	topic     string
	logger    *slog.Logger
}

// LifecycleOption configures a Lifecycle.
type LifecycleOption func(*Lifecycle)

// WithEvents publishes state changes on bus under topic.
func WithEvents(bus *events.Bus, topic string) LifecycleOption {
	return func(l *Lifecycle) {
		l.bus = bus
		l.topic = topic
	}
}

// WithLogger sets the logger used for submit failures.
func WithLogger(logger *slog.Logger) LifecycleOption {
	return func(l *Lifecycle) { l.logger = logger }
}

// NewLifecycle wires a form to a submitter and a notifier.
func NewLifecycle(form *Form, submitter Submitter, notifier Notifier, opts ...LifecycleOption) *Lifecycle {
	l := &Lifecycle{
		form:      form,
		submitter: submitter,
		notifier:  notifier,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Form returns the form driven by l.
func (l *Lifecycle) Form() *Form { return l.form }

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Button returns the submit control for the current state.
func (l *Lifecycle) Button() Button {
	return ButtonFor(l.State())
}

// Submit validates the form and, when it is valid, hands it to the
// submitter. It blocks for the duration of the submission. A call made
// while another is still Submitting returns ErrSubmitInProgress.
func (l *Lifecycle) Submit(ctx context.Context) (Outcome, error) {
	return l.SubmitValues(ctx, nil)
}

// SubmitValues is Submit for a freshly posted form: values are stored
// only once no other submission is running, so a rejected call never
// touches the form.
func (l *Lifecycle) SubmitValues(ctx context.Context, values map[Field]string) (Outcome, error) {
	l.mu.Lock()
	if l.inFlight {
		l.mu.Unlock()
		return Outcome{}, ErrSubmitInProgress
	}
	l.inFlight = true
	l.mu.Unlock()
	defer func() {
		l.mu.Lock()
		l.inFlight = false
		l.mu.Unlock()
	}()

	for field, value := range values {
		l.form.Set(field, value)
	}

	report := l.form.Validate()
	if !report.Valid {
		n := l.notifier.Show(notify.Error, NoticeInvalid)
		return Outcome{Status: StatusInvalid, Report: report, Notification: n}, nil
	}

	sub := l.form.Submission()
	l.setState(Submitting)

	err := l.submitter.Submit(ctx, sub)

	out := Outcome{Status: StatusSent, Report: report}
	if err != nil {
		l.logger.Error("contact submission failed", "error", err, "session", l.topic)
		out.Status = StatusFailed
		out.Err = err
		out.Notification = l.notifier.Show(notify.Error, NoticeFailed)
	} else {
		l.form.Reset()
		out.Notification = l.notifier.Show(notify.Success, NoticeSent)
	}

	l.setState(Idle)
	return out, nil
}

func (l *Lifecycle) setState(s State) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()
	l.publish(s)
}

func (l *Lifecycle) publish(s State) {
	l.bus.Publish(events.Event{Kind: events.SubmitStateChanged, Topic: l.topic, Payload: s})
}
