package contact

import (
	"sync"

	"github.com/Zachkp/portfolio/internal/events"
)

// Report is the outcome of checking every required field at once.
type Report struct {
	Valid   bool
	Results []Result
}

// Errors returns the message for every failing field.
func (r Report) Errors() map[Field]string {
	out := make(map[Field]string)
	for _, res := range r.Results {
		if !res.Valid {
			out[res.Field] = res.Message
		}
	}
	return out
}

// Form mirrors one live contact form: the current value of each field
// and the inline error currently shown next to it. Validation state is
// derived on demand; only the displayed message is kept between calls.
type Form struct {
	mu     sync.Mutex
	values map[Field]string
	errors map[Field]string

	bus   *events.Bus
	topic string
}

// NewForm creates an empty form. Field events are published on bus under
// topic (the owning session), bus may be nil.
func NewForm(bus *events.Bus, topic string) *Form {
	return &Form{
		values: make(map[Field]string),
		errors: make(map[Field]string),
		bus:    bus,
		topic:  topic,
	}
}

// Value returns the current raw value of field.
func (f *Form) Value(field Field) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[field]
}

// Set stores a value without touching the displayed error.
func (f *Form) Set(field Field, value string) {
	f.mu.Lock()
	f.values[field] = value
	f.mu.Unlock()
}

// Blur is the authoritative check run when a field loses focus: the value
// is stored, validated, and its error shown or cleared.
func (f *Form) Blur(field Field, value string) Result {
	f.mu.Lock()
	f.values[field] = value
	res := f.check(field)
	f.mu.Unlock()

	f.bus.Publish(events.Event{Kind: events.FieldValidated, Topic: f.topic, Payload: res})
	return res
}

// Input handles a keystroke or change. It stores the value and clears a
// previously shown error but never shows a new one.
func (f *Form) Input(field Field, value string) {
	f.mu.Lock()
	f.values[field] = value
	_, had := f.errors[field]
	delete(f.errors, field)
	f.mu.Unlock()

	if had {
		f.bus.Publish(events.Event{Kind: events.FieldCleared, Topic: f.topic, Payload: field})
	}
}

// Error returns the message currently shown for field, if any.
func (f *Form) Error(field Field) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg, ok := f.errors[field]
	return msg, ok
}

// Errors returns a copy of every displayed error.
func (f *Form) Errors() map[Field]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[Field]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Validate checks every required field without stopping at the first
// failure, so all errors are displayed together.
func (f *Form) Validate() Report {
	f.mu.Lock()
	report := Report{Valid: true, Results: make([]Result, 0, len(RequiredFields))}
	for _, field := range RequiredFields {
		res := f.check(field)
		if !res.Valid {
			report.Valid = false
		}
		report.Results = append(report.Results, res)
	}
	f.mu.Unlock()

	for _, res := range report.Results {
		f.bus.Publish(events.Event{Kind: events.FieldValidated, Topic: f.topic, Payload: res})
	}
	return report
}

// Submission snapshots the current values.
func (f *Form) Submission() Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Submission{
		Name:    trim(f.values[FieldName]),
		Email:   trim(f.values[FieldEmail]),
		Subject: trim(f.values[FieldSubject]),
		Message: trim(f.values[FieldMessage]),
		Privacy: isChecked(f.values[FieldPrivacy]),
	}
}

// Reset clears every value and displayed error.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = make(map[Field]string)
	f.errors = make(map[Field]string)
}

// check must be called with f.mu held.
func (f *Form) check(field Field) Result {
	res := Validate(field, f.values[field])
	if res.Valid {
		delete(f.errors, field)
	} else {
		f.errors[field] = res.Message
	}
	return res
}
