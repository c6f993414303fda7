package server

import (
	"html/template"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/counter"
	"github.com/Zachkp/portfolio/internal/notify"
	"github.com/Zachkp/portfolio/internal/splash"
	"github.com/Zachkp/portfolio/internal/theme"
)

type fieldSpec struct {
	Label   string
	Type    string
	Options []string
}

var fieldSpecs = map[contact.Field]fieldSpec{
	contact.FieldName:    {Label: "Full Name", Type: "text"},
	contact.FieldEmail:   {Label: "Email Address", Type: "email"},
	contact.FieldSubject: {Label: "Subject", Type: "select", Options: contact.Subjects},
	contact.FieldMessage: {Label: "Message", Type: "textarea"},
	contact.FieldPrivacy: {Label: "I agree to the privacy policy", Type: "checkbox"},
}

type fieldView struct {
	Name    string
	Label   string
	Type    string
	Options []string
	Value   string
	Checked bool
	Error   string
}

func newFieldView(form *contact.Form, field contact.Field) fieldView {
	spec, ok := fieldSpecs[field]
	if !ok {
		spec = fieldSpec{Label: string(field), Type: "text"}
	}
	v := fieldView{
		Name:    string(field),
		Label:   spec.Label,
		Type:    spec.Type,
		Options: spec.Options,
		Value:   form.Value(field),
	}
	v.Checked = v.Type == "checkbox" && contact.Validate(field, v.Value).Valid
	v.Error, _ = form.Error(field)
	return v
}

type formView struct {
	Fields        []fieldView
	Button        contact.Button
	Notifications []notify.Notification
	// OOB marks a response that also replaces the notification list.
	OOB bool
}

func newFormView(sess *session) formView {
	fields := make([]fieldView, 0, len(contact.RequiredFields))
	for _, f := range contact.RequiredFields {
		fields = append(fields, newFieldView(sess.form, f))
	}
	return formView{
		Fields:        fields,
		Button:        sess.lifecycle.Button(),
		Notifications: sess.notices.List(),
	}
}

// blankFormView is the form of a visitor who has not interacted with it.
func blankFormView() formView {
	form := contact.NewForm(nil, "")
	fields := make([]fieldView, 0, len(contact.RequiredFields))
	for _, f := range contact.RequiredFields {
		fields = append(fields, newFieldView(form, f))
	}
	return formView{Fields: fields, Button: contact.ButtonFor(contact.Idle)}
}

type statView struct {
	Label  string
	Value  string
	Frames []string
}

func newStatViews(stats []Stat) []statView {
	out := make([]statView, 0, len(stats))
	for _, s := range stats {
		v := statView{Label: s.Label, Value: s.Value}
		if t, err := counter.Parse(s.Value); err == nil {
			v.Frames = counter.Frames(t, counter.DefaultDuration, counter.DefaultFrame)
		}
		out = append(out, v)
	}
	return out
}

type pageView struct {
	Name     string
	Title    string
	Theme    theme.Theme
	Toggle   themeResponse
	About    template.HTML
	Projects []Project
	Stats    []statView
	Metrics  []statView
	Splash   []splash.Step
	HideMS   int64
	Form     formView
	Year     int
}

func initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

func currentYear() int { return time.Now().Year() }
