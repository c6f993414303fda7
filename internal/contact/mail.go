package contact

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// MailConfig holds the SMTP settings used to forward submissions.
type MailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	To       string
}

// Configured reports whether credentials and a recipient are present.
func (c MailConfig) Configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != "" && c.To != ""
}

// sendFunc matches smtp.SendMail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// MailSubmitter forwards a submission to the site owner by email.
type MailSubmitter struct {
	cfg    MailConfig
	send   sendFunc
	policy *bluemonday.Policy
}

// NewMailSubmitter creates a MailSubmitter.
func NewMailSubmitter(cfg MailConfig) *MailSubmitter {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &MailSubmitter{
		cfg:    cfg,
		send:   smtp.SendMail,
		policy: bluemonday.StrictPolicy(),
	}
}

var mailTemplate = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <h2>New contact form submission</h2>
  <p><strong>From:</strong> {{.Name}} ({{.Email}})</p>
  <p><strong>Subject:</strong> {{.Subject}}</p>
  <div style="background: #f9f9f9; padding: 15px; border-left: 4px solid #2563eb;">{{.Message}}</div>
  <p style="color: #888; font-size: 12px;">Sent from the portfolio contact form.</p>
</body>
</html>`))

// plain strips markup from user input, leaving text for the template to
// escape exactly once.
func (m *MailSubmitter) plain(s string) string {
	return html.UnescapeString(m.policy.Sanitize(s))
}

// Submit sends the message. Markup in user input is stripped first.
func (m *MailSubmitter) Submit(_ context.Context, s Submission) error {
	if !m.cfg.Configured() {
		return fmt.Errorf("SMTP credentials not configured")
	}

	clean := Submission{
		Name:    m.plain(s.Name),
		Email:   m.plain(s.Email),
		Subject: m.plain(s.Subject),
		Message: m.plain(s.Message),
	}

	var body bytes.Buffer
	if err := mailTemplate.Execute(&body, clean); err != nil {
		return fmt.Errorf("rendering contact email: %w", err)
	}

	subject := fmt.Sprintf("Portfolio Contact: %s", headerSafe(clean.Subject))
	msg := []byte("From: " + m.cfg.From + "\r\n" +
		"To: " + m.cfg.To + "\r\n" +
		"Reply-To: " + headerSafe(s.Email) + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n" +
		body.String() + "\r\n")

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := m.send(addr, auth, m.cfg.From, []string{m.cfg.To}, msg); err != nil {
		return fmt.Errorf("sending contact email: %w", err)
	}
	return nil
}

// headerSafe drops line breaks so user input cannot add mail headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}
