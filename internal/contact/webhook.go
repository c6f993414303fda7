package contact

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// WebhookSubmitter posts submissions as JSON to a form backend.
type WebhookSubmitter struct {
	url    string
	client *resty.Client
}

// NewWebhookSubmitter creates a submitter for url.
func NewWebhookSubmitter(url string, timeout time.Duration) *WebhookSubmitter {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &WebhookSubmitter{url: url, client: client}
}

type webhookPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type webhookError struct {
	Error string `json:"error"`
}

// Submit posts s. Any non-2xx response is a failure.
func (w *WebhookSubmitter) Submit(ctx context.Context, s Submission) error {
	var failure webhookError
	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(webhookPayload{Name: s.Name, Email: s.Email, Subject: s.Subject, Message: s.Message}).
		SetError(&failure).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("posting to form endpoint: %w", err)
	}
	if resp.IsError() {
		if failure.Error != "" {
			return fmt.Errorf("form endpoint returned %d: %s", resp.StatusCode(), failure.Error)
		}
		return fmt.Errorf("form endpoint returned %d", resp.StatusCode())
	}
	return nil
}
