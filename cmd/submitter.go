package cmd

import (
	"fmt"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/db"
)

// buildSubmitter picks the configured delivery backend and, when enabled,
// wraps it so every message is archived first.
func buildSubmitter(cfg *config.Config, database *db.DB) (contact.Submitter, error) {
	var next contact.Submitter
	switch cfg.Submitter {
	case config.SubmitterDelay:
		next = contact.NewDelaySubmitter(cfg.SubmitDelay)
	case config.SubmitterSMTP:
		mail := contact.MailConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			To:       cfg.SMTP.To,
		}
		next = contact.NewMailSubmitter(mail)
	case config.SubmitterWebhook:
		next = contact.NewWebhookSubmitter(cfg.WebhookURL, cfg.SubmitTimeout)
	default:
		return nil, fmt.Errorf("unknown submitter %q", cfg.Submitter)
	}

	if !cfg.Archive {
		return next, nil
	}
	return &contact.ArchiveSubmitter{Archive: contact.NewArchive(database), Next: next}, nil
}
