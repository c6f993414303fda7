package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, SubmitterDelay, cfg.Submitter)
	assert.Equal(t, 2*time.Second, cfg.SubmitDelay)
	assert.Equal(t, 5*time.Second, cfg.NotificationTimeout)
	assert.True(t, cfg.UsingDefaultAdmin())
	assert.NoError(t, cfg.Validate())
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.yml")

	original := DefaultConfig()
	original.Port = "9090"
	original.Submitter = SubmitterWebhook
	original.WebhookURL = "https://forms.example.com/f/abc"
	original.SubmitDelay = 500 * time.Millisecond
	original.SMTP.To = "owner@example.com"
	require.NoError(t, original.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", loaded.Port)
	assert.Equal(t, SubmitterWebhook, loaded.Submitter)
	assert.Equal(t, "https://forms.example.com/f/abc", loaded.WebhookURL)
	assert.Equal(t, 500*time.Millisecond, loaded.SubmitDelay)
	assert.Equal(t, "owner@example.com", loaded.SMTP.To)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().DBPath, cfg.DBPath)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORTFOLIO_SUBMITTER", "smtp")
	t.Setenv("PORTFOLIO_SMTP__HOST", "mail.example.com")
	t.Setenv("PORTFOLIO_NOTIFICATION_TIMEOUT", "3s")
	t.Setenv("SMTP_USER", "site@example.com")
	t.Setenv("ADMIN_PASSWORD", "hunter2")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yml"))
	require.NoError(t, err)
	assert.Equal(t, SubmitterSMTP, cfg.Submitter)
	assert.Equal(t, "mail.example.com", cfg.SMTP.Host)
	assert.Equal(t, 3*time.Second, cfg.NotificationTimeout)
	assert.Equal(t, "site@example.com", cfg.SMTP.Username)
	assert.Equal(t, "hunter2", cfg.Admin.Password)
	assert.False(t, cfg.UsingDefaultAdmin())
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("port: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"empty port", func(c *Config) { c.Port = "" }, "port is required"},
		{"empty db", func(c *Config) { c.DBPath = "" }, "db_path is required"},
		{"bad mode", func(c *Config) { c.Mode = "verbose" }, "invalid mode"},
		{"bad submitter", func(c *Config) { c.Submitter = "carrier-pigeon" }, "invalid submitter"},
		{"webhook without url", func(c *Config) { c.Submitter = SubmitterWebhook }, "webhook_url is required"},
		{"negative delay", func(c *Config) { c.SubmitDelay = -time.Second }, "submit_delay"},
		{"zero timeout", func(c *Config) { c.NotificationTimeout = 0 }, "notification_timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
