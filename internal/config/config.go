// Package config loads the site configuration: defaults, then an optional
// YAML file, then environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides. Nested keys use a double
// underscore: PORTFOLIO_SMTP__HOST sets smtp.host.
const EnvPrefix = "PORTFOLIO_"

// Submitter backends.
const (
	SubmitterDelay   = "delay"
	SubmitterSMTP    = "smtp"
	SubmitterWebhook = "webhook"
)

// Config is the site configuration, corresponding to portfolio.yml.
type Config struct {
	Port                string        `yaml:"port" koanf:"port"`
	Mode                string        `yaml:"mode" koanf:"mode"`
	LogLevel            string        `yaml:"log_level" koanf:"log_level"`
	DBPath              string        `yaml:"db_path" koanf:"db_path"`
	Submitter           string        `yaml:"submitter" koanf:"submitter"`
	SubmitDelay         time.Duration `yaml:"submit_delay" koanf:"submit_delay"`
	SubmitTimeout       time.Duration `yaml:"submit_timeout" koanf:"submit_timeout"`
	NotificationTimeout time.Duration `yaml:"notification_timeout" koanf:"notification_timeout"`
	Archive             bool          `yaml:"archive" koanf:"archive"`
	WebhookURL          string        `yaml:"webhook_url" koanf:"webhook_url"`
	SMTP                SMTPConfig    `yaml:"smtp" koanf:"smtp"`
	Admin               AdminConfig   `yaml:"admin" koanf:"admin"`
}

// SMTPConfig configures the mail submitter.
type SMTPConfig struct {
	Host     string `yaml:"host" koanf:"host"`
	Port     string `yaml:"port" koanf:"port"`
	Username string `yaml:"username" koanf:"username"`
	Password string `yaml:"password" koanf:"password"`
	From     string `yaml:"from" koanf:"from"`
	To       string `yaml:"to" koanf:"to"`
}

// AdminConfig holds the dashboard credentials.
type AdminConfig struct {
	Username string `yaml:"username" koanf:"username"`
	Password string `yaml:"password" koanf:"password"`
}

// DefaultConfig returns the development defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:                "8080",
		Mode:                "debug",
		LogLevel:            "info",
		DBPath:              "data/portfolio.db",
		Submitter:           SubmitterDelay,
		SubmitDelay:         2 * time.Second,
		SubmitTimeout:       15 * time.Second,
		NotificationTimeout: 5 * time.Second,
		Archive:             true,
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: "587",
		},
		Admin: AdminConfig{
			Username: "admin",
			Password: "admin123",
		},
	}
}

// Load reads .env (if present), the YAML file at path (if present) and
// PORTFOLIO_* overrides, then the plain variables the site has always
// honoured (PORT, SMTP_HOST, ...).
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	applyLegacyEnv(cfg)
	return cfg, nil
}

func applyLegacyEnv(cfg *Config) {
	set := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	set("PORT", &cfg.Port)
	set("SMTP_HOST", &cfg.SMTP.Host)
	set("SMTP_PORT", &cfg.SMTP.Port)
	set("SMTP_USER", &cfg.SMTP.Username)
	set("SMTP_PASS", &cfg.SMTP.Password)
	set("TO_EMAIL", &cfg.SMTP.To)
	set("ADMIN_USERNAME", &cfg.Admin.Username)
	set("ADMIN_PASSWORD", &cfg.Admin.Password)
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validSubmitters = map[string]bool{
	SubmitterDelay:   true,
	SubmitterSMTP:    true,
	SubmitterWebhook: true,
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	switch c.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid mode %q: must be one of debug, release, test", c.Mode)
	}
	if !validSubmitters[c.Submitter] {
		return fmt.Errorf("invalid submitter %q: must be one of delay, smtp, webhook", c.Submitter)
	}
	if c.Submitter == SubmitterWebhook && c.WebhookURL == "" {
		return fmt.Errorf("webhook_url is required for the webhook submitter")
	}
	if c.SubmitDelay < 0 {
		return fmt.Errorf("submit_delay must be non-negative")
	}
	if c.NotificationTimeout <= 0 {
		return fmt.Errorf("notification_timeout must be positive")
	}
	return nil
}

// UsingDefaultAdmin reports whether the built-in development credentials
// are still in place.
func (c *Config) UsingDefaultAdmin() bool {
	d := DefaultConfig().Admin
	return c.Admin.Username == d.Username && c.Admin.Password == d.Password
}
