package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/junsooki/RegionWatch/internal/capture"
	"github.com/junsooki/RegionWatch/internal/input"
)

// EnvPrefix prefixes every environment variable read as a flag default.
const EnvPrefix = "REGIONWATCH_"

// Config holds all runtime configuration. It is built once at startup.
type Config struct {
	WebhookURL string
	Message    string
	Region     capture.Region
	HasRegion  bool
	Interval   time.Duration
	Save       bool
	SaveDir    string
	RelayURL   string
	Timeout    time.Duration
	LogLevel   string
}

// LoadEnv loads KEY=VALUE pairs from the given files (".env" if none)
// into the environment. Missing files are ignored; variables already set
// are not overridden.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ParseFlags loads .env and parses the process flags.
func ParseFlags() (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, err
	}
	return Parse(flag.CommandLine, os.Args[1:])
}

// Parse registers the flags on fs and parses args. Flag defaults come
// from REGIONWATCH_* environment variables.
func Parse(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}
	var region string
	fs.StringVar(&cfg.WebhookURL, "webhook", env("WEBHOOK_URL"), "Webhook URL to POST notifications to (prompted if empty)")
	fs.StringVar(&cfg.Message, "message", env("MESSAGE"), "Message sent when the region changes (prompted if empty)")
	fs.StringVar(&region, "region", env("REGION"), "Region as left,top,right,bottom (prompted if empty)")
	fs.DurationVar(&cfg.Interval, "interval", time.Second, "Pause between captures")
	fs.BoolVar(&cfg.Save, "save", true, "Save first-screenshot.png and current-screenshot.png")
	fs.StringVar(&cfg.SaveDir, "save-dir", ".", "Directory for saved screenshots")
	fs.StringVar(&cfg.RelayURL, "relay", env("RELAY_URL"), "Optional ws:// or wss:// URL that also receives change events")
	fs.DurationVar(&cfg.Timeout, "timeout", 0, "Webhook request timeout (0 = none)")
	fs.StringVar(&cfg.LogLevel, "log-level", envOr("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if region != "" {
		r, err := capture.ParseRegion(region)
		if err != nil {
			return nil, err
		}
		cfg.Region = r
		cfg.HasRegion = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the options that have a fixed shape. The webhook URL,
// message and region geometry are deliberately not checked.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.RelayURL != "" {
		u, err := url.Parse(c.RelayURL)
		if err != nil {
			return fmt.Errorf("relay url: %w", err)
		}
		if u.Scheme != "ws" && u.Scheme != "wss" {
			return fmt.Errorf("relay url must use ws or wss, got %q", u.Scheme)
		}
	}
	return nil
}

// Complete prompts for the webhook URL, message and region when they were
// not supplied by flags or environment, in that order.
func (c *Config) Complete(p *input.Prompter) error {
	var err error
	if c.WebhookURL == "" {
		if c.WebhookURL, err = p.String(input.PromptWebhook); err != nil {
			return err
		}
	}
	if c.Message == "" {
		if c.Message, err = p.String(input.PromptMessage); err != nil {
			return err
		}
	}
	if !c.HasRegion {
		if c.Region, err = p.Region(); err != nil {
			return err
		}
		c.HasRegion = true
	}
	return nil
}

func env(key string) string {
	return os.Getenv(EnvPrefix + key)
}

func envOr(key, fallback string) string {
	if v := env(key); v != "" {
		return v
	}
	return fallback
}
