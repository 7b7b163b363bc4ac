package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/ykvlv/autopilot-dashboard/internal/domain"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BackendURL     string        `envconfig:"BACKEND_URL" required:"true"`
	BackendTimeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"15s"`
	HTTPAddr       string        `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
	LogFile        string        `envconfig:"LOG_FILE"`                 // optional rotating file sink
	DefaultTZ      string        `envconfig:"DEFAULT_TZ" default:"UTC"`
	FirstPostAt    string        `envconfig:"FIRST_POST_AT" default:"09:00"`
	Theme          string        `envconfig:"THEME" default:"light"` // light|dark

	// FrequencyRevert makes a failed frequency write revert the draft the
	// same way a failed toggle does. Off keeps the displayed choice.
	FrequencyRevert bool `envconfig:"FREQUENCY_REVERT" default:"false"`

	SessionCookie string        `envconfig:"SESSION_COOKIE" default:"autopilot_session"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"2h"`
	SweepInterval time.Duration `envconfig:"SWEEP_INTERVAL" default:"5m"`

	JournalPath      string        `envconfig:"JOURNAL_PATH"` // empty disables the failure journal
	JournalRetention time.Duration `envconfig:"JOURNAL_RETENTION" default:"168h"`

	IntentRate  float64 `envconfig:"INTENT_RATE" default:"5"` // intents per second per session
	IntentBurst int     `envconfig:"INTENT_BURST" default:"10"`
}

// Load reads an optional .env file, then environment variables into Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	cfg.FirstPostAt = domain.FormatMinutes(cfg.FirstPostMinutes())
	return cfg, nil
}

// Validate rejects values that would only fail later at request time.
func (c Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("BACKEND_URL must be an absolute URL, got %q", c.BackendURL)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}
	if _, err := time.LoadLocation(c.DefaultTZ); err != nil {
		return fmt.Errorf("DEFAULT_TZ: %w", err)
	}
	if _, err := domain.ParseClock(c.FirstPostAt); err != nil {
		return fmt.Errorf("FIRST_POST_AT: %w", err)
	}
	switch c.Theme {
	case "light", "dark":
	default:
		return fmt.Errorf("THEME must be light or dark, got %q", c.Theme)
	}
	if c.BackendTimeout <= 0 {
		return errors.New("BACKEND_TIMEOUT must be positive")
	}
	if c.SessionTTL <= 0 || c.SweepInterval <= 0 {
		return errors.New("SESSION_TTL and SWEEP_INTERVAL must be positive")
	}
	if c.IntentRate <= 0 || c.IntentBurst < 1 {
		return errors.New("INTENT_RATE must be positive and INTENT_BURST at least 1")
	}
	return nil
}

// FirstPostMinutes returns FIRST_POST_AT as minutes since midnight.
// Validate has already checked the format.
func (c Config) FirstPostMinutes() int {
	m, _ := domain.ParseClock(c.FirstPostAt)
	return m
}
