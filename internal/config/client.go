package config

import (
	"fmt"
	"time"
)

// Client is the configuration of the POS sync client.
type Client struct {
	// Telemetry is optional; nil disables OpenTelemetry export.
	Telemetry *TelemetryConfig `yaml:"telemetry,omitempty" ignored:"true"`
	ServerURL string           `yaml:"server_url" envconfig:"SERVER_URL"`
	DBPath    string           `yaml:"db_path" envconfig:"DB_PATH"`
	LogLevel  string           `yaml:"log_level" envconfig:"LOG_LEVEL"`
	Sync      SyncConfig       `yaml:"sync" envconfig:"SYNC"`
	// Offline skips connectivity probes; every change stays queued.
	Offline bool `yaml:"offline" envconfig:"OFFLINE"`
}

// SyncConfig tunes the sync engine.
type SyncConfig struct {
	// Interval between automatic push+pull cycles.
	Interval time.Duration `yaml:"interval" envconfig:"INTERVAL"`
	// ProbeInterval between connectivity checks.
	ProbeInterval time.Duration `yaml:"probe_interval" envconfig:"PROBE_INTERVAL"`
	// StaleAfter is how old the last push may be before NeedsSync says yes.
	StaleAfter time.Duration `yaml:"stale_after" envconfig:"STALE_AFTER"`
	// MaxAttempts bounds automatic re-sends of a failed queue entry.
	MaxAttempts int `yaml:"max_attempts" envconfig:"MAX_ATTEMPTS"`
	// CallAttempts is the number of tries of one remote call within a push.
	CallAttempts int `yaml:"call_attempts" envconfig:"CALL_ATTEMPTS"`
	PageSize     int `yaml:"page_size" envconfig:"PAGE_SIZE"`
	// PruneMissing removes local records that vanished remotely on pull.
	PruneMissing bool `yaml:"prune_missing" envconfig:"PRUNE_MISSING"`
	// KeepProcessed retains confirmed queue entries for audit.
	KeepProcessed bool `yaml:"keep_processed" envconfig:"KEEP_PROCESSED"`
	// LastWriterWins sends updates unconditionally instead of with the
	// version they were based on.
	LastWriterWins bool `yaml:"last_writer_wins" envconfig:"LAST_WRITER_WINS"`
	// SkipInitialSync disables the full cycle run at startup.
	SkipInitialSync bool `yaml:"skip_initial_sync" envconfig:"SKIP_INITIAL_SYNC"`
}

// DefaultClient returns the configuration used without a file.
func DefaultClient() *Client {
	return &Client{
		ServerURL: "http://localhost:8080",
		DBPath:    "possync-client.db",
		LogLevel:  "info",
		Sync:      SyncConfig{PruneMissing: true},
	}
}

// LoadClient reads the YAML file at path (optional) over the defaults, then
// the environment, and validates the result.
func LoadClient(path string) (*Client, error) {
	cfg := DefaultClient()
	if err := load(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Client) validate() error {
	if err := validateHTTPURL("server_url", c.ServerURL); err != nil {
		return err
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if !validLevel(c.LogLevel) {
		return fmt.Errorf("log_level %q must be one of debug, info, warn, error", c.LogLevel)
	}
	if err := c.Sync.validate(); err != nil {
		return err
	}
	return c.Telemetry.validate("possync-client")
}

func (s *SyncConfig) validate() error {
	for name, d := range map[string]time.Duration{
		"sync.interval":       s.Interval,
		"sync.probe_interval": s.ProbeInterval,
		"sync.stale_after":    s.StaleAfter,
	} {
		if err := positive(name, d); err != nil {
			return err
		}
	}

	if s.Interval == 0 {
		s.Interval = 5 * time.Minute
	}
	if s.Interval < 10*time.Second {
		return fmt.Errorf("sync.interval %v is too short (minimum 10s)", s.Interval)
	}
	if s.ProbeInterval == 0 {
		s.ProbeInterval = 15 * time.Second
	}
	if s.StaleAfter == 0 {
		s.StaleAfter = 10 * time.Minute
	}
	if s.MaxAttempts <= 0 {
		s.MaxAttempts = 5
	}
	if s.CallAttempts <= 0 {
		s.CallAttempts = 3
	}
	if s.PageSize <= 0 {
		s.PageSize = 500
	}
	if s.PageSize > 500 {
		return fmt.Errorf("sync.page_size %d exceeds the server maximum of 500", s.PageSize)
	}
	return nil
}
