// Package config loads the client and server configuration: a YAML file
// first, then POSSYNC_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/telemetry"
)

// EnvPrefix prefixes every environment override, e.g. POSSYNC_SERVER_URL.
const EnvPrefix = "POSSYNC"

// TelemetryConfig holds optional OpenTelemetry settings. Omit the block
// entirely to disable telemetry.
type TelemetryConfig struct {
	// Headers are sent as gRPC metadata on every OTLP request.
	Headers map[string]string `yaml:"headers,omitempty"`
	// OTLPEndpoint is the gRPC host:port of the collector.
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	ServiceName  string `yaml:"service_name"`
	// Insecure disables TLS for the collector connection.
	Insecure bool `yaml:"insecure"`
}

func (t *TelemetryConfig) validate(defaultName string) error {
	if t == nil {
		return nil
	}
	if t.OTLPEndpoint == "" {
		return errors.New("telemetry.otlp_endpoint is required when telemetry is configured")
	}
	if t.ServiceName == "" {
		t.ServiceName = defaultName
	}
	return nil
}

// Settings converts the block for telemetry.Setup; nil stays nil.
func (t *TelemetryConfig) Settings(version string) *telemetry.Config {
	if t == nil {
		return nil
	}
	return &telemetry.Config{
		Headers:      t.Headers,
		OTLPEndpoint: t.OTLPEndpoint,
		ServiceName:  t.ServiceName,
		Version:      version,
		Insecure:     t.Insecure,
	}
}

// load decodes the YAML file at path, if any, then applies the environment.
func load(path string, cfg any) error {
	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return err
		}
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}
	return nil
}

func decodeFile(path string, cfg any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening config file %q: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true) // reject unknown keys to catch typos early
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing config file %q: %w", path, err)
	}
	return nil
}

// ParseLevel converts a log level name; unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func validLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

func validateHTTPURL(name, raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s %q must be a valid http or https URL", name, raw)
	}
	return nil
}

func positive(name string, d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%s must not be negative", name)
	}
	return nil
}
