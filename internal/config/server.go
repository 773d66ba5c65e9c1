package config

import (
	"errors"
	"fmt"
	"time"
)

// Server is the configuration of the reference backend.
type Server struct {
	Telemetry *TelemetryConfig `yaml:"telemetry,omitempty" ignored:"true"`
	Addr      string           `yaml:"addr" envconfig:"ADDR"`
	DBPath    string           `yaml:"db_path" envconfig:"DB_PATH"`
	LogLevel  string           `yaml:"log_level" envconfig:"LOG_LEVEL"`
	// JWTSecret signs access tokens. Required.
	JWTSecret string          `yaml:"jwt_secret" envconfig:"JWT_SECRET"`
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
	TokenTTL  time.Duration   `yaml:"token_ttl" envconfig:"TOKEN_TTL"`
	// ShutdownTimeout bounds graceful shutdown of the HTTP server.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// RateLimitConfig limits requests per client IP. Auth endpoints get their
// own, stricter budget.
type RateLimitConfig struct {
	Requests     int           `yaml:"requests" envconfig:"REQUESTS"`
	AuthRequests int           `yaml:"auth_requests" envconfig:"AUTH_REQUESTS"`
	Window       time.Duration `yaml:"window" envconfig:"WINDOW"`
}

// DefaultServer returns the configuration used without a file.
func DefaultServer() *Server {
	return &Server{
		Addr:     ":8080",
		DBPath:   "possync-server.db",
		LogLevel: "info",
	}
}

// LoadServer reads the YAML file at path (optional) over the defaults,
// then the environment, and validates the result.
func LoadServer(path string) (*Server, error) {
	cfg := DefaultServer()
	if err := load(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (s *Server) validate() error {
	if s.Addr == "" {
		return errors.New("addr is required")
	}
	if s.DBPath == "" {
		return errors.New("db_path is required")
	}
	if len(s.JWTSecret) < 16 {
		return errors.New("jwt_secret must be at least 16 characters")
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	if !validLevel(s.LogLevel) {
		return fmt.Errorf("log_level %q must be one of debug, info, warn, error", s.LogLevel)
	}
	if err := positive("token_ttl", s.TokenTTL); err != nil {
		return err
	}
	if s.TokenTTL == 0 {
		s.TokenTTL = 12 * time.Hour
	}
	if s.ShutdownTimeout <= 0 {
		s.ShutdownTimeout = 10 * time.Second
	}
	if err := s.RateLimit.validate(); err != nil {
		return err
	}
	return s.Telemetry.validate("possync-server")
}

func (r *RateLimitConfig) validate() error {
	if r.Requests < 0 || r.AuthRequests < 0 {
		return errors.New("rate_limit requests must not be negative")
	}
	if err := positive("rate_limit.window", r.Window); err != nil {
		return err
	}
	if r.Requests == 0 {
		r.Requests = 600
	}
	if r.AuthRequests == 0 {
		r.AuthRequests = 10
	}
	if r.Window == 0 {
		r.Window = time.Minute
	}
	return nil
}
