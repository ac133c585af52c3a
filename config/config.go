// Package config loads and validates the heartserve service configuration.
//
// Configuration is layered: built-in defaults, then an optional JSON file,
// then HEARTSERVE_* environment variables (a .env file is honored when
// present). Validate rejects configurations the service cannot start with.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/c360/heartserve/errors"
)

// Duration wraps time.Duration to accept "5s"-style strings in JSON.
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"5s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalJSON implements json.Marshaler
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config represents the complete service configuration
type Config struct {
	Server ServerConfig `json:"server"`
	Model  ModelConfig  `json:"model"`
	Audit  AuditConfig  `json:"audit"`
	Log    LogConfig    `json:"log"`
}

// ServerConfig defines the HTTP listener settings
type ServerConfig struct {
	Addr           string   `json:"addr"`
	RequestTimeout Duration `json:"request_timeout"`
}

// ModelConfig locates the classifier artifact
type ModelConfig struct {
	Path string `json:"path"`
}

// AuditConfig locates the prediction audit log
type AuditConfig struct {
	Path string `json:"path"`
}

// LogConfig defines process logging settings
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// Default returns the built-in configuration defaults
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8000",
			RequestTimeout: Duration(5 * time.Second),
		},
		Model: ModelConfig{Path: "models/model.json"},
		Audit: AuditConfig{Path: "logs/predictions_log.csv"},
		Log:   LogConfig{Level: "info", Format: "json"},
	}
}

// Load builds the configuration from defaults, the optional JSON file at
// path (empty path skips the file), and HEARTSERVE_* environment overrides.
func Load(path string) (*Config, error) {
	// Optional .env for local development; absence is not an error
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WrapFatal(err, "Config", "Load", "read config file")
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.WrapFatal(
				fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err),
				"Config", "Load", "decode config file")
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides config fields from HEARTSERVE_* variables
func applyEnv(cfg *Config) {
	if v := os.Getenv("HEARTSERVE_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("HEARTSERVE_REQUEST_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Server.RequestTimeout = Duration(parsed)
		}
	}
	if v := os.Getenv("HEARTSERVE_MODEL_PATH"); v != "" {
		cfg.Model.Path = v
	}
	if v := os.Getenv("HEARTSERVE_AUDIT_PATH"); v != "" {
		cfg.Audit.Path = v
	}
	if v := os.Getenv("HEARTSERVE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("HEARTSERVE_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// Validate checks the configuration for conditions the service cannot
// start with
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.WrapFatal(
			fmt.Errorf("%w: server.addr must not be empty", errors.ErrInvalidConfig),
			"Config", "Validate", "check server address")
	}
	if time.Duration(c.Server.RequestTimeout) <= 0 {
		return errors.WrapFatal(
			fmt.Errorf("%w: server.request_timeout must be positive", errors.ErrInvalidConfig),
			"Config", "Validate", "check request timeout")
	}
	if c.Model.Path == "" {
		return errors.WrapFatal(
			fmt.Errorf("%w: model.path must not be empty", errors.ErrInvalidConfig),
			"Config", "Validate", "check model path")
	}
	if c.Audit.Path == "" {
		return errors.WrapFatal(
			fmt.Errorf("%w: audit.path must not be empty", errors.ErrInvalidConfig),
			"Config", "Validate", "check audit path")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.WrapFatal(
			fmt.Errorf("%w: invalid log level %q", errors.ErrInvalidConfig, c.Log.Level),
			"Config", "Validate", "check log level")
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return errors.WrapFatal(
			fmt.Errorf("%w: invalid log format %q", errors.ErrInvalidConfig, c.Log.Format),
			"Config", "Validate", "check log format")
	}

	return nil
}
