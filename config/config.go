// Package config handles loading application configuration from YAML files,
// a local .env file and environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/openclaw/urlqr/qrgen"
)

// ErrInvalid is returned by Validate for settings that cannot be used.
var ErrInvalid = errors.New("invalid config")

// Config holds all application configuration values.
type Config struct {
	OutputDir       string   `yaml:"output_dir"`
	ModuleSize      int      `yaml:"module_size"`
	Border          int      `yaml:"border"`
	Version         int      `yaml:"version"`
	ErrorCorrection string   `yaml:"error_correction"`
	Preview         bool     `yaml:"preview"`
	DataDir         string   `yaml:"data_dir"`
	Port            int      `yaml:"port"`
	LogLevel        string   `yaml:"log_level"`
	ViewerTimeout   Duration `yaml:"viewer_timeout"`
}

// Duration is a wrapper around time.Duration that supports YAML unmarshalling
// from human-readable strings like "30s", "5m", "1h".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Defaults returns a Config populated with the stock encoding settings.
func Defaults() *Config {
	enc := qrgen.DefaultConfig()
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return &Config{
		OutputDir:       enc.OutputDir,
		ModuleSize:      enc.ModuleSize,
		Border:          enc.Border,
		Version:         enc.Version,
		ErrorCorrection: "medium",
		Preview:         false,
		DataDir:         filepath.Join(homeDir, ".urlqr"),
		Port:            8566,
		LogLevel:        "warn",
		ViewerTimeout:   Duration{10 * time.Second},
	}
}

// Load reads configuration from the YAML file at path, falling back to
// defaults if the file does not exist. Variables from ./.env are exported
// first (without clobbering the real environment), then URLQR_* variables
// override file and default values.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
			// File doesn't exist, proceed with defaults.
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	// A missing .env is the common case.
	_ = godotenv.Load()

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides applies URLQR_* environment variable overrides to cfg.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("URLQR_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("URLQR_MODULE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ModuleSize = n
		}
	}
	if v := os.Getenv("URLQR_BORDER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Border = n
		}
	}
	if v := os.Getenv("URLQR_VERSION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Version = n
		}
	}
	if v := os.Getenv("URLQR_ERROR_CORRECTION"); v != "" {
		cfg.ErrorCorrection = v
	}
	if v := os.Getenv("URLQR_PREVIEW"); v != "" {
		switch strings.ToLower(v) {
		case "true", "1", "yes":
			cfg.Preview = true
		case "false", "0", "no":
			cfg.Preview = false
		}
	}
	if v := os.Getenv("URLQR_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("URLQR_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("URLQR_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("URLQR_VIEWER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ViewerTimeout = Duration{d}
		}
	}
}

// Validate checks that the encoding settings can build a generator.
func (c *Config) Validate() error {
	if _, err := c.Encoding(); err != nil {
		return err
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d", ErrInvalid, c.Port)
	}
	return nil
}

// Encoding returns the immutable generator configuration described by c.
func (c *Config) Encoding() (qrgen.Config, error) {
	level, err := qrgen.ParseLevel(c.ErrorCorrection)
	if err != nil {
		return qrgen.Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	enc := qrgen.Config{
		Version:    c.Version,
		ModuleSize: c.ModuleSize,
		Border:     c.Border,
		Level:      level,
		OutputDir:  c.OutputDir,
	}
	switch {
	case enc.Version < 1 || enc.Version > 40:
		return qrgen.Config{}, fmt.Errorf("%w: version %d out of range 1..40", ErrInvalid, enc.Version)
	case enc.ModuleSize < 1:
		return qrgen.Config{}, fmt.Errorf("%w: module_size must be positive", ErrInvalid)
	case enc.Border < 0:
		return qrgen.Config{}, fmt.Errorf("%w: border must not be negative", ErrInvalid)
	case enc.OutputDir == "":
		return qrgen.Config{}, fmt.Errorf("%w: output_dir is empty", ErrInvalid)
	}
	return enc, nil
}

// HistoryPath is the SQLite file that records generation attempts.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

// EnsureDataDir creates the DataDir if it does not already exist.
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir %s: %w", c.DataDir, err)
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
