package config

import (
	"fmt"
	"strings"
	"time"
)

// Default values.
const (
	DefaultLogLevel           = "warn"
	DefaultLogFormat          = "text"
	DefaultFormat             = FormatText
	DefaultColor              = ColorAuto
	DefaultOnCorrupt          = "fail"
	DefaultLockTimeoutSeconds = 5
)

// Output formats for list.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Colour modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds the full configuration for task-cli.
type Config struct {
	// Logging
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// Output
	Format string `toml:"format"`
	Color  string `toml:"color"`

	// Store behaviour
	OnCorrupt          string `toml:"on_corrupt"`
	LockTimeoutSeconds int    `toml:"lock_timeout_seconds"`

	// WorkDir holds tasks.json; defaults to the current directory.
	WorkDir string `toml:"-"`

	// Files lists the config files that were applied, in order.
	Files []string `toml:"-"`
}

func setDefaults(cfg *Config) {
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.Format = DefaultFormat
	cfg.Color = DefaultColor
	cfg.OnCorrupt = DefaultOnCorrupt
	cfg.LockTimeoutSeconds = DefaultLockTimeoutSeconds
}

// Default returns a config holding only built-in defaults.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// LockTimeout returns the lock wait as a duration.
func (c *Config) LockTimeout() time.Duration {
	return time.Duration(c.LockTimeoutSeconds) * time.Second
}

// Validate normalizes enum fields and rejects unknown values.
func (c *Config) Validate() error {
	var err error
	if c.LogLevel, err = oneOf("log_level", c.LogLevel, "debug", "info", "warn", "warning", "error"); err != nil {
		return err
	}
	if c.LogFormat, err = oneOf("log_format", c.LogFormat, "text", "json", "logfmt"); err != nil {
		return err
	}
	if c.Format, err = oneOf("format", c.Format, FormatText, FormatJSON, FormatYAML); err != nil {
		return err
	}
	if c.Color, err = oneOf("color", c.Color, ColorAuto, ColorAlways, ColorNever); err != nil {
		return err
	}
	if c.OnCorrupt, err = oneOf("on_corrupt", c.OnCorrupt, "fail", "reset"); err != nil {
		return err
	}
	if c.LockTimeoutSeconds < 0 {
		return fmt.Errorf("lock_timeout_seconds must not be negative, got %d", c.LockTimeoutSeconds)
	}
	return nil
}

func oneOf(field, value string, allowed ...string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid %s %q, must be one of: %s", field, value, strings.Join(allowed, ", "))
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
