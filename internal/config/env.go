package config

import (
	"fmt"
	"os"
	"strconv"
)

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TASK_CLI_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TASK_CLI_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TASK_CLI_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("TASK_CLI_COLOR"); v != "" {
		cfg.Color = v
	}
	// https://no-color.org: any non-empty value disables colour.
	if v := os.Getenv("NO_COLOR"); v != "" {
		cfg.Color = ColorNever
	}
	if v := os.Getenv("TASK_CLI_ON_CORRUPT"); v != "" {
		cfg.OnCorrupt = v
	}
	if v := os.Getenv("TASK_CLI_LOCK_TIMEOUT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TASK_CLI_LOCK_TIMEOUT: %q is not a number of seconds", v)
		}
		cfg.LockTimeoutSeconds = n
	}
	if v := os.Getenv("TASK_CLI_DEBUG"); boolFromString(v) {
		cfg.LogLevel = "debug"
	}
	return nil
}
