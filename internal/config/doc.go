// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.task-cli.toml or <user config dir>/task-cli/config.toml)
// 3. Project config file (task-cli.toml or .task-cli.toml in the working directory)
// 4. Environment variables (TASK_CLI_*, NO_COLOR)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
// The task file itself is always tasks.json in the working directory and is
// not configurable.
package config
