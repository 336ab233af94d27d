package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# task-cli configuration file
# Place in ./task-cli.toml (project) or ~/.config/task-cli/config.toml (user).
# Values can be overridden by TASK_CLI_* environment variables or CLI flags.

# Diagnostic logging on stderr: debug, info, warn, error
log_level = "warn"

# Log line format: text, json, logfmt
log_format = "text"

# Output format for list: text, json, yaml
format = "text"

# Colour: auto (only on a terminal), always, never
color = "auto"

# Unreadable tasks.json: "fail" stops without touching the file,
# "reset" starts from an empty list and overwrites it on the next change
on_corrupt = "fail"

# Seconds to wait for another task-cli process to release tasks.json
lock_timeout_seconds = 5
`
}
