package config

import "flag"

// FlagError reports a command line the flag package rejected. The flag
// package has already printed the problem and the usage text.
type FlagError struct {
	Err error
}

func (e *FlagError) Error() string {
	return e.Err.Error()
}

func (e *FlagError) Unwrap() error {
	return e.Err
}

// parseFlags defines and parses the global CLI flags.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet(appName, flag.ContinueOnError)
	}

	fs.StringVar(&cfg.Format, "format", cfg.Format, "Output format for list (text|json|yaml)")
	fs.StringVar(&cfg.Color, "color", cfg.Color, "Colour output (auto|always|never)")
	noColor := fs.Bool("no-color", false, "Disable colour output (same as -color never)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.StringVar(&cfg.OnCorrupt, "on-corrupt", cfg.OnCorrupt, "What to do with an unreadable tasks.json (fail|reset)")
	fs.IntVar(&cfg.LockTimeoutSeconds, "lock-timeout", cfg.LockTimeoutSeconds, "Seconds to wait for another task-cli to release tasks.json")

	if err := fs.Parse(args); err != nil {
		return &FlagError{Err: err}
	}
	if *noColor {
		cfg.Color = ColorNever
	}
	return nil
}
