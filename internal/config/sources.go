package config

import (
	"os"
	"path/filepath"
)

const appName = "task-cli"

// findProjectConfigFile returns the first project config file in the
// current directory, or "".
func findProjectConfigFile() string {
	for _, name := range []string{appName + ".toml", "." + appName + ".toml"} {
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			if abs, err := filepath.Abs(name); err == nil {
				return abs
			}
			return name
		}
	}
	return ""
}

// findUserConfigFile returns the user-level config file, or "".
func findUserConfigFile() string {
	// First try ~/.task-cli.toml
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, "."+appName+".toml")
		if fileExists(path) {
			return path
		}
	}

	// Then the OS-specific config directory
	if dir, err := os.UserConfigDir(); err == nil {
		path := filepath.Join(dir, appName, "config.toml")
		if fileExists(path) {
			return path
		}
	}

	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
