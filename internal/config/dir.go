// Package config provides configuration loading for wrapup.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the wrapup configuration directory.
//
// Resolution:
//   - $WRAPUP_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/wrapup if set (respects XDG on any platform)
//   - %AppData%/wrapup on Windows
//   - ~/.config/wrapup on macOS and Linux
func Dir() string {
	// Explicit override
	if dir := os.Getenv("WRAPUP_CONFIG_HOME"); dir != "" {
		return dir
	}

	// XDG override (works on any platform)
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "wrapup")
	}

	// Windows: use AppData
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "wrapup")
		}
	}

	// macOS and Linux: ~/.config/wrapup
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "wrapup")
}

// LogsDir returns the directory for run logs, under the config directory.
func LogsDir() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "logs")
}
