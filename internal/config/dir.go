// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// configDirOverride lets tests bypass os.UserHomeDir, which does not honor
// HOME on every platform.
var configDirOverride string

// ConfigDir returns the reptor configuration directory: %APPDATA%\reptor on
// Windows, ~/Library/Application Support/reptor on macOS and
// $XDG_CONFIG_HOME/reptor (default ~/.config/reptor) elsewhere.
//
//nolint:revive // ConfigDir reads better than Dir at call sites
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, "Library", "Application Support")
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, AppName), nil
}

// PluginsDir is the private module directory, <config dir>/plugins.
func PluginsDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "plugins"), nil
}

// SetConfigDirOverride replaces the platform lookup in ConfigDir.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset clears test overrides.
func Reset() {
	configDirOverride = ""
}
