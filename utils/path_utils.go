package utils

import (
	"os"
	"path/filepath"
)

// AppID names the config directory, the autostart entry and the desktop file.
const AppID = "screen-dimmer"

// ConfigEnv overrides the default settings path when set.
const ConfigEnv = "SCREEN_DIMMER_CONFIG"

// GetConfigDir returns the per-user configuration directory for the app,
// e.g. ~/.config/screen-dimmer.
func GetConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppID), nil
}

// DefaultSettingsPath resolves where settings live: $SCREEN_DIMMER_CONFIG if
// set, otherwise settings.yaml in the config directory.
func DefaultSettingsPath() (string, error) {
	if p := os.Getenv(ConfigEnv); p != "" {
		return p, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "settings.yaml"), nil
}

// GetExecutablePath returns the absolute, symlink-resolved path of the running binary.
func GetExecutablePath() (string, error) {
	exePath, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exePath); err == nil {
		exePath = resolved
	}
	return exePath, nil
}
