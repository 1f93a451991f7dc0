package config

import (
	"os"
	"path/filepath"
)

const (
	appName        = "nativeview"
	configFileName = "config.toml"
	dirPerm        = 0o755
	filePerm       = 0o644
)

// GetConfigDir returns $XDG_CONFIG_HOME/nativeview, falling back to the
// platform user config directory.
func GetConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName), nil
}

// GetConfigFile returns the path of the TOML configuration file.
func GetConfigFile() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}
