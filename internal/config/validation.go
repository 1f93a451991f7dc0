package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/nativeview/internal/logging"
	"github.com/bnema/nativeview/internal/sizing"
)

func normalizeConfig(config *Config) {
	config.Window.Hint = strings.ToLower(strings.TrimSpace(config.Window.Hint))
	if config.Window.Hint == "" {
		config.Window.Hint = sizing.HintNone.String()
	}

	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	switch strings.ToLower(config.Logging.Format) {
	case "json":
		config.Logging.Format = "json"
	default:
		config.Logging.Format = "console"
	}

	if config.Watch.Debounce <= 0 {
		config.Watch.Debounce = DefaultDebounce
	}
}

// validateConfig performs validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateWindow(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validateWatch(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}

func validateWindow(config *Config) []string {
	var validationErrors []string
	if config.Window.Width <= 0 {
		validationErrors = append(validationErrors, "window.width must be positive")
	}
	if config.Window.Height <= 0 {
		validationErrors = append(validationErrors, "window.height must be positive")
	}
	if _, err := sizing.ParseHint(config.Window.Hint); err != nil {
		validationErrors = append(validationErrors, "window.hint must be one of none, min, max, fixed")
	}
	return validationErrors
}

func validateLogging(config *Config) []string {
	if _, err := logging.ParseLevel(config.Logging.Level); err != nil {
		return []string{"logging.level must be one of trace, debug, info, warn, error"}
	}
	return nil
}

func validateWatch(config *Config) []string {
	if config.Watch.Debounce > 10*time.Second {
		return []string{"watch.debounce must not exceed 10s"}
	}
	return nil
}
