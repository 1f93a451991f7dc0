package config

import "time"

const (
	DefaultWidth    = 800
	DefaultHeight   = 600
	DefaultTitle    = "nativeview"
	DefaultDebounce = 250 * time.Millisecond
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Hint:   "none",
			Title:  DefaultTitle,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Watch: WatchConfig{
			Debounce: DefaultDebounce,
		},
	}
}
