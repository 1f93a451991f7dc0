// Package config loads the nativeview host configuration from TOML and the
// environment.
package config

import "time"

// Config represents the complete configuration for the nativeview host.
type Config struct {
	// Window holds the initial window geometry and behavior.
	Window WindowConfig `mapstructure:"window" toml:"window" json:"window"`
	// Debug enables developer tools and console output in the web engine.
	Debug   bool          `mapstructure:"debug" toml:"debug" json:"debug"`
	Logging LoggingConfig `mapstructure:"logging" toml:"logging" json:"logging"`
	// Watch reloads local documents when they change on disk.
	Watch WatchConfig `mapstructure:"watch" toml:"watch" json:"watch"`
}

// WindowConfig controls the window created by `nativeview open`.
type WindowConfig struct {
	Width  int `mapstructure:"width" toml:"width" json:"width" jsonschema:"minimum=1"`
	Height int `mapstructure:"height" toml:"height" json:"height" jsonschema:"minimum=1"`
	// Hint is how Width and Height constrain the window: none, min, max or fixed.
	Hint        string `mapstructure:"hint" toml:"hint" json:"hint" jsonschema:"enum=none,enum=min,enum=max,enum=fixed"`
	Title       string `mapstructure:"title" toml:"title" json:"title"`
	StartHidden bool   `mapstructure:"start_hidden" toml:"start_hidden" json:"start_hidden"`
	// HideOnClose hides the window on native close instead of exiting.
	HideOnClose bool `mapstructure:"hide_on_close" toml:"hide_on_close" json:"hide_on_close"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
	Format string `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json"`
}

// WatchConfig controls file watching for local documents.
type WatchConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	// Debounce coalesces bursts of file events, e.g. "250ms".
	Debounce time.Duration `mapstructure:"debounce" toml:"debounce" json:"debounce"`
}
