// Package cli implements the nativeview host commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/bnema/nativeview/internal/cli/styles"
	"github.com/bnema/nativeview/internal/config"
	"github.com/bnema/nativeview/internal/logging"
)

// Options configures NewApp. Empty fields fall back to config and environment.
type Options struct {
	ConfigDir string
	LogLevel  string
	LogFormat string
	// Output receives log output; nil is stderr.
	Output io.Writer
}

// App holds CLI dependencies.
type App struct {
	Config  *config.Config
	Manager *config.Manager
	Theme   *styles.Theme

	// Context with logger
	ctx context.Context
}

// NewApp loads the configuration and builds the logger.
func NewApp(opts Options) (*App, error) {
	// Bootstrap logger for config diagnostics, from env and flags only.
	boot, err := loggerConfig(logging.ApplyEnv(logging.DefaultConfig()), opts)
	if err != nil {
		return nil, err
	}
	bootLogger := logging.New(boot)

	managerOpts := []config.ManagerOption{config.WithLogger(bootLogger)}
	if opts.ConfigDir != "" {
		managerOpts = append(managerOpts, config.WithConfigDir(opts.ConfigDir))
	}
	manager, err := config.NewManager(managerOpts...)
	if err != nil {
		return nil, fmt.Errorf("create config manager: %w", err)
	}

	cfg := loadConfig(manager, bootLogger)

	logCfg := logging.DefaultConfig()
	if lvl, err := logging.ParseLevel(cfg.Logging.Level); err == nil {
		logCfg.Level = lvl
	}
	if cfg.Logging.Format != "" {
		logCfg.Format = cfg.Logging.Format
	}
	logCfg, err = loggerConfig(logCfg, opts)
	if err != nil {
		return nil, err
	}
	logger := logging.New(logCfg)

	return &App{
		Config:  cfg,
		Manager: manager,
		Theme:   styles.NewTheme(),
		ctx:     logging.WithContext(context.Background(), logger),
	}, nil
}

// Ctx returns the context carrying the app logger.
func (a *App) Ctx() context.Context {
	if a.ctx == nil {
		return context.Background()
	}
	return a.ctx
}

// Logger returns the app logger.
func (a *App) Logger() *zerolog.Logger {
	return logging.FromContext(a.Ctx())
}

// loggerConfig applies the command line overrides on top of cfg.
func loggerConfig(cfg logging.Config, opts Options) (logging.Config, error) {
	cfg.TimeFormat = "15:04:05"
	cfg.Output = opts.Output
	if opts.LogLevel != "" {
		lvl, err := logging.ParseLevel(opts.LogLevel)
		if err != nil {
			return cfg, err
		}
		cfg.Level = lvl
	}
	switch opts.LogFormat {
	case "":
	case "json", "console":
		cfg.Format = opts.LogFormat
	default:
		return cfg, fmt.Errorf("unknown log format %q (want console or json)", opts.LogFormat)
	}
	return cfg, nil
}

// loadConfig returns the loaded configuration, or the defaults when the file
// cannot be read.
func loadConfig(m *config.Manager, logger zerolog.Logger) *config.Config {
	if err := m.Load(); err != nil {
		logger.Warn().Err(err).Str("file", m.ConfigFile()).Msg("using default configuration")
		return config.DefaultConfig()
	}
	return m.Get()
}

// ConfigPath returns the config file path and whether it exists.
func (a *App) ConfigPath() (string, bool) {
	path := a.Manager.ConfigFile()
	info, err := os.Stat(path)
	return path, err == nil && info.Mode().IsRegular()
}
