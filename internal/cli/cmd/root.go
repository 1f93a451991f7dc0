// Package cmd provides the Cobra commands of nativeview.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/nativeview/internal/cli"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

var (
	app       *cli.App
	buildInfo = BuildInfo{Version: "dev", Commit: "unknown", BuildDate: "unknown"}

	configDir string
	logLevel  string
	logFormat string

	rootCmd = &cobra.Command{
		Use:   "nativeview",
		Short: "Open web content in a native OS window",
		Long: `nativeview opens a native window whose only content is the operating
system's own web component: WebKitGTK on Linux, WKWebView on macOS and
WebView2 on Windows. Nothing is bundled; the platform engine renders.

Messages posted by the page through window.external.invoke are logged and
echoed back to the page as a "nativeview:message" event.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "version":
				return nil
			}

			var err error
			app, err = cli.NewApp(cli.Options{
				ConfigDir: configDir,
				LogLevel:  logLevel,
				LogFormat: logFormat,
				Output:    cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			return nil
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "nativeview %s (commit %s, built %s)\n",
				buildInfo.Version, buildInfo.Commit, buildInfo.BuildDate)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "directory holding config.toml (default $XDG_CONFIG_HOME/nativeview)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info BuildInfo) {
	buildInfo = info
}
