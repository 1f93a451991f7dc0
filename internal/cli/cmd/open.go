package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/nativeview/internal/cli"
)

var openFlags struct {
	width       int
	height      int
	hint        string
	title       string
	hidden      bool
	hideOnClose bool
	debug       bool
	headless    bool
	watch       bool
	debounce    time.Duration
}

var openCmd = &cobra.Command{
	Use:   "open <url|path>",
	Short: "Open a URL or local file in a native window",
	Long: `Open a URL or a local HTML file in a native web view.

Local paths become file:// URLs. With --watch the page reloads whenever the
file changes on disk. Flags default to the [window] section of config.toml.

Examples:
  nativeview open https://example.com
  nativeview open ./index.html --watch
  nativeview open ./app.html --width 400 --height 300 --hint fixed`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)
	f := openCmd.Flags()
	f.IntVar(&openFlags.width, "width", 0, "content width in pixels")
	f.IntVar(&openFlags.height, "height", 0, "content height in pixels")
	f.StringVar(&openFlags.hint, "hint", "", "size hint: none, min, max or fixed")
	f.StringVar(&openFlags.title, "title", "", "window title")
	f.BoolVar(&openFlags.hidden, "hidden", false, "create the window hidden")
	f.BoolVar(&openFlags.hideOnClose, "hide-on-close", false, "hide the window on close instead of exiting")
	f.BoolVar(&openFlags.debug, "debug", false, "enable developer tools")
	f.BoolVar(&openFlags.headless, "headless", false, "run without a window, scripts only")
	f.BoolVar(&openFlags.watch, "watch", false, "reload a local file when it changes")
	f.DurationVar(&openFlags.debounce, "debounce", 0, "delay coalescing file events (default from config)")
}

func runOpen(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	opts := openOptions(cmd, app, args[0])

	ctx, stop := signal.NotifyContext(app.Ctx(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Open(ctx, opts, nil)
}

// openOptions merges the command line flags over the loaded configuration.
func openOptions(cmd *cobra.Command, app *cli.App, target string) cli.OpenOptions {
	cfg := app.Config
	opts := cli.OpenOptions{
		Target:   target,
		Window:   cfg.Window,
		Debug:    cfg.Debug,
		Watch:    cfg.Watch.Enabled,
		Debounce: cfg.Watch.Debounce,
	}

	f := cmd.Flags()
	windowFlags := false
	if f.Changed("width") {
		opts.Window.Width = openFlags.width
		windowFlags = true
	}
	if f.Changed("height") {
		opts.Window.Height = openFlags.height
		windowFlags = true
	}
	if f.Changed("hint") {
		opts.Window.Hint = openFlags.hint
		windowFlags = true
	}
	if f.Changed("title") {
		opts.Window.Title = openFlags.title
		windowFlags = true
	}
	if f.Changed("hidden") {
		opts.Window.StartHidden = openFlags.hidden
	}
	if f.Changed("hide-on-close") {
		opts.Window.HideOnClose = openFlags.hideOnClose
	}
	if f.Changed("debug") {
		opts.Debug = openFlags.debug
	}
	if f.Changed("watch") {
		opts.Watch = openFlags.watch
	}
	if f.Changed("debounce") {
		opts.Debounce = openFlags.debounce
	}
	opts.Headless = openFlags.headless

	// Explicit window flags win over later edits of config.toml.
	opts.FollowConfig = !windowFlags && app.Manager != nil
	return opts
}
