package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/nativeview/internal/bridge"
	"github.com/bnema/nativeview/internal/config"
	"github.com/bnema/nativeview/internal/logging"
	"github.com/bnema/nativeview/internal/sizing"
	"github.com/bnema/nativeview/pkg/webview"
)

// MessageEvent is the window event that echoes page messages back to script.
const MessageEvent = "nativeview:message"

// OpenOptions configures App.Open.
type OpenOptions struct {
	Target   string
	Window   config.WindowConfig
	Debug    bool
	Headless bool
	// Watch reloads a local target when it changes on disk.
	Watch    bool
	Debounce time.Duration
	// FollowConfig applies window changes from config.toml while running.
	FollowConfig bool
}

// ViewFactory creates the WebView used by Open.
type ViewFactory func(ctx context.Context, opts webview.Options, headless bool) (webview.WebView, error)

// DefaultViewFactory creates a native view, or a headless one on request.
func DefaultViewFactory(ctx context.Context, opts webview.Options, headless bool) (webview.WebView, error) {
	if headless {
		return webview.NewHeadless(ctx, opts)
	}
	return webview.New(ctx, opts)
}

// Open shows target in a new window and runs its event loop on the calling
// goroutine until the window closes or ctx is cancelled.
func (a *App) Open(ctx context.Context, opts OpenOptions, factory ViewFactory) error {
	if factory == nil {
		factory = DefaultViewFactory
	}
	log := logging.Component(ctx, logging.ComponentCLI)

	target, err := ResolveTarget(opts.Target)
	if err != nil {
		return err
	}
	hint, err := sizing.ParseHint(opts.Window.Hint)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var view webview.WebView
	onMessage := func(msg string) {
		log.Info().Str("message", msg).Msg("message from page")
		if err := view.Eval(bridge.DispatchEventScript(MessageEvent, msg)); err != nil && !errors.Is(err, webview.ErrTerminated) {
			log.Warn().Err(err).Msg("echo message")
		}
	}

	view, err = factory(ctx, webview.Options{
		Width:       opts.Window.Width,
		Height:      opts.Window.Height,
		Title:       opts.Window.Title,
		StartHidden: opts.Window.StartHidden,
		HideOnClose: opts.Window.HideOnClose,
		Debug:       opts.Debug,
		OnMessage:   onMessage,
	}, opts.Headless)
	if err != nil {
		return fmt.Errorf("create view: %w", err)
	}
	defer view.Destroy()

	if err := view.SetSize(opts.Window.Width, opts.Window.Height, hint); err != nil {
		return fmt.Errorf("set size: %w", err)
	}
	if err := view.Navigate(target.URL); err != nil {
		return fmt.Errorf("navigate: %w", err)
	}
	log.Info().Str("url", target.URL).Stringer("hint", hint).Bool("headless", opts.Headless).Msg("opened")

	g, gctx := errgroup.WithContext(ctx)
	switch {
	case opts.Watch && target.Path != "":
		g.Go(func() error {
			err := WatchFile(gctx, target.Path, opts.Debounce, func() {
				reload(view, target.URL, log)
			})
			if err != nil {
				view.Terminate()
			}
			return err
		})
	case opts.Watch:
		log.Warn().Str("url", target.URL).Msg("watch needs a local file, ignoring")
	}

	if opts.FollowConfig && a.Manager != nil {
		a.Manager.OnConfigChange(func(cfg *config.Config) {
			applyWindowConfig(view, cfg.Window, log)
		})
		a.Manager.Watch()
	}

	runErr := view.Run()
	cancel()
	if err := g.Wait(); err != nil {
		return err
	}
	return runErr
}

func reload(view webview.WebView, url string, log zerolog.Logger) {
	err := view.Dispatch(func() {
		if err := view.Navigate(url); err != nil {
			log.Warn().Err(err).Msg("reload")
		}
	})
	if err != nil && !errors.Is(err, webview.ErrTerminated) {
		log.Warn().Err(err).Msg("queue reload")
	}
}

// applyWindowConfig queues a title and size update from a reloaded config.
func applyWindowConfig(view webview.WebView, w config.WindowConfig, log zerolog.Logger) {
	hint, err := sizing.ParseHint(w.Hint)
	if err != nil {
		log.Warn().Err(err).Msg("ignoring window config")
		return
	}
	err = view.Dispatch(func() {
		if err := view.SetTitle(w.Title); err != nil {
			log.Warn().Err(err).Msg("apply title")
		}
		if err := view.SetSize(w.Width, w.Height, hint); err != nil {
			log.Warn().Err(err).Msg("apply size")
		}
	})
	if err != nil && !errors.Is(err, webview.ErrTerminated) {
		log.Warn().Err(err).Msg("queue window config")
	}
}
