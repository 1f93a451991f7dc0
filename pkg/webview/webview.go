// Package webview opens a native window whose only content is the operating
// system's own web component (WebKitGTK, WKWebView or WebView2) and bridges
// messages between page script and Go.
//
// A WebView is bound to the goroutine that created it. That goroutine is the
// UI thread: it must call Run, and UI-only operations called from any other
// goroutine return ErrNotUIThread. Use Dispatch to run work on the UI thread.
package webview

import (
	"context"
	"unsafe"

	"github.com/bnema/nativeview/internal/lifecycle"
	"github.com/bnema/nativeview/internal/sizing"
)

// Hint selects how SetSize constrains the window.
type Hint = sizing.Hint

const (
	HintNone  = sizing.HintNone
	HintMin   = sizing.HintMin
	HintMax   = sizing.HintMax
	HintFixed = sizing.HintFixed
)

// State is the window lifecycle state.
type State = lifecycle.State

const (
	StateCreated    = lifecycle.StateCreated
	StateShown      = lifecycle.StateShown
	StateHidden     = lifecycle.StateHidden
	StateTerminated = lifecycle.StateTerminated
)

const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// MessageFunc receives the string passed to window.external.invoke. It runs
// on the UI thread, once per message, in the order the page posted them.
type MessageFunc func(msg string)

// Options configures a WebView.
type Options struct {
	// Width and Height are the initial content size; zero selects the default.
	Width  int
	Height int
	Title  string
	// StartHidden creates the window without showing it.
	StartHidden bool
	// Debug enables developer tools in the web engine.
	Debug bool
	// HideOnClose hides the window on native close instead of terminating.
	HideOnClose bool
	// OnMessage receives messages posted by page script.
	OnMessage MessageFunc
	// Loader resolves URLs for the headless engine. Nil selects DefaultLoader.
	Loader Loader
	// DataPath overrides the WebView2 user data folder.
	DataPath string
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	return o
}

func (o Options) closeAction() lifecycle.CloseAction {
	if o.HideOnClose {
		return lifecycle.CloseHides
	}
	return lifecycle.CloseTerminates
}

// WebView is a native window hosting a single web surface.
type WebView interface {
	// Show makes the window visible. Safe from any goroutine.
	Show() error
	// Hide hides the window without destroying it. Safe from any goroutine.
	Hide() error
	SetTitle(title string) error
	SetSize(width, height int, hint Hint) error
	// SetIcon sets the window icon from encoded image data.
	SetIcon(icon []byte) error
	// Navigate starts loading url. There is no completion notification.
	Navigate(url string) error
	// Init registers script to run before page script in every later document.
	Init(script string) error
	// Eval runs script in the current document without waiting for it.
	Eval(script string) error
	// Run pumps the native event loop until Terminate.
	Run() error
	// Terminate stops the event loop. Safe from any goroutine.
	Terminate()
	// Dispatch queues fn to run on the UI thread. Safe from any goroutine.
	Dispatch(fn func()) error
	// Window returns the native window handle: GtkWindow*, NSWindow* or HWND.
	Window() unsafe.Pointer
	State() State
	// Destroy terminates and releases the native resources.
	Destroy()
}

// New creates the native window and web surface for the current platform.
// The calling goroutine becomes the UI thread and is locked to its OS thread.
// Cancelling ctx terminates the WebView.
//
// If the native web component cannot be created the process shows an alert
// and exits with status 1.
func New(ctx context.Context, opts Options) (WebView, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return newEngine(ctx, opts.withDefaults())
}
