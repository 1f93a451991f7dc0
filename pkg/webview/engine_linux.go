//go:build linux && cgo

package webview

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"unsafe"

	webkit "github.com/diamondburned/gotk4-webkitgtk/pkg/webkit/v6"
	"github.com/diamondburned/gotk4-webkitgtk/pkg/javascriptcore/v6"
	coreglib "github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/bnema/nativeview/internal/bridge"
	"github.com/bnema/nativeview/internal/logging"
	"github.com/bnema/nativeview/internal/sizing"
)

var (
	gtkOnce sync.Once
	gtkOK   bool
)

// gtkEngine hosts a WebKitGTK view in a GtkWindow.
type gtkEngine struct {
	*core

	loop   *glib.MainLoop
	window *gtk.Window
	view   *webkit.WebView
	ucm    *webkit.UserContentManager

	clamping bool
	icon     *iconFile
}

func newEngine(ctx context.Context, opts Options) (WebView, error) {
	runtime.LockOSThread()

	gtkOnce.Do(func() { gtkOK = gtk.InitCheck() })
	if !gtkOK {
		return nil, fatal(ctx, "Cannot open a window", errors.New("gtk_init_check failed: no display available"))
	}

	e := &gtkEngine{loop: glib.NewMainLoop(nil, false)}
	e.core = newCore(ctx, opts, bridge.ChannelWebKit, logging.ComponentGTK, e.wake)

	e.view = webkit.NewWebView()
	if e.view == nil {
		return nil, fatal(ctx, "Cannot create web view", errors.New("webkit_web_view_new returned NULL"))
	}

	settings := e.view.Settings()
	settings.SetJavascriptCanAccessClipboard(true)
	if opts.Debug {
		settings.SetEnableDeveloperExtras(true)
		settings.SetEnableWriteConsoleMessagesToStdout(true)
	}

	e.ucm = e.view.UserContentManager()
	if !e.ucm.RegisterScriptMessageHandler(bridge.HandlerName, "") {
		e.logger.Warn().Str("handler", bridge.HandlerName).Msg("failed to register script message handler")
	}
	e.ucm.ConnectScriptMessageReceived(func(value *javascriptcore.Value) {
		e.deliver(value.String())
	})
	for _, script := range e.registry.Scripts() {
		e.addUserScript(script)
	}

	e.window = gtk.NewWindow()
	e.window.SetTitle(opts.Title)
	e.window.SetDefaultSize(opts.Width, opts.Height)
	e.window.SetChild(e.view)
	e.window.ConnectCloseRequest(func() bool {
		if e.closeRequested() {
			e.window.SetVisible(false)
			return true
		}
		e.Terminate()
		return false
	})
	e.window.NotifyProperty("default-width", e.clampToBounds)
	e.window.NotifyProperty("default-height", e.clampToBounds)

	if !opts.StartHidden {
		if _, err := e.setVisible(true); err != nil {
			return nil, err
		}
		e.window.Present()
	} else if _, err := e.setVisible(false); err != nil {
		return nil, err
	}

	e.terminateWhenDone(ctx, e.Terminate)
	e.logger.Debug().Int("width", opts.Width).Int("height", opts.Height).Msg("gtk window created")
	return e, nil
}

func (e *gtkEngine) wake() {
	glib.IdleAdd(func() bool {
		e.drain()
		return false
	})
}

func (e *gtkEngine) addUserScript(src string) {
	e.ucm.AddScript(webkit.NewUserScript(
		src,
		webkit.UserContentInjectTopFrame,
		webkit.UserScriptInjectAtDocumentStart,
		nil,
		nil,
	))
}

// clampToBounds keeps user resizes inside the MAX bound, which GTK 4 has no
// native constraint for.
func (e *gtkEngine) clampToBounds() {
	if e.clamping {
		return
	}
	w, h := e.window.DefaultSize()
	cur := sizing.Size{Width: w, Height: h}
	next := e.policy.Clamp(cur)
	if next == cur {
		return
	}
	e.clamping = true
	e.window.SetDefaultSize(next.Width, next.Height)
	e.clamping = false
}

func (e *gtkEngine) Show() error {
	return e.onUI("show", func() error {
		changed, err := e.setVisible(true)
		if err == nil && changed {
			e.window.Present()
		}
		return err
	})
}

func (e *gtkEngine) Hide() error {
	return e.onUI("hide", func() error {
		changed, err := e.setVisible(false)
		if err == nil && changed {
			e.window.SetVisible(false)
		}
		return err
	})
}

func (e *gtkEngine) SetTitle(title string) error {
	if err := e.checkUI(); err != nil {
		return err
	}
	e.window.SetTitle(title)
	return nil
}

func (e *gtkEngine) SetSize(width, height int, hint Hint) error {
	plan, err := e.applySize(width, height, hint)
	if err != nil {
		return err
	}

	e.window.SetResizable(plan.Resizable)
	minimum := plan.Min
	if minimum.IsZero() {
		e.view.SetSizeRequest(-1, -1)
	} else {
		e.view.SetSizeRequest(minimum.Width, minimum.Height)
	}
	if plan.Resize {
		e.clamping = true
		e.window.SetDefaultSize(plan.Size.Width, plan.Size.Height)
		e.clamping = false
	} else {
		e.clampToBounds()
	}
	return nil
}

// SetIcon writes the image to a temporary directory added to the icon theme
// search path and names it as the window icon.
func (e *gtkEngine) SetIcon(icon []byte) error {
	if err := e.checkUI(); err != nil {
		return err
	}
	f, err := writeIconFile(icon)
	if err != nil {
		if errors.Is(err, ErrInvalidIcon) {
			return err
		}
		e.logger.Warn().Err(err).Msg("set icon")
		return nil
	}

	theme := gtk.IconThemeGetForDisplay(gdk.DisplayGetDefault())
	theme.AddSearchPath(f.dir)
	e.window.SetIconName(f.Name())

	e.icon.Remove()
	e.icon = f
	return nil
}

func (e *gtkEngine) Navigate(url string) error {
	if err := e.setTarget(url); err != nil {
		return err
	}
	e.view.LoadURI(url)
	return nil
}

func (e *gtkEngine) Init(script string) error {
	if err := e.addInit(script); err != nil {
		return err
	}
	e.addUserScript(script)
	return nil
}

func (e *gtkEngine) Eval(script string) error {
	if err := e.checkUI(); err != nil {
		return err
	}
	e.view.EvaluateJavascript(context.Background(), script, -1, "", "", nil)
	return nil
}

func (e *gtkEngine) Run() error {
	if e.machine.Terminated() {
		return nil
	}
	if !e.onUIThread() {
		return ErrNotUIThread
	}
	e.logger.Debug().Msg("entering gtk main loop")
	e.loop.Run()
	return nil
}

// Terminate quits the main loop; g_main_loop_quit is thread-safe.
func (e *gtkEngine) Terminate() {
	if !e.terminate() {
		return
	}
	e.loop.Quit()
}

func (e *gtkEngine) Window() unsafe.Pointer {
	if e.window == nil {
		return nil
	}
	return nativePointer(coreglib.BaseObject(e.window).Native())
}

func (e *gtkEngine) Destroy() {
	e.Terminate()
	release := func() {
		if e.window != nil {
			e.window.Destroy()
			e.window = nil
		}
		e.icon.Remove()
		e.icon = nil
	}
	if e.onUIThread() {
		release()
		return
	}
	glib.IdleAdd(func() bool {
		release()
		return false
	})
}
