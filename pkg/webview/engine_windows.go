package webview

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/jchv/go-webview2/pkg/edge"
	"golang.org/x/sys/windows"

	"github.com/bnema/nativeview/internal/bridge"
	"github.com/bnema/nativeview/internal/deps"
	"github.com/bnema/nativeview/internal/logging"
)

const windowClassName = "NativeviewWindow"

var (
	classOnce sync.Once
	classErr  error

	windowsMu sync.Mutex
	windowsBy = make(map[windows.HWND]*win32Engine)
	// creating receives the messages sent during CreateWindowExW, before
	// the handle is known.
	creating *win32Engine
)

// win32Engine hosts a WebView2 controller in a top-level Win32 window.
type win32Engine struct {
	*core

	hwnd     windows.HWND
	threadID uint32
	chromium *edge.Chromium

	icon      *iconFile
	hicon     uintptr
	destroyed atomic.Bool
}

func newEngine(ctx context.Context, opts Options) (WebView, error) {
	runtime.LockOSThread()

	version, err := deps.WebView2Version()
	if err != nil {
		return nil, fatal(ctx, "WebView2 runtime not found", err)
	}

	instance, err := registerWindowClass()
	if err != nil {
		return nil, fatal(ctx, "Cannot open a window", err)
	}

	e := &win32Engine{threadID: windows.GetCurrentThreadId()}
	e.core = newCore(ctx, opts, bridge.ChannelWebView2, logging.ComponentWebView2, e.wake)
	e.logger.Debug().Str("runtime", version).Msg("WebView2 runtime found")

	if err := e.createWindow(instance, opts); err != nil {
		return nil, fatal(ctx, "Cannot open a window", err)
	}

	e.chromium = edge.NewChromium()
	e.chromium.MessageCallback = e.deliver
	e.chromium.DataPath = opts.DataPath
	if e.chromium.DataPath == "" {
		e.chromium.DataPath = defaultDataPath()
	}
	e.chromium.SetPermission(edge.CoreWebView2PermissionKindClipboardRead, edge.CoreWebView2PermissionStateAllow)

	if !e.chromium.Embed(uintptr(e.hwnd)) {
		e.destroyWindow()
		return nil, fatal(ctx, "Cannot create web view", errors.New("WebView2 controller could not be created"))
	}
	e.chromium.Resize()

	if settings, err := e.chromium.GetSettings(); err != nil {
		e.logger.Warn().Err(err).Msg("read WebView2 settings")
	} else {
		if err := settings.PutAreDevToolsEnabled(opts.Debug); err != nil {
			e.logger.Warn().Err(err).Msg("set devtools")
		}
		if err := settings.PutAreDefaultContextMenusEnabled(opts.Debug); err != nil {
			e.logger.Warn().Err(err).Msg("set context menus")
		}
	}

	for _, script := range e.registry.Scripts() {
		e.chromium.Init(script)
	}

	visible := !opts.StartHidden
	if _, err := e.setVisible(visible); err != nil {
		return nil, err
	}
	if visible {
		showWindow(e.hwnd, swShow)
		_, _, _ = procUpdateWindow.Call(uintptr(e.hwnd))
	}

	e.terminateWhenDone(ctx, e.Terminate)
	e.logger.Debug().Int("width", opts.Width).Int("height", opts.Height).Str("data_path", e.chromium.DataPath).Msg("win32 window created")
	return e, nil
}

func registerWindowClass() (windows.Handle, error) {
	var instance windows.Handle
	if err := windows.GetModuleHandleEx(0, nil, &instance); err != nil {
		return 0, fmt.Errorf("module handle: %w", err)
	}

	classOnce.Do(func() {
		name, err := windows.UTF16PtrFromString(windowClassName)
		if err != nil {
			classErr = err
			return
		}
		cursor, _, _ := procLoadCursorW.Call(0, idcArrow)
		wc := wndClassEx{
			WndProc:    windows.NewCallback(wndProc),
			Instance:   instance,
			Cursor:     windows.Handle(cursor),
			Background: windows.Handle(colorWindow + 1),
			ClassName:  name,
		}
		wc.Size = uint32(unsafe.Sizeof(wc))
		if r, _, err := procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc))); r == 0 {
			classErr = fmt.Errorf("RegisterClassExW: %w", err)
		}
	})
	return instance, classErr
}

func (e *win32Engine) createWindow(instance windows.Handle, opts Options) error {
	class, err := windows.UTF16PtrFromString(windowClassName)
	if err != nil {
		return err
	}
	title, err := windows.UTF16PtrFromString(opts.Title)
	if err != nil {
		return err
	}
	w, h := outerSize(opts.Width, opts.Height, wsOverlappedWindow)

	windowsMu.Lock()
	creating = e
	windowsMu.Unlock()

	hwnd, _, callErr := procCreateWindowExW.Call(
		0,
		uintptr(unsafe.Pointer(class)),
		uintptr(unsafe.Pointer(title)),
		wsOverlappedWindow,
		cwUseDefault, cwUseDefault,
		uintptr(w), uintptr(h),
		0, 0, uintptr(instance), 0,
	)

	windowsMu.Lock()
	creating = nil
	if hwnd != 0 {
		windowsBy[windows.HWND(hwnd)] = e
	}
	windowsMu.Unlock()

	if hwnd == 0 {
		return fmt.Errorf("CreateWindowExW: %w", callErr)
	}
	e.hwnd = windows.HWND(hwnd)
	e.center(opts.Width, opts.Height)
	return nil
}

func lookupWindow(hwnd windows.HWND) *win32Engine {
	windowsMu.Lock()
	defer windowsMu.Unlock()
	if e, ok := windowsBy[hwnd]; ok {
		return e
	}
	if creating != nil {
		creating.hwnd = hwnd
		return creating
	}
	return nil
}

func wndProc(hwnd, msg, wparam, lparam uintptr) uintptr {
	e := lookupWindow(windows.HWND(hwnd))
	if e == nil {
		return defWindowProc(hwnd, msg, wparam, lparam)
	}

	switch msg {
	case wmSize:
		if e.chromium != nil {
			e.chromium.Resize()
		}
		return 0
	case wmGetMinMaxInfo:
		e.trackBounds((*minMaxInfo)(nativePointer(lparam)))
		return 0
	case wmClose:
		if e.closeRequested() {
			showWindow(e.hwnd, swHide)
			return 0
		}
		e.Terminate()
		return 0
	case wmDestroy:
		e.destroyed.Store(true)
		e.Terminate()
		return 0
	case wmDispatch:
		e.drain()
		return 0
	}
	return defWindowProc(hwnd, msg, wparam, lparam)
}

// trackBounds reports the MIN and MAX bounds as outer window sizes.
func (e *win32Engine) trackBounds(info *minMaxInfo) {
	if info == nil {
		return
	}
	style := windowStyle(e.hwnd)
	minSize, maxSize := e.policy.Bounds()
	if !minSize.IsZero() {
		w, h := outerSize(minSize.Width, minSize.Height, style)
		info.MinTrackSize = point{X: int32(w), Y: int32(h)}
	}
	if !maxSize.IsZero() {
		w, h := outerSize(maxSize.Width, maxSize.Height, style)
		info.MaxTrackSize = point{X: int32(w), Y: int32(h)}
	}
}

// center resizes the window to a client size and centres it on screen.
func (e *win32Engine) center(width, height int) {
	w, h := outerSize(width, height, windowStyle(e.hwnd))
	x := (systemMetric(smCXScreen) - w) / 2
	y := (systemMetric(smCYScreen) - h) / 2
	_, _, _ = procSetWindowPos.Call(uintptr(e.hwnd), 0,
		uintptr(int32(x)), uintptr(int32(y)), uintptr(w), uintptr(h),
		swpNoZOrder|swpNoActivate|swpFrameChanged)
}

func (e *win32Engine) wake() {
	if e.destroyed.Load() {
		return
	}
	_, _, _ = procPostMessageW.Call(uintptr(e.hwnd), wmDispatch, 0, 0)
}

func (e *win32Engine) Show() error {
	return e.onUI("show", func() error {
		changed, err := e.setVisible(true)
		if err == nil && changed {
			showWindow(e.hwnd, swShow)
		}
		return err
	})
}

func (e *win32Engine) Hide() error {
	return e.onUI("hide", func() error {
		changed, err := e.setVisible(false)
		if err == nil && changed {
			showWindow(e.hwnd, swHide)
		}
		return err
	})
}

func (e *win32Engine) SetTitle(title string) error {
	if err := e.checkUI(); err != nil {
		return err
	}
	setWindowText(e.hwnd, title)
	return nil
}

func (e *win32Engine) SetSize(width, height int, hint Hint) error {
	plan, err := e.applySize(width, height, hint)
	if err != nil {
		return err
	}

	style := windowStyle(e.hwnd)
	if plan.Resizable {
		style |= wsThickFrame | wsMaximizeBox
	} else {
		style &^= wsThickFrame | wsMaximizeBox
	}
	setWindowStyle(e.hwnd, style)

	if plan.Resize {
		e.center(plan.Size.Width, plan.Size.Height)
		return nil
	}
	// Re-query WM_GETMINMAXINFO with the new bounds.
	_, _, _ = procSetWindowPos.Call(uintptr(e.hwnd), 0, 0, 0, 0, 0,
		swpNoMove|swpNoSize|swpNoZOrder|swpNoActivate|swpFrameChanged)
	return nil
}

// SetIcon loads the image through a temporary file, which LoadImageW needs.
func (e *win32Engine) SetIcon(icon []byte) error {
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

	path, err := windows.UTF16PtrFromString(f.path)
	if err != nil {
		f.Remove()
		return err
	}
	hicon, _, callErr := procLoadImageW.Call(0, uintptr(unsafe.Pointer(path)), imageIcon, 0, 0, lrLoadFromFile|lrDefaultSize)
	if hicon == 0 {
		f.Remove()
		e.logger.Warn().Err(callErr).Msg("icon is not a loadable .ico image")
		return nil
	}
	_, _, _ = procSendMessageW.Call(uintptr(e.hwnd), wmSetIcon, iconSmall, hicon)
	_, _, _ = procSendMessageW.Call(uintptr(e.hwnd), wmSetIcon, iconBig, hicon)

	e.releaseIcon()
	e.icon, e.hicon = f, hicon
	return nil
}

func (e *win32Engine) releaseIcon() {
	if e.hicon != 0 {
		_, _, _ = procDestroyIcon.Call(e.hicon)
		e.hicon = 0
	}
	e.icon.Remove()
	e.icon = nil
}

func (e *win32Engine) Navigate(url string) error {
	if err := e.setTarget(url); err != nil {
		return err
	}
	e.chromium.Navigate(url)
	return nil
}

func (e *win32Engine) Init(script string) error {
	if err := e.addInit(script); err != nil {
		return err
	}
	e.chromium.Init(script)
	return nil
}

func (e *win32Engine) Eval(script string) error {
	if err := e.checkUI(); err != nil {
		return err
	}
	e.chromium.Eval(script)
	return nil
}

func (e *win32Engine) Run() error {
	if e.machine.Terminated() {
		return nil
	}
	if !e.onUIThread() {
		return ErrNotUIThread
	}

	e.logger.Debug().Msg("entering win32 message loop")
	var m winMsg
	for {
		r, _, err := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		switch int32(r) {
		case 0:
			return nil
		case -1:
			return fmt.Errorf("GetMessageW: %w", err)
		}
		_, _, _ = procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		_, _, _ = procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}
}

// Terminate posts WM_QUIT to the UI thread's queue.
func (e *win32Engine) Terminate() {
	if !e.terminate() {
		return
	}
	_, _, _ = procPostThreadMessageW.Call(uintptr(e.threadID), wmQuit, 0, 0)
}

func (e *win32Engine) Window() unsafe.Pointer {
	return nativePointer(uintptr(e.hwnd))
}

func (e *win32Engine) Destroy() {
	e.Terminate()
	if !e.onUIThread() {
		// DestroyWindow only works on the owning thread.
		e.logger.Warn().Msg("Destroy called off the UI thread; window left to process exit")
		return
	}
	e.destroyWindow()
	e.releaseIcon()
}

func (e *win32Engine) destroyWindow() {
	if e.hwnd == 0 {
		return
	}
	if !e.destroyed.Swap(true) {
		_, _, _ = procDestroyWindow.Call(uintptr(e.hwnd))
	}
	windowsMu.Lock()
	delete(windowsBy, e.hwnd)
	windowsMu.Unlock()
}

// defaultDataPath is %APPDATA%\<executable name>.
func defaultDataPath() string {
	exe, err := os.Executable()
	if err != nil {
		exe = "nativeview"
	}
	return filepath.Join(os.Getenv("APPDATA"), filepath.Base(exe))
}
