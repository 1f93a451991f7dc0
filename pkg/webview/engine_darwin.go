//go:build darwin && cgo

package webview

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa -framework WebKit
#include "engine_darwin.h"
#include <stdlib.h>
*/
import "C"

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/bnema/nativeview/internal/bridge"
	"github.com/bnema/nativeview/internal/logging"
)

func init() {
	// AppKit only runs on the process main thread.
	runtime.LockOSThread()
}

var (
	appOnce sync.Once

	enginesMu sync.Mutex
	engines   = make(map[uintptr]*cocoaEngine)
	nextID    uintptr
)

func storeEngine(e *cocoaEngine) uintptr {
	enginesMu.Lock()
	defer enginesMu.Unlock()
	nextID++
	engines[nextID] = e
	return nextID
}

func loadEngine(id uintptr) *cocoaEngine {
	enginesMu.Lock()
	defer enginesMu.Unlock()
	return engines[id]
}

func forgetEngine(id uintptr) {
	enginesMu.Lock()
	defer enginesMu.Unlock()
	delete(engines, id)
}

// cocoaEngine hosts a WKWebView in an NSWindow.
type cocoaEngine struct {
	*core

	id  uintptr
	win *C.nv_window
}

func newEngine(ctx context.Context, opts Options) (WebView, error) {
	if C.nv_is_main_thread() == 0 {
		return nil, fmt.Errorf("%w: New must be called from the main goroutine on macOS", ErrNotUIThread)
	}
	appOnce.Do(func() { C.nv_app_init() })

	e := &cocoaEngine{}
	e.core = newCore(ctx, opts, bridge.ChannelWebKit, logging.ComponentCocoa, e.wake)
	e.id = storeEngine(e)

	handler := C.CString(bridge.HandlerName)
	defer C.free(unsafe.Pointer(handler))
	debug := C.int(0)
	if opts.Debug {
		debug = 1
	}
	e.win = C.nv_window_new(C.uintptr_t(e.id), C.int(opts.Width), C.int(opts.Height), debug, handler)
	if e.win == nil {
		forgetEngine(e.id)
		return nil, fatal(ctx, "Cannot create web view", errors.New("WKWebView could not be created"))
	}

	for _, script := range e.registry.Scripts() {
		e.addUserScript(script)
	}
	e.setTitle(opts.Title)

	visible := !opts.StartHidden
	if _, err := e.setVisible(visible); err != nil {
		return nil, err
	}
	if visible {
		C.nv_window_show(e.win)
	}

	e.terminateWhenDone(ctx, e.Terminate)
	e.logger.Debug().Int("width", opts.Width).Int("height", opts.Height).Msg("cocoa window created")
	return e, nil
}

func (e *cocoaEngine) wake() {
	C.nv_dispatch_main(C.uintptr_t(e.id))
}

func (e *cocoaEngine) addUserScript(src string) {
	cs := C.CString(src)
	defer C.free(unsafe.Pointer(cs))
	C.nv_window_add_user_script(e.win, cs)
}

func (e *cocoaEngine) setTitle(title string) {
	cs := C.CString(title)
	defer C.free(unsafe.Pointer(cs))
	C.nv_window_set_title(e.win, cs)
}

func (e *cocoaEngine) Show() error {
	return e.onUI("show", func() error {
		changed, err := e.setVisible(true)
		if err == nil && changed {
			C.nv_window_show(e.win)
		}
		return err
	})
}

func (e *cocoaEngine) Hide() error {
	return e.onUI("hide", func() error {
		changed, err := e.setVisible(false)
		if err == nil && changed {
			C.nv_window_hide(e.win)
		}
		return err
	})
}

func (e *cocoaEngine) SetTitle(title string) error {
	if err := e.checkUI(); err != nil {
		return err
	}
	e.setTitle(title)
	return nil
}

func (e *cocoaEngine) SetSize(width, height int, hint Hint) error {
	plan, err := e.applySize(width, height, hint)
	if err != nil {
		return err
	}
	C.nv_window_set_resizable(e.win, cBool(plan.Resizable))
	C.nv_window_set_min_size(e.win, C.int(plan.Min.Width), C.int(plan.Min.Height))
	C.nv_window_set_max_size(e.win, C.int(plan.Max.Width), C.int(plan.Max.Height))
	if plan.Resize {
		C.nv_window_set_size(e.win, C.int(plan.Size.Width), C.int(plan.Size.Height))
	}
	return nil
}

// SetIcon sets the application icon; AppKit decodes the image from memory.
func (e *cocoaEngine) SetIcon(icon []byte) error {
	if err := e.checkUI(); err != nil {
		return err
	}
	if len(icon) == 0 {
		return ErrInvalidIcon
	}
	if C.nv_app_set_icon(unsafe.Pointer(&icon[0]), C.int(len(icon))) == 0 {
		e.logger.Warn().Int("bytes", len(icon)).Msg("icon data could not be decoded")
	}
	return nil
}

func (e *cocoaEngine) Navigate(url string) error {
	if err := e.setTarget(url); err != nil {
		return err
	}
	cs := C.CString(url)
	defer C.free(unsafe.Pointer(cs))
	C.nv_window_navigate(e.win, cs)
	return nil
}

func (e *cocoaEngine) Init(script string) error {
	if err := e.addInit(script); err != nil {
		return err
	}
	e.addUserScript(script)
	return nil
}

func (e *cocoaEngine) Eval(script string) error {
	if err := e.checkUI(); err != nil {
		return err
	}
	cs := C.CString(script)
	defer C.free(unsafe.Pointer(cs))
	C.nv_window_eval(e.win, cs)
	return nil
}

func (e *cocoaEngine) Run() error {
	if e.machine.Terminated() {
		return nil
	}
	if !e.onUIThread() {
		return ErrNotUIThread
	}
	e.logger.Debug().Msg("entering cocoa run loop")
	C.nv_app_run()
	return nil
}

func (e *cocoaEngine) Terminate() {
	if !e.terminate() {
		return
	}
	C.nv_app_stop()
}

func (e *cocoaEngine) Window() unsafe.Pointer {
	if e.win == nil {
		return nil
	}
	return C.nv_window_handle(e.win)
}

func (e *cocoaEngine) Destroy() {
	e.Terminate()
	if e.onUIThread() {
		e.release()
		return
	}
	C.nv_release_main(C.uintptr_t(e.id))
}

func (e *cocoaEngine) release() {
	if e.win != nil {
		C.nv_window_destroy(e.win)
		e.win = nil
	}
	forgetEngine(e.id)
}

func cBool(b bool) C.int {
	if b {
		return 1
	}
	return 0
}

//export goNativeviewMessage
func goNativeviewMessage(id C.uintptr_t, msg *C.char) {
	if e := loadEngine(uintptr(id)); e != nil {
		e.deliver(C.GoString(msg))
	}
}

//export goNativeviewClose
func goNativeviewClose(id C.uintptr_t) C.int {
	e := loadEngine(uintptr(id))
	if e == nil {
		return 0
	}
	if e.closeRequested() {
		return 1
	}
	e.Terminate()
	return 0
}

//export goNativeviewDrain
func goNativeviewDrain(id C.uintptr_t) {
	if e := loadEngine(uintptr(id)); e != nil {
		e.drain()
	}
}

//export goNativeviewRelease
func goNativeviewRelease(id C.uintptr_t) {
	if e := loadEngine(uintptr(id)); e != nil {
		e.release()
	}
}
