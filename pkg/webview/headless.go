package webview

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"unsafe"

	eventloop "github.com/joeycumines/go-eventloop"

	"github.com/bnema/nativeview/internal/bridge"
	"github.com/bnema/nativeview/internal/logging"
	"github.com/bnema/nativeview/internal/sizing"
)

// ErrAlreadyRunning is returned by Run while the loop is already running.
var ErrAlreadyRunning = errors.New("webview: Run is already active")

// Headless is a WebView without a window. Its UI loop is an in-process event
// loop and each navigation creates a fresh script runtime, so page scripts,
// init scripts and the message bridge behave as they do in a native engine.
type Headless struct {
	*core

	loop    *eventloop.Loop
	loader  Loader
	running atomic.Bool
	navGen  atomic.Uint64

	mu    sync.Mutex
	doc   *document
	title string
	size  sizing.Size
	icon  []byte
	loads int
}

var _ WebView = (*Headless)(nil)

// NewHeadless creates a headless WebView bound to the calling goroutine. The
// initial document is about:blank.
func NewHeadless(ctx context.Context, opts Options) (*Headless, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	opts = opts.withDefaults()

	loop, err := eventloop.New()
	if err != nil {
		return nil, fmt.Errorf("create headless loop: %w", err)
	}

	h := &Headless{
		loop:   loop,
		loader: opts.Loader,
		title:  opts.Title,
		size:   sizing.Size{Width: opts.Width, Height: opts.Height},
	}
	if h.loader == nil {
		h.loader = DefaultLoader
	}
	h.core = newCore(ctx, opts, bridge.ChannelHeadless, logging.ComponentHeadless, h.wake)

	if opts.Debug {
		h.logger.Debug().Msg("debug mode: console output logged at debug level")
	}

	h.load("about:blank")
	if _, err := h.setVisible(!opts.StartHidden); err != nil {
		_ = loop.Close()
		return nil, err
	}

	h.terminateWhenDone(ctx, h.Terminate)
	return h, nil
}

func (h *Headless) wake() {
	if err := h.loop.Submit(h.drain); err != nil {
		h.logger.Debug().Err(err).Msg("dispatch wake after loop shutdown")
	}
}

// Show makes the window visible.
func (h *Headless) Show() error {
	return h.onUI("show", func() error {
		_, err := h.setVisible(true)
		return err
	})
}

// Hide hides the window.
func (h *Headless) Hide() error {
	return h.onUI("hide", func() error {
		_, err := h.setVisible(false)
		return err
	})
}

// SetTitle sets the window title.
func (h *Headless) SetTitle(title string) error {
	if err := h.checkUI(); err != nil {
		return err
	}
	h.mu.Lock()
	h.title = title
	h.mu.Unlock()
	return nil
}

// SetSize applies a size request through the size policy.
func (h *Headless) SetSize(width, height int, hint Hint) error {
	plan, err := h.applySize(width, height, hint)
	if err != nil {
		return err
	}
	if plan.Resize {
		h.mu.Lock()
		h.size = plan.Size
		h.mu.Unlock()
	}
	return nil
}

// SetIcon stores a copy of the icon data.
func (h *Headless) SetIcon(icon []byte) error {
	if err := h.checkUI(); err != nil {
		return err
	}
	if len(icon) == 0 {
		return ErrInvalidIcon
	}
	h.mu.Lock()
	h.icon = append([]byte(nil), icon...)
	h.mu.Unlock()
	return nil
}

// Navigate loads url on the loop. Of several pending navigations only the
// last one loads.
func (h *Headless) Navigate(url string) error {
	if err := h.setTarget(url); err != nil {
		return err
	}
	gen := h.navGen.Add(1)
	if err := h.loop.Submit(func() {
		if h.navGen.Load() != gen {
			h.logger.Debug().Str("url", url).Msg("navigation superseded")
			return
		}
		h.load(url)
	}); err != nil {
		return ErrTerminated
	}
	return nil
}

// Init registers script for every later document.
func (h *Headless) Init(script string) error {
	return h.addInit(script)
}

// Eval runs script in the current document on the loop.
func (h *Headless) Eval(script string) error {
	if err := h.checkUI(); err != nil {
		return err
	}
	if err := h.loop.Submit(func() {
		if h.machine.Terminated() {
			return
		}
		h.mu.Lock()
		doc := h.doc
		h.mu.Unlock()
		if doc != nil {
			doc.run("eval.js", script)
		}
	}); err != nil {
		return ErrTerminated
	}
	return nil
}

// Run pumps the loop until Terminate. It returns nil at once when the view is
// already terminated.
func (h *Headless) Run() error {
	if h.machine.Terminated() {
		return nil
	}
	if !h.onUIThread() {
		return ErrNotUIThread
	}
	if !h.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer h.running.Store(false)

	h.logger.Debug().Msg("headless loop running")
	err := h.loop.Run(context.Background())
	if err != nil && !errors.Is(err, eventloop.ErrLoopTerminated) {
		return fmt.Errorf("headless loop: %w", err)
	}
	return nil
}

// Terminate stops the loop; Run returns once the loop has drained. It is
// safe from any goroutine, including callbacks running on the loop.
func (h *Headless) Terminate() {
	if !h.terminate() {
		return
	}
	h.mu.Lock()
	doc := h.doc
	h.mu.Unlock()
	if doc != nil {
		doc.vm.Interrupt(ErrTerminated)
	}
	// Close waits for the loop to finish, so it cannot run on the loop itself.
	if h.running.Load() && h.onUIThread() {
		go h.closeLoop()
		return
	}
	h.closeLoop()
}

func (h *Headless) closeLoop() {
	if err := h.loop.Close(); err != nil && !errors.Is(err, eventloop.ErrLoopTerminated) {
		h.logger.Debug().Err(err).Msg("close headless loop")
	}
}

// Window returns nil; a headless view has no native window.
func (h *Headless) Window() unsafe.Pointer {
	return nil
}

// Destroy terminates and drops the current document.
func (h *Headless) Destroy() {
	h.Terminate()
	h.mu.Lock()
	h.doc = nil
	h.mu.Unlock()
}

// load replaces the current document with the one at url and runs the init
// scripts then the inline page scripts.
func (h *Headless) load(url string) {
	if h.machine.Terminated() {
		return
	}

	page, err := h.loader(h.ctx, url)
	if err != nil {
		h.logger.Warn().Err(err).Str("url", url).Msg("navigation failed")
		return
	}

	doc, err := newDocument(url, h.logger, h.post)
	if err != nil {
		h.logger.Error().Err(err).Str("url", url).Msg("create document")
		return
	}

	h.mu.Lock()
	h.doc = doc
	h.loads++
	h.mu.Unlock()

	for i, script := range h.registry.Scripts() {
		if !doc.run("init-"+strconv.Itoa(i)+".js", script) {
			return
		}
	}
	for i, script := range inlineScripts(page) {
		if !doc.run("page-"+strconv.Itoa(i)+".js", script) {
			return
		}
	}
	doc.markLoaded()
}

// post is window.__nativeview.postMessage; delivery is asynchronous.
func (h *Headless) post(body string) {
	if err := h.loop.Submit(func() { h.deliver(body) }); err != nil {
		h.logger.Debug().Err(err).Msg("message posted after shutdown")
	}
}

// SimulateUserResize resizes the window as a user drag would: ignored when
// the window is not resizable, clamped to the MIN and MAX bounds otherwise.
// It returns the resulting size.
func (h *Headless) SimulateUserResize(width, height int) sizing.Size {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.policy.Resizable() {
		return h.size
	}
	h.size = h.policy.Clamp(sizing.Size{Width: width, Height: height})
	return h.size
}

// SimulateClose behaves like the user closing the window.
func (h *Headless) SimulateClose() {
	if h.closeRequested() {
		return
	}
	h.Terminate()
}

// Size returns the current content size.
func (h *Headless) Size() sizing.Size {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.size
}

// Resizable reports whether the user may resize the window.
func (h *Headless) Resizable() bool {
	return h.policy.Resizable()
}

// Visible reports whether the window is shown.
func (h *Headless) Visible() bool {
	return h.State() == StateShown
}

// Title returns the window title.
func (h *Headless) Title() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.title
}

// Icon returns the last icon set.
func (h *Headless) Icon() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.icon
}

// URL returns the URL of the current document.
func (h *Headless) URL() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.doc == nil {
		return ""
	}
	return h.doc.url
}

// Loads returns how many documents have been created, about:blank included.
func (h *Headless) Loads() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loads
}
